// Package content renders the informational pages (about, shipping,
// terms, ...) from markdown.
package content

import (
	"bufio"
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io/fs"
	"path"
	"sort"
	"strings"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"

	"atelier/internal/domain"
)

//go:embed pages/*.md
var embedded embed.FS

type Page struct {
	Slug     string
	Title    string
	Markdown string
	HTML     template.HTML
}

// Library holds every page rendered once at load time.
type Library struct {
	pages map[string]Page
}

var (
	md = goldmark.New(
		goldmark.WithExtensions(extension.GFM, extension.Typographer),
		goldmark.WithParserOptions(parser.WithAutoHeadingID()),
	)
	policy = bluemonday.UGCPolicy()
)

// Load renders the embedded pages.
func Load() (*Library, error) {
	sub, err := fs.Sub(embedded, "pages")
	if err != nil {
		return nil, err
	}
	return LoadFS(sub)
}

// LoadFS renders every *.md file at the root of fsys. The file name is the
// slug and the first "# " heading is the title.
func LoadFS(fsys fs.FS) (*Library, error) {
	names, err := fs.Glob(fsys, "*.md")
	if err != nil {
		return nil, err
	}
	lib := &Library{pages: make(map[string]Page, len(names))}
	for _, name := range names {
		src, err := fs.ReadFile(fsys, name)
		if err != nil {
			return nil, err
		}
		slug := strings.TrimSuffix(path.Base(name), ".md")
		title, body := splitTitle(src)
		html, err := Render(body)
		if err != nil {
			return nil, fmt.Errorf("content: %s: %w", name, err)
		}
		if title == "" {
			title = slug
		}
		lib.pages[slug] = Page{Slug: slug, Title: title, Markdown: string(src), HTML: html}
	}
	return lib, nil
}

// Render converts markdown to sanitized HTML.
func Render(src []byte) (template.HTML, error) {
	var buf bytes.Buffer
	if err := md.Convert(src, &buf); err != nil {
		return "", err
	}
	return template.HTML(policy.SanitizeBytes(buf.Bytes())), nil
}

// splitTitle pulls the first level-one heading out of src.
func splitTitle(src []byte) (string, []byte) {
	var (
		title string
		rest  bytes.Buffer
	)
	sc := bufio.NewScanner(bytes.NewReader(src))
	for sc.Scan() {
		line := sc.Text()
		if t, ok := strings.CutPrefix(line, "# "); ok && title == "" {
			title = strings.TrimSpace(t)
			continue
		}
		rest.WriteString(line)
		rest.WriteByte('\n')
	}
	return title, rest.Bytes()
}

func (l *Library) Page(slug string) (Page, error) {
	p, ok := l.pages[slug]
	if !ok {
		return Page{}, fmt.Errorf("page %q: %w", slug, domain.ErrNotFound)
	}
	return p, nil
}

func (l *Library) Slugs() []string {
	out := make([]string, 0, len(l.pages))
	for s := range l.pages {
		out = append(out, s)
	}
	sort.Strings(out)
	return out
}
