package main

import (
	"fmt"

	"github.com/charmbracelet/glamour"
	"github.com/spf13/cobra"

	"atelier/internal/content"
)

var (
	pagesStyle string
	pagesWidth int
)

var pagesCmd = &cobra.Command{
	Use:   "pages",
	Short: "Inspect the informational pages",
	Long: `List and preview the markdown pages served under /pages.

Subcommands:
  list   - List page slugs and titles
  show   - Render a page in the terminal`,
	RunE: runPagesList,
}

var pagesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List page slugs and titles",
	Args:  cobra.NoArgs,
	RunE:  runPagesList,
}

var pagesShowCmd = &cobra.Command{
	Use:   "show <slug>",
	Short: "Render a page in the terminal",
	Args:  cobra.ExactArgs(1),
	RunE:  runPagesShow,
}

func runPagesList(cmd *cobra.Command, args []string) error {
	lib, err := content.Load()
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	for _, slug := range lib.Slugs() {
		p, err := lib.Page(slug)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "%-16s %s\n", slug, mutedStyle.Render(p.Title))
	}
	return nil
}

func runPagesShow(cmd *cobra.Command, args []string) error {
	lib, err := content.Load()
	if err != nil {
		return err
	}
	p, err := lib.Page(args[0])
	if err != nil {
		return err
	}

	style := glamour.WithAutoStyle()
	if pagesStyle != "" && pagesStyle != "auto" {
		style = glamour.WithStandardStyle(pagesStyle)
	}
	r, err := glamour.NewTermRenderer(style, glamour.WithWordWrap(pagesWidth))
	if err != nil {
		return fmt.Errorf("markdown renderer: %w", err)
	}
	rendered, err := r.Render(p.Markdown)
	if err != nil {
		return fmt.Errorf("render %s: %w", p.Slug, err)
	}
	fmt.Fprint(cmd.OutOrStdout(), rendered)
	return nil
}
