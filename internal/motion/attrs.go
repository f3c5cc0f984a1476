package motion

import (
	"fmt"
	"html/template"
	"strconv"
	"strings"
	"time"
)

// attrs accumulates data-motion-* attributes in insertion order.
type attrs struct {
	b strings.Builder
}

func (a *attrs) add(key, val string) {
	if a.b.Len() > 0 {
		a.b.WriteByte(' ')
	}
	a.b.WriteString(key)
	a.b.WriteString(`="`)
	a.b.WriteString(template.HTMLEscapeString(val))
	a.b.WriteByte('"')
}

func (a *attrs) html() template.HTMLAttr { return template.HTMLAttr(a.b.String()) }

func ms(d time.Duration) string { return strconv.FormatInt(d.Milliseconds(), 10) }

func (a *attrs) trigger(t Trigger) {
	a.add("data-motion-start", t.Start)
	a.add("data-motion-end", t.End)
	if t.Scrub {
		a.add("data-motion-scrub", ms(t.Lag))
		return
	}
	a.add("data-motion-actions", t.Actions.String())
}

func (a *attrs) tween(t Tween) {
	a.add("data-motion-duration", ms(t.Duration))
	a.add("data-motion-ease", t.Ease)
	if t.Delay > 0 {
		a.add("data-motion-delay", ms(t.Delay))
	}
	if t.Stagger > 0 {
		a.add("data-motion-stagger", ms(t.Stagger))
	}
}

func (r Reveal) Attrs() template.HTMLAttr {
	var a attrs
	a.add("data-motion", "reveal")
	a.add("data-motion-from", r.From.encode())
	a.add("data-motion-to", r.To.encode())
	a.trigger(r.Trigger)
	a.tween(r.Tween)
	return a.html()
}

func (p Parallax) Attrs() template.HTMLAttr {
	var a attrs
	a.add("data-motion", "parallax")
	a.add("data-motion-travel", num(p.travel()))
	a.trigger(p.trigger())
	return a.html()
}

func (p Pin) Attrs() template.HTMLAttr {
	var a attrs
	if p.Horizontal {
		a.add("data-motion", "hscroll")
	} else {
		a.add("data-motion", "pin")
	}
	a.add("data-motion-start", p.Start)
	// The browser measures horizontal travel itself; Distance only applies
	// to plain pins.
	if !p.Horizontal {
		a.add("data-motion-end", p.Distance)
	}
	if p.Lag > 0 {
		a.add("data-motion-scrub", ms(p.Lag))
	}
	return a.html()
}

func (m Magnetic) Attrs() template.HTMLAttr {
	var a attrs
	a.add("data-motion", "magnetic")
	a.add("data-motion-strength", num(m.Strength))
	a.tween(m.Tween)
	return a.html()
}

func (t SplitText) Attrs() template.HTMLAttr {
	var a attrs
	a.add("data-motion", "split")
	a.add("data-motion-mode", string(t.Mode))
	a.add("data-motion-from", t.From.encode())
	a.trigger(t.Trigger)
	a.tween(t.Tween)
	return a.html()
}

// RevealPreset returns the named reveal: "fade" (the default), "scale" or
// "clip".
func RevealPreset(name string) (Reveal, error) {
	switch name {
	case "", "fade":
		return DefaultReveal(), nil
	case "scale":
		return ScaleReveal(), nil
	case "clip":
		return ClipReveal(), nil
	}
	return Reveal{}, fmt.Errorf("motion: unknown reveal preset %q", name)
}

// TemplateFuncs exposes the behaviors to html templates:
//
//	<section {{ reveal "fade" }}>
//	<div {{ reveal "scale" (stagger $i 100) }}>
//	<img {{ parallax 0.3 "up" }}>
//	<h1 {{ split "chars" }} aria-label="{{ .Title }}">{{ splitText .Title "chars" }}</h1>
func TemplateFuncs() map[string]interface{} {
	return map[string]interface{}{
		"reveal": func(preset string, delayMs ...int) (template.HTMLAttr, error) {
			r, err := RevealPreset(preset)
			if err != nil {
				return "", err
			}
			if len(delayMs) > 0 {
				r.Tween.Delay = time.Duration(delayMs[0]) * time.Millisecond
			}
			return r.Attrs(), nil
		},
		"parallax": func(speed interface{}, dir string) (template.HTMLAttr, error) {
			f, err := toFloat(speed)
			if err != nil {
				return "", err
			}
			d := Direction(dir)
			if d != Up && d != Down {
				return "", fmt.Errorf("motion: unknown direction %q", dir)
			}
			return Parallax{Speed: f, Direction: d}.Attrs(), nil
		},
		"pin":     func() template.HTMLAttr { return DefaultPin().Attrs() },
		"hscroll": func() template.HTMLAttr { return HorizontalScroll(0).Attrs() },
		"magnetic": func(strength ...interface{}) (template.HTMLAttr, error) {
			m := DefaultMagnetic()
			if len(strength) > 0 {
				f, err := toFloat(strength[0])
				if err != nil {
					return "", err
				}
				m.Strength = f
			}
			return m.Attrs(), nil
		},
		"split": func(mode string) template.HTMLAttr {
			t := DefaultSplitText()
			if mode == string(ByWord) {
				t.Mode = ByWord
			}
			return t.Attrs()
		},
		"splitText": SplitHTML,
		"stagger": func(i, stepMs int) int { return i * stepMs },
	}
}

// SplitHTML renders text as one aria-hidden span per segment, each
// carrying its stagger index for the runtime.
func SplitHTML(text, mode string) template.HTML {
	m := ByChar
	if mode == string(ByWord) {
		m = ByWord
	}
	var b strings.Builder
	for i, seg := range Split(text, m) {
		if m == ByWord && i > 0 {
			b.WriteByte(' ')
		}
		fmt.Fprintf(&b, `<span class="motion-seg" aria-hidden="true" style="--motion-i:%d">%s</span>`,
			seg.Index, template.HTMLEscapeString(seg.Text))
	}
	return template.HTML(b.String())
}

func toFloat(v interface{}) (float64, error) {
	switch n := v.(type) {
	case float64:
		return n, nil
	case float32:
		return float64(n), nil
	case int:
		return float64(n), nil
	case int64:
		return float64(n), nil
	case string:
		return strconv.ParseFloat(n, 64)
	}
	return 0, fmt.Errorf("motion: want a number, got %T", v)
}
