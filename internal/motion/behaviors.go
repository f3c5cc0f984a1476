package motion

import (
	"fmt"
	"strings"
	"time"
)

type span struct{ start, end float64 }

type region int

const (
	before region = iota
	active
	after
)

func (sp span) progress(y float64) float64 {
	if sp.end <= sp.start {
		if y >= sp.start {
			return 1
		}
		return 0
	}
	return clamp01((y - sp.start) / (sp.end - sp.start))
}

func (sp span) region(y float64) region {
	switch {
	case y < sp.start:
		return before
	case y > sp.end:
		return after
	}
	return active
}

// resolveSpan turns a trigger's start and end into scroll offsets for el.
func (s *Stage) resolveSpan(el *Element, start, end string) (span, error) {
	st, err := ParseEdge(start)
	if err != nil {
		return span{}, err
	}
	vh := s.viewport.Height
	sp := span{start: el.Rect.Top + st.Element*el.Rect.Height - st.Viewport*vh}
	if strings.HasPrefix(strings.TrimSpace(end), "+=") {
		d, err := ParseDistance(end)
		if err != nil {
			return span{}, err
		}
		sp.end = sp.start + d.resolve(vh)
		return sp, nil
	}
	en, err := ParseEdge(end)
	if err != nil {
		return span{}, err
	}
	sp.end = el.Rect.Top + en.Element*el.Rect.Height - en.Viewport*vh
	return sp, nil
}

// toggle tracks which side of a span the scroll position is on and fires
// the matching action when it crosses an edge.
type toggle struct {
	span    span
	actions Actions
	at      region
}

func (t *toggle) update(y float64, apply func(Action)) {
	next := t.span.region(y)
	prev := t.at
	t.at = next
	if next == prev {
		return
	}
	if next > prev {
		if prev == before {
			apply(t.actions.OnEnter)
		}
		if next == after {
			apply(t.actions.OnLeave)
		}
		return
	}
	if prev == after {
		apply(t.actions.OnEnterBack)
	}
	if next == before {
		apply(t.actions.OnLeaveBack)
	}
}

// Reveal animates el from cfg.From to cfg.To as it scrolls into view. The
// From state applies immediately; an element already past the start when
// registered plays at once.
func (s *Stage) Reveal(el *Element, cfg Reveal) Teardown {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.live(el) {
		return noop
	}
	sp, err := s.resolveSpan(el, cfg.Trigger.Start, cfg.Trigger.End)
	if err != nil {
		return noop
	}
	l := el.addLayer(cfg.From)

	if cfg.Trigger.Scrub {
		update := func(y float64) { s.scrub(l, cfg.From.lerp(cfg.To, sp.progress(y)), cfg.Trigger.Lag) }
		update(s.scrollY)
		return s.register(&observer{kind: scrollObserver, el: el, scroll: update, layers: []*layer{l}})
	}

	ease := mustEase(cfg.Tween.Ease)
	apply := func(a Action) {
		switch a {
		case ActionPlay:
			l.animate(cfg.To, cfg.Tween.Duration, cfg.Tween.Delay, ease)
		case ActionReverse:
			l.animate(cfg.From, cfg.Tween.Duration, 0, ease)
		case ActionReset:
			l.set(cfg.From)
		case ActionComplete:
			l.set(cfg.To)
		}
	}
	tg := &toggle{span: sp, actions: cfg.Trigger.Actions}
	update := func(y float64) { tg.update(y, apply) }
	update(s.scrollY)
	return s.register(&observer{kind: scrollObserver, el: el, scroll: update, layers: []*layer{l}})
}

func (s *Stage) scrub(l *layer, to State, lag time.Duration) {
	if lag > 0 {
		l.animate(to, lag, 0, Linear)
		return
	}
	l.set(to)
}

// Parallax offsets el vertically in linear proportion to scroll progress
// through its span, clamped at both ends.
func (s *Stage) Parallax(el *Element, cfg Parallax) Teardown {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.live(el) {
		return noop
	}
	tr := cfg.trigger()
	sp, err := s.resolveSpan(el, tr.Start, tr.End)
	if err != nil {
		return noop
	}
	l := el.addLayer(Rest())
	travel := cfg.travel()
	update := func(y float64) {
		st := Rest()
		st.Y = travel * sp.progress(y)
		l.set(st)
	}
	update(s.scrollY)
	return s.register(&observer{kind: scrollObserver, el: el, scroll: update})
}

// Pin holds target in place while the page scrolls cfg.Distance past the
// point where trigger meets cfg.Start. Tearing it down unpins the target.
func (s *Stage) Pin(trigger, target *Element, cfg Pin) Teardown {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.live(trigger) || !s.live(target) {
		return noop
	}
	sp, err := s.resolveSpan(trigger, cfg.Start, cfg.Distance)
	if err != nil {
		return noop
	}
	hold := target.addLayer(Rest())
	slide := target.addLayer(Rest())
	update := func(y float64) {
		target.pinned = sp.region(y) == active && sp.end > sp.start
		st := Rest()
		st.Y = clamp(y-sp.start, 0, sp.end-sp.start)
		hold.set(st)
		if cfg.Horizontal {
			x := Rest()
			x.X = -cfg.Travel * sp.progress(y)
			s.scrub(slide, x, cfg.Lag)
		}
	}
	update(s.scrollY)
	return s.register(&observer{
		kind:   scrollObserver,
		el:     target,
		scroll: update,
		layers: []*layer{hold, slide},
		cleanup: func() {
			target.pinned = false
			hold.set(Rest())
		},
	})
}

func clamp(v, lo, hi float64) float64 {
	if hi < lo {
		hi = lo
	}
	switch {
	case v < lo:
		return lo
	case v > hi:
		return hi
	}
	return v
}

// Magnetic pulls el toward the pointer while it hovers the element and
// springs it back when the pointer leaves.
func (s *Stage) Magnetic(el *Element, cfg Magnetic) Teardown {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.live(el) {
		return noop
	}
	l := el.addLayer(Rest())
	ease := mustEase(cfg.Tween.Ease)
	inside := false
	release := func() {
		if inside {
			inside = false
			l.animate(Rest(), cfg.Tween.Duration, 0, ease)
		}
	}
	return s.register(&observer{
		kind:   pointerObserver,
		el:     el,
		layers: []*layer{l},
		pointer: func(ev pointerEvent) {
			if ev.leave {
				release()
				return
			}
			r := el.viewportRect(s.scrollY)
			if !r.contains(ev.x, ev.y) {
				release()
				return
			}
			inside = true
			st := Rest()
			st.X = (ev.x - (r.Left + r.Width/2)) * cfg.Strength
			st.Y = (ev.y - (r.Top + r.Height/2)) * cfg.Strength
			l.animate(st, cfg.Tween.Duration, 0, ease)
		},
	})
}

// RevealText splits el.Text into segments mounted as child elements and
// staggers their entrance. The segments are returned in reading order.
func (s *Stage) RevealText(el *Element, cfg SplitText) ([]*Element, Teardown) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.live(el) {
		return nil, noop
	}
	sp, err := s.resolveSpan(el, cfg.Trigger.Start, cfg.Trigger.End)
	if err != nil {
		return nil, noop
	}
	segs := Split(el.Text, cfg.Mode)
	children := make([]*Element, 0, len(segs))
	layers := make([]*layer, 0, len(segs))
	for _, seg := range segs {
		child := &Element{
			ID:     fmt.Sprintf("%s/%d", el.ID, seg.Index),
			Rect:   el.Rect,
			Text:   seg.Text,
			stage:  s,
			parent: el,
		}
		layers = append(layers, child.addLayer(cfg.From))
		children = append(children, child)
		s.elements = append(s.elements, child)
	}

	ease := mustEase(cfg.Tween.Ease)
	apply := func(a Action) {
		for i, l := range layers {
			delay := cfg.Tween.Delay + time.Duration(i)*cfg.Tween.Stagger
			switch a {
			case ActionPlay:
				l.animate(Rest(), cfg.Tween.Duration, delay, ease)
			case ActionReverse:
				l.animate(cfg.From, cfg.Tween.Duration, 0, ease)
			case ActionReset:
				l.set(cfg.From)
			case ActionComplete:
				l.set(Rest())
			}
		}
	}
	tg := &toggle{span: sp, actions: cfg.Trigger.Actions}
	update := func(y float64) { tg.update(y, apply) }
	update(s.scrollY)
	return children, s.register(&observer{kind: scrollObserver, el: el, scroll: update, layers: layers})
}
