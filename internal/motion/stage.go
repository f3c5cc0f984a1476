package motion

import (
	"sync"
	"time"
)

// Rect is an element box in document coordinates.
type Rect struct {
	Top    float64
	Left   float64
	Width  float64
	Height float64
}

type Viewport struct {
	Width  float64
	Height float64
}

// Teardown detaches a behavior. Calling it more than once is harmless.
type Teardown func()

func noop() {}

// Element is a box mounted on a Stage. Behaviors attach to elements; a
// nil or removed element makes every behavior a no-op.
type Element struct {
	ID   string
	Rect Rect
	Text string

	stage   *Stage
	parent  *Element
	layers  []*layer
	removed bool
	pinned  bool
}

type layer struct {
	state State
	tw    *tween
}

type tween struct {
	from    State
	to      State
	delay   time.Duration
	dur     time.Duration
	elapsed time.Duration
	ease    Ease
}

func (tw *tween) at() State {
	t := tw.elapsed - tw.delay
	if t <= 0 {
		return tw.from
	}
	if tw.dur <= 0 || t >= tw.dur {
		return tw.to
	}
	return tw.from.lerp(tw.to, tw.ease(float64(t)/float64(tw.dur)))
}

func (tw *tween) done() bool { return tw.elapsed >= tw.delay+tw.dur }

func (l *layer) set(s State) {
	l.state = s
	l.tw = nil
}

// animate starts a tween from wherever the layer currently is.
func (l *layer) animate(to State, dur, delay time.Duration, ease Ease) {
	if dur <= 0 && delay <= 0 {
		l.set(to)
		return
	}
	l.tw = &tween{from: l.state, to: to, dur: dur, delay: delay, ease: ease}
}

func (el *Element) addLayer(initial State) *layer {
	l := &layer{state: initial}
	el.layers = append(el.layers, l)
	return l
}

func (el *Element) viewportRect(scrollY float64) Rect {
	r := el.Rect
	r.Top -= scrollY
	return r
}

func (r Rect) contains(x, y float64) bool {
	return x >= r.Left && x <= r.Left+r.Width && y >= r.Top && y <= r.Top+r.Height
}

type observerKind int

const (
	scrollObserver observerKind = iota
	pointerObserver
)

type pointerEvent struct {
	x, y  float64
	leave bool
}

type observer struct {
	id      int
	kind    observerKind
	el      *Element
	scroll  func(y float64)
	pointer func(ev pointerEvent)
	cleanup func()
	// layers stop where they are when the observer is torn down.
	layers []*layer
}

// Stage is a headless page: a viewport, a scroll position, a pointer and
// the behaviors observing them. It is created explicitly by whoever owns
// the page lifecycle; there is no package-level registry.
type Stage struct {
	mu        sync.Mutex
	viewport  Viewport
	scrollY   float64
	elements  []*Element
	observers []*observer
	nextID    int
}

func NewStage(vp Viewport) *Stage {
	return &Stage{viewport: vp}
}

func (s *Stage) Mount(id string, r Rect) *Element {
	s.mu.Lock()
	defer s.mu.Unlock()
	el := &Element{ID: id, Rect: r, stage: s}
	s.elements = append(s.elements, el)
	return el
}

// Remove unmounts el and its text segments and drops every observer
// attached to them.
func (s *Stage) Remove(el *Element) {
	if el == nil {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if el.stage != s || el.removed {
		return
	}
	gone := func(e *Element) bool { return e == el || e.parent == el }

	kept := s.observers[:0]
	for _, o := range s.observers {
		if gone(o.el) {
			if o.cleanup != nil {
				o.cleanup()
			}
			continue
		}
		kept = append(kept, o)
	}
	s.observers = kept

	els := s.elements[:0]
	for _, e := range s.elements {
		if gone(e) {
			e.removed = true
			continue
		}
		els = append(els, e)
	}
	s.elements = els
}

func (s *Stage) live(el *Element) bool {
	return el != nil && el.stage == s && !el.removed
}

func (s *Stage) register(o *observer) Teardown {
	s.nextID++
	o.id = s.nextID
	s.observers = append(s.observers, o)
	id := o.id
	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		s.unregister(id)
	}
}

func (s *Stage) unregister(id int) {
	for i, o := range s.observers {
		if o.id != id {
			continue
		}
		s.observers = append(s.observers[:i], s.observers[i+1:]...)
		for _, l := range o.layers {
			l.tw = nil
		}
		if o.cleanup != nil {
			o.cleanup()
		}
		return
	}
}

// ObserverCount is the number of live scroll and pointer observers.
func (s *Stage) ObserverCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.observers)
}

func (s *Stage) ScrollY() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.scrollY
}

// Scroll moves the page to y and notifies scroll observers in
// registration order.
func (s *Stage) Scroll(y float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if y < 0 {
		y = 0
	}
	s.scrollY = y
	for _, o := range s.observers {
		if o.kind == scrollObserver {
			o.scroll(y)
		}
	}
}

// PointerMove reports the pointer at viewport coordinates (x, y).
func (s *Stage) PointerMove(x, y float64) {
	s.dispatchPointer(pointerEvent{x: x, y: y})
}

// PointerLeave reports the pointer leaving the page.
func (s *Stage) PointerLeave() {
	s.dispatchPointer(pointerEvent{leave: true})
}

func (s *Stage) dispatchPointer(ev pointerEvent) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, o := range s.observers {
		if o.kind == pointerObserver {
			o.pointer(ev)
		}
	}
}

// Advance moves every running tween forward by dt.
func (s *Stage) Advance(dt time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, el := range s.elements {
		for _, l := range el.layers {
			if l.tw == nil {
				continue
			}
			l.tw.elapsed += dt
			l.state = l.tw.at()
			if l.tw.done() {
				l.tw = nil
			}
		}
	}
}

// Settle jumps every running tween to its end.
func (s *Stage) Settle() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, el := range s.elements {
		for _, l := range el.layers {
			if l.tw != nil {
				l.set(l.tw.to)
			}
		}
	}
}

// Transform is the element's composed visual state. Elements that were
// never animated are at rest.
func (s *Stage) Transform(el *Element) State {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := Rest()
	if el == nil {
		return out
	}
	for _, l := range el.layers {
		out = out.compose(l.state)
	}
	return out
}

func (s *Stage) Pinned(el *Element) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return el != nil && el.pinned
}
