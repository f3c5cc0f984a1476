// Package motion describes the storefront's scroll and pointer animation
// behaviors as explicit configuration records, renders them as data
// attributes for the browser runtime (web/static/js/motion.js), and runs
// the same behaviors headlessly on a Stage.
//
// Stage is the reference model of the behaviors: motion.js mirrors its
// trigger spans, easing, scrub and teardown rules, and a change to one
// needs the matching change in the other. In both, a torn-down behavior
// never touches its element again, including scroll frames or tweens
// already queued.
package motion

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// State is a visual transform. The zero value is not the resting state;
// use Rest.
type State struct {
	X       float64
	Y       float64
	Scale   float64
	Opacity float64
	RotateX float64
	// ClipTop is the top inset of a clip-path reveal, in percent.
	ClipTop float64
}

func Rest() State { return State{Scale: 1, Opacity: 1} }

func (s State) lerp(to State, t float64) State {
	mix := func(a, b float64) float64 { return a + (b-a)*t }
	return State{
		X:       mix(s.X, to.X),
		Y:       mix(s.Y, to.Y),
		Scale:   mix(s.Scale, to.Scale),
		Opacity: mix(s.Opacity, to.Opacity),
		RotateX: mix(s.RotateX, to.RotateX),
		ClipTop: mix(s.ClipTop, to.ClipTop),
	}
}

// compose stacks b on top of s: translations and rotation add, scale and
// opacity multiply, clip takes the larger inset.
func (s State) compose(b State) State {
	out := State{
		X:       s.X + b.X,
		Y:       s.Y + b.Y,
		Scale:   s.Scale * b.Scale,
		Opacity: s.Opacity * b.Opacity,
		RotateX: s.RotateX + b.RotateX,
		ClipTop: s.ClipTop,
	}
	if b.ClipTop > out.ClipTop {
		out.ClipTop = b.ClipTop
	}
	return out
}

func (s State) encode() string {
	return fmt.Sprintf("x:%s;y:%s;scale:%s;opacity:%s;rotateX:%s;clip:%s",
		num(s.X), num(s.Y), num(s.Scale), num(s.Opacity), num(s.RotateX), num(s.ClipTop))
}

func num(f float64) string { return strconv.FormatFloat(f, 'f', -1, 64) }

// Edge pairs a point on the element with a line in the viewport, both as
// fractions from the top: "top 85%" is {Element: 0, Viewport: 0.85}.
type Edge struct {
	Element  float64
	Viewport float64
}

// ParseEdge understands "<element> <viewport>" where each side is top,
// center, bottom or a percentage.
func ParseEdge(s string) (Edge, error) {
	parts := strings.Fields(s)
	if len(parts) != 2 {
		return Edge{}, fmt.Errorf("motion: edge %q: want \"<element> <viewport>\"", s)
	}
	el, err := fraction(parts[0])
	if err != nil {
		return Edge{}, fmt.Errorf("motion: edge %q: %w", s, err)
	}
	vp, err := fraction(parts[1])
	if err != nil {
		return Edge{}, fmt.Errorf("motion: edge %q: %w", s, err)
	}
	return Edge{Element: el, Viewport: vp}, nil
}

func fraction(tok string) (float64, error) {
	switch tok {
	case "top":
		return 0, nil
	case "center":
		return 0.5, nil
	case "bottom":
		return 1, nil
	}
	if strings.HasSuffix(tok, "%") {
		f, err := strconv.ParseFloat(strings.TrimSuffix(tok, "%"), 64)
		if err != nil {
			return 0, fmt.Errorf("bad percentage %q", tok)
		}
		return f / 100, nil
	}
	return 0, fmt.Errorf("unknown position %q", tok)
}

// Distance is a scroll length relative to a trigger start, written
// "+=100%" (viewport heights) or "+=600" / "+=600px" (pixels).
type Distance struct {
	Pixels         float64
	ViewportFactor float64
}

func ParseDistance(s string) (Distance, error) {
	rest, ok := strings.CutPrefix(strings.TrimSpace(s), "+=")
	if !ok {
		return Distance{}, fmt.Errorf("motion: distance %q: want \"+=<n>\"", s)
	}
	if v, ok := strings.CutSuffix(rest, "%"); ok {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil || f < 0 {
			return Distance{}, fmt.Errorf("motion: distance %q: bad percentage", s)
		}
		return Distance{ViewportFactor: f / 100}, nil
	}
	f, err := strconv.ParseFloat(strings.TrimSuffix(rest, "px"), 64)
	if err != nil || f < 0 {
		return Distance{}, fmt.Errorf("motion: distance %q: bad length", s)
	}
	return Distance{Pixels: f}, nil
}

func (d Distance) resolve(viewportHeight float64) float64 {
	return d.Pixels + d.ViewportFactor*viewportHeight
}

// Action is what a toggle callback does to a scroll-triggered tween.
type Action string

const (
	ActionNone     Action = "none"
	ActionPlay     Action = "play"
	ActionReverse  Action = "reverse"
	ActionReset    Action = "reset"
	ActionComplete Action = "complete"
)

// Actions are the four toggle callbacks in order: enter, leave,
// enter-back, leave-back.
type Actions struct {
	OnEnter     Action
	OnLeave     Action
	OnEnterBack Action
	OnLeaveBack Action
}

// PlayReverse plays on enter and reverses when scrolled back above the
// start ("play none none reverse").
var PlayReverse = Actions{ActionPlay, ActionNone, ActionNone, ActionReverse}

func ParseActions(s string) (Actions, error) {
	parts := strings.Fields(s)
	if len(parts) != 4 {
		return Actions{}, fmt.Errorf("motion: actions %q: want four words", s)
	}
	var out [4]Action
	for i, p := range parts {
		switch a := Action(p); a {
		case ActionNone, ActionPlay, ActionReverse, ActionReset, ActionComplete:
			out[i] = a
		default:
			return Actions{}, fmt.Errorf("motion: actions %q: unknown action %q", s, p)
		}
	}
	return Actions{out[0], out[1], out[2], out[3]}, nil
}

func (a Actions) String() string {
	return strings.Join([]string{string(a.OnEnter), string(a.OnLeave), string(a.OnEnterBack), string(a.OnLeaveBack)}, " ")
}

// Trigger positions a behavior on the page. End may be an edge ("top 20%")
// or a distance from the start ("+=100%").
type Trigger struct {
	Start   string
	End     string
	Actions Actions
	// Scrub ties progress directly to scroll position instead of playing
	// a timed tween. Lag smooths scrubbing; zero follows scroll exactly.
	Scrub bool
	Lag   time.Duration
}

func DefaultTrigger() Trigger {
	return Trigger{Start: "top 85%", End: "top 20%", Actions: PlayReverse}
}

type Tween struct {
	Duration time.Duration
	Ease     string
	Delay    time.Duration
	// Stagger offsets each successive target (text segments).
	Stagger time.Duration
}

func DefaultTween() Tween {
	return Tween{Duration: time.Second, Ease: "power3.out"}
}

// Reveal fades/translates an element from From to To when it scrolls into
// view and back when it scrolls out above the start.
type Reveal struct {
	From    State
	To      State
	Trigger Trigger
	Tween   Tween
}

func DefaultReveal() Reveal {
	from := Rest()
	from.Opacity = 0
	from.Y = 60
	return Reveal{From: from, To: Rest(), Trigger: DefaultTrigger(), Tween: DefaultTween()}
}

// ScaleReveal grows the element in from 80%.
func ScaleReveal() Reveal {
	from := Rest()
	from.Scale = 0.8
	from.Opacity = 0
	return Reveal{
		From:    from,
		To:      Rest(),
		Trigger: Trigger{Start: "top 80%", End: "top 30%", Actions: PlayReverse},
		Tween:   Tween{Duration: time.Second, Ease: "power2.out"},
	}
}

// ClipReveal wipes the element in from the bottom.
func ClipReveal() Reveal {
	from := Rest()
	from.ClipTop = 100
	return Reveal{
		From:    from,
		To:      Rest(),
		Trigger: Trigger{Start: "top 80%", End: "bottom top", Actions: PlayReverse},
		Tween:   Tween{Duration: 1200 * time.Millisecond, Ease: "power4.inOut"},
	}
}

type Direction string

const (
	Up   Direction = "up"
	Down Direction = "down"
)

// Parallax shifts an element vertically by Speed*100px over the span from
// its top meeting the viewport bottom to its bottom meeting the viewport top.
type Parallax struct {
	Speed     float64
	Direction Direction
}

func DefaultParallax() Parallax { return Parallax{Speed: 0.5, Direction: Up} }

func (p Parallax) travel() float64 {
	if p.Direction == Down {
		return 100 * p.Speed
	}
	return -100 * p.Speed
}

func (p Parallax) trigger() Trigger {
	return Trigger{Start: "top bottom", End: "bottom top", Scrub: true}
}

// Pin fixes the target while the page scrolls Distance past Start. With
// Horizontal set the target also slides left by Travel pixels in step with
// pin progress.
type Pin struct {
	Start      string
	Distance   string
	Horizontal bool
	Travel     float64
	Lag        time.Duration
}

func DefaultPin() Pin { return Pin{Start: "top top", Distance: "+=100%"} }

// HorizontalScroll pins a strip and scrolls it sideways; travel is the
// strip's scroll width minus the container width.
func HorizontalScroll(travel float64) Pin {
	if travel < 0 {
		travel = 0
	}
	return Pin{
		Start:      "top top",
		Distance:   "+=" + num(travel),
		Horizontal: true,
		Travel:     travel,
		Lag:        time.Second,
	}
}

type Magnetic struct {
	Strength float64
	Tween    Tween
}

func DefaultMagnetic() Magnetic {
	return Magnetic{Strength: 0.5, Tween: Tween{Duration: 400 * time.Millisecond, Ease: "power2.out"}}
}

type SplitMode string

const (
	ByChar SplitMode = "chars"
	ByWord SplitMode = "words"
)

// SplitText staggers the entrance of a heading's characters or words.
type SplitText struct {
	Mode    SplitMode
	From    State
	Trigger Trigger
	Tween   Tween
}

func DefaultSplitText() SplitText {
	from := Rest()
	from.Opacity = 0
	from.Y = 100
	from.RotateX = -90
	return SplitText{
		Mode:    ByChar,
		From:    from,
		Trigger: Trigger{Start: "top 80%", End: "bottom top", Actions: PlayReverse},
		Tween:   Tween{Duration: 800 * time.Millisecond, Ease: "power4.out", Stagger: 20 * time.Millisecond},
	}
}
