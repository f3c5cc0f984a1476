package motion

import (
	"fmt"
	"math"
	"strings"
)

// Ease maps linear progress in [0,1] to eased progress.
type Ease func(t float64) float64

func Linear(t float64) float64 { return t }

// Power eases follow the power1..power4 family: power1 is quadratic,
// power4 quintic.
func powerIn(n int) Ease {
	p := float64(n + 1)
	return func(t float64) float64 { return math.Pow(t, p) }
}

func powerOut(n int) Ease {
	p := float64(n + 1)
	return func(t float64) float64 { return 1 - math.Pow(1-t, p) }
}

func powerInOut(n int) Ease {
	p := float64(n + 1)
	return func(t float64) float64 {
		if t < 0.5 {
			return math.Pow(2*t, p) / 2
		}
		return 1 - math.Pow(2*(1-t), p)/2
	}
}

// LookupEase resolves names such as "none", "power2.out" or "power4.inOut".
// A bare "powerN" is the out variant.
func LookupEase(name string) (Ease, error) {
	if name == "" || name == "none" || name == "linear" {
		return Linear, nil
	}
	base, variant, found := strings.Cut(name, ".")
	if !found {
		variant = "out"
	}
	var n int
	if _, err := fmt.Sscanf(base, "power%d", &n); err != nil || n < 1 || n > 4 || base != fmt.Sprintf("power%d", n) {
		return nil, fmt.Errorf("motion: unknown ease %q", name)
	}
	switch variant {
	case "in":
		return powerIn(n), nil
	case "out":
		return powerOut(n), nil
	case "inOut":
		return powerInOut(n), nil
	}
	return nil, fmt.Errorf("motion: unknown ease %q", name)
}

func mustEase(name string) Ease {
	e, err := LookupEase(name)
	if err != nil {
		return Linear
	}
	return e
}

func clamp01(t float64) float64 {
	switch {
	case t < 0:
		return 0
	case t > 1:
		return 1
	}
	return t
}
