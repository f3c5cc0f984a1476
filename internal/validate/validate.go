package validate

import (
	"regexp"
	"strconv"
	"strings"

	"atelier/internal/domain"
)

var (
	reEmail  = regexp.MustCompile(`^[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}$`)
	reID     = regexp.MustCompile(`^[A-Za-z0-9_-]{1,64}$`)
	reSlug   = regexp.MustCompile(`^[a-z0-9]+(?:-[a-z0-9]+)*$`)
	rePromo  = regexp.MustCompile(`^[A-Za-z0-9]{1,20}$`)
	reOption = regexp.MustCompile(`^[A-Za-z0-9 ./-]{1,24}$`)
	reQ      = regexp.MustCompile(`^[A-Za-z0-9 _'\\-]{1,50}$`)
)

const maxQty = domain.MaxLineQty

func Email(s string) (string, bool) {
	s = strings.TrimSpace(s)
	if len(s) == 0 || len(s) > 254 {
		return "", false
	}
	return s, reEmail.MatchString(s)
}

// Q validates a search query: trims, enforces allowed characters and max length
func Q(s string) (string, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", false
	}
	if len(s) > 50 {
		s = s[:50]
	}
	return s, reQ.MatchString(s)
}

// ID validates a simple resource identifier (product and line ids).
func ID(s string) (string, bool) {
	s = strings.TrimSpace(s)
	return s, s != "" && reID.MatchString(s)
}

// Slug validates lowercase, hyphen-separated keys (collections, pages,
// categories, FAQ topics).
func Slug(s string) (string, bool) {
	s = strings.TrimSpace(s)
	return s, len(s) <= 64 && reSlug.MatchString(s)
}

// Promo validates the shape of a promo code, not whether it is valid.
func Promo(s string) (string, bool) {
	s = strings.TrimSpace(s)
	return s, rePromo.MatchString(s)
}

// Option validates a size or color choice. Empty is allowed; the cart
// decides whether the product needs one.
func Option(s string) (string, bool) {
	s = strings.TrimSpace(s)
	return s, s == "" || reOption.MatchString(s)
}

// Qty parses an add-to-cart quantity: defaults to 1, clamped to [1, 50].
func Qty(s string) int {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || n < 1 {
		return 1
	}
	if n > maxQty {
		return maxQty
	}
	return n
}

// SetQty parses a cart line update. Zero and below are allowed (they
// remove the line); garbage is rejected.
func SetQty(s string) (int, bool) {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0, false
	}
	if n > maxQty {
		n = maxQty
	}
	if n < 0 {
		n = 0
	}
	return n, true
}

// Name validates a displayable name with a reasonable max length.
func Name(s string) (string, bool) {
	s = strings.TrimSpace(s)
	if s == "" || len(s) > 80 {
		return "", false
	}
	return s, true
}

// Text validates free text such as a contact message.
func Text(s string, max int) (string, bool) {
	s = strings.TrimSpace(s)
	if s == "" || len(s) > max {
		return "", false
	}
	return s, true
}

// OneOf parses a whole number and accepts it only if it is in allowed.
func OneOf(s string, allowed []int) (int, bool) {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0, false
	}
	for _, a := range allowed {
		if a == n {
			return n, true
		}
	}
	return 0, false
}

// OptionalText is Text that also accepts an empty value.
func OptionalText(s string, max int) (string, bool) {
	s = strings.TrimSpace(s)
	return s, len(s) <= max
}
