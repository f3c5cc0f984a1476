package motion

import "strings"

const nbsp = "\u00a0"

// Segment is one animated piece of a split heading.
type Segment struct {
	Text  string
	Index int
	Space bool
}

// Split breaks text into characters or words. In character mode spaces
// are kept as non-breaking segments so the line does not collapse; in word
// mode whitespace only separates segments.
func Split(text string, mode SplitMode) []Segment {
	var out []Segment
	if mode == ByWord {
		for _, w := range strings.Fields(text) {
			out = append(out, Segment{Text: w, Index: len(out)})
		}
		return out
	}
	for _, r := range text {
		if r == ' ' {
			out = append(out, Segment{Text: nbsp, Index: len(out), Space: true})
			continue
		}
		out = append(out, Segment{Text: string(r), Index: len(out)})
	}
	return out
}
