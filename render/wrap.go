package render

import "strings"

// FontMetrics measures rendered text width at a given font size. It is
// passed explicitly so the wrap logic can be exercised with a deterministic
// stub font in tests.
type FontMetrics interface {
	TextWidth(text string, size float64) float64
}

// Wrap breaks text into lines no wider than maxWidth at the given font
// size. Wrapping is greedy: words accumulate on a line while the measured
// width stays within budget, then a new line starts with the current word.
// Words are never split or dropped; a single word wider than the budget
// occupies a line by itself.
func Wrap(text string, maxWidth, size float64, fm FontMetrics) []string {
	words := strings.Fields(text)
	if len(words) == 0 {
		return []string{""}
	}

	var lines []string
	line := words[0]
	for _, word := range words[1:] {
		candidate := line + " " + word
		if fm.TextWidth(candidate, size) > maxWidth {
			lines = append(lines, line)
			line = word
		} else {
			line = candidate
		}
	}
	return append(lines, line)
}
