package render

import "strings"

// Average glyph width as a fraction of the font size. Accented Latin
// text renders wider on average, so it gets a smaller per-line
// character budget.
const (
	plainCharWidth    = 0.58
	accentedCharWidth = 0.62
)

// charsPerLine computes the per-line character budget for a usable
// width in pixels at a font size, narrowing the budget for accented
// text.
func charsPerLine(usableWidth, fontSize int, text string) int {
	width := plainCharWidth
	if hasAccents(text) {
		width = accentedCharWidth
	}
	n := int(float64(usableWidth) / (float64(fontSize) * width))
	if n < 1 {
		n = 1
	}
	return n
}

func hasAccents(text string) bool {
	for _, r := range text {
		if r >= 0x00C0 && r <= 0x017F {
			return true
		}
	}
	return false
}

// wrapText greedily wraps words to the character budget. Words longer
// than the budget get their own line rather than being split.
// Deterministic: identical input always yields identical lines.
func wrapText(text string, budget int) []string {
	words := strings.Fields(text)
	if len(words) == 0 {
		return nil
	}

	var lines []string
	current := words[0]
	for _, word := range words[1:] {
		if len(current)+1+len(word) <= budget {
			current += " " + word
		} else {
			lines = append(lines, current)
			current = word
		}
	}
	lines = append(lines, current)
	return lines
}
