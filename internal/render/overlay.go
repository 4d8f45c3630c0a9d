package render

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

// Overlay extraction patterns, tried in order; the first match wins.
var overlayPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)TEXT OVERLAY\s*:\s*['"]([^'"]+)['"]`),
	regexp.MustCompile(`(?i)TEXT OVERLAY\s+(?:saying|reading|with)\s+['"]([^'"]+)['"]`),
	regexp.MustCompile(`(?i)overlay(?:ed)?\s+text\s*:?\s*['"]([^'"]+)['"]`),
	regexp.MustCompile(`(?i)Superposez le texte\s*:?\s*['"]([^'"]+)['"]`),
	regexp.MustCompile(`(?i)texte superposé\s*:?\s*['"]([^'"]+)['"]`),
	regexp.MustCompile(`(?i)\breading\s+['"]([^'"]+)['"]`),
}

// quotedSpan is the last resort: any quoted span of 100 chars or less.
var quotedSpan = regexp.MustCompile(`['"]([^'"]{1,100})['"]`)

// Filler words stripped from the ends of extracted overlay text.
var fillerWords = []string{
	"elegant", "stylish", "modern", "beautiful", "minimalist",
	"displayed prominently", "in large letters", "centered",
}

const maxOverlayChars = 80

// ExtractOverlay pulls the on-image text out of a generation prompt.
// Returns empty when the prompt contains no overlay directive and no
// quoted span.
func ExtractOverlay(prompt string) string {
	for _, re := range overlayPatterns {
		if m := re.FindStringSubmatch(prompt); m != nil {
			return cleanOverlay(m[1])
		}
	}
	if m := quotedSpan.FindStringSubmatch(prompt); m != nil {
		return cleanOverlay(m[1])
	}
	return ""
}

func cleanOverlay(s string) string {
	s = strings.TrimSpace(s)
	s = strings.TrimRight(s, ".,;:!")

	lowered := strings.ToLower(s)
	for _, filler := range fillerWords {
		if strings.HasSuffix(lowered, " "+filler) {
			s = strings.TrimSpace(s[:len(s)-len(filler)-1])
			lowered = strings.ToLower(s)
		}
	}

	if len(s) > maxOverlayChars {
		limit := maxOverlayChars
		for limit > 0 && !utf8.RuneStart(s[limit]) {
			limit--
		}
		cut := s[:limit]
		if i := strings.LastIndex(cut, " "); i > maxOverlayChars/2 {
			cut = cut[:i]
		}
		s = strings.TrimSpace(cut)
	}
	return s
}
