// Package language implements the keyword-scoring detector used to pick
// the campaign language from scraped social posts.
package language

import (
	"strings"

	"golang.org/x/text/unicode/norm"
)

// Unambiguous tokens that force a language immediately.
var (
	danishStrong = []string{"æ", "ø", "å", "må ikke", "jeg er", "vi har"}
	frenchStrong = []string{"ç", "c'est", "qu'", "nous sommes", "être"}
)

// Common function words per language, matched as whole words.
var (
	frenchWords = []string{
		"le", "la", "les", "de", "des", "du", "un", "une", "et", "ou",
		"avec", "pour", "dans", "sur", "est", "sont", "nous", "vous",
		"votre", "notre", "plus", "tout", "bien", "très",
	}
	danishWords = []string{
		"og", "er", "at", "det", "den", "en", "et", "til", "med", "for",
		"på", "af", "som", "der", "har", "kan", "vil", "ikke", "vi",
		"jeg", "dig", "din", "vores", "alle",
	}
	englishWords = []string{
		"the", "and", "is", "are", "was", "to", "of", "in", "on", "with",
		"for", "this", "that", "you", "your", "our", "we", "have", "has",
		"from", "by", "all", "more", "new",
	}
)

// Detect classifies text as "fr", "da" or "en". English is the
// unconditional fallback: ties and zero-hit texts are English.
func Detect(text string) string {
	// Scraped text sometimes carries decomposed accents, which would
	// slip past the single-rune signals below.
	lowered := strings.ToLower(norm.NFC.String(text))
	if lowered == "" {
		return "en"
	}

	for _, tok := range danishStrong {
		if strings.Contains(lowered, tok) {
			return "da"
		}
	}
	for _, tok := range frenchStrong {
		if strings.Contains(lowered, tok) {
			return "fr"
		}
	}

	words := strings.FieldsFunc(lowered, func(r rune) bool {
		return !isWordRune(r)
	})
	seen := make(map[string]int, len(words))
	for _, w := range words {
		seen[w]++
	}

	fr := countHits(seen, frenchWords)
	da := countHits(seen, danishWords)
	en := countHits(seen, englishWords)

	if fr > da && fr > en {
		return "fr"
	}
	if da > fr && da > en {
		return "da"
	}
	return "en"
}

func countHits(seen map[string]int, list []string) int {
	total := 0
	for _, w := range list {
		total += seen[w]
	}
	return total
}

func isWordRune(r rune) bool {
	if r >= 'a' && r <= 'z' || r >= '0' && r <= '9' || r == '\'' {
		return true
	}
	// accented Latin letters
	return r >= 0x00C0 && r <= 0x017F
}
