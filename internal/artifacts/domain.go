package artifacts

import "strings"

// SanitizeDomain converts a URL into a filesystem-safe identifier.
// It never fails: malformed input degrades to best-effort hyphenation.
//
//	https://www.example.com/path -> example-com
//	https://shop.example.se      -> shop-example-se
func SanitizeDomain(rawURL string) string {
	s := strings.TrimSpace(strings.ToLower(rawURL))

	if i := strings.Index(s, "://"); i >= 0 {
		s = s[i+3:]
	}
	s = strings.TrimPrefix(s, "www.")
	if i := strings.IndexAny(s, "/?#"); i >= 0 {
		s = s[:i]
	}

	s = strings.ReplaceAll(s, ".", "-")
	s = strings.ReplaceAll(s, "/", "-")
	return strings.Trim(s, "-")
}
