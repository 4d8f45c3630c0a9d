package intel

import (
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// platformPattern pairs a platform name with its URL shape. Order
// matters: the first pattern matching a URL claims the platform, and
// the first URL per platform wins.
type platformPattern struct {
	platform string
	re       *regexp.Regexp
}

var platformPatterns = []platformPattern{
	{"facebook", regexp.MustCompile(`(?i)(?:www\.)?(?:facebook|fb)\.com/([^/?#\s]+(?:/[^/?#\s]+)?)`)},
	{"instagram", regexp.MustCompile(`(?i)(?:www\.)?instagram\.com/([^/?#\s]+)`)},
	{"twitter", regexp.MustCompile(`(?i)(?:www\.)?(?:twitter|x)\.com/([^/?#\s]+)`)},
	{"linkedin", regexp.MustCompile(`(?i)(?:www\.)?linkedin\.com/((?:company|in|school)/[^/?#\s]+)`)},
	{"youtube", regexp.MustCompile(`(?i)(?:www\.)?youtube\.com/((?:channel/|c/|user/|@)?[^/?#\s]+)`)},
	{"tiktok", regexp.MustCompile(`(?i)(?:www\.)?tiktok\.com/(@[^/?#\s]+)`)},
	{"pinterest", regexp.MustCompile(`(?i)(?:www\.)?pinterest\.(?:com|dk|fr|de)/([^/?#\s]+)`)},
	{"behance", regexp.MustCompile(`(?i)(?:www\.)?behance\.net/([^/?#\s]+)`)},
	{"dribbble", regexp.MustCompile(`(?i)(?:www\.)?dribbble\.com/([^/?#\s]+)`)},
	{"whatsapp", regexp.MustCompile(`(?i)(?:wa\.me|api\.whatsapp\.com/send)[/?]([^/?#\s]*)`)},
	{"telegram", regexp.MustCompile(`(?i)(?:t\.me|telegram\.me)/([^/?#\s]+)`)},
	{"discord", regexp.MustCompile(`(?i)discord\.(?:gg|com/invite)/([^/?#\s]+)`)},
	{"snapchat", regexp.MustCompile(`(?i)(?:www\.)?snapchat\.com/add/([^/?#\s]+)`)},
	{"reddit", regexp.MustCompile(`(?i)(?:www\.)?reddit\.com/(?:r|u|user)/([^/?#\s]+)`)},
	{"github", regexp.MustCompile(`(?i)(?:www\.)?github\.com/([^/?#\s]+)`)},
	{"medium", regexp.MustCompile(`(?i)(?:www\.)?medium\.com/(@?[^/?#\s]+)`)},
}

// ExtractSocialLinks scans anchors and Open Graph metadata for social
// platform URLs. One account per platform; first match wins. An
// icon-class pass catches platforms rendered as icons with indirect
// hrefs.
func ExtractSocialLinks(rawHTML string) []SocialAccount {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(rawHTML))
	if err != nil {
		return nil
	}

	seen := make(map[string]bool)
	var accounts []SocialAccount
	add := func(acct SocialAccount) {
		if acct.Platform == "" || seen[acct.Platform] {
			return
		}
		seen[acct.Platform] = true
		accounts = append(accounts, acct)
	}

	doc.Find("a[href]").Each(func(_ int, sel *goquery.Selection) {
		href, _ := sel.Attr("href")
		if acct, ok := classifyURL(href); ok {
			add(acct)
		}
	})

	if v, ok := doc.Find(`meta[property="og:url"]`).Attr("content"); ok {
		if acct, ok := classifyURL(v); ok {
			add(acct)
		}
	}

	// Icon classes as a weaker second pass: the href itself may be a
	// share redirect, but the icon names the platform.
	doc.Find("a[href]").Each(func(_ int, sel *goquery.Selection) {
		class, _ := sel.Attr("class")
		iconClass := class
		sel.Find("i, span, svg").Each(func(_ int, inner *goquery.Selection) {
			c, _ := inner.Attr("class")
			iconClass += " " + c
		})
		lc := strings.ToLower(iconClass)
		for _, pp := range platformPatterns {
			if seen[pp.platform] || !strings.Contains(lc, pp.platform) {
				continue
			}
			href, _ := sel.Attr("href")
			if href == "" || strings.HasPrefix(href, "#") {
				continue
			}
			add(SocialAccount{Platform: pp.platform, URL: href})
		}
	})

	return accounts
}

func classifyURL(href string) (SocialAccount, bool) {
	for _, pp := range platformPatterns {
		m := pp.re.FindStringSubmatch(href)
		if m == nil {
			continue
		}
		username := splitUsername(pp.platform, m[1])
		acct := SocialAccount{
			Platform: pp.platform,
			URL:      href,
			Username: username,
		}
		if username != "" {
			acct.Handle = "@" + strings.TrimPrefix(username, "@")
		}
		return acct, true
	}
	return SocialAccount{}, false
}

// splitUsername applies platform-specific rules to reduce a matched
// path to a bare username.
func splitUsername(platform, path string) string {
	path = strings.Trim(path, "/")
	switch platform {
	case "facebook":
		// pages/Name/id and people/Name/id shapes keep the name part
		for _, prefix := range []string{"pages/", "people/", "pg/"} {
			if strings.HasPrefix(path, prefix) {
				rest := strings.TrimPrefix(path, prefix)
				if i := strings.IndexByte(rest, '/'); i >= 0 {
					rest = rest[:i]
				}
				return rest
			}
		}
		if i := strings.IndexByte(path, '/'); i >= 0 {
			path = path[:i]
		}
		return path
	case "linkedin":
		for _, prefix := range []string{"company/", "in/", "school/"} {
			if strings.HasPrefix(path, prefix) {
				return strings.TrimPrefix(path, prefix)
			}
		}
		return path
	case "youtube":
		for _, prefix := range []string{"channel/", "c/", "user/"} {
			path = strings.TrimPrefix(path, prefix)
		}
		return strings.TrimPrefix(path, "@")
	case "tiktok", "medium":
		return strings.TrimPrefix(path, "@")
	case "reddit":
		return path
	default:
		return path
	}
}
