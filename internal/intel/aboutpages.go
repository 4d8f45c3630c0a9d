package intel

import (
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"brandworks/internal/webfetch"
)

const anchorSectionMinChars = 100

// Candidate is one place likely to contain founder information.
type Candidate struct {
	URL  string
	Kind string // "about", "anchor", "homepage"
}

// LocateAboutPages finds candidate About/Team URLs for a homepage.
// SPA shells return no candidates; the caller falls back to
// domain-name inference. Order: explicit About links, in-page anchor
// sections, then the homepage itself when its body mentions founders.
func LocateAboutPages(page *webfetch.Page) []Candidate {
	if page.SPA {
		return nil
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(page.HTML))
	if err != nil {
		return nil
	}
	base, err := url.Parse(page.URL)
	if err != nil {
		return nil
	}

	var candidates []Candidate
	seen := make(map[string]bool)
	add := func(c Candidate) {
		if !seen[c.URL] {
			seen[c.URL] = true
			candidates = append(candidates, c)
		}
	}

	// Navigation links whose text matches an About keyword.
	doc.Find("header a, nav a, footer a, [class*=menu] a, [class*=nav] a").Each(func(_ int, sel *goquery.Selection) {
		href, ok := sel.Attr("href")
		if !ok || href == "" || strings.HasPrefix(href, "#") {
			return
		}
		if !matchesAboutKeyword(sel.Text()) {
			return
		}
		ref, err := url.Parse(href)
		if err != nil {
			return
		}
		resolved := base.ResolveReference(ref)
		if resolved.Host != base.Host {
			return
		}
		resolved.Fragment = ""
		add(Candidate{URL: resolved.String(), Kind: "about"})
	})

	// In-page sections whose id matches and whose text is substantial.
	doc.Find("[id]").Each(func(_ int, sel *goquery.Selection) {
		id, _ := sel.Attr("id")
		if !matchesAboutKeyword(id) && !matchesAboutKeyword(strings.ReplaceAll(id, "-", " ")) {
			return
		}
		if doc.Find(`a[href="#` + id + `"]`).Length() == 0 {
			return
		}
		if len(strings.TrimSpace(sel.Text())) <= anchorSectionMinChars {
			return
		}
		add(Candidate{URL: page.URL + "#" + id, Kind: "anchor"})
	})

	// Homepage body mentioning founders is itself a candidate.
	if matchesFounderKeyword(page.Text) {
		add(Candidate{URL: page.URL, Kind: "homepage"})
	}

	return candidates
}
