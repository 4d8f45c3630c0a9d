package intel

import (
	"strings"
	"testing"

	"brandworks/internal/webfetch"
)

func TestMergeFoundersFillsGaps(t *testing.T) {
	first := MergeFounders(nil, []Founder{{Name: "A", Role: "CEO"}}, "https://a.com/about")
	merged := MergeFounders(first, []Founder{{Name: "a", Bio: "text"}}, "https://a.com/team")

	if len(merged) != 1 {
		t.Fatalf("expected 1 merged record, got %d", len(merged))
	}
	f := merged[0]
	if f.Name != "A" || f.Role != "CEO" || f.Bio != "text" {
		t.Errorf("merge lost fields: %+v", f)
	}
	if f.SourceURL != "https://a.com/about" {
		t.Errorf("existing source should win, got %q", f.SourceURL)
	}
}

func TestMergeFoundersIdempotent(t *testing.T) {
	records := []Founder{{Name: "A", Role: "CEO", Bio: "text"}}
	merged := MergeFounders(records, records, "https://a.com")
	if len(merged) != 1 {
		t.Errorf("self-merge produced duplicate: %d records", len(merged))
	}
}

func TestMergeFoundersKeepsDistinctNames(t *testing.T) {
	merged := MergeFounders(
		[]Founder{{Name: "Alice"}},
		[]Founder{{Name: "Bob"}, {Name: ""}},
		"https://a.com",
	)
	if len(merged) != 2 {
		t.Errorf("expected 2 records (nameless dropped), got %d", len(merged))
	}
}

func TestExtractSocialLinksDedupByPlatform(t *testing.T) {
	html := `<html><body>
		<a href="https://www.facebook.com/acmestudio">Facebook</a>
		<a href="https://facebook.com/acme-other-page">Other</a>
		<a href="https://www.instagram.com/acme.studio">Instagram</a>
	</body></html>`

	accounts := ExtractSocialLinks(html)
	var facebook []SocialAccount
	for _, a := range accounts {
		if a.Platform == "facebook" {
			facebook = append(facebook, a)
		}
	}
	if len(facebook) != 1 {
		t.Fatalf("expected exactly 1 facebook entry, got %d", len(facebook))
	}
	if facebook[0].Username != "acmestudio" {
		t.Errorf("first match should win, got %q", facebook[0].Username)
	}
}

func TestExtractSocialLinksUsernames(t *testing.T) {
	html := `<html><body>
		<a href="https://www.linkedin.com/company/acme-studio">LinkedIn</a>
		<a href="https://www.tiktok.com/@acmedance">TikTok</a>
		<a href="https://www.facebook.com/pages/Acme-Studio/12345">FB Page</a>
	</body></html>`

	got := make(map[string]string)
	for _, a := range ExtractSocialLinks(html) {
		got[a.Platform] = a.Username
	}
	if got["linkedin"] != "acme-studio" {
		t.Errorf("linkedin username = %q", got["linkedin"])
	}
	if got["tiktok"] != "acmedance" {
		t.Errorf("tiktok username = %q", got["tiktok"])
	}
	if got["facebook"] != "Acme-Studio" {
		t.Errorf("facebook pages username = %q", got["facebook"])
	}
}

func TestExtractSocialLinksIconClassPass(t *testing.T) {
	html := `<html><body>
		<a href="/goto/social" class="icon icon-pinterest"><svg></svg></a>
	</body></html>`
	accounts := ExtractSocialLinks(html)
	if len(accounts) != 1 || accounts[0].Platform != "pinterest" {
		t.Errorf("icon-class pass failed: %+v", accounts)
	}
}

func makePage(url, html string) *webfetch.Page {
	page, err := webfetch.Extract(url, html)
	if err != nil {
		panic(err)
	}
	return page
}

func TestLocateAboutPagesNavLinks(t *testing.T) {
	html := `<html><body>
		<nav>
			<a href="/about-us">About us</a>
			<a href="/contact">Contact</a>
		</nav>
		<p>` + strings.Repeat("Plenty of content here. ", 20) + `</p>
	</body></html>`

	candidates := LocateAboutPages(makePage("https://example.com", html))
	if len(candidates) == 0 {
		t.Fatal("expected an about candidate")
	}
	if candidates[0].URL != "https://example.com/about-us" || candidates[0].Kind != "about" {
		t.Errorf("unexpected first candidate: %+v", candidates[0])
	}
}

func TestLocateAboutPagesHomepageFounderFallback(t *testing.T) {
	html := `<html><body>
		<p>Our founder started this studio in 2010. ` + strings.Repeat("More visible body text. ", 15) + `</p>
	</body></html>`

	candidates := LocateAboutPages(makePage("https://example.com", html))
	if len(candidates) != 1 {
		t.Fatalf("expected only the homepage candidate, got %+v", candidates)
	}
	if candidates[0].Kind != "homepage" || candidates[0].URL != "https://example.com" {
		t.Errorf("unexpected candidate: %+v", candidates[0])
	}
}

func TestLocateAboutPagesAnchorSection(t *testing.T) {
	section := strings.Repeat("Team member bios live here. ", 10)
	html := `<html><body>
		<nav><a href="#team">Team</a></nav>
		<section id="team">` + section + `</section>
		<p>` + strings.Repeat("Other content. ", 20) + `</p>
	</body></html>`

	candidates := LocateAboutPages(makePage("https://example.com", html))
	var anchor *Candidate
	for i := range candidates {
		if candidates[i].Kind == "anchor" {
			anchor = &candidates[i]
		}
	}
	if anchor == nil {
		t.Fatalf("expected an anchor candidate, got %+v", candidates)
	}
	if anchor.URL != "https://example.com#team" {
		t.Errorf("anchor URL = %q", anchor.URL)
	}
}

func TestLocateAboutPagesSkipsSPA(t *testing.T) {
	page := &webfetch.Page{URL: "https://example.com", SPA: true}
	if got := LocateAboutPages(page); got != nil {
		t.Errorf("SPA page should yield no candidates, got %+v", got)
	}
}
