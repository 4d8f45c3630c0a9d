package intel

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"

	"brandworks/internal/webfetch"
	"brandworks/pkg/llm"
	"brandworks/pkg/logging"
)

const (
	sectionMaxChars = 3000
	minContentChars = 150
)

const founderInstructions = `Extract founder and leadership information from the text.
Respond with ONLY a JSON object, no prose, in this exact shape:
{"founders": [{"name": "", "role": "", "bio": "", "education": "", "experience": "", "achievements": [], "expertise": [], "socialMedia": ""}]}
Only include people explicitly identified as founders, co-founders, owners or executives. If none are present, return {"founders": []}.`

// FounderExtractor pulls structured founder records out of candidate
// pages using the text capability.
type FounderExtractor struct {
	fetcher *webfetch.Client
	text    llm.Provider
	logger  logging.Logger
}

// NewFounderExtractor creates a founder extractor.
func NewFounderExtractor(fetcher *webfetch.Client, text llm.Provider, logger logging.Logger) *FounderExtractor {
	return &FounderExtractor{fetcher: fetcher, text: text, logger: logger}
}

type founderResponse struct {
	Founders []Founder `json:"founders"`
}

// ExtractAll processes every candidate and merges results. A failing
// candidate is logged and skipped; the others still contribute.
func (e *FounderExtractor) ExtractAll(ctx context.Context, candidates []Candidate) []Founder {
	var merged []Founder
	for _, cand := range candidates {
		found, err := e.extractOne(ctx, cand)
		if err != nil {
			e.logger.WithFields(logging.Fields{"url": cand.URL, "error": err.Error()}).
				Warn("Founder extraction failed for candidate")
			continue
		}
		merged = MergeFounders(merged, found, cand.URL)
	}
	return merged
}

func (e *FounderExtractor) extractOne(ctx context.Context, cand Candidate) ([]Founder, error) {
	pageURL, fragment := splitFragment(cand.URL)
	page, err := e.fetcher.Fetch(ctx, pageURL)
	if err != nil {
		return nil, err
	}

	text := page.Text
	if fragment != "" {
		if sub := fragmentText(page.HTML, fragment); sub != "" {
			text = sub
		}
	}
	if len(text) < minContentChars && page.SPA {
		return e.DomainNameFallback(ctx, pageURL)
	}

	if section := founderSection(page.HTML); section != "" && fragment == "" {
		text = section
	}
	text = truncateText(text, sectionMaxChars)

	response, err := e.text.Complete(ctx, founderInstructions, text)
	if err != nil {
		return nil, fmt.Errorf("text capability: %w", err)
	}

	var parsed founderResponse
	if err := llm.ExtractJSON(response, &parsed); err != nil {
		return nil, err
	}

	var kept []Founder
	for _, f := range parsed.Founders {
		if strings.TrimSpace(f.Name) == "" {
			continue
		}
		if f.ExtractionConfidence == "" {
			f.ExtractionConfidence = "high"
		}
		kept = append(kept, f)
	}
	return kept, nil
}

// DomainNameFallback infers founder identity from the domain alone.
// Used for SPA shells with no accessible content; results are flagged
// low confidence.
func (e *FounderExtractor) DomainNameFallback(ctx context.Context, pageURL string) ([]Founder, error) {
	prompt := fmt.Sprintf("The website %s could not be read (client-rendered application). Based on the domain name alone, infer the likely founder if the domain appears to be a person's name. %s", pageURL, founderInstructions)
	response, err := e.text.Complete(ctx, "", prompt)
	if err != nil {
		return nil, fmt.Errorf("text capability: %w", err)
	}
	var parsed founderResponse
	if err := llm.ExtractJSON(response, &parsed); err != nil {
		return nil, err
	}
	var kept []Founder
	for _, f := range parsed.Founders {
		if strings.TrimSpace(f.Name) == "" {
			continue
		}
		f.ExtractionConfidence = "low"
		f.SourceURL = pageURL
		kept = append(kept, f)
	}
	return kept, nil
}

// MergeFounders merges new records into existing ones by
// case-insensitive name. Existing fields win; gaps are filled.
func MergeFounders(existing, incoming []Founder, sourceURL string) []Founder {
	index := make(map[string]int, len(existing))
	for i, f := range existing {
		index[strings.ToLower(strings.TrimSpace(f.Name))] = i
	}

	for _, nf := range incoming {
		key := strings.ToLower(strings.TrimSpace(nf.Name))
		if key == "" {
			continue
		}
		if nf.SourceURL == "" {
			nf.SourceURL = sourceURL
		}
		i, ok := index[key]
		if !ok {
			index[key] = len(existing)
			existing = append(existing, nf)
			continue
		}
		existing[i] = fillGaps(existing[i], nf)
	}
	return existing
}

func fillGaps(base, extra Founder) Founder {
	if base.Role == "" {
		base.Role = extra.Role
	}
	if base.Bio == "" {
		base.Bio = extra.Bio
	}
	if base.Education == "" {
		base.Education = extra.Education
	}
	if base.Experience == "" {
		base.Experience = extra.Experience
	}
	if len(base.Achievements) == 0 {
		base.Achievements = extra.Achievements
	}
	if len(base.Expertise) == 0 {
		base.Expertise = extra.Expertise
	}
	if base.SocialMedia == "" {
		base.SocialMedia = extra.SocialMedia
	}
	if base.SourceURL == "" {
		base.SourceURL = extra.SourceURL
	}
	if base.ExtractionConfidence == "" {
		base.ExtractionConfidence = extra.ExtractionConfidence
	}
	return base
}

// truncateText cuts s at limit bytes, backing up so a multibyte rune
// is never split.
func truncateText(s string, limit int) string {
	if len(s) <= limit {
		return s
	}
	for limit > 0 && !utf8.RuneStart(s[limit]) {
		limit--
	}
	return s[:limit]
}

func splitFragment(u string) (string, string) {
	if i := strings.IndexByte(u, '#'); i >= 0 {
		return u[:i], u[i+1:]
	}
	return u, ""
}

// fragmentText returns the visible text of the element with the given
// id, empty when absent.
func fragmentText(rawHTML, id string) string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(rawHTML))
	if err != nil {
		return ""
	}
	sel := doc.Find("#" + id)
	if sel.Length() == 0 {
		return ""
	}
	return strings.Join(strings.Fields(sel.Text()), " ")
}

// founderSection returns the text of the first container whose heading
// or content matches founder keywords, empty when none is found.
func founderSection(rawHTML string) string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(rawHTML))
	if err != nil {
		return ""
	}
	var section string
	doc.Find("section, article, div").EachWithBreak(func(_ int, sel *goquery.Selection) bool {
		heading := sel.Find("h1, h2, h3, h4").First().Text()
		if !matchesFounderKeyword(heading) {
			return true
		}
		text := strings.Join(strings.Fields(sel.Text()), " ")
		if len(text) > minContentChars {
			section = text
			return false
		}
		return true
	})
	return section
}
