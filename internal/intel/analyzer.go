package intel

import (
	"context"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"brandworks/internal/webfetch"
	"brandworks/pkg/llm"
	"brandworks/pkg/logging"
)

const companyInstructions = `Analyze the website content and describe the business.
Respond with ONLY a JSON object, no prose, in this exact shape:
{"company": {"name": "", "description": "", "industry": "", "targetAudience": []}}
Keep the description to 2-3 sentences. targetAudience lists 2-4 audience segments.`

// Analyzer produces the business intelligence profile for a URL.
type Analyzer struct {
	fetcher  *webfetch.Client
	founders *FounderExtractor
	text     llm.Provider
	logger   logging.Logger
}

// NewAnalyzer creates a business intelligence analyzer.
func NewAnalyzer(fetcher *webfetch.Client, founders *FounderExtractor, text llm.Provider, logger logging.Logger) *Analyzer {
	return &Analyzer{fetcher: fetcher, founders: founders, text: text, logger: logger}
}

type companyResponse struct {
	Company Company `json:"company"`
}

// Analyze runs the full business intelligence pass: homepage fetch,
// social link scan, about-page location, founder extraction and the
// company analysis call.
func (a *Analyzer) Analyze(ctx context.Context, url string) (*BrandProfile, error) {
	page := a.fetcher.FetchLenient(ctx, url)

	profile := &BrandProfile{
		URL:        url,
		Timestamp:  time.Now().UTC().Format(time.RFC3339),
		Provenance: "ai-analysis",
	}

	if page.HTML != "" {
		profile.SocialMediaAccounts = ExtractSocialLinks(page.HTML)
	}

	candidates := LocateAboutPages(page)
	if page.SPA {
		a.logger.WithFields(logging.Fields{"url": url}).
			Info("SPA shell detected, falling back to domain-name founder inference")
		if found, err := a.founders.DomainNameFallback(ctx, page.URL); err == nil {
			profile.Founders = MergeFounders(nil, found, page.URL)
		} else {
			a.logger.WithFields(logging.Fields{"url": url, "error": err.Error()}).
				Warn("Domain-name founder inference failed")
		}
	} else {
		profile.Founders = a.founders.ExtractAll(ctx, candidates)
	}

	company, err := a.analyzeCompany(ctx, page)
	if err != nil {
		a.logger.WithFields(logging.Fields{"url": url, "error": err.Error()}).
			Warn("Company analysis failed, using basic extraction")
		company = basicExtraction(page)
		profile.Provenance = "basic-extraction"
	}
	profile.Company = company

	return profile, nil
}

func (a *Analyzer) analyzeCompany(ctx context.Context, page *webfetch.Page) (Company, error) {
	var sb strings.Builder
	sb.WriteString("URL: " + page.URL + "\n")
	if page.Title != "" {
		sb.WriteString("Title: " + page.Title + "\n")
	}
	if page.MetaDescription != "" {
		sb.WriteString("Description: " + page.MetaDescription + "\n")
	}
	if page.MetaKeywords != "" {
		sb.WriteString("Keywords: " + page.MetaKeywords + "\n")
	}
	sb.WriteString("\n" + page.Text)

	response, err := a.text.Complete(ctx, companyInstructions, sb.String())
	if err != nil {
		return Company{}, err
	}

	var parsed companyResponse
	if err := llm.ExtractJSON(response, &parsed, func() bool { return parsed.Company.Name != "" }); err != nil {
		return Company{}, err
	}
	return parsed.Company, nil
}

// basicExtraction builds a low-confidence profile from page structure
// alone when the text capability is unavailable or unparseable.
func basicExtraction(page *webfetch.Page) Company {
	company := Company{
		Name:        page.Title,
		Description: page.MetaDescription,
	}
	if company.Name == "" {
		company.Name = page.URL
	}

	if company.Description == "" && page.HTML != "" {
		if doc, err := goquery.NewDocumentFromReader(strings.NewReader(page.HTML)); err == nil {
			var parts []string
			doc.Find("h1, h2").EachWithBreak(func(i int, sel *goquery.Selection) bool {
				if t := strings.TrimSpace(sel.Text()); t != "" {
					parts = append(parts, t)
				}
				return len(parts) < 3
			})
			doc.Find("p").EachWithBreak(func(i int, sel *goquery.Selection) bool {
				if t := strings.TrimSpace(sel.Text()); len(t) > 40 {
					parts = append(parts, t)
				}
				return len(parts) < 5
			})
			company.Description = truncateText(strings.Join(parts, " "), 500)
		}
	}
	if company.Description == "" {
		company.Description = truncateText(page.Text, 500)
	}
	return company
}
