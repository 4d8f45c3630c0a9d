package intel

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"brandworks/internal/webfetch"
	"brandworks/pkg/logging"
)

type stubText struct {
	fn func(system, prompt string) (string, error)
}

func (s *stubText) Complete(ctx context.Context, system, prompt string) (string, error) {
	return s.fn(system, prompt)
}

func (s *stubText) Name() string { return "stub" }

func failingText() *stubText {
	return &stubText{fn: func(system, prompt string) (string, error) {
		return "", errors.New("upstream unavailable")
	}}
}

func TestAnalyzeBasicExtractionFallback(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `<html><head><title>Acme Bakery</title>`+
			`<meta name="description" content="Sourdough and pastries, baked fresh daily."></head>`+
			`<body><h1>Fresh every morning</h1><p>We mill our own flour and bake in a wood-fired oven every single day of the week.</p></body></html>`)
	}))
	defer srv.Close()

	text := failingText()
	fetcher := webfetch.NewClient(5*time.Second, logging.NewLogger())
	founders := NewFounderExtractor(fetcher, text, logging.NewLogger())
	analyzer := NewAnalyzer(fetcher, founders, text, logging.NewLogger())

	profile, err := analyzer.Analyze(context.Background(), srv.URL)
	if err != nil {
		t.Fatalf("Analyze should not fail when the text capability is down: %v", err)
	}
	if profile.Provenance != "basic-extraction" {
		t.Errorf("provenance = %q, want basic-extraction", profile.Provenance)
	}
	if profile.Company.Name != "Acme Bakery" {
		t.Errorf("company name = %q, want title", profile.Company.Name)
	}
	if profile.Company.Description != "Sourdough and pastries, baked fresh daily." {
		t.Errorf("description = %q, want meta description", profile.Company.Description)
	}
}

func TestAnalyzeUnparseableCompanyResponseFallsBack(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `<html><head><title>Acme Bakery</title></head>`+
			`<body><h1>Fresh every morning</h1><p>We mill our own flour and bake in a wood-fired oven every single day of the week.</p></body></html>`)
	}))
	defer srv.Close()

	text := &stubText{fn: func(system, prompt string) (string, error) {
		return "Sorry, I cannot help with that.", nil
	}}
	fetcher := webfetch.NewClient(5*time.Second, logging.NewLogger())
	founders := NewFounderExtractor(fetcher, text, logging.NewLogger())
	analyzer := NewAnalyzer(fetcher, founders, text, logging.NewLogger())

	profile, err := analyzer.Analyze(context.Background(), srv.URL)
	if err != nil {
		t.Fatalf("Analyze failed: %v", err)
	}
	if profile.Provenance != "basic-extraction" {
		t.Errorf("provenance = %q, want basic-extraction", profile.Provenance)
	}
	if profile.Company.Description == "" {
		t.Error("basic extraction should fill the description from headings and paragraphs")
	}
}

func TestExtractAllIsolatesFailingCandidates(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/team":
			fmt.Fprint(w, `<html><head><title>Team</title></head><body><p>Alpha Studio opened its doors in 2019 with a small crew of three and has grown steadily since then.</p></body></html>`)
		case "/story":
			fmt.Fprint(w, `<html><head><title>Story</title></head><body><p>Bea Larsen started the company after a decade of running kitchens across Copenhagen and Malmö.</p></body></html>`)
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	text := &stubText{fn: func(system, prompt string) (string, error) {
		if strings.Contains(prompt, "Alpha Studio") {
			return "", errors.New("upstream unavailable")
		}
		if strings.Contains(prompt, "Bea Larsen") {
			return `{"founders": [{"name": "Bea Larsen", "role": "Founder"}]}`, nil
		}
		return "", errors.New("unexpected prompt")
	}}
	extractor := NewFounderExtractor(webfetch.NewClient(5*time.Second, logging.NewLogger()), text, logging.NewLogger())

	got := extractor.ExtractAll(context.Background(), []Candidate{
		{URL: srv.URL + "/team", Kind: "about"},
		{URL: srv.URL + "/story", Kind: "about"},
	})

	if len(got) != 1 {
		t.Fatalf("expected the surviving candidate's founder, got %+v", got)
	}
	if got[0].Name != "Bea Larsen" || got[0].Role != "Founder" {
		t.Errorf("founder = %+v", got[0])
	}
	if got[0].SourceURL != srv.URL+"/story" {
		t.Errorf("source url = %q", got[0].SourceURL)
	}
	if got[0].ExtractionConfidence != "high" {
		t.Errorf("confidence = %q, want high", got[0].ExtractionConfidence)
	}
}

func TestTruncateTextRuneBoundary(t *testing.T) {
	s := strings.Repeat("ø", 100)
	if got := truncateText(s, 151); got != strings.Repeat("ø", 75) {
		t.Errorf("cut landed mid-rune, got %d bytes", len(got))
	}
	if got := truncateText("short", 10); got != "short" {
		t.Errorf("strings under the limit must pass through, got %q", got)
	}
}
