package design

import (
	"context"
	"errors"
	"testing"

	"brandworks/internal/screenshot"
	"brandworks/pkg/logging"
)

type stubCapturer struct {
	png []byte
	err error
}

func (s *stubCapturer) Capture(ctx context.Context, pageURL string, viewport screenshot.Viewport) ([]byte, error) {
	return s.png, s.err
}

type stubVision struct {
	response string
	err      error
}

func (s *stubVision) Complete(ctx context.Context, system, prompt string) (string, error) {
	return s.response, s.err
}

func (s *stubVision) AnalyzeImage(ctx context.Context, system, prompt string, png []byte) (string, error) {
	return s.response, s.err
}

func (s *stubVision) Name() string { return "stub" }

func TestAnalyzeCaptureFailureFallsBack(t *testing.T) {
	a := NewAnalyzer(&stubCapturer{err: errors.New("browser crashed")}, &stubVision{}, logging.NewLogger())

	profile := a.Analyze(context.Background(), "https://example.com")

	if profile.AnalysisMethod != "fallback" {
		t.Errorf("analysis_method = %q, want fallback", profile.AnalysisMethod)
	}
	if profile.ColorKit.BrandPrimary != "#1a1a1a" {
		t.Errorf("fallback brand primary = %q", profile.ColorKit.BrandPrimary)
	}
	if profile.FontFamily != "Helvetica" {
		t.Errorf("fallback font = %q", profile.FontFamily)
	}
}

func TestAnalyzeVisionFailureFallsBack(t *testing.T) {
	capturer := &stubCapturer{png: []byte("png-bytes")}
	a := NewAnalyzer(capturer, &stubVision{err: errors.New("rate limited")}, logging.NewLogger())

	profile := a.Analyze(context.Background(), "https://example.com")

	if profile.AnalysisMethod != "fallback" {
		t.Errorf("analysis_method = %q, want fallback", profile.AnalysisMethod)
	}
}

func TestAnalyzeUnparseableResponseFallsBack(t *testing.T) {
	capturer := &stubCapturer{png: []byte("png-bytes")}
	vision := &stubVision{response: "I could not discern a palette from this screenshot."}
	a := NewAnalyzer(capturer, vision, logging.NewLogger())

	profile := a.Analyze(context.Background(), "https://example.com")

	if profile.AnalysisMethod != "fallback" {
		t.Errorf("analysis_method = %q, want fallback", profile.AnalysisMethod)
	}
}

func TestAnalyzeVisionSuccess(t *testing.T) {
	capturer := &stubCapturer{png: []byte("png-bytes")}
	vision := &stubVision{response: `{"colorKit": {"background": "#ffffff", "brand_primary": "#e63946", "brand_secondary": "#457b9d", "text_primary": "#1d3557", "text_secondary": "#6b6b6b"}, "fontFamily": "Futura", "styleKeywords": ["bold", "warm"]}`}
	a := NewAnalyzer(capturer, vision, logging.NewLogger())

	profile := a.Analyze(context.Background(), "https://example.com")

	if profile.AnalysisMethod != "vision" {
		t.Fatalf("analysis_method = %q, want vision", profile.AnalysisMethod)
	}
	if profile.ColorKit.BrandPrimary != "#e63946" {
		t.Errorf("brand primary = %q", profile.ColorKit.BrandPrimary)
	}
	if profile.FontFamily != "Futura" {
		t.Errorf("font = %q", profile.FontFamily)
	}
}
