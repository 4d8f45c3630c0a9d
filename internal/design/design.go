// Package design derives a brand's visual identity from a website
// screenshot via the vision capability.
package design

import (
	"context"
	"time"

	"brandworks/internal/screenshot"
	"brandworks/pkg/llm"
	"brandworks/pkg/logging"
)

// DesignProfile is the design analysis artifact for one domain.
type DesignProfile struct {
	ColorKit       ColorKit `json:"colorKit"`
	FontFamily     string   `json:"fontFamily"`
	StyleKeywords  []string `json:"styleKeywords"`
	AnalysisMethod string   `json:"analysis_method"`
	Timestamp      string   `json:"timestamp"`
}

// ColorKit holds the extracted brand palette as hex strings.
type ColorKit struct {
	Background     string `json:"background"`
	BrandPrimary   string `json:"brand_primary"`
	BrandSecondary string `json:"brand_secondary"`
	TextPrimary    string `json:"text_primary"`
	TextSecondary  string `json:"text_secondary"`
	Accent         string `json:"accent,omitempty"`
}

const visionInstructions = `You are a brand design analyst. Examine the website screenshot and extract the visual identity.
Respond with ONLY a JSON object, no prose, in this exact shape:
{"colorKit": {"background": "#ffffff", "brand_primary": "#000000", "brand_secondary": "#000000", "text_primary": "#000000", "text_secondary": "#000000", "accent": "#000000"}, "fontFamily": "", "styleKeywords": []}
All colors must be 6-digit hex. styleKeywords lists 3-6 adjectives describing the visual style.`

// Analyzer produces a DesignProfile from a live website.
type Analyzer struct {
	capturer screenshot.Capturer
	vision   llm.VisionProvider
	logger   logging.Logger
}

// NewAnalyzer creates a design analyzer.
func NewAnalyzer(capturer screenshot.Capturer, vision llm.VisionProvider, logger logging.Logger) *Analyzer {
	return &Analyzer{capturer: capturer, vision: vision, logger: logger}
}

// Analyze captures a screenshot and asks the vision capability for the
// brand palette and typography. When either step fails it returns the
// neutral fallback profile instead of an error, flagged by
// analysis_method.
func (a *Analyzer) Analyze(ctx context.Context, url string) *DesignProfile {
	png, err := a.capturer.Capture(ctx, url, screenshot.MobileViewport)
	if err != nil {
		a.logger.WithFields(logging.Fields{"url": url, "error": err.Error()}).
			Warn("Screenshot capture failed, using fallback design profile")
		return FallbackProfile()
	}

	response, err := a.vision.AnalyzeImage(ctx, visionInstructions,
		"Extract the brand design profile from this website screenshot.", png)
	if err != nil {
		a.logger.WithFields(logging.Fields{"url": url, "error": err.Error()}).
			Warn("Vision analysis failed, using fallback design profile")
		return FallbackProfile()
	}

	var profile DesignProfile
	if err := llm.ExtractJSON(response, &profile, func() bool { return profile.ColorKit.BrandPrimary != "" }); err != nil {
		a.logger.WithFields(logging.Fields{"url": url, "error": err.Error()}).
			Warn("Vision response unparseable, using fallback design profile")
		return FallbackProfile()
	}

	profile.AnalysisMethod = "vision"
	profile.Timestamp = time.Now().UTC().Format(time.RFC3339)
	return &profile
}

// FallbackProfile is the neutral profile used when screenshot or vision
// analysis is unavailable.
func FallbackProfile() *DesignProfile {
	return &DesignProfile{
		ColorKit: ColorKit{
			Background:     "#ffffff",
			BrandPrimary:   "#1a1a1a",
			BrandSecondary: "#4a4a4a",
			TextPrimary:    "#1a1a1a",
			TextSecondary:  "#6b6b6b",
		},
		FontFamily:     "Helvetica",
		StyleKeywords:  []string{"clean", "minimal", "modern"},
		AnalysisMethod: "fallback",
		Timestamp:      time.Now().UTC().Format(time.RFC3339),
	}
}
