package render

import (
	"bytes"
	"image/png"
	"reflect"
	"strings"
	"testing"

	"brandworks/internal/design"
)

func TestExtractOverlayPatterns(t *testing.T) {
	cases := []struct {
		prompt string
		want   string
	}{
		{"A photo. TEXT OVERLAY: 'Hello World' in bold.", "Hello World"},
		{`Studio shot, TEXT OVERLAY: "Fresh Ideas".`, "Fresh Ideas"},
		{"Superposez le texte 'Bonjour' sur la photo.", "Bonjour"},
		{"A sign reading 'Open Every Day' above the door.", "Open Every Day"},
		{"A warm photo with a banner showing 'Family Owned' near the entrance.", "Family Owned"},
		{"A plain photo with no overlay and no quotes at all.", ""},
	}
	for _, c := range cases {
		if got := ExtractOverlay(c.prompt); got != c.want {
			t.Errorf("ExtractOverlay(%q) = %q, want %q", c.prompt, got, c.want)
		}
	}
}

func TestExtractOverlaySkipsLongQuotes(t *testing.T) {
	long := strings.Repeat("x", 120)
	prompt := "A photo with '" + long + "' written on it."
	if got := ExtractOverlay(prompt); got != "" {
		t.Errorf("quoted span over 100 chars should not match, got %q", got)
	}
}

func TestCleanOverlay(t *testing.T) {
	if got := cleanOverlay("Hello World."); got != "Hello World" {
		t.Errorf("trailing punctuation kept: %q", got)
	}
	if got := cleanOverlay("Great Coffee elegant"); got != "Great Coffee" {
		t.Errorf("filler word kept: %q", got)
	}
}

func TestWrapTextDeterministic(t *testing.T) {
	text := "this overlay string has exactly forty chr"
	if len(text) != 41 {
		t.Fatalf("fixture drifted: %d chars", len(text))
	}

	budget := charsPerLine(canvasSize-2*canvasPadding, int(overlaySize), text)
	first := wrapText(text, budget)
	for i := 0; i < 3; i++ {
		if again := wrapText(text, budget); !reflect.DeepEqual(again, first) {
			t.Fatalf("wrap not deterministic: %v vs %v", again, first)
		}
	}

	// 920 usable px at 72px font, plain width 0.58 -> 22 chars per line.
	if budget != 22 {
		t.Errorf("budget = %d, want 22", budget)
	}
	if len(first) != 2 {
		t.Errorf("expected 2 lines, got %v", first)
	}
	for _, line := range first {
		if len(line) > budget {
			t.Errorf("line %q exceeds budget %d", line, budget)
		}
	}
}

func TestWrapAccentedNarrowerBudget(t *testing.T) {
	plain := charsPerLine(920, 72, "plain text")
	accented := charsPerLine(920, 72, "tèxte accentué")
	if accented >= plain {
		t.Errorf("accented budget %d should be narrower than plain %d", accented, plain)
	}
}

func TestParseHex(t *testing.T) {
	c, ok := ParseHex("#1a2b3c")
	if !ok || c.R != 0x1a || c.G != 0x2b || c.B != 0x3c {
		t.Errorf("ParseHex(#1a2b3c) = %+v, %v", c, ok)
	}
	if _, ok := ParseHex("nope"); ok {
		t.Error("expected failure for invalid hex")
	}
	if c, ok := ParseHex("fff"); !ok || c.R != 255 {
		t.Errorf("short form failed: %+v, %v", c, ok)
	}
}

func TestComposeProducesValidPNG(t *testing.T) {
	dp := design.FallbackProfile()
	data, err := Compose("Hello World", 2, dp)
	if err != nil {
		t.Fatalf("Compose failed: %v", err)
	}
	img, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("output is not a PNG: %v", err)
	}
	b := img.Bounds()
	if b.Dx() != canvasSize || b.Dy() != canvasSize {
		t.Errorf("canvas is %dx%d, want %dx%d", b.Dx(), b.Dy(), canvasSize, canvasSize)
	}
}

func TestComposeFallsBackToBlackBackground(t *testing.T) {
	dp := design.FallbackProfile()
	dp.ColorKit.BrandPrimary = "not-a-color"
	data, err := Compose("", 1, dp)
	if err != nil {
		t.Fatalf("Compose failed: %v", err)
	}
	img, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	r, g, b, _ := img.At(10, 10).RGBA()
	if r != 0 || g != 0 || b != 0 {
		t.Errorf("expected black background, got %d %d %d", r, g, b)
	}
}
