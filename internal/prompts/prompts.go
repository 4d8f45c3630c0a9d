// Package prompts turns a campaign plan into image-generation prompts.
// This is a pure transform: no external calls, fully deterministic.
package prompts

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"brandworks/internal/content"
	"brandworks/internal/design"
)

// Set is the prompt artifact for one domain.
type Set struct {
	DetectedLanguage string   `json:"detected_language"`
	InstagramPosts   []Prompt `json:"instagram_posts"`
}

// Prompt is one image-generation prompt.
type Prompt struct {
	PostNumber  int      `json:"post_number"`
	Prompt      string   `json:"prompt"`
	TextOverlay string   `json:"text_overlay,omitempty"`
	Style       string   `json:"style"`
	Colors      []string `json:"colors"`
}

// Build produces one prompt per post using a fixed template. Hex
// colors are rendered as descriptive names so the downstream image
// model gets words, not codes.
func Build(plan *content.Plan, dp *design.DesignProfile) *Set {
	set := &Set{
		DetectedLanguage: plan.BrandAnalysis.DetectedLanguage,
		InstagramPosts:   make([]Prompt, 0, len(plan.InstagramPosts)),
	}

	primary := colorName(dp.ColorKit.BrandPrimary)
	secondary := colorName(dp.ColorKit.BrandSecondary)
	style := strings.Join(dp.StyleKeywords, ", ")
	if style == "" {
		style = "clean, modern"
	}

	for _, post := range plan.InstagramPosts {
		overlay := overlayFor(post)

		var sb strings.Builder
		fmt.Fprintf(&sb, "A %s Instagram photo for a %s themed post.", style, post.Theme)
		fmt.Fprintf(&sb, " Dominant brand colors: %s and %s.", primary, secondary)
		if dp.FontFamily != "" {
			fmt.Fprintf(&sb, " Typography in the spirit of %s.", dp.FontFamily)
		}
		fmt.Fprintf(&sb, " Mood: %s. Caption context: %s.", post.TargetEmotion, truncate(post.Caption, 200))
		if overlay != "" {
			fmt.Fprintf(&sb, " TEXT OVERLAY: '%s'", overlay)
		}
		fmt.Fprintf(&sb, " Language of any visible text: %s.", set.DetectedLanguage)

		set.InstagramPosts = append(set.InstagramPosts, Prompt{
			PostNumber:  post.PostNumber,
			Prompt:      sb.String(),
			TextOverlay: overlay,
			Style:       style,
			Colors:      []string{dp.ColorKit.BrandPrimary, dp.ColorKit.BrandSecondary},
		})
	}
	return set
}

// overlayFor derives the short on-image text from a post: the first
// sentence of the caption, capped to a length that still renders well.
func overlayFor(post content.InstagramPost) string {
	caption := strings.TrimSpace(post.Caption)
	if caption == "" {
		return ""
	}
	for _, sep := range []string{". ", "! ", "? ", "\n"} {
		if i := strings.Index(caption, sep); i > 0 {
			caption = caption[:i+1]
			break
		}
	}
	caption = strings.TrimRight(caption, ".!?")
	if len(caption) > 60 {
		cut := 60
		for cut > 0 && !utf8.RuneStart(caption[cut]) {
			cut--
		}
		if i := strings.LastIndex(caption[:cut], " "); i > 20 {
			caption = caption[:i]
		} else {
			caption = caption[:cut]
		}
	}
	return strings.TrimSpace(caption)
}

// namedColor is one reference point for hex-to-name mapping.
type namedColor struct {
	name    string
	r, g, b int
}

var namedColors = []namedColor{
	{"black", 0x1a, 0x1a, 0x1a},
	{"white", 0xff, 0xff, 0xff},
	{"warm gray", 0x8a, 0x85, 0x7e},
	{"charcoal", 0x36, 0x45, 0x4f},
	{"navy blue", 0x00, 0x2f, 0x6c},
	{"sky blue", 0x87, 0xce, 0xeb},
	{"teal", 0x00, 0x80, 0x80},
	{"forest green", 0x22, 0x8b, 0x22},
	{"olive green", 0x80, 0x80, 0x00},
	{"mint green", 0x98, 0xfb, 0x98},
	{"burgundy", 0x80, 0x00, 0x20},
	{"crimson red", 0xdc, 0x14, 0x3c},
	{"coral", 0xff, 0x7f, 0x50},
	{"terracotta", 0xe2, 0x72, 0x5b},
	{"golden yellow", 0xff, 0xd7, 0x00},
	{"cream", 0xff, 0xfd, 0xd0},
	{"beige", 0xf5, 0xf5, 0xdc},
	{"lavender", 0xe6, 0xe6, 0xfa},
	{"deep purple", 0x4b, 0x00, 0x82},
	{"rose pink", 0xff, 0x66, 0xcc},
	{"burnt orange", 0xcc, 0x55, 0x00},
	{"chocolate brown", 0x5d, 0x40, 0x37},
}

// colorName maps a hex color to the nearest named reference color by
// squared RGB distance. Unparseable input falls back to "neutral".
func colorName(hex string) string {
	r, g, b, ok := parseHex(hex)
	if !ok {
		return "neutral"
	}
	best := namedColors[0]
	bestDist := 1 << 30
	for _, nc := range namedColors {
		dr, dg, db := r-nc.r, g-nc.g, b-nc.b
		dist := dr*dr + dg*dg + db*db
		if dist < bestDist {
			bestDist = dist
			best = nc
		}
	}
	return best.name
}

func parseHex(s string) (int, int, int, bool) {
	s = strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(s) == 3 {
		s = string([]byte{s[0], s[0], s[1], s[1], s[2], s[2]})
	}
	if len(s) != 6 {
		return 0, 0, 0, false
	}
	var r, g, b int
	if _, err := fmt.Sscanf(s, "%02x%02x%02x", &r, &g, &b); err != nil {
		return 0, 0, 0, false
	}
	return r, g, b, true
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
