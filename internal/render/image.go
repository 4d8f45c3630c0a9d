// Package render rasterizes the campaign images: a solid brand-colored
// canvas with the extracted overlay text wrapped and centered.
package render

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	_ "image/jpeg"
	"image/png"

	xdraw "golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/math/fixed"

	"brandworks/internal/artifacts"
	"brandworks/internal/design"
	"brandworks/internal/prompts"
	"brandworks/pkg/llm"
	"brandworks/pkg/logging"
)

const (
	canvasSize    = 1080
	canvasPadding = 80
	overlaySize   = 72.0
	lineSpacing   = 1.35
	watermarkSize = 30.0
)

// GeneratedImage records one rendered campaign image.
type GeneratedImage struct {
	Domain     string `json:"domain"`
	PostNumber int    `json:"post_number"`
	Filepath   string `json:"filepath"`
	FileSize   int    `json:"file_size"`
}

// Renderer produces PNGs from prompt sets. When an image generation
// provider is configured it supplies the photographic background; the
// solid brand-colored canvas is the fallback either way.
type Renderer struct {
	store    *artifacts.Store
	imageGen llm.ImageProvider
	logger   logging.Logger
}

// NewRenderer creates a renderer writing into the artifact store.
// imageGen may be nil.
func NewRenderer(store *artifacts.Store, imageGen llm.ImageProvider, logger logging.Logger) *Renderer {
	return &Renderer{store: store, imageGen: imageGen, logger: logger}
}

// RenderAll renders every prompt in the set. One image failing does not
// stop the others; failures are logged and omitted from the result.
func (r *Renderer) RenderAll(ctx context.Context, domain string, set *prompts.Set, dp *design.DesignProfile) []GeneratedImage {
	var images []GeneratedImage
	for _, p := range set.InstagramPosts {
		select {
		case <-ctx.Done():
			return images
		default:
		}
		img, err := r.renderOne(ctx, domain, p, dp)
		if err != nil {
			r.logger.WithFields(logging.Fields{"domain": domain, "post": p.PostNumber, "error": err.Error()}).
				Warn("Image render failed")
			continue
		}
		images = append(images, *img)
	}
	return images
}

func (r *Renderer) renderOne(ctx context.Context, domain string, p prompts.Prompt, dp *design.DesignProfile) (*GeneratedImage, error) {
	overlay := p.TextOverlay
	if overlay == "" {
		overlay = ExtractOverlay(p.Prompt)
	}

	data, err := ComposeOn(r.generateBackground(ctx, p), overlay, p.PostNumber, dp)
	if err != nil {
		return nil, err
	}

	path, size, err := r.store.WriteImage(domain, p.PostNumber, data)
	if err != nil {
		return nil, err
	}
	return &GeneratedImage{
		Domain:     domain,
		PostNumber: p.PostNumber,
		Filepath:   path,
		FileSize:   size,
	}, nil
}

// generateBackground asks the image capability for a photographic
// background. Any failure silently yields nil, which means the solid
// brand canvas.
func (r *Renderer) generateBackground(ctx context.Context, p prompts.Prompt) image.Image {
	if r.imageGen == nil {
		return nil
	}
	data, err := r.imageGen.GenerateImage(ctx, p.Prompt)
	if err != nil {
		r.logger.WithFields(logging.Fields{"post": p.PostNumber, "error": err.Error()}).
			Warn("Image generation failed, using solid canvas")
		return nil
	}
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		r.logger.WithFields(logging.Fields{"post": p.PostNumber, "error": err.Error()}).
			Warn("Generated image undecodable, using solid canvas")
		return nil
	}
	return img
}

// Compose draws the solid-canvas variant. Used by the single-phase CLI
// mode.
func Compose(overlay string, postNumber int, dp *design.DesignProfile) ([]byte, error) {
	return ComposeOn(nil, overlay, postNumber, dp)
}

// ComposeOn draws the canvas, optionally over a generated background
// scaled to fill, and returns encoded PNG bytes.
func ComposeOn(background image.Image, overlay string, postNumber int, dp *design.DesignProfile) ([]byte, error) {
	bg, ok := ParseHex(dp.ColorKit.BrandPrimary)
	if !ok {
		bg = color.RGBA{A: 255} // black
	}

	canvas := image.NewRGBA(image.Rect(0, 0, canvasSize, canvasSize))
	draw.Draw(canvas, canvas.Bounds(), image.NewUniform(bg), image.Point{}, draw.Src)
	if background != nil {
		xdraw.ApproxBiLinear.Scale(canvas, canvas.Bounds(), background, background.Bounds(), draw.Src, nil)
	}

	textColor := contrastColor(bg)

	if overlay != "" {
		face := resolveFace(dp.FontFamily, overlaySize)
		drawCenteredBlock(canvas, face, overlay, textColor)
	}
	drawWatermark(canvas, postNumber, textColor, dp.FontFamily)

	var buf bytes.Buffer
	if err := png.Encode(&buf, canvas); err != nil {
		return nil, fmt.Errorf("encode png: %w", err)
	}
	return buf.Bytes(), nil
}

// drawCenteredBlock wraps text to the padded width and centers the
// line block both horizontally and vertically.
func drawCenteredBlock(canvas *image.RGBA, face font.Face, text string, textColor color.Color) {
	usable := canvasSize - 2*canvasPadding
	budget := charsPerLine(usable, int(overlaySize), text)
	lines := wrapText(text, budget)
	if len(lines) == 0 {
		return
	}

	metrics := face.Metrics()
	lineHeight := int(float64(metrics.Height.Ceil()) * lineSpacing)
	if lineHeight == 0 {
		fallback := float64(overlaySize) * lineSpacing
		lineHeight = int(fallback)
	}
	blockHeight := lineHeight * len(lines)
	startY := (canvasSize-blockHeight)/2 + metrics.Ascent.Ceil()

	drawer := &font.Drawer{
		Dst:  canvas,
		Src:  image.NewUniform(textColor),
		Face: face,
	}
	for i, line := range lines {
		width := drawer.MeasureString(line).Ceil()
		x := (canvasSize - width) / 2
		if x < canvasPadding {
			x = canvasPadding
		}
		drawer.Dot = fixed.P(x, startY+i*lineHeight)
		drawer.DrawString(line)
	}
}

func drawWatermark(canvas *image.RGBA, postNumber int, textColor color.Color, family string) {
	face := resolveFace(family, watermarkSize)
	drawer := &font.Drawer{
		Dst:  canvas,
		Src:  image.NewUniform(textColor),
		Face: face,
	}
	label := fmt.Sprintf("%d", postNumber)
	width := drawer.MeasureString(label).Ceil()
	drawer.Dot = fixed.P(canvasSize-40-width, canvasSize-40)
	drawer.DrawString(label)
}

// contrastColor picks white or near-black text for legibility on the
// background.
func contrastColor(bg color.RGBA) color.Color {
	// Perceived luminance, ITU-R BT.601 weights.
	lum := 0.299*float64(bg.R) + 0.587*float64(bg.G) + 0.114*float64(bg.B)
	if lum > 150 {
		return color.RGBA{R: 26, G: 26, B: 26, A: 255}
	}
	return color.White
}
