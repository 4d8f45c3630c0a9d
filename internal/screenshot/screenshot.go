// Package screenshot captures website screenshots for design analysis,
// either through a remote screenshot API or a locally managed headless
// browser.
package screenshot

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

// Viewport is the capture size in CSS pixels.
type Viewport struct {
	Width  int
	Height int
}

// MobileViewport matches the phone form factor the design analysis
// prompt expects.
var MobileViewport = Viewport{Width: 375, Height: 812}

// Capturer captures a screenshot of a URL.
type Capturer interface {
	Capture(ctx context.Context, pageURL string, viewport Viewport) ([]byte, error)
}

// RemoteCapturer calls a hosted screenshot API.
type RemoteCapturer struct {
	endpoint string
	apiKey   string
	client   *http.Client
}

// NewRemoteCapturer creates a remote capturer against endpoint.
func NewRemoteCapturer(endpoint, apiKey string) *RemoteCapturer {
	return &RemoteCapturer{
		endpoint: endpoint,
		apiKey:   apiKey,
		client:   &http.Client{Timeout: 60 * time.Second},
	}
}

// Capture requests a full-page PNG with cookie banners and ads blocked.
func (c *RemoteCapturer) Capture(ctx context.Context, pageURL string, viewport Viewport) ([]byte, error) {
	q := url.Values{}
	q.Set("access_key", c.apiKey)
	q.Set("url", pageURL)
	q.Set("viewport_width", fmt.Sprintf("%d", viewport.Width))
	q.Set("viewport_height", fmt.Sprintf("%d", viewport.Height))
	q.Set("device_scale_factor", "2")
	q.Set("format", "png")
	q.Set("full_page", "true")
	q.Set("block_cookie_banners", "true")
	q.Set("block_ads", "true")

	req, err := http.NewRequestWithContext(ctx, "GET", c.endpoint+"?"+q.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("build screenshot request: %w", err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("screenshot request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("screenshot API error %d: %s", resp.StatusCode, body)
	}

	png, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read screenshot: %w", err)
	}
	if len(png) == 0 {
		return nil, fmt.Errorf("screenshot API returned empty body")
	}
	return png, nil
}
