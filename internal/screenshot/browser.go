package screenshot

import (
	"context"
	"fmt"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
	"github.com/go-rod/stealth"
)

const (
	captureTimeout   = 45 * time.Second
	captureStableDur = 500 * time.Millisecond
	maxCaptureTabs   = 2
)

// BrowserCapturer captures screenshots with a locally managed headless
// Chromium instance. Create with NewBrowserCapturer; call Close when
// done.
type BrowserCapturer struct {
	browser *rod.Browser
	tabSem  chan struct{}
}

// NewBrowserCapturer launches headless Chromium via Rod's launcher.
func NewBrowserCapturer() (*BrowserCapturer, error) {
	u, err := launcher.New().
		Headless(true).
		Set("disable-gpu").
		Set("no-sandbox").
		Set("disable-dev-shm-usage").
		Launch()
	if err != nil {
		return nil, fmt.Errorf("launch headless browser: %w", err)
	}

	browser := rod.New().ControlURL(u)
	if err := browser.Connect(); err != nil {
		return nil, fmt.Errorf("connect to headless browser: %w", err)
	}

	return &BrowserCapturer{
		browser: browser,
		tabSem:  make(chan struct{}, maxCaptureTabs),
	}, nil
}

// Capture navigates to pageURL at the given viewport, waits for the DOM
// to stabilize and returns a full-page PNG.
func (c *BrowserCapturer) Capture(ctx context.Context, pageURL string, viewport Viewport) ([]byte, error) {
	select {
	case c.tabSem <- struct{}{}:
		defer func() { <-c.tabSem }()
	case <-ctx.Done():
		return nil, ctx.Err()
	}

	page, err := stealth.Page(c.browser)
	if err != nil {
		return nil, fmt.Errorf("create tab: %w", err)
	}
	defer page.Close()

	captureCtx, cancel := context.WithTimeout(ctx, captureTimeout)
	defer cancel()
	page = page.Context(captureCtx)

	if err := page.SetViewport(&proto.EmulationSetDeviceMetricsOverride{
		Width:             viewport.Width,
		Height:            viewport.Height,
		DeviceScaleFactor: 2,
		Mobile:            true,
	}); err != nil {
		return nil, fmt.Errorf("set viewport: %w", err)
	}

	if err := page.Navigate(pageURL); err != nil {
		return nil, fmt.Errorf("navigate to %s: %w", pageURL, err)
	}
	_ = page.WaitStable(captureStableDur)

	png, err := page.Screenshot(true, &proto.PageCaptureScreenshot{
		Format: proto.PageCaptureScreenshotFormatPng,
	})
	if err != nil {
		return nil, fmt.Errorf("capture %s: %w", pageURL, err)
	}
	return png, nil
}

// Close shuts down the headless browser process.
func (c *BrowserCapturer) Close() {
	_ = c.browser.Close()
}
