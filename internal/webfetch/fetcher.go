package webfetch

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"

	"brandworks/pkg/logging"
)

const (
	maxBodyBytes   = 4 << 20
	maxTextLength  = 15000
	fetchUserAgent = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0 Safari/537.36"
)

// Page is the extracted content of one fetched URL.
type Page struct {
	URL             string
	HTML            string
	Title           string
	MetaDescription string
	MetaKeywords    string
	Text            string
	SPA             bool
}

// Client fetches and extracts web pages.
type Client struct {
	http   *http.Client
	logger logging.Logger
}

// NewClient creates a fetching client.
func NewClient(timeout time.Duration, logger logging.Logger) *Client {
	return &Client{
		http:   &http.Client{Timeout: timeout},
		logger: logger,
	}
}

// Fetch retrieves a URL and extracts its content.
func (c *Client) Fetch(ctx context.Context, url string) (*Page, error) {
	if !strings.HasPrefix(url, "http://") && !strings.HasPrefix(url, "https://") {
		url = "https://" + url
	}

	resp, err := c.doWithRetry(ctx, url)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch %s: status %d", url, resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", url, err)
	}

	return Extract(url, string(body))
}

// FetchLenient never fails: when the fetch errors (403, network, parse)
// it returns a minimal synthetic page so downstream AI analysis can
// still proceed on the URL alone.
func (c *Client) FetchLenient(ctx context.Context, url string) *Page {
	page, err := c.Fetch(ctx, url)
	if err == nil {
		return page
	}
	c.logger.WithFields(logging.Fields{"url": url, "error": err.Error()}).
		Warn("Fetch failed, continuing with synthetic page")
	return &Page{
		URL:   url,
		Title: url,
		Text:  fmt.Sprintf("Access restricted. Website content could not be retrieved from %s. Analysis is based on the URL and domain name only.", url),
	}
}

// doWithRetry retries transient statuses with exponential backoff,
// honoring Retry-After when the server sends one.
func (c *Client) doWithRetry(ctx context.Context, url string) (*http.Response, error) {
	const attempts = 3
	backoff := 2 * time.Second

	var lastErr error
	for i := 0; i < attempts; i++ {
		req, err := http.NewRequestWithContext(ctx, "GET", url, nil)
		if err != nil {
			return nil, fmt.Errorf("build request: %w", err)
		}
		req.Header.Set("User-Agent", fetchUserAgent)
		req.Header.Set("Accept", "text/html,application/xhtml+xml")

		resp, err := c.http.Do(req)
		if err != nil {
			lastErr = err
		} else if resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500 {
			lastErr = fmt.Errorf("status %d", resp.StatusCode)
			wait := backoff
			if ra := resp.Header.Get("Retry-After"); ra != "" {
				if secs, err := strconv.Atoi(ra); err == nil && secs > 0 && secs <= 60 {
					wait = time.Duration(secs) * time.Second
				}
			}
			resp.Body.Close()
			if i < attempts-1 {
				select {
				case <-ctx.Done():
					return nil, ctx.Err()
				case <-time.After(wait):
				}
				backoff *= 2
				continue
			}
		} else {
			return resp, nil
		}

		if i < attempts-1 {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(backoff):
			}
			backoff *= 2
		}
	}
	return nil, fmt.Errorf("fetch %s: %w", url, lastErr)
}

// Extract parses HTML and pulls out the page content used downstream.
func Extract(url, html string) (*Page, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", url, err)
	}

	page := &Page{
		URL:   url,
		HTML:  html,
		Title: strings.TrimSpace(doc.Find("title").First().Text()),
	}
	if v, ok := doc.Find(`meta[name="description"]`).Attr("content"); ok {
		page.MetaDescription = strings.TrimSpace(v)
	}
	if v, ok := doc.Find(`meta[name="keywords"]`).Attr("content"); ok {
		page.MetaKeywords = strings.TrimSpace(v)
	}

	body := doc.Clone()
	body.Find("script, style, noscript, iframe, svg").Remove()
	text := truncateText(normalizeWhitespace(body.Find("body").Text()), maxTextLength)
	page.Text = text
	page.SPA = DetectSPA(html, text)

	return page, nil
}

func normalizeWhitespace(s string) string {
	return strings.Join(strings.Fields(s), " ")
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
