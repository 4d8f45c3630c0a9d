// Package facebook implements the trigger/poll/retrieve scraping
// protocol for recent Facebook page posts.
package facebook

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/failsafe-go/failsafe-go"
	"github.com/failsafe-go/failsafe-go/retrypolicy"

	"brandworks/pkg/logging"
)

const (
	defaultBaseURL = "https://api.brightdata.com/datasets/v3"
	numPosts       = 5
	lookback       = 60 * 24 * time.Hour

	pollInterval = 10 * time.Second
	pollMaxWait  = 300 * time.Second
)

// PostSet is the facebook-posts artifact for one domain.
type PostSet struct {
	Status      string `json:"status"`
	FacebookURL string `json:"facebook_url"`
	Posts       []Post `json:"posts"`
	ScrapedAt   string `json:"scraped_at"`
}

// Post is one scraped Facebook post.
type Post struct {
	Content     string `json:"content"`
	Likes       int    `json:"likes"`
	NumComments int    `json:"num_comments"`
	NumShares   int    `json:"num_shares"`
	PostType    string `json:"post_type"`
	PageName    string `json:"page_name"`
}

// Client drives the three-step snapshot protocol.
type Client struct {
	baseURL   string
	apiKey    string
	datasetID string
	http      *http.Client
	executor  failsafe.Executor[*http.Response]
	logger    logging.Logger
}

// NewClient creates a scraping client.
func NewClient(apiKey, datasetID string, logger logging.Logger) *Client {
	retry := retrypolicy.NewBuilder[*http.Response]().
		WithBackoff(500*time.Millisecond, 5*time.Second).
		WithMaxRetries(2).
		WithJitterFactor(0.1).
		HandleIf(func(resp *http.Response, err error) bool {
			if err != nil {
				return true
			}
			return resp != nil && (resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500)
		}).
		Build()

	return &Client{
		baseURL:   defaultBaseURL,
		apiKey:    apiKey,
		datasetID: datasetID,
		http:      &http.Client{Timeout: 30 * time.Second},
		executor:  failsafe.With(retry),
		logger:    logger,
	}
}

// Scrape runs trigger, poll and retrieve and returns the post set.
// Any failure returns an error; the caller treats the phase as
// optional.
func (c *Client) Scrape(ctx context.Context, facebookURL string) (*PostSet, error) {
	snapshotID, err := c.Trigger(ctx, facebookURL)
	if err != nil {
		return nil, err
	}
	c.logger.WithFields(logging.Fields{"snapshot_id": snapshotID, "url": facebookURL}).
		Info("Facebook scrape triggered")

	if err := c.Poll(ctx, snapshotID); err != nil {
		return nil, err
	}

	posts, err := c.Retrieve(ctx, snapshotID)
	if err != nil {
		return nil, err
	}

	return &PostSet{
		Status:      "success",
		FacebookURL: facebookURL,
		Posts:       posts,
		ScrapedAt:   time.Now().UTC().Format(time.RFC3339),
	}, nil
}

type triggerResponse struct {
	SnapshotID string `json:"snapshot_id"`
}

// Trigger submits the scrape job and returns a snapshot id.
func (c *Client) Trigger(ctx context.Context, facebookURL string) (string, error) {
	now := time.Now().UTC()
	payload := []map[string]interface{}{{
		"url":          facebookURL,
		"num_of_posts": numPosts,
		"start_date":   now.Add(-lookback).Format("2006-01-02"),
		"end_date":     now.Format("2006-01-02"),
	}}
	body, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("marshal trigger: %w", err)
	}

	endpoint := fmt.Sprintf("%s/trigger?dataset_id=%s&include_errors=true", c.baseURL, url.QueryEscape(c.datasetID))
	data, err := c.do(ctx, "POST", endpoint, body)
	if err != nil {
		return "", fmt.Errorf("trigger scrape: %w", err)
	}

	var parsed triggerResponse
	if err := json.Unmarshal(data, &parsed); err != nil {
		return "", fmt.Errorf("decode trigger response: %w", err)
	}
	if parsed.SnapshotID == "" {
		return "", fmt.Errorf("trigger response missing snapshot id")
	}
	return parsed.SnapshotID, nil
}

type progressResponse struct {
	Status string `json:"status"`
}

// Poll waits for the snapshot to become ready, checking every 10s with
// a 300s ceiling.
func (c *Client) Poll(ctx context.Context, snapshotID string) error {
	pollCtx, cancel := context.WithTimeout(ctx, pollMaxWait)
	defer cancel()

	ticker := time.NewTicker(pollInterval)
	defer ticker.Stop()

	for {
		data, err := c.do(pollCtx, "GET", fmt.Sprintf("%s/progress/%s", c.baseURL, snapshotID), nil)
		if err != nil {
			return fmt.Errorf("poll snapshot: %w", err)
		}
		var parsed progressResponse
		if err := json.Unmarshal(data, &parsed); err != nil {
			return fmt.Errorf("decode progress: %w", err)
		}

		switch strings.ToLower(parsed.Status) {
		case "completed", "done", "finished", "ready":
			return nil
		case "failed", "error":
			return fmt.Errorf("snapshot %s failed", snapshotID)
		}

		select {
		case <-pollCtx.Done():
			return fmt.Errorf("snapshot %s not ready after %s", snapshotID, pollMaxWait)
		case <-ticker.C:
		}
	}
}

// rawPost tolerates the field variants the scraping service emits.
type rawPost struct {
	Content     string `json:"content"`
	PostText    string `json:"post_text"`
	Likes       int    `json:"likes"`
	NumComments int    `json:"num_comments"`
	NumShares   int    `json:"num_shares"`
	PostType    string `json:"post_type"`
	PageName    string `json:"page_name"`
}

// Retrieve fetches the finished snapshot's posts.
func (c *Client) Retrieve(ctx context.Context, snapshotID string) ([]Post, error) {
	data, err := c.do(ctx, "GET", fmt.Sprintf("%s/snapshot/%s?format=json", c.baseURL, snapshotID), nil)
	if err != nil {
		return nil, fmt.Errorf("retrieve snapshot: %w", err)
	}

	var raw []rawPost
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("decode snapshot: %w", err)
	}

	posts := make([]Post, 0, len(raw))
	for _, r := range raw {
		content := r.Content
		if content == "" {
			content = r.PostText
		}
		posts = append(posts, Post{
			Content:     content,
			Likes:       r.Likes,
			NumComments: r.NumComments,
			NumShares:   r.NumShares,
			PostType:    r.PostType,
			PageName:    r.PageName,
		})
	}
	return posts, nil
}

func (c *Client) do(ctx context.Context, method, endpoint string, body []byte) ([]byte, error) {
	resp, err := c.executor.WithContext(ctx).Get(func() (*http.Response, error) {
		var reader io.Reader
		if body != nil {
			reader = strings.NewReader(string(body))
		}
		req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
		if err != nil {
			return nil, err
		}
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
		if body != nil {
			req.Header.Set("Content-Type", "application/json")
		}
		return c.http.Do(req)
	})
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("status %d: %s", resp.StatusCode, truncate(string(data), 200))
	}
	return data, nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
