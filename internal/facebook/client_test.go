package facebook

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"brandworks/pkg/logging"
)

func newTestClient(baseURL string) *Client {
	c := NewClient("test-key", "test-dataset", logging.NewLogger())
	c.baseURL = baseURL
	return c
}

func TestScrapeHappyPath(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case strings.HasPrefix(r.URL.Path, "/trigger"):
			if r.Header.Get("Authorization") != "Bearer test-key" {
				t.Errorf("missing auth header")
			}
			var payload []map[string]interface{}
			if err := json.NewDecoder(r.Body).Decode(&payload); err != nil || len(payload) != 1 {
				t.Errorf("bad trigger payload: %v", err)
			}
			if payload[0]["num_of_posts"].(float64) != 5 {
				t.Errorf("num_of_posts = %v", payload[0]["num_of_posts"])
			}
			json.NewEncoder(w).Encode(map[string]string{"snapshot_id": "snap-1"})
		case strings.HasPrefix(r.URL.Path, "/progress/snap-1"):
			json.NewEncoder(w).Encode(map[string]string{"status": "completed"})
		case strings.HasPrefix(r.URL.Path, "/snapshot/snap-1"):
			json.NewEncoder(w).Encode([]map[string]interface{}{
				{"post_text": "Hello from the page", "likes": 12, "page_name": "Acme"},
			})
		default:
			t.Errorf("unexpected path %s", r.URL.Path)
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer srv.Close()

	set, err := newTestClient(srv.URL).Scrape(context.Background(), "https://facebook.com/acme")
	if err != nil {
		t.Fatalf("Scrape failed: %v", err)
	}
	if set.Status != "success" || len(set.Posts) != 1 {
		t.Fatalf("unexpected set: %+v", set)
	}
	if set.Posts[0].Content != "Hello from the page" {
		t.Errorf("post_text variant not mapped: %+v", set.Posts[0])
	}
}

func TestScrapeTriggerMissingSnapshotID(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]string{})
	}))
	defer srv.Close()

	if _, err := newTestClient(srv.URL).Scrape(context.Background(), "https://facebook.com/acme"); err == nil {
		t.Fatal("expected error for missing snapshot id")
	}
}

func TestPollFailedStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]string{"status": "error"})
	}))
	defer srv.Close()

	if err := newTestClient(srv.URL).Poll(context.Background(), "snap-x"); err == nil {
		t.Fatal("expected error for failed snapshot")
	}
}
