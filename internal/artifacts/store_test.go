package artifacts

import (
	"testing"
	"time"
)

func TestSanitizeDomain(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"https://www.example.com/path", "example-com"},
		{"https://shop.example.se", "shop-example-se"},
		{"http://Example.COM", "example-com"},
		{"example.com/some/deep/path?q=1", "example-com"},
		{"not a url at all", "not a url at all"},
		{"", ""},
	}
	for _, c := range cases {
		got := SanitizeDomain(c.in)
		if got != c.want {
			t.Errorf("SanitizeDomain(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestSanitizeDomainIdempotent(t *testing.T) {
	urls := []string{
		"https://www.example.com/path",
		"https://shop.example.se",
		"https://sub.domain.co.uk/about#team",
	}
	for _, u := range urls {
		once := SanitizeDomain(u)
		twice := SanitizeDomain(once)
		if once != twice {
			t.Errorf("sanitize not idempotent for %q: %q != %q", u, once, twice)
		}
	}
}

type testArtifact struct {
	Name string `json:"name"`
}

func TestStoreWriteReadRoundTrip(t *testing.T) {
	store, err := NewStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewStore failed: %v", err)
	}
	fixed := time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)
	store.now = func() time.Time { return fixed }

	rel, err := store.WriteJSON("brand-analysis", "example-com", testArtifact{Name: "Example"})
	if err != nil {
		t.Fatalf("WriteJSON failed: %v", err)
	}
	if rel != "brand-analysis/example-com/example-com-brand-analysis-2026-03-15.json" {
		t.Errorf("unexpected relative path %q", rel)
	}

	var got testArtifact
	if err := store.ReadJSON("brand-analysis", "example-com", fixed, &got); err != nil {
		t.Fatalf("ReadJSON failed: %v", err)
	}
	if got.Name != "Example" {
		t.Errorf("round trip lost data: %+v", got)
	}
}

func TestStoreMostRecent(t *testing.T) {
	store, err := NewStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewStore failed: %v", err)
	}

	dates := []time.Time{
		time.Date(2026, 1, 2, 0, 0, 0, 0, time.UTC),
		time.Date(2026, 2, 20, 0, 0, 0, 0, time.UTC),
		time.Date(2026, 1, 30, 0, 0, 0, 0, time.UTC),
	}
	for i, d := range dates {
		store.now = func() time.Time { return d }
		if _, err := store.WriteJSON("facebook-posts", "example-com", testArtifact{Name: d.Format("2006-01-02")}); err != nil {
			t.Fatalf("write %d failed: %v", i, err)
		}
	}

	var got testArtifact
	if _, err := store.MostRecent("facebook-posts", "example-com", &got); err != nil {
		t.Fatalf("MostRecent failed: %v", err)
	}
	if got.Name != "2026-02-20" {
		t.Errorf("MostRecent returned %q, want newest 2026-02-20", got.Name)
	}

	if _, err := store.MostRecent("facebook-posts", "other-com", &got); err != ErrNotFound {
		t.Errorf("expected ErrNotFound for unknown domain, got %v", err)
	}
}

func TestStoreResolveRejectsTraversal(t *testing.T) {
	store, err := NewStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewStore failed: %v", err)
	}
	if _, err := store.Resolve("../../etc/passwd"); err == nil {
		t.Error("expected traversal rejection")
	}
	if _, err := store.Resolve("images/example-com/example-com-post-1.png"); err != nil {
		t.Errorf("expected in-root path to resolve, got %v", err)
	}
}
