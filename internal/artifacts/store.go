package artifacts

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"
)

// ErrNotFound is returned when no artifact exists for a key.
var ErrNotFound = errors.New("artifact not found")

// Store persists JSON and PNG artifacts in a hierarchical layout keyed
// by category, sanitized domain and date:
//
//	{root}/{category}/{domain}/{domain}-{category}-{YYYY-MM-DD}.json
//	{root}/images/{domain}/{domain}-post-{n}.png
type Store struct {
	root string
	now  func() time.Time
}

// NewStore creates a store rooted at dir, creating it if needed.
func NewStore(dir string) (*Store, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("resolve artifact root: %w", err)
	}
	if err := os.MkdirAll(abs, 0o755); err != nil {
		return nil, fmt.Errorf("create artifact root: %w", err)
	}
	return &Store{root: abs, now: time.Now}, nil
}

// Root returns the absolute artifact root directory.
func (s *Store) Root() string { return s.root }

func (s *Store) jsonPath(category, domain string, date time.Time) string {
	name := fmt.Sprintf("%s-%s-%s.json", domain, category, date.Format("2006-01-02"))
	return filepath.Join(s.root, category, domain, name)
}

// WriteJSON persists v under (category, domain, today) and returns the
// path relative to the store root.
func (s *Store) WriteJSON(category, domain string, v interface{}) (string, error) {
	path := s.jsonPath(category, domain, s.now())
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", fmt.Errorf("create artifact dir: %w", err)
	}
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal %s artifact: %w", category, err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("write %s artifact: %w", category, err)
	}
	rel, _ := filepath.Rel(s.root, path)
	return rel, nil
}

// ReadJSON loads the artifact at the exact (category, domain, date) key.
func (s *Store) ReadJSON(category, domain string, date time.Time, v interface{}) error {
	data, err := os.ReadFile(s.jsonPath(category, domain, date))
	if err != nil {
		if os.IsNotExist(err) {
			return ErrNotFound
		}
		return fmt.Errorf("read %s artifact: %w", category, err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("decode %s artifact: %w", category, err)
	}
	return nil
}

// MostRecent loads the newest artifact for (category, domain) by the
// date embedded in its filename. Returns ErrNotFound when the domain
// has no artifacts in the category.
func (s *Store) MostRecent(category, domain string, v interface{}) (string, error) {
	dir := filepath.Join(s.root, category, domain)
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return "", ErrNotFound
		}
		return "", fmt.Errorf("list %s artifacts: %w", category, err)
	}

	var names []string
	for _, e := range entries {
		if !e.IsDir() && strings.HasSuffix(e.Name(), ".json") {
			names = append(names, e.Name())
		}
	}
	if len(names) == 0 {
		return "", ErrNotFound
	}
	// Filenames end in YYYY-MM-DD.json, so lexical order is date order.
	sort.Strings(names)
	newest := names[len(names)-1]

	data, err := os.ReadFile(filepath.Join(dir, newest))
	if err != nil {
		return "", fmt.Errorf("read %s artifact: %w", category, err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return "", fmt.Errorf("decode %s artifact: %w", category, err)
	}
	rel, _ := filepath.Rel(s.root, filepath.Join(dir, newest))
	return rel, nil
}

// WriteImage persists PNG bytes for one post and returns the relative
// path and byte size.
func (s *Store) WriteImage(domain string, postNumber int, png []byte) (string, int, error) {
	dir := filepath.Join(s.root, "images", domain)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", 0, fmt.Errorf("create image dir: %w", err)
	}
	name := fmt.Sprintf("%s-post-%d.png", domain, postNumber)
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, png, 0o644); err != nil {
		return "", 0, fmt.Errorf("write image: %w", err)
	}
	rel, _ := filepath.Rel(s.root, path)
	return rel, len(png), nil
}

// Resolve maps an artifact-relative path to an absolute one, rejecting
// any path that escapes the store root.
func (s *Store) Resolve(rel string) (string, error) {
	abs := filepath.Join(s.root, filepath.FromSlash(rel))
	abs = filepath.Clean(abs)
	if abs != s.root && !strings.HasPrefix(abs, s.root+string(filepath.Separator)) {
		return "", fmt.Errorf("path escapes artifact root: %s", rel)
	}
	return abs, nil
}
