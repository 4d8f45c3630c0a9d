package content

import (
	"context"
	"encoding/json"
	"strings"
	"testing"

	"brandworks/internal/artifacts"
	"brandworks/internal/design"
	"brandworks/internal/facebook"
	"brandworks/internal/intel"
	"brandworks/pkg/logging"
)

type stubProvider struct {
	response string
	err      error
	prompt   string
}

func (s *stubProvider) Complete(ctx context.Context, system, prompt string) (string, error) {
	s.prompt = prompt
	return s.response, s.err
}

func (s *stubProvider) Name() string { return "stub" }

func validPlanJSON(lang string) string {
	plan := Plan{
		BrandAnalysis: BrandAnalysis{DetectedLanguage: lang, Tone: "warm"},
		InstagramPosts: []InstagramPost{
			{Caption: "One", Theme: "behind-the-scenes"},
			{Caption: "Two", Theme: "brand-story"},
			{Caption: "Three", Theme: "customer-spotlight"},
		},
	}
	data, _ := json.Marshal(plan)
	return string(data)
}

func testBrand() *intel.BrandProfile {
	return &intel.BrandProfile{Company: intel.Company{Name: "Acme", Industry: "design"}}
}

func newCreator(t *testing.T, provider *stubProvider) (*Creator, *artifacts.Store) {
	t.Helper()
	store, err := artifacts.NewStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewStore failed: %v", err)
	}
	return NewCreator(provider, store, logging.NewLogger()), store
}

func TestCreateEnforcesThreePosts(t *testing.T) {
	provider := &stubProvider{response: validPlanJSON("en")}
	creator, _ := newCreator(t, provider)

	plan, err := creator.Create(context.Background(), "acme-com", testBrand(), design.FallbackProfile(), &facebook.PostSet{})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if len(plan.InstagramPosts) != 3 {
		t.Fatalf("got %d posts", len(plan.InstagramPosts))
	}
	for i, p := range plan.InstagramPosts {
		if p.PostNumber != i+1 {
			t.Errorf("post %d numbered %d", i, p.PostNumber)
		}
	}
}

func TestCreateRejectsWrongArity(t *testing.T) {
	short := `{"brand_analysis": {}, "instagram_posts": [{"caption": "only one"}]}`
	creator, _ := newCreator(t, &stubProvider{response: short})

	if _, err := creator.Create(context.Background(), "acme-com", testBrand(), design.FallbackProfile(), &facebook.PostSet{}); err == nil {
		t.Fatal("expected arity error")
	}
}

func TestCreateDetectsLanguageFromPosts(t *testing.T) {
	provider := &stubProvider{response: validPlanJSON("da")}
	creator, _ := newCreator(t, provider)

	posts := &facebook.PostSet{Posts: []facebook.Post{
		{Content: strings.Repeat("og er at det ", 10)},
	}}
	plan, err := creator.Create(context.Background(), "acme-com", testBrand(), design.FallbackProfile(), posts)
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if plan.BrandAnalysis.DetectedLanguage != "da" {
		t.Errorf("detected language = %q", plan.BrandAnalysis.DetectedLanguage)
	}
	if !strings.Contains(provider.prompt, `"da"`) {
		t.Errorf("language instruction missing from prompt")
	}
}

func TestCreateAutoLoadsRecentFacebookPosts(t *testing.T) {
	provider := &stubProvider{response: validPlanJSON("en")}
	creator, store := newCreator(t, provider)

	set := facebook.PostSet{Status: "success", Posts: []facebook.Post{{Content: "stored voice sample"}}}
	if _, err := store.WriteJSON("facebook-posts", "acme-com", set); err != nil {
		t.Fatalf("seed artifact failed: %v", err)
	}

	if _, err := creator.Create(context.Background(), "acme-com", testBrand(), design.FallbackProfile(), nil); err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if !strings.Contains(provider.prompt, "stored voice sample") {
		t.Error("auto-loaded posts missing from generation context")
	}
}

func TestCreateProceedsWithoutAnyPosts(t *testing.T) {
	provider := &stubProvider{response: validPlanJSON("en")}
	creator, _ := newCreator(t, provider)

	plan, err := creator.Create(context.Background(), "unknown-com", testBrand(), design.FallbackProfile(), nil)
	if err != nil {
		t.Fatalf("Create should proceed with empty set: %v", err)
	}
	if plan.BrandAnalysis.DetectedLanguage != "en" {
		t.Errorf("empty set should default to en, got %q", plan.BrandAnalysis.DetectedLanguage)
	}
}
