// Package content generates the Instagram campaign plan from the brand
// and design analyses.
package content

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"brandworks/internal/artifacts"
	"brandworks/internal/design"
	"brandworks/internal/facebook"
	"brandworks/internal/intel"
	"brandworks/internal/language"
	"brandworks/pkg/llm"
	"brandworks/pkg/logging"
)

// Plan is the social-content artifact for one domain.
type Plan struct {
	BrandAnalysis  BrandAnalysis   `json:"brand_analysis"`
	InstagramPosts []InstagramPost `json:"instagram_posts"`
}

// BrandAnalysis summarizes the voice the posts were written in.
type BrandAnalysis struct {
	DetectedLanguage string `json:"detected_language"`
	Tone             string `json:"tone"`
	Style            string `json:"style"`
}

// InstagramPost is one generated post.
type InstagramPost struct {
	PostNumber     int      `json:"post_number"`
	Caption        string   `json:"caption"`
	Hashtags       []string `json:"hashtags"`
	Theme          string   `json:"theme"`
	PostType       string   `json:"post_type"`
	TargetEmotion  string   `json:"target_emotion"`
	EngagementGoal string   `json:"engagement_goal"`
}

const planInstructions = `You are a social media strategist. Create an Instagram campaign for the business described below.
Respond with ONLY a JSON object, no prose, in this exact shape:
{"brand_analysis": {"detected_language": "", "tone": "", "style": ""}, "instagram_posts": [{"post_number": 1, "caption": "", "hashtags": [], "theme": "", "post_type": "", "target_emotion": "", "engagement_goal": ""}]}
Produce EXACTLY 3 posts. Rotate themes in this order: behind-the-scenes, brand-story, customer-spotlight.
Captions must be engaging and authentic to the brand voice.`

// Creator builds campaign plans with the text-generation capability.
type Creator struct {
	text   llm.Provider
	store  *artifacts.Store
	logger logging.Logger
}

// NewCreator creates a content creator.
func NewCreator(text llm.Provider, store *artifacts.Store, logger logging.Logger) *Creator {
	return &Creator{text: text, store: store, logger: logger}
}

// Create generates the 3-post plan. posts may be nil: the most recent
// facebook-posts artifact for the domain is loaded when available, and
// generation proceeds with an empty set otherwise.
func (c *Creator) Create(ctx context.Context, domain string, brand *intel.BrandProfile, designProfile *design.DesignProfile, posts *facebook.PostSet) (*Plan, error) {
	if brand == nil || designProfile == nil {
		return nil, fmt.Errorf("content generation requires brand and design profiles")
	}

	if posts == nil {
		posts = c.loadRecentPosts(domain)
	}

	lang := language.Detect(postText(posts))

	response, err := c.text.Complete(ctx, planInstructions, c.buildContext(brand, designProfile, posts, lang))
	if err != nil {
		return nil, fmt.Errorf("content generation: %w", err)
	}

	var plan Plan
	if err := llm.ExtractJSON(response, &plan, func() bool { return len(plan.InstagramPosts) > 0 }); err != nil {
		return nil, err
	}
	if len(plan.InstagramPosts) != 3 {
		return nil, fmt.Errorf("content generation returned %d posts, want 3", len(plan.InstagramPosts))
	}

	plan.BrandAnalysis.DetectedLanguage = lang
	for i := range plan.InstagramPosts {
		plan.InstagramPosts[i].PostNumber = i + 1
	}
	return &plan, nil
}

func (c *Creator) loadRecentPosts(domain string) *facebook.PostSet {
	var set facebook.PostSet
	if _, err := c.store.MostRecent("facebook-posts", domain, &set); err != nil {
		if !errors.Is(err, artifacts.ErrNotFound) {
			c.logger.WithFields(logging.Fields{"domain": domain, "error": err.Error()}).
				Warn("Could not load facebook posts, continuing without")
		}
		return &facebook.PostSet{Status: "not_available"}
	}
	c.logger.WithFields(logging.Fields{"domain": domain, "posts": len(set.Posts)}).
		Info("Loaded recent facebook posts")
	return &set
}

func (c *Creator) buildContext(brand *intel.BrandProfile, dp *design.DesignProfile, posts *facebook.PostSet, lang string) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "Business: %s\nIndustry: %s\nDescription: %s\n",
		brand.Company.Name, brand.Company.Industry, brand.Company.Description)
	if len(brand.Company.TargetAudience) > 0 {
		fmt.Fprintf(&sb, "Target audience: %s\n", strings.Join(brand.Company.TargetAudience, ", "))
	}
	for _, f := range brand.Founders {
		fmt.Fprintf(&sb, "Founder: %s (%s)\n", f.Name, f.Role)
	}

	fmt.Fprintf(&sb, "\nVisual style: %s\nBrand colors: primary %s, secondary %s\n",
		strings.Join(dp.StyleKeywords, ", "), dp.ColorKit.BrandPrimary, dp.ColorKit.BrandSecondary)

	if posts != nil && len(posts.Posts) > 0 {
		sb.WriteString("\nRecent Facebook posts for voice reference:\n")
		for i, p := range posts.Posts {
			if i >= 5 {
				break
			}
			fmt.Fprintf(&sb, "- %s\n", truncate(p.Content, 280))
		}
	}

	fmt.Fprintf(&sb, "\nIMPORTANT: Write every caption and hashtag in the language with code %q. Do not use any other language.\n", lang)
	return sb.String()
}

func postText(posts *facebook.PostSet) string {
	if posts == nil {
		return ""
	}
	var parts []string
	for _, p := range posts.Posts {
		parts = append(parts, p.Content)
	}
	return strings.Join(parts, " ")
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
