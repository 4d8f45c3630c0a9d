package workflow

import "time"

// Run statuses.
const (
	StatusInProgress = "in_progress"
	StatusCompleted  = "completed"
	StatusFailed     = "failed"
)

// Phase names, in execution order.
const (
	PhaseBusinessIntelligence = "business_intelligence"
	PhaseDesignAnalysis       = "design_analysis"
	PhaseFacebookScraper      = "facebook_scraper"
	PhaseSocialContent        = "social_content"
	PhasePromptGeneration     = "prompt_generation"
	PhaseImageRendering       = "image_rendering"
)

// PhaseOrder lists the phases in the order the orchestrator runs them.
var PhaseOrder = []string{
	PhaseBusinessIntelligence,
	PhaseDesignAnalysis,
	PhaseFacebookScraper,
	PhaseSocialContent,
	PhasePromptGeneration,
	PhaseImageRendering,
}

// PhaseResult records one phase's outcome.
type PhaseResult struct {
	Status   string `json:"status"`
	Artifact string `json:"artifact,omitempty"`
	Error    string `json:"error,omitempty"`
}

// Providers carries optional per-capability provider preferences for
// one run. Empty fields use the configured defaults. Image generation
// is pinned to gemini and not overridable.
type Providers struct {
	Text     string `json:"text,omitempty"`
	Strategy string `json:"strategy,omitempty"`
	Vision   string `json:"vision,omitempty"`
}

// Run is the state of one workflow execution. It is owned and mutated
// by the orchestrator; everyone else reads snapshots from the store.
type Run struct {
	ID        string                 `json:"id"`
	URL       string                 `json:"url"`
	Domain    string                 `json:"domain"`
	Status    string                 `json:"status"`
	Error     string                 `json:"error,omitempty"`
	Phases    map[string]PhaseResult `json:"phases"`
	Providers Providers              `json:"providers,omitempty"`
	Images    []string               `json:"images,omitempty"`
	CreatedAt time.Time              `json:"created_at"`
	UpdatedAt time.Time              `json:"updated_at"`
}

// Clone returns a deep copy safe to hand to readers.
func (r *Run) Clone() *Run {
	cp := *r
	cp.Phases = make(map[string]PhaseResult, len(r.Phases))
	for k, v := range r.Phases {
		cp.Phases[k] = v
	}
	cp.Images = append([]string(nil), r.Images...)
	return &cp
}
