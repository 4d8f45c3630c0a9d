package workflow

import (
	"context"
	"fmt"
	"time"

	"brandworks/internal/artifacts"
	"brandworks/internal/content"
	"brandworks/internal/design"
	"brandworks/internal/facebook"
	"brandworks/internal/intel"
	"brandworks/internal/prompts"
	"brandworks/internal/render"
	"brandworks/pkg/logging"
	"brandworks/pkg/monitoring"
)

// Capability interfaces consumed per phase. Narrow on purpose so the
// state machine can be exercised with stubs.
type (
	BrandAnalyzer interface {
		Analyze(ctx context.Context, url string) (*intel.BrandProfile, error)
	}
	DesignAnalyzer interface {
		Analyze(ctx context.Context, url string) *design.DesignProfile
	}
	SocialScraper interface {
		Scrape(ctx context.Context, facebookURL string) (*facebook.PostSet, error)
	}
	ContentCreator interface {
		Create(ctx context.Context, domain string, brand *intel.BrandProfile, dp *design.DesignProfile, posts *facebook.PostSet) (*content.Plan, error)
	}
	ImageRenderer interface {
		RenderAll(ctx context.Context, domain string, set *prompts.Set, dp *design.DesignProfile) []render.GeneratedImage
	}
)

// Orchestrator drives the six phases in order, persisting artifacts and
// run state after each.
type Orchestrator struct {
	brand    BrandAnalyzer
	designer DesignAnalyzer
	scraper  SocialScraper
	creator  ContentCreator
	renderer ImageRenderer
	store    *artifacts.Store
	runs     RunStore
	metrics  *monitoring.MetricsCollector
	logger   logging.Logger
}

// NewOrchestrator wires the phase implementations together. metrics may
// be nil.
func NewOrchestrator(brand BrandAnalyzer, designer DesignAnalyzer, scraper SocialScraper, creator ContentCreator, renderer ImageRenderer, store *artifacts.Store, runs RunStore, metrics *monitoring.MetricsCollector, logger logging.Logger) *Orchestrator {
	return &Orchestrator{
		brand:    brand,
		designer: designer,
		scraper:  scraper,
		creator:  creator,
		renderer: renderer,
		store:    store,
		runs:     runs,
		metrics:  metrics,
		logger:   logger,
	}
}

// NewRun creates a fresh run record for a URL.
func NewRun(id, url string, providers Providers) *Run {
	return &Run{
		ID:        id,
		URL:       url,
		Domain:    artifacts.SanitizeDomain(url),
		Status:    StatusInProgress,
		Phases:    make(map[string]PhaseResult),
		Providers: providers,
		CreatedAt: time.Now().UTC(),
		UpdatedAt: time.Now().UTC(),
	}
}

// summary is the workflow-results artifact written at run end.
type summary struct {
	RunID     string                 `json:"run_id"`
	URL       string                 `json:"url"`
	Status    string                 `json:"status"`
	Error     string                 `json:"error,omitempty"`
	Phases    map[string]PhaseResult `json:"phases"`
	Images    []string               `json:"images,omitempty"`
	Completed string                 `json:"completed_at"`
}

// Execute runs all phases sequentially. Phase 3 (facebook) failing is
// recorded but tolerated; any other failure marks the run failed and
// stops. The run record is saved after every phase so pollers see
// progress.
func (o *Orchestrator) Execute(ctx context.Context, run *Run) {
	if o.metrics != nil {
		o.metrics.RunStarted()
		defer o.metrics.RunFinished()
	}

	brand, ok := runPhase(o, ctx, run, PhaseBusinessIntelligence, true, func() (*intel.BrandProfile, string, error) {
		profile, err := o.brand.Analyze(ctx, run.URL)
		if err != nil {
			return nil, "", err
		}
		path, err := o.store.WriteJSON("brand-analysis", run.Domain, profile)
		return profile, path, err
	})
	if !ok {
		o.finish(ctx, run)
		return
	}

	dp, ok := runPhase(o, ctx, run, PhaseDesignAnalysis, true, func() (*design.DesignProfile, string, error) {
		profile := o.designer.Analyze(ctx, run.URL)
		path, err := o.store.WriteJSON("design-analysis", run.Domain, profile)
		return profile, path, err
	})
	if !ok {
		o.finish(ctx, run)
		return
	}

	posts, _ := runPhase(o, ctx, run, PhaseFacebookScraper, false, func() (*facebook.PostSet, string, error) {
		fbURL := facebookURL(brand)
		if fbURL == "" {
			return nil, "", fmt.Errorf("no facebook account detected")
		}
		set, err := o.scraper.Scrape(ctx, fbURL)
		if err != nil {
			return nil, "", err
		}
		path, err := o.store.WriteJSON("facebook-posts", run.Domain, set)
		return set, path, err
	})

	plan, ok := runPhase(o, ctx, run, PhaseSocialContent, true, func() (*content.Plan, string, error) {
		p, err := o.creator.Create(ctx, run.Domain, brand, dp, posts)
		if err != nil {
			return nil, "", err
		}
		path, err := o.store.WriteJSON("social-content", run.Domain, p)
		return p, path, err
	})
	if !ok {
		o.finish(ctx, run)
		return
	}

	set, ok := runPhase(o, ctx, run, PhasePromptGeneration, true, func() (*prompts.Set, string, error) {
		s := prompts.Build(plan, dp)
		path, err := o.store.WriteJSON("instagram-prompts", run.Domain, s)
		return s, path, err
	})
	if !ok {
		o.finish(ctx, run)
		return
	}

	_, ok = runPhase(o, ctx, run, PhaseImageRendering, true, func() ([]render.GeneratedImage, string, error) {
		images := o.renderer.RenderAll(ctx, run.Domain, set, dp)
		if len(images) == 0 {
			return nil, "", fmt.Errorf("no images rendered")
		}
		for _, img := range images {
			run.Images = append(run.Images, img.Filepath)
		}
		return images, "", nil
	})
	if ok {
		run.Status = StatusCompleted
	}
	o.finish(ctx, run)
}

// runPhase executes one phase, records its result, and persists the
// run. fatal phases flip the run to failed on error.
func runPhase[T any](o *Orchestrator, ctx context.Context, run *Run, phase string, fatal bool, fn func() (T, string, error)) (T, bool) {
	start := time.Now()
	o.logger.WithFields(logging.Fields{"run_id": run.ID, "phase": phase}).Info("Phase started")

	value, artifact, err := fn()

	status := "success"
	if err != nil {
		status = "failed"
	}
	if o.metrics != nil {
		o.metrics.ObservePhaseDuration(phase, status, time.Since(start))
	}

	result := PhaseResult{Status: status, Artifact: artifact}
	if err != nil {
		result.Error = err.Error()
		result.Artifact = ""
	}
	run.Phases[phase] = result
	run.UpdatedAt = time.Now().UTC()

	if err != nil {
		level := o.logger.WithFields(logging.Fields{"run_id": run.ID, "phase": phase, "error": err.Error()})
		if fatal {
			run.Status = StatusFailed
			run.Error = fmt.Sprintf("%s: %s", phase, err.Error())
			level.Error("Phase failed, aborting run")
		} else {
			level.Warn("Optional phase failed, continuing")
		}
	} else {
		o.logger.WithFields(logging.Fields{"run_id": run.ID, "phase": phase, "duration": time.Since(start).String()}).Info("Phase completed")
	}

	if saveErr := o.runs.Save(ctx, run); saveErr != nil {
		o.logger.WithFields(logging.Fields{"run_id": run.ID, "error": saveErr.Error()}).Warn("Could not persist run state")
	}

	if err != nil {
		var zero T
		return zero, false
	}
	return value, true
}

func (o *Orchestrator) finish(ctx context.Context, run *Run) {
	run.UpdatedAt = time.Now().UTC()
	if o.metrics != nil {
		o.metrics.RecordWorkflowRun(run.Status)
	}

	if _, err := o.store.WriteJSON("workflow-results", run.Domain, summary{
		RunID:     run.ID,
		URL:       run.URL,
		Status:    run.Status,
		Error:     run.Error,
		Phases:    run.Phases,
		Images:    run.Images,
		Completed: time.Now().UTC().Format(time.RFC3339),
	}); err != nil {
		o.logger.WithFields(logging.Fields{"run_id": run.ID, "error": err.Error()}).Warn("Could not write workflow summary")
	}

	if err := o.runs.Save(ctx, run); err != nil {
		o.logger.WithFields(logging.Fields{"run_id": run.ID, "error": err.Error()}).Warn("Could not persist final run state")
	}
	o.logger.WithFields(logging.Fields{"run_id": run.ID, "status": run.Status}).Info("Run finished")
}

func facebookURL(brand *intel.BrandProfile) string {
	for _, acct := range brand.SocialMediaAccounts {
		if acct.Platform == "facebook" {
			return acct.URL
		}
	}
	return ""
}
