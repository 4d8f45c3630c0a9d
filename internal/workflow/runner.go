package workflow

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"brandworks/pkg/logging"
)

// runCeiling bounds a whole run so abandoned runs cannot hold
// resources forever.
const runCeiling = 30 * time.Minute

// OrchestratorFactory builds the orchestrator for one run, honoring
// the run's provider preferences.
type OrchestratorFactory func(Providers) (*Orchestrator, error)

// Runner spawns workflow runs as background tasks and tracks their
// cancel functions.
type Runner struct {
	factory OrchestratorFactory
	runs    RunStore
	logger  logging.Logger

	mu      sync.Mutex
	cancels map[string]context.CancelFunc
	wg      sync.WaitGroup
}

// NewRunner creates a runner.
func NewRunner(factory OrchestratorFactory, runs RunStore, logger logging.Logger) *Runner {
	return &Runner{
		factory: factory,
		runs:    runs,
		logger:  logger,
		cancels: make(map[string]context.CancelFunc),
	}
}

// Start registers a new run and executes it in the background,
// returning the run id immediately.
func (r *Runner) Start(url string, providers Providers) (string, error) {
	orchestrator, err := r.factory(providers)
	if err != nil {
		return "", err
	}

	run := NewRun(uuid.New().String(), url, providers)
	if err := r.runs.Save(context.Background(), run); err != nil {
		return "", err
	}

	ctx, cancel := context.WithTimeout(context.Background(), runCeiling)
	r.mu.Lock()
	r.cancels[run.ID] = cancel
	r.mu.Unlock()

	r.wg.Add(1)
	go func() {
		defer r.wg.Done()
		defer func() {
			cancel()
			r.mu.Lock()
			delete(r.cancels, run.ID)
			r.mu.Unlock()
		}()
		orchestrator.Execute(ctx, run)
	}()

	return run.ID, nil
}

// Cancel aborts a running workflow. Unknown ids are a no-op.
func (r *Runner) Cancel(id string) {
	r.mu.Lock()
	cancel, ok := r.cancels[id]
	r.mu.Unlock()
	if ok {
		cancel()
	}
}

// Shutdown cancels all active runs and waits for them to wind down.
func (r *Runner) Shutdown() {
	r.mu.Lock()
	for _, cancel := range r.cancels {
		cancel()
	}
	r.mu.Unlock()
	r.wg.Wait()
}
