package workflow

import (
	"context"
	"errors"
	"testing"
	"time"

	"brandworks/internal/artifacts"
	"brandworks/pkg/logging"
)

func newTestRunner(t *testing.T, factoryErr error) (*Runner, RunStore) {
	t.Helper()
	store, err := artifacts.NewStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewStore failed: %v", err)
	}
	runs := NewMemoryStore(time.Hour)
	t.Cleanup(runs.Close)

	factory := func(p Providers) (*Orchestrator, error) {
		if factoryErr != nil {
			return nil, factoryErr
		}
		return NewOrchestrator(&stubBrand{}, &stubDesign{}, &stubScraper{}, &stubCreator{}, &stubRenderer{}, store, runs, nil, logging.NewLogger()), nil
	}
	return NewRunner(factory, runs, logging.NewLogger()), runs
}

func TestRunnerStart(t *testing.T) {
	runner, runs := newTestRunner(t, nil)
	defer runner.Shutdown()

	id, err := runner.Start("https://example.com", Providers{Text: "openai"})
	if err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	if id == "" {
		t.Fatal("Start returned empty run id")
	}

	// The run is registered before Start returns.
	run, err := runs.Get(context.Background(), id)
	if err != nil {
		t.Fatalf("run not registered: %v", err)
	}
	if run.Providers.Text != "openai" {
		t.Errorf("provider preference not recorded: %+v", run.Providers)
	}

	deadline := time.After(5 * time.Second)
	for run.Status == StatusInProgress {
		select {
		case <-deadline:
			t.Fatalf("run never finished, status %q", run.Status)
		case <-time.After(10 * time.Millisecond):
		}
		run, err = runs.Get(context.Background(), id)
		if err != nil {
			t.Fatalf("Get failed: %v", err)
		}
	}
	if run.Status != StatusCompleted {
		t.Errorf("status = %q, error = %q", run.Status, run.Error)
	}
}

func TestRunnerStartFactoryError(t *testing.T) {
	runner, _ := newTestRunner(t, errors.New("no api key for provider"))
	defer runner.Shutdown()

	if _, err := runner.Start("https://example.com", Providers{Text: "claude"}); err == nil {
		t.Fatal("Start should surface factory errors")
	}
}

func TestRunnerCancelUnknownID(t *testing.T) {
	runner, _ := newTestRunner(t, nil)
	defer runner.Shutdown()

	runner.Cancel("no-such-run")
}
