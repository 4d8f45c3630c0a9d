package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"brandworks/internal/artifacts"
	"brandworks/internal/workflow"
	"brandworks/pkg/logging"
)

func newTestHandler(t *testing.T) (*Handler, *workflow.MemoryStore, *artifacts.Store) {
	t.Helper()
	store, err := artifacts.NewStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewStore failed: %v", err)
	}
	runs := workflow.NewMemoryStore(time.Hour)
	t.Cleanup(runs.Close)
	return NewHandler(nil, runs, store, logging.NewLogger()), runs, store
}

func newTestRouter(h *Handler) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	h.Register(router)
	return router
}

func TestStartRunRequiresURL(t *testing.T) {
	h, _, _ := newTestHandler(t)
	router := newTestRouter(h)

	req := httptest.NewRequest("POST", "/api/runs", strings.NewReader(`{}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("missing url should be 400, got %d", w.Code)
	}
}

func TestGetRunStatus(t *testing.T) {
	h, runs, _ := newTestHandler(t)
	router := newTestRouter(h)

	run := workflow.NewRun("run-9", "https://example.com", workflow.Providers{})
	run.Phases[workflow.PhaseBusinessIntelligence] = workflow.PhaseResult{Status: "success", Artifact: "brand-analysis/x.json"}
	if err := runs.Save(context.Background(), run); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest("GET", "/api/runs/run-9", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("status code %d", w.Code)
	}

	var got workflow.Run
	if err := json.Unmarshal(w.Body.Bytes(), &got); err != nil {
		t.Fatalf("bad body: %v", err)
	}
	if got.Status != workflow.StatusInProgress {
		t.Errorf("status = %q", got.Status)
	}
	if got.Phases[workflow.PhaseBusinessIntelligence].Status != "success" {
		t.Errorf("phase map not returned: %+v", got.Phases)
	}
}

func TestGetRunNotFound(t *testing.T) {
	h, _, _ := newTestHandler(t)
	router := newTestRouter(h)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest("GET", "/api/runs/nope", nil))
	if w.Code != http.StatusNotFound {
		t.Errorf("unknown run should be 404, got %d", w.Code)
	}
}

func TestGetResultsConflictWhileRunning(t *testing.T) {
	h, runs, _ := newTestHandler(t)
	router := newTestRouter(h)

	run := workflow.NewRun("run-10", "https://example.com", workflow.Providers{})
	runs.Save(context.Background(), run)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest("GET", "/api/runs/run-10/results", nil))
	if w.Code != http.StatusConflict {
		t.Errorf("in-progress results should be 409, got %d", w.Code)
	}
}

func TestCancelRun(t *testing.T) {
	h, runs, _ := newTestHandler(t)
	factory := func(workflow.Providers) (*workflow.Orchestrator, error) {
		t.Fatal("factory should not be called for cancel")
		return nil, nil
	}
	h.runner = workflow.NewRunner(factory, runs, logging.NewLogger())
	t.Cleanup(h.runner.Shutdown)
	router := newTestRouter(h)

	run := workflow.NewRun("run-11", "https://example.com", workflow.Providers{})
	runs.Save(context.Background(), run)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest("DELETE", "/api/runs/run-11", nil))
	if w.Code != http.StatusAccepted {
		t.Errorf("cancel should be 202, got %d", w.Code)
	}

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest("DELETE", "/api/runs/nope", nil))
	if w.Code != http.StatusNotFound {
		t.Errorf("cancel of unknown run should be 404, got %d", w.Code)
	}
}

func TestGetFileRejectsTraversal(t *testing.T) {
	h, _, store := newTestHandler(t)
	router := newTestRouter(h)

	// A real artifact serves fine.
	dir := filepath.Join(store.Root(), "images", "example-com")
	os.MkdirAll(dir, 0o755)
	os.WriteFile(filepath.Join(dir, "example-com-post-1.png"), []byte("png-bytes"), 0o644)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest("GET", "/files/images/example-com/example-com-post-1.png", nil))
	if w.Code != http.StatusOK {
		t.Errorf("artifact file should serve, got %d", w.Code)
	}

	w = httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/files/"+strings.ReplaceAll("../../etc/passwd", "/", "%2F"), nil)
	router.ServeHTTP(w, req)
	if w.Code == http.StatusOK {
		t.Errorf("traversal request must not serve a file, got %d", w.Code)
	}
}
