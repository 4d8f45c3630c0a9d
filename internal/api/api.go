// Package api exposes the workflow over HTTP.
package api

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"brandworks/internal/artifacts"
	"brandworks/internal/workflow"
	"brandworks/pkg/logging"
)

// Handler serves the run endpoints.
type Handler struct {
	runner *workflow.Runner
	runs   workflow.RunStore
	store  *artifacts.Store
	logger logging.Logger
}

// NewHandler creates the API handler.
func NewHandler(runner *workflow.Runner, runs workflow.RunStore, store *artifacts.Store, logger logging.Logger) *Handler {
	return &Handler{runner: runner, runs: runs, store: store, logger: logger}
}

// Register mounts the routes on a router.
func (h *Handler) Register(router *gin.Engine) {
	api := router.Group("/api")
	{
		api.POST("/runs", h.startRun)
		api.GET("/runs/:id", h.getRun)
		api.GET("/runs/:id/results", h.getResults)
		api.DELETE("/runs/:id", h.cancelRun)
	}
	router.GET("/files/*filepath", h.getFile)
}

type startRunRequest struct {
	URL       string             `json:"url" binding:"required"`
	Providers workflow.Providers `json:"providers"`
}

func (h *Handler) startRun(c *gin.Context) {
	var req startRunRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "url is required"})
		return
	}

	id, err := h.runner.Start(req.URL, req.Providers)
	if err != nil {
		h.logger.WithFields(logging.Fields{"url": req.URL, "error": err.Error()}).Error("Could not start run")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not start run"})
		return
	}

	c.JSON(http.StatusAccepted, gin.H{"run_id": id})
}

func (h *Handler) getRun(c *gin.Context) {
	run, err := h.runs.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, workflow.ErrRunNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "run not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not load run"})
		return
	}
	c.JSON(http.StatusOK, run)
}

func (h *Handler) cancelRun(c *gin.Context) {
	id := c.Param("id")
	if _, err := h.runs.Get(c.Request.Context(), id); err != nil {
		if errors.Is(err, workflow.ErrRunNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "run not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not load run"})
		return
	}
	h.runner.Cancel(id)
	c.JSON(http.StatusAccepted, gin.H{"run_id": id, "status": "cancelling"})
}

func (h *Handler) getResults(c *gin.Context) {
	run, err := h.runs.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, workflow.ErrRunNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "run not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not load run"})
		return
	}
	if run.Status != workflow.StatusCompleted {
		c.JSON(http.StatusConflict, gin.H{
			"error":  "run is not completed",
			"status": run.Status,
		})
		return
	}

	artifactsByPhase := make(map[string]string, len(run.Phases))
	for phase, result := range run.Phases {
		if result.Artifact != "" {
			artifactsByPhase[phase] = result.Artifact
		}
	}
	c.JSON(http.StatusOK, gin.H{
		"run_id":    run.ID,
		"domain":    run.Domain,
		"artifacts": artifactsByPhase,
		"images":    run.Images,
	})
}

func (h *Handler) getFile(c *gin.Context) {
	rel := strings.TrimPrefix(c.Param("filepath"), "/")
	abs, err := h.store.Resolve(rel)
	if err != nil {
		c.JSON(http.StatusForbidden, gin.H{"error": "path outside artifact store"})
		return
	}
	c.File(abs)
}
