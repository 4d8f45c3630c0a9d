package monitoring

import (
	"context"
	"net/http"
	"os"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
)

// HealthStatus represents the health state of a component
type HealthStatus string

const (
	HealthStatusHealthy   HealthStatus = "healthy"
	HealthStatusDegraded  HealthStatus = "degraded"
	HealthStatusUnhealthy HealthStatus = "unhealthy"
)

// HealthCheck is a single named component check.
type HealthCheck func(ctx context.Context) (HealthStatus, string)

// HealthChecker aggregates component checks into a service health report.
type HealthChecker struct {
	serviceName string
	version     string

	mu     sync.RWMutex
	checks map[string]HealthCheck
}

// HealthReport is the JSON body served by the health endpoint.
type HealthReport struct {
	Service   string                     `json:"service"`
	Version   string                     `json:"version"`
	Status    HealthStatus               `json:"status"`
	Timestamp time.Time                  `json:"timestamp"`
	Checks    map[string]ComponentHealth `json:"checks,omitempty"`
}

// ComponentHealth is one component's result within a report.
type ComponentHealth struct {
	Status  HealthStatus `json:"status"`
	Message string       `json:"message,omitempty"`
}

// NewHealthChecker creates a health checker for a service
func NewHealthChecker(serviceName, version string) *HealthChecker {
	return &HealthChecker{
		serviceName: serviceName,
		version:     version,
		checks:      make(map[string]HealthCheck),
	}
}

// AddCheck registers a named component check.
func (hc *HealthChecker) AddCheck(name string, check HealthCheck) {
	hc.mu.Lock()
	defer hc.mu.Unlock()
	hc.checks[name] = check
}

// CheckHealth runs all registered checks and rolls them up.
// Any unhealthy component makes the service unhealthy; any degraded
// component makes it degraded.
func (hc *HealthChecker) CheckHealth(ctx context.Context) HealthReport {
	hc.mu.RLock()
	checks := make(map[string]HealthCheck, len(hc.checks))
	for name, check := range hc.checks {
		checks[name] = check
	}
	hc.mu.RUnlock()

	report := HealthReport{
		Service:   hc.serviceName,
		Version:   hc.version,
		Status:    HealthStatusHealthy,
		Timestamp: time.Now().UTC(),
		Checks:    make(map[string]ComponentHealth, len(checks)),
	}

	for name, check := range checks {
		status, message := check(ctx)
		report.Checks[name] = ComponentHealth{Status: status, Message: message}

		switch status {
		case HealthStatusUnhealthy:
			report.Status = HealthStatusUnhealthy
		case HealthStatusDegraded:
			if report.Status == HealthStatusHealthy {
				report.Status = HealthStatusDegraded
			}
		}
	}

	return report
}

// Handler serves the health report. Unhealthy maps to 503 so load
// balancers can act on it; degraded still returns 200.
func (hc *HealthChecker) Handler() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		report := hc.CheckHealth(ctx)
		code := http.StatusOK
		if report.Status == HealthStatusUnhealthy {
			code = http.StatusServiceUnavailable
		}
		c.JSON(code, report)
	}
}

// DirectoryHealthCheck verifies a directory exists and is writable.
func DirectoryHealthCheck(path string) HealthCheck {
	return func(ctx context.Context) (HealthStatus, string) {
		info, err := os.Stat(path)
		if err != nil {
			return HealthStatusUnhealthy, "directory unavailable: " + err.Error()
		}
		if !info.IsDir() {
			return HealthStatusUnhealthy, path + " is not a directory"
		}
		probe, err := os.CreateTemp(path, ".health-*")
		if err != nil {
			return HealthStatusDegraded, "directory not writable: " + err.Error()
		}
		probe.Close()
		os.Remove(probe.Name())
		return HealthStatusHealthy, ""
	}
}

// ConfigurationHealthCheck reports required configuration values that
// resolved empty.
func ConfigurationHealthCheck(configs map[string]string) HealthCheck {
	return func(ctx context.Context) (HealthStatus, string) {
		var missing []string
		for name, value := range configs {
			if value == "" {
				missing = append(missing, name)
			}
		}
		if len(missing) > 0 {
			sort.Strings(missing)
			return HealthStatusDegraded, "missing: " + strings.Join(missing, ", ")
		}
		return HealthStatusHealthy, ""
	}
}
