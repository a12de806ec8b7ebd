package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

const healthCheckTimeout = 3 * time.Second

// HealthHandler reports the state of every backing component
type HealthHandler struct {
	service string
	checks  []HealthCheck
}

func NewHealthHandler(deps *Dependencies) *HealthHandler {
	return &HealthHandler{
		service: deps.ServiceName,
		checks:  deps.HealthChecks,
	}
}

// Health handles GET /health; any failing component turns the response into a 503
func (h *HealthHandler) Health(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), healthCheckTimeout)
	defer cancel()

	status := "healthy"
	code := http.StatusOK
	components := make(map[string]string, len(h.checks))

	for _, check := range h.checks {
		if err := check.Check(ctx); err != nil {
			components[check.Name] = err.Error()
			status = "unhealthy"
			code = http.StatusServiceUnavailable
			continue
		}
		components[check.Name] = "ok"
	}

	c.JSON(code, gin.H{
		"status":     status,
		"service":    h.service,
		"components": components,
	})
}
