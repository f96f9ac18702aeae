package handler

import (
	"context"
	"net/http"
	"runtime"
	"time"

	"github.com/gbpdash/backend/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
)

const checkTimeout = 2 * time.Second

// HealthCheck probes one dependency
type HealthCheck func(ctx context.Context) error

// SystemHandler serves liveness and readiness probes
type SystemHandler struct {
	BaseHandler
	startTime time.Time
	version   string
	database  HealthCheck
	ready     map[string]HealthCheck
}

// NewSystemHandler creates a new SystemHandler. database backs /health;
// /ready runs it together with every dependency in ready.
func NewSystemHandler(version string, database HealthCheck, ready map[string]HealthCheck) *SystemHandler {
	return &SystemHandler{
		startTime: time.Now(),
		version:   version,
		database:  database,
		ready:     ready,
	}
}

// HealthResponse reports process health
// @name HandlerHealthResponse
type HealthResponse struct {
	Status    string            `json:"status" example:"ok"`
	Version   string            `json:"version" example:"1.0.0"`
	GoVersion string            `json:"go_version" example:"go1.25.5"`
	Uptime    string            `json:"uptime" example:"1h30m45s"`
	Checks    map[string]string `json:"checks,omitempty"`
}

// Health godoc
// @ID           getHealth
// @Summary      Liveness probe
// @Description  Reports uptime and whether the database answers a ping
// @Tags         system
// @Produce      json
// @Success      200 {object} APIResponse[HealthResponse]
// @Failure      503 {object} APIResponse[HealthResponse]
// @Router       /health [get]
func (h *SystemHandler) Health(c *gin.Context) {
	checks := map[string]HealthCheck{}
	if h.database != nil {
		checks["database"] = h.database
	}
	h.respond(c, checks)
}

// Ready godoc
// @ID           getReady
// @Summary      Readiness probe
// @Description  Checks the database and the shared state store
// @Tags         system
// @Produce      json
// @Success      200 {object} APIResponse[HealthResponse]
// @Failure      503 {object} APIResponse[HealthResponse]
// @Router       /ready [get]
func (h *SystemHandler) Ready(c *gin.Context) {
	checks := make(map[string]HealthCheck, len(h.ready)+1)
	if h.database != nil {
		checks["database"] = h.database
	}
	for name, check := range h.ready {
		checks[name] = check
	}
	h.respond(c, checks)
}

func (h *SystemHandler) respond(c *gin.Context, checks map[string]HealthCheck) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), checkTimeout)
	defer cancel()

	resp := HealthResponse{
		Status:    "ok",
		Version:   h.version,
		GoVersion: runtime.Version(),
		Uptime:    time.Since(h.startTime).Round(time.Second).String(),
		Checks:    make(map[string]string, len(checks)),
	}
	for name, check := range checks {
		if err := check(ctx); err != nil {
			resp.Checks[name] = err.Error()
			resp.Status = "unavailable"
			continue
		}
		resp.Checks[name] = "ok"
	}

	status := http.StatusOK
	if resp.Status != "ok" {
		status = http.StatusServiceUnavailable
	}
	c.JSON(status, dto.Response{Success: status == http.StatusOK, Data: resp})
}
