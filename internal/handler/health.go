package handler

import (
	"context"
	"maps"
	"net/http"
	"slices"
	"strings"
	"time"

	"github.com/osse101/TaskArena_Go/internal/logger"
)

// HealthResponse represents the response for health endpoints
type HealthResponse struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
}

// Pinger is implemented by backing stores the service needs before it can
// take traffic
type Pinger interface {
	Ping(ctx context.Context) error
}

// PingFunc adapts a function to Pinger
type PingFunc func(ctx context.Context) error

// Ping implements Pinger
func (f PingFunc) Ping(ctx context.Context) error { return f(ctx) }

const (
	readyzTimeout = 2 * time.Second

	healthStatusOK          = "ok"
	healthStatusUnavailable = "unavailable"

	LogMsgReadinessFailed = "Readiness check failed"
)

// HandleHealthz provides a basic liveness check
// @Summary Liveness check
// @Description Returns OK if the service is running
// @Tags health
// @Produce json
// @Success 200 {object} HealthResponse
// @Router /healthz [get]
func HandleHealthz() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		respondJSON(w, http.StatusOK, HealthResponse{Status: healthStatusOK})
	}
}

// HandleReadyz pings every named dependency in name order and reports each
// result. Any failure makes the whole probe 503.
// @Summary Readiness check
// @Description Returns OK once storage and the leaderboard store answer a ping
// @Tags health
// @Produce json
// @Success 200 {object} HealthResponse
// @Failure 503 {object} HealthResponse
// @Router /readyz [get]
func HandleReadyz(deps map[string]Pinger) http.HandlerFunc {
	names := slices.Sorted(maps.Keys(deps))
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), readyzTimeout)
		defer cancel()

		resp := HealthResponse{Status: healthStatusOK}
		var failed []string
		for _, name := range names {
			if err := deps[name].Ping(ctx); err != nil {
				logger.FromContext(ctx).Error(LogMsgReadinessFailed, "dependency", name, "error", err)
				failed = append(failed, name)
			}
		}

		if len(failed) == 0 {
			respondJSON(w, http.StatusOK, resp)
			return
		}
		resp.Status = healthStatusUnavailable
		resp.Message = strings.Join(failed, ", ") + " connection failed"
		respondJSON(w, http.StatusServiceUnavailable, resp)
	}
}
