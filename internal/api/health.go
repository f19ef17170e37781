// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package api

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/Alexspector123/Netflix-Mangadex-sub000/internal/platform/ratelimit"
	"github.com/Alexspector123/Netflix-Mangadex-sub000/internal/platform/respond"
)

// probeTimeout bounds each readiness check independently of the request deadline.
const probeTimeout = 2 * time.Second

// HealthCheck is one named dependency probe for /ready.
type HealthCheck struct {
	Name  string
	Probe func(ctx context.Context) error
}

// HealthDependencies holds what /ready reports on.
type HealthDependencies struct {
	// Checks run in parallel; any failure marks the service degraded.
	Checks []HealthCheck

	// Upstream reports the MangaDex limiter load. Informational only.
	Upstream func() ratelimit.Stats
}

type checkResult struct {
	Name  string `json:"name"`
	IsOK  bool   `json:"ok"`
	Error string `json:"error,omitempty"`
}

type healthHandler struct {
	dependencies HealthDependencies
	logger       *slog.Logger
}

// NewHealthHandlers creates the /health and /ready http.HandlerFuncs.
func NewHealthHandlers(deps HealthDependencies, logger *slog.Logger) (liveness, readiness http.HandlerFunc) {
	handler := &healthHandler{dependencies: deps, logger: logger}
	return handler.liveness, handler.readiness
}

func (handler *healthHandler) liveness(writer http.ResponseWriter, request *http.Request) {
	respond.OK(writer, map[string]string{"status": "ok"})
}

/*
readiness handles GET /ready.

Response:
  - 200 {"status":"ready","checks":[...],"upstream":{...}}
  - 503 with "degraded" when a dependency probe fails
*/
func (handler *healthHandler) readiness(writer http.ResponseWriter, request *http.Request) {
	results := handler.probe(request.Context())

	ready := true
	for _, result := range results {
		ready = ready && result.IsOK
	}

	data := map[string]any{"status": "ready", "checks": results}
	if handler.dependencies.Upstream != nil {
		data["upstream"] = handler.dependencies.Upstream()
	}

	status := http.StatusOK
	if !ready {
		data["status"] = "degraded"
		status = http.StatusServiceUnavailable
	}

	respond.JSON(writer, status, respond.SuccessEnvelope{Success: ready, Data: data})
}

// probe runs every check concurrently and keeps results in registration order.
func (handler *healthHandler) probe(ctx context.Context) []checkResult {
	results := make([]checkResult, len(handler.dependencies.Checks))

	var group errgroup.Group
	for i, check := range handler.dependencies.Checks {
		group.Go(func() error {
			probeCtx, cancel := context.WithTimeout(ctx, probeTimeout)
			defer cancel()

			results[i] = checkResult{Name: check.Name, IsOK: true}
			if err := check.Probe(probeCtx); err != nil {
				results[i].IsOK = false
				results[i].Error = err.Error()
				handler.logger.ErrorContext(ctx, "readiness_check_failed",
					slog.String("dependency", check.Name),
					slog.Any("error", err),
				)
			}
			return nil
		})
	}
	_ = group.Wait()

	return results
}
