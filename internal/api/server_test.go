// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package api_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Alexspector123/Netflix-Mangadex-sub000/internal/api"
	"github.com/Alexspector123/Netflix-Mangadex-sub000/internal/core/chapter"
	"github.com/Alexspector123/Netflix-Mangadex-sub000/internal/core/manga"
	"github.com/Alexspector123/Netflix-Mangadex-sub000/internal/core/reader"
	"github.com/Alexspector123/Netflix-Mangadex-sub000/internal/platform/config"
	"github.com/Alexspector123/Netflix-Mangadex-sub000/internal/platform/ratelimit"
	"github.com/Alexspector123/Netflix-Mangadex-sub000/internal/platform/sec"
)

type rejectAll struct{}

func (rejectAll) VerifyToken(string) (*sec.AuthClaims, error) {
	return nil, errors.New("invalid token")
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

/*
TestReadiness_ReportsDegraded answers 503 when one dependency check fails.
*/
func TestReadiness_ReportsDegraded(t *testing.T) {
	liveness, readiness := api.NewHealthHandlers(api.HealthDependencies{
		Checks: []api.HealthCheck{
			{Name: "postgres", Probe: func(context.Context) error { return nil }},
			{Name: "redis", Probe: func(context.Context) error { return errors.New("connection refused") }},
		},
		Upstream: func() ratelimit.Stats { return ratelimit.Stats{Capacity: 5, Running: 2} },
	}, discardLogger())

	recorder := httptest.NewRecorder()
	liveness(recorder, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, recorder.Code)

	recorder = httptest.NewRecorder()
	readiness(recorder, httptest.NewRequest(http.MethodGet, "/ready", nil))
	assert.Equal(t, http.StatusServiceUnavailable, recorder.Code)
	assert.Contains(t, recorder.Body.String(), `"status":"degraded"`)
	assert.Contains(t, recorder.Body.String(), `"success":false`)
	assert.Contains(t, recorder.Body.String(), `{"name":"redis","ok":false,"error":"connection refused"}`)
	assert.Contains(t, recorder.Body.String(), `"upstream":{"capacity":5,"running":2,"queued":0}`)
}

/*
TestServer_Routes checks probe, upload and API mounting through the full middleware chain.
*/
func TestServer_Routes(t *testing.T) {
	uploadDir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(uploadDir, "pages"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(uploadDir, "pages", "a.png"), []byte("png"), 0o644))

	liveness, readiness := api.NewHealthHandlers(api.HealthDependencies{}, discardLogger())
	cfg := &config.Config{ServerPort: "0", Environment: "test", UploadPublicURL: "/uploads/"}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	server := api.NewServer(ctx, cfg, discardLogger(), rejectAll{}, api.Handlers{
		Liveness:  liveness,
		Readiness: readiness,
		Chapter:   chapter.NewHandler(nil, 1<<20),
		Reader:    reader.NewHandler(nil),
		Manga:     manga.NewHandler(nil),
		Uploads:   http.FileServer(http.Dir(uploadDir)),
	})

	tests := []struct {
		name       string
		method     string
		target     string
		header     string
		wantStatus int
	}{
		{"health", http.MethodGet, "/health", "", http.StatusOK},
		{"ready_without_checks", http.MethodGet, "/ready", "", http.StatusOK},
		{"uploaded_image", http.MethodGet, "/uploads/pages/a.png", "", http.StatusOK},
		{"missing_image", http.MethodGet, "/uploads/pages/b.png", "", http.StatusNotFound},
		{"invalid_source", http.MethodGet, "/api/v1/chapters?source=nope", "", http.StatusBadRequest},
		{"upload_requires_auth", http.MethodPost, "/api/v1/chapters", "", http.StatusUnauthorized},
		{"bad_token", http.MethodGet, "/api/v1/chapters?source=nope", "Bearer junk", http.StatusUnauthorized},
		{"unknown_route", http.MethodGet, "/api/v1/users", "", http.StatusNotFound},
		{"method_not_allowed", http.MethodPut, "/api/v1/chapters", "", http.StatusMethodNotAllowed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			request := httptest.NewRequest(tt.method, tt.target, nil)
			request.Header.Set("X-Real-IP", "10.1.1.1")
			if tt.header != "" {
				request.Header.Set("Authorization", tt.header)
			}

			recorder := httptest.NewRecorder()
			server.Handler().ServeHTTP(recorder, request)
			assert.Equal(t, tt.wantStatus, recorder.Code, recorder.Body.String())
		})
	}
}
