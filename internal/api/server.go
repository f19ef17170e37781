// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package api mounts the chapter, reader and manga handlers on one chi router
behind the shared middleware chain, next to the health probes and the static
page image route.

Routes:

	GET  /health, /ready
	GET  {UPLOAD_PUBLIC_URL}/*                 stored page images
	     /api/v1/chapters...                   chapter reads, batch, uploads
	     /api/v1/chapters/{id}/reader|navigation
	     /api/v1/manga...                      search, detail, volumes
*/
package api

import (
	"context"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/Alexspector123/Netflix-Mangadex-sub000/internal/core/chapter"
	"github.com/Alexspector123/Netflix-Mangadex-sub000/internal/core/manga"
	"github.com/Alexspector123/Netflix-Mangadex-sub000/internal/core/reader"
	"github.com/Alexspector123/Netflix-Mangadex-sub000/internal/platform/apperr"
	"github.com/Alexspector123/Netflix-Mangadex-sub000/internal/platform/config"
	"github.com/Alexspector123/Netflix-Mangadex-sub000/internal/platform/constants"
	"github.com/Alexspector123/Netflix-Mangadex-sub000/internal/platform/middleware"
	"github.com/Alexspector123/Netflix-Mangadex-sub000/internal/platform/respond"
)

// Server owns the router and the [http.Server] built from it.
type Server struct {
	httpServer *http.Server
	router     *chi.Mux
	log        *slog.Logger
}

// Handlers groups the handler sets mounted by [NewServer].
type Handlers struct {
	Liveness  http.HandlerFunc
	Readiness http.HandlerFunc

	Chapter *chapter.Handler
	Reader  *reader.Handler
	Manga   *manga.Handler

	// Uploads serves stored page images; nil disables the route.
	Uploads http.Handler
}

// NewServer builds the router. ctx bounds the per-IP limiter's background sweep.
func NewServer(context context.Context, cfg *config.Config, log *slog.Logger, verifier middleware.TokenVerifier, h Handlers) *Server {
	r := chi.NewRouter()

	r.Use(middleware.RequestID())
	r.Use(middleware.StructuredLogger(log))
	r.Use(chimw.Timeout(constants.GlobalRequestTimeout))
	r.Use(middleware.RateLimit(context, constants.DefaultRateLimitRPS, constants.DefaultRateLimitBurst))
	r.Use(middleware.PanicRecovery(log))
	r.Use(middleware.Authenticate(verifier))
	r.Use(middleware.CORS(cfg))
	r.Use(chimw.CleanPath)

	r.Get("/health", h.Liveness)
	r.Get("/ready", h.Readiness)

	if h.Uploads != nil {
		prefix := strings.TrimRight(cfg.UploadPublicURL, "/")
		r.Handle(prefix+"/*", http.StripPrefix(prefix, h.Uploads))
	}

	r.Route("/api/v1", func(api chi.Router) {
		h.Chapter.RegisterRoutes(api)
		h.Reader.RegisterRoutes(api)
		h.Manga.RegisterRoutes(api)
	})

	r.NotFound(func(writer http.ResponseWriter, request *http.Request) {
		respond.Error(writer, request, apperr.NotFound("Route"))
	})
	r.MethodNotAllowed(func(writer http.ResponseWriter, request *http.Request) {
		respond.JSON(writer, http.StatusMethodNotAllowed, respond.ErrorEnvelope{
			Error: "Method not allowed",
			Code:  "METHOD_NOT_ALLOWED",
		})
	})

	return &Server{
		router: r,
		log:    log,
		httpServer: &http.Server{
			Addr:              ":" + cfg.ServerPort,
			Handler:           r,
			ReadTimeout:       constants.DefaultReadTimeout,
			WriteTimeout:      constants.DefaultWriteTimeout,
			IdleTimeout:       constants.DefaultIdleTimeout,
			ReadHeaderTimeout: constants.DefaultReadHeaderTimeout,
		},
	}
}

// Handler exposes the router for tests.
func (s *Server) Handler() http.Handler {
	return s.router
}

// ListenAndServe blocks until the server is shut down.
func (s *Server) ListenAndServe() error {
	s.log.Info("server starting", slog.String("addr", s.httpServer.Addr))
	return s.httpServer.ListenAndServe()
}

// Shutdown waits up to timeout for in-flight requests.
func (s *Server) Shutdown(timeout time.Duration) error {
	context, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	return s.httpServer.Shutdown(context)
}
