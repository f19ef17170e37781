// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package reader

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/Alexspector123/Netflix-Mangadex-sub000/internal/core/source"
	"github.com/Alexspector123/Netflix-Mangadex-sub000/internal/mangadex"
	"github.com/Alexspector123/Netflix-Mangadex-sub000/internal/platform/apperr"
	requestutil "github.com/Alexspector123/Netflix-Mangadex-sub000/internal/platform/request"
	"github.com/Alexspector123/Netflix-Mangadex-sub000/internal/platform/respond"
)

// Handler exposes the reader view over HTTP.
type Handler struct {
	assembler *Assembler
}

// NewHandler constructs a new reader [Handler].
func NewHandler(assembler *Assembler) *Handler {
	return &Handler{assembler: assembler}
}

// RegisterRoutes attaches reader endpoints to the versioned API router.
func (handler *Handler) RegisterRoutes(api chi.Router) {
	api.Get("/chapters/{id}/reader", handler.GetPages)
	api.Get("/chapters/{id}/navigation", handler.GetNavigation)
}

/*
GET /api/v1/chapters/{id}/reader.

Request:
  - id: string (local integer id or content API UUID)
  - source: string (db, api, or omitted for both)
  - quality: string (data, data-saver; default data)

Response:
  - 200: {dbPages, apiPages}
  - 404: NOT_FOUND / NO_PAGES / UPSTREAM_NOT_FOUND
  - 429: UPSTREAM_RATE_LIMITED
*/
func (handler *Handler) GetPages(writer http.ResponseWriter, request *http.Request) {
	selector, err := source.ParseSelector(requestutil.Query(request, "source"))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	quality, err := parseQuality(requestutil.Query(request, "quality"))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	pages, err := handler.assembler.Assemble(request.Context(), requestutil.ID(request, "id"), selector, quality)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, pages)
}

/*
GET /api/v1/chapters/{id}/navigation.

Response:
  - 200: {dbResult, apiResult} each {current, previous, next, previousLink, nextLink}
  - 404: NOT_FOUND
*/
func (handler *Handler) GetNavigation(writer http.ResponseWriter, request *http.Request) {
	selector, err := source.ParseSelector(requestutil.Query(request, "source"))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	envelope, err := handler.assembler.Navigate(request.Context(), requestutil.ID(request, "id"), selector)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, envelope)
}

func parseQuality(raw string) (mangadex.Quality, error) {
	switch mangadex.Quality(raw) {
	case "", mangadex.QualityData:
		return mangadex.QualityData, nil
	case mangadex.QualityDataSaver:
		return mangadex.QualityDataSaver, nil
	}
	return "", apperr.ValidationError("Invalid image quality",
		apperr.FieldError{Field: "quality", Message: "must be 'data' or 'data-saver'"},
	)
}
