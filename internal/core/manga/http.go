// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package manga

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/Alexspector123/Netflix-Mangadex-sub000/internal/core/source"
	requestutil "github.com/Alexspector123/Netflix-Mangadex-sub000/internal/platform/request"
	"github.com/Alexspector123/Netflix-Mangadex-sub000/internal/platform/respond"
	"github.com/Alexspector123/Netflix-Mangadex-sub000/pkg/pagination"
	"github.com/Alexspector123/Netflix-Mangadex-sub000/pkg/query"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (handler *Handler) RegisterRoutes(api chi.Router) {
	api.Get("/manga", handler.searchManga)
	api.Get("/manga/{id}", handler.getManga)
	api.Get("/manga/{id}/volumes", handler.getVolumes)
}

// GET /api/v1/manga?title&limit&source
func (handler *Handler) searchManga(writer http.ResponseWriter, request *http.Request) {
	selector, err := source.ParseSelector(requestutil.Query(request, "source"))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	params := pagination.FromRequest(request)

	envelope, err := handler.service.Search(request.Context(), selector, requestutil.Query(request, FieldTitle), params.Limit)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, envelope)
}

func (handler *Handler) getManga(writer http.ResponseWriter, request *http.Request) {
	m, err := handler.service.GetManga(request.Context(), requestutil.ID(request, "id"))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, m)
}

// GET /api/v1/manga/{id}/volumes?translatedLanguage=en,vi
func (handler *Handler) getVolumes(writer http.ResponseWriter, request *http.Request) {
	volumes, err := handler.service.GetVolumes(request.Context(), requestutil.ID(request, "id"), query.List(request.URL.Query()[FieldLanguage]))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, volumes)
}
