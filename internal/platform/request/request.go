// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package requestutil reads path parameters, query values, JSON bodies and the
uploader identity from incoming requests.
*/
package requestutil

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/Alexspector123/Netflix-Mangadex-sub000/internal/platform/apperr"
	"github.com/Alexspector123/Netflix-Mangadex-sub000/internal/platform/ctxutil"
	"github.com/Alexspector123/Netflix-Mangadex-sub000/internal/platform/validate"
)

// maxJSONBody caps JSON bodies such as the batch id list.
const maxJSONBody = 1 << 20

/*
DecodeJSON decodes a JSON body of at most 1 MiB into target.

Returns:
  - error: validate.ErrInvalidJSON for malformed, oversized or trailing content
*/
func DecodeJSON(writer http.ResponseWriter, request *http.Request, target any) error {
	decoder := json.NewDecoder(http.MaxBytesReader(writer, request.Body, maxJSONBody))
	if err := decoder.Decode(target); err != nil {
		return validate.ErrInvalidJSON
	}
	if decoder.More() {
		return validate.ErrInvalidJSON
	}
	return nil
}

// ID returns a path parameter such as a numeric chapter id or a MangaDex UUID.
func ID(request *http.Request, name string) string {
	return strings.TrimSpace(chi.URLParam(request, name))
}

// Query returns a trimmed query-string value, "" when absent.
func Query(request *http.Request, name string) string {
	return strings.TrimSpace(request.URL.Query().Get(name))
}

// UploaderID returns the verified uploader id, or 401 for anonymous requests.
func UploaderID(request *http.Request) (string, error) {
	uploaderID := ctxutil.GetUploaderID(request.Context())
	if uploaderID == "" {
		return "", apperr.Unauthorized("Authentication required")
	}
	return uploaderID, nil
}
