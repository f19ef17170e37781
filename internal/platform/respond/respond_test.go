// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package respond_test

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Alexspector123/Netflix-Mangadex-sub000/internal/platform/apperr"
	"github.com/Alexspector123/Netflix-Mangadex-sub000/internal/platform/respond"
)

func TestError_Envelopes(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantBody   string
	}{
		{
			name:       "app_error",
			err:        apperr.NoPages(),
			wantStatus: http.StatusNotFound,
			wantBody:   `{"success":false,"error":"No pages found for this chapter","code":"NO_PAGES"}`,
		},
		{
			name:       "validation_details",
			err:        apperr.ValidationError("Invalid input", apperr.FieldError{Field: "source", Message: "Must be db or api"}),
			wantStatus: http.StatusBadRequest,
			wantBody:   `{"success":false,"error":"Invalid input","code":"VALIDATION_ERROR","details":[{"field":"source","message":"Must be db or api"}]}`,
		},
		{
			name:       "plain_error_hidden",
			err:        errors.New("pq: relation does not exist"),
			wantStatus: http.StatusInternalServerError,
			wantBody:   `{"success":false,"error":"An unexpected error occurred","code":"INTERNAL_ERROR"}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			recorder := httptest.NewRecorder()
			respond.Error(recorder, httptest.NewRequest(http.MethodGet, "/", nil), tt.err)

			assert.Equal(t, tt.wantStatus, recorder.Code)
			assert.JSONEq(t, tt.wantBody, recorder.Body.String())
		})
	}
}

func TestOK_WrapsData(t *testing.T) {
	recorder := httptest.NewRecorder()
	respond.OK(recorder, map[string]any{"dbResult": nil})

	assert.Equal(t, "application/json; charset=utf-8", recorder.Header().Get("Content-Type"))
	assert.JSONEq(t, `{"success":true,"data":{"dbResult":null}}`, recorder.Body.String())
}
