// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package apperr_test

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Alexspector123/Netflix-Mangadex-sub000/internal/platform/apperr"
)

/*
TestUpstreamErrors_StatusMapping verifies that each upstream failure class maps to a
distinct HTTP status and code.
*/
func TestUpstreamErrors_StatusMapping(t *testing.T) {
	cause := errors.New("boom")

	tests := []struct {
		name   string
		err    *apperr.AppError
		status int
		code   string
	}{
		{"not_found", apperr.UpstreamNotFound("Chapter", cause), http.StatusNotFound, "UPSTREAM_NOT_FOUND"},
		{"rate_limited", apperr.UpstreamRateLimited(3, cause), http.StatusTooManyRequests, "UPSTREAM_RATE_LIMITED"},
		{"generic", apperr.Upstream(cause), http.StatusInternalServerError, "UPSTREAM_ERROR"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.status, tt.err.HTTPStatus)
			assert.Equal(t, tt.code, tt.err.Code)
			assert.ErrorIs(t, tt.err, cause)
		})
	}
}

/*
TestAs_WrappedChain verifies that an AppError is found behind fmt.Errorf wrapping.
*/
func TestAs_WrappedChain(t *testing.T) {
	wrapped := fmt.Errorf("service: %w", apperr.NoPages())

	ae := apperr.As(wrapped)
	require.NotNil(t, ae)
	assert.Equal(t, "NO_PAGES", ae.Code)
	assert.True(t, apperr.HasCode(wrapped, "NO_PAGES"))
	assert.False(t, apperr.HasCode(errors.New("plain"), "NO_PAGES"))
}

/*
TestUpstreamRateLimited_Message checks the retry hint is only rendered when known.
*/
func TestUpstreamRateLimited_Message(t *testing.T) {
	assert.Contains(t, apperr.UpstreamRateLimited(7, nil).Message, "7s")
	assert.NotContains(t, apperr.UpstreamRateLimited(0, nil).Message, "Try again")
}

func TestCallerErrors_AreNotServerFaults(t *testing.T) {
	canceled := apperr.Canceled(errors.New("gone"))
	assert.Equal(t, apperr.StatusClientClosedRequest, canceled.HTTPStatus)
	assert.Equal(t, "REQUEST_CANCELED", canceled.Code)

	timeout := apperr.Timeout(errors.New("deadline"))
	assert.Equal(t, http.StatusGatewayTimeout, timeout.HTTPStatus)
	assert.Equal(t, "TIMEOUT", timeout.Code)
}
