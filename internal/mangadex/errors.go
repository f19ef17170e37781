// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package mangadex

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/Alexspector123/Netflix-Mangadex-sub000/internal/platform/apperr"
	"github.com/Alexspector123/Netflix-Mangadex-sub000/internal/platform/constants"
	"github.com/Alexspector123/Netflix-Mangadex-sub000/internal/platform/ratelimit"
)

// # Sentinel Errors

var (
	// ErrNotFound is the cause of every upstream 404.
	ErrNotFound = errors.New("mangadex: resource not found")

	// ErrRateLimited is the cause of every upstream 429. It is never retried here.
	ErrRateLimited = errors.New("mangadex: rate limited")
)

// StatusError records an unexpected upstream status.
type StatusError struct {
	Method string
	Path   string
	Status int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("mangadex: %s %s: unexpected status %d", e.Method, e.Path, e.Status)
}

// classifyStatus converts a non-2xx response into the service error taxonomy.
func classifyStatus(resource string, response *http.Response) error {
	path := response.Request.URL.Path

	switch response.StatusCode {
	case http.StatusNotFound:
		return apperr.UpstreamNotFound(resource, fmt.Errorf("%w: %s", ErrNotFound, path))
	case http.StatusTooManyRequests:
		return apperr.UpstreamRateLimited(retryAfter(response.Header, time.Now()), fmt.Errorf("%w: %s", ErrRateLimited, path))
	default:
		return apperr.Upstream(&StatusError{Method: response.Request.Method, Path: path, Status: response.StatusCode})
	}
}

// classifyTransport converts limiter and network failures.
func classifyTransport(method, path string, err error) error {
	if errors.Is(err, ratelimit.ErrClosed) {
		unavailable := apperr.ServiceUnavailable("The content provider client is shutting down")
		unavailable.Cause = err
		return unavailable
	}
	if apperr.IsAppError(err) {
		return err
	}
	if ctxErr := contextError(err); ctxErr != nil {
		return ctxErr
	}
	return apperr.Upstream(fmt.Errorf("mangadex: %s %s: %w", method, path, err))
}

// contextError maps a context cancellation or deadline, and returns nil for anything else.
func contextError(err error) error {
	switch {
	case errors.Is(err, context.Canceled):
		return apperr.Canceled(err)
	case errors.Is(err, context.DeadlineExceeded):
		return apperr.Timeout(err)
	}
	return nil
}

// retryAfter reads Retry-After (seconds) or the MangaDex X-RateLimit-Retry-After (unix time).
func retryAfter(header http.Header, now time.Time) int {
	if raw := header.Get(constants.HeaderRetryAfter); raw != "" {
		if seconds, err := strconv.Atoi(raw); err == nil && seconds > 0 {
			return seconds
		}
	}
	if raw := header.Get("X-RateLimit-Retry-After"); raw != "" {
		if unix, err := strconv.ParseInt(raw, 10, 64); err == nil {
			if wait := int(time.Unix(unix, 0).Sub(now).Seconds()); wait > 0 {
				return wait
			}
		}
	}
	return 0
}

func isNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}
