// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package apperr defines the error type every service in the chapter API returns.

An [AppError] carries the HTTP status and a stable machine-readable code next
to a client-safe message. Failures of the MangaDex API use dedicated UPSTREAM_*
codes, so a client can tell an upstream rate limit apart from its own.
*/
package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

// Machine-readable codes sent in the "code" field of error responses.
const (
	CodeNotFound            = "NOT_FOUND"
	CodeNoPages             = "NO_PAGES"
	CodeUnauthorized        = "UNAUTHORIZED"
	CodeConflict            = "CONFLICT"
	CodeValidation          = "VALIDATION_ERROR"
	CodeUnprocessable       = "UNPROCESSABLE"
	CodeRateLimited         = "RATE_LIMITED"
	CodeInternal            = "INTERNAL_ERROR"
	CodeUnavailable         = "SERVICE_UNAVAILABLE"
	CodeCanceled            = "REQUEST_CANCELED"
	CodeTimeout             = "TIMEOUT"
	CodeUpstreamNotFound    = "UPSTREAM_NOT_FOUND"
	CodeUpstreamRateLimited = "UPSTREAM_RATE_LIMITED"
	CodeUpstream            = "UPSTREAM_ERROR"
)

// AppError is the canonical error type for the chapter API.
//
// Cause is logged server-side and never serialized.
type AppError struct {
	Code       string       `json:"code"`
	Message    string       `json:"error"`
	HTTPStatus int          `json:"-"`
	Cause      error        `json:"-"`
	Details    []FieldError `json:"details,omitempty"`
}

// FieldError is one failed field of a VALIDATION_ERROR response.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Error returns the client-safe message.
func (e *AppError) Error() string { return e.Message }

func (e *AppError) Unwrap() error { return e.Cause }

func newError(status int, code, message string, cause error) *AppError {
	return &AppError{Code: code, Message: message, HTTPStatus: status, Cause: cause}
}

// # Client Errors (4xx)

// NotFound reports a missing local resource, e.g. NotFound("Chapter") -> "Chapter not found".
func NotFound(resource string) *AppError {
	return newError(http.StatusNotFound, CodeNotFound, resource+" not found", nil)
}

// NoPages reports a chapter that exists locally but has no stored pages.
func NoPages() *AppError {
	return newError(http.StatusNotFound, CodeNoPages, "No pages found for this chapter", nil)
}

func Unauthorized(msg string) *AppError {
	return newError(http.StatusUnauthorized, CodeUnauthorized, msg, nil)
}

// Conflict reports a duplicate chapter for the same manga, number and uploader.
func Conflict(msg string) *AppError {
	return newError(http.StatusConflict, CodeConflict, msg, nil)
}

// ValidationError is a 400 with optional per-field details.
func ValidationError(msg string, details ...FieldError) *AppError {
	appError := newError(http.StatusBadRequest, CodeValidation, msg, nil)
	appError.Details = details
	return appError
}

// Unprocessable is a 422 for well-formed input that references something invalid.
func Unprocessable(msg string) *AppError {
	return newError(http.StatusUnprocessableEntity, CodeUnprocessable, msg, nil)
}

// RateLimited is the inbound per-IP 429.
func RateLimited(retryAfterSeconds int) *AppError {
	return newError(http.StatusTooManyRequests, CodeRateLimited,
		fmt.Sprintf("Too many requests. Try again in %ds.", retryAfterSeconds), nil)
}

// StatusClientClosedRequest is the non-standard status for a caller that went away.
const StatusClientClosedRequest = 499

// Canceled reports work abandoned because the caller cancelled its request.
func Canceled(cause error) *AppError {
	return newError(StatusClientClosedRequest, CodeCanceled, "The request was cancelled", cause)
}

// # Server Errors (5xx)

// Internal hides cause from the client behind a generic message.
func Internal(cause error) *AppError {
	return newError(http.StatusInternalServerError, CodeInternal, "An unexpected error occurred", cause)
}

// ServiceUnavailable is returned once the upstream limiter has been closed for shutdown.
func ServiceUnavailable(msg string) *AppError {
	return newError(http.StatusServiceUnavailable, CodeUnavailable, msg, nil)
}

// Timeout reports a request deadline that expired before the work finished.
func Timeout(cause error) *AppError {
	return newError(http.StatusGatewayTimeout, CodeTimeout, "The request timed out", cause)
}

// # Upstream Errors

// UpstreamNotFound reports a resource the content API answered 404 for.
func UpstreamNotFound(resource string, cause error) *AppError {
	return newError(http.StatusNotFound, CodeUpstreamNotFound, resource+" not found", cause)
}

// UpstreamRateLimited surfaces an upstream 429. It is never retried internally.
func UpstreamRateLimited(retryAfterSeconds int, cause error) *AppError {
	message := "Upstream content API rate limit reached"
	if retryAfterSeconds > 0 {
		message = fmt.Sprintf("%s. Try again in %ds.", message, retryAfterSeconds)
	}
	return newError(http.StatusTooManyRequests, CodeUpstreamRateLimited, message, cause)
}

// Upstream covers any other upstream status or transport failure.
func Upstream(cause error) *AppError {
	return newError(http.StatusInternalServerError, CodeUpstream, "The content provider failed to respond", cause)
}

// # Helpers

func IsAppError(err error) bool {
	return As(err) != nil
}

// HasCode reports whether err wraps an [*AppError] with the given code.
func HasCode(err error, code string) bool {
	appError := As(err)
	return appError != nil && appError.Code == code
}

// As returns the first [*AppError] in err's chain, or nil.
func As(err error) *AppError {
	var appError *AppError
	if errors.As(err, &appError) {
		return appError
	}
	return nil
}
