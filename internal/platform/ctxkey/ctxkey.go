// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package ctxkey defines the typed keys for per-request values: the request id,
// the verified uploader claims and the request-scoped logger.
package ctxkey

// key is unexported so no other package can build a colliding key.
type key uint8

const (
	// KeyRequestID holds the X-Request-ID correlation value.
	KeyRequestID key = iota + 1

	// KeyUploader holds the verified [sec.AuthClaims] of the uploader.
	KeyUploader

	// KeyLogger holds the request-scoped [*log/slog.Logger].
	KeyLogger
)
