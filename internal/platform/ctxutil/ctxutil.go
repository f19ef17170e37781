// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package ctxutil stores and reads the per-request values keyed by [ctxkey].
package ctxutil

import (
	"context"
	"log/slog"

	"github.com/Alexspector123/Netflix-Mangadex-sub000/internal/platform/ctxkey"
	"github.com/Alexspector123/Netflix-Mangadex-sub000/internal/platform/sec"
)

// # Request Tracing

func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, ctxkey.KeyRequestID, id)
}

// GetRequestID returns "" outside of the RequestID middleware.
func GetRequestID(ctx context.Context) string {
	id, _ := ctx.Value(ctxkey.KeyRequestID).(string)
	return id
}

// # Structured Logging

func WithLogger(ctx context.Context, logger *slog.Logger) context.Context {
	return context.WithValue(ctx, ctxkey.KeyLogger, logger)
}

// GetLogger falls back to [slog.Default] so background callers can log too.
func GetLogger(ctx context.Context) *slog.Logger {
	if logger, ok := ctx.Value(ctxkey.KeyLogger).(*slog.Logger); ok && logger != nil {
		return logger
	}
	return slog.Default()
}

// # Uploader Identity

func WithUploader(ctx context.Context, claims *sec.AuthClaims) context.Context {
	return context.WithValue(ctx, ctxkey.KeyUploader, claims)
}

// GetUploader returns nil for anonymous requests.
func GetUploader(ctx context.Context) *sec.AuthClaims {
	claims, _ := ctx.Value(ctxkey.KeyUploader).(*sec.AuthClaims)
	return claims
}

// GetUploaderID is the value stored as core.chapter.uploader_id, or "" when anonymous.
func GetUploaderID(ctx context.Context) string {
	if claims := GetUploader(ctx); claims != nil {
		return claims.UserID
	}
	return ""
}
