// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package constants holds the fixed values of the chapter API: server timing,
// the inbound per-IP budget, header names and relationship cache key prefixes.
// Tunable values live in config instead.
package constants

import "time"

// # Metadata

const (
	AppName    = "mangadex-chapters-api"
	AppVersion = "0.1.0-dev"
)

// # Server Timing

const (
	// Chapter uploads are multipart bodies, so reads get a wide window.
	DefaultReadTimeout       = 60 * time.Second
	DefaultWriteTimeout      = 60 * time.Second
	DefaultIdleTimeout       = 120 * time.Second
	DefaultReadHeaderTimeout = 2 * time.Second

	// GlobalRequestTimeout covers a full dual-source request, including time
	// queued behind the upstream limiter. It is also the Postgres statement_timeout.
	GlobalRequestTimeout = 45 * time.Second

	// ShutdownTimeout applies twice: to in-flight requests, then to the upstream drain.
	ShutdownTimeout = 30 * time.Second
)

// # Rate Limiting

const (
	// Per client IP. Unrelated to the upstream MangaDex budget.
	DefaultRateLimitRPS   = 100.0
	DefaultRateLimitBurst = 150

	RateLimitCleanupInterval = 1 * time.Minute
	RateLimitClientTTL       = 3 * time.Minute
)

// # Authentication

const (
	// AuthIssuer is the required "iss" claim of uploader tokens.
	AuthIssuer = "yomira.app"
)

// # HTTP Headers

const (
	HeaderXRequestID    = "X-Request-ID"
	HeaderXRealIP       = "X-Real-IP"
	HeaderXForwardedFor = "X-Forwarded-For"
	HeaderOrigin        = "Origin"
	HeaderRetryAfter    = "Retry-After"
	HeaderUserAgent     = "User-Agent"
)

// # Redis Prefixes (Cache Taxonomy)

const (
	RedisPrefixMangaTitle = "mangadex:manga:"
	RedisPrefixCoverFile  = "mangadex:cover:"
	RedisPrefixGroupName  = "mangadex:group:"
)
