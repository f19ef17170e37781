// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package mangadex

import (
	"context"
	"time"
)

// RelationCache stores resolved relationship values (titles, cover files, group names).
//
// A miss is reported as ("", false, nil). Implementations must be safe for concurrent use.
type RelationCache interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string, ttl time.Duration) error
}

// noCache is used when no cache is configured.
type noCache struct{}

func (noCache) Get(context.Context, string) (string, bool, error) { return "", false, nil }
func (noCache) Set(context.Context, string, string, time.Duration) error { return nil }
