// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package mangadex is a typed client for the MangaDex content API.

Every outbound call is admitted by a shared [ratelimit.Limiter]. Relationship ids
(manga, cover art, scanlation group) are resolved into flat DTOs with one extra
call per relationship, deduplicated in flight and cached in Redis.

Error mapping:

  - 404: apperr UPSTREAM_NOT_FOUND, cause [ErrNotFound]
  - 429: apperr UPSTREAM_RATE_LIMITED, cause [ErrRateLimited], never retried
  - caller cancellation or deadline: apperr REQUEST_CANCELED or TIMEOUT
  - anything else: apperr UPSTREAM_ERROR
*/
package mangadex

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/Alexspector123/Netflix-Mangadex-sub000/internal/platform/apperr"
	"github.com/Alexspector123/Netflix-Mangadex-sub000/internal/platform/constants"
	"github.com/Alexspector123/Netflix-Mangadex-sub000/internal/platform/ratelimit"
)

const (
	DefaultBaseURL      = "https://api.mangadex.org"
	DefaultCoverBaseURL = "https://uploads.mangadex.org/covers"
	defaultTimeout      = 15 * time.Second
	defaultCacheTTL     = 6 * time.Hour
)

// Options configures a [Client]. Zero values fall back to defaults.
type Options struct {
	BaseURL      string
	CoverBaseURL string
	UserAgent    string
	Timeout      time.Duration
	HTTPClient   *http.Client
	Cache        RelationCache
	CacheTTL     time.Duration
}

// Client calls the MangaDex API through a shared limiter.
type Client struct {
	baseURL      string
	coverBaseURL string
	userAgent    string
	timeout      time.Duration
	httpClient   *http.Client
	limiter      *ratelimit.Limiter
	cache        RelationCache
	cacheTTL     time.Duration
	lookups      singleflight.Group
	logger       *slog.Logger
}

// NewClient constructs a [Client]. The limiter is owned by the caller.
func NewClient(limiter *ratelimit.Limiter, options Options, logger *slog.Logger) *Client {
	if options.BaseURL == "" {
		options.BaseURL = DefaultBaseURL
	}
	if options.CoverBaseURL == "" {
		options.CoverBaseURL = DefaultCoverBaseURL
	}
	if options.Timeout <= 0 {
		options.Timeout = defaultTimeout
	}
	if options.HTTPClient == nil {
		options.HTTPClient = &http.Client{Timeout: options.Timeout}
	}
	if options.Cache == nil {
		options.Cache = noCache{}
	}
	if options.CacheTTL <= 0 {
		options.CacheTTL = defaultCacheTTL
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &Client{
		baseURL:      strings.TrimRight(options.BaseURL, "/"),
		coverBaseURL: strings.TrimRight(options.CoverBaseURL, "/"),
		userAgent:    options.UserAgent,
		timeout:      options.Timeout,
		httpClient:   options.HTTPClient,
		limiter:      limiter,
		cache:        options.Cache,
		cacheTTL:     options.CacheTTL,
		logger:       logger,
	}
}

// # Transport

/*
getJSON performs one limiter-admitted GET and decodes a 2xx body into target.

Parameters:
  - ctx: context.Context (also aborts the in-flight request)
  - resource: string (name used in not-found messages)
  - path: string (already escaped)
  - query: url.Values (may be nil)
  - target: any (pointer to the response shape)
*/
func (client *Client) getJSON(ctx context.Context, resource, path string, query url.Values, target any) error {
	endpoint := client.baseURL + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	err := client.limiter.Schedule(ctx, func(ctx context.Context) error {
		request, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
		if err != nil {
			return err
		}
		request.Header.Set(constants.HeaderUserAgent, client.userAgent)
		request.Header.Set("Accept", "application/json")

		response, err := client.httpClient.Do(request)
		if err != nil {
			return err
		}
		defer response.Body.Close()

		if response.StatusCode < 200 || response.StatusCode > 299 {
			_, _ = io.Copy(io.Discard, io.LimitReader(response.Body, 4096))
			return classifyStatus(resource, response)
		}

		if err := json.NewDecoder(response.Body).Decode(target); err != nil {
			return fmt.Errorf("decode response: %w", err)
		}
		return nil
	})
	if err != nil {
		err = classifyTransport(http.MethodGet, path, err)
		level := slog.LevelWarn
		if apperr.HasCode(err, apperr.CodeCanceled) {
			level = slog.LevelDebug
		}
		client.logger.Log(ctx, level, "upstream_request_failed",
			slog.String("path", path),
			slog.Any("error", err),
		)
		return err
	}

	return nil
}

// # Relationship Resolution

type mangaRef struct {
	Title    string `json:"title"`
	CoverURL string `json:"coverUrl"`
}

/*
lookup returns a cached relationship value or fetches it once for all concurrent callers.

Description: The shared fetch runs detached from the caller that started it,
bounded by the client timeout, so one caller leaving does not fail the
others. Each caller stops waiting when its own context ends. Cache failures
are logged and ignored.
*/
func (client *Client) lookup(ctx context.Context, key string, fetch func(context.Context) (string, error)) (string, error) {
	value, hit, err := client.cache.Get(ctx, key)
	if err != nil {
		client.logger.WarnContext(ctx, "relation_cache_unavailable", slog.String("key", key), slog.Any("error", err))
	} else if hit {
		return value, nil
	}

	results := client.lookups.DoChan(key, func() (any, error) {
		shared, cancel := context.WithTimeout(context.WithoutCancel(ctx), client.timeout)
		defer cancel()

		fetched, err := fetch(shared)
		if err != nil {
			return "", err
		}
		if err := client.cache.Set(shared, key, fetched, client.cacheTTL); err != nil {
			client.logger.WarnContext(shared, "relation_cache_unavailable", slog.String("key", key), slog.Any("error", err))
		}
		return fetched, nil
	})

	select {
	case <-ctx.Done():
		return "", contextError(ctx.Err())
	case result := <-results:
		if result.Err != nil {
			return "", result.Err
		}
		return result.Val.(string), nil
	}
}

// resolveManga returns the manga title and cover URL.
func (client *Client) resolveManga(ctx context.Context, mangaID string) (mangaRef, error) {
	raw, err := client.lookup(ctx, constants.RedisPrefixMangaTitle+mangaID, func(ctx context.Context) (string, error) {
		var response entityResponse[mangaAttributes]
		if err := client.getJSON(ctx, "Manga", "/manga/"+url.PathEscape(mangaID), nil, &response); err != nil {
			return "", err
		}

		ref := mangaRef{Title: preferredTitle(response.Data.Attributes.Title)}
		if rel, ok := response.Data.related(relCover); ok {
			cover, err := client.resolveCover(ctx, mangaID, rel.ID)
			if err != nil {
				return "", err
			}
			ref.CoverURL = cover
		}

		encoded, err := json.Marshal(ref)
		return string(encoded), err
	})
	if err != nil {
		return mangaRef{}, err
	}

	var ref mangaRef
	if err := json.Unmarshal([]byte(raw), &ref); err != nil {
		return mangaRef{}, fmt.Errorf("mangadex: cached manga %s: %w", mangaID, err)
	}
	return ref, nil
}

// resolveCover returns the public cover URL, or "" when the cover no longer exists.
func (client *Client) resolveCover(ctx context.Context, mangaID, coverID string) (string, error) {
	fileName, err := client.lookup(ctx, constants.RedisPrefixCoverFile+coverID, func(ctx context.Context) (string, error) {
		var response entityResponse[coverAttributes]
		err := client.getJSON(ctx, "Cover", "/cover/"+url.PathEscape(coverID), nil, &response)
		if isNotFound(err) {
			return "", nil
		}
		if err != nil {
			return "", err
		}
		return response.Data.Attributes.FileName, nil
	})
	if err != nil || fileName == "" {
		return "", err
	}
	return client.coverURL(mangaID, fileName), nil
}

// resolveGroup returns the scanlation group name, or "" when the group no longer exists.
func (client *Client) resolveGroup(ctx context.Context, groupID string) (string, error) {
	return client.lookup(ctx, constants.RedisPrefixGroupName+groupID, func(ctx context.Context) (string, error) {
		var response entityResponse[groupAttributes]
		err := client.getJSON(ctx, "Scanlation group", "/group/"+url.PathEscape(groupID), nil, &response)
		if isNotFound(err) {
			return "", nil
		}
		if err != nil {
			return "", err
		}
		return response.Data.Attributes.Name, nil
	})
}

func (client *Client) coverURL(mangaID, fileName string) string {
	return fmt.Sprintf("%s/%s/%s", client.coverBaseURL, mangaID, fileName)
}
