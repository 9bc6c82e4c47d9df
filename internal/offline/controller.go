// Package offline implements the shell asset cache: a versioned Redis
// bucket fronting the upstream origin with a stale-while-revalidate
// policy. Cached copies win on latency; the network leg refreshes the
// cache in the background.
package offline

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/go-resty/resty/v2"
	apperrors "github.com/vladimiradmaev/glucose-logger/internal/errors"
	"github.com/vladimiradmaev/glucose-logger/internal/logger"
)

const (
	keyPrefix         = "shell-cache:"
	fetchTimeout      = 15 * time.Second
	revalidateTimeout = 30 * time.Second
)

// Entry is one cached upstream response.
type Entry struct {
	Status      int    `json:"status"`
	ContentType string `json:"contentType"`
	Body        []byte `json:"body"`
}

// Controller serves shell asset requests from the versioned cache
// bucket, revalidating against the upstream origin opportunistically.
type Controller struct {
	rdb      *redis.Client
	client   *resty.Client
	version  string
	assets   []string
	upstream *url.URL

	mu        sync.Mutex
	installed bool
	active    bool
}

// New builds a controller for the given upstream origin and cache
// version. Bumping the version retires all previously cached assets on
// the next Activate.
func New(rdb *redis.Client, upstream, version string, assets []string) (*Controller, error) {
	u, err := url.Parse(upstream)
	if err != nil {
		return nil, fmt.Errorf("invalid upstream URL %q: %w", upstream, err)
	}

	client := resty.New().
		SetBaseURL(upstream).
		SetTimeout(fetchTimeout)

	return &Controller{
		rdb:      rdb,
		client:   client,
		version:  version,
		assets:   assets,
		upstream: u,
	}, nil
}

func (c *Controller) bucket() string {
	return keyPrefix + c.version + ":"
}

func (c *Controller) key(path string) string {
	return c.bucket() + path
}

// Install populates the cache with the full asset manifest. It is
// all-or-nothing: nothing is written until every asset fetched
// successfully, so a failed install leaves no partial cache behind.
func (c *Controller) Install(ctx context.Context) error {
	entries := make(map[string]Entry, len(c.assets))
	for _, asset := range c.assets {
		entry, err := c.fetch(ctx, asset)
		if err != nil {
			return apperrors.NewCacheInstallError(err, asset)
		}
		if entry.Status != http.StatusOK {
			return apperrors.NewCacheInstallError(
				fmt.Errorf("unexpected status %d", entry.Status), asset)
		}
		entries[asset] = entry
	}

	pipe := c.rdb.Pipeline()
	for asset, entry := range entries {
		raw, err := json.Marshal(entry)
		if err != nil {
			return apperrors.NewCacheInstallError(err, asset)
		}
		pipe.Set(ctx, c.key(asset), raw, 0)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return apperrors.NewCacheInstallError(err, "pipeline")
	}

	c.mu.Lock()
	c.installed = true
	c.mu.Unlock()

	logger.Info("Shell cache installed", "version", c.version, "assets", len(c.assets))
	return nil
}

// Activate retires every cache bucket whose name does not match the
// current version and takes over request handling immediately. It
// refuses to run before a successful Install.
func (c *Controller) Activate(ctx context.Context) error {
	c.mu.Lock()
	installed := c.installed
	c.mu.Unlock()
	if !installed {
		return apperrors.ErrCacheNotInstalled
	}

	iter := c.rdb.Scan(ctx, 0, keyPrefix+"*", 100).Iterator()
	var stale []string
	for iter.Next(ctx) {
		if key := iter.Val(); !strings.HasPrefix(key, c.bucket()) {
			stale = append(stale, key)
		}
	}
	if err := iter.Err(); err != nil {
		return fmt.Errorf("failed to scan cache buckets: %w", err)
	}
	if len(stale) > 0 {
		if err := c.rdb.Del(ctx, stale...).Err(); err != nil {
			return fmt.Errorf("failed to delete stale cache entries: %w", err)
		}
		logger.Info("Retired stale shell cache entries", "count", len(stale))
	}

	c.mu.Lock()
	c.active = true
	c.mu.Unlock()

	logger.Info("Shell cache activated", "version", c.version)
	return nil
}

// Active reports whether the controller has completed activation.
func (c *Controller) Active() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.active
}

// ServeHTTP intercepts GET requests with a stale-while-revalidate
// policy: a cached response is returned immediately and refreshed in
// the background; on a miss the network result answers, falling back
// to the cache only if the network leg fails. Non-GET requests pass
// through untouched.
func (c *Controller) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		c.passthrough(w, r)
		return
	}

	path := r.URL.RequestURI()
	ctx := r.Context()

	if entry, ok := c.lookup(ctx, path); ok {
		writeEntry(w, entry, "hit")
		go c.revalidate(path)
		return
	}

	entry, err := c.fetch(ctx, path)
	if err != nil {
		// The install may have populated this key concurrently.
		if cached, ok := c.lookup(ctx, path); ok {
			writeEntry(w, cached, "hit")
			return
		}
		logger.Warn("Shell asset fetch failed with no cached copy", "path", path, "error", err)
		http.Error(w, "upstream unavailable", http.StatusBadGateway)
		return
	}

	c.storeIfCacheable(ctx, path, entry)
	writeEntry(w, entry, "miss")
}

// revalidate refreshes one cache entry from the network. Failures are
// ignored; the client already has a response.
func (c *Controller) revalidate(path string) {
	ctx, cancel := context.WithTimeout(context.Background(), revalidateTimeout)
	defer cancel()

	entry, err := c.fetch(ctx, path)
	if err != nil {
		logger.Debug("Shell cache revalidation failed", "path", path, "error", err)
		return
	}
	c.storeIfCacheable(ctx, path, entry)
}

// storeIfCacheable writes a plain status-200 response into the cache,
// overwriting any prior entry for the key. Non-http(s) upstreams are
// never cached.
func (c *Controller) storeIfCacheable(ctx context.Context, path string, entry Entry) {
	if entry.Status != http.StatusOK {
		return
	}
	if c.upstream.Scheme != "http" && c.upstream.Scheme != "https" {
		return
	}
	raw, err := json.Marshal(entry)
	if err != nil {
		return
	}
	if err := c.rdb.Set(ctx, c.key(path), raw, 0).Err(); err != nil {
		logger.Warn("Failed to store shell cache entry", "path", path, "error", err)
	}
}

func (c *Controller) lookup(ctx context.Context, path string) (Entry, bool) {
	raw, err := c.rdb.Get(ctx, c.key(path)).Bytes()
	if err != nil {
		return Entry{}, false
	}
	var entry Entry
	if err := json.Unmarshal(raw, &entry); err != nil {
		return Entry{}, false
	}
	return entry, true
}

func (c *Controller) fetch(ctx context.Context, path string) (Entry, error) {
	resp, err := c.client.R().SetContext(ctx).Get(path)
	if err != nil {
		return Entry{}, apperrors.NewUpstreamError(err, path)
	}
	return Entry{
		Status:      resp.StatusCode(),
		ContentType: resp.Header().Get("Content-Type"),
		Body:        resp.Body(),
	}, nil
}

// passthrough proxies a non-GET request to the upstream without
// touching the cache.
func (c *Controller) passthrough(w http.ResponseWriter, r *http.Request) {
	resp, err := c.client.R().
		SetContext(r.Context()).
		SetHeader("Content-Type", r.Header.Get("Content-Type")).
		SetBody(r.Body).
		Execute(r.Method, r.URL.RequestURI())
	if err != nil {
		http.Error(w, "upstream unavailable", http.StatusBadGateway)
		return
	}
	if ct := resp.Header().Get("Content-Type"); ct != "" {
		w.Header().Set("Content-Type", ct)
	}
	w.WriteHeader(resp.StatusCode())
	w.Write(resp.Body())
}

func writeEntry(w http.ResponseWriter, entry Entry, source string) {
	if entry.ContentType != "" {
		w.Header().Set("Content-Type", entry.ContentType)
	}
	w.Header().Set("X-Shell-Cache", source)
	w.WriteHeader(entry.Status)
	w.Write(entry.Body)
}
