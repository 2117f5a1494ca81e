// Package ingest loads school records from files and URLs and normalizes them.
package ingest

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/elcfinder/elcfinder/internal/contract"
	"github.com/elcfinder/elcfinder/schema"
)

// cacheVersion is bumped whenever the cached payload format changes.
const cacheVersion = 1

// maxPayloadBytes caps how much of a remote response is read.
const maxPayloadBytes = 32 << 20

// Options controls how a Loader reads and normalizes its source.
type Options struct {
	MissingRatings schema.MissingRatings
	Statuses       map[int]schema.SchoolStatus
	CacheTTL       time.Duration
	FetchTimeout   time.Duration
}

// OptionsFromConfig extracts loader options from the validated config.
func OptionsFromConfig(cfg *contract.Config) Options {
	return Options{
		MissingRatings: cfg.MissingRatings,
		Statuses:       cfg.Statuses,
		CacheTTL:       cfg.CacheTTL,
		FetchTimeout:   cfg.FetchTimeout,
	}
}

// Loader reads schools from a local JSON or CSV file, or from an http(s) URL.
// Remote payloads go through the source cache when one is configured.
type Loader struct {
	location string
	opts     Options
	cache    contract.SourceCache
	client   *http.Client
	now      func() time.Time
}

var _ contract.SchoolSource = &Loader{} // Compile-time check

// NewLoader creates a loader for location. cache may be nil.
func NewLoader(location string, opts Options, cache contract.SourceCache) *Loader {
	if opts.MissingRatings == "" {
		opts.MissingRatings = schema.ZeroMissingRatings
	}
	if opts.FetchTimeout <= 0 {
		opts.FetchTimeout = contract.DefaultFetchTimeout
	}
	return &Loader{
		location: location,
		opts:     opts,
		cache:    cache,
		client:   &http.Client{},
		now:      time.Now,
	}
}

// Describe returns the path or URL of the source.
func (l *Loader) Describe() string {
	return l.location
}

// Path returns the local file path, or an empty string for remote sources.
func (l *Loader) Path() string {
	if contract.IsRemoteSource(l.location) {
		return ""
	}
	return l.location
}

// Load reads and normalizes the schools and applies the status overlay.
func (l *Loader) Load(ctx context.Context) ([]schema.School, error) {
	var (
		schools []schema.School
		err     error
	)
	switch {
	case contract.IsRemoteSource(l.location):
		var data []byte
		data, err = l.loadRemote(ctx)
		if err == nil {
			schools, err = Normalize(data, l.opts.MissingRatings)
		}
	case strings.EqualFold(filepath.Ext(l.location), ".csv"):
		schools, err = l.loadCSV()
	default:
		var data []byte
		data, err = os.ReadFile(l.location)
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", l.location, err)
		}
		schools, err = Normalize(data, l.opts.MissingRatings)
	}
	if err != nil {
		return nil, err
	}

	ApplyStatuses(schools, l.opts.Statuses)
	return schools, nil
}

func (l *Loader) loadCSV() ([]schema.School, error) {
	file, err := os.Open(l.location)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", l.location, err)
	}
	defer func() { _ = file.Close() }()
	return DecodeCSV(file, l.opts.MissingRatings)
}

// cacheKey returns the source cache key for the remote location.
func (l *Loader) cacheKey() string {
	return "source:" + l.location
}

// loadRemote serves a fresh cache entry, or fetches the URL and falls back to
// a stale entry when the fetch fails.
func (l *Loader) loadRemote(ctx context.Context) ([]byte, error) {
	var (
		cached    []byte
		hasCached bool
	)
	if l.cache != nil {
		value, version, ts, err := l.cache.Get(l.cacheKey())
		switch {
		case err == nil && version == cacheVersion:
			cached, hasCached = value, true
			if l.now().Sub(time.Unix(ts, 0)) < l.opts.CacheTTL {
				return cached, nil
			}
		case err != nil && !errors.Is(err, sql.ErrNoRows):
			contract.LogWarn("Failed to read source cache", err)
		}
	}

	data, err := l.fetch(ctx)
	if err != nil {
		if hasCached {
			contract.LogWarn("Using stale cached copy of "+l.location, err)
			return cached, nil
		}
		return nil, err
	}

	if l.cache != nil {
		if err := l.cache.Set(l.cacheKey(), data, cacheVersion, l.now().Unix()); err != nil {
			contract.LogWarn("Failed to update source cache", err)
		}
	}
	return data, nil
}

// fetch performs a context-bound GET bounded by the fetch timeout.
func (l *Loader) fetch(ctx context.Context) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, l.opts.FetchTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, l.location, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build request for %s: %w", l.location, err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := l.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch %s: %w", l.location, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("failed to fetch %s: unexpected status %s", l.location, resp.Status)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxPayloadBytes))
	if err != nil {
		return nil, fmt.Errorf("failed to read response from %s: %w", l.location, err)
	}
	return data, nil
}
