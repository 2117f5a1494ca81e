// Package contract provides interfaces and shared utilities for internal architecture.
package contract

import (
	"context"
	"time"

	"github.com/elcfinder/elcfinder/schema"
)

// SchoolSource loads the normalized school list from wherever it lives.
// This allows the ranking pipeline to be tested without files or network access.
type SchoolSource interface {
	// Load returns the schools in source order.
	Load(ctx context.Context) ([]schema.School, error)

	// Describe returns a human-readable name for the source (path or URL).
	Describe() string
}

// StoreManager defines the interface for managing persistence stores.
// This allows the storage layer to be mocked for testing.
type StoreManager interface {
	GetSourceCache() SourceCache
	GetHistoryStore() HistoryStore
}

// SourceCache defines the interface for caching fetched school payloads.
type SourceCache interface {
	Get(key string) ([]byte, int, int64, error)
	Set(key string, value []byte, version int, timestamp int64) error
	GetStatus() (schema.CacheStatus, error)
	Close() error
}

// HistoryStore defines the interface for tracking ranking runs and their scores.
type HistoryStore interface {
	// BeginRun creates a new ranking run and returns its unique ID
	BeginRun(startTime time.Time, configParams map[string]any) (int64, error)

	// RecordSchoolScore stores one ranked school for a run
	RecordSchoolScore(runID int64, school schema.ScoredSchool) error

	// EndRun updates the ranking run with completion data
	EndRun(runID int64, endTime time.Time, totalSchools int) error

	// GetStatus returns status information about the history store
	GetStatus() (schema.HistoryStatus, error)

	// GetAllRuns returns every recorded run in ID order
	GetAllRuns() ([]schema.RankingRunRecord, error)

	// GetAllSchoolScores returns every recorded score ordered by run and rank
	GetAllSchoolScores() ([]schema.SchoolScoreRecord, error)

	// Close closes the underlying connection
	Close() error
}
