package schema

import "time"

// CacheStatus represents the status of the source cache store.
type CacheStatus struct {
	Backend         string    `json:"backend"`
	Connected       bool      `json:"connected"`
	TotalEntries    int       `json:"total_entries"`
	LastEntryTime   time.Time `json:"last_entry_time"`
	OldestEntryTime time.Time `json:"oldest_entry_time"`
	TableSizeBytes  int64     `json:"table_size_bytes"`
}

// HistoryStatus represents the status of the ranking history store.
type HistoryStatus struct {
	Backend            string           `json:"backend"`
	Connected          bool             `json:"connected"`
	TotalRuns          int              `json:"total_runs"`
	LastRunID          int64            `json:"last_run_id"`
	LastRunTime        time.Time        `json:"last_run_time"`
	OldestRunTime      time.Time        `json:"oldest_run_time"`
	TotalSchoolsScored int              `json:"total_schools_scored"`
	TableSizes         map[string]int64 `json:"table_sizes"`
}

// RankingRunRecord represents a row from the elc_ranking_runs table.
type RankingRunRecord struct {
	RunID         int64
	StartTime     time.Time
	EndTime       *time.Time
	RunDurationMs *int32
	TotalSchools  int32
	ConfigParams  *string
}

// SchoolScoreRecord represents a row from the elc_school_scores table.
// Ratings are nil when the source value was invalid.
type SchoolScoreRecord struct {
	RunID        int64
	RankPosition int32
	SchoolID     int64
	SchoolName   string
	RankedAt     time.Time
	Score        float64
	ScoreLabel   string
	Status       string
	Cost         *float64
	Education    *float64
	Staff        *float64
	Facilities   *float64
	Reputation   *float64
	NQS          *float64
}
