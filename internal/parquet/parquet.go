// Package parquet provides data structures and functions for exporting elcfinder
// rankings and history to Parquet files using github.com/parquet-go/parquet-go.
package parquet

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/elcfinder/elcfinder/schema"
	"github.com/parquet-go/parquet-go"
)

// RankingRun represents a single ranking run with metadata.
// This struct maps to the elc_ranking_runs database table.
type RankingRun struct {
	// RunID is the unique identifier for this ranking run
	RunID int64 `parquet:"run_id,snappy"`

	// StartTime is when the run began (stored as TIMESTAMP with nanosecond precision)
	StartTime time.Time `parquet:"start_time,snappy"`

	// EndTime is when the run completed (nullable)
	EndTime *time.Time `parquet:"end_time,optional,snappy"`

	// RunDurationMs is the duration of the run in milliseconds (nullable)
	RunDurationMs *int32 `parquet:"run_duration_ms,optional,snappy"`

	// TotalSchools is the number of schools ranked in this run
	TotalSchools int32 `parquet:"total_schools,snappy"`

	// ConfigParams contains the JSON-encoded weights and options (nullable)
	ConfigParams *string `parquet:"config_params,optional,snappy"`
}

// SchoolScore represents one ranked school within a run.
// This struct maps to the elc_school_scores database table.
type SchoolScore struct {
	RunID        int64     `parquet:"run_id,snappy"`
	RankPosition int32     `parquet:"rank_position,snappy"`
	SchoolID     int64     `parquet:"school_id,snappy"`
	SchoolName   string    `parquet:"school_name,snappy"`
	RankedAt     time.Time `parquet:"ranked_at,snappy"`
	Score        float64   `parquet:"score,snappy"`
	ScoreLabel   string    `parquet:"score_label,snappy"`
	Status       string    `parquet:"status,snappy"`

	// Ratings are null when the source value was invalid
	Cost       *float64 `parquet:"cost,optional,snappy"`
	Education  *float64 `parquet:"education,optional,snappy"`
	Staff      *float64 `parquet:"staff,optional,snappy"`
	Facilities *float64 `parquet:"facilities,optional,snappy"`
	Reputation *float64 `parquet:"reputation,optional,snappy"`
	NQS        *float64 `parquet:"nqs,optional,snappy"`
}

// RankedSchool is one row of a ranking written with --output parquet.
type RankedSchool struct {
	Rank       int32    `parquet:"rank,snappy"`
	SchoolID   int64    `parquet:"school_id,snappy"`
	Name       string   `parquet:"name,snappy"`
	Score      float64  `parquet:"score,snappy"`
	Label      string   `parquet:"label,snappy"`
	Status     string   `parquet:"status,snappy"`
	Address    string   `parquet:"address,snappy"`
	Lat        float64  `parquet:"lat,snappy"`
	Lng        float64  `parquet:"lng,snappy"`
	Cost       *float64 `parquet:"cost,optional,snappy"`
	Education  *float64 `parquet:"education,optional,snappy"`
	Staff      *float64 `parquet:"staff,optional,snappy"`
	Facilities *float64 `parquet:"facilities,optional,snappy"`
	Reputation *float64 `parquet:"reputation,optional,snappy"`
	NQS        *float64 `parquet:"nqs,optional,snappy"`
}

// WriteRows writes rows to w using a schema inferred from the struct tags of T.
func WriteRows[T any](w io.Writer, rows []T) error {
	writer := parquet.NewGenericWriter[T](w)
	if _, err := writer.Write(rows); err != nil {
		_ = writer.Close()
		return fmt.Errorf("failed to write data to parquet file: %w", err)
	}
	if err := writer.Close(); err != nil {
		return fmt.Errorf("failed to finalize parquet file: %w", err)
	}
	return nil
}

// WriteFile creates outputPath and writes rows to it.
func WriteFile[T any](rows []T, outputPath string) error {
	file, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	if err := WriteRows(file, rows); err != nil {
		_ = file.Close()
		return err
	}
	return file.Close()
}

// WriteRankingRunsParquet writes ranking runs to a Parquet file.
func WriteRankingRunsParquet(data []RankingRun, outputPath string) error {
	return WriteFile(data, outputPath)
}

// WriteSchoolScoresParquet writes school scores to a Parquet file.
func WriteSchoolScoresParquet(data []SchoolScore, outputPath string) error {
	return WriteFile(data, outputPath)
}

// ConvertRankingRunRecords converts schema.RankingRunRecord to RankingRun for Parquet export.
func ConvertRankingRunRecords(records []schema.RankingRunRecord) []RankingRun {
	result := make([]RankingRun, len(records))
	for i, record := range records {
		result[i] = RankingRun{
			RunID:         record.RunID,
			StartTime:     record.StartTime,
			EndTime:       record.EndTime,
			RunDurationMs: record.RunDurationMs,
			TotalSchools:  record.TotalSchools,
			ConfigParams:  record.ConfigParams,
		}
	}
	return result
}

// ConvertSchoolScoreRecords converts schema.SchoolScoreRecord to SchoolScore for Parquet export.
func ConvertSchoolScoreRecords(records []schema.SchoolScoreRecord) []SchoolScore {
	result := make([]SchoolScore, len(records))
	for i, record := range records {
		result[i] = SchoolScore{
			RunID:        record.RunID,
			RankPosition: record.RankPosition,
			SchoolID:     record.SchoolID,
			SchoolName:   record.SchoolName,
			RankedAt:     record.RankedAt,
			Score:        record.Score,
			ScoreLabel:   record.ScoreLabel,
			Status:       record.Status,
			Cost:         record.Cost,
			Education:    record.Education,
			Staff:        record.Staff,
			Facilities:   record.Facilities,
			Reputation:   record.Reputation,
			NQS:          record.NQS,
		}
	}
	return result
}

// ConvertRankedSchools converts a ranking into Parquet rows.
func ConvertRankedSchools(ranked []schema.ScoredSchool) []RankedSchool {
	result := make([]RankedSchool, len(ranked))
	for i, s := range ranked {
		result[i] = RankedSchool{
			Rank:       int32(s.Rank),
			SchoolID:   int64(s.ID),
			Name:       s.Name,
			Score:      s.Score,
			Label:      schema.GetPlainLabel(s.Score),
			Status:     string(s.Status),
			Address:    s.Address,
			Lat:        s.Lat,
			Lng:        s.Lng,
			Cost:       ratingPtr(s.Cost),
			Education:  ratingPtr(s.Education),
			Staff:      ratingPtr(s.Staff),
			Facilities: ratingPtr(s.Facilities),
			Reputation: ratingPtr(s.Reputation),
			NQS:        ratingPtr(s.NQS),
		}
	}
	return result
}

// ratingPtr returns nil for invalid ratings so they are written as nulls.
func ratingPtr(r schema.Rating) *float64 {
	if !r.Valid() {
		return nil
	}
	v := float64(r)
	return &v
}
