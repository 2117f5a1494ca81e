// Package core has core logic for loading, scoring and ranking schools.
package core

import (
	"context"
	"time"

	"github.com/elcfinder/elcfinder/core/algo"
	"github.com/elcfinder/elcfinder/internal/contract"
	"github.com/elcfinder/elcfinder/internal/ingest"
	"github.com/elcfinder/elcfinder/internal/outwriter"
	"github.com/elcfinder/elcfinder/schema"
)

// ExecutorFunc defines the function signature for executing the different views.
type ExecutorFunc func(ctx context.Context, cfg *contract.Config, mgr contract.StoreManager) error

// ExecuteRank ranks the schools and prints them as a table, card list or export.
// It serves as the main entry point for the 'rank' command.
func ExecuteRank(ctx context.Context, cfg *contract.Config, mgr contract.StoreManager) error {
	start := time.Now()
	ranked := GetRankingResults(ctx, cfg, mgr)
	duration := time.Since(start)
	if cfg.Cards {
		return outwriter.WriteCards(ranked, cfg)
	}
	return outwriter.WriteRankings(ranked, cfg, duration)
}

// ExecuteChart prints the ranking as chart bars.
func ExecuteChart(ctx context.Context, cfg *contract.Config, mgr contract.StoreManager) error {
	ranked := GetRankingResults(ctx, cfg, mgr)
	return outwriter.WriteChart(algo.ChartPoints(ranked), cfg)
}

// ExecuteMap prints the ranking as map markers.
func ExecuteMap(ctx context.Context, cfg *contract.Config, mgr contract.StoreManager) error {
	ranked := GetRankingResults(ctx, cfg, mgr)
	return outwriter.WriteMap(algo.MapMarkers(ranked), cfg)
}

// ExecuteInsight prints the one-sentence insight about the top-ranked school.
func ExecuteInsight(ctx context.Context, cfg *contract.Config, mgr contract.StoreManager) error {
	ranked := GetRankingResults(ctx, cfg, mgr)
	return outwriter.WriteInsight(algo.BuildInsight(ranked, cfg.Weights, insightFromContext(ctx)), cfg)
}

// ExecuteCriteria prints every criterion with its active weight.
// This is a static display that does not load any schools.
func ExecuteCriteria(_ context.Context, cfg *contract.Config, _ contract.StoreManager) error {
	return outwriter.WriteCriteria(algo.BuildCriteriaModel(cfg.Weights), cfg)
}

// NewSource builds the school source for the configured location, using the
// manager's source cache when one is available.
func NewSource(cfg *contract.Config, mgr contract.StoreManager) *ingest.Loader {
	var cache contract.SourceCache
	if mgr != nil {
		cache = mgr.GetSourceCache()
	}
	return ingest.NewLoader(cfg.Source, ingest.OptionsFromConfig(cfg), cache)
}

// LoadSchools loads the schools from source. Any load failure is reported as a
// warning and treated as an empty list.
func LoadSchools(ctx context.Context, source contract.SchoolSource) []schema.School {
	schools, err := source.Load(ctx)
	if err != nil {
		contract.LogWarn("Failed to load schools from "+source.Describe(), err)
		return nil
	}
	return schools
}

// GetRankingResults loads and ranks the schools, recording the run in the
// history store when history tracking is enabled.
func GetRankingResults(ctx context.Context, cfg *contract.Config, mgr contract.StoreManager) []schema.ScoredSchool {
	start := time.Now()
	schools := LoadSchools(ctx, NewSource(cfg, mgr))
	ranked := algo.RankSchools(schools, cfg.Weights, cfg.TieBreak, cfg.ResultLimit)

	if mgr != nil && !shouldSkipHistory(ctx) {
		if history := mgr.GetHistoryStore(); history != nil {
			recordRun(history, cfg, start, ranked)
		}
	}
	return ranked
}

// recordRun stores a ranking run. Failures only produce warnings.
func recordRun(history contract.HistoryStore, cfg *contract.Config, start time.Time, ranked []schema.ScoredSchool) {
	runID, err := history.BeginRun(start, cfg.RunParams())
	if err != nil {
		contract.LogWarn("Failed to begin history run", err)
		return
	}
	for _, s := range ranked {
		if err := history.RecordSchoolScore(runID, s); err != nil {
			contract.LogWarn("Failed to record school score", err)
		}
	}
	if err := history.EndRun(runID, time.Now(), len(ranked)); err != nil {
		contract.LogWarn("Failed to end history run", err)
	}
}
