package iocache

import (
	"errors"
	"fmt"
	"io"

	"github.com/elcfinder/elcfinder/internal/contract"
	"github.com/elcfinder/elcfinder/internal/parquet"
)

// ExecuteHistoryExport writes every recorded run and school score to a pair of Parquet files
// named after outputFile.
func ExecuteHistoryExport(w io.Writer, store contract.HistoryStore, outputFile string) error {
	if outputFile == "" {
		return errors.New("--output-file is required for export command")
	}
	if store == nil {
		return errors.New("history tracking is disabled")
	}

	status, err := store.GetStatus()
	if err != nil {
		return fmt.Errorf("failed to get history status: %w", err)
	}
	if status.TotalRuns == 0 {
		return errors.New("no ranking history found to export")
	}

	_, _ = fmt.Fprintf(w, "Exporting data from %s backend...\n", status.Backend)
	_, _ = fmt.Fprintf(w, "Total ranking runs: %d\n", status.TotalRuns)
	_, _ = fmt.Fprintf(w, "Total school records: %d\n", status.TableSizes[schoolScoresTable])

	runs, err := store.GetAllRuns()
	if err != nil {
		return fmt.Errorf("failed to retrieve ranking runs: %w", err)
	}
	scores, err := store.GetAllSchoolScores()
	if err != nil {
		return fmt.Errorf("failed to retrieve school scores: %w", err)
	}

	parquetRuns := parquet.ConvertRankingRunRecords(runs)
	parquetScores := parquet.ConvertSchoolScoreRecords(scores)

	runsFile := outputFile + ".ranking_runs.parquet"
	if err := parquet.WriteRankingRunsParquet(parquetRuns, runsFile); err != nil {
		return fmt.Errorf("failed to write ranking runs: %w", err)
	}
	_, _ = fmt.Fprintf(w, "Exported %d ranking runs to: %s\n", len(parquetRuns), runsFile)

	scoresFile := outputFile + ".school_scores.parquet"
	if err := parquet.WriteSchoolScoresParquet(parquetScores, scoresFile); err != nil {
		return fmt.Errorf("failed to write school scores: %w", err)
	}
	_, _ = fmt.Fprintf(w, "Exported %d school score records to: %s\n", len(parquetScores), scoresFile)

	_, _ = fmt.Fprintln(w, "\nExport complete! The Parquet files can be read with DuckDB, Pandas or Spark.")
	return nil
}
