package outwriter

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/elcfinder/elcfinder/internal/contract"
	"github.com/elcfinder/elcfinder/internal/parquet"
	"github.com/elcfinder/elcfinder/schema"
	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
)

// WriteRankings outputs the ranked schools, dispatching based on the output format configured.
func WriteRankings(ranked []schema.ScoredSchool, cfg *contract.Config, duration time.Duration) error {
	fmtFloat, intFmt := createFormatters(cfg.Precision)

	switch cfg.Output {
	case schema.JSONOut:
		if err := writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeRankingsJSON(w, ranked)
		}, "Wrote JSON"); err != nil {
			return fmt.Errorf("error writing JSON output: %w", err)
		}
	case schema.CSVOut:
		if err := writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeRankingsCSV(w, ranked, cfg.Precision, fmtFloat, intFmt)
		}, "Wrote CSV"); err != nil {
			return fmt.Errorf("error writing CSV output: %w", err)
		}
	case schema.ParquetOut:
		if err := writeParquetRows(parquet.ConvertRankedSchools(ranked), cfg.OutputFile); err != nil {
			return fmt.Errorf("error writing parquet output: %w", err)
		}
	default:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeRankingsTable(w, ranked, cfg, fmtFloat, intFmt, duration)
		}, "Wrote table")
	}
	return nil
}

// writeRankingsTable generates and writes the human-readable table.
func writeRankingsTable(w io.Writer, ranked []schema.ScoredSchool, cfg *contract.Config, fmtFloat func(float64) string, intFmt string, duration time.Duration) error {
	if len(ranked) == 0 {
		_, err := fmt.Fprintln(w, "No schools available.")
		return err
	}

	pairwise := cfg.TieBreak == schema.PairwiseTieBreak
	table := tablewriter.NewWriter(w)

	// 1. Define Headers
	headers := []string{"Rank", "Name", "Score", "Label", "Status"}
	if cfg.Detail {
		headers = append(headers, "Address")
		headers = append(headers, ratingHeaders()...)
	}
	if pairwise {
		headers = append(headers, "Wins")
	}
	if cfg.Explain {
		headers = append(headers, "Explain")
	}
	table.Header(headers)

	// 2. Configure alignment
	table.Configure(func(cfg *tablewriter.Config) {
		cfg.Row.Alignment.Global = tw.AlignRight
	})

	// 3. Populate Rows
	nameWidth := getMaxTableNameWidth(cfg)
	formatRating := func(r schema.Rating) string { return schema.FormatRating(r, cfg.Precision) }
	data := make([][]string, 0, len(ranked))
	for _, s := range ranked {
		row := []string{
			fmt.Sprintf(intFmt, s.Rank),
			contract.TruncateName(s.Name, nameWidth),
			fmtFloat(s.Score),
			contract.GetColorLabel(s.Score),
			contract.StatusBadge(s.Status, cfg.UseColors),
		}
		if cfg.Detail {
			row = append(row, contract.TruncateName(s.Address, detailAddressWidth))
			row = append(row, ratingCells(s.School, formatRating)...)
		}
		if pairwise {
			row = append(row, fmt.Sprintf(intFmt, s.PairwiseWins))
		}
		if cfg.Explain {
			row = append(row, formatTopContributors(s))
		}
		data = append(data, row)
	}

	// 4. Render the table
	if err := table.Bulk(data); err != nil {
		return err
	}
	if err := table.Render(); err != nil {
		return err
	}

	tieBreak := cfg.TieBreak
	if tieBreak == "" {
		tieBreak = schema.InputOrderTieBreak
	}
	if _, err := fmt.Fprintf(w, "Showing top %d schools (tie-break: %s)\n", len(ranked), tieBreak); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "Ranking completed in %v. Cache backend: %s\n", duration, cfg.CacheBackend); err != nil {
		return err
	}
	return nil
}

// rankingsCSVHeader lists the CSV columns for ranked schools.
func rankingsCSVHeader() []string {
	header := []string{"rank", "id", "name", "score", "label", "status", "address", "lat", "lng"}
	header = append(header, criterionKeys()...)
	return append(header, "fee_per_day", "pairwise_wins")
}

// writeRankingsCSV writes the ranked schools in CSV format.
func writeRankingsCSV(w io.Writer, ranked []schema.ScoredSchool, precision int, fmtFloat func(float64) string, intFmt string) error {
	formatRating := func(r schema.Rating) string { return csvRating(r, precision) }
	return writeCSVWithHeader(w, rankingsCSVHeader(), func(cw *csv.Writer) error {
		for _, s := range ranked {
			rec := []string{
				fmt.Sprintf(intFmt, s.Rank),
				fmt.Sprintf(intFmt, s.ID),
				s.Name,
				fmtFloat(s.Score),
				schema.GetPlainLabel(s.Score),
				string(s.Status),
				s.Address,
				strconv.FormatFloat(s.Lat, 'f', -1, 64),
				strconv.FormatFloat(s.Lng, 'f', -1, 64),
			}
			rec = append(rec, ratingCells(s.School, formatRating)...)
			rec = append(rec, fmtFloat(s.FeePerDay), fmt.Sprintf(intFmt, s.PairwiseWins))
			if err := cw.Write(rec); err != nil {
				return err
			}
		}
		return nil
	})
}

// writeRankingsJSON writes the ranked schools with label, strengths and summary.
func writeRankingsJSON(w io.Writer, ranked []schema.ScoredSchool) error {
	return writeJSON(w, schema.EnrichSchools(ranked))
}
