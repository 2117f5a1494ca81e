package outwriter

import (
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"strings"
	"unicode/utf8"

	"github.com/elcfinder/elcfinder/internal/contract"
	"github.com/elcfinder/elcfinder/schema"
)

const (
	chartBarWidth = 30
	chartMaxScore = 10.0
)

// WriteChart outputs the ranking as bar chart points.
func WriteChart(points []schema.ChartPoint, cfg *contract.Config) error {
	fmtFloat, _ := createFormatters(cfg.Precision)

	switch cfg.Output {
	case schema.JSONOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeJSON(w, points)
		}, "Wrote JSON")
	case schema.CSVOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeChartCSV(w, points, fmtFloat)
		}, "Wrote CSV")
	case schema.ParquetOut:
		return writeParquetRows(points, cfg.OutputFile)
	default:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeChartText(w, points, getMaxTableNameWidth(cfg), fmtFloat)
		}, "Wrote chart")
	}
}

// writeChartText renders one horizontal bar per school.
func writeChartText(w io.Writer, points []schema.ChartPoint, maxWidth int, fmtFloat func(float64) string) error {
	if len(points) == 0 {
		_, err := fmt.Fprintln(w, "No schools to chart.")
		return err
	}

	names := make([]string, len(points))
	width := 0
	for i, p := range points {
		names[i] = contract.TruncateName(p.Name, maxWidth)
		width = max(width, utf8.RuneCountInString(names[i]))
	}

	for i, p := range points {
		if _, err := fmt.Fprintf(w, "%-*s  %s %s\n", width, names[i], chartBar(p.Score, chartBarWidth), fmtFloat(p.Score)); err != nil {
			return err
		}
	}
	return nil
}

// chartBar draws a bar for a score on the 0-10 scale.
func chartBar(score float64, width int) string {
	filled := 0
	if !math.IsNaN(score) {
		filled = int(math.Round(score * float64(width) / chartMaxScore))
	}
	filled = max(0, min(width, filled))
	return strings.Repeat("█", filled) + strings.Repeat("░", width-filled)
}

// writeChartCSV writes the chart points in CSV format.
func writeChartCSV(w io.Writer, points []schema.ChartPoint, fmtFloat func(float64) string) error {
	return writeCSVWithHeader(w, []string{"name", "score"}, func(cw *csv.Writer) error {
		for _, p := range points {
			if err := cw.Write([]string{p.Name, fmtFloat(p.Score)}); err != nil {
				return err
			}
		}
		return nil
	})
}
