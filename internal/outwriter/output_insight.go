package outwriter

import (
	"encoding/csv"
	"fmt"
	"io"

	"github.com/elcfinder/elcfinder/internal/contract"
	"github.com/elcfinder/elcfinder/schema"
)

// WriteInsight outputs the insight about the top-ranked school.
func WriteInsight(insight schema.Insight, cfg *contract.Config) error {
	fmtFloat, intFmt := createFormatters(cfg.Precision)

	switch cfg.Output {
	case schema.JSONOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeJSON(w, insight)
		}, "Wrote JSON")
	case schema.CSVOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeInsightCSV(w, insight, fmtFloat, intFmt)
		}, "Wrote CSV")
	case schema.ParquetOut:
		return fmt.Errorf("insight: %w", ErrParquetUnsupported)
	default:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeInsightText(w, insight, fmtFloat)
		}, "Wrote insight")
	}
}

// writeInsightText prints the insight sentence followed by its context.
func writeInsightText(w io.Writer, insight schema.Insight, fmtFloat func(float64) string) error {
	if _, err := fmt.Fprintf(w, "💡 %s\n", insight.Text); err != nil {
		return err
	}
	if insight.Top != nil {
		top := insight.Top
		if _, err := fmt.Fprintf(w, "   Top school: %s (score %s, %s)\n", top.Name, fmtFloat(top.Score), contract.GetColorLabel(top.Score)); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintf(w, "   Weights: %s\n", formatWeights(insight.Weights))
	return err
}

// writeInsightCSV writes the insight as a single CSV row.
func writeInsightCSV(w io.Writer, insight schema.Insight, fmtFloat func(float64) string, intFmt string) error {
	return writeCSVWithHeader(w, []string{"insight", "top_id", "top_name", "top_score"}, func(cw *csv.Writer) error {
		rec := []string{insight.Text, "", "", ""}
		if insight.Top != nil {
			rec[1] = fmt.Sprintf(intFmt, insight.Top.ID)
			rec[2] = insight.Top.Name
			rec[3] = fmtFloat(insight.Top.Score)
		}
		return cw.Write(rec)
	})
}
