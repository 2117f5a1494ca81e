package outwriter

import (
	"cmp"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"slices"
	"strconv"
	"strings"

	"github.com/elcfinder/elcfinder/internal/contract"
	"github.com/elcfinder/elcfinder/internal/parquet"
	"github.com/elcfinder/elcfinder/schema"
)

// ErrParquetUnsupported is returned by views that have no tabular parquet shape.
var ErrParquetUnsupported = errors.New("parquet output is not supported for this view")

// writeWithFile handles the common pattern of opening a file, writing to it, and cleaning up.
// It accepts a writer function that takes an io.Writer and returns an error.
func writeWithFile(outputFile string, writer func(io.Writer) error, successMsg string) error {
	file, err := contract.SelectOutputFile(outputFile)
	if err != nil {
		return err
	}
	// Only close if it's not stdout
	if file != os.Stdout {
		defer func() { _ = file.Close() }()
	}

	if err := writer(file); err != nil {
		return err
	}

	if file != os.Stdout {
		fmt.Fprintf(os.Stderr, "💾 %s to %s\n", successMsg, outputFile)
	}
	return nil
}

// writeParquetRows writes rows to a parquet file. Parquet always needs a real file.
func writeParquetRows[T any](rows []T, outputFile string) error {
	if outputFile == "" {
		return errors.New("parquet output requires --output-file")
	}
	if err := parquet.WriteFile(rows, outputFile); err != nil {
		return err
	}
	fmt.Fprintf(os.Stderr, "💾 Wrote parquet to %s\n", outputFile)
	return nil
}

// writeJSON is a generic JSON encoder that handles indentation consistently.
func writeJSON(w io.Writer, data any) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(data); err != nil {
		return fmt.Errorf("failed to encode JSON: %w", err)
	}
	return nil
}

// writeCSVWithHeader handles the common pattern of creating a CSV writer,
// writing a header, and writing data rows.
func writeCSVWithHeader(w io.Writer, header []string, writeRows func(*csv.Writer) error) error {
	csvWriter := csv.NewWriter(w)
	defer csvWriter.Flush()

	if err := csvWriter.Write(header); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}

	if err := writeRows(csvWriter); err != nil {
		return err
	}

	csvWriter.Flush()
	return csvWriter.Error()
}

// createFormatters creates the common formatter closures used across multiple output types.
func createFormatters(precision int) (fmtFloat func(float64) string, intFmt string) {
	numFmt := "%.*f"
	intFmt = "%d"
	fmtFloat = func(v float64) string {
		return fmt.Sprintf(numFmt, precision, v)
	}
	return fmtFloat, intFmt
}

// csvRating formats a rating for CSV. Invalid ratings become an empty cell.
func csvRating(r schema.Rating, precision int) string {
	if !r.Valid() {
		return ""
	}
	return strconv.FormatFloat(float64(r), 'f', precision, 64)
}

// ratingCells formats the six criterion ratings in display order.
func ratingCells(s schema.School, format func(schema.Rating) string) []string {
	cells := make([]string, len(schema.AllCriteria))
	for i, c := range schema.AllCriteria {
		cells[i] = format(schema.Rating(s.Rating(c)))
	}
	return cells
}

// ratingHeaders returns the criterion labels in display order.
func ratingHeaders() []string {
	headers := make([]string, len(schema.AllCriteria))
	for i, c := range schema.AllCriteria {
		headers[i] = schema.CriterionLabel(c)
	}
	return headers
}

// criterionKeys returns the criterion keys in display order.
func criterionKeys() []string {
	keys := make([]string, len(schema.AllCriteria))
	for i, c := range schema.AllCriteria {
		keys[i] = string(c)
	}
	return keys
}

// contribution is one criterion's share of a school's score.
type contribution struct {
	criterion schema.Criterion
	value     float64
}

const (
	contribMinimum = 0.5
	topNCriteria   = 3
)

// formatTopContributors names the criteria that contribute most to the score.
func formatTopContributors(s schema.ScoredSchool) string {
	var parts []contribution
	for c, v := range s.Breakdown {
		if v >= contribMinimum {
			parts = append(parts, contribution{criterion: c, value: v})
		}
	}
	if len(parts) == 0 {
		return "Not applicable"
	}

	// Ties fall back to the fixed criterion order so output is stable.
	slices.SortFunc(parts, func(a, b contribution) int {
		if c := cmp.Compare(b.value, a.value); c != 0 {
			return c
		}
		return cmp.Compare(slices.Index(schema.AllCriteria, a.criterion), slices.Index(schema.AllCriteria, b.criterion))
	})

	limit := min(len(parts), topNCriteria)
	names := make([]string, limit)
	for i := range limit {
		names[i] = string(parts[i].criterion)
	}
	return strings.Join(names, " > ")
}

// formatWeights renders weights as "cost=5, education=5, ..." in display order.
func formatWeights(weights schema.Weights) string {
	normalized := weights.Normalized()
	parts := make([]string, len(schema.AllCriteria))
	for i, c := range schema.AllCriteria {
		parts[i] = fmt.Sprintf("%s=%g", c, normalized[c])
	}
	return strings.Join(parts, ", ")
}
