package outwriter

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"github.com/elcfinder/elcfinder/internal/contract"
	"github.com/elcfinder/elcfinder/schema"
	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
)

// WriteCriteria displays every criterion with its active weight.
// This is a static display that does not load any schools.
func WriteCriteria(model *schema.CriteriaRenderModel, cfg *contract.Config) error {
	switch cfg.Output {
	case schema.JSONOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeJSON(w, model)
		}, "Wrote JSON")
	case schema.CSVOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeCriteriaCSV(w, model)
		}, "Wrote CSV")
	case schema.ParquetOut:
		return fmt.Errorf("criteria: %w", ErrParquetUnsupported)
	default:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeCriteriaText(w, model)
		}, "Wrote text")
	}
}

// writeCriteriaText displays criteria in human-readable text format.
func writeCriteriaText(w io.Writer, model *schema.CriteriaRenderModel) error {
	title := "🏫 " + model.Title
	if _, err := fmt.Fprintf(w, "%s\n%s\n\n%s\n\n", title, strings.Repeat("=", len(model.Title)+3), model.Description); err != nil {
		return err
	}

	table := tablewriter.NewWriter(w)
	table.Header([]string{"Criterion", "Weight", "Share", "Description"})
	table.Configure(func(cfg *tablewriter.Config) {
		cfg.Row.Alignment.Global = tw.AlignLeft
	})

	data := make([][]string, 0, len(model.Criteria))
	for _, c := range model.Criteria {
		data = append(data, []string{
			c.Label,
			fmt.Sprintf("%g", c.Weight),
			fmt.Sprintf("%.1f%%", c.Share),
			c.Description,
		})
	}
	if err := table.Bulk(data); err != nil {
		return err
	}
	if err := table.Render(); err != nil {
		return err
	}

	if _, err := fmt.Fprintf(w, "\nFormula: Score = %s\n", model.Formula); err != nil {
		return err
	}
	_, err := fmt.Fprintf(w, "Total weight: %g\n", model.TotalWeight)
	return err
}

// writeCriteriaCSV writes one CSV row per criterion.
func writeCriteriaCSV(w io.Writer, model *schema.CriteriaRenderModel) error {
	header := []string{"criterion", "label", "weight", "share", "description"}
	return writeCSVWithHeader(w, header, func(cw *csv.Writer) error {
		for _, c := range model.Criteria {
			rec := []string{
				string(c.Key),
				c.Label,
				fmt.Sprintf("%g", c.Weight),
				fmt.Sprintf("%.2f", c.Share),
				c.Description,
			}
			if err := cw.Write(rec); err != nil {
				return err
			}
		}
		return nil
	})
}
