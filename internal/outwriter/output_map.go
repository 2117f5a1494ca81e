package outwriter

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/elcfinder/elcfinder/internal/contract"
	"github.com/elcfinder/elcfinder/schema"
	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
)

// WriteMap outputs the map markers for the ranked schools.
func WriteMap(markers []schema.MapMarker, cfg *contract.Config) error {
	fmtFloat, intFmt := createFormatters(cfg.Precision)

	switch cfg.Output {
	case schema.JSONOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeJSON(w, markers)
		}, "Wrote JSON")
	case schema.CSVOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeMapCSV(w, markers, fmtFloat, intFmt)
		}, "Wrote CSV")
	case schema.ParquetOut:
		return writeParquetRows(markers, cfg.OutputFile)
	default:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeMapTable(w, markers, cfg, fmtFloat, intFmt)
		}, "Wrote table")
	}
}

// formatCoordinate renders a latitude or longitude with fixed precision.
func formatCoordinate(v float64) string {
	return strconv.FormatFloat(v, 'f', 5, 64)
}

// markerScore renders an optional marker score.
func markerScore(m schema.MapMarker, fmtFloat func(float64) string) string {
	if m.Score == nil {
		return "-"
	}
	return fmtFloat(*m.Score)
}

// writeMapTable renders the markers as a table.
func writeMapTable(w io.Writer, markers []schema.MapMarker, cfg *contract.Config, fmtFloat func(float64) string, intFmt string) error {
	if len(markers) == 0 {
		_, err := fmt.Fprintln(w, "No schools to map.")
		return err
	}

	table := tablewriter.NewWriter(w)
	table.Header([]string{"ID", "Name", "Address", "Lat", "Lng", "Score"})
	table.Configure(func(cfg *tablewriter.Config) {
		cfg.Row.Alignment.Global = tw.AlignRight
	})

	nameWidth := getMaxTableNameWidth(cfg)
	data := make([][]string, 0, len(markers))
	for _, m := range markers {
		data = append(data, []string{
			fmt.Sprintf(intFmt, m.ID),
			contract.TruncateName(m.Name, nameWidth),
			contract.TruncateName(m.Address, detailAddressWidth),
			formatCoordinate(m.Lat),
			formatCoordinate(m.Lng),
			markerScore(m, fmtFloat),
		})
	}

	if err := table.Bulk(data); err != nil {
		return err
	}
	if err := table.Render(); err != nil {
		return err
	}
	_, err := fmt.Fprintf(w, "Showing %d markers\n", len(markers))
	return err
}

// writeMapCSV writes the markers in CSV format. Unscored markers leave the score empty.
func writeMapCSV(w io.Writer, markers []schema.MapMarker, fmtFloat func(float64) string, intFmt string) error {
	return writeCSVWithHeader(w, []string{"id", "name", "address", "lat", "lng", "score"}, func(cw *csv.Writer) error {
		for _, m := range markers {
			score := ""
			if m.Score != nil {
				score = fmtFloat(*m.Score)
			}
			rec := []string{
				fmt.Sprintf(intFmt, m.ID),
				m.Name,
				m.Address,
				strconv.FormatFloat(m.Lat, 'f', -1, 64),
				strconv.FormatFloat(m.Lng, 'f', -1, 64),
				score,
			}
			if err := cw.Write(rec); err != nil {
				return err
			}
		}
		return nil
	})
}
