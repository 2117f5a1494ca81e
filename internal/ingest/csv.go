package ingest

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/elcfinder/elcfinder/internal/contract"
	"github.com/elcfinder/elcfinder/schema"
)

// DecodeCSV reads a CSV export with a header row. Rows without a name or an
// address are skipped with a warning.
func DecodeCSV(r io.Reader, policy schema.MissingRatings) ([]schema.School, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, errors.New("CSV input has no header row")
		}
		return nil, fmt.Errorf("failed to read CSV header: %w", err)
	}
	for i := range header {
		header[i] = strings.ToLower(strings.TrimSpace(header[i]))
	}

	var schools []schema.School
	for line := 2; ; line++ {
		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read CSV row %d: %w", line, err)
		}

		record := make(map[string]any, len(header))
		for i, key := range header {
			if key == "" || i >= len(row) {
				continue
			}
			if value := strings.TrimSpace(row[i]); value != "" {
				record[key] = value
			}
		}

		s := NormalizeRecord(record, len(schools)+1, policy)
		if s.Name == schema.UnnamedSchool || s.Address == schema.NoAddressProvided {
			contract.LogWarn(fmt.Sprintf("Skipping CSV row %d", line), errors.New("missing name or address"))
			continue
		}
		schools = append(schools, s)
	}
	return schools, nil
}

// Convert reads a CSV export and writes the normalized schools as a JSON array.
// It returns the number of schools written.
func Convert(r io.Reader, w io.Writer, policy schema.MissingRatings) (int, error) {
	schools, err := DecodeCSV(r, policy)
	if err != nil {
		return 0, err
	}
	if schools == nil {
		schools = []schema.School{}
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(schools); err != nil {
		return 0, fmt.Errorf("failed to write JSON output: %w", err)
	}
	return len(schools), nil
}
