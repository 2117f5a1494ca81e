//go:build basic

// Package integration contains integration tests for elcfinder.
// These tests are excluded from normal test runs due to build tags.
// To run these tests: go test -tags basic ./integration
package integration

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const exampleSource = "examples/schools.json"

var criteria = []string{"cost", "education", "staff", "facilities", "reputation", "nqs"}

// rankedRow is the subset of the JSON ranking output the checks need.
type rankedRow struct {
	ID    int     `json:"id"`
	Name  string  `json:"name"`
	Score float64 `json:"score"`
	Rank  int     `json:"rank"`
	Label string  `json:"label"`
}

// loadRawRatings reads the example file and returns each school's ratings by ID.
// Non-numeric ratings count as zero.
func loadRawRatings(t *testing.T) map[int]map[string]float64 {
	t.Helper()
	data, err := os.ReadFile(filepath.Join("..", exampleSource))
	require.NoError(t, err)

	var records []map[string]any
	require.NoError(t, json.Unmarshal(data, &records))

	ratings := make(map[int]map[string]float64, len(records))
	for _, rec := range records {
		id := int(rec["id"].(float64))
		ratings[id] = make(map[string]float64, len(criteria))
		for _, c := range criteria {
			if v, ok := rec[c].(float64); ok {
				ratings[id][c] = v
			}
		}
	}
	return ratings
}

func rankJSON(t *testing.T, args ...string) []rankedRow {
	t.Helper()
	base := []string{"rank", exampleSource, "--output", "json", "--cache-backend", "none"}
	out, err := runCommand(t, append(base, args...)...)
	require.NoError(t, err)

	var rows []rankedRow
	require.NoError(t, json.Unmarshal([]byte(out), &rows))
	return rows
}

// TestRankVerification recomputes every weighted average from the raw file.
func TestRankVerification(t *testing.T) {
	tests := []struct {
		name     string
		override string
		weights  map[string]float64
	}{
		{
			name:    "default weights",
			weights: map[string]float64{"cost": 5, "education": 5, "staff": 5, "facilities": 5, "reputation": 5, "nqs": 5},
		},
		{
			name:     "cost focused",
			override: "cost:10,reputation:0,staff:2",
			weights:  map[string]float64{"cost": 10, "education": 5, "staff": 2, "facilities": 5, "reputation": 0, "nqs": 5},
		},
	}

	ratings := loadRawRatings(t)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var args []string
			if tt.override != "" {
				args = append(args, "--weights-override", tt.override)
			}
			rows := rankJSON(t, args...)
			require.Len(t, rows, len(ratings))

			var total float64
			for _, w := range tt.weights {
				total += w
			}
			for i, row := range rows {
				var sum float64
				for c, w := range tt.weights {
					sum += ratings[row.ID][c] * w
				}
				assert.InDelta(t, sum/total, row.Score, 1e-9, "score mismatch for %s", row.Name)
				assert.Equal(t, i+1, row.Rank)
				if i > 0 {
					assert.LessOrEqual(t, row.Score, rows[i-1].Score, "ranking is not descending at %s", row.Name)
				}
			}
		})
	}
}

// TestRankTieBreakInputOrder checks that equal scores keep file order.
func TestRankTieBreakInputOrder(t *testing.T) {
	rows := rankJSON(t)
	require.GreaterOrEqual(t, len(rows), 2)

	// Little Acorns (id 1) and Wattle Tree (id 4) both average 49/6
	assert.Equal(t, 1, rows[0].ID)
	assert.Equal(t, 4, rows[1].ID)
	assert.InDelta(t, rows[0].Score, rows[1].Score, 1e-12)
	assert.Equal(t, "Excellent", rows[0].Label)
}

// TestConvertRoundTrip converts the CSV fixture and ranks the result.
func TestConvertRoundTrip(t *testing.T) {
	jsonPath := filepath.Join(t.TempDir(), "schools.json")
	_, err := runCommand(t, "convert", "internal/ingest/testdata/schools.csv", "--output-file", jsonPath)
	require.NoError(t, err)

	data, err := os.ReadFile(jsonPath)
	require.NoError(t, err)
	var schools []map[string]any
	require.NoError(t, json.Unmarshal(data, &schools))
	assert.NotEmpty(t, schools)

	out, err := runCommand(t, "rank", jsonPath, "--output", "json", "--cache-backend", "none")
	require.NoError(t, err)
	var rows []rankedRow
	require.NoError(t, json.Unmarshal([]byte(out), &rows))
	assert.Len(t, rows, len(schools))
}

// TestCriteriaCommand checks the static criteria view reflects overrides.
func TestCriteriaCommand(t *testing.T) {
	out, err := runCommand(t, "criteria", "--weights-override", "nqs:10", "--color", "no", "--cache-backend", "none")
	require.NoError(t, err)
	assert.Contains(t, out, "Formula: Score =")
	assert.Contains(t, out, "Total weight: 35")
}
