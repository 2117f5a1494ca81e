package outwriter

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/elcfinder/elcfinder/core/algo"
	"github.com/elcfinder/elcfinder/internal/parquet"
	"github.com/elcfinder/elcfinder/schema"
	pq "github.com/parquet-go/parquet-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteRankingsTable(t *testing.T) {
	disableColors(t)
	cfg := testConfig(schema.TextOut)

	var buf bytes.Buffer
	fmtFloat, intFmt := createFormatters(cfg.Precision)
	require.NoError(t, writeRankingsTable(&buf, sampleRanked(), cfg, fmtFloat, intFmt, 1500*time.Millisecond))

	out := buf.String()
	assert.Contains(t, out, "Little Acorns ELC")
	assert.Contains(t, out, "8.50")
	assert.Contains(t, out, "Excellent")
	assert.Contains(t, out, "[Requested]")
	assert.Contains(t, out, "Wattle Tree Kinder")
	assert.Contains(t, out, "Fair")
	assert.NotContains(t, out, "12 Oak Street", "address only shows in detail mode")
	assert.Contains(t, out, "Showing top 2 schools (tie-break: input)")
	assert.Contains(t, out, "Ranking completed in 1.5s. Cache backend: sqlite")
}

func TestWriteRankingsTable_DetailExplainPairwise(t *testing.T) {
	disableColors(t)
	cfg := testConfig(schema.TextOut)
	cfg.Detail = true
	cfg.Explain = true
	cfg.TieBreak = schema.PairwiseTieBreak
	ranked := algo.RankSchools(sampleSchools(), cfg.Weights, cfg.TieBreak, 0)

	var buf bytes.Buffer
	fmtFloat, intFmt := createFormatters(cfg.Precision)
	require.NoError(t, writeRankingsTable(&buf, ranked, cfg, fmtFloat, intFmt, time.Second))

	out := buf.String()
	assert.Contains(t, out, "12 Oak Street")
	assert.Contains(t, out, "n/a", "invalid ratings render as n/a")
	assert.Contains(t, out, " > ", "explain column lists top contributors")
	assert.Contains(t, out, "tie-break: pairwise")
}

func TestWriteRankingsTable_Empty(t *testing.T) {
	var buf bytes.Buffer
	fmtFloat, intFmt := createFormatters(2)
	require.NoError(t, writeRankingsTable(&buf, nil, testConfig(schema.TextOut), fmtFloat, intFmt, 0))
	assert.Equal(t, "No schools available.\n", buf.String())
}

func TestWriteRankingsCSV(t *testing.T) {
	var buf bytes.Buffer
	fmtFloat, intFmt := createFormatters(2)
	require.NoError(t, writeRankingsCSV(&buf, sampleRanked(), 2, fmtFloat, intFmt))

	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 3)

	header := records[0]
	assert.Equal(t, rankingsCSVHeader(), header)
	assert.Equal(t, []string{"1", "1", "Little Acorns ELC", "8.50", "Excellent", "Requested"}, records[1][:6])
	assert.Equal(t, "-37.8001", records[1][7])
	assert.Equal(t, "142.50", records[1][15])

	staffIdx := 9 + 2 // cost, education, staff
	assert.Equal(t, "staff", header[staffIdx])
	assert.Empty(t, records[2][staffIdx], "invalid ratings are empty cells")
}

func TestWriteRankingsJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, writeRankingsJSON(&buf, sampleRanked()))

	var result []map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &result))
	require.Len(t, result, 2)

	assert.Equal(t, float64(1), result[0]["rank"])
	assert.Equal(t, "Little Acorns ELC", result[0]["name"])
	assert.Equal(t, "Excellent", result[0]["label"])
	assert.Equal(t, "Requested", result[0]["status"])
	assert.Contains(t, result[0]["strengths"], "Particularly strong in")
	assert.Contains(t, result[0]["summary"], "12 Oak Street, Carlton")
	assert.Nil(t, result[1]["staff"], "invalid ratings encode as null")
}

func TestWriteRankings_Files(t *testing.T) {
	dir := t.TempDir()

	t.Run("json", func(t *testing.T) {
		cfg := testConfig(schema.JSONOut)
		cfg.OutputFile = filepath.Join(dir, "rank.json")
		require.NoError(t, WriteRankings(sampleRanked(), cfg, 0))

		data, err := os.ReadFile(cfg.OutputFile)
		require.NoError(t, err)
		assert.Contains(t, string(data), `"Little Acorns ELC"`)
	})

	t.Run("csv", func(t *testing.T) {
		cfg := testConfig(schema.CSVOut)
		cfg.OutputFile = filepath.Join(dir, "rank.csv")
		require.NoError(t, WriteRankings(sampleRanked(), cfg, 0))

		data, err := os.ReadFile(cfg.OutputFile)
		require.NoError(t, err)
		assert.Contains(t, string(data), "rank,id,name,score")
	})

	t.Run("text", func(t *testing.T) {
		disableColors(t)
		cfg := testConfig(schema.TextOut)
		cfg.OutputFile = filepath.Join(dir, "rank.txt")
		require.NoError(t, WriteRankings(sampleRanked(), cfg, time.Second))

		data, err := os.ReadFile(cfg.OutputFile)
		require.NoError(t, err)
		assert.Contains(t, string(data), "Showing top 2 schools")
	})

	t.Run("parquet", func(t *testing.T) {
		cfg := testConfig(schema.ParquetOut)
		cfg.OutputFile = filepath.Join(dir, "rank.parquet")
		require.NoError(t, WriteRankings(sampleRanked(), cfg, 0))

		file, err := os.Open(cfg.OutputFile)
		require.NoError(t, err)
		defer func() { _ = file.Close() }()

		reader := pq.NewGenericReader[parquet.RankedSchool](file)
		defer func() { _ = reader.Close() }()
		rows := make([]parquet.RankedSchool, 2)
		n, _ := reader.Read(rows)
		require.Equal(t, 2, n)
		assert.Equal(t, "Little Acorns ELC", rows[0].Name)
		assert.Nil(t, rows[1].Staff)
	})

	t.Run("parquet without file", func(t *testing.T) {
		err := WriteRankings(sampleRanked(), testConfig(schema.ParquetOut), 0)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "--output-file")
	})

	t.Run("unwritable path", func(t *testing.T) {
		cfg := testConfig(schema.JSONOut)
		cfg.OutputFile = filepath.Join(dir, "missing", "rank.json")
		assert.Error(t, WriteRankings(sampleRanked(), cfg, 0))
	})
}
