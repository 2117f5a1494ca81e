package parquet

import (
	"bytes"
	"io"
	"math"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/elcfinder/elcfinder/schema"
	"github.com/parquet-go/parquet-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func float64Ptr(v float64) *float64 { return &v }

func sampleRankingRuns() []RankingRun {
	start := time.Date(2026, 3, 1, 9, 0, 0, 123456789, time.UTC)
	end := start.Add(250 * time.Millisecond)
	duration := int32(250)
	params := `{"limit":50,"tie_break":"input"}`
	return []RankingRun{
		{RunID: 1, StartTime: start, EndTime: &end, RunDurationMs: &duration, TotalSchools: 4, ConfigParams: &params},
		{RunID: 2, StartTime: start.Add(time.Hour), TotalSchools: 0},
	}
}

func sampleSchoolScores() []SchoolScore {
	rankedAt := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	return []SchoolScore{
		{
			RunID: 1, RankPosition: 1, SchoolID: 10, SchoolName: "Little Acorns",
			RankedAt: rankedAt, Score: 8.25, ScoreLabel: "Excellent", Status: "Requested",
			Cost: float64Ptr(7), Education: float64Ptr(9), Staff: float64Ptr(8),
			Facilities: float64Ptr(8), Reputation: float64Ptr(9), NQS: float64Ptr(8.5),
		},
		{
			RunID: 1, RankPosition: 2, SchoolID: 11, SchoolName: "Bright Start",
			RankedAt: rankedAt, Score: 5.5, ScoreLabel: "Fair",
			Cost: float64Ptr(5), Education: float64Ptr(6),
		},
	}
}

func readFile[T any](t *testing.T, path string) []T {
	t.Helper()
	file, err := os.Open(path)
	require.NoError(t, err, "Should be able to open output file")
	defer file.Close()

	reader := parquet.NewGenericReader[T](file)
	defer reader.Close()

	rows := make([]T, reader.NumRows())
	n, err := reader.Read(rows)
	if err != nil && err != io.EOF {
		require.NoError(t, err, "Should be able to read data")
	}
	return rows[:n]
}

func TestRankingRunStructTags(t *testing.T) {
	s := parquet.SchemaOf(new(RankingRun))
	require.NotNil(t, s)

	for _, colName := range []string{
		"run_id", "start_time", "end_time", "run_duration_ms", "total_schools", "config_params",
	} {
		col, ok := s.Lookup(colName)
		require.True(t, ok, "Column %s should exist in schema", colName)
		require.NotNil(t, col, "Column %s should not be nil", colName)
	}
}

func TestSchoolScoreStructTags(t *testing.T) {
	s := parquet.SchemaOf(new(SchoolScore))
	require.NotNil(t, s)

	for _, colName := range []string{
		"run_id", "rank_position", "school_id", "school_name", "ranked_at", "score",
		"score_label", "status", "cost", "education", "staff", "facilities", "reputation", "nqs",
	} {
		_, ok := s.Lookup(colName)
		require.True(t, ok, "Column %s should exist in schema", colName)
	}
}

func TestRankedSchoolStructTags(t *testing.T) {
	s := parquet.SchemaOf(new(RankedSchool))
	for _, colName := range []string{"rank", "school_id", "name", "score", "label", "status", "lat", "lng", "nqs"} {
		_, ok := s.Lookup(colName)
		require.True(t, ok, "Column %s should exist in schema", colName)
	}
}

func TestWriteRankingRunsParquet(t *testing.T) {
	outputPath := filepath.Join(t.TempDir(), "ranking_runs.parquet")
	data := sampleRankingRuns()

	require.NoError(t, WriteRankingRunsParquet(data, outputPath))

	info, err := os.Stat(outputPath)
	require.NoError(t, err, "Output file should exist")
	assert.Greater(t, info.Size(), int64(0), "Output file should not be empty")

	readData := readFile[RankingRun](t, outputPath)
	require.Len(t, readData, len(data))

	for i := range data {
		assert.Equal(t, data[i].RunID, readData[i].RunID)
		assert.Equal(t, data[i].TotalSchools, readData[i].TotalSchools)
		assert.WithinDuration(t, data[i].StartTime, readData[i].StartTime, time.Nanosecond)

		if data[i].EndTime == nil {
			assert.Nil(t, readData[i].EndTime, "EndTime should be nil")
		} else {
			require.NotNil(t, readData[i].EndTime)
			assert.WithinDuration(t, *data[i].EndTime, *readData[i].EndTime, time.Nanosecond)
		}
		if data[i].RunDurationMs == nil {
			assert.Nil(t, readData[i].RunDurationMs)
		} else {
			require.NotNil(t, readData[i].RunDurationMs)
			assert.Equal(t, *data[i].RunDurationMs, *readData[i].RunDurationMs)
		}
		if data[i].ConfigParams == nil {
			assert.Nil(t, readData[i].ConfigParams)
		} else {
			require.NotNil(t, readData[i].ConfigParams)
			assert.Equal(t, *data[i].ConfigParams, *readData[i].ConfigParams)
		}
	}
}

func TestWriteSchoolScoresParquet(t *testing.T) {
	outputPath := filepath.Join(t.TempDir(), "school_scores.parquet")
	data := sampleSchoolScores()

	require.NoError(t, WriteSchoolScoresParquet(data, outputPath))

	readData := readFile[SchoolScore](t, outputPath)
	require.Len(t, readData, len(data))

	assert.Equal(t, "Little Acorns", readData[0].SchoolName)
	assert.InDelta(t, 8.25, readData[0].Score, 1e-9)
	assert.Equal(t, "Requested", readData[0].Status)
	require.NotNil(t, readData[0].NQS)
	assert.InDelta(t, 8.5, *readData[0].NQS, 1e-9)

	assert.Equal(t, int32(2), readData[1].RankPosition)
	assert.Empty(t, readData[1].Status)
	require.NotNil(t, readData[1].Education)
	assert.Nil(t, readData[1].Staff, "missing ratings should stay null")
	assert.Nil(t, readData[1].NQS)
}

func TestWriteParquet_EmptyData(t *testing.T) {
	tmpDir := t.TempDir()

	runsPath := filepath.Join(tmpDir, "empty_runs.parquet")
	require.NoError(t, WriteRankingRunsParquet([]RankingRun{}, runsPath))
	info, err := os.Stat(runsPath)
	require.NoError(t, err)
	assert.Greater(t, info.Size(), int64(0), "Output file should contain schema even if empty")

	scoresPath := filepath.Join(tmpDir, "empty_scores.parquet")
	require.NoError(t, WriteSchoolScoresParquet(nil, scoresPath))
	assert.Empty(t, readFile[SchoolScore](t, scoresPath))
}

func TestWriteParquet_InvalidPath(t *testing.T) {
	err := WriteRankingRunsParquet(sampleRankingRuns(), "/nonexistent/directory/output.parquet")
	require.Error(t, err, "Writing to invalid path should produce error")

	err = WriteSchoolScoresParquet(sampleSchoolScores(), "/nonexistent/directory/output.parquet")
	require.Error(t, err)
}

func TestWriteRows_Buffer(t *testing.T) {
	var buf bytes.Buffer
	rows := ConvertRankedSchools([]schema.ScoredSchool{
		{School: schema.School{ID: 3, Name: "Gumnut House", Cost: 6, NQS: schema.Rating(math.NaN())}, Score: 6, Rank: 1},
	})
	require.NoError(t, WriteRows(&buf, rows))

	reader := parquet.NewGenericReader[RankedSchool](bytes.NewReader(buf.Bytes()))
	defer reader.Close()
	readData := make([]RankedSchool, reader.NumRows())
	n, err := reader.Read(readData)
	if err != nil && err != io.EOF {
		require.NoError(t, err)
	}
	require.Equal(t, 1, n)
	assert.Equal(t, "Gumnut House", readData[0].Name)
	assert.Equal(t, "Good", readData[0].Label)
	assert.Nil(t, readData[0].NQS)
}

func TestConvertRankingRunRecords(t *testing.T) {
	end := time.Now()
	duration := int32(42)
	records := []schema.RankingRunRecord{
		{RunID: 7, StartTime: end.Add(-time.Second), EndTime: &end, RunDurationMs: &duration, TotalSchools: 12},
	}

	rows := ConvertRankingRunRecords(records)
	require.Len(t, rows, 1)
	assert.Equal(t, int64(7), rows[0].RunID)
	assert.Equal(t, int32(12), rows[0].TotalSchools)
	assert.Same(t, records[0].EndTime, rows[0].EndTime)
	assert.Nil(t, rows[0].ConfigParams)
}

func TestConvertSchoolScoreRecords(t *testing.T) {
	records := []schema.SchoolScoreRecord{
		{RunID: 1, RankPosition: 1, SchoolID: 5, SchoolName: "Wattle Tree", Score: 7.1, ScoreLabel: "Good", Cost: float64Ptr(7)},
	}

	rows := ConvertSchoolScoreRecords(records)
	require.Len(t, rows, 1)
	assert.Equal(t, "Wattle Tree", rows[0].SchoolName)
	assert.Equal(t, "Good", rows[0].ScoreLabel)
	require.NotNil(t, rows[0].Cost)
	assert.Nil(t, rows[0].Education)
}

func TestConvertRankedSchools(t *testing.T) {
	ranked := []schema.ScoredSchool{
		{
			School: schema.School{
				ID: 1, Name: "Koala Kids", Address: "1 Gum St", Lat: -33.8, Lng: 151.2,
				Cost: 9, Education: 8, Staff: 8, Facilities: 7, Reputation: 9, NQS: 9,
				Status: schema.PrioritisedStatus,
			},
			Score: 8.33, Rank: 1,
		},
		{
			School: schema.School{ID: 2, Name: "Possum Place", Cost: schema.Rating(math.NaN())},
			Score:  2.0, Rank: 2,
		},
	}

	rows := ConvertRankedSchools(ranked)
	require.Len(t, rows, 2)

	assert.Equal(t, int32(1), rows[0].Rank)
	assert.Equal(t, "Excellent", rows[0].Label)
	assert.Equal(t, "Prioritised", rows[0].Status)
	assert.Equal(t, "1 Gum St", rows[0].Address)
	require.NotNil(t, rows[0].Cost)
	assert.InDelta(t, 9.0, *rows[0].Cost, 1e-9)

	assert.Equal(t, "Poor", rows[1].Label)
	assert.Nil(t, rows[1].Cost, "NaN ratings should convert to null")
	require.NotNil(t, rows[1].Education, "zero is a valid rating")
	assert.Zero(t, *rows[1].Education)
}
