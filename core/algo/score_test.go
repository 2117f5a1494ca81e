package algo

import (
	"math"
	"testing"

	"github.com/elcfinder/elcfinder/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleSchool() schema.School {
	return schema.School{
		ID:         1,
		Name:       "Little Oaks",
		Cost:       7,
		Education:  8,
		Staff:      9,
		Facilities: 8,
		Reputation: 8,
		NQS:        9,
	}
}

func uniformWeights(v float64) schema.Weights {
	w := schema.Weights{}
	for _, c := range schema.AllCriteria {
		w[c] = v
	}
	return w
}

func TestComputeScore(t *testing.T) {
	t.Run("uniform weights average all ratings", func(t *testing.T) {
		assert.InDelta(t, 49.0/6.0, ComputeScore(sampleSchool(), uniformWeights(1)), 1e-12)
	})

	t.Run("zero weights yield zero", func(t *testing.T) {
		assert.Equal(t, 0.0, ComputeScore(sampleSchool(), uniformWeights(0)))
		assert.Equal(t, 0.0, ComputeScore(sampleSchool(), schema.Weights{}))
	})

	t.Run("single weight returns that rating exactly", func(t *testing.T) {
		s := sampleSchool()
		for _, c := range schema.AllCriteria {
			w := schema.Weights{c: 10}
			assert.Equal(t, s.Rating(c), ComputeScore(s, w), "criterion %s", c)
		}
	})

	t.Run("invalid rating is skipped entirely", func(t *testing.T) {
		s := schema.School{Cost: 6, Education: schema.Rating(math.NaN())}
		w := schema.Weights{schema.CostCriterion: 5, schema.EducationCriterion: 5}
		assert.Equal(t, 6.0, ComputeScore(s, w))
	})

	t.Run("invalid weight is skipped entirely", func(t *testing.T) {
		s := sampleSchool()
		w := schema.Weights{schema.CostCriterion: 2, schema.StaffCriterion: math.NaN(), schema.NQSCriterion: math.Inf(1)}
		assert.Equal(t, 7.0, ComputeScore(s, w))
	})

	t.Run("all ratings invalid yield zero", func(t *testing.T) {
		var s schema.School
		for _, c := range schema.AllCriteria {
			s.SetRating(c, math.NaN())
		}
		assert.Equal(t, 0.0, ComputeScore(s, uniformWeights(5)))
	})
}

func TestComputeScore_ScaleInvariant(t *testing.T) {
	s := sampleSchool()
	w := schema.Weights{
		schema.CostCriterion:       3,
		schema.EducationCriterion:  7,
		schema.StaffCriterion:      1,
		schema.FacilitiesCriterion: 0,
		schema.ReputationCriterion: 4,
		schema.NQSCriterion:        10,
	}
	base := ComputeScore(s, w)
	for _, k := range []float64{0.5, 2, 3.7, 100} {
		scaled := schema.Weights{}
		for c, v := range w {
			scaled[c] = v * k
		}
		assert.InDelta(t, base, ComputeScore(s, scaled), 1e-9, "scale %v", k)
	}
}

func TestComputeScore_DoesNotMutateInputs(t *testing.T) {
	s := sampleSchool()
	w := uniformWeights(3)
	before := w.Clone()

	_ = ComputeScore(s, w)

	assert.Equal(t, sampleSchool(), s)
	assert.Equal(t, before, w)
}

func TestComputeBreakdown(t *testing.T) {
	s := schema.School{Cost: 6, Education: 4, Staff: schema.Rating(math.NaN())}
	w := schema.Weights{schema.CostCriterion: 1, schema.EducationCriterion: 1, schema.StaffCriterion: 1}

	parts := ComputeBreakdown(s, w)

	assert.Len(t, parts, 2)
	assert.InDelta(t, 60.0, parts[schema.CostCriterion], 1e-9)
	assert.InDelta(t, 40.0, parts[schema.EducationCriterion], 1e-9)

	t.Run("no contribution", func(t *testing.T) {
		assert.Empty(t, ComputeBreakdown(s, schema.Weights{}))
	})
}

func TestComputeScore_LargeRatings(t *testing.T) {
	s := schema.School{Cost: 1e308, Education: 5}
	w := uniformWeights(5)

	got := ComputeScore(s, w)
	assert.False(t, math.IsInf(got, 0), "score overflowed")
	assert.InDelta(t, 1e308/6, got, 1e294)

	parts := ComputeBreakdown(s, w)
	require.Len(t, parts, 2)
	assert.InDelta(t, 100.0, parts[schema.CostCriterion], 1e-9)
	assert.False(t, math.IsNaN(parts[schema.EducationCriterion]))

	t.Run("huge weights", func(t *testing.T) {
		w := schema.Weights{schema.CostCriterion: 1e308, schema.EducationCriterion: 1e308}
		assert.InDelta(t, 5.5, ComputeScore(schema.School{Cost: 6, Education: 5}, w), 1e-12)
	})
}

func TestPairwiseWins_LargeRatings(t *testing.T) {
	schools := []schema.School{
		{ID: 1, Cost: 1e308},
		{ID: 2, Cost: 9e307},
	}
	wins := PairwiseWins(schools, schema.Weights{schema.CostCriterion: 10})
	assert.Equal(t, []int{1, 0}, wins)
}

func TestScoreSchools_PreservesOrder(t *testing.T) {
	schools := []schema.School{
		{ID: 1, Name: "A", Cost: 1},
		{ID: 2, Name: "B", Cost: 9},
	}
	scored := ScoreSchools(schools, schema.Weights{schema.CostCriterion: 1})

	assert.Len(t, scored, 2)
	assert.Equal(t, 1, scored[0].ID)
	assert.Equal(t, 1.0, scored[0].Score)
	assert.Equal(t, 9.0, scored[1].Score)
	assert.Equal(t, 0, scored[0].Rank)
}

func BenchmarkComputeScore(b *testing.B) {
	s := sampleSchool()
	w := uniformWeights(5)
	for b.Loop() {
		_ = ComputeScore(s, w)
	}
}
