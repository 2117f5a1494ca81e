package algo

import (
	"testing"

	"github.com/elcfinder/elcfinder/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func costSchools(costs ...float64) []schema.School {
	schools := make([]schema.School, len(costs))
	for i, c := range costs {
		schools[i] = schema.School{ID: i + 1, Name: string(rune('A' + i)), Cost: schema.Rating(c)}
	}
	return schools
}

func TestRankSchools(t *testing.T) {
	costOnly := schema.Weights{schema.CostCriterion: 1}

	t.Run("stable for ties", func(t *testing.T) {
		ranked := RankSchools(costSchools(3, 7, 7, 1), costOnly, schema.InputOrderTieBreak, 0)

		require.Len(t, ranked, 4)
		assert.Equal(t, []int{2, 3, 1, 4}, ids(ranked))
		assert.Equal(t, []int{1, 2, 3, 4}, ranks(ranked))
	})

	t.Run("scores in descending order", func(t *testing.T) {
		ranked := RankSchools(costSchools(5, 2, 9, 4, 9, 0), costOnly, schema.InputOrderTieBreak, 0)
		for i := 1; i < len(ranked); i++ {
			assert.LessOrEqual(t, ranked[i].Score, ranked[i-1].Score)
		}
	})

	t.Run("limit", func(t *testing.T) {
		ranked := RankSchools(costSchools(1, 2, 3), costOnly, schema.InputOrderTieBreak, 2)
		assert.Equal(t, []int{3, 2}, ids(ranked))
	})

	t.Run("limit exceeds length", func(t *testing.T) {
		assert.Len(t, RankSchools(costSchools(1, 2, 3), costOnly, schema.InputOrderTieBreak, 10), 3)
	})

	t.Run("empty", func(t *testing.T) {
		assert.Empty(t, RankSchools(nil, costOnly, schema.InputOrderTieBreak, 0))
	})

	t.Run("name tie-break", func(t *testing.T) {
		schools := []schema.School{
			{ID: 1, Name: "zebra", Cost: 5},
			{ID: 2, Name: "Apple", Cost: 5},
			{ID: 3, Name: "mango", Cost: 8},
		}
		ranked := RankSchools(schools, costOnly, schema.NameTieBreak, 0)
		assert.Equal(t, []int{3, 2, 1}, ids(ranked))
	})

	t.Run("pairwise tie-break", func(t *testing.T) {
		w := schema.Weights{schema.CostCriterion: 1, schema.EducationCriterion: 1, schema.StaffCriterion: 1}
		schools := []schema.School{
			{ID: 1, Name: "A", Cost: 9, Education: 3, Staff: 3}, // avg 5, beats nobody
			{ID: 2, Name: "B", Cost: 4, Education: 6, Staff: 5}, // avg 5, beats A
		}
		ranked := RankSchools(schools, w, schema.PairwiseTieBreak, 0)
		assert.Equal(t, []int{2, 1}, ids(ranked))
		assert.Equal(t, 1, ranked[0].PairwiseWins)
		assert.Equal(t, 0, ranked[1].PairwiseWins)
	})

	t.Run("input untouched", func(t *testing.T) {
		schools := costSchools(3, 7, 7, 1)
		_ = RankSchools(schools, costOnly, schema.NameTieBreak, 2)
		assert.Equal(t, costSchools(3, 7, 7, 1), schools)
	})
}

func TestPairwiseWins(t *testing.T) {
	w := uniformWeights(1)
	schools := []schema.School{
		{Cost: 9, Education: 9, Staff: 9, Facilities: 9, Reputation: 9, NQS: 9},
		{Cost: 5, Education: 5, Staff: 5, Facilities: 5, Reputation: 5, NQS: 5},
		{Cost: 1, Education: 1, Staff: 1, Facilities: 1, Reputation: 1, NQS: 1},
	}
	assert.Equal(t, []int{2, 1, 0}, PairwiseWins(schools, w))
	assert.Equal(t, []int{0, 0, 0}, PairwiseWins(schools, schema.Weights{}))
}

func ids(ranked []schema.ScoredSchool) []int {
	out := make([]int, len(ranked))
	for i, s := range ranked {
		out[i] = s.ID
	}
	return out
}

func ranks(ranked []schema.ScoredSchool) []int {
	out := make([]int, len(ranked))
	for i, s := range ranked {
		out[i] = s.Rank
	}
	return out
}

func BenchmarkRankSchools(b *testing.B) {
	schools := costSchools(3, 7, 7, 1, 9, 4, 2, 8, 6, 5)
	w := uniformWeights(5)
	for b.Loop() {
		_ = RankSchools(schools, w, schema.PairwiseTieBreak, 0)
	}
}
