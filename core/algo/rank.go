package algo

import (
	"cmp"
	"slices"
	"strings"

	"github.com/elcfinder/elcfinder/schema"
)

// RankSchools scores every school and sorts the results by score in descending
// order. The sort is stable, so equal scores keep their input order unless a
// tie-break policy says otherwise. A limit of zero or less returns every school.
// The input slice is never modified.
func RankSchools(schools []schema.School, weights schema.Weights, tieBreak schema.TieBreak, limit int) []schema.ScoredSchool {
	ranked := ScoreSchools(schools, weights)

	if tieBreak == schema.PairwiseTieBreak {
		wins := PairwiseWins(schools, weights)
		for i := range ranked {
			ranked[i].PairwiseWins = wins[i]
		}
	}

	slices.SortStableFunc(ranked, func(a, b schema.ScoredSchool) int {
		if c := cmp.Compare(b.Score, a.Score); c != 0 {
			return c
		}
		switch tieBreak {
		case schema.PairwiseTieBreak:
			return cmp.Compare(b.PairwiseWins, a.PairwiseWins)
		case schema.NameTieBreak:
			return cmp.Compare(strings.ToLower(a.Name), strings.ToLower(b.Name))
		default:
			return 0
		}
	})

	if limit > 0 && len(ranked) > limit {
		ranked = ranked[:limit]
	}
	for i := range ranked {
		ranked[i].Rank = i + 1
	}
	return ranked
}

// PairwiseWins counts, for each school, how many other schools it beats
// head-to-head. School i beats school j when more of its weighted ratings are
// greater than j's than are less. Invalid ratings never win or lose a criterion.
func PairwiseWins(schools []schema.School, weights schema.Weights) []int {
	n := len(schools)
	scaled := scaledWeights(weights)
	weighted := make([][]float64, n)
	for i, s := range schools {
		row := make([]float64, len(schema.AllCriteria))
		for k, c := range schema.AllCriteria {
			row[k] = s.Rating(c) * scaled[c]
		}
		weighted[i] = row
	}

	wins := make([]int, n)
	for i := range n {
		for j := range n {
			if i == j {
				continue
			}
			gt, lt := 0, 0
			for k := range weighted[i] {
				switch {
				case weighted[i][k] > weighted[j][k]:
					gt++
				case weighted[i][k] < weighted[j][k]:
					lt++
				}
			}
			if gt > lt {
				wins[i]++
			}
		}
	}
	return wins
}
