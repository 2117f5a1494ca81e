// Package algo has the pure scoring, ranking and insight algorithms.
package algo

import (
	"math"

	"github.com/elcfinder/elcfinder/schema"
)

// usable reports whether a rating and weight pair may take part in a weighted average.
func usable(rating, weight float64) bool {
	if math.IsNaN(rating) || math.IsInf(rating, 0) {
		return false
	}
	if math.IsNaN(weight) || math.IsInf(weight, 0) || weight < 0 {
		return false
	}
	return true
}

// scaledWeights divides every usable weight by the largest one so that
// products with finite ratings stay finite. Ratios between weights are kept.
func scaledWeights(weights schema.Weights) schema.Weights {
	var maxWeight float64
	for _, c := range schema.AllCriteria {
		if w := weights[c]; usable(0, w) && w > maxWeight {
			maxWeight = w
		}
	}
	scaled := make(schema.Weights, len(schema.AllCriteria))
	for _, c := range schema.AllCriteria {
		w := weights[c]
		if !usable(0, w) || maxWeight == 0 {
			scaled[c] = math.NaN()
			continue
		}
		scaled[c] = w / maxWeight
	}
	return scaled
}

// ComputeScore returns the weighted average of a school's ratings.
// A criterion is skipped entirely unless both its rating and its weight are
// finite, and a zero total weight yields 0. Any finite ratings give a finite score.
func ComputeScore(s schema.School, weights schema.Weights) float64 {
	scaled := scaledWeights(weights)
	var sum, total float64
	for _, c := range schema.AllCriteria {
		rating := s.Rating(c)
		if !usable(rating, scaled[c]) {
			continue
		}
		sum += rating * scaled[c]
		total += scaled[c]
	}
	if total == 0 {
		return 0
	}
	if math.Abs(sum) <= math.MaxFloat64 {
		return sum / total
	}
	// The sum overflowed. Shares are at most 1, so partial sums stay within the largest rating.
	var score float64
	for _, c := range schema.AllCriteria {
		rating := s.Rating(c)
		if usable(rating, scaled[c]) {
			score += rating * (scaled[c] / total)
		}
	}
	return score
}

// ComputeBreakdown returns each contributing criterion's percentage share of
// the weighted sum. Criteria with no contribution are omitted.
func ComputeBreakdown(s schema.School, weights schema.Weights) map[schema.Criterion]float64 {
	scaled := scaledWeights(weights)
	var maxRating float64
	for _, c := range schema.AllCriteria {
		if r := s.Rating(c); usable(r, scaled[c]) {
			maxRating = math.Max(maxRating, math.Abs(r))
		}
	}

	parts := make(map[schema.Criterion]float64)
	if maxRating == 0 {
		return parts
	}
	var sum float64
	for _, c := range schema.AllCriteria {
		rating := s.Rating(c)
		if !usable(rating, scaled[c]) {
			continue
		}
		v := rating / maxRating * scaled[c]
		if v == 0 {
			continue
		}
		parts[c] = v
		sum += v
	}
	if sum == 0 {
		return map[schema.Criterion]float64{}
	}
	for c, v := range parts {
		share := v / sum * 100
		// Contributions that cancel out leave no meaningful shares.
		if math.IsInf(share, 0) || math.IsNaN(share) {
			return map[schema.Criterion]float64{}
		}
		parts[c] = share
	}
	return parts
}

// ScoreSchools projects every school through ComputeScore, preserving input order.
func ScoreSchools(schools []schema.School, weights schema.Weights) []schema.ScoredSchool {
	scored := make([]schema.ScoredSchool, len(schools))
	for i, s := range schools {
		scored[i] = schema.ScoredSchool{
			School:    s,
			Score:     ComputeScore(s, weights),
			Breakdown: ComputeBreakdown(s, weights),
		}
	}
	return scored
}
