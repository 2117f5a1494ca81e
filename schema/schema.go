// Package schema has models and constants for all parts of elcfinder.
package schema

import (
	"math"
	"strconv"
)

// Rating is a single criterion rating. Non-finite ratings mark malformed
// source data and are excluded from scoring.
type Rating float64

// Valid reports whether the rating is a finite number.
func (r Rating) Valid() bool {
	return !math.IsNaN(float64(r)) && !math.IsInf(float64(r), 0)
}

// MarshalJSON encodes invalid ratings as null since JSON has no NaN.
func (r Rating) MarshalJSON() ([]byte, error) {
	if !r.Valid() {
		return []byte("null"), nil
	}
	return strconv.AppendFloat(nil, float64(r), 'f', -1, 64), nil
}

// School is a normalized school or early learning centre record.
type School struct {
	ID         int          `json:"id"`
	Name       string       `json:"name"`
	Cost       Rating       `json:"cost"`
	Education  Rating       `json:"education"`
	Staff      Rating       `json:"staff"`
	Facilities Rating       `json:"facilities"`
	Reputation Rating       `json:"reputation"`
	NQS        Rating       `json:"nqs"`
	Address    string       `json:"address"`
	Lat        float64      `json:"lat"`
	Lng        float64      `json:"lng"`
	Status     SchoolStatus `json:"status,omitempty"`
	FeePerDay  float64      `json:"fee_per_day,omitempty"`
}

// Rating returns the school's rating for a criterion, or NaN for an unknown criterion.
func (s School) Rating(c Criterion) float64 {
	switch c {
	case CostCriterion:
		return float64(s.Cost)
	case EducationCriterion:
		return float64(s.Education)
	case StaffCriterion:
		return float64(s.Staff)
	case FacilitiesCriterion:
		return float64(s.Facilities)
	case ReputationCriterion:
		return float64(s.Reputation)
	case NQSCriterion:
		return float64(s.NQS)
	default:
		return math.NaN()
	}
}

// SetRating stores a rating for a criterion. Unknown criteria are ignored.
func (s *School) SetRating(c Criterion, v float64) {
	switch c {
	case CostCriterion:
		s.Cost = Rating(v)
	case EducationCriterion:
		s.Education = Rating(v)
	case StaffCriterion:
		s.Staff = Rating(v)
	case FacilitiesCriterion:
		s.Facilities = Rating(v)
	case ReputationCriterion:
		s.Reputation = Rating(v)
	case NQSCriterion:
		s.NQS = Rating(v)
	}
}

// Weights maps each criterion to a non-negative importance weight.
type Weights map[Criterion]float64

// DefaultWeights returns the uniform weight vector used when nothing is configured.
func DefaultWeights() Weights {
	w := make(Weights, len(AllCriteria))
	for _, c := range AllCriteria {
		w[c] = DefaultWeight
	}
	return w
}

// Clone returns a copy of the weight vector.
func (w Weights) Clone() Weights {
	clone := make(Weights, len(w))
	for k, v := range w {
		clone[k] = v
	}
	return clone
}

// Normalized returns a weight vector with an entry for every criterion.
// Missing, non-finite and negative weights become 0.
func (w Weights) Normalized() Weights {
	out := make(Weights, len(AllCriteria))
	for _, c := range AllCriteria {
		v, ok := w[c]
		if !ok || math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
			v = 0
		}
		out[c] = v
	}
	return out
}

// Total returns the sum of all valid weights.
func (w Weights) Total() float64 {
	total := 0.0
	for _, v := range w.Normalized() {
		total += v
	}
	return total
}

// ScoredSchool is a school augmented with its derived score for one weight vector.
type ScoredSchool struct {
	School
	Score        float64               `json:"score"`
	Rank         int                   `json:"rank"`
	Breakdown    map[Criterion]float64 `json:"breakdown,omitempty"`
	PairwiseWins int                   `json:"pairwise_wins,omitempty"`
}

// ChartPoint is one bar of the ranking chart.
type ChartPoint struct {
	Name  string  `json:"name" parquet:"name,snappy"`
	Score float64 `json:"score" parquet:"score,snappy"`
}

// MapMarker is one marker on the school map.
type MapMarker struct {
	ID      int      `json:"id" parquet:"id,snappy"`
	Name    string   `json:"name" parquet:"name,snappy"`
	Address string   `json:"address" parquet:"address,snappy"`
	Lat     float64  `json:"lat" parquet:"lat,snappy"`
	Lng     float64  `json:"lng" parquet:"lng,snappy"`
	Score   *float64 `json:"score,omitempty" parquet:"score,optional,snappy"`
}

// Insight is the generated insight sentence with the school it describes.
type Insight struct {
	Text    string        `json:"insight"`
	Top     *ScoredSchool `json:"top,omitempty"`
	Weights Weights       `json:"weights"`
}
