package algo

import (
	"cmp"
	"fmt"
	"slices"

	"github.com/elcfinder/elcfinder/schema"
)

// insightCriteria is the number of weighted criteria named in an insight.
const insightCriteria = 3

// NoSchoolsInsight is emitted when there is no ranked school to describe.
const NoSchoolsInsight = "No schools available to analyze."

// InsightFunc turns the top-ranked school and the active weights into a sentence.
// It can be swapped for an external summarization backend.
type InsightFunc func(top schema.ScoredSchool, weights schema.Weights) string

// TopCriteria returns up to n criteria with the highest non-zero weight.
// Equal weights keep the fixed criterion order.
func TopCriteria(weights schema.Weights, n int) []schema.Criterion {
	normalized := weights.Normalized()
	var picked []schema.Criterion
	for _, c := range schema.AllCriteria {
		if normalized[c] > 0 {
			picked = append(picked, c)
		}
	}
	slices.SortStableFunc(picked, func(a, b schema.Criterion) int {
		return cmp.Compare(normalized[b], normalized[a])
	})
	if len(picked) > n {
		picked = picked[:n]
	}
	return picked
}

// DefaultInsight is the rule-based insight formatter.
func DefaultInsight(top schema.ScoredSchool, weights schema.Weights) string {
	criteria := TopCriteria(weights, insightCriteria)
	if len(criteria) == 0 {
		return fmt.Sprintf("%s ranks highest, but no criteria are currently weighted.", top.Name)
	}
	labels := make([]string, len(criteria))
	for i, c := range criteria {
		labels[i] = schema.CriterionLabel(c)
	}
	return fmt.Sprintf("%s ranks highest for your priorities, driven by %s.", top.Name, schema.JoinLabels(labels))
}

// BuildInsight applies fn to the first ranked school. A nil fn uses DefaultInsight.
func BuildInsight(ranked []schema.ScoredSchool, weights schema.Weights, fn InsightFunc) schema.Insight {
	normalized := weights.Normalized()
	if len(ranked) == 0 {
		return schema.Insight{Text: NoSchoolsInsight, Weights: normalized}
	}
	if fn == nil {
		fn = DefaultInsight
	}
	top := ranked[0]
	return schema.Insight{
		Text:    fn(top, normalized),
		Top:     &top,
		Weights: normalized,
	}
}
