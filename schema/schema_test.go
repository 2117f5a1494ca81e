package schema

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRatingValid(t *testing.T) {
	assert.True(t, Rating(0).Valid())
	assert.True(t, Rating(7.5).Valid())
	assert.False(t, Rating(math.NaN()).Valid())
	assert.False(t, Rating(math.Inf(1)).Valid())
	assert.False(t, Rating(math.Inf(-1)).Valid())
}

func TestSchoolJSON_InvalidRatingIsNull(t *testing.T) {
	s := School{ID: 1, Name: "A", Cost: 6, Education: Rating(math.NaN())}

	data, err := json.Marshal(s)
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Nil(t, decoded["education"])
	assert.Equal(t, 6.0, decoded["cost"])
	assert.NotContains(t, decoded, "status")
}

func TestScoredSchoolJSON_Flattened(t *testing.T) {
	s := ScoredSchool{School: School{ID: 4, Name: "B", NQS: 9}, Score: 8.5, Rank: 1}

	data, err := json.Marshal(s)
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, 4.0, decoded["id"])
	assert.Equal(t, 8.5, decoded["score"])
	assert.Equal(t, 9.0, decoded["nqs"])
	assert.NotContains(t, decoded, "pairwise_wins")
}

func TestSchoolRatingRoundTrip(t *testing.T) {
	var s School
	for i, c := range AllCriteria {
		s.SetRating(c, float64(i+1))
	}
	for i, c := range AllCriteria {
		assert.Equal(t, float64(i+1), s.Rating(c), "criterion %s", c)
	}
	assert.True(t, math.IsNaN(s.Rating(Criterion("unknown"))))
}

func TestWeightsNormalized(t *testing.T) {
	w := Weights{
		CostCriterion:      3,
		EducationCriterion: math.NaN(),
		StaffCriterion:     -2,
		NQSCriterion:       math.Inf(1),
	}

	n := w.Normalized()

	assert.Len(t, n, len(AllCriteria))
	assert.Equal(t, 3.0, n[CostCriterion])
	assert.Equal(t, 0.0, n[EducationCriterion])
	assert.Equal(t, 0.0, n[StaffCriterion])
	assert.Equal(t, 0.0, n[FacilitiesCriterion])
	assert.Equal(t, 0.0, n[NQSCriterion])
	assert.Equal(t, 3.0, w.Total())
}

func TestDefaultWeights(t *testing.T) {
	w := DefaultWeights()
	assert.Len(t, w, len(AllCriteria))
	for _, c := range AllCriteria {
		assert.Equal(t, DefaultWeight, w[c])
	}

	clone := w.Clone()
	clone[CostCriterion] = 1
	assert.Equal(t, DefaultWeight, w[CostCriterion])
}

func TestJoinLabels(t *testing.T) {
	assert.Equal(t, "", JoinLabels(nil))
	assert.Equal(t, "NQS", JoinLabels([]string{"NQS"}))
	assert.Equal(t, "NQS and Staff", JoinLabels([]string{"NQS", "Staff"}))
	assert.Equal(t, "NQS, Staff and Cost", JoinLabels([]string{"NQS", "Staff", "Cost"}))
}

func TestStrengths(t *testing.T) {
	tests := []struct {
		name     string
		school   School
		expected string
	}{
		{"none", School{Education: 8, Staff: 8}, "Offers a balanced program across different areas."},
		{"one", School{Staff: 9}, "Particularly strong in: Staff Quality."},
		{"first two only", School{Education: 9, Staff: 9, Facilities: 9, NQS: 10}, "Particularly strong in: Education, Staff Quality."},
		{"invalid ignored", School{Education: Rating(math.NaN()), NQS: 9}, "Particularly strong in: High NQS Rating."},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Strengths(tt.school))
		})
	}
}

func TestSummary_EmptyAddress(t *testing.T) {
	got := Summary(School{Education: 7})
	assert.Equal(t, "A learning center located at an unspecified location. Known for its focus on various learning activities.", got)
}

func TestFormatRating(t *testing.T) {
	assert.Equal(t, "7.50", FormatRating(7.5, 2))
	assert.Equal(t, "n/a", FormatRating(Rating(math.NaN()), 2))
}

func TestParseSchoolStatus(t *testing.T) {
	tests := []struct {
		raw      string
		expected SchoolStatus
		ok       bool
	}{
		{"", NoStatus, true},
		{"prioritised", PrioritisedStatus, true},
		{" No Availability ", NoAvailabilityStatus, true},
		{"NONE", NoneStatus, true},
		{"waitlisted", NoStatus, false},
	}
	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			got, ok := ParseSchoolStatus(tt.raw)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.expected, got)
		})
	}
	assert.False(t, NoneStatus.HasBadge())
	assert.False(t, NoStatus.HasBadge())
	assert.True(t, RequestedStatus.HasBadge())
}
