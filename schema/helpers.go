package schema

import (
	"fmt"
	"strconv"
	"strings"
)

// strengthThreshold is the rating a criterion must exceed to count as a strength.
const strengthThreshold = 8

// educationFocusThreshold is the education rating above which the summary highlights programs.
const educationFocusThreshold = 7

// strengthLabels lists the criteria considered for strengths, in reporting order.
var strengthLabels = []struct {
	criterion Criterion
	label     string
}{
	{EducationCriterion, "Education"},
	{StaffCriterion, "Staff Quality"},
	{FacilitiesCriterion, "Facilities"},
	{NQSCriterion, "High NQS Rating"},
}

// Strengths describes up to two standout criteria of a school.
func Strengths(s School) string {
	var found []string
	for _, sl := range strengthLabels {
		r := Rating(s.Rating(sl.criterion))
		if r.Valid() && r > strengthThreshold {
			found = append(found, sl.label)
		}
	}
	if len(found) == 0 {
		return "Offers a balanced program across different areas."
	}
	return fmt.Sprintf("Particularly strong in: %s.", strings.Join(found[:min(len(found), 2)], ", "))
}

// Summary returns a one-line description of a school.
func Summary(s School) string {
	location := s.Address
	if strings.TrimSpace(location) == "" {
		location = "an unspecified location"
	}
	focus := "various learning activities"
	if s.Education.Valid() && s.Education > educationFocusThreshold {
		focus = "strong educational programs"
	}
	return fmt.Sprintf("A learning center located at %s. Known for its focus on %s.", location, focus)
}

// FormatRating renders a rating with the given precision, or "n/a" when it is invalid.
func FormatRating(r Rating, precision int) string {
	if !r.Valid() {
		return "n/a"
	}
	return strconv.FormatFloat(float64(r), 'f', precision, 64)
}

// JoinLabels joins items as "A", "A and B" or "A, B and C".
func JoinLabels(items []string) string {
	switch len(items) {
	case 0:
		return ""
	case 1:
		return items[0]
	default:
		return strings.Join(items[:len(items)-1], ", ") + " and " + items[len(items)-1]
	}
}

// CriterionLabel returns the display label of a criterion.
func CriterionLabel(c Criterion) string {
	if label, ok := CriterionLabels[c]; ok {
		return label
	}
	return string(c)
}

// ParseSchoolStatus matches a status case-insensitively against the known values.
func ParseSchoolStatus(raw string) (SchoolStatus, bool) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return NoStatus, true
	}
	for status := range ValidSchoolStatuses {
		if strings.EqualFold(string(status), trimmed) {
			return status, true
		}
	}
	return NoStatus, false
}

// HasBadge reports whether a status should be rendered as a badge.
func (s SchoolStatus) HasBadge() bool {
	return s != NoStatus && s != NoneStatus
}
