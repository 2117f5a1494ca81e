package schema

// Score label constants.
const (
	ExcellentValue = "Excellent"
	GoodValue      = "Good"
	FairValue      = "Fair"
	PoorValue      = "Poor"
)

// EnrichedSchool adds presentation data to a ScoredSchool.
type EnrichedSchool struct {
	Label     string `json:"label"`
	Strengths string `json:"strengths"`
	Summary   string `json:"summary"`
	ScoredSchool
}

// GetPlainLabel returns a plain text label for a score on the 0-10 rating scale.
func GetPlainLabel(score float64) string {
	switch {
	case score >= 8:
		return ExcellentValue
	case score >= 6:
		return GoodValue
	case score >= 4:
		return FairValue
	default:
		return PoorValue
	}
}

// EnrichSchools adds label, strengths and summary to a ranked list.
func EnrichSchools(ranked []ScoredSchool) []EnrichedSchool {
	output := make([]EnrichedSchool, len(ranked))
	for i, s := range ranked {
		output[i] = EnrichedSchool{
			Label:        GetPlainLabel(s.Score),
			Strengths:    Strengths(s.School),
			Summary:      Summary(s.School),
			ScoredSchool: s,
		}
	}
	return output
}
