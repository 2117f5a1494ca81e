package algo

import (
	"fmt"
	"strings"

	"github.com/elcfinder/elcfinder/schema"
)

// ChartPoints projects a ranking into {name, score} pairs for bar charts.
func ChartPoints(ranked []schema.ScoredSchool) []schema.ChartPoint {
	points := make([]schema.ChartPoint, len(ranked))
	for i, s := range ranked {
		points[i] = schema.ChartPoint{Name: s.Name, Score: s.Score}
	}
	return points
}

// MapMarkers projects a ranking into map markers carrying their score.
func MapMarkers(ranked []schema.ScoredSchool) []schema.MapMarker {
	markers := make([]schema.MapMarker, len(ranked))
	for i, s := range ranked {
		score := s.Score
		markers[i] = schema.MapMarker{
			ID:      s.ID,
			Name:    s.Name,
			Address: s.Address,
			Lat:     s.Lat,
			Lng:     s.Lng,
			Score:   &score,
		}
	}
	return markers
}

// UnscoredMarkers projects raw schools into markers without a score.
func UnscoredMarkers(schools []schema.School) []schema.MapMarker {
	markers := make([]schema.MapMarker, len(schools))
	for i, s := range schools {
		markers[i] = schema.MapMarker{ID: s.ID, Name: s.Name, Address: s.Address, Lat: s.Lat, Lng: s.Lng}
	}
	return markers
}

// BuildCriteriaModel describes every criterion with its active weight and share.
func BuildCriteriaModel(weights schema.Weights) *schema.CriteriaRenderModel {
	normalized := weights.Normalized()
	total := normalized.Total()

	infos := make([]schema.CriterionInfo, len(schema.AllCriteria))
	var terms []string
	for i, c := range schema.AllCriteria {
		share := 0.0
		if total > 0 {
			share = normalized[c] / total * 100
		}
		infos[i] = schema.CriterionInfo{
			Key:         c,
			Label:       schema.CriterionLabel(c),
			Description: schema.CriterionDescriptions[c],
			Weight:      normalized[c],
			Share:       share,
		}
		if normalized[c] > 0 {
			terms = append(terms, fmt.Sprintf("%g*%s", normalized[c], c))
		}
	}

	formula := "0"
	if len(terms) > 0 {
		formula = fmt.Sprintf("(%s) / %g", strings.Join(terms, " + "), total)
	}

	return &schema.CriteriaRenderModel{
		Title:       "School Assessment Criteria",
		Description: "Score = weighted average of criterion ratings; invalid ratings are skipped",
		Criteria:    infos,
		TotalWeight: total,
		Formula:     formula,
	}
}
