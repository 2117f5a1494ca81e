package outwriter

import (
	"fmt"
	"io"
	"strings"

	"github.com/elcfinder/elcfinder/internal/contract"
	"github.com/elcfinder/elcfinder/schema"
	"github.com/fatih/color"
)

var cardTitle = color.New(color.Bold)

// WriteCards prints each ranked school as a card. Machine-readable outputs
// carry the same data as the ranking export.
func WriteCards(ranked []schema.ScoredSchool, cfg *contract.Config) error {
	if !isTextOutput(cfg) {
		return WriteRankings(ranked, cfg, 0)
	}
	return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
		return writeCards(w, ranked, cfg)
	}, "Wrote cards")
}

// writeCards renders the card list.
func writeCards(w io.Writer, ranked []schema.ScoredSchool, cfg *contract.Config) error {
	if len(ranked) == 0 {
		_, err := fmt.Fprintln(w, "No schools available.")
		return err
	}

	fmtFloat, _ := createFormatters(cfg.Precision)
	for i, enriched := range schema.EnrichSchools(ranked) {
		if i > 0 {
			if _, err := fmt.Fprintln(w); err != nil {
				return err
			}
		}
		if err := writeCard(w, enriched, cfg, fmtFloat); err != nil {
			return err
		}
	}
	return nil
}

// writeCard renders a single school card.
func writeCard(w io.Writer, s schema.EnrichedSchool, cfg *contract.Config, fmtFloat func(float64) string) error {
	title := fmt.Sprintf("#%d %s", s.Rank, cardTitle.Sprint(s.Name))
	if badge := contract.StatusBadge(s.Status, cfg.UseColors); badge != "" {
		title += " " + badge
	}

	ratings := make([]string, len(schema.AllCriteria))
	for i, c := range schema.AllCriteria {
		ratings[i] = fmt.Sprintf("%s %s", schema.CriterionLabel(c), schema.FormatRating(schema.Rating(s.Rating(c)), cfg.Precision))
	}

	lines := []string{
		title,
		"   " + s.Summary,
		"   " + s.Strengths,
		"   " + strings.Join(ratings, " | "),
		fmt.Sprintf("   Score: %s (%s)", fmtFloat(s.Score), contract.GetColorLabel(s.Score)),
	}
	if s.FeePerDay > 0 {
		lines = append(lines, fmt.Sprintf("   Fee per day: $%.2f", s.FeePerDay))
	}
	if cfg.Explain {
		lines = append(lines, "   Driven by: "+formatTopContributors(s.ScoredSchool))
	}

	for _, line := range lines {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}
