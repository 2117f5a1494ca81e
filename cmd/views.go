package cmd

import (
	"github.com/elcfinder/elcfinder/core"
	"github.com/elcfinder/elcfinder/internal/contract"
	"github.com/spf13/cobra"
)

// rankCmd ranks the schools by their weighted score.
var rankCmd = &cobra.Command{
	Use:   "rank [source]",
	Short: "Rank schools by a weighted average of their ratings",
	Long: `Score every school as the weighted average of its six criterion ratings
and print them from best to worst.

Each criterion is rated 0 to 10:
- cost, education, staff, facilities, reputation, nqs

Weights come from the config file (weights: section) and can be
overridden per run with --weights-override. A weight of 0 drops a criterion.

Examples:
  # Rank the default schools.json
  elcfinder rank

  # Care twice as much about cost, ignore reputation
  elcfinder rank --weights-override cost:10,reputation:0

  # Show address, ratings and what drives each score
  elcfinder rank --detail --explain

  # Print cards for the top 3
  elcfinder rank --cards --limit 3`,
	Args:    cobra.MaximumNArgs(1),
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteRank(rootCtx, cfg, storeManager); err != nil {
			contract.LogFatal("Cannot rank schools", err)
		}
	},
}

// chartCmd prints the ranking as horizontal bars.
var chartCmd = &cobra.Command{
	Use:   "chart [source]",
	Short: "Print ranked scores as a bar chart",
	Long: `Print one bar per school with its score on the 0-10 scale.

Examples:
  elcfinder chart --limit 10
  elcfinder chart --output csv --output-file scores.csv`,
	Args:    cobra.MaximumNArgs(1),
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteChart(rootCtx, cfg, storeManager); err != nil {
			contract.LogFatal("Cannot chart schools", err)
		}
	},
}

// mapCmd prints map markers for the ranked schools.
var mapCmd = &cobra.Command{
	Use:   "map [source]",
	Short: "Print map markers with coordinates and scores",
	Long: `Print one marker per ranked school with its coordinates and score,
ready to drop onto a map layer.

Examples:
  elcfinder map --output json --output-file markers.json`,
	Args:    cobra.MaximumNArgs(1),
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteMap(rootCtx, cfg, storeManager); err != nil {
			contract.LogFatal("Cannot build map markers", err)
		}
	},
}

// insightCmd prints the one-line insight about the best match.
var insightCmd = &cobra.Command{
	Use:   "insight [source]",
	Short: "Explain why the top school ranks first",
	Long: `Print a one-sentence insight about the top-ranked school and the
criteria that carry the most weight.

Examples:
  elcfinder insight --weights-override staff:10`,
	Args:    cobra.MaximumNArgs(1),
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteInsight(rootCtx, cfg, storeManager); err != nil {
			contract.LogFatal("Cannot build insight", err)
		}
	},
}

// criteriaCmd displays the criteria and the active weights.
var criteriaCmd = &cobra.Command{
	Use:   "criteria",
	Short: "Display the scoring criteria, weights and formula",
	Long: `Show every criterion with its active weight and share of the total,
plus the formula used to compute scores.

No schools are loaded - this is purely informational.

Examples:
  # Show default weights
  elcfinder criteria

  # View with custom weights from config file
  elcfinder criteria --config .elcfinder.yaml`,
	Args:    cobra.NoArgs,
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteCriteria(rootCtx, cfg, storeManager); err != nil {
			contract.LogFatal("Cannot display criteria", err)
		}
	},
}
