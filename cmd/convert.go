package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/elcfinder/elcfinder/internal/contract"
	"github.com/elcfinder/elcfinder/internal/ingest"
	"github.com/elcfinder/elcfinder/schema"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// convertSetup loads only the settings the converter needs.
func convertSetup(_ *cobra.Command, _ []string) error {
	if err := loadConfigFile(); err != nil {
		return err
	}

	policy := schema.MissingRatings(strings.ToLower(viper.GetString("missing-ratings")))
	if policy == "" {
		policy = schema.ZeroMissingRatings
	}
	if _, ok := schema.ValidMissingRatings[policy]; !ok {
		return fmt.Errorf("invalid missing-ratings policy '%s'. must be zero, skip", policy)
	}

	cfg.MissingRatings = policy
	cfg.OutputFile = viper.GetString("output-file")
	return nil
}

// convertCmd turns a spreadsheet export into the JSON school list.
var convertCmd = &cobra.Command{
	Use:   "convert <csv>",
	Short: "Convert a CSV export into the JSON school list",
	Long: `Read a CSV export of schools and write the normalized JSON array that
the other commands load.

Rows without a name or address are skipped with a warning. Ratings that
are blank or not numbers follow --missing-ratings.

Examples:
  elcfinder convert schools.csv --output-file schools.json
  elcfinder convert schools.csv --missing-ratings skip > schools.json`,
	Args:    cobra.ExactArgs(1),
	PreRunE: convertSetup,
	Run: func(_ *cobra.Command, args []string) {
		in, err := os.Open(args[0])
		if err != nil {
			contract.LogFatal("Cannot open CSV file", err)
		}
		defer func() { _ = in.Close() }()

		out, err := contract.SelectOutputFile(cfg.OutputFile)
		if err != nil {
			contract.LogFatal("Cannot open output file", err)
		}
		if out != os.Stdout {
			defer func() { _ = out.Close() }()
		}

		n, err := ingest.Convert(in, out, cfg.MissingRatings)
		if err != nil {
			contract.LogFatal("Cannot convert CSV file", err)
		}
		if cfg.OutputFile != "" {
			_, _ = fmt.Fprintf(os.Stderr, "💾 Wrote %d schools to %s\n", n, cfg.OutputFile)
		}
	},
}
