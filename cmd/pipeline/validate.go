package main

import (
	"fmt"
	"io"

	"vending-locator/internal/validate"

	"github.com/rotisserie/eris"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var (
	validateIn     string
	validateStrict bool
)

// errFindings is returned under --strict when the dataset has findings.
var errFindings = eris.New("validate: dataset has findings")

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Check a dataset for missing fields and type errors",
	RunE: func(cmd *cobra.Command, _ []string) error {
		return runValidate(cmd.OutOrStdout(), validateIn, validateStrict)
	},
}

func runValidate(w io.Writer, in string, strict bool) error {
	findings, err := validate.File(in)
	if err != nil {
		return eris.Wrap(err, "validate")
	}

	log.Info().Int("findings", len(findings)).Str("in", in).Msg("validation complete")
	if len(findings) == 0 {
		fmt.Fprintln(w, "All entries are valid")
		return nil
	}

	fmt.Fprintln(w, "Validation completed with errors:")
	for _, f := range findings {
		fmt.Fprintln(w, " -", f)
	}
	if strict {
		return errFindings
	}
	return nil
}

func init() {
	validateCmd.Flags().StringVar(&validateIn, "in", "data/locations.json", "dataset to validate")
	validateCmd.Flags().BoolVar(&validateStrict, "strict", false, "exit non-zero when there are findings")
	rootCmd.AddCommand(validateCmd)
}
