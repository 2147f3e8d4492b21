package main

import (
	"fmt"
	"io"
	"os"
	"time"

	"vending-locator/internal/dataset"
	"vending-locator/internal/ingest"

	"github.com/rotisserie/eris"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var (
	parseIn       string
	parseOut      string
	parseVerified string
)

var parseCmd = &cobra.Command{
	Use:   "parse",
	Short: "Parse a raw text listing into a draft dataset",
	Long:  "Splits each listing line into retailer, machine id, address and \"city, state\", and writes draft records with unresolved coordinates.",
	RunE: func(cmd *cobra.Command, _ []string) error {
		verifiedOn := time.Now()
		if parseVerified != "" {
			t, err := time.Parse(ingest.DateLayout, parseVerified)
			if err != nil {
				return eris.Wrapf(err, "parse: invalid --verified %q", parseVerified)
			}
			verifiedOn = t
		}
		return runParse(cmd.OutOrStdout(), ingest.NewParser(cfg.FallbackState, cfg.GroceryRetailers, verifiedOn), parseIn, parseOut)
	},
}

func runParse(w io.Writer, parser *ingest.Parser, in, out string) error {
	f, err := os.Open(in)
	if err != nil {
		return eris.Wrap(err, "parse: open listing")
	}
	defer f.Close()

	res, err := parser.Parse(f)
	if err != nil {
		return eris.Wrap(err, "parse")
	}

	if err := dataset.Save(out, res.Records); err != nil {
		return eris.Wrap(err, "parse")
	}

	log.Info().Int("records", len(res.Records)).Int("dropped", res.Dropped).Str("out", out).Msg("parse complete")
	fmt.Fprintf(w, "Converted %d locations (%d lines dropped)\n", len(res.Records), res.Dropped)
	fmt.Fprintf(w, "Saved to: %s\n", out)
	return nil
}

func init() {
	parseCmd.Flags().StringVar(&parseIn, "in", "raw_text/locations.txt", "raw text listing")
	parseCmd.Flags().StringVar(&parseOut, "out", "data/locations.json", "draft dataset to write")
	parseCmd.Flags().StringVar(&parseVerified, "verified", "", "last_verified date, YYYY-MM-DD (default today)")
	rootCmd.AddCommand(parseCmd)
}
