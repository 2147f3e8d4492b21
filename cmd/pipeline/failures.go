package main

import (
	"fmt"
	"io"

	"vending-locator/internal/failures"

	"github.com/rotisserie/eris"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var (
	failuresIn   string
	failuresJSON string
	failuresText string
)

var failuresCmd = &cobra.Command{
	Use:   "failures",
	Short: "List records the geocoder could not resolve",
	RunE: func(cmd *cobra.Command, _ []string) error {
		return runFailures(cmd.OutOrStdout(), failuresIn, failuresJSON, failuresText)
	},
}

func runFailures(w io.Writer, in, jsonOut, textOut string) error {
	report, err := failures.Track(in, jsonOut, textOut)
	if err != nil {
		return eris.Wrap(err, "failures")
	}

	for _, loc := range report.Anomalous {
		log.Warn().Str("id", loc.ID).Float64("lat", loc.Latitude).Float64("lon", loc.Longitude).
			Msg("partially resolved coordinates")
	}
	log.Info().
		Int("total", report.Total()).
		Int("resolved", len(report.Resolved)).
		Int("unresolved", len(report.Unresolved)).
		Int("anomalous", len(report.Anomalous)).
		Msg("failure tracking complete")

	fmt.Fprintf(w, "Total locations: %d\n", report.Total())
	fmt.Fprintf(w, "Successfully geocoded: %d\n", len(report.Resolved))
	fmt.Fprintf(w, "Failed geocoding: %d\n", len(report.Unresolved))
	if len(report.Anomalous) > 0 {
		fmt.Fprintf(w, "Partially resolved: %d\n", len(report.Anomalous))
	}
	fmt.Fprintf(w, "Saved failed locations to: %s\n", jsonOut)
	fmt.Fprintf(w, "Saved listing to: %s\n", textOut)
	return nil
}

func init() {
	failuresCmd.Flags().StringVar(&failuresIn, "in", "data/locations_geocoded.json", "geocoded dataset")
	failuresCmd.Flags().StringVar(&failuresJSON, "json", "data/failed_locations.json", "unresolved records to write")
	failuresCmd.Flags().StringVar(&failuresText, "text", "data/failed_locations.txt", "operator listing to write")
	rootCmd.AddCommand(failuresCmd)
}
