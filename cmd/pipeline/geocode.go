package main

import (
	"context"
	"fmt"
	"io"
	"os/signal"
	"syscall"

	"vending-locator/internal/config"
	"vending-locator/internal/geocoder"
	"vending-locator/pkg/nominatim"

	"github.com/rotisserie/eris"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var (
	geocodeIn  string
	geocodeOut string
)

var geocodeCmd = &cobra.Command{
	Use:   "geocode",
	Short: "Resolve unresolved coordinates through the search service",
	Long: "Looks up every record still at (0, 0), one request at a time with at least GEOCODER_MIN_DELAY " +
		"between requests. Already resolved records are skipped, so the command can be re-run. " +
		"The full dataset is saved even when interrupted.",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		return runGeocode(ctx, cmd.OutOrStdout(), newGeocoder(cfg), geocodeIn, geocodeOut)
	},
}

func newGeocoder(c config.Config) *geocoder.Geocoder {
	client := nominatim.NewClient(
		nominatim.WithBaseURL(c.GeocoderURL),
		nominatim.WithUserAgent(c.GeocoderUserAgent),
		nominatim.WithTimeout(c.GeocoderTimeout),
	)
	return geocoder.New(client, c.GeocoderMinDelay)
}

func runGeocode(ctx context.Context, w io.Writer, g *geocoder.Geocoder, in, out string) error {
	s, err := g.RunFile(ctx, in, out)
	if err != nil {
		return eris.Wrap(err, "geocode")
	}

	log.Info().
		Int("total", s.Total).
		Int("succeeded", s.Succeeded).
		Int("failed", s.Failed).
		Int("skipped", s.Skipped).
		Int("anomalies", s.Anomalies).
		Int("remaining", s.Remaining).
		Msg("geocoding complete")

	fmt.Fprintln(w, "Geocoding complete!")
	fmt.Fprintf(w, "   Successful: %d\n", s.Succeeded)
	fmt.Fprintf(w, "   Failed: %d\n", s.Failed)
	fmt.Fprintf(w, "   Already resolved: %d\n", s.Skipped)
	if s.Anomalies > 0 {
		fmt.Fprintf(w, "   Partially resolved (left untouched): %d\n", s.Anomalies)
	}
	if s.Interrupted() {
		fmt.Fprintf(w, "   Interrupted, not attempted: %d\n", s.Remaining)
	}
	fmt.Fprintf(w, "   Saved to: %s\n", out)

	if s.Interrupted() {
		return eris.Wrap(ctx.Err(), "geocode: interrupted")
	}
	return nil
}

func init() {
	geocodeCmd.Flags().StringVar(&geocodeIn, "in", "data/locations.json", "draft dataset")
	geocodeCmd.Flags().StringVar(&geocodeOut, "out", "data/locations_geocoded.json", "geocoded dataset to write")
	rootCmd.AddCommand(geocodeCmd)
}
