package main

import (
	"fmt"
	"io"

	"vending-locator/internal/dataset"
	"vending-locator/internal/manual"

	"github.com/rotisserie/eris"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var (
	manualIn     string
	manualID     string
	manualCoords string
)

var manualCmd = &cobra.Command{
	Use:   "manual",
	Short: "Set coordinates for one record by hand",
	Long: "Without --coords, prints a map search link for the record's address. With --coords \"lat, lon\", " +
		"writes those coordinates into the dataset.",
	RunE: func(cmd *cobra.Command, _ []string) error {
		return runManual(cmd.OutOrStdout(), manualIn, manualID, manualCoords)
	},
}

func runManual(w io.Writer, in, id, coords string) error {
	records, err := dataset.Load(in)
	if err != nil {
		return eris.Wrap(err, "manual")
	}

	var found bool
	for _, loc := range records {
		if loc.ID != id {
			continue
		}
		found = true
		fmt.Fprintf(w, "%s: %s\n", loc.ID, loc.FullAddress())
		fmt.Fprintf(w, "Look up: %s\n", manual.MapsURL(loc))
		break
	}
	if !found {
		return eris.Wrapf(manual.ErrNotFound, "manual: %s", id)
	}
	if coords == "" {
		return nil
	}

	c, err := manual.ParseCoordinates(coords)
	if err != nil {
		return eris.Wrap(err, "manual")
	}
	if err := manual.Apply(records, id, c); err != nil {
		return eris.Wrap(err, "manual")
	}
	if err := dataset.Save(in, records); err != nil {
		return eris.Wrap(err, "manual")
	}

	log.Info().Str("id", id).Float64("lat", c.Latitude).Float64("lon", c.Longitude).Msg("manual coordinates saved")
	fmt.Fprintf(w, "Updated %s to (%g, %g)\n", id, c.Latitude, c.Longitude)
	return nil
}

func init() {
	manualCmd.Flags().StringVar(&manualIn, "in", "data/locations_geocoded.json", "dataset to update in place")
	manualCmd.Flags().StringVar(&manualID, "id", "", "location id")
	manualCmd.Flags().StringVar(&manualCoords, "coords", "", "coordinates as \"lat, lon\"")
	_ = manualCmd.MarkFlagRequired("id")
	rootCmd.AddCommand(manualCmd)
}
