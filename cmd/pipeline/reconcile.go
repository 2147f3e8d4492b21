package main

import (
	"fmt"
	"io"

	"vending-locator/internal/reconcile"

	"github.com/rotisserie/eris"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var (
	reconcileAuto   string
	reconcileManual string
	reconcileOut    string
)

var reconcileCmd = &cobra.Command{
	Use:   "reconcile",
	Short: "Merge the automated and manual datasets into the authoritative one",
	RunE: func(cmd *cobra.Command, _ []string) error {
		return runReconcile(cmd.OutOrStdout(), reconcileAuto, reconcileManual, reconcileOut)
	},
}

func runReconcile(w io.Writer, autoPath, manualPath, out string) error {
	res, err := reconcile.MergeFiles(autoPath, manualPath, out)
	if err != nil {
		return eris.Wrap(err, "reconcile")
	}

	log.Info().
		Int("total", res.Total()).
		Int("resolved", res.Resolved()).
		Int("still_missing", res.Missing()).
		Int("mismatches", len(res.Mismatches)).
		Int("anomalous", len(res.Anomalous)).
		Msg("reconciliation complete")

	fmt.Fprintln(w, "Merge complete!")
	fmt.Fprintf(w, "Total locations: %d\n", res.Total())
	fmt.Fprintf(w, "Locations with coordinates: %d\n", res.Resolved())
	fmt.Fprintf(w, "Locations still missing coordinates: %d\n", res.Missing())
	if len(res.Mismatches) > 0 {
		fmt.Fprintf(w, "Skipped id mismatches: %d\n", len(res.Mismatches))
	}
	if len(res.Anomalous) > 0 {
		fmt.Fprintf(w, "Partially resolved, reset to unresolved: %d\n", len(res.Anomalous))
	}
	fmt.Fprintf(w, "Saved to: %s\n", out)
	return nil
}

func init() {
	reconcileCmd.Flags().StringVar(&reconcileAuto, "auto", "data/locations_geocoded.json", "automatically geocoded dataset")
	reconcileCmd.Flags().StringVar(&reconcileManual, "manual", "data/locations_manual.json", "manually geocoded dataset")
	reconcileCmd.Flags().StringVar(&reconcileOut, "out", "data/complete_locations.json", "authoritative dataset to write")
	rootCmd.AddCommand(reconcileCmd)
}
