package main

import (
	"fmt"
	"os"

	"vending-locator/internal/config"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var (
	cfg       config.Config
	configDir string
)

var rootCmd = &cobra.Command{
	Use:   "pipeline",
	Short: "Vending location data pipeline",
	Long: "Turns free-text vending-machine listings into a geocoded dataset: parse, validate, geocode, " +
		"list failures, enter manual coordinates and reconcile the automated and manual datasets.",
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		c, err := config.LoadConfig(configDir)
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		cfg = c

		config.InitLogger(cfg)
		log.Logger = log.With().Str("run_id", uuid.NewString()).Str("stage", cmd.Name()).Logger()

		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configDir, "config", "configs", "directory holding app.env")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
