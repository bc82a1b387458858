// Package cli defines the command-line interface for gridfeed.
package cli

import (
	"log"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/tlemoine/gridfeed/internal/outwriter"
	"github.com/tlemoine/gridfeed/internal/rte"
)

func init() {
	// Call initConfig on Cobra's initialization
	cobra.OnInitialize(initConfig)

	// Add primary subcommands to the root command
	rootCmd.AddCommand(loadCmd)
	rootCmd.AddCommand(temperatureCmd)
	rootCmd.AddCommand(consumptionCmd)
	rootCmd.AddCommand(pricesCmd)
	rootCmd.AddCommand(datasetCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(versionCmd)

	// Bind all persistent flags of rootCmd to Viper
	rootCmd.PersistentFlags().String("start", "", "Window start in RFC3339 or unix seconds")
	rootCmd.PersistentFlags().String("end", "", "Window end in RFC3339 or unix seconds")
	rootCmd.PersistentFlags().StringP("output", "o", string(outwriter.TextOut), "Output format: table or csv or json or parquet")
	rootCmd.PersistentFlags().String("output-file", "", "Optional path to write output to")
	rootCmd.PersistentFlags().Int("precision", 2, "Decimal precision for numeric columns")
	rootCmd.PersistentFlags().String("color", "yes", "Enable colored labels in table output (yes/no/true/false/1/0)")
	rootCmd.PersistentFlags().String("timeout", "", "Override the outbound HTTP timeout (e.g. 45s)")
	rootCmd.PersistentFlags().String("config", "", "Path to config file")
	if err := viper.BindPFlags(rootCmd.PersistentFlags()); err != nil {
		log.Fatalf("Error binding root flags: %v", err)
	}

	// Bind all flags of consumptionCmd to Viper
	consumptionCmd.Flags().String("types", rte.Realised.String(), "Comma-separated prevision types: REALISED, CORRECTED, ID, D-1, D-2")
	if err := viper.BindPFlags(consumptionCmd.Flags()); err != nil {
		log.Fatalf("Error binding consumption flags: %v", err)
	}

	// Bind all flags of serveCmd to Viper
	serveCmd.Flags().String("port", "", "Listen port (overrides PORT)")
	if err := viper.BindPFlags(serveCmd.Flags()); err != nil {
		log.Fatalf("Error binding serve flags: %v", err)
	}
}
