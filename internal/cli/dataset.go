package cli

import (
	"github.com/spf13/cobra"

	"github.com/tlemoine/gridfeed/internal/outwriter"
)

// datasetCmd assembles the model-ready feature frame.
var datasetCmd = &cobra.Command{
	Use:   "dataset",
	Short: "Assemble the joined load + temperature feature frame",
	Long: `Fetch hourly load and weighted temperature over the window, join them
on their common grid and derive the calendar features models train on:
cyclical day/month/weekday/hour encodings and a weekend flag.

Parquet output needs --output-file; table output shows a preview.

Examples:
  # A month of training data as parquet
  gridfeed dataset --start 2025-01-01T00:00:00Z --end 2025-02-01T00:00:00Z -o parquet --output-file frame.parquet

  # Quick look at the first rows
  gridfeed dataset --start 2025-01-01T00:00:00Z --end 2025-01-03T00:00:00Z`,
	PreRunE: sharedSetup,
	RunE: func(_ *cobra.Command, _ []string) error {
		start, end, err := window()
		if err != nil {
			return err
		}
		opts, err := outputOptions()
		if err != nil {
			return err
		}

		ds, err := services.builder.Build(rootCtx, start, end)
		if err != nil {
			return err
		}
		return outwriter.WriteDataset(ds, opts)
	},
}
