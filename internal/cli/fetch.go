package cli

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/tlemoine/gridfeed/internal/outwriter"
	"github.com/tlemoine/gridfeed/internal/rte"
	"github.com/tlemoine/gridfeed/internal/timeseries"
)

// loadCmd fetches the hourly electricity load for the configured area.
var loadCmd = &cobra.Command{
	Use:   "load",
	Short: "Fetch hourly electricity load over a window",
	Long: `Fetch the hourly electricity load for the configured bidding zone.

Windows ending before the upstream's sampling switchover are served at the
native hourly rate; later windows are fetched at 15 minutes and averaged per
hour; windows spanning the switchover are stitched at the seam.

Examples:
  # One week of French load as a table
  gridfeed load --start 2025-01-06T00:00:00Z --end 2025-01-13T00:00:00Z

  # The same week as CSV in a file
  gridfeed load --start 2025-01-06T00:00:00Z --end 2025-01-13T00:00:00Z -o csv --output-file load.csv`,
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

		s, err := services.load.Hourly(rootCtx, start, end)
		if err != nil {
			return err
		}
		return outwriter.WriteSeries("load", s, opts)
	},
}

// temperatureCmd fetches the weighted national temperature.
var temperatureCmd = &cobra.Command{
	Use:   "temperature",
	Short: "Fetch the population-weighted hourly temperature over a window",
	Long: `Fetch hourly temperature for every configured city concurrently and
combine them into one population-weighted national series.

Examples:
  # A day of weighted temperature as JSON
  gridfeed temperature --start 2025-01-06T00:00:00Z --end 2025-01-07T00:00:00Z -o json`,
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

		s, err := services.temperature.WeightedHourly(rootCtx, start, end)
		if err != nil {
			return err
		}
		return outwriter.WriteSeries("temperature", s, opts)
	},
}

// consumptionCmd fetches short-term consumption signals from RTE.
var consumptionCmd = &cobra.Command{
	Use:   "consumption",
	Short: "Fetch short-term consumption signals over a window",
	Long: `Fetch one or more short-term consumption signals from RTE on the
canonical 15-minute grid. The upstream only serves whole days, so the window
is widened to day boundaries for the request and cut back afterwards.

Examples:
  # Realised consumption for one day
  gridfeed consumption --start 2025-01-06T00:00:00Z --end 2025-01-07T00:00:00Z

  # Realised signal next to the day-ahead forecast
  gridfeed consumption --types REALISED,D-1 --start 2025-01-06T00:00:00Z --end 2025-01-07T00:00:00Z`,
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
		types, err := rte.ParsePrevisionTypes(viper.GetString("types"))
		if err != nil {
			return err
		}

		byType, err := services.rte.ShortTermConsumptions(rootCtx, types, start, end)
		if err != nil {
			return err
		}

		set := make(map[string]timeseries.Series, len(byType))
		for typ, s := range byType {
			set[typ.String()] = s
		}
		return outwriter.WriteSeriesSet("consumption", set, opts)
	},
}

// pricesCmd fetches the day-ahead market results.
var pricesCmd = &cobra.Command{
	Use:   "prices",
	Short: "Fetch the current day-ahead market volumes and prices",
	Long: `Fetch the France power exchange results from RTE. The upstream fixes
the window itself, so this command takes no --start/--end.

Examples:
  gridfeed prices
  gridfeed prices -o json --output-file prices.json`,
	PreRunE: sharedSetup,
	RunE: func(_ *cobra.Command, _ []string) error {
		opts, err := outputOptions()
		if err != nil {
			return err
		}

		ex, err := services.rte.FrancePowerExchanges(rootCtx)
		if err != nil {
			return err
		}
		return outwriter.WriteSeriesSet("prices", map[string]timeseries.Series{
			"volume": ex.Volume,
			"price":  ex.Price,
		}, opts)
	},
}
