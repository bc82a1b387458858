package cli

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/tlemoine/gridfeed/internal/config"
	"github.com/tlemoine/gridfeed/internal/dataset"
	"github.com/tlemoine/gridfeed/internal/energy"
	"github.com/tlemoine/gridfeed/internal/energy/providers"
	"github.com/tlemoine/gridfeed/internal/outwriter"
	"github.com/tlemoine/gridfeed/internal/rte"
)

// All linker flags will be set by goreleaser infra at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// rootCtx is the root context for all operations.
var rootCtx = context.Background()

// backends holds the services built once per invocation by sharedSetup.
type backends struct {
	cfg         *config.AppConfig
	load        *energy.LoadService
	temperature *energy.TemperatureService
	rte         *rte.Client
	builder     *dataset.Builder
}

var services = &backends{}

// rootCmd is the command-line entrypoint for all other commands.
var rootCmd = &cobra.Command{
	Use:                "gridfeed",
	Short:              "Fetch French grid load, consumption, prices and weather as clean hourly series.",
	Long:               `Gridfeed pulls electricity load, short-term consumption, day-ahead market results and population-weighted temperature from their upstream APIs and reduces them onto one canonical UTC grid.`,
	Version:            version,
	SilenceErrors:      true,
	SilenceUsage:       true,
	DisableSuggestions: true,
	Run: func(cmd *cobra.Command, _ []string) {
		_ = cmd.Help()
	},
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	// Check if a specific config file is provided
	if configFile := viper.GetString("config"); configFile != "" {
		viper.SetConfigFile(configFile)
	} else {
		viper.SetConfigName(".gridfeed") // Name of config file (without extension)
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")     // Look in the current directory
		viper.AddConfigPath("$HOME") // Look in the home directory
	}

	// Set environment variable prefix
	viper.SetEnvPrefix("GRIDFEED")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv() // Read in environment variables that match

	// Set defaults in Viper
	viper.SetDefault("output", string(outwriter.TextOut))
	viper.SetDefault("precision", 2)
	viper.SetDefault("color", "yes")
	viper.SetDefault("types", rte.Realised.String())
}

// sharedSetup reads the config file, loads the environment configuration and
// builds the upstream services every command draws from.
func sharedSetup(_ *cobra.Command, _ []string) error {
	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			// Config file was found but another error was produced
			return fmt.Errorf("error reading config file: %w", err)
		}
		// Config file not found, which is fine; we'll use defaults/env/flags.
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if timeoutStr := viper.GetString("timeout"); timeoutStr != "" {
		timeout, err := time.ParseDuration(timeoutStr)
		if err != nil {
			return fmt.Errorf("invalid --timeout: %w", err)
		}
		cfg.HTTPTimeout = timeout
	}

	// Shared HTTP client for outbound provider calls.
	httpClient := &http.Client{Timeout: cfg.HTTPTimeout}

	tz, err := time.LoadLocation(cfg.WeatherTimezone)
	if err != nil {
		return fmt.Errorf("invalid WEATHER_TIMEZONE: %w", err)
	}

	loadSource := providers.NewENTSOEProvider(httpClient, cfg.ENTSOEBaseURL, cfg.ENTSOEToken)
	tempSource := providers.NewOpenMeteoProvider(httpClient, cfg.OpenMeteoBaseURL, cfg.WeatherTimezone)

	services.cfg = cfg
	services.load = energy.NewLoadService(loadSource, cfg.LoadArea, cfg.LoadThreshold)
	services.temperature = energy.NewTemperatureService(tempSource, cfg.Cities, tz)
	services.rte = rte.NewClient(httpClient, cfg.RTE)
	services.builder = dataset.NewBuilder(services.load, services.temperature)

	return nil
}

// window resolves the --start/--end flags. Both are required; services
// re-check the ordering with their own grid arithmetic.
func window() (time.Time, time.Time, error) {
	startStr := viper.GetString("start")
	endStr := viper.GetString("end")
	if startStr == "" || endStr == "" {
		return time.Time{}, time.Time{}, errors.New("--start and --end are required")
	}

	start, err := parseTime(startStr)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("invalid --start: %w", err)
	}
	end, err := parseTime(endStr)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("invalid --end: %w", err)
	}
	return start, end, nil
}

// parseTime tries to parse either RFC3339 or Unix seconds.
func parseTime(s string) (time.Time, error) {
	if ts, err := time.Parse(time.RFC3339, s); err == nil {
		return ts, nil
	}
	if unix, err := strconv.ParseInt(s, 10, 64); err == nil {
		return time.Unix(unix, 0).UTC(), nil
	}
	return time.Time{}, errors.New("invalid time format; use RFC3339 or unix seconds")
}

// outputOptions resolves the shared rendering flags.
func outputOptions() (outwriter.Options, error) {
	format, err := outwriter.ParseFormat(viper.GetString("output"))
	if err != nil {
		return outwriter.Options{}, err
	}
	return outwriter.Options{
		Format:     format,
		OutputFile: viper.GetString("output-file"),
		Precision:  viper.GetInt("precision"),
		Color:      parseYesNo(viper.GetString("color")),
	}, nil
}

func parseYesNo(s string) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "yes", "true", "1", "on":
		return true
	}
	return false
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
