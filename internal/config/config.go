package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/tlemoine/gridfeed/internal/energy"
	"github.com/tlemoine/gridfeed/internal/rte"
)

// defaultCities is the population-weighted aggregation set behind the
// national temperature signal, encoded as name:lat:lon:weight.
const defaultCities = "paris:48.8566:2.3522:0.18," +
	"marseille:43.2965:5.3698:0.12," +
	"lyon:45.764:4.8357:0.10," +
	"lille:50.6292:3.0573:0.10," +
	"toulouse:43.6047:1.4442:0.09," +
	"bordeaux:44.8378:-0.5792:0.09," +
	"nice:43.7102:7.262:0.08," +
	"nantes:47.2184:-1.5536:0.08," +
	"strasbourg:48.5734:7.7521:0.08," +
	"rennes:48.1173:-1.6778:0.08"

// defaultLoadThreshold is the instant the load upstream switched its native
// sampling from hourly to 15 minutes.
const defaultLoadThreshold = "2024-12-31T00:00:00Z"

type AppConfig struct {
	// HTTPTimeout bounds every outbound provider call.
	HTTPTimeout time.Duration

	Port string

	// RTE carries endpoint layout and per-product credentials.
	RTE rte.Config

	// ENTSO-E transparency platform access for electricity load.
	ENTSOEBaseURL string
	ENTSOEToken   string

	// LoadArea is the bidding zone queried for load, as a short country
	// code or a full EIC code.
	LoadArea      string
	LoadThreshold time.Time

	// Open-Meteo archive access for city temperatures.
	OpenMeteoBaseURL string
	WeatherTimezone  string
	Cities           []energy.SourceWeight
}

// Load reads configuration from environment with sensible defaults.
func Load() (*AppConfig, error) {
	if err := godotenv.Load(); err != nil {
		log.Printf("INFO: No .env file found or error loading it: %v", err)
	}
	cfg := &AppConfig{}

	timeoutStr := getenvDefault("HTTP_TIMEOUT", "30s")
	timeout, err := time.ParseDuration(timeoutStr)
	if err != nil {
		return nil, fmt.Errorf("invalid HTTP_TIMEOUT: %w", err)
	}
	cfg.HTTPTimeout = timeout
	cfg.Port = getenvDefault("PORT", "8080")

	cfg.RTE = rte.Config{
		BaseURL:             getenvDefault("RTE_BASE_URL", "https://digital.iservices.rte-france.com/"),
		TokenPath:           getenvDefault("RTE_TOKEN_PATH", "token/oauth/"),
		ConsumptionPath:     getenvDefault("RTE_CONSUMPTION_PATH", "open_api/consumption/v1/short_term"),
		WholesaleMarketPath: getenvDefault("RTE_WHOLESALE_MARKET_PATH", "open_api/wholesale_market/v3/france_power_exchanges"),
		Consumption: rte.Credentials{
			ClientID:     os.Getenv("RTE_CONSUMPTION_CLIENT_ID"),
			ClientSecret: os.Getenv("RTE_CONSUMPTION_CLIENT_SECRET"),
		},
		WholesaleMarket: rte.Credentials{
			ClientID:     os.Getenv("RTE_WHOLESALE_MARKET_CLIENT_ID"),
			ClientSecret: os.Getenv("RTE_WHOLESALE_MARKET_CLIENT_SECRET"),
		},
		TokenCacheDir: getenvDefault("RTE_TOKEN_CACHE_DIR", "token"),
	}

	cfg.ENTSOEBaseURL = os.Getenv("ENTSOE_BASE_URL")
	cfg.ENTSOEToken = os.Getenv("ENTSOE_TOKEN")
	cfg.LoadArea = getenvDefault("LOAD_AREA", "FR")

	thresholdStr := getenvDefault("LOAD_FREQUENCY_THRESHOLD", defaultLoadThreshold)
	threshold, err := time.Parse(time.RFC3339, thresholdStr)
	if err != nil {
		return nil, fmt.Errorf("invalid LOAD_FREQUENCY_THRESHOLD: %w", err)
	}
	cfg.LoadThreshold = threshold

	cfg.OpenMeteoBaseURL = os.Getenv("OPENMETEO_BASE_URL")
	cfg.WeatherTimezone = getenvDefault("WEATHER_TIMEZONE", "Europe/Paris")

	cities, err := parseCities(getenvDefault("WEATHER_CITIES", defaultCities))
	if err != nil {
		return nil, err
	}
	cfg.Cities = cities

	return cfg, nil
}

func parseCities(raw string) ([]energy.SourceWeight, error) {
	var cities []energy.SourceWeight
	for _, entry := range strings.Split(raw, ",") {
		entry = strings.TrimSpace(entry)
		if entry == "" {
			continue
		}
		parts := strings.Split(entry, ":")
		if len(parts) != 4 {
			return nil, fmt.Errorf("invalid WEATHER_CITIES entry %q: want name:lat:lon:weight", entry)
		}
		lat, err := strconv.ParseFloat(parts[1], 64)
		if err != nil {
			return nil, fmt.Errorf("invalid latitude in WEATHER_CITIES entry %q: %w", entry, err)
		}
		lon, err := strconv.ParseFloat(parts[2], 64)
		if err != nil {
			return nil, fmt.Errorf("invalid longitude in WEATHER_CITIES entry %q: %w", entry, err)
		}
		weight, err := strconv.ParseFloat(parts[3], 64)
		if err != nil {
			return nil, fmt.Errorf("invalid weight in WEATHER_CITIES entry %q: %w", entry, err)
		}
		cities = append(cities, energy.SourceWeight{ID: parts[0], Lat: lat, Lon: lon, Weight: weight})
	}
	if len(cities) == 0 {
		return nil, fmt.Errorf("no aggregation cities configured")
	}
	return cities, nil
}

func getenvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
