package config

import (
	"errors"
	"fmt"
	"log/slog"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
	"golang.org/x/text/language"
)

// PlaceholderAPIKey is the value shipped in sample configs. It is treated the
// same as a missing key.
const PlaceholderAPIKey = "YOUR_API_KEY_HERE"

const (
	DefaultLatitude  = 32.709106
	DefaultLongitude = 36.341773
)

type ProviderCredentials struct {
	APIKey string
}

// Valid reports whether the key may be sent upstream.
func (c ProviderCredentials) Valid() bool {
	key := strings.TrimSpace(c.APIKey)
	return key != "" && key != PlaceholderAPIKey
}

type Location struct {
	Lat     float64
	Lon     float64
	City    string
	Country string
}

type Config struct {
	Port              string
	SecretKey         string
	DatabaseURL       string
	OpenWeatherAPIKey string
	Location          Location
	Units             string
	Lang              string
	BaseURL           string
	TileURL           string
	UpstreamTimeout   time.Duration
	LogFormat         string
	LogLevel          string
	AllowedOrigins    []string
	OTLPEndpoint      string
}

func (c Config) Credentials() ProviderCredentials {
	return ProviderCredentials{APIKey: c.OpenWeatherAPIKey}
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("port", "5000")
	v.SetDefault("secret_key", "asdf#FGSgvasgf$5$WGT")
	v.SetDefault("database_url", "sqlite:///database/app.db")
	v.SetDefault("openweather_api_key", PlaceholderAPIKey)
	v.SetDefault("weather_lat", DefaultLatitude)
	v.SetDefault("weather_lon", DefaultLongitude)
	v.SetDefault("weather_city", "As-Suwayda")
	v.SetDefault("weather_country", "Syria")
	v.SetDefault("weather_units", "metric")
	v.SetDefault("weather_lang", "ar")
	v.SetDefault("openweather_base_url", "https://api.openweathermap.org")
	v.SetDefault("openweather_tile_url", "https://tile.openweathermap.org")
	v.SetDefault("upstream_timeout", "10s")
	v.SetDefault("log_format", "text")
	v.SetDefault("log_level", "info")
	v.SetDefault("cors_allowed_origins", "*")
	v.SetDefault("otel_exporter_otlp_endpoint", "")
}

// Load reads a .env file if one exists, then resolves every setting from the
// environment with defaults for the As-Suwayda deployment.
func Load() (Config, error) {
	if err := godotenv.Load(); err != nil {
		slog.Debug("no .env file found, using process environment")
	}

	v := viper.New()
	setDefaults(v)
	v.AutomaticEnv()
	if err := v.BindEnv("port", "PORT", "WEATHER_SERVICE_PORT"); err != nil {
		return Config{}, fmt.Errorf("bind port env: %w", err)
	}

	timeout := v.GetDuration("upstream_timeout")
	if timeout <= 0 {
		return Config{}, fmt.Errorf("invalid UPSTREAM_TIMEOUT %q", v.GetString("upstream_timeout"))
	}

	tag, err := language.Parse(v.GetString("weather_lang"))
	if err != nil {
		return Config{}, fmt.Errorf("invalid WEATHER_LANG: %w", err)
	}

	units := strings.ToLower(strings.TrimSpace(v.GetString("weather_units")))
	switch units {
	case "metric", "imperial", "standard":
	default:
		return Config{}, fmt.Errorf("invalid WEATHER_UNITS %q", units)
	}

	lat, err := parseCoordinate(v.GetString("weather_lat"), 90)
	if err != nil {
		return Config{}, fmt.Errorf("invalid WEATHER_LAT: %w", err)
	}
	lon, err := parseCoordinate(v.GetString("weather_lon"), 180)
	if err != nil {
		return Config{}, fmt.Errorf("invalid WEATHER_LON: %w", err)
	}

	baseURL := strings.TrimRight(v.GetString("openweather_base_url"), "/")
	tileURL := strings.TrimRight(v.GetString("openweather_tile_url"), "/")
	if baseURL == "" || tileURL == "" {
		return Config{}, errors.New("provider base URLs must not be empty")
	}

	return Config{
		Port:              v.GetString("port"),
		SecretKey:         v.GetString("secret_key"),
		DatabaseURL:       v.GetString("database_url"),
		OpenWeatherAPIKey: strings.TrimSpace(v.GetString("openweather_api_key")),
		Location: Location{
			Lat:     lat,
			Lon:     lon,
			City:    v.GetString("weather_city"),
			Country: v.GetString("weather_country"),
		},
		Units:           units,
		Lang:            tag.String(),
		BaseURL:         baseURL,
		TileURL:         tileURL,
		UpstreamTimeout: timeout,
		LogFormat:       strings.ToLower(v.GetString("log_format")),
		LogLevel:        strings.ToLower(v.GetString("log_level")),
		AllowedOrigins:  splitList(v.GetString("cors_allowed_origins")),
		OTLPEndpoint:    v.GetString("otel_exporter_otlp_endpoint"),
	}, nil
}

func parseCoordinate(s string, limit float64) (float64, error) {
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0, err
	}
	if math.IsNaN(f) || f < -limit || f > limit {
		return 0, fmt.Errorf("%q out of range [-%g, %g]", s, limit, limit)
	}
	return f, nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
