package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("OPENWEATHER_API_KEY", "")
	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Port != "5000" {
		t.Fatalf("expected port 5000, got %q", cfg.Port)
	}
	if cfg.Location.Lat != DefaultLatitude || cfg.Location.Lon != DefaultLongitude {
		t.Fatalf("unexpected coordinates %+v", cfg.Location)
	}
	if cfg.Location.City != "As-Suwayda" || cfg.Location.Country != "Syria" {
		t.Fatalf("unexpected place %+v", cfg.Location)
	}
	if cfg.Units != "metric" || cfg.Lang != "ar" {
		t.Fatalf("unexpected units/lang %q/%q", cfg.Units, cfg.Lang)
	}
	if cfg.UpstreamTimeout != 10*time.Second {
		t.Fatalf("expected 10s timeout, got %s", cfg.UpstreamTimeout)
	}
	if cfg.OpenWeatherAPIKey != PlaceholderAPIKey {
		t.Fatalf("expected placeholder key, got %q", cfg.OpenWeatherAPIKey)
	}
	if cfg.Credentials().Valid() {
		t.Fatalf("placeholder credentials must not be valid")
	}
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("OPENWEATHER_API_KEY", "VALID_KEY")
	t.Setenv("WEATHER_SERVICE_PORT", "8095")
	t.Setenv("UPSTREAM_TIMEOUT", "3s")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example, https://b.example")
	t.Setenv("OPENWEATHER_BASE_URL", "http://localhost:9999/")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Port != "8095" {
		t.Fatalf("expected fallback port 8095, got %q", cfg.Port)
	}
	if cfg.UpstreamTimeout != 3*time.Second {
		t.Fatalf("expected 3s, got %s", cfg.UpstreamTimeout)
	}
	if len(cfg.AllowedOrigins) != 2 || cfg.AllowedOrigins[1] != "https://b.example" {
		t.Fatalf("unexpected origins %v", cfg.AllowedOrigins)
	}
	if cfg.BaseURL != "http://localhost:9999" {
		t.Fatalf("expected trailing slash trimmed, got %q", cfg.BaseURL)
	}
	if !cfg.Credentials().Valid() {
		t.Fatalf("expected credentials to be valid")
	}
}

func TestLoadTrimsAPIKey(t *testing.T) {
	t.Setenv("OPENWEATHER_API_KEY", "  VALID_KEY \n")
	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.OpenWeatherAPIKey != "VALID_KEY" {
		t.Fatalf("expected trimmed key, got %q", cfg.OpenWeatherAPIKey)
	}
}

func TestLoadCoordinateOverride(t *testing.T) {
	t.Setenv("WEATHER_LAT", " 33.5 ")
	t.Setenv("WEATHER_LON", "-36.25")
	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Location.Lat != 33.5 || cfg.Location.Lon != -36.25 {
		t.Fatalf("unexpected coordinates %+v", cfg.Location)
	}
}

func TestLoadPortPrefersPORT(t *testing.T) {
	t.Setenv("PORT", "7000")
	t.Setenv("WEATHER_SERVICE_PORT", "8095")
	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Port != "7000" {
		t.Fatalf("expected 7000, got %q", cfg.Port)
	}
}

func TestLoadRejectsBadValues(t *testing.T) {
	cases := map[string][2]string{
		"timeout":  {"UPSTREAM_TIMEOUT", "soon"},
		"language": {"WEATHER_LANG", "not a tag!"},
		"units":    {"WEATHER_UNITS", "kelvinish"},
		"lat":      {"WEATHER_LAT", "north"},
		"lon":      {"WEATHER_LON", "200"},
	}
	for name, kv := range cases {
		t.Run(name, func(t *testing.T) {
			t.Setenv(kv[0], kv[1])
			if _, err := Load(); err == nil {
				t.Fatalf("expected error for %s=%q", kv[0], kv[1])
			}
		})
	}
}

func TestCredentialsValid(t *testing.T) {
	cases := map[string]bool{
		"":                false,
		"   ":             false,
		PlaceholderAPIKey: false,
		"VALID_KEY":       true,
	}
	for key, want := range cases {
		if got := (ProviderCredentials{APIKey: key}).Valid(); got != want {
			t.Fatalf("Valid(%q) = %v, want %v", key, got, want)
		}
	}
}
