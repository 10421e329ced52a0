package relay

import (
	"context"
	"errors"
	"log/slog"

	"weather-service/internal/models"
	"weather-service/internal/owm"
)

const (
	msgMissingKey      = "API key not configured. Please set OPENWEATHER_API_KEY"
	msgMissingKeyLayer = "API key not configured"
)

// Relay answers the weather routes for the configured location. It holds no
// mutable state and is safe for concurrent use.
type Relay struct {
	client *owm.Client
}

func New(client *owm.Client) *Relay {
	return &Relay{client: client}
}

func (r *Relay) FetchCurrent(ctx context.Context) ([]byte, error) {
	return r.fetch(ctx, owm.EndpointCurrent, "Failed to fetch weather data")
}

func (r *Relay) FetchForecast(ctx context.Context) ([]byte, error) {
	return r.fetch(ctx, owm.EndpointForecast, "Failed to fetch forecast data")
}

// FetchCombined queries the One Call endpoint.
func (r *Relay) FetchCombined(ctx context.Context) ([]byte, error) {
	return r.fetch(ctx, owm.EndpointOneCall, "Failed to fetch One Call data")
}

func (r *Relay) Coordinates() models.Coordinates {
	loc := r.client.Location()
	return models.Coordinates{
		Latitude:  loc.Lat,
		Longitude: loc.Lon,
		City:      loc.City,
		Country:   loc.Country,
	}
}

func (r *Relay) MapLayers() (map[string]string, error) {
	if !r.client.Credentials().Valid() {
		return nil, configurationError(msgMissingKeyLayer)
	}
	return r.client.MapLayers(), nil
}

func (r *Relay) fetch(ctx context.Context, endpoint owm.Endpoint, failure string) ([]byte, error) {
	if !r.client.Credentials().Valid() {
		slog.Info("weather request rejected: api key not configured", "endpoint", endpoint)
		return nil, configurationError(msgMissingKey)
	}

	body, err := r.client.Fetch(ctx, endpoint)
	if err == nil {
		return body, nil
	}

	var transportErr *owm.TransportError
	var statusErr *owm.StatusError
	switch {
	case errors.As(err, &transportErr), errors.As(err, &statusErr), errors.Is(err, owm.ErrBodyTooLarge):
		slog.Warn("upstream weather request failed", "endpoint", endpoint, "error", err)
		return nil, upstreamError(failure, err)
	default:
		slog.Error("weather request failed", "endpoint", endpoint, "error", err)
		return nil, internalError("Unexpected error", err)
	}
}
