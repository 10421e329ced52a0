package owm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"weather-service/internal/config"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

const instrumentationName = "weather-service/internal/owm"

// maxBodyBytes bounds how much of an upstream body is read into memory.
const maxBodyBytes = 8 << 20

type Endpoint string

const (
	EndpointCurrent  Endpoint = "current"
	EndpointForecast Endpoint = "forecast"
	EndpointOneCall  Endpoint = "onecall"
)

func (e Endpoint) path() (string, bool) {
	switch e {
	case EndpointCurrent:
		return "/data/2.5/weather", true
	case EndpointForecast:
		return "/data/2.5/forecast", true
	case EndpointOneCall:
		return "/data/3.0/onecall", true
	}
	return "", false
}

// ErrInvalidJSON is returned when the provider answers 200 with a body that is
// not JSON.
var ErrInvalidJSON = errors.New("provider returned a non-JSON body")

// ErrBodyTooLarge is returned when a provider body exceeds maxBodyBytes.
var ErrBodyTooLarge = fmt.Errorf("provider response exceeds %d bytes", maxBodyBytes)

// TransportError wraps a failure to reach the provider or to read its answer.
// Err never carries the request URL, which holds the API key.
type TransportError struct {
	Err error
}

func (e *TransportError) Error() string { return e.Err.Error() }

func (e *TransportError) Unwrap() error { return e.Err }

// transportError drops the *url.Error layer, whose message repeats the full
// request URL including appid.
func transportError(err error) *TransportError {
	var ue *url.Error
	if errors.As(err, &ue) {
		err = ue.Err
	}
	return &TransportError{Err: err}
}

// StatusError is a non-2xx answer from the provider.
type StatusError struct {
	Status int
	Body   string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("API returned status %d", e.Status)
	}
	return fmt.Sprintf("API returned status %d: %s", e.Status, e.Body)
}

type Options struct {
	Credentials config.ProviderCredentials
	Location    config.Location
	Units       string
	Lang        string
	BaseURL     string
	TileURL     string
	Timeout     time.Duration
	HTTPClient  *http.Client
}

// OptionsFromConfig maps the process config onto client options.
func OptionsFromConfig(cfg config.Config) Options {
	return Options{
		Credentials: cfg.Credentials(),
		Location:    cfg.Location,
		Units:       cfg.Units,
		Lang:        cfg.Lang,
		BaseURL:     cfg.BaseURL,
		TileURL:     cfg.TileURL,
		Timeout:     cfg.UpstreamTimeout,
	}
}

type Client struct {
	creds      config.ProviderCredentials
	location   config.Location
	units      string
	lang       string
	baseURL    string
	tileURL    string
	httpClient *http.Client

	tracer   trace.Tracer
	duration metric.Float64Histogram
}

func New(opts Options) *Client {
	if opts.Timeout <= 0 {
		opts.Timeout = 10 * time.Second
	}
	if opts.Units == "" {
		opts.Units = "metric"
	}
	if opts.Lang == "" {
		opts.Lang = "ar"
	}
	opts.Credentials.APIKey = strings.TrimSpace(opts.Credentials.APIKey)
	hc := opts.HTTPClient
	if hc == nil {
		hc = &http.Client{Timeout: opts.Timeout}
	}

	c := &Client{
		creds:      opts.Credentials,
		location:   opts.Location,
		units:      opts.Units,
		lang:       opts.Lang,
		baseURL:    opts.BaseURL,
		tileURL:    opts.TileURL,
		httpClient: hc,
		tracer:     otel.Tracer(instrumentationName),
	}

	hist, err := otel.Meter(instrumentationName).Float64Histogram(
		"weather_upstream_request_duration_seconds",
		metric.WithDescription("Latency of provider requests by endpoint and outcome."),
		metric.WithUnit("s"),
	)
	if err == nil {
		c.duration = hist
	}
	return c
}

func (c *Client) Credentials() config.ProviderCredentials {
	return c.creds
}

func (c *Client) Location() config.Location {
	return c.location
}

// BuildRequest assembles the provider GET for an endpoint. Coordinates,
// credentials, units and language all come from the client's fixed settings.
func (c *Client) BuildRequest(ctx context.Context, endpoint Endpoint) (*http.Request, error) {
	path, ok := endpoint.path()
	if !ok {
		return nil, fmt.Errorf("unknown endpoint %q", endpoint)
	}

	u, err := url.Parse(c.baseURL + path)
	if err != nil {
		return nil, fmt.Errorf("parse provider url: %w", err)
	}

	q := url.Values{}
	q.Set("lat", strconv.FormatFloat(c.location.Lat, 'f', -1, 64))
	q.Set("lon", strconv.FormatFloat(c.location.Lon, 'f', -1, 64))
	q.Set("appid", c.creds.APIKey)
	q.Set("units", c.units)
	q.Set("lang", c.lang)
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	return req, nil
}

// Fetch calls the provider and returns the body exactly as received.
func (c *Client) Fetch(ctx context.Context, endpoint Endpoint) ([]byte, error) {
	ctx, span := c.tracer.Start(ctx, "owm.fetch "+string(endpoint),
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(attribute.String("weather.endpoint", string(endpoint))),
	)
	defer span.End()

	start := time.Now()
	body, status, err := c.do(ctx, endpoint)
	if status != 0 {
		span.SetAttributes(attribute.Int("http.response.status_code", status))
	}

	outcome := "ok"
	if err != nil {
		outcome = "error"
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	if c.duration != nil {
		c.duration.Record(ctx, time.Since(start).Seconds(), metric.WithAttributes(
			attribute.String("endpoint", string(endpoint)),
			attribute.String("outcome", outcome),
		))
	}
	return body, err
}

func (c *Client) do(ctx context.Context, endpoint Endpoint) ([]byte, int, error) {
	req, err := c.BuildRequest(ctx, endpoint)
	if err != nil {
		return nil, 0, err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, 0, transportError(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		excerpt, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, resp.StatusCode, &StatusError{Status: resp.StatusCode, Body: string(excerpt)}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes+1))
	if err != nil {
		return nil, resp.StatusCode, transportError(err)
	}
	if len(body) > maxBodyBytes {
		return nil, resp.StatusCode, ErrBodyTooLarge
	}
	if !json.Valid(body) {
		return nil, resp.StatusCode, ErrInvalidJSON
	}
	return body, resp.StatusCode, nil
}
