package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"weather-service/internal/models"
	"weather-service/internal/relay"

	"github.com/go-chi/chi/v5"
)

// WeatherRelay is the set of relay operations the HTTP layer exposes.
type WeatherRelay interface {
	FetchCurrent(ctx context.Context) ([]byte, error)
	FetchForecast(ctx context.Context) ([]byte, error)
	FetchCombined(ctx context.Context) ([]byte, error)
	Coordinates() models.Coordinates
	MapLayers() (map[string]string, error)
}

type Server struct {
	relay WeatherRelay
}

func NewServer(r WeatherRelay) *Server {
	return &Server{relay: r}
}

func (s *Server) RegisterRoutes(r chi.Router) {
	r.Get("/current", s.guard(s.handleCurrent))
	r.Get("/forecast", s.guard(s.handleForecast))
	r.Get("/onecall", s.guard(s.handleOneCall))
	r.Get("/coordinates", s.guard(s.handleCoordinates))
	r.Get("/map-layers", s.guard(s.handleMapLayers))
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

// writeRaw sends provider JSON unchanged.
func writeRaw(w http.ResponseWriter, body []byte) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(body)
}

func writeError(w http.ResponseWriter, err error) {
	var re *relay.Error
	if !errors.As(err, &re) {
		re = &relay.Error{Kind: relay.KindInternal, Message: "Unexpected error: " + err.Error(), Err: err}
	}
	writeJSON(w, re.Status(), models.ErrorResponse{Error: re.Message})
}

// guard turns a handler panic into an internal error body.
func (s *Server) guard(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if p := recover(); p != nil {
				if p == http.ErrAbortHandler {
					panic(p)
				}
				slog.Error("weather handler panic", "path", r.URL.Path, "panic", p)
				writeError(w, fmt.Errorf("%v", p))
			}
		}()
		next(w, r)
	}
}

func (s *Server) handleCurrent(w http.ResponseWriter, r *http.Request) {
	s.relayFetch(w, r, s.relay.FetchCurrent)
}

func (s *Server) handleForecast(w http.ResponseWriter, r *http.Request) {
	s.relayFetch(w, r, s.relay.FetchForecast)
}

func (s *Server) handleOneCall(w http.ResponseWriter, r *http.Request) {
	s.relayFetch(w, r, s.relay.FetchCombined)
}

func (s *Server) relayFetch(w http.ResponseWriter, r *http.Request, fetch func(context.Context) ([]byte, error)) {
	body, err := fetch(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeRaw(w, body)
}

func (s *Server) handleCoordinates(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.relay.Coordinates())
}

func (s *Server) handleMapLayers(w http.ResponseWriter, _ *http.Request) {
	layers, err := s.relay.MapLayers()
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, layers)
}
