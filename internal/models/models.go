package models

// Coordinates is the fixed location served by the relay.
type Coordinates struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	City      string  `json:"city"`
	Country   string  `json:"country"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}
