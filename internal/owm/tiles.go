package owm

import (
	"fmt"
	"net/url"
)

// Tile layers exposed to map clients, keyed by the name the frontend uses.
var tileLayers = []struct {
	name  string
	layer string
}{
	{"temperature", "temp_new"},
	{"precipitation", "precipitation_new"},
	{"wind", "wind_new"},
	{"clouds", "clouds_new"},
	{"pressure", "pressure_new"},
}

// LayerNames lists the map layers in display order.
func LayerNames() []string {
	names := make([]string, len(tileLayers))
	for i, l := range tileLayers {
		names[i] = l.name
	}
	return names
}

// MapLayers returns tile URL templates with {z}/{x}/{y} left for the map
// client to fill in. No request is made.
func (c *Client) MapLayers() map[string]string {
	key := url.QueryEscape(c.creds.APIKey)
	layers := make(map[string]string, len(tileLayers))
	for _, l := range tileLayers {
		layers[l.name] = fmt.Sprintf("%s/map/%s/{z}/{x}/{y}.png?appid=%s", c.tileURL, l.layer, key)
	}
	return layers
}
