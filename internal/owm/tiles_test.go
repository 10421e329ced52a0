package owm

import (
	"strings"
	"testing"
)

func TestMapLayers(t *testing.T) {
	layers := newTestClient("https://api.openweathermap.org").MapLayers()
	if len(layers) != 5 {
		t.Fatalf("expected 5 layers, got %d", len(layers))
	}
	for _, name := range LayerNames() {
		u, ok := layers[name]
		if !ok {
			t.Fatalf("missing layer %q", name)
		}
		if !strings.Contains(u, "{z}/{x}/{y}") {
			t.Fatalf("layer %q lacks tile placeholders: %s", name, u)
		}
		if !strings.HasSuffix(u, "appid=VALID_KEY") {
			t.Fatalf("layer %q lacks credential: %s", name, u)
		}
	}
	want := "https://tile.openweathermap.org/map/temp_new/{z}/{x}/{y}.png?appid=VALID_KEY"
	if layers["temperature"] != want {
		t.Fatalf("temperature: got %q want %q", layers["temperature"], want)
	}
}
