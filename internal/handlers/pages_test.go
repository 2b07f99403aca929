package handlers

import (
	"strings"
	"testing"

	"github.com/wasifsarwar/gocart/internal/seo"
)

func TestAddJSONLD(t *testing.T) {
	var p PageData
	p.AddJSONLD(seo.WebSite("gocart", "https://shop.test", ""))
	p.AddJSONLD(func() {})
	if len(p.JSONLD) != 1 {
		t.Fatalf("expected only serializable payloads, got %d", len(p.JSONLD))
	}
	if !strings.Contains(string(p.JSONLD[0]), `"@type":"WebSite"`) {
		t.Fatalf("unexpected payload %s", p.JSONLD[0])
	}
}
