package i18n

import "testing"

func load(t *testing.T) *Bundle {
	t.Helper()
	b, err := Load("../../locales", "en", []string{"en", "ja"})
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	return b
}

func TestResolveHonorsQValues(t *testing.T) {
	b := load(t)
	if got := b.Resolve("en;q=0.8, ja;q=0.9"); got != "ja" {
		t.Fatalf("expected ja, got %s", got)
	}
	if got := b.Resolve("ja-JP"); got != "ja" {
		t.Fatalf("expected ja for region tag, got %s", got)
	}
	if got := b.Resolve("fr-FR"); got != "en" {
		t.Fatalf("expected fallback, got %s", got)
	}
	if got := b.Resolve(""); got != "en" {
		t.Fatalf("expected fallback for empty header, got %s", got)
	}
}

func TestTranslateFallsBack(t *testing.T) {
	b := load(t)
	if got := b.T("ja", "nav.cart"); got == "nav.cart" || got == b.T("en", "nav.cart") {
		t.Fatalf("expected japanese label, got %s", got)
	}
	if got := b.T("fr", "nav.cart"); got != b.T("en", "nav.cart") {
		t.Fatalf("expected english fallback, got %s", got)
	}
	if got := b.T("en", "missing.key"); got != "missing.key" {
		t.Fatalf("expected key echo, got %s", got)
	}
	if got := b.Tf("en", "products.showing", 1, 15, 22); got != "Showing 1-15 of 22" {
		t.Fatalf("unexpected formatted string %q", got)
	}
}

func TestLoadRequiresFallback(t *testing.T) {
	if _, err := Load(t.TempDir(), "en", []string{"en"}); err == nil {
		t.Fatalf("expected error when fallback file is missing")
	}
}

func TestSupported(t *testing.T) {
	b := load(t)
	got := b.Supported()
	if len(got) != 2 || got[0] != "en" || got[1] != "ja" {
		t.Fatalf("unexpected supported list %v", got)
	}
	if !b.Supports("ja") || b.Supports("fr") {
		t.Fatalf("Supports mismatch")
	}
}
