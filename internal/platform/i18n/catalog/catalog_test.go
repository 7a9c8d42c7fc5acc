package catalog

import (
	"os"
	"path/filepath"
	"testing"
	"testing/fstest"

	"github.com/google/go-cmp/cmp"
)

func TestLoadEmbeddedHasExpectedLocales(t *testing.T) {
	t.Parallel()

	bundle, err := LoadEmbedded()
	if err != nil {
		t.Fatalf("load embedded catalogs: %v", err)
	}
	want := []string{"en", "et", "fi", "ru"}
	if diff := cmp.Diff(want, bundle.Locales()); diff != "" {
		t.Fatalf("Locales() mismatch (-want +got):\n%s", diff)
	}
}

func TestEmbeddedLocalesCoverFallbackKeys(t *testing.T) {
	t.Parallel()

	bundle, err := LoadEmbedded()
	if err != nil {
		t.Fatalf("load embedded catalogs: %v", err)
	}
	for _, code := range bundle.Locales() {
		if missing := bundle.Missing(code, FallbackKeys()); len(missing) > 0 {
			t.Fatalf("locale %s missing keys %v", code, missing)
		}
	}
}

func TestTableFallsBackPerKey(t *testing.T) {
	t.Parallel()

	fsys := fstest.MapFS{
		"locales/en.json": {Data: []byte(`{"chatSend":"Send it","aboutMeTitle":"Me"}`)},
		"locales/fi.json": {Data: []byte(`{"chatSend":"Lähetä"}`)},
	}
	bundle, err := LoadFromFS(fsys, "locales")
	if err != nil {
		t.Fatalf("LoadFromFS() error = %v", err)
	}

	table := bundle.Table("fi")
	if got := table["chatSend"]; got != "Lähetä" {
		t.Fatalf("chatSend = %q, want %q", got, "Lähetä")
	}
	if got := table["aboutMeTitle"]; got != "Me" {
		t.Fatalf("aboutMeTitle = %q, want %q", got, "Me")
	}
	if got := table["chatErrorReply"]; got != Fallback["chatErrorReply"] {
		t.Fatalf("chatErrorReply = %q, want %q", got, Fallback["chatErrorReply"])
	}
	if len(table) < len(Fallback) {
		t.Fatalf("table has %d keys, want at least %d", len(table), len(Fallback))
	}
}

func TestTableForUnknownLocaleUsesEnglish(t *testing.T) {
	t.Parallel()

	fsys := fstest.MapFS{
		"locales/en.json": {Data: []byte(`{"headerTitle":"Digital Expert"}`)},
	}
	bundle, err := LoadFromFS(fsys, "locales")
	if err != nil {
		t.Fatalf("LoadFromFS() error = %v", err)
	}
	if got := bundle.Table("de")["headerTitle"]; got != "Digital Expert" {
		t.Fatalf("headerTitle = %q, want %q", got, "Digital Expert")
	}
}

func TestEmptyBundleServesFallback(t *testing.T) {
	t.Parallel()

	bundle, err := LoadFromFS(fstest.MapFS{}, "locales")
	if err != nil {
		t.Fatalf("LoadFromFS() error = %v", err)
	}
	if diff := cmp.Diff(Fallback, bundle.Table("ru")); diff != "" {
		t.Fatalf("Table(ru) mismatch (-want +got):\n%s", diff)
	}

	var nilBundle *Bundle
	if got := nilBundle.Text("en", "buttonDonate"); got != "Support" {
		t.Fatalf("nil Text = %q, want %q", got, "Support")
	}
}

func TestTextFallsBackToKey(t *testing.T) {
	t.Parallel()

	bundle, err := LoadEmbedded()
	if err != nil {
		t.Fatalf("load embedded catalogs: %v", err)
	}
	if got := bundle.Text("ru", "no.such.key"); got != "no.such.key" {
		t.Fatalf("Text() = %q, want key", got)
	}
	if got := bundle.Text("xx-invalid", "chatSend"); got == "" {
		t.Fatal("expected english text for invalid locale")
	}
}

func TestLoadFromFSSkipsBrokenFiles(t *testing.T) {
	t.Parallel()

	fsys := fstest.MapFS{
		"locales/en.json":        {Data: []byte(`{"chatSend":"Send"}`)},
		"locales/ru.json":        {Data: []byte(`{"chatSend":`)},
		"locales/fi.json":        {Data: []byte(`{"chatSend":42}`)},
		"locales/not a tag.json": {Data: []byte(`{}`)},
	}
	bundle, err := LoadFromFS(fsys, "locales")
	if err == nil {
		t.Fatal("expected error describing skipped files")
	}
	if bundle == nil {
		t.Fatal("expected partial bundle")
	}
	if diff := cmp.Diff([]string{"en"}, bundle.Locales()); diff != "" {
		t.Fatalf("Locales() mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadFromFSFlattensNestedObjects(t *testing.T) {
	t.Parallel()

	fsys := fstest.MapFS{
		"locales/en.json": {Data: []byte(`{"chat":{"send":"Send","close":"Close"}}`)},
	}
	bundle, err := LoadFromFS(fsys, "locales")
	if err != nil {
		t.Fatalf("LoadFromFS() error = %v", err)
	}
	raw, ok := bundle.Raw("en")
	if !ok {
		t.Fatal("expected raw en table")
	}
	want := Table{"chat.send": "Send", "chat.close": "Close"}
	if diff := cmp.Diff(want, raw); diff != "" {
		t.Fatalf("Raw(en) mismatch (-want +got):\n%s", diff)
	}
}

func TestRawReturnsCopy(t *testing.T) {
	t.Parallel()

	bundle, err := LoadEmbedded()
	if err != nil {
		t.Fatalf("load embedded catalogs: %v", err)
	}
	raw, ok := bundle.Raw("et")
	if !ok {
		t.Fatal("expected et table")
	}
	raw["chatSend"] = "mutated"
	if got := bundle.Text("et", "chatSend"); got == "mutated" {
		t.Fatal("Raw() leaked internal table")
	}
	if _, ok := bundle.Raw("de"); ok {
		t.Fatal("expected no raw table for de")
	}
}

func TestLoadOverlaysDirectory(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "fi.json"), []byte(`{"chatSend":"Lähetä nyt"}`), 0o644); err != nil {
		t.Fatalf("write override: %v", err)
	}
	bundle, err := Load(dir)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if got := bundle.Text("fi", "chatSend"); got != "Lähetä nyt" {
		t.Fatalf("chatSend = %q, want override", got)
	}
	if !bundle.HasLocale("ru") {
		t.Fatal("expected embedded ru locale to survive overlay")
	}
}

func TestLoadRejectsMissingDirectory(t *testing.T) {
	t.Parallel()

	if _, err := Load(filepath.Join(t.TempDir(), "missing")); err == nil {
		t.Fatal("expected error for missing directory")
	}
}

func TestPrinterFormatsRegisteredKeys(t *testing.T) {
	t.Parallel()

	bundle, err := LoadEmbedded()
	if err != nil {
		t.Fatalf("load embedded catalogs: %v", err)
	}
	if got, want := bundle.Printer("ru").Sprintf("chatSend"), bundle.Text("ru", "chatSend"); got != want {
		t.Fatalf("Printer(ru) chatSend = %q, want %q", got, want)
	}
	if got, want := bundle.Printer("en").Sprintf("buttonDonate"), bundle.Text("en", "buttonDonate"); got != want {
		t.Fatalf("Printer(en) buttonDonate = %q, want %q", got, want)
	}
}
