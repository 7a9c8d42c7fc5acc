// Package catalog loads the JSON translation tables behind every rendered
// string.
//
// Locale files are flat JSON objects named <code>.json. A lookup walks the
// requested locale, then the base locale, then the compiled-in Fallback
// table, so a missing or broken file never leaves a blank string on the page.
package catalog

import (
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"sort"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	textcatalog "golang.org/x/text/message/catalog"
)

// BaseLocale is the locale every other locale falls back to.
const BaseLocale = "en"

// Table maps translation keys to display strings.
type Table map[string]string

// Fallback is used for any key no loaded locale provides.
var Fallback = Table{
	"headerTitle":                "Loading...",
	"headerSubtitle":             "Please wait",
	"buttonWebsite":              "Website",
	"buttonTelegram":             "Telegram",
	"buttonYouTube":              "YouTube",
	"buttonInstagram":            "Instagram",
	"buttonDonate":               "Support",
	"buttonConsultation":         "Consultation",
	"aboutMeTitle":               "About Me",
	"aboutMeText":                "Loading content...",
	"footerMadeBy":               "Made by Digital Expert",
	"languageSwitcherTooltip":    "Change Language",
	"chatWithExpert":             "Chat with Expert",
	"chatPlaceholder":            "Type message...",
	"chatSend":                   "Send",
	"chatSimulateReply":          "Simulate Reply",
	"chatClose":                  "Close",
	"expertTyping":               "Expert is typing...",
	"chatTelegramSimulationHint": "Expert typically replies via Telegram. (Simulation)",
	"chatErrorReply":             "Sorry, could not generate a response.",
	"chatRateLimitError":         "Service busy. Please try later.",
	"expertTipTitle":             "💡 Expert Tip",
	"expertTipButton":            "Get Another Tip",
	"expertTipLoading":           "Fetching tip...",
	"expertTipError":             "Could not fetch tip.",
	"expertTipRateLimitError":    "Tips temporarily unavailable. Try later.",
	"errorInvalidRequest":        "The request could not be read.",
	"errorMessageEmpty":          "Please type a message first.",
	"errorMessageTooLong":        "The message is too long.",
	"errorExpertBusy":            "The expert is still replying. Please wait.",
	"errorInternal":              "Something went wrong. Please try again.",
}

//go:embed locales/*.json
var embeddedFS embed.FS

// Bundle holds every loaded locale table plus the x/text catalog built from
// them. A Bundle is immutable once built.
type Bundle struct {
	locales map[string]Table
	printer *textcatalog.Builder
}

// LoadEmbedded loads the locale files compiled into the binary.
func LoadEmbedded() (*Bundle, error) {
	return LoadFromFS(embeddedFS, "locales")
}

// Load loads the embedded locales and overlays every <code>.json found in
// dir. The overlay replaces whole files. When some override files are
// unusable the returned bundle still carries the rest, and the error lists
// what was skipped.
func Load(dir string) (*Bundle, error) {
	bundle, err := LoadEmbedded()
	if err != nil {
		return nil, fmt.Errorf("load embedded locales: %w", err)
	}
	dir = strings.TrimSpace(dir)
	if dir == "" {
		return bundle, nil
	}
	info, err := os.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("stat locales dir: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("locales dir %s is not a directory", dir)
	}
	override, overrideErr := LoadFromFS(os.DirFS(dir), ".")
	if override == nil {
		return nil, overrideErr
	}
	merged := bundle.overlay(override)
	if err := merged.Register(); err != nil {
		return nil, err
	}
	return merged, overrideErr
}

// LoadFromFS parses every root/*.json file of fsys. Files whose name is not a
// valid language tag or whose content is not a JSON object of strings are
// skipped; the joined error describes them. The bundle is nil only when the
// directory itself cannot be listed.
func LoadFromFS(fsys fs.FS, root string) (*Bundle, error) {
	root = strings.TrimSpace(root)
	if root == "" {
		root = "."
	}
	paths, err := fs.Glob(fsys, path.Join(root, "*.json"))
	if err != nil {
		return nil, fmt.Errorf("glob locale files: %w", err)
	}
	sort.Strings(paths)

	bundle := &Bundle{locales: make(map[string]Table, len(paths))}
	var problems []error
	for _, filePath := range paths {
		code, err := localeFromPath(filePath)
		if err != nil {
			problems = append(problems, err)
			continue
		}
		data, err := fs.ReadFile(fsys, filePath)
		if err != nil {
			problems = append(problems, fmt.Errorf("read %s: %w", filePath, err))
			continue
		}
		table, err := parseTable(data)
		if err != nil {
			problems = append(problems, fmt.Errorf("parse %s: %w", filePath, err))
			continue
		}
		bundle.locales[code] = table
	}
	if err := bundle.Register(); err != nil {
		return nil, err
	}
	return bundle, errors.Join(problems...)
}

func localeFromPath(filePath string) (string, error) {
	name := strings.TrimSuffix(path.Base(filePath), ".json")
	tag, err := language.Parse(name)
	if err != nil {
		return "", fmt.Errorf("locale file %s: invalid language tag: %w", filePath, err)
	}
	return tag.String(), nil
}

func parseTable(data []byte) (Table, error) {
	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, err
	}
	if raw == nil {
		return nil, errors.New("expected a JSON object")
	}
	table := Table{}
	if err := flatten(table, "", raw); err != nil {
		return nil, err
	}
	return table, nil
}

// flatten turns nested objects into dotted keys so {"chat":{"send":"x"}}
// becomes "chat.send".
func flatten(dst Table, prefix string, raw map[string]any) error {
	for key, value := range raw {
		key = strings.TrimSpace(key)
		if key == "" {
			return errors.New("blank key")
		}
		if prefix != "" {
			key = prefix + "." + key
		}
		switch typed := value.(type) {
		case string:
			dst[key] = typed
		case map[string]any:
			if err := flatten(dst, key, typed); err != nil {
				return err
			}
		default:
			return fmt.Errorf("key %q: value must be a string or object", key)
		}
	}
	return nil
}

func (b *Bundle) overlay(other *Bundle) *Bundle {
	merged := &Bundle{locales: make(map[string]Table, len(b.locales)+len(other.locales))}
	for code, table := range b.locales {
		merged.locales[code] = table
	}
	for code, table := range other.locales {
		merged.locales[code] = table
	}
	return merged
}

// Register rebuilds the x/text message catalog from the loaded tables so
// printers returned by Printer can format any key.
func (b *Bundle) Register() error {
	builder := textcatalog.NewBuilder(textcatalog.Fallback(language.English))
	codes := b.Locales()
	if !b.HasLocale(BaseLocale) {
		codes = append(codes, BaseLocale)
	}
	for _, code := range codes {
		tag, err := language.Parse(code)
		if err != nil {
			return fmt.Errorf("parse locale tag %q: %w", code, err)
		}
		table := b.Table(code)
		keys := make([]string, 0, len(table))
		for key := range table {
			keys = append(keys, key)
		}
		sort.Strings(keys)
		for _, key := range keys {
			if err := builder.SetString(tag, key, table[key]); err != nil {
				return fmt.Errorf("register %s/%s: %w", code, key, err)
			}
		}
	}
	b.printer = builder
	return nil
}

// HasLocale reports whether a file was loaded for code.
func (b *Bundle) HasLocale(code string) bool {
	if b == nil {
		return false
	}
	_, ok := b.locales[normalize(code)]
	return ok
}

// Locales returns the loaded locale codes in sorted order.
func (b *Bundle) Locales() []string {
	if b == nil {
		return nil
	}
	out := make([]string, 0, len(b.locales))
	for code := range b.locales {
		out = append(out, code)
	}
	sort.Strings(out)
	return out
}

// Table returns the complete translation table for code. Every key of
// Fallback is present in the result.
func (b *Bundle) Table(code string) Table {
	out := make(Table, len(Fallback))
	for key, value := range Fallback {
		out[key] = value
	}
	if b == nil {
		return out
	}
	if base, ok := b.locales[BaseLocale]; ok {
		for key, value := range base {
			out[key] = value
		}
	}
	code = normalize(code)
	if code != BaseLocale {
		if table, ok := b.locales[code]; ok {
			for key, value := range table {
				out[key] = value
			}
		}
	}
	return out
}

// Text returns one translated string. Unknown keys resolve to the key itself.
func (b *Bundle) Text(code, key string) string {
	key = strings.TrimSpace(key)
	if b != nil {
		if table, ok := b.locales[normalize(code)]; ok {
			if value, ok := table[key]; ok {
				return value
			}
		}
		if table, ok := b.locales[BaseLocale]; ok {
			if value, ok := table[key]; ok {
				return value
			}
		}
	}
	if value, ok := Fallback[key]; ok {
		return value
	}
	return key
}

// Raw returns a copy of exactly what the locale file for code contained.
func (b *Bundle) Raw(code string) (Table, bool) {
	if b == nil {
		return nil, false
	}
	table, ok := b.locales[normalize(code)]
	if !ok {
		return nil, false
	}
	out := make(Table, len(table))
	for key, value := range table {
		out[key] = value
	}
	return out, true
}

// Printer returns an x/text printer bound to this bundle's messages.
func (b *Bundle) Printer(code string) *message.Printer {
	tag, err := language.Parse(normalize(code))
	if err != nil {
		tag = language.English
	}
	if b == nil || b.printer == nil {
		return message.NewPrinter(tag)
	}
	return message.NewPrinter(tag, message.Catalog(b.printer))
}

// Missing lists the keys of required that the locale file for code does not
// define itself.
func (b *Bundle) Missing(code string, required []string) []string {
	table, _ := b.Raw(code)
	var missing []string
	for _, key := range required {
		if _, ok := table[key]; !ok {
			missing = append(missing, key)
		}
	}
	sort.Strings(missing)
	return missing
}

// FallbackKeys returns the keys of Fallback in sorted order.
func FallbackKeys() []string {
	keys := make([]string, 0, len(Fallback))
	for key := range Fallback {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

func normalize(code string) string {
	code = strings.TrimSpace(code)
	if code == "" {
		return BaseLocale
	}
	tag, err := language.Parse(code)
	if err != nil {
		return strings.ToLower(code)
	}
	return tag.String()
}
