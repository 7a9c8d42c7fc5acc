package icons

import (
	"sort"
	"strings"
)

const symbolPrefix = "icon-"

// Icon names accepted in site configuration.
const (
	Globe        = "globe"
	Telegram     = "telegram"
	YouTube      = "youtube"
	Instagram    = "instagram"
	Euro         = "euro"
	Consultation = "consultation"
)

// Definition describes one icon of the sprite.
type Definition struct {
	Name        string
	Description string
	paths       []string
}

var catalog = []Definition{
	{
		Name:        Globe,
		Description: "Personal website.",
		paths: []string{
			"M12 21a9.004 9.004 0 0 0 8.716-6.747M12 21a9.004 9.004 0 0 1-8.716-6.747M12 21c2.485 0 4.5-4.03 4.5-9S14.485 3 12 3m0 18c-2.485 0-4.5-4.03-4.5-9S9.515 3 12 3m0 0a8.997 8.997 0 0 1 7.843 4.582M12 3a8.997 8.997 0 0 0-7.843 4.582m15.686 0A11.953 11.953 0 0 1 12 10.5c-2.998 0-5.74-1.1-7.843-2.918m15.686 0A8.959 8.959 0 0 1 21 12c0 .778-.099 1.533-.284 2.253m0 0A11.978 11.978 0 0 1 12 13.5c-2.998 0-5.74-1.1-7.843-2.918m15.686 0A8.959 8.959 0 0 0 3 12c0 .778.099 1.533.284 2.253m0 0a11.965 11.965 0 0 0-2.824 4.582M3.284 14.253L3.284 14.253",
		},
	},
	{
		Name:        Telegram,
		Description: "Telegram channel or direct message.",
		paths: []string{
			"M6 12 3.269 3.125A59.769 59.769 0 0 1 21.485 12 59.768 59.768 0 0 1 3.27 20.875L5.999 12Zm0 0h7.5",
		},
	},
	{
		Name:        YouTube,
		Description: "Video channel.",
		paths: []string{
			"M21 12a9 9 0 1 1-18 0 9 9 0 0 1 18 0Z",
			"M15.91 11.672a.375.375 0 0 1 0 .656l-5.603 3.113a.375.375 0 0 1-.557-.328V8.887c0-.286.307-.466.557-.327l5.603 3.112Z",
		},
	},
	{
		Name:        Instagram,
		Description: "Photo feed.",
		paths: []string{
			"M16.5 3.75h-9A2.25 2.25 0 0 0 5.25 6v12a2.25 2.25 0 0 0 2.25 2.25h9A2.25 2.25 0 0 0 18.75 18V6A2.25 2.25 0 0 0 16.5 3.75Z",
			"M12 15.75a3.75 3.75 0 1 0 0-7.5 3.75 3.75 0 0 0 0 7.5Z",
			"M16.125 8.25h.008v.008h-.008V8.25Z",
		},
	},
	{
		Name:        Euro,
		Description: "Donations and support.",
		paths: []string{
			"M14.25 7.756a4.5 4.5 0 1 0 0 8.488M7.5 10.5h5.25m-5.25 3h5.25M21 12a9 9 0 1 1-18 0 9 9 0 0 1 18 0Z",
		},
	},
	{
		Name:        Consultation,
		Description: "Chat with the expert.",
		paths: []string{
			"M12 20.25c4.97 0 9-3.694 9-8.25s-4.03-8.25-9-8.25S3 7.056 3 12s4.03 8.25 9 8.25Z",
			"M9.879 11.121a3 3 0 1 0-4.242 0 3 3 0 0 0 4.242 0Zm0 0H14.12a3 3 0 0 1 0 4.243m-4.242 0H9.88Z",
		},
	},
}

var byName = func() map[string]Definition {
	out := make(map[string]Definition, len(catalog))
	for _, def := range catalog {
		out[def.Name] = def
	}
	return out
}()

// Catalog returns the icon definitions in declaration order.
func Catalog() []Definition {
	out := make([]Definition, len(catalog))
	copy(out, catalog)
	return out
}

// Names returns the known icon names, sorted.
func Names() []string {
	names := make([]string, 0, len(catalog))
	for _, def := range catalog {
		names = append(names, def.Name)
	}
	sort.Strings(names)
	return names
}

// Known reports whether name is an icon of the sprite.
func Known(name string) bool {
	_, ok := byName[strings.TrimSpace(name)]
	return ok
}

// SymbolID returns the sprite symbol ID for name.
func SymbolID(name string) string {
	return symbolPrefix + strings.TrimSpace(name)
}

// Sprite returns the hidden SVG sprite holding every icon as a symbol.
func Sprite() string {
	var b strings.Builder
	b.WriteString(`<svg xmlns="http://www.w3.org/2000/svg" style="display:none" aria-hidden="true">`)
	for _, def := range catalog {
		b.WriteString(`<symbol id="`)
		b.WriteString(SymbolID(def.Name))
		b.WriteString(`" viewBox="0 0 24 24" fill="none" stroke="currentColor" stroke-width="1.5">`)
		for _, d := range def.paths {
			b.WriteString(`<path stroke-linecap="round" stroke-linejoin="round" d="`)
			b.WriteString(d)
			b.WriteString(`"/>`)
		}
		b.WriteString(`</symbol>`)
	}
	b.WriteString(`</svg>`)
	return b.String()
}
