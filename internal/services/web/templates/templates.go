// Package templates renders the link page.
//
// Components are built with gomponents and exposed as templ.Component so
// handlers can render any of them through the same contract.
package templates

import (
	"context"
	"html/template"
	"io"
	"strings"

	"github.com/a-h/templ"
	"github.com/digitalexpert/linkpage/internal/linkpage/site"
	"github.com/digitalexpert/linkpage/internal/linkpage/tip"
	"github.com/digitalexpert/linkpage/internal/platform/i18n/catalog"
	"github.com/digitalexpert/linkpage/internal/platform/icons"
	g "maragu.dev/gomponents"
	h "maragu.dev/gomponents/html"
)

// Page is everything the full page needs.
type Page struct {
	Lang     string
	Path     string
	RawQuery string
	Site     site.Site
	Texts    catalog.Table
	Tip      tip.Tip
	Chat     Chat
}

// Chat is the visitor's conversation as the modal shows it.
type Chat struct {
	Open     bool
	Typing   bool
	Messages []ChatMessage
}

// ChatMessage is one bubble. Expert messages carry sanitized HTML.
type ChatMessage struct {
	ID     string
	Text   string
	HTML   template.HTML
	Expert bool
}

func component(node g.Node) templ.Component {
	return templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		return node.Render(w)
	})
}

// text returns the translation for key, or key itself when the table has
// nothing for it.
func text(t catalog.Table, key string) string {
	if value := strings.TrimSpace(t[key]); value != "" {
		return value
	}
	return key
}

func icon(name string) g.Node {
	return g.El("svg",
		h.Class("icon"),
		g.Attr("aria-hidden", "true"),
		g.El("use", g.Attr("href", "#"+icons.SymbolID(name))),
	)
}

func externalLink() g.Node {
	return g.Group{h.Target("_blank"), h.Rel("noopener noreferrer")}
}
