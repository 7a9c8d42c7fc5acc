package templates

import (
	"github.com/a-h/templ"
	"github.com/digitalexpert/linkpage/internal/linkpage/site"
	"github.com/digitalexpert/linkpage/internal/platform/i18n/catalog"
	"github.com/digitalexpert/linkpage/internal/services/web/routepath"
	g "maragu.dev/gomponents"
	h "maragu.dev/gomponents/html"
)

// LinkButton renders one navigation entry. An action link posts a form so it
// works without JavaScript.
func LinkButton(link site.Link, texts catalog.Table) templ.Component {
	return component(linkButtonNode(link, texts))
}

func linkButtonNode(link site.Link, texts catalog.Table) g.Node {
	class := "link-button link-button--secondary"
	if link.Primary {
		class = "link-button link-button--primary"
	}
	content := g.Group{
		icon(link.Icon),
		h.Span(g.Text(text(texts, link.TextKey))),
	}

	if link.Action == site.ActionOpenChat {
		return h.Form(h.Class("link-form"), h.Method("post"), h.Action(routepath.ChatOpen),
			h.Button(h.Type("submit"), h.Class(class), g.Attr("data-link", link.ID), content),
		)
	}
	return h.A(
		h.Class(class),
		h.Href(link.Target()),
		g.If(link.External(), externalLink()),
		g.Attr("data-link", link.ID),
		content,
	)
}
