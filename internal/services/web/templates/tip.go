package templates

import (
	"github.com/a-h/templ"
	"github.com/digitalexpert/linkpage/internal/linkpage/tip"
	"github.com/digitalexpert/linkpage/internal/platform/i18n/catalog"
	"github.com/digitalexpert/linkpage/internal/services/web/routepath"
	g "maragu.dev/gomponents"
	h "maragu.dev/gomponents/html"
)

// ExpertTip renders the tip card. The button reloads the page, which draws a
// new tip; app.js swaps in /api/tip instead when it runs.
func ExpertTip(current tip.Tip, texts catalog.Table) templ.Component {
	return component(expertTipNode(current, texts))
}

func expertTipNode(current tip.Tip, texts catalog.Table) g.Node {
	class := "tip-text"
	if current.Failed {
		class += " tip-text--error"
	}
	return h.Section(h.ID("tip"), h.Class("card tip"),
		h.H2(g.Text(text(texts, "expertTipTitle"))),
		h.Div(h.Class("tip-body"),
			h.P(h.Class(class), g.Attr("data-tip-text", ""), g.Text(current.Text)),
		),
		h.Form(h.Method("get"), h.Action(routepath.Root+"#tip"),
			h.Button(
				h.Type("submit"),
				h.Class("tip-button"),
				g.Attr("data-tip-button", ""),
				g.Attr("data-loading-text", text(texts, "expertTipLoading")),
				g.Text(text(texts, "expertTipButton")),
			),
		),
	)
}
