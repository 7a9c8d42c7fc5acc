package templates

import (
	"strings"

	"github.com/a-h/templ"
	"github.com/digitalexpert/linkpage/internal/linkpage/site"
	"github.com/digitalexpert/linkpage/internal/platform/i18n/catalog"
	"github.com/digitalexpert/linkpage/internal/platform/icons"
	webi18n "github.com/digitalexpert/linkpage/internal/services/web/platform/i18n"
	"github.com/digitalexpert/linkpage/internal/services/web/routepath"
	g "maragu.dev/gomponents"
	h "maragu.dev/gomponents/html"
)

// Layout renders the whole document.
func Layout(page Page) templ.Component {
	return component(layoutNode(page))
}

func layoutNode(page Page) g.Node {
	title := strings.TrimSpace(page.Site.Profile.Name)
	if title == "" {
		title = text(page.Texts, "headerTitle")
	}
	return h.Doctype(
		h.HTML(
			h.Lang(page.Lang),
			h.Head(
				h.Meta(h.Charset("utf-8")),
				h.Meta(h.Name("viewport"), h.Content("width=device-width, initial-scale=1")),
				h.TitleEl(g.Text(title)),
				h.Link(h.Rel("stylesheet"), h.Href(routepath.StaticPrefix+"app.css")),
				h.Script(h.Src(routepath.StaticPrefix+"app.js"), h.Defer()),
			),
			h.Body(
				g.Attr("data-lang", page.Lang),
				g.Raw(icons.Sprite()),
				h.Div(h.Class("page"),
					h.Div(h.Class("container"),
						languageSwitcherNode(page.Site.Languages, page.Lang, page.Path, page.RawQuery, page.Texts),
						headerNode(page.Site.Profile, page.Texts),
						h.Nav(h.Class("links"),
							g.Map(page.Site.Links, func(link site.Link) g.Node {
								return linkButtonNode(link, page.Texts)
							}),
						),
						h.Main(
							aboutMeNode(page.Texts),
							expertTipNode(page.Tip, page.Texts),
						),
						footerNode(page.Site.SocialLinks, page.Texts),
					),
				),
				g.If(page.Chat.Open, chatModalNode(page.Chat, page.Texts)),
			),
		),
	)
}

// LanguageSwitcher renders one link per configured language.
func LanguageSwitcher(languages []site.Language, active, path, rawQuery string, texts catalog.Table) templ.Component {
	return component(languageSwitcherNode(languages, active, path, rawQuery, texts))
}

func languageSwitcherNode(languages []site.Language, active, path, rawQuery string, texts catalog.Table) g.Node {
	return h.Div(h.Class("lang-switcher"), h.Title(text(texts, "languageSwitcherTooltip")),
		g.Map(languages, func(lang site.Language) g.Node {
			code := strings.ToLower(strings.TrimSpace(lang.Code))
			current := code == active
			class := "lang-button"
			if current {
				class += " lang-button--active"
			}
			pressed := "false"
			if current {
				pressed = "true"
			}
			return h.A(
				h.Class(class),
				h.Href(webi18n.LanguageURL(path, rawQuery, code)),
				g.Attr("hreflang", code),
				g.Attr("aria-pressed", pressed),
				g.Attr("aria-label", "Switch to "+lang.Name),
				g.If(lang.Flag != "", h.Span(h.Class("lang-flag"), g.Text(lang.Flag))),
				g.Text(lang.Name),
			)
		}),
	)
}

// Header renders the avatar and titles.
func Header(profile site.Profile, texts catalog.Table) templ.Component {
	return component(headerNode(profile, texts))
}

func headerNode(profile site.Profile, texts catalog.Table) g.Node {
	return h.Header(h.Class("profile"),
		g.If(profile.AvatarURL != "",
			h.Img(h.Class("avatar"), h.Src(profile.AvatarURL), h.Alt(profile.AvatarAlt), h.Width("128"), h.Height("128")),
		),
		h.H1(g.Text(text(texts, "headerTitle"))),
		h.P(h.Class("subtitle"), g.Text(text(texts, "headerSubtitle"))),
	)
}

// AboutMe renders the bio card.
func AboutMe(texts catalog.Table) templ.Component {
	return component(aboutMeNode(texts))
}

func aboutMeNode(texts catalog.Table) g.Node {
	return h.Section(h.Class("card about"),
		h.H2(g.Text(text(texts, "aboutMeTitle"))),
		h.P(g.Text(text(texts, "aboutMeText"))),
	)
}

// Footer renders the social links and credit line.
func Footer(links []site.SocialLink, texts catalog.Table) templ.Component {
	return component(footerNode(links, texts))
}

func footerNode(links []site.SocialLink, texts catalog.Table) g.Node {
	return h.Footer(h.Class("footer"),
		h.Div(h.Class("social"),
			g.Map(links, func(link site.SocialLink) g.Node {
				return h.A(
					h.Href(link.Href),
					externalLink(),
					g.Attr("aria-label", link.Label),
					icon(link.Icon),
				)
			}),
		),
		h.P(h.Class("made-by"), g.Text(text(texts, "footerMadeBy"))),
	)
}
