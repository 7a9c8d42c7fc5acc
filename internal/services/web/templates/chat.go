package templates

import (
	"strconv"

	"github.com/a-h/templ"
	"github.com/digitalexpert/linkpage/internal/linkpage/chat"
	"github.com/digitalexpert/linkpage/internal/platform/i18n/catalog"
	"github.com/digitalexpert/linkpage/internal/services/web/routepath"
	g "maragu.dev/gomponents"
	h "maragu.dev/gomponents/html"
)

const (
	closePath = "M6 18 18 6M6 6l12 12"
	sendPath  = "M6 12 3.269 3.125A59.769 59.769 0 0 1 21.485 12 59.768 59.768 0 0 1 3.27 20.875L5.999 12Zm0 0h7.5"
)

// ChatModal renders the chat dialog. Callers only render it while the
// conversation is open.
func ChatModal(state Chat, texts catalog.Table) templ.Component {
	return component(chatModalNode(state, texts))
}

func chatModalNode(state Chat, texts catalog.Table) g.Node {
	return h.Div(h.ID("chat"), h.Class("chat"),
		h.Role("dialog"),
		g.Attr("aria-modal", "true"),
		g.Attr("aria-labelledby", "chat-modal-title"),
		h.Div(h.Class("chat-dialog"),
			h.Div(h.Class("chat-header"),
				h.H2(h.ID("chat-modal-title"), g.Text(text(texts, "chatWithExpert"))),
				h.Form(h.Method("post"), h.Action(routepath.ChatClose), g.Attr("data-chat-close", ""),
					h.Button(h.Type("submit"), h.Class("chat-close"), g.Attr("aria-label", text(texts, "chatClose")),
						strokeIcon("icon", closePath),
					),
				),
			),
			h.Div(h.Class("chat-messages"),
				g.Attr("aria-live", "polite"),
				g.Attr("data-chat-messages", ""),
				g.Attr("data-typing-text", text(texts, "expertTyping")),
				g.Map(state.Messages, chatMessageNode),
				g.If(state.Typing, typingNode(texts)),
			),
			h.Div(h.Class("chat-input"),
				h.Form(h.Class("chat-form"), h.Method("post"), h.Action(routepath.ChatMessages), g.Attr("data-chat-form", ""),
					h.Input(
						h.Type("text"),
						h.Name("text"),
						h.Placeholder(text(texts, "chatPlaceholder")),
						h.MaxLength(strconv.Itoa(chat.MaxMessageRunes)),
						h.AutoComplete("off"),
						h.Required(),
						h.AutoFocus(),
					),
					h.Button(
						h.Type("submit"),
						h.Class("chat-send"),
						g.Attr("aria-label", text(texts, "chatSend")),
						g.If(state.Typing, h.Disabled()),
						strokeIcon("icon icon--send", sendPath),
					),
				),
				h.P(h.Class("chat-hint"), g.Text(text(texts, "chatTelegramSimulationHint"))),
			),
		),
	)
}

func chatMessageNode(msg ChatMessage) g.Node {
	sender := string(chat.SenderUser)
	if msg.Expert {
		sender = string(chat.SenderExpert)
	}
	var body g.Node = h.P(g.Text(msg.Text))
	if msg.Expert {
		body = h.Div(h.Class("message-body"), g.Raw(string(msg.HTML)))
	}
	return h.Div(h.Class("message-row message-row--"+sender),
		g.Attr("data-message-id", msg.ID),
		h.Div(h.Class("message message--"+sender), body),
	)
}

func typingNode(texts catalog.Table) g.Node {
	return h.Div(h.Class("message-row message-row--expert"), g.Attr("data-typing", ""),
		h.Div(h.Class("message message--expert"),
			h.P(h.Class("typing"), g.Text(text(texts, "expertTyping"))),
		),
	)
}

func strokeIcon(class, d string) g.Node {
	return g.El("svg",
		h.Class(class),
		g.Attr("xmlns", "http://www.w3.org/2000/svg"),
		g.Attr("fill", "none"),
		g.Attr("viewBox", "0 0 24 24"),
		g.Attr("stroke-width", "1.5"),
		g.Attr("stroke", "currentColor"),
		g.Attr("aria-hidden", "true"),
		g.El("path", g.Attr("stroke-linecap", "round"), g.Attr("stroke-linejoin", "round"), g.Attr("d", d)),
	)
}
