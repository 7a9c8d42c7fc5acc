// Package routepath stores canonical HTTP paths for web modules.
package routepath

const (
	Root          = "/"
	Health        = "/healthz"
	StaticPrefix  = "/static/"
	ChatPrefix    = "/chat/"
	ChatOpen      = "/chat/open"
	ChatClose     = "/chat/close"
	ChatMessages  = "/chat/messages"
	APIPrefix     = "/api/"
	APIChat       = "/api/chat"
	APIChatOpen   = "/api/chat/open"
	APIChatClose  = "/api/chat/close"
	APIChatSend   = "/api/chat/messages"
	APITip        = "/api/tip"
	LocalesPrefix = "/locales/"
	LocalePattern = "/locales/{file}"

	// ChatAnchor is the fragment the page scrolls to while chat is open.
	ChatAnchor = "#chat"
)
