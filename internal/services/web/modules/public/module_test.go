package public

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/digitalexpert/linkpage/internal/linkpage/chat"
	"github.com/digitalexpert/linkpage/internal/platform/id"
	"github.com/digitalexpert/linkpage/internal/services/web/modules/webtest"
	"github.com/digitalexpert/linkpage/internal/services/web/platform/i18n"
	"github.com/digitalexpert/linkpage/internal/services/web/platform/visitor"
	"golang.org/x/net/html"
)

func parse(t *testing.T, body string) *html.Node {
	t.Helper()
	doc, err := html.Parse(strings.NewReader(body))
	if err != nil {
		t.Fatalf("parse html: %v", err)
	}
	return doc
}

func find(root *html.Node, match func(*html.Node) bool) *html.Node {
	if root.Type == html.ElementNode && match(root) {
		return root
	}
	for c := root.FirstChild; c != nil; c = c.NextSibling {
		if n := find(c, match); n != nil {
			return n
		}
	}
	return nil
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

func textOf(n *html.Node) string {
	var b strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			b.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return strings.TrimSpace(b.String())
}

func byTag(tag string) func(*html.Node) bool {
	return func(n *html.Node) bool { return n.Data == tag }
}

func byID(id string) func(*html.Node) bool {
	return func(n *html.Node) bool { return attr(n, "id") == id }
}

func serve(t *testing.T, env *webtest.Env, req *http.Request) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	env.Handler(t, New()).ServeHTTP(rec, req)
	return rec
}

func TestPageRendersDefaultLanguage(t *testing.T) {
	t.Parallel()

	env := webtest.New(t)
	rec := serve(t, env, httptest.NewRequest(http.MethodGet, "/", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}
	if got := rec.Header().Get("Content-Type"); !strings.HasPrefix(got, "text/html") {
		t.Fatalf("content-type = %q, want text/html", got)
	}

	doc := parse(t, rec.Body.String())
	root := find(doc, byTag("html"))
	if got := attr(root, "lang"); got != "en" {
		t.Fatalf("html lang = %q, want %q", got, "en")
	}
	if got := textOf(find(doc, byTag("h1"))); got != "Digital Expert" {
		t.Fatalf("h1 = %q, want %q", got, "Digital Expert")
	}
	if tipSection := find(doc, byID("tip")); tipSection == nil || textOf(tipSection) == "" {
		t.Fatal("expected rendered tip section")
	}
	if find(doc, byID("chat")) != nil {
		t.Fatal("chat modal rendered without a conversation")
	}
	if c := webtest.Cookie(rec, i18n.LangCookieName); c != nil {
		t.Fatalf("language cookie set without explicit choice: %v", c)
	}
}

func TestPageLanguageQueryPersistsCookie(t *testing.T) {
	t.Parallel()

	env := webtest.New(t)
	rec := serve(t, env, httptest.NewRequest(http.MethodGet, "/?lang=fi", nil))

	doc := parse(t, rec.Body.String())
	if got := attr(find(doc, byTag("html")), "lang"); got != "fi" {
		t.Fatalf("html lang = %q, want %q", got, "fi")
	}
	if got := textOf(find(doc, byTag("h1"))); got != "Digitaalinen Asiantuntija" {
		t.Fatalf("h1 = %q, want Finnish title", got)
	}
	c := webtest.Cookie(rec, i18n.LangCookieName)
	if c == nil || c.Value != "fi" {
		t.Fatalf("language cookie = %v, want fi", c)
	}
}

func TestPageUsesAcceptLanguage(t *testing.T) {
	t.Parallel()

	env := webtest.New(t)
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Accept-Language", "ru-RU,ru;q=0.9,en;q=0.5")
	rec := serve(t, env, req)

	doc := parse(t, rec.Body.String())
	if got := attr(find(doc, byTag("html")), "lang"); got != "ru" {
		t.Fatalf("html lang = %q, want %q", got, "ru")
	}
}

func TestPageShowsOpenConversation(t *testing.T) {
	t.Parallel()

	gen := &webtest.Generator{Text: "Start with **one channel**."}
	env := webtest.New(t, webtest.WithGenerator(gen))
	exchange, err := env.Chat.Send(context.Background(), "", "en", "How do I start?")
	if err != nil {
		t.Fatalf("Send() error = %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(env.VisitorCookie(t, exchange.ConversationID))
	rec := serve(t, env, req)

	doc := parse(t, rec.Body.String())
	modal := find(doc, byID("chat"))
	if modal == nil {
		t.Fatal("expected chat modal for open conversation")
	}
	if strong := find(modal, byTag("strong")); strong == nil || textOf(strong) != "one channel" {
		t.Fatalf("expert markdown not rendered: %q", rec.Body.String())
	}
	if !strings.Contains(textOf(modal), "How do I start?") {
		t.Fatal("user message missing from modal")
	}
}

func TestPageHidesClosedConversation(t *testing.T) {
	t.Parallel()

	env := webtest.New(t)
	ctx := context.Background()
	conv, err := env.Chat.Open(ctx, "")
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	if _, err := env.Chat.Close(ctx, conv.ID); err != nil {
		t.Fatalf("Close() error = %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(env.VisitorCookie(t, conv.ID))
	rec := serve(t, env, req)

	if find(parse(t, rec.Body.String()), byID("chat")) != nil {
		t.Fatal("closed conversation rendered a modal")
	}
	if c := webtest.Cookie(rec, visitor.CookieName); c != nil {
		t.Fatalf("valid visitor cookie rewritten: %v", c)
	}
}

func TestPageClearsStaleVisitorCookie(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		cookie func(*testing.T, *webtest.Env) *http.Cookie
	}{
		{
			name: "tampered",
			cookie: func(*testing.T, *webtest.Env) *http.Cookie {
				return &http.Cookie{Name: visitor.CookieName, Value: "not-a-token"}
			},
		},
		{
			name: "unknown conversation",
			cookie: func(t *testing.T, env *webtest.Env) *http.Cookie {
				orphan, err := id.NewID()
				if err != nil {
					t.Fatalf("new id: %v", err)
				}
				return env.VisitorCookie(t, orphan)
			},
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			env := webtest.New(t)
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.AddCookie(tc.cookie(t, env))
			rec := serve(t, env, req)

			if rec.Code != http.StatusOK {
				t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
			}
			c := webtest.Cookie(rec, visitor.CookieName)
			if c == nil || c.MaxAge >= 0 {
				t.Fatalf("visitor cookie = %v, want expired", c)
			}
		})
	}
}

func TestRoutesOutsidePage(t *testing.T) {
	t.Parallel()

	env := webtest.New(t)
	h := env.Handler(t, New())

	tests := []struct {
		name   string
		method string
		target string
		status int
		body   string
		allow  string
	}{
		{name: "health", method: http.MethodGet, target: "/healthz", status: http.StatusOK, body: "ok"},
		{name: "post root", method: http.MethodPost, target: "/", status: http.StatusMethodNotAllowed, allow: http.MethodGet},
		{name: "unknown path", method: http.MethodGet, target: "/missing", status: http.StatusNotFound},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, httptest.NewRequest(tc.method, tc.target, nil))
			if rec.Code != tc.status {
				t.Fatalf("status = %d, want %d", rec.Code, tc.status)
			}
			if tc.body != "" && strings.TrimSpace(rec.Body.String()) != tc.body {
				t.Fatalf("body = %q, want %q", rec.Body.String(), tc.body)
			}
			if got := rec.Header().Get("Allow"); got != tc.allow {
				t.Fatalf("Allow = %q, want %q", got, tc.allow)
			}
		})
	}
}

func TestChatViewRendersOnlyExpertMarkdown(t *testing.T) {
	t.Parallel()

	view := chat.View{Conversation: chat.Conversation{
		Open: true,
		Messages: []chat.Message{
			{ID: "u1", Text: "**plain**", Sender: chat.SenderUser},
			{ID: "e1", Text: "**bold**", Sender: chat.SenderExpert},
		},
	}}
	got := ChatView(view)
	if !got.Open || len(got.Messages) != 2 {
		t.Fatalf("ChatView() = %+v", got)
	}
	if got.Messages[0].Expert || got.Messages[0].HTML != "" {
		t.Fatalf("user message = %+v, want plain", got.Messages[0])
	}
	if !strings.Contains(string(got.Messages[1].HTML), "<strong>bold</strong>") {
		t.Fatalf("expert html = %q, want <strong>", got.Messages[1].HTML)
	}
}
