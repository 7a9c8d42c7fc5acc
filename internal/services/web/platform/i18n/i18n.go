// Package i18n resolves the display language of a request.
package i18n

import (
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/text/language"
)

const (
	// LangParam is the query parameter used to select a language.
	LangParam = "lang"
	// LangCookieName stores the visitor's language preference.
	LangCookieName = "linkpage_lang"
	// DefaultLanguage is used when nothing else matches.
	DefaultLanguage = "en"
)

// Resolver picks one of a fixed set of language codes for each request.
type Resolver struct {
	codes   []string
	byCode  map[string]string
	matcher language.Matcher
}

// NewResolver builds a resolver over codes, in preference order. The default
// language is appended when codes leaves it out.
func NewResolver(codes []string) *Resolver {
	r := &Resolver{byCode: make(map[string]string, len(codes)+1)}
	for _, code := range codes {
		r.add(code)
	}
	r.add(DefaultLanguage)

	// The matcher's first tag is its fallback, so the default goes first.
	tags := []language.Tag{language.Make(DefaultLanguage)}
	for _, code := range r.codes {
		if code != DefaultLanguage {
			tags = append(tags, language.Make(code))
		}
	}
	r.matcher = language.NewMatcher(tags)
	return r
}

func (r *Resolver) add(code string) {
	code = strings.ToLower(strings.TrimSpace(code))
	if code == "" {
		return
	}
	if _, ok := r.byCode[code]; ok {
		return
	}
	r.byCode[code] = code
	r.codes = append(r.codes, code)
}

// Codes returns the supported codes in preference order.
func (r *Resolver) Codes() []string {
	return append([]string(nil), r.codes...)
}

// Supported maps value onto a supported code. Region and script subtags are
// dropped, so "ru-RU" resolves to "ru".
func (r *Resolver) Supported(value string) (string, bool) {
	value = strings.ToLower(strings.TrimSpace(value))
	if value == "" {
		return "", false
	}
	if code, ok := r.byCode[value]; ok {
		return code, true
	}
	tag, err := language.Parse(value)
	if err != nil {
		return "", false
	}
	base, _ := tag.Base()
	code, ok := r.byCode[base.String()]
	return code, ok
}

// Resolve determines the request language. The bool reports whether the
// choice came from the query parameter and should be persisted.
func (r *Resolver) Resolve(req *http.Request) (string, bool) {
	if req == nil {
		return DefaultLanguage, false
	}
	if req.URL != nil {
		if code, ok := r.Supported(req.URL.Query().Get(LangParam)); ok {
			return code, true
		}
	}
	if cookie, err := req.Cookie(LangCookieName); err == nil {
		if code, ok := r.Supported(cookie.Value); ok {
			return code, false
		}
	}
	if accept := strings.TrimSpace(req.Header.Get("Accept-Language")); accept != "" {
		if code, ok := r.matchAccept(accept); ok {
			return code, false
		}
	}
	return DefaultLanguage, false
}

func (r *Resolver) matchAccept(accept string) (string, bool) {
	tags, _, err := language.ParseAcceptLanguage(accept)
	if err != nil || len(tags) == 0 {
		return "", false
	}
	tag, _, confidence := r.matcher.Match(tags...)
	if confidence == language.No {
		return "", false
	}
	base, _ := tag.Base()
	return r.Supported(base.String())
}

// ResolveAndPersist resolves the request language and stores an explicit
// query choice in the language cookie.
func (r *Resolver) ResolveAndPersist(w http.ResponseWriter, req *http.Request) string {
	code, persist := r.Resolve(req)
	if persist {
		SetLanguageCookie(w, code)
	}
	return code
}

// SetLanguageCookie persists the selected language on the response.
func SetLanguageCookie(w http.ResponseWriter, code string) {
	if w == nil {
		return
	}
	http.SetCookie(w, &http.Cookie{
		Name:     LangCookieName,
		Value:    code,
		Path:     "/",
		MaxAge:   int((365 * 24 * time.Hour).Seconds()),
		SameSite: http.SameSiteLaxMode,
	})
}

// LanguageURL returns path with the language param set to code, keeping the
// rest of the query.
func LanguageURL(path, rawQuery, code string) string {
	path = strings.TrimSpace(path)
	if path == "" {
		path = "/"
	}
	query, err := url.ParseQuery(rawQuery)
	if err != nil {
		query = url.Values{}
	}
	query.Set(LangParam, code)
	return (&url.URL{Path: path, RawQuery: query.Encode()}).String()
}
