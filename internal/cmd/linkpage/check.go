package linkpage

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/digitalexpert/linkpage/internal/linkpage/site"
	"github.com/digitalexpert/linkpage/internal/platform/i18n/catalog"
	"github.com/fatih/color"
)

var (
	green  = color.New(color.FgGreen)
	yellow = color.New(color.FgYellow)
	red    = color.New(color.FgRed, color.Bold)
)

// ErrCheckFailed reports that Check printed at least one error.
var ErrCheckFailed = errors.New("configuration check failed")

// Check validates the site file and locale coverage and prints a report to w.
// Missing translations outside English are warnings since the page falls
// back to English for them.
func Check(cfg Config, w io.Writer) error {
	r := report{w: w}

	cfgSite, err := LoadSite(cfg.SiteFile)
	if err != nil {
		r.fail("site %s is invalid", cfg.SiteFile)
		for _, problem := range unjoin(errors.Unwrap(err)) {
			r.detail(problem.Error())
		}
		return r.result()
	}
	r.ok("site: %d links, %d social links, %d languages", len(cfgSite.Links), len(cfgSite.SocialLinks), len(cfgSite.Languages))

	bundle, err := catalog.Load(cfg.LocalesDir)
	switch {
	case bundle == nil:
		r.fail("locales: %s", err)
		return r.result()
	case err != nil:
		r.fail("locales: some override files were skipped")
		for _, problem := range unjoin(err) {
			r.detail(problem.Error())
		}
	default:
		r.ok("locales: %s", strings.Join(bundle.Locales(), ", "))
	}

	required := requiredKeys(cfgSite)
	for _, code := range cfgSite.LanguageCodes() {
		if !bundle.HasLocale(code) {
			r.warn("%s: no locale file, English is shown", code)
			continue
		}
		missing := bundle.Missing(code, required)
		title := bundle.Printer(code).Sprintf("headerTitle")
		switch {
		case len(missing) == 0:
			r.ok("%s: complete (%s)", code, title)
		case code == catalog.BaseLocale:
			r.fail("%s: %d keys missing", code, len(missing))
			r.detail(strings.Join(missing, ", "))
		default:
			r.warn("%s: %d keys fall back to English", code, len(missing))
			r.detail(strings.Join(missing, ", "))
		}
	}
	return r.result()
}

// requiredKeys lists every key the page renders for cfgSite.
func requiredKeys(cfgSite site.Site) []string {
	seen := make(map[string]struct{})
	var keys []string
	for _, key := range append(catalog.FallbackKeys(), cfgSite.TextKeys()...) {
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		keys = append(keys, key)
	}
	return keys
}

func unjoin(err error) []error {
	if err == nil {
		return nil
	}
	if joined, ok := err.(interface{ Unwrap() []error }); ok {
		return joined.Unwrap()
	}
	return []error{err}
}

type report struct {
	w      io.Writer
	failed bool
}

func (r *report) ok(format string, args ...any) {
	_, _ = green.Fprintf(r.w, "✓ "+format+"\n", args...)
}

func (r *report) warn(format string, args ...any) {
	_, _ = yellow.Fprintf(r.w, "! "+format+"\n", args...)
}

func (r *report) fail(format string, args ...any) {
	r.failed = true
	_, _ = red.Fprintf(r.w, "✗ "+format+"\n", args...)
}

func (r *report) detail(line string) {
	_, _ = fmt.Fprintf(r.w, "    %s\n", line)
}

func (r *report) result() error {
	if r.failed {
		return ErrCheckFailed
	}
	return nil
}
