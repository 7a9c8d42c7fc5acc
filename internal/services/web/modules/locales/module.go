// Package locales serves the raw translation files.
package locales

import (
	"errors"
	"net/http"
	"strings"

	module "github.com/digitalexpert/linkpage/internal/services/web/module"
	"github.com/digitalexpert/linkpage/internal/services/web/platform/httpx"
	"github.com/digitalexpert/linkpage/internal/services/web/routepath"
)

// Module serves GET /locales/<code>.json.
type Module struct{}

// New returns the locales module.
func New() Module { return Module{} }

// ID returns a stable module identifier.
func (Module) ID() string { return "locales" }

// Mount wires the locale file route.
func (Module) Mount(deps module.Dependencies) (module.Mount, error) {
	if deps.Catalog == nil {
		return module.Mount{}, errors.New("catalog store is required")
	}
	mux := http.NewServeMux()
	mux.HandleFunc(http.MethodGet+" "+routepath.LocalePattern, func(w http.ResponseWriter, r *http.Request) {
		code, ok := strings.CutSuffix(r.PathValue("file"), ".json")
		if !ok || code == "" {
			http.NotFound(w, r)
			return
		}
		table, ok := deps.Catalog.Bundle().Raw(code)
		if !ok {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Cache-Control", "no-cache")
		_ = httpx.WriteJSON(w, http.StatusOK, table)
	})
	mux.HandleFunc(routepath.LocalesPrefix+"{rest...}", http.NotFound)
	return module.Mount{Prefix: routepath.LocalesPrefix, Handler: mux}, nil
}
