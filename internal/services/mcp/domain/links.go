// Package domain defines the MCP tools and resources over the link page.
package domain

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/digitalexpert/linkpage/internal/linkpage/site"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// defaultLanguage answers when a caller names no configured language.
const defaultLanguage = "en"

// SiteResourceURI addresses the site configuration resource.
const SiteResourceURI = "linkpage://site"

// Translator resolves user-facing text for a language.
type Translator interface {
	Text(code, key string) string
}

// ListLinksInput represents the MCP tool input for listing links.
type ListLinksInput struct {
	Language string `json:"language,omitempty" jsonschema:"language code for link titles (defaults to en)"`
}

// LinkEntry is one link as the page shows it.
type LinkEntry struct {
	ID      string `json:"id" jsonschema:"link identifier"`
	Title   string `json:"title" jsonschema:"localized link title"`
	URL     string `json:"url,omitempty" jsonschema:"link target; empty for in-page actions"`
	Action  string `json:"action,omitempty" jsonschema:"in-page action the link triggers"`
	Primary bool   `json:"primary" jsonschema:"whether the link is highlighted"`
}

// ListLinksResult represents the MCP tool output for listing links.
type ListLinksResult struct {
	Language string      `json:"language" jsonschema:"language the titles are in"`
	Links    []LinkEntry `json:"links" jsonschema:"links in page order"`
}

// ListLinksTool defines the MCP tool schema for listing links.
func ListLinksTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "list_links",
		Description: "Lists the links on the page with titles in the requested language",
	}
}

// ListLinksHandler lists cfg's links.
func ListLinksHandler(cfg site.Site, texts Translator) mcp.ToolHandlerFor[ListLinksInput, ListLinksResult] {
	return func(_ context.Context, _ *mcp.CallToolRequest, input ListLinksInput) (*mcp.CallToolResult, ListLinksResult, error) {
		if texts == nil {
			return nil, ListLinksResult{}, fmt.Errorf("translations are not configured")
		}
		lang := Language(cfg, input.Language)
		result := ListLinksResult{Language: lang, Links: make([]LinkEntry, 0, len(cfg.Links))}
		for _, link := range cfg.Links {
			entry := LinkEntry{
				ID:      link.ID,
				Title:   texts.Text(lang, link.TextKey),
				Action:  link.Action,
				Primary: link.Primary,
			}
			if link.Action == "" {
				entry.URL = link.Target()
			}
			result.Links = append(result.Links, entry)
		}
		return nil, result, nil
	}
}

// SitePayload is the JSON body of the site resource.
type SitePayload struct {
	Profile   site.Profile `json:"profile"`
	Languages []string     `json:"languages"`
	Links     []string     `json:"links"`
}

// SiteResource defines the site configuration resource.
func SiteResource() *mcp.Resource {
	return &mcp.Resource{
		Name:        "site",
		Title:       "Link page",
		Description: "Profile, languages and link IDs of the page",
		MIMEType:    "application/json",
		URI:         SiteResourceURI,
	}
}

// SiteResourceHandler serves cfg as JSON.
func SiteResourceHandler(cfg site.Site) mcp.ResourceHandler {
	return func(_ context.Context, req *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
		uri := SiteResourceURI
		if req != nil && req.Params != nil && req.Params.URI != "" {
			uri = req.Params.URI
		}
		payload := SitePayload{Profile: cfg.Profile, Languages: cfg.LanguageCodes()}
		for _, link := range cfg.Links {
			payload.Links = append(payload.Links, link.ID)
		}
		data, err := json.MarshalIndent(payload, "", "  ")
		if err != nil {
			return nil, fmt.Errorf("marshal site: %w", err)
		}
		return &mcp.ReadResourceResult{
			Contents: []*mcp.ResourceContents{
				{
					URI:      uri,
					MIMEType: "application/json",
					Text:     string(data),
				},
			},
		}, nil
	}
}

// Language maps a requested code onto a configured language, falling back to
// the base tag and then to English.
func Language(cfg site.Site, requested string) string {
	requested = strings.TrimSpace(requested)
	if entry, ok := cfg.Language(requested); ok {
		return strings.ToLower(entry.Code)
	}
	if base, _, found := strings.Cut(requested, "-"); found {
		if entry, ok := cfg.Language(base); ok {
			return strings.ToLower(entry.Code)
		}
	}
	return defaultLanguage
}
