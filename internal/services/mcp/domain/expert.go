package domain

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/digitalexpert/linkpage/internal/linkpage/chat"
	"github.com/digitalexpert/linkpage/internal/linkpage/site"
	"github.com/digitalexpert/linkpage/internal/linkpage/tip"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// TipSource produces expert tips.
type TipSource interface {
	Next(ctx context.Context, lang string) tip.Tip
}

// Asker answers a single question without keeping a transcript.
type Asker interface {
	Ask(ctx context.Context, lang, text string) (string, error)
}

// ExpertTipInput represents the MCP tool input for a tip.
type ExpertTipInput struct {
	Language string `json:"language,omitempty" jsonschema:"language code for the tip (defaults to en)"`
}

// ExpertTipResult represents the MCP tool output for a tip.
type ExpertTipResult struct {
	Language    string `json:"language" jsonschema:"language the tip is in"`
	Text        string `json:"text" jsonschema:"tip text, or the localized error message when failed"`
	Failed      bool   `json:"failed" jsonschema:"whether generation failed"`
	RateLimited bool   `json:"rate_limited" jsonschema:"whether the provider refused for quota reasons"`
}

// ExpertTipTool defines the MCP tool schema for tips.
func ExpertTipTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "expert_tip",
		Description: "Returns one short practical tip about websites, advertising or automation",
	}
}

// ExpertTipHandler serves tips from tips.
func ExpertTipHandler(cfg site.Site, tips TipSource) mcp.ToolHandlerFor[ExpertTipInput, ExpertTipResult] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input ExpertTipInput) (*mcp.CallToolResult, ExpertTipResult, error) {
		if tips == nil {
			return nil, ExpertTipResult{}, fmt.Errorf("tip service is not configured")
		}
		lang := Language(cfg, input.Language)
		got := tips.Next(ctx, lang)
		return nil, ExpertTipResult{
			Language:    lang,
			Text:        got.Text,
			Failed:      got.Failed,
			RateLimited: got.RateLimited,
		}, nil
	}
}

// AskExpertInput represents the MCP tool input for a question.
type AskExpertInput struct {
	Language string `json:"language,omitempty" jsonschema:"language code for the reply (defaults to en)"`
	Question string `json:"question" jsonschema:"question for the expert (required)"`
}

// AskExpertResult represents the MCP tool output for a question.
type AskExpertResult struct {
	Language string `json:"language" jsonschema:"language the reply is in"`
	Reply    string `json:"reply" jsonschema:"expert reply in markdown"`
}

// AskExpertTool defines the MCP tool schema for questions.
func AskExpertTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "ask_expert",
		Description: "Asks the expert one question and returns the reply; nothing is stored",
	}
}

// AskExpertHandler answers questions through asker.
func AskExpertHandler(cfg site.Site, asker Asker) mcp.ToolHandlerFor[AskExpertInput, AskExpertResult] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input AskExpertInput) (*mcp.CallToolResult, AskExpertResult, error) {
		if asker == nil {
			return nil, AskExpertResult{}, fmt.Errorf("expert is not configured")
		}
		if strings.TrimSpace(input.Question) == "" {
			return nil, AskExpertResult{}, fmt.Errorf("question is required")
		}
		lang := Language(cfg, input.Language)
		reply, err := asker.Ask(ctx, lang, input.Question)
		if errors.Is(err, chat.ErrMessageTooLong) {
			return nil, AskExpertResult{}, fmt.Errorf("question exceeds %d characters", chat.MaxMessageRunes)
		}
		if err != nil {
			return nil, AskExpertResult{}, fmt.Errorf("ask expert: %w", err)
		}
		return nil, AskExpertResult{Language: lang, Reply: reply}, nil
	}
}
