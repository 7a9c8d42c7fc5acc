// Package service runs the MCP server over the link page services.
package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/digitalexpert/linkpage/internal/linkpage/site"
	"github.com/digitalexpert/linkpage/internal/services/mcp/domain"
	"github.com/modelcontextprotocol/go-sdk/mcp"
	"go.uber.org/zap"
)

const (
	serverName    = "linkpage"
	serverVersion = "0.1.0"
)

// Config wires the services the tools call.
type Config struct {
	Site   site.Site
	Texts  domain.Translator
	Tips   domain.TipSource
	Expert domain.Asker
	Logger *zap.Logger
}

// Server hosts MCP tools and resources.
type Server struct {
	mcpServer *mcp.Server
	logger    *zap.Logger
}

type registration struct {
	name     string
	register func(*mcp.Server)
}

// New builds a server with every tool registered.
func New(cfg Config) (*Server, error) {
	if cfg.Texts == nil {
		return nil, errors.New("translations are required")
	}
	if cfg.Tips == nil {
		return nil, errors.New("tip service is required")
	}
	if cfg.Expert == nil {
		return nil, errors.New("expert is required")
	}
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	mcpServer := mcp.NewServer(&mcp.Implementation{Name: serverName, Version: serverVersion}, nil)
	for _, r := range registrations(cfg) {
		r.register(mcpServer)
		logger.Debug("mcp registration", zap.String("name", r.name))
	}
	return &Server{mcpServer: mcpServer, logger: logger}, nil
}

func registrations(cfg Config) []registration {
	return []registration{
		{name: "list_links", register: func(s *mcp.Server) {
			mcp.AddTool(s, domain.ListLinksTool(), domain.ListLinksHandler(cfg.Site, cfg.Texts))
		}},
		{name: "expert_tip", register: func(s *mcp.Server) {
			mcp.AddTool(s, domain.ExpertTipTool(), domain.ExpertTipHandler(cfg.Site, cfg.Tips))
		}},
		{name: "ask_expert", register: func(s *mcp.Server) {
			mcp.AddTool(s, domain.AskExpertTool(), domain.AskExpertHandler(cfg.Site, cfg.Expert))
		}},
		{name: "site", register: func(s *mcp.Server) {
			s.AddResource(domain.SiteResource(), domain.SiteResourceHandler(cfg.Site))
		}},
	}
}

// Serve runs the server on stdio and blocks until the client leaves or ctx
// ends.
func (s *Server) Serve(ctx context.Context) error {
	return s.serveWithTransport(ctx, &mcp.StdioTransport{})
}

func (s *Server) serveWithTransport(ctx context.Context, transport mcp.Transport) error {
	if s == nil || s.mcpServer == nil {
		return fmt.Errorf("MCP server is not configured")
	}
	if ctx == nil {
		ctx = context.Background()
	}
	s.logger.Info("mcp server starting", zap.String("name", serverName), zap.String("version", serverVersion))
	err := s.mcpServer.Run(ctx, transport)
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("serve MCP: %w", err)
	}
	return nil
}
