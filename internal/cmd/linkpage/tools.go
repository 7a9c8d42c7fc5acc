package linkpage

import (
	"context"
	"fmt"
	"io"

	"github.com/digitalexpert/linkpage/internal/services/mcp/domain"
	mcpservice "github.com/digitalexpert/linkpage/internal/services/mcp/service"
	"go.uber.org/zap"
)

// PrintTip writes one tip in lang to w.
func PrintTip(ctx context.Context, cfg Config, lang string, w io.Writer, logger *zap.Logger) error {
	services, err := newToolServices(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer services.Close()

	got := services.Tips.Next(ctx, domain.Language(services.Site, lang))
	if _, err := fmt.Fprintln(w, got.Text); err != nil {
		return err
	}
	if got.Failed {
		return fmt.Errorf("tip generation failed")
	}
	return nil
}

// ServeMCP serves the MCP tools on stdio until the client leaves or ctx ends.
func ServeMCP(ctx context.Context, cfg Config, logger *zap.Logger) error {
	if logger == nil {
		logger = zap.NewNop()
	}
	services, err := newToolServices(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer services.Close()

	server, err := mcpservice.New(mcpservice.Config{
		Site:   services.Site,
		Texts:  services.Catalog,
		Tips:   services.Tips,
		Expert: services.Chat,
		Logger: logger.Named("mcp"),
	})
	if err != nil {
		return fmt.Errorf("init mcp server: %w", err)
	}
	return server.Serve(ctx)
}

// newToolServices builds services for commands that keep no transcripts, so
// a configured database is never opened.
func newToolServices(ctx context.Context, cfg Config, logger *zap.Logger) (*Services, error) {
	cfg.DBPath = ""
	return NewServices(ctx, cfg, logger)
}
