package service

import (
	"context"
	"encoding/json"
	"math/rand/v2"
	"sort"
	"testing"
	"time"

	"github.com/digitalexpert/linkpage/internal/linkpage/chat"
	"github.com/digitalexpert/linkpage/internal/linkpage/expert"
	"github.com/digitalexpert/linkpage/internal/linkpage/site"
	"github.com/digitalexpert/linkpage/internal/linkpage/tip"
	"github.com/digitalexpert/linkpage/internal/platform/i18n/catalog"
	"github.com/digitalexpert/linkpage/internal/services/mcp/domain"
	"github.com/google/go-cmp/cmp"
	"github.com/modelcontextprotocol/go-sdk/mcp"
	"go.uber.org/zap/zaptest"
)

type scripted struct{ text string }

func (s scripted) Generate(context.Context, expert.Request) (string, error) {
	return s.text, nil
}

func newTestServer(t *testing.T) *Server {
	t.Helper()
	bundle, err := catalog.LoadEmbedded()
	if err != nil {
		t.Fatalf("load catalog: %v", err)
	}
	texts := catalog.NewStore(bundle)
	logger := zaptest.NewLogger(t)
	gen := scripted{text: "Keep it simple."}
	canned := expert.NewCanned(rand.NewPCG(3, 4))

	chatSvc, err := chat.NewService(chat.Config{Store: chat.NewMemoryStore(), Generator: gen, Canned: canned, Texts: texts, Logger: logger})
	if err != nil {
		t.Fatalf("new chat service: %v", err)
	}
	tips, err := tip.NewService(gen, canned, texts, logger)
	if err != nil {
		t.Fatalf("new tip service: %v", err)
	}
	srv, err := New(Config{Site: site.Default(), Texts: texts, Tips: tips, Expert: chatSvc, Logger: logger})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	return srv
}

func connect(t *testing.T, srv *Server) (*mcp.ClientSession, func()) {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	serverTransport, clientTransport := mcp.NewInMemoryTransports()

	serveErr := make(chan error, 1)
	go func() { serveErr <- srv.serveWithTransport(ctx, serverTransport) }()

	client := mcp.NewClient(&mcp.Implementation{Name: "client", Version: "v0.0.1"}, nil)
	connectCtx, connectCancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer connectCancel()
	session, err := client.Connect(connectCtx, clientTransport, nil)
	if err != nil {
		cancel()
		t.Fatalf("connect client: %v", err)
	}
	return session, func() {
		cancel()
		_ = session.Close()
		select {
		case err := <-serveErr:
			if err != nil {
				t.Errorf("serve returned error: %v", err)
			}
		case <-time.After(2 * time.Second):
			t.Error("serve did not stop after cancel")
		}
	}
}

func decodeStructured[T any](t *testing.T, value any) T {
	t.Helper()
	data, err := json.Marshal(value)
	if err != nil {
		t.Fatalf("marshal structured content: %v", err)
	}
	var out T
	if err := json.Unmarshal(data, &out); err != nil {
		t.Fatalf("unmarshal structured content: %v", err)
	}
	return out
}

func TestNewRequiresServices(t *testing.T) {
	t.Parallel()

	if _, err := New(Config{}); err == nil {
		t.Fatal("expected error without services")
	}
}

func TestServerListsTools(t *testing.T) {
	t.Parallel()

	session, stop := connect(t, newTestServer(t))
	defer stop()

	result, err := session.ListTools(context.Background(), nil)
	if err != nil {
		t.Fatalf("ListTools() error = %v", err)
	}
	var names []string
	for _, tool := range result.Tools {
		names = append(names, tool.Name)
	}
	sort.Strings(names)
	if diff := cmp.Diff([]string{"ask_expert", "expert_tip", "list_links"}, names); diff != "" {
		t.Fatalf("tools mismatch (-want +got):\n%s", diff)
	}
}

func TestServerCallsTools(t *testing.T) {
	t.Parallel()

	session, stop := connect(t, newTestServer(t))
	defer stop()
	ctx := context.Background()

	links, err := session.CallTool(ctx, &mcp.CallToolParams{Name: "list_links", Arguments: map[string]any{"language": "et"}})
	if err != nil || links.IsError {
		t.Fatalf("list_links = %+v, %v", links, err)
	}
	listed := decodeStructured[domain.ListLinksResult](t, links.StructuredContent)
	if listed.Language != "et" || len(listed.Links) != len(site.Default().Links) {
		t.Fatalf("list_links result = %+v", listed)
	}

	tipResult, err := session.CallTool(ctx, &mcp.CallToolParams{Name: "expert_tip", Arguments: map[string]any{}})
	if err != nil || tipResult.IsError {
		t.Fatalf("expert_tip = %+v, %v", tipResult, err)
	}
	if got := decodeStructured[domain.ExpertTipResult](t, tipResult.StructuredContent); got.Text != "Keep it simple." || got.Language != "en" {
		t.Fatalf("expert_tip result = %+v", got)
	}

	answer, err := session.CallTool(ctx, &mcp.CallToolParams{Name: "ask_expert", Arguments: map[string]any{"question": "Ads?", "language": "fi"}})
	if err != nil || answer.IsError {
		t.Fatalf("ask_expert = %+v, %v", answer, err)
	}
	if got := decodeStructured[domain.AskExpertResult](t, answer.StructuredContent); got.Reply != "Keep it simple." || got.Language != "fi" {
		t.Fatalf("ask_expert result = %+v", got)
	}
}

func TestAskExpertReportsToolError(t *testing.T) {
	t.Parallel()

	session, stop := connect(t, newTestServer(t))
	defer stop()

	result, err := session.CallTool(context.Background(), &mcp.CallToolParams{Name: "ask_expert", Arguments: map[string]any{"question": "   "}})
	if err != nil {
		t.Fatalf("CallTool() error = %v", err)
	}
	if !result.IsError {
		t.Fatalf("result = %+v, want tool error", result)
	}
}

func TestServerReadsSiteResource(t *testing.T) {
	t.Parallel()

	session, stop := connect(t, newTestServer(t))
	defer stop()

	result, err := session.ReadResource(context.Background(), &mcp.ReadResourceParams{URI: domain.SiteResourceURI})
	if err != nil {
		t.Fatalf("ReadResource() error = %v", err)
	}
	if len(result.Contents) != 1 || result.Contents[0].MIMEType != "application/json" {
		t.Fatalf("contents = %+v", result.Contents)
	}
}
