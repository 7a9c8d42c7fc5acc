package tip

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/digitalexpert/linkpage/internal/linkpage/expert"
	"github.com/google/go-cmp/cmp"
)

type keyTexts struct{}

func (keyTexts) Text(code, key string) string { return code + ":" + key }

type generatorFunc func(ctx context.Context, req expert.Request) (string, error)

func (f generatorFunc) Generate(ctx context.Context, req expert.Request) (string, error) {
	return f(ctx, req)
}

func TestNewServiceRequiresTranslator(t *testing.T) {
	t.Parallel()

	if _, err := NewService(nil, nil, nil, nil); err == nil {
		t.Fatal("expected error without translator")
	}
}

func TestNextWithoutGeneratorUsesCanned(t *testing.T) {
	t.Parallel()

	svc, err := NewService(nil, nil, keyTexts{}, nil)
	if err != nil {
		t.Fatalf("NewService() error = %v", err)
	}
	got := svc.Next(context.Background(), "ru")
	if got.Failed || got.Text == "" {
		t.Fatalf("Next() = %+v, want canned tip", got)
	}
}

func TestNextWithGenerator(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		out  string
		err  error
		want Tip
	}{
		{name: "ok", out: " Compress images. ", want: Tip{Text: "Compress images."}},
		{name: "empty", out: "", want: Tip{Text: "fi:expertTipError", Failed: true}},
		{name: "error", err: errors.New("boom"), want: Tip{Text: "fi:expertTipError", Failed: true}},
		{
			name: "rate limited",
			err:  fmt.Errorf("openai: %w", expert.ErrRateLimited),
			want: Tip{Text: "fi:expertTipRateLimitError", Failed: true, RateLimited: true},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			var got expert.Request
			gen := generatorFunc(func(_ context.Context, req expert.Request) (string, error) {
				got = req
				return tt.out, tt.err
			})
			svc, err := NewService(gen, nil, keyTexts{}, nil)
			if err != nil {
				t.Fatalf("NewService() error = %v", err)
			}
			if diff := cmp.Diff(tt.want, svc.Next(context.Background(), "fi")); diff != "" {
				t.Fatalf("Next() mismatch (-want +got):\n%s", diff)
			}
			if got.Kind != expert.KindTip || got.Language != "fi" {
				t.Fatalf("request = %+v", got)
			}
		})
	}
}
