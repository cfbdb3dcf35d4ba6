package lumen

import (
	"context"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/lumen-dev/lumen/pkg/dom"
	"github.com/lumen-dev/lumen/pkg/seo"
)

func newTestApp(t *testing.T, cfg Config) (*App, *dom.Memory) {
	t.Helper()
	doc := dom.NewMemory()
	cfg.Document = doc
	if cfg.Logger == nil {
		cfg.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	app := New(cfg)
	t.Cleanup(func() { app.Close() })
	return app, doc
}

func TestAppZeroConfigNavigates(t *testing.T) {
	app, doc := newTestApp(t, Config{})

	if err := app.AddRoute("/", func(ctx *Ctx) (string, error) {
		return "<h1>Home</h1>", nil
	}); err != nil {
		t.Fatalf("AddRoute: %v", err)
	}

	app.Navigate("/")

	if got := doc.Content(); got != "<h1>Home</h1>" {
		t.Errorf("content = %q, want home page", got)
	}
	if got := app.CurrentPath(); got != "/" {
		t.Errorf("CurrentPath = %q, want /", got)
	}
}

func TestAppTemplateRoute(t *testing.T) {
	app, doc := newTestApp(t, Config{})

	if err := app.AddRoute("/hi/[name]", nil, Template("<p>Hi {{params.name}}</p>")); err != nil {
		t.Fatalf("AddRoute: %v", err)
	}

	app.Navigate("/hi/Ann")

	if got := doc.Content(); got != "<p>Hi Ann</p>" {
		t.Errorf("content = %q", got)
	}
}

func TestAppDefaultMetaApplied(t *testing.T) {
	_, doc := newTestApp(t, Config{
		Meta: seo.PageMeta{
			Title:       "Acme",
			Description: "Example site",
		},
	})

	if got := doc.Title(); got != "Acme" {
		t.Errorf("title = %q, want Acme", got)
	}
	if got := doc.Meta("description"); got != "Example site" {
		t.Errorf("description = %q", got)
	}
}

func TestAppStateRoundTrip(t *testing.T) {
	app, _ := newTestApp(t, Config{})
	ctx := context.Background()

	type prefs struct {
		Theme string `json:"theme"`
	}

	if err := app.SaveState(ctx, "prefs", prefs{Theme: "dark"}); err != nil {
		t.Fatalf("SaveState: %v", err)
	}

	var got prefs
	if err := app.LoadState(ctx, "prefs", &got); err != nil {
		t.Fatalf("LoadState: %v", err)
	}
	if got.Theme != "dark" {
		t.Errorf("theme = %q, want dark", got.Theme)
	}

	if err := app.DeleteState(ctx, "prefs"); err != nil {
		t.Fatalf("DeleteState: %v", err)
	}
	if err := app.LoadState(ctx, "prefs", &got); !IsStoreMissing(err) {
		t.Errorf("after delete err = %v, want store missing", err)
	}
}

func TestAppErrorPage(t *testing.T) {
	app, doc := newTestApp(t, Config{})

	app.SetErrorPage(func(ctx *Ctx, err error) string {
		return "<h1>Broken: " + ctx.Path + "</h1>"
	})
	if err := app.AddRoute("/boom", func(ctx *Ctx) (string, error) {
		return "", io.ErrUnexpectedEOF
	}); err != nil {
		t.Fatalf("AddRoute: %v", err)
	}

	app.Navigate("/boom")

	if got := doc.Content(); !strings.Contains(got, "Broken: /boom") {
		t.Errorf("content = %q, want custom error page", got)
	}
}
