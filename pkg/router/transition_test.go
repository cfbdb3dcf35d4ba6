package router

import (
	"errors"
	"strings"
	"testing"
)

// The default fade sets opacity 0 before resolution; every outcome
// must bring the page back, not just a successful render.

func TestTransitionRunsInAfterSuccess(t *testing.T) {
	r, doc, _ := newTestRouter(t)
	if err := r.AddRoute("/", staticHandler("home")); err != nil {
		t.Fatal(err)
	}
	if err := r.AddRoute("/next", staticHandler("next")); err != nil {
		t.Fatal(err)
	}

	r.Navigate("/")
	r.Navigate("/next")

	if doc.Opacity() != 1 {
		t.Errorf("opacity = %v, want 1 after successful navigation", doc.Opacity())
	}
}

func TestTransitionRestoredOnGuardRejection(t *testing.T) {
	r, doc, _ := newTestRouter(t)
	if err := r.AddRoute("/", staticHandler("home")); err != nil {
		t.Fatal(err)
	}
	if err := r.AddRoute("/locked", staticHandler("secret"),
		WithGuards(func(*Context) bool { return false })); err != nil {
		t.Fatal(err)
	}
	r.Navigate("/")

	r.Navigate("/locked")

	if doc.Opacity() != 1 {
		t.Errorf("opacity = %v, want 1 restored after guard rejection", doc.Opacity())
	}
	if doc.Content() != "home" {
		t.Errorf("content = %q, guard rejection must not change content", doc.Content())
	}
}

func TestTransitionRestoredOnMiddlewareAbort(t *testing.T) {
	r, doc, _ := newTestRouter(t)
	if err := r.AddRoute("/", staticHandler("home")); err != nil {
		t.Fatal(err)
	}
	if err := r.AddRoute("/halted", staticHandler("x"),
		WithMiddleware(MiddlewareFunc(func(ctx *Context, next func() error) error {
			return ErrNavigationAborted
		}))); err != nil {
		t.Fatal(err)
	}
	r.Navigate("/")

	r.Navigate("/halted")

	if doc.Opacity() != 1 {
		t.Errorf("opacity = %v, want 1 restored after middleware abort", doc.Opacity())
	}
}

func TestTransitionRunsInAfterErrorRender(t *testing.T) {
	r, doc, _ := newTestRouter(t)
	if err := r.AddRoute("/", staticHandler("home")); err != nil {
		t.Fatal(err)
	}
	if err := r.AddRoute("/boom", func(*Context) (string, error) {
		return "", errors.New("handler failed")
	}); err != nil {
		t.Fatal(err)
	}
	r.Navigate("/")

	r.Navigate("/boom")

	if !strings.Contains(doc.Content(), "Navigation Error") {
		t.Fatalf("content = %q, want error page", doc.Content())
	}
	if doc.Opacity() != 1 {
		t.Errorf("opacity = %v, error page must render visible", doc.Opacity())
	}
}

func TestTransitionRunsInAfterGenericNotFound(t *testing.T) {
	r, doc, _ := newTestRouter(t)
	if err := r.AddRoute("/", staticHandler("home")); err != nil {
		t.Fatal(err)
	}
	r.Navigate("/")

	r.Navigate("/missing")

	if !strings.Contains(doc.Content(), "Page Not Found") {
		t.Fatalf("content = %q, want not-found page", doc.Content())
	}
	if doc.Opacity() != 1 {
		t.Errorf("opacity = %v, not-found page must render visible", doc.Opacity())
	}
}
