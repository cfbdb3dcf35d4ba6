package fetch

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/lumen-dev/lumen/internal/errors"
)

func TestTextSuccess(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("Hi {{params.name}}"))
	}))
	defer srv.Close()

	c := New()
	body, err := c.Text(context.Background(), srv.URL+"/p.html")
	if err != nil {
		t.Fatalf("Text: %v", err)
	}
	if body != "Hi {{params.name}}" {
		t.Errorf("body = %q", body)
	}
}

func TestTextNon2xx(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer srv.Close()

	c := New()
	_, err := c.Text(context.Background(), srv.URL+"/missing.html")
	if err == nil {
		t.Fatal("expected error for 404 response")
	}
	if !errors.Is(err, errors.CodeFetchFailed) {
		t.Errorf("err = %v, want code %s", err, errors.CodeFetchFailed)
	}
}

func TestTextConnectionError(t *testing.T) {
	c := New()
	// Port 1 is essentially never listening.
	_, err := c.Text(context.Background(), "http://127.0.0.1:1/x")
	if err == nil {
		t.Fatal("expected connection error")
	}
}

func TestBaseURLResolution(t *testing.T) {
	var gotPath string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		w.Write([]byte("ok"))
	}))
	defer srv.Close()

	c := New(WithBaseURL(srv.URL + "/"))
	if _, err := c.Text(context.Background(), "pages/about.html"); err != nil {
		t.Fatalf("Text: %v", err)
	}
	if gotPath != "/pages/about.html" {
		t.Errorf("request path = %q, want /pages/about.html", gotPath)
	}

	// Absolute URLs bypass the base.
	if _, err := c.Text(context.Background(), srv.URL+"/abs.html"); err != nil {
		t.Fatalf("Text absolute: %v", err)
	}
	if gotPath != "/abs.html" {
		t.Errorf("request path = %q, want /abs.html", gotPath)
	}
}

func TestTextContextCancel(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	c := New()
	_, err := c.Text(ctx, srv.URL)
	if err == nil || !strings.Contains(err.Error(), "context canceled") {
		t.Errorf("err = %v, want context cancellation", err)
	}
}
