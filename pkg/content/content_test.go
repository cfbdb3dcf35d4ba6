package content

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/lumen-dev/lumen/pkg/fetch"
)

func TestInterpolate(t *testing.T) {
	vars := map[string]any{
		"path":     "/user/7",
		"fullPath": "/user/7?tab=profile",
		"params":   map[string]string{"name": "Ann", "id": "7"},
		"query":    map[string]string{"tab": "profile"},
	}

	tests := []struct {
		name string
		text string
		want string
	}{
		{"no placeholders", "plain text", "plain text"},
		{"param", "Hi {{params.name}}", "Hi Ann"},
		{"top level", "at {{path}}", "at /user/7"},
		{"query", "tab={{query.tab}}", "tab=profile"},
		{"multiple", "{{params.name}} #{{params.id}}", "Ann #7"},
		{"unresolved left verbatim", "Hi {{params.missing}}", "Hi {{params.missing}}"},
		{"unresolved root", "{{nothing.here}}", "{{nothing.here}}"},
		{"adjacent text", "<b>{{params.name}}</b>", "<b>Ann</b>"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Interpolate(tt.text, vars); got != tt.want {
				t.Errorf("Interpolate(%q) = %q, want %q", tt.text, got, tt.want)
			}
		})
	}
}

func TestInterpolateNonStringValues(t *testing.T) {
	vars := map[string]any{"meta": map[string]any{"count": 42}}
	if got := Interpolate("n={{meta.count}}", vars); got != "n=42" {
		t.Errorf("got %q", got)
	}
}

func TestLoaderLoad(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("body for " + r.URL.Path))
	}))
	defer srv.Close()

	l := NewLoader(fetch.New())
	got, err := l.Load(context.Background(), srv.URL+"/p.html")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got != "body for /p.html" {
		t.Errorf("Load = %q", got)
	}
}

func TestLoaderDeduplicatesConcurrentFetches(t *testing.T) {
	var hits atomic.Int32
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		<-release
		w.Write([]byte("shared"))
	}))
	defer srv.Close()

	l := NewLoader(fetch.New())

	const callers = 5
	var wg sync.WaitGroup
	results := make([]string, callers)
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			body, err := l.Load(context.Background(), srv.URL+"/shared.html")
			if err != nil {
				t.Errorf("Load: %v", err)
				return
			}
			results[i] = body
		}(i)
	}

	// Let all callers pile onto the in-flight fetch before releasing it.
	time.Sleep(50 * time.Millisecond)
	close(release)
	wg.Wait()

	if got := hits.Load(); got != 1 {
		t.Errorf("origin hit %d times, want 1", got)
	}
	for i, r := range results {
		if r != "shared" {
			t.Errorf("caller %d got %q", i, r)
		}
	}
}

func TestLoaderSequentialFetchesAreNotShared(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.Write([]byte("x"))
	}))
	defer srv.Close()

	l := NewLoader(fetch.New())
	for i := 0; i < 3; i++ {
		if _, err := l.Load(context.Background(), srv.URL); err != nil {
			t.Fatalf("Load: %v", err)
		}
	}
	if got := hits.Load(); got != 3 {
		t.Errorf("origin hit %d times, want 3", got)
	}
}
