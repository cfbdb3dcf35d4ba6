package dev

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/lumen-dev/lumen/internal/config"
	"github.com/lumen-dev/lumen/internal/errors"
)

// Server is the development HTTP server.
type Server struct {
	cfg     *config.Config
	log     *slog.Logger
	hub     *ReloadHub
	watcher *Watcher
	http    *http.Server
}

// NewServer creates a development server for the project described by
// cfg.
func NewServer(cfg *config.Config, log *slog.Logger) (*Server, error) {
	s := &Server{
		cfg: cfg,
		log: log,
		hub: NewReloadHub(log),
	}

	if cfg.Dev.LiveReload {
		watchPaths := make([]string, 0, len(cfg.Dev.Watch))
		for _, p := range cfg.Dev.Watch {
			if !filepath.IsAbs(p) && cfg.Dir() != "" {
				p = filepath.Join(cfg.Dir(), p)
			}
			watchPaths = append(watchPaths, p)
		}
		watcher, err := NewWatcher(WatcherConfig{
			Paths:  watchPaths,
			Ignore: cfg.Dev.Ignore,
		}, log)
		if err != nil {
			return nil, err
		}
		s.watcher = watcher
	}

	s.http = &http.Server{
		Addr:              cfg.DevAddress(),
		Handler:           s.routes(),
		ReadHeaderTimeout: 5 * time.Second,
	}
	return s, nil
}

func (s *Server) routes() http.Handler {
	r := chi.NewRouter()
	r.Use(chimw.RealIP)
	r.Use(s.requestLogger)
	r.Use(chimw.Recoverer)

	r.Get("/_lumen/reload", s.hub.ServeHTTP)
	r.Get("/_lumen/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})
	r.Handle("/_lumen/metrics", promhttp.Handler())

	// Page fragments are served as-is for the router's remote sources.
	pagesDir := s.cfg.PagesPath()
	r.Handle("/pages/*", http.StripPrefix("/pages/",
		http.FileServer(http.Dir(pagesDir))))

	// Everything else: static file if present, app shell otherwise.
	r.NotFound(s.serveStatic)

	return r
}

// serveStatic serves files from the public directory, falling back to
// index.html so client-routed deep links work.
func (s *Server) serveStatic(w http.ResponseWriter, req *http.Request) {
	staticDir := s.cfg.StaticPath()
	clean := filepath.Clean(strings.TrimPrefix(req.URL.Path, "/"))
	if strings.HasPrefix(clean, "..") {
		http.NotFound(w, req)
		return
	}

	full := filepath.Join(staticDir, clean)
	if info, err := os.Stat(full); err == nil && !info.IsDir() {
		http.ServeFile(w, req, full)
		return
	}

	s.serveShell(w, req, filepath.Join(staticDir, "index.html"))
}

// serveShell serves the app shell with the reload client injected.
func (s *Server) serveShell(w http.ResponseWriter, req *http.Request, shellPath string) {
	data, err := os.ReadFile(shellPath)
	if err != nil {
		http.Error(w, "no index.html in "+s.cfg.StaticPath(), http.StatusNotFound)
		return
	}

	html := string(data)
	if s.cfg.Dev.LiveReload {
		if i := strings.LastIndex(html, "</body>"); i >= 0 {
			html = html[:i] + ReloadScript + html[i:]
		} else {
			html += ReloadScript
		}
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	w.Write([]byte(html))
}

// requestLogger logs each request at debug level.
func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, req)
		s.log.Debug("request",
			"method", req.Method,
			"path", req.URL.Path,
			"duration", time.Since(start))
	})
}

// Run serves until ctx is canceled, watching files and broadcasting
// reloads while it runs.
func (s *Server) Run(ctx context.Context) error {
	if s.watcher != nil {
		go s.watcher.Run(ctx, func(c Change) {
			s.hub.Broadcast(ReloadMessage{Kind: c.Kind, File: filepath.Base(c.Path)})
		})
		defer s.watcher.Close()
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.Info("development server listening", "url", s.cfg.DevURL())
		errCh <- s.http.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		s.hub.Close()
		if err := s.http.Shutdown(shutdownCtx); err != nil {
			return errors.Newf(errors.CategoryCLI, "shutting down dev server: %v", err)
		}
		return nil
	case err := <-errCh:
		if err == http.ErrServerClosed {
			return nil
		}
		return errors.Newf(errors.CategoryCLI, "dev server: %v", err)
	}
}

// Handler exposes the server's HTTP handler, used by tests.
func (s *Server) Handler() http.Handler {
	return s.http.Handler
}
