package pwa

import (
	"fmt"
	"strings"
)

// WorkerConfig configures service worker generation.
type WorkerConfig struct {
	// CacheName names the browser cache; changing it invalidates all
	// previously cached assets.
	CacheName string

	// Precache lists URLs cached on install, typically the app shell
	// and fingerprinted assets.
	Precache []string

	// OfflinePath is served for navigations while offline. Empty
	// disables the offline fallback.
	OfflinePath string
}

// GenerateWorker renders a cache-first service worker script. Precache
// URLs are fetched on install; fetches are served from cache with a
// network fallback, and navigations fall back to OfflinePath when the
// network is unreachable.
func GenerateWorker(cfg WorkerConfig) string {
	if cfg.CacheName == "" {
		cfg.CacheName = "lumen-v1"
	}

	urls := make([]string, 0, len(cfg.Precache)+1)
	for _, u := range cfg.Precache {
		urls = append(urls, fmt.Sprintf("%q", u))
	}
	if cfg.OfflinePath != "" {
		urls = append(urls, fmt.Sprintf("%q", cfg.OfflinePath))
	}

	var b strings.Builder
	fmt.Fprintf(&b, "const CACHE = %q;\n", cfg.CacheName)
	fmt.Fprintf(&b, "const PRECACHE = [%s];\n\n", strings.Join(urls, ", "))

	b.WriteString(`self.addEventListener("install", (event) => {
  event.waitUntil(
    caches.open(CACHE).then((cache) => cache.addAll(PRECACHE)).then(() => self.skipWaiting())
  );
});

self.addEventListener("activate", (event) => {
  event.waitUntil(
    caches.keys().then((keys) =>
      Promise.all(keys.filter((k) => k !== CACHE).map((k) => caches.delete(k)))
    ).then(() => self.clients.claim())
  );
});

self.addEventListener("fetch", (event) => {
  if (event.request.method !== "GET") return;
  event.respondWith(
    caches.match(event.request).then((cached) => {
      if (cached) return cached;
      return fetch(event.request).catch(() => {
`)
	if cfg.OfflinePath != "" {
		fmt.Fprintf(&b, `        if (event.request.mode === "navigate") return caches.match(%q);
`, cfg.OfflinePath)
	}
	b.WriteString(`        return Response.error();
      });
    })
  );
});
`)
	return b.String()
}

// RegistrationSnippet returns the inline script that registers the
// worker at workerPath, for inclusion in the app shell.
func RegistrationSnippet(workerPath string) string {
	return fmt.Sprintf(`<script>
if ("serviceWorker" in navigator) {
  navigator.serviceWorker.register(%q);
}
</script>`, workerPath)
}
