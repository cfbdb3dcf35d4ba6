package pwa

import (
	"encoding/json"
	"os"
	"sync"

	"github.com/lumen-dev/lumen/internal/errors"
)

// AssetMap maps source asset names to their fingerprinted filenames,
// loaded from the asset-manifest.json the build step writes:
//
//	{"app.js": "app.a1b2c3d4.js", "styles.css": "styles.e5f6.css"}
//
// It is safe for concurrent use.
type AssetMap struct {
	mu      sync.RWMutex
	entries map[string]string
}

// LoadAssets reads an asset manifest file.
func LoadAssets(path string) (*AssetMap, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Newf(errors.CategoryConfig, "reading asset manifest: %v", err).WithPath(path)
	}

	var entries map[string]string
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, errors.Newf(errors.CategoryConfig, "parsing asset manifest: %v", err).WithPath(path)
	}
	return &AssetMap{entries: entries}, nil
}

// NewAssetMap creates an empty asset map. Resolve passes unknown names
// through, so an empty map behaves as a no-op in development.
func NewAssetMap() *AssetMap {
	return &AssetMap{entries: make(map[string]string)}
}

// Set records a source→fingerprinted mapping.
func (a *AssetMap) Set(source, fingerprinted string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.entries[source] = fingerprinted
}

// Resolve returns the fingerprinted name for source, or source itself
// when no mapping exists.
func (a *AssetMap) Resolve(source string) string {
	a.mu.RLock()
	defer a.mu.RUnlock()
	if resolved, ok := a.entries[source]; ok {
		return resolved
	}
	return source
}

// URLs returns every fingerprinted URL prefixed with prefix, for use
// as a service worker precache list. Order is unspecified.
func (a *AssetMap) URLs(prefix string) []string {
	a.mu.RLock()
	defer a.mu.RUnlock()
	out := make([]string, 0, len(a.entries))
	for _, v := range a.entries {
		out = append(out, prefix+v)
	}
	return out
}
