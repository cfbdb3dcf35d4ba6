// Package pwa generates the installable-app surface of a site: the
// web app manifest, the service worker, and fingerprinted asset
// resolution for cache-busting.
package pwa

import (
	"encoding/json"
	"os"

	"github.com/lumen-dev/lumen/internal/errors"
)

// Icon is one entry in the manifest's icon list.
type Icon struct {
	Src     string `json:"src"`
	Sizes   string `json:"sizes"`
	Type    string `json:"type,omitempty"`
	Purpose string `json:"purpose,omitempty"`
}

// Manifest is a web app manifest (manifest.webmanifest).
type Manifest struct {
	Name            string `json:"name"`
	ShortName       string `json:"short_name,omitempty"`
	Description     string `json:"description,omitempty"`
	StartURL        string `json:"start_url"`
	Scope           string `json:"scope,omitempty"`
	Display         string `json:"display"`
	BackgroundColor string `json:"background_color,omitempty"`
	ThemeColor      string `json:"theme_color,omitempty"`
	Icons           []Icon `json:"icons,omitempty"`
}

// NewManifest creates a manifest with the usual SPA defaults: rooted
// start URL and standalone display.
func NewManifest(name string) *Manifest {
	return &Manifest{
		Name:     name,
		StartURL: "/",
		Scope:    "/",
		Display:  "standalone",
	}
}

// JSON renders the manifest as indented JSON.
func (m *Manifest) JSON() ([]byte, error) {
	out, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return nil, errors.Newf(errors.CategoryConfig, "encoding manifest: %v", err)
	}
	return out, nil
}

// WriteFile writes the manifest to path.
func (m *Manifest) WriteFile(path string) error {
	data, err := m.JSON()
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, append(data, '\n'), 0o644); err != nil {
		return errors.Newf(errors.CategoryConfig, "writing manifest: %v", err).WithPath(path)
	}
	return nil
}
