package main

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/lumen-dev/lumen/internal/config"
	"github.com/lumen-dev/lumen/pkg/pwa"
)

func buildCmd() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "build",
		Short: "Build the site for production",
		Long: `Build the site into the output directory.

Copies the public directory and page fragments, fingerprints JS and
CSS assets for long-lived caching, rewrites references in HTML, and
generates the web app manifest and service worker when PWA support
is enabled.

Examples:
  lumen build
  lumen build --output=out`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBuild(output)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "Output directory (default from lumen.json)")

	return cmd
}

func runBuild(output string) error {
	cfg, err := loadProjectConfig()
	if err != nil {
		return err
	}
	if output != "" {
		cfg.Build.Output = output
	}

	outDir := cfg.OutputPath()
	if err := os.RemoveAll(outDir); err != nil {
		return err
	}
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return err
	}

	assets := pwa.NewAssetMap()
	if err := copyTree(cfg.StaticPath(), outDir, cfg.Build.Fingerprint, assets); err != nil {
		return err
	}
	if err := copyTree(cfg.PagesPath(), filepath.Join(outDir, "pages"), false, nil); err != nil {
		return err
	}

	if cfg.Build.Fingerprint {
		if err := rewriteHTMLReferences(outDir, assets); err != nil {
			return err
		}
		if err := writeAssetManifest(outDir, assets); err != nil {
			return err
		}
	}

	if cfg.PWA.Enabled {
		if err := writePWA(cfg, outDir, assets); err != nil {
			return err
		}
	}

	success("built %s into %s", cfg.Name, outDir)
	return nil
}

// copyTree copies src into dst. With fingerprinting on, JS and CSS
// files are renamed to carry a content hash and recorded in assets.
func copyTree(src, dst string, fingerprint bool, assets *pwa.AssetMap) error {
	if _, err := os.Stat(src); os.IsNotExist(err) {
		return nil
	}
	return filepath.Walk(src, func(path string, infoEntry os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if infoEntry.IsDir() {
			return nil
		}
		rel, err := filepath.Rel(src, path)
		if err != nil {
			return err
		}

		data, err := os.ReadFile(path)
		if err != nil {
			return err
		}

		target := rel
		if fingerprint && fingerprintable(rel) {
			target = fingerprintName(rel, data)
			assets.Set(filepath.ToSlash(rel), filepath.ToSlash(target))
		}

		full := filepath.Join(dst, target)
		if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
			return err
		}
		return os.WriteFile(full, data, 0o644)
	})
}

func fingerprintable(rel string) bool {
	switch filepath.Ext(rel) {
	case ".js", ".css":
		return !strings.Contains(filepath.Base(rel), "index")
	default:
		return false
	}
}

// fingerprintName inserts a content hash before the extension:
// css/site.css becomes css/site.1a2b3c4d.css.
func fingerprintName(rel string, data []byte) string {
	sum := sha256.Sum256(data)
	hash := hex.EncodeToString(sum[:])[:8]
	ext := filepath.Ext(rel)
	return strings.TrimSuffix(rel, ext) + "." + hash + ext
}

// rewriteHTMLReferences updates asset references in every built HTML
// file to their fingerprinted names.
func rewriteHTMLReferences(outDir string, assets *pwa.AssetMap) error {
	return filepath.Walk(outDir, func(path string, info os.FileInfo, err error) error {
		if err != nil || info.IsDir() || filepath.Ext(path) != ".html" {
			return err
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		html := string(data)
		for _, source := range assetSources(assets) {
			html = strings.ReplaceAll(html, source, assets.Resolve(source))
		}
		return os.WriteFile(path, []byte(html), 0o644)
	})
}

// assetSources lists the source names recorded in the map, longest
// first so overlapping names rewrite correctly.
func assetSources(assets *pwa.AssetMap) []string {
	urls := assets.URLs("")
	sources := make([]string, 0, len(urls))
	for _, fingerprinted := range urls {
		// Strip the hash segment back out to recover the source name.
		parts := strings.Split(fingerprinted, ".")
		if len(parts) < 3 {
			continue
		}
		source := strings.Join(append(parts[:len(parts)-2], parts[len(parts)-1]), ".")
		sources = append(sources, source)
	}
	return sources
}

func writeAssetManifest(outDir string, assets *pwa.AssetMap) error {
	entries := make(map[string]string)
	for _, source := range assetSources(assets) {
		entries[source] = assets.Resolve(source)
	}
	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(outDir, "asset-manifest.json"), append(data, '\n'), 0o644)
}

// writePWA generates manifest.webmanifest and sw.js.
func writePWA(cfg *config.Config, outDir string, assets *pwa.AssetMap) error {
	name := cfg.Name
	if name == "" {
		name = "Lumen App"
	}
	manifest := pwa.NewManifest(name)
	manifest.ThemeColor = cfg.PWA.ThemeColor
	if err := manifest.WriteFile(filepath.Join(outDir, "manifest.webmanifest")); err != nil {
		return err
	}

	precache := append([]string{"/"}, assets.URLs("/")...)
	worker := pwa.GenerateWorker(pwa.WorkerConfig{
		CacheName:   fmt.Sprintf("%s-%s", strings.ToLower(strings.ReplaceAll(name, " ", "-")), version),
		Precache:    precache,
		OfflinePath: cfg.PWA.OfflinePath,
	})
	return os.WriteFile(filepath.Join(outDir, "sw.js"), []byte(worker), 0o644)
}
