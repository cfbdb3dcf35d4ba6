// Package seo builds and applies page metadata: title, description,
// canonical URL, Open Graph and Twitter card tags.
package seo

import (
	"fmt"
	"html"
	"sort"
	"strings"

	"github.com/lumen-dev/lumen/pkg/dom"
)

// PageMeta describes the metadata for one page.
type PageMeta struct {
	// Title is the document title.
	Title string

	// Description is the meta description.
	Description string

	// Canonical is the canonical URL for the page.
	Canonical string

	// Robots sets the robots directive, e.g. "noindex, nofollow".
	Robots string

	// OpenGraph holds og:* properties without the "og:" prefix,
	// e.g. {"type": "article", "image": "/cover.png"}.
	OpenGraph map[string]string

	// Twitter holds twitter:* properties without the prefix,
	// e.g. {"card": "summary_large_image"}.
	Twitter map[string]string

	// Extra holds any additional name→content meta tags.
	Extra map[string]string
}

// Merge overlays other onto m, with other's non-empty fields winning.
// Map entries are merged key by key. Neither receiver is modified.
func (m PageMeta) Merge(other PageMeta) PageMeta {
	out := m
	if other.Title != "" {
		out.Title = other.Title
	}
	if other.Description != "" {
		out.Description = other.Description
	}
	if other.Canonical != "" {
		out.Canonical = other.Canonical
	}
	if other.Robots != "" {
		out.Robots = other.Robots
	}
	out.OpenGraph = mergeMaps(m.OpenGraph, other.OpenGraph)
	out.Twitter = mergeMaps(m.Twitter, other.Twitter)
	out.Extra = mergeMaps(m.Extra, other.Extra)
	return out
}

func mergeMaps(base, overlay map[string]string) map[string]string {
	if base == nil && overlay == nil {
		return nil
	}
	out := make(map[string]string, len(base)+len(overlay))
	for k, v := range base {
		out[k] = v
	}
	for k, v := range overlay {
		out[k] = v
	}
	return out
}

// Apply writes the metadata to the document: the title via SetTitle
// and every tag via SetMeta. Open Graph and Twitter tags are written
// under their prefixed names.
func (m PageMeta) Apply(doc dom.Document) {
	if m.Title != "" {
		doc.SetTitle(m.Title)
	}
	for name, content := range m.tags() {
		doc.SetMeta(name, content)
	}
}

// tags flattens the metadata into name→content pairs.
func (m PageMeta) tags() map[string]string {
	out := make(map[string]string)
	if m.Description != "" {
		out["description"] = m.Description
	}
	if m.Robots != "" {
		out["robots"] = m.Robots
	}
	if m.Canonical != "" {
		out["canonical"] = m.Canonical
	}
	for k, v := range m.OpenGraph {
		out["og:"+k] = v
	}
	for k, v := range m.Twitter {
		out["twitter:"+k] = v
	}
	for k, v := range m.Extra {
		out[k] = v
	}
	return out
}

// RenderHead renders the metadata as head-element markup, for static
// builds and server-rendered shells. Tags are emitted in sorted order
// so output is deterministic.
func (m PageMeta) RenderHead() string {
	var b strings.Builder
	if m.Title != "" {
		fmt.Fprintf(&b, "<title>%s</title>\n", html.EscapeString(m.Title))
	}
	if m.Canonical != "" {
		fmt.Fprintf(&b, "<link rel=\"canonical\" href=%q>\n", m.Canonical)
	}

	tags := m.tags()
	delete(tags, "canonical")
	names := make([]string, 0, len(tags))
	for name := range tags {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		if strings.HasPrefix(name, "og:") {
			fmt.Fprintf(&b, "<meta property=%q content=%q>\n", name, tags[name])
			continue
		}
		fmt.Fprintf(&b, "<meta name=%q content=%q>\n", name, tags[name])
	}
	return b.String()
}
