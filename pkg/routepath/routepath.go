// Package routepath normalizes and dissects navigation paths.
//
// The router operates on canonical paths: a leading slash, no duplicate
// slashes, no "." or ".." segments, and no trailing slash except for the
// root. Query strings are carried alongside the path and parsed with
// standard key=value&... decoding.
package routepath

import (
	"errors"
	"net/url"
	"strings"
)

// Path errors.
var (
	ErrInvalidPath     = errors.New("invalid path")
	ErrBackslashInPath = errors.New("path contains backslash")
	ErrNullByteInPath  = errors.New("path contains null byte")
	ErrEscapesRoot     = errors.New("path escapes root via ..")
)

// Canonical contains the result of path canonicalization.
type Canonical struct {
	// Path is the canonicalized path (without query string).
	Path string

	// Query is the raw query string (without leading "?").
	Query string

	// Changed indicates the path was modified during canonicalization.
	Changed bool
}

// FullPath returns the canonical path with the query string reattached.
func (c Canonical) FullPath() string {
	if c.Query == "" {
		return c.Path
	}
	return c.Path + "?" + c.Query
}

// Canonicalize normalizes a navigation path.
//
// Transformations applied:
//   - ensure a leading slash
//   - collapse duplicate slashes
//   - drop "." segments, resolve ".." segments
//   - strip the trailing slash (except for root "/")
//
// Paths containing a backslash or NUL byte are rejected, as is any ".."
// that would climb above the root. The query string, if present, is
// preserved untouched.
func Canonicalize(input string) (Canonical, error) {
	if input == "" {
		return Canonical{Path: "/", Changed: true}, nil
	}

	path, query := Split(input)

	if strings.Contains(path, "\\") {
		return Canonical{}, ErrBackslashInPath
	}
	if strings.Contains(path, "\x00") || strings.Contains(strings.ToUpper(path), "%00") {
		return Canonical{}, ErrNullByteInPath
	}

	original := path

	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}

	var kept []string
	for _, seg := range strings.Split(path, "/") {
		switch seg {
		case "", ".":
			continue
		case "..":
			if len(kept) == 0 {
				return Canonical{}, ErrEscapesRoot
			}
			kept = kept[:len(kept)-1]
		default:
			kept = append(kept, seg)
		}
	}

	path = "/" + strings.Join(kept, "/")

	return Canonical{
		Path:    path,
		Query:   query,
		Changed: path != original,
	}, nil
}

// ValidateNavPath rejects navigation targets that are not relative paths.
// Absolute URLs and protocol-relative URLs are refused to prevent open
// redirects; everything else is canonicalized.
func ValidateNavPath(path string) (string, error) {
	if strings.HasPrefix(path, "http://") ||
		strings.HasPrefix(path, "https://") ||
		strings.HasPrefix(path, "//") {
		return "", ErrInvalidPath
	}
	if !strings.HasPrefix(path, "/") {
		return "", ErrInvalidPath
	}

	c, err := Canonicalize(path)
	if err != nil {
		return "", err
	}
	return c.FullPath(), nil
}

// Split separates a full path into path and query components.
// The query is returned without the leading "?".
func Split(input string) (path, query string) {
	path, query, _ = strings.Cut(input, "?")
	return path, query
}

// ParseQuery decodes a raw query string into a key→value map.
// Both keys and values are URL-decoded; components that fail to decode
// are kept verbatim. When a key repeats, the last value wins.
func ParseQuery(raw string) map[string]string {
	out := make(map[string]string)
	if raw == "" {
		return out
	}
	for _, pair := range strings.Split(raw, "&") {
		if pair == "" {
			continue
		}
		key, value, _ := strings.Cut(pair, "=")
		if k, err := url.QueryUnescape(key); err == nil {
			key = k
		}
		if v, err := url.QueryUnescape(value); err == nil {
			value = v
		}
		if key == "" {
			continue
		}
		out[key] = value
	}
	return out
}

// Join composes a child route pattern onto its parent pattern: the
// parent's trailing slash is stripped, the child's leading slash is
// stripped, and the two are joined with a single "/".
func Join(parent, child string) string {
	parent = strings.TrimSuffix(parent, "/")
	child = strings.TrimPrefix(child, "/")
	if child == "" {
		if parent == "" {
			return "/"
		}
		return parent
	}
	return parent + "/" + child
}

// Segments splits a canonical path into its segments.
// The root path yields no segments.
func Segments(path string) []string {
	path = strings.Trim(path, "/")
	if path == "" {
		return nil
	}
	return strings.Split(path, "/")
}

// TrimLastSegment removes the trailing segment from a path, returning
// the shortened path and whether anything was removed. "/a/b/c" becomes
// "/a/b"; "/a" becomes "/"; "/" is returned unchanged with false.
func TrimLastSegment(path string) (string, bool) {
	segs := Segments(path)
	if len(segs) == 0 {
		return "/", false
	}
	if len(segs) == 1 {
		return "/", true
	}
	return "/" + strings.Join(segs[:len(segs)-1], "/"), true
}
