// Package content loads and prepares route content.
//
// Remote HTML fetched for a route may contain {{dotted.path}}
// placeholders that are substituted from the navigation context, and
// concurrent fetches of the same resource are collapsed into a single
// request. Substitution is literal: placeholders are replaced by the
// resolved value's string form, and fetched content is never executed.
package content

import (
	"fmt"
	"regexp"
	"strings"
)

// placeholderRe matches {{dotted.path}} placeholders.
var placeholderRe = regexp.MustCompile(`\{\{([a-zA-Z0-9_.$-]+)\}\}`)

// Interpolate replaces {{dotted.path}} placeholders in text with values
// resolved by walking vars. Map keys and struct-free nested maps are
// supported; unresolved placeholders are left verbatim.
func Interpolate(text string, vars map[string]any) string {
	if !strings.Contains(text, "{{") {
		return text
	}
	return placeholderRe.ReplaceAllStringFunc(text, func(match string) string {
		path := match[2 : len(match)-2]
		value, ok := lookup(vars, path)
		if !ok {
			return match
		}
		return stringify(value)
	})
}

// lookup walks a dotted path through nested maps.
func lookup(vars map[string]any, path string) (any, bool) {
	parts := strings.Split(path, ".")
	var current any = vars
	for _, part := range parts {
		switch m := current.(type) {
		case map[string]any:
			v, ok := m[part]
			if !ok {
				return nil, false
			}
			current = v
		case map[string]string:
			v, ok := m[part]
			if !ok {
				return nil, false
			}
			current = v
		default:
			return nil, false
		}
	}
	return current, true
}

// stringify renders a resolved value for substitution.
func stringify(v any) string {
	switch s := v.(type) {
	case string:
		return s
	case fmt.Stringer:
		return s.String()
	default:
		return fmt.Sprintf("%v", v)
	}
}
