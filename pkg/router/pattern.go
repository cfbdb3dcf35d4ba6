package router

import (
	"regexp"
	"strings"

	"github.com/lumen-dev/lumen/internal/errors"
)

// placeholderRe locates dynamic and catch-all segments in a pattern.
// The catch-all alternative is listed first so "[...name]" is never
// misread as a dynamic segment named "...name".
var placeholderRe = regexp.MustCompile(`\[\.\.\.([a-zA-Z0-9_]+)\]|\[([a-zA-Z0-9_]+)\]`)

// pattern is the compiled matcher for a route pattern.
type pattern struct {
	raw      string
	re       *regexp.Regexp
	captures []string
}

// compilePattern compiles a path template into a matcher.
//
// The template is scanned once left to right. Literal portions are
// regex-escaped, [name] becomes a one-segment capture ([^/]+), and
// [...name] becomes a rest-of-path capture (.+ including slashes). The
// result is anchored at both ends. Capture names are recorded in the
// order the placeholders appear in the template.
func compilePattern(raw string) (*pattern, error) {
	if raw == "" || !strings.HasPrefix(raw, "/") {
		return nil, errors.New(errors.CodeInvalidPattern).WithPath(raw)
	}

	var b strings.Builder
	var captures []string

	b.WriteString("^")
	last := 0
	for _, loc := range placeholderRe.FindAllStringSubmatchIndex(raw, -1) {
		b.WriteString(regexp.QuoteMeta(raw[last:loc[0]]))
		if loc[2] != -1 {
			// Catch-all [...name]: matches the remaining path content,
			// slashes included.
			captures = append(captures, raw[loc[2]:loc[3]])
			b.WriteString("(.+)")
		} else {
			// Dynamic [name]: one or more non-slash characters.
			captures = append(captures, raw[loc[4]:loc[5]])
			b.WriteString("([^/]+)")
		}
		last = loc[1]
	}
	b.WriteString(regexp.QuoteMeta(raw[last:]))
	b.WriteString("$")

	re, err := regexp.Compile(b.String())
	if err != nil {
		return nil, errors.New(errors.CodeInvalidPattern).WithPath(raw).Wrap(err)
	}

	return &pattern{raw: raw, re: re, captures: captures}, nil
}

// match tests a pathname against the compiled pattern, returning the
// captured parameters on success.
func (p *pattern) match(pathname string) (map[string]string, bool) {
	m := p.re.FindStringSubmatch(pathname)
	if m == nil {
		return nil, false
	}
	params := make(map[string]string, len(p.captures))
	for i, name := range p.captures {
		params[name] = m[i+1]
	}
	return params, true
}
