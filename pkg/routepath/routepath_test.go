package routepath

import (
	"errors"
	"testing"
)

func TestCanonicalize(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    string
		query   string
		changed bool
	}{
		{"empty", "", "/", "", true},
		{"root", "/", "/", "", false},
		{"plain", "/blog/post", "/blog/post", "", false},
		{"no leading slash", "blog", "/blog", "", true},
		{"double slash", "/blog//post", "/blog/post", "", true},
		{"trailing slash", "/blog/", "/blog", "", true},
		{"dot segment", "/blog/./post", "/blog/post", "", true},
		{"dotdot segment", "/blog/../other", "/other", "", true},
		{"query preserved", "/blog?page=2", "/blog", "page=2", false},
		{"query on changed path", "/blog//x?a=1", "/blog/x", "a=1", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := Canonicalize(tt.input)
			if err != nil {
				t.Fatalf("Canonicalize(%q) error: %v", tt.input, err)
			}
			if c.Path != tt.want {
				t.Errorf("Path = %q, want %q", c.Path, tt.want)
			}
			if c.Query != tt.query {
				t.Errorf("Query = %q, want %q", c.Query, tt.query)
			}
			if c.Changed != tt.changed {
				t.Errorf("Changed = %v, want %v", c.Changed, tt.changed)
			}
		})
	}
}

func TestCanonicalizeRejects(t *testing.T) {
	tests := []struct {
		input string
		want  error
	}{
		{"/a\\b", ErrBackslashInPath},
		{"/a\x00b", ErrNullByteInPath},
		{"/a%00b", ErrNullByteInPath},
		{"/../secret", ErrEscapesRoot},
	}

	for _, tt := range tests {
		if _, err := Canonicalize(tt.input); !errors.Is(err, tt.want) {
			t.Errorf("Canonicalize(%q) err = %v, want %v", tt.input, err, tt.want)
		}
	}
}

func TestFullPath(t *testing.T) {
	c := Canonical{Path: "/a", Query: "b=1"}
	if got := c.FullPath(); got != "/a?b=1" {
		t.Errorf("FullPath = %q", got)
	}
	c.Query = ""
	if got := c.FullPath(); got != "/a" {
		t.Errorf("FullPath = %q", got)
	}
}

func TestValidateNavPath(t *testing.T) {
	tests := []struct {
		input   string
		want    string
		wantErr bool
	}{
		{"/users/7?tab=profile", "/users/7?tab=profile", false},
		{"/a//b/", "/a/b", false},
		{"http://evil.test/", "", true},
		{"https://evil.test/", "", true},
		{"//evil.test", "", true},
		{"relative", "", true},
	}

	for _, tt := range tests {
		got, err := ValidateNavPath(tt.input)
		if (err != nil) != tt.wantErr {
			t.Errorf("ValidateNavPath(%q) err = %v, wantErr %v", tt.input, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("ValidateNavPath(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestParseQuery(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want map[string]string
	}{
		{"empty", "", map[string]string{}},
		{"single", "tab=profile", map[string]string{"tab": "profile"}},
		{"multiple", "a=1&b=2", map[string]string{"a": "1", "b": "2"}},
		{"decoded", "q=hello%20world", map[string]string{"q": "hello world"}},
		{"no value", "flag", map[string]string{"flag": ""}},
		{"last wins", "a=1&a=2", map[string]string{"a": "2"}},
		{"empty pair skipped", "a=1&&b=2", map[string]string{"a": "1", "b": "2"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ParseQuery(tt.raw)
			if len(got) != len(tt.want) {
				t.Fatalf("ParseQuery(%q) = %v, want %v", tt.raw, got, tt.want)
			}
			for k, v := range tt.want {
				if got[k] != v {
					t.Errorf("ParseQuery(%q)[%q] = %q, want %q", tt.raw, k, got[k], v)
				}
			}
		})
	}
}

func TestJoin(t *testing.T) {
	tests := []struct {
		parent, child, want string
	}{
		{"/blog", "posts", "/blog/posts"},
		{"/blog/", "/posts", "/blog/posts"},
		{"/blog", "/[id]", "/blog/[id]"},
		{"/", "about", "/about"},
		{"/blog", "", "/blog"},
		{"", "", "/"},
	}

	for _, tt := range tests {
		if got := Join(tt.parent, tt.child); got != tt.want {
			t.Errorf("Join(%q, %q) = %q, want %q", tt.parent, tt.child, got, tt.want)
		}
	}
}

func TestTrimLastSegment(t *testing.T) {
	tests := []struct {
		path    string
		want    string
		trimmed bool
	}{
		{"/a/b/c", "/a/b", true},
		{"/a/b", "/a", true},
		{"/a", "/", true},
		{"/", "/", false},
	}

	for _, tt := range tests {
		got, trimmed := TrimLastSegment(tt.path)
		if got != tt.want || trimmed != tt.trimmed {
			t.Errorf("TrimLastSegment(%q) = (%q, %v), want (%q, %v)",
				tt.path, got, trimmed, tt.want, tt.trimmed)
		}
	}
}
