// Package templates holds the project scaffolds used by the create
// command. Each template is a named set of files rendered through
// text/template with the project configuration.
package templates

import (
	"bytes"
	"os"
	"path/filepath"
	"text/template"

	"github.com/lumen-dev/lumen/internal/errors"
)

// Config contains the values substituted into scaffold files.
type Config struct {
	// ProjectName is the name of the project.
	ProjectName string

	// Description is a short project description.
	Description string

	// Port is the dev server port written into the config file.
	Port int
}

// Template is a named project scaffold.
type Template struct {
	// Name is the template name.
	Name string

	// Description describes the template.
	Description string

	// Files maps relative paths to file contents.
	Files map[string]string
}

var templates = map[string]*Template{
	"minimal": minimalTemplate(),
	"site":    siteTemplate(),
}

// Get returns a template by name.
func Get(name string) (*Template, error) {
	tmpl, ok := templates[name]
	if !ok {
		return nil, errors.Newf(errors.CategoryCLI, "unknown template %q", name).
			WithSuggestion("Available templates: minimal, site")
	}
	return tmpl, nil
}

// List returns all available template names.
func List() []string {
	names := make([]string, 0, len(templates))
	for name := range templates {
		names = append(names, name)
	}
	return names
}

// Create generates a project under dir from the template.
func (t *Template) Create(dir string, cfg Config) error {
	for relPath, content := range t.Files {
		tmpl, err := template.New(relPath).Parse(content)
		if err != nil {
			return errors.Newf(errors.CategoryCLI, "invalid template %s: %v", relPath, err)
		}

		var buf bytes.Buffer
		if err := tmpl.Execute(&buf, cfg); err != nil {
			return errors.Newf(errors.CategoryCLI, "template execute error %s: %v", relPath, err)
		}

		fullPath := filepath.Join(dir, relPath)
		if err := os.MkdirAll(filepath.Dir(fullPath), 0o755); err != nil {
			return err
		}
		if err := os.WriteFile(fullPath, buf.Bytes(), 0o644); err != nil {
			return err
		}
	}
	return nil
}

// minimalTemplate is just the app shell and one page.
func minimalTemplate() *Template {
	return &Template{
		Name:        "minimal",
		Description: "Just the essentials",
		Files: map[string]string{
			"lumen.json": `{
  "name": "{{.ProjectName}}",
  "version": "0.1.0",
  "pages": "pages",
  "static": {
    "dir": "public",
    "prefix": "/"
  },
  "dev": {
    "port": {{.Port}},
    "host": "localhost",
    "liveReload": true,
    "watch": ["pages", "layouts", "public"]
  },
  "build": {
    "output": "dist",
    "fingerprint": true
  }
}
`,
			"public/index.html": `<!doctype html>
<html lang="en">
<head>
  <meta charset="utf-8">
  <meta name="viewport" content="width=device-width, initial-scale=1">
  <title>{{.ProjectName}}</title>
</head>
<body>
  <div id="app"></div>
</body>
</html>
`,
			"pages/home.html": `<h1>Welcome to {{.ProjectName}}</h1>
<p>{{.Description}}</p>
`,
			".gitignore": `dist/
.env
*.db
`,
		},
	}
}

// siteTemplate adds a layout, more pages, and static assets.
func siteTemplate() *Template {
	t := minimalTemplate()
	files := map[string]string{}
	for k, v := range t.Files {
		files[k] = v
	}

	files["layouts/main.html"] = `<header>
  <nav>
    <a href="/">Home</a>
    <a href="/about">About</a>
  </nav>
</header>
<main>{{"{{content}}"}}</main>
<footer>
  <p>{{.ProjectName}}</p>
</footer>
`
	files["pages/about.html"] = `<h1>About {{.ProjectName}}</h1>
<p>{{.Description}}</p>
`
	files["public/styles.css"] = `body {
  font-family: system-ui, sans-serif;
  max-width: 800px;
  margin: 0 auto;
  padding: 2rem;
}
nav a {
  margin-right: 1rem;
}
`

	return &Template{
		Name:        "site",
		Description: "A small site with a layout and static assets",
		Files:       files,
	}
}
