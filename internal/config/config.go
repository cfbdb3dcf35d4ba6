package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strconv"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"

	"github.com/lumen-dev/lumen/internal/errors"
)

const (
	// JSONFileName is the primary configuration file name.
	JSONFileName = "lumen.json"

	// YAMLFileName is the alternative configuration file name, used
	// when lumen.json is absent.
	YAMLFileName = "lumen.yaml"

	// DefaultPort is the default development server port.
	DefaultPort = 3000

	// DefaultHost is the default development server host.
	DefaultHost = "localhost"

	// DefaultOutput is the default build output directory.
	DefaultOutput = "dist"
)

// Config is the complete project configuration.
type Config struct {
	// Name is the project name, used in the app manifest.
	Name string `json:"name,omitempty" yaml:"name" env:"LUMEN_NAME"`

	// Version is the project version.
	Version string `json:"version,omitempty" yaml:"version"`

	// Port is the default server port.
	Port int `json:"port,omitempty" yaml:"port" env:"LUMEN_PORT"`

	// Pages is the directory holding page HTML fragments.
	Pages string `json:"pages,omitempty" yaml:"pages"`

	// Static contains static file serving settings.
	Static StaticConfig `json:"static,omitempty" yaml:"static"`

	// Dev contains development server settings.
	Dev DevConfig `json:"dev,omitempty" yaml:"dev"`

	// Build contains production build settings.
	Build BuildConfig `json:"build,omitempty" yaml:"build"`

	// Cache contains page and layout cache settings.
	Cache CacheConfig `json:"cache,omitempty" yaml:"cache"`

	// Preload lists paths warmed at startup.
	Preload []string `json:"preload,omitempty" yaml:"preload"`

	// PWA contains installable-app settings.
	PWA PWAConfig `json:"pwa,omitempty" yaml:"pwa"`

	// Store contains state persistence settings.
	Store StoreConfig `json:"store,omitempty" yaml:"store"`

	// Deploy contains deployment settings.
	Deploy DeployConfig `json:"deploy,omitempty" yaml:"deploy"`

	// configPath records where the config was loaded from.
	configPath string
}

// StaticConfig contains static file serving settings.
type StaticConfig struct {
	// Dir is the directory containing static files.
	Dir string `json:"dir,omitempty" yaml:"dir"`

	// Prefix is the URL prefix for static files.
	Prefix string `json:"prefix,omitempty" yaml:"prefix"`
}

// DevConfig contains development server settings.
type DevConfig struct {
	// Port is the port to run the dev server on.
	Port int `json:"port,omitempty" yaml:"port" env:"LUMEN_DEV_PORT"`

	// Host is the host to bind to.
	Host string `json:"host,omitempty" yaml:"host" env:"LUMEN_DEV_HOST"`

	// Watch lists directories watched for changes.
	Watch []string `json:"watch,omitempty" yaml:"watch"`

	// Ignore lists substrings of paths excluded from watching.
	Ignore []string `json:"ignore,omitempty" yaml:"ignore"`

	// LiveReload enables browser reload on file changes.
	LiveReload bool `json:"liveReload,omitempty" yaml:"liveReload" env:"LUMEN_LIVE_RELOAD"`
}

// BuildConfig contains production build settings.
type BuildConfig struct {
	// Output is the output directory for builds.
	Output string `json:"output,omitempty" yaml:"output" env:"LUMEN_OUTPUT"`

	// Fingerprint enables content-hash fingerprinting of assets.
	Fingerprint bool `json:"fingerprint,omitempty" yaml:"fingerprint"`
}

// CacheConfig contains page and layout cache settings.
type CacheConfig struct {
	// Pages is the page cache capacity (entries).
	Pages int `json:"pages,omitempty" yaml:"pages"`

	// Layouts is the layout cache capacity (entries).
	Layouts int `json:"layouts,omitempty" yaml:"layouts"`

	// TTL caps entry age, e.g. "5m". Empty means no expiry.
	TTL string `json:"ttl,omitempty" yaml:"ttl"`
}

// PWAConfig contains installable-app settings.
type PWAConfig struct {
	// Enabled turns on manifest and service worker generation.
	Enabled bool `json:"enabled,omitempty" yaml:"enabled"`

	// ThemeColor is the manifest theme color.
	ThemeColor string `json:"themeColor,omitempty" yaml:"themeColor"`

	// OfflinePath is served for navigations while offline.
	OfflinePath string `json:"offlinePath,omitempty" yaml:"offlinePath"`
}

// StoreConfig contains state persistence settings.
type StoreConfig struct {
	// Backend selects the store: "memory" or "sqlite".
	Backend string `json:"backend,omitempty" yaml:"backend" env:"LUMEN_STORE_BACKEND"`

	// Path is the SQLite database file for the sqlite backend.
	Path string `json:"path,omitempty" yaml:"path" env:"LUMEN_STORE_PATH"`
}

// DeployConfig contains deployment settings.
type DeployConfig struct {
	// Bucket is the S3 bucket name.
	Bucket string `json:"bucket,omitempty" yaml:"bucket" env:"LUMEN_DEPLOY_BUCKET"`

	// Region is the AWS region.
	Region string `json:"region,omitempty" yaml:"region" env:"LUMEN_DEPLOY_REGION"`

	// Prefix is the key prefix inside the bucket.
	Prefix string `json:"prefix,omitempty" yaml:"prefix"`

	// Concurrency bounds parallel uploads.
	Concurrency int `json:"concurrency,omitempty" yaml:"concurrency"`
}

// New creates a Config with default values.
func New() *Config {
	return &Config{
		Version: "0.1.0",
		Port:    DefaultPort,
		Pages:   "pages",
		Static: StaticConfig{
			Dir:    "public",
			Prefix: "/",
		},
		Dev: DevConfig{
			Port:       DefaultPort,
			Host:       DefaultHost,
			LiveReload: true,
			Watch:      []string{"pages", "layouts", "public"},
		},
		Build: BuildConfig{
			Output:      DefaultOutput,
			Fingerprint: true,
		},
		Cache: CacheConfig{
			Pages:   512,
			Layouts: 128,
		},
		Store: StoreConfig{
			Backend: "memory",
		},
	}
}

// Load reads configuration from dir, preferring lumen.json over
// lumen.yaml, then applies LUMEN_* environment overrides. A missing
// file yields the defaults with overrides applied.
func Load(dir string) (*Config, error) {
	jsonPath := filepath.Join(dir, JSONFileName)
	if _, err := os.Stat(jsonPath); err == nil {
		return LoadFile(jsonPath)
	}
	yamlPath := filepath.Join(dir, YAMLFileName)
	if _, err := os.Stat(yamlPath); err == nil {
		return LoadFile(yamlPath)
	}

	cfg := New()
	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadFile reads configuration from path. The format follows the file
// extension: .json, or .yaml/.yml.
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.New(errors.CodeConfigInvalid).
				WithDetail("no configuration file at "+path).
				WithSuggestion("run 'lumen create' to scaffold a project").
				WithPath(path)
		}
		return nil, errors.New(errors.CodeConfigInvalid).WithPath(path).Wrap(err)
	}

	cfg := New()
	// Dev.Port inherits from a file-supplied Port; prefilled values
	// would mask whether the file left them unset.
	cfg.Port = 0
	cfg.Dev.Port = 0
	switch filepath.Ext(path) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, cfg)
	default:
		err = json.Unmarshal(data, cfg)
	}
	if err != nil {
		return nil, errors.New(errors.CodeConfigInvalid).
			WithDetail("failed to parse "+filepath.Base(path)+": "+err.Error()).
			WithSuggestion("check the file against the configuration reference").
			WithPath(path)
	}

	cfg.configPath = path
	cfg.applyDefaults()
	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// SaveTo writes the configuration as JSON to path.
func (c *Config) SaveTo(path string) error {
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return errors.New(errors.CodeConfigInvalid).Wrap(err)
	}
	data = append(data, '\n')
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return errors.New(errors.CodeConfigInvalid).WithPath(path).Wrap(err)
	}
	c.configPath = path
	return nil
}

// Path returns where the config was loaded from, or "".
func (c *Config) Path() string { return c.configPath }

// Dir returns the directory containing the config file, or "".
func (c *Config) Dir() string {
	if c.configPath == "" {
		return ""
	}
	return filepath.Dir(c.configPath)
}

// applyEnv overlays LUMEN_* environment variables.
func (c *Config) applyEnv() error {
	if err := env.Parse(c); err != nil {
		return errors.New(errors.CodeConfigInvalid).
			WithDetail("invalid environment override: " + err.Error()).
			Wrap(err)
	}
	return nil
}

// applyDefaults fills empty fields after parsing.
func (c *Config) applyDefaults() {
	if c.Port == 0 {
		c.Port = DefaultPort
	}
	if c.Dev.Port == 0 {
		c.Dev.Port = c.Port
	}
	if c.Dev.Host == "" {
		c.Dev.Host = DefaultHost
	}
	if c.Dev.Watch == nil {
		c.Dev.Watch = []string{"pages", "layouts", "public"}
	}
	if c.Pages == "" {
		c.Pages = "pages"
	}
	if c.Static.Dir == "" {
		c.Static.Dir = "public"
	}
	if c.Static.Prefix == "" {
		c.Static.Prefix = "/"
	}
	if c.Build.Output == "" {
		c.Build.Output = DefaultOutput
	}
	if c.Cache.Pages == 0 {
		c.Cache.Pages = 512
	}
	if c.Cache.Layouts == 0 {
		c.Cache.Layouts = 128
	}
	if c.Store.Backend == "" {
		c.Store.Backend = "memory"
	}
}

// Validate checks the configuration for contradictions.
func (c *Config) Validate() error {
	if c.Port < 0 || c.Port > 65535 {
		return errors.New(errors.CodeConfigInvalid).
			WithDetail("port " + strconv.Itoa(c.Port) + " is out of range")
	}
	switch c.Store.Backend {
	case "memory", "sqlite":
	default:
		return errors.New(errors.CodeConfigInvalid).
			WithDetail("unknown store backend " + strconv.Quote(c.Store.Backend)).
			WithSuggestion(`use "memory" or "sqlite"`)
	}
	if c.Store.Backend == "sqlite" && c.Store.Path == "" {
		return errors.New(errors.CodeConfigInvalid).
			WithDetail("sqlite store requires store.path")
	}
	return nil
}

// DevAddress returns host:port for the development server.
func (c *Config) DevAddress() string {
	return c.Dev.Host + ":" + strconv.Itoa(c.Dev.Port)
}

// DevURL returns the browser URL for the development server.
func (c *Config) DevURL() string {
	return "http://" + c.DevAddress()
}

// OutputPath returns the build output directory relative to the
// config's directory.
func (c *Config) OutputPath() string {
	return c.resolve(c.Build.Output)
}

// PagesPath returns the pages directory relative to the config's
// directory.
func (c *Config) PagesPath() string {
	return c.resolve(c.Pages)
}

// StaticPath returns the static files directory relative to the
// config's directory.
func (c *Config) StaticPath() string {
	return c.resolve(c.Static.Dir)
}

func (c *Config) resolve(p string) string {
	if filepath.IsAbs(p) || c.configPath == "" {
		return p
	}
	return filepath.Join(c.Dir(), p)
}

// Exists reports whether a configuration file is present in dir.
func Exists(dir string) bool {
	for _, name := range []string{JSONFileName, YAMLFileName} {
		if _, err := os.Stat(filepath.Join(dir, name)); err == nil {
			return true
		}
	}
	return false
}

// FindProjectRoot walks up from startDir to the nearest directory
// containing a configuration file.
func FindProjectRoot(startDir string) (string, error) {
	dir := startDir
	for {
		if Exists(dir) {
			return dir, nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", errors.New(errors.CodeConfigInvalid).
				WithDetail("no lumen.json or lumen.yaml found in " + startDir + " or any parent").
				WithSuggestion("run 'lumen create' to scaffold a project")
		}
		dir = parent
	}
}
