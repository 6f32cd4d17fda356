package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/vango-dev/bower"
	"github.com/vango-dev/bower/internal/errors"
)

const (
	// ConfigFileName is the name of the configuration file.
	ConfigFileName = "bower.config.json"

	// DefaultPort is the default server port.
	DefaultPort = 5000

	// DefaultHost is the default server host.
	DefaultHost = "localhost"
)

// Cache-Control strategies accepted in the file.
const (
	CacheControlNone       = "none"
	CacheControlNoStore    = "no-store"
	CacheControlProduction = "production"
)

// Config represents the complete bower.config.json configuration.
type Config struct {
	// AssetsRoot is the components directory, relative to the config file.
	AssetsRoot string `json:"assetsRoot,omitempty"`

	// TryMinified substitutes minified siblings when building URLs.
	TryMinified bool `json:"tryMinified"`

	// QuerystringRevving appends the version query parameter.
	QuerystringRevving bool `json:"querystringRevving"`

	// URLPrefix is the mount path of the serve route.
	URLPrefix string `json:"urlPrefix,omitempty"`

	// Subdomain scopes the serve route to a subdomain of Server.ServerName.
	Subdomain string `json:"subdomain,omitempty"`

	// ReplaceURLFor intercepts static endpoint builds.
	ReplaceURLFor bool `json:"replaceUrlFor"`

	// KeepDeprecated exposes the legacy template function.
	KeepDeprecated bool `json:"keepDeprecated"`

	// InterceptEndpoints are the endpoints ReplaceURLFor intercepts.
	InterceptEndpoints []string `json:"interceptEndpoints,omitempty"`

	// CacheControl is "none", "no-store" or "production".
	CacheControl string `json:"cacheControl,omitempty"`

	// ManifestCacheSize is the number of components with cached manifests.
	ManifestCacheSize int `json:"manifestCacheSize,omitempty"`

	// Server contains HTTP server configuration.
	Server ServerConfig `json:"server,omitempty"`

	// Log contains logging configuration.
	Log LogConfig `json:"log,omitempty"`

	// configPath is the path where the config was loaded from.
	configPath string
}

// ServerConfig configures the HTTP server of "bower serve".
type ServerConfig struct {
	// Host is the listen host.
	Host string `json:"host,omitempty"`

	// Port is the listen port.
	Port int `json:"port,omitempty"`

	// ServerName is the public host URLs are built against. Empty builds
	// path-only URLs.
	ServerName string `json:"serverName,omitempty"`

	// Scheme of absolute URLs (default: "http").
	Scheme string `json:"scheme,omitempty"`

	// Metrics exposes Prometheus metrics at /metrics.
	Metrics bool `json:"metrics"`
}

// LogConfig configures the slog handler.
type LogConfig struct {
	// Level is debug, info, warn or error.
	Level string `json:"level,omitempty"`

	// Format is text or json.
	Format string `json:"format,omitempty"`
}

// New creates a new Config with default values.
func New() *Config {
	return &Config{
		AssetsRoot:         bower.DefaultAssetsRoot,
		TryMinified:        true,
		QuerystringRevving: true,
		URLPrefix:          bower.DefaultURLPrefix,
		KeepDeprecated:     true,
		CacheControl:       CacheControlNone,
		Server: ServerConfig{
			Host:    DefaultHost,
			Port:    DefaultPort,
			Scheme:  "http",
			Metrics: true,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

// Load reads configuration from the specified directory.
// It looks for bower.config.json in the directory.
func Load(dir string) (*Config, error) {
	configPath := filepath.Join(dir, ConfigFileName)
	return LoadFile(configPath)
}

// LoadFile reads configuration from the specified file path. A missing file
// yields the defaults, still bound to path.
func LoadFile(path string) (*Config, error) {
	cfg := New()
	cfg.configPath = path

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, errors.New("B010").Wrap(err)
	}

	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, errors.New("B010").
			WithDetail("Failed to parse " + ConfigFileName + ": " + err.Error()).
			WithSuggestion("Check that " + ConfigFileName + " is valid JSON")
	}

	cfg.applyDefaults()

	return cfg, nil
}

// Save writes the configuration to the file it was loaded from.
func (c *Config) Save() error {
	if c.configPath == "" {
		return errors.Newf(errors.CategoryConfig, "no config path set")
	}
	return c.SaveTo(c.configPath)
}

// SaveTo writes the configuration to the specified path.
func (c *Config) SaveTo(path string) error {
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return errors.New("B010").Wrap(err)
	}

	// Add newline at end of file
	data = append(data, '\n')

	if err := os.WriteFile(path, data, 0644); err != nil {
		return errors.New("B010").Wrap(err)
	}

	c.configPath = path
	return nil
}

// Path returns the path where the config was loaded from.
func (c *Config) Path() string {
	return c.configPath
}

// Dir returns the directory containing the config file.
func (c *Config) Dir() string {
	if c.configPath == "" {
		return ""
	}
	return filepath.Dir(c.configPath)
}

// applyDefaults fills in default values for empty fields.
func (c *Config) applyDefaults() {
	if c.AssetsRoot == "" {
		c.AssetsRoot = bower.DefaultAssetsRoot
	}
	if c.URLPrefix == "" {
		c.URLPrefix = bower.DefaultURLPrefix
	}
	if c.CacheControl == "" {
		c.CacheControl = CacheControlNone
	}

	// Server
	if c.Server.Host == "" {
		c.Server.Host = DefaultHost
	}
	if c.Server.Port == 0 {
		c.Server.Port = DefaultPort
	}
	if c.Server.Scheme == "" {
		c.Server.Scheme = "http"
	}

	// Log
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Log.Format == "" {
		c.Log.Format = "text"
	}
}

// ApplyEnv applies BOWER_* overrides read through lookup, typically
// os.LookupEnv.
func (c *Config) ApplyEnv(lookup func(string) (string, bool)) error {
	str := func(key string, dst *string) {
		if v, ok := lookup(key); ok {
			*dst = v
		}
	}
	boolean := func(key string, dst *bool) error {
		v, ok := lookup(key)
		if !ok {
			return nil
		}
		b, err := strconv.ParseBool(strings.TrimSpace(v))
		if err != nil {
			return errors.New("B010").
				WithDetail(key + "=" + v + " is not a boolean").
				WithSuggestion("Use true or false")
		}
		*dst = b
		return nil
	}

	str("BOWER_ASSETS_ROOT", &c.AssetsRoot)
	str("BOWER_URL_PREFIX", &c.URLPrefix)
	str("BOWER_SUBDOMAIN", &c.Subdomain)
	str("BOWER_SERVER_NAME", &c.Server.ServerName)

	for key, dst := range map[string]*bool{
		"BOWER_TRY_MINIFIED":        &c.TryMinified,
		"BOWER_QUERYSTRING_REVVING": &c.QuerystringRevving,
		"BOWER_REPLACE_URL_FOR":     &c.ReplaceURLFor,
		"BOWER_KEEP_DEPRECATED":     &c.KeepDeprecated,
	} {
		if err := boolean(key, dst); err != nil {
			return err
		}
	}

	if v, ok := lookup("BOWER_PORT"); ok {
		port, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return errors.New("B012").
				WithDetail("BOWER_PORT=" + v + " is not a number")
		}
		c.Server.Port = port
	}
	return nil
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.URLPrefix == "" || !strings.HasPrefix(c.URLPrefix, "/") {
		return errors.New("B011").
			WithDetail("urlPrefix " + strconv.Quote(c.URLPrefix) + " must start with /")
	}
	if c.Server.Port < 0 || c.Server.Port > 65535 {
		return errors.New("B012").
			WithDetail("Port must be between 0 and 65535")
	}
	if _, err := c.cacheControl(); err != nil {
		return err
	}
	return nil
}

func (c *Config) cacheControl() (bower.CacheControlStrategy, error) {
	switch c.CacheControl {
	case "", CacheControlNone:
		return bower.CacheControlNone, nil
	case CacheControlNoStore:
		return bower.CacheControlNoStore, nil
	case CacheControlProduction:
		return bower.CacheControlProduction, nil
	}
	return 0, errors.New("B010").
		WithDetail("unknown cacheControl " + strconv.Quote(c.CacheControl)).
		WithSuggestion("Use none, no-store or production")
}

// Bower converts the file configuration to a bower.Config. A relative
// AssetsRoot resolves against the config file's directory.
func (c *Config) Bower() bower.Config {
	cfg := bower.DefaultConfig()
	cfg.AssetsRoot = c.AssetsRoot
	cfg.AppRoot = c.Dir()
	cfg.TryMinified = c.TryMinified
	cfg.QuerystringRevving = c.QuerystringRevving
	cfg.URLPrefix = c.URLPrefix
	cfg.Subdomain = c.Subdomain
	cfg.ReplaceURLFor = c.ReplaceURLFor
	cfg.KeepDeprecated = c.KeepDeprecated
	if len(c.InterceptEndpoints) > 0 {
		cfg.InterceptEndpoints = c.InterceptEndpoints
	}
	cfg.CacheControl, _ = c.cacheControl()
	cfg.ManifestCacheSize = c.ManifestCacheSize
	return cfg
}

// Address returns the listen address of the server.
func (c *Config) Address() string {
	return c.Server.Host + ":" + strconv.Itoa(c.Server.Port)
}

// Exists checks if a config file exists in the given directory.
func Exists(dir string) bool {
	path := filepath.Join(dir, ConfigFileName)
	_, err := os.Stat(path)
	return err == nil
}

// FindProjectRoot walks up directories to find the project root.
// Returns the directory containing bower.config.json, or an error if not found.
func FindProjectRoot(startDir string) (string, error) {
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", err
	}

	for {
		if Exists(dir) {
			return dir, nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return "", errors.New("B010").
				WithDetail("No " + ConfigFileName + " found in " + startDir + " or any parent directory").
				WithSuggestion("Run 'bower init' to create one")
		}
		dir = parent
	}
}

// LoadFromWorkingDir loads configuration from the nearest project root above
// the working directory, or the defaults for the working directory when
// there is none.
func LoadFromWorkingDir() (*Config, error) {
	wd, err := os.Getwd()
	if err != nil {
		return nil, err
	}

	root, err := FindProjectRoot(wd)
	if err != nil {
		root = wd
	}

	return Load(root)
}
