package bower

import (
	"io/fs"
	"log/slog"
)

// Config configures a Bower extension. Start from DefaultConfig and override
// fields; New fills only empty strings, slices and the logger.
type Config struct {
	// AssetsRoot is the directory holding one subdirectory per component.
	// A relative path is joined to AppRoot; an absolute path is used as is.
	// Default: "bower_components".
	AssetsRoot string

	// AppRoot is the base directory for a relative AssetsRoot.
	// Default: the working directory.
	AppRoot string

	// FS replaces the on-disk asset root, e.g. with an embed.FS. Its root is
	// the asset root. When set, AssetsRoot and AppRoot are ignored.
	FS fs.FS

	// TryMinified substitutes "name.min.ext" for "name.ext" when it exists.
	// Default: true.
	TryMinified bool

	// QuerystringRevving appends a "version" query parameter to built URLs.
	// Default: true.
	QuerystringRevving bool

	// URLPrefix is the mount path of the serve route.
	// Default: "/bower".
	URLPrefix string

	// Subdomain scopes the serve route to a subdomain of the server name.
	Subdomain string

	// ReplaceURLFor intercepts URL builds for InterceptEndpoints and points
	// them at component assets when the filename names one.
	// Default: false.
	ReplaceURLFor bool

	// KeepDeprecated exposes the explicit build as "bower_url_for" in FuncMap.
	// Default: true.
	KeepDeprecated bool

	// InterceptEndpoints are the endpoints ReplaceURLFor intercepts.
	// Default: "static" and "bower.static".
	InterceptEndpoints []string

	// CacheControl determines the Cache-Control header of served files.
	// Default: CacheControlNone.
	CacheControl CacheControlStrategy

	// ManifestCacheSize is the number of components whose parsed manifests
	// are kept in memory. 0 disables the cache.
	ManifestCacheSize int

	// Logger is the structured logger. If nil, slog.Default() is used.
	Logger *slog.Logger
}

// CacheControlStrategy determines caching behavior for served files.
type CacheControlStrategy int

const (
	// CacheControlNone adds no caching headers.
	CacheControlNone CacheControlStrategy = iota

	// CacheControlNoStore forbids caching.
	// Use in development for instant updates.
	CacheControlNoStore

	// CacheControlProduction uses appropriate caching:
	// - Versioned requests (?version=...): immutable, 1 year max-age
	// - Other requests: short cache with revalidation
	CacheControlProduction
)

// Default configuration values.
const (
	DefaultAssetsRoot = "bower_components"
	DefaultURLPrefix  = "/bower"
)

// DefaultInterceptEndpoints are the static endpoints intercepted by default.
var DefaultInterceptEndpoints = []string{"static", "bower.static"}

// DefaultConfig returns a Config with default values.
func DefaultConfig() Config {
	return Config{
		AssetsRoot:         DefaultAssetsRoot,
		TryMinified:        true,
		QuerystringRevving: true,
		URLPrefix:          DefaultURLPrefix,
		KeepDeprecated:     true,
		InterceptEndpoints: DefaultInterceptEndpoints,
		CacheControl:       CacheControlNone,
	}
}
