// Package bower serves front-end package assets from a components directory
// and builds versioned URLs for them.
//
// A component is a directory under the asset root, typically installed by a
// package manager, with an optional bower.json or package.json manifest:
//
//	b, err := bower.New(bower.DefaultConfig())
//	if err != nil {
//		return err
//	}
//	r := router.New(router.WithServerName("example.com"))
//	if err := b.Register(r); err != nil {
//		return err
//	}
//
//	u, err := b.URLFor("jquery", "dist/jquery.js", nil)
//	// u == "http://example.com/bower/jquery/dist/jquery.min.js?version=2.1.3"
//
// The URL points at the minified sibling when one exists and carries the
// component's version as a cache-busting query parameter. Templates reach the
// same builder through FuncMap.
package bower

import (
	"errors"
	"fmt"
	"html/template"
	"io/fs"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"slices"
	"strings"

	bowererrors "github.com/vango-dev/bower/internal/errors"
	"github.com/vango-dev/bower/pkg/assets"
	"github.com/vango-dev/bower/pkg/router"
)

// EndpointServe is the endpoint name of the serve route.
const EndpointServe = "bower.serve"

// Bower resolves and serves component assets.
type Bower struct {
	config     Config
	root       string
	prefix     string
	resolver   *assets.Resolver
	logger     *slog.Logger
	observer   assets.Observer
	middleware []func(http.Handler) http.Handler

	router *router.Router
}

// Option configures a Bower.
type Option func(*Bower)

// WithObserver reports every asset resolution to o.
func WithObserver(o assets.Observer) Option {
	return func(b *Bower) {
		b.observer = o
	}
}

// WithMiddleware wraps the serve route's handler.
func WithMiddleware(mw ...func(http.Handler) http.Handler) Option {
	return func(b *Bower) {
		b.middleware = append(b.middleware, mw...)
	}
}

// New creates a Bower from cfg.
func New(cfg Config, opts ...Option) (*Bower, error) {
	if cfg.AssetsRoot == "" {
		cfg.AssetsRoot = DefaultAssetsRoot
	}
	if cfg.URLPrefix == "" {
		cfg.URLPrefix = DefaultURLPrefix
	}
	if cfg.InterceptEndpoints == nil {
		cfg.InterceptEndpoints = DefaultInterceptEndpoints
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}

	prefix, err := router.CleanPrefix(cfg.URLPrefix)
	if err != nil {
		return nil, bowererrors.New("B011").
			WithDetail(cfg.URLPrefix).
			WithSuggestion("Use a path such as /bower").
			Wrap(err)
	}

	b := &Bower{
		config: cfg,
		prefix: prefix,
		logger: cfg.Logger,
	}
	for _, opt := range opts {
		opt(b)
	}

	fsys := cfg.FS
	if fsys == nil {
		b.root, err = resolveRoot(cfg.AppRoot, cfg.AssetsRoot)
		if err != nil {
			return nil, err
		}
		if info, err := os.Stat(b.root); err != nil || !info.IsDir() {
			b.logger.Warn("bower: asset root is not a directory", "root", b.root)
		}
		fsys = os.DirFS(b.root)
	}

	resolverOpts := []assets.Option{
		assets.WithTryMinified(cfg.TryMinified),
		assets.WithQuerystringRevving(cfg.QuerystringRevving),
		assets.WithLogger(b.logger),
		assets.WithManifestCache(cfg.ManifestCacheSize),
	}
	if b.observer != nil {
		resolverOpts = append(resolverOpts, assets.WithObserver(b.observer))
	}
	b.resolver = assets.NewResolver(fsys, resolverOpts...)

	return b, nil
}

func resolveRoot(appRoot, assetsRoot string) (string, error) {
	if filepath.IsAbs(assetsRoot) {
		return filepath.Clean(assetsRoot), nil
	}
	if appRoot == "" {
		wd, err := os.Getwd()
		if err != nil {
			return "", bowererrors.New("B004").
				WithDetail("working directory").
				Wrap(err)
		}
		appRoot = wd
	}
	return filepath.Join(appRoot, assetsRoot), nil
}

// Config returns the effective configuration.
func (b *Bower) Config() Config {
	return b.config
}

// Root returns the on-disk asset root, or "" when Config.FS is used.
func (b *Bower) Root() string {
	return b.root
}

// Resolver returns the asset resolver.
func (b *Bower) Resolver() *assets.Resolver {
	return b.resolver
}

// Pattern returns the serve route pattern.
func (b *Bower) Pattern() string {
	return b.prefix + "/{component}/{filename...}"
}

// Register mounts the serve route on r as EndpointServe and, when
// ReplaceURLFor is enabled, installs the static endpoint interceptor.
// URLFor builds against r afterwards.
func (b *Bower) Register(r *router.Router) error {
	opts := []router.RouteOption{router.WithRouteMiddleware(b.middleware...)}
	if b.config.Subdomain != "" {
		opts = append(opts, router.WithSubdomain(b.config.Subdomain))
	}
	if err := r.Handle(EndpointServe, b.Pattern(), b, opts...); err != nil {
		return err
	}
	if b.config.ReplaceURLFor {
		r.Intercept(b.interceptStatic)
	}
	b.router = r

	b.logger.Info("bower: registered",
		"pattern", b.Pattern(),
		"subdomain", b.config.Subdomain,
		"root", b.root,
		"replace_url_for", b.config.ReplaceURLFor)
	return nil
}

// Resolve runs asset resolution for (component, filename).
func (b *Bower) Resolve(component, filename string) (*assets.Reference, error) {
	return b.resolver.Resolve(component, filename)
}

// URLFor builds the URL of a component asset. Extra values become query
// parameters. A missing component or file is raised as a *router.BuildError
// through the router's build-error strategies, which may still resolve it;
// path violations and manifest errors are returned directly.
func (b *Bower) URLFor(component, filename string, values router.Values) (string, error) {
	if b.router == nil {
		return "", errNotRegistered
	}

	ref, err := b.resolver.Resolve(component, filename)
	if err != nil {
		if !errors.Is(err, assets.ErrAssetNotFound) {
			return "", err
		}
		v := values.Clone()
		v["component"] = component
		v["filename"] = filename
		return b.router.HandleBuildError(router.NewBuildError(EndpointServe, v, err))
	}
	return b.build(ref, values)
}

var errNotRegistered = bowererrors.New("B020").
	WithDetail("bower is not registered on a router").
	WithSuggestion("Call Register before building URLs")

func (b *Bower) build(ref *assets.Reference, values router.Values) (string, error) {
	v := values.Clone()
	v["component"] = ref.Component
	v["filename"] = ref.Filename
	if ref.Version != "" {
		v["version"] = ref.Version
	}
	return b.router.Build(EndpointServe, v)
}

// interceptStatic resolves builds of a static endpoint whose filename starts
// with a component directory. Anything that is not a component asset is left
// to the rest of the chain.
func (b *Bower) interceptStatic(endpoint string, values router.Values) (router.Resolution, error) {
	if !slices.Contains(b.config.InterceptEndpoints, endpoint) {
		return router.NotApplicable, nil
	}
	component, filename, ok := strings.Cut(values["filename"], "/")
	if !ok {
		return router.NotApplicable, nil
	}

	ref, err := b.resolver.Resolve(component, filename)
	switch {
	case errors.Is(err, assets.ErrAssetNotFound), errors.Is(err, assets.ErrPathViolation):
		b.logger.Debug("bower: static build not intercepted",
			"endpoint", endpoint, "filename", values["filename"], "reason", err)
		return router.NotApplicable, nil
	case err != nil:
		return router.NotApplicable, err
	}

	delete(values, "filename")
	u, err := b.build(ref, values)
	if err != nil {
		return router.NotApplicable, err
	}
	b.logger.Debug("bower: static build intercepted", "endpoint", endpoint, "url", u)
	return router.Resolved(u), nil
}

// FuncMap returns html/template functions. "url_for" builds any endpoint
// through the router's resolution chain:
//
//	{{ url_for "static" "filename" "jquery/dist/jquery.js" }}
//
// When KeepDeprecated is enabled, "bower_url_for" builds a component asset:
//
//	{{ bower_url_for "jquery" "dist/jquery.js" }}
//
// Trailing arguments are key/value pairs.
func (b *Bower) FuncMap() template.FuncMap {
	funcs := template.FuncMap{
		"url_for": func(endpoint string, pairs ...any) (string, error) {
			if b.router == nil {
				return "", errNotRegistered
			}
			values, err := pairsToValues(pairs)
			if err != nil {
				return "", err
			}
			return b.router.URLFor(endpoint, values)
		},
	}
	if b.config.KeepDeprecated {
		funcs["bower_url_for"] = func(component, filename string, pairs ...any) (string, error) {
			values, err := pairsToValues(pairs)
			if err != nil {
				return "", err
			}
			return b.URLFor(component, filename, values)
		}
	}
	return funcs
}

func pairsToValues(pairs []any) (router.Values, error) {
	if len(pairs)%2 != 0 {
		return nil, bowererrors.New("B030").
			WithDetail(fmt.Sprintf("odd number of key/value arguments: %d", len(pairs)))
	}
	values := make(router.Values, len(pairs)/2)
	for i := 0; i < len(pairs); i += 2 {
		key, ok := pairs[i].(string)
		if !ok {
			return nil, bowererrors.New("B030").
				WithDetail(fmt.Sprintf("key %v is not a string", pairs[i]))
		}
		values[key] = fmt.Sprint(pairs[i+1])
	}
	return values, nil
}

// FS returns the asset root filesystem.
func (b *Bower) FS() fs.FS {
	return b.resolver.FS()
}
