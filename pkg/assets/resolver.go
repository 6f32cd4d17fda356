package assets

import (
	"errors"
	"io/fs"
	"log/slog"
	"path"
	"time"
)

// Reference is a resolved asset: the file a URL should point at and its
// cache-busting version.
type Reference struct {
	// Component is the component directory name.
	Component string

	// Filename is the path inside the component, possibly rewritten to its
	// minified sibling.
	Filename string

	// Version is the cache-busting token, or "" when revving is disabled.
	Version string

	// VersionSource records where Version came from.
	VersionSource VersionSource

	// Minified reports whether Filename was substituted by its minified sibling.
	Minified bool
}

// Path returns the reference's path relative to the asset root.
func (r *Reference) Path() string {
	return path.Join(r.Component, r.Filename)
}

// Observer receives the outcome of every Resolve call.
type Observer interface {
	ObserveResolve(outcome string, elapsed time.Duration)
}

// Resolve outcomes reported to an Observer.
const (
	OutcomeResolved      = "resolved"
	OutcomePathViolation = "path_violation"
	OutcomeNotFound      = "not_found"
	OutcomeManifestError = "manifest_error"
	OutcomeError         = "error"
)

// Resolver resolves component assets inside an asset root.
type Resolver struct {
	fsys        fs.FS
	tryMinified bool
	revving     bool
	logger      *slog.Logger
	observer    Observer
	cache       *manifestCache
}

// Option configures a Resolver.
type Option func(*Resolver)

// WithTryMinified toggles substitution of "name.min.ext" siblings. Default: true.
func WithTryMinified(enabled bool) Option {
	return func(r *Resolver) {
		r.tryMinified = enabled
	}
}

// WithQuerystringRevving toggles version tokens. Default: true.
func WithQuerystringRevving(enabled bool) Option {
	return func(r *Resolver) {
		r.revving = enabled
	}
}

// WithLogger sets the logger. Default: slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(r *Resolver) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// WithObserver reports every resolution outcome to o.
func WithObserver(o Observer) Option {
	return func(r *Resolver) {
		r.observer = o
	}
}

// WithManifestCache keeps up to size components' manifests in memory,
// invalidated when the component directory's modification time changes.
// Editing a manifest in place may not change its directory's mtime on every
// filesystem, so this is meant for deployments whose asset root is replaced
// rather than edited. size <= 0 disables the cache.
func WithManifestCache(size int) Option {
	return func(r *Resolver) {
		r.cache = newManifestCache(size)
	}
}

// NewResolver creates a Resolver over fsys, whose root is the asset root.
func NewResolver(fsys fs.FS, opts ...Option) *Resolver {
	r := &Resolver{
		fsys:        fsys,
		tryMinified: true,
		revving:     true,
		logger:      slog.Default(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// FS returns the filesystem the resolver reads from.
func (r *Resolver) FS() fs.FS {
	return r.fsys
}

// Resolve runs the asset resolution algorithm for (component, filename):
// validate both, require the component directory, read its manifests, require
// the requested file, substitute the minified sibling, and compute the version.
func (r *Resolver) Resolve(component, filename string) (ref *Reference, err error) {
	start := time.Now()
	defer func() {
		if r.observer != nil {
			r.observer.ObserveResolve(outcome(err), time.Since(start))
		}
	}()

	if err := validatePair(component, filename); err != nil {
		return nil, err
	}

	dir, err := r.stat(component)
	if err != nil {
		return nil, err
	}
	if !dir.IsDir() {
		return nil, notFound(component)
	}

	ms, err := r.manifests(component, dir)
	if err != nil {
		r.logger.Warn("bower: manifest unreadable", "component", component, "error", err)
		return nil, err
	}

	name := component + "/" + filename
	info, err := r.stat(name)
	if err != nil {
		return nil, err
	}
	if info.IsDir() {
		return nil, notFound(name)
	}

	ref = &Reference{Component: component, Filename: filename}

	if r.tryMinified {
		if candidate, ok := MinifiedName(filename); ok {
			if ci, err := fs.Stat(r.fsys, component+"/"+candidate); err == nil && !ci.IsDir() {
				r.logger.Debug("bower: using minified variant",
					"component", component, "requested", filename, "resolved", candidate)
				ref.Filename = candidate
				ref.Minified = true
				info = ci
			}
		}
	}

	if r.revving {
		ref.Version, ref.VersionSource = versionToken(ms, info.ModTime())
		r.logger.Debug("bower: version resolved",
			"component", component, "version", ref.Version, "source", ref.VersionSource)
	}

	return ref, nil
}

// Open opens the literal file <component>/<filename> for direct serving.
// No minified substitution happens. Directories are reported as not found.
func (r *Resolver) Open(component, filename string) (fs.File, fs.FileInfo, error) {
	if err := validatePair(component, filename); err != nil {
		return nil, nil, err
	}

	name := component + "/" + filename
	if !fs.ValidPath(name) {
		return nil, nil, notFound(name)
	}

	f, err := r.fsys.Open(name)
	if err != nil {
		return nil, nil, lookupError(name, err)
	}
	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, nil, lookupError(name, err)
	}
	if info.IsDir() {
		f.Close()
		return nil, nil, notFound(name)
	}
	return f, info, nil
}

func (r *Resolver) stat(name string) (fs.FileInfo, error) {
	if !fs.ValidPath(name) {
		return nil, notFound(name)
	}
	info, err := fs.Stat(r.fsys, name)
	if err != nil {
		return nil, lookupError(name, err)
	}
	return info, nil
}

func (r *Resolver) manifests(component string, dir fs.FileInfo) (Manifests, error) {
	if r.cache == nil {
		return ReadManifests(r.fsys, component)
	}
	if ms, ok := r.cache.get(component, dir.ModTime()); ok {
		return ms, nil
	}
	ms, err := ReadManifests(r.fsys, component)
	if err != nil {
		return Manifests{}, err
	}
	r.cache.put(component, dir.ModTime(), ms)
	return ms, nil
}

// validatePair validates both segments before any filesystem access.
func validatePair(component, filename string) error {
	if err := ValidateParameter(component); err != nil {
		return err
	}
	if err := ValidateParameter(filename); err != nil {
		return err
	}
	if component == "" || filename == "" {
		return notFound(component + "/" + filename)
	}
	return nil
}

func lookupError(name string, err error) error {
	if errors.Is(err, fs.ErrNotExist) || errors.Is(err, fs.ErrInvalid) {
		return notFound(name)
	}
	return rootError(name, err)
}

func outcome(err error) string {
	switch {
	case err == nil:
		return OutcomeResolved
	case errors.Is(err, ErrPathViolation):
		return OutcomePathViolation
	case errors.Is(err, ErrAssetNotFound):
		return OutcomeNotFound
	case errors.Is(err, ErrManifestParse):
		return OutcomeManifestError
	}
	return OutcomeError
}
