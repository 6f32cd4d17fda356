package bower

import (
	"bytes"
	"errors"
	"io"
	"net/http"

	"github.com/vango-dev/bower/pkg/assets"
	"github.com/vango-dev/bower/pkg/router"
)

// ServeHTTP serves <component>/<filename> from the asset root. It expects the
// "component" and "filename" route parameters set by Register. The literal
// file is served: minified substitution only happens when building URLs.
func (b *Bower) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	// Only serve GET and HEAD requests for assets
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		w.Header().Set("Allow", "GET, HEAD")
		http.Error(w, "Method Not Allowed", http.StatusMethodNotAllowed)
		return
	}

	component := router.Param(r, "component")
	filename := router.Param(r, "filename")

	f, info, err := b.resolver.Open(component, filename)
	if err != nil {
		if errors.Is(err, assets.ErrAssetNotFound) || errors.Is(err, assets.ErrPathViolation) {
			http.NotFound(w, r)
			return
		}
		b.logger.Error("bower: serve failed", "component", component, "filename", filename, "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	defer f.Close()

	content, ok := f.(io.ReadSeeker)
	if !ok {
		data, err := io.ReadAll(f)
		if err != nil {
			b.logger.Error("bower: serve failed", "component", component, "filename", filename, "error", err)
			http.Error(w, "Internal Server Error", http.StatusInternalServerError)
			return
		}
		content = bytes.NewReader(data)
	}

	b.applyCacheHeaders(w, r)
	http.ServeContent(w, r, info.Name(), info.ModTime(), content)
}

// applyCacheHeaders applies cache control headers based on the configuration.
func (b *Bower) applyCacheHeaders(w http.ResponseWriter, r *http.Request) {
	switch b.config.CacheControl {
	case CacheControlNoStore:
		w.Header().Set("Cache-Control", "no-store, no-cache, must-revalidate")

	case CacheControlProduction:
		if r.URL.Query().Get("version") != "" {
			// Versioned URLs change with the component; cache for 1 year
			w.Header().Set("Cache-Control", "public, max-age=31536000, immutable")
		} else {
			w.Header().Set("Cache-Control", "public, max-age=3600, must-revalidate")
		}
	}
}
