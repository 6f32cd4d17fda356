package assets

import (
	"io/fs"
	"sync"
	"testing/fstest"
	"time"
)

var (
	libModTime = time.Unix(1424000000, 0)
	minModTime = time.Unix(1424000500, 0)
)

// fixtureFS returns an asset root with one component per manifest situation.
func fixtureFS() fstest.MapFS {
	return fstest.MapFS{
		"jquery/bower.json":         {Data: []byte(`{"name": "jquery", "version": "2.1.3", "main": "dist/jquery.js"}`)},
		"jquery/package.json":       {Data: []byte(`{"name": "jquery", "version": "9.9.9"}`)},
		"jquery/dist/jquery.js":     {Data: []byte("/* jquery */")},
		"jquery/dist/jquery.min.js": {Data: []byte("/* min */")},
		"jquery/src/core.js":        {Data: []byte("/* core */")},

		"onlypkg/package.json": {Data: []byte(`{"version": "1.0.0"}`)},
		"onlypkg/lib.js":       {Data: []byte("lib")},

		"noversion/bower.json":   {Data: []byte(`{"name": "noversion"}`)},
		"noversion/package.json": {Data: []byte(`{"version": "3.0.0"}`)},
		"noversion/index.js":     {Data: []byte("idx")},

		"bare/lib.js":     {Data: []byte("lib"), ModTime: libModTime},
		"bare/lib.min.js": {Data: []byte("min"), ModTime: minModTime},
		"bare/plain.css":  {Data: []byte("css"), ModTime: libModTime},
		"bare/LICENSE":    {Data: []byte("mit"), ModTime: libModTime},
		"bare/dir/.keep":  {Data: nil},

		"notadir": {Data: []byte("file")},

		"numeric/bower.json": {Data: []byte(`{"version": 3}`)},
		"numeric/a.js":       {Data: []byte("a")},

		"broken/bower.json": {Data: []byte(`{"version": `)},
		"broken/app.js":     {Data: []byte("app")},

		"array/bower.json": {Data: []byte(`["not", "an", "object"]`)},
		"array/app.js":     {Data: []byte("app")},
	}
}

// recordingFS records every path opened through it.
type recordingFS struct {
	fs.FS

	mu    sync.Mutex
	opens []string
}

func (r *recordingFS) Open(name string) (fs.File, error) {
	r.mu.Lock()
	r.opens = append(r.opens, name)
	r.mu.Unlock()
	return r.FS.Open(name)
}

func (r *recordingFS) count(name string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, o := range r.opens {
		if o == name {
			n++
		}
	}
	return n
}

func (r *recordingFS) total() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.opens)
}

type outcomeRecorder struct {
	outcomes []string
}

func (o *outcomeRecorder) ObserveResolve(outcome string, _ time.Duration) {
	o.outcomes = append(o.outcomes, outcome)
}
