package router

import (
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"reflect"
	"testing"

	"github.com/go-chi/chi/v5"
)

func echoParams(w http.ResponseWriter, r *http.Request) {
	io.WriteString(w, Endpoint(r)+" "+Param(r, "component")+" "+Param(r, "filename"))
}

func newTestRouter(t *testing.T, opts ...Option) *Router {
	t.Helper()
	r := New(opts...)
	if err := r.HandleFunc("bower.serve", "/bower/{component}/{filename...}", echoParams); err != nil {
		t.Fatalf("HandleFunc() error: %v", err)
	}
	return r
}

func TestRouterDispatch(t *testing.T) {
	r := newTestRouter(t)

	tests := []struct {
		name   string
		method string
		path   string
		status int
		body   string
	}{
		{"nested filename", http.MethodGet, "/bower/jquery/dist/jquery.js", http.StatusOK, "bower.serve jquery dist/jquery.js"},
		{"head", http.MethodHead, "/bower/jquery/dist/jquery.js", http.StatusOK, ""},
		{"escaped filename", http.MethodGet, "/bower/jquery/dist/a%20b.js", http.StatusOK, "bower.serve jquery dist/a b.js"},
		{"escaped percent", http.MethodGet, "/bower/jquery/a%2520b.js", http.StatusOK, "bower.serve jquery a%20b.js"},
		{"missing filename", http.MethodGet, "/bower/jquery", http.StatusNotFound, ""},
		{"method not allowed", http.MethodPost, "/bower/jquery/dist/jquery.js", http.StatusMethodNotAllowed, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			r.ServeHTTP(rec, httptest.NewRequest(tt.method, tt.path, nil))

			if rec.Code != tt.status {
				t.Fatalf("status = %d, want %d", rec.Code, tt.status)
			}
			if tt.body != "" && rec.Body.String() != tt.body {
				t.Errorf("body = %q, want %q", rec.Body.String(), tt.body)
			}
		})
	}
}

func TestRouterEncodedSlashInSegment(t *testing.T) {
	r := newTestRouter(t)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/bower/jq%2Fuery/x.js", nil))
	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rec.Code)
	}
}

func TestRouterSubdomain(t *testing.T) {
	r := New(WithServerName("unit.test"))
	if err := r.HandleFunc("bower.serve", "/bower/{component}/{filename...}", echoParams, WithSubdomain("static")); err != nil {
		t.Fatalf("HandleFunc() error: %v", err)
	}

	for _, tt := range []struct {
		host   string
		status int
	}{
		{"static.unit.test", http.StatusOK},
		{"static.unit.test:8080", http.StatusOK},
		{"STATIC.unit.test", http.StatusOK},
		{"unit.test", http.StatusNotFound},
		{"other.unit.test", http.StatusNotFound},
	} {
		req := httptest.NewRequest(http.MethodGet, "/bower/jquery/dist/jquery.js", nil)
		req.Host = tt.host
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, req)
		if rec.Code != tt.status {
			t.Errorf("host %q: status = %d, want %d", tt.host, rec.Code, tt.status)
		}
	}
}

func TestRouterHandleErrors(t *testing.T) {
	r := New()

	if err := r.HandleFunc("", "/x", echoParams); err == nil {
		t.Error("expected error for empty endpoint name")
	}
	if err := r.HandleFunc("a", "/x/{y}", echoParams); err != nil {
		t.Fatalf("HandleFunc() error: %v", err)
	}
	if err := r.HandleFunc("a", "/z", echoParams); err == nil {
		t.Error("expected error for duplicate endpoint")
	}
	if got := r.Endpoints(); !reflect.DeepEqual(got, []string{"a"}) {
		t.Errorf("Endpoints() = %v", got)
	}
}

func TestBuild(t *testing.T) {
	r := newTestRouter(t)

	tests := []struct {
		name   string
		values Values
		want   string
	}{
		{
			name:   "path only",
			values: Values{"component": "jquery", "filename": "dist/jquery.min.js"},
			want:   "/bower/jquery/dist/jquery.min.js",
		},
		{
			name:   "extra values become query",
			values: Values{"component": "jquery", "filename": "dist/jquery.min.js", "version": "2.1.3"},
			want:   "/bower/jquery/dist/jquery.min.js?version=2.1.3",
		},
		{
			name:   "query is sorted",
			values: Values{"component": "c", "filename": "f.js", "z": "1", "a": "2"},
			want:   "/bower/c/f.js?a=2&z=1",
		},
		{
			name:   "segments are escaped",
			values: Values{"component": "my lib", "filename": "dir/a b.js"},
			want:   "/bower/my%20lib/dir/a%20b.js",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := r.Build("bower.serve", tt.values)
			if err != nil {
				t.Fatalf("Build() error: %v", err)
			}
			if got != tt.want {
				t.Errorf("Build() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestBuildAbsolute(t *testing.T) {
	values := Values{"component": "jquery", "filename": "dist/jquery.min.js", "version": "2.1.3"}

	r := newTestRouter(t, WithServerName("unit.test"))
	got, err := r.Build("bower.serve", values)
	if err != nil {
		t.Fatalf("Build() error: %v", err)
	}
	if want := "http://unit.test/bower/jquery/dist/jquery.min.js?version=2.1.3"; got != want {
		t.Errorf("Build() = %q, want %q", got, want)
	}

	r = New(WithServerName("unit.test"), WithScheme("https"))
	r.HandleFunc("bower.serve", "/bower/{component}/{filename...}", echoParams, WithSubdomain("static"))
	got, err = r.Build("bower.serve", values)
	if err != nil {
		t.Fatalf("Build() error: %v", err)
	}
	if want := "https://static.unit.test/bower/jquery/dist/jquery.min.js?version=2.1.3"; got != want {
		t.Errorf("Build() = %q, want %q", got, want)
	}
}

func TestBuildErrors(t *testing.T) {
	r := newTestRouter(t)

	tests := []struct {
		name     string
		endpoint string
		values   Values
		want     error
	}{
		{"unknown endpoint", "static", Values{"filename": "x.js"}, ErrUnknownEndpoint},
		{"missing param", "bower.serve", Values{"component": "jquery"}, ErrMissingParam},
		{"empty param", "bower.serve", Values{"component": "", "filename": "x.js"}, ErrMissingParam},
		{"slash in segment", "bower.serve", Values{"component": "a/b", "filename": "x.js"}, ErrInvalidParam},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := r.Build(tt.endpoint, tt.values)
			var berr *BuildError
			if !errors.As(err, &berr) {
				t.Fatalf("Build() error = %v, want *BuildError", err)
			}
			if berr.Endpoint != tt.endpoint {
				t.Errorf("Endpoint = %q, want %q", berr.Endpoint, tt.endpoint)
			}
			if !errors.Is(err, tt.want) {
				t.Errorf("Build() error = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestRouteMiddlewareSeesParams(t *testing.T) {
	var pattern, component string
	mw := func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			next.ServeHTTP(w, r)
			pattern = chi.RouteContext(r.Context()).RoutePattern()
			component = Param(r, "component")
		})
	}

	r := New()
	if err := r.HandleFunc("bower.serve", "/bower/{component}/{filename...}", echoParams, WithRouteMiddleware(mw)); err != nil {
		t.Fatalf("HandleFunc() error: %v", err)
	}
	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/bower/jquery/dist/jquery.js", nil))

	if pattern != "/bower/{component}/*" || component != "jquery" {
		t.Errorf("middleware saw (%q, %q), want (/bower/{component}/*, jquery)", pattern, component)
	}
}
