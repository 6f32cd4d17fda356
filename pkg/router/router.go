package router

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"net/url"
	"slices"
	"strings"
	"sync"

	"github.com/go-chi/chi/v5"
)

// Router dispatches requests to named routes and builds URLs for them.
type Router struct {
	mux        *chi.Mux
	serverName string
	scheme     string
	logger     *slog.Logger

	mu           sync.RWMutex
	routes       map[string]*route
	intercept    []Strategy
	onBuildError []Strategy
}

type route struct {
	name       string
	pattern    *pattern
	handler    http.Handler
	subdomain  string
	methods    []string
	middleware []func(http.Handler) http.Handler
}

// Option configures a Router.
type Option func(*Router)

// WithServerName sets the host URLs are built against. When set, URLFor
// returns absolute URLs and subdomain-scoped routes only answer requests for
// "<subdomain>.<server name>".
func WithServerName(name string) Option {
	return func(r *Router) {
		r.serverName = strings.ToLower(name)
	}
}

// WithScheme sets the scheme of absolute URLs. Default: "http".
func WithScheme(scheme string) Option {
	return func(r *Router) {
		if scheme != "" {
			r.scheme = scheme
		}
	}
}

// WithLogger sets the logger. Default: slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(r *Router) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// WithMiddleware installs middleware in front of every route.
func WithMiddleware(mw ...func(http.Handler) http.Handler) Option {
	return func(r *Router) {
		r.mux.Use(mw...)
	}
}

// New creates an empty Router.
func New(opts ...Option) *Router {
	r := &Router{
		mux:    chi.NewRouter(),
		scheme: "http",
		logger: slog.Default(),
		routes: make(map[string]*route),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// RouteOption configures a single route.
type RouteOption func(*route)

// WithSubdomain scopes the route to a subdomain of the server name.
func WithSubdomain(subdomain string) RouteOption {
	return func(rt *route) {
		rt.subdomain = strings.ToLower(subdomain)
	}
}

// WithMethods sets the methods the route answers. Default: GET and HEAD.
func WithMethods(methods ...string) RouteOption {
	return func(rt *route) {
		rt.methods = methods
	}
}

// WithRouteMiddleware wraps the route's handler. The middleware runs after
// routing, so chi.RouteContext and Param are available to it.
func WithRouteMiddleware(mw ...func(http.Handler) http.Handler) RouteOption {
	return func(rt *route) {
		rt.middleware = append(rt.middleware, mw...)
	}
}

// Handle registers handler under the endpoint name for pattern.
func (r *Router) Handle(name, pat string, handler http.Handler, opts ...RouteOption) error {
	if name == "" {
		return errors.New("router: empty endpoint name")
	}
	p, err := parsePattern(pat)
	if err != nil {
		return err
	}

	rt := &route{
		name:    name,
		pattern: p,
		handler: handler,
		methods: []string{http.MethodGet, http.MethodHead},
	}
	for _, opt := range opts {
		opt(rt)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, dup := r.routes[name]; dup {
		return fmt.Errorf("router: endpoint %q already registered", name)
	}
	r.routes[name] = rt

	h := r.serve(rt)
	for _, m := range rt.methods {
		r.mux.Method(m, p.chiPattern(), h)
	}

	r.logger.Debug("router: route registered", "endpoint", name, "pattern", pat, "subdomain", rt.subdomain)
	return nil
}

// HandleFunc registers a handler function under the endpoint name.
func (r *Router) HandleFunc(name, pat string, fn http.HandlerFunc, opts ...RouteOption) error {
	return r.Handle(name, pat, fn, opts...)
}

// Mount attaches an unnamed handler for everything under pattern.
func (r *Router) Mount(pat string, handler http.Handler) {
	r.mux.Mount(pat, handler)
}

// ServeHTTP dispatches the request.
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	r.mux.ServeHTTP(w, req)
}

// Endpoints returns the registered endpoint names, sorted.
func (r *Router) Endpoints() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.routes))
	for name := range r.routes {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// ServerName returns the configured server name.
func (r *Router) ServerName() string {
	return r.serverName
}

func (r *Router) serve(rt *route) http.Handler {
	next := rt.handler
	for i := len(rt.middleware) - 1; i >= 0; i-- {
		next = rt.middleware[i](next)
	}

	return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		if !r.hostMatches(rt, req.Host) {
			http.NotFound(w, req)
			return
		}

		rctx := chi.RouteContext(req.Context())
		params := make(Values)
		for _, s := range rt.pattern.segments {
			if !s.isParam() {
				continue
			}
			key := s.param
			if s.catchAll {
				key = "*"
			}
			v := rctx.URLParam(key)
			// chi matches the escaped path only when it differs from Path.
			if req.URL.RawPath != "" {
				decoded, err := decodeSegment(v, s.catchAll)
				if err != nil {
					http.NotFound(w, req)
					return
				}
				v = decoded
			}
			params[s.param] = v
		}

		ctx := context.WithValue(req.Context(), matchKey{}, &match{endpoint: rt.name, params: params})
		next.ServeHTTP(w, req.WithContext(ctx))
	})
}

func (r *Router) hostMatches(rt *route, host string) bool {
	if rt.subdomain == "" || r.serverName == "" {
		return true
	}
	return strings.EqualFold(stripPort(host), rt.subdomain+"."+stripPort(r.serverName))
}

func stripPort(host string) string {
	if h, _, err := net.SplitHostPort(host); err == nil {
		return h
	}
	return host
}

type matchKey struct{}

type match struct {
	endpoint string
	params   Values
}

// Param returns the decoded value of a route parameter for a request
// dispatched by a Router, or "".
func Param(req *http.Request, name string) string {
	if m, ok := req.Context().Value(matchKey{}).(*match); ok {
		return m.params[name]
	}
	return ""
}

// Endpoint returns the endpoint name of the route that matched req, or "".
func Endpoint(req *http.Request) string {
	if m, ok := req.Context().Value(matchKey{}).(*match); ok {
		return m.endpoint
	}
	return ""
}

// Intercept appends a strategy tried before the named-route builder.
func (r *Router) Intercept(s Strategy) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.intercept = append(r.intercept, s)
}

// OnBuildError appends a strategy tried after the named-route builder failed.
func (r *Router) OnBuildError(s Strategy) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.onBuildError = append(r.onBuildError, s)
}

// URLFor builds a URL for endpoint through the resolution chain: intercept
// strategies, the named-route builder, then build-error strategies.
func (r *Router) URLFor(endpoint string, values Values) (string, error) {
	r.mu.RLock()
	intercept := r.intercept
	r.mu.RUnlock()

	if u, ok, err := r.run(intercept, endpoint, values); err != nil || ok {
		return u, err
	}

	u, err := r.Build(endpoint, values)
	if err == nil {
		return u, nil
	}
	var berr *BuildError
	if !errors.As(err, &berr) {
		return "", err
	}
	return r.HandleBuildError(berr)
}

// HandleBuildError runs the build-error strategies for err. It returns the
// first resolved URL, or err itself when no strategy resolves it.
func (r *Router) HandleBuildError(err *BuildError) (string, error) {
	r.mu.RLock()
	chain := r.onBuildError
	r.mu.RUnlock()

	u, ok, cerr := r.run(chain, err.Endpoint, err.Values)
	if cerr != nil {
		return "", cerr
	}
	if !ok {
		return "", err
	}
	return u, nil
}

func (r *Router) run(chain []Strategy, endpoint string, values Values) (string, bool, error) {
	for i, s := range chain {
		res, err := s(endpoint, values.Clone())
		if err != nil {
			return "", false, err
		}
		if u, ok := res.URL(); ok {
			r.logger.Debug("router: url resolved by strategy", "endpoint", endpoint, "strategy", i, "url", u)
			return u, true, nil
		}
	}
	return "", false, nil
}

// Build builds a URL for a named route without consulting any strategy.
// Failures are returned as *BuildError.
func (r *Router) Build(endpoint string, values Values) (string, error) {
	r.mu.RLock()
	rt, ok := r.routes[endpoint]
	r.mu.RUnlock()
	if !ok {
		return "", NewBuildError(endpoint, values, ErrUnknownEndpoint)
	}

	path, err := rt.pattern.build(values)
	if err != nil {
		return "", NewBuildError(endpoint, values, err)
	}

	query := url.Values{}
	for k, v := range values {
		if !rt.pattern.hasParam(k) {
			query.Set(k, v)
		}
	}
	if len(query) > 0 {
		path += "?" + query.Encode()
	}

	if r.serverName == "" {
		return path, nil
	}
	host := r.serverName
	if rt.subdomain != "" {
		host = rt.subdomain + "." + host
	}
	return r.scheme + "://" + host + path, nil
}
