// Package middleware provides net/http middleware for serving assets in
// production.
//
// This package includes:
//   - OpenTelemetry distributed tracing middleware
//   - Prometheus metrics middleware and a resolution observer
//   - Request logging on log/slog
//
// # OpenTelemetry Middleware
//
// The OpenTelemetry middleware opens a server span per request. Installed as
// route middleware it also records the requested component and filename.
//
//	b, err := bower.New(cfg, bower.WithMiddleware(
//	    middleware.OpenTelemetry(),
//	))
//
// Configure with options:
//
//	middleware.OpenTelemetry(
//	    middleware.WithTracerName("my-app"),
//	    middleware.WithRequestFilter(func(r *http.Request) bool {
//	        return r.URL.Path != "/healthz"
//	    }),
//	)
//
// # Prometheus Metrics
//
// The Prometheus middleware counts requests and measures their duration per
// route pattern. NewResolveMetrics returns an observer for asset resolution:
//
//	r := router.New(router.WithMiddleware(middleware.Prometheus()))
//	b, err := bower.New(cfg, bower.WithObserver(middleware.NewResolveMetrics()))
//
//	r.Mount("/metrics", promhttp.Handler())
//
// Both share one set of collectors, registered on first use.
package middleware
