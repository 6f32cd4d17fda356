package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	"github.com/vango-dev/bower"
	"github.com/vango-dev/bower/internal/config"
	"github.com/vango-dev/bower/pkg/middleware"
	"github.com/vango-dev/bower/pkg/router"
)

// shutdownTimeout bounds graceful shutdown of in-flight requests.
const shutdownTimeout = 10 * time.Second

func serveCmd(opts *globalOptions) *cobra.Command {
	var (
		port int
		host string
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve component assets over HTTP",
		Long: `Start an HTTP server for the components directory.

Assets are served under the configured URL prefix. Prometheus
metrics are exposed at /metrics unless server.metrics is false.

Examples:
  bower serve
  bower serve --port=8080
  bower serve --host=0.0.0.0 --log-format=json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := opts.load(cmd.ErrOrStderr())
			if err != nil {
				return err
			}

			// Apply command-line overrides
			if port > 0 {
				cfg.Server.Port = port
			}
			if host != "" {
				cfg.Server.Host = host
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			return runServe(ctx, cfg, logger, cmd.OutOrStdout())
		},
	}

	cmd.Flags().IntVarP(&port, "port", "p", 0, "Port to listen on (default from "+config.ConfigFileName+")")
	cmd.Flags().StringVarP(&host, "host", "H", "", "Host to bind to (default from "+config.ConfigFileName+")")

	return cmd
}

// newServeHandler builds the HTTP handler of "bower serve".
func newServeHandler(cfg *config.Config, logger *slog.Logger) (http.Handler, *bower.Bower, error) {
	routerOpts := []router.Option{
		router.WithMiddleware(chimw.RequestID, chimw.Recoverer, middleware.Logger(logger)),
	}
	bowerOpts := []bower.Option{
		bower.WithMiddleware(middleware.OpenTelemetry()),
	}
	if cfg.Server.Metrics {
		routerOpts = append(routerOpts, router.WithMiddleware(middleware.Prometheus()))
		bowerOpts = append(bowerOpts, bower.WithObserver(middleware.NewResolveMetrics()))
	}

	b, r, err := newBower(cfg, logger, routerOpts, bowerOpts...)
	if err != nil {
		return nil, nil, err
	}
	if cfg.Server.Metrics {
		r.Mount("/metrics", promhttp.Handler())
	}
	return r, b, nil
}

func runServe(ctx context.Context, cfg *config.Config, logger *slog.Logger, out io.Writer) error {
	handler, b, err := newServeHandler(cfg, logger)
	if err != nil {
		return err
	}

	srv := &http.Server{
		Addr:              cfg.Address(),
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
		ErrorLog:          slog.NewLogLogger(logger.Handler(), slog.LevelError),
	}

	errCh := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	printBanner(out)
	fmt.Fprintln(out, "  serve")
	fmt.Fprintln(out)
	success(out, "Listening on http://%s", cfg.Address())
	info(out, "Assets:  %s", b.Root())
	info(out, "Route:   %s", b.Pattern())
	if cfg.Server.Metrics {
		info(out, "Metrics: http://%s/metrics", cfg.Address())
	}

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	fmt.Fprintln(out, "\n  Shutting down...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
