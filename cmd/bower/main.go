package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/vango-dev/bower"
	"github.com/vango-dev/bower/internal/config"
	bowererrors "github.com/vango-dev/bower/internal/errors"
	"github.com/vango-dev/bower/pkg/router"
)

// Version information set at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

const banner = `
  ┌┐ ┌─┐┬ ┬┌─┐┬─┐
  ├┴┐│ ││││├┤ ├┬┘
  └─┘└─┘└┴┘└─┘┴└─
`

func main() {
	if err := newRootCmd().Execute(); err != nil {
		bowererrors.PrintError(os.Stderr, err)
		os.Exit(1)
	}
}

// globalOptions holds the persistent flags shared by every command.
type globalOptions struct {
	configDir string
	logLevel  string
	logFormat string
}

func newRootCmd() *cobra.Command {
	opts := &globalOptions{}

	rootCmd := &cobra.Command{
		Use:   "bower",
		Short: "Serve and version front-end components",
		Long: `Bower serves files from an installed components directory and
builds cache-busted URLs for them.

  • Minified siblings are preferred when they exist
  • Versions come from bower.json, package.json or the file mtime
  • Static endpoint URLs can be redirected to component assets`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVarP(&opts.configDir, "config", "c", "", "Directory containing "+config.ConfigFileName+" (default: nearest project root)")
	flags.StringVar(&opts.logLevel, "log-level", "", "Log level: debug, info, warn or error")
	flags.StringVar(&opts.logFormat, "log-format", "", "Log format: text or json")

	rootCmd.AddCommand(
		serveCmd(opts),
		urlCmd(opts),
		resolveCmd(opts),
		initCmd(),
		versionCmd(),
	)

	return rootCmd
}

// load reads the project configuration, applies BOWER_* overrides and the
// log flags, and builds the logger writing to w.
func (o *globalOptions) load(w io.Writer) (*config.Config, *slog.Logger, error) {
	var (
		cfg *config.Config
		err error
	)
	if o.configDir != "" {
		cfg, err = config.Load(o.configDir)
	} else {
		cfg, err = config.LoadFromWorkingDir()
	}
	if err != nil {
		return nil, nil, err
	}

	if err := cfg.ApplyEnv(os.LookupEnv); err != nil {
		return nil, nil, err
	}
	if o.logLevel != "" {
		cfg.Log.Level = o.logLevel
	}
	if o.logFormat != "" {
		cfg.Log.Format = o.logFormat
	}

	logger, err := newLogger(w, cfg.Log)
	if err != nil {
		return nil, nil, err
	}
	return cfg, logger, nil
}

// newLogger builds a slog logger from the log configuration.
func newLogger(w io.Writer, lc config.LogConfig) (*slog.Logger, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(lc.Level)); err != nil {
		return nil, bowererrors.New("B030").
			WithDetail("unknown log level " + lc.Level).
			WithSuggestion("Use debug, info, warn or error")
	}

	handlerOpts := &slog.HandlerOptions{Level: level}
	switch strings.ToLower(lc.Format) {
	case "", "text":
		return slog.New(slog.NewTextHandler(w, handlerOpts)), nil
	case "json":
		return slog.New(slog.NewJSONHandler(w, handlerOpts)), nil
	}
	return nil, bowererrors.New("B030").
		WithDetail("unknown log format " + lc.Format).
		WithSuggestion("Use text or json")
}

// newBower creates the extension from cfg and registers it on a new router.
func newBower(cfg *config.Config, logger *slog.Logger, routerOpts []router.Option, bowerOpts ...bower.Option) (*bower.Bower, *router.Router, error) {
	if err := cfg.Validate(); err != nil {
		return nil, nil, err
	}

	opts := append([]router.Option{
		router.WithServerName(cfg.Server.ServerName),
		router.WithScheme(cfg.Server.Scheme),
		router.WithLogger(logger),
	}, routerOpts...)
	r := router.New(opts...)

	bcfg := cfg.Bower()
	bcfg.Logger = logger
	b, err := bower.New(bcfg, bowerOpts...)
	if err != nil {
		return nil, nil, err
	}
	if err := b.Register(r); err != nil {
		return nil, nil, err
	}
	return b, r, nil
}

// printBanner prints the Bower ASCII art banner.
func printBanner(w io.Writer) {
	fmt.Fprint(w, banner)
}

// success prints a success message.
func success(w io.Writer, format string, args ...any) {
	fmt.Fprintf(w, "\033[32m✓\033[0m %s\n", fmt.Sprintf(format, args...))
}

// info prints an info message.
func info(w io.Writer, format string, args ...any) {
	fmt.Fprintf(w, "  %s\n", fmt.Sprintf(format, args...))
}
