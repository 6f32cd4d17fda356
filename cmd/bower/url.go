package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	bowererrors "github.com/vango-dev/bower/internal/errors"
	"github.com/vango-dev/bower/pkg/router"
)

func urlCmd(opts *globalOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "url <component> <filename> [key=value...]",
		Short: "Print the URL of a component asset",
		Long: `Print the URL the serve route answers for a component asset.

Extra key=value pairs become query parameters. The URL is absolute
when server.serverName is configured.

Examples:
  bower url jquery dist/jquery.js
  bower url bootstrap dist/css/bootstrap.css theme=dark`,
		Args: cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			values, err := parseValues(args[2:])
			if err != nil {
				return err
			}

			cfg, logger, err := opts.load(cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			b, _, err := newBower(cfg, logger, nil)
			if err != nil {
				return err
			}

			u, err := b.URLFor(args[0], args[1], values)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), u)
			return nil
		},
	}

	return cmd
}

// parseValues turns key=value arguments into build values.
func parseValues(pairs []string) (router.Values, error) {
	values := router.Values{}
	for _, pair := range pairs {
		k, v, ok := strings.Cut(pair, "=")
		if !ok || k == "" {
			return nil, bowererrors.New("B030").
				WithDetail("expected key=value, got " + pair)
		}
		values[k] = v
	}
	return values, nil
}
