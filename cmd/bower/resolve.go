package main

import (
	"fmt"

	"github.com/ohler55/ojg"
	"github.com/ohler55/ojg/oj"
	"github.com/spf13/cobra"
)

func resolveCmd(opts *globalOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "resolve <component> <filename>",
		Short: "Print how a component asset resolves",
		Long: `Run asset resolution and print the result as JSON: the file that
would be served, whether it is the minified sibling, and where its
version came from.

Examples:
  bower resolve jquery dist/jquery.js`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := opts.load(cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			b, _, err := newBower(cfg, logger, nil)
			if err != nil {
				return err
			}

			ref, err := b.Resolve(args[0], args[1])
			if err != nil {
				return err
			}

			doc := map[string]any{
				"component":     ref.Component,
				"filename":      ref.Filename,
				"path":          ref.Path(),
				"minified":      ref.Minified,
				"version":       ref.Version,
				"versionSource": string(ref.VersionSource),
			}
			fmt.Fprintln(cmd.OutOrStdout(), oj.JSON(doc, &ojg.Options{Indent: 2, Sort: true}))
			return nil
		},
	}

	return cmd
}
