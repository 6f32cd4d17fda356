package main

import (
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/vango-dev/bower/internal/config"
	bowererrors "github.com/vango-dev/bower/internal/errors"
)

func initCmd() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "init [dir]",
		Short: "Create " + config.ConfigFileName,
		Long: `Write a ` + config.ConfigFileName + ` with the default settings.

Examples:
  bower init
  bower init ./web --force`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := "."
			if len(args) == 1 {
				dir = args[0]
			}

			if config.Exists(dir) && !force {
				return bowererrors.New("B010").
					WithDetail(config.ConfigFileName + " already exists in " + dir).
					WithSuggestion("Use --force to overwrite it")
			}

			path := filepath.Join(dir, config.ConfigFileName)
			if err := config.New().SaveTo(path); err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			success(out, "Created %s", path)
			info(out, "Install components into %s, then run 'bower serve'", filepath.Join(dir, config.New().AssetsRoot))
			return nil
		},
	}

	cmd.Flags().BoolVarP(&force, "force", "f", false, "Overwrite an existing file")

	return cmd
}
