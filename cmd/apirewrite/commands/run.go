package commands

import (
	"path/filepath"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/walteh/apirewrite/cmd/apirewrite/opts"
	"github.com/walteh/apirewrite/pkg/log"
	"github.com/walteh/apirewrite/pkg/migrate"
	"github.com/walteh/apirewrite/pkg/operation"
	"gitlab.com/tozd/go/errors"
)

// NewRunCmd creates the recursive rewrite command
func NewRunCmd(opts *opts.RootOpts) *cobra.Command {
	var (
		dryRun     bool
		sourceRoot string
	)

	cmd := &cobra.Command{
		Use:   "run [root]",
		Short: "Rewrite legacy client calls below root",
		Long: `Run walks root (default src/components) and rewrites every file that
contains the legacy client marker. It will:
1. Rewrite get, post, put and del calls to the helper functions
2. Replace the client factory import with the helper import
3. Overwrite changed files in place, with no backup
4. Report the legacy calls that could not be rewritten`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := zerolog.Ctx(cmd.Context()).With().Str("command", "run").Logger().WithContext(cmd.Context())
			cfg := opts.Config

			root := cfg.Root
			if len(args) == 1 {
				root = filepath.Clean(args[0])
			}
			if sourceRoot == "" {
				sourceRoot = cfg.SourceRoot
			}

			m, err := migrate.New(cfg.CallSpec(), cfg.ImportSpec(), sourceRoot)
			if err != nil {
				return errors.Errorf("building migration: %w", err)
			}

			if dryRun {
				log.FromContext(ctx).Header("dry run, no files will be written")
			}

			if _, err := operation.Rewrite(ctx, operation.Options{
				Root:       root,
				Extensions: cfg.Extensions,
				Ignore:     cfg.Ignore,
				Marker:     cfg.Marker,
				Migration:  m,
				DryRun:     dryRun,
			}); err != nil {
				return errors.Errorf("rewriting %s: %w", root, err)
			}

			return nil
		},
	}

	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "print a diff of each change instead of writing it")
	cmd.Flags().StringVar(&sourceRoot, "source-root", "", "directory import depth is measured from (default from config, src)")

	return cmd
}
