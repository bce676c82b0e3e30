package commands

import (
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/walteh/apirewrite/cmd/apirewrite/opts"
	"github.com/walteh/apirewrite/pkg/migrate"
	"github.com/walteh/apirewrite/pkg/operation"
	"gitlab.com/tozd/go/errors"
)

// NewFlatCmd creates the single-directory rewrite command
func NewFlatCmd(opts *opts.RootOpts) *cobra.Command {
	var extensions []string

	cmd := &cobra.Command{
		Use:   "flat [dir]",
		Short: "Rewrite legacy client calls in one directory",
		Long: `Flat rewrites the files directly inside dir (default the working directory)
with the reduced rule set: back-quoted and single-quoted paths only, and no
options objects. The helper import always points one level up.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := zerolog.Ctx(cmd.Context()).With().Str("command", "flat").Logger().WithContext(cmd.Context())
			cfg := opts.Config

			dir := "."
			if len(args) == 1 {
				dir = args[0]
			}

			m, err := migrate.NewFlat(cfg.FlatCallSpec(), cfg.ImportSpec(), migrate.RelativeImportPath(1, cfg.TargetModule))
			if err != nil {
				return errors.Errorf("building migration: %w", err)
			}

			if _, err := operation.RewriteFlat(ctx, operation.FlatOptions{
				Dir:        dir,
				Extensions: extensions,
				Migration:  m,
			}); err != nil {
				return errors.Errorf("rewriting %s: %w", dir, err)
			}

			return nil
		},
	}

	cmd.Flags().StringSliceVar(&extensions, "ext", []string{".js", ".jsx"}, "extensions to glob, in order")

	return cmd
}
