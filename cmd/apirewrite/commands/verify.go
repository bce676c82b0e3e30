package commands

import (
	"path/filepath"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/walteh/apirewrite/cmd/apirewrite/opts"
	"github.com/walteh/apirewrite/pkg/operation"
	"gitlab.com/tozd/go/errors"
)

// NewVerifyCmd creates the import verification command
func NewVerifyCmd(opts *opts.RootOpts) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "verify [root]",
		Short: "Check that files calling the helpers import them",
		Long: `Verify scans root (default src) for files that await get, post, put or del
and checks that each one imports the helpers it uses. Files that still import
from the client factory module are reported but accepted. Exits non-zero when
any issue is found.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := zerolog.Ctx(cmd.Context()).With().Str("command", "verify").Logger().WithContext(cmd.Context())
			cfg := opts.Config

			root := cfg.SourceRoot
			if len(args) == 1 {
				root = filepath.Clean(args[0])
			}

			report, err := operation.Verify(ctx, operation.VerifyOptions{
				Root:       root,
				Extensions: cfg.Extensions,
				Ignore:     cfg.Ignore,
				Imports:    cfg.ImportSpec(),
				Out:        cmd.OutOrStdout(),
			})
			if err != nil {
				return errors.Errorf("verifying %s: %w", root, err)
			}

			if n := report.Issues(); n > 0 {
				return errors.Errorf("found %d import issue(s)", n)
			}
			return nil
		},
	}

	return cmd
}
