// Copyright 2025 walteh LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package main

import (
	"context"
	"io"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/walteh/apirewrite/cmd/apirewrite/commands"
	"github.com/walteh/apirewrite/cmd/apirewrite/opts"
	"github.com/walteh/apirewrite/pkg/config"
	"github.com/walteh/apirewrite/pkg/log"
	"gitlab.com/tozd/go/errors"
)

// rootFlags are the persistent flags shared by every command
type rootFlags struct {
	configFile string
	debug      bool
}

// newRootCmd builds the command tree. Console output goes to out.
func newRootCmd(out io.Writer) *cobra.Command {
	flags := &rootFlags{}
	ro := &opts.RootOpts{}

	cmd := &cobra.Command{
		Use:   "apirewrite",
		Short: "Migrate legacy API client calls to helper functions",
		Long: `apirewrite rewrites client.get('CalisthenicsAPI', path, ...) style calls
into get(path), post(path, body), put(path, body) and del(path) helper calls,
and swaps the client factory import for an import of those helpers.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			ctx := setupLogging(cmd.Context(), flags.debug)

			ro.Logger = log.New(out, *zerolog.Ctx(ctx))
			ctx = log.NewContext(ctx, ro.Logger)

			cfg, err := config.Load(ctx, flags.configFile)
			if err != nil {
				return errors.Errorf("loading config: %w", err)
			}
			ro.Config = cfg

			zerolog.Ctx(ctx).Debug().Str("config", cfg.String()).Msg("configuration loaded")

			cmd.SetContext(ctx)
			return nil
		},
	}

	addRootFlags(cmd, flags)

	cmd.AddCommand(
		commands.NewRunCmd(ro),
		commands.NewFlatCmd(ro),
		commands.NewVerifyCmd(ro),
	)

	return cmd
}

// addRootFlags adds shared flags to the root command
func addRootFlags(cmd *cobra.Command, flags *rootFlags) {
	cmd.PersistentFlags().StringVarP(&flags.configFile, "config", "c", "", "config file path (.yaml, .json or .hcl)")
	cmd.PersistentFlags().BoolVarP(&flags.debug, "debug", "d", false, "enable debug logging")
}

// setupLogging sets the level of the context logger based on flags
func setupLogging(ctx context.Context, debug bool) context.Context {
	level := zerolog.WarnLevel
	if debug {
		level = zerolog.DebugLevel
	}
	return zerolog.Ctx(ctx).Level(level).WithContext(ctx)
}
