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

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/walteh/ctxmigrate/cmd/ctxmigrate/commands"
	"github.com/walteh/ctxmigrate/cmd/ctxmigrate/opts"
	"github.com/walteh/ctxmigrate/pkg/config"
	"github.com/walteh/ctxmigrate/pkg/files"
	"github.com/walteh/ctxmigrate/pkg/log"
	"gitlab.com/tozd/go/errors"
)

// rootFlags holds the persistent flags shared by every command
type rootFlags struct {
	configFile string
	baseDir    string
	debug      bool
}

// newRootCmd creates the ctxmigrate command tree. Running it with no arguments migrates every target.
func newRootCmd(stdout, stderr io.Writer) *cobra.Command {
	flags := &rootFlags{}
	rootOpts := &opts.RootOpts{}

	cmd := &cobra.Command{
		Use:   "ctxmigrate",
		Short: "Move function optimizers to the FunctionOptimizerContext signature",
		Long: `ctxmigrate rewrites the old multi-parameter TryOptimize signature of each
target optimizer into the single FunctionOptimizerContext signature, and points
the old parameter names at the matching context members.

Each target is looked up in the search directories in order, the first hit wins.
Files already on the new signature, or without the old one, are left untouched.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			ctx := setupLogging(cmd.Context(), stderr, flags.debug)

			ro, err := newRootOpts(ctx, flags, stdout)
			if err != nil {
				return err
			}
			*rootOpts = *ro

			ctx = zerolog.Ctx(ctx).With().
				Str("run_id", uuid.NewString()).
				Str("config_hash", ro.Config.Hash()[:12]).
				Logger().WithContext(ctx)
			cmd.SetContext(ctx)
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return commands.Migrate(cmd.Context(), rootOpts)
		},
	}

	addRootFlags(cmd, flags)
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)

	cmd.AddCommand(
		commands.NewPlanCmd(rootOpts),
	)

	return cmd
}

// newRootOpts loads the configuration and builds the shared dependencies
func newRootOpts(ctx context.Context, flags *rootFlags, stdout io.Writer) (*opts.RootOpts, error) {
	cfg := config.Default()
	if flags.configFile != "" {
		loaded, err := config.ReadConfig(ctx, flags.configFile)
		if err != nil {
			return nil, errors.Errorf("loading config: %w", err)
		}
		cfg = loaded
	}

	if flags.baseDir != "" {
		cfg.BaseDir = flags.baseDir
	}
	if err := cfg.Validate(ctx); err != nil {
		return nil, errors.Errorf("validating config: %w", err)
	}

	return &opts.RootOpts{
		Config:  cfg,
		Files:   files.New(cfg.BaseDir),
		Console: log.New(stdout),
	}, nil
}

// addRootFlags adds shared flags to the root command
func addRootFlags(cmd *cobra.Command, flags *rootFlags) {
	cmd.PersistentFlags().StringVarP(&flags.configFile, "config", "c", "", "config file path (.json, .yaml, .yml or .hcl)")
	cmd.PersistentFlags().StringVarP(&flags.baseDir, "base", "b", "", "override the base directory holding the search directories")
	cmd.PersistentFlags().BoolVarP(&flags.debug, "debug", "d", false, "enable debug logging")
}

// setupLogging attaches a console zerolog logger to ctx. Only errors are shown unless debug is set,
// the per-file lines on stdout are the normal output.
func setupLogging(ctx context.Context, w io.Writer, debug bool) context.Context {
	level := zerolog.ErrorLevel
	if debug {
		level = zerolog.DebugLevel
	}
	logger := zerolog.New(zerolog.ConsoleWriter{Out: w}).Level(level).With().Timestamp().Logger()
	return logger.WithContext(ctx)
}
