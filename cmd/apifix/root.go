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
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/walteh/apifix/pkg/config"
	"github.com/walteh/apifix/pkg/fixer"
	"github.com/walteh/apifix/pkg/log"
	"gitlab.com/tozd/go/errors"
)

// rootOpts holds the flags shared by the root command
type rootOpts struct {
	configFile string
	root       string
	dryRun     bool
	diff       bool
	debug      bool
}

// NewCommand creates the apifix root command
func NewCommand() *cobra.Command {
	opts := &rootOpts{}

	cmd := &cobra.Command{
		Use:   "apifix",
		Short: "Fix Pages Router API response formats",
		Long: `apifix rewrites API handlers that send their error status as a second json() argument:

  return res.status(200).json({ error: 'bad' }, { status: 404 })

becomes

  return res.status(404).json({ error: 'bad' })

With no flags it scans pages/api/**/*.ts under the working directory and
rewrites matching files in place.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			setupLogging(cmd, opts.debug)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.run(cmd)
		},
	}

	addRootFlags(cmd, opts)
	cmd.AddCommand(newVersionCmd())

	return cmd
}

// addRootFlags adds shared flags to the root command
func addRootFlags(cmd *cobra.Command, opts *rootOpts) {
	cmd.PersistentFlags().StringVarP(&opts.configFile, "config", "c", "", "config file path (.yaml, .hcl or .json)")
	cmd.PersistentFlags().BoolVarP(&opts.debug, "debug", "d", false, "enable debug logging")
	cmd.Flags().StringVarP(&opts.root, "root", "r", "", "directory to scan (default \".\")")
	cmd.Flags().BoolVarP(&opts.dryRun, "dry-run", "n", false, "report files that would change without writing them")
	cmd.Flags().BoolVar(&opts.diff, "diff", false, "print a line diff for every changed file")
}

// setupLogging attaches a zerolog logger on stderr to the command context
func setupLogging(cmd *cobra.Command, debug bool) {
	level := zerolog.InfoLevel
	if debug {
		level = zerolog.DebugLevel
	}
	logger := zerolog.New(zerolog.ConsoleWriter{Out: cmd.ErrOrStderr()}).
		Level(level).
		With().Timestamp().Logger()
	cmd.SetContext(logger.WithContext(cmd.Context()))
}

// loadConfig returns the config file if one was given, the defaults otherwise,
// with command line overrides applied
func (o *rootOpts) loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.Default()
	if o.configFile != "" {
		loaded, err := config.Load(cmd.Context(), o.configFile)
		if err != nil {
			return nil, errors.Errorf("loading config: %w", err)
		}
		cfg = loaded
	}

	if o.root != "" {
		cfg.Root = o.root
	}
	cfg.DryRun = o.dryRun

	return cfg, nil
}

func (o *rootOpts) run(cmd *cobra.Command) error {
	ctx := cmd.Context()

	cfg, err := o.loadConfig(cmd)
	if err != nil {
		return err
	}

	zerolog.Ctx(ctx).Debug().Str("config", cfg.String()).Bool("dry_run", cfg.DryRun).Msg("starting fix pass")

	f, err := fixer.New(fixer.Options{
		Config:   cfg,
		Logger:   log.New(cmd.OutOrStdout(), *zerolog.Ctx(ctx)),
		ShowDiff: o.diff,
	})
	if err != nil {
		return errors.Errorf("creating fixer: %w", err)
	}

	if _, err := f.Run(ctx); err != nil {
		return errors.Errorf("fixing files: %w", err)
	}

	return nil
}
