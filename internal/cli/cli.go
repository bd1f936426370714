// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/jeranaias/campus-assistant/internal/assistant"
	"github.com/jeranaias/campus-assistant/internal/config"
	"github.com/jeranaias/campus-assistant/internal/dispatch"
	"github.com/jeranaias/campus-assistant/internal/logging"
)

// Version information (set at build time)
var (
	Version   = "dev"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

// =============================================================================
// APPLICATION STATE
// =============================================================================

// app carries what every subcommand needs after flag parsing.
type app struct {
	configPath string
	logLevel   string

	cfg *config.Config
}

// NewRootCmd builds the command tree.
func NewRootCmd() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:           "campus",
		Short:         assistant.Title,
		Long:          assistant.Tagline,
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.NoArgs,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			lipgloss.SetColorProfile(colorProfile(cmd.OutOrStdout()))
			return a.loadConfig()
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.runTUI(cmd)
		},
	}
	root.PersistentFlags().StringVar(&a.configPath, "config", "", "config file (default ~/.campus-assistant/config.toml)")
	root.PersistentFlags().StringVar(&a.logLevel, "log-level", "", "override log level (debug, info, warn, error)")

	root.AddCommand(
		a.newTUICmd(),
		a.newChatCmd(),
		a.newAskCmd(),
		a.newServeCmd(),
		a.newActionsCmd(),
		a.newInquiriesCmd(),
		a.newStatsCmd(),
		a.newConfigCmd(),
		newVersionCmd(),
	)
	return root
}

// Execute runs the command tree and returns the process exit code.
func Execute() int {
	cmd := NewRootCmd()
	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, ErrorStyle.Render("Error:")+" "+err.Error())
		return 1
	}
	return 0
}

func (a *app) loadConfig() error {
	config.SetGlobalPath(a.configPath)
	cfg, err := config.Load(a.configPath)
	if err != nil {
		return err
	}
	if a.logLevel != "" {
		cfg.Log.Level = strings.ToLower(a.logLevel)
		if err := cfg.Validate(); err != nil {
			return err
		}
	}
	config.SetGlobal(cfg)
	a.cfg = cfg
	return nil
}

// =============================================================================
// SHARED WIRING
// =============================================================================

// logger builds the command logger. Interactive commands own the terminal,
// so toFile sends their log to the configured file or the default one.
func (a *app) logger(toFile bool, out io.Writer) (zerolog.Logger, io.Closer, error) {
	opts := logging.FromConfig(a.cfg.Log)
	opts.Out = out
	opts.NoColor = !colorsEnabled(out)
	if toFile && opts.File == "" {
		opts.File = config.DefaultLogFile()
	}
	return logging.New(opts)
}

// responder wires the reply engine to the configured dispatchers: the log
// always, the SQLite inquiry log when enabled.
func (a *app) responder(log zerolog.Logger) (*assistant.Responder, io.Closer, error) {
	dispatchers := dispatch.Multi{dispatch.NewLogDispatcher(log)}
	var closer io.Closer = nopCloser{}

	if a.cfg.Inquiries.Enabled {
		db, err := dispatch.OpenSQLite(a.inquiryPath())
		if err != nil {
			return nil, nil, err
		}
		dispatchers = append(dispatchers, db)
		closer = db
	}

	r := assistant.NewResponder(nil, dispatchers, a.cfg.Chat.ReplyDelay.Std())
	return r, closer, nil
}

func (a *app) inquiryPath() string {
	if a.cfg.Inquiries.Path != "" {
		return a.cfg.Inquiries.Path
	}
	return config.DefaultInquiryPath()
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// closeAll closes every closer, joining the errors.
func closeAll(closers ...io.Closer) error {
	var errs []error
	for _, c := range closers {
		if c == nil {
			continue
		}
		if err := c.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// =============================================================================
// VERSION
// =============================================================================

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			fmt.Fprintf(cmd.OutOrStdout(), "campus %s (commit %s, built %s)\n", Version, GitCommit, BuildDate)
			return nil
		},
	}
}
