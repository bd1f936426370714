// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/jeranaias/campus-assistant/internal/config"
	"github.com/jeranaias/campus-assistant/internal/server"
	"github.com/jeranaias/campus-assistant/internal/session"
)

func (a *app) newServeCmd() *cobra.Command {
	var (
		host  string
		port  int
		watch bool
	)
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the widget HTTP API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if cmd.Flags().Changed("host") {
				a.cfg.Server.Host = host
			}
			if cmd.Flags().Changed("port") {
				a.cfg.Server.Port = port
			}
			if err := a.cfg.Validate(); err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return a.runServer(ctx, cmd, watch)
		},
	}
	cmd.Flags().StringVar(&host, "host", "", "listen host (overrides server.host)")
	cmd.Flags().IntVarP(&port, "port", "p", 0, "listen port (overrides server.port)")
	cmd.Flags().BoolVar(&watch, "watch", true, "reload the config file when it changes")
	return cmd
}

// runServer serves until ctx ends. The log goes to stderr.
func (a *app) runServer(ctx context.Context, cmd *cobra.Command, watch bool) error {
	log, logCloser, err := a.logger(false, cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	responder, dispatchCloser, err := a.responder(log)
	if err != nil {
		logCloser.Close()
		return err
	}
	defer closeAll(dispatchCloser, logCloser)

	mgr := session.NewManager(responder, session.Config{
		TTL:         a.cfg.Server.SessionTTL.Std(),
		MaxSessions: a.cfg.Server.MaxSessions,
		MaxMessages: a.cfg.Chat.MaxMessages,
		InputLimit:  a.cfg.Chat.InputLimit,
	}, log)
	srv := server.New(mgr, server.OptionsFromConfig(a.cfg, Version), log)

	if watch {
		if path := a.watchPath(); path != "" {
			w, err := config.NewWatcher(path, config.DefaultWatchDebounce, log)
			if err != nil {
				log.Warn().Err(err).Msg("config watch disabled")
			} else {
				defer w.Close()
				w.Subscribe(func(cfg *config.Config) {
					config.SetGlobal(cfg)
					srv.ApplyConfig(cfg)
				})
				log.Info().Str("path", path).Msg("watching config")
			}
		}
	}

	return srv.Run(ctx)
}

// watchPath returns the config file in use, or "" when running on defaults.
func (a *app) watchPath() string {
	path := a.configPath
	if path == "" {
		dir, err := config.ConfigDir()
		if err != nil {
			return ""
		}
		path = config.FindConfigFile(dir)
	}
	if path == "" {
		return ""
	}
	if _, err := os.Stat(path); err != nil {
		return ""
	}
	return path
}
