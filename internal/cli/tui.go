// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"errors"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/jeranaias/campus-assistant/internal/ui/page"
)

func (a *app) newTUICmd() *cobra.Command {
	return &cobra.Command{
		Use:   "tui",
		Short: "Open the full-screen assistant (default)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.runTUI(cmd)
		},
	}
}

// runTUI runs the page until the user quits. The log goes to a file so it
// does not tear the alt screen.
func (a *app) runTUI(cmd *cobra.Command) error {
	if !isTerminal(os.Stdout) {
		return errors.New("the full-screen UI needs a terminal; try `campus chat` or `campus ask`")
	}

	log, logCloser, err := a.logger(true, cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	responder, dispatchCloser, err := a.responder(log)
	if err != nil {
		logCloser.Close()
		return err
	}
	defer closeAll(dispatchCloser, logCloser)

	opts := page.OptionsFromConfig(a.cfg)
	opts.Context = cmd.Context()
	opts.Logger = log
	p := page.New(responder, opts)

	log.Info().Str("mode", p.Mode()).Msg("tui started")
	program := tea.NewProgram(p, tea.WithAltScreen(), tea.WithContext(cmd.Context()))
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("tui: %w", err)
	}
	p.Quit()
	log.Info().Msg("tui stopped")
	return nil
}
