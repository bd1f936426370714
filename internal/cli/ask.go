// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/jeranaias/campus-assistant/internal/assistant"
	"github.com/jeranaias/campus-assistant/internal/dispatch"
)

// AskResult is the data of `ask --json`.
type AskResult struct {
	Question  string `json:"question"`
	Topic     string `json:"topic"`
	Fallback  bool   `json:"fallback"`
	Reply     string `json:"reply"`
	ElapsedMs int64  `json:"elapsed_ms"`
}

func (a *app) newAskCmd() *cobra.Command {
	var (
		noDelay bool
		asJSON  bool
	)
	cmd := &cobra.Command{
		Use:   "ask QUESTION...",
		Short: "Ask one question and print the reply",
		Example: `  campus ask "When is the library open?"
  campus ask --no-delay --json parking permits`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			question := strings.Join(args, " ")
			out := cmd.OutOrStdout()

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
			if noDelay {
				responder.SetDelay(0)
			}

			start := time.Now()
			reply, err := responder.Respond(cmd.Context(), assistant.Request{
				SessionID: "ask_" + uuid.NewString(),
				Text:      question,
				Source:    dispatch.SourceCLI,
			})
			if err != nil {
				if asJSON {
					NewJSONErrorResponse("ask", err).Write(out)
				}
				return err
			}

			if asJSON {
				return NewJSONResponse("ask", AskResult{
					Question:  question,
					Topic:     reply.Topic,
					Fallback:  reply.Fallback,
					Reply:     reply.Text,
					ElapsedMs: time.Since(start).Milliseconds(),
				}).Write(out)
			}
			fmt.Fprint(out, newReplyRenderer(out).Render(reply.Text))
			return nil
		},
	}
	cmd.Flags().BoolVar(&noDelay, "no-delay", false, "skip the typing delay")
	cmd.Flags().BoolVar(&asJSON, "json", false, "output JSON")
	return cmd
}
