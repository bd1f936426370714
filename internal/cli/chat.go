// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/peterh/liner"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/jeranaias/campus-assistant/internal/assistant"
	"github.com/jeranaias/campus-assistant/internal/config"
	"github.com/jeranaias/campus-assistant/internal/dispatch"
	"github.com/jeranaias/campus-assistant/internal/export"
	"github.com/jeranaias/campus-assistant/internal/model"
)

const chatPrompt = "campus> "

// =============================================================================
// INPUT
// =============================================================================

// lineReader reads one line of input per prompt.
type lineReader interface {
	Prompt(prompt string) (string, error)
	Close() error
}

// historyReader is a liner-backed reader with a persistent history file.
type historyReader struct {
	line        *liner.State
	historyFile string
}

func newHistoryReader() *historyReader {
	line := liner.NewLiner()
	line.SetCtrlCAborts(true)

	dir, err := config.ConfigDir()
	if err != nil {
		dir = os.TempDir()
	}
	r := &historyReader{line: line, historyFile: filepath.Join(dir, "chat_history")}
	if f, err := os.Open(r.historyFile); err == nil {
		r.line.ReadHistory(f)
		f.Close()
	}
	return r
}

func (r *historyReader) Prompt(prompt string) (string, error) {
	input, err := r.line.Prompt(prompt)
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(input) != "" {
		r.line.AppendHistory(input)
	}
	return input, nil
}

// Close saves the history (owner-only permissions) and restores the
// terminal.
func (r *historyReader) Close() error {
	if err := os.MkdirAll(filepath.Dir(r.historyFile), 0700); err == nil {
		if f, err := os.OpenFile(r.historyFile, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600); err == nil {
			r.line.WriteHistory(f)
			f.Close()
		}
	}
	return r.line.Close()
}

// scanReader reads piped input. Prompts are not echoed.
type scanReader struct {
	scanner *bufio.Scanner
}

func newScanReader(in io.Reader) *scanReader {
	return &scanReader{scanner: bufio.NewScanner(in)}
}

func (r *scanReader) Prompt(string) (string, error) {
	if r.scanner.Scan() {
		return r.scanner.Text(), nil
	}
	if err := r.scanner.Err(); err != nil {
		return "", err
	}
	return "", io.EOF
}

func (r *scanReader) Close() error { return nil }

// =============================================================================
// SESSION
// =============================================================================

// chatSession is one line-mode conversation.
type chatSession struct {
	id           string
	conversation *model.Conversation
	responder    *assistant.Responder
	render       *replyRenderer
	out          io.Writer
	log          zerolog.Logger

	// exportDir receives /save transcripts.
	exportDir string

	// interrupt derives the context for one pending reply. The REPL binds
	// it to SIGINT so ctrl+c abandons the reply instead of the process.
	interrupt func(context.Context) (context.Context, context.CancelFunc)
}

func newChatSession(responder *assistant.Responder, out io.Writer, maxMessages int, log zerolog.Logger) *chatSession {
	conv := model.NewConversation(assistant.Greeting)
	conv.SetMaxMessages(maxMessages)
	return &chatSession{
		id:           "cli_" + uuid.NewString(),
		conversation: conv,
		responder:    responder,
		render:       newReplyRenderer(out),
		out:          out,
		log:          log,
		exportDir:    ".",
		interrupt: func(ctx context.Context) (context.Context, context.CancelFunc) {
			return context.WithCancel(ctx)
		},
	}
}

func (s *chatSession) printGreeting() {
	fmt.Fprintln(s.out, TitleStyle.Render(assistant.Title))
	fmt.Fprintln(s.out, DimStyle.Render(assistant.Tagline))
	fmt.Fprintln(s.out)
	s.printReply(assistant.Greeting)
	fmt.Fprintln(s.out, DimStyle.Render("Type /help for commands, /quit to leave."))
}

func (s *chatSession) printReply(text string) {
	fmt.Fprint(s.out, AssistantStyle.Render("Assistant:")+" "+s.render.Render(text))
}

// handleLine processes one input line. It returns false when the REPL
// should stop.
func (s *chatSession) handleLine(ctx context.Context, input string) (bool, error) {
	input = strings.TrimSpace(input)
	if input == "" {
		return true, nil
	}
	if strings.HasPrefix(input, "/") {
		return s.handleCommand(ctx, input)
	}
	if strings.EqualFold(input, "exit") || strings.EqualFold(input, "quit") {
		return false, nil
	}
	return true, s.send(ctx, input)
}

func (s *chatSession) handleCommand(ctx context.Context, input string) (bool, error) {
	fields := strings.Fields(input)
	switch strings.ToLower(fields[0]) {
	case "/quit", "/exit", "/q":
		return false, nil

	case "/help", "/h", "/?":
		s.printHelp()

	case "/actions":
		printActions(s.out)

	case "/action":
		if len(fields) < 2 {
			return true, errors.New("usage: /action N (or an action id)")
		}
		action, ok := lookupAction(fields[1])
		if !ok {
			return true, fmt.Errorf("unknown quick action %q", fields[1])
		}
		fmt.Fprintln(s.out, DimStyle.Render(action.Icon.Glyph()+" "+action.Title+": "+action.Query))
		return true, s.send(ctx, action.Query)

	case "/clear":
		fmt.Fprint(s.out, "\033[H\033[2J")

	case "/save":
		format := ""
		if len(fields) > 1 {
			format = fields[1]
		}
		return true, s.save(format)

	default:
		return true, fmt.Errorf("unknown command %s (try /help)", fields[0])
	}
	return true, nil
}

// send runs one exchange: record the user message, wait for the reply and
// print it. A cancelled reply leaves only the user message.
func (s *chatSession) send(ctx context.Context, text string) error {
	s.conversation.AddUserMessage(text)
	fmt.Fprintln(s.out, DimStyle.Render(assistant.TypingLine))

	replyCtx, cancel := s.interrupt(ctx)
	defer cancel()

	reply, err := s.responder.Respond(replyCtx, assistant.Request{
		SessionID: s.id,
		Text:      text,
		Source:    dispatch.SourceCLI,
	})
	if err != nil {
		if errors.Is(err, context.Canceled) && ctx.Err() == nil {
			fmt.Fprintln(s.out, WarningStyle.Render("[Cancelled]"))
			return nil
		}
		return err
	}

	s.conversation.AddAssistantMessage(reply.Text)
	s.log.Debug().Str("topic", reply.Topic).Bool("fallback", reply.Fallback).Msg("reply delivered")
	s.printReply(reply.Text)
	return nil
}

// save writes the transcript in format (md or json) to exportDir.
func (s *chatSession) save(format string) error {
	opts := export.DefaultOptions()
	opts.OutputDir = s.exportDir
	opts.Title = assistant.Title + " Transcript"
	exp, err := export.ForFormat(format, opts)
	if err != nil {
		return err
	}
	path, err := export.ToFile(s.conversation, exp, opts)
	if err != nil {
		return err
	}
	fmt.Fprintln(s.out, TitleStyle.Render("Saved")+" "+path)
	s.log.Info().Str("path", path).Msg("transcript saved")
	return nil
}

func (s *chatSession) printHelp() {
	fmt.Fprintln(s.out, TitleStyle.Render("Commands"))
	for _, row := range [][2]string{
		{"/help", "show this help"},
		{"/actions", "list quick actions"},
		{"/action N", "ask quick action N (1-8) or by id"},
		{"/save [md|json]", "save the transcript"},
		{"/clear", "clear the screen"},
		{"/quit", "leave the chat"},
	} {
		fmt.Fprintf(s.out, "  %-16s %s\n", row[0], DimStyle.Render(row[1]))
	}
}

// lookupAction resolves a 1-based catalog position or an action ID.
func lookupAction(arg string) (model.QuickAction, bool) {
	if n, err := strconv.Atoi(arg); err == nil {
		return assistant.QuickActionAt(n)
	}
	return assistant.QuickActionByID(strings.ToLower(arg))
}

// =============================================================================
// COMMAND
// =============================================================================

func (a *app) newChatCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "chat",
		Short: "Chat with the assistant in line mode",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.runChat(cmd)
		},
	}
}

func (a *app) runChat(cmd *cobra.Command) error {
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

	session := newChatSession(responder, out, a.cfg.Chat.MaxMessages, log)

	var reader lineReader
	if in, ok := cmd.InOrStdin().(*os.File); ok && isTerminal(in) && isTerminal(out) {
		reader = newHistoryReader()
		session.interrupt = func(ctx context.Context) (context.Context, context.CancelFunc) {
			return signal.NotifyContext(ctx, os.Interrupt)
		}
	} else {
		reader = newScanReader(cmd.InOrStdin())
	}
	defer reader.Close()

	ctx := cmd.Context()
	session.printGreeting()
	log.Info().Str("session", session.id).Msg("chat started")

	for {
		input, err := reader.Prompt(PromptStyle.Render(chatPrompt))
		if err != nil {
			// ctrl+c at the prompt, ctrl+d, or end of piped input.
			if !errors.Is(err, liner.ErrPromptAborted) && !errors.Is(err, io.EOF) {
				log.Warn().Err(err).Msg("input error")
			}
			break
		}

		more, err := session.handleLine(ctx, input)
		if err != nil {
			fmt.Fprintf(out, "%s %v\n", ErrorStyle.Render("[Error]"), err)
		}
		if !more || ctx.Err() != nil {
			break
		}
	}

	fmt.Fprintln(out, DimStyle.Render(fmt.Sprintf("Goodbye! %d messages this session.", session.conversation.Len())))
	log.Info().Str("session", session.id).Int("messages", session.conversation.Len()).Msg("chat ended")
	return nil
}
