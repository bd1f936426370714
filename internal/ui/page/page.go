// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package page is the top-level Bubble Tea model: header, quick actions,
// stats, chat panel, footer and toasts on one screen.
package page

import (
	"context"
	"unicode/utf8"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/rs/zerolog"

	"github.com/jeranaias/campus-assistant/internal/assistant"
	"github.com/jeranaias/campus-assistant/internal/config"
	"github.com/jeranaias/campus-assistant/internal/ui/chat"
	"github.com/jeranaias/campus-assistant/internal/ui/components"
	"github.com/jeranaias/campus-assistant/internal/ui/styles"
	"github.com/jeranaias/campus-assistant/internal/util"
)

// Toast copy.
const (
	SentToastTitle        = "Message sent"
	SentToastBody         = "Your query has been processed by the campus assistant."
	QuickActionToastTitle = "Quick Action Selected"
	QuickActionToastBody  = "The assistant will help you with: "

	// quickActionExcerpt is how many runes of the query the toast shows.
	quickActionExcerpt = 50
)

// Focus names the panel receiving keys.
type Focus int

const (
	FocusChat Focus = iota
	FocusActions
)

// String returns the focus name.
func (f Focus) String() string {
	if f == FocusActions {
		return "quick-actions"
	}
	return "chat"
}

// Options configures the page.
type Options struct {
	Context         context.Context
	Theme           *styles.Theme
	QuickActionMode string
	Compact         bool
	ShowStats       bool
	InputLimit      int
	MaxMessages     int
	Logger          zerolog.Logger
}

// OptionsFromConfig maps the configuration onto page options.
func OptionsFromConfig(cfg *config.Config) Options {
	return Options{
		Theme:           styles.NewTheme(cfg.UI.Theme),
		QuickActionMode: cfg.Chat.QuickActionMode,
		Compact:         cfg.UI.Compact,
		ShowStats:       cfg.UI.ShowStats,
		InputLimit:      cfg.Chat.InputLimit,
		MaxMessages:     cfg.Chat.MaxMessages,
	}
}

// =============================================================================
// PAGE MODEL
// =============================================================================

// Page is the application model.
type Page struct {
	theme *styles.Theme

	width  int
	height int

	header  *components.Header
	actions *components.QuickActions
	chat    *chat.Model
	toasts  *components.ToastManager

	mode      string
	showStats bool
	focus     Focus

	// SelectedQuery is the query of the last quick action chosen.
	SelectedQuery string

	toastTicking bool
	quitting     bool
	log          zerolog.Logger
}

// New creates the page around a responder.
func New(responder *assistant.Responder, opts Options) *Page {
	if opts.Theme == nil {
		opts.Theme = styles.NewTheme(styles.ModeAuto)
	}
	switch opts.QuickActionMode {
	case config.QuickActionStore, config.QuickActionSubmit:
	default:
		opts.QuickActionMode = config.QuickActionPrefill
	}

	p := &Page{
		theme:     opts.Theme,
		header:    components.NewHeader(opts.Theme),
		actions:   components.NewQuickActions(assistant.QuickActions(), opts.Theme),
		toasts:    components.NewToastManager(),
		mode:      opts.QuickActionMode,
		showStats: opts.ShowStats && !opts.Compact,
		focus:     FocusChat,
		log:       opts.Logger.With().Str("component", "page").Logger(),
	}
	p.header.Compact = opts.Compact
	p.chat = chat.New(responder, opts.Theme, chat.Options{
		Context:     opts.Context,
		InputLimit:  opts.InputLimit,
		MaxMessages: opts.MaxMessages,
		Logger:      opts.Logger,
	})
	p.actions.OnSelect = p.selectQuery
	return p
}

// Chat returns the chat panel.
func (p *Page) Chat() *chat.Model { return p.chat }

// Toasts returns the toast manager.
func (p *Page) Toasts() *components.ToastManager { return p.toasts }

// Focus returns the focused panel.
func (p *Page) Focus() Focus { return p.focus }

// Mode returns the quick action mode.
func (p *Page) Mode() string { return p.mode }

// Init implements tea.Model.
func (p *Page) Init() tea.Cmd {
	return p.chat.Init()
}

// =============================================================================
// UPDATE
// =============================================================================

// Update implements tea.Model.
func (p *Page) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		p.width, p.height = msg.Width, msg.Height
		p.theme.SetSize(msg.Width, msg.Height)
		return p, nil

	case tea.KeyMsg:
		return p, p.handleKey(msg)

	case chat.SentMsg:
		p.log.Info().
			Str("session", p.chat.SessionID()).
			Int("length", utf8.RuneCountInString(msg.Text)).
			Msg("message sent")
		return p, p.notify(components.ToastKindSuccess, SentToastTitle, SentToastBody)

	case components.QuickActionSelectedMsg:
		p.log.Debug().Str("action", msg.Action.ID).Msg("quick action selected")
		return p, nil

	case components.ToastTickMsg:
		if p.toasts.Tick() > 0 {
			return p, components.ToastTickCmd()
		}
		p.toastTicking = false
		return p, nil
	}

	return p, p.chat.Update(msg)
}

func (p *Page) handleKey(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "ctrl+c", "ctrl+q":
		p.Quit()
		return tea.Quit
	case "tab", "shift+tab":
		return p.toggleFocus()
	}

	if p.focus == FocusActions {
		if msg.String() == "esc" {
			return p.setFocus(FocusChat)
		}
		return p.actions.Update(msg)
	}
	return p.chat.Update(msg)
}

// Quit closes the chat panel, abandoning any pending reply.
func (p *Page) Quit() {
	p.quitting = true
	p.chat.Close()
}

func (p *Page) toggleFocus() tea.Cmd {
	if p.focus == FocusChat {
		return p.setFocus(FocusActions)
	}
	return p.setFocus(FocusChat)
}

func (p *Page) setFocus(f Focus) tea.Cmd {
	p.focus = f
	if f == FocusActions {
		p.chat.Blur()
		p.actions.Focus()
		return nil
	}
	p.actions.Blur()
	return p.chat.Focus()
}

// selectQuery is the quick action hook. The query is always stored and
// announced; the mode decides whether it also reaches the chat input.
func (p *Page) selectQuery(query string) tea.Cmd {
	p.SelectedQuery = query
	p.log.Info().Str("mode", p.mode).Str("query", query).Msg("quick action applied")

	cmds := []tea.Cmd{
		p.notify(components.ToastKindInfo, QuickActionToastTitle,
			QuickActionToastBody+util.Excerpt(query, quickActionExcerpt)),
	}

	switch p.mode {
	case config.QuickActionStore:
	case config.QuickActionSubmit:
		p.chat.SetInput(query)
		cmds = append(cmds, p.setFocus(FocusChat), p.chat.Submit())
	default:
		p.chat.SetInput(query)
		cmds = append(cmds, p.setFocus(FocusChat))
	}
	return tea.Batch(cmds...)
}

// notify shows a toast and starts the expiry ticker if it is idle.
func (p *Page) notify(kind components.ToastKind, title, body string) tea.Cmd {
	p.toasts.Add(kind, title, body)
	if p.toastTicking {
		return nil
	}
	p.toastTicking = true
	return components.ToastTickCmd()
}

// =============================================================================
// VIEW
// =============================================================================

// View implements tea.Model.
func (p *Page) View() string {
	if p.quitting {
		return ""
	}

	width, height := p.width, p.height
	if width <= 0 {
		width = 100
	}
	if height <= 0 {
		height = 40
	}

	p.header.SetWidth(width)
	header := p.header.View()
	footer := components.RenderFooter(width, p.helpKeys(), p.theme)
	toasts := components.RenderToastStack(p.toasts.Toasts(), width, p.theme)

	used := lipgloss.Height(header) + lipgloss.Height(footer)
	parts := []string{header}
	if toasts != "" {
		used += lipgloss.Height(toasts)
		parts = append(parts, toasts)
	}
	body := p.renderBody(width, max(height-used, 8))
	parts = append(parts, body, footer)

	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

// renderBody lays out the panels for the width:
// narrow stacks quick actions over the chat, medium puts quick actions and
// stats in a left sidebar, wide runs quick actions across the top with
// stats beside the chat.
func (p *Page) renderBody(width, height int) string {
	switch styles.LayoutFor(width) {
	case styles.LayoutNarrow:
		p.actions.SetWidth(width)
		actions := p.actions.View()
		p.chat.SetSize(width, max(height-lipgloss.Height(actions), 6))
		return lipgloss.JoinVertical(lipgloss.Left, actions, p.chat.View())

	case styles.LayoutMedium:
		side := 44
		p.actions.SetWidth(side)
		column := []string{p.actions.View()}
		if p.showStats {
			column = append(column, components.RenderStats(assistant.Stats(), side, p.theme))
		}
		sidebar := lipgloss.JoinVertical(lipgloss.Left, column...)
		p.chat.SetSize(width-side-1, height)
		return lipgloss.JoinHorizontal(lipgloss.Top, sidebar, " ", p.chat.View())

	default:
		p.actions.SetWidth(width)
		actions := p.actions.View()
		rest := max(height-lipgloss.Height(actions), 6)
		if !p.showStats {
			p.chat.SetSize(width, rest)
			return lipgloss.JoinVertical(lipgloss.Left, actions, p.chat.View())
		}
		side := 36
		stats := components.RenderStats(assistant.Stats(), side, p.theme)
		p.chat.SetSize(width-side-1, rest)
		row := lipgloss.JoinHorizontal(lipgloss.Top, p.chat.View(), " ", stats)
		return lipgloss.JoinVertical(lipgloss.Left, actions, row)
	}
}

func (p *Page) helpKeys() []components.KeyHelp {
	help := []components.KeyHelp{{Key: "tab", Desc: "switch panel"}}
	if p.focus == FocusActions {
		help = append(help,
			components.KeyHelp{Key: "1-8", Desc: "pick"},
			components.KeyHelp{Key: "enter", Desc: "select"},
		)
	} else {
		for _, b := range p.chat.KeyMap().ShortHelp() {
			h := b.Help()
			help = append(help, components.KeyHelp{Key: h.Key, Desc: h.Desc})
		}
	}
	return append(help, components.KeyHelp{Key: "ctrl+c", Desc: "quit"})
}
