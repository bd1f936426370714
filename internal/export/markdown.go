// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package export

import (
	"fmt"
	"strings"
	"time"

	"github.com/jeranaias/campus-assistant/internal/model"
)

// =============================================================================
// MARKDOWN EXPORTER
// =============================================================================

// MarkdownExporter exports conversations to Markdown.
type MarkdownExporter struct {
	options *Options
}

// NewMarkdownExporter creates a new Markdown exporter.
func NewMarkdownExporter(opts *Options) *MarkdownExporter {
	return &MarkdownExporter{options: opts.withDefaults()}
}

// Export converts a conversation to Markdown: a frontmatter block, a title
// and one section per message.
func (e *MarkdownExporter) Export(conv *model.Conversation) ([]byte, error) {
	if conv == nil {
		return nil, fmt.Errorf("conversation is nil")
	}
	msgs := conv.Messages()

	var sb strings.Builder
	sb.WriteString("---\n")
	fmt.Fprintf(&sb, "title: %s\n", escapeYAML(e.options.Title))
	fmt.Fprintf(&sb, "date: %s\n", conv.CreatedAt().Format(time.RFC3339))
	fmt.Fprintf(&sb, "messages: %d\n", len(msgs))
	fmt.Fprintf(&sb, "exported: %s\n", e.options.Now().Format(time.RFC3339))
	sb.WriteString("---\n\n")

	fmt.Fprintf(&sb, "# %s\n\n", escapeMarkdown(e.options.Title))

	for i, msg := range msgs {
		if e.options.IncludeTimestamps {
			fmt.Fprintf(&sb, "### %s <sub>%s</sub>\n\n", msg.Role.DisplayName(), msg.Timestamp.Format("2006-01-02 15:04:05"))
		} else {
			fmt.Fprintf(&sb, "### %s\n\n", msg.Role.DisplayName())
		}

		content := msg.Content
		if msg.IsUser() {
			content = quote(content)
		}
		sb.WriteString(content)
		sb.WriteString("\n\n")

		if i < len(msgs)-1 {
			sb.WriteString("---\n\n")
		}
	}
	return []byte(sb.String()), nil
}

// FileExtension returns the file extension for Markdown.
func (e *MarkdownExporter) FileExtension() string {
	return ".md"
}

// MimeType returns the MIME type for Markdown.
func (e *MarkdownExporter) MimeType() string {
	return "text/markdown"
}

// quote renders user text as a block quote so it is never read as markup.
func quote(s string) string {
	lines := strings.Split(strings.TrimRight(s, "\n"), "\n")
	for i, line := range lines {
		lines[i] = "> " + line
	}
	return strings.Join(lines, "\n")
}

func escapeMarkdown(s string) string {
	r := strings.NewReplacer(`\`, `\\`, "*", `\*`, "_", `\_`, "`", "\\`", "#", `\#`)
	return r.Replace(s)
}

func escapeYAML(s string) string {
	if strings.ContainsAny(s, ":#\"'\n") {
		return fmt.Sprintf("%q", s)
	}
	return s
}
