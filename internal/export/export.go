// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package export

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/jeranaias/campus-assistant/internal/model"
	"github.com/jeranaias/campus-assistant/internal/util"
)

// ErrUnknownFormat is returned by ForFormat.
var ErrUnknownFormat = errors.New("unknown export format")

// =============================================================================
// EXPORT INTERFACE
// =============================================================================

// Exporter renders a conversation in one format.
type Exporter interface {
	// Export converts a conversation to the target format.
	Export(conv *model.Conversation) ([]byte, error)

	// FileExtension returns the file extension, e.g. ".md".
	FileExtension() string

	// MimeType returns the MIME type of the output.
	MimeType() string
}

// =============================================================================
// EXPORT OPTIONS
// =============================================================================

// Options configures export behavior.
type Options struct {
	// OutputDir is where ToFile writes. Default: current directory.
	OutputDir string

	// Title heads the transcript.
	Title string

	// IncludeTimestamps adds the send time to every message.
	IncludeTimestamps bool

	// Now stamps the export. Defaults to time.Now.
	Now func() time.Time
}

// DefaultOptions returns default export options.
func DefaultOptions() *Options {
	return &Options{
		OutputDir:         ".",
		Title:             "Campus Assistant Transcript",
		IncludeTimestamps: true,
		Now:               time.Now,
	}
}

func (o *Options) withDefaults() *Options {
	d := DefaultOptions()
	if o == nil {
		return d
	}
	out := *o
	if out.OutputDir == "" {
		out.OutputDir = d.OutputDir
	}
	if out.Title == "" {
		out.Title = d.Title
	}
	if out.Now == nil {
		out.Now = d.Now
	}
	return &out
}

// ForFormat returns the exporter for a format name: md, markdown or json.
func ForFormat(name string, opts *Options) (Exporter, error) {
	switch strings.ToLower(strings.TrimPrefix(name, ".")) {
	case "", "md", "markdown":
		return NewMarkdownExporter(opts), nil
	case "json":
		return NewJSONExporter(opts), nil
	default:
		return nil, fmt.Errorf("%w: %q (use md or json)", ErrUnknownFormat, name)
	}
}

// =============================================================================
// EXPORT FUNCTIONS
// =============================================================================

// ToFile exports conv into opts.OutputDir and returns the file path. The
// name is derived from the first user message and the export time.
func ToFile(conv *model.Conversation, exporter Exporter, opts *Options) (string, error) {
	opts = opts.withDefaults()
	if conv == nil {
		return "", errors.New("conversation is nil")
	}

	content, err := exporter.Export(conv)
	if err != nil {
		return "", fmt.Errorf("export failed: %w", err)
	}

	filename := fmt.Sprintf("transcript_%s_%s%s",
		sanitizeFilename(firstQuestion(conv)),
		opts.Now().Format("20060102_150405"),
		exporter.FileExtension(),
	)
	path := filepath.Join(opts.OutputDir, filename)
	if err := util.AtomicWriteFile(path, content, 0644); err != nil {
		return "", fmt.Errorf("write transcript: %w", err)
	}
	return path, nil
}

// =============================================================================
// HELPER FUNCTIONS
// =============================================================================

func firstQuestion(conv *model.Conversation) string {
	for _, msg := range conv.Messages() {
		if msg.IsUser() {
			return msg.Content
		}
	}
	return ""
}

// sanitizeFilename keeps the first 40 runes and replaces characters that
// are invalid in file names on Windows or Unix.
func sanitizeFilename(s string) string {
	s = strings.TrimSpace(s)
	if runes := []rune(s); len(runes) > 40 {
		s = string(runes[:40])
	}

	var b strings.Builder
	for _, r := range s {
		switch {
		case strings.ContainsRune(`/\:*?"<>|`, r):
			b.WriteRune('-')
		case r == ' ' || r == '\t' || r == '\n' || r == '\r':
			b.WriteRune('_')
		case r < 32 || r == 127:
			b.WriteRune('-')
		default:
			b.WriteRune(r)
		}
	}
	if b.Len() == 0 {
		return "conversation"
	}
	return b.String()
}
