// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package export

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jeranaias/campus-assistant/internal/model"
)

var fixedNow = time.Date(2025, 9, 1, 14, 30, 0, 0, time.UTC)

func testConversation() *model.Conversation {
	conv := model.NewConversation("Hello! How can I help?")
	conv.AddUserMessage("Where is *parking*?\nAnd the shuttle?")
	conv.AddAssistantMessage("Lots A-F.")
	return conv
}

func testOptions(dir string) *Options {
	return &Options{
		OutputDir:         dir,
		Title:             "Session: test",
		IncludeTimestamps: false,
		Now:               func() time.Time { return fixedNow },
	}
}

func TestMarkdownExport(t *testing.T) {
	out, err := NewMarkdownExporter(testOptions("")).Export(testConversation())
	require.NoError(t, err)
	md := string(out)

	assert.True(t, strings.HasPrefix(md, "---\ntitle: \"Session: test\"\n"))
	assert.Contains(t, md, "messages: 3\n")
	assert.Contains(t, md, "exported: 2025-09-01T14:30:00Z\n")
	assert.Contains(t, md, "# Session: test\n")
	assert.Contains(t, md, "### Campus Assistant\n\nHello! How can I help?")
	assert.Contains(t, md, "### You\n\n> Where is *parking*?\n> And the shuttle?")
	assert.Equal(t, 2, strings.Count(md, "\n\n---\n\n"), "separators between messages")
}

func TestMarkdownExport_Timestamps(t *testing.T) {
	opts := testOptions("")
	opts.IncludeTimestamps = true
	out, err := NewMarkdownExporter(opts).Export(testConversation())
	require.NoError(t, err)
	assert.Contains(t, string(out), "### You <sub>")
}

func TestJSONExport(t *testing.T) {
	out, err := NewJSONExporter(testOptions("")).Export(testConversation())
	require.NoError(t, err)

	var tr Transcript
	require.NoError(t, json.Unmarshal(out, &tr))
	assert.Equal(t, "Session: test", tr.Title)
	require.Len(t, tr.Messages, 3)
	assert.Equal(t, model.RoleUser, tr.Messages[1].Role)
	assert.Equal(t, "Lots A-F.", tr.Messages[2].Content)
	assert.True(t, tr.Exported.Equal(fixedNow))
}

func TestExport_NilConversation(t *testing.T) {
	_, err := NewMarkdownExporter(nil).Export(nil)
	assert.Error(t, err)
	_, err = NewJSONExporter(nil).Export(nil)
	assert.Error(t, err)
}

func TestForFormat(t *testing.T) {
	tests := []struct {
		name    string
		wantExt string
		wantErr bool
	}{
		{"", ".md", false},
		{"md", ".md", false},
		{"Markdown", ".md", false},
		{".json", ".json", false},
		{"html", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			exp, err := ForFormat(tt.name, nil)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrUnknownFormat)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantExt, exp.FileExtension())
		})
	}
}

func TestToFile(t *testing.T) {
	dir := t.TempDir()
	opts := testOptions(dir)

	path, err := ToFile(testConversation(), NewJSONExporter(opts), opts)
	require.NoError(t, err)
	assert.Equal(t, dir, filepath.Dir(path))
	assert.Equal(t, "transcript_Where_is_-parking--_And_the_shuttle-_20250901_143000.json", filepath.Base(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"title": "Session: test"`)
}

func TestSanitizeFilename(t *testing.T) {
	tests := map[string]string{
		"":                      "conversation",
		"  ":                    "conversation",
		"a/b\\c:d":              "a-b-c-d",
		"hello world":           "hello_world",
		strings.Repeat("x", 60): strings.Repeat("x", 40),
		"café hours?":           "café_hours-",
	}
	for in, want := range tests {
		assert.Equal(t, want, sanitizeFilename(in), "input %q", in)
	}
}
