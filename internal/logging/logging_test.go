// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package logging

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jeranaias/campus-assistant/internal/config"
)

func TestNew_JSONLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	log, closer, err := New(Options{Level: "warn", Format: "json", Out: &buf})
	require.NoError(t, err)
	defer closer.Close()

	log.Info().Msg("hidden")
	log.Warn().Str("topic", "dining").Msg("shown")

	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), `"topic":"dining"`)
	assert.Equal(t, zerolog.WarnLevel, log.GetLevel())
}

func TestNew_ConsoleFormat(t *testing.T) {
	var buf bytes.Buffer
	log, _, err := New(Options{Format: "console", Out: &buf, NoColor: true})
	require.NoError(t, err)

	log.Info().Msg("campus ready")
	assert.Contains(t, buf.String(), "INF")
	assert.Contains(t, buf.String(), "campus ready")
}

func TestNew_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "campus.log")
	log, closer, err := New(Options{Format: "json", File: path})
	require.NoError(t, err)

	log.Info().Msg("to file")
	require.NoError(t, closer.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "to file")
}

func TestNew_InvalidLevel(t *testing.T) {
	_, _, err := New(Options{Level: "shouty"})
	assert.Error(t, err)
}

func TestFromConfig(t *testing.T) {
	opts := FromConfig(config.LogConfig{Level: "debug", Format: "json", File: "/tmp/x.log"})
	assert.Equal(t, Options{Level: "debug", Format: "json", File: "/tmp/x.log"}, opts)
}
