// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package config

import (
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// isolate points the config directory at a temp dir and runs from there so
// that a developer's own config or .env cannot leak into tests.
func isolate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("CAMPUS_HOME", dir)
	t.Chdir(dir)
	return dir
}

func TestDefault_IsValid(t *testing.T) {
	cfg := Default()
	cfg.SetDefaults()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, 1500*time.Millisecond, cfg.Chat.ReplyDelay.Std())
	assert.Equal(t, QuickActionPrefill, cfg.Chat.QuickActionMode)
	assert.Equal(t, 500, cfg.Chat.InputLimit)
}

func TestLoad_NoFileUsesDefaults(t *testing.T) {
	dir := isolate(t)

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, 8787, cfg.Server.Port)
	assert.Equal(t, filepath.Join(dir, "inquiries.db"), cfg.Inquiries.Path)
}

func TestLoad_Formats(t *testing.T) {
	tests := []struct {
		name    string
		file    string
		content string
	}{
		{"toml", "config.toml", "[chat]\nreply_delay = \"2s\"\nquick_action_mode = \"submit\"\n[server]\nport = 9000\n"},
		{"json", "config.json", `{"chat":{"reply_delay":"2s","quick_action_mode":"submit"},"server":{"port":9000}}`},
		{"yaml", "config.yaml", "chat:\n  reply_delay: 2s\n  quick_action_mode: submit\nserver:\n  port: 9000\n"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			dir := isolate(t)
			require.NoError(t, os.WriteFile(filepath.Join(dir, tc.file), []byte(tc.content), 0644))

			cfg, err := Load("")
			require.NoError(t, err)
			assert.Equal(t, 2*time.Second, cfg.Chat.ReplyDelay.Std())
			assert.Equal(t, QuickActionSubmit, cfg.Chat.QuickActionMode)
			assert.Equal(t, 9000, cfg.Server.Port)
			// untouched fields keep defaults
			assert.Equal(t, 500, cfg.Chat.InputLimit)
		})
	}
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	dir := isolate(t)
	path := filepath.Join(dir, "custom.toml")
	require.NoError(t, os.WriteFile(path, []byte("[server]\nport = 9000\n"), 0644))

	t.Setenv("CAMPUS_SERVER_PORT", "9100")
	t.Setenv("CAMPUS_CHAT_REPLY_DELAY", "250ms")
	t.Setenv("CAMPUS_SERVER_ALLOWED_ORIGINS", "https://a.edu,https://b.edu")
	t.Setenv("CAMPUS_INQUIRIES_ENABLED", "true")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 9100, cfg.Server.Port)
	assert.Equal(t, 250*time.Millisecond, cfg.Chat.ReplyDelay.Std())
	assert.Equal(t, []string{"https://a.edu", "https://b.edu"}, cfg.Server.AllowedOrigins)
	assert.True(t, cfg.Inquiries.Enabled)
}

func TestLoad_DotEnv(t *testing.T) {
	dir := isolate(t)
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("CAMPUS_LOG_LEVEL=debug\n"), 0644))
	t.Cleanup(func() { os.Unsetenv("CAMPUS_LOG_LEVEL") })

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "debug", cfg.Log.Level)
}

func TestLoad_InvalidFile(t *testing.T) {
	dir := isolate(t)
	path := filepath.Join(dir, "config.toml")
	require.NoError(t, os.WriteFile(path, []byte("[chat\nbroken"), 0644))

	_, err := Load(path)
	assert.Error(t, err)
}

func TestLoad_UnsupportedExtension(t *testing.T) {
	dir := isolate(t)
	path := filepath.Join(dir, "config.ini")
	require.NoError(t, os.WriteFile(path, []byte("x=1"), 0644))

	_, err := Load(path)
	assert.ErrorIs(t, err, ErrUnsupportedFormat)
}

func TestLoad_MissingExplicitPathIsNotAnError(t *testing.T) {
	dir := isolate(t)
	cfg, err := Load(filepath.Join(dir, "nope.toml"))
	require.NoError(t, err)
	assert.Equal(t, 8787, cfg.Server.Port)
}

func TestValidate_CollectsErrors(t *testing.T) {
	cfg := Default()
	cfg.SetDefaults()
	cfg.Chat.QuickActionMode = "teleport"
	cfg.Server.Port = 70000
	cfg.Log.Level = "loud"
	cfg.UI.Theme = "neon"
	cfg.Chat.ReplyDelay = Duration(-time.Second)

	err := cfg.Validate()
	require.Error(t, err)

	var verrs ValidateErrors
	require.ErrorAs(t, err, &verrs)
	fields := make([]string, 0, len(verrs))
	for _, v := range verrs {
		fields = append(fields, v.Field)
	}
	assert.ElementsMatch(t,
		[]string{"chat.quick_action_mode", "server.port", "log.level", "ui.theme", "chat.reply_delay"},
		fields)
}

func TestSave_RoundTrip(t *testing.T) {
	for _, name := range []string{"config.toml", "config.json", "config.yaml"} {
		t.Run(name, func(t *testing.T) {
			dir := isolate(t)
			path := filepath.Join(dir, name)

			cfg := Default()
			cfg.Chat.ReplyDelay = Duration(3 * time.Second)
			cfg.Server.AllowedOrigins = []string{"https://campus.edu"}
			require.NoError(t, Save(cfg, path))

			loaded, err := Load(path)
			require.NoError(t, err)
			assert.Equal(t, 3*time.Second, loaded.Chat.ReplyDelay.Std())
			assert.Equal(t, []string{"https://campus.edu"}, loaded.Server.AllowedOrigins)
		})
	}
}

func TestClone_IsDeep(t *testing.T) {
	cfg := Default()
	clone := cfg.Clone()
	clone.Server.AllowedOrigins[0] = "changed"
	assert.NotEqual(t, "changed", cfg.Server.AllowedOrigins[0])
}

func TestDuration_Text(t *testing.T) {
	var d Duration
	require.NoError(t, d.UnmarshalText([]byte("1m30s")))
	assert.Equal(t, 90*time.Second, d.Std())

	text, err := d.MarshalText()
	require.NoError(t, err)
	assert.Equal(t, "1m30s", string(text))

	assert.Error(t, d.UnmarshalText([]byte("soon")))
}

// =============================================================================
// GLOBAL SINGLETON
// =============================================================================

// TestConfig_ConcurrentAccess checks that Global and SetGlobal can be called
// concurrently. Run with -race.
func TestConfig_ConcurrentAccess(t *testing.T) {
	isolate(t)
	ResetGlobalForTesting()
	t.Cleanup(ResetGlobalForTesting)

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			SetGlobal(Default())
		}()
		go func() {
			defer wg.Done()
			if Global() == nil {
				t.Error("Global() returned nil")
			}
		}()
	}
	wg.Wait()
}

func TestConfig_ReloadGlobal(t *testing.T) {
	dir := isolate(t)
	ResetGlobalForTesting()
	t.Cleanup(ResetGlobalForTesting)

	path := filepath.Join(dir, "config.toml")
	require.NoError(t, os.WriteFile(path, []byte("[server]\nport = 9001\n"), 0644))
	SetGlobalPath(path)
	assert.Equal(t, 9001, Global().Server.Port)

	require.NoError(t, os.WriteFile(path, []byte("[server]\nport = 9002\n"), 0644))
	cfg, err := ReloadGlobal()
	require.NoError(t, err)
	assert.Equal(t, 9002, cfg.Server.Port)
	assert.Equal(t, 9002, Global().Server.Port)
}

// =============================================================================
// WATCHER
// =============================================================================

func TestWatcher_ReloadsOnWrite(t *testing.T) {
	dir := isolate(t)
	ResetGlobalForTesting()
	t.Cleanup(ResetGlobalForTesting)

	path := filepath.Join(dir, "config.toml")
	require.NoError(t, os.WriteFile(path, []byte("[chat]\nreply_delay = \"1s\"\n"), 0644))

	w, err := NewWatcher(path, 20*time.Millisecond, zerolog.Nop())
	require.NoError(t, err)
	defer w.Close()

	got := make(chan *Config, 4)
	w.Subscribe(func(c *Config) { got <- c })

	require.NoError(t, os.WriteFile(path, []byte("[chat]\nreply_delay = \"2s\"\n"), 0644))

	select {
	case cfg := <-got:
		assert.Equal(t, 2*time.Second, cfg.Chat.ReplyDelay.Std())
	case <-time.After(3 * time.Second):
		t.Fatal("watcher did not deliver reloaded config")
	}
}

func TestWatcher_IgnoresInvalidFile(t *testing.T) {
	dir := isolate(t)
	ResetGlobalForTesting()
	t.Cleanup(ResetGlobalForTesting)

	path := filepath.Join(dir, "config.toml")
	require.NoError(t, os.WriteFile(path, []byte("[chat]\n"), 0644))

	w, err := NewWatcher(path, 20*time.Millisecond, zerolog.Nop())
	require.NoError(t, err)
	defer w.Close()

	got := make(chan *Config, 1)
	w.Subscribe(func(c *Config) { got <- c })

	require.NoError(t, os.WriteFile(path, []byte("[chat\n"), 0644))

	select {
	case <-got:
		t.Fatal("invalid config should not be delivered")
	case <-time.After(200 * time.Millisecond):
	}
}
