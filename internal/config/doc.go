// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package config provides configuration loading and management for the
// campus assistant.
//
// Supports TOML, JSON and YAML configuration files, a .env file, and
// CAMPUS_* environment variable overrides, with validation.
//
// Configuration sources (lowest to highest precedence):
//   - Built-in defaults
//   - ~/.campus-assistant/config.{toml,json,yaml} (or --config)
//   - .env in the working directory
//   - CAMPUS_* environment variables, e.g. CAMPUS_CHAT_REPLY_DELAY=2s
//
// A Watcher reloads the file when it changes and notifies subscribers.
package config
