// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package export

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/jeranaias/campus-assistant/internal/model"
)

// =============================================================================
// JSON EXPORTER
// =============================================================================

// Transcript is the JSON export document.
type Transcript struct {
	Title     string          `json:"title"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
	Exported  time.Time       `json:"exported"`
	Messages  []model.Message `json:"messages"`
}

// JSONExporter exports the complete message list. IncludeTimestamps does
// not apply; every message keeps its timestamp.
type JSONExporter struct {
	options *Options
}

// NewJSONExporter creates a new JSON exporter.
func NewJSONExporter(opts *Options) *JSONExporter {
	return &JSONExporter{options: opts.withDefaults()}
}

// Export converts a conversation to indented JSON.
func (e *JSONExporter) Export(conv *model.Conversation) ([]byte, error) {
	if conv == nil {
		return nil, fmt.Errorf("conversation is nil")
	}
	return json.MarshalIndent(Transcript{
		Title:     e.options.Title,
		CreatedAt: conv.CreatedAt(),
		UpdatedAt: conv.UpdatedAt(),
		Exported:  e.options.Now(),
		Messages:  conv.Messages(),
	}, "", "  ")
}

// FileExtension returns the file extension for JSON.
func (e *JSONExporter) FileExtension() string {
	return ".json"
}

// MimeType returns the MIME type for JSON.
func (e *JSONExporter) MimeType() string {
	return "application/json"
}
