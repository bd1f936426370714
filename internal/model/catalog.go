// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package model

import "fmt"

// =============================================================================
// QUICK ACTIONS
// =============================================================================

// Icon identifies the pictogram drawn next to a quick action.
type Icon int

const (
	IconUtensils Icon = iota
	IconBookOpen
	IconCar
	IconCalendar
	IconCreditCard
	IconMapPin
	IconUsers
	IconClock
)

var iconNames = [...]string{
	IconUtensils:   "utensils",
	IconBookOpen:   "book-open",
	IconCar:        "car",
	IconCalendar:   "calendar",
	IconCreditCard: "credit-card",
	IconMapPin:     "map-pin",
	IconUsers:      "users",
	IconClock:      "clock",
}

// Terminal glyphs. Single-width symbols only, so grid columns line up on
// terminals without emoji fonts.
var iconGlyphs = [...]string{
	IconUtensils:   "¤",
	IconBookOpen:   "§",
	IconCar:        "»",
	IconCalendar:   "▦",
	IconCreditCard: "$",
	IconMapPin:     "◉",
	IconUsers:      "☺",
	IconClock:      "◷",
}

// String returns the icon name used by the web widget.
func (i Icon) String() string {
	if i < 0 || int(i) >= len(iconNames) {
		return "unknown"
	}
	return iconNames[i]
}

// Glyph returns the terminal symbol for the icon.
func (i Icon) Glyph() string {
	if i < 0 || int(i) >= len(iconGlyphs) {
		return "?"
	}
	return iconGlyphs[i]
}

// MarshalText encodes the icon by name.
func (i Icon) MarshalText() ([]byte, error) {
	return []byte(i.String()), nil
}

// UnmarshalText decodes an icon name written by MarshalText.
func (i *Icon) UnmarshalText(text []byte) error {
	for n, name := range iconNames {
		if name == string(text) {
			*i = Icon(n)
			return nil
		}
	}
	return fmt.Errorf("unknown icon %q", text)
}

// QuickAction is a preset query offered as a shortcut.
type QuickAction struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Icon        Icon   `json:"icon"`
	Query       string `json:"query"`
}

// =============================================================================
// CAMPUS STATS
// =============================================================================

// Stat is a display-only label and value, e.g. "Total Students" / "25,847".
type Stat struct {
	Label string `json:"label"`
	Value string `json:"value"`
}
