package scraper

import "strings"

// Status is the classified state of a grid cell
type Status string

const (
	StatusAvailable   Status = "available"
	StatusBooked      Status = "booked"
	StatusUnavailable Status = "unavailable"
	StatusUnknown     Status = "unknown"
)

// Glyphs rendered by the reservation site inside each cell
const (
	GlyphUnavailable = "―"
	GlyphAvailable   = "△"
	GlyphBooked      = "×"
)

const (
	labelUnavailable = "予約不可"
	labelAvailable   = "予約可能"
	labelBooked      = "予約済み"
	labelUnknown     = "不明"
)

var glyphStripper = strings.NewReplacer(
	GlyphAvailable, "",
	GlyphBooked, "",
	GlyphUnavailable, "",
)

// Classify maps cell text to a status and its Japanese label.
// The first matching glyph wins, in the order unavailable, available, booked.
func Classify(text string) (Status, string) {
	switch {
	case strings.Contains(text, GlyphUnavailable):
		return StatusUnavailable, labelUnavailable
	case strings.Contains(text, GlyphAvailable):
		return StatusAvailable, labelAvailable
	case strings.Contains(text, GlyphBooked):
		return StatusBooked, labelBooked
	}

	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return StatusUnknown, labelUnknown
	}
	return StatusUnknown, trimmed
}

// TimeLabel returns the time part of a cell, e.g. "10:00" for "10:00 △"
func TimeLabel(text string) string {
	first, _, _ := strings.Cut(text, " ")
	return strings.TrimSpace(glyphStripper.Replace(first))
}
