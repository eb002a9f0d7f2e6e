package scraper

import (
	"regexp"
	"strings"
)

var datePattern = regexp.MustCompile(`(\d{2}/\d{2})`)

// Table is a plain copy of an HTML table: one string per cell, row 0 is the header
type Table struct {
	Rows [][]string
}

// HeaderDates returns one date label per non-empty header cell.
// "07/26 土" becomes "07/26"; cells without a MM/DD token are kept verbatim.
func HeaderDates(header []string) []string {
	dates := make([]string, 0, len(header))
	for _, cell := range header {
		text := strings.TrimSpace(cell)
		if text == "" {
			continue
		}
		if m := datePattern.FindString(text); m != "" {
			dates = append(dates, m)
		} else {
			dates = append(dates, text)
		}
	}
	return dates
}

// Extract turns an availability table into slots.
// Tables without at least one data row yield no slots, and cells beyond the
// last header date are dropped.
func Extract(table Table) []Slot {
	slots := []Slot{}
	if len(table.Rows) < 2 {
		return slots
	}

	dates := HeaderDates(table.Rows[0])

	for rowIndex, row := range table.Rows[1:] {
		for colIndex, cell := range row {
			if colIndex >= len(dates) {
				break
			}

			text := strings.TrimSpace(cell)
			status, statusText := Classify(text)

			slots = append(slots, Slot{
				Date:       dates[colIndex],
				Time:       TimeLabel(text),
				Status:     status,
				StatusText: statusText,
				RawText:    text,
				Row:        rowIndex,
				Col:        colIndex,
			})
		}
	}

	return slots
}
