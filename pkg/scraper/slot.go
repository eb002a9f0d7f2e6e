package scraper

import "sort"

// Slot represents one cell of the availability grid
type Slot struct {
	Date       string `json:"date"`
	Time       string `json:"time"`
	Status     Status `json:"status"`
	StatusText string `json:"status_text"`
	RawText    string `json:"raw_text"`
	Row        int    `json:"row"`
	Col        int    `json:"col"`
}

// Available reports whether the slot can be booked
func (s Slot) Available() bool {
	return s.Status == StatusAvailable
}

// GroupByDate groups slots by date. The returned keys are sorted and the
// slots of each group are sorted by time; the input slice is left untouched.
func GroupByDate(slots []Slot) ([]string, map[string][]Slot) {
	groups := make(map[string][]Slot)
	for _, slot := range slots {
		groups[slot.Date] = append(groups[slot.Date], slot)
	}

	dates := make([]string, 0, len(groups))
	for date, group := range groups {
		dates = append(dates, date)
		sort.SliceStable(group, func(i, j int) bool {
			return group[i].Time < group[j].Time
		})
	}
	sort.Strings(dates)

	return dates, groups
}
