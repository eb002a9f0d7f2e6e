package scraper

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

func TestHeaderDates(t *testing.T) {
	cases := []struct {
		header   []string
		expected []string
	}{
		{
			header:   []string{"", "07/26", "07/27"},
			expected: []string{"07/26", "07/27"},
		},
		{
			header:   []string{"07/26 土", " 07/27\n(日) "},
			expected: []string{"07/26", "07/27"},
		},
		{
			header:   []string{"合計", "7/26", "07/26"},
			expected: []string{"合計", "7/26", "07/26"},
		},
		{
			header:   []string{"  ", "\n"},
			expected: []string{},
		},
	}

	for _, test := range cases {
		require.Equal(t, test.expected, HeaderDates(test.header))
	}
}

func TestExtract(t *testing.T) {
	table := Table{Rows: [][]string{
		{"07/26 土", "07/27 日"},
		{"9:00 △", "9:00 ×"},
	}}

	expected := []Slot{
		{Date: "07/26", Time: "9:00", Status: StatusAvailable, StatusText: "予約可能", RawText: "9:00 △", Row: 0, Col: 0},
		{Date: "07/27", Time: "9:00", Status: StatusBooked, StatusText: "予約済み", RawText: "9:00 ×", Row: 0, Col: 1},
	}

	if diff := cmp.Diff(expected, Extract(table)); diff != "" {
		t.Fatalf("unexpected slots (-want +got):\n%s", diff)
	}
}

func TestExtractDropsCellsBeyondHeader(t *testing.T) {
	table := Table{Rows: [][]string{
		{"", "07/26", "07/27"},
		{"9:00 △", "9:00 ×", "9:00 ―", "extra", "extra"},
		{"11:00 ―"},
	}}

	slots := Extract(table)
	require.Len(t, slots, 3)

	for _, slot := range slots {
		require.Less(t, slot.Col, 2)
	}
	require.Equal(t, "07/26", slots[0].Date)
	require.Equal(t, "07/27", slots[1].Date)
	require.Equal(t, 1, slots[2].Row)
	require.Equal(t, StatusUnavailable, slots[2].Status)
}

func TestExtractKeepsRepeatedDates(t *testing.T) {
	table := Table{Rows: [][]string{
		{"07/26 午前", "07/26 午後"},
		{"△", "×"},
	}}

	slots := Extract(table)
	require.Len(t, slots, 2)
	require.Equal(t, "07/26", slots[0].Date)
	require.Equal(t, "07/26", slots[1].Date)
	require.Equal(t, 0, slots[0].Col)
	require.Equal(t, 1, slots[1].Col)
	require.Equal(t, "", slots[0].Time)
}

func TestExtractShortTables(t *testing.T) {
	require.Empty(t, Extract(Table{}))
	require.Empty(t, Extract(Table{Rows: [][]string{{"07/26 土", "07/27 日"}}}))
	require.NotNil(t, Extract(Table{}))
}

func TestExtractReturnsFreshSlices(t *testing.T) {
	table := Table{Rows: [][]string{
		{"07/26"},
		{"9:00 △"},
	}}

	first := Extract(table)
	first[0].Status = StatusBooked

	second := Extract(table)
	require.Equal(t, StatusAvailable, second[0].Status)
}
