package scraper

import (
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// ParseTable reads the first <table> of an HTML fragment into a Table.
// Cell text is the trimmed text content of every th/td of a row, in document
// order. A fragment without a table yields an empty Table.
func ParseTable(html string) (Table, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return Table{}, fmt.Errorf("failed to parse table HTML: %w", err)
	}

	table := doc.Find("table").First()
	if table.Length() == 0 {
		return Table{}, nil
	}

	var rows [][]string
	table.Find("tr").Each(func(_ int, tr *goquery.Selection) {
		cells := []string{}
		tr.Find("th, td").Each(func(_ int, cell *goquery.Selection) {
			cells = append(cells, strings.TrimSpace(cell.Text()))
		})
		rows = append(rows, cells)
	})

	return Table{Rows: rows}, nil
}
