package survey

import (
	"strconv"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/tealeg/xlsx/v2"
)

// XLSXOptions selects the sheet holding the corner table.
type XLSXOptions struct {
	SheetIndex int    // default 0
	SheetName  string // if set, overrides SheetIndex
}

// LoadCornersXLSX reads corners from a workbook. The first row is a header
// naming the name, lat and lon columns; an optional page column is read when
// present. Blank rows are skipped.
func LoadCornersXLSX(path string, opts XLSXOptions) ([]Corner, error) {
	f, err := xlsx.OpenFile(path)
	if err != nil {
		return nil, eris.Wrapf(err, "survey: open xlsx %s", path)
	}

	sheet, err := getSheet(f, opts)
	if err != nil {
		return nil, err
	}
	if len(sheet.Rows) == 0 {
		return nil, eris.New("survey: empty corner list")
	}

	cols := map[string]int{}
	for j, cell := range rowToStrings(sheet.Rows[0]) {
		cols[strings.ToLower(strings.TrimSpace(cell))] = j
	}
	for _, required := range []string{"name", "lat", "lon"} {
		if _, ok := cols[required]; !ok {
			return nil, eris.Errorf("survey: xlsx header has no %q column", required)
		}
	}

	var corners []Corner
	for i, row := range sheet.Rows[1:] {
		cells := rowToStrings(row)
		if blank(cells) {
			continue
		}
		c := Corner{
			Name:   cellAt(cells, cols["name"]),
			LatDMS: cellAt(cells, cols["lat"]),
			LonDMS: cellAt(cells, cols["lon"]),
		}
		if j, ok := cols["page"]; ok {
			if page := cellAt(cells, j); page != "" {
				n, err := strconv.Atoi(page)
				if err != nil {
					return nil, eris.Wrapf(err, "survey: xlsx row %d: page", i+2)
				}
				c.Page = n
			}
		}
		corners = append(corners, c)
	}
	return validate(corners)
}

func getSheet(f *xlsx.File, opts XLSXOptions) (*xlsx.Sheet, error) {
	if opts.SheetName != "" {
		sheet, ok := f.Sheet[opts.SheetName]
		if !ok {
			return nil, eris.Errorf("survey: xlsx sheet %q not found", opts.SheetName)
		}
		return sheet, nil
	}

	if opts.SheetIndex >= len(f.Sheets) {
		return nil, eris.Errorf("survey: xlsx sheet index %d out of range (file has %d sheets)", opts.SheetIndex, len(f.Sheets))
	}

	return f.Sheets[opts.SheetIndex], nil
}

func rowToStrings(row *xlsx.Row) []string {
	cells := make([]string, len(row.Cells))
	for j, cell := range row.Cells {
		cells[j] = strings.TrimSpace(cell.String())
	}
	return cells
}

func cellAt(cells []string, j int) string {
	if j < len(cells) {
		return cells[j]
	}
	return ""
}

func blank(cells []string) bool {
	for _, c := range cells {
		if c != "" {
			return false
		}
	}
	return true
}
