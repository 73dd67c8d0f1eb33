// Package sheet reads and writes rectangular ranges of a spreadsheet. The
// Google Sheets API is the production backend; an .xlsx workbook and a SQLite
// cell table stand in for it locally.
package sheet

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
)

// Store is the set of spreadsheet operations the application needs.
//
// Get returns the rows of r up to the last row holding data; trailing empty
// cells of each row are dropped. Append writes rows below the last row
// holding data in r's columns. Update writes rows starting at r's top-left
// cell and leaves every other cell untouched.
type Store interface {
	Get(ctx context.Context, r Range) ([][]string, error)
	Append(ctx context.Context, r Range, rows [][]any) error
	Update(ctx context.Context, r Range, rows [][]any) error
}

// Layout names a sheet and the header written to row 1 when it is created.
type Layout struct {
	Name   string
	Header []string
}

// Range addresses a block of cells. Columns and rows are 1-based; EndRow 0
// means the range is open to the bottom of the sheet.
type Range struct {
	Sheet    string
	StartCol int
	EndCol   int
	StartRow int
	EndRow   int
}

// Columns builds an open-ended range over columns from..to starting at row.
func Columns(sheetName, from, to string, startRow int) Range {
	return Range{
		Sheet:    sheetName,
		StartCol: mustColumn(from),
		EndCol:   mustColumn(to),
		StartRow: startRow,
	}
}

// Cell builds a single-cell range.
func Cell(sheetName, col string, row int) Range {
	c := mustColumn(col)
	return Range{Sheet: sheetName, StartCol: c, EndCol: c, StartRow: row, EndRow: row}
}

// AtRow narrows r to a single row.
func (r Range) AtRow(row int) Range {
	r.StartRow = row
	r.EndRow = row
	return r
}

// Width is the number of columns in r.
func (r Range) Width() int { return r.EndCol - r.StartCol + 1 }

// A1 renders r in A1 notation, e.g. "ToBuyList!C5:E5" or "HouseInventory!A2:I".
func (r Range) A1() string {
	start := ColumnName(r.StartCol) + strconv.Itoa(r.StartRow)
	end := ColumnName(r.EndCol)
	if r.EndRow > 0 {
		end += strconv.Itoa(r.EndRow)
	}
	if start == end {
		return r.Sheet + "!" + start
	}
	return r.Sheet + "!" + start + ":" + end
}

func (r Range) String() string { return r.A1() }

func (r Range) validate() error {
	if r.Sheet == "" {
		return fmt.Errorf("range has no sheet")
	}
	if r.StartCol < 1 || r.EndCol < r.StartCol || r.StartRow < 1 || (r.EndRow != 0 && r.EndRow < r.StartRow) {
		return fmt.Errorf("invalid range %+v", r)
	}
	return nil
}

// ColumnName converts a 1-based column number to its letters.
func ColumnName(n int) string {
	name, err := excelize.ColumnNumberToName(n)
	if err != nil {
		return "?"
	}
	return name
}

func mustColumn(name string) int {
	n, err := excelize.ColumnNameToNumber(name)
	if err != nil {
		panic(fmt.Sprintf("sheet: bad column %q: %v", name, err))
	}
	return n
}

// CellString renders a value the way the local backends persist it.
func CellString(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case int:
		return strconv.Itoa(x)
	case int64:
		return strconv.FormatInt(x, 10)
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(x)
	case decimal.Decimal:
		return x.String()
	case fmt.Stringer:
		return x.String()
	default:
		return fmt.Sprint(x)
	}
}

// trimRows drops trailing empty cells from each row and trailing empty rows.
func trimRows(rows [][]string) [][]string {
	for i, row := range rows {
		end := len(row)
		for end > 0 && strings.TrimSpace(row[end-1]) == "" {
			end--
		}
		rows[i] = row[:end]
	}
	end := len(rows)
	for end > 0 && len(rows[end-1]) == 0 {
		end--
	}
	return rows[:end]
}
