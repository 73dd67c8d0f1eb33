package model

import (
	"strings"
	"time"
)

// ShoppingMarker tags actions taken from the shopping list. For those
// actions the result column holds a status instead of a quantity.
const ShoppingMarker = "(shopping)"

// TimestampLayout renders day-month-year with a 12-hour clock.
const TimestampLayout = "02-01-2006 03:04:05 PM"

var ActionLogHeader = []string{"Timestamp", "Action", "CategoryID", "ItemName", "Quantity", "Result"}

// LogEntry is one row of the append-only ActionLog sheet.
type LogEntry struct {
	Timestamp  string `json:"timestamp"`
	Action     string `json:"action"`
	CategoryID string `json:"itemTypeId"`
	ItemName   string `json:"itemName"`
	Quantity   string `json:"quantity"`
	Result     string `json:"newQuantity"`
}

// IsShopping reports whether the action came from the shopping list.
func (e LogEntry) IsShopping() bool {
	return strings.Contains(e.Action, ShoppingMarker)
}

func (e LogEntry) Row() []any {
	return []any{e.Timestamp, e.Action, e.CategoryID, e.ItemName, numericOrText(e.Quantity), numericOrText(e.Result)}
}

func LogEntryFromRow(row []string) LogEntry {
	return LogEntry{
		Timestamp:  cell(row, 0),
		Action:     cell(row, 1),
		CategoryID: cell(row, 2),
		ItemName:   cell(row, 3),
		Quantity:   cell(row, 4),
		Result:     cell(row, 5),
	}
}

// FormatTimestamp renders t in loc using TimestampLayout.
func FormatTimestamp(t time.Time, loc *time.Location) string {
	if loc == nil {
		loc = time.UTC
	}
	return t.In(loc).Format(TimestampLayout)
}

func numericOrText(s string) any {
	if n, err := ParseQuantity(s); err == nil {
		return n
	}
	return s
}
