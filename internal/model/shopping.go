package model

import (
	"strings"

	"github.com/shopspring/decimal"
)

type Status string

const (
	StatusPending Status = "pending"
	StatusBought  Status = "bought"
)

// Toggle returns the other status. It is the only transition a shopping
// entry has.
func (s Status) Toggle() Status {
	if s == StatusBought {
		return StatusPending
	}
	return StatusBought
}

// ParseStatus accepts the English values and the labels older sheets were
// written with.
func ParseStatus(raw string) (Status, bool) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "pending", "待買":
		return StatusPending, true
	case "bought", "已買":
		return StatusBought, true
	}
	return "", false
}

type Priority string

const (
	PriorityNone   Priority = ""
	PriorityHigh   Priority = "high"
	PriorityMedium Priority = "medium"
	PriorityLow    Priority = "low"
)

// ParsePriority accepts high, medium, low or empty (unset).
func ParsePriority(raw string) (Priority, bool) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "":
		return PriorityNone, true
	case "high", "高":
		return PriorityHigh, true
	case "medium", "中":
		return PriorityMedium, true
	case "low", "低":
		return PriorityLow, true
	}
	return "", false
}

// ShoppingHeader is the header row of the ToBuyList sheet.
var ShoppingHeader = []string{"ID", "Name", "Quantity", "PurchaseLocation", "EstimatedUnitPrice", "Status", "Priority"}

// ToBuyEntry is one row of ToBuyList (columns A through G).
type ToBuyEntry struct {
	ID       string          `json:"id"`
	Name     string          `json:"name"`
	Quantity int             `json:"quantity"`
	Location string          `json:"location"`
	Price    decimal.Decimal `json:"price"`
	Status   Status          `json:"status"`
	Priority Priority        `json:"priority"`
}

// PriceLabel renders the estimated price, showing the pending sentinel for zero.
func (e ToBuyEntry) PriceLabel() string {
	if e.Price.IsZero() {
		return LocationPending
	}
	return "$" + e.Price.String()
}

func (e ToBuyEntry) Row() []any {
	return []any{
		e.ID,
		e.Name,
		e.Quantity,
		e.Location,
		e.Price.InexactFloat64(),
		string(e.Status),
		string(e.Priority),
	}
}

// Details encodes the contiguous quantity/location/price block (C:E).
func (e ToBuyEntry) Details() []any {
	return []any{e.Quantity, e.Location, e.Price.InexactFloat64()}
}

func ToBuyEntryFromRow(row []string) ToBuyEntry {
	qty, _ := ParseQuantity(cell(row, 2))
	price, _ := ParsePrice(cell(row, 4))
	status, ok := ParseStatus(cell(row, 5))
	if !ok {
		status = StatusPending
	}
	priority, _ := ParsePriority(cell(row, 6))
	return ToBuyEntry{
		ID:       strings.TrimSpace(cell(row, 0)),
		Name:     cell(row, 1),
		Quantity: qty,
		Location: cell(row, 3),
		Price:    price,
		Status:   status,
		Priority: priority,
	}
}
