package model

import (
	"strings"

	"github.com/shopspring/decimal"
)

// LocationPending is written when a purchase location is not known yet.
const LocationPending = "pending"

// InventoryHeader is the header row of the HouseInventory sheet.
var InventoryHeader = []string{
	"ID", "CategoryID", "Category", "Name", "Quantity", "UnitPrice",
	"PurchaseLocation", "PurchaseDate", "ExpirationDate",
}

// InventoryItem is one row of HouseInventory (columns A through I).
type InventoryItem struct {
	ID               string          `json:"id"`
	CategoryID       string          `json:"categoryId"`
	Category         string          `json:"category"`
	Name             string          `json:"name"`
	Quantity         int             `json:"quantity"`
	UnitPrice        decimal.Decimal `json:"unitPrice"`
	PurchaseLocation string          `json:"purchaseLocation"`
	PurchaseDate     string          `json:"purchaseDate"`
	ExpirationDate   string          `json:"expirationDate"`
}

// Row encodes the item in sheet column order.
func (i InventoryItem) Row() []any {
	return []any{
		i.ID,
		i.CategoryID,
		i.Category,
		i.Name,
		i.Quantity,
		i.UnitPrice.InexactFloat64(),
		i.PurchaseLocation,
		i.PurchaseDate,
		i.ExpirationDate,
	}
}

// InventoryItemFromRow decodes a HouseInventory row. Unparseable numbers
// decode as zero so one bad cell does not hide the rest of the sheet.
func InventoryItemFromRow(row []string) InventoryItem {
	qty, _ := ParseQuantity(cell(row, 4))
	price, _ := ParsePrice(cell(row, 5))
	return InventoryItem{
		ID:               strings.TrimSpace(cell(row, 0)),
		CategoryID:       cell(row, 1),
		Category:         cell(row, 2),
		Name:             cell(row, 3),
		Quantity:         qty,
		UnitPrice:        price,
		PurchaseLocation: cell(row, 6),
		PurchaseDate:     cell(row, 7),
		ExpirationDate:   cell(row, 8),
	}
}

func cell(row []string, i int) string {
	if i < len(row) {
		return row[i]
	}
	return ""
}
