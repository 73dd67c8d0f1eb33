package model

import "strings"

// CategoryNotFound is logged when an item name has no catalog entry.
const CategoryNotFound = "N/A"

var CatalogHeader = []string{"CategoryID", "Category", "Name"}

// CatalogEntry is one row of the read-only GoodsID sheet.
type CatalogEntry struct {
	CategoryID string `json:"categoryId"`
	Category   string `json:"category"`
	Name       string `json:"name"`
}

func CatalogEntryFromRow(row []string) CatalogEntry {
	return CatalogEntry{
		CategoryID: strings.TrimSpace(cell(row, 0)),
		Category:   strings.TrimSpace(cell(row, 1)),
		Name:       strings.TrimSpace(cell(row, 2)),
	}
}

var LocationHeader = []string{"Location"}
