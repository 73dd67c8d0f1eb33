// Package store maps the household sheets onto typed records. Every lookup
// reads its range from row 2 down, so a match at index i lives on sheet row
// i+2.
package store

import (
	"context"
	"fmt"
	"strings"

	"github.com/dukerupert/homestock/internal/apperr"
	"github.com/dukerupert/homestock/internal/model"
	"github.com/dukerupert/homestock/internal/sheet"
)

const (
	InventorySheet = "HouseInventory"
	ShoppingSheet  = "ToBuyList"
	CatalogSheet   = "GoodsID"
	ActionLogSheet = "ActionLog"
	LocationSheet  = "Location"
)

// firstDataRow is the sheet row of index 0 in every read below.
const firstDataRow = 2

var (
	inventoryRange = sheet.Columns(InventorySheet, "A", "I", firstDataRow)
	shoppingRange  = sheet.Columns(ShoppingSheet, "A", "G", firstDataRow)
	catalogRange   = sheet.Columns(CatalogSheet, "A", "C", firstDataRow)
	actionLogRange = sheet.Columns(ActionLogSheet, "A", "F", firstDataRow)
	locationRange  = sheet.Columns(LocationSheet, "A", "A", firstDataRow)
)

// Layouts lists every sheet the application expects, with its header row.
func Layouts() []sheet.Layout {
	return []sheet.Layout{
		{Name: InventorySheet, Header: model.InventoryHeader},
		{Name: ShoppingSheet, Header: model.ShoppingHeader},
		{Name: CatalogSheet, Header: model.CatalogHeader},
		{Name: ActionLogSheet, Header: model.ActionLogHeader},
		{Name: LocationSheet, Header: model.LocationHeader},
	}
}

// AllRanges returns the data range of every sheet, for snapshots.
func AllRanges() []sheet.Range {
	return []sheet.Range{inventoryRange, shoppingRange, catalogRange, actionLogRange, locationRange}
}

// rowOf returns the sheet row holding id in rows read from firstDataRow,
// or 0 if there is none.
func rowOf(rows [][]string, id string) int {
	for i, row := range rows {
		if len(row) > 0 && strings.TrimSpace(row[0]) == id {
			return i + firstDataRow
		}
	}
	return 0
}

// locateRow reads only the ID column of sheetName and returns the row
// holding id.
func locateRow(ctx context.Context, s sheet.Store, sheetName, id string) (int, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return 0, apperr.Validation("id is required")
	}
	rows, err := s.Get(ctx, sheet.Columns(sheetName, "A", "A", firstDataRow))
	if err != nil {
		return 0, storeErr(fmt.Sprintf("read %s ids", sheetName), err)
	}
	row := rowOf(rows, id)
	if row == 0 {
		return 0, apperr.NotFound("Item with ID %s not found", id)
	}
	return row, nil
}

// writeAt locates id and writes values into columns from..to of its row.
func writeAt(ctx context.Context, s sheet.Store, sheetName, id, from, to string, values ...any) error {
	row, err := locateRow(ctx, s, sheetName, id)
	if err != nil {
		return err
	}
	r := sheet.Columns(sheetName, from, to, firstDataRow).AtRow(row)
	if err := s.Update(ctx, r, [][]any{values}); err != nil {
		return storeErr("write "+r.A1(), err)
	}
	return nil
}

func storeErr(op string, err error) error {
	return apperr.Store("Server error", fmt.Errorf("%s: %w", op, err))
}
