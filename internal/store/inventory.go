package store

import (
	"context"
	"strings"

	"github.com/dukerupert/homestock/internal/apperr"
	"github.com/dukerupert/homestock/internal/ids"
	"github.com/dukerupert/homestock/internal/model"
	"github.com/dukerupert/homestock/internal/sheet"
)

type InventoryStore struct {
	s sheet.Store
}

func NewInventoryStore(s sheet.Store) *InventoryStore {
	return &InventoryStore{s: s}
}

func (st *InventoryStore) List(ctx context.Context) ([]model.InventoryItem, error) {
	rows, err := st.s.Get(ctx, inventoryRange)
	if err != nil {
		return nil, storeErr("read inventory", err)
	}
	items := make([]model.InventoryItem, 0, len(rows))
	for _, row := range rows {
		if len(row) == 0 {
			continue
		}
		items = append(items, model.InventoryItemFromRow(row))
	}
	return items, nil
}

// Get returns the item with id, or a not-found error.
func (st *InventoryStore) Get(ctx context.Context, id string) (*model.InventoryItem, error) {
	id = strings.TrimSpace(id)
	rows, err := st.s.Get(ctx, inventoryRange)
	if err != nil {
		return nil, storeErr("read inventory", err)
	}
	row := rowOf(rows, id)
	if row == 0 {
		return nil, apperr.NotFound("Item with ID %s not found", id)
	}
	item := model.InventoryItemFromRow(rows[row-firstDataRow])
	return &item, nil
}

// NextID returns the ID the next appended item should use.
func (st *InventoryStore) NextID(ctx context.Context) (string, error) {
	rows, err := st.s.Get(ctx, sheet.Columns(InventorySheet, "A", "A", firstDataRow))
	if err != nil {
		return "", storeErr("read inventory ids", err)
	}
	return ids.NextInventoryID(ids.LastID(rows)), nil
}

// Add appends item. An empty ID is allocated here; a supplied one is
// written as given.
func (st *InventoryStore) Add(ctx context.Context, item model.InventoryItem) (model.InventoryItem, error) {
	if err := validateInventory(item); err != nil {
		return model.InventoryItem{}, err
	}
	item.ID = strings.TrimSpace(item.ID)
	if item.ID == "" {
		next, err := st.NextID(ctx)
		if err != nil {
			return model.InventoryItem{}, err
		}
		item.ID = next
	}
	if strings.TrimSpace(item.PurchaseLocation) == "" {
		item.PurchaseLocation = model.LocationPending
	}
	if err := st.s.Append(ctx, inventoryRange, [][]any{item.Row()}); err != nil {
		return model.InventoryItem{}, storeErr("append inventory", err)
	}
	return item, nil
}

func validateInventory(item model.InventoryItem) error {
	switch {
	case strings.TrimSpace(item.CategoryID) == "" || strings.TrimSpace(item.Category) == "" || strings.TrimSpace(item.Name) == "":
		return apperr.Validation("category, category ID and name are required")
	case item.Quantity <= 0:
		return apperr.Validation("quantity must be greater than 0")
	case item.UnitPrice.IsNegative():
		return apperr.Validation("unit price must not be negative")
	}
	return nil
}

// SetQuantity overwrites the quantity cell (column E) of id.
func (st *InventoryStore) SetQuantity(ctx context.Context, id string, quantity int) error {
	if quantity < 0 {
		return apperr.Validation("quantity must not be negative")
	}
	return writeAt(ctx, st.s, InventorySheet, id, "E", "E", quantity)
}

// Consume subtracts amount from id's quantity and returns what is left.
// It refuses to go below zero and writes nothing in that case.
func (st *InventoryStore) Consume(ctx context.Context, id string, amount int) (int, error) {
	if amount <= 0 {
		return 0, apperr.Validation("amount must be greater than 0")
	}
	id = strings.TrimSpace(id)
	if id == "" {
		return 0, apperr.Validation("id is required")
	}
	rows, err := st.s.Get(ctx, inventoryRange)
	if err != nil {
		return 0, storeErr("read inventory", err)
	}
	row := rowOf(rows, id)
	if row == 0 {
		return 0, apperr.NotFound("Item with ID %s not found", id)
	}
	current := model.InventoryItemFromRow(rows[row-firstDataRow]).Quantity
	if amount > current {
		return current, apperr.Validation("cannot consume %d of %s, only %d left", amount, id, current)
	}
	remaining := current - amount
	r := sheet.Cell(InventorySheet, "E", row)
	if err := st.s.Update(ctx, r, [][]any{{remaining}}); err != nil {
		return current, storeErr("write "+r.A1(), err)
	}
	return remaining, nil
}
