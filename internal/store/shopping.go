package store

import (
	"context"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/dukerupert/homestock/internal/apperr"
	"github.com/dukerupert/homestock/internal/ids"
	"github.com/dukerupert/homestock/internal/model"
	"github.com/dukerupert/homestock/internal/sheet"
)

// ShoppingStore manages the ToBuyList sheet.
type ShoppingStore struct {
	s sheet.Store
}

func NewShoppingStore(s sheet.Store) *ShoppingStore {
	return &ShoppingStore{s: s}
}

func (st *ShoppingStore) List(ctx context.Context) ([]model.ToBuyEntry, error) {
	rows, err := st.s.Get(ctx, shoppingRange)
	if err != nil {
		return nil, storeErr("read shopping list", err)
	}
	entries := make([]model.ToBuyEntry, 0, len(rows))
	for _, row := range rows {
		if len(row) == 0 {
			continue
		}
		entries = append(entries, model.ToBuyEntryFromRow(row))
	}
	return entries, nil
}

func (st *ShoppingStore) Get(ctx context.Context, id string) (*model.ToBuyEntry, error) {
	id = strings.TrimSpace(id)
	rows, err := st.s.Get(ctx, shoppingRange)
	if err != nil {
		return nil, storeErr("read shopping list", err)
	}
	row := rowOf(rows, id)
	if row == 0 {
		return nil, apperr.NotFound("Item with ID %s not found", id)
	}
	entry := model.ToBuyEntryFromRow(rows[row-firstDataRow])
	return &entry, nil
}

func (st *ShoppingStore) NextID(ctx context.Context) (string, error) {
	rows, err := st.s.Get(ctx, sheet.Columns(ShoppingSheet, "A", "A", firstDataRow))
	if err != nil {
		return "", storeErr("read shopping ids", err)
	}
	return ids.NextShoppingID(ids.LastID(rows)), nil
}

// Add appends a new pending entry. Quantity defaults to 1, location to the
// pending sentinel and price to 0. An empty ID is allocated.
func (st *ShoppingStore) Add(ctx context.Context, e model.ToBuyEntry) (model.ToBuyEntry, error) {
	e.Name = strings.TrimSpace(e.Name)
	if e.Name == "" {
		return model.ToBuyEntry{}, apperr.Validation("name is required")
	}
	if e.Quantity < 0 {
		return model.ToBuyEntry{}, apperr.Validation("quantity must be greater than 0")
	}
	if e.Quantity == 0 {
		e.Quantity = 1
	}
	if e.Price.IsNegative() {
		return model.ToBuyEntry{}, apperr.Validation("price must not be negative")
	}
	e.Location = locationOrPending(e.Location)
	e.Status = model.StatusPending

	e.ID = strings.TrimSpace(e.ID)
	if e.ID == "" {
		next, err := st.NextID(ctx)
		if err != nil {
			return model.ToBuyEntry{}, err
		}
		e.ID = next
	}
	if err := st.s.Append(ctx, shoppingRange, [][]any{e.Row()}); err != nil {
		return model.ToBuyEntry{}, storeErr("append shopping list", err)
	}
	return e, nil
}

// SetStatus writes column F. Writing the current status again succeeds.
func (st *ShoppingStore) SetStatus(ctx context.Context, id string, status model.Status) error {
	if _, ok := model.ParseStatus(string(status)); !ok {
		return apperr.Validation("status must be pending or bought")
	}
	return writeAt(ctx, st.s, ShoppingSheet, id, "F", "F", string(status))
}

func (st *ShoppingStore) SetPriority(ctx context.Context, id string, p model.Priority) error {
	if _, ok := model.ParsePriority(string(p)); !ok {
		return apperr.Validation("priority must be high, medium, low or empty")
	}
	return writeAt(ctx, st.s, ShoppingSheet, id, "G", "G", string(p))
}

func (st *ShoppingStore) SetQuantity(ctx context.Context, id string, quantity int) error {
	if quantity <= 0 {
		return apperr.Validation("quantity must be greater than 0")
	}
	return writeAt(ctx, st.s, ShoppingSheet, id, "C", "C", quantity)
}

func (st *ShoppingStore) SetLocation(ctx context.Context, id, location string) error {
	return writeAt(ctx, st.s, ShoppingSheet, id, "D", "D", locationOrPending(location))
}

// SetDetails writes quantity, location and price as one C:E range.
func (st *ShoppingStore) SetDetails(ctx context.Context, id string, quantity int, location string, price decimal.Decimal) error {
	if quantity <= 0 {
		return apperr.Validation("quantity must be greater than 0")
	}
	if price.IsNegative() {
		return apperr.Validation("price must not be negative")
	}
	e := model.ToBuyEntry{Quantity: quantity, Location: locationOrPending(location), Price: price}
	return writeAt(ctx, st.s, ShoppingSheet, id, "C", "E", e.Details()...)
}

func locationOrPending(loc string) string {
	loc = strings.TrimSpace(loc)
	if loc == "" {
		return model.LocationPending
	}
	return loc
}
