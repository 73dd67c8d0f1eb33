package store

import (
	"context"
	"strings"
	"time"

	"github.com/dukerupert/homestock/internal/apperr"
	"github.com/dukerupert/homestock/internal/model"
	"github.com/dukerupert/homestock/internal/sheet"
)

// ActionLogStore appends to the ActionLog sheet. Rows are never changed.
type ActionLogStore struct {
	s       sheet.Store
	catalog *CatalogStore
	loc     *time.Location
	now     func() time.Time
}

func NewActionLogStore(s sheet.Store, catalog *CatalogStore, loc *time.Location) *ActionLogStore {
	if loc == nil {
		loc = time.UTC
	}
	return &ActionLogStore{s: s, catalog: catalog, loc: loc, now: time.Now}
}

// Append fills in a missing timestamp and, for shopping actions without a
// category ID, resolves it from the catalog. A catalog miss is recorded as
// model.CategoryNotFound rather than failing the append.
func (st *ActionLogStore) Append(ctx context.Context, e model.LogEntry) (model.LogEntry, error) {
	e.Action = strings.TrimSpace(e.Action)
	e.ItemName = strings.TrimSpace(e.ItemName)
	if e.Action == "" || e.ItemName == "" {
		return model.LogEntry{}, apperr.Validation("action and itemName are required")
	}
	if strings.TrimSpace(e.Timestamp) == "" {
		e.Timestamp = model.FormatTimestamp(st.now(), st.loc)
	}
	if e.IsShopping() && strings.TrimSpace(e.CategoryID) == "" {
		id, err := st.catalog.CategoryID(ctx, e.ItemName)
		if err != nil {
			return model.LogEntry{}, err
		}
		e.CategoryID = id
	}
	if err := st.s.Append(ctx, actionLogRange, [][]any{e.Row()}); err != nil {
		return model.LogEntry{}, storeErr("append action log", err)
	}
	return e, nil
}

func (st *ActionLogStore) List(ctx context.Context) ([]model.LogEntry, error) {
	rows, err := st.s.Get(ctx, actionLogRange)
	if err != nil {
		return nil, storeErr("read action log", err)
	}
	entries := make([]model.LogEntry, 0, len(rows))
	for _, row := range rows {
		if len(row) == 0 {
			continue
		}
		entries = append(entries, model.LogEntryFromRow(row))
	}
	return entries, nil
}
