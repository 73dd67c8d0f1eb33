package store

import (
	"context"
	"strings"

	"github.com/dukerupert/homestock/internal/model"
	"github.com/dukerupert/homestock/internal/sheet"
)

// CatalogStore reads the GoodsID and Location vocabularies. Neither sheet
// is written by this service.
type CatalogStore struct {
	s sheet.Store
}

func NewCatalogStore(s sheet.Store) *CatalogStore {
	return &CatalogStore{s: s}
}

func (st *CatalogStore) Goods(ctx context.Context) ([]model.CatalogEntry, error) {
	rows, err := st.s.Get(ctx, catalogRange)
	if err != nil {
		return nil, storeErr("read goods catalog", err)
	}
	entries := make([]model.CatalogEntry, 0, len(rows))
	for _, row := range rows {
		if len(row) == 0 {
			continue
		}
		entries = append(entries, model.CatalogEntryFromRow(row))
	}
	return entries, nil
}

// Lookup finds the first entry whose trimmed name equals the trimmed name.
func (st *CatalogStore) Lookup(ctx context.Context, name string) (model.CatalogEntry, bool, error) {
	name = strings.TrimSpace(name)
	entries, err := st.Goods(ctx)
	if err != nil {
		return model.CatalogEntry{}, false, err
	}
	for _, e := range entries {
		if e.Name == name {
			return e, true, nil
		}
	}
	return model.CatalogEntry{}, false, nil
}

// CategoryID returns the category ID for name, or model.CategoryNotFound.
func (st *CatalogStore) CategoryID(ctx context.Context, name string) (string, error) {
	e, ok, err := st.Lookup(ctx, name)
	if err != nil {
		return "", err
	}
	if !ok {
		return model.CategoryNotFound, nil
	}
	return e.CategoryID, nil
}

// Locations returns the distinct non-empty suggestions in sheet order.
func (st *CatalogStore) Locations(ctx context.Context) ([]string, error) {
	rows, err := st.s.Get(ctx, locationRange)
	if err != nil {
		return nil, storeErr("read locations", err)
	}
	seen := make(map[string]bool, len(rows))
	locations := make([]string, 0, len(rows))
	for _, row := range rows {
		if len(row) == 0 {
			continue
		}
		loc := strings.TrimSpace(row[0])
		if loc == "" || seen[loc] {
			continue
		}
		seen[loc] = true
		locations = append(locations, loc)
	}
	return locations, nil
}
