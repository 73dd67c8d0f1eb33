package store

import (
	"context"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/dukerupert/homestock/internal/apperr"
	"github.com/dukerupert/homestock/internal/model"
)

// Promotion carries the values confirmed when a bought entry moves into the
// inventory. Empty category fields are resolved from the goods catalog.
type Promotion struct {
	ShoppingID     string
	Quantity       int
	UnitPrice      decimal.Decimal
	Location       string
	CategoryID     string
	Category       string
	PurchaseDate   string
	ExpirationDate string
}

// Promoter turns shopping list entries into inventory rows.
type Promoter struct {
	Inventory *InventoryStore
	Shopping  *ShoppingStore
	Catalog   *CatalogStore
}

// Promote appends an inventory row for the entry and overwrites the entry's
// quantity, location and price with the promoted values. The entry itself
// stays on the list. The two writes are not atomic; if the second fails the
// inventory row remains and the error is returned.
func (p *Promoter) Promote(ctx context.Context, pr Promotion) (model.InventoryItem, error) {
	if pr.Quantity <= 0 {
		return model.InventoryItem{}, apperr.Validation("quantity must be greater than 0")
	}
	if pr.UnitPrice.IsNegative() {
		return model.InventoryItem{}, apperr.Validation("unit price must not be negative")
	}
	entry, err := p.Shopping.Get(ctx, pr.ShoppingID)
	if err != nil {
		return model.InventoryItem{}, err
	}

	categoryID := strings.TrimSpace(pr.CategoryID)
	category := strings.TrimSpace(pr.Category)
	if categoryID == "" || category == "" {
		found, ok, err := p.Catalog.Lookup(ctx, entry.Name)
		if err != nil {
			return model.InventoryItem{}, err
		}
		if !ok {
			return model.InventoryItem{}, apperr.Validation("%s is not in the goods catalog; supply a category", entry.Name)
		}
		if categoryID == "" {
			categoryID = found.CategoryID
		}
		if category == "" {
			category = found.Category
		}
	}

	location := strings.TrimSpace(pr.Location)
	if location == "" {
		location = entry.Location
	}
	item, err := p.Inventory.Add(ctx, model.InventoryItem{
		CategoryID:       categoryID,
		Category:         category,
		Name:             entry.Name,
		Quantity:         pr.Quantity,
		UnitPrice:        pr.UnitPrice,
		PurchaseLocation: location,
		PurchaseDate:     pr.PurchaseDate,
		ExpirationDate:   pr.ExpirationDate,
	})
	if err != nil {
		return model.InventoryItem{}, err
	}
	if err := p.Shopping.SetDetails(ctx, entry.ID, pr.Quantity, location, pr.UnitPrice); err != nil {
		return item, err
	}
	return item, nil
}
