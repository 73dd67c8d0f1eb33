package view

import (
	"context"
	"log/slog"
	"strconv"
	"sync"

	"github.com/dukerupert/homestock/internal/apperr"
	"github.com/dukerupert/homestock/internal/model"
)

// Inventory is the state behind the household inventory screen.
type Inventory struct {
	mu     sync.Mutex
	api    API
	logger *slog.Logger
	items  []model.InventoryItem
	notice string
}

func NewInventory(api API, logger *slog.Logger) *Inventory {
	if logger == nil {
		logger = slog.Default()
	}
	return &Inventory{api: api, logger: logger.With("component", "inventory_view")}
}

func (v *Inventory) Load(ctx context.Context) error {
	items, err := v.api.Inventory(ctx)
	if err != nil {
		return err
	}
	v.mu.Lock()
	v.items = items
	v.mu.Unlock()
	return nil
}

func (v *Inventory) Items() []model.InventoryItem {
	v.mu.Lock()
	defer v.mu.Unlock()
	return append([]model.InventoryItem(nil), v.items...)
}

func (v *Inventory) Notice() string {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.notice
}

func (v *Inventory) setQuantity(id string, check func(current int) error, next func(current int) int) (model.InventoryItem, error) {
	v.mu.Lock()
	defer v.mu.Unlock()
	for i := range v.items {
		if v.items[i].ID != id {
			continue
		}
		prev := v.items[i]
		if check != nil {
			if err := check(prev.Quantity); err != nil {
				return prev, err
			}
		}
		v.items[i].Quantity = next(prev.Quantity)
		return prev, nil
	}
	return model.InventoryItem{}, ErrUnknownItem
}

func (v *Inventory) restore(id string, quantity int, msg string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	for i := range v.items {
		if v.items[i].ID == id {
			v.items[i].Quantity = quantity
		}
	}
	if msg != "" {
		v.notice = msg
	}
}

// Consume takes amount away from id. Amounts above the loaded quantity are
// refused without a request.
func (v *Inventory) Consume(ctx context.Context, id string, amount int) (Transition, error) {
	prev, err := v.setQuantity(id,
		func(cur int) error {
			if amount <= 0 || amount > cur {
				return apperr.Validation("cannot consume %d, only %d left", amount, cur)
			}
			return nil
		},
		func(cur int) int { return cur - amount },
	)
	if err != nil {
		return Transition{}, err
	}
	tr := Transition{ID: id, Field: "quantity", From: prev.Quantity, To: prev.Quantity - amount, Phase: Applied}

	left, err := v.api.Consume(ctx, id, amount)
	if err != nil {
		tr.Phase = RolledBack
		tr.Message = messageOf(err)
		v.restore(id, prev.Quantity, tr.Message)
		return tr, err
	}
	if left != tr.To {
		// Another writer got there first; take the server's value.
		v.restore(id, left, "")
		tr.To = left
	}
	tr.Phase = Confirmed

	logAction(ctx, v.api, v.logger, model.LogEntry{
		Action:     "consume",
		CategoryID: prev.CategoryID,
		ItemName:   prev.Name,
		Quantity:   strconv.Itoa(amount),
		Result:     strconv.Itoa(left),
	})
	return tr, nil
}

// SetQuantity overwrites the quantity of id.
func (v *Inventory) SetQuantity(ctx context.Context, id string, quantity int) (Transition, error) {
	prev, err := v.setQuantity(id,
		func(int) error {
			if quantity < 0 {
				return apperr.Validation("quantity must not be negative")
			}
			return nil
		},
		func(int) int { return quantity },
	)
	if err != nil {
		return Transition{}, err
	}
	tr := Transition{ID: id, Field: "quantity", From: prev.Quantity, To: quantity, Phase: Applied}

	if err := v.api.UpdateQuantity(ctx, id, quantity); err != nil {
		tr.Phase = RolledBack
		tr.Message = messageOf(err)
		v.restore(id, prev.Quantity, tr.Message)
		return tr, err
	}
	tr.Phase = Confirmed

	logAction(ctx, v.api, v.logger, model.LogEntry{
		Action:     "update",
		CategoryID: prev.CategoryID,
		ItemName:   prev.Name,
		Quantity:   strconv.Itoa(quantity - prev.Quantity),
		Result:     strconv.Itoa(quantity),
	})
	return tr, nil
}
