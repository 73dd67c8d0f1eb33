package view

import (
	"context"
	"log/slog"
	"strconv"
	"sync"

	"github.com/dukerupert/homestock/internal/model"
)

// ShoppingList is the state behind the to-buy screen.
type ShoppingList struct {
	mu      sync.Mutex
	api     API
	logger  *slog.Logger
	entries []model.ToBuyEntry
	notice  string
}

func NewShoppingList(api API, logger *slog.Logger) *ShoppingList {
	if logger == nil {
		logger = slog.Default()
	}
	return &ShoppingList{api: api, logger: logger.With("component", "shopping_view")}
}

func (v *ShoppingList) Load(ctx context.Context) error {
	entries, err := v.api.ToBuy(ctx)
	if err != nil {
		return err
	}
	v.mu.Lock()
	v.entries = entries
	v.mu.Unlock()
	return nil
}

// Entries returns a copy of the current state.
func (v *ShoppingList) Entries() []model.ToBuyEntry {
	v.mu.Lock()
	defer v.mu.Unlock()
	return append([]model.ToBuyEntry(nil), v.entries...)
}

// Notice is the last failure message shown to the user.
func (v *ShoppingList) Notice() string {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.notice
}

// mutate applies fn to the entry with id under the lock and returns a copy
// of the entry as it was before.
func (v *ShoppingList) mutate(id string, fn func(*model.ToBuyEntry)) (model.ToBuyEntry, bool) {
	v.mu.Lock()
	defer v.mu.Unlock()
	for i := range v.entries {
		if v.entries[i].ID == id {
			prev := v.entries[i]
			fn(&v.entries[i])
			return prev, true
		}
	}
	return model.ToBuyEntry{}, false
}

func (v *ShoppingList) fail(msg string) {
	v.mu.Lock()
	v.notice = msg
	v.mu.Unlock()
}

// Toggle flips the checkbox of id between pending and bought.
func (v *ShoppingList) Toggle(ctx context.Context, id string) (Transition, error) {
	var to model.Status
	prev, ok := v.mutate(id, func(e *model.ToBuyEntry) {
		to = e.Status.Toggle()
		e.Status = to
	})
	if !ok {
		return Transition{}, ErrUnknownItem
	}
	tr := Transition{ID: id, Field: "status", From: prev.Status, To: to, Phase: Applied}

	if err := v.api.UpdateStatus(ctx, id, to); err != nil {
		v.mutate(id, func(e *model.ToBuyEntry) { e.Status = prev.Status })
		tr.Phase = RolledBack
		tr.Message = messageOf(err)
		v.fail(tr.Message)
		return tr, err
	}
	tr.Phase = Confirmed

	logAction(ctx, v.api, v.logger, model.LogEntry{
		Action:   "toggle " + model.ShoppingMarker,
		ItemName: prev.Name,
		Quantity: strconv.Itoa(prev.Quantity),
		Result:   string(to),
	})
	return tr, nil
}

// SetQuantity changes the wanted quantity of id.
func (v *ShoppingList) SetQuantity(ctx context.Context, id string, quantity int) (Transition, error) {
	prev, ok := v.mutate(id, func(e *model.ToBuyEntry) { e.Quantity = quantity })
	if !ok {
		return Transition{}, ErrUnknownItem
	}
	tr := Transition{ID: id, Field: "quantity", From: prev.Quantity, To: quantity, Phase: Applied}

	if err := v.api.UpdateEntryQuantity(ctx, id, quantity); err != nil {
		v.mutate(id, func(e *model.ToBuyEntry) { e.Quantity = prev.Quantity })
		tr.Phase = RolledBack
		tr.Message = messageOf(err)
		v.fail(tr.Message)
		return tr, err
	}
	tr.Phase = Confirmed
	return tr, nil
}
