// Package view holds front-end state for the shopping list and inventory
// screens. Changes are applied locally first, then sent; a failed request
// puts the old value back.
package view

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/dukerupert/homestock/internal/client"
	"github.com/dukerupert/homestock/internal/model"
)

type Phase int

const (
	Applied Phase = iota
	Confirmed
	RolledBack
)

func (p Phase) String() string {
	switch p {
	case Applied:
		return "applied"
	case Confirmed:
		return "confirmed"
	case RolledBack:
		return "rolled_back"
	}
	return fmt.Sprintf("Phase(%d)", int(p))
}

// Transition records one optimistic change from From to To.
type Transition struct {
	ID    string
	Field string
	From  any
	To    any
	Phase Phase
	// Message is the server's message for a rolled back change.
	Message string
}

// API is the subset of *client.Client the views call.
type API interface {
	ToBuy(ctx context.Context) ([]model.ToBuyEntry, error)
	UpdateStatus(ctx context.Context, id string, status model.Status) error
	UpdateEntryQuantity(ctx context.Context, id string, quantity int) error
	Inventory(ctx context.Context) ([]model.InventoryItem, error)
	UpdateQuantity(ctx context.Context, id string, quantity int) error
	Consume(ctx context.Context, id string, amount int) (int, error)
	LogAction(ctx context.Context, e model.LogEntry) (model.LogEntry, error)
}

var _ API = (*client.Client)(nil)

var ErrUnknownItem = errors.New("item not loaded")

// messageOf extracts what to show the user for a failed request.
func messageOf(err error) string {
	var apiErr *client.Error
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message
	}
	return "Network error, change not saved"
}

// logAction appends to the action log without affecting the change it
// describes.
func logAction(ctx context.Context, api API, logger *slog.Logger, e model.LogEntry) {
	if _, err := api.LogAction(ctx, e); err != nil {
		logger.Warn("action log append failed", "action", e.Action, "item", e.ItemName, "error", err)
	}
}
