package client

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/dukerupert/homestock/internal/model"
	"github.com/dukerupert/homestock/internal/server"
	"github.com/dukerupert/homestock/internal/sheet/sheettest"
	"github.com/dukerupert/homestock/internal/store"
)

func setupClient(t *testing.T) *Client {
	t.Helper()
	src := sheettest.New(t, store.Layouts()...)
	s := server.New(src, server.Options{Timezone: time.UTC}, slog.New(slog.NewTextHandler(io.Discard, nil)))
	srv := httptest.NewServer(s.Router())
	t.Cleanup(func() {
		s.Hub().Close()
		srv.Close()
	})
	return New(srv.URL, srv.Client())
}

func TestInventoryFlow(t *testing.T) {
	ctx := context.Background()
	c := setupClient(t)

	item, err := c.AddInventory(ctx, model.InventoryItem{
		CategoryID: "C1", Category: "Food", Name: "Rice", Quantity: 3,
		UnitPrice: decimal.RequireFromString("15.5"),
	})
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	if item.ID != "000001" {
		t.Errorf("id = %q", item.ID)
	}

	left, err := c.Consume(ctx, item.ID, 2)
	if err != nil {
		t.Fatalf("consume: %v", err)
	}
	if left != 1 {
		t.Errorf("left = %d, want 1", left)
	}

	_, err = c.Consume(ctx, item.ID, 2)
	var apiErr *Error
	if !errors.As(err, &apiErr) || apiErr.Status != http.StatusBadRequest {
		t.Errorf("over-consume err = %v", err)
	}

	if err := c.UpdateQuantity(ctx, "000099", 1); !IsNotFound(err) {
		t.Errorf("err = %v, want not found", err)
	}

	items, err := c.Inventory(ctx)
	if err != nil {
		t.Fatalf("inventory: %v", err)
	}
	if len(items) != 1 || items[0].Quantity != 1 {
		t.Errorf("items = %+v", items)
	}
}

func TestShoppingFlow(t *testing.T) {
	ctx := context.Background()
	c := setupClient(t)

	entry, err := c.AddToBuy(ctx, NewEntry{Name: "Milk"})
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	if entry.ID != "B00001" || entry.Quantity != 1 {
		t.Errorf("entry = %+v", entry)
	}
	if err := c.UpdateStatus(ctx, entry.ID, model.StatusBought); err != nil {
		t.Fatalf("status: %v", err)
	}
	if err := c.UpdatePriority(ctx, entry.ID, model.PriorityHigh); err != nil {
		t.Fatalf("priority: %v", err)
	}
	if err := c.UpdateDetails(ctx, entry.ID, 2, "Market", decimal.RequireFromString("1.25")); err != nil {
		t.Fatalf("details: %v", err)
	}

	item, err := c.Promote(ctx, Promotion{ID: entry.ID, Quantity: 2, UnitPrice: decimal.RequireFromString("1.25"), CategoryID: "C3", Category: "Dairy"})
	if err != nil {
		t.Fatalf("promote: %v", err)
	}
	if item.Name != "Milk" || item.PurchaseLocation != "Market" {
		t.Errorf("item = %+v", item)
	}

	entries, err := c.ToBuy(ctx)
	if err != nil {
		t.Fatalf("to-buy: %v", err)
	}
	if len(entries) != 1 || entries[0].Status != model.StatusBought || entries[0].Priority != model.PriorityHigh {
		t.Errorf("entries = %+v", entries)
	}

	logged, err := c.LogAction(ctx, model.LogEntry{Action: "toggle " + model.ShoppingMarker, ItemName: "Milk", Quantity: "2", Result: "bought"})
	if err != nil {
		t.Fatalf("log: %v", err)
	}
	if logged.CategoryID != model.CategoryNotFound {
		t.Errorf("category = %q", logged.CategoryID)
	}

	ids, err := c.NextIDs(ctx)
	if err != nil {
		t.Fatalf("next ids: %v", err)
	}
	if ids.Inventory != "000002" || ids.Shopping != "B00002" {
		t.Errorf("ids = %+v", ids)
	}
}

func TestTransportError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL
	srv.Close()

	err := New(url, nil).UpdateStatus(context.Background(), "B00001", model.StatusBought)
	if err == nil {
		t.Fatal("expected error")
	}
	var apiErr *Error
	if errors.As(err, &apiErr) {
		t.Errorf("transport failure reported as envelope: %v", err)
	}
}
