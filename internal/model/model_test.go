package model

import (
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func TestInventoryRowRoundTrip(t *testing.T) {
	item := InventoryItem{
		ID:               "000007",
		CategoryID:       "C1",
		Category:         "Food",
		Name:             "Rice",
		Quantity:         2,
		UnitPrice:        decimal.RequireFromString("15.5"),
		PurchaseLocation: "StoreA",
		PurchaseDate:     "01-01-2025",
		ExpirationDate:   "01-01-2026",
	}

	row := item.Row()
	if len(row) != len(InventoryHeader) {
		t.Fatalf("row has %d columns, header has %d", len(row), len(InventoryHeader))
	}
	if row[4] != 2 {
		t.Errorf("quantity column = %v, want 2", row[4])
	}

	cells := []string{"000007", "C1", "Food", "Rice", "2", "15.5", "StoreA", "01-01-2025", "01-01-2026"}
	got := InventoryItemFromRow(cells)
	if !got.UnitPrice.Equal(item.UnitPrice) {
		t.Errorf("price = %s, want %s", got.UnitPrice, item.UnitPrice)
	}
	got.UnitPrice = item.UnitPrice
	if got != item {
		t.Errorf("decoded = %+v, want %+v", got, item)
	}
}

func TestInventoryFromShortRow(t *testing.T) {
	got := InventoryItemFromRow([]string{" 000003 ", "C2", "Drinks", "Tea", "abc"})
	if got.ID != "000003" {
		t.Errorf("id = %q", got.ID)
	}
	if got.Quantity != 0 {
		t.Errorf("quantity = %d, want 0 for malformed cell", got.Quantity)
	}
	if !got.UnitPrice.IsZero() || got.ExpirationDate != "" {
		t.Errorf("missing cells should decode empty: %+v", got)
	}
}

func TestToBuyEntryFromRow(t *testing.T) {
	got := ToBuyEntryFromRow([]string{"B00001", "Milk", "2", "pending", "0", "已買", "high"})
	if got.Status != StatusBought {
		t.Errorf("status = %q, want bought", got.Status)
	}
	if got.Priority != PriorityHigh {
		t.Errorf("priority = %q", got.Priority)
	}
	if got.PriceLabel() != LocationPending {
		t.Errorf("price label = %q, want pending", got.PriceLabel())
	}

	empty := ToBuyEntryFromRow([]string{"B00002", "Eggs"})
	if empty.Status != StatusPending {
		t.Errorf("missing status should default to pending, got %q", empty.Status)
	}

	priced := ToBuyEntry{Price: decimal.RequireFromString("3.25")}
	if priced.PriceLabel() != "$3.25" {
		t.Errorf("price label = %q", priced.PriceLabel())
	}
}

func TestStatusToggle(t *testing.T) {
	if StatusPending.Toggle() != StatusBought {
		t.Error("pending should toggle to bought")
	}
	if StatusBought.Toggle() != StatusPending {
		t.Error("bought should toggle to pending")
	}
}

func TestParseStatusAndPriority(t *testing.T) {
	if _, ok := ParseStatus("done"); ok {
		t.Error("done is not a status")
	}
	if s, ok := ParseStatus(" Bought "); !ok || s != StatusBought {
		t.Errorf("ParseStatus(Bought) = %q, %v", s, ok)
	}
	if p, ok := ParsePriority(""); !ok || p != PriorityNone {
		t.Errorf("empty priority should be unset, got %q %v", p, ok)
	}
	if _, ok := ParsePriority("urgent"); ok {
		t.Error("urgent is not a priority")
	}
}

func TestParseQuantity(t *testing.T) {
	tests := []struct {
		input   string
		want    int
		wantErr bool
	}{
		{"3", 3, false},
		{" 12 ", 12, false},
		{"2.0", 2, false},
		{"-1", -1, false},
		{"2.5", 0, true},
		{"NaN", 0, true},
		{"", 0, true},
		{"two", 0, true},
	}
	for _, tt := range tests {
		got, err := ParseQuantity(tt.input)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseQuantity(%q) err = %v, wantErr %v", tt.input, err, tt.wantErr)
			continue
		}
		if err != nil && !errors.Is(err, ErrNotNumber) {
			t.Errorf("ParseQuantity(%q) err = %v, want ErrNotNumber", tt.input, err)
		}
		if got != tt.want {
			t.Errorf("ParseQuantity(%q) = %d, want %d", tt.input, got, tt.want)
		}
	}
}

func TestParsePrice(t *testing.T) {
	d, err := ParsePrice("$15.50")
	if err != nil || !d.Equal(decimal.RequireFromString("15.5")) {
		t.Errorf("ParsePrice($15.50) = %s, %v", d, err)
	}
	if _, err := ParsePrice("cheap"); !errors.Is(err, ErrNotNumber) {
		t.Errorf("expected ErrNotNumber, got %v", err)
	}
}

func TestNormalizeDate(t *testing.T) {
	tests := []struct {
		input   string
		want    string
		wantErr bool
	}{
		{"", "", false},
		{"01-01-2025", "01-01-2025", false},
		{"2025-03-09", "09-03-2025", false},
		{"31-02-2025", "", true},
		{"tomorrow", "", true},
	}
	for _, tt := range tests {
		got, err := NormalizeDate(tt.input)
		if (err != nil) != tt.wantErr {
			t.Errorf("NormalizeDate(%q) err = %v", tt.input, err)
		}
		if got != tt.want {
			t.Errorf("NormalizeDate(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestLogEntry(t *testing.T) {
	e := LogEntry{Action: "Mark bought (shopping)", ItemName: "Milk", Quantity: "1", Result: "bought"}
	if !e.IsShopping() {
		t.Error("expected shopping action")
	}
	row := e.Row()
	if row[4] != 1 {
		t.Errorf("quantity column = %v, want numeric 1", row[4])
	}
	if row[5] != "bought" {
		t.Errorf("result column = %v", row[5])
	}

	loc := time.FixedZone("HKT", 8*3600)
	ts := FormatTimestamp(time.Date(2025, 3, 9, 7, 5, 3, 0, time.UTC), loc)
	if ts != "09-03-2025 03:05:03 PM" {
		t.Errorf("timestamp = %q", ts)
	}
}
