package ids

import (
	"fmt"
	"testing"
)

func TestNextInventoryID(t *testing.T) {
	tests := []struct {
		last string
		want string
	}{
		{"", FirstInventoryID},
		{"000001", "000002"},
		{"000009", "000010"},
		{"000999", "001000"},
		{" 000041 ", "000042"},
		{"42", "000043"},
		{"ID", FirstInventoryID},
		{"B00003", FirstInventoryID},
		{"12a", FirstInventoryID},
		{"999999", "1000000"},
	}
	for _, tt := range tests {
		if got := NextInventoryID(tt.last); got != tt.want {
			t.Errorf("NextInventoryID(%q) = %q, want %q", tt.last, got, tt.want)
		}
	}
}

func TestNextInventoryIDSequence(t *testing.T) {
	for n := 0; n < 2000; n += 37 {
		last := fmt.Sprintf("%06d", n)
		want := fmt.Sprintf("%06d", n+1)
		if got := NextInventoryID(last); got != want {
			t.Fatalf("NextInventoryID(%q) = %q, want %q", last, got, want)
		}
	}
}

func TestNextShoppingID(t *testing.T) {
	tests := []struct {
		last string
		want string
	}{
		{"", FirstShoppingID},
		{"B00001", "B00002"},
		{"B00042", "B00043"},
		{"B00099", "B00100"},
		{"b00042", FirstShoppingID},
		{"B0042", FirstShoppingID},
		{"000042", FirstShoppingID},
		{"B000042", FirstShoppingID},
	}
	for _, tt := range tests {
		if got := NextShoppingID(tt.last); got != tt.want {
			t.Errorf("NextShoppingID(%q) = %q, want %q", tt.last, got, tt.want)
		}
	}
}

func TestLastID(t *testing.T) {
	rows := [][]string{{"000001", "x"}, {"000002"}, {}, {"  "}}
	if got := LastID(rows); got != "000002" {
		t.Errorf("LastID = %q, want 000002", got)
	}
	if got := LastID(nil); got != "" {
		t.Errorf("LastID(nil) = %q", got)
	}
}
