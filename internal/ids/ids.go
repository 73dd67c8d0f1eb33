// Package ids derives the next identifier for a sheet from the last one
// written. Malformed or missing values restart the sequence rather than
// failing; nothing here guards against two writers picking the same ID.
package ids

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

const (
	FirstInventoryID = "000001"
	FirstShoppingID  = "B00001"
)

var (
	inventoryPattern = regexp.MustCompile(`^\d+$`)
	shoppingPattern  = regexp.MustCompile(`^B(\d{5})$`)
)

// NextInventoryID returns last+1 as a six-digit zero-padded decimal.
func NextInventoryID(last string) string {
	last = strings.TrimSpace(last)
	if !inventoryPattern.MatchString(last) {
		return FirstInventoryID
	}
	n, err := strconv.ParseInt(last, 10, 64)
	if err != nil {
		return FirstInventoryID
	}
	return fmt.Sprintf("%06d", n+1)
}

// NextShoppingID returns "B" followed by the incremented five-digit suffix.
func NextShoppingID(last string) string {
	m := shoppingPattern.FindStringSubmatch(strings.TrimSpace(last))
	if m == nil {
		return FirstShoppingID
	}
	n, _ := strconv.Atoi(m[1])
	return fmt.Sprintf("B%05d", n+1)
}

// LastID returns the first cell of the last row whose first cell is not blank.
func LastID(rows [][]string) string {
	for i := len(rows) - 1; i >= 0; i-- {
		if len(rows[i]) > 0 && strings.TrimSpace(rows[i][0]) != "" {
			return strings.TrimSpace(rows[i][0])
		}
	}
	return ""
}
