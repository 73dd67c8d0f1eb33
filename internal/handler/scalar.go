package handler

import (
	"bytes"
	"encoding/json"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/dukerupert/homestock/internal/apperr"
	"github.com/dukerupert/homestock/internal/model"
)

// scalar is a JSON value that may arrive as a string, a number or null.
// Front ends send quantities both ways, so coercion happens afterwards.
type scalar string

var _ json.Unmarshaler = (*scalar)(nil)

func (s *scalar) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	switch {
	case bytes.Equal(b, []byte("null")):
		*s = ""
	case len(b) > 0 && b[0] == '"':
		var str string
		if err := json.Unmarshal(b, &str); err != nil {
			return err
		}
		*s = scalar(str)
	case bytes.Equal(b, []byte("true")), bytes.Equal(b, []byte("false")):
		*s = scalar(b)
	default:
		var n json.Number
		if err := json.Unmarshal(b, &n); err != nil {
			return err
		}
		*s = scalar(n.String())
	}
	return nil
}

func (s scalar) String() string { return strings.TrimSpace(string(s)) }

func (s scalar) IsEmpty() bool { return s.String() == "" }

// Int coerces s, naming field in the error.
func (s scalar) Int(field string) (int, error) {
	n, err := model.ParseQuantity(s.String())
	if err != nil {
		return 0, apperr.Validation("%s must be a whole number", field)
	}
	return n, nil
}

// IntOr is Int with a default for an empty value.
func (s scalar) IntOr(field string, def int) (int, error) {
	if s.IsEmpty() {
		return def, nil
	}
	return s.Int(field)
}

// PriceOr coerces s to a decimal, treating empty as def.
func (s scalar) PriceOr(field string, def decimal.Decimal) (decimal.Decimal, error) {
	if s.IsEmpty() {
		return def, nil
	}
	d, err := model.ParsePrice(s.String())
	if err != nil {
		return decimal.Zero, apperr.Validation("%s must be a number", field)
	}
	return d, nil
}

// Date normalizes s to the sheet date layout.
func (s scalar) Date(field string) (string, error) {
	d, err := model.NormalizeDate(s.String())
	if err != nil {
		return "", apperr.Validation("%s must be a date (DD-MM-YYYY)", field)
	}
	return d, nil
}

func rowCell(row []scalar, i int) scalar {
	if i < len(row) {
		return row[i]
	}
	return ""
}

// pendingLabels are the location placeholders older clients send.
var pendingLabels = map[string]bool{"待定": true, model.LocationPending: true}

func location(s scalar) string {
	if pendingLabels[strings.ToLower(s.String())] {
		return model.LocationPending
	}
	return s.String()
}
