package apperr

import (
	"errors"
	"fmt"
	"net/http"
	"testing"
)

func TestHTTPStatus(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"validation", Validation("name is required"), http.StatusBadRequest},
		{"not found", NotFound("item %s not found", "000001"), http.StatusNotFound},
		{"store", Store("read sheet", errors.New("quota exceeded")), http.StatusInternalServerError},
		{"plain", errors.New("boom"), http.StatusInternalServerError},
		{"wrapped", fmt.Errorf("update status: %w", NotFound("missing")), http.StatusNotFound},
	}
	for _, tt := range tests {
		if got := HTTPStatus(tt.err); got != tt.want {
			t.Errorf("%s: HTTPStatus = %d, want %d", tt.name, got, tt.want)
		}
	}
}

func TestMessageAndDetail(t *testing.T) {
	cause := errors.New("googleapi: Error 403: forbidden")
	err := fmt.Errorf("append row: %w", Store("Server error", cause))

	if got := Message(err); got != "Server error" {
		t.Errorf("Message = %q", got)
	}
	if got := Detail(err); got != cause.Error() {
		t.Errorf("Detail = %q, want %q", got, cause.Error())
	}
	if !errors.Is(err, cause) {
		t.Error("store error should unwrap to its cause")
	}

	if got := Detail(Validation("bad")); got != "" {
		t.Errorf("Detail of validation = %q, want empty", got)
	}
	if got := Detail(errors.New("raw")); got != "raw" {
		t.Errorf("Detail of plain error = %q", got)
	}
}

func TestPredicates(t *testing.T) {
	if !IsNotFound(NotFound("x")) {
		t.Error("IsNotFound")
	}
	if !IsValidation(fmt.Errorf("wrap: %w", Validation("x"))) {
		t.Error("IsValidation through wrap")
	}
	if IsNotFound(Validation("x")) {
		t.Error("validation is not not-found")
	}
}
