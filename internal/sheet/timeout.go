package sheet

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// ErrTimeout is returned when a store call exceeds its deadline.
var ErrTimeout = errors.New("spreadsheet request timed out")

// WithTimeout bounds every call on s by d.
func WithTimeout(s Store, d time.Duration) Store {
	if d <= 0 {
		return s
	}
	return &timeoutStore{next: s, d: d}
}

type timeoutStore struct {
	next Store
	d    time.Duration
}

func (t *timeoutStore) Get(ctx context.Context, r Range) ([][]string, error) {
	ctx, cancel := context.WithTimeout(ctx, t.d)
	defer cancel()
	rows, err := t.next.Get(ctx, r)
	return rows, t.wrap(ctx, err)
}

func (t *timeoutStore) Append(ctx context.Context, r Range, rows [][]any) error {
	ctx, cancel := context.WithTimeout(ctx, t.d)
	defer cancel()
	return t.wrap(ctx, t.next.Append(ctx, r, rows))
}

func (t *timeoutStore) Update(ctx context.Context, r Range, rows [][]any) error {
	ctx, cancel := context.WithTimeout(ctx, t.d)
	defer cancel()
	return t.wrap(ctx, t.next.Update(ctx, r, rows))
}

func (t *timeoutStore) wrap(ctx context.Context, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return fmt.Errorf("%w after %s: %v", ErrTimeout, t.d, err)
	}
	return err
}
