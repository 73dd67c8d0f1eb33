// Package sheettest provides spreadsheet stores for tests.
package sheettest

import (
	"context"
	"sync"
	"testing"

	"github.com/dukerupert/homestock/internal/database"
	"github.com/dukerupert/homestock/internal/sheet"
)

// New returns an in-memory SQLite-backed store with the given sheets created.
func New(t *testing.T, layouts ...sheet.Layout) *sheet.SQLStore {
	t.Helper()
	db, err := database.Open(":memory:")
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	s := sheet.NewSQLStore(db)
	if err := s.EnsureSheets(context.Background(), layouts); err != nil {
		t.Fatalf("create sheets: %v", err)
	}
	return s
}

// Recorder wraps a store, counting writes and optionally failing them.
type Recorder struct {
	sheet.Store

	mu        sync.Mutex
	GetErr    error
	AppendErr error
	UpdateErr error
	Appends   []sheet.Range
	Updates   []sheet.Range
}

func NewRecorder(s sheet.Store) *Recorder {
	return &Recorder{Store: s}
}

func (r *Recorder) Get(ctx context.Context, rng sheet.Range) ([][]string, error) {
	r.mu.Lock()
	err := r.GetErr
	r.mu.Unlock()
	if err != nil {
		return nil, err
	}
	return r.Store.Get(ctx, rng)
}

func (r *Recorder) Append(ctx context.Context, rng sheet.Range, rows [][]any) error {
	r.mu.Lock()
	err := r.AppendErr
	if err == nil {
		r.Appends = append(r.Appends, rng)
	}
	r.mu.Unlock()
	if err != nil {
		return err
	}
	return r.Store.Append(ctx, rng, rows)
}

func (r *Recorder) Update(ctx context.Context, rng sheet.Range, rows [][]any) error {
	r.mu.Lock()
	err := r.UpdateErr
	if err == nil {
		r.Updates = append(r.Updates, rng)
	}
	r.mu.Unlock()
	if err != nil {
		return err
	}
	return r.Store.Update(ctx, rng, rows)
}

// Writes returns the number of successful appends and updates.
func (r *Recorder) Writes() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.Appends) + len(r.Updates)
}

// FailUpdates makes every later Update return err (nil clears it).
func (r *Recorder) FailUpdates(err error) {
	r.mu.Lock()
	r.UpdateErr = err
	r.mu.Unlock()
}
