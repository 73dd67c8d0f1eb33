package sheet

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sync"

	"github.com/xuri/excelize/v2"
)

// XLSXStore keeps the spreadsheet in a local .xlsx workbook. Every write is
// saved back to disk unless the store was created without a path.
type XLSXStore struct {
	mu   sync.Mutex
	f    *excelize.File
	path string
}

// OpenXLSX opens path, creating a workbook with the given sheets and header
// rows if it does not exist yet.
func OpenXLSX(path string, layouts []Layout) (*XLSXStore, error) {
	f, err := excelize.OpenFile(path)
	if errors.Is(err, os.ErrNotExist) {
		f = excelize.NewFile()
		err = nil
	}
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	s := NewXLSXStore(f, path)
	if err := s.EnsureSheets(layouts); err != nil {
		return nil, err
	}
	if err := s.save(); err != nil {
		return nil, err
	}
	return s, nil
}

// NewXLSXStore wraps an open workbook. An empty path keeps it in memory.
func NewXLSXStore(f *excelize.File, path string) *XLSXStore {
	return &XLSXStore{f: f, path: path}
}

// File exposes the underlying workbook.
func (s *XLSXStore) File() *excelize.File { return s.f }

func (s *XLSXStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.f.Close()
}

// EnsureSheets creates any missing sheet in layouts with its header row.
func (s *XLSXStore) EnsureSheets(layouts []Layout) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	keepDefault := false
	for _, l := range layouts {
		name, header := l.Name, l.Header
		if name == "Sheet1" {
			keepDefault = true
		}
		idx, err := s.f.GetSheetIndex(name)
		if err != nil {
			return fmt.Errorf("lookup sheet %s: %w", name, err)
		}
		if idx >= 0 {
			continue
		}
		if _, err := s.f.NewSheet(name); err != nil {
			return fmt.Errorf("create sheet %s: %w", name, err)
		}
		row := make([]any, len(header))
		for i, h := range header {
			row[i] = h
		}
		if err := s.f.SetSheetRow(name, "A1", &row); err != nil {
			return fmt.Errorf("write header %s: %w", name, err)
		}
	}
	if idx, _ := s.f.GetSheetIndex("Sheet1"); idx >= 0 && !keepDefault && len(s.f.GetSheetList()) > 1 {
		if err := s.f.DeleteSheet("Sheet1"); err != nil {
			return fmt.Errorf("delete default sheet: %w", err)
		}
	}
	return nil
}

func (s *XLSXStore) Get(ctx context.Context, r Range) ([][]string, error) {
	if err := r.validate(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	all, err := s.f.GetRows(r.Sheet)
	if err != nil {
		return nil, fmt.Errorf("get %s: %w", r, err)
	}
	return slice(all, r), nil
}

func (s *XLSXStore) Append(ctx context.Context, r Range, rows [][]any) error {
	if err := r.validate(); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	all, err := s.f.GetRows(r.Sheet)
	if err != nil {
		return fmt.Errorf("append %s: %w", r, err)
	}
	next := lastDataRow(all, r) + 1
	if next < r.StartRow {
		next = r.StartRow
	}
	if err := s.writeRows(r.Sheet, r.StartCol, next, rows); err != nil {
		return fmt.Errorf("append %s: %w", r, err)
	}
	return s.save()
}

func (s *XLSXStore) Update(ctx context.Context, r Range, rows [][]any) error {
	if err := r.validate(); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if idx, err := s.f.GetSheetIndex(r.Sheet); err != nil || idx < 0 {
		return fmt.Errorf("update %s: sheet does not exist", r)
	}
	if err := s.writeRows(r.Sheet, r.StartCol, r.StartRow, rows); err != nil {
		return fmt.Errorf("update %s: %w", r, err)
	}
	return s.save()
}

func (s *XLSXStore) writeRows(sheetName string, col, row int, rows [][]any) error {
	for i, values := range rows {
		cell, err := excelize.CoordinatesToCellName(col, row+i)
		if err != nil {
			return err
		}
		vals := values
		if err := s.f.SetSheetRow(sheetName, cell, &vals); err != nil {
			return err
		}
	}
	return nil
}

func (s *XLSXStore) save() error {
	if s.path == "" {
		return nil
	}
	if err := s.f.SaveAs(s.path); err != nil {
		return fmt.Errorf("save workbook: %w", err)
	}
	return nil
}

// slice cuts the addressed block out of a full-sheet row dump.
func slice(all [][]string, r Range) [][]string {
	var out [][]string
	for i := r.StartRow - 1; i < len(all); i++ {
		if r.EndRow != 0 && i >= r.EndRow {
			break
		}
		row := all[i]
		var cells []string
		for c := r.StartCol - 1; c < r.EndCol && c < len(row); c++ {
			cells = append(cells, row[c])
		}
		out = append(out, cells)
	}
	return trimRows(out)
}

// lastDataRow returns the 1-based index of the last row holding a value in
// r's columns, or 0.
func lastDataRow(all [][]string, r Range) int {
	for i := len(all) - 1; i >= 0; i-- {
		row := all[i]
		for c := r.StartCol - 1; c < r.EndCol && c < len(row); c++ {
			if row[c] != "" {
				return i + 1
			}
		}
	}
	return 0
}
