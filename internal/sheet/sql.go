package sheet

import (
	"context"
	"database/sql"
	"fmt"
)

// SQLStore keeps spreadsheet cells in the "cells" table created by the
// database package's migrations.
type SQLStore struct {
	db *sql.DB
}

func NewSQLStore(db *sql.DB) *SQLStore {
	return &SQLStore{db: db}
}

// EnsureSheets writes each layout's header into row 1 of sheets that have none.
func (s *SQLStore) EnsureSheets(ctx context.Context, layouts []Layout) error {
	for _, l := range layouts {
		var n int
		err := s.db.QueryRowContext(ctx,
			`SELECT COUNT(*) FROM cells WHERE sheet = ? AND row_num = 1`, l.Name,
		).Scan(&n)
		if err != nil {
			return fmt.Errorf("check header %s: %w", l.Name, err)
		}
		if n > 0 {
			continue
		}
		row := make([]any, len(l.Header))
		for i, h := range l.Header {
			row[i] = h
		}
		if err := s.Update(ctx, Range{Sheet: l.Name, StartCol: 1, EndCol: len(row), StartRow: 1, EndRow: 1}, [][]any{row}); err != nil {
			return fmt.Errorf("write header %s: %w", l.Name, err)
		}
	}
	return nil
}

func (s *SQLStore) Get(ctx context.Context, r Range) ([][]string, error) {
	if err := r.validate(); err != nil {
		return nil, err
	}
	endRow := r.EndRow
	if endRow == 0 {
		endRow = int(^uint32(0) >> 1)
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT row_num, col_num, value FROM cells
		 WHERE sheet = ? AND row_num BETWEEN ? AND ? AND col_num BETWEEN ? AND ? AND value <> ''
		 ORDER BY row_num ASC, col_num ASC`,
		r.Sheet, r.StartRow, endRow, r.StartCol, r.EndCol,
	)
	if err != nil {
		return nil, fmt.Errorf("get %s: %w", r, err)
	}
	defer rows.Close()

	var out [][]string
	for rows.Next() {
		var rowNum, colNum int
		var value string
		if err := rows.Scan(&rowNum, &colNum, &value); err != nil {
			return nil, fmt.Errorf("scan cell: %w", err)
		}
		i := rowNum - r.StartRow
		for len(out) <= i {
			out = append(out, nil)
		}
		j := colNum - r.StartCol
		for len(out[i]) <= j {
			out[i] = append(out[i], "")
		}
		out[i][j] = value
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("get %s: %w", r, err)
	}
	return trimRows(out), nil
}

func (s *SQLStore) Append(ctx context.Context, r Range, rows [][]any) error {
	if err := r.validate(); err != nil {
		return err
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	var last int
	err = tx.QueryRowContext(ctx,
		`SELECT COALESCE(MAX(row_num), 0) FROM cells
		 WHERE sheet = ? AND col_num BETWEEN ? AND ? AND value <> ''`,
		r.Sheet, r.StartCol, r.EndCol,
	).Scan(&last)
	if err != nil {
		return fmt.Errorf("append %s: find last row: %w", r, err)
	}
	next := last + 1
	if next < r.StartRow {
		next = r.StartRow
	}
	if err := writeCells(ctx, tx, r.Sheet, r.StartCol, next, rows); err != nil {
		return fmt.Errorf("append %s: %w", r, err)
	}
	return tx.Commit()
}

func (s *SQLStore) Update(ctx context.Context, r Range, rows [][]any) error {
	if err := r.validate(); err != nil {
		return err
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	if err := writeCells(ctx, tx, r.Sheet, r.StartCol, r.StartRow, rows); err != nil {
		return fmt.Errorf("update %s: %w", r, err)
	}
	return tx.Commit()
}

func writeCells(ctx context.Context, tx *sql.Tx, sheetName string, col, row int, rows [][]any) error {
	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO cells (sheet, row_num, col_num, value) VALUES (?, ?, ?, ?)
		 ON CONFLICT (sheet, row_num, col_num) DO UPDATE SET value = excluded.value`,
	)
	if err != nil {
		return fmt.Errorf("prepare: %w", err)
	}
	defer stmt.Close()

	for i, values := range rows {
		for j, v := range values {
			if _, err := stmt.ExecContext(ctx, sheetName, row+i, col+j, CellString(v)); err != nil {
				return fmt.Errorf("write cell: %w", err)
			}
		}
	}
	return nil
}
