// Package backup copies every sheet into an encrypted workbook and uploads
// it to S3-compatible storage.
package backup

import (
	"context"
	"fmt"

	"github.com/xuri/excelize/v2"
	"golang.org/x/sync/errgroup"

	"github.com/dukerupert/homestock/internal/sheet"
)

// maxParallelReads bounds concurrent range reads against the source.
const maxParallelReads = 4

// Snapshot reads the data rows of each layout from src and returns them as
// an .xlsx workbook with the same sheet names, headers and row positions.
func Snapshot(ctx context.Context, src sheet.Store, layouts []sheet.Layout) ([]byte, error) {
	data := make([][][]string, len(layouts))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxParallelReads)
	for i, l := range layouts {
		r := sheet.Columns(l.Name, "A", sheet.ColumnName(len(l.Header)), 2)
		g.Go(func() error {
			rows, err := src.Get(gctx, r)
			if err != nil {
				return fmt.Errorf("read %s: %w", r, err)
			}
			data[i] = rows
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	out := sheet.NewXLSXStore(excelize.NewFile(), "")
	defer out.Close()
	if err := out.EnsureSheets(layouts); err != nil {
		return nil, err
	}
	for i, l := range layouts {
		if len(data[i]) == 0 {
			continue
		}
		rows := make([][]any, len(data[i]))
		for j, row := range data[i] {
			rows[j] = make([]any, len(row))
			for k, v := range row {
				rows[j][k] = v
			}
		}
		r := sheet.Columns(l.Name, "A", sheet.ColumnName(len(l.Header)), 2)
		if err := out.Update(ctx, r, rows); err != nil {
			return nil, err
		}
	}

	buf, err := out.File().WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("write snapshot: %w", err)
	}
	return buf.Bytes(), nil
}
