package database

import (
	"path/filepath"
	"testing"
)

func TestOpenRunsMigrations(t *testing.T) {
	db, err := Open(":memory:")
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	if _, err := db.Exec(`INSERT INTO cells (sheet, row_num, col_num, value) VALUES ('ToBuyList', 2, 1, 'B00001')`); err != nil {
		t.Fatalf("insert into cells: %v", err)
	}
	var value string
	if err := db.QueryRow(`SELECT value FROM cells WHERE sheet = 'ToBuyList' AND row_num = 2 AND col_num = 1`).Scan(&value); err != nil {
		t.Fatalf("select: %v", err)
	}
	if value != "B00001" {
		t.Errorf("value = %q", value)
	}
}

func TestOpenRejectsInvalidCoordinates(t *testing.T) {
	db, err := Open(":memory:")
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	if _, err := db.Exec(`INSERT INTO cells (sheet, row_num, col_num, value) VALUES ('ToBuyList', 0, 1, 'x')`); err == nil {
		t.Error("expected CHECK constraint failure for row 0")
	}
}

func TestOpenFileIsIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "homestock.db")
	for i := 0; i < 2; i++ {
		db, err := Open(path)
		if err != nil {
			t.Fatalf("open #%d: %v", i+1, err)
		}
		db.Close()
	}
}
