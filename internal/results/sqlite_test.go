package results

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"

	_ "modernc.org/sqlite"
)

func TestExportSQLite(t *testing.T) {
	d := &Dataset{
		Header: []string{"step", "position.x", "numAlive", "scenario"},
		Rows: [][]string{
			{"0", "0", "5", "baseline"},
			{"0", "1", "4", "baseline"},
			{"0", "0", "2", "fire_only"},
		},
		Scenarios: 2,
	}

	dbPath := filepath.Join(t.TempDir(), "results.db")
	if err := ExportSQLite(context.Background(), dbPath, d); err != nil {
		t.Fatalf("export: %v", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer db.Close()

	var count int
	if err := db.QueryRow(`SELECT COUNT(*) FROM results`).Scan(&count); err != nil {
		t.Fatalf("count: %v", err)
	}
	if count != 3 {
		t.Fatalf("rows = %d, want 3", count)
	}

	var alive string
	err = db.QueryRow(`SELECT "numAlive" FROM results WHERE scenario = 'fire_only'`).Scan(&alive)
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	if alive != "2" {
		t.Fatalf("numAlive = %q, want 2", alive)
	}
}

func TestExportSQLiteReplacesExistingTable(t *testing.T) {
	d := &Dataset{
		Header: []string{"step", "scenario"},
		Rows:   [][]string{{"0", "baseline"}},
	}
	dbPath := filepath.Join(t.TempDir(), "results.db")

	if err := ExportSQLite(context.Background(), dbPath, d); err != nil {
		t.Fatalf("first export: %v", err)
	}
	d.Rows = append(d.Rows, []string{"1", "baseline"})
	if err := ExportSQLite(context.Background(), dbPath, d); err != nil {
		t.Fatalf("second export: %v", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		t.Fatal(err)
	}
	defer db.Close()
	var count int
	if err := db.QueryRow(`SELECT COUNT(*) FROM results`).Scan(&count); err != nil {
		t.Fatal(err)
	}
	if count != 2 {
		t.Fatalf("rows = %d after re-export, want 2", count)
	}
}

func TestExportSQLiteEmptyDataset(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "results.db")
	if err := ExportSQLite(context.Background(), dbPath, &Dataset{}); err == nil {
		t.Fatal("expected error for empty dataset")
	}
}
