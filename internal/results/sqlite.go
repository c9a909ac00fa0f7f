package results

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	_ "modernc.org/sqlite" // SQLite driver
)

// ExportSQLite writes the combined dataset into a `results` table so the
// comparison data can be queried directly. Any existing table is replaced.
func ExportSQLite(ctx context.Context, dbPath string, d *Dataset) error {
	if len(d.Header) == 0 {
		return fmt.Errorf("export sqlite: empty dataset")
	}

	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(WAL)")
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer db.Close()
	db.SetMaxOpenConns(1) // SQLite works best with a single writer

	cols := make([]string, len(d.Header))
	placeholders := make([]string, len(d.Header))
	for i, name := range d.Header {
		cols[i] = fmt.Sprintf("%q TEXT", name)
		placeholders[i] = "?"
	}

	if _, err := db.ExecContext(ctx, `DROP TABLE IF EXISTS results`); err != nil {
		return fmt.Errorf("drop table: %w", err)
	}
	create := fmt.Sprintf("CREATE TABLE results (%s)", strings.Join(cols, ", "))
	if _, err := db.ExecContext(ctx, create); err != nil {
		return fmt.Errorf("create table: %w", err)
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	insert := fmt.Sprintf("INSERT INTO results VALUES (%s)", strings.Join(placeholders, ", "))
	stmt, err := tx.PrepareContext(ctx, insert)
	if err != nil {
		tx.Rollback()
		return fmt.Errorf("prepare insert: %w", err)
	}
	defer stmt.Close()

	for _, row := range d.Rows {
		args := make([]any, len(row))
		for i, v := range row {
			args[i] = v
		}
		if _, err := stmt.ExecContext(ctx, args...); err != nil {
			tx.Rollback()
			return fmt.Errorf("insert row: %w", err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}
