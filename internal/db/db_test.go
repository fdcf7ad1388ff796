package db

import (
	"context"
	"database/sql"
	"errors"
	"path/filepath"
	"testing"
)

func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := Open(":memory:")
	if err != nil {
		t.Fatalf("failed to open db: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	_, err = db.Exec(`CREATE TABLE test_table (id INTEGER PRIMARY KEY, value TEXT)`)
	if err != nil {
		t.Fatalf("failed to create table: %v", err)
	}
	return db
}

func count(t *testing.T, db *sql.DB) int {
	t.Helper()
	var n int
	if err := db.QueryRow(`SELECT COUNT(*) FROM test_table`).Scan(&n); err != nil {
		t.Fatalf("query failed: %v", err)
	}
	return n
}

func TestOpen_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "catalog.db")
	db, err := Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer db.Close()

	var mode string
	if err := db.QueryRow(`PRAGMA journal_mode`).Scan(&mode); err != nil {
		t.Fatalf("journal_mode: %v", err)
	}
	if mode != "wal" {
		t.Errorf("journal_mode = %q, want wal", mode)
	}

	var fk int
	if err := db.QueryRow(`PRAGMA foreign_keys`).Scan(&fk); err != nil {
		t.Fatalf("foreign_keys: %v", err)
	}
	if fk != 1 {
		t.Errorf("foreign_keys = %d, want 1", fk)
	}
}

func TestWithTx_Success(t *testing.T) {
	db := setupTestDB(t)

	err := WithTx(context.Background(), db, func(tx *sql.Tx) error {
		_, err := tx.Exec(`INSERT INTO test_table (value) VALUES (?)`, "test")
		return err
	})
	if err != nil {
		t.Fatalf("WithTx failed: %v", err)
	}
	if n := count(t, db); n != 1 {
		t.Errorf("count = %d, want 1", n)
	}
}

func TestWithTx_Rollback(t *testing.T) {
	db := setupTestDB(t)
	testErr := errors.New("test error")

	err := WithTx(context.Background(), db, func(tx *sql.Tx) error {
		if _, err := tx.Exec(`INSERT INTO test_table (value) VALUES (?)`, "a"); err != nil {
			return err
		}
		if _, err := tx.Exec(`INSERT INTO test_table (value) VALUES (?)`, "b"); err != nil {
			return err
		}
		return testErr
	})
	if !errors.Is(err, testErr) {
		t.Fatalf("WithTx error = %v, want %v", err, testErr)
	}
	if n := count(t, db); n != 0 {
		t.Errorf("count = %d, want 0 after rollback", n)
	}
}

func TestWithTx_CanceledContext(t *testing.T) {
	db := setupTestDB(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	called := false
	err := WithTx(ctx, db, func(*sql.Tx) error {
		called = true
		return nil
	})
	if err == nil {
		t.Fatal("WithTx succeeded with a canceled context")
	}
	if called {
		t.Error("fn ran with a canceled context")
	}
}

func TestNullHelpers(t *testing.T) {
	if ns := NullString(""); ns.Valid {
		t.Error("NullString(\"\") is valid")
	}
	if ns := NullString("x"); !ns.Valid || ns.String != "x" {
		t.Errorf("NullString(\"x\") = %+v", ns)
	}
	if got := NullStringValue(sql.NullString{String: "y"}); got != "" {
		t.Errorf("NullStringValue(invalid) = %q, want empty", got)
	}
	if got := NullStringValue(sql.NullString{String: "y", Valid: true}); got != "y" {
		t.Errorf("NullStringValue(valid) = %q, want y", got)
	}
	if got := NullInt64Value(sql.NullInt64{Int64: 7}); got != 0 {
		t.Errorf("NullInt64Value(invalid) = %d, want 0", got)
	}
	if got := NullInt64Value(sql.NullInt64{Int64: -7, Valid: true}); got != -7 {
		t.Errorf("NullInt64Value(valid) = %d, want -7", got)
	}
}
