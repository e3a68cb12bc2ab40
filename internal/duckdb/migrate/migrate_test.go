package migrate

import (
	"context"
	"database/sql"
	"testing"

	_ "github.com/duckdb/duckdb-go/v2"
)

func openTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("duckdb", "")
	if err != nil {
		t.Fatalf("sql.Open: %v", err)
	}
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { db.Close() })
	return db
}

func TestRunAppliesAllMigrations(t *testing.T) {
	ctx := context.Background()
	r := NewRunner(openTestDB(t))

	if err := r.Run(ctx); err != nil {
		t.Fatalf("Run: %v", err)
	}
	v, err := r.Version(ctx)
	if err != nil {
		t.Fatalf("Version: %v", err)
	}
	if want := Migrations[len(Migrations)-1].Version; v != want {
		t.Errorf("Version = %d, want %d", v, want)
	}
}

func TestRunIsIdempotent(t *testing.T) {
	ctx := context.Background()
	db := openTestDB(t)

	if err := NewRunner(db).Run(ctx); err != nil {
		t.Fatalf("first Run: %v", err)
	}
	if err := NewRunner(db).Run(ctx); err != nil {
		t.Fatalf("second Run: %v", err)
	}

	var n int
	if err := db.QueryRow("SELECT COUNT(*) FROM schema_migrations").Scan(&n); err != nil {
		t.Fatalf("count: %v", err)
	}
	if n != len(Migrations) {
		t.Errorf("schema_migrations rows = %d, want %d", n, len(Migrations))
	}
}

func TestRunStopsOnBadMigration(t *testing.T) {
	ctx := context.Background()
	db := openTestDB(t)
	r := NewRunner(db,
		Migration{1, "ok", "CREATE TABLE a (x INTEGER)"},
		Migration{2, "broken", "CREATE TABLE"},
	)

	if err := r.Run(ctx); err == nil {
		t.Fatal("Run with a broken migration returned nil")
	}
	v, err := r.Version(ctx)
	if err != nil {
		t.Fatalf("Version: %v", err)
	}
	if v != 1 {
		t.Errorf("Version = %d, want 1", v)
	}
}
