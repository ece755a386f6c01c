package database

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
)

func TestUniqueViolation(t *testing.T) {
	err := fmt.Errorf("insert user: %w", &pgconn.PgError{
		Code:           pgerrcode.UniqueViolation,
		ConstraintName: "users_phone_active_key",
	})

	name, ok := UniqueViolation(err)
	if !ok || name != "users_phone_active_key" {
		t.Fatalf("got %q %v", name, ok)
	}

	if _, ok := UniqueViolation(errors.New("boom")); ok {
		t.Error("plain error reported as unique violation")
	}
	if _, ok := UniqueViolation(&pgconn.PgError{Code: pgerrcode.ForeignKeyViolation}); ok {
		t.Error("fk violation reported as unique violation")
	}
}

func TestForeignKeyViolation(t *testing.T) {
	if !ForeignKeyViolation(&pgconn.PgError{Code: pgerrcode.ForeignKeyViolation}) {
		t.Error("fk violation not detected")
	}
	if ForeignKeyViolation(nil) {
		t.Error("nil detected as fk violation")
	}
}

func TestMigrateURL(t *testing.T) {
	cases := map[string]string{
		"postgres://u:p@localhost:5432/food?sslmode=disable":   "pgx5://u:p@localhost:5432/food?sslmode=disable",
		"postgresql://u:p@localhost:5432/food?sslmode=disable": "pgx5://u:p@localhost:5432/food?sslmode=disable",
		"pgx5://u@db/food": "pgx5://u@db/food",
	}
	for in, want := range cases {
		got, err := migrateURL(in)
		if err != nil {
			t.Fatalf("%s: %v", in, err)
		}
		if got != want {
			t.Errorf("%s: got %s, want %s", in, got, want)
		}
	}

	if _, err := migrateURL("host=localhost dbname=food"); err == nil {
		t.Error("keyword DSN accepted")
	}
}
