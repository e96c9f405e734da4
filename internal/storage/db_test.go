package storage

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/claude/liftlog/internal/models"
)

// TestClassifyErrUndefinedTable verifies that a missing relation maps to the
// store-uninitialized sentinel so the gateway's provisioning retry fires.
func TestClassifyErrUndefinedTable(t *testing.T) {
	pgErr := &pgconn.PgError{
		Code:    pgerrcode.UndefinedTable,
		Message: `relation "exercises" does not exist`,
	}
	got := classifyErr(fmt.Errorf("querying exercises: %w", pgErr))
	if !errors.Is(got, models.ErrStoreUninitialized) {
		t.Errorf("classifyErr = %v, want ErrStoreUninitialized", got)
	}
}

// TestClassifyErrNoRows verifies the not-found mapping.
func TestClassifyErrNoRows(t *testing.T) {
	got := classifyErr(fmt.Errorf("querying exercise: %w", pgx.ErrNoRows))
	if !errors.Is(got, models.ErrNotFound) {
		t.Errorf("classifyErr = %v, want ErrNotFound", got)
	}
}

// TestClassifyErrPassthrough verifies other store errors are not remapped.
func TestClassifyErrPassthrough(t *testing.T) {
	pgErr := &pgconn.PgError{Code: pgerrcode.UniqueViolation, Message: "duplicate key"}
	got := classifyErr(pgErr)
	if errors.Is(got, models.ErrStoreUninitialized) || errors.Is(got, models.ErrNotFound) {
		t.Errorf("classifyErr remapped %v", got)
	}
	if got == nil {
		t.Fatal("classifyErr = nil, want error")
	}

	if classifyErr(nil) != nil {
		t.Error("classifyErr(nil) should be nil")
	}
}
