package bunstore

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/uptrace/bun/driver/pgdriver"
)

// isNoRows returns true when err indicates no rows were found.
func isNoRows(err error) bool {
	return errors.Is(err, sql.ErrNoRows)
}

// describe adds the SQLSTATE meaning for PostgreSQL errors an operator can
// act on. Other drivers' errors pass through.
func describe(err error) error {
	var pgErr pgdriver.Error
	if !errors.As(err, &pgErr) {
		return err
	}
	switch pgErr.Field('C') {
	case "42P01":
		return fmt.Errorf("table does not exist: %w", err)
	case "42703":
		return fmt.Errorf("column does not exist: %w", err)
	case "42501":
		return fmt.Errorf("permission denied: %w", err)
	}
	return err
}
