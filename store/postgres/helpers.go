package postgres

import (
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
)

// splitQualified splits "schema.table" into its parts.
func splitQualified(name string) []string {
	return strings.Split(name, ".")
}

// describe adds the SQLSTATE meaning for errors an operator can act on.
func describe(err error) error {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return err
	}
	switch pgErr.Code {
	case "42P01":
		return fmt.Errorf("table does not exist: %w", err)
	case "42703":
		return fmt.Errorf("column does not exist: %w", err)
	case "42501":
		return fmt.Errorf("permission denied: %w", err)
	}
	return err
}
