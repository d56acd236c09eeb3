package sqlite

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/rpggio/retroboard/internal/repository"
)

func isForeignKeyViolation(err error) bool {
	if err == nil {
		return false
	}
	return strings.Contains(err.Error(), "FOREIGN KEY constraint failed")
}

func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}

// writeError maps constraint failures to repository errors.
func writeError(op string, err error) error {
	switch {
	case isUniqueViolation(err):
		return fmt.Errorf("failed to %s: %w", op, repository.ErrConflict)
	case isForeignKeyViolation(err):
		return fmt.Errorf("failed to %s: %w", op, repository.ErrForeignKeyViolation)
	}
	return fmt.Errorf("failed to %s: %w", op, err)
}

// readError maps a missing row to repository.ErrNotFound.
func readError(op string, err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return repository.ErrNotFound
	}
	return fmt.Errorf("failed to %s: %w", op, err)
}

// requireAffected returns repository.ErrNotFound when no row was changed.
func requireAffected(op string, result sql.Result) error {
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to %s: %w", op, err)
	}
	if n == 0 {
		return repository.ErrNotFound
	}
	return nil
}
