package postgres

import (
	"errors"
	"fmt"

	"github.com/lib/pq"

	"rideshare/internal/repository"
)

const foreignKeyViolation pq.ErrorCode = "23503"

// mapError translates driver errors into repository errors.
func mapError(err error) error {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == foreignKeyViolation {
		return fmt.Errorf("%w: %s", repository.ErrConflict, pqErr.Constraint)
	}
	return err
}

// expectOneRow returns ErrNotFound when an UPDATE or DELETE touched nothing.
func expectOneRow(result interface{ RowsAffected() (int64, error) }) error {
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		return repository.ErrNotFound
	}
	return nil
}
