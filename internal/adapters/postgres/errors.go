package postgres_adapter

import (
	"errors"
	"fmt"
	"landmark-service/internal/core/domain"

	"github.com/jackc/pgx/v5/pgconn"
)

const uniqueViolation = "23505"

// storeError wraps a driver error. Anything that is not a server-side error means the
// database could not be reached and is reported as domain.ErrStoreUnavailable.
func storeError(op string, err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return fmt.Errorf("%s: %w", op, err)
	}
	return fmt.Errorf("%s: %w: %v", op, domain.ErrStoreUnavailable, err)
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolation
}
