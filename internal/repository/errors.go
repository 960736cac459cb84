package repository

import (
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
)

// ErrPolicyViolation is returned when a row-level security policy rejects a write.
var ErrPolicyViolation = errors.New("security policy violation")

const sqlStateInsufficientPrivilege = "42501"

func translateError(err error) error {
	if err == nil {
		return nil
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == sqlStateInsufficientPrivilege {
		return fmt.Errorf("%w: %s", ErrPolicyViolation, pgErr.Message)
	}
	return err
}
