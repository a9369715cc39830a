package postgres

import (
	"errors"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"fakturo/internal/core/apperror"
)

// pg error codes we translate to business errors.
const (
	pgUniqueViolation      = "23505"
	pgForeignKeyViolation  = "23503"
	pgSerializationFailure = "40001"
	pgDeadlockDetected     = "40P01"
)

// Builder returns a squirrel builder with PostgreSQL placeholders.
func Builder() squirrel.StatementBuilderType {
	return squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
}

// TranslateError maps low-level pgx errors to AppError. Not-found stays the
// repository's responsibility since it knows the entity name.
func TranslateError(err error, entityName string) error {
	if err == nil {
		return nil
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgUniqueViolation:
			return apperror.NewDuplicate(entityName, pgErr.ConstraintName, "").WithCause(err)
		case pgForeignKeyViolation:
			return apperror.NewReferentialConflict(entityName, "operation violates a reference").WithCause(err)
		case pgSerializationFailure, pgDeadlockDetected:
			// Retryable: surfaces as 409 so callers (and the payment engine's
			// bounded retry) treat it like a lost optimistic-lock race.
			return apperror.NewConcurrencyConflict(entityName, nil).WithCause(err)
		}
	}

	if errors.Is(err, pgx.ErrNoRows) {
		return apperror.NewNotFound(entityName, nil).WithCause(err)
	}

	return apperror.NewInternal(err)
}
