package services

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

// Typed service errors, mapped to HTTP statuses in one place by the handlers.

type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string { return "validation failed" }

type NotFoundError struct {
	Resource string
}

func (e *NotFoundError) Error() string { return e.Resource + " not found" }

type ConflictError struct {
	Message string
}

func (e *ConflictError) Error() string { return e.Message }

type UnauthorizedError struct {
	Message string
}

func (e *UnauthorizedError) Error() string { return e.Message }

type ForbiddenError struct {
	Message string
}

func (e *ForbiddenError) Error() string { return e.Message }

// isUniqueViolation reports whether err is a postgres unique constraint
// violation (SQLSTATE 23505), so services can surface a ConflictError
// instead of a bare 500.
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
