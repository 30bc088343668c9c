package aggregates

import (
	"context"
	"errors"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"

	"github.com/shopscribe/shopscribe-backend/internal/domain/pos"
)

var (
	// ErrValidation indicates caller input validation failure.
	ErrValidation = errors.New("aggregate validation")
	// ErrInvariant indicates invariant rule violation.
	ErrInvariant = errors.New("aggregate invariant violation")
	// ErrConflict indicates optimistic/concurrency conflict.
	ErrConflict = errors.New("aggregate conflict")
	// ErrRetryable indicates transient retryable failure.
	ErrRetryable = errors.New("aggregate retryable")
)

// ValidationError tags an error as validation failure.
func ValidationError(msg string) error {
	return errors.Join(ErrValidation, errors.New(strings.TrimSpace(msg)))
}

// InvariantError tags an error as invariant violation.
func InvariantError(msg string) error {
	return errors.Join(ErrInvariant, errors.New(strings.TrimSpace(msg)))
}

// ConflictError tags an error as conflict failure.
func ConflictError(msg string) error {
	return errors.Join(ErrConflict, errors.New(strings.TrimSpace(msg)))
}

// RetryableError tags an error as retryable failure.
func RetryableError(msg string) error {
	return errors.Join(ErrRetryable, errors.New(strings.TrimSpace(msg)))
}

// MapError maps infrastructure failures into domain error codes. Typed domain
// errors (insufficient_stock, empty_cart, ...) pass through untouched.
func MapError(op string, err error) error {
	if err == nil {
		return nil
	}
	if _, ok := err.(*pos.Error); ok {
		return err
	}
	var posErr *pos.Error
	if errors.As(err, &posErr) {
		return err
	}
	switch {
	case errors.Is(err, ErrValidation):
		return pos.Wrap(pos.CodeValidation, op, err)
	case errors.Is(err, ErrInvariant):
		return pos.Wrap(pos.CodeConflict, op, err)
	case errors.Is(err, ErrConflict):
		return pos.Wrap(pos.CodeConflict, op, err)
	case errors.Is(err, ErrRetryable):
		return pos.Wrap(pos.CodeRetryable, op, err)
	case errors.Is(err, gorm.ErrRecordNotFound):
		return pos.Wrap(pos.CodeNotFound, op, err)
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return pos.Wrap(pos.CodeRetryable, op, err)
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch strings.TrimSpace(pgErr.Code) {
		case "23505":
			return pos.Wrap(pos.CodeConflict, op, err) // unique_violation
		case "23503":
			return pos.Wrap(pos.CodeValidation, op, err) // foreign_key_violation
		case "40001", "40P01", "55P03":
			return pos.Wrap(pos.CodeRetryable, op, err) // serialization/deadlock/lock_not_available
		}
	}

	msg := strings.ToLower(strings.TrimSpace(err.Error()))
	switch {
	case strings.Contains(msg, "duplicate key"), strings.Contains(msg, "already exists"):
		return pos.Wrap(pos.CodeConflict, op, err)
	case strings.Contains(msg, "deadlock"),
		strings.Contains(msg, "serialization"),
		strings.Contains(msg, "timeout"),
		strings.Contains(msg, "temporar"):
		return pos.Wrap(pos.CodeRetryable, op, err)
	default:
		return pos.Wrap(pos.CodeInternal, op, err)
	}
}
