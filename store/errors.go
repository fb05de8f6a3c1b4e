package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/lib/pq"
	"github.com/mattn/go-sqlite3"
	"github.com/rustyeddy/funds/fund"
)

// ErrVersionMismatch is wrapped by UpdateAccount and DeleteAccount when
// another writer got there first.
var ErrVersionMismatch = fmt.Errorf("version mismatch: %w: %w", fund.ErrConflict, fund.ErrRetryable)

var retryablePG = map[pq.ErrorCode]bool{
	"40001": true, // serialization_failure
	"40P01": true, // deadlock_detected
	"55P03": true, // lock_not_available
	"57014": true, // query_canceled (statement_timeout)
}

// mapErr translates driver errors into fund sentinels.
func mapErr(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%w: %w", fund.ErrRetryable, err)
	}

	var se sqlite3.Error
	if errors.As(err, &se) {
		switch {
		case se.Code == sqlite3.ErrBusy, se.Code == sqlite3.ErrLocked:
			return fmt.Errorf("%w: %w", fund.ErrRetryable, err)
		case se.ExtendedCode == sqlite3.ErrConstraintUnique, se.ExtendedCode == sqlite3.ErrConstraintPrimaryKey:
			return fmt.Errorf("%w: %w", fund.ErrConflict, err)
		}
		return err
	}

	var pe *pq.Error
	if errors.As(err, &pe) {
		if retryablePG[pe.Code] {
			return fmt.Errorf("%w: %w", fund.ErrRetryable, err)
		}
		if pe.Code == "23505" { // unique_violation
			return fmt.Errorf("%w: %w", fund.ErrConflict, err)
		}
	}
	return err
}
