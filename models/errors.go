package models

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"fmt"
	"net"

	"github.com/go-sql-driver/mysql"
	"github.com/lib/pq"
	"github.com/mattn/go-sqlite3"
	"gorm.io/gorm"
)

var (
	// ErrProductNotFound is returned when a product is not found.
	ErrProductNotFound = errors.New("product not found")

	// ErrCategoryNotFound is returned when a write references a category
	// that does not exist (foreign key violation).
	ErrCategoryNotFound = errors.New("category not found")

	// ErrStorageUnavailable marks failures that may succeed on a later
	// attempt: lost connections, timeouts, lock contention.
	ErrStorageUnavailable = errors.New("storage unavailable")
)

// StoreError wraps a storage failure with the operation that caused it.
// Kind is one of the sentinel errors above, or nil for unclassified failures.
type StoreError struct {
	Op     string
	Entity string
	ID     string
	Kind   error
	Err    error
}

func (e *StoreError) Error() string {
	if e.ID != "" {
		return fmt.Sprintf("%s %s %s: %v", e.Op, e.Entity, e.ID, e.Err)
	}
	return fmt.Sprintf("%s %s: %v", e.Op, e.Entity, e.Err)
}

func (e *StoreError) Unwrap() []error {
	if e.Kind != nil {
		return []error{e.Kind, e.Err}
	}
	return []error{e.Err}
}

func newStoreError(op, entity string, id uint, err error) error {
	if err == nil {
		return nil
	}
	se := &StoreError{
		Op:     op,
		Entity: entity,
		Kind:   classify(err),
		Err:    err,
	}
	if id != 0 {
		se.ID = fmt.Sprint(id)
	}
	return se
}

// classify maps driver specific errors onto the sentinel taxonomy.
func classify(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrProductNotFound
	}

	var myErr *mysql.MySQLError
	if errors.As(err, &myErr) {
		switch myErr.Number {
		case 1216, 1452: // ER_NO_REFERENCED_ROW, ER_NO_REFERENCED_ROW_2
			return ErrCategoryNotFound
		case 1040, 1205, 1213: // too many connections, lock wait timeout, deadlock
			return ErrStorageUnavailable
		}
		return nil
	}

	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		switch {
		case pqErr.Code == "23503": // foreign_key_violation
			return ErrCategoryNotFound
		case pqErr.Code.Class() == "08", // connection_exception
			pqErr.Code == "40001", // serialization_failure
			pqErr.Code == "40P01", // deadlock_detected
			pqErr.Code == "53300", // too_many_connections
			pqErr.Code == "57P01": // admin_shutdown
			return ErrStorageUnavailable
		}
		return nil
	}

	var liteErr sqlite3.Error
	if errors.As(err, &liteErr) {
		switch {
		case liteErr.ExtendedCode == sqlite3.ErrConstraintForeignKey:
			return ErrCategoryNotFound
		case liteErr.Code == sqlite3.ErrBusy, liteErr.Code == sqlite3.ErrLocked:
			return ErrStorageUnavailable
		}
		return nil
	}

	var netErr net.Error
	switch {
	case errors.Is(err, driver.ErrBadConn),
		errors.Is(err, sql.ErrConnDone),
		errors.Is(err, mysql.ErrInvalidConn),
		errors.Is(err, context.DeadlineExceeded),
		errors.Is(err, context.Canceled),
		errors.As(err, &netErr):
		return ErrStorageUnavailable
	}
	return nil
}
