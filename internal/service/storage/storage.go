package storage

import (
	"context"
	"fmt"

	"avgspeed/internal/model"
)

// ReportStore is an append-only, insertion-ordered sequence of reports.
// Implementations serialize writers so concurrent appends never lose a record.
type ReportStore interface {
	// Append adds a report at the end of the sequence
	Append(ctx context.Context, report model.Report) error
	// LoadAll returns every stored report in insertion order.
	// Absent or unreadable storage yields an empty sequence, not an error.
	LoadAll(ctx context.Context) ([]model.Report, error)
	// Clear irreversibly removes every stored report
	Clear(ctx context.Context) error
	// Close releases the backend's resources
	Close() error
}

// StorageError is returned when a backend fails to persist or remove reports
type StorageError struct {
	Op      string // append, clear, ...
	Backend string // file, redis, postgres
	Err     error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("%s store: %s failed: %v", e.Backend, e.Op, e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}
