package store

import (
	"context"
	"time"
)

// AccessEvent is one immutable audit entry: an access decision or an
// administrative action such as an enrollment. PersonName is nil when no
// match was made; Confidence is the normalized 0.0–1.0 score and is nil
// for denials and enrollments.
type AccessEvent struct {
	ID          string
	Timestamp   time.Time
	Description string
	PersonName  *string
	Confidence  *float64
	Granted     bool
}

// AuditLog is an append-only, insertion-ordered record of decisions.
// Insertion order is the audit order; entries are never mutated or
// deleted within the process lifetime.
type AuditLog interface {
	Append(ctx context.Context, ev AccessEvent) error

	// Recent returns up to limit events, newest first. A limit of 0
	// returns an empty slice; a limit larger than the log returns
	// everything.
	Recent(ctx context.Context, limit int) ([]AccessEvent, error)

	Len(ctx context.Context) (int, error)
}
