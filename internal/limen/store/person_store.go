package store

import (
	"context"
	"errors"
	"time"
)

var ErrDuplicateFaceID = errors.New("face_id already registered")

// Person is one enrolled identity. FaceID is assigned by the recognition
// provider and is the registry's unique key; Name is the external image id
// presented to the provider at enrollment. Re-enrolling the same person
// yields a fresh FaceID and therefore a new record — names are not unique.
type Person struct {
	FaceID     string
	Name       string
	EnrolledAt time.Time
}

// PersonStore is the authoritative registry of identities allowed through
// the door. Records are immutable once inserted; there is no delete.
type PersonStore interface {
	// Insert adds a newly enrolled person. Returns ErrDuplicateFaceID
	// if the FaceID is already present.
	Insert(ctx context.Context, p Person) error

	// Reconcile bulk-loads people already present in the provider's
	// collection. Run once at startup before serving traffic; an empty
	// input is valid. Returns the number of records loaded.
	Reconcile(ctx context.Context, people []Person) (int, error)

	// List returns the names of everyone registered. Order is
	// unspecified and duplicate names are returned as-is.
	List(ctx context.Context) ([]string, error)

	Len(ctx context.Context) (int, error)
}
