// Package storage defines the Storage interface, the contract every
// record backend (MongoDB, SQLite, in-memory) must satisfy.
//
// Handlers depend only on this interface. Which backend runs is decided
// once, in main, from the storage.driver config key.
package storage

import (
	"context"

	"github.com/aanand-mishra/portal-api/internal/types"
)

// Outcome reports what an update or delete did.
//
// "Record not found" is not an error: callers get OutcomeNotFound with a
// nil error. OutcomeFault is always paired with a non-nil error.
type Outcome int

const (
	OutcomeFault Outcome = iota
	OutcomeApplied
	OutcomeNotFound
)

func (o Outcome) String() string {
	switch o {
	case OutcomeApplied:
		return "applied"
	case OutcomeNotFound:
		return "not_found"
	default:
		return "fault"
	}
}

// Storage is the record-store contract. Students and admins live in
// independent collections with identical operations.
type Storage interface {
	// CreateStudent persists a new student and returns it with the
	// store-generated identifier filled in. Any field may be nil.
	CreateStudent(ctx context.Context, student types.Student) (types.Student, error)

	// GetStudents returns every student, in insertion order.
	// Returns an empty slice (not nil) if there are none.
	GetStudents(ctx context.Context) ([]types.Student, error)

	// UpdateStudentByID overwrites only the fields present in patch and
	// returns the resulting record.
	UpdateStudentByID(ctx context.Context, id string, patch types.Patch) (types.Student, Outcome, error)

	// DeleteStudentByID removes a student. Deleting an unknown id
	// reports OutcomeNotFound, not an error.
	DeleteStudentByID(ctx context.Context, id string) (Outcome, error)

	CreateAdmin(ctx context.Context, admin types.Admin) (types.Admin, error)
	GetAdmins(ctx context.Context) ([]types.Admin, error)
	UpdateAdminByID(ctx context.Context, id string, patch types.Patch) (types.Admin, Outcome, error)
	DeleteAdminByID(ctx context.Context, id string) (Outcome, error)

	// Close releases the backend's connection. Called once at shutdown.
	Close(ctx context.Context) error
}
