package engine

import "errors"

var (
	ErrUnknownEntity   = errors.New("engine: unknown entity")
	ErrDuplicateEntity = errors.New("engine: entity already registered")
	ErrNotPointer      = errors.New("engine: records must be pointers to structs")
	ErrNilRecord       = errors.New("engine: record is nil")

	// ErrNotOwned is returned when a record is used with a session that does
	// not track it, or that another live session already tracks.
	ErrNotOwned = errors.New("engine: record does not belong to this session")

	// ErrDuplicateID is returned by Save when an inserted record's id is already committed.
	ErrDuplicateID = errors.New("engine: record id already exists")

	// ErrIDChanged is returned by Save when a tracked record's id was modified.
	ErrIDChanged = errors.New("engine: record id changed while tracked")

	ErrInvalidLimit  = errors.New("engine: fetch limit must not be negative")
	ErrSessionClosed = errors.New("engine: session is closed")
)
