package dbhelper

import "github.com/samber/mo"

// RecordStore is the capability set every persistable record type gets.
// R is the record type, P the predicate type of the underlying engine.
type RecordStore[R any, P any] interface {
	// Create stages r as a new record and commits.
	Create(r R) error
	// Update commits r. The engine works out what changed.
	Update(r R) error
	// Delete removes r and commits.
	Delete(r R) error

	// Fetch returns the records matching pred, at most limit of them.
	// No match is a success with an empty slice.
	Fetch(pred mo.Option[P], limit mo.Option[int]) mo.Result[[]R]
	// FetchFirst is Fetch with a limit of one.
	FetchFirst(pred mo.Option[P]) mo.Result[mo.Option[R]]
}
