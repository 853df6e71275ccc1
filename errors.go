package dbhelper

import (
	"errors"
	"fmt"
)

type Kind uint8

const (
	// KindQuery means a fetch could not be evaluated.
	KindQuery Kind = iota + 1
	// KindWrite means a commit could not be persisted.
	KindWrite
	// KindContract means the caller misused the API, e.g. handed a record
	// to a context that does not own it.
	KindContract
)

func (k Kind) String() string {
	switch k {
	case KindQuery:
		return "query"
	case KindWrite:
		return "write"
	case KindContract:
		return "contract"
	default:
		return fmt.Sprintf("kind(%d)", uint8(k))
	}
}

// Error is returned by every RecordStore operation. Err carries the engine's
// diagnostic and stays reachable through errors.Is and errors.As.
type Error struct {
	Kind Kind
	Op   string
	Err  error
}

func (e *Error) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s %s failed", e.Op, e.Kind)
	}
	return fmt.Sprintf("%s %s failed: %v", e.Op, e.Kind, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

func Errorf(kind Kind, op string, err error) error {
	return &Error{Kind: kind, Op: op, Err: err}
}

// KindOf returns the kind of the first *Error in err's chain, or 0.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return 0
}

func IsQuery(err error) bool    { return KindOf(err) == KindQuery }
func IsWrite(err error) bool    { return KindOf(err) == KindWrite }
func IsContract(err error) bool { return KindOf(err) == KindContract }
