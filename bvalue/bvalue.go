// Provides types for binary value representation
package bvalue

import (
	"strconv"

	"github.com/google/uuid"
)

// binary value, used as record identity
type Value []byte

func (v Value) String() string {
	return string(v)
}

func (v Value) IsEmpty() bool {
	return len(v) == 0
}

func FromInt[I ~int](v I) Value {
	return Value([]byte(strconv.FormatInt(int64(v), 10)))
}

func FromString[S ~string](v S) Value {
	return []byte(v)
}

// NewID returns a fresh random identity for records that don't carry a natural key.
func NewID() Value {
	return FromString(uuid.NewString())
}
