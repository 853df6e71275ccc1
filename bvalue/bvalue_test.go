package bvalue

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFrom(t *testing.T) {
	assert.Equal(t, "42", FromInt(42).String())
	assert.Equal(t, "bob", FromString("bob").String())
	assert.True(t, Value(nil).IsEmpty())
}

func TestNewID(t *testing.T) {
	// act
	a, b := NewID(), NewID()

	// assert
	assert.False(t, a.IsEmpty())
	assert.Len(t, a, 36)
	assert.NotEqual(t, a, b)
}
