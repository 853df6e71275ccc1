package dbhelper

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrorKinds(t *testing.T) {
	cause := errors.New("disk full")
	err := fmt.Errorf("saving contacts: %w", Errorf(KindWrite, "commit", cause))

	assert.True(t, IsWrite(err))
	assert.False(t, IsQuery(err))
	assert.False(t, IsContract(err))
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, KindWrite, KindOf(err))
	assert.Equal(t, Kind(0), KindOf(cause))
	assert.EqualError(t, err, "saving contacts: commit write failed: disk full")
}

func TestKindString(t *testing.T) {
	assert.Equal(t, "query", KindQuery.String())
	assert.Equal(t, "contract", KindContract.String())
	assert.Equal(t, "kind(9)", Kind(9).String())
}
