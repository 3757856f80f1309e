package errors_test

import (
	stderrors "errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ldson/fatview/errors"
)

func TestWithMessage(t *testing.T) {
	err := errors.PathNotFound.WithMessage("dir1/nope")
	assert.Equal(t, "no such file or directory: dir1/nope", err.Error())
	assert.True(t, stderrors.Is(err, errors.PathNotFound))
}

func TestWrap(t *testing.T) {
	cause := stderrors.New("short read")
	err := errors.IO.Wrap(cause)

	assert.Equal(t, "I/O error: short read", err.Error())
	assert.True(t, stderrors.Is(err, errors.IO))
	assert.True(t, stderrors.Is(err, cause))
}

func TestWithMessagef(t *testing.T) {
	err := errors.Configuration.WithMessagef("unsupported sector size: %d", 999)
	assert.Equal(t, "configuration error: unsupported sector size: 999", err.Error())
}

func TestDistinctKindsAreNotEqual(t *testing.T) {
	err := errors.NotADirectory.WithMessage("x")
	assert.False(t, stderrors.Is(err, errors.PathNotFound))
}
