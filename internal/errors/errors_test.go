package errors_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/allisson/sixseal/internal/errors"
)

func TestWrapNil(t *testing.T) {
	require.NoError(t, errors.Wrap(nil, "context"))
}

func TestWrapAndIs(t *testing.T) {
	wrapped := errors.Wrap(errors.ErrNotFound, "kek")
	require.ErrorIs(t, wrapped, errors.ErrNotFound)
	require.EqualError(t, wrapped, "kek: not found")
}

func TestAs(t *testing.T) {
	var target error = errors.New("boom")
	require.True(t, errors.As(target, &target))
}
