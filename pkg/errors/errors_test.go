package errors

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWithContext(t *testing.T) {
	assert.NoError(t, WithContext(nil, "ignored"))

	err := WithContext(WithContext(os.ErrNotExist, "open"), "list source")
	assert.EqualError(t, err, "list source: open: file does not exist")
	assert.Equal(t, os.ErrNotExist, RootCause(err))
	assert.True(t, Is(err, os.ErrNotExist))
}

func TestRootCauseTypedError(t *testing.T) {
	err := WithContext(DirectoryUnavailable{Role: "source", Path: "/src"}, "reconcile")

	var dirErr DirectoryUnavailable
	assert.True(t, As(err, &dirErr))
	assert.Equal(t, "/src", dirErr.Path)
	assert.Equal(t, DirectoryUnavailable{Role: "source", Path: "/src"}, RootCause(err))
}

func TestDirectoryUnavailableMessage(t *testing.T) {
	tests := []struct {
		name   string
		err    DirectoryUnavailable
		expMsg string
	}{
		{
			name:   "Missing",
			err:    DirectoryUnavailable{Role: "replica", Path: "/dst"},
			expMsg: "replica directory /dst doesn't exist",
		},
		{
			name:   "WithCause",
			err:    DirectoryUnavailable{Role: "source", Path: "/src", Err: os.ErrPermission},
			expMsg: "source directory /src is unavailable: permission denied",
		},
	}

	for _, test := range tests {
		test := test
		t.Run(test.name, func(t *testing.T) {
			assert.EqualError(t, test.err, test.expMsg)
		})
	}

	assert.True(t, Is(DirectoryUnavailable{Err: os.ErrPermission}, os.ErrPermission))
}

func TestFriendlyError(t *testing.T) {
	err := NewFriendlyError("period must be positive, got %d", -1)
	friendly, ok := err.(FriendlyError)
	assert.True(t, ok)
	assert.Equal(t, "period must be positive, got -1", friendly.FriendlyMessage())
}
