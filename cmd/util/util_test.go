package util

import (
	"bytes"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/masa604/Task---Folder-Sync/pkg/errors"
)

func TestHandleFatalError(t *testing.T) {
	tests := []struct {
		name      string
		err       error
		expOutput string
	}{
		{
			name:      "Plain",
			err:       errors.WithContext(assert.AnError, "sync"),
			expOutput: "Error: sync: " + assert.AnError.Error() + "\n",
		},
		{
			name:      "Friendly",
			err:       errors.WithContext(errors.NewFriendlyError("Something is wrong."), "parse"),
			expOutput: "Something is wrong.\n",
		},
		{
			name: "MissingDirectory",
			err: errors.DirectoryUnavailable{
				Role: "replica",
				Path: "/replica",
				Err:  os.ErrNotExist,
			},
			expOutput: "The replica directory \"/replica\" doesn't exist or isn't a directory.\n",
		},
	}

	defer func() {
		exit = os.Exit
		stderr = os.Stderr
	}()

	for _, test := range tests {
		test := test
		t.Run(test.name, func(t *testing.T) {
			var out bytes.Buffer
			var exitCode int
			stderr = &out
			exit = func(code int) {
				exitCode = code
			}

			HandleFatalError(test.err)
			assert.Equal(t, 1, exitCode)
			assert.Equal(t, test.expOutput, out.String())
		})
	}
}

func TestHandlePanic(t *testing.T) {
	assert.PanicsWithValue(t, "boom", func() {
		defer HandlePanic()
		panic("boom")
	})

	assert.NotPanics(t, func() {
		defer HandlePanic()
	})
}
