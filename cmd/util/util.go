package util

import (
	"fmt"
	"io"
	"os"
	"runtime/debug"

	log "github.com/sirupsen/logrus"

	"github.com/masa604/Task---Folder-Sync/pkg/errors"
)

// Mocked in unit tests.
var (
	exit             = os.Exit
	stderr io.Writer = os.Stderr
)

type friendlyError interface {
	FriendlyMessage() string
}

// HandleFatalError handles errors that are severe enough to terminate the
// program. Errors that have a friendly message are printed without their
// context, since it's meant for debugging rather than for users.
func HandleFatalError(err error) {
	var friendlyErr friendlyError
	if errors.As(err, &friendlyErr) {
		fmt.Fprintln(stderr, friendlyErr.FriendlyMessage())
		log.WithError(err).Debug("Fatal error")
	} else {
		fmt.Fprintf(stderr, "Error: %s\n", err)
	}
	exit(1)
}

// HandlePanic logs the stack trace of a panic before letting it crash the
// program. It must be deferred.
func HandlePanic() {
	if r := recover(); r != nil {
		log.WithField("stack", string(debug.Stack())).Errorf("Unexpected panic: %v", r)
		panic(r)
	}
}
