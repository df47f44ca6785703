package errors

import (
	"fmt"
)

// FileNotFound represents when we were unable to access a file
// because the path didn't exist.
type FileNotFound struct {
	Path string
}

func (err FileNotFound) Error() string {
	return fmt.Sprintf("%q does not exist", err.Path)
}

// DirectoryUnavailable is returned when the source or replica directory
// can't be used at the start of a sync round. It's fatal: the process exits
// rather than retrying.
type DirectoryUnavailable struct {
	// Role is either "source" or "replica".
	Role string
	Path string
	Err  error
}

func (err DirectoryUnavailable) Error() string {
	if err.Err != nil {
		return fmt.Sprintf("%s directory %s is unavailable: %s", err.Role, err.Path, err.Err)
	}
	return fmt.Sprintf("%s directory %s doesn't exist", err.Role, err.Path)
}

func (err DirectoryUnavailable) Unwrap() error {
	return err.Err
}

// FriendlyMessage returns the message shown to the user when the sync exits
// because of a missing directory.
func (err DirectoryUnavailable) FriendlyMessage() string {
	return fmt.Sprintf("The %s directory %q doesn't exist or isn't a directory.",
		err.Role, err.Path)
}
