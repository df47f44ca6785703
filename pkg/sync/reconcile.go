package sync

import (
	"path/filepath"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/afero"
	"golang.org/x/sync/errgroup"

	"github.com/masa604/Task---Folder-Sync/pkg/errors"
)

// Action is a change applied to the replica.
type Action string

const (
	// ActionCopy copies a source file into the replica.
	ActionCopy Action = "copy"

	// ActionDelete removes a file from the replica.
	ActionDelete Action = "delete"
)

// ActionError records an action that failed during a round.
type ActionError struct {
	Action Action
	Name   string
	Err    error
}

func (err ActionError) Error() string {
	return string(err.Action) + " " + err.Name + ": " + err.Err.Error()
}

func (err ActionError) Unwrap() error {
	return err.Err
}

// Result describes what a round did to the replica.
type Result struct {
	Copied  []string
	Deleted []string
	Failed  []ActionError
}

// Engine reconciles a replica directory with its source.
type Engine struct {
	fs     afero.Fs
	filter Filter
	log    log.FieldLogger
}

// NewEngine returns an Engine that operates on `fs`. Names matched by
// `filter` are ignored on both sides.
func NewEngine(fs afero.Fs, filter Filter, logger log.FieldLogger) *Engine {
	return &Engine{fs: fs, filter: filter, log: logger}
}

// Reconcile runs one round: it copies source files that are missing or
// different in the replica, and removes replica files that aren't in the
// source.
//
// It only returns an error if `source` or `replica` isn't an existing
// directory. In that case the error is an errors.DirectoryUnavailable, and
// nothing is changed. Failures of individual actions are logged and reported
// in the Result, but don't stop the round.
func (e *Engine) Reconcile(source, replica string) (Result, error) {
	if err := requireDir(e.fs, "source", source); err != nil {
		return Result{}, err
	}

	if err := requireDir(e.fs, "replica", replica); err != nil {
		return Result{}, err
	}

	sourceFiles, replicaFiles, err := e.snapshot(source, replica)
	if err != nil {
		var dirErr errors.DirectoryUnavailable
		if errors.As(err, &dirErr) {
			return Result{}, err
		}

		// The directories existed a moment ago, so this is most likely a
		// transient error. The next round will try again.
		e.log.WithError(err).Error("Failed to list directories. Skipping this round.")
		return Result{}, nil
	}

	plan := NewPlan(sourceFiles, replicaFiles, func(name string) bool {
		return Identical(e.fs, filepath.Join(source, name), filepath.Join(replica, name))
	})
	return e.apply(plan, source, replica), nil
}

// snapshot lists the files in scope in both directories.
func (e *Engine) snapshot(source, replica string) (sourceFiles, replicaFiles EntrySet, err error) {
	var sourceEntries, replicaEntries EntrySet
	var g errgroup.Group
	g.Go(func() error {
		entries, err := List(e.fs, source)
		if err != nil {
			return withRole(err, "source", source)
		}
		sourceEntries = entries
		return nil
	})
	g.Go(func() error {
		entries, err := List(e.fs, replica)
		if err != nil {
			return withRole(err, "replica", replica)
		}
		replicaEntries = entries
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}

	sourceFiles = sourceEntries.Files(e.filter)
	replicaFiles = replicaEntries.Removable(e.filter)
	e.logSkipped(sourceEntries, sourceFiles, "source")
	e.logSkipped(replicaEntries, replicaFiles, "replica")
	return sourceFiles, replicaFiles, nil
}

// logSkipped logs the entries that aren't excluded, but still aren't synced.
func (e *Engine) logSkipped(entries, synced EntrySet, role string) {
	for _, name := range entries.Filtered(e.filter).Difference(synced) {
		entry := entries[name]
		e.log.WithFields(log.Fields{
			"dir":  role,
			"file": name,
			"mode": entry.Mode.String(),
		}).Debug("Ignoring entry that isn't a regular file")
	}
}

func (e *Engine) apply(plan Plan, source, replica string) Result {
	var result Result
	for _, name := range plan.ToCopy {
		err := copyFile(e.fs, filepath.Join(source, name), filepath.Join(replica, name))
		if err != nil {
			e.log.WithError(err).WithField("file", name).Errorf("Error copying file %s", name)
			result.Failed = append(result.Failed, ActionError{ActionCopy, name, err})
			continue
		}

		e.log.WithFields(log.Fields{
			"file":  name,
			"event": ActionCopy,
		}).Infof("File %s copied to replica", name)
		result.Copied = append(result.Copied, name)
	}

	for _, name := range plan.ToDelete {
		if err := removeFile(e.fs, filepath.Join(replica, name)); err != nil {
			e.log.WithError(err).WithField("file", name).Errorf("Error removing file %s", name)
			result.Failed = append(result.Failed, ActionError{ActionDelete, name, err})
			continue
		}

		e.log.WithFields(log.Fields{
			"file":  name,
			"event": ActionDelete,
		}).Infof("File %s removed from replica", name)
		result.Deleted = append(result.Deleted, name)
	}
	return result
}

// withRole fills in which directory a DirectoryUnavailable error refers to.
func withRole(err error, role, path string) error {
	var dirErr errors.DirectoryUnavailable
	if errors.As(err, &dirErr) {
		dirErr.Role = role
		dirErr.Path = path
		return dirErr
	}
	return errors.WithContext(err, "list "+role)
}
