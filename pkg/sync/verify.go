package sync

import (
	"path/filepath"

	"github.com/spf13/afero"
)

// Report describes how a replica differs from its source.
type Report struct {
	// Missing are source entries that don't exist in the replica.
	Missing []string

	// Differing are names that exist on both sides but don't match: either
	// both are files with different contents, or only one of them is a file.
	Differing []string

	// Extra are replica entries that don't exist in the source.
	Extra []string
}

// Synced returns whether the replica exactly matches the source.
func (r Report) Synced() bool {
	return len(r.Missing) == 0 && len(r.Differing) == 0 && len(r.Extra) == 0
}

// Verify compares `source` and `replica` without modifying either. Every
// entry that isn't excluded by `filter` must exist on both sides, including
// directories, even though Engine.Reconcile never creates or removes them.
// Only files are compared by contents.
func Verify(fs afero.Fs, source, replica string, filter Filter) (Report, error) {
	sourceEntries, err := List(fs, source)
	if err != nil {
		return Report{}, withRole(err, "source", source)
	}

	replicaEntries, err := List(fs, replica)
	if err != nil {
		return Report{}, withRole(err, "replica", replica)
	}

	sourceEntries = sourceEntries.Filtered(filter)
	replicaEntries = replicaEntries.Filtered(filter)

	report := Report{
		Missing: sourceEntries.Difference(replicaEntries),
		Extra:   replicaEntries.Difference(sourceEntries),
	}
	for _, name := range sourceEntries.Names() {
		replicaEntry, ok := replicaEntries[name]
		if !ok {
			continue
		}

		sourceEntry := sourceEntries[name]
		switch {
		case !sourceEntry.IsFile() && !replicaEntry.IsFile():
			// Only files are compared by contents.
		case sourceEntry.IsFile() != replicaEntry.IsFile(),
			!Identical(fs, filepath.Join(source, name), filepath.Join(replica, name)):
			report.Differing = append(report.Differing, name)
		}
	}
	return report, nil
}

// IsSynced returns whether `replica` exactly matches `source`. Directories
// that can't be listed are never considered synced.
func IsSynced(fs afero.Fs, source, replica string, filter Filter) bool {
	report, err := Verify(fs, source, replica, filter)
	return err == nil && report.Synced()
}

