// Package monitor watches the source and replica directories and logs the
// files that appear in or disappear from them. It's purely informational: it
// never changes the filesystem, and the sync doesn't depend on it.
package monitor

import (
	"context"
	"time"

	"github.com/jonboulle/clockwork"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/afero"

	"github.com/masa604/Task---Folder-Sync/pkg/sync"
)

// DefaultInterval is how often the directories are polled.
const DefaultInterval = time.Second

// Kind is the type of change observed for a file.
type Kind string

const (
	// Added means the file didn't exist at the previous poll.
	Added Kind = "added"

	// Removed means the file existed at the previous poll, and no longer does.
	Removed Kind = "removed"
)

// Change is a file that appeared in or disappeared from a directory.
type Change struct {
	// Dir is either "source" or "replica".
	Dir  string
	Name string
	Kind Kind
}

// Options configures a Monitor.
type Options struct {
	// Interval is the time between polls. It defaults to DefaultInterval.
	Interval time.Duration

	// Clock is used to schedule polls. It defaults to the real clock.
	Clock clockwork.Clock

	// Filter hides matching names from the monitor.
	Filter sync.Filter

	// Wakeups triggers a poll before the next interval elapses. It's
	// optional, and is usually fed by a file watcher.
	Wakeups <-chan struct{}
}

type watchedDir struct {
	role string
	path string

	// known is the set of entries seen at the last successful poll. It's nil
	// until the directory has been listed once.
	known sync.EntrySet
}

// Monitor tracks the entries of the source and replica directories.
// All of its state is owned by the goroutine calling Run or Poll.
type Monitor struct {
	fs   afero.Fs
	log  log.FieldLogger
	opts Options
	dirs []*watchedDir
}

// New creates a Monitor for `source` and `replica`.
func New(fs afero.Fs, logger log.FieldLogger, source, replica string, opts Options) *Monitor {
	if opts.Interval <= 0 {
		opts.Interval = DefaultInterval
	}

	if opts.Clock == nil {
		opts.Clock = clockwork.NewRealClock()
	}

	return &Monitor{
		fs:   fs,
		log:  logger,
		opts: opts,
		dirs: []*watchedDir{
			{role: "source", path: source},
			{role: "replica", path: replica},
		},
	}
}

// Run polls the directories until `ctx` is cancelled. The first poll only
// records the current entries, and doesn't report anything.
func (m *Monitor) Run(ctx context.Context) {
	m.Poll()
	for {
		select {
		case <-ctx.Done():
			return
		case <-m.opts.Clock.After(m.opts.Interval):
		case <-m.opts.Wakeups:
		}
		m.Poll()
	}
}

// Poll lists both directories, logs the entries that were added or removed
// since the previous poll, and returns them.
// A directory that can't be listed is skipped, and keeps its previous state
// so that the changes are reported once it's readable again.
func (m *Monitor) Poll() []Change {
	var changes []Change
	for _, dir := range m.dirs {
		entries, err := sync.List(m.fs, dir.path)
		if err != nil {
			m.log.WithError(err).WithField("dir", dir.role).Debug(
				"Failed to list directory for change detection")
			continue
		}
		// Unlike the sync itself, the monitor reports directories and other
		// special entries too.
		entries = entries.Filtered(m.opts.Filter)

		if dir.known == nil {
			dir.known = entries
			continue
		}

		for _, name := range entries.Difference(dir.known) {
			changes = append(changes, Change{Dir: dir.role, Name: name, Kind: Added})
			m.log.WithFields(log.Fields{
				"dir":   dir.role,
				"file":  name,
				"event": Added,
			}).Infof("New file %s detected in %s directory", name, dir.role)
		}

		for _, name := range dir.known.Difference(entries) {
			changes = append(changes, Change{Dir: dir.role, Name: name, Kind: Removed})
			m.log.WithFields(log.Fields{
				"dir":   dir.role,
				"file":  name,
				"event": Removed,
			}).Infof("File %s removed from %s directory", name, dir.role)
		}

		dir.known = entries
	}
	return changes
}
