package sync

import (
	"github.com/bmatcuk/doublestar/v4"

	"github.com/masa604/Task---Folder-Sync/pkg/errors"
)

// Filter excludes entry names that match any of its glob patterns. Excluded
// names are invisible to the sync: they're never copied, removed, or counted
// when checking whether the directories are synced.
// The zero value excludes nothing.
type Filter struct {
	patterns []string
}

// NewFilter validates the patterns and returns a Filter for them.
func NewFilter(patterns []string) (Filter, error) {
	for _, pattern := range patterns {
		if !doublestar.ValidatePattern(pattern) {
			return Filter{}, errors.New("invalid exclude pattern %q", pattern)
		}
	}
	return Filter{patterns: append([]string{}, patterns...)}, nil
}

// Excludes returns whether `name` matches one of the filter's patterns.
func (f Filter) Excludes(name string) bool {
	for _, pattern := range f.patterns {
		// The patterns were validated by NewFilter, so Match can't fail.
		if ok, _ := doublestar.Match(pattern, name); ok {
			return true
		}
	}
	return false
}
