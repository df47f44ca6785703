package sync

import (
	"os"
	"path/filepath"
	"sort"

	"github.com/spf13/afero"

	"github.com/masa604/Task---Folder-Sync/pkg/errors"
)

// Entry is a single name listed in a directory.
type Entry struct {
	Name string

	// Mode is the mode of the entry. For a symlink, it's the mode of the
	// link's target, unless the link is dangling.
	Mode os.FileMode

	// Link is set if the entry is a symlink.
	Link bool
}

// IsFile returns whether the entry is a regular file, or a symlink to one,
// and therefore in scope for syncing.
func (e Entry) IsFile() bool {
	return e.Mode.IsRegular()
}

// Removable returns whether the entry may be removed from a replica that
// doesn't have it in its source. Symlinks are removable whatever they point
// to. Directories and other special entries are left alone.
func (e Entry) Removable() bool {
	return e.IsFile() || e.Link
}

// EntrySet is the set of entries in a directory, keyed by name.
type EntrySet map[string]Entry

// Has returns whether the set contains an entry called `name`.
func (set EntrySet) Has(name string) bool {
	_, ok := set[name]
	return ok
}

// Names returns the names in the set in sorted order.
func (set EntrySet) Names() []string {
	names := make([]string, 0, len(set))
	for name := range set {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Difference returns the sorted names that are in `set` but not in `other`.
func (set EntrySet) Difference(other EntrySet) []string {
	var names []string
	for name := range set {
		if !other.Has(name) {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names
}

// Filtered returns the entries that aren't excluded by `filter`.
func (set EntrySet) Filtered(filter Filter) EntrySet {
	return set.subset(filter, func(Entry) bool { return true })
}

// Files returns the files that aren't excluded by `filter`.
func (set EntrySet) Files(filter Filter) EntrySet {
	return set.subset(filter, Entry.IsFile)
}

// Removable returns the removable entries that aren't excluded by `filter`.
func (set EntrySet) Removable(filter Filter) EntrySet {
	return set.subset(filter, Entry.Removable)
}

func (set EntrySet) subset(filter Filter, keep func(Entry) bool) EntrySet {
	result := EntrySet{}
	for name, entry := range set {
		if keep(entry) && !filter.Excludes(name) {
			result[name] = entry
		}
	}
	return result
}

// List returns the immediate entries of `dir`. Files and directories are both
// included. Symlinks are followed to find out what they point to.
func List(fs afero.Fs, dir string) (EntrySet, error) {
	f, err := fs.Open(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.DirectoryUnavailable{Path: dir, Err: err}
		}
		return nil, errors.WithContext(err, "open")
	}
	defer f.Close()

	infos, err := f.Readdir(-1)
	if err != nil {
		return nil, errors.WithContext(err, "read directory")
	}

	entries := EntrySet{}
	for _, info := range infos {
		entry := Entry{Name: info.Name(), Mode: info.Mode()}
		if info.Mode()&os.ModeSymlink != 0 {
			entry.Link = true
			if target, err := fs.Stat(filepath.Join(dir, info.Name())); err == nil {
				entry.Mode = target.Mode()
			}
		}
		entries[info.Name()] = entry
	}
	return entries, nil
}

// requireDir checks that `path` exists and is a directory.
func requireDir(fs afero.Fs, role, path string) error {
	fi, err := fs.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return errors.DirectoryUnavailable{Role: role, Path: path}
		}
		return errors.DirectoryUnavailable{Role: role, Path: path, Err: err}
	}

	if !fi.IsDir() {
		return errors.DirectoryUnavailable{Role: role, Path: path,
			Err: errors.New("not a directory")}
	}
	return nil
}
