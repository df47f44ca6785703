package sync

import (
	"io/ioutil"
	"math/rand"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/masa604/Task---Folder-Sync/pkg/errors"
)

type file struct {
	name     string
	contents string
	mode     os.FileMode
	modTime  time.Time
}

func (f file) WithContents(contents string) file {
	f.contents = contents
	return f
}

func (f file) WithModTime(modTime time.Time) file {
	f.modTime = modTime
	return f
}

func randomFile(name string) file {
	randomTime := time.Date(2019, 11, 10, rand.Intn(23), rand.Intn(59), rand.Intn(59), 0, time.UTC)
	return file{
		name:     name,
		contents: strconv.Itoa(rand.Int()),
		mode:     os.FileMode(0640 | rand.Intn(8)),
		modTime:  randomTime,
	}
}

// mockFs contains helper methods for creating temporary directories for
// testing.
type mockFs struct {
	root    string
	source  string
	replica string
	logPath string
}

type fsOp func(mockFs) error

func newMockFs() (mockFs, error) {
	root, err := ioutil.TempDir("", "foldersync-test")
	if err != nil {
		return mockFs{}, errors.WithContext(err, "make root dir")
	}

	fs := mockFs{
		root:    root,
		source:  filepath.Join(root, "source"),
		replica: filepath.Join(root, "replica"),
		logPath: filepath.Join(root, "foldersync.log"),
	}
	for _, dir := range []string{fs.source, fs.replica} {
		if err := os.Mkdir(dir, 0755); err != nil {
			return mockFs{}, errors.WithContext(err, "make directory")
		}
	}
	return fs, nil
}

func (fs mockFs) cleanup() error {
	return os.RemoveAll(fs.root)
}

func (fs mockFs) readLog() (string, error) {
	contents, err := ioutil.ReadFile(fs.logPath)
	return string(contents), err
}

// createFile writes the file outside the synced directories, and then moves
// it into place, so that foldersync never sees a partially written file.
func createFile(dir func(mockFs) string, toCreate file) fsOp {
	return func(fs mockFs) error {
		tmpPath := filepath.Join(fs.root, "."+toCreate.name+".tmp")
		if err := ioutil.WriteFile(tmpPath, []byte(toCreate.contents), 0644); err != nil {
			return errors.WithContext(err, "write")
		}

		if err := os.Chmod(tmpPath, toCreate.mode); err != nil {
			return errors.WithContext(err, "chmod")
		}

		if err := os.Chtimes(tmpPath, time.Now(), toCreate.modTime); err != nil {
			return errors.WithContext(err, "chtimes")
		}

		if err := os.Rename(tmpPath, filepath.Join(dir(fs), toCreate.name)); err != nil {
			return errors.WithContext(err, "rename")
		}
		return nil
	}
}

func removeFile(dir func(mockFs) string, name string) fsOp {
	return func(fs mockFs) error {
		return os.Remove(filepath.Join(dir(fs), name))
	}
}

func source(fs mockFs) string  { return fs.source }
func replica(fs mockFs) string { return fs.replica }

// shouldMatch checks that the replica copy of `exp` has the expected
// contents and metadata.
func shouldMatch(exp file) fsOp {
	return func(fs mockFs) error {
		path := filepath.Join(fs.replica, exp.name)
		info, err := os.Stat(path)
		if err != nil {
			return errors.WithContext(err, "stat")
		}

		contents, err := ioutil.ReadFile(path)
		if err != nil {
			return errors.WithContext(err, "read")
		}

		switch {
		case string(contents) != exp.contents:
			return errors.New("wrong contents: expected %q, got %q", exp.contents, contents)
		case info.Mode().Perm() != exp.mode:
			return errors.New("wrong mode: expected %s, got %s", exp.mode, info.Mode().Perm())
		case !info.ModTime().Equal(exp.modTime):
			return errors.New("wrong modtime: expected %s, got %s", exp.modTime, info.ModTime())
		}
		return nil
	}
}

func shouldNotExist(name string) fsOp {
	return func(fs mockFs) error {
		_, err := os.Stat(filepath.Join(fs.replica, name))
		if err == nil {
			return errors.New("%s still exists", name)
		}
		if !os.IsNotExist(err) {
			return errors.WithContext(err, "stat")
		}
		return nil
	}
}
