package sync

import (
	"math/rand"
	"os"
	"path/filepath"
	"strconv"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/require"
)

const (
	sourceDir  = "/source"
	replicaDir = "/replica"
)

type mockFile struct {
	path     string
	contents string
	mode     os.FileMode
	modTime  time.Time
}

func (f mockFile) writeToFs(fs afero.Fs) error {
	if err := fs.MkdirAll(filepath.Dir(f.path), 0755); err != nil {
		return err
	}
	if err := afero.WriteFile(fs, f.path, []byte(f.contents), f.mode); err != nil {
		return err
	}
	return fs.Chtimes(f.path, time.Now(), f.modTime)
}

func randomFile(overrides mockFile) mockFile {
	if overrides.path == "" {
		overrides.path = strconv.Itoa(rand.Int())
	}

	if overrides.contents == "" {
		overrides.contents = strconv.Itoa(rand.Int())
	}

	if overrides.modTime.IsZero() {
		randomTime := time.Date(2019, 11, 10, rand.Intn(23), rand.Intn(59), rand.Intn(59), 0, time.UTC)
		overrides.modTime = randomTime
	}

	if overrides.mode == 0000 {
		overrides.mode = os.FileMode(0640 | rand.Intn(8))
	}
	return overrides
}

// newMockDirs returns an in-memory filesystem containing the source and
// replica directories, populated with the given contents keyed by file name.
func newMockDirs(t *testing.T, source, replica map[string]string) afero.Fs {
	fs := afero.NewMemMapFs()
	require.NoError(t, fs.MkdirAll(sourceDir, 0755))
	require.NoError(t, fs.MkdirAll(replicaDir, 0755))

	for name, contents := range source {
		f := randomFile(mockFile{path: filepath.Join(sourceDir, name), contents: contents})
		require.NoError(t, f.writeToFs(fs))
	}
	for name, contents := range replica {
		f := randomFile(mockFile{path: filepath.Join(replicaDir, name), contents: contents})
		require.NoError(t, f.writeToFs(fs))
	}
	return fs
}

// readDir returns the contents of every regular file in `dir`.
func readDir(t *testing.T, fs afero.Fs, dir string) map[string]string {
	infos, err := afero.ReadDir(fs, dir)
	require.NoError(t, err)

	contents := map[string]string{}
	for _, info := range infos {
		if info.IsDir() {
			continue
		}

		data, err := afero.ReadFile(fs, filepath.Join(dir, info.Name()))
		require.NoError(t, err)
		contents[info.Name()] = string(data)
	}
	return contents
}

func messagesAt(entries []*logrus.Entry, level logrus.Level) (messages []string) {
	for _, entry := range entries {
		if entry.Level == level {
			messages = append(messages, entry.Message)
		}
	}
	return messages
}
