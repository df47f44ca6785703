package fswatch

import (
	"io/ioutil"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestCombineUpdates(t *testing.T) {
	defer goleak.VerifyNone(t)

	updates := make(chan fsnotify.Event, 1024)
	addEvents := func(num int, op fsnotify.Op) {
		for i := 0; i < num; i++ {
			updates <- fsnotify.Event{Op: op}
		}
	}

	// Seed with events.
	numUpdates := 100
	addEvents(numUpdates, fsnotify.Create)
	combined := combineUpdates(updates)

	// Assert that the events are being combined.
	numCombined := countEvents(combined)
	assert.True(t, numCombined < numUpdates,
		"expected less combined events (%d) than %d", numCombined, numUpdates)

	// Writes don't change which files exist, so they shouldn't trigger an
	// update.
	addEvents(100, fsnotify.Write|fsnotify.Chmod)
	select {
	case <-combined:
		t.Fatal("unexpected update for write events")
	case <-time.After(100 * time.Millisecond):
	}

	addEvents(1, fsnotify.Rename)
	<-combined

	close(updates)
}

func TestWatch(t *testing.T) {
	defer goleak.VerifyNone(t)

	dir, err := ioutil.TempDir("", "foldersync-fswatch")
	require.NoError(t, err)
	defer os.RemoveAll(dir)

	watcher, err := Watch([]string{dir})
	require.NoError(t, err)

	require.NoError(t, ioutil.WriteFile(filepath.Join(dir, "new"), []byte("new"), 0644))
	select {
	case <-watcher.Updates():
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for create event")
	}

	require.NoError(t, os.Remove(filepath.Join(dir, "new")))
	select {
	case <-watcher.Updates():
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for remove event")
	}

	assert.NoError(t, watcher.Close())
}

func TestWatchMissingDirectory(t *testing.T) {
	defer goleak.VerifyNone(t)

	dir, err := ioutil.TempDir("", "foldersync-fswatch")
	require.NoError(t, err)
	defer os.RemoveAll(dir)

	_, err = Watch([]string{dir, filepath.Join(dir, "missing")})
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "missing")
}

func countEvents(c <-chan struct{}) (n int) {
	// Block until the first event.
	<-c
	n++

	// Count the number of events until there hasn't been any new events in 500
	// milliseconds.
	for {
		select {
		case <-c:
			n++
		case <-time.After(500 * time.Millisecond):
			return n
		}
	}
}
