package sync

import (
	"context"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/masa604/Task---Folder-Sync/ci/util"
	"github.com/masa604/Task---Folder-Sync/pkg/errors"
)

const exitTimeout = 30 * time.Second

func Test(t *testing.T, helper *util.TestHelper) {
	t.Run("FileChange", func(t *testing.T) {
		testFileChange(t, helper)
	})
	t.Run("Monitor", func(t *testing.T) {
		testMonitor(t, helper)
	})
	t.Run("RoundLimit", func(t *testing.T) {
		testRoundLimit(t, helper)
	})
	t.Run("Interrupt", func(t *testing.T) {
		testInterrupt(t, helper)
	})
	t.Run("MissingReplica", func(t *testing.T) {
		testMissingReplica(t, helper)
	})
}

func testFileChange(t *testing.T, helper *util.TestHelper) {
	refFile := randomFile("test-file")
	changedContents := refFile.WithContents("changed contents").
		WithModTime(refFile.modTime.Add(time.Minute))
	extraFile := randomFile("extra-file")

	tests := []struct {
		name   string
		change fsOp
		check  fsOp
	}{
		{
			name:   "AddFile",
			change: createFile(source, refFile),
			check:  shouldMatch(refFile),
		},
		{
			name:   "ChangeContents",
			change: createFile(source, changedContents),
			check:  shouldMatch(changedContents),
		},
		{
			name:   "RemoveFile",
			change: removeFile(source, refFile.name),
			check:  shouldNotExist(refFile.name),
		},
		{
			name:   "ExtraReplicaFile",
			change: createFile(replica, extraFile),
			check:  shouldNotExist(extraFile.name),
		},
	}

	fs, err := newMockFs()
	require.NoError(t, err)
	defer fs.cleanup()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	proc, err := helper.Start(ctx, fs.source, fs.replica, "1", fs.logPath, "--max-rounds", "1000")
	require.NoError(t, err)

	for _, test := range tests {
		test := test
		t.Run(test.name, func(t *testing.T) {
			require.NoError(t, test.change(fs))
			require.NoError(t, helper.WaitUntilSynced(ctx, fs.source, fs.replica))
			assert.NoError(t, waitFor(ctx, fs, test.check))
		})
	}

	cancel()
	exitCode, err := proc.Wait(exitTimeout)
	require.NoError(t, err)
	assert.Equal(t, 0, exitCode)
}

func testMonitor(t *testing.T, helper *util.TestHelper) {
	fs, err := newMockFs()
	require.NoError(t, err)
	defer fs.cleanup()

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	// Use a long period so that the sync doesn't remove the file before the
	// monitor sees it.
	proc, err := helper.Start(ctx, fs.source, fs.replica, "3600", fs.logPath,
		"--monitor-interval", "100ms", "--monitor-mode", "notify")
	require.NoError(t, err)
	require.NoError(t, proc.WaitForOutput(ctx, "Sync finished."))

	require.NoError(t, createFile(replica, randomFile("new-file"))(fs))
	assert.NoError(t, proc.WaitForOutput(ctx, "New file new-file detected in replica directory"))

	require.NoError(t, removeFile(replica, "new-file")(fs))
	assert.NoError(t, proc.WaitForOutput(ctx, "File new-file removed from replica directory"))

	cancel()
	exitCode, err := proc.Wait(exitTimeout)
	require.NoError(t, err)
	assert.Equal(t, 0, exitCode)
}

func testRoundLimit(t *testing.T, helper *util.TestHelper) {
	fs, err := newMockFs()
	require.NoError(t, err)
	defer fs.cleanup()

	ref := randomFile("file")
	require.NoError(t, createFile(source, ref)(fs))

	proc, err := helper.Start(context.Background(), fs.source, fs.replica, "1", fs.logPath,
		"--max-rounds", "2")
	require.NoError(t, err)

	exitCode, err := proc.Wait(exitTimeout)
	require.NoError(t, err)
	assert.Equal(t, 0, exitCode)
	assert.Equal(t, 1, strings.Count(proc.Stdout(), "File file copied to replica"))
	assert.Equal(t, 2, strings.Count(proc.Stdout(), "Sync finished."))
	assert.Contains(t, proc.Stdout(), "WARNING: Max rounds (2) hit. Ending process.")
	assert.NoError(t, shouldMatch(ref)(fs))
}

func testInterrupt(t *testing.T, helper *util.TestHelper) {
	fs, err := newMockFs()
	require.NoError(t, err)
	defer fs.cleanup()

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	proc, err := helper.Start(ctx, fs.source, fs.replica, "3600", fs.logPath)
	require.NoError(t, err)
	require.NoError(t, proc.WaitForOutput(ctx, "Sync finished."))

	// Leave the directories out of sync before interrupting.
	require.NoError(t, createFile(source, randomFile("late-file"))(fs))
	proc.Interrupt()

	exitCode, err := proc.Wait(exitTimeout)
	require.NoError(t, err)
	assert.Equal(t, 0, exitCode)
	assert.Contains(t, proc.Stdout(), "Sync interrupted by user.")
	assert.Contains(t, proc.Stdout(), "WARNING: Process ended with unsynchronized directories!")

	logContents, err := fs.readLog()
	require.NoError(t, err)
	assert.Contains(t, logContents, `msg="Sync interrupted by user."`)
}

func testMissingReplica(t *testing.T, helper *util.TestHelper) {
	fs, err := newMockFs()
	require.NoError(t, err)
	defer fs.cleanup()
	require.NoError(t, os.Remove(fs.replica))

	proc, err := helper.Start(context.Background(), fs.source, fs.replica, "1", fs.logPath)
	require.NoError(t, err)

	exitCode, err := proc.Wait(exitTimeout)
	require.NoError(t, err)
	assert.Equal(t, 1, exitCode)
	assert.Contains(t, proc.Stderr(), "The replica directory")
}

func waitFor(ctx context.Context, fs mockFs, check fsOp) error {
	var err error
	for {
		if err = check(fs); err == nil {
			return nil
		}

		select {
		case <-ctx.Done():
			return errors.WithContext(err, "timed out")
		case <-time.After(100 * time.Millisecond):
		}
	}
}
