package util

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os/exec"
	goSync "sync"
	"syscall"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/masa604/Task---Folder-Sync/pkg/errors"
	"github.com/masa604/Task---Folder-Sync/pkg/sync"
)

// TestHelper contains methods commonly used during integration tests.
type TestHelper struct {
	// Binary is the path to the foldersync binary under test.
	Binary string
}

// NewTestHelper creates a new TestHelper.
func NewTestHelper(binary string) *TestHelper {
	return &TestHelper{Binary: binary}
}

// Process is a running foldersync process.
type Process struct {
	stdout *syncBuffer
	stderr *syncBuffer
	cmd    *exec.Cmd
	done   chan struct{}
	err    error
}

// Start starts foldersync with the given arguments. The process is sent an
// interrupt when `ctx` is cancelled.
func (helper *TestHelper) Start(ctx context.Context, args ...string) (*Process, error) {
	cmd := exec.Command(helper.Binary, args...)
	proc := &Process{
		stdout: &syncBuffer{},
		stderr: &syncBuffer{},
		cmd:    cmd,
		done:   make(chan struct{}),
	}
	cmd.Stdout = proc.stdout
	cmd.Stderr = proc.stderr

	log.WithField("args", args).Info("Starting foldersync")
	if err := cmd.Start(); err != nil {
		return nil, errors.WithContext(err, "start")
	}

	go func() {
		proc.err = cmd.Wait()
		close(proc.done)
	}()

	go func() {
		select {
		case <-ctx.Done():
			proc.Interrupt()
		case <-proc.done:
		}
	}()
	return proc, nil
}

// Interrupt sends SIGINT to the process, like a user pressing Ctrl-C.
func (proc *Process) Interrupt() {
	if err := proc.cmd.Process.Signal(syscall.SIGINT); err != nil {
		log.WithError(err).Warn("Failed to interrupt foldersync")
	}
}

// Wait blocks until the process exits, and returns its exit code.
func (proc *Process) Wait(timeout time.Duration) (int, error) {
	select {
	case <-proc.done:
	case <-time.After(timeout):
		return 0, fmt.Errorf("timed out: stdout: %s, stderr: %s", proc.stdout, proc.stderr)
	}

	if proc.err == nil {
		return 0, nil
	}

	var exitErr *exec.ExitError
	if errors.As(proc.err, &exitErr) {
		return exitErr.ExitCode(), nil
	}
	return 0, errors.WithContext(proc.err, "wait")
}

// Stdout returns everything the process has printed so far.
func (proc *Process) Stdout() string {
	return proc.stdout.String()
}

// Stderr returns everything the process has printed to stderr so far.
func (proc *Process) Stderr() string {
	return proc.stderr.String()
}

// WaitForOutput blocks until the process prints `expOutput`, or `ctx`
// expires.
func (proc *Process) WaitForOutput(ctx context.Context, expOutput string) error {
	return poll(ctx, func() bool {
		return bytes.Contains(proc.stdout.Bytes(), []byte(expOutput))
	})
}

// WaitUntilSynced blocks until `replica` contains the same files as `source`.
func (helper *TestHelper) WaitUntilSynced(ctx context.Context, source, replica string) error {
	return poll(ctx, func() bool {
		return sync.IsSynced(osFs, source, replica, sync.Filter{})
	})
}

func poll(ctx context.Context, cond func() bool) error {
	ticker := time.NewTicker(100 * time.Millisecond)
	defer ticker.Stop()
	for {
		if cond() {
			return nil
		}

		select {
		case <-ctx.Done():
			return errors.New("cancelled")
		case <-ticker.C:
		}
	}
}

// syncBuffer is a bytes.Buffer that can be written by the process while the
// test reads it.
type syncBuffer struct {
	buf  bytes.Buffer
	lock goSync.Mutex
}

var _ io.Writer = &syncBuffer{}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.lock.Lock()
	defer b.lock.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) Bytes() []byte {
	b.lock.Lock()
	defer b.lock.Unlock()
	return append([]byte(nil), b.buf.Bytes()...)
}

func (b *syncBuffer) String() string {
	return string(b.Bytes())
}
