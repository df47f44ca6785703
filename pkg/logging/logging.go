// Package logging sets up the log of a sync run. Every message goes to an
// append-only log file, and Info or more severe messages are also printed to
// the console.
package logging

import (
	"fmt"
	"io"
	"os"
	goSync "sync"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/afero"

	"github.com/masa604/Task---Folder-Sync/pkg/errors"
)

// RunField is the field that identifies which run wrote a log entry. Runs
// append to the same file, so it's the only way to tell them apart.
const RunField = "run"

// Open creates a logger that appends to the file at `path`. The returned
// Closer closes the log file, and should be called once nothing else will be
// logged.
func Open(fs afero.Fs, path string, console io.Writer, verbose bool) (*log.Entry, io.Closer, error) {
	logFile, err := fs.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_APPEND, 0644)
	if err != nil {
		return nil, nil, errors.WithContext(err, "open log file")
	}

	logger := log.New()
	logger.SetOutput(logFile)
	logger.SetFormatter(&log.TextFormatter{
		// Show the full timestamp rather than the time elapsed since the
		// process started, since the file is shared between runs.
		FullTimestamp: true,

		// Disable colors since we're logging to a file.
		DisableColors: true,
	})

	logger.SetLevel(log.InfoLevel)
	if verbose {
		logger.SetLevel(log.DebugLevel)
	}

	if console != nil {
		logger.AddHook(&consoleHook{out: console})
	}
	return logger.WithField(RunField, uuid.New().String()), logFile, nil
}

// consoleHook prints the message of each entry to the console, without the
// timestamp and fields that are written to the log file.
type consoleHook struct {
	out  io.Writer
	lock goSync.Mutex
}

func (h *consoleHook) Levels() []log.Level {
	return []log.Level{
		log.PanicLevel,
		log.FatalLevel,
		log.ErrorLevel,
		log.WarnLevel,
		log.InfoLevel,
	}
}

func (h *consoleHook) Fire(entry *log.Entry) error {
	var prefix string
	switch entry.Level {
	case log.WarnLevel:
		prefix = "WARNING: "
	case log.ErrorLevel, log.FatalLevel, log.PanicLevel:
		prefix = "ERROR: "
	}

	msg := prefix + entry.Message
	if err, ok := entry.Data[log.ErrorKey].(error); ok {
		msg += fmt.Sprintf(" (%s)", err)
	}

	h.lock.Lock()
	defer h.lock.Unlock()
	_, err := fmt.Fprintln(h.out, msg)
	return err
}
