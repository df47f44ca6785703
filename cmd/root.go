package cmd

import (
	"os"

	"github.com/masa604/Task---Folder-Sync/cmd/run"
	"github.com/masa604/Task---Folder-Sync/cmd/util"
	"github.com/masa604/Task---Folder-Sync/pkg/version"
)

// verboseLogKey is the environment variable used to enable verbose logging.
// When it's set to `true`, Debug events are logged, rather than just Info and
// above.
const verboseLogKey = "FOLDERSYNC_LOG_VERBOSE"

// Execute runs the main CLI process.
func Execute() {
	rootCmd := run.New(os.Getenv(verboseLogKey) == "true")
	rootCmd.Version = version.Version

	// HandleFatalError prints the error, so we silence errors here to avoid
	// double printing.
	rootCmd.SilenceErrors = true

	if err := rootCmd.Execute(); err != nil {
		util.HandleFatalError(err)
	}
}
