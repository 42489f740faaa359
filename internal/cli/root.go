// Package cli implements the moodlog command-line interface.
package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/moodlog/internal/catalog"
	"github.com/mesh-intelligence/moodlog/internal/prompt"
	"github.com/mesh-intelligence/moodlog/pkg/types"
)

// Exit codes.
const (
	exitSuccess   = 0
	exitUserError = 1
	exitSysError  = 2
)

// rootFlags holds global flag values accessible to all subcommands.
type rootFlags struct {
	configDir string
	dataDir   string
	backend   string
	logLevel  string
	jsonMode  bool
}

var flags rootFlags

// clock supplies "now" for entry defaults and calendar end dates.
var clock types.Clock = types.SystemClock

// NewRootCmd creates the top-level "moodlog" command with global flags
// and all subcommands registered.
func NewRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "moodlog",
		Short: "A daily feelings journal",
		Long: "moodlog records how you feel each day and turns the history into\n" +
			"statistics and a calendar heat-map.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.PersistentFlags().StringVar(&flags.configDir, "config-dir", "", "configuration directory (default: platform config dir)")
	root.PersistentFlags().StringVar(&flags.dataDir, "data-dir", "", "data directory (default: platform data dir)")
	root.PersistentFlags().StringVar(&flags.backend, "backend", "", "storage backend: json, sqlite or memory")
	root.PersistentFlags().StringVar(&flags.logLevel, "log-level", "", "log level: debug, info, warn or error")
	root.PersistentFlags().BoolVar(&flags.jsonMode, "json", false, "output in JSON format")

	root.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return usageError{err}
	})

	root.AddCommand(
		newVersionCmd(),
		newInitCmd(),
		newFeelingsCmd(),
		newRecordCmd(),
		newAddCmd(),
		newDeleteCmd(),
		newShowCmd(),
		newListCmd(),
		newStatsCmd(),
		newCalendarCmd(),
		newRenderCmd(),
		newServeCmd(),
	)

	return root
}

// Execute runs the root command and exits with the appropriate code.
func Execute() {
	root := NewRootCmd()
	err := root.Execute()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
	}
	os.Exit(exitCode(err))
}

// usageError marks a malformed command line.
type usageError struct{ err error }

func (e usageError) Error() string { return e.err.Error() }
func (e usageError) Unwrap() error { return e.err }

// withUsage wraps a positional-argument validator so its failures count as
// user errors.
func withUsage(args cobra.PositionalArgs) cobra.PositionalArgs {
	return func(cmd *cobra.Command, a []string) error {
		if err := args(cmd, a); err != nil {
			return usageError{err}
		}
		return nil
	}
}

// exitCode maps an error to a process exit code. Errors the user can fix by
// changing the input exit 1; everything else exits 2.
func exitCode(err error) int {
	if err == nil {
		return exitSuccess
	}
	var ue usageError
	switch {
	case errors.As(err, &ue),
		errors.Is(err, types.ErrValidation),
		errors.Is(err, types.ErrNotFound),
		catalog.IsInvalidFeeling(err),
		errors.Is(err, types.ErrBackendUnknown),
		errors.Is(err, prompt.ErrAborted):
		return exitUserError
	default:
		return exitSysError
	}
}
