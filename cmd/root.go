// Package cmd implements the command-line front matter spec.md §1
// leaves to the CLI collaborator: flag parsing and the top-level run
// loop, grounded on CodeCracker-oss-Picocrypt-NG's internal/cli package
// (a package-level *cobra.Command plus SilenceErrors/SilenceUsage and
// a RunE calling into the real work).
package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"livetiming/presentation"
)

var (
	verboseCount int
	debug        bool
	filePath     string
	replay       bool
	keyOverride  string
	noKey        bool
)

var rootCmd = &cobra.Command{
	Use:   "live-f1",
	Short: "Formula 1 live timing terminal client",
	Long: `live-f1 connects to the Formula 1 live timing feed, decodes the
wire protocol, and renders car positions, gaps, and commentary in a
terminal UI.`,
	RunE:          runRoot,
	SilenceErrors: true,
	SilenceUsage:  true,
}

func init() {
	flags := rootCmd.Flags()
	flags.CountVarP(&verboseCount, "verbose", "v", "increase logging verbosity (repeatable)")
	flags.BoolVarP(&debug, "debug", "d", false, "select the debug log level (packets are not logged individually)")
	flags.StringVarP(&filePath, "file", "f", "", "read the packet cache from this path instead of ~/.f1data")
	flags.BoolVarP(&replay, "replay", "r", false, "replay an existing packet cache instead of connecting live")
	flags.StringVar(&keyOverride, "key", "", "seed the decryption key directly, bypassing key recovery (debug)")
	flags.BoolVar(&noKey, "no-key", false, "treat the stream as unencrypted (debug)")
	rootCmd.CompletionOptions.DisableDefaultCmd = true
}

// Execute parses flags, runs the application, and returns the process
// exit code (spec.md §6.5: 0 success, 1 setup failure, 2 unrecoverable
// stream failure, 10 terminal too small).
func Execute(ctx context.Context, version string) int {
	rootCmd.Version = version

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		if code, ok := err.(exitError); ok {
			if code.message != "" {
				fmt.Fprintln(os.Stderr, code.message)
			}
			return code.code
		}
		fmt.Fprintln(os.Stderr, err)
		return presentation.ExitSetupFailure
	}
	return presentation.ExitSuccess
}

// exitError carries a specific process exit code out of RunE, since
// cobra itself only distinguishes "error" from "no error".
type exitError struct {
	code    int
	message string
}

func (e exitError) Error() string { return e.message }
