package main

import (
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/phanxgames/quill"
)

func newRootCmd() *cobra.Command {
	var verbose bool

	root := &cobra.Command{
		Use:   "quill",
		Short: "Inspect and benchmark quill panel layouts",
		Long: `Build a panel from a TOML layout, run it headless and report what it
batched.

Examples:
  quill dump testdata/window.toml                    # Widgets and draw calls after one tick
  quill bench testdata/window.toml --frames 1000     # Per-frame cost of an idle panel
  quill bench testdata/window.toml --animate title   # Same, with one node moving`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if verbose {
				quill.SetLogger(slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{
					Level: slog.LevelDebug,
				})))
			}
		},
	}
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log panel activity to stderr")

	root.AddCommand(newDumpCmd(), newBenchCmd())
	return root
}
