package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newDumpCmd() *cobra.Command {
	var ticks int

	cmd := &cobra.Command{
		Use:   "dump <layout.toml>",
		Short: "Tick a layout and print its widgets and draw calls",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if ticks < 1 {
				return fmt.Errorf("--ticks must be at least 1, got %d", ticks)
			}
			l, err := loadLayoutFile(args[0])
			if err != nil {
				return err
			}
			s, err := l.build()
			if err != nil {
				return err
			}
			for range ticks {
				s.panel.Tick()
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, titleStyle.Render("Widgets"))
			fmt.Fprintln(out, widgetTable(s))
			fmt.Fprintln(out, titleStyle.Render("Draw calls"))
			fmt.Fprintln(out, drawCallTable(s.panel))
			fmt.Fprintln(out, titleStyle.Render("Last tick"))
			fmt.Fprintln(out, statsTable(s.panel.Stats()))
			return nil
		},
	}
	cmd.Flags().IntVarP(&ticks, "ticks", "n", 1, "ticks to run before dumping")
	return cmd
}
