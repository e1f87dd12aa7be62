package main

import (
	"fmt"
	"math"
	"time"

	"github.com/spf13/cobra"

	"github.com/phanxgames/quill"
)

type benchResult struct {
	Frames      int
	Idle        int
	Rebuilt     int
	Transformed int
	Filled      int
	Vertices    int
	Elapsed     time.Duration
}

func (r benchResult) perFrame() time.Duration {
	if r.Frames == 0 {
		return 0
	}
	return r.Elapsed / time.Duration(r.Frames)
}

// runBench ticks the scene frames times after one warm-up tick. Each animated
// transform sways horizontally around its starting position.
func runBench(s *scene, frames int, animate []*quill.Transform) benchResult {
	s.panel.Tick()

	base := make([]float64, len(animate))
	for i, t := range animate {
		base[i] = t.X
	}

	var r benchResult
	for f := range frames {
		for i, t := range animate {
			t.X = base[i] + 10*math.Sin(float64(f+1)*0.1)
		}
		start := time.Now()
		s.panel.Tick()
		r.Elapsed += time.Since(start)

		st := s.panel.Stats()
		if st.Idle() {
			r.Idle++
		}
		r.Rebuilt += st.WidgetsRebuilt
		r.Transformed += st.WidgetsTransformed
		r.Filled += st.MaterialsFilled
		r.Vertices += st.VerticesBatched
	}
	r.Frames = frames
	return r
}

func newBenchCmd() *cobra.Command {
	var (
		frames  int
		animate []string
	)

	cmd := &cobra.Command{
		Use:   "bench <layout.toml>",
		Short: "Tick a layout repeatedly and report the work done per frame",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if frames < 1 {
				return fmt.Errorf("--frames must be at least 1, got %d", frames)
			}
			l, err := loadLayoutFile(args[0])
			if err != nil {
				return err
			}
			s, err := l.build()
			if err != nil {
				return err
			}
			var moving []*quill.Transform
			for _, name := range animate {
				t, err := s.find(name)
				if err != nil {
					return err
				}
				moving = append(moving, t)
			}

			r := runBench(s, frames, moving)
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, titleStyle.Render(fmt.Sprintf("%s: %d widgets, %d draw calls",
				args[0], len(s.panel.Widgets()), len(s.panel.DrawCalls()))))
			fmt.Fprintln(out, benchTable(r))
			return nil
		},
	}
	cmd.Flags().IntVarP(&frames, "frames", "f", 300, "frames to tick")
	cmd.Flags().StringSliceVarP(&animate, "animate", "a", nil, "nodes to move every frame")
	return cmd
}
