package main

import (
	"fmt"
	"strconv"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/phanxgames/quill"
)

var (
	titleStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("63"))
	headerStyle = lipgloss.NewStyle().Bold(true).Padding(0, 1)
	cellStyle   = lipgloss.NewStyle().Padding(0, 1)
	numberStyle = cellStyle.Align(lipgloss.Right)
	hiddenStyle = cellStyle.Foreground(lipgloss.Color("243"))
	borderStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("238"))
)

// newTable returns a table whose columns listed in numeric are right-aligned.
func newTable(headers []string, numeric ...int) *table.Table {
	right := make(map[int]bool, len(numeric))
	for _, c := range numeric {
		right[c] = true
	}
	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(borderStyle).
		Headers(headers...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == table.HeaderRow:
				return headerStyle
			case right[col]:
				return numberStyle
			}
			return cellStyle
		})
}

func visibleText(flag int) string {
	switch flag {
	case 1:
		return "yes"
	case 0:
		return "no"
	}
	return "?"
}

// widgetTable lists the panel's widgets in draw order.
func widgetTable(s *scene) string {
	kinds := make(map[quill.Widget]string, len(s.widgets))
	for _, sw := range s.widgets {
		kinds[sw.widget] = sw.kind
	}

	t := newTable([]string{"Widget", "Kind", "Material", "Depth", "Pivot", "Position", "Size", "Visible"}, 3)
	var hidden []int
	for i, w := range s.panel.Widgets() {
		b := w.Base()
		tr := b.Transform()
		mat := "-"
		if m := b.Material(); m != nil {
			mat = m.Name
		}
		if b.VisibleFlag() != 1 {
			hidden = append(hidden, i)
		}
		t.Row(
			tr.Path(),
			kinds[w],
			mat,
			strconv.Itoa(b.Depth()),
			b.Pivot().String(),
			fmt.Sprintf("%.1f, %.1f", tr.X, tr.Y),
			fmt.Sprintf("%.1f × %.1f", tr.ScaleX, tr.ScaleY),
			visibleText(b.VisibleFlag()),
		)
	}
	if len(hidden) > 0 {
		dim := make(map[int]bool, len(hidden))
		for _, i := range hidden {
			dim[i] = true
		}
		t.StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == table.HeaderRow:
				return headerStyle
			case dim[row]:
				return hiddenStyle
			case col == 3:
				return numberStyle
			}
			return cellStyle
		})
	}
	return t.Render()
}

// drawCallTable lists the panel's draw calls in render order.
func drawCallTable(p *quill.Panel) string {
	t := newTable([]string{"#", "Material", "Queue", "Blend", "Vertices", "Triangles", "Clip"}, 0, 2, 4, 5)
	for i, dc := range p.DrawCalls() {
		verts := 0
		clip := "-"
		if m, ok := dc.(*quill.MeshDrawCall); ok {
			verts = len(m.Verts)
			clip = m.Clip.String()
			if m.Clip != quill.ClipNone {
				r := m.ClipRange
				clip = fmt.Sprintf("%s (%.0f, %.0f ± %.0f, %.0f)", clip, r.X, r.Y, r.Z, r.W)
			}
		}
		mat := dc.Material()
		t.Row(
			strconv.Itoa(i),
			mat.Name,
			strconv.Itoa(mat.RenderQueue),
			mat.Blend.String(),
			strconv.Itoa(verts),
			strconv.Itoa(verts/4*2),
			clip,
		)
	}
	return t.Render()
}

// statsTable shows the counters of one tick.
func statsTable(st quill.FrameStats) string {
	t := newTable([]string{"Frame " + strconv.Itoa(st.Frame), "Count"}, 1)
	for _, row := range []struct {
		name string
		n    int
	}{
		{"nodes tracked", st.NodesTracked},
		{"nodes changed", st.NodesChanged},
		{"nodes removed", st.NodesRemoved},
		{"widgets", st.Widgets},
		{"widgets rebuilt", st.WidgetsRebuilt},
		{"widgets transformed", st.WidgetsTransformed},
		{"materials filled", st.MaterialsFilled},
		{"vertices batched", st.VerticesBatched},
		{"draw calls", st.DrawCalls},
	} {
		t.Row(row.name, strconv.Itoa(row.n))
	}
	return t.Render()
}

// benchTable summarizes a benchmark run.
func benchTable(r benchResult) string {
	t := newTable([]string{"Metric", "Total", "Per frame"}, 1, 2)
	per := func(n int) string {
		if r.Frames == 0 {
			return "0"
		}
		return strconv.FormatFloat(float64(n)/float64(r.Frames), 'f', 2, 64)
	}
	t.Row("frames", strconv.Itoa(r.Frames), "")
	t.Row("idle frames", strconv.Itoa(r.Idle), per(r.Idle))
	t.Row("widgets rebuilt", strconv.Itoa(r.Rebuilt), per(r.Rebuilt))
	t.Row("widgets transformed", strconv.Itoa(r.Transformed), per(r.Transformed))
	t.Row("materials filled", strconv.Itoa(r.Filled), per(r.Filled))
	t.Row("vertices batched", strconv.Itoa(r.Vertices), per(r.Vertices))
	t.Row("tick time", r.Elapsed.Round(time.Microsecond).String(), r.perFrame().String())
	return t.Render()
}
