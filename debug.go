package quill

import "time"

// FrameStats describes the work one Panel.Tick did. Counters are always
// collected; timings only in debug mode.
type FrameStats struct {
	Frame int

	NodesTracked int
	NodesChanged int
	NodesRemoved int
	Widgets      int

	WidgetsRebuilt     int
	WidgetsTransformed int

	MaterialsFilled int
	VerticesBatched int
	DrawCalls       int

	TransformTime time.Duration
	WidgetTime    time.Duration
	FillTime      time.Duration
}

// Total returns the summed phase timings.
func (s FrameStats) Total() time.Duration {
	return s.TransformTime + s.WidgetTime + s.FillTime
}

// Idle reports whether the tick found nothing to do.
func (s FrameStats) Idle() bool {
	return s.NodesChanged == 0 && s.NodesRemoved == 0 &&
		s.WidgetsRebuilt == 0 && s.WidgetsTransformed == 0 && s.MaterialsFilled == 0
}

// SetDebugMode enables phase timings and per-tick debug logging.
func (p *Panel) SetDebugMode(enabled bool) {
	p.debug = enabled
}

// Stats returns the statistics of the most recent Tick.
func (p *Panel) Stats() FrameStats {
	return p.stats
}

// debugLog writes the last tick's stats to the package logger.
func (p *Panel) debugLog() {
	s := p.stats
	logger.Debug("panel tick",
		"panel", p.trans.Name,
		"frame", s.Frame,
		"nodes", s.NodesTracked,
		"changed", s.NodesChanged,
		"removed", s.NodesRemoved,
		"rebuilt", s.WidgetsRebuilt,
		"transformed", s.WidgetsTransformed,
		"materials", s.MaterialsFilled,
		"vertices", s.VerticesBatched,
		"drawcalls", s.DrawCalls,
		"transform", s.TransformTime,
		"widgets", s.WidgetTime,
		"fill", s.FillTime,
		"total", s.Total(),
	)
}

// debugMaxTreeDepth is the hierarchy depth above which AddWidget warns in
// debug mode.
const debugMaxTreeDepth = 32

func (p *Panel) debugCheckTreeDepth(t *Transform) {
	depth := 0
	for c := t; c != nil; c = c.Parent {
		depth++
	}
	if depth > debugMaxTreeDepth {
		logger.Warn("deep widget hierarchy", "widget", t.Path(), "depth", depth, "threshold", debugMaxTreeDepth)
	}
}
