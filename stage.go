package quill

import (
	"fmt"
	"image/color"
	"slices"

	"github.com/hajimehoshi/ebiten/v2"
)

// RunConfig holds optional configuration for Run.
type RunConfig struct {
	Title      string
	Width      int
	Height     int
	Background Color
	ShowFPS    bool
}

// Stage is an ebiten.Game that ticks and draws every panel below its root
// transform once per frame, and advances registered tweens.
//
// The root sits at the screen center with Y pointing up, so a widget at
// (0, 0) under it is drawn in the middle of the window.
type Stage struct {
	root       *Transform
	tweens     []*TweenGroup
	update     func() error
	background Color
	width      int
	height     int

	panels []*Panel

	fps        *Label
	fpsElapsed float64
}

// NewStage creates a stage with an empty root transform.
func NewStage(name string) *Stage {
	return &Stage{
		root:       NewTransform(name),
		background: Color{0, 0, 0, 1},
		width:      defaultScreenWidth,
		height:     defaultScreenHeight,
	}
}

// Root returns the stage's root transform.
func (s *Stage) Root() *Transform {
	return s.root
}

// SetUpdateFunc sets a callback run at the start of every Update.
func (s *Stage) SetUpdateFunc(fn func() error) {
	s.update = fn
}

// SetBackground sets the color the screen is cleared to.
func (s *Stage) SetBackground(c Color) {
	s.background = c
}

// AddTween registers a tween to be advanced every Update. Finished tweens
// are dropped.
func (s *Stage) AddTween(g *TweenGroup) {
	s.tweens = append(s.tweens, g)
}

// Panels returns every panel in the root's subtree in depth-first order.
func (s *Stage) Panels() []*Panel {
	s.panels = collectPanels(s.root, s.panels[:0])
	return s.panels
}

func collectPanels(t *Transform, dst []*Panel) []*Panel {
	if t.panel != nil {
		dst = append(dst, t.panel)
	}
	for _, c := range t.children {
		dst = collectPanels(c, dst)
	}
	return dst
}

// Update implements ebiten.Game.
func (s *Stage) Update() error {
	if s.update != nil {
		if err := s.update(); err != nil {
			return err
		}
	}

	dt := 1 / float64(ebiten.TPS())
	for _, g := range s.tweens {
		g.Update(float32(dt))
	}
	s.tweens = slices.DeleteFunc(s.tweens, func(g *TweenGroup) bool { return g.Done })

	if s.fps != nil {
		s.updateFPS(dt)
	}

	s.Tick()
	return nil
}

// Tick runs one frame on every panel without advancing tweens.
func (s *Stage) Tick() {
	for _, p := range s.Panels() {
		p.Tick()
	}
}

// Draw implements ebiten.Game.
func (s *Stage) Draw(screen *ebiten.Image) {
	c := s.background
	screen.Fill(color.NRGBA{
		R: uint8(c.R * 255),
		G: uint8(c.G * 255),
		B: uint8(c.B * 255),
		A: uint8(c.A * 255),
	})
	for _, p := range s.panels {
		p.Draw(screen)
	}
}

// Layout implements ebiten.Game. It centers the root and passes the screen
// size on to every panel.
func (s *Stage) Layout(outsideWidth, outsideHeight int) (int, int) {
	if outsideWidth != s.width || outsideHeight != s.height {
		s.width, s.height = outsideWidth, outsideHeight
	}
	w, h := float64(s.width), float64(s.height)
	s.root.X, s.root.Y = w/2, -h/2
	for _, p := range s.Panels() {
		p.SetScreenSize(w, h)
	}
	if s.fps != nil {
		s.fps.Transform().SetPosition(-w/2+4, h/2-4)
	}
	return s.width, s.height
}

// ShowFPS adds a label in the top-left corner showing FPS and TPS.
func (s *Stage) ShowFPS() error {
	if s.fps != nil {
		return nil
	}
	t := NewTransform("fps")
	s.root.AddChild(t)
	f := NewFont(nil)
	t.SetScale(float64(f.CharSize()), float64(f.CharSize()))

	l := NewLabel(f, "")
	l.SetPivot(PivotTopLeft)
	l.SetDepth(1 << 20)
	if err := Attach(t, l); err != nil {
		t.Dispose()
		return err
	}
	s.fps = l
	s.fpsElapsed = 0.5
	return nil
}

func (s *Stage) updateFPS(dt float64) {
	s.fpsElapsed += dt
	if s.fpsElapsed < 0.5 {
		return
	}
	s.fpsElapsed = 0
	s.fps.SetText(fmt.Sprintf("FPS: %.1f\nTPS: %.1f", ebiten.ActualFPS(), ebiten.ActualTPS()))
}

// Run creates a window and runs the stage as an Ebitengine game.
func Run(s *Stage, cfg RunConfig) error {
	if cfg.Title != "" {
		ebiten.SetWindowTitle(cfg.Title)
	}
	if cfg.Width > 0 && cfg.Height > 0 {
		ebiten.SetWindowSize(cfg.Width, cfg.Height)
		s.width, s.height = cfg.Width, cfg.Height
	}
	if cfg.Background != (Color{}) {
		s.background = cfg.Background
	}
	if cfg.ShowFPS {
		if err := s.ShowFPS(); err != nil {
			return err
		}
	}
	return ebiten.RunGame(s)
}
