package main

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"math"
	"os"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/phanxgames/quill"
)

// layoutFile is the TOML description of one panel:
//
//	[panel]
//	clipping = "hard"
//	clip_range = [0.0, 0.0, 300.0, 200.0]
//
//	[[material]]
//	name = "ui"
//	width = 64
//	height = 64
//	border = [8.0, 8.0, 8.0, 8.0]
//
//	[[node]]
//	name = "window"
//	kind = "sliced"
//	material = "ui"
//	size = [200.0, 120.0]
//
//	[[node]]
//	name = "title"
//	parent = "window"
//	kind = "label"
//	text = "Hello"
type layoutFile struct {
	Panel     quill.PanelConfig `toml:"panel"`
	Materials []materialSpec    `toml:"material"`
	Nodes     []nodeSpec        `toml:"node"`
}

type materialSpec struct {
	Name        string          `toml:"name"`
	Width       int             `toml:"width"`
	Height      int             `toml:"height"`
	RenderQueue int             `toml:"render_queue"`
	Blend       quill.BlendMode `toml:"blend"`

	// Border is the 9-slice inset (left, top, right, bottom) in pixels.
	Border []float64 `toml:"border"`
}

type nodeSpec struct {
	Name     string    `toml:"name"`
	Parent   string    `toml:"parent"`
	Kind     string    `toml:"kind"`
	Material string    `toml:"material"`
	Position []float64 `toml:"position"`
	Size     []float64 `toml:"size"`
	Rotation float64   `toml:"rotation"` // degrees
	Active   *bool     `toml:"active"`

	Depth int          `toml:"depth"`
	Pivot *quill.Pivot `toml:"pivot"`
	Color []float64    `toml:"color"`

	Text      string          `toml:"text"`
	Align     quill.Alignment `toml:"align"`
	LineWidth int             `toml:"line_width"`
}

// Node kinds.
const (
	kindGroup  = "group"
	kindSprite = "sprite"
	kindSliced = "sliced"
	kindLabel  = "label"
)

const defaultTextureSize = 64

func loadLayoutFile(path string) (*layoutFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return parseLayout(string(data))
}

// parseLayout decodes a layout, rejecting unknown keys.
func parseLayout(data string) (*layoutFile, error) {
	l := &layoutFile{}
	md, err := toml.Decode(data, l)
	if err != nil {
		return nil, fmt.Errorf("layout: %w", err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return nil, fmt.Errorf("layout: unknown keys %s", strings.Join(keys, ", "))
	}
	return l, nil
}

// scene is a built layout: a panel plus its transforms, by name.
type scene struct {
	root    *quill.Transform
	panel   *quill.Panel
	nodes   map[string]*quill.Transform
	widgets []sceneWidget
}

type sceneWidget struct {
	kind   string
	trans  *quill.Transform
	widget quill.Widget
}

// build creates the panel and every node. Draw calls record their buffers on
// the CPU so the result can be inspected without a window.
func (l *layoutFile) build() (*scene, error) {
	root := quill.NewTransform("layout")
	p := quill.NewPanel(root)
	p.SetDrawCallFactory(quill.NewMeshDrawCall)
	if err := p.ApplyConfig(&l.Panel); err != nil {
		return nil, err
	}

	atlas, err := l.buildAtlas()
	if err != nil {
		return nil, err
	}

	s := &scene{root: root, panel: p, nodes: make(map[string]*quill.Transform)}
	var font *quill.Font
	for i, spec := range l.Nodes {
		if spec.Name == "" {
			return nil, fmt.Errorf("layout: node %d has no name", i)
		}
		if _, dup := s.nodes[spec.Name]; dup {
			return nil, fmt.Errorf("layout: duplicate node %q", spec.Name)
		}
		parent := root
		if spec.Parent != "" {
			var ok bool
			if parent, ok = s.nodes[spec.Parent]; !ok {
				return nil, fmt.Errorf("layout: node %q: unknown parent %q", spec.Name, spec.Parent)
			}
		}

		t, err := spec.transform()
		if err != nil {
			return nil, err
		}
		parent.AddChild(t)
		s.nodes[spec.Name] = t

		var w quill.Widget
		switch spec.Kind {
		case "", kindGroup:
			continue
		case kindSprite:
			w, err = quill.NewSprite(atlas, spec.Material)
		case kindSliced:
			w, err = quill.NewSlicedSprite(atlas, spec.Material)
		case kindLabel:
			if font == nil {
				font = quill.NewFont(nil)
			}
			lbl := quill.NewLabel(font, spec.Text)
			lbl.SetAlignment(spec.Align)
			lbl.SetLineWidth(spec.LineWidth)
			w = lbl
		default:
			return nil, fmt.Errorf("layout: node %q: unknown kind %q", spec.Name, spec.Kind)
		}
		if err != nil {
			return nil, fmt.Errorf("layout: node %q: %w", spec.Name, err)
		}
		if err := spec.applyWidget(w); err != nil {
			return nil, err
		}
		if err := quill.Attach(t, w); err != nil {
			return nil, fmt.Errorf("layout: node %q: %w", spec.Name, err)
		}
		if len(spec.Size) == 0 {
			switch w := w.(type) {
			case *quill.SlicedSprite:
				r := w.Region()
				t.SetScale(r.Outer.Width, r.Outer.Height)
			case interface{ MakePixelPerfect() }:
				w.MakePixelPerfect()
			}
		}
		s.widgets = append(s.widgets, sceneWidget{kind: spec.Kind, trans: t, widget: w})
	}
	return s, nil
}

// buildAtlas creates one blank texture per material, with a single region
// named after the material covering the whole texture.
func (l *layoutFile) buildAtlas() (*quill.Atlas, error) {
	var pages []*quill.Material
	var regions []quill.SpriteRegion
	seen := make(map[string]bool)
	for i, m := range l.Materials {
		if m.Name == "" {
			return nil, fmt.Errorf("layout: material %d has no name", i)
		}
		if seen[m.Name] {
			return nil, fmt.Errorf("layout: duplicate material %q", m.Name)
		}
		seen[m.Name] = true

		w, h := m.Width, m.Height
		if w <= 0 {
			w = defaultTextureSize
		}
		if h <= 0 {
			h = defaultTextureSize
		}
		img := image.NewRGBA(image.Rect(0, 0, w, h))
		draw.Draw(img, img.Bounds(), image.NewUniform(color.White), image.Point{}, draw.Src)

		mat := quill.NewMaterial(m.Name, img)
		mat.RenderQueue = m.RenderQueue
		mat.Blend = m.Blend

		outer := quill.Rect{Width: float64(w), Height: float64(h)}
		inner := outer
		if m.Border != nil {
			if len(m.Border) != 4 {
				return nil, fmt.Errorf("layout: material %q: border needs 4 values, got %d", m.Name, len(m.Border))
			}
			b := m.Border
			inner = quill.Rect{X: b[0], Y: b[1], Width: float64(w) - b[0] - b[2], Height: float64(h) - b[1] - b[3]}
			if inner.Width < 0 || inner.Height < 0 {
				return nil, fmt.Errorf("layout: material %q: border larger than texture", m.Name)
			}
		}
		regions = append(regions, quill.SpriteRegion{Name: m.Name, Page: len(pages), Outer: outer, Inner: inner})
		pages = append(pages, mat)
	}
	return quill.NewAtlas(pages, regions...)
}

func (n *nodeSpec) transform() (*quill.Transform, error) {
	t := quill.NewTransform(n.Name)
	if n.Position != nil {
		if len(n.Position) != 2 {
			return nil, fmt.Errorf("layout: node %q: position needs 2 values", n.Name)
		}
		t.SetPosition(n.Position[0], n.Position[1])
	}
	if n.Size != nil {
		if len(n.Size) != 2 {
			return nil, fmt.Errorf("layout: node %q: size needs 2 values", n.Name)
		}
		t.SetScale(n.Size[0], n.Size[1])
	}
	t.Rotation = n.Rotation * math.Pi / 180
	if n.Active != nil {
		t.SetActive(*n.Active)
	}
	return t, nil
}

func (n *nodeSpec) applyWidget(w quill.Widget) error {
	b := w.Base()
	if n.Pivot != nil {
		b.SetPivot(*n.Pivot)
	}
	b.SetDepth(n.Depth)
	if n.Color != nil {
		c := n.Color
		switch len(c) {
		case 3:
			b.SetColor(quill.Color{R: c[0], G: c[1], B: c[2], A: 1})
		case 4:
			b.SetColor(quill.Color{R: c[0], G: c[1], B: c[2], A: c[3]})
		default:
			return fmt.Errorf("layout: node %q: color needs 3 or 4 values", n.Name)
		}
	}
	return nil
}

// find returns the transform with the given node name.
func (s *scene) find(name string) (*quill.Transform, error) {
	t, ok := s.nodes[name]
	if !ok {
		return nil, fmt.Errorf("no node named %q", name)
	}
	return t, nil
}
