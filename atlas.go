package quill

import (
	"encoding/json"
	"errors"
	"fmt"
	"image"
	"strconv"
)

// ErrRegionNotFound is returned when an atlas has no region with the
// requested name.
var ErrRegionNotFound = errors.New("quill: atlas region not found")

// SpriteRegion describes one sprite inside an atlas page, in page pixels with
// the origin at the top-left corner.
type SpriteRegion struct {
	Name string
	Page int

	// Outer is the sprite's full rectangle. Inner is the center area used by
	// 9-slicing; it equals Outer for sprites without borders.
	Outer Rect
	Inner Rect

	// Rotated is true if the sprite is stored 90 degrees clockwise in the page.
	Rotated bool
}

// HasBorder reports whether the region defines 9-slice borders.
func (r SpriteRegion) HasBorder() bool {
	return r.Inner != r.Outer
}

// Atlas holds one material per atlas page and a map of named regions.
type Atlas struct {
	// Pages contains one material per page, indexed by page number.
	Pages   []*Material
	regions map[string]SpriteRegion
}

// Region returns the named region.
func (a *Atlas) Region(name string) (SpriteRegion, error) {
	r, ok := a.regions[name]
	if !ok {
		return SpriteRegion{}, fmt.Errorf("%w: %q", ErrRegionNotFound, name)
	}
	return r, nil
}

// Material returns the material of the region's page.
func (a *Atlas) Material(r SpriteRegion) *Material {
	if r.Page < 0 || r.Page >= len(a.Pages) {
		return nil
	}
	return a.Pages[r.Page]
}

// Len returns the number of regions.
func (a *Atlas) Len() int {
	return len(a.regions)
}

// NewAtlas builds an atlas from materials and regions created in code.
func NewAtlas(pages []*Material, regions ...SpriteRegion) (*Atlas, error) {
	a := &Atlas{Pages: pages, regions: make(map[string]SpriteRegion, len(regions))}
	for _, r := range regions {
		if r.Page < 0 || r.Page >= len(pages) {
			return nil, fmt.Errorf("quill: atlas region %q references page %d, have %d", r.Name, r.Page, len(pages))
		}
		if r.Inner == (Rect{}) {
			r.Inner = r.Outer
		}
		a.regions[r.Name] = r
	}
	return a, nil
}

// LoadAtlas parses TexturePacker JSON data and creates a material for each of
// the given page images. Supports both the hash format (single "frames"
// object) and the array format ("textures" array with per-page frame lists).
//
// Each frame may carry an optional "inner" rectangle in page pixels that
// defines the center of a 9-sliced sprite.
func LoadAtlas(jsonData []byte, pages []image.Image) (*Atlas, error) {
	var probe struct {
		Frames   json.RawMessage `json:"frames"`
		Textures json.RawMessage `json:"textures"`
		Meta     struct {
			Image string `json:"image"`
		} `json:"meta"`
	}
	if err := json.Unmarshal(jsonData, &probe); err != nil {
		return nil, fmt.Errorf("quill: failed to parse atlas JSON: %w", err)
	}

	atlas := &Atlas{regions: make(map[string]SpriteRegion)}
	names := []string{probe.Meta.Image}

	switch {
	case probe.Textures != nil:
		var err error
		if names, err = parseArrayFormat(probe.Textures, atlas); err != nil {
			return nil, err
		}
	case probe.Frames != nil:
		if err := parseHashFrames(probe.Frames, 0, atlas); err != nil {
			return nil, err
		}
	default:
		return nil, errors.New("quill: atlas JSON has neither \"frames\" nor \"textures\" key")
	}

	for i, img := range pages {
		name := "page" + strconv.Itoa(i)
		if i < len(names) && names[i] != "" {
			name = names[i]
		}
		atlas.Pages = append(atlas.Pages, NewMaterial(name, img))
	}
	for name, r := range atlas.regions {
		if r.Page >= len(atlas.Pages) {
			return nil, fmt.Errorf("quill: atlas region %q references page %d, have %d", name, r.Page, len(atlas.Pages))
		}
	}
	return atlas, nil
}

// --- JSON structure types ---

type jsonRect struct {
	X int `json:"x"`
	Y int `json:"y"`
	W int `json:"w"`
	H int `json:"h"`
}

func (r jsonRect) rect() Rect {
	return Rect{float64(r.X), float64(r.Y), float64(r.W), float64(r.H)}
}

type jsonFrame struct {
	Frame   jsonRect  `json:"frame"`
	Rotated bool      `json:"rotated"`
	Inner   *jsonRect `json:"inner"`
}

type jsonTexturePage struct {
	Image  string               `json:"image"`
	Frames map[string]jsonFrame `json:"frames"`
}

// parseHashFrames parses the hash format: {"name": {frame...}, ...}
func parseHashFrames(raw json.RawMessage, page int, atlas *Atlas) error {
	var frames map[string]jsonFrame
	if err := json.Unmarshal(raw, &frames); err != nil {
		return fmt.Errorf("quill: failed to parse atlas frames: %w", err)
	}
	for name, f := range frames {
		r, err := frameToRegion(name, f, page)
		if err != nil {
			return err
		}
		atlas.regions[name] = r
	}
	return nil
}

// parseArrayFormat parses the array format: [{"image":"...", "frames":{...}}, ...]
// and returns the page image names.
func parseArrayFormat(raw json.RawMessage, atlas *Atlas) ([]string, error) {
	var textures []jsonTexturePage
	if err := json.Unmarshal(raw, &textures); err != nil {
		return nil, fmt.Errorf("quill: failed to parse atlas textures array: %w", err)
	}
	names := make([]string, len(textures))
	for i, tex := range textures {
		names[i] = tex.Image
		for name, f := range tex.Frames {
			r, err := frameToRegion(name, f, i)
			if err != nil {
				return nil, err
			}
			atlas.regions[name] = r
		}
	}
	return names, nil
}

func frameToRegion(name string, f jsonFrame, page int) (SpriteRegion, error) {
	r := SpriteRegion{
		Name:    name,
		Page:    page,
		Outer:   f.Frame.rect(),
		Rotated: f.Rotated,
	}
	r.Inner = r.Outer
	if f.Inner != nil {
		in := f.Inner.rect()
		if in.X < r.Outer.X || in.Y < r.Outer.Y || in.MaxX() > r.Outer.MaxX() || in.MaxY() > r.Outer.MaxY() {
			return SpriteRegion{}, fmt.Errorf("quill: atlas region %q: inner rect outside frame", name)
		}
		r.Inner = in
	}
	return r, nil
}
