package quill

import (
	"fmt"
	"strings"

	"github.com/BurntSushi/toml"
)

// PanelConfig holds the panel settings that can be loaded from TOML:
//
//	generate_normals = false
//	clipping = "soft"
//	clip_range = [0, 0, 300, 200]
//	clip_softness = [8, 8]
//	screen_width = 1280
//	screen_height = 720
//	half_pixel_offset = false
//	debug = false
//
// Keys that are absent leave the panel's current value untouched.
type PanelConfig struct {
	GenerateNormals *bool     `toml:"generate_normals"`
	Clipping        *ClipMode `toml:"clipping"`
	ClipRange       []float64 `toml:"clip_range"`
	ClipSoftness    []float64 `toml:"clip_softness"`
	ScreenWidth     float64   `toml:"screen_width"`
	ScreenHeight    float64   `toml:"screen_height"`
	HalfPixelOffset *bool     `toml:"half_pixel_offset"`
	Debug           *bool     `toml:"debug"`
}

// LoadPanelConfig decodes a PanelConfig from TOML text. Unknown keys and
// malformed ranges are errors.
func LoadPanelConfig(data string) (*PanelConfig, error) {
	cfg := &PanelConfig{}
	md, err := toml.Decode(data, cfg)
	if err != nil {
		return nil, fmt.Errorf("quill: panel config: %w", err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return nil, fmt.Errorf("quill: panel config: unknown keys %s", strings.Join(keys, ", "))
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *PanelConfig) validate() error {
	if c.ClipRange != nil && len(c.ClipRange) != 4 {
		return fmt.Errorf("quill: panel config: clip_range needs 4 values, got %d", len(c.ClipRange))
	}
	if c.ClipSoftness != nil && len(c.ClipSoftness) != 2 {
		return fmt.Errorf("quill: panel config: clip_softness needs 2 values, got %d", len(c.ClipSoftness))
	}
	if c.ScreenWidth < 0 || c.ScreenHeight < 0 {
		return fmt.Errorf("quill: panel config: negative screen size")
	}
	return nil
}

// ApplyConfig copies every setting present in cfg onto the panel.
func (p *Panel) ApplyConfig(cfg *PanelConfig) error {
	if err := cfg.validate(); err != nil {
		return err
	}
	if cfg.GenerateNormals != nil {
		p.SetGenerateNormals(*cfg.GenerateNormals)
	}
	if cfg.HalfPixelOffset != nil {
		p.HalfPixelOffset = *cfg.HalfPixelOffset
	}
	if cfg.Debug != nil {
		p.SetDebugMode(*cfg.Debug)
	}
	if cfg.ScreenWidth > 0 || cfg.ScreenHeight > 0 {
		w, h := p.ScreenSize()
		if cfg.ScreenWidth > 0 {
			w = cfg.ScreenWidth
		}
		if cfg.ScreenHeight > 0 {
			h = cfg.ScreenHeight
		}
		p.SetScreenSize(w, h)
	}
	if cfg.Clipping != nil {
		p.SetClipping(*cfg.Clipping)
	}
	if cfg.ClipRange != nil {
		r := cfg.ClipRange
		p.SetClipRange(Vec4{r[0], r[1], r[2], r[3]})
	}
	if cfg.ClipSoftness != nil {
		p.SetClipSoftness(Vec2{cfg.ClipSoftness[0], cfg.ClipSoftness[1]})
	}
	return nil
}

// MarshalText implements encoding.TextMarshaler.
func (m ClipMode) MarshalText() ([]byte, error) {
	return marshalName("clip mode", clipModeNames[:], int(m))
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (m *ClipMode) UnmarshalText(text []byte) error {
	i, err := unmarshalName("clip mode", clipModeNames[:], text)
	if err == nil {
		*m = ClipMode(i)
	}
	return err
}

var pivotNames = [...]string{
	"top-left", "top", "top-right",
	"left", "center", "right",
	"bottom-left", "bottom", "bottom-right",
}

// String returns the pivot's name, e.g. "top-left".
func (p Pivot) String() string {
	if int(p) < len(pivotNames) {
		return pivotNames[p]
	}
	return "unknown"
}

// MarshalText implements encoding.TextMarshaler.
func (p Pivot) MarshalText() ([]byte, error) {
	return marshalName("pivot", pivotNames[:], int(p))
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (p *Pivot) UnmarshalText(text []byte) error {
	i, err := unmarshalName("pivot", pivotNames[:], text)
	if err == nil {
		*p = Pivot(i)
	}
	return err
}

var blendModeNames = [...]string{"normal", "add", "multiply", "none"}

// String returns the blend mode's name.
func (b BlendMode) String() string {
	if int(b) < len(blendModeNames) {
		return blendModeNames[b]
	}
	return "unknown"
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (b *BlendMode) UnmarshalText(text []byte) error {
	i, err := unmarshalName("blend mode", blendModeNames[:], text)
	if err == nil {
		*b = BlendMode(i)
	}
	return err
}

var alignmentNames = [...]string{"left", "center", "right"}

// UnmarshalText implements encoding.TextUnmarshaler.
func (a *Alignment) UnmarshalText(text []byte) error {
	i, err := unmarshalName("alignment", alignmentNames[:], text)
	if err == nil {
		*a = Alignment(i)
	}
	return err
}

func marshalName(kind string, names []string, i int) ([]byte, error) {
	if i < 0 || i >= len(names) {
		return nil, fmt.Errorf("quill: unknown %s %d", kind, i)
	}
	return []byte(names[i]), nil
}

// unmarshalName matches text case-insensitively against names.
func unmarshalName(kind string, names []string, text []byte) (int, error) {
	s := strings.ToLower(string(text))
	for i, name := range names {
		if s == name {
			return i, nil
		}
	}
	return 0, fmt.Errorf("quill: unknown %s %q", kind, text)
}
