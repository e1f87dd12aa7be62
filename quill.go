package quill

import (
	"math"

	"github.com/hajimehoshi/ebiten/v2"
)

// Color represents an RGBA color with components in [0, 1]. Not premultiplied.
// Premultiplication occurs when a draw call builds its vertex buffer.
type Color struct {
	R, G, B, A float64
}

// ColorWhite is the default widget tint.
var ColorWhite = Color{1, 1, 1, 1}

// Vec2 is a 2D vector used for positions, UVs, sizes, and offsets.
type Vec2 struct {
	X, Y float64
}

// Mul returns the component-wise product of v and o.
func (v Vec2) Mul(o Vec2) Vec2 {
	return Vec2{v.X * o.X, v.Y * o.Y}
}

// Vec3 is a vertex position. Z is carried through transforms untouched.
type Vec3 struct {
	X, Y, Z float64
}

// normalized returns v scaled to unit length, or v itself when zero.
func (v Vec3) normalized() Vec3 {
	l := math.Sqrt(v.X*v.X + v.Y*v.Y + v.Z*v.Z)
	if l == 0 {
		return v
	}
	return Vec3{v.X / l, v.Y / l, v.Z / l}
}

// Vec4 holds tangents (XYZ + handedness in W) and clip ranges
// (center X, center Y, half width, half height).
type Vec4 struct {
	X, Y, Z, W float64
}

// Rect is an axis-aligned rectangle. In texture space the origin is the
// top-left corner with Y increasing downward.
type Rect struct {
	X, Y, Width, Height float64
}

// MaxX returns the right edge.
func (r Rect) MaxX() float64 { return r.X + r.Width }

// MaxY returns the bottom edge.
func (r Rect) MaxY() float64 { return r.Y + r.Height }

// BlendMode selects how a material composites onto the target.
type BlendMode uint8

const (
	BlendNormal   BlendMode = iota // source-over (standard alpha blending)
	BlendAdd                       // additive / lighter
	BlendMultiply                  // multiply (source * destination; only darkens)
	BlendNone                      // opaque copy (skip blending)
)

// EbitenBlend returns the ebiten.Blend value corresponding to this BlendMode.
func (b BlendMode) EbitenBlend() ebiten.Blend {
	switch b {
	case BlendAdd:
		return ebiten.BlendLighter
	case BlendMultiply:
		return ebiten.Blend{
			BlendFactorSourceRGB:        ebiten.BlendFactorDestinationColor,
			BlendFactorSourceAlpha:      ebiten.BlendFactorDestinationAlpha,
			BlendFactorDestinationRGB:   ebiten.BlendFactorOneMinusSourceAlpha,
			BlendFactorDestinationAlpha: ebiten.BlendFactorOneMinusSourceAlpha,
			BlendOperationRGB:           ebiten.BlendOperationAdd,
			BlendOperationAlpha:         ebiten.BlendOperationAdd,
		}
	case BlendNone:
		return ebiten.BlendCopy
	default:
		return ebiten.BlendSourceOver
	}
}

// ClipMode selects how a panel clips its widgets. Any mode other than
// ClipNone also enables CPU-side culling of widgets outside the clip rect.
type ClipMode uint8

const (
	ClipNone  ClipMode = iota // no clipping, no culling
	ClipHard                  // pixels outside the rect are discarded
	ClipAlpha                 // like ClipHard, also discards nearly transparent pixels
	ClipSoft                  // alpha fades out over ClipSoftness pixels at the edges
)

var clipModeNames = [...]string{"none", "hard", "alpha", "soft"}

// String returns the lower-case name used in configuration files.
func (m ClipMode) String() string {
	if int(m) < len(clipModeNames) {
		return clipModeNames[m]
	}
	return "unknown"
}

// Pivot selects the anchor point a widget's geometry is positioned around.
type Pivot uint8

const (
	PivotTopLeft Pivot = iota
	PivotTop
	PivotTopRight
	PivotLeft
	PivotCenter
	PivotRight
	PivotBottomLeft
	PivotBottom
	PivotBottomRight
)

// Offset returns the pivot offset in widget-relative units. Widget geometry
// spans (0,0)-(1,-1) before the offset is applied, so PivotCenter yields
// (-0.5, 0.5) and PivotTopLeft leaves the geometry untouched.
func (p Pivot) Offset() Vec2 {
	var v Vec2
	switch p {
	case PivotTop, PivotCenter, PivotBottom:
		v.X = -0.5
	case PivotTopRight, PivotRight, PivotBottomRight:
		v.X = -1
	}
	switch p {
	case PivotLeft, PivotCenter, PivotRight:
		v.Y = 0.5
	case PivotBottomLeft, PivotBottom, PivotBottomRight:
		v.Y = 1
	}
	return v
}
