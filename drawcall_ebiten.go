package quill

import (
	"image"

	"github.com/hajimehoshi/ebiten/v2"
)

// clipShaderSrc clips fragments against a panel-space rectangle. The vertex
// position in panel space arrives in custom.xy; ClipRange is (center, half
// size) and ClipSharpness is half size divided by softness.
const clipShaderSrc = `//kage:unit pixels
package main

var ClipRange vec4
var ClipSharpness vec2
var Mode float

func Fragment(dst vec4, src vec2, color vec4, custom vec4) vec4 {
	c := imageSrc0At(src) * color
	p := (custom.xy - ClipRange.xy) / ClipRange.zw
	if Mode > 2.5 {
		f := (vec2(1) - abs(p)) * ClipSharpness
		return c * clamp(min(f.x, f.y), 0, 1)
	}
	if abs(p.x) > 1 || abs(p.y) > 1 {
		discard()
	}
	if Mode > 1.5 && c.a < 0.01 {
		discard()
	}
	return c
}
`

// Lazy shader compilation (no sync.Once; quill is single-threaded).
var clipShader *ebiten.Shader

func ensureClipShader() *ebiten.Shader {
	if clipShader == nil {
		s, err := ebiten.NewShader([]byte(clipShaderSrc))
		if err != nil {
			panic("quill: failed to compile clip shader: " + err.Error())
		}
		clipShader = s
	}
	return clipShader
}

// EbitenDrawCall draws a panel's batch for one material with Ebitengine.
// Quads become two triangles each; world Y is flipped so that panel space
// (Y up) maps onto screen space (Y down).
type EbitenDrawCall struct {
	MeshDrawCall

	verts []ebiten.Vertex
	inds  []uint32
	dirty bool

	img   *ebiten.Image
	src   image.Image
	owned bool

	triOp    ebiten.DrawTrianglesOptions
	shaderOp ebiten.DrawTrianglesShaderOptions
}

// NewEbitenDrawCall creates an EbitenDrawCall. It satisfies DrawCallFactory
// and is the default for new panels.
func NewEbitenDrawCall(m *Material) DrawCall {
	return &EbitenDrawCall{MeshDrawCall: *newMeshDrawCall(m), dirty: true}
}

// Set stores the buffers and schedules a vertex rebuild.
func (d *EbitenDrawCall) Set(verts []Vec3, norms []Vec3, tans []Vec4, uvs []Vec2, cols []Color) {
	d.MeshDrawCall.Set(verts, norms, tans, uvs, cols)
	d.dirty = true
}

// SetTransform stores the panel transform and schedules a vertex rebuild.
func (d *EbitenDrawCall) SetTransform(m [6]float64) {
	if d.Transform != m {
		d.MeshDrawCall.SetTransform(m)
		d.dirty = true
	}
}

// Dispose releases the buffers and any texture the draw call uploaded.
func (d *EbitenDrawCall) Dispose() {
	d.MeshDrawCall.Dispose()
	d.verts, d.inds = nil, nil
	d.releaseImage()
}

func (d *EbitenDrawCall) releaseImage() {
	if d.owned && d.img != nil {
		d.img.Deallocate()
	}
	d.img, d.src, d.owned = nil, nil, false
}

// Vertices returns the triangle vertices, rebuilding them if needed.
func (d *EbitenDrawCall) Vertices() ([]ebiten.Vertex, []uint32) {
	if d.dirty {
		d.buildVertices()
	}
	return d.verts, d.inds
}

// buildVertices converts the retained quads to screen-space triangles.
func (d *EbitenDrawCall) buildVertices() {
	d.dirty = false
	d.verts = d.verts[:0]
	d.inds = d.inds[:0]

	tw, th := d.mat.TextureSize()
	m := d.Transform
	for i, v := range d.Verts {
		x, y := transformPoint(m, v.X, v.Y)
		c := d.Cols[i]
		uv := d.UVs[i]
		d.verts = append(d.verts, ebiten.Vertex{
			DstX:    float32(x),
			DstY:    float32(-y),
			SrcX:    float32(uv.X * float64(tw)),
			SrcY:    float32(uv.Y * float64(th)),
			ColorR:  float32(c.R * c.A),
			ColorG:  float32(c.G * c.A),
			ColorB:  float32(c.B * c.A),
			ColorA:  float32(c.A),
			Custom0: float32(v.X),
			Custom1: float32(v.Y),
		})
	}

	for q := 0; q+3 < len(d.Verts); q += 4 {
		base := uint32(q)
		d.inds = append(d.inds, base, base+1, base+2, base, base+2, base+3)
	}
}

// texture returns the material's texture as an *ebiten.Image, uploading it
// the first time and whenever the material's texture changes.
func (d *EbitenDrawCall) texture() *ebiten.Image {
	tex := d.mat.Texture
	if tex == nil {
		return nil
	}
	if tex == d.src && d.img != nil {
		return d.img
	}
	d.releaseImage()
	d.src = tex
	if eimg, ok := tex.(*ebiten.Image); ok {
		d.img = eimg
	} else {
		d.img = ebiten.NewImageFromImage(tex)
		d.owned = true
	}
	return d.img
}

// Draw renders the batch onto target.
func (d *EbitenDrawCall) Draw(target *ebiten.Image) {
	verts, inds := d.Vertices()
	if len(inds) == 0 {
		return
	}
	img := d.texture()
	if img == nil {
		return
	}

	if d.Clip == ClipNone {
		d.triOp.Blend = d.mat.Blend.EbitenBlend()
		d.triOp.ColorScaleMode = ebiten.ColorScaleModePremultipliedAlpha
		target.DrawTriangles32(verts, inds, img, &d.triOp)
		return
	}

	d.shaderOp.Blend = d.mat.Blend.EbitenBlend()
	d.shaderOp.Images[0] = img
	d.shaderOp.Uniforms = d.clipUniforms()
	target.DrawTrianglesShader32(verts, inds, ensureClipShader(), &d.shaderOp)
}

// clipUniforms returns the shader uniforms for the current clip state.
func (d *EbitenDrawCall) clipUniforms() map[string]any {
	r := d.ClipRange
	sharp := [2]float32{1e6, 1e6}
	if d.Softness.X > 0 {
		sharp[0] = float32(r.Z / d.Softness.X)
	}
	if d.Softness.Y > 0 {
		sharp[1] = float32(r.W / d.Softness.Y)
	}
	return map[string]any{
		"ClipRange":     []float32{float32(r.X), float32(r.Y), float32(r.Z), float32(r.W)},
		"ClipSharpness": sharp[:],
		"Mode":          float32(d.Clip),
	}
}
