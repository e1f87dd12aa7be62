package quill

// DrawCall receives the batched geometry of one material within a panel.
// Panels create draw calls lazily through their DrawCallFactory and dispose
// them when the material no longer contributes any vertices.
type DrawCall interface {
	Material() *Material

	// Set replaces the draw call's buffers. norms and tans are nil when the
	// panel does not generate normals. The slices are owned by the panel and
	// reused after Set returns, so implementations must copy what they keep.
	Set(verts []Vec3, norms []Vec3, tans []Vec4, uvs []Vec2, cols []Color)

	// SetClip configures clipping. rng is (center X, center Y, half width,
	// half height) in panel space.
	SetClip(mode ClipMode, rng Vec4, softness Vec2)

	// SetTransform sets the panel's local-to-world matrix.
	SetTransform(m [6]float64)

	Dispose()
}

// DrawCallFactory creates a draw call for a material.
type DrawCallFactory func(m *Material) DrawCall

// MeshDrawCall is a DrawCall that keeps a CPU-side copy of the last submitted
// buffers and clip state. It renders nothing on its own.
type MeshDrawCall struct {
	mat *Material

	Verts []Vec3
	Norms []Vec3
	Tans  []Vec4
	UVs   []Vec2
	Cols  []Color

	Clip      ClipMode
	ClipRange Vec4
	Softness  Vec2
	Transform [6]float64

	// SetCount is the number of times Set has been called.
	SetCount int
	disposed bool
}

// NewMeshDrawCall creates a MeshDrawCall. It satisfies DrawCallFactory.
func NewMeshDrawCall(m *Material) DrawCall {
	return newMeshDrawCall(m)
}

func newMeshDrawCall(m *Material) *MeshDrawCall {
	return &MeshDrawCall{mat: m, Transform: identityTransform}
}

// Material returns the draw call's material.
func (d *MeshDrawCall) Material() *Material {
	return d.mat
}

// Set copies the given buffers.
func (d *MeshDrawCall) Set(verts []Vec3, norms []Vec3, tans []Vec4, uvs []Vec2, cols []Color) {
	d.Verts = append(d.Verts[:0], verts...)
	d.UVs = append(d.UVs[:0], uvs...)
	d.Cols = append(d.Cols[:0], cols...)
	if norms == nil {
		d.Norms = d.Norms[:0]
		d.Tans = d.Tans[:0]
	} else {
		d.Norms = append(d.Norms[:0], norms...)
		d.Tans = append(d.Tans[:0], tans...)
	}
	d.SetCount++
}

// SetClip records the clip state.
func (d *MeshDrawCall) SetClip(mode ClipMode, rng Vec4, softness Vec2) {
	d.Clip = mode
	d.ClipRange = rng
	d.Softness = softness
}

// SetTransform records the panel transform.
func (d *MeshDrawCall) SetTransform(m [6]float64) {
	d.Transform = m
}

// Dispose releases the buffers.
func (d *MeshDrawCall) Dispose() {
	d.Verts, d.Norms, d.Tans, d.UVs, d.Cols = nil, nil, nil, nil, nil
	d.disposed = true
}

// IsDisposed reports whether Dispose has been called.
func (d *MeshDrawCall) IsDisposed() bool {
	return d.disposed
}
