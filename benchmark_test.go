package quill

import (
	"math"
	"testing"
)

// setupBenchPanel creates a panel with n sprites spread over a grid, sharing
// one material. Sprites are grouped ten to a row transform.
func setupBenchPanel(b *testing.B, n int) (*Panel, []*Transform) {
	b.Helper()
	root := NewTransform("ui")
	p := NewPanel(root)
	p.SetDrawCallFactory(NewMeshDrawCall)
	mat := newTestMaterial("atlas")

	var rows, leaves []*Transform
	for i := range n {
		if i%10 == 0 {
			row := NewTransform("row")
			row.Y = float64(i/10) * 12
			root.AddChild(row)
			rows = append(rows, row)
		}
		t := NewTransform("sp")
		t.SetPosition(float64(i%10)*12, 0)
		t.SetScale(10, 10)
		rows[len(rows)-1].AddChild(t)
		if err := Attach(t, NewTextureSprite(mat)); err != nil {
			b.Fatal(err)
		}
		leaves = append(leaves, t)
	}
	p.Tick()
	return p, leaves
}

func BenchmarkTick_10000Sprites_Static(b *testing.B) {
	p, _ := setupBenchPanel(b, 10000)
	b.ReportAllocs()
	b.ResetTimer()
	for range b.N {
		p.Tick()
	}
}

func BenchmarkTick_10000Sprites_OneMoving(b *testing.B) {
	p, leaves := setupBenchPanel(b, 10000)
	t := leaves[len(leaves)/2]
	b.ReportAllocs()
	b.ResetTimer()
	for i := range b.N {
		t.X = float64(i % 100)
		p.Tick()
	}
}

func BenchmarkTick_10000Sprites_AllRotating(b *testing.B) {
	p, leaves := setupBenchPanel(b, 10000)
	b.ReportAllocs()
	b.ResetTimer()
	for i := range b.N {
		for _, t := range leaves {
			t.Rotation = float64(i) * 0.01
		}
		p.Tick()
	}
}

func BenchmarkTick_10000Sprites_HardClip(b *testing.B) {
	p, leaves := setupBenchPanel(b, 10000)
	p.SetClipping(ClipHard)
	p.SetClipRange(Vec4{0, 0, 400, 400})
	b.ReportAllocs()
	b.ResetTimer()
	for i := range b.N {
		leaves[0].Parent.X = 50 * math.Sin(float64(i)*0.1)
		p.Tick()
	}
}

func BenchmarkIsVisible(b *testing.B) {
	p, leaves := setupBenchPanel(b, 1)
	p.SetClipping(ClipHard)
	p.SetClipRange(Vec4{0, 0, 100, 100})
	w := leaves[0].Widget()
	b.ReportAllocs()
	b.ResetTimer()
	for range b.N {
		p.IsVisible(w)
	}
}
