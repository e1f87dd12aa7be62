// Package quill batches the geometry of retained 2D UI widgets into draw
// calls for [Ebitengine].
//
// A [Panel] owns a subtree of [Transform] values. Once per frame its Tick
// finds the transforms that moved, refills the geometry of widgets that asked
// for it, culls widgets outside the panel's clip rectangle and merges every
// widget sharing a [Material] into a single [DrawCall].
//
// # Quick start
//
// The simplest way to get started is [Run], which creates a window and game
// loop that ticks and draws every panel below the stage root:
//
//	stage := quill.NewStage("ui")
//	t := quill.NewTransform("button")
//	t.SetScale(120, 40)
//	stage.Root().AddChild(t)
//	quill.Attach(t, quill.NewTextureSprite(mat))
//	quill.Run(stage, quill.RunConfig{Title: "UI", Width: 640, Height: 480})
//
// For full control, create a panel with [NewPanel] and call [Panel.Tick] and
// [Panel.Draw] from your own [ebiten.Game].
//
// # Coordinates
//
// Panel space has Y pointing up. Widget geometry spans (0,0)-(1,-1) before
// the pivot offset is applied, and the transform's scale turns that into
// pixels. The stage root sits at the screen center.
//
// # Change detection
//
// Transform fields may be written directly. Each tick a panel compares every
// tracked transform against its previous state, so only moved widgets are
// transformed again and only materials with changed widgets are re-batched.
// A frame in which nothing changed does no batching work; see [FrameStats].
//
// # Widgets
//
// [Sprite], [SlicedSprite] and [Label] cover atlas sprites, 9-sliced frames
// and bitmap text. Custom widgets embed [WidgetBase] and implement OnFill.
// Tweens of transforms and widget colors are built on [gween].
//
// [Ebitengine]: https://ebitengine.org
// [gween]: https://github.com/tanema/gween
package quill
