/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package tool

import (
	"vectoredit/internal/editor"
	"vectoredit/internal/handles"
	"vectoredit/internal/refline"
	"vectoredit/internal/scene"
	"vectoredit/internal/vector"
)

type mode int

const (
	modeIdle mode = iota
	modeMove
	modeResize
	modeRotate
	modeMarquee
)

// Pointer selects, moves, resizes and rotates. What a drag does is decided
// in Start from what lies under the pointer: a selection handle, a node or
// empty canvas.
type Pointer struct {
	ctx   *editor.Context
	mode  mode
	start vector.Pt

	mover   *handles.Mover
	resizer *handles.Resizer
	rotator *handles.Rotator

	snap     *refline.Index
	startBox vector.Rect

	// Guides are the snap lines of the current move, for the renderer.
	Guides []refline.GuideLine
	// Marquee is the selection rectangle while dragging on empty canvas.
	Marquee vector.Rect
}

func NewPointer(ctx *editor.Context) *Pointer { return &Pointer{ctx: ctx} }

// Active reports a gesture in flight.
func (t *Pointer) Active() bool { return t.mode != modeIdle }

func (t *Pointer) Start(p vector.Pt, m Modifiers) {
	t.start = p
	ctx := t.ctx
	if h, ok := ctx.HitHandle(p); ok {
		box, _ := ctx.Sel.BBox()
		nodes := ctx.Sel.Items(true)
		if len(nodes) == 0 {
			return
		}
		if h.Type.IsRotate() {
			t.rotator = handles.NewRotator(ctx.Doc, nodes, box, p, ctx.RotationStep())
			t.begin(modeRotate)
		} else {
			t.resizer = handles.NewResizer(ctx.Doc, nodes, box, h.Type)
			t.begin(modeResize)
		}
		return
	}

	n := ctx.HitNode(p)
	if n == nil {
		if !m.Shift {
			ctx.Sel.Clear()
		}
		t.Marquee = vector.Rect{X: p.X, Y: p.Y}
		t.mode = modeMarquee
		return
	}
	switch {
	case m.Shift:
		ctx.Sel.ToggleItems([]*scene.Node{n})
		if !ctx.Sel.Has(n.ID) {
			return
		}
	case !ctx.Sel.Has(n.ID):
		ctx.Sel.SetItems([]*scene.Node{n})
	}
	nodes := ctx.Sel.Items(true)
	if len(nodes) == 0 {
		return
	}
	box, _ := ctx.Sel.BBox()
	t.startBox = box.AABB()
	t.snap = nil
	if ctx.Settings.SnapEnabled {
		t.snap = refline.Build(ctx.ReferenceBoxes())
	}
	t.mover = handles.NewMover(ctx.Doc, nodes)
	t.begin(modeMove)
}

func (t *Pointer) begin(md mode) {
	t.mode = md
	t.ctx.History.DisableRedoUndo()
}

func (t *Pointer) Drag(p vector.Pt, m Modifiers) {
	switch t.mode {
	case modeMove:
		dx, dy := p.X-t.start.X, p.Y-t.start.Y
		t.Guides = nil
		if t.snap != nil && !m.Alt {
			moving := t.startBox
			moving.X += dx
			moving.Y += dy
			res := t.snap.Snap(moving, t.ctx.SnapTolerance())
			dx += res.DX
			dy += res.DY
			t.Guides = res.Guides
		}
		t.mover.Apply(dx, dy)
	case modeResize:
		t.resizer.Apply(p, vector.ResizeOptions{
			KeepRatio:       m.Shift,
			ScaleFromCenter: m.Alt,
			Flip:            t.ctx.Settings.ResizeFlip,
			MinSize:         t.ctx.Settings.MinResizeSize,
		})
	case modeRotate:
		t.rotator.Apply(p, m.Shift)
	case modeMarquee:
		t.Marquee = vector.RectFromPoints(t.start, p)
	default:
		return
	}
	t.ctx.Render.RequestRender()
}

func (t *Pointer) End(p vector.Pt, m Modifiers) error {
	t.Drag(p, m)
	switch t.mode {
	case modeMove:
		return t.finish("Move", t.mover.Changes())
	case modeResize:
		return t.finish("Resize", t.resizer.Changes())
	case modeRotate:
		return t.finish("Rotate", t.rotator.Changes())
	case modeMarquee:
		found := t.ctx.Doc.NodesInRect(t.Marquee, scene.RectOptions{
			SkipLocked: true,
			NoDescend:  t.ctx.Sel.ParentIDSet(),
		})
		if m.Shift {
			t.ctx.Sel.ToggleItems(found)
		} else {
			t.ctx.Sel.SetItems(found)
		}
	}
	return nil
}

func (t *Pointer) finish(desc string, ch handles.Changes) error {
	t.ctx.History.EnableRedoUndo()
	t.mode = modeIdle
	return commit(t.ctx, desc, ch)
}

func (t *Pointer) AfterEnd() {
	t.mode = modeIdle
	t.mover, t.resizer, t.rotator = nil, nil, nil
	t.snap = nil
	t.Guides = nil
	t.Marquee = vector.Rect{}
	t.ctx.Render.RequestRender()
}

func (t *Pointer) Cancel() {
	switch t.mode {
	case modeMove:
		t.mover.Cancel()
	case modeResize:
		t.resizer.Cancel()
	case modeRotate:
		t.rotator.Cancel()
	}
	if t.mode == modeMove || t.mode == modeResize || t.mode == modeRotate {
		t.ctx.History.EnableRedoUndo()
	}
	t.AfterEnd()
}
