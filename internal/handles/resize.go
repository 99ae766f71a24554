/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package handles

import (
	"vectoredit/internal/scene"
	"vectoredit/internal/vector"
)

type target struct {
	n     *scene.Node
	world vector.Affine2D
	w, h  float64
}

func targetsOf(doc *scene.Document, nodes []*scene.Node) []target {
	out := make([]target, len(nodes))
	for i, n := range nodes {
		out[i] = target{n: n, world: doc.WorldTransform(n), w: n.Width, h: n.Height}
	}
	return out
}

// Resizer applies a resize drag to the selected nodes, their descendants
// and the auto-fit frames above them. Every Apply starts again from the
// pre-drag state, so drags never accumulate error.
type Resizer struct {
	doc     *scene.Document
	handle  vector.HandleType
	box     vector.OrientedBox
	line    *scene.Node
	tops    []*scene.Node
	targets []target
	snap    *Snapshot
}

// NewResizer captures the pre-drag state. box is the selection box the
// handle belongs to.
func NewResizer(doc *scene.Document, nodes []*scene.Node, box vector.OrientedBox, handle vector.HandleType) *Resizer {
	tops := topLevel(doc, nodes)
	var all []*scene.Node
	for _, t := range tops {
		all = append(all, t)
		all = append(all, doc.Descendants(t)...)
	}
	r := &Resizer{
		doc:     doc,
		handle:  handle,
		box:     box,
		tops:    tops,
		targets: targetsOf(doc, all),
		snap:    Capture(append(all, fitScope(doc, tops)...), resizeMask()),
	}
	if len(tops) == 1 && tops[0].IsLineLike() {
		r.line = tops[0]
	}
	return r
}

// Apply resizes to dragPoint (world) and returns the resize the selection
// box underwent.
func (r *Resizer) Apply(dragPoint vector.Pt, opts vector.ResizeOptions) vector.ResizeResult {
	r.snap.Restore()
	if r.line != nil {
		return r.applyLine(dragPoint)
	}
	res := vector.ResizeRect(r.handle, dragPoint, r.box, opts)
	if res.ScaleX == 1 && res.ScaleY == 1 {
		return res
	}
	// targets are in pre-order, so a parent is placed before its children
	for _, t := range r.targets {
		setWorld(r.doc, t.n, t.w, t.h, res.Prepended.Mul(t.world))
		sx, sy := 1.0, 1.0
		if t.w != 0 {
			sx = t.n.Width / t.w
		}
		if t.h != 0 {
			sy = t.n.Height / t.h
		}
		t.n.ScalePayload(sx, sy)
	}
	fitAll(r.doc, r.tops)
	return res
}

func (r *Resizer) applyLine(dragPoint vector.Pt) vector.ResizeResult {
	lr := vector.ResizeLine(r.handle, dragPoint, r.box)
	setWorld(r.doc, r.line, lr.Length, 0, lr.Transform)
	fitAll(r.doc, r.tops)
	sx := 1.0
	if r.box.Width != 0 {
		sx = lr.Length / r.box.Width
	}
	out := vector.ResizeResult{
		ScaleX:    sx,
		ScaleY:    1,
		Width:     lr.Length,
		Box:       vector.OrientedBox{Width: lr.Length, Transform: lr.Transform},
		Prepended: vector.Identity,
	}
	if inv, ok := r.box.Transform.Invert(); ok {
		out.Prepended = lr.Transform.Mul(vector.Scale(sx, 1)).Mul(inv)
	}
	return out
}

// Cancel restores the pre-drag state.
func (r *Resizer) Cancel() { r.snap.Restore() }

// Changes reports the net effect so far.
func (r *Resizer) Changes() Changes { return r.snap.Changes() }
