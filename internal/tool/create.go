/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package tool

import (
	"errors"
	"fmt"
	"log/slog"
	"math"

	"vectoredit/internal/command"
	"vectoredit/internal/editor"
	"vectoredit/internal/handles"
	"vectoredit/internal/scene"
	"vectoredit/internal/vector"
)

var ErrNotDrawable = errors.New("tool: kind cannot be drawn")

// Create draws a new node of one kind. The node is inserted on Start into
// the innermost container under the pointer and sized while dragging. A
// click without a drag creates nothing.
type Create struct {
	ctx  *editor.Context
	kind scene.Kind

	node   *scene.Node
	parent *scene.Node
	inv    vector.Affine2D
	start  vector.Pt
	fit    *handles.Snapshot
}

func NewCreate(ctx *editor.Context, kind scene.Kind) (*Create, error) {
	if !kind.Valid() || kind == scene.KindCanvas || kind == scene.KindPath {
		return nil, fmt.Errorf("%s: %w", kind, ErrNotDrawable)
	}
	return &Create{ctx: ctx, kind: kind}, nil
}

// Node is the node being drawn, nil when idle.
func (t *Create) Node() *scene.Node { return t.node }

func (t *Create) containerAt(p vector.Pt) *scene.Node {
	doc := t.ctx.Doc
	for n := doc.HitTest(p, scene.HitOptions{Tolerance: t.ctx.HitTolerance(), SkipLocked: true}); n != nil; n = doc.Parent(n) {
		if n.IsContainer() {
			return n
		}
	}
	return doc.CurrentCanvas()
}

func (t *Create) Start(p vector.Pt, _ Modifiers) {
	doc := t.ctx.Doc
	parent := t.containerAt(p)
	if parent == nil {
		return
	}
	t.parent = parent
	t.inv = doc.WorldTransform(parent).Inverse()
	t.start = p
	a := t.inv.Apply(p)
	n := doc.NewShape(t.kind, a.X, a.Y, 0, 0)
	if err := doc.Insert(parent, n, -1); err != nil {
		logger("create").Warn("insert failed", slog.String("kind", string(t.kind)), slog.Any("err", err))
		return
	}
	t.node = n
	var scope []*scene.Node
	for _, s := range doc.FitScope(n) {
		if s != n {
			scope = append(scope, s)
		}
	}
	t.fit = handles.Capture(scope, scene.GeometryAttrs())
	t.ctx.History.DisableRedoUndo()
}

func (t *Create) Drag(p vector.Pt, m Modifiers) {
	if t.node == nil {
		return
	}
	t.fit.Restore()
	a, b := t.inv.Apply(t.start), t.inv.Apply(p)
	if t.kind == scene.KindLine {
		angle := b.Angle(a)
		if m.Shift {
			step := math.Pi / 4
			angle = math.Round(angle/step) * step
		}
		t.node.Width, t.node.Height = a.Dist(b), 0
		t.node.Transform = vector.Translate(a.X, a.Y).Mul(vector.Rotate(angle))
	} else {
		if m.Shift {
			b = square(a, b)
		}
		if m.Alt {
			a = a.Sub(b.Sub(a))
		}
		r := vector.RectFromPoints(a, b)
		t.node.SetRect(r.X, r.Y, r.W, r.H, 0)
	}
	t.ctx.Doc.FitAncestors(t.node)
	t.ctx.Render.RequestRender()
}

// square moves b so the box from a is square, keeping the drag direction.
func square(a, b vector.Pt) vector.Pt {
	dx, dy := b.X-a.X, b.Y-a.Y
	side := math.Max(math.Abs(dx), math.Abs(dy))
	return vector.Pt{X: a.X + math.Copysign(side, dx), Y: a.Y + math.Copysign(side, dy)}
}

func (t *Create) End(p vector.Pt, m Modifiers) error {
	n := t.node
	if n == nil {
		return nil
	}
	t.Drag(p, m)
	t.ctx.History.EnableRedoUndo()
	doc := t.ctx.Doc
	minSize := t.ctx.Settings.MinResizeSize
	if n.Width < minSize && n.Height < minSize {
		t.discard()
		return nil
	}
	add, err := command.NewAddGraphicsCmd(doc, t.ctx.Sel, []*scene.Node{n})
	if err != nil {
		t.discard()
		return fmt.Errorf("create %s: %w", t.kind, err)
	}
	h := t.ctx.History
	h.BatchCommandStart("Create " + string(t.kind))
	h.PushCommand(add)
	if ch := t.fit.Changes(); !ch.Empty() {
		fit, err := command.NewSetAttrsCmd(doc, "Fit frame", ch.Nodes, ch.After, ch.Before)
		if err != nil {
			h.BatchCommandEnd()
			return fmt.Errorf("create %s: %w", t.kind, err)
		}
		h.PushCommand(fit)
	}
	h.BatchCommandEnd()
	t.ctx.Sel.SetItems([]*scene.Node{n})
	t.node = nil
	return nil
}

func (t *Create) discard() {
	t.fit.Restore()
	t.ctx.Doc.SetDeleted(t.node, true)
	t.ctx.Doc.RemoveFromParent(t.node)
	t.node = nil
}

func (t *Create) AfterEnd() {
	t.node, t.parent, t.fit = nil, nil, nil
	t.ctx.Render.RequestRender()
}

func (t *Create) Cancel() {
	if t.node != nil {
		t.ctx.History.EnableRedoUndo()
		t.discard()
	}
	t.AfterEnd()
}
