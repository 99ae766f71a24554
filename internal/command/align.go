/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package command

import (
	"fmt"
	"slices"

	"vectoredit/internal/handles"
	"vectoredit/internal/scene"
	"vectoredit/internal/vector"
)

type AlignType int

const (
	AlignLeft AlignType = iota
	AlignHCenter
	AlignRight
	AlignTop
	AlignVCenter
	AlignBottom
)

func (t AlignType) String() string {
	return [...]string{"Align left", "Align horizontal centers", "Align right", "Align top", "Align vertical centers", "Align bottom"}[t]
}

// AlignCmd moves nodes so their world AABBs line up with the union box.
// Deltas are computed once at construction. A node inside another selected
// node only gets the part of its delta the ancestor's move does not already
// cover. Auto-fit ancestors are refit, and Undo restores the recorded
// geometry of every node the command may write.
type AlignCmd struct {
	doc    *scene.Document
	t      AlignType
	ids    []string // ancestors before descendants
	deltas []vector.Pt
	scope  []string
	prev   []scene.Attrs
}

func NewAlignCmd(doc *scene.Document, t AlignType, nodes []*scene.Node) (*AlignCmd, error) {
	if len(nodes) < 2 {
		return nil, fmt.Errorf("align needs 2 elements, got %d: %w", len(nodes), ErrTooFewElements)
	}
	nodes = slices.Clone(nodes)
	slices.SortStableFunc(nodes, func(a, b *scene.Node) int {
		return len(doc.Ancestors(a)) - len(doc.Ancestors(b))
	})
	boxes := make([]vector.Rect, len(nodes))
	for i, n := range nodes {
		boxes[i] = doc.BBox(n)
	}
	u, _ := vector.UnionAll(boxes)
	want := make(map[string]vector.Pt, len(nodes))
	c := &AlignCmd{doc: doc, t: t, ids: idsOf(nodes)}
	for i, n := range nodes {
		b := boxes[i]
		var d vector.Pt
		switch t {
		case AlignLeft:
			d.X = u.X - b.X
		case AlignHCenter:
			d.X = u.MidX() - b.MidX()
		case AlignRight:
			d.X = u.MaxX() - b.MaxX()
		case AlignTop:
			d.Y = u.Y - b.Y
		case AlignVCenter:
			d.Y = u.MidY() - b.MidY()
		case AlignBottom:
			d.Y = u.MaxY() - b.MaxY()
		}
		want[n.ID] = d
		applied := d
		for _, a := range doc.Ancestors(n) {
			if ad, ok := want[a.ID]; ok {
				applied = vector.Pt{X: d.X - ad.X, Y: d.Y - ad.Y}
				break
			}
		}
		c.deltas = append(c.deltas, applied)
	}
	seen := make(map[string]bool)
	mask := scene.GeometryAttrs()
	for _, n := range nodes {
		for _, m := range append([]*scene.Node{n}, doc.FitScope(n)...) {
			if seen[m.ID] {
				continue
			}
			seen[m.ID] = true
			c.scope = append(c.scope, m.ID)
			c.prev = append(c.prev, m.AttrsLike(mask))
		}
	}
	return c, nil
}

// Empty reports that every node is already aligned.
func (c *AlignCmd) Empty() bool {
	for _, d := range c.deltas {
		if d.X != 0 || d.Y != 0 {
			return false
		}
	}
	return true
}

func (c *AlignCmd) Desc() string { return c.t.String() }

func (c *AlignCmd) Redo() {
	nodes, ok := resolve(c.doc, c.Desc(), "redo", c.ids)
	if !ok {
		return
	}
	scope, ok := resolve(c.doc, c.Desc(), "redo", c.scope)
	if !ok {
		return
	}
	c.restore(scope)
	for i, n := range nodes {
		if d := c.deltas[i]; d.X != 0 || d.Y != 0 {
			handles.MoveWorld(c.doc, n, d.X, d.Y)
		}
	}
	for _, n := range nodes {
		c.doc.FitAncestors(n)
	}
}

func (c *AlignCmd) Undo() {
	scope, ok := resolve(c.doc, c.Desc(), "undo", c.scope)
	if !ok {
		return
	}
	c.restore(scope)
}

func (c *AlignCmd) restore(scope []*scene.Node) {
	for i, n := range scope {
		n.UpdateAttrs(c.prev[i])
	}
}
