/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package command

import (
	"log/slog"

	"vectoredit/internal/scene"
)

// ArrangeType is a z-order move. The end of a child list is the front.
type ArrangeType int

const (
	ArrangeFront ArrangeType = iota
	ArrangeBack
	ArrangeForward
	ArrangeBackward
)

func (t ArrangeType) String() string {
	switch t {
	case ArrangeFront:
		return "Bring to front"
	case ArrangeBack:
		return "Send to back"
	case ArrangeForward:
		return "Bring forward"
	case ArrangeBackward:
		return "Send backward"
	}
	return "Arrange"
}

func towardFront(t ArrangeType) bool { return t == ArrangeFront || t == ArrangeForward }

// ShouldExecCmd reports whether arranging moved within siblings changes
// anything. It is false when the moved ids already fill the contiguous run
// at the target end.
func ShouldExecCmd(t ArrangeType, siblings []string, moved map[string]bool) bool {
	k := 0
	for _, id := range siblings {
		if moved[id] {
			k++
		}
	}
	if k == 0 {
		return false
	}
	run := siblings[:k]
	if towardFront(t) {
		run = siblings[len(siblings)-k:]
	}
	for _, id := range run {
		if !moved[id] {
			return true
		}
	}
	return false
}

// Arrange returns the new sibling order. Front and Back keep the relative
// order of both the moved and the untouched siblings. Forward and Backward
// move each moved sibling one step with adjacent swaps, walking from the
// target end so a moved run already at that end stays put.
func Arrange(t ArrangeType, siblings []string, moved map[string]bool) []string {
	out := make([]string, 0, len(siblings))
	switch t {
	case ArrangeFront, ArrangeBack:
		var still, move []string
		for _, id := range siblings {
			if moved[id] {
				move = append(move, id)
			} else {
				still = append(still, id)
			}
		}
		if t == ArrangeFront {
			out = append(append(out, still...), move...)
		} else {
			out = append(append(out, move...), still...)
		}
	case ArrangeForward:
		out = append(out, siblings...)
		for i := len(out) - 2; i >= 0; i-- {
			if moved[out[i]] && !moved[out[i+1]] {
				out[i], out[i+1] = out[i+1], out[i]
			}
		}
	case ArrangeBackward:
		out = append(out, siblings...)
		for i := 1; i < len(out); i++ {
			if moved[out[i]] && !moved[out[i-1]] {
				out[i], out[i-1] = out[i-1], out[i]
			}
		}
	}
	return out
}

// ShouldArrange runs ShouldExecCmd for every parent the nodes live in.
func ShouldArrange(doc *scene.Document, t ArrangeType, nodes []*scene.Node) bool {
	for _, g := range groupByParent(doc, nodes) {
		if ShouldExecCmd(t, g.parent.ChildIDs(), g.moved) {
			return true
		}
	}
	return false
}

type parentGroup struct {
	parent *scene.Node
	moved  map[string]bool
}

func groupByParent(doc *scene.Document, nodes []*scene.Node) []parentGroup {
	var groups []parentGroup
	idx := make(map[string]int)
	for _, n := range nodes {
		p := doc.Parent(n)
		if p == nil {
			continue
		}
		i, ok := idx[p.ID]
		if !ok {
			i = len(groups)
			idx[p.ID] = i
			groups = append(groups, parentGroup{parent: p, moved: make(map[string]bool)})
		}
		groups[i].moved[n.ID] = true
	}
	return groups
}

type arrangeGroup struct {
	parentID string
	moved    map[string]bool
	prev     []string
}

// ArrangeCmd reorders siblings per parent and restores the exact prior
// child lists on undo.
type ArrangeCmd struct {
	doc    *scene.Document
	t      ArrangeType
	groups []arrangeGroup
}

// NewArrangeCmd groups nodes by parent. Callers check ShouldArrange first
// so no-op arranges never reach history.
func NewArrangeCmd(doc *scene.Document, t ArrangeType, nodes []*scene.Node) (*ArrangeCmd, error) {
	gs := groupByParent(doc, nodes)
	if len(gs) == 0 {
		return nil, ErrNoElements
	}
	c := &ArrangeCmd{doc: doc, t: t}
	for _, g := range gs {
		c.groups = append(c.groups, arrangeGroup{parentID: g.parent.ID, moved: g.moved, prev: g.parent.ChildIDs()})
	}
	return c, nil
}

func (c *ArrangeCmd) Desc() string { return c.t.String() }

func (c *ArrangeCmd) Redo() {
	for i, g := range c.groups {
		parent, ok := c.doc.Node(g.parentID)
		if !ok {
			logger("redo").Warn("stale parent reference, arrange skipped", slog.String("id", g.parentID))
			continue
		}
		c.groups[i].prev = parent.ChildIDs()
		c.setOrder(parent, Arrange(c.t, c.groups[i].prev, g.moved), "redo")
	}
}

func (c *ArrangeCmd) Undo() {
	for i := len(c.groups) - 1; i >= 0; i-- {
		g := c.groups[i]
		parent, ok := c.doc.Node(g.parentID)
		if !ok {
			logger("undo").Warn("stale parent reference, arrange skipped", slog.String("id", g.parentID))
			continue
		}
		c.setOrder(parent, g.prev, "undo")
	}
}

func (c *ArrangeCmd) setOrder(parent *scene.Node, ids []string, op string) {
	nodes, ok := resolve(c.doc, c.Desc(), op, ids)
	if !ok {
		return
	}
	if err := c.doc.SetChildren(parent, nodes); err != nil {
		logger(op).Warn("children changed since arrange, skipped", slog.String("parent", parent.ID), slog.Any("err", err))
	}
}
