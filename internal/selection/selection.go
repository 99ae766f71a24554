/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package selection tracks the ordered set of selected node ids and derives
// the aggregate box, rotation and center the handles are built from.
package selection

import (
	"slices"

	"vectoredit/internal/event"
	"vectoredit/internal/scene"
	"vectoredit/internal/vector"
)

// Change is emitted after every mutation with the ids now selected.
type Change struct {
	IDs []string
}

// Selection is an ordered set of live node ids. It holds ids, not nodes, so
// a node deleted by history drops out on the next Prune.
type Selection struct {
	doc     *scene.Document
	ids     []string
	changed event.Emitter[Change]
}

func New(doc *scene.Document) *Selection { return &Selection{doc: doc} }

// OnChange subscribes fn and returns its unsubscribe function.
func (s *Selection) OnChange(fn func(Change)) (off func()) { return s.changed.On(fn) }

func (s *Selection) emit() { s.changed.Emit(Change{IDs: s.IDs()}) }

func (s *Selection) IDs() []string { return slices.Clone(s.ids) }

func (s *Selection) Len() int { return len(s.ids) }

func (s *Selection) Has(id string) bool { return slices.Contains(s.ids, id) }

// IsMulti reports more than one member.
func (s *Selection) IsMulti() bool { return len(s.ids) > 1 }

// Items returns the live members in selection order.
func (s *Selection) Items(excludeLocked bool) []*scene.Node {
	out := make([]*scene.Node, 0, len(s.ids))
	for _, id := range s.ids {
		n, ok := s.doc.Node(id)
		if !ok || !s.doc.IsLive(n) {
			continue
		}
		if excludeLocked && n.Lock {
			continue
		}
		out = append(out, n)
	}
	return out
}

// Single returns the only member, or nil.
func (s *Selection) Single() *scene.Node {
	items := s.Items(false)
	if len(items) != 1 {
		return nil
	}
	return items[0]
}

func (s *Selection) selectable(n *scene.Node) bool {
	return n != nil && n.Kind != scene.KindCanvas && s.doc.IsLive(n)
}

// SetItems replaces the selection. Canvases, detached nodes and duplicates
// are dropped.
func (s *Selection) SetItems(nodes []*scene.Node) {
	s.ids = s.ids[:0]
	for _, n := range nodes {
		if s.selectable(n) && !s.Has(n.ID) {
			s.ids = append(s.ids, n.ID)
		}
	}
	s.emit()
}

// ToggleItems removes members that are in nodes and appends the rest.
func (s *Selection) ToggleItems(nodes []*scene.Node) {
	for _, n := range nodes {
		if n == nil {
			continue
		}
		if i := slices.Index(s.ids, n.ID); i >= 0 {
			s.ids = slices.Delete(s.ids, i, i+1)
		} else if s.selectable(n) {
			s.ids = append(s.ids, n.ID)
		}
	}
	s.emit()
}

func (s *Selection) Clear() {
	s.ids = nil
	s.emit()
}

// Prune drops members that are no longer live and notifies if any were.
func (s *Selection) Prune() bool {
	kept := s.ids[:0]
	for _, id := range s.ids {
		if n, ok := s.doc.Node(id); ok && s.doc.IsLive(n) {
			kept = append(kept, id)
		}
	}
	if len(kept) == len(s.ids) {
		return false
	}
	s.ids = kept
	if len(s.ids) == 0 {
		s.ids = nil
	}
	s.emit()
	return true
}

// BBox is the box handles are drawn around. One member keeps its own
// oriented box; several give the axis-aligned union of their AABBs.
func (s *Selection) BBox() (vector.OrientedBox, bool) {
	items := s.Items(false)
	switch len(items) {
	case 0:
		return vector.OrientedBox{}, false
	case 1:
		return s.doc.Box(items[0]), true
	}
	rects := make([]vector.Rect, len(items))
	for i, n := range items {
		rects[i] = s.doc.BBox(n)
	}
	u, _ := vector.UnionAll(rects)
	return vector.BoxFromRect(u), true
}

// Rotation is the single member's world rotation, else 0.
func (s *Selection) Rotation() float64 {
	if n := s.Single(); n != nil {
		return s.doc.Box(n).Rotation()
	}
	return 0
}

// CenterPoint is the center of BBox.
func (s *Selection) CenterPoint() vector.Pt {
	b, ok := s.BBox()
	if !ok {
		return vector.Pt{}
	}
	return b.Center()
}

// ParentIDSet holds the ids of every ancestor of every member.
func (s *Selection) ParentIDSet() map[string]bool {
	set := make(map[string]bool)
	for _, n := range s.Items(false) {
		for _, a := range s.doc.Ancestors(n) {
			set[a.ID] = true
		}
	}
	return set
}
