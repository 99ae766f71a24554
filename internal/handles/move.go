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

// Mover translates the selection by a world-space delta.
type Mover struct {
	doc  *scene.Document
	tops []*scene.Node
	orig []target
	snap *Snapshot
}

func NewMover(doc *scene.Document, nodes []*scene.Node) *Mover {
	tops := topLevel(doc, nodes)
	return &Mover{
		doc:  doc,
		tops: tops,
		orig: targetsOf(doc, tops),
		snap: Capture(append(append([]*scene.Node(nil), tops...), fitScope(doc, tops)...), geometryMask()),
	}
}

// Apply moves every node by (dx, dy) from where it started.
func (m *Mover) Apply(dx, dy float64) {
	m.snap.Restore()
	if dx == 0 && dy == 0 {
		return
	}
	t := vector.Translate(dx, dy)
	for _, o := range m.orig {
		placeWorld(m.doc, o.n, t.Mul(o.world))
	}
	fitAll(m.doc, m.tops)
}

func (m *Mover) Cancel() { m.snap.Restore() }

func (m *Mover) Changes() Changes { return m.snap.Changes() }

// MoveWorld shifts n by a world-space delta in place.
func MoveWorld(doc *scene.Document, n *scene.Node, dx, dy float64) {
	placeWorld(doc, n, vector.Translate(dx, dy).Mul(doc.WorldTransform(n)))
}
