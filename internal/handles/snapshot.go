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

// Snapshot records the masked attributes of a node set before a gesture.
type Snapshot struct {
	mask   scene.Attrs
	nodes  []*scene.Node
	before []scene.Attrs
}

// Capture snapshots the fields set in mask for every node, once each.
func Capture(nodes []*scene.Node, mask scene.Attrs) *Snapshot {
	s := &Snapshot{mask: mask}
	seen := make(map[string]bool, len(nodes))
	for _, n := range nodes {
		if n == nil || seen[n.ID] {
			continue
		}
		seen[n.ID] = true
		s.nodes = append(s.nodes, n)
		s.before = append(s.before, n.AttrsLike(mask))
	}
	return s
}

// Restore writes the captured values back.
func (s *Snapshot) Restore() {
	for i, n := range s.nodes {
		n.UpdateAttrs(s.before[i])
	}
}

// Changes is the net effect of a gesture: the nodes that differ from their
// snapshot with parallel before and after values.
type Changes struct {
	Nodes  []*scene.Node
	Before []scene.Attrs
	After  []scene.Attrs
}

func (c Changes) Empty() bool { return len(c.Nodes) == 0 }

// Changes compares every captured node with its current state.
func (s *Snapshot) Changes() Changes {
	var c Changes
	for i, n := range s.nodes {
		if n.MatchesAttrs(s.before[i]) {
			continue
		}
		c.Nodes = append(c.Nodes, n)
		c.Before = append(c.Before, s.before[i])
		c.After = append(c.After, n.AttrsLike(s.mask))
	}
	return c
}

// topLevel drops nodes that have an ancestor in the same list.
func topLevel(doc *scene.Document, nodes []*scene.Node) []*scene.Node {
	in := make(map[string]bool, len(nodes))
	for _, n := range nodes {
		in[n.ID] = true
	}
	out := make([]*scene.Node, 0, len(nodes))
	for _, n := range nodes {
		covered := false
		for _, a := range doc.Ancestors(n) {
			if in[a.ID] {
				covered = true
				break
			}
		}
		if !covered {
			out = append(out, n)
		}
	}
	return out
}

func fitScope(doc *scene.Document, nodes []*scene.Node) []*scene.Node {
	var out []*scene.Node
	for _, n := range nodes {
		out = append(out, doc.FitScope(n)...)
	}
	return out
}

func fitAll(doc *scene.Document, nodes []*scene.Node) {
	for _, n := range nodes {
		doc.FitAncestors(n)
	}
}

// setWorld gives n the world transform world and world-space size w×h,
// folding any scale into the size.
func setWorld(doc *scene.Document, n *scene.Node, w, h float64, world vector.Affine2D) {
	inv, ok := doc.ParentWorldTransform(n).Invert()
	if !ok {
		return
	}
	n.SetWorldBox(w, h, inv.Mul(world))
}

// geometryMask is what moves and rotations write.
func geometryMask() scene.Attrs { return scene.GeometryAttrs() }

// resizeMask adds the payload a resize scales.
func resizeMask() scene.Attrs {
	m := scene.GeometryAttrs()
	m.Path = &vector.Path{}
	m.CornerRadius = new(float64)
	return m
}
