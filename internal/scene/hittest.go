/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package scene

import "vectoredit/internal/vector"

// HitOptions tunes HitTest.
type HitOptions struct {
	// Tolerance pads every shape, in world units.
	Tolerance float64
	// SkipLocked ignores locked nodes and the subtrees of locked containers.
	SkipLocked bool
	// Exclude lists node ids never returned.
	Exclude map[string]bool
}

// HitTest returns the topmost node under p on the current canvas, or nil.
func (d *Document) HitTest(p vector.Pt, opts HitOptions) *Node {
	if d.current == nil {
		return nil
	}
	return d.HitTestIn(d.current, p, opts)
}

// HitTestIn searches the children of root. Siblings are probed last to
// first; a container is entered only when p lies inside its own bounds, and
// a hit on a child wins over the container.
func (d *Document) HitTestIn(root *Node, p vector.Pt, opts HitOptions) *Node {
	return d.hitChildren(root, d.WorldTransform(root), p, opts)
}

func (d *Document) hitChildren(parent *Node, parentWorld vector.Affine2D, p vector.Pt, opts HitOptions) *Node {
	for i := len(parent.children) - 1; i >= 0; i-- {
		c := parent.children[i]
		if c.Deleted || !c.Visible {
			continue
		}
		if hit := d.hitNode(c, parentWorld.Mul(c.Transform), p, opts); hit != nil {
			return hit
		}
	}
	return nil
}

func (d *Document) hitNode(n *Node, world vector.Affine2D, p vector.Pt, opts HitOptions) *Node {
	if opts.SkipLocked && n.Lock {
		return nil
	}
	inv, ok := world.Invert()
	if !ok {
		return nil
	}
	local := inv.Apply(p)
	if n.IsContainer() {
		if !vector.HitTestRect(local, n.Width, n.Height, opts.Tolerance) {
			return nil
		}
		if hit := d.hitChildren(n, world, p, opts); hit != nil {
			return hit
		}
	}
	if opts.Exclude[n.ID] {
		return nil
	}
	if behaviorOf(n.Kind).hitLocal(n, local, opts.Tolerance) {
		return n
	}
	return nil
}

// RectOptions tunes NodesInRect.
type RectOptions struct {
	SkipLocked bool
	// NoDescend names containers whose children are not searched, typically
	// the parent id set of the current selection.
	NoDescend map[string]bool
}

// NodesInRect returns, in document order, the nodes on the current canvas
// whose world AABB lies inside r. Containers that only intersect r are
// searched for contained children.
func (d *Document) NodesInRect(r vector.Rect, opts RectOptions) []*Node {
	if d.current == nil {
		return nil
	}
	r = r.Normalize()
	var out []*Node
	var visit func(parent *Node)
	visit = func(parent *Node) {
		for _, c := range parent.children {
			if c.Deleted || !c.Visible || (opts.SkipLocked && c.Lock) {
				continue
			}
			bb := d.BBox(c)
			switch {
			case r.ContainsRect(bb):
				out = append(out, c)
			case c.IsContainer() && !opts.NoDescend[c.ID] && r.Intersects(bb):
				visit(c)
			}
		}
	}
	visit(d.current)
	return out
}
