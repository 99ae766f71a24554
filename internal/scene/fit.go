/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package scene

import (
	"vectoredit/internal/textlayout"
	"vectoredit/internal/vector"
)

// FitToChildren resizes an auto-fit frame to the union of its children's
// boxes in its own frame. The frame origin moves with the union and every
// child is shifted back, so world positions are unchanged. It reports
// whether anything was written.
func (d *Document) FitToChildren(frame *Node) bool {
	if !frame.ResizeToFit || !frame.IsContainer() || frame.Kind == KindCanvas {
		return false
	}
	rects := make([]vector.Rect, 0, len(frame.children))
	for _, c := range frame.children {
		rects = append(rects, c.LocalBox().AABB())
	}
	u, ok := vector.UnionAll(rects)
	if !ok || u == (vector.Rect{W: frame.Width, H: frame.Height}) {
		return false
	}
	frame.Transform = frame.Transform.Mul(vector.Translate(u.X, u.Y))
	frame.Width, frame.Height = u.W, u.H
	if u.X != 0 || u.Y != 0 {
		shift := vector.Translate(-u.X, -u.Y)
		for _, c := range frame.children {
			c.Transform = shift.Mul(c.Transform)
		}
	}
	return true
}

// FitScope lists the nodes FitAncestors may write for n: each auto-fit
// ancestor up to the first one that is not, and its direct children.
func (d *Document) FitScope(n *Node) []*Node {
	var out []*Node
	for _, p := range d.Ancestors(n) {
		if !p.ResizeToFit || p.Kind == KindCanvas {
			break
		}
		out = append(out, p)
		out = append(out, p.children...)
	}
	return out
}

// FitAncestors refits n's auto-fit ancestors bottom up and returns every
// node it changed.
func (d *Document) FitAncestors(n *Node) []*Node {
	var changed []*Node
	for _, p := range d.Ancestors(n) {
		if !p.ResizeToFit || p.Kind == KindCanvas {
			break
		}
		if !d.FitToChildren(p) {
			break
		}
		changed = append(changed, p)
		changed = append(changed, p.children...)
	}
	return changed
}

// TextSize measures content unwrapped at fontSize with the document fonts.
func (d *Document) TextSize(content string, fontSize float64) (w, h float64) {
	return textlayout.Measure(d.Fonts, content, textlayout.FontSpec{SizePt: fontSize})
}

// FitText sizes a text node to its content. It reports whether the size
// changed.
func (d *Document) FitText(n *Node) bool {
	if !n.IsEditableText() {
		return false
	}
	w, h := d.TextSize(n.Content, n.FontSize)
	if w == n.Width && h == n.Height {
		return false
	}
	n.Width, n.Height = w, h
	return true
}
