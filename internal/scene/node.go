/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package scene

import (
	"math"

	"vectoredit/internal/vector"
)

// ParentIndex records where a node sat in its parent when it was detached.
type ParentIndex struct {
	ParentID string `json:"parentId"`
	Position int    `json:"position"`
}

// Node is one visual entity. Shared geometry and paint live here; what
// differs per Kind is dispatched through kindBehavior.
//
// Width and Height are the size of the node's own frame [0,W]×[0,H] and are
// never negative. Transform maps that frame into the parent's frame; a
// mirrored node has a transform with negative determinant.
//
// Exported fields may be written directly only by an active gesture; all
// other writes go through UpdateAttrs from a command.
type Node struct {
	ID         string
	Kind       Kind
	ObjectName string

	Width        float64
	Height       float64
	Transform    vector.Affine2D
	CornerRadius float64

	Fill        []vector.Paint
	Stroke      []vector.Paint
	StrokeWidth float64

	Visible bool
	Lock    bool
	Deleted bool

	// kind payload
	Path        *vector.Path // KindPath, in the node's own frame
	Content     string       // KindText
	FontSize    float64      // KindText
	Count       int          // KindStar, KindPolygon
	InnerScale  float64      // KindStar
	ResizeToFit bool         // KindFrame

	// ParentIndex is set when the node is detached, or for a node that was
	// never inserted, and names where Reinsert puts it.
	ParentIndex *ParentIndex

	parentID string
	children []*Node
}

// X is the local x of the node's origin (its unrotated top-left corner).
func (n *Node) X() float64 { return n.Transform.E }

// Y is the local y of the node's origin.
func (n *Node) Y() float64 { return n.Transform.F }

// Rotation is the local rotation in radians.
func (n *Node) Rotation() float64 { return n.Transform.Rotation() }

// ParentID is empty for canvases and detached nodes.
func (n *Node) ParentID() string { return n.parentID }

// Children returns a copy of the ordered child list; last is topmost.
func (n *Node) Children() []*Node {
	out := make([]*Node, len(n.children))
	copy(out, n.children)
	return out
}

// ChildCount avoids copying Children.
func (n *Node) ChildCount() int { return len(n.children) }

// ChildIDs returns child ids in order.
func (n *Node) ChildIDs() []string {
	out := make([]string, len(n.children))
	for i, c := range n.children {
		out[i] = c.ID
	}
	return out
}

func (n *Node) IsContainer() bool    { return behaviorOf(n.Kind).container() }
func (n *Node) IsEditableText() bool { return behaviorOf(n.Kind).editableText() }

// IsLineLike reports a zero-height node that resizes along its length only.
func (n *Node) IsLineLike() bool { return n.Height == 0 && !n.IsContainer() }

// LocalBox is the node's box in its parent's frame.
func (n *Node) LocalBox() vector.OrientedBox {
	return vector.OrientedBox{Width: n.Width, Height: n.Height, Transform: n.Transform}
}

// SetRect places an unmirrored box whose unrotated top-left is (x, y),
// rotated by rad around its center.
func (n *Node) SetRect(x, y, w, h, rad float64) {
	n.Width = math.Abs(w)
	n.Height = math.Abs(h)
	n.Transform = vector.RectTransform(x, y, n.Width, n.Height, rad)
}

// SetWorldBox sets width, height and transform from a box expressed in the
// parent's frame, moving any scale into width and height.
func (n *Node) SetWorldBox(width, height float64, local vector.Affine2D) {
	w, h, tf := vector.Decompose(width, height, local)
	n.Width, n.Height, n.Transform = w, h, tf
}

// ScalePayload lets the kind adapt its data to a size change by sx, sy.
func (n *Node) ScalePayload(sx, sy float64) {
	if sx == 1 && sy == 1 {
		return
	}
	behaviorOf(n.Kind).scalePayload(n, sx, sy)
}
