/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package scene

import "vectoredit/internal/vector"

// Attrs is a partial attribute set. Nil fields are untouched by UpdateAttrs
// and not captured by AttrsLike.
type Attrs struct {
	ObjectName   *string
	Width        *float64
	Height       *float64
	Transform    *vector.Affine2D
	CornerRadius *float64
	Fill         *[]vector.Paint
	Stroke       *[]vector.Paint
	StrokeWidth  *float64
	Visible      *bool
	Lock         *bool
	Path         *vector.Path
	Content      *string
	FontSize     *float64
	Count        *int
	InnerScale   *float64
	ResizeToFit  *bool
}

// Ptr returns a pointer to v, for building Attrs literals.
func Ptr[T any](v T) *T { return &v }

// GeometryAttrs is the mask of fields a move, resize or rotate touches.
func GeometryAttrs() Attrs {
	return Attrs{Width: new(float64), Height: new(float64), Transform: new(vector.Affine2D)}
}

// IsEmpty reports whether no field is set.
func (a Attrs) IsEmpty() bool { return a == Attrs{} }

// Merge returns a with every field set in o overriding it.
func (a Attrs) Merge(o Attrs) Attrs {
	if o.ObjectName != nil {
		a.ObjectName = o.ObjectName
	}
	if o.Width != nil {
		a.Width = o.Width
	}
	if o.Height != nil {
		a.Height = o.Height
	}
	if o.Transform != nil {
		a.Transform = o.Transform
	}
	if o.CornerRadius != nil {
		a.CornerRadius = o.CornerRadius
	}
	if o.Fill != nil {
		a.Fill = o.Fill
	}
	if o.Stroke != nil {
		a.Stroke = o.Stroke
	}
	if o.StrokeWidth != nil {
		a.StrokeWidth = o.StrokeWidth
	}
	if o.Visible != nil {
		a.Visible = o.Visible
	}
	if o.Lock != nil {
		a.Lock = o.Lock
	}
	if o.Path != nil {
		a.Path = o.Path
	}
	if o.Content != nil {
		a.Content = o.Content
	}
	if o.FontSize != nil {
		a.FontSize = o.FontSize
	}
	if o.Count != nil {
		a.Count = o.Count
	}
	if o.InnerScale != nil {
		a.InnerScale = o.InnerScale
	}
	if o.ResizeToFit != nil {
		a.ResizeToFit = o.ResizeToFit
	}
	return a
}

// UpdateAttrs stores every set field of a on n. Slices and paths are copied
// so later edits of a do not leak into the node. It has no other effect.
func (n *Node) UpdateAttrs(a Attrs) {
	if a.ObjectName != nil {
		n.ObjectName = *a.ObjectName
	}
	if a.Width != nil {
		n.Width = *a.Width
	}
	if a.Height != nil {
		n.Height = *a.Height
	}
	if a.Transform != nil {
		n.Transform = *a.Transform
	}
	if a.CornerRadius != nil {
		n.CornerRadius = *a.CornerRadius
	}
	if a.Fill != nil {
		n.Fill = vector.ClonePaints(*a.Fill)
	}
	if a.Stroke != nil {
		n.Stroke = vector.ClonePaints(*a.Stroke)
	}
	if a.StrokeWidth != nil {
		n.StrokeWidth = *a.StrokeWidth
	}
	if a.Visible != nil {
		n.Visible = *a.Visible
	}
	if a.Lock != nil {
		n.Lock = *a.Lock
	}
	if a.Path != nil {
		// a path without a command slice clears the payload; a non-nil
		// empty slice is kept as an empty path
		if a.Path.Cmds == nil {
			n.Path = nil
		} else {
			n.Path = a.Path.Clone()
		}
	}
	if a.Content != nil {
		n.Content = *a.Content
	}
	if a.FontSize != nil {
		n.FontSize = *a.FontSize
	}
	if a.Count != nil {
		n.Count = *a.Count
	}
	if a.InnerScale != nil {
		n.InnerScale = *a.InnerScale
	}
	if a.ResizeToFit != nil {
		n.ResizeToFit = *a.ResizeToFit
	}
}

// AttrsLike snapshots the current values of exactly the fields set in mask.
// The values of mask itself are ignored.
func (n *Node) AttrsLike(mask Attrs) Attrs {
	var a Attrs
	if mask.ObjectName != nil {
		a.ObjectName = Ptr(n.ObjectName)
	}
	if mask.Width != nil {
		a.Width = Ptr(n.Width)
	}
	if mask.Height != nil {
		a.Height = Ptr(n.Height)
	}
	if mask.Transform != nil {
		a.Transform = Ptr(n.Transform)
	}
	if mask.CornerRadius != nil {
		a.CornerRadius = Ptr(n.CornerRadius)
	}
	if mask.Fill != nil {
		a.Fill = Ptr(vector.ClonePaints(n.Fill))
	}
	if mask.Stroke != nil {
		a.Stroke = Ptr(vector.ClonePaints(n.Stroke))
	}
	if mask.StrokeWidth != nil {
		a.StrokeWidth = Ptr(n.StrokeWidth)
	}
	if mask.Visible != nil {
		a.Visible = Ptr(n.Visible)
	}
	if mask.Lock != nil {
		a.Lock = Ptr(n.Lock)
	}
	if mask.Path != nil {
		if n.Path != nil {
			a.Path = n.Path.Clone() // Cmds is never nil here
		} else {
			a.Path = &vector.Path{}
		}
	}
	if mask.Content != nil {
		a.Content = Ptr(n.Content)
	}
	if mask.FontSize != nil {
		a.FontSize = Ptr(n.FontSize)
	}
	if mask.Count != nil {
		a.Count = Ptr(n.Count)
	}
	if mask.InnerScale != nil {
		a.InnerScale = Ptr(n.InnerScale)
	}
	if mask.ResizeToFit != nil {
		a.ResizeToFit = Ptr(n.ResizeToFit)
	}
	return a
}

// AllAttrs snapshots every attribute.
func (n *Node) AllAttrs() Attrs {
	return n.AttrsLike(Attrs{
		ObjectName: new(string), Width: new(float64), Height: new(float64),
		Transform: new(vector.Affine2D), CornerRadius: new(float64),
		Fill: new([]vector.Paint), Stroke: new([]vector.Paint), StrokeWidth: new(float64),
		Visible: new(bool), Lock: new(bool), Path: &vector.Path{}, Content: new(string),
		FontSize: new(float64), Count: new(int), InnerScale: new(float64), ResizeToFit: new(bool),
	})
}

// MatchesAttrs reports whether every field set in a equals n's value.
func (n *Node) MatchesAttrs(a Attrs) bool {
	cur := n.AttrsLike(a)
	return attrsEqual(cur, a)
}

func attrsEqual(a, b Attrs) bool {
	return eqPtr(a.ObjectName, b.ObjectName) && eqPtr(a.Width, b.Width) && eqPtr(a.Height, b.Height) &&
		eqPtr(a.Transform, b.Transform) && eqPtr(a.CornerRadius, b.CornerRadius) &&
		eqPaints(a.Fill, b.Fill) && eqPaints(a.Stroke, b.Stroke) && eqPtr(a.StrokeWidth, b.StrokeWidth) &&
		eqPtr(a.Visible, b.Visible) && eqPtr(a.Lock, b.Lock) && eqPath(a.Path, b.Path) &&
		eqPtr(a.Content, b.Content) && eqPtr(a.FontSize, b.FontSize) && eqPtr(a.Count, b.Count) &&
		eqPtr(a.InnerScale, b.InnerScale) && eqPtr(a.ResizeToFit, b.ResizeToFit)
}

func eqPtr[T comparable](a, b *T) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

func eqPaints(a, b *[]vector.Paint) bool {
	if a == nil || b == nil {
		return a == b
	}
	return vector.PaintsEqual(*a, *b)
}

func eqPath(a, b *vector.Path) bool {
	if a == nil || b == nil {
		return a == b
	}
	return (a.Cmds == nil) == (b.Cmds == nil) && a.Equal(b)
}
