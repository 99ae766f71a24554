/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package vector

import "math"

// OrientedBox is a Width×Height rectangle in its own frame, placed by
// Transform. The own frame spans [0,Width]×[0,Height].
type OrientedBox struct {
	Width     float64
	Height    float64
	Transform Affine2D
}

// BoxFromRect returns an unrotated box covering r.
func BoxFromRect(r Rect) OrientedBox {
	return OrientedBox{Width: r.W, Height: r.H, Transform: Translate(r.X, r.Y)}
}

// LocalRect is the box in its own frame.
func (b OrientedBox) LocalRect() Rect { return Rect{W: b.Width, H: b.Height} }

// Corners returns nw, ne, se, sw in the outer frame.
func (b OrientedBox) Corners() [4]Pt {
	m := b.Transform
	return [4]Pt{
		m.Apply(Pt{0, 0}),
		m.Apply(Pt{b.Width, 0}),
		m.Apply(Pt{b.Width, b.Height}),
		m.Apply(Pt{0, b.Height}),
	}
}

// AABB is the componentwise min/max of the corners.
func (b OrientedBox) AABB() Rect {
	if b.Transform.B == 0 && b.Transform.C == 0 && b.Transform.A > 0 && b.Transform.D > 0 {
		return Rect{X: b.Transform.E, Y: b.Transform.F, W: b.Width * b.Transform.A, H: b.Height * b.Transform.D}
	}
	c := b.Corners()
	return CornersAABB(c[:])
}

func (b OrientedBox) Center() Pt { return b.Transform.Apply(Pt{b.Width / 2, b.Height / 2}) }

func (b OrientedBox) Rotation() float64 { return b.Transform.Rotation() }

// Point maps a point of the own frame to the outer frame.
func (b OrientedBox) Point(local Pt) Pt { return b.Transform.Apply(local) }

// Decompose splits a transform that carries scale back into a size and a
// scale-free transform: width = w·|col0|, height = h·|col1|, and the returned
// transform is m × Scale(1/|col0|, 1/|col1|). Mirroring stays in the
// transform, so width and height never go negative. An axis with zero
// length keeps its scale.
func Decompose(w, h float64, m Affine2D) (width, height float64, tf Affine2D) {
	sx := math.Hypot(m.A, m.B)
	sy := math.Hypot(m.C, m.D)
	if sx == 0 {
		sx = 1
	}
	if sy == 0 {
		sy = 1
	}
	return w * sx, h * sy, m.Mul(Scale(1/sx, 1/sy))
}
