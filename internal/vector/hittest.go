/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package vector

// Point tests in a shape's own frame. tol pads the shape outward.

import "math"

func HitTestRect(p Pt, w, h, tol float64) bool {
	return p.X >= -tol && p.Y >= -tol && p.X <= w+tol && p.Y <= h+tol
}

func HitTestEllipse(p Pt, w, h, tol float64) bool {
	rx := w/2 + tol
	ry := h/2 + tol
	if rx <= 0 || ry <= 0 {
		return false
	}
	dx := (p.X - w/2) / rx
	dy := (p.Y - h/2) / ry
	return dx*dx+dy*dy <= 1
}

// HitTestSegment reports whether p lies within tol of segment ab.
func HitTestSegment(p, a, b Pt, tol float64) bool {
	return distToSegment(p, a, b) <= tol
}

// HitTestPolygon uses even-odd containment, then falls back to the outline
// within tol.
func HitTestPolygon(p Pt, poly []Pt, tol float64) bool {
	n := len(poly)
	if n == 0 {
		return false
	}
	inside := false
	for i, j := 0, n-1; i < n; j, i = i, i+1 {
		a, b := poly[i], poly[j]
		if (a.Y > p.Y) != (b.Y > p.Y) {
			x := (b.X-a.X)*(p.Y-a.Y)/(b.Y-a.Y) + a.X
			if p.X < x {
				inside = !inside
			}
		}
	}
	if inside {
		return true
	}
	if tol <= 0 {
		return false
	}
	for i := 0; i < n; i++ {
		if HitTestSegment(p, poly[i], poly[(i+1)%n], tol) {
			return true
		}
	}
	return false
}

// HitTestBox maps p into the box's own frame and tests the rectangle.
func HitTestBox(p Pt, box OrientedBox, tol float64) bool {
	inv, ok := box.Transform.Invert()
	if !ok {
		return false
	}
	return HitTestRect(inv.Apply(p), box.Width, box.Height, tol)
}

func distToSegment(p, a, b Pt) float64 {
	dx, dy := b.X-a.X, b.Y-a.Y
	l2 := dx*dx + dy*dy
	if l2 == 0 {
		return p.Dist(a)
	}
	t := ((p.X-a.X)*dx + (p.Y-a.Y)*dy) / l2
	t = math.Max(0, math.Min(1, t))
	return p.Dist(Pt{a.X + t*dx, a.Y + t*dy})
}

// RegularPolygon returns count vertices inscribed in a w×h ellipse, first
// vertex at the top. With innerScale > 0 a star with 2·count vertices is
// returned, inner vertices on an ellipse scaled by innerScale.
func RegularPolygon(count int, w, h, innerScale float64) []Pt {
	if count < 3 {
		count = 3
	}
	cx, cy := w/2, h/2
	if innerScale <= 0 {
		pts := make([]Pt, count)
		for i := range pts {
			a := -math.Pi/2 + 2*math.Pi*float64(i)/float64(count)
			pts[i] = Pt{cx + cx*math.Cos(a), cy + cy*math.Sin(a)}
		}
		return pts
	}
	pts := make([]Pt, 2*count)
	for i := range pts {
		a := -math.Pi/2 + math.Pi*float64(i)/float64(count)
		s := 1.0
		if i%2 == 1 {
			s = innerScale
		}
		pts[i] = Pt{cx + cx*s*math.Cos(a), cy + cy*s*math.Sin(a)}
	}
	return pts
}
