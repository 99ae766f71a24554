/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package vector

// Basic 2D geometry and transforms for the editor core.
// Values are float64: undo must restore attributes bit-for-bit and the
// resize/rotate math composes many matrices per gesture.

import "math"

// Pt is a 2D point.
type Pt struct{ X, Y float64 }

func (p Pt) Add(o Pt) Pt          { return Pt{p.X + o.X, p.Y + o.Y} }
func (p Pt) Sub(o Pt) Pt          { return Pt{p.X - o.X, p.Y - o.Y} }
func (p Pt) Scale(s float64) Pt   { return Pt{p.X * s, p.Y * s} }
func (p Pt) Dist(o Pt) float64    { return math.Hypot(p.X-o.X, p.Y-o.Y) }
func (p Pt) Angle(from Pt) float64 { return math.Atan2(p.Y-from.Y, p.X-from.X) }

// Size is a width/height pair.
type Size struct{ W, H float64 }

// Rect is an axis-aligned rectangle defined by min corner and size.
type Rect struct {
	X, Y float64
	W, H float64
}

func R(x, y, w, h float64) Rect { return Rect{X: x, Y: y, W: w, H: h} }

func (r Rect) Min() Pt    { return Pt{r.X, r.Y} }
func (r Rect) Max() Pt    { return Pt{r.X + r.W, r.Y + r.H} }
func (r Rect) Center() Pt { return Pt{r.X + r.W/2, r.Y + r.H/2} }
func (r Rect) MaxX() float64 { return r.X + r.W }
func (r Rect) MaxY() float64 { return r.Y + r.H }
func (r Rect) MidX() float64 { return r.X + r.W/2 }
func (r Rect) MidY() float64 { return r.Y + r.H/2 }

func (r Rect) Contains(p Pt) bool {
	return p.X >= r.X && p.Y >= r.Y && p.X <= r.X+r.W && p.Y <= r.Y+r.H
}

// ContainsRect reports whether o lies completely inside r.
func (r Rect) ContainsRect(o Rect) bool {
	return o.X >= r.X && o.Y >= r.Y && o.MaxX() <= r.MaxX() && o.MaxY() <= r.MaxY()
}

// Intersects reports whether r and o overlap or touch.
func (r Rect) Intersects(o Rect) bool {
	return r.X <= o.MaxX() && o.X <= r.MaxX() && r.Y <= o.MaxY() && o.Y <= r.MaxY()
}

// Inset returns a rectangle inset by dx,dy on all sides (negative grows).
func (r Rect) Inset(dx, dy float64) Rect {
	return Rect{X: r.X + dx, Y: r.Y + dy, W: r.W - 2*dx, H: r.H - 2*dy}
}

// Union returns the minimal rect containing both.
func (r Rect) Union(o Rect) Rect {
	minX := math.Min(r.X, o.X)
	minY := math.Min(r.Y, o.Y)
	maxX := math.Max(r.X+r.W, o.X+o.W)
	maxY := math.Max(r.Y+r.H, o.Y+o.H)
	return Rect{X: minX, Y: minY, W: maxX - minX, H: maxY - minY}
}

// Normalize returns r with non-negative width and height.
func (r Rect) Normalize() Rect {
	if r.W < 0 {
		r.X += r.W
		r.W = -r.W
	}
	if r.H < 0 {
		r.Y += r.H
		r.H = -r.H
	}
	return r
}

// RectFromPoints returns the normalized rect spanned by two points.
func RectFromPoints(a, b Pt) Rect {
	return Rect{X: a.X, Y: a.Y, W: b.X - a.X, H: b.Y - a.Y}.Normalize()
}

// UnionAll returns the union of rects; ok is false for an empty input.
func UnionAll(rects []Rect) (Rect, bool) {
	if len(rects) == 0 {
		return Rect{}, false
	}
	u := rects[0]
	for _, r := range rects[1:] {
		u = u.Union(r)
	}
	return u, true
}

// Affine2D represents a 2D affine transform as matrix:
// | a c e |
// | b d f |
// | 0 0 1 |
// stored as [a b c d e f].
type Affine2D struct{ A, B, C, D, E, F float64 }

var Identity = Affine2D{A: 1, D: 1}

// Mul returns m × n, i.e. n is applied first.
func (m Affine2D) Mul(n Affine2D) Affine2D {
	return Affine2D{
		A: m.A*n.A + m.C*n.B,
		B: m.B*n.A + m.D*n.B,
		C: m.A*n.C + m.C*n.D,
		D: m.B*n.C + m.D*n.D,
		E: m.A*n.E + m.C*n.F + m.E,
		F: m.B*n.E + m.D*n.F + m.F,
	}
}

func (m Affine2D) Apply(p Pt) Pt {
	return Pt{
		X: m.A*p.X + m.C*p.Y + m.E,
		Y: m.B*p.X + m.D*p.Y + m.F,
	}
}

// ApplyVector applies the linear part only.
func (m Affine2D) ApplyVector(p Pt) Pt {
	return Pt{X: m.A*p.X + m.C*p.Y, Y: m.B*p.X + m.D*p.Y}
}

func (m Affine2D) Determinant() float64 { return m.A*m.D - m.B*m.C }

// Invert computes the inverse of m. ok is false for singular matrices, in
// which case Identity is returned.
func (m Affine2D) Invert() (Affine2D, bool) {
	det := m.Determinant()
	if det == 0 || math.IsNaN(det) {
		return Identity, false
	}
	invDet := 1 / det
	return Affine2D{
		A: m.D * invDet,
		B: -m.B * invDet,
		C: -m.C * invDet,
		D: m.A * invDet,
		E: (m.C*m.F - m.D*m.E) * invDet,
		F: (m.B*m.E - m.A*m.F) * invDet,
	}, true
}

// Inverse is Invert without the ok flag.
func (m Affine2D) Inverse() Affine2D {
	inv, _ := m.Invert()
	return inv
}

// Rotation returns the angle of the transformed x axis.
func (m Affine2D) Rotation() float64 { return math.Atan2(m.B, m.A) }

// Translation returns (e, f).
func (m Affine2D) Translation() Pt { return Pt{m.E, m.F} }

// Equal compares with an absolute tolerance.
func (m Affine2D) Equal(o Affine2D, eps float64) bool {
	return math.Abs(m.A-o.A) <= eps && math.Abs(m.B-o.B) <= eps &&
		math.Abs(m.C-o.C) <= eps && math.Abs(m.D-o.D) <= eps &&
		math.Abs(m.E-o.E) <= eps && math.Abs(m.F-o.F) <= eps
}

// Slice returns [a b c d e f].
func (m Affine2D) Slice() []float64 { return []float64{m.A, m.B, m.C, m.D, m.E, m.F} }

// AffineFromSlice is the inverse of Slice; short input yields Identity.
func AffineFromSlice(s []float64) Affine2D {
	if len(s) < 6 {
		return Identity
	}
	return Affine2D{A: s[0], B: s[1], C: s[2], D: s[3], E: s[4], F: s[5]}
}

func Translate(tx, ty float64) Affine2D { return Affine2D{A: 1, D: 1, E: tx, F: ty} }
func Scale(sx, sy float64) Affine2D     { return Affine2D{A: sx, D: sy} }
func Rotate(rad float64) Affine2D {
	if rad == 0 {
		return Identity
	}
	c := math.Cos(rad)
	s := math.Sin(rad)
	return Affine2D{A: c, B: s, C: -s, D: c}
}

// RotationAbout rotates by rad around pivot.
func RotationAbout(rad float64, pivot Pt) Affine2D {
	return Translate(pivot.X, pivot.Y).Mul(Rotate(rad)).Mul(Translate(-pivot.X, -pivot.Y))
}

// ScaleAbout scales around pivot.
func ScaleAbout(sx, sy float64, pivot Pt) Affine2D {
	return Translate(pivot.X, pivot.Y).Mul(Scale(sx, sy)).Mul(Translate(-pivot.X, -pivot.Y))
}

// RectTransform returns the transform of a w×h box whose unrotated top-left is
// at (x, y), rotated by rad around its own center.
func RectTransform(x, y, w, h, rad float64) Affine2D {
	if rad == 0 {
		return Translate(x, y)
	}
	return Translate(x+w/2, y+h/2).Mul(Rotate(rad)).Mul(Translate(-w/2, -h/2))
}

// RotateAround rotates p by angle (radians) around pivot.
func RotateAround(p Pt, angle float64, pivot Pt) Pt {
	if angle == 0 {
		return p
	}
	c, s := math.Cos(angle), math.Sin(angle)
	dx, dy := p.X-pivot.X, p.Y-pivot.Y
	return Pt{X: pivot.X + dx*c - dy*s, Y: pivot.Y + dx*s + dy*c}
}

// RotatedCorners returns the corners of rect rotated by rotation around pivot,
// in nw, ne, se, sw order.
func RotatedCorners(r Rect, rotation float64, pivot Pt) [4]Pt {
	c := [4]Pt{{r.X, r.Y}, {r.X + r.W, r.Y}, {r.X + r.W, r.Y + r.H}, {r.X, r.Y + r.H}}
	if rotation == 0 {
		return c
	}
	for i := range c {
		c[i] = RotateAround(c[i], rotation, pivot)
	}
	return c
}

// CornersAABB returns the componentwise min/max box of points.
func CornersAABB(pts []Pt) Rect {
	if len(pts) == 0 {
		return Rect{}
	}
	minX, minY := pts[0].X, pts[0].Y
	maxX, maxY := minX, minY
	for _, p := range pts[1:] {
		minX = math.Min(minX, p.X)
		minY = math.Min(minY, p.Y)
		maxX = math.Max(maxX, p.X)
		maxY = math.Max(maxY, p.Y)
	}
	return Rect{X: minX, Y: minY, W: maxX - minX, H: maxY - minY}
}

// RotatedAABB is the AABB of rect rotated around its own center. A zero
// rotation returns the rect unchanged.
func RotatedAABB(r Rect, rotation float64) Rect {
	if rotation == 0 {
		return r
	}
	c := RotatedCorners(r, rotation, r.Center())
	return CornersAABB(c[:])
}

// TransformRect returns the AABB of r mapped through m.
func (m Affine2D) TransformRect(r Rect) Rect {
	c := [4]Pt{
		m.Apply(Pt{r.X, r.Y}),
		m.Apply(Pt{r.X + r.W, r.Y}),
		m.Apply(Pt{r.X + r.W, r.Y + r.H}),
		m.Apply(Pt{r.X, r.Y + r.H}),
	}
	return CornersAABB(c[:])
}

// NormalizeAngle maps rad into (-π, π].
func NormalizeAngle(rad float64) float64 {
	rad = math.Mod(rad, 2*math.Pi)
	if rad <= -math.Pi {
		rad += 2 * math.Pi
	} else if rad > math.Pi {
		rad -= 2 * math.Pi
	}
	return rad
}

// FloatRound rounds v to n decimal places deterministically.
func FloatRound(v float64, places int) float64 {
	if places < 0 {
		return v
	}
	pow := math.Pow(10, float64(places))
	return math.Round(v*pow) / pow
}
