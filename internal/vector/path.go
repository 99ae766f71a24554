/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package vector

// Path commands and shapes.

import "math"

type PathOp uint8

const (
	MoveTo PathOp = iota
	LineTo
	QuadTo  // quadratic bezier (cx, cy, x, y)
	CubicTo // cubic bezier (cx1, cy1, cx2, cy2, x, y)
	Close
)

func (op PathOp) points() int {
	switch op {
	case MoveTo, LineTo:
		return 1
	case QuadTo:
		return 2
	case CubicTo:
		return 3
	}
	return 0
}

type PathCmd struct {
	Op   PathOp     `json:"op"`
	Data [6]float64 `json:"data"` // enough for cubic; unused slots are zero
}

type Path struct {
	Cmds []PathCmd `json:"cmds"`
}

func (p *Path) MoveTo(x, y float64) {
	p.Cmds = append(p.Cmds, PathCmd{Op: MoveTo, Data: [6]float64{x, y}})
}
func (p *Path) LineTo(x, y float64) {
	p.Cmds = append(p.Cmds, PathCmd{Op: LineTo, Data: [6]float64{x, y}})
}
func (p *Path) QuadTo(cx, cy, x, y float64) {
	p.Cmds = append(p.Cmds, PathCmd{Op: QuadTo, Data: [6]float64{cx, cy, x, y}})
}
func (p *Path) CubicTo(cx1, cy1, cx2, cy2, x, y float64) {
	p.Cmds = append(p.Cmds, PathCmd{Op: CubicTo, Data: [6]float64{cx1, cy1, cx2, cy2, x, y}})
}
func (p *Path) Close() { p.Cmds = append(p.Cmds, PathCmd{Op: Close}) }

// Clone returns a deep copy; nil stays nil.
func (p *Path) Clone() *Path {
	if p == nil {
		return nil
	}
	cp := &Path{Cmds: make([]PathCmd, len(p.Cmds))}
	copy(cp.Cmds, p.Cmds)
	return cp
}

// Equal compares commands exactly.
func (p *Path) Equal(o *Path) bool {
	if p == nil || o == nil {
		return p == o
	}
	if len(p.Cmds) != len(o.Cmds) {
		return false
	}
	for i := range p.Cmds {
		if p.Cmds[i] != o.Cmds[i] {
			return false
		}
	}
	return true
}

// Transform maps every point through m in place.
func (p *Path) Transform(m Affine2D) {
	for i := range p.Cmds {
		c := &p.Cmds[i]
		for k := 0; k < c.Op.points(); k++ {
			q := m.Apply(Pt{c.Data[2*k], c.Data[2*k+1]})
			c.Data[2*k], c.Data[2*k+1] = q.X, q.Y
		}
	}
}

// Scale scales every point about the origin in place.
func (p *Path) Scale(sx, sy float64) { p.Transform(Scale(sx, sy)) }

// Points returns the on-curve and control points in order.
func (p *Path) Points() []Pt {
	var pts []Pt
	for _, c := range p.Cmds {
		for k := 0; k < c.Op.points(); k++ {
			pts = append(pts, Pt{c.Data[2*k], c.Data[2*k+1]})
		}
	}
	return pts
}

// Bounds returns an axis-aligned bounding box of the path using a simple
// approximation by considering control points. This is sufficient for
// selection rectangles and auto-fit.
func (p *Path) Bounds() Rect {
	minX, minY := math.Inf(1), math.Inf(1)
	maxX, maxY := math.Inf(-1), math.Inf(-1)
	for _, q := range p.Points() {
		minX = math.Min(minX, q.X)
		minY = math.Min(minY, q.Y)
		maxX = math.Max(maxX, q.X)
		maxY = math.Max(maxY, q.Y)
	}
	if minX > maxX || minY > maxY {
		return Rect{}
	}
	return Rect{X: minX, Y: minY, W: maxX - minX, H: maxY - minY}
}

// Flatten approximates the path with line segments, one polyline per
// subpath. Curves are sampled with steps segments each.
func (p *Path) Flatten(steps int) [][]Pt {
	if steps < 1 {
		steps = 8
	}
	var out [][]Pt
	var cur []Pt
	var last Pt
	flush := func() {
		if len(cur) > 0 {
			out = append(out, cur)
		}
		cur = nil
	}
	for _, c := range p.Cmds {
		switch c.Op {
		case MoveTo:
			flush()
			last = Pt{c.Data[0], c.Data[1]}
			cur = []Pt{last}
		case LineTo:
			last = Pt{c.Data[0], c.Data[1]}
			cur = append(cur, last)
		case QuadTo:
			p0, p1, p2 := last, Pt{c.Data[0], c.Data[1]}, Pt{c.Data[2], c.Data[3]}
			for i := 1; i <= steps; i++ {
				t := float64(i) / float64(steps)
				u := 1 - t
				cur = append(cur, Pt{
					u*u*p0.X + 2*u*t*p1.X + t*t*p2.X,
					u*u*p0.Y + 2*u*t*p1.Y + t*t*p2.Y,
				})
			}
			last = p2
		case CubicTo:
			p0, p1, p2, p3 := last, Pt{c.Data[0], c.Data[1]}, Pt{c.Data[2], c.Data[3]}, Pt{c.Data[4], c.Data[5]}
			for i := 1; i <= steps; i++ {
				t := float64(i) / float64(steps)
				u := 1 - t
				cur = append(cur, Pt{
					u*u*u*p0.X + 3*u*u*t*p1.X + 3*u*t*t*p2.X + t*t*t*p3.X,
					u*u*u*p0.Y + 3*u*u*t*p1.Y + 3*u*t*t*p2.Y + t*t*t*p3.Y,
				})
			}
			last = p3
		case Close:
			if len(cur) > 0 {
				cur = append(cur, cur[0])
				last = cur[0]
			}
		}
	}
	flush()
	return out
}
