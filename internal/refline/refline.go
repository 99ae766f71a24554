/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package refline snaps a moving box to the edges and midlines of reference
// boxes and reports the guide lines to draw. It is UI-agnostic and
// deterministic so tools and tests share it.
package refline

import (
	"math"
	"slices"

	"vectoredit/internal/vector"
)

// Orientation of a guide: "vertical" guides mark an x position.
type Orientation string

const (
	Vertical   Orientation = "vertical"
	Horizontal Orientation = "horizontal"
)

// Kind tells which feature of the moving box aligned.
type Kind string

const (
	Edge   Kind = "edge"
	Center Kind = "center"
)

// GuideLine describes a visual guide generated during a snap alignment.
// Position is the x (vertical) or y (horizontal) coordinate; From and To
// span the moving box and every reference box sharing that coordinate.
type GuideLine struct {
	Orientation Orientation
	Kind        Kind
	Position    float64
	From        vector.Pt
	To          vector.Pt
}

// Index holds the x and y features of the reference boxes. Features are
// grouped by their value rounded to 3 decimal places so equal features of
// different boxes share a line; a line keeps the exact coordinate of its
// first contributor, and snapping targets that coordinate.
type Index struct {
	xs     []float64 // exact line coordinates, sorted
	ys     []float64
	xLines map[float64]*line // by rounded key
	yLines map[float64]*line
}

type line struct {
	at    float64
	boxes []vector.Rect
}

// Build indexes min, mid and max of every box on both axes.
func Build(boxes []vector.Rect) *Index {
	ix := &Index{
		xLines: make(map[float64]*line),
		yLines: make(map[float64]*line),
	}
	for _, b := range boxes {
		for _, x := range [3]float64{b.X, b.MidX(), b.MaxX()} {
			addFeature(ix.xLines, x, b)
		}
		for _, y := range [3]float64{b.Y, b.MidY(), b.MaxY()} {
			addFeature(ix.yLines, y, b)
		}
	}
	ix.xs = sortedCoords(ix.xLines)
	ix.ys = sortedCoords(ix.yLines)
	return ix
}

func addFeature(lines map[float64]*line, v float64, b vector.Rect) {
	k := key(v)
	l, ok := lines[k]
	if !ok {
		l = &line{at: v}
		lines[k] = l
	}
	if !slices.Contains(l.boxes, b) {
		l.boxes = append(l.boxes, b)
	}
}

// Len is the number of distinct keys on the x and y axis.
func (ix *Index) Len() (xs, ys int) { return len(ix.xs), len(ix.ys) }

// Result of a snap query. DX and DY are offsets to add to the moving box.
type Result struct {
	DX, DY   float64
	SnappedX bool
	SnappedY bool
	Guides   []GuideLine
}

// Snap finds, per axis independently, the indexed coordinate closest to one of the
// moving box's min/mid/max features. An axis snaps when that distance is
// within tolerance; both axes may snap to unrelated references.
func (ix *Index) Snap(moving vector.Rect, tolerance float64) Result {
	var res Result
	if ix == nil || tolerance < 0 {
		return res
	}
	if d, ok := nearest(ix.xs, [3]float64{moving.X, moving.MidX(), moving.MaxX()}, tolerance); ok {
		res.DX, res.SnappedX = d, true
	}
	if d, ok := nearest(ix.ys, [3]float64{moving.Y, moving.MidY(), moving.MaxY()}, tolerance); ok {
		res.DY, res.SnappedY = d, true
	}
	snapped := moving
	snapped.X += res.DX
	snapped.Y += res.DY
	if res.SnappedX {
		res.Guides = append(res.Guides, ix.verticalGuides(snapped)...)
	}
	if res.SnappedY {
		res.Guides = append(res.Guides, ix.horizontalGuides(snapped)...)
	}
	return res
}

// nearest returns the smallest coordinate-feature offset within tol. Ties keep the
// earlier feature (min before mid before max).
func nearest(keys []float64, features [3]float64, tol float64) (float64, bool) {
	if len(keys) == 0 {
		return 0, false
	}
	best, found := math.Inf(1), false
	var delta float64
	for _, f := range features {
		i, _ := slices.BinarySearch(keys, f)
		for _, j := range [2]int{i - 1, i} {
			if j < 0 || j >= len(keys) {
				continue
			}
			d := keys[j] - f
			if ad := math.Abs(d); ad <= tol && ad < best {
				best, delta, found = ad, d, true
			}
		}
	}
	return delta, found
}

func (ix *Index) verticalGuides(b vector.Rect) []GuideLine {
	var out []GuideLine
	for i, x := range [3]float64{b.X, b.MidX(), b.MaxX()} {
		l, ok := ix.xLines[key(x)]
		if !ok {
			continue
		}
		minY, maxY := b.Y, b.MaxY()
		for _, r := range l.boxes {
			minY = math.Min(minY, r.Y)
			maxY = math.Max(maxY, r.MaxY())
		}
		p := l.at
		out = append(out, GuideLine{
			Orientation: Vertical,
			Kind:        kindOf(i),
			Position:    p,
			From:        vector.Pt{X: p, Y: minY},
			To:          vector.Pt{X: p, Y: maxY},
		})
	}
	return out
}

func (ix *Index) horizontalGuides(b vector.Rect) []GuideLine {
	var out []GuideLine
	for i, y := range [3]float64{b.Y, b.MidY(), b.MaxY()} {
		l, ok := ix.yLines[key(y)]
		if !ok {
			continue
		}
		minX, maxX := b.X, b.MaxX()
		for _, r := range l.boxes {
			minX = math.Min(minX, r.X)
			maxX = math.Max(maxX, r.MaxX())
		}
		p := l.at
		out = append(out, GuideLine{
			Orientation: Horizontal,
			Kind:        kindOf(i),
			Position:    p,
			From:        vector.Pt{X: minX, Y: p},
			To:          vector.Pt{X: maxX, Y: p},
		})
	}
	return out
}

func kindOf(feature int) Kind {
	if feature == 1 {
		return Center
	}
	return Edge
}

func key(v float64) float64 { return vector.FloatRound(v, 3) }

func sortedCoords(lines map[float64]*line) []float64 {
	out := make([]float64, 0, len(lines))
	for _, l := range lines {
		out = append(out, l.at)
	}
	slices.Sort(out)
	return out
}
