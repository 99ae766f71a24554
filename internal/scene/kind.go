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

// Kind discriminates node variants. The value doubles as the id prefix.
type Kind string

const (
	KindCanvas  Kind = "canvas"
	KindFrame   Kind = "frame"
	KindRect    Kind = "rect"
	KindEllipse Kind = "ellipse"
	KindLine    Kind = "line"
	KindPath    Kind = "path"
	KindText    Kind = "text"
	KindStar    Kind = "star"
	KindPolygon Kind = "polygon"
)

// Kinds lists every known kind.
var Kinds = []Kind{KindCanvas, KindFrame, KindRect, KindEllipse, KindLine, KindPath, KindText, KindStar, KindPolygon}

// Valid reports whether k is a known kind.
func (k Kind) Valid() bool {
	_, ok := behaviors[k]
	return ok
}

// kindBehavior holds what differs between kinds; everything else lives on
// Node.
type kindBehavior interface {
	container() bool
	editableText() bool
	// hitLocal refines a hit in the node's own frame.
	hitLocal(n *Node, p vector.Pt, tol float64) bool
	// scalePayload adapts kind data after the box was scaled by sx, sy.
	scalePayload(n *Node, sx, sy float64)
}

var behaviors = map[Kind]kindBehavior{
	KindCanvas:  canvasBehavior{},
	KindFrame:   frameBehavior{},
	KindRect:    rectBehavior{},
	KindEllipse: ellipseBehavior{},
	KindLine:    lineBehavior{},
	KindPath:    pathBehavior{},
	KindText:    textBehavior{},
	KindStar:    polygonBehavior{star: true},
	KindPolygon: polygonBehavior{},
}

func behaviorOf(k Kind) kindBehavior {
	if b, ok := behaviors[k]; ok {
		return b
	}
	return rectBehavior{}
}

type noPayload struct{}

func (noPayload) scalePayload(*Node, float64, float64) {}

type canvasBehavior struct{ noPayload }

func (canvasBehavior) container() bool                         { return true }
func (canvasBehavior) editableText() bool                      { return false }
func (canvasBehavior) hitLocal(*Node, vector.Pt, float64) bool { return false }

type frameBehavior struct{}

func (frameBehavior) container() bool    { return true }
func (frameBehavior) editableText() bool { return false }
func (frameBehavior) hitLocal(n *Node, p vector.Pt, tol float64) bool {
	return vector.HitTestRect(p, n.Width, n.Height, tol)
}
func (frameBehavior) scalePayload(n *Node, sx, sy float64) { scaleCornerRadius(n, sx, sy) }

type rectBehavior struct{}

func (rectBehavior) container() bool    { return false }
func (rectBehavior) editableText() bool { return false }
func (rectBehavior) hitLocal(n *Node, p vector.Pt, tol float64) bool {
	return vector.HitTestRect(p, n.Width, n.Height, tol)
}
func (rectBehavior) scalePayload(n *Node, sx, sy float64) { scaleCornerRadius(n, sx, sy) }

type ellipseBehavior struct{ noPayload }

func (ellipseBehavior) container() bool    { return false }
func (ellipseBehavior) editableText() bool { return false }
func (ellipseBehavior) hitLocal(n *Node, p vector.Pt, tol float64) bool {
	return vector.HitTestEllipse(p, n.Width, n.Height, tol)
}

type lineBehavior struct{ noPayload }

func (lineBehavior) container() bool    { return false }
func (lineBehavior) editableText() bool { return false }
func (lineBehavior) hitLocal(n *Node, p vector.Pt, tol float64) bool {
	t := math.Max(tol, n.StrokeWidth/2)
	return vector.HitTestSegment(p, vector.Pt{}, vector.Pt{X: n.Width, Y: n.Height}, t)
}

type pathBehavior struct{}

func (pathBehavior) container() bool    { return false }
func (pathBehavior) editableText() bool { return false }
func (pathBehavior) hitLocal(n *Node, p vector.Pt, tol float64) bool {
	if n.Path == nil || len(n.Path.Cmds) == 0 {
		return vector.HitTestRect(p, n.Width, n.Height, tol)
	}
	t := math.Max(tol, n.StrokeWidth/2)
	filled := len(n.Fill) > 0
	for _, poly := range n.Path.Flatten(8) {
		if filled && vector.HitTestPolygon(p, poly, t) {
			return true
		}
		for i := 1; i < len(poly); i++ {
			if vector.HitTestSegment(p, poly[i-1], poly[i], t) {
				return true
			}
		}
	}
	return false
}
func (pathBehavior) scalePayload(n *Node, sx, sy float64) {
	if n.Path != nil {
		n.Path.Scale(sx, sy)
	}
}

type textBehavior struct{ noPayload }

func (textBehavior) container() bool    { return false }
func (textBehavior) editableText() bool { return true }
func (textBehavior) hitLocal(n *Node, p vector.Pt, tol float64) bool {
	return vector.HitTestRect(p, n.Width, n.Height, tol)
}

type polygonBehavior struct {
	noPayload
	star bool
}

func (polygonBehavior) container() bool    { return false }
func (polygonBehavior) editableText() bool { return false }
func (b polygonBehavior) hitLocal(n *Node, p vector.Pt, tol float64) bool {
	inner := 0.0
	if b.star {
		inner = n.InnerScale
		if inner <= 0 {
			inner = 0.5
		}
	}
	return vector.HitTestPolygon(p, vector.RegularPolygon(n.Count, n.Width, n.Height, inner), tol)
}

func scaleCornerRadius(n *Node, sx, sy float64) {
	if n.CornerRadius == 0 {
		return
	}
	n.CornerRadius *= math.Min(math.Abs(sx), math.Abs(sy))
}
