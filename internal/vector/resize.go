/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package vector

import "math"

// ResizeOptions tune ResizeRect.
type ResizeOptions struct {
	KeepRatio       bool
	ScaleFromCenter bool
	// Flip lets the size cross zero and mirror the box. When false the size
	// is clamped to MinSize instead.
	Flip    bool
	MinSize float64
}

// ResizeResult describes a resize in the box's own frame and in the outer
// frame.
type ResizeResult struct {
	// ScaleX and ScaleY are the signed factors applied about Anchor.
	ScaleX, ScaleY float64
	// Width and Height are the signed sizes; negative means mirrored.
	Width, Height float64
	// Anchor is the fixed point in the box's own frame.
	Anchor Pt
	// Box is the resized box, normalized through Decompose.
	Box OrientedBox
	// Prepended maps the old box onto the new one in the outer frame:
	// newBoxTransform = Prepended × oldBoxTransform.
	Prepended Affine2D
}

// ResizeRect drags handle to dragPoint (outer frame) and returns the
// resulting box. The edge or corner opposite the handle stays fixed, or the
// center with ScaleFromCenter.
func ResizeRect(handle HandleType, dragPoint Pt, box OrientedBox, opts ResizeOptions) ResizeResult {
	w, h := box.Width, box.Height
	inv, ok := box.Transform.Invert()
	if !ok {
		return identityResize(box)
	}
	local := inv.Apply(dragPoint)
	hp := handle.LocalPoint(w, h)
	anchor := handle.Opposite().LocalPoint(w, h)
	if opts.ScaleFromCenter {
		anchor = Pt{w / 2, h / 2}
	}
	affX, affY := handle.affects()

	sx, sy := 1.0, 1.0
	if affX && hp.X != anchor.X {
		sx = (local.X - anchor.X) / (hp.X - anchor.X)
	}
	if affY && hp.Y != anchor.Y {
		sy = (local.Y - anchor.Y) / (hp.Y - anchor.Y)
	}

	if !opts.Flip {
		sx = clampScale(sx, w, opts.MinSize)
		sy = clampScale(sy, h, opts.MinSize)
	} else {
		sx = avoidZero(sx, w, opts.MinSize)
		sy = avoidZero(sy, h, opts.MinSize)
	}

	if opts.KeepRatio {
		switch {
		case affX && affY:
			m := math.Max(math.Abs(sx), math.Abs(sy))
			sx = math.Copysign(m, sx)
			sy = math.Copysign(m, sy)
		case affX:
			sy = math.Abs(sx)
		case affY:
			sx = math.Abs(sy)
		}
	}

	local2 := ScaleAbout(sx, sy, anchor)
	newTf := box.Transform.Mul(local2)
	nw, nh, ntf := Decompose(w, h, newTf)
	return ResizeResult{
		ScaleX:    sx,
		ScaleY:    sy,
		Width:     w * sx,
		Height:    h * sy,
		Anchor:    anchor,
		Box:       OrientedBox{Width: nw, Height: nh, Transform: ntf},
		Prepended: box.Transform.Mul(local2).Mul(inv),
	}
}

func identityResize(box OrientedBox) ResizeResult {
	return ResizeResult{ScaleX: 1, ScaleY: 1, Width: box.Width, Height: box.Height, Box: box, Prepended: Identity}
}

// clampScale keeps size*s at or above min. Zero sizes keep scale 1.
func clampScale(s, size, minSize float64) float64 {
	if size == 0 {
		return 1
	}
	if size*s < minSize {
		return minSize / size
	}
	return s
}

// avoidZero keeps a mirrored size away from zero so the box stays invertible.
func avoidZero(s, size, minSize float64) float64 {
	if size == 0 {
		return 1
	}
	if minSize <= 0 {
		minSize = 1e-6
	}
	if math.Abs(size*s) < minSize {
		if s < 0 {
			return -minSize / size
		}
		return minSize / size
	}
	return s
}

// LineResult is the outcome of ResizeLine in the outer frame.
type LineResult struct {
	Length    float64
	Angle     float64
	Transform Affine2D
}

// ResizeLine moves one endpoint of a zero-height box. Handles on the west
// side move the start point, all others the end point; the other endpoint
// stays fixed. The returned transform is rigid (rotation and translation).
func ResizeLine(handle HandleType, dragPoint Pt, box OrientedBox) LineResult {
	start := box.Transform.Apply(Pt{0, 0})
	end := box.Transform.Apply(Pt{box.Width, 0})
	switch handle {
	case HandleNW, HandleW, HandleSW:
		start = dragPoint
	default:
		end = dragPoint
	}
	angle := end.Angle(start)
	return LineResult{
		Length:    start.Dist(end),
		Angle:     angle,
		Transform: Translate(start.X, start.Y).Mul(Rotate(angle)),
	}
}
