/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package vector

import "math"

// HandleType names a control handle of a selection box.
type HandleType string

const (
	HandleNW HandleType = "nw"
	HandleN  HandleType = "n"
	HandleNE HandleType = "ne"
	HandleE  HandleType = "e"
	HandleSE HandleType = "se"
	HandleS  HandleType = "s"
	HandleSW HandleType = "sw"
	HandleW  HandleType = "w"

	HandleRotateNW HandleType = "rotate-nw"
	HandleRotateNE HandleType = "rotate-ne"
	HandleRotateSE HandleType = "rotate-se"
	HandleRotateSW HandleType = "rotate-sw"
)

// ResizeHandles lists the resize handles, corners first.
var ResizeHandles = []HandleType{HandleNW, HandleNE, HandleSE, HandleSW, HandleN, HandleE, HandleS, HandleW}

// RotateHandles lists the rotation zones in corner order.
var RotateHandles = []HandleType{HandleRotateNW, HandleRotateNE, HandleRotateSE, HandleRotateSW}

func (h HandleType) IsCorner() bool {
	switch h {
	case HandleNW, HandleNE, HandleSE, HandleSW:
		return true
	}
	return false
}

func (h HandleType) IsEdge() bool {
	switch h {
	case HandleN, HandleE, HandleS, HandleW:
		return true
	}
	return false
}

func (h HandleType) IsRotate() bool {
	switch h {
	case HandleRotateNW, HandleRotateNE, HandleRotateSE, HandleRotateSW:
		return true
	}
	return false
}

// Corner maps a rotation zone to the corner it flanks.
func (h HandleType) Corner() HandleType {
	switch h {
	case HandleRotateNW:
		return HandleNW
	case HandleRotateNE:
		return HandleNE
	case HandleRotateSE:
		return HandleSE
	case HandleRotateSW:
		return HandleSW
	}
	return h
}

// Opposite returns the handle across the box center.
func (h HandleType) Opposite() HandleType {
	switch h {
	case HandleNW:
		return HandleSE
	case HandleN:
		return HandleS
	case HandleNE:
		return HandleSW
	case HandleE:
		return HandleW
	case HandleSE:
		return HandleNW
	case HandleS:
		return HandleN
	case HandleSW:
		return HandleNE
	case HandleW:
		return HandleE
	}
	return h
}

// affects reports which axes a resize handle changes.
func (h HandleType) affects() (x, y bool) {
	switch h {
	case HandleN, HandleS:
		return false, true
	case HandleE, HandleW:
		return true, false
	case HandleNW, HandleNE, HandleSE, HandleSW:
		return true, true
	}
	return false, false
}

// LocalPoint is the handle position in a w×h own frame.
func (h HandleType) LocalPoint(w, hh float64) Pt {
	switch h.Corner() {
	case HandleNW:
		return Pt{0, 0}
	case HandleN:
		return Pt{w / 2, 0}
	case HandleNE:
		return Pt{w, 0}
	case HandleE:
		return Pt{w, hh / 2}
	case HandleSE:
		return Pt{w, hh}
	case HandleS:
		return Pt{w / 2, hh}
	case HandleSW:
		return Pt{0, hh}
	case HandleW:
		return Pt{0, hh / 2}
	}
	return Pt{w / 2, hh / 2}
}

// CursorAngle is the direction the handle points to, in degrees clockwise
// from east, for a box rotated by rotation radians. Result is in [0, 360).
func (h HandleType) CursorAngle(rotation float64) float64 {
	deg := h.cursorBase() + rotation*180/math.Pi
	deg = math.Mod(deg, 360)
	if deg < 0 {
		deg += 360
	}
	return deg
}

func (h HandleType) cursorBase() float64 {
	switch h.Corner() {
	case HandleE:
		return 0
	case HandleSE:
		return 45
	case HandleS:
		return 90
	case HandleSW:
		return 135
	case HandleW:
		return 180
	case HandleNW:
		return 225
	case HandleN:
		return 270
	case HandleNE:
		return 315
	}
	return 0
}
