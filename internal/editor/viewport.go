/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package editor

import "vectoredit/internal/vector"

const (
	MinZoom = 0.02
	MaxZoom = 64.0
)

// Viewport maps world coordinates onto a screen of Width×Height pixels:
// screen = world*Zoom + Offset.
type Viewport struct {
	Zoom    float64
	OffsetX float64
	OffsetY float64
	Width   float64
	Height  float64
}

func NewViewport(width, height float64) Viewport {
	return Viewport{Zoom: 1, Width: width, Height: height}
}

func (v Viewport) zoom() float64 {
	if v.Zoom <= 0 {
		return 1
	}
	return v.Zoom
}

func (v Viewport) WorldToScreen(p vector.Pt) vector.Pt {
	z := v.zoom()
	return vector.Pt{X: p.X*z + v.OffsetX, Y: p.Y*z + v.OffsetY}
}

func (v Viewport) ScreenToWorld(p vector.Pt) vector.Pt {
	z := v.zoom()
	return vector.Pt{X: (p.X - v.OffsetX) / z, Y: (p.Y - v.OffsetY) / z}
}

// VisibleRect is the world area on screen. A viewport without a size sees
// everything.
func (v Viewport) VisibleRect() (vector.Rect, bool) {
	if v.Width <= 0 || v.Height <= 0 {
		return vector.Rect{}, false
	}
	a := v.ScreenToWorld(vector.Pt{})
	b := v.ScreenToWorld(vector.Pt{X: v.Width, Y: v.Height})
	return vector.RectFromPoints(a, b), true
}

// ZoomAt scales by factor, clamped to [MinZoom, MaxZoom], keeping the world
// point under the screen point at still.
func (v *Viewport) ZoomAt(factor float64, screen vector.Pt) {
	if factor <= 0 {
		return
	}
	w := v.ScreenToWorld(screen)
	z := v.zoom() * factor
	if z < MinZoom {
		z = MinZoom
	}
	if z > MaxZoom {
		z = MaxZoom
	}
	v.Zoom = z
	v.OffsetX = screen.X - w.X*z
	v.OffsetY = screen.Y - w.Y*z
}

// Pan shifts the view by a screen-space delta.
func (v *Viewport) Pan(dx, dy float64) {
	v.OffsetX += dx
	v.OffsetY += dy
}
