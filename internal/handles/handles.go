/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package handles derives control handles from a selection box and applies
// resize, rotate and move drags to every node they affect.
package handles

import (
	"fmt"

	"vectoredit/internal/vector"
)

// Settings are handle sizes in screen pixels.
type Settings struct {
	HandleSize     float64
	RotateZoneSize float64
}

func DefaultSettings() Settings { return Settings{HandleSize: 8, RotateZoneSize: 16} }

// Cursor is what the pointer shows over a handle. Angle is in degrees
// clockwise from east so rotated boxes get matching cursors.
type Cursor struct {
	Kind  string // "resize" or "rotate"
	Angle float64
}

func (c Cursor) String() string {
	if c.Kind == "" {
		return "default"
	}
	return fmt.Sprintf("%s-%.0f", c.Kind, c.Angle)
}

// Handle is one hot zone in world space.
type Handle struct {
	Type   vector.HandleType
	Center vector.Pt
	Zone   vector.OrientedBox
	Active bool
	Cursor Cursor
}

// Compute lays out handles around box. Edge handles are active only for
// multi-selections or boxes rotated by a multiple of π/2; a zero-height box
// only gets its two end handles. zoom converts screen sizes to world units.
func Compute(box vector.OrientedBox, multi bool, s Settings, zoom float64) []Handle {
	if zoom <= 0 {
		zoom = 1
	}
	size := s.HandleSize / zoom
	zone := s.RotateZoneSize / zoom
	rot := box.Rotation()
	line := box.Height == 0 && !multi
	edges := multi || vector.IsRightAngle(rot, 1e-9)

	out := make([]Handle, 0, len(vector.ResizeHandles)+len(vector.RotateHandles))
	for _, ht := range vector.ResizeHandles {
		c := ht.LocalPoint(box.Width, box.Height)
		active := !line || ht == vector.HandleE || ht == vector.HandleW
		if ht.IsEdge() && !line {
			active = edges
		}
		out = append(out, Handle{
			Type:   ht,
			Center: box.Point(c),
			Zone:   square(box.Transform, c, size),
			Active: active,
			Cursor: Cursor{Kind: "resize", Angle: ht.CursorAngle(rot)},
		})
	}
	for _, ht := range vector.RotateHandles {
		corner := ht.Corner().LocalPoint(box.Width, box.Height)
		// the zone sits diagonally outside its corner
		dx, dy := zone/2, zone/2
		if corner.X == 0 {
			dx = -dx
		}
		if corner.Y == 0 {
			dy = -dy
		}
		c := vector.Pt{X: corner.X + dx, Y: corner.Y + dy}
		out = append(out, Handle{
			Type:   ht,
			Center: box.Point(c),
			Zone:   square(box.Transform, c, zone),
			Active: !line,
			Cursor: Cursor{Kind: "rotate", Angle: ht.Corner().CursorAngle(rot)},
		})
	}
	return out
}

func square(m vector.Affine2D, c vector.Pt, size float64) vector.OrientedBox {
	return vector.OrientedBox{
		Width:     size,
		Height:    size,
		Transform: m.Mul(vector.Translate(c.X-size/2, c.Y-size/2)),
	}
}

// HitTest returns the first active handle whose zone contains p. Resize
// handles come before rotation zones, so they win where both overlap.
func HitTest(hs []Handle, p vector.Pt) (Handle, bool) {
	for _, h := range hs {
		if h.Active && vector.HitTestBox(p, h.Zone, 0) {
			return h, true
		}
	}
	return Handle{}, false
}
