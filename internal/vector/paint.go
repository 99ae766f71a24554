/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package vector

// Paint values attached to nodes. Drawing them is not this package's job.

type Color struct {
	R uint8 `json:"r"`
	G uint8 `json:"g"`
	B uint8 `json:"b"`
	A uint8 `json:"a"`
}

var (
	Black       = Color{0, 0, 0, 255}
	White       = Color{255, 255, 255, 255}
	Transparent = Color{0, 0, 0, 0}
)

type PaintType string

const (
	PaintSolid PaintType = "solid"
	PaintImage PaintType = "image"
)

type Paint struct {
	Type    PaintType `json:"type"`
	Color   Color     `json:"color"`
	Opacity float64   `json:"opacity"`
	// ImageRef is an opaque reference for image paints.
	ImageRef string `json:"imageRef,omitempty"`
}

// Solid is an opaque solid paint.
func Solid(c Color) Paint { return Paint{Type: PaintSolid, Color: c, Opacity: 1} }

// ClonePaints copies a paint list; nil stays nil.
func ClonePaints(ps []Paint) []Paint {
	if ps == nil {
		return nil
	}
	out := make([]Paint, len(ps))
	copy(out, ps)
	return out
}

// PaintsEqual compares two paint lists element-wise.
func PaintsEqual(a, b []Paint) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
