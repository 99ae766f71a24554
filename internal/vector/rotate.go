/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package vector

import "math"

// DefaultRotationStep is 15 degrees.
const DefaultRotationStep = math.Pi / 12

// SnapRotationDelta adjusts delta so base+delta lands on the nearest
// multiple of step. A non-positive step disables snapping.
func SnapRotationDelta(base, delta, step float64) float64 {
	if step <= 0 {
		return delta
	}
	target := math.Round((base+delta)/step) * step
	return target - base
}

// IsRightAngle reports whether rad is a multiple of π/2 within eps.
func IsRightAngle(rad, eps float64) bool {
	q := rad / (math.Pi / 2)
	return math.Abs(q-math.Round(q)) <= eps
}

// RotateTransform rotates a transform about pivot in the outer frame.
func RotateTransform(m Affine2D, angle float64, pivot Pt) Affine2D {
	if angle == 0 {
		return m
	}
	return RotationAbout(angle, pivot).Mul(m)
}
