/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package vector

import (
	"math"
	"testing"
)

func near(a, b float64) bool { return math.Abs(a-b) < 1e-9 }

func TestRectContainsAndInset(t *testing.T) {
	r := R(10, 20, 100, 50)
	if !r.Contains(Pt{10, 20}) || !r.Contains(Pt{110, 70}) {
		t.Fatalf("expected edge points to be contained")
	}
	in := r.Inset(5, 5)
	if in.X != 15 || in.Y != 25 || in.W != 90 || in.H != 40 {
		t.Fatalf("unexpected inset: %+v", in)
	}
}

func TestAffineBasic(t *testing.T) {
	m := Translate(10, 5).Mul(Scale(2, 3))
	p := m.Apply(Pt{1, 1})
	if p.X != 12 || p.Y != 8 { // (1*2+10, 1*3+5)
		t.Fatalf("unexpected transform result: %+v", p)
	}
}

func TestAffineInvert(t *testing.T) {
	m := Translate(3, -7).Mul(Rotate(0.7)).Mul(Scale(2, -0.5))
	inv, ok := m.Invert()
	if !ok {
		t.Fatalf("expected invertible")
	}
	if !m.Mul(inv).Equal(Identity, 1e-12) {
		t.Fatalf("m × inv(m) should be identity: %+v", m.Mul(inv))
	}
	if _, ok := Scale(0, 1).Invert(); ok {
		t.Fatalf("singular matrix reported invertible")
	}
}

func TestRotatedCorners_ZeroRotationFastPath(t *testing.T) {
	r := R(1, 2, 3, 4)
	if got := RotatedAABB(r, 0); got != r {
		t.Fatalf("rotation 0 should return rect unchanged, got %+v", got)
	}
	c := RotatedCorners(r, 0, Pt{})
	if c[0] != (Pt{1, 2}) || c[2] != (Pt{4, 6}) {
		t.Fatalf("unexpected corners: %+v", c)
	}
}

func TestRotatedAABB_Quarter(t *testing.T) {
	// 100×100 square rotated 45° grows to a 141.42 wide diamond.
	got := RotatedAABB(R(0, 0, 100, 100), math.Pi/4)
	want := 100 * math.Sqrt2
	if !near(got.W, want) || !near(got.H, want) {
		t.Fatalf("unexpected AABB size: %+v", got)
	}
	if !near(got.MidX(), 50) || !near(got.MidY(), 50) {
		t.Fatalf("AABB should keep the center: %+v", got)
	}
}

func TestRotateAround(t *testing.T) {
	p := RotateAround(Pt{10, 0}, math.Pi/2, Pt{0, 0})
	if !near(p.X, 0) || !near(p.Y, 10) {
		t.Fatalf("unexpected rotation: %+v", p)
	}
	p = RotateAround(Pt{2, 1}, math.Pi, Pt{1, 1})
	if !near(p.X, 0) || !near(p.Y, 1) {
		t.Fatalf("unexpected pivot rotation: %+v", p)
	}
}

func TestRectTransform_MatchesRotationAboutCenter(t *testing.T) {
	m := RectTransform(-50, -50, 100, 100, math.Pi/4)
	c := m.Apply(Pt{50, 50})
	if !near(c.X, 0) || !near(c.Y, 0) {
		t.Fatalf("center should stay at origin: %+v", c)
	}
	if !near(m.Rotation(), math.Pi/4) {
		t.Fatalf("unexpected rotation %v", m.Rotation())
	}
}

func TestDecompose_KeepsMirrorInTransform(t *testing.T) {
	w, h, tf := Decompose(10, 20, Scale(-2, 3))
	if w != 20 || h != 60 {
		t.Fatalf("unexpected size %v×%v", w, h)
	}
	if tf.Determinant() >= 0 {
		t.Fatalf("mirror should stay in transform: %+v", tf)
	}
	if !near(math.Hypot(tf.A, tf.B), 1) || !near(math.Hypot(tf.C, tf.D), 1) {
		t.Fatalf("transform should be scale free: %+v", tf)
	}
}

func TestNormalizeAngle(t *testing.T) {
	if got := NormalizeAngle(5 * math.Pi / 2); !near(got, math.Pi/2) {
		t.Fatalf("5π/2 -> %v", got)
	}
	if got := NormalizeAngle(-math.Pi / 2); !near(got, -math.Pi/2) {
		t.Fatalf("-π/2 -> %v", got)
	}
}
