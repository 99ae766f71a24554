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

func TestResizeRect_KeepRatioLocksToLargerScale(t *testing.T) {
	box := BoxFromRect(R(0, 0, 100, 50))
	res := ResizeRect(HandleSE, Pt{150, 50}, box, ResizeOptions{KeepRatio: true, MinSize: 1})
	if !near(res.Width, 150) || !near(res.Height, 75) {
		t.Fatalf("expected 150×75, got %v×%v", res.Width, res.Height)
	}
	if p := res.Prepended.Apply(Pt{0, 0}); !near(p.X, 0) || !near(p.Y, 0) {
		t.Fatalf("nw anchor moved to %+v", p)
	}
}

func TestResizeRect_AnchorFixedOnRotatedBox(t *testing.T) {
	box := OrientedBox{Width: 80, Height: 40, Transform: RectTransform(10, 10, 80, 40, 0.6)}
	anchorBefore := box.Point(Pt{0, 0})
	drag := box.Point(Pt{120, 70})
	res := ResizeRect(HandleSE, drag, box, ResizeOptions{MinSize: 1})
	if !near(res.ScaleX, 1.5) || !near(res.ScaleY, 1.75) {
		t.Fatalf("unexpected scale %v,%v", res.ScaleX, res.ScaleY)
	}
	after := res.Box.Point(Pt{0, 0})
	if !near(after.X, anchorBefore.X) || !near(after.Y, anchorBefore.Y) {
		t.Fatalf("anchor moved: %+v -> %+v", anchorBefore, after)
	}
	if !near(res.Box.Rotation(), 0.6) {
		t.Fatalf("rotation changed: %v", res.Box.Rotation())
	}
	if !near(res.Box.Width, 120) || !near(res.Box.Height, 70) {
		t.Fatalf("unexpected box %v×%v", res.Box.Width, res.Box.Height)
	}
}

func TestResizeRect_EdgeOnlyTouchesOneAxis(t *testing.T) {
	box := BoxFromRect(R(0, 0, 100, 50))
	res := ResizeRect(HandleN, Pt{999, -50}, box, ResizeOptions{MinSize: 1})
	if res.ScaleX != 1 || !near(res.ScaleY, 2) {
		t.Fatalf("unexpected scale %v,%v", res.ScaleX, res.ScaleY)
	}
	if p := res.Box.Point(Pt{0, 0}); !near(p.Y, -50) {
		t.Fatalf("top edge should follow the pointer: %+v", p)
	}
}

func TestResizeRect_ScaleFromCenter(t *testing.T) {
	box := BoxFromRect(R(0, 0, 100, 100))
	res := ResizeRect(HandleSE, Pt{150, 150}, box, ResizeOptions{ScaleFromCenter: true, MinSize: 1})
	c := res.Box.Center()
	if !near(c.X, 50) || !near(c.Y, 50) {
		t.Fatalf("center moved: %+v", c)
	}
	if !near(res.Width, 200) {
		t.Fatalf("expected 200 wide, got %v", res.Width)
	}
}

func TestResizeRect_FlipAndClamp(t *testing.T) {
	box := BoxFromRect(R(0, 0, 100, 50))
	clamped := ResizeRect(HandleE, Pt{-40, 25}, box, ResizeOptions{MinSize: 1})
	if !near(clamped.Width, 1) {
		t.Fatalf("expected clamp to min size, got %v", clamped.Width)
	}
	flipped := ResizeRect(HandleE, Pt{-40, 25}, box, ResizeOptions{Flip: true, MinSize: 1})
	if !near(flipped.Width, -40) {
		t.Fatalf("expected mirrored width -40, got %v", flipped.Width)
	}
	if flipped.Box.Width < 0 || flipped.Box.Transform.Determinant() >= 0 {
		t.Fatalf("mirror should live in the transform: %+v", flipped.Box)
	}
}

func TestResizeRect_ZeroDimensionKeepsScale(t *testing.T) {
	box := BoxFromRect(R(0, 0, 100, 0))
	res := ResizeRect(HandleSE, Pt{200, 30}, box, ResizeOptions{MinSize: 1})
	if !near(res.ScaleX, 2) || res.ScaleY != 1 {
		t.Fatalf("unexpected scale %v,%v", res.ScaleX, res.ScaleY)
	}
}

func TestResizeLine_MovesOneEndpoint(t *testing.T) {
	box := OrientedBox{Width: 100, Transform: Translate(10, 10)}
	res := ResizeLine(HandleE, Pt{10, 110}, box)
	if !near(res.Length, 100) || !near(res.Angle, math.Pi/2) {
		t.Fatalf("unexpected line %+v", res)
	}
	if p := res.Transform.Apply(Pt{0, 0}); !near(p.X, 10) || !near(p.Y, 10) {
		t.Fatalf("start should stay: %+v", p)
	}
	res = ResizeLine(HandleW, Pt{60, 10}, box)
	if !near(res.Length, 50) || !near(res.Angle, 0) {
		t.Fatalf("unexpected line %+v", res)
	}
}

func TestSnapRotationDelta(t *testing.T) {
	step := DefaultRotationStep
	for _, raw := range []float64{0.1, 0.3, 1.0, -0.9, 2.5} {
		d := SnapRotationDelta(0.05, raw, step)
		abs := 0.05 + d
		q := abs / step
		if !near(q, math.Round(q)) {
			t.Fatalf("raw %v gave absolute %v, not a multiple of 15°", raw, abs)
		}
		if math.Abs(abs-(0.05+raw)) > step/2+1e-9 {
			t.Fatalf("raw %v snapped too far to %v", raw, abs)
		}
	}
	if SnapRotationDelta(0.05, 0.3, 0) != 0.3 {
		t.Fatalf("zero step should disable snapping")
	}
}

func TestHandleCursorAngle(t *testing.T) {
	if got := HandleE.CursorAngle(0); got != 0 {
		t.Fatalf("e at 0 rotation: %v", got)
	}
	if got := HandleN.CursorAngle(math.Pi); !near(got, 90) {
		t.Fatalf("n rotated 180° should point south, got %v", got)
	}
}
