/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package vector

import "testing"

func TestPath_BoundsAndScale(t *testing.T) {
	var p Path
	p.MoveTo(0, 0)
	p.LineTo(10, 0)
	p.LineTo(0, 10)
	p.Close()

	b := p.Bounds()
	if b.X != 0 || b.Y != 0 || b.W != 10 || b.H != 10 {
		t.Fatalf("unexpected bounds: %+v", b)
	}

	cp := p.Clone()
	cp.Scale(2, 3)
	if bb := cp.Bounds(); bb.W != 20 || bb.H != 30 {
		t.Fatalf("unexpected scaled bounds: %+v", bb)
	}
	if p.Bounds().W != 10 {
		t.Fatalf("clone must not share commands")
	}
	if p.Equal(cp) {
		t.Fatalf("scaled path should differ")
	}
}

func TestPath_EmptyBounds(t *testing.T) {
	var p Path
	if b := p.Bounds(); b != (Rect{}) {
		t.Fatalf("empty path should have zero bounds, got %+v", b)
	}
}

func TestPath_FlattenClosesSubpath(t *testing.T) {
	var p Path
	p.MoveTo(0, 0)
	p.QuadTo(5, 10, 10, 0)
	p.Close()
	polys := p.Flatten(4)
	if len(polys) != 1 {
		t.Fatalf("expected one subpath, got %d", len(polys))
	}
	pl := polys[0]
	if len(pl) != 6 { // move + 4 samples + close
		t.Fatalf("unexpected point count %d", len(pl))
	}
	if pl[len(pl)-1] != pl[0] {
		t.Fatalf("closed subpath should end at its start")
	}
}
