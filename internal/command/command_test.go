/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package command

import (
	"bytes"
	"errors"
	"slices"
	"strings"
	"testing"

	applog "vectoredit/internal/log"
	"vectoredit/internal/scene"
	"vectoredit/internal/selection"
	"vectoredit/internal/vector"
)

func setup(t *testing.T) (*scene.Document, *selection.Selection, []*scene.Node) {
	t.Helper()
	d := scene.NewDocument()
	var ns []*scene.Node
	for i := 0; i < 3; i++ {
		n := d.NewShape(scene.KindRect, float64(i*20), 0, 10, 10)
		if err := d.Insert(d.CurrentCanvas(), n, -1); err != nil {
			t.Fatalf("insert: %v", err)
		}
		ns = append(ns, n)
	}
	return d, selection.New(d), ns
}

func state(t *testing.T, d *scene.Document) string {
	t.Helper()
	b, err := d.MarshalSnapshot()
	if err != nil {
		t.Fatalf("snapshot: %v", err)
	}
	return string(b)
}

// checkInverse runs c forward and back twice and compares full document
// state each time.
func checkInverse(t *testing.T, d *scene.Document, c Command) {
	t.Helper()
	before := state(t, d)
	c.Redo()
	after := state(t, d)
	if after == before {
		t.Fatalf("%s: redo changed nothing", c.Desc())
	}
	c.Undo()
	if got := state(t, d); got != before {
		t.Fatalf("%s: undo did not restore state\nwant %s\ngot  %s", c.Desc(), before, got)
	}
	c.Redo()
	if got := state(t, d); got != after {
		t.Fatalf("%s: second redo differs", c.Desc())
	}
	c.Undo()
	if got := state(t, d); got != before {
		t.Fatalf("%s: second undo did not restore state", c.Desc())
	}
}

func TestInverseLaw(t *testing.T) {
	t.Run("set attrs", func(t *testing.T) {
		d, _, ns := setup(t)
		c, err := NewSetAttrsCmd(d, "", ns[:2], []scene.Attrs{
			{Width: scene.Ptr(33.3), Fill: &[]vector.Paint{vector.Solid(vector.Color{R: 255, A: 255})}},
			{Transform: scene.Ptr(vector.RectTransform(1.1, 2.2, 10, 10, 0.3))},
		}, nil)
		if err != nil {
			t.Fatal(err)
		}
		checkInverse(t, d, c)
	})
	t.Run("remove", func(t *testing.T) {
		d, s, ns := setup(t)
		c, err := NewRemoveGraphicsCmd(d, s, []*scene.Node{ns[0], ns[2]})
		if err != nil {
			t.Fatal(err)
		}
		checkInverse(t, d, c)
	})
	t.Run("add", func(t *testing.T) {
		d, s, _ := setup(t)
		n := d.NewShape(scene.KindEllipse, 5, 5, 10, 10)
		n.ParentIndex = &scene.ParentIndex{ParentID: d.CurrentCanvas().ID, Position: 1}
		c, err := NewAddGraphicsCmd(d, s, []*scene.Node{n})
		if err != nil {
			t.Fatal(err)
		}
		checkInverse(t, d, c)
		c.Redo()
		if d.IndexOf(n) != 1 || !s.Has(n.ID) {
			t.Fatalf("added node at %d selected=%v", d.IndexOf(n), s.Has(n.ID))
		}
	})
	t.Run("reparent", func(t *testing.T) {
		d, s, ns := setup(t)
		f := d.NewShape(scene.KindFrame, 100, 100, 50, 50)
		if err := d.Insert(d.CurrentCanvas(), f, -1); err != nil {
			t.Fatal(err)
		}
		c, err := NewUpdateGraphicsAttrsCmd(d, s, "Group", []UpdateItem{
			{Node: ns[0], Attrs: scene.Attrs{Transform: scene.Ptr(vector.Translate(1, 1))}, ParentIndex: &scene.ParentIndex{ParentID: f.ID, Position: 0}},
			{Node: ns[1], Attrs: scene.Attrs{Transform: scene.Ptr(vector.Translate(2, 2))}, ParentIndex: &scene.ParentIndex{ParentID: f.ID, Position: 1}},
		}, nil)
		if err != nil {
			t.Fatal(err)
		}
		checkInverse(t, d, c)
		c.Redo()
		if !slices.Equal(f.ChildIDs(), []string{ns[0].ID, ns[1].ID}) {
			t.Fatalf("frame children %v", f.ChildIDs())
		}
	})
	t.Run("arrange", func(t *testing.T) {
		d, _, ns := setup(t)
		c, err := NewArrangeCmd(d, ArrangeFront, ns[:1])
		if err != nil {
			t.Fatal(err)
		}
		checkInverse(t, d, c)
	})
	t.Run("align", func(t *testing.T) {
		d, _, ns := setup(t)
		low := d.NewShape(scene.KindRect, 0, 40, 10, 10)
		if err := d.Insert(d.CurrentCanvas(), low, -1); err != nil {
			t.Fatal(err)
		}
		c, err := NewAlignCmd(d, AlignVCenter, []*scene.Node{ns[0], low})
		if err != nil {
			t.Fatal(err)
		}
		checkInverse(t, d, c)
	})
}

func TestRemoveClearsSelectionAndUndoRestoresIt(t *testing.T) {
	d, s, ns := setup(t)
	s.SetItems(ns[:2])
	c, _ := NewRemoveGraphicsCmd(d, s, ns[:2])
	c.Redo()
	if s.Len() != 0 || d.IsLive(ns[0]) || !ns[0].Deleted {
		t.Fatalf("remove: sel=%v live=%v", s.IDs(), d.IsLive(ns[0]))
	}
	c.Undo()
	if !slices.Equal(s.IDs(), []string{ns[0].ID, ns[1].ID}) {
		t.Fatalf("undo selection %v", s.IDs())
	}
	if !slices.Equal(d.CurrentCanvas().ChildIDs(), []string{ns[0].ID, ns[1].ID, ns[2].ID}) {
		t.Fatalf("order after undo %v", d.CurrentCanvas().ChildIDs())
	}
}

func TestArrangeNoOpAndOrder(t *testing.T) {
	ids := []string{"A", "B", "C"}
	set := func(xs ...string) map[string]bool {
		m := map[string]bool{}
		for _, x := range xs {
			m[x] = true
		}
		return m
	}
	cases := []struct {
		name  string
		t     ArrangeType
		moved map[string]bool
		exec  bool
		want  []string
	}{
		{"front already front", ArrangeFront, set("C"), false, ids},
		{"front", ArrangeFront, set("A"), true, []string{"B", "C", "A"}},
		{"front keeps relative order", ArrangeFront, set("A", "B"), true, []string{"C", "A", "B"}},
		{"back already back", ArrangeBack, set("A", "B"), false, ids},
		{"back", ArrangeBack, set("C"), true, []string{"C", "A", "B"}},
		{"forward", ArrangeForward, set("A"), true, []string{"B", "A", "C"}},
		{"forward run at end", ArrangeForward, set("B", "C"), false, ids},
		{"forward split", ArrangeForward, set("A", "C"), true, []string{"B", "A", "C"}},
		{"backward", ArrangeBackward, set("C"), true, []string{"A", "C", "B"}},
		{"backward at start", ArrangeBackward, set("A"), false, ids},
	}
	for _, tc := range cases {
		if got := ShouldExecCmd(tc.t, ids, tc.moved); got != tc.exec {
			t.Fatalf("%s: ShouldExecCmd=%v", tc.name, got)
		}
		if got := Arrange(tc.t, ids, tc.moved); !slices.Equal(got, tc.want) {
			t.Fatalf("%s: got %v want %v", tc.name, got, tc.want)
		}
	}
}

func TestArrangeCmdOnDocument(t *testing.T) {
	d, _, ns := setup(t)
	if ShouldArrange(d, ArrangeFront, ns[2:]) {
		t.Fatalf("topmost node needs no bring-to-front")
	}
	c, err := NewArrangeCmd(d, ArrangeFront, ns[:1])
	if err != nil {
		t.Fatal(err)
	}
	c.Redo()
	want := []string{ns[1].ID, ns[2].ID, ns[0].ID}
	if !slices.Equal(d.CurrentCanvas().ChildIDs(), want) {
		t.Fatalf("got %v want %v", d.CurrentCanvas().ChildIDs(), want)
	}
	c.Undo()
	if !slices.Equal(d.CurrentCanvas().ChildIDs(), []string{ns[0].ID, ns[1].ID, ns[2].ID}) {
		t.Fatalf("undo order %v", d.CurrentCanvas().ChildIDs())
	}
	if _, err := NewArrangeCmd(d, ArrangeBack, nil); !errors.Is(err, ErrNoElements) {
		t.Fatalf("expected ErrNoElements, got %v", err)
	}
}

func TestAlignLeft(t *testing.T) {
	d, _, ns := setup(t)
	c, err := NewAlignCmd(d, AlignLeft, ns[:2])
	if err != nil {
		t.Fatal(err)
	}
	if c.Empty() {
		t.Fatalf("align with offset nodes must not be empty")
	}
	c.Redo()
	if ns[0].X() != 0 || ns[1].X() != 0 {
		t.Fatalf("after align x=%v,%v", ns[0].X(), ns[1].X())
	}
	c.Undo()
	if ns[0].X() != 0 || ns[1].X() != 20 {
		t.Fatalf("after undo x=%v,%v", ns[0].X(), ns[1].X())
	}
	if _, err := NewAlignCmd(d, AlignLeft, ns[:1]); !errors.Is(err, ErrTooFewElements) {
		t.Fatalf("expected ErrTooFewElements, got %v", err)
	}
}

func TestAlignWithSelectedAncestor(t *testing.T) {
	d := scene.NewDocument()
	frame := d.NewShape(scene.KindFrame, 100, 0, 100, 100)
	other := d.NewShape(scene.KindRect, 0, 0, 10, 10)
	for _, n := range []*scene.Node{frame, other} {
		if err := d.Insert(d.CurrentCanvas(), n, -1); err != nil {
			t.Fatal(err)
		}
	}
	child := d.NewShape(scene.KindRect, 50, 10, 20, 20)
	if err := d.Insert(frame, child, -1); err != nil {
		t.Fatal(err)
	}
	// descendant listed before its frame
	c, err := NewAlignCmd(d, AlignLeft, []*scene.Node{child, frame, other})
	if err != nil {
		t.Fatal(err)
	}
	checkInverse(t, d, c)
	c.Redo()
	for _, n := range []*scene.Node{frame, child, other} {
		if x := d.BBox(n).X; x > 1e-9 || x < -1e-9 {
			t.Fatalf("%s left edge at %v, want 0", n.Kind, x)
		}
	}
	c.Undo()
	if frame.X() != 100 || child.X() != 50 {
		t.Fatalf("undo frame x=%v child x=%v", frame.X(), child.X())
	}
}

func TestAlignRefitsAutoFitFrame(t *testing.T) {
	d := scene.NewDocument()
	frame := d.NewShape(scene.KindFrame, 0, 0, 60, 60)
	frame.ResizeToFit = true
	if err := d.Insert(d.CurrentCanvas(), frame, -1); err != nil {
		t.Fatal(err)
	}
	a := d.NewShape(scene.KindRect, 0, 0, 10, 10)
	b := d.NewShape(scene.KindRect, 50, 50, 10, 10)
	for _, n := range []*scene.Node{a, b} {
		if err := d.Insert(frame, n, -1); err != nil {
			t.Fatal(err)
		}
	}
	c, err := NewAlignCmd(d, AlignTop, []*scene.Node{a, b})
	if err != nil {
		t.Fatal(err)
	}
	checkInverse(t, d, c)
	c.Redo()
	if frame.Width != 60 || frame.Height != 10 {
		t.Fatalf("frame not refit: %vx%v", frame.Width, frame.Height)
	}
	if y := d.BBox(b).Y; y != 0 {
		t.Fatalf("b world y=%v", y)
	}
	c.Undo()
	if frame.Height != 60 || b.Y() != 50 {
		t.Fatalf("undo frame h=%v b y=%v", frame.Height, b.Y())
	}
}

func TestSetAttrsUndoKeepsEmptyPath(t *testing.T) {
	d := scene.NewDocument()
	n := d.NewShape(scene.KindPath, 0, 0, 10, 10)
	n.Path = &vector.Path{Cmds: []vector.PathCmd{}}
	if err := d.Insert(d.CurrentCanvas(), n, -1); err != nil {
		t.Fatal(err)
	}
	c, err := NewSetAttrsCmd(d, "Clear path", []*scene.Node{n}, []scene.Attrs{{Path: &vector.Path{}}}, nil)
	if err != nil {
		t.Fatal(err)
	}
	checkInverse(t, d, c)
	if n.Path == nil {
		t.Fatalf("undo turned an empty path into no path")
	}
}

func TestAlignRotatedUsesBBox(t *testing.T) {
	d, _, ns := setup(t)
	ns[1].SetRect(40, 0, 10, 10, 0.5)
	c, _ := NewAlignCmd(d, AlignRight, ns[:2])
	c.Redo()
	a, b := d.BBox(ns[0]), d.BBox(ns[1])
	if diff := a.MaxX() - b.MaxX(); diff > 1e-9 || diff < -1e-9 {
		t.Fatalf("right edges %v vs %v", a.MaxX(), b.MaxX())
	}
	if ns[1].Rotation() < 0.49 || ns[1].Rotation() > 0.51 {
		t.Fatalf("align must keep rotation, got %v", ns[1].Rotation())
	}
}

type recCmd struct {
	name string
	log  *[]string
}

func (r recCmd) Desc() string { return r.name }
func (r recCmd) Redo()        { *r.log = append(*r.log, "redo "+r.name) }
func (r recCmd) Undo()        { *r.log = append(*r.log, "undo "+r.name) }

func TestMacroReverseOrder(t *testing.T) {
	var log []string
	m := NewMacroCmd("m", recCmd{"C1", &log}, recCmd{"C2", &log}, recCmd{"C3", &log})
	m.Redo()
	m.Undo()
	want := []string{"redo C1", "redo C2", "redo C3", "undo C3", "undo C2", "undo C1"}
	if !slices.Equal(log, want) {
		t.Fatalf("got %v", log)
	}
	if m.Len() != 3 || m.Desc() != "m" {
		t.Fatalf("len=%d desc=%q", m.Len(), m.Desc())
	}
}

func TestConstructorMisuse(t *testing.T) {
	d, s, ns := setup(t)
	if _, err := NewSetAttrsCmd(d, "", ns, []scene.Attrs{{}, {}}, nil); !errors.Is(err, ErrLengthMismatch) {
		t.Fatalf("attrs mismatch: %v", err)
	}
	if _, err := NewSetAttrsCmd(d, "", ns, []scene.Attrs{{}}, []scene.Attrs{{}}); !errors.Is(err, ErrLengthMismatch) {
		t.Fatalf("prev mismatch: %v", err)
	}
	if _, err := NewSetAttrsCmd(d, "", nil, []scene.Attrs{{}}, nil); !errors.Is(err, ErrNoElements) {
		t.Fatalf("empty: %v", err)
	}
	loose := d.NewShape(scene.KindRect, 0, 0, 1, 1)
	if _, err := NewAddGraphicsCmd(d, s, []*scene.Node{loose}); !errors.Is(err, scene.ErrNoParentIndex) {
		t.Fatalf("add without parent: %v", err)
	}
	if _, err := NewUpdateGraphicsAttrsCmd(d, s, "", []UpdateItem{{Node: loose, ParentIndex: &scene.ParentIndex{}}}, nil); !errors.Is(err, scene.ErrNoParentIndex) {
		t.Fatalf("reparent detached: %v", err)
	}
}

func TestStaleReferenceWarnsAndSkips(t *testing.T) {
	var buf bytes.Buffer
	applog.Init(applog.Options{Level: "warn", Console: &buf})
	t.Cleanup(func() { applog.Init(applog.Options{Level: "info"}) })

	d, _, ns := setup(t)
	other := scene.NewDocument()
	ghost := other.NewShape(scene.KindRect, 0, 0, 10, 10)
	c, err := NewSetAttrsCmd(d, "Resize", []*scene.Node{ns[0], ghost}, []scene.Attrs{{Width: scene.Ptr(99.0)}}, nil)
	if err != nil {
		t.Fatal(err)
	}
	before := state(t, d)
	c.Redo()
	c.Undo()
	if state(t, d) != before {
		t.Fatalf("stale command must not touch the document")
	}
	if ns[0].Width != 10 {
		t.Fatalf("partial effect applied: width=%v", ns[0].Width)
	}
	if out := buf.String(); !strings.Contains(out, "stale node reference") || !strings.Contains(out, ghost.ID) {
		t.Fatalf("missing warning: %q", out)
	}
}

func TestUpdateGraphicsUndoSelection(t *testing.T) {
	d, s, ns := setup(t)
	s.SetItems(ns[:1])
	c, _ := NewUpdateGraphicsAttrsCmd(d, s, "", []UpdateItem{{Node: ns[0], Attrs: scene.Attrs{Width: scene.Ptr(5.0)}}}, nil)
	c.Redo()
	c.Undo()
	if !s.Has(ns[0].ID) {
		t.Fatalf("plain update must keep the selection")
	}

	f := d.NewShape(scene.KindFrame, 0, 0, 40, 40)
	_ = d.Insert(d.CurrentCanvas(), f, -1)
	c2, _ := NewUpdateGraphicsAttrsCmd(d, s, "Group", []UpdateItem{{Node: ns[1], ParentIndex: &scene.ParentIndex{ParentID: f.ID}}}, []string{f.ID})
	c2.Redo()
	if !slices.Equal(s.IDs(), []string{f.ID}) {
		t.Fatalf("redo should select the new node, got %v", s.IDs())
	}
	c2.Undo()
	if s.Len() != 0 {
		t.Fatalf("undo with new ids must clear the selection, got %v", s.IDs())
	}
}
