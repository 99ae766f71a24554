/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package main

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"vectoredit/internal/command"
	"vectoredit/internal/config"
	"vectoredit/internal/editor"
	applog "vectoredit/internal/log"
	"vectoredit/internal/scene"
	"vectoredit/internal/storage"
	"vectoredit/internal/tool"
	"vectoredit/internal/vector"
)

// runDemo drives the editor the way a pointer session would: draw a frame
// and a few shapes, move, resize, align and arrange them, exercise undo and
// redo, then save and reindex.
func runDemo(h *storage.ProjectHandle, cfg config.EditorConfig) error {
	l := applog.WithOperation(applog.WithComponent("cli"), "demo")
	ed := editor.New(h.Doc, cfg)
	ed.Viewport = editor.NewViewport(1280, 800)
	frames := 0
	ed.Render.OnRender(func(editor.Frame) { frames++ })

	pt := func(x, y float64) vector.Pt { return vector.Pt{X: x, Y: y} }
	gesture := func(t tool.Tool, m tool.Modifiers, pts ...vector.Pt) error {
		t.Start(pts[0], m)
		for _, p := range pts[1:] {
			t.Drag(p, m)
			ed.Render.Tick()
		}
		err := t.End(pts[len(pts)-1], m)
		t.AfterEnd()
		ed.Render.Tick()
		return err
	}
	draw := func(kind scene.Kind, name string, m tool.Modifiers, from, to vector.Pt) (*scene.Node, error) {
		c, err := tool.NewCreate(ed, kind)
		if err != nil {
			return nil, err
		}
		if err := gesture(c, m, from, to); err != nil {
			return nil, err
		}
		n := ed.Sel.Single()
		if n == nil {
			return nil, fmt.Errorf("draw %s: nothing created", kind)
		}
		rename, err := command.NewSetAttrsCmd(ed.Doc, "Rename", []*scene.Node{n}, []scene.Attrs{{ObjectName: scene.Ptr(name)}}, nil)
		if err != nil {
			return nil, err
		}
		ed.History.Execute(rename)
		return n, nil
	}

	frame, err := draw(scene.KindFrame, "Card", tool.Modifiers{}, pt(40, 40), pt(360, 240))
	if err != nil {
		return err
	}

	title, err := draw(scene.KindText, "Title", tool.Modifiers{}, pt(60, 60), pt(260, 84))
	if err != nil {
		return err
	}
	badge, err := draw(scene.KindEllipse, "Badge", tool.Modifiers{Shift: true}, pt(280, 60), pt(320, 90))
	if err != nil {
		return err
	}
	if _, err := draw(scene.KindStar, "Rating", tool.Modifiers{}, pt(60, 120), pt(100, 160)); err != nil {
		return err
	}
	// from here on the card hugs its content
	fit, err := command.NewSetAttrsCmd(ed.Doc, "Auto-fit", []*scene.Node{frame}, []scene.Attrs{{ResizeToFit: scene.Ptr(true)}}, nil)
	if err != nil {
		return err
	}
	ed.History.Execute(fit)

	pointer := tool.NewPointer(ed)
	// move the badge, letting it snap to the title
	if err := gesture(pointer, tool.Modifiers{}, pt(300, 75), pt(310, 80), pt(322, 83)); err != nil {
		return err
	}
	// widen the title from its east edge
	ed.Sel.SetItems([]*scene.Node{title})
	box, _ := ed.Sel.BBox()
	east := box.Point(vector.HandleE.LocalPoint(box.Width, box.Height))
	if err := gesture(pointer, tool.Modifiers{}, east, east.Add(pt(40, 0))); err != nil {
		return err
	}

	ed.Sel.SetItems([]*scene.Node{title, badge})
	if _, err := ed.Align(command.AlignTop); err != nil {
		return err
	}
	ed.Sel.SetItems([]*scene.Node{badge})
	if _, err := ed.Arrange(command.ArrangeBack); err != nil {
		return err
	}
	if err := tool.Nudge(ed, 0, 4); err != nil {
		return err
	}

	ed.Undo()
	ed.Undo()
	ed.Redo()
	st := ed.History.State()
	l.Info("session done",
		slog.Int("frames", frames),
		slog.Bool("can_undo", st.CanUndo),
		slog.String("undo", st.UndoDesc),
		slog.String("redo", st.RedoDesc))

	if err := storage.Save(h); err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	return storage.UpdateIndex(ctx, h.Root, h.Doc)
}
