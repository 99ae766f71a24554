/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package editor holds the state every tool works on: the document, its
// selection and history, interaction settings, the viewport and the render
// scheduler. It is not safe for concurrent use.
package editor

import (
	"fmt"
	"log/slog"
	"math"

	"vectoredit/internal/command"
	"vectoredit/internal/config"
	"vectoredit/internal/handles"
	applog "vectoredit/internal/log"
	"vectoredit/internal/scene"
	"vectoredit/internal/selection"
	"vectoredit/internal/vector"
)

type Context struct {
	Doc      *scene.Document
	Sel      *selection.Selection
	History  *command.Manager
	Settings config.EditorConfig
	Viewport Viewport
	Render   *RenderScheduler

	log *slog.Logger
}

// New wires a context around doc. History changes prune the selection and
// every history or selection change requests a render.
func New(doc *scene.Document, cfg config.EditorConfig) *Context {
	c := &Context{
		Doc:      doc,
		Sel:      selection.New(doc),
		History:  command.NewManager(command.Config{MaxDepth: cfg.HistoryDepth}),
		Settings: cfg,
		Viewport: NewViewport(0, 0),
		Render:   &RenderScheduler{},
		log:      applog.WithComponent("editor"),
	}
	c.History.OnChange(func(command.State) {
		c.Sel.Prune()
		c.Render.RequestRender()
	})
	c.Sel.OnChange(func(selection.Change) { c.Render.RequestRender() })
	return c
}

func (c *Context) zoom() float64 {
	if c.Viewport.Zoom <= 0 {
		return 1
	}
	return c.Viewport.Zoom
}

// HitTolerance is the configured pick radius in world units.
func (c *Context) HitTolerance() float64 { return c.Settings.HitTolerance / c.zoom() }

// SnapTolerance is the configured snap distance in world units.
func (c *Context) SnapTolerance() float64 { return c.Settings.SnapTolerance / c.zoom() }

// RotationStep is the rotation snap step in radians.
func (c *Context) RotationStep() float64 {
	if c.Settings.RotationSnapStep <= 0 {
		return vector.DefaultRotationStep
	}
	return c.Settings.RotationSnapStep * math.Pi / 180
}

func (c *Context) handleSettings() handles.Settings {
	s := handles.DefaultSettings()
	if c.Settings.HandleSize > 0 {
		s.HandleSize = c.Settings.HandleSize
	}
	if c.Settings.RotateZoneSize > 0 {
		s.RotateZoneSize = c.Settings.RotateZoneSize
	}
	return s
}

// Handles lays out the handles of the current selection.
func (c *Context) Handles() []handles.Handle {
	box, ok := c.Sel.BBox()
	if !ok {
		return nil
	}
	return handles.Compute(box, c.Sel.IsMulti(), c.handleSettings(), c.zoom())
}

// HitHandle returns the selection handle under the world point p.
func (c *Context) HitHandle(p vector.Pt) (handles.Handle, bool) {
	return handles.HitTest(c.Handles(), p)
}

// HitNode returns the topmost unlocked node under the world point p.
func (c *Context) HitNode(p vector.Pt) *scene.Node {
	return c.Doc.HitTest(p, scene.HitOptions{Tolerance: c.HitTolerance(), SkipLocked: true})
}

// ReferenceBoxes are the snap targets for moving the selection: the world
// AABBs of visible unselected siblings plus every non-canvas parent,
// limited to the viewport when it has a size.
func (c *Context) ReferenceBoxes() []vector.Rect {
	items := c.Sel.Items(false)
	if len(items) == 0 {
		return nil
	}
	view, clip := c.Viewport.VisibleRect()
	seenParent := make(map[string]bool)
	var out []vector.Rect
	add := func(n *scene.Node) {
		bb := c.Doc.BBox(n)
		if clip && !view.Intersects(bb) {
			return
		}
		out = append(out, bb)
	}
	for _, n := range items {
		p := c.Doc.Parent(n)
		if p == nil || seenParent[p.ID] {
			continue
		}
		seenParent[p.ID] = true
		if p.Kind != scene.KindCanvas {
			add(p)
		}
		for _, s := range p.Children() {
			if s.Deleted || !s.Visible || c.Sel.Has(s.ID) {
				continue
			}
			add(s)
		}
	}
	return out
}

// DeleteSelection soft-deletes the unlocked selection in one command.
func (c *Context) DeleteSelection() error {
	cmd, err := command.NewRemoveGraphicsCmd(c.Doc, c.Sel, c.Sel.Items(true))
	if err != nil {
		return fmt.Errorf("delete selection: %w", err)
	}
	c.History.Execute(cmd)
	return nil
}

// Arrange changes the stacking order of the selection. It reports false
// when nothing would move.
func (c *Context) Arrange(t command.ArrangeType) (bool, error) {
	nodes := c.Sel.Items(false)
	if !command.ShouldArrange(c.Doc, t, nodes) {
		return false, nil
	}
	cmd, err := command.NewArrangeCmd(c.Doc, t, nodes)
	if err != nil {
		return false, fmt.Errorf("arrange: %w", err)
	}
	c.History.Execute(cmd)
	return true, nil
}

// Align lines up the unlocked selection. It reports false when every node
// is already in place.
func (c *Context) Align(t command.AlignType) (bool, error) {
	cmd, err := command.NewAlignCmd(c.Doc, t, c.Sel.Items(true))
	if err != nil {
		return false, fmt.Errorf("align: %w", err)
	}
	if cmd.Empty() {
		return false, nil
	}
	c.History.Execute(cmd)
	return true, nil
}

func (c *Context) Undo() bool {
	ok := c.History.Undo()
	if !ok {
		c.log.Debug("nothing to undo")
	}
	return ok
}

func (c *Context) Redo() bool {
	ok := c.History.Redo()
	if !ok {
		c.log.Debug("nothing to redo")
	}
	return ok
}
