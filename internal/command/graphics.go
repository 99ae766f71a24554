/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package command

import (
	"fmt"
	"log/slog"

	"vectoredit/internal/scene"
	"vectoredit/internal/selection"
)

// AddGraphicsCmd makes nodes live. Nodes may already be inserted (a
// creation gesture inserts them while dragging) or pending with a
// ParentIndex, in which case the command is run with Manager.Execute.
type AddGraphicsCmd struct {
	doc *scene.Document
	sel *selection.Selection
	ids []string
}

func NewAddGraphicsCmd(doc *scene.Document, sel *selection.Selection, nodes []*scene.Node) (*AddGraphicsCmd, error) {
	if len(nodes) == 0 {
		return nil, ErrNoElements
	}
	for _, n := range nodes {
		if doc.Parent(n) == nil && n.ParentIndex == nil {
			return nil, fmt.Errorf("add %s: %w", n.ID, scene.ErrNoParentIndex)
		}
	}
	return &AddGraphicsCmd{doc: doc, sel: sel, ids: idsOf(nodes)}, nil
}

func (c *AddGraphicsCmd) Desc() string { return "Add graphics" }

func (c *AddGraphicsCmd) Redo() {
	nodes, ok := resolve(c.doc, c.Desc(), "redo", c.ids)
	if !ok {
		return
	}
	insertAll(c.doc, nodes, "redo")
	c.sel.SetItems(nodes)
}

func (c *AddGraphicsCmd) Undo() {
	nodes, ok := resolve(c.doc, c.Desc(), "undo", c.ids)
	if !ok {
		return
	}
	removeAll(c.doc, nodes)
	c.sel.Clear()
}

// RemoveGraphicsCmd soft-deletes nodes.
type RemoveGraphicsCmd struct {
	doc *scene.Document
	sel *selection.Selection
	ids []string
}

func NewRemoveGraphicsCmd(doc *scene.Document, sel *selection.Selection, nodes []*scene.Node) (*RemoveGraphicsCmd, error) {
	if len(nodes) == 0 {
		return nil, ErrNoElements
	}
	return &RemoveGraphicsCmd{doc: doc, sel: sel, ids: idsOf(nodes)}, nil
}

func (c *RemoveGraphicsCmd) Desc() string { return "Remove graphics" }

func (c *RemoveGraphicsCmd) Redo() {
	nodes, ok := resolve(c.doc, c.Desc(), "redo", c.ids)
	if !ok {
		return
	}
	for _, n := range nodes {
		c.doc.SetDeleted(n, true)
		c.doc.RemoveFromParent(n)
	}
	c.sel.Clear()
}

func (c *RemoveGraphicsCmd) Undo() {
	nodes, ok := resolve(c.doc, c.Desc(), "undo", c.ids)
	if !ok {
		return
	}
	for i := len(nodes) - 1; i >= 0; i-- {
		c.doc.SetDeleted(nodes[i], false)
		if c.doc.Parent(nodes[i]) == nil {
			if err := c.doc.Reinsert(nodes[i]); err != nil {
				logger("undo").Warn("reinsert failed", slog.String("id", nodes[i].ID), slog.Any("err", err))
			}
		}
	}
	c.sel.SetItems(nodes)
}

// insertAll undeletes and reinserts in list order; removeAll is its exact
// mirror, detaching in reverse order so positions come back unchanged.
func insertAll(doc *scene.Document, nodes []*scene.Node, op string) {
	for _, n := range nodes {
		doc.SetDeleted(n, false)
		if doc.Parent(n) != nil {
			continue
		}
		if err := doc.Reinsert(n); err != nil {
			logger(op).Warn("reinsert failed", slog.String("id", n.ID), slog.Any("err", err))
		}
	}
}

func removeAll(doc *scene.Document, nodes []*scene.Node) {
	for i := len(nodes) - 1; i >= 0; i-- {
		doc.SetDeleted(nodes[i], true)
		doc.RemoveFromParent(nodes[i])
	}
}
