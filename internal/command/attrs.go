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

// SetAttrsCmd applies attribute patches. attrs holds one patch per node or
// a single shared patch.
type SetAttrsCmd struct {
	doc   *scene.Document
	desc  string
	ids   []string
	attrs []scene.Attrs
	prev  []scene.Attrs
}

// NewSetAttrsCmd builds the command. A nil prev is captured from the nodes
// now, which is right when the command runs through Manager.Execute; a
// gesture passes the values it captured before dragging.
func NewSetAttrsCmd(doc *scene.Document, desc string, nodes []*scene.Node, attrs, prev []scene.Attrs) (*SetAttrsCmd, error) {
	if len(nodes) == 0 {
		return nil, ErrNoElements
	}
	if len(attrs) != 1 && len(attrs) != len(nodes) {
		return nil, fmt.Errorf("%d attrs for %d nodes: %w", len(attrs), len(nodes), ErrLengthMismatch)
	}
	if prev != nil && len(prev) != len(nodes) {
		return nil, fmt.Errorf("%d previous attrs for %d nodes: %w", len(prev), len(nodes), ErrLengthMismatch)
	}
	if prev == nil {
		prev = make([]scene.Attrs, len(nodes))
		for i, n := range nodes {
			prev[i] = n.AttrsLike(pick(attrs, i))
		}
	}
	if desc == "" {
		desc = "Set attributes"
	}
	return &SetAttrsCmd{doc: doc, desc: desc, ids: idsOf(nodes), attrs: attrs, prev: prev}, nil
}

func pick(attrs []scene.Attrs, i int) scene.Attrs {
	if len(attrs) == 1 {
		return attrs[0]
	}
	return attrs[i]
}

func (c *SetAttrsCmd) Desc() string { return c.desc }

func (c *SetAttrsCmd) Redo() {
	nodes, ok := resolve(c.doc, c.desc, "redo", c.ids)
	if !ok {
		return
	}
	for i, n := range nodes {
		n.UpdateAttrs(pick(c.attrs, i))
	}
}

func (c *SetAttrsCmd) Undo() {
	nodes, ok := resolve(c.doc, c.desc, "undo", c.ids)
	if !ok {
		return
	}
	for i, n := range nodes {
		n.UpdateAttrs(c.prev[i])
	}
}

// UpdateItem is one node of an UpdateGraphicsAttrsCmd. A nil ParentIndex
// only patches attributes; otherwise the node moves to that parent and
// position.
type UpdateItem struct {
	Node        *scene.Node
	Attrs       scene.Attrs
	PrevAttrs   scene.Attrs
	ParentIndex *scene.ParentIndex
}

type updateEntry struct {
	id         string
	attrs      scene.Attrs
	prevAttrs  scene.Attrs
	next, prev *scene.ParentIndex
}

// UpdateGraphicsAttrsCmd patches attributes and optionally reparents, in
// the order detach, patch, insert. NewIDs names freshly created nodes the
// edit introduced.
type UpdateGraphicsAttrsCmd struct {
	doc     *scene.Document
	sel     *selection.Selection
	desc    string
	entries []updateEntry
	newIDs  []string
}

func NewUpdateGraphicsAttrsCmd(doc *scene.Document, sel *selection.Selection, desc string, items []UpdateItem, newIDs []string) (*UpdateGraphicsAttrsCmd, error) {
	if len(items) == 0 {
		return nil, ErrNoElements
	}
	entries := make([]updateEntry, len(items))
	for i, it := range items {
		e := updateEntry{id: it.Node.ID, attrs: it.Attrs, prevAttrs: it.PrevAttrs}
		if e.prevAttrs.IsEmpty() {
			e.prevAttrs = it.Node.AttrsLike(it.Attrs)
		}
		if it.ParentIndex != nil {
			p := doc.Parent(it.Node)
			if p == nil {
				return nil, fmt.Errorf("reparent %s: %w", it.Node.ID, scene.ErrNoParentIndex)
			}
			next := *it.ParentIndex
			e.next = &next
			e.prev = &scene.ParentIndex{ParentID: p.ID, Position: doc.IndexOf(it.Node)}
		}
		entries[i] = e
	}
	if desc == "" {
		desc = "Update graphics"
	}
	return &UpdateGraphicsAttrsCmd{doc: doc, sel: sel, desc: desc, entries: entries, newIDs: newIDs}, nil
}

func (c *UpdateGraphicsAttrsCmd) Desc() string { return c.desc }

// NewIDs returns the ids of nodes the edit created.
func (c *UpdateGraphicsAttrsCmd) NewIDs() []string { return c.newIDs }

func (c *UpdateGraphicsAttrsCmd) nodes(op string) ([]*scene.Node, bool) {
	ids := make([]string, len(c.entries))
	for i, e := range c.entries {
		ids[i] = e.id
	}
	return resolve(c.doc, c.desc, op, ids)
}

func (c *UpdateGraphicsAttrsCmd) Redo() {
	nodes, ok := c.nodes("redo")
	if !ok {
		return
	}
	for i, e := range c.entries {
		if e.next == nil {
			continue
		}
		// positions shift as earlier entries leave, so record them as seen
		if pi, ok := c.doc.RemoveFromParent(nodes[i]); ok {
			c.entries[i].prev = &pi
		}
	}
	for i, e := range c.entries {
		nodes[i].UpdateAttrs(e.attrs)
	}
	for i, e := range c.entries {
		if e.next != nil {
			c.insertAt(nodes[i], *e.next, "redo")
		}
	}
	if len(c.newIDs) > 0 {
		if fresh, ok := resolve(c.doc, c.desc, "redo", c.newIDs); ok {
			c.sel.SetItems(fresh)
		}
	}
}

func (c *UpdateGraphicsAttrsCmd) Undo() {
	nodes, ok := c.nodes("undo")
	if !ok {
		return
	}
	for i := len(c.entries) - 1; i >= 0; i-- {
		if c.entries[i].next != nil {
			c.doc.RemoveFromParent(nodes[i])
		}
	}
	for i := len(c.entries) - 1; i >= 0; i-- {
		nodes[i].UpdateAttrs(c.entries[i].prevAttrs)
	}
	for i := len(c.entries) - 1; i >= 0; i-- {
		if e := c.entries[i]; e.prev != nil {
			c.insertAt(nodes[i], *e.prev, "undo")
		}
	}
	// Only edits that introduced nodes drop the selection; plain reparents
	// keep it. Revisit once grouping owns its own command.
	if len(c.newIDs) > 0 {
		c.sel.Clear()
	}
}

func (c *UpdateGraphicsAttrsCmd) insertAt(n *scene.Node, pi scene.ParentIndex, op string) {
	parent, ok := c.doc.Node(pi.ParentID)
	if !ok {
		logger(op).Warn("stale parent reference", slog.String("cmd", c.desc), slog.String("id", pi.ParentID))
		return
	}
	if err := c.doc.Insert(parent, n, pi.Position); err != nil {
		logger(op).Warn("insert failed", slog.String("id", n.ID), slog.Any("err", err))
	}
}
