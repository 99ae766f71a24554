/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package scene holds the scene graph: nodes, the document arena that owns
// them, tree edits, world transforms, hit testing and the JSON snapshot.
//
// Containers own their ordered children; a child knows its parent only by
// id. Nodes are never removed from the arena: deletion detaches and flags
// them so history can bring them back. A Document is not safe for
// concurrent use.
package scene

import (
	"errors"
	"fmt"
	"slices"

	"github.com/google/uuid"

	"vectoredit/internal/textlayout"
	"vectoredit/internal/vector"
)

var (
	ErrUnknownNode   = errors.New("scene: unknown node")
	ErrNotContainer  = errors.New("scene: parent is not a container")
	ErrAttached      = errors.New("scene: node already has a parent")
	ErrCycle         = errors.New("scene: insertion would create a cycle")
	ErrNoParentIndex = errors.New("scene: node has no parent index")
	ErrCanvasNesting = errors.New("scene: canvas cannot be a child")
	ErrDuplicateID   = errors.New("scene: duplicate node id")
	ErrChildSet      = errors.New("scene: children differ from current set")
)

// Document owns the node arena and the canvas roots.
type Document struct {
	ID   string
	Name string
	// Fonts measures text nodes; nil uses the built-in basic face.
	Fonts textlayout.Provider

	nodes    map[string]*Node
	canvases []*Node
	current  *Node
}

// NewDocument returns a document with one empty canvas.
func NewDocument() *Document {
	d := newDocument(uuid.NewString())
	d.AddCanvas("Page 1")
	return d
}

func newDocument(id string) *Document {
	return &Document{ID: id, nodes: make(map[string]*Node)}
}

// AddCanvas appends a new canvas root. The first canvas becomes current.
func (d *Document) AddCanvas(name string) *Node {
	c := &Node{ID: NewID(KindCanvas), Kind: KindCanvas, ObjectName: name, Visible: true, Transform: vector.Identity}
	d.nodes[c.ID] = c
	d.canvases = append(d.canvases, c)
	if d.current == nil {
		d.current = c
	}
	return c
}

func (d *Document) Canvases() []*Node { return slices.Clone(d.canvases) }

func (d *Document) CurrentCanvas() *Node { return d.current }

func (d *Document) SetCurrentCanvas(id string) error {
	for _, c := range d.canvases {
		if c.ID == id {
			d.current = c
			return nil
		}
	}
	return fmt.Errorf("canvas %s: %w", id, ErrUnknownNode)
}

// NewNode creates a detached node with kind defaults and registers it. It
// is not live until inserted.
func (d *Document) NewNode(kind Kind) *Node {
	n := &Node{
		ID:          NewID(kind),
		Kind:        kind,
		Visible:     true,
		StrokeWidth: 1,
		Transform:   vector.Identity,
	}
	switch kind {
	case KindStar:
		n.Count, n.InnerScale = 5, 0.5
	case KindPolygon:
		n.Count = 3
	case KindText:
		n.FontSize = 16
	}
	d.nodes[n.ID] = n
	return n
}

// NewShape is NewNode followed by SetRect.
func (d *Document) NewShape(kind Kind, x, y, w, h float64) *Node {
	n := d.NewNode(kind)
	n.SetRect(x, y, w, h, 0)
	return n
}

// Register adds an externally built node to the arena.
func (d *Document) Register(n *Node) error {
	if _, ok := d.nodes[n.ID]; ok {
		return fmt.Errorf("%s: %w", n.ID, ErrDuplicateID)
	}
	d.nodes[n.ID] = n
	return nil
}

// Node looks up an id in the arena, live or not.
func (d *Document) Node(id string) (*Node, bool) {
	n, ok := d.nodes[id]
	return n, ok
}

// Len is the arena size including detached nodes.
func (d *Document) Len() int { return len(d.nodes) }

// Parent returns the live parent, or nil for canvases and detached nodes.
func (d *Document) Parent(n *Node) *Node {
	if n.parentID == "" {
		return nil
	}
	return d.nodes[n.parentID]
}

// IsLive reports whether n is registered, not deleted and reachable from a
// canvas root.
func (d *Document) IsLive(n *Node) bool {
	if n == nil || d.nodes[n.ID] != n {
		return false
	}
	for cur := n; ; {
		if cur.Deleted {
			return false
		}
		if cur.Kind == KindCanvas {
			return slices.Contains(d.canvases, cur)
		}
		if cur.parentID == "" {
			return false
		}
		p, ok := d.nodes[cur.parentID]
		if !ok {
			return false
		}
		cur = p
	}
}

// IndexOf returns n's position in its parent, or -1.
func (d *Document) IndexOf(n *Node) int {
	p := d.Parent(n)
	if p == nil {
		return -1
	}
	return slices.Index(p.children, n)
}

// IsAncestor reports whether a is a strict ancestor of n.
func (d *Document) IsAncestor(a, n *Node) bool {
	for p := d.Parent(n); p != nil; p = d.Parent(p) {
		if p == a {
			return true
		}
	}
	return false
}

// Insert attaches n under parent at position; a negative or out of range
// position appends.
func (d *Document) Insert(parent, n *Node, position int) error {
	if parent == nil || n == nil {
		return ErrUnknownNode
	}
	if !parent.IsContainer() {
		return fmt.Errorf("%s: %w", parent.ID, ErrNotContainer)
	}
	if n.Kind == KindCanvas {
		return ErrCanvasNesting
	}
	if n.parentID != "" {
		return fmt.Errorf("%s: %w", n.ID, ErrAttached)
	}
	if parent == n || d.IsAncestor(n, parent) {
		return fmt.Errorf("%s into %s: %w", n.ID, parent.ID, ErrCycle)
	}
	if _, ok := d.nodes[n.ID]; !ok {
		d.nodes[n.ID] = n
	}
	if position < 0 || position > len(parent.children) {
		position = len(parent.children)
	}
	parent.children = slices.Insert(parent.children, position, n)
	n.parentID = parent.ID
	n.ParentIndex = nil
	return nil
}

// RemoveFromParent detaches n and records where it was.
func (d *Document) RemoveFromParent(n *Node) (ParentIndex, bool) {
	p := d.Parent(n)
	if p == nil {
		return ParentIndex{}, false
	}
	idx := slices.Index(p.children, n)
	if idx < 0 {
		n.parentID = ""
		return ParentIndex{}, false
	}
	p.children = slices.Delete(p.children, idx, idx+1)
	pi := ParentIndex{ParentID: p.ID, Position: idx}
	n.ParentIndex = &pi
	n.parentID = ""
	return pi, true
}

// Reinsert attaches a detached node where its ParentIndex points.
func (d *Document) Reinsert(n *Node) error {
	if n.ParentIndex == nil {
		return fmt.Errorf("%s: %w", n.ID, ErrNoParentIndex)
	}
	p, ok := d.nodes[n.ParentIndex.ParentID]
	if !ok {
		return fmt.Errorf("parent %s of %s: %w", n.ParentIndex.ParentID, n.ID, ErrUnknownNode)
	}
	return d.Insert(p, n, n.ParentIndex.Position)
}

// SetDeleted flags n. Detaching is the caller's job.
func (d *Document) SetDeleted(n *Node, deleted bool) { n.Deleted = deleted }

// SetChildren replaces parent's child order. children must hold exactly the
// current children of parent.
func (d *Document) SetChildren(parent *Node, children []*Node) error {
	if len(children) != len(parent.children) {
		return fmt.Errorf("%s: %w", parent.ID, ErrChildSet)
	}
	for _, c := range children {
		if c.parentID != parent.ID {
			return fmt.Errorf("%s not in %s: %w", c.ID, parent.ID, ErrChildSet)
		}
	}
	parent.children = slices.Clone(children)
	return nil
}

// transformParent is the live parent, or for a pending node the parent its
// ParentIndex names.
func (d *Document) transformParent(n *Node) *Node {
	if p := d.Parent(n); p != nil {
		return p
	}
	if n.ParentIndex != nil {
		return d.nodes[n.ParentIndex.ParentID]
	}
	return nil
}

// WorldTransform multiplies the ancestor chain, recomputed on every call so
// an ancestor write is visible immediately.
func (d *Document) WorldTransform(n *Node) vector.Affine2D {
	return d.ParentWorldTransform(n).Mul(n.Transform)
}

// ParentWorldTransform maps the parent's frame to world space.
func (d *Document) ParentWorldTransform(n *Node) vector.Affine2D {
	m := vector.Identity
	for p := d.transformParent(n); p != nil; p = d.transformParent(p) {
		m = p.Transform.Mul(m)
	}
	return m
}

// Box is n's oriented box in world space.
func (d *Document) Box(n *Node) vector.OrientedBox {
	return vector.OrientedBox{Width: n.Width, Height: n.Height, Transform: d.WorldTransform(n)}
}

// BBox is the world AABB of n's own box.
func (d *Document) BBox(n *Node) vector.Rect { return d.Box(n).AABB() }

// Ancestors returns parent first, canvas last.
func (d *Document) Ancestors(n *Node) []*Node {
	var out []*Node
	for p := d.Parent(n); p != nil; p = d.Parent(p) {
		out = append(out, p)
	}
	return out
}

// Walk visits root's subtree in pre-order. Returning false from fn skips
// the node's children.
func (d *Document) Walk(root *Node, fn func(*Node) bool) {
	if !fn(root) {
		return
	}
	for _, c := range root.children {
		d.Walk(c, fn)
	}
}

// Descendants lists n's subtree in pre-order, excluding n.
func (d *Document) Descendants(n *Node) []*Node {
	var out []*Node
	for _, c := range n.children {
		d.Walk(c, func(x *Node) bool {
			out = append(out, x)
			return true
		})
	}
	return out
}
