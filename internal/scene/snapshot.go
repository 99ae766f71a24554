/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package scene

import (
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strings"

	"github.com/google/uuid"
	gojsonschema "github.com/xeipuuv/gojsonschema"

	applog "vectoredit/internal/log"
	"vectoredit/internal/vector"
)

// SnapshotVersion is the current on-disk format.
const SnapshotVersion = 1

//go:embed snapshot.schema.json
var snapshotSchema []byte

var (
	ErrInvalidSnapshot = errors.New("scene: invalid snapshot")
	ErrOrphan          = errors.New("scene: node references a missing parent")
)

// Snapshot is the flat persisted form of a document. Nodes are in pre-order:
// a parent precedes its children and siblings appear in order.
type Snapshot struct {
	Version       int          `json:"version"`
	ID            string       `json:"id"`
	Name          string       `json:"name,omitempty"`
	CurrentCanvas string       `json:"currentCanvas"`
	Nodes         []NodeRecord `json:"nodes"`
}

// NodeRecord is one node in a Snapshot.
type NodeRecord struct {
	ID           string         `json:"id"`
	Type         Kind           `json:"type"`
	ObjectName   string         `json:"objectName"`
	Width        float64        `json:"width"`
	Height       float64        `json:"height"`
	Transform    [6]float64     `json:"transform"`
	CornerRadius float64        `json:"cornerRadius"`
	Fill         []vector.Paint `json:"fill"`
	Stroke       []vector.Paint `json:"stroke"`
	StrokeWidth  float64        `json:"strokeWidth"`
	Visible      bool           `json:"visible"`
	Lock         bool           `json:"lock"`
	Path         *vector.Path   `json:"path,omitempty"`
	Content      string         `json:"content,omitempty"`
	FontSize     float64        `json:"fontSize,omitempty"`
	Count        int            `json:"count,omitempty"`
	InnerScale   float64        `json:"innerScale,omitempty"`
	ResizeToFit  bool           `json:"resizeToFit,omitempty"`
	ParentIndex  *ParentIndex   `json:"parentIndex"`
}

func recordOf(n *Node, pi *ParentIndex) NodeRecord {
	m := n.Transform
	return NodeRecord{
		ID:           n.ID,
		Type:         n.Kind,
		ObjectName:   n.ObjectName,
		Width:        n.Width,
		Height:       n.Height,
		Transform:    [6]float64{m.A, m.B, m.C, m.D, m.E, m.F},
		CornerRadius: n.CornerRadius,
		Fill:         vector.ClonePaints(n.Fill),
		Stroke:       vector.ClonePaints(n.Stroke),
		StrokeWidth:  n.StrokeWidth,
		Visible:      n.Visible,
		Lock:         n.Lock,
		Path:         n.Path.Clone(),
		Content:      n.Content,
		FontSize:     n.FontSize,
		Count:        n.Count,
		InnerScale:   n.InnerScale,
		ResizeToFit:  n.ResizeToFit,
		ParentIndex:  pi,
	}
}

func (r NodeRecord) node() *Node {
	t := r.Transform
	return &Node{
		ID:           r.ID,
		Kind:         r.Type,
		ObjectName:   r.ObjectName,
		Width:        r.Width,
		Height:       r.Height,
		Transform:    vector.Affine2D{A: t[0], B: t[1], C: t[2], D: t[3], E: t[4], F: t[5]},
		CornerRadius: r.CornerRadius,
		Fill:         r.Fill,
		Stroke:       r.Stroke,
		StrokeWidth:  r.StrokeWidth,
		Visible:      r.Visible,
		Lock:         r.Lock,
		Path:         r.Path,
		Content:      r.Content,
		FontSize:     r.FontSize,
		Count:        r.Count,
		InnerScale:   r.InnerScale,
		ResizeToFit:  r.ResizeToFit,
	}
}

// Snapshot captures every live node. Detached and deleted nodes are left
// out; they only matter to history.
func (d *Document) Snapshot() Snapshot {
	s := Snapshot{Version: SnapshotVersion, ID: d.ID, Name: d.Name}
	if d.current != nil {
		s.CurrentCanvas = d.current.ID
	}
	for _, c := range d.canvases {
		s.Nodes = append(s.Nodes, recordOf(c, nil))
		var walk func(parent *Node)
		walk = func(parent *Node) {
			for i, ch := range parent.children {
				if ch.Deleted {
					continue
				}
				s.Nodes = append(s.Nodes, recordOf(ch, &ParentIndex{ParentID: parent.ID, Position: i}))
				walk(ch)
			}
		}
		walk(c)
	}
	return s
}

// MarshalSnapshot encodes the document as indented JSON.
func (d *Document) MarshalSnapshot() ([]byte, error) {
	return json.MarshalIndent(d.Snapshot(), "", "  ")
}

// ValidateSnapshot checks data against the embedded JSON schema.
func ValidateSnapshot(data []byte) error {
	result, err := gojsonschema.Validate(gojsonschema.NewBytesLoader(snapshotSchema), gojsonschema.NewBytesLoader(data))
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidSnapshot, err)
	}
	if !result.Valid() {
		msgs := make([]string, 0, len(result.Errors()))
		for _, e := range result.Errors() {
			msgs = append(msgs, e.String())
		}
		return fmt.Errorf("%w: %s", ErrInvalidSnapshot, strings.Join(msgs, "; "))
	}
	return nil
}

// LoadSnapshot validates data and rebuilds a document from it.
func LoadSnapshot(data []byte) (*Document, error) {
	if err := ValidateSnapshot(data); err != nil {
		return nil, err
	}
	var s Snapshot
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidSnapshot, err)
	}
	return FromSnapshot(s)
}

// FromSnapshot rebuilds the arena and re-links children by
// parentIndex.position.
func FromSnapshot(s Snapshot) (*Document, error) {
	l := applog.WithOperation(applog.WithComponent("scene"), "load_snapshot")
	d := newDocument(s.ID)
	d.Name = s.Name
	type pending struct {
		n  *Node
		pi ParentIndex
	}
	byParent := make(map[string][]pending)
	var order []string
	for _, r := range s.Nodes {
		if k, err := KindOfID(r.ID); err != nil || k != r.Type {
			l.Warn("node id does not carry its kind", slog.String("id", r.ID), slog.String("type", string(r.Type)))
		}
		n := r.node()
		if err := d.Register(n); err != nil {
			return nil, err
		}
		if r.Type == KindCanvas {
			d.canvases = append(d.canvases, n)
			continue
		}
		if r.ParentIndex == nil {
			return nil, fmt.Errorf("%s: %w", r.ID, ErrOrphan)
		}
		if _, seen := byParent[r.ParentIndex.ParentID]; !seen {
			order = append(order, r.ParentIndex.ParentID)
		}
		byParent[r.ParentIndex.ParentID] = append(byParent[r.ParentIndex.ParentID], pending{n, *r.ParentIndex})
	}
	for _, pid := range order {
		parent, ok := d.nodes[pid]
		if !ok {
			return nil, fmt.Errorf("parent %s: %w", pid, ErrOrphan)
		}
		kids := byParent[pid]
		slices.SortStableFunc(kids, func(a, b pending) int { return a.pi.Position - b.pi.Position })
		for _, k := range kids {
			if err := d.Insert(parent, k.n, -1); err != nil {
				return nil, fmt.Errorf("link %s: %w", k.n.ID, err)
			}
		}
	}
	if len(d.canvases) == 0 {
		return nil, fmt.Errorf("%w: no canvas", ErrInvalidSnapshot)
	}
	d.current = d.canvases[0]
	if s.CurrentCanvas != "" {
		if err := d.SetCurrentCanvas(s.CurrentCanvas); err != nil {
			l.Warn("current canvas not found, using first", slog.String("id", s.CurrentCanvas))
		}
	}
	if d.ID == "" {
		d.ID = uuid.NewString()
	}
	return d, nil
}
