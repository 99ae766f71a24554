/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package handles

import (
	"vectoredit/internal/scene"
	"vectoredit/internal/vector"
)

// Rotator turns the selection about the shared center of its box, so a
// multi-selection rotates as one rigid unit.
type Rotator struct {
	doc   *scene.Document
	tops  []*scene.Node
	orig  []target
	pivot vector.Pt
	start float64
	base  float64
	step  float64
	snap  *Snapshot
}

// NewRotator starts a rotation at startPoint. step is the snap step in
// radians; zero uses vector.DefaultRotationStep.
func NewRotator(doc *scene.Document, nodes []*scene.Node, box vector.OrientedBox, startPoint vector.Pt, step float64) *Rotator {
	if step <= 0 {
		step = vector.DefaultRotationStep
	}
	tops := topLevel(doc, nodes)
	pivot := box.Center()
	return &Rotator{
		doc:   doc,
		tops:  tops,
		orig:  targetsOf(doc, tops),
		pivot: pivot,
		start: startPoint.Angle(pivot),
		base:  box.Rotation(),
		step:  step,
		snap:  Capture(append(append([]*scene.Node(nil), tops...), fitScope(doc, tops)...), geometryMask()),
	}
}

func (r *Rotator) Pivot() vector.Pt { return r.pivot }

// Apply rotates to the pointer at p and returns the applied delta. With
// snap the resulting absolute rotation lands on a multiple of the step.
func (r *Rotator) Apply(p vector.Pt, snap bool) float64 {
	delta := vector.NormalizeAngle(p.Angle(r.pivot) - r.start)
	if snap {
		delta = vector.SnapRotationDelta(r.base, delta, r.step)
	}
	r.snap.Restore()
	if delta == 0 {
		return 0
	}
	rot := vector.RotationAbout(delta, r.pivot)
	for _, t := range r.orig {
		placeWorld(r.doc, t.n, rot.Mul(t.world))
	}
	fitAll(r.doc, r.tops)
	return delta
}

func (r *Rotator) Cancel() { r.snap.Restore() }

func (r *Rotator) Changes() Changes { return r.snap.Changes() }

// placeWorld sets n's transform so its world transform becomes world,
// leaving the size alone.
func placeWorld(doc *scene.Document, n *scene.Node, world vector.Affine2D) {
	inv, ok := doc.ParentWorldTransform(n).Invert()
	if !ok {
		return
	}
	n.Transform = inv.Mul(world)
}
