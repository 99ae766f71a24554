/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package tool implements pointer gestures as explicit state machines:
// Start, any number of Drag calls, End, then AfterEnd. Points are in world
// coordinates. While a gesture is in flight nodes are written directly and
// undo is disabled; End records the net effect as one command.
package tool

import (
	"fmt"
	"log/slog"

	"vectoredit/internal/command"
	"vectoredit/internal/editor"
	"vectoredit/internal/handles"
	applog "vectoredit/internal/log"
	"vectoredit/internal/vector"
)

// Modifiers held during a gesture.
type Modifiers struct {
	Shift bool
	Alt   bool
}

type Tool interface {
	Start(p vector.Pt, m Modifiers)
	Drag(p vector.Pt, m Modifiers)
	// End finishes the gesture at p and records it in history.
	End(p vector.Pt, m Modifiers) error
	// AfterEnd resets transient state such as guides and the marquee.
	AfterEnd()
	// Cancel reverts an unfinished gesture.
	Cancel()
}

func logger(op string) *slog.Logger {
	return applog.WithOperation(applog.WithComponent("tool"), op)
}

// commit pushes the net change of a finished gesture. An empty change
// pushes nothing.
func commit(ctx *editor.Context, desc string, ch handles.Changes) error {
	if ch.Empty() {
		logger("commit").Debug("gesture without effect", slog.String("desc", desc))
		return nil
	}
	cmd, err := command.NewSetAttrsCmd(ctx.Doc, desc, ch.Nodes, ch.After, ch.Before)
	if err != nil {
		return fmt.Errorf("%s: %w", desc, err)
	}
	ctx.History.PushCommand(cmd)
	return nil
}

// Nudge moves the unlocked selection by a world delta as one command.
func Nudge(ctx *editor.Context, dx, dy float64) error {
	nodes := ctx.Sel.Items(true)
	if len(nodes) == 0 || (dx == 0 && dy == 0) {
		return nil
	}
	mv := handles.NewMover(ctx.Doc, nodes)
	mv.Apply(dx, dy)
	ctx.Render.RequestRender()
	return commit(ctx, "Nudge", mv.Changes())
}
