/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package command holds reversible document mutations and the linear
// history that runs them.
//
// Constructors validate their arguments and return an error on misuse.
// Redo and Undo never fail: a node id that no longer resolves is logged
// and that command's effect is skipped.
package command

import (
	"errors"
	"log/slog"

	applog "vectoredit/internal/log"
	"vectoredit/internal/scene"
)

var (
	ErrNoElements     = errors.New("command: no elements")
	ErrTooFewElements = errors.New("command: too few elements")
	ErrLengthMismatch = errors.New("command: length mismatch")
)

// Command is a reversible mutation. Undo after Redo restores every touched
// attribute exactly, array order included.
type Command interface {
	Desc() string
	Redo()
	Undo()
}

func logger(op string) *slog.Logger {
	return applog.WithOperation(applog.WithComponent("command"), op)
}

func idsOf(nodes []*scene.Node) []string {
	out := make([]string, len(nodes))
	for i, n := range nodes {
		out[i] = n.ID
	}
	return out
}

// resolve looks every id up. If one is gone it logs and reports false so
// the caller can skip the whole effect.
func resolve(doc *scene.Document, desc, op string, ids []string) ([]*scene.Node, bool) {
	out := make([]*scene.Node, len(ids))
	for i, id := range ids {
		n, ok := doc.Node(id)
		if !ok {
			logger(op).Warn("stale node reference, command skipped",
				slog.String("cmd", desc), slog.String("id", id))
			return nil, false
		}
		out[i] = n
	}
	return out, true
}
