/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package command

import (
	"log/slog"

	"vectoredit/internal/event"
)

// Config controls history depth.
type Config struct {
	// MaxDepth caps the undo stack; the oldest entries are dropped first
	// (0 means unlimited).
	MaxDepth int
}

// State is emitted after every history change.
type State struct {
	CanUndo  bool
	CanRedo  bool
	UndoDesc string
	RedoDesc string
}

// Manager is a linear undo/redo history. It is not safe for concurrent use;
// all mutation happens on the event loop.
type Manager struct {
	cfg      Config
	undo     []Command
	redo     []Command
	disabled int
	// batch collects pushes between BatchCommandStart and BatchCommandEnd
	batch     []Command
	batchDesc string
	batching  bool
	changed   event.Emitter[State]
}

func NewManager(cfg Config) *Manager {
	if cfg.MaxDepth < 0 {
		cfg.MaxDepth = 0
	}
	return &Manager{cfg: cfg}
}

// OnChange registers fn for history changes and returns its unsubscribe.
func (m *Manager) OnChange(fn func(State)) func() { return m.changed.On(fn) }

// PushCommand records a command whose effect already happened. New history
// drops the redo branch.
func (m *Manager) PushCommand(c Command) {
	if c == nil {
		return
	}
	if m.batching {
		m.batch = append(m.batch, c)
		return
	}
	m.undo = append(m.undo, c)
	m.redo = nil
	m.enforceDepth()
	m.notify()
}

// Execute runs c and records it.
func (m *Manager) Execute(c Command) {
	c.Redo()
	m.PushCommand(c)
}

func (m *Manager) CanUndo() bool { return m.disabled == 0 && len(m.undo) > 0 }
func (m *Manager) CanRedo() bool { return m.disabled == 0 && len(m.redo) > 0 }

// Undo reverts the newest command. It reports false when disabled or empty.
func (m *Manager) Undo() bool {
	if !m.CanUndo() {
		return false
	}
	c := m.undo[len(m.undo)-1]
	m.undo = m.undo[:len(m.undo)-1]
	logger("undo").Debug("undo", slog.String("cmd", c.Desc()))
	c.Undo()
	m.redo = append(m.redo, c)
	m.notify()
	return true
}

func (m *Manager) Redo() bool {
	if !m.CanRedo() {
		return false
	}
	c := m.redo[len(m.redo)-1]
	m.redo = m.redo[:len(m.redo)-1]
	logger("redo").Debug("redo", slog.String("cmd", c.Desc()))
	c.Redo()
	m.undo = append(m.undo, c)
	m.enforceDepth()
	m.notify()
	return true
}

// DisableRedoUndo blocks Undo and Redo until the matching EnableRedoUndo.
// Calls nest.
func (m *Manager) DisableRedoUndo() {
	m.disabled++
	if m.disabled == 1 {
		m.notify()
	}
}

func (m *Manager) EnableRedoUndo() {
	if m.disabled == 0 {
		return
	}
	m.disabled--
	if m.disabled == 0 {
		m.notify()
	}
}

func (m *Manager) Disabled() bool { return m.disabled > 0 }

// BatchCommandStart opens a window in which pushed commands collect into
// one history entry. Undo and redo are disabled for the window.
func (m *Manager) BatchCommandStart(desc string) {
	if m.batching {
		logger("batch").Warn("batch already open", slog.String("desc", m.batchDesc))
		return
	}
	m.batching = true
	m.batchDesc = desc
	m.batch = nil
	m.DisableRedoUndo()
}

// BatchCommandEnd closes the window. A single collected command is pushed
// as is; several become one MacroCmd; none pushes nothing.
func (m *Manager) BatchCommandEnd() {
	if !m.batching {
		return
	}
	cmds := m.batch
	m.batching = false
	m.batch = nil
	m.EnableRedoUndo()
	switch len(cmds) {
	case 0:
	case 1:
		m.PushCommand(cmds[0])
	default:
		m.PushCommand(NewMacroCmd(m.batchDesc, cmds...))
	}
}

// Clear drops all history.
func (m *Manager) Clear() {
	m.undo, m.redo = nil, nil
	m.notify()
}

// Len returns the undo and redo stack sizes.
func (m *Manager) Len() (undo, redo int) { return len(m.undo), len(m.redo) }

func (m *Manager) State() State {
	s := State{CanUndo: m.CanUndo(), CanRedo: m.CanRedo()}
	if n := len(m.undo); n > 0 {
		s.UndoDesc = m.undo[n-1].Desc()
	}
	if n := len(m.redo); n > 0 {
		s.RedoDesc = m.redo[n-1].Desc()
	}
	return s
}

func (m *Manager) enforceDepth() {
	if m.cfg.MaxDepth > 0 && len(m.undo) > m.cfg.MaxDepth {
		drop := len(m.undo) - m.cfg.MaxDepth
		m.undo = append([]Command{}, m.undo[drop:]...)
	}
}

func (m *Manager) notify() { m.changed.Emit(m.State()) }
