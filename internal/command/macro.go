/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package command

import "slices"

// MacroCmd runs its commands as one unit: forward on Redo, strictly
// reversed on Undo.
type MacroCmd struct {
	desc string
	cmds []Command
}

func NewMacroCmd(desc string, cmds ...Command) *MacroCmd {
	return &MacroCmd{desc: desc, cmds: slices.Clone(cmds)}
}

func (m *MacroCmd) Desc() string { return m.desc }

func (m *MacroCmd) Commands() []Command { return slices.Clone(m.cmds) }

func (m *MacroCmd) Len() int { return len(m.cmds) }

func (m *MacroCmd) Redo() {
	for _, c := range m.cmds {
		c.Redo()
	}
}

func (m *MacroCmd) Undo() {
	for i := len(m.cmds) - 1; i >= 0; i-- {
		m.cmds[i].Undo()
	}
}
