/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package editor

import "vectoredit/internal/event"

// Frame is passed to render listeners. Seq counts rendered frames.
type Frame struct {
	Seq int
}

// RenderScheduler coalesces render requests: any number of RequestRender
// calls between two ticks produce one frame.
type RenderScheduler struct {
	pending  bool
	seq      int
	rendered event.Emitter[Frame]
}

func (r *RenderScheduler) RequestRender() { r.pending = true }

func (r *RenderScheduler) Pending() bool { return r.pending }

// OnRender subscribes fn and returns its unsubscribe function.
func (r *RenderScheduler) OnRender(fn func(Frame)) (off func()) { return r.rendered.On(fn) }

// Tick is called once per display frame and renders if a request is pending.
func (r *RenderScheduler) Tick() bool {
	if !r.pending {
		return false
	}
	r.pending = false
	r.seq++
	r.rendered.Emit(Frame{Seq: r.seq})
	return true
}
