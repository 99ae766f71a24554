/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package event is a minimal typed observer. Listeners run synchronously in
// subscription order. Not safe for concurrent use.
package event

// Listener receives emitted values.
type Listener[T any] func(T)

// Emitter fans a value out to its listeners.
type Emitter[T any] struct {
	next      int
	listeners []entry[T]
}

type entry[T any] struct {
	id int
	fn Listener[T]
}

// On subscribes fn and returns a function that unsubscribes it.
func (e *Emitter[T]) On(fn Listener[T]) (off func()) {
	e.next++
	id := e.next
	e.listeners = append(e.listeners, entry[T]{id: id, fn: fn})
	return func() { e.off(id) }
}

// Off removes every listener.
func (e *Emitter[T]) Off() { e.listeners = nil }

func (e *Emitter[T]) off(id int) {
	for i, l := range e.listeners {
		if l.id == id {
			e.listeners = append(e.listeners[:i:i], e.listeners[i+1:]...)
			return
		}
	}
}

// Emit calls every listener with v. Listeners added or removed during Emit
// take effect on the next call.
func (e *Emitter[T]) Emit(v T) {
	ls := e.listeners
	for _, l := range ls {
		l.fn(v)
	}
}

// Len is the number of subscribed listeners.
func (e *Emitter[T]) Len() int { return len(e.listeners) }
