/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package scene

import (
	"fmt"

	"go.jetify.com/typeid/v2"
)

// NewID returns a sortable id prefixed with the kind, e.g. "rect_01h2...".
func NewID(kind Kind) string {
	return typeid.MustGenerate(string(kind)).String()
}

// KindOfID parses id and returns its kind prefix.
func KindOfID(id string) (Kind, error) {
	parsed, err := typeid.Parse(id)
	if err != nil {
		return "", fmt.Errorf("invalid node id %q: %w", id, err)
	}
	k := Kind(parsed.Prefix())
	if !k.Valid() {
		return "", fmt.Errorf("node id %q has unknown kind prefix %q", id, k)
	}
	return k, nil
}
