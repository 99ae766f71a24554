/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package storage

import (
	"os"
	"path/filepath"
	"testing"

	gojsonschema "github.com/xeipuuv/gojsonschema"

	"vectoredit/internal/scene"
)

func TestDesignConformsToSchema(t *testing.T) {
	root := t.TempDir()
	ph, err := InitProject(root, "Schema Test")
	if err != nil {
		t.Fatalf("InitProject error: %v", err)
	}
	f := ph.Doc.NewShape(scene.KindFrame, 0, 0, 100, 100)
	_ = ph.Doc.Insert(ph.Doc.CurrentCanvas(), f, -1)
	txt := ph.Doc.NewShape(scene.KindText, 10, 10, 40, 16)
	txt.Content = "Hello"
	_ = ph.Doc.Insert(f, txt, -1)
	if err := Save(ph); err != nil {
		t.Fatalf("Save: %v", err)
	}

	data, err := os.ReadFile(ph.DesignPath)
	if err != nil {
		t.Fatalf("read design: %v", err)
	}
	// Load the schema file the scene package embeds
	schemaBytes, err := os.ReadFile(filepath.Join("..", "scene", "snapshot.schema.json"))
	if err != nil {
		t.Fatalf("read schema: %v", err)
	}
	result, err := gojsonschema.Validate(gojsonschema.NewBytesLoader(schemaBytes), gojsonschema.NewBytesLoader(data))
	if err != nil {
		t.Fatalf("schema validate error: %v", err)
	}
	if !result.Valid() {
		for _, e := range result.Errors() {
			t.Logf("schema error: %s", e)
		}
		t.Fatalf("design does not conform to schema")
	}
}
