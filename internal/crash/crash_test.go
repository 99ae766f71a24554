/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package crash

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"vectoredit/internal/scene"
	"vectoredit/internal/storage"
)

func TestWriteReportCreatesFileInTemp(t *testing.T) {
	t.Setenv("TMPDIR", t.TempDir())
	path, _, err := writeReport(nil, "boom", []byte("stacktrace"))
	if err != nil {
		t.Fatalf("writeReport error: %v", err)
	}
	b, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read report: %v", err)
	}
	s := string(b)
	if !strings.Contains(s, "VectorEdit Crash Report") {
		t.Fatalf("report header missing")
	}
	if !strings.Contains(s, "Report: ") {
		t.Fatalf("report id missing: %s", s)
	}
	if !strings.Contains(s, "Panic: boom") {
		t.Fatalf("panic content missing: %s", s)
	}
}

func TestWriteReportCreatesFileInProjectBackups(t *testing.T) {
	root := t.TempDir()
	ph := &storage.ProjectHandle{Root: root, DesignPath: filepath.Join(root, storage.DesignFileName), Doc: scene.NewDocument()}

	path, _, err := writeReport(ph, "kaboom", []byte("stack"))
	if err != nil {
		t.Fatalf("writeReport error: %v", err)
	}
	if filepath.Dir(path) != filepath.Join(root, storage.BackupsDirName) {
		t.Fatalf("expected crash report under backups dir, got %s", path)
	}
	b, _ := os.ReadFile(path)
	if !strings.Contains(string(b), "Document: "+ph.Doc.ID) {
		t.Fatalf("document line missing: %s", b)
	}
}

func TestWriteReportNamesAreUnique(t *testing.T) {
	root := t.TempDir()
	ph := &storage.ProjectHandle{Root: root}
	a, _, err := writeReport(ph, "one", nil)
	if err != nil {
		t.Fatal(err)
	}
	b, _, err := writeReport(ph, "two", nil)
	if err != nil {
		t.Fatal(err)
	}
	if a == b {
		t.Fatalf("two reports in the same second share a path: %s", a)
	}
}
