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
	"strings"
	"testing"

	"vectoredit/internal/scene"
)

func TestInitProjectCreatesStructureAndDesign(t *testing.T) {
	root := t.TempDir()
	ph, err := InitProject(root, "Test Project")
	if err != nil {
		t.Fatalf("InitProject error: %v", err)
	}
	if ph == nil || ph.DesignPath == "" {
		t.Fatalf("InitProject returned incomplete handle: %+v", ph)
	}
	b, err := os.ReadFile(ph.DesignPath)
	if err != nil {
		t.Fatalf("read design: %v", err)
	}
	doc, err := scene.LoadSnapshot(b)
	if err != nil {
		t.Fatalf("load design: %v", err)
	}
	if doc.Name != "Test Project" || len(doc.Canvases()) != 1 {
		t.Fatalf("unexpected design: name=%q canvases=%d", doc.Name, len(doc.Canvases()))
	}
	for _, d := range []string{"assets", "exports", BackupsDirName} {
		p := filepath.Join(root, d)
		if fi, err := os.Stat(p); err != nil || !fi.IsDir() {
			t.Fatalf("expected directory %s to exist", p)
		}
	}
}

func TestSaveOpenRoundTrip(t *testing.T) {
	root := t.TempDir()
	ph, err := InitProject(root, "Round Trip")
	if err != nil {
		t.Fatalf("InitProject error: %v", err)
	}
	r := ph.Doc.NewShape(scene.KindRect, 10.25, 20.5, 30, 40)
	r.ObjectName = "Card"
	if err := ph.Doc.Insert(ph.Doc.CurrentCanvas(), r, -1); err != nil {
		t.Fatal(err)
	}
	if err := Save(ph); err != nil {
		t.Fatalf("Save error: %v", err)
	}
	opened, err := Open(root)
	if err != nil {
		t.Fatalf("Open error: %v", err)
	}
	got, ok := opened.Doc.Node(r.ID)
	if !ok || got.ObjectName != "Card" || got.X() != 10.25 || got.Y() != 20.5 {
		t.Fatalf("node not restored: %+v", got)
	}
	if opened.Recovered != "" {
		t.Fatalf("clean open reported recovery from %s", opened.Recovered)
	}
}

func TestSaveCreatesTimestampedBackup(t *testing.T) {
	root := t.TempDir()
	ph, err := InitProject(root, "Backup Test")
	if err != nil {
		t.Fatalf("InitProject error: %v", err)
	}
	ph.Doc.Name = "changed"
	if err := Save(ph); err != nil {
		t.Fatalf("Save error: %v", err)
	}
	ents, err := os.ReadDir(filepath.Join(root, BackupsDirName))
	if err != nil {
		t.Fatalf("read backups dir: %v", err)
	}
	var bakCount int
	for _, e := range ents {
		name := e.Name()
		if strings.HasPrefix(name, DesignFileName+".") && strings.HasSuffix(name, ".bak") {
			bakCount++
		}
	}
	if bakCount == 0 {
		t.Fatalf("expected at least one backup file, found 0")
	}
}

func TestOpenFallsBackToLatestBackupOnCorruption(t *testing.T) {
	root := t.TempDir()
	ph, err := InitProject(root, "Open From Backup")
	if err != nil {
		t.Fatalf("InitProject error: %v", err)
	}
	// Force a backup to exist by saving
	if err := Save(ph); err != nil {
		t.Fatalf("Save error: %v", err)
	}
	if err := os.WriteFile(ph.DesignPath, []byte("{ this is not json"), 0o644); err != nil {
		t.Fatalf("corrupt design: %v", err)
	}
	opened, err := Open(root)
	if err != nil {
		t.Fatalf("Open error: %v", err)
	}
	if opened.Doc.Name != "Open From Backup" || opened.Recovered == "" {
		t.Fatalf("expected recovery from backup, got name=%q recovered=%q", opened.Doc.Name, opened.Recovered)
	}
}

func TestOpenRejectsSchemaViolationWithoutBackup(t *testing.T) {
	root := t.TempDir()
	if err := os.WriteFile(filepath.Join(root, DesignFileName), []byte(`{"version":1,"currentCanvas":"x","nodes":[]}`), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Open(root); err == nil {
		t.Fatalf("expected error for design with no nodes and no backups")
	}
}

func TestSaveAs(t *testing.T) {
	root := t.TempDir()
	ph, err := InitProject(root, "Orig")
	if err != nil {
		t.Fatalf("InitProject: %v", err)
	}
	ph.Doc.Name = "Renamed"
	newRoot := filepath.Join(root, "newproj")
	if err := SaveAs(ph, newRoot); err != nil {
		t.Fatalf("SaveAs: %v", err)
	}
	if ph.Root != newRoot || ph.DesignPath != filepath.Join(newRoot, DesignFileName) {
		t.Fatalf("ProjectHandle paths not updated: %+v", ph)
	}
	opened, err := Open(newRoot)
	if err != nil {
		t.Fatalf("Open new root: %v", err)
	}
	if opened.Doc.Name != "Renamed" {
		t.Fatalf("unexpected name at new root: %q", opened.Doc.Name)
	}
}

func TestAutosaveCrashSnapshotWritesFile(t *testing.T) {
	root := t.TempDir()
	ph, err := InitProject(root, "Crash Snapshot")
	if err != nil {
		t.Fatalf("InitProject error: %v", err)
	}
	before, _ := os.ReadFile(ph.DesignPath)
	n := ph.Doc.NewShape(scene.KindEllipse, 0, 0, 5, 5)
	_ = ph.Doc.Insert(ph.Doc.CurrentCanvas(), n, -1)

	path, err := AutosaveCrashSnapshot(ph)
	if err != nil {
		t.Fatalf("AutosaveCrashSnapshot error: %v", err)
	}
	if !strings.HasPrefix(filepath.Base(path), "design.crash-") || filepath.Dir(path) != filepath.Join(root, BackupsDirName) {
		t.Fatalf("unexpected crash snapshot path %s", path)
	}
	b, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read snapshot: %v", err)
	}
	doc, err := scene.LoadSnapshot(b)
	if err != nil {
		t.Fatalf("load snapshot: %v", err)
	}
	if _, ok := doc.Node(n.ID); !ok {
		t.Fatalf("crash snapshot misses unsaved node")
	}
	after, _ := os.ReadFile(ph.DesignPath)
	if string(before) != string(after) {
		t.Fatalf("crash autosave must not touch design.json")
	}
}
