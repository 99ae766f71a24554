/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package storage

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	_ "modernc.org/sqlite"
)

func openRaw(t *testing.T, root string) *sql.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?cache=shared&_pragma=busy_timeout(2000)", filepath.ToSlash(IndexPath(root)))
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func TestIndexInitCreatesWALAndMetaVersion(t *testing.T) {
	root := t.TempDir()
	if _, err := InitProject(root, "Index Test"); err != nil {
		t.Fatalf("InitProject error: %v", err)
	}
	if _, err := os.Stat(IndexPath(root)); err != nil {
		t.Fatalf("index file missing at %s: %v", IndexPath(root), err)
	}
	db := openRaw(t, root)
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	var mode string
	if err := db.QueryRowContext(ctx, "PRAGMA journal_mode;").Scan(&mode); err != nil {
		t.Fatalf("read journal_mode: %v", err)
	}
	if mode != "wal" && mode != "WAL" {
		t.Fatalf("expected WAL mode, got %s", mode)
	}
	var cnt int
	if err := db.QueryRowContext(ctx, "SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name IN ('meta','version','layers','fts_layers')").Scan(&cnt); err != nil {
		t.Fatalf("query sqlite_master: %v", err)
	}
	if cnt != 4 {
		t.Fatalf("expected 4 tables, got %d", cnt)
	}
	var schema int
	if err := db.QueryRowContext(ctx, `SELECT schema FROM version WHERE id=1`).Scan(&schema); err != nil || schema != schemaVersion {
		t.Fatalf("schema=%d err=%v", schema, err)
	}
	// The initial canvas is indexed straight away
	if err := db.QueryRowContext(ctx, "SELECT COUNT(*) FROM layers WHERE kind='canvas'").Scan(&cnt); err != nil || cnt != 1 {
		t.Fatalf("canvas rows=%d err=%v", cnt, err)
	}
	if name, ok, err := IndexMeta(ctx, root, "document_name"); err != nil || !ok || name != "Index Test" {
		t.Fatalf("meta document_name=%q ok=%v err=%v", name, ok, err)
	}
}

func TestFTSTriggersFollowLayerRows(t *testing.T) {
	root := t.TempDir()
	db, err := InitOrOpenIndex(root)
	if err != nil {
		t.Fatalf("InitOrOpenIndex: %v", err)
	}
	defer db.Close()
	ctx := context.Background()
	if _, err := db.ExecContext(ctx, `INSERT INTO layers(node_id, kind, name, content, parent_id, canvas_id, depth, position) VALUES('rect_x','rect','Hero Banner','',NULL,'canvas_x',1,0)`); err != nil {
		t.Fatalf("insert layer: %v", err)
	}
	var n int
	if err := db.QueryRowContext(ctx, `SELECT COUNT(*) FROM fts_layers WHERE fts_layers MATCH 'banner'`).Scan(&n); err != nil || n != 1 {
		t.Fatalf("fts after insert: n=%d err=%v", n, err)
	}
	if _, err := db.ExecContext(ctx, `UPDATE layers SET name='Footer' WHERE node_id='rect_x'`); err != nil {
		t.Fatalf("update layer: %v", err)
	}
	if err := db.QueryRowContext(ctx, `SELECT COUNT(*) FROM fts_layers WHERE fts_layers MATCH 'banner'`).Scan(&n); err != nil || n != 0 {
		t.Fatalf("stale fts entry after update: n=%d err=%v", n, err)
	}
}
