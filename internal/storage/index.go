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
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	applog "vectoredit/internal/log"
	"vectoredit/internal/scene"
	"vectoredit/internal/version"

	// Pure-Go SQLite driver (CGO-free)
	_ "modernc.org/sqlite"
)

const (
	// IndexDirName stores all per-project ephemeral/index data under the project root.
	IndexDirName  = ".ved"
	IndexFileName = "index.sqlite"

	// schemaVersion tracks the local SQLite schema for the embedded index.
	// Bump this when you perform breaking schema changes and add migrations.
	schemaVersion = 2
)

// IndexPath returns the full path to the project's embedded index database file.
func IndexPath(projectRoot string) string {
	return filepath.Join(projectRoot, IndexDirName, IndexFileName)
}

// InitOrOpenIndex ensures that the per-project SQLite index exists at .ved/index.sqlite,
// opens the database, enables WAL mode, and ensures the meta/version tables exist.
// The returned *sql.DB is ready for use. Callers may close it when no longer needed.
func InitOrOpenIndex(projectRoot string) (*sql.DB, error) {
	l := applog.WithOperation(applog.WithComponent("storage"), "index_init").With(
		slog.String("root", projectRoot),
	)
	if strings.TrimSpace(projectRoot) == "" {
		return nil, errors.New("project root is required")
	}
	if err := os.MkdirAll(filepath.Join(projectRoot, IndexDirName), 0o755); err != nil {
		l.Error("create .ved dir failed", slog.Any("err", err))
		return nil, fmt.Errorf("create .ved dir: %w", err)
	}

	path := IndexPath(projectRoot)
	// Use a URI with shared cache and set busy timeout. Convert to forward slashes for SQLite URI.
	dsn := fmt.Sprintf("file:%s?cache=shared&_pragma=busy_timeout(5000)", filepath.ToSlash(path))
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		l.Error("sqlite open failed", slog.Any("err", err))
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if _, err := db.ExecContext(ctx, "PRAGMA journal_mode=WAL;"); err != nil {
		_ = db.Close()
		l.Error("enable WAL failed", slog.Any("err", err))
		return nil, fmt.Errorf("enable WAL: %w", err)
	}
	if err := ensureMetaAndVersion(ctx, db); err != nil {
		_ = db.Close()
		l.Error("ensure meta/version failed", slog.Any("err", err))
		return nil, err
	}
	if err := ensureIndexSchema(ctx, db); err != nil {
		_ = db.Close()
		l.Error("ensure index schema failed", slog.Any("err", err))
		return nil, err
	}
	if err := runMigrations(ctx, db); err != nil {
		_ = db.Close()
		l.Error("run migrations failed", slog.Any("err", err))
		return nil, err
	}

	l.Debug("index ready", slog.String("path", path))
	return db, nil
}

func ensureMetaAndVersion(ctx context.Context, db *sql.DB) error {
	ddl := []string{
		`CREATE TABLE IF NOT EXISTS meta (
			key   TEXT PRIMARY KEY,
			value TEXT NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS version (
			id          INTEGER PRIMARY KEY CHECK(id=1),
			schema      INTEGER NOT NULL,
			app         TEXT,
			created_at  TEXT NOT NULL,
			updated_at  TEXT NOT NULL
		);`,
	}
	for _, q := range ddl {
		if _, err := db.ExecContext(ctx, q); err != nil {
			return fmt.Errorf("create table: %w", err)
		}
	}
	now := time.Now().UTC().Format(time.RFC3339)
	appv := version.String()
	var curSchema int
	err := db.QueryRowContext(ctx, `SELECT schema FROM version WHERE id=1`).Scan(&curSchema)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		// A fresh DB starts at 1 and migrates forward like an old one.
		if _, err := db.ExecContext(ctx, `INSERT INTO version (id, schema, app, created_at, updated_at) VALUES(1, 1, ?, ?, ?)`, appv, now, now); err != nil {
			return fmt.Errorf("insert version: %w", err)
		}
	case err != nil:
		return fmt.Errorf("read version: %w", err)
	default:
		// Update app and timestamp only; keep existing schema for migrations
		if _, err := db.ExecContext(ctx, `UPDATE version SET app=?, updated_at=? WHERE id=1`, appv, now); err != nil {
			return fmt.Errorf("update version: %w", err)
		}
	}
	return nil
}

// runMigrations applies incremental schema migrations up to schemaVersion.
func runMigrations(ctx context.Context, db *sql.DB) error {
	var cur int
	if err := db.QueryRowContext(ctx, `SELECT schema FROM version WHERE id=1`).Scan(&cur); err != nil {
		return fmt.Errorf("read schema version: %w", err)
	}
	if cur > schemaVersion {
		// Do not downgrade; just log and continue
		applog.WithComponent("storage").Warn("index schema newer than app", slog.Int("schema", cur))
		return nil
	}
	for cur < schemaVersion {
		next := cur + 1
		switch next {
		case 2:
			// Lookups by parent and kind back the layer panel and kind filters.
			tx, err := db.BeginTx(ctx, nil)
			if err != nil {
				return fmt.Errorf("begin migration %d: %w", next, err)
			}
			stmts := []string{
				`CREATE INDEX IF NOT EXISTS idx_layers_parent ON layers(parent_id, position);`,
				`CREATE INDEX IF NOT EXISTS idx_layers_kind ON layers(kind);`,
			}
			for _, q := range stmts {
				if _, err := tx.ExecContext(ctx, q); err != nil {
					_ = tx.Rollback()
					return fmt.Errorf("migration %d stmt failed: %w", next, err)
				}
			}
			if _, err := tx.ExecContext(ctx, `UPDATE version SET schema=?, updated_at=? WHERE id=1`, next, time.Now().UTC().Format(time.RFC3339)); err != nil {
				_ = tx.Rollback()
				return fmt.Errorf("migration %d update version: %w", next, err)
			}
			if err := tx.Commit(); err != nil {
				return fmt.Errorf("migration %d commit: %w", next, err)
			}
		}
		cur = next
	}
	return nil
}

// ensureIndexSchema creates the layer table and its FTS mirror if they do not exist.
func ensureIndexSchema(ctx context.Context, db *sql.DB) error {
	ddl := []string{
		// One row per live node, in document pre-order.
		`CREATE TABLE IF NOT EXISTS layers (
			layer_id  INTEGER PRIMARY KEY,
			node_id   TEXT    NOT NULL UNIQUE,
			kind      TEXT    NOT NULL,
			name      TEXT    NOT NULL,
			content   TEXT    NOT NULL DEFAULT '',
			parent_id TEXT,
			canvas_id TEXT    NOT NULL,
			depth     INTEGER NOT NULL,
			position  INTEGER NOT NULL
		);`,
		// External-content FTS5 index over layers, kept in sync by triggers.
		`CREATE VIRTUAL TABLE IF NOT EXISTS fts_layers USING fts5(
			name,
			content,
			content='layers',
			content_rowid='layer_id',
			tokenize = 'unicode61'
		);`,
	}
	for _, q := range ddl {
		if _, err := db.ExecContext(ctx, q); err != nil {
			return fmt.Errorf("ensure index schema: %w", err)
		}
	}
	triggers := []string{
		`CREATE TRIGGER IF NOT EXISTS layers_ai AFTER INSERT ON layers BEGIN
			INSERT INTO fts_layers(rowid, name, content) VALUES (new.layer_id, new.name, new.content);
		END;`,
		`CREATE TRIGGER IF NOT EXISTS layers_ad AFTER DELETE ON layers BEGIN
			INSERT INTO fts_layers(fts_layers, rowid, name, content) VALUES ('delete', old.layer_id, old.name, old.content);
		END;`,
		`CREATE TRIGGER IF NOT EXISTS layers_au AFTER UPDATE ON layers BEGIN
			INSERT INTO fts_layers(fts_layers, rowid, name, content) VALUES ('delete', old.layer_id, old.name, old.content);
			INSERT INTO fts_layers(rowid, name, content) VALUES (new.layer_id, new.name, new.content);
		END;`,
	}
	for _, q := range triggers {
		if _, err := db.ExecContext(ctx, q); err != nil {
			return fmt.Errorf("ensure fts triggers: %w", err)
		}
	}
	return nil
}

// DetectAndRebuildIndex checks for corruption or missing schema and rebuilds the index if needed.
// It returns true when a rebuild was performed.
func DetectAndRebuildIndex(ctx context.Context, projectRoot string, doc *scene.Document) (bool, error) {
	path := IndexPath(projectRoot)
	db, err := InitOrOpenIndex(projectRoot)
	if err != nil {
		backupIndexFile(path)
		removeIndexFiles(path)
		if rbErr := RebuildIndex(ctx, projectRoot, doc); rbErr != nil {
			return false, fmt.Errorf("rebuild after open failure: %w (open err: %v)", rbErr, err)
		}
		return true, nil
	}
	needs := false
	var chk string
	if err := db.QueryRowContext(ctx, `PRAGMA quick_check;`).Scan(&chk); err != nil || !strings.Contains(strings.ToLower(chk), "ok") {
		needs = true
	}
	if !needs {
		if _, err := db.ExecContext(ctx, `SELECT 1 FROM layers LIMIT 1;`); err != nil {
			needs = true
		}
	}
	_ = db.Close()
	if !needs {
		return false, nil
	}
	backupIndexFile(path)
	removeIndexFiles(path)
	if err := RebuildIndex(ctx, projectRoot, doc); err != nil {
		return false, err
	}
	return true, nil
}

// backupIndexFile copies the current index file into a timestamped backup in .ved/backups.
func backupIndexFile(indexPath string) {
	bdir := filepath.Join(filepath.Dir(indexPath), "backups")
	_ = os.MkdirAll(bdir, 0o755)
	bak := filepath.Join(bdir, fmt.Sprintf("%s.%s.bak", filepath.Base(indexPath), backupStamp()))
	if data, err := os.ReadFile(indexPath); err == nil {
		_ = os.WriteFile(bak, data, 0o644)
	}
}

func removeIndexFiles(indexPath string) {
	for _, p := range []string{indexPath, indexPath + "-wal", indexPath + "-shm"} {
		_ = os.Remove(p)
	}
}

// BuildIndexIfEmpty ensures the DB exists and, if the layers table is empty, populates it from doc.
func BuildIndexIfEmpty(ctx context.Context, projectRoot string, doc *scene.Document) error {
	db, err := InitOrOpenIndex(projectRoot)
	if err != nil {
		return err
	}
	defer db.Close()
	var cnt int
	if err := db.QueryRowContext(ctx, "SELECT COUNT(*) FROM layers;").Scan(&cnt); err != nil {
		return fmt.Errorf("check layers count: %w", err)
	}
	if cnt > 0 {
		return nil // already built
	}
	return rebuildLayers(ctx, db, doc)
}

// UpdateIndex replaces the layer rows with the current state of doc.
func UpdateIndex(ctx context.Context, projectRoot string, doc *scene.Document) error {
	db, err := InitOrOpenIndex(projectRoot)
	if err != nil {
		return err
	}
	defer db.Close()
	return rebuildLayers(ctx, db, doc)
}

// RebuildIndex drops and recreates the layer tables and repopulates them from doc.
// It preserves meta/version tables.
func RebuildIndex(ctx context.Context, projectRoot string, doc *scene.Document) error {
	db, err := InitOrOpenIndex(projectRoot)
	if err != nil {
		return err
	}
	defer db.Close()
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	drops := []string{
		"DROP TRIGGER IF EXISTS layers_ai;",
		"DROP TRIGGER IF EXISTS layers_ad;",
		"DROP TRIGGER IF EXISTS layers_au;",
		"DROP TABLE IF EXISTS fts_layers;",
		"DROP TABLE IF EXISTS layers;",
	}
	for _, q := range drops {
		if _, err := tx.ExecContext(ctx, q); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("drop schema: %w", err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("drop commit: %w", err)
	}
	if err := ensureIndexSchema(ctx, db); err != nil {
		return err
	}
	// the version row survived the drop, so re-run the index statements directly
	for _, q := range []string{
		`CREATE INDEX IF NOT EXISTS idx_layers_parent ON layers(parent_id, position);`,
		`CREATE INDEX IF NOT EXISTS idx_layers_kind ON layers(kind);`,
	} {
		if _, err := db.ExecContext(ctx, q); err != nil {
			return fmt.Errorf("recreate layer indexes: %w", err)
		}
	}
	return rebuildLayers(ctx, db, doc)
}

type layerRow struct {
	nodeID, kind, name, content string
	parentID                    sql.NullString
	canvasID                    string
	depth, position             int
}

// layerRows flattens the live tree in pre-order.
func layerRows(doc *scene.Document) []layerRow {
	var rows []layerRow
	var walk func(n *scene.Node, canvasID string, parentID sql.NullString, depth, pos int)
	walk = func(n *scene.Node, canvasID string, parentID sql.NullString, depth, pos int) {
		name := strings.TrimSpace(n.ObjectName)
		if name == "" {
			name = string(n.Kind)
		}
		rows = append(rows, layerRow{
			nodeID: n.ID, kind: string(n.Kind), name: name, content: n.Content,
			parentID: parentID, canvasID: canvasID, depth: depth, position: pos,
		})
		for i, c := range n.Children() {
			if c.Deleted {
				continue
			}
			walk(c, canvasID, sql.NullString{String: n.ID, Valid: true}, depth+1, i)
		}
	}
	for i, c := range doc.Canvases() {
		walk(c, c.ID, sql.NullString{}, 0, i)
	}
	return rows
}

// rebuildLayers replaces the layers table content inside one transaction
// and records the document identity in meta.
func rebuildLayers(ctx context.Context, db *sql.DB, doc *scene.Document) error {
	if doc == nil {
		return errors.New("nil document")
	}
	rows := layerRows(doc)
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	if _, err := tx.ExecContext(ctx, "DELETE FROM layers;"); err != nil {
		_ = tx.Rollback()
		return fmt.Errorf("clear layers: %w", err)
	}
	ins, err := tx.PrepareContext(ctx, "INSERT INTO layers(node_id, kind, name, content, parent_id, canvas_id, depth, position) VALUES(?,?,?,?,?,?,?,?);")
	if err != nil {
		_ = tx.Rollback()
		return fmt.Errorf("prepare insert: %w", err)
	}
	defer ins.Close()
	for _, r := range rows {
		if _, err := ins.ExecContext(ctx, r.nodeID, r.kind, r.name, r.content, r.parentID, r.canvasID, r.depth, r.position); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("insert layer %s: %w", r.nodeID, err)
		}
	}
	meta := map[string]string{
		"document_id":   doc.ID,
		"document_name": doc.Name,
		"indexed_at":    time.Now().UTC().Format(time.RFC3339),
	}
	for k, v := range meta {
		if _, err := tx.ExecContext(ctx, `INSERT INTO meta(key, value) VALUES(?, ?) ON CONFLICT(key) DO UPDATE SET value=excluded.value;`, k, v); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("write meta %s: %w", k, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

// IndexMeta reads one meta value; ok is false when the key is absent.
func IndexMeta(ctx context.Context, projectRoot, key string) (string, bool, error) {
	db, err := InitOrOpenIndex(projectRoot)
	if err != nil {
		return "", false, err
	}
	defer db.Close()
	var v string
	err = db.QueryRowContext(ctx, `SELECT value FROM meta WHERE key=?`, key).Scan(&v)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return v, true, nil
}
