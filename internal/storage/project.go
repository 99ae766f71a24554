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
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math/rand"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	applog "vectoredit/internal/log"
	"vectoredit/internal/scene"
)

const (
	DesignFileName = "design.json"
	BackupsDirName = "backups"
)

// Standard subfolders of a project.
var standardSubDirs = []string{
	"assets",
	"exports",
	BackupsDirName,
}

var ErrNilHandle = errors.New("nil ProjectHandle")

// ProjectHandle keeps track of the project state loaded/saved from disk.
// Root is the project directory containing design.json and subfolders.
type ProjectHandle struct {
	Root       string
	DesignPath string
	Doc        *scene.Document
	// Recovered is set when Open fell back to a backup.
	Recovered string
}

// InitProject creates a new project directory at root (creating it if it doesn't exist),
// scaffolds the standard subfolders, and writes a fresh one-canvas design transactionally.
// The layer index is built right away; failing to build it is only logged.
func InitProject(root, name string) (*ProjectHandle, error) {
	if strings.TrimSpace(root) == "" {
		return nil, errors.New("root path is required")
	}
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("create project root: %w", err)
	}
	for _, d := range standardSubDirs {
		if err := os.MkdirAll(filepath.Join(root, d), 0o755); err != nil {
			return nil, fmt.Errorf("create subdir %s: %w", d, err)
		}
	}
	doc := scene.NewDocument()
	doc.Name = strings.TrimSpace(name)
	ph := &ProjectHandle{
		Root:       root,
		DesignPath: filepath.Join(root, DesignFileName),
		Doc:        doc,
	}
	if err := Save(ph); err != nil {
		return nil, err
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := UpdateIndex(ctx, root, doc); err != nil {
		applog.WithComponent("storage").Warn("initial index build failed", slog.Any("err", err))
	}
	return ph, nil
}

// Open loads an existing project from the given root directory.
// If the current design cannot be read, parsed or validated, it will attempt the last backup.
func Open(root string) (*ProjectHandle, error) {
	dpath := filepath.Join(root, DesignFileName)
	doc, err := readDesign(dpath)
	if err == nil {
		return &ProjectHandle{Root: root, DesignPath: dpath, Doc: doc}, nil
	}
	bdoc, bpath, berr := openFromLatestBackup(root)
	if berr != nil {
		return nil, fmt.Errorf("open design: %w; backup attempt: %v", err, berr)
	}
	applog.WithComponent("storage").Warn("design unreadable, opened latest backup",
		slog.String("backup", bpath), slog.Any("err", err))
	return &ProjectHandle{Root: root, DesignPath: dpath, Doc: bdoc, Recovered: bpath}, nil
}

func readDesign(path string) (*scene.Document, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return scene.LoadSnapshot(b)
}

// Save writes the current design to disk with transactional semantics
// and a timestamped backup of the previous file (if present).
func Save(ph *ProjectHandle) error {
	if ph == nil {
		return ErrNilHandle
	}
	if ph.Root == "" || ph.DesignPath == "" || ph.Doc == nil {
		return errors.New("invalid ProjectHandle: missing paths or document")
	}
	data, err := ph.Doc.MarshalSnapshot()
	if err != nil {
		return fmt.Errorf("marshal design: %w", err)
	}
	data = append(data, '\n')

	bdir := filepath.Join(ph.Root, BackupsDirName)
	if err := os.MkdirAll(bdir, 0o755); err != nil {
		return fmt.Errorf("ensure backups dir: %w", err)
	}

	// If a current design exists, copy it to a timestamped backup before replacing
	if _, statErr := os.Stat(ph.DesignPath); statErr == nil {
		bpath := filepath.Join(bdir, fmt.Sprintf("%s.%s.bak", DesignFileName, backupStamp()))
		if cerr := copyFile(ph.DesignPath, bpath); cerr != nil {
			return fmt.Errorf("backup current design: %w", cerr)
		}
	}

	// Transactional write: to temp file in same directory, then rename over target
	dir := filepath.Dir(ph.DesignPath)
	temp := filepath.Join(dir, fmt.Sprintf(".%s.tmp-%d-%d", DesignFileName, os.Getpid(), rand.Int()))
	if werr := writeFileSync(temp, data); werr != nil {
		return fmt.Errorf("write temp design: %w", werr)
	}
	// On Windows, replace by removing destination first if needed
	if _, err := os.Stat(ph.DesignPath); err == nil {
		_ = os.Remove(ph.DesignPath)
	}
	if rerr := os.Rename(temp, ph.DesignPath); rerr != nil {
		_ = os.Remove(temp)
		return fmt.Errorf("replace design: %w", rerr)
	}
	return nil
}

// SaveAs writes the design to a new root folder, scaffolding structure if needed, and updates the handle.
func SaveAs(ph *ProjectHandle, newRoot string) error {
	if ph == nil {
		return ErrNilHandle
	}
	if newRoot == "" {
		return errors.New("new root is empty")
	}
	for _, d := range standardSubDirs {
		if err := os.MkdirAll(filepath.Join(newRoot, d), 0o755); err != nil {
			return fmt.Errorf("create subdir %s: %w", d, err)
		}
	}
	ph.Root = newRoot
	ph.DesignPath = filepath.Join(newRoot, DesignFileName)
	return Save(ph)
}

// AutosaveCrashSnapshot writes the in-memory design next to the backups
// without touching design.json, so a crash never replaces the last good save.
func AutosaveCrashSnapshot(ph *ProjectHandle) (string, error) {
	if ph == nil || ph.Doc == nil {
		return "", ErrNilHandle
	}
	data, err := ph.Doc.MarshalSnapshot()
	if err != nil {
		return "", fmt.Errorf("marshal design: %w", err)
	}
	bdir := filepath.Join(ph.Root, BackupsDirName)
	if err := os.MkdirAll(bdir, 0o755); err != nil {
		return "", fmt.Errorf("ensure backups dir: %w", err)
	}
	base := strings.TrimSuffix(DesignFileName, filepath.Ext(DesignFileName))
	path := filepath.Join(bdir, fmt.Sprintf("%s.crash-%s.json", base, backupStamp()))
	if err := writeFileSync(path, append(data, '\n')); err != nil {
		return "", fmt.Errorf("write crash snapshot: %w", err)
	}
	return path, nil
}

// backupStamp sorts lexicographically; the millisecond part keeps two saves
// in the same second apart.
func backupStamp() string { return time.Now().Format("20060102-150405.000") }

// writeFileSync writes data to a file, ensures it is flushed to disk.
func writeFileSync(path string, data []byte) (err error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0o644)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
	}()
	if _, err := f.Write(data); err != nil {
		return err
	}
	return f.Sync()
}

// copyFile copies a file from src to dst (overwrites dst if exists).
func copyFile(src, dst string) (err error) {
	sf, err := os.Open(src)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := sf.Close(); err == nil {
			err = cerr
		}
	}()
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return err
	}
	df, err := os.OpenFile(dst, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0o644)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := df.Close(); err == nil {
			err = cerr
		}
	}()
	if _, err := io.Copy(df, sf); err != nil {
		return err
	}
	return df.Sync()
}

// openFromLatestBackup tries the timestamped backups newest first and
// returns the first one that loads.
func openFromLatestBackup(root string) (*scene.Document, string, error) {
	bdir := filepath.Join(root, BackupsDirName)
	ents, err := os.ReadDir(bdir)
	if err != nil {
		return nil, "", fmt.Errorf("read backups dir: %w", err)
	}
	var candidates []string
	for _, e := range ents {
		name := e.Name()
		if strings.HasPrefix(name, DesignFileName+".") && strings.HasSuffix(name, ".bak") {
			candidates = append(candidates, filepath.Join(bdir, name))
		}
	}
	if len(candidates) == 0 {
		return nil, "", errors.New("no backups found")
	}
	sort.Strings(candidates) // timestamp in name yields lexicographic order
	var lastErr error
	for i := len(candidates) - 1; i >= 0; i-- {
		doc, err := readDesign(candidates[i])
		if err == nil {
			return doc, candidates[i], nil
		}
		lastErr = err
	}
	return nil, "", fmt.Errorf("no usable backup: %w", lastErr)
}
