/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package crash turns a panic in the editor into a report file and a
// crash snapshot of the open design.
package crash

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"runtime/debug"
	"time"

	"github.com/google/uuid"

	applog "vectoredit/internal/log"
	"vectoredit/internal/storage"
	"vectoredit/internal/telemetry"
	"vectoredit/internal/version"
)

// exitFn is used to allow testing of Recover without terminating the test process.
var exitFn = os.Exit

const uploadTimeout = 3 * time.Second

// Recover captures a panic, logs it with its stack, writes a report file
// and, when a project is open, a crash snapshot of the in-memory design.
// It must be deferred directly:
//
//	defer crash.Recover(ph)
func Recover(ph *storage.ProjectHandle) {
	if r := recover(); r != nil {
		handle(ph, r)
	}
}

// RecoverFunc is Recover for a handle that is only known later, such as
// one opened by the command being run:
//
//	defer crash.RecoverFunc(func() *storage.ProjectHandle { return ph })
func RecoverFunc(current func() *storage.ProjectHandle) {
	if r := recover(); r != nil {
		var ph *storage.ProjectHandle
		if current != nil {
			ph = current()
		}
		handle(ph, r)
	}
}

func handle(ph *storage.ProjectHandle, r any) {
	l := applog.WithComponent("crash")
	stack := debug.Stack()
	l.Error("panic recovered", slog.Any("panic", r), slog.String("stack", string(stack)))

	reportPath, report, err := writeReport(ph, r, stack)
	if err != nil {
		l.Error("write crash report failed", slog.Any("err", err), slog.String("path", reportPath))
	}
	ctx, cancel := context.WithTimeout(context.Background(), uploadTimeout)
	if err := telemetry.UploadCrash(ctx, report); err != nil {
		l.Warn("crash report upload failed", slog.Any("err", err))
	}
	cancel()
	if ph != nil && ph.Doc != nil {
		if path, err := storage.AutosaveCrashSnapshot(ph); err != nil {
			l.Error("autosave crash snapshot failed", slog.Any("err", err))
		} else {
			l.Info("autosave crash snapshot written", slog.String("path", path))
		}
	}

	if _, err := fmt.Fprintf(os.Stderr, "A fatal error occurred. A crash report was saved to: %s\n", reportPath); err != nil {
		l.Error("failed to write crash message to stderr", slog.Any("err", err))
	}
	if _, err := fmt.Fprintf(os.Stderr, "Version: %s\nOS/Arch: %s/%s\n", version.String(), runtime.GOOS, runtime.GOARCH); err != nil {
		l.Error("failed to write version info to stderr", slog.Any("err", err))
	}
	exitFn(2)
}

func writeReport(ph *storage.ProjectHandle, panicVal any, stack []byte) (string, []byte, error) {
	dir := os.TempDir()
	if ph != nil && ph.Root != "" {
		dir = filepath.Join(ph.Root, storage.BackupsDirName)
		_ = os.MkdirAll(dir, 0o755)
	}
	id := uuid.New()
	now := time.Now()
	fname := fmt.Sprintf("crash-%s-%s.log", now.Format("20060102-150405"), id.String()[:8])
	path := filepath.Join(dir, fname)

	var buf bytes.Buffer
	_, _ = fmt.Fprintf(&buf, "VectorEdit Crash Report\n")
	_, _ = fmt.Fprintf(&buf, "Report: %s\n", id)
	_, _ = fmt.Fprintf(&buf, "Timestamp: %s\n", now.Format(time.RFC3339))
	_, _ = fmt.Fprintf(&buf, "Version: %s\n", version.String())
	_, _ = fmt.Fprintf(&buf, "OS/Arch: %s/%s\n", runtime.GOOS, runtime.GOARCH)
	if ph != nil {
		_, _ = fmt.Fprintf(&buf, "ProjectRoot: %s\n", ph.Root)
		_, _ = fmt.Fprintf(&buf, "Design: %s\n", ph.DesignPath)
		if ph.Doc != nil {
			_, _ = fmt.Fprintf(&buf, "Document: %s (%d nodes)\n", ph.Doc.ID, ph.Doc.Len())
		}
	}
	_, _ = fmt.Fprintf(&buf, "\nPanic: %v\n\n", panicVal)
	_, _ = fmt.Fprintf(&buf, "Stack:\n%s\n", string(stack))

	f, err := os.OpenFile(path, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0o644)
	if err != nil {
		return path, buf.Bytes(), err
	}
	defer func() {
		if err := f.Close(); err != nil {
			applog.WithComponent("crash").Error("failed to close crash report file", slog.Any("err", err), slog.String("path", path))
		}
	}()
	if _, err := f.Write(buf.Bytes()); err != nil {
		return path, buf.Bytes(), err
	}
	_ = f.Sync()
	return path, buf.Bytes(), nil
}
