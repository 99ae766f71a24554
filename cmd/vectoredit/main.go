/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"vectoredit/internal/config"
	"vectoredit/internal/crash"
	applog "vectoredit/internal/log"
	"vectoredit/internal/scene"
	"vectoredit/internal/storage"
	"vectoredit/internal/telemetry"
	"vectoredit/internal/version"
)

func usage() {
	fmt.Println("VectorEdit core")
	fmt.Printf("Version: %s\n", version.String())
	fmt.Println()
	fmt.Println("Usage:")
	fmt.Println("  vectoredit version|-v|--version        Show version")
	fmt.Println("  vectoredit init <dir> <name>           Create a new project at <dir> named <name>")
	fmt.Println("  vectoredit open <dir>                  Open project at <dir> and print summary")
	fmt.Println("  vectoredit index <dir>                 Check and rebuild the layer index")
	fmt.Println("  vectoredit search <dir> <query>        Search layers by name or text")
	fmt.Println("  vectoredit demo <dir>                  Run a scripted editing session and save it")
}

func main() {
	cfg, cfgErr := config.Load()
	applog.Init(applog.Options{
		Level:     cfg.Logging.Level,
		Format:    cfg.Logging.Format,
		AddSource: cfg.Logging.Source,
		File:      cfg.Logging.File,
	})
	l := applog.WithComponent("cli")
	if cfgErr != nil {
		l.Warn("config load failed, using defaults", slog.Any("err", cfgErr))
		cfg = config.Defaults()
	}
	var ph *storage.ProjectHandle
	defer crash.RecoverFunc(func() *storage.ProjectHandle { return ph })

	args := os.Args
	l.Debug("start", slog.Int("args", len(args)))
	if len(args) < 2 {
		usage()
		return
	}
	tel := telemetry.Default()
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		tel.Flush(ctx)
		cancel()
		tel.Close()
	}()
	tel.Event("cli.command", map[string]any{"command": args[1]})
	switch args[1] {
	case "version", "--version", "-v":
		fmt.Println(version.String())
	case "init":
		need(args, 4, "init requires <dir> and <name>")
		abs := absDir(args[2])
		l.Info("init project", slog.String("root", abs), slog.String("name", args[3]))
		h, err := storage.InitProject(abs, args[3])
		fail(l, "init", err)
		ph = h
		fmt.Println("Created project at", abs)
	case "open":
		need(args, 3, "open requires <dir>")
		h := open(l, args[2])
		ph = h
		printSummary(h)
	case "index":
		need(args, 3, "index requires <dir>")
		h := open(l, args[2])
		ph = h
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		rebuilt, err := storage.DetectAndRebuildIndex(ctx, h.Root, h.Doc)
		fail(l, "index check", err)
		if !rebuilt {
			fail(l, "index update", storage.UpdateIndex(ctx, h.Root, h.Doc))
		}
		fmt.Printf("Indexed %d layers (rebuilt: %v)\n", liveCount(h.Doc), rebuilt)
	case "search":
		need(args, 4, "search requires <dir> and <query>")
		abs := absDir(args[2])
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		res, err := storage.SearchLayers(ctx, abs, storage.LayerQuery{Text: strings.Join(args[3:], " ")})
		fail(l, "search", err)
		for _, r := range res {
			fmt.Printf("%-8s %-32s %s  %s\n", r.Kind, r.NodeID, r.Name, r.Snippet)
		}
		fmt.Printf("%d result(s)\n", len(res))
	case "demo":
		need(args, 3, "demo requires <dir>")
		abs := absDir(args[2])
		h, err := storage.Open(abs)
		if err != nil {
			l.Info("no project yet, creating one", slog.String("root", abs))
			h, err = storage.InitProject(abs, filepath.Base(abs))
			fail(l, "init", err)
		}
		ph = h
		fail(l, "demo", runDemo(h, cfg.Editor))
		printSummary(h)
	default:
		usage()
		os.Exit(2)
	}
}

func need(args []string, n int, msg string) {
	if len(args) < n {
		fmt.Println(msg)
		usage()
		os.Exit(2)
	}
}

func absDir(dir string) string {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return dir
	}
	return abs
}

func fail(l *slog.Logger, what string, err error) {
	if err == nil {
		return
	}
	l.Error(what+" failed", slog.Any("err", err))
	fmt.Println("Error:", err)
	os.Exit(1)
}

func open(l *slog.Logger, dir string) *storage.ProjectHandle {
	abs := absDir(dir)
	l.Info("open project", slog.String("root", abs))
	h, err := storage.Open(abs)
	fail(l, "open", err)
	if h.Recovered != "" {
		fmt.Println("Warning: design.json was unreadable, opened backup", h.Recovered)
	}
	return h
}

func liveCount(doc *scene.Document) int {
	n := 0
	for _, c := range doc.Canvases() {
		doc.Walk(c, func(*scene.Node) bool { n++; return true })
	}
	return n
}

func printSummary(h *storage.ProjectHandle) {
	fmt.Printf("Project: %s\n", h.Doc.Name)
	fmt.Printf("Canvases: %d\n", len(h.Doc.Canvases()))
	fmt.Printf("Nodes: %d\n", liveCount(h.Doc))
	fmt.Println("Root:", h.Root)
}
