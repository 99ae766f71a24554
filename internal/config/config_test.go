/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package config

import (
	"os"
	"path/filepath"
	"testing"
)

func isolate(t *testing.T) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), "config.yaml")
	t.Setenv(EnvConfigFile, p)
	return p
}

func TestLoadDefaultsWithoutFile(t *testing.T) {
	isolate(t)
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg != Defaults() {
		t.Fatalf("expected defaults, got %#v", cfg)
	}
}

func TestFileMergedOverDefaults(t *testing.T) {
	p := isolate(t)
	yml := "editor:\n  handle_size: 12\n  snap_enabled: false\nlogging:\n  level: DEBUG\n"
	if err := os.WriteFile(p, []byte(yml), 0o600); err != nil {
		t.Fatal(err)
	}
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.Editor.HandleSize != 12 || cfg.Editor.SnapEnabled {
		t.Fatalf("editor not merged: %#v", cfg.Editor)
	}
	if cfg.Editor.HitTolerance != Defaults().Editor.HitTolerance {
		t.Fatalf("unset field lost its default: %v", cfg.Editor.HitTolerance)
	}
	if cfg.Logging.Level != "debug" {
		t.Fatalf("level = %q", cfg.Logging.Level)
	}
}

func TestMalformedFile(t *testing.T) {
	p := isolate(t)
	_ = os.WriteFile(p, []byte("editor: [unclosed"), 0o600)
	cfg, err := Load()
	if err == nil {
		t.Fatalf("expected parse error")
	}
	if cfg.Editor.HandleSize != Defaults().Editor.HandleSize {
		t.Fatalf("defaults should survive a bad file")
	}
}

func TestEnvOverridesEditor(t *testing.T) {
	isolate(t)
	t.Setenv(EnvSnapTolerance, "9.5")
	t.Setenv(EnvHistoryDepth, "3")
	t.Setenv(EnvSnapEnabled, "false")
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.Editor.SnapTolerance != 9.5 || cfg.Editor.HistoryDepth != 3 || cfg.Editor.SnapEnabled {
		t.Fatalf("env overrides not applied: %#v", cfg.Editor)
	}
	if name, ok := EnvOverrideFor("editor.snap_tolerance"); !ok || name != EnvSnapTolerance {
		t.Fatalf("EnvOverrideFor = %q %v", name, ok)
	}
	if _, ok := EnvOverrideFor("editor.handle_size"); ok {
		t.Fatalf("handle_size is not overridden")
	}
}

func TestResizeFlipSetting(t *testing.T) {
	p := isolate(t)
	if !Defaults().Editor.ResizeFlip {
		t.Fatalf("resize flip should default to on")
	}
	if err := os.WriteFile(p, []byte("editor:\n  resize_flip: false\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	cfg, err := Load()
	if err != nil || cfg.Editor.ResizeFlip {
		t.Fatalf("file value not applied: %v err=%v", cfg.Editor.ResizeFlip, err)
	}
	t.Setenv(EnvResizeFlip, "true")
	cfg, err = Load()
	if err != nil || !cfg.Editor.ResizeFlip {
		t.Fatalf("env override not applied: %v err=%v", cfg.Editor.ResizeFlip, err)
	}
	if name, ok := EnvOverrideFor("editor.resize_flip"); !ok || name != EnvResizeFlip {
		t.Fatalf("EnvOverrideFor = %q %v", name, ok)
	}
}

func TestEnvOverrideBadValue(t *testing.T) {
	isolate(t)
	t.Setenv(EnvHistoryDepth, "many")
	if _, err := Load(); err == nil {
		t.Fatalf("expected error for non-numeric %s", EnvHistoryDepth)
	}
}

func TestMergeIncludesLogging(t *testing.T) {
	dst := Defaults()
	src := Defaults()
	src.Logging.Level = "debug"
	src.Logging.Format = "json"
	src.Logging.Source = true
	src.Logging.File = "/tmp/ved.log"
	mergeInto(&dst, &src)
	if dst.Logging.Level != "debug" || dst.Logging.Format != "json" || !dst.Logging.Source || dst.Logging.File != "/tmp/ved.log" {
		t.Fatalf("logging fields not merged correctly: %#v", dst.Logging)
	}
}

func TestEnvOverridesLogging(t *testing.T) {
	isolate(t)
	t.Setenv(EnvLogLevel, "error")
	t.Setenv(EnvLogFormat, "json")
	t.Setenv(EnvLogSource, "1")
	t.Setenv(EnvLogFile, "/tmp/ved.log")
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.Logging.Level != "error" || cfg.Logging.Format != "json" || !cfg.Logging.Source || cfg.Logging.File != "/tmp/ved.log" {
		t.Fatalf("env overrides not applied to logging: %#v", cfg.Logging)
	}
}

func TestSaveRoundTrip(t *testing.T) {
	isolate(t)
	cfg := Defaults()
	cfg.Editor.HandleSize = 10
	if err := Save(cfg); err != nil {
		t.Fatalf("Save: %v", err)
	}
	got, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got != cfg {
		t.Fatalf("round trip: got %#v want %#v", got, cfg)
	}
}
