/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package config loads the user configuration: a YAML file merged over
// defaults, then VED_ environment overrides.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"
)

// EditorConfig holds interaction tunables. Lengths are screen pixels unless
// noted; tools divide them by the zoom.
type EditorConfig struct {
	HitTolerance     float64 `yaml:"hit_tolerance"`
	HandleSize       float64 `yaml:"handle_size"`
	RotateZoneSize   float64 `yaml:"rotate_zone_size"`
	RotationSnapStep float64 `yaml:"rotation_snap_step"` // degrees
	SnapTolerance    float64 `yaml:"snap_tolerance"`
	MinResizeSize    float64 `yaml:"min_resize_size"` // document units
	HistoryDepth     int     `yaml:"history_depth"`
	SnapEnabled      bool    `yaml:"snap_enabled"`
	// ResizeFlip lets a resize drag past the anchor mirror the shape
	// instead of stopping at MinResizeSize.
	ResizeFlip bool `yaml:"resize_flip"`
}

type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
	Source bool   `yaml:"source"`
	File   string `yaml:"file"`
}

type AppConfig struct {
	ConfigVersion int           `yaml:"config_version"`
	Editor        EditorConfig  `yaml:"editor"`
	Logging       LoggingConfig `yaml:"logging"`
}

func Defaults() AppConfig {
	return AppConfig{
		ConfigVersion: 1,
		Editor: EditorConfig{
			HitTolerance:     4,
			HandleSize:       8,
			RotateZoneSize:   16,
			RotationSnapStep: 15,
			SnapTolerance:    5,
			MinResizeSize:    1,
			HistoryDepth:     200,
			SnapEnabled:      true,
			ResizeFlip:       true,
		},
		Logging: LoggingConfig{Level: "info", Format: "console", Source: false, File: ""},
	}
}

// Environment prefix and the variables it produces.
const (
	EnvPrefix = "VED"

	EnvConfigFile = "VED_CONFIG"

	EnvHitTolerance   = "VED_HIT_TOLERANCE"
	EnvHandleSize     = "VED_HANDLE_SIZE"
	EnvRotateZoneSize = "VED_ROTATE_ZONE_SIZE"
	EnvRotationStep   = "VED_ROTATION_SNAP_STEP"
	EnvSnapTolerance  = "VED_SNAP_TOLERANCE"
	EnvSnapEnabled    = "VED_SNAP_ENABLED"
	EnvMinResizeSize  = "VED_MIN_RESIZE_SIZE"
	EnvHistoryDepth   = "VED_HISTORY_DEPTH"
	EnvResizeFlip     = "VED_RESIZE_FLIP"

	EnvLogLevel  = "VED_LOG_LEVEL"
	EnvLogFormat = "VED_LOG_FORMAT"
	EnvLogSource = "VED_LOG_SOURCE"
	EnvLogFile   = "VED_LOG_FILE"
)

// envOverrides mirrors the overridable fields. Pointers stay nil when the
// variable is unset so file values survive.
type envOverrides struct {
	HitTolerance     *float64 `envconfig:"HIT_TOLERANCE"`
	HandleSize       *float64 `envconfig:"HANDLE_SIZE"`
	RotateZoneSize   *float64 `envconfig:"ROTATE_ZONE_SIZE"`
	RotationSnapStep *float64 `envconfig:"ROTATION_SNAP_STEP"`
	SnapTolerance    *float64 `envconfig:"SNAP_TOLERANCE"`
	SnapEnabled      *bool    `envconfig:"SNAP_ENABLED"`
	MinResizeSize    *float64 `envconfig:"MIN_RESIZE_SIZE"`
	HistoryDepth     *int     `envconfig:"HISTORY_DEPTH"`
	ResizeFlip       *bool    `envconfig:"RESIZE_FLIP"`

	LogLevel  *string `envconfig:"LOG_LEVEL"`
	LogFormat *string `envconfig:"LOG_FORMAT"`
	LogSource *bool   `envconfig:"LOG_SOURCE"`
	LogFile   *string `envconfig:"LOG_FILE"`
}

// ConfigPath returns the per-user config file, or VED_CONFIG when set.
func ConfigPath() (string, error) {
	if p := strings.TrimSpace(os.Getenv(EnvConfigFile)); p != "" {
		return p, nil
	}
	var base string
	switch runtime.GOOS {
	case "windows":
		base = os.Getenv("AppData")
		if base == "" { // fallback
			base = filepath.Join(os.Getenv("USERPROFILE"), "AppData", "Roaming")
		}
		base = filepath.Join(base, "VectorEdit")
	case "darwin":
		base = filepath.Join(os.Getenv("HOME"), "Library", "Application Support", "VectorEdit")
	default: // linux and others
		if x := os.Getenv("XDG_CONFIG_HOME"); x != "" {
			base = filepath.Join(x, "vectoredit")
		} else {
			base = filepath.Join(os.Getenv("HOME"), ".config", "vectoredit")
		}
	}
	if base == "" {
		return "", errors.New("cannot resolve config directory")
	}
	return filepath.Join(base, "config.yaml"), nil
}

// Load reads the user config file (if present) over the defaults and
// applies environment overrides. A malformed file or variable is an error;
// the returned config then holds everything that could be applied.
func Load() (AppConfig, error) {
	cfg := Defaults()
	path, err := ConfigPath()
	if err != nil {
		return cfg, err
	}
	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		// start from defaults so keys missing from the file keep them
		fileCfg := Defaults()
		if err := yaml.Unmarshal(data, &fileCfg); err != nil {
			return cfg, fmt.Errorf("parse %s: %w", path, err)
		}
		mergeInto(&cfg, &fileCfg)
	case !errors.Is(err, fs.ErrNotExist):
		return cfg, fmt.Errorf("read %s: %w", path, err)
	}
	if err := applyEnvOverrides(&cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Save writes the user config YAML.
func Save(cfg AppConfig) error {
	path, err := ConfigPath()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o600)
}

func mergeInto(dst *AppConfig, src *AppConfig) {
	if src.ConfigVersion != 0 {
		dst.ConfigVersion = src.ConfigVersion
	}
	// editor: zero means "not set in file"
	setPos(&dst.Editor.HitTolerance, src.Editor.HitTolerance)
	setPos(&dst.Editor.HandleSize, src.Editor.HandleSize)
	setPos(&dst.Editor.RotateZoneSize, src.Editor.RotateZoneSize)
	setPos(&dst.Editor.RotationSnapStep, src.Editor.RotationSnapStep)
	setPos(&dst.Editor.SnapTolerance, src.Editor.SnapTolerance)
	setPos(&dst.Editor.MinResizeSize, src.Editor.MinResizeSize)
	if src.Editor.HistoryDepth != 0 {
		dst.Editor.HistoryDepth = src.Editor.HistoryDepth
	}
	// booleans: copy directly from src (file) so user preferences persist
	dst.Editor.SnapEnabled = src.Editor.SnapEnabled
	dst.Editor.ResizeFlip = src.Editor.ResizeFlip
	// logging
	if strings.TrimSpace(src.Logging.Level) != "" {
		dst.Logging.Level = strings.ToLower(strings.TrimSpace(src.Logging.Level))
	}
	if strings.TrimSpace(src.Logging.Format) != "" {
		dst.Logging.Format = strings.ToLower(strings.TrimSpace(src.Logging.Format))
	}
	dst.Logging.Source = src.Logging.Source
	if strings.TrimSpace(src.Logging.File) != "" {
		dst.Logging.File = strings.TrimSpace(src.Logging.File)
	}
}

func setPos(dst *float64, v float64) {
	if v > 0 {
		*dst = v
	}
}

func applyEnvOverrides(cfg *AppConfig) error {
	var o envOverrides
	if err := envconfig.Process(EnvPrefix, &o); err != nil {
		return fmt.Errorf("environment overrides: %w", err)
	}
	e := &cfg.Editor
	for _, f := range []struct {
		dst *float64
		src *float64
	}{
		{&e.HitTolerance, o.HitTolerance},
		{&e.HandleSize, o.HandleSize},
		{&e.RotateZoneSize, o.RotateZoneSize},
		{&e.RotationSnapStep, o.RotationSnapStep},
		{&e.SnapTolerance, o.SnapTolerance},
		{&e.MinResizeSize, o.MinResizeSize},
	} {
		if f.src != nil {
			*f.dst = *f.src
		}
	}
	if o.SnapEnabled != nil {
		e.SnapEnabled = *o.SnapEnabled
	}
	if o.ResizeFlip != nil {
		e.ResizeFlip = *o.ResizeFlip
	}
	if o.HistoryDepth != nil {
		e.HistoryDepth = *o.HistoryDepth
	}
	// logging overrides
	if o.LogLevel != nil && strings.TrimSpace(*o.LogLevel) != "" {
		cfg.Logging.Level = strings.ToLower(strings.TrimSpace(*o.LogLevel))
	}
	if o.LogFormat != nil && strings.TrimSpace(*o.LogFormat) != "" {
		cfg.Logging.Format = strings.ToLower(strings.TrimSpace(*o.LogFormat))
	}
	if o.LogSource != nil {
		cfg.Logging.Source = *o.LogSource
	}
	if o.LogFile != nil && strings.TrimSpace(*o.LogFile) != "" {
		cfg.Logging.File = strings.TrimSpace(*o.LogFile)
	}
	return nil
}

var envKeys = map[string]string{
	"editor.hit_tolerance":      EnvHitTolerance,
	"editor.handle_size":        EnvHandleSize,
	"editor.rotate_zone_size":   EnvRotateZoneSize,
	"editor.rotation_snap_step": EnvRotationStep,
	"editor.snap_tolerance":     EnvSnapTolerance,
	"editor.snap_enabled":       EnvSnapEnabled,
	"editor.min_resize_size":    EnvMinResizeSize,
	"editor.history_depth":      EnvHistoryDepth,
	"editor.resize_flip":        EnvResizeFlip,
	"logging.level":             EnvLogLevel,
	"logging.format":            EnvLogFormat,
	"logging.source":            EnvLogSource,
	"logging.file":              EnvLogFile,
}

// EnvOverrideFor returns the env var name if the field is overridden by environment variables.
func EnvOverrideFor(key string) (string, bool) {
	name, ok := envKeys[key]
	if !ok || os.Getenv(name) == "" {
		return "", false
	}
	return name, true
}
