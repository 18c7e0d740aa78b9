// ABOUTME: Editor settings loading with global + project config deep merge
// ABOUTME: JSON-based configuration using encoding/json; no external libs

package config

import (
	"encoding/json"
	"fmt"
	"maps"
	"os"
)

// Settings holds the merged editor configuration.
type Settings struct {
	// TabSize is the number of columns InsertTab advances by. Default 4.
	TabSize int `json:"tabSize,omitempty"`

	// WrapWidth turns soft wrapping on when greater than 0; wrapped lines
	// break at the viewport width, not at this value. 0 means no wrapping.
	WrapWidth int `json:"wrapWidth,omitempty"`

	// GutterWidth reserves columns for line numbers in every split's layout.
	GutterWidth int `json:"gutterWidth,omitempty"`

	// LargeFileThresholdBytes sets textbuffer.Metadata.LargeFileThresholdBytes
	// for every buffer opened through this settings object.
	LargeFileThresholdBytes int `json:"largeFileThresholdBytes,omitempty"`

	// Theme names a built-in palette (see pkg/theme.BuiltinNames) or a path
	// to a custom JSON theme file, resolved by cmd/fresh's resolveTheme via
	// pkg/theme.LoadFile.
	Theme string `json:"theme,omitempty"`

	// Hooks maps a hook name (e.g. "BeforeFileSave") to the external
	// commands a collaborator should spawn and register against
	// internal/hooks.Registry for that event.
	Hooks map[string][]HookCommand `json:"hooks,omitempty"`

	// FrameBudgetMillis overrides editorloop.DefaultFrameBudget when
	// non-zero.
	FrameBudgetMillis int `json:"frameBudgetMillis,omitempty"`

	// IdleSleepMillis overrides editorloop.DefaultIdleSleep when non-zero.
	IdleSleepMillis int `json:"idleSleepMillis,omitempty"`
}

// HookCommand describes an external process hook: a collaborator launches
// Command with Args and feeds it events via the hook wire protocol.
type HookCommand struct {
	Command string   `json:"command"`
	Args    []string `json:"args,omitempty"`
}

// defaultSettings returns the built-in defaults applied before any file is
// merged in.
func defaultSettings() *Settings {
	return &Settings{
		TabSize:                 4,
		GutterWidth:             4,
		LargeFileThresholdBytes: 10 * 1024 * 1024,
		Theme:                   "dark",
	}
}

// Load reads and merges global and project-local settings over the
// built-in defaults. Project settings override global settings.
func Load(projectRoot string) (*Settings, error) {
	global, err := loadFile(GlobalConfigFile())
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("loading global config: %w", err)
	}

	project, err := loadFile(ProjectConfigFile(projectRoot))
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("loading project config: %w", err)
	}

	merged := merge(defaultSettings(), global)
	merged = merge(merged, project)
	return merged, nil
}

// loadFile reads a Settings from a JSON file. Returns a zero Settings and
// the original error if the file cannot be read, and nil with a wrapped
// error if it fails to parse.
func loadFile(path string) (*Settings, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return &Settings{}, err
	}
	var s Settings
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	return &s, nil
}

// merge deep-merges override onto base. Non-zero override values take
// precedence; Hooks are merged by event name.
func merge(base, override *Settings) *Settings {
	if base == nil {
		base = &Settings{}
	}
	if override == nil {
		return base
	}

	result := *base

	if override.TabSize != 0 {
		result.TabSize = override.TabSize
	}
	if override.WrapWidth != 0 {
		result.WrapWidth = override.WrapWidth
	}
	if override.GutterWidth != 0 {
		result.GutterWidth = override.GutterWidth
	}
	if override.LargeFileThresholdBytes != 0 {
		result.LargeFileThresholdBytes = override.LargeFileThresholdBytes
	}
	if override.Theme != "" {
		result.Theme = override.Theme
	}
	if override.FrameBudgetMillis != 0 {
		result.FrameBudgetMillis = override.FrameBudgetMillis
	}
	if override.IdleSleepMillis != 0 {
		result.IdleSleepMillis = override.IdleSleepMillis
	}

	if len(override.Hooks) > 0 {
		if result.Hooks == nil {
			result.Hooks = make(map[string][]HookCommand)
		}
		maps.Copy(result.Hooks, override.Hooks)
	}

	return &result
}
