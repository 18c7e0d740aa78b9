// ABOUTME: Keybindings manager with O(1) key-to-action lookup
// ABOUTME: Merges global and local configs, detects conflicts, supports hot-reload

package keymap

import (
	"encoding/json"
	"fmt"
	"maps"
	"os"
	"path/filepath"
	"strings"

	"github.com/fresheditor/fresh/internal/mapper"
	"github.com/fresheditor/fresh/pkg/key"
)

// Bindings maps a mapper.Kind to the key strings it is bound to, e.g.
// mapper.ActionMoveUp -> []string{"up", "ctrl+p"}.
type Bindings struct {
	entries map[mapper.Kind][]string
}

// rawBindings is the JSON-on-disk shape: action name -> key strings.
type rawBindings map[string][]string

// NewBindings creates a Bindings populated with the built-in defaults.
func NewBindings() *Bindings {
	b := &Bindings{entries: make(map[mapper.Kind][]string)}
	b.setDefaults()
	return b
}

func (b *Bindings) setDefaults() {
	b.entries[mapper.ActionMoveUp] = []string{"up"}
	b.entries[mapper.ActionMoveDown] = []string{"down"}
	b.entries[mapper.ActionMoveLeft] = []string{"left"}
	b.entries[mapper.ActionMoveRight] = []string{"right"}
	b.entries[mapper.ActionMoveLineStart] = []string{"home", "ctrl+a"}
	b.entries[mapper.ActionMoveLineEnd] = []string{"end", "ctrl+e"}
	b.entries[mapper.ActionMoveDocumentStart] = []string{"ctrl+home"}
	b.entries[mapper.ActionMoveDocumentEnd] = []string{"ctrl+end"}
	b.entries[mapper.ActionMovePageUp] = []string{"pgup"}
	b.entries[mapper.ActionMovePageDown] = []string{"pgdown"}
	b.entries[mapper.ActionMoveWordLeft] = []string{"ctrl+left", "alt+left"}
	b.entries[mapper.ActionMoveWordRight] = []string{"ctrl+right", "alt+right"}

	b.entries[mapper.ActionSelectUp] = []string{"shift+up"}
	b.entries[mapper.ActionSelectDown] = []string{"shift+down"}
	b.entries[mapper.ActionSelectLeft] = []string{"shift+left"}
	b.entries[mapper.ActionSelectRight] = []string{"shift+right"}
	b.entries[mapper.ActionSelectLineStart] = []string{"shift+home"}
	b.entries[mapper.ActionSelectLineEnd] = []string{"shift+end"}
	b.entries[mapper.ActionSelectDocumentStart] = []string{"ctrl+shift+home"}
	b.entries[mapper.ActionSelectDocumentEnd] = []string{"ctrl+shift+end"}
	b.entries[mapper.ActionSelectPageUp] = []string{"shift+pgup"}
	b.entries[mapper.ActionSelectPageDown] = []string{"shift+pgdown"}
	b.entries[mapper.ActionSelectWordLeft] = []string{"ctrl+shift+left"}
	b.entries[mapper.ActionSelectWordRight] = []string{"ctrl+shift+right"}
	b.entries[mapper.ActionSelectAll] = []string{"ctrl+a"}
	b.entries[mapper.ActionSelectWord] = []string{"ctrl+d"}
	b.entries[mapper.ActionSelectLine] = []string{"ctrl+l"}
	b.entries[mapper.ActionExpandSelection] = []string{"alt+up"}

	b.entries[mapper.ActionDeleteBackward] = []string{"backspace"}
	b.entries[mapper.ActionDeleteForward] = []string{"delete"}
	b.entries[mapper.ActionDeleteWordBackward] = []string{"ctrl+backspace", "ctrl+w"}
	b.entries[mapper.ActionDeleteWordForward] = []string{"ctrl+delete"}
	b.entries[mapper.ActionDeleteLine] = []string{"ctrl+shift+k"}

	b.entries[mapper.ActionAddCursorAbove] = []string{"ctrl+alt+up"}
	b.entries[mapper.ActionAddCursorBelow] = []string{"ctrl+alt+down"}
	b.entries[mapper.ActionAddCursorNextMatch] = []string{"ctrl+d"}
	b.entries[mapper.ActionRemoveSecondaryCursors] = []string{"escape"}

	b.entries[mapper.ActionScrollUp] = []string{"ctrl+pgup"}
	b.entries[mapper.ActionScrollDown] = []string{"ctrl+pgdown"}

	b.entries[mapper.ActionSave] = []string{"ctrl+s"}
	b.entries[mapper.ActionOpen] = []string{"ctrl+o"}
	b.entries[mapper.ActionQuit] = []string{"ctrl+q"}
	b.entries[mapper.ActionUndo] = []string{"ctrl+z"}
	b.entries[mapper.ActionRedo] = []string{"ctrl+y", "ctrl+shift+z"}
	b.entries[mapper.ActionCopy] = []string{"ctrl+c"}
	b.entries[mapper.ActionCut] = []string{"ctrl+x"}
	b.entries[mapper.ActionPaste] = []string{"ctrl+v"}
	b.entries[mapper.ActionTogglePrompt] = []string{"ctrl+p"}
	b.entries[mapper.ActionToggleHelp] = []string{"ctrl+g"}
	b.entries[mapper.ActionSplitHorizontal] = []string{"ctrl+shift+h"}
	b.entries[mapper.ActionSplitVertical] = []string{"ctrl+shift+v"}
	b.entries[mapper.ActionCloseSplit] = []string{"ctrl+shift+w"}
	b.entries[mapper.ActionNextSplit] = []string{"ctrl+tab"}
	b.entries[mapper.ActionPrevSplit] = []string{"ctrl+shift+tab"}
}

// Get returns the key strings bound to action.
func (b *Bindings) Get(action mapper.Kind) []string {
	return b.entries[action]
}

// LoadBindings loads a JSON file of action-name -> key-string overrides.
func LoadBindings(path string) (*Bindings, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var raw rawBindings
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, err
	}

	b := NewBindings()
	for actionName, keys := range raw {
		action := mapper.Kind(actionName)
		if _, ok := b.entries[action]; ok {
			b.entries[action] = keys
		}
	}
	return b, nil
}

// mergeBindings overrides base's entries with overrides' entries.
func mergeBindings(base, overrides *Bindings) {
	maps.Copy(base.entries, overrides.entries)
}

// GlobalBindingsFile returns the path to the user's global keybinding file.
func GlobalBindingsFile() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "fresh", "keybindings.json")
}

// LocalBindingsFile returns the path to a project-local keybinding override file.
func LocalBindingsFile(projectRoot string) string {
	return filepath.Join(projectRoot, ".fresh", "keybindings.json")
}

// ConflictInfo describes a key string bound to more than one action.
type ConflictInfo struct {
	Key     string
	Actions []mapper.Kind
}

// Manager provides O(1) key-to-action lookup from merged keybindings.
type Manager struct {
	bindings *Bindings
	lookup   map[string]mapper.Kind
}

// New creates a Manager from global and local keybinding files. Local
// bindings override global ones. Missing files are ignored.
func New(globalPath, localPath string) *Manager {
	kb := NewBindings()
	if globalPath != "" {
		if g, err := LoadBindings(globalPath); err == nil {
			mergeBindings(kb, g)
		}
	}
	if localPath != "" {
		if l, err := LoadBindings(localPath); err == nil {
			mergeBindings(kb, l)
		}
	}

	m := &Manager{bindings: kb}
	m.buildLookup()
	return m
}

// NewFromBindings creates a Manager from an existing Bindings instance.
func NewFromBindings(kb *Bindings) *Manager {
	m := &Manager{bindings: kb}
	m.buildLookup()
	return m
}

// ActionForKey returns the action bound to k, or "" if unbound.
func (m *Manager) ActionForKey(k key.Key) mapper.Kind {
	return m.lookup[keyToString(k)]
}

// Conflicts detects key strings bound to more than one action.
func (m *Manager) Conflicts() []ConflictInfo {
	keyActions := make(map[string][]mapper.Kind)
	for action, keys := range m.bindings.entries {
		for _, k := range keys {
			keyActions[k] = append(keyActions[k], action)
		}
	}

	var conflicts []ConflictInfo
	for k, actions := range keyActions {
		if len(actions) > 1 {
			conflicts = append(conflicts, ConflictInfo{Key: k, Actions: actions})
		}
	}
	return conflicts
}

// Reload re-reads keybinding files and rebuilds the lookup table.
func (m *Manager) Reload(globalPath, localPath string) {
	kb := NewBindings()
	if globalPath != "" {
		if g, err := LoadBindings(globalPath); err == nil {
			mergeBindings(kb, g)
		}
	}
	if localPath != "" {
		if l, err := LoadBindings(localPath); err == nil {
			mergeBindings(kb, l)
		}
	}
	m.bindings = kb
	m.buildLookup()
}

// FormatAll returns a formatted table of all keybindings, grouped by
// family, for a help overlay.
func (m *Manager) FormatAll() string {
	var b strings.Builder
	b.WriteString("Keybindings:\n\n")

	categories := []struct {
		name    string
		actions []mapper.Kind
	}{
		{"Navigation", []mapper.Kind{
			mapper.ActionMoveUp, mapper.ActionMoveDown, mapper.ActionMoveLeft, mapper.ActionMoveRight,
			mapper.ActionMoveLineStart, mapper.ActionMoveLineEnd,
			mapper.ActionMoveDocumentStart, mapper.ActionMoveDocumentEnd,
			mapper.ActionMoveWordLeft, mapper.ActionMoveWordRight,
		}},
		{"Selection", []mapper.Kind{
			mapper.ActionSelectUp, mapper.ActionSelectDown, mapper.ActionSelectLeft, mapper.ActionSelectRight,
			mapper.ActionSelectAll, mapper.ActionSelectWord, mapper.ActionSelectLine, mapper.ActionExpandSelection,
		}},
		{"Editing", []mapper.Kind{
			mapper.ActionDeleteBackward, mapper.ActionDeleteForward,
			mapper.ActionDeleteWordBackward, mapper.ActionDeleteWordForward, mapper.ActionDeleteLine,
			mapper.ActionCopy, mapper.ActionCut, mapper.ActionPaste, mapper.ActionUndo, mapper.ActionRedo,
		}},
		{"Multi-cursor", []mapper.Kind{
			mapper.ActionAddCursorAbove, mapper.ActionAddCursorBelow,
			mapper.ActionAddCursorNextMatch, mapper.ActionRemoveSecondaryCursors,
		}},
		{"Scrolling", []mapper.Kind{
			mapper.ActionScrollUp, mapper.ActionScrollDown,
			mapper.ActionMovePageUp, mapper.ActionMovePageDown,
		}},
		{"Mode & Control", []mapper.Kind{
			mapper.ActionSave, mapper.ActionOpen, mapper.ActionQuit,
			mapper.ActionTogglePrompt, mapper.ActionToggleHelp,
			mapper.ActionSplitHorizontal, mapper.ActionSplitVertical, mapper.ActionCloseSplit,
			mapper.ActionNextSplit, mapper.ActionPrevSplit,
		}},
	}

	for _, cat := range categories {
		fmt.Fprintf(&b, "## %s\n", cat.name)
		for _, action := range cat.actions {
			keys := m.bindings.Get(action)
			if len(keys) == 0 {
				continue
			}
			fmt.Fprintf(&b, "  %-20s %s\n", strings.Join(keys, ", "), action)
		}
		b.WriteString("\n")
	}

	return b.String()
}

func (m *Manager) buildLookup() {
	m.lookup = make(map[string]mapper.Kind, len(m.bindings.entries)*2)
	for action, keys := range m.bindings.entries {
		for _, k := range keys {
			m.lookup[k] = action
		}
	}
}

// keyToString converts a key.Key to the string format used in keybinding files.
func keyToString(k key.Key) string {
	var parts []string

	if k.Ctrl {
		parts = append(parts, "ctrl")
	}
	if k.Alt {
		parts = append(parts, "alt")
	}
	if k.Shift {
		parts = append(parts, "shift")
	}

	switch k.Type {
	case key.KeyRune:
		parts = append(parts, string(k.Rune))
	case key.KeyEnter:
		parts = append(parts, "enter")
	case key.KeyTab:
		parts = append(parts, "tab")
	case key.KeyBackTab:
		return "shift+tab"
	case key.KeyBackspace:
		parts = append(parts, "backspace")
	case key.KeyDelete:
		parts = append(parts, "delete")
	case key.KeyUp:
		parts = append(parts, "up")
	case key.KeyDown:
		parts = append(parts, "down")
	case key.KeyLeft:
		parts = append(parts, "left")
	case key.KeyRight:
		parts = append(parts, "right")
	case key.KeyHome:
		parts = append(parts, "home")
	case key.KeyEnd:
		parts = append(parts, "end")
	case key.KeyPageUp:
		parts = append(parts, "pgup")
	case key.KeyPageDown:
		parts = append(parts, "pgdown")
	case key.KeyEscape:
		parts = append(parts, "escape")
	case key.KeyCtrlC:
		return "ctrl+c"
	case key.KeyCtrlD:
		return "ctrl+d"
	case key.KeyCtrlG:
		return "ctrl+g"
	case key.KeyCtrlL:
		return "ctrl+l"
	case key.KeyCtrlO:
		return "ctrl+o"
	case key.KeyCtrlR:
		return "ctrl+r"
	default:
		return ""
	}

	return strings.Join(parts, "+")
}
