package keymap

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/fresheditor/fresh/internal/mapper"
	"github.com/fresheditor/fresh/pkg/key"
)

func TestActionForKeyDefaults(t *testing.T) {
	m := NewFromBindings(NewBindings())

	if got := m.ActionForKey(key.Key{Type: key.KeyUp}); got != mapper.ActionMoveUp {
		t.Fatalf("up -> %s, want MoveUp", got)
	}
	if got := m.ActionForKey(key.Key{Type: key.KeyUp, Shift: true}); got != mapper.ActionSelectUp {
		t.Fatalf("shift+up -> %s, want SelectUp", got)
	}
	if got := m.ActionForKey(key.Key{Type: key.KeyBackspace}); got != mapper.ActionDeleteBackward {
		t.Fatalf("backspace -> %s, want DeleteBackward", got)
	}
}

func TestActionForKeyUnbound(t *testing.T) {
	m := NewFromBindings(NewBindings())
	if got := m.ActionForKey(key.Key{Type: key.KeyRune, Rune: 'z', Alt: true, Ctrl: true, Shift: true}); got != "" {
		t.Fatalf("expected unbound key to return empty kind, got %s", got)
	}
}

func TestConflictsDetectsSharedKey(t *testing.T) {
	b := NewBindings()
	// ActionSelectWord and ActionAddCursorNextMatch both default to ctrl+d.
	m := NewFromBindings(b)

	conflicts := m.Conflicts()
	found := false
	for _, c := range conflicts {
		if c.Key == "ctrl+d" {
			found = true
			if len(c.Actions) < 2 {
				t.Fatalf("expected at least 2 actions sharing ctrl+d, got %+v", c.Actions)
			}
		}
	}
	if !found {
		t.Fatal("expected a conflict on ctrl+d")
	}
}

func TestLoadBindingsOverridesDefault(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "keybindings.json")
	if err := os.WriteFile(path, []byte(`{"MoveUp": ["k"]}`), 0o644); err != nil {
		t.Fatal(err)
	}

	m := New(path, "")
	if got := m.ActionForKey(key.Key{Type: key.KeyRune, Rune: 'k'}); got != mapper.ActionMoveUp {
		t.Fatalf("override key -> %s, want MoveUp", got)
	}
	// Default binding should no longer resolve once overridden.
	if got := m.ActionForKey(key.Key{Type: key.KeyUp}); got != "" {
		t.Fatalf("expected default 'up' binding to be replaced, got %s", got)
	}
}

func TestLocalOverridesGlobal(t *testing.T) {
	dir := t.TempDir()
	globalPath := filepath.Join(dir, "global.json")
	localPath := filepath.Join(dir, "local.json")
	os.WriteFile(globalPath, []byte(`{"Save": ["ctrl+g"]}`), 0o644)
	os.WriteFile(localPath, []byte(`{"Save": ["ctrl+s"]}`), 0o644)

	m := New(globalPath, localPath)
	if got := m.ActionForKey(key.Key{Type: key.KeyRune, Rune: 's', Ctrl: true}); got != mapper.ActionSave {
		t.Fatalf("local override -> %s, want Save", got)
	}
}

func TestMissingFilesAreIgnored(t *testing.T) {
	m := New("/nonexistent/global.json", "/nonexistent/local.json")
	if got := m.ActionForKey(key.Key{Type: key.KeyUp}); got != mapper.ActionMoveUp {
		t.Fatalf("expected defaults to survive missing files, got %s", got)
	}
}

func TestFormatAllListsBoundActions(t *testing.T) {
	m := NewFromBindings(NewBindings())
	out := m.FormatAll()
	if out == "" {
		t.Fatal("expected non-empty formatted output")
	}
	if !contains(out, "MoveUp") {
		t.Fatalf("expected MoveUp listed in output: %s", out)
	}
}

func contains(haystack, needle string) bool {
	return len(haystack) >= len(needle) && (func() bool {
		for i := 0; i+len(needle) <= len(haystack); i++ {
			if haystack[i:i+len(needle)] == needle {
				return true
			}
		}
		return false
	})()
}
