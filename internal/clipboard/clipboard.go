// ABOUTME: Clipboard boundary per spec.md §6.4: clipboard_get/clipboard_set treat the clipboard as a pure string
// ABOUTME: Backed by an Emacs-style kill ring, optionally synced to the OS clipboard

package clipboard

import (
	"strings"

	"github.com/fresheditor/fresh/internal/clipboard/killring"
	sysclipboard "github.com/fresheditor/fresh/pkg/sysclipboard"
)

// Clipboard is the in-core string clipboard, backed by a kill ring so
// repeated cuts accumulate history for Yank/YankPop. Syncing to the OS
// clipboard is best-effort: a sync failure never blocks an in-core
// operation.
type Clipboard struct {
	ring   *killring.KillRing
	syncOS bool
}

// New creates a Clipboard. When syncOS is true, Set also writes through to
// the OS clipboard via pkg/sysclipboard.
func New(syncOS bool) *Clipboard {
	return &Clipboard{ring: killring.New(), syncOS: syncOS}
}

// Get returns the most recently set clipboard content, or "" if empty.
func (c *Clipboard) Get() string {
	return c.ring.Yank()
}

// Set replaces the clipboard content, per spec.md §6.4's clipboard_set.
func (c *Clipboard) Set(s string) {
	c.ring.Push(s)
	if c.syncOS {
		_ = sysclipboard.Write(s)
	}
}

// SetSelections joins multiple selections (primary-first order) with "\n"
// and sets the result as the clipboard content, per spec.md §6.4's
// selection-to-clipboard copy rule.
func (c *Clipboard) SetSelections(selections []string) {
	c.Set(strings.Join(selections, "\n"))
}

// Yank returns the most recently killed text (equivalent to Get, named to
// match the kill-ring idiom used elsewhere in this package).
func (c *Clipboard) Yank() string {
	return c.ring.Yank()
}

// YankPop cycles to the next older kill-ring entry, replacing the text a
// prior Yank inserted.
func (c *Clipboard) YankPop() string {
	return c.ring.YankPop()
}
