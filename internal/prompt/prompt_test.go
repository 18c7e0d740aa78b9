package prompt

import (
	"testing"

	"github.com/fresheditor/fresh/internal/palette"
)

func newRegistry() *palette.Registry {
	r := palette.NewRegistry()
	r.Register(palette.Command{Name: "save", Description: "Save the buffer", Enabled: true, Run: noop})
	r.Register(palette.Command{Name: "save-as", Description: "Save to a new path", Enabled: true, Run: noop})
	r.Register(palette.Command{Name: "search", Description: "Search the buffer", Enabled: true, Run: noop})
	r.Register(palette.Command{Name: "split-horizontal", Description: "Split", Enabled: false, Run: noop})
	return r
}

func noop(args string) (string, error) { return "", nil }

func TestInsertRuneAdvancesCursor(t *testing.T) {
	p := New("", TypeGeneric, nil)
	p.InsertRune('h')
	p.InsertRune('i')
	if p.InputText() != "hi" || p.CursorPos != 2 {
		t.Fatalf("unexpected state: input=%q cursor=%d", p.InputText(), p.CursorPos)
	}
}

func TestDeleteBackwardAtStartIsNoop(t *testing.T) {
	p := New("", TypeGeneric, nil)
	p.DeleteBackward()
	if p.InputText() != "" {
		t.Fatalf("expected empty input, got %q", p.InputText())
	}
}

func TestDeleteBackwardRemovesPrecedingRune(t *testing.T) {
	p := New("", TypeGeneric, nil)
	p.InsertRune('a')
	p.InsertRune('b')
	p.DeleteBackward()
	if p.InputText() != "a" || p.CursorPos != 1 {
		t.Fatalf("unexpected state: input=%q cursor=%d", p.InputText(), p.CursorPos)
	}
}

func TestMoveLeftRightHomeEnd(t *testing.T) {
	p := New("", TypeGeneric, nil)
	for _, r := range "abc" {
		p.InsertRune(r)
	}
	p.MoveLeft()
	if p.CursorPos != 2 {
		t.Fatalf("expected cursor 2, got %d", p.CursorPos)
	}
	p.MoveHome()
	if p.CursorPos != 0 {
		t.Fatalf("expected cursor 0, got %d", p.CursorPos)
	}
	p.MoveEnd()
	if p.CursorPos != 3 {
		t.Fatalf("expected cursor 3, got %d", p.CursorPos)
	}
	p.MoveRight()
	if p.CursorPos != 3 {
		t.Fatalf("expected clamp at 3, got %d", p.CursorPos)
	}
}

func TestCommandPaletteFiltersBySubsequence(t *testing.T) {
	p := New("", TypeCommand, newRegistry())
	for _, r := range "sav" {
		p.InsertRune(r)
	}

	names := make([]string, len(p.Suggestions))
	for i, s := range p.Suggestions {
		names[i] = s.Text
	}
	if !containsStr(names, "save") || !containsStr(names, "save-as") {
		t.Fatalf("expected save and save-as in suggestions, got %+v", names)
	}
	if containsStr(names, "search") {
		t.Fatalf("did not expect search to match 'sav', got %+v", names)
	}
}

func TestCommandPalettePrefixBeforeLexicographic(t *testing.T) {
	p := New("", TypeCommand, newRegistry())
	for _, r := range "sa" {
		p.InsertRune(r)
	}
	if len(p.Suggestions) < 2 {
		t.Fatalf("expected at least 2 suggestions, got %+v", p.Suggestions)
	}
	if p.Suggestions[0].Text != "save" {
		t.Fatalf("expected 'save' first (exact prefix), got %+v", p.Suggestions)
	}
}

func TestCommandPaletteDisabledAfterEnabled(t *testing.T) {
	p := New("", TypeCommand, newRegistry())
	// empty query matches everything
	last := p.Suggestions[len(p.Suggestions)-1]
	if last.Enabled {
		t.Fatalf("expected the last suggestion to be disabled, got %+v", p.Suggestions)
	}
}

func TestSelectNextPrevCycle(t *testing.T) {
	p := New("", TypeCommand, newRegistry())
	n := len(p.Suggestions)
	if n < 2 {
		t.Fatal("expected multiple suggestions to test cycling")
	}
	p.SelectNext()
	first := p.SelectedSuggestion
	for i := 0; i < n; i++ {
		p.SelectNext()
	}
	if p.SelectedSuggestion != first {
		t.Fatalf("expected full cycle back to %d, got %d", first, p.SelectedSuggestion)
	}
}

func TestCommitSelectedCopiesIntoInput(t *testing.T) {
	p := New("", TypeCommand, newRegistry())
	for _, r := range "save-a" {
		p.InsertRune(r)
	}
	p.SelectNext()
	want := p.Suggestions[p.SelectedSuggestion].Text
	committed := p.CommitSelected()
	if !committed {
		t.Fatal("expected CommitSelected to succeed")
	}
	if p.InputText() != want {
		t.Fatalf("expected input %q, got %q", want, p.InputText())
	}
}

func TestNonFilterablePromptHasNoSuggestions(t *testing.T) {
	p := New("", TypeSearch, newRegistry())
	p.InsertRune('x')
	if p.Suggestions != nil {
		t.Fatalf("expected no suggestions for a non-command prompt, got %+v", p.Suggestions)
	}
}

func containsStr(ss []string, target string) bool {
	for _, s := range ss {
		if s == target {
			return true
		}
	}
	return false
}
