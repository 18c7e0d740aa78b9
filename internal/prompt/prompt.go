// ABOUTME: Minibuffer prompt: single-line input with cursor, suggestion list, and filtering
// ABOUTME: Filterable prompt types (command palette) recompute suggestions on every edit

package prompt

import (
	"sort"
	"strings"

	"github.com/fresheditor/fresh/internal/palette"
	"github.com/fresheditor/fresh/pkg/fuzzy"
)

// Type distinguishes prompt flavors; only Command is filterable.
type Type string

const (
	TypeCommand Type = "command"
	TypeFile    Type = "file"
	TypeSearch  Type = "search"
	TypeGeneric Type = "generic"
)

// Suggestion is a single filtered candidate shown under the prompt.
type Suggestion struct {
	Text        string
	Description string
	Enabled     bool
}

// Prompt is the minibuffer's full editing state.
type Prompt struct {
	Message             string
	Input               []rune
	CursorPos           int
	PromptType          Type
	Suggestions         []Suggestion
	SelectedSuggestion  int
	hasSelection        bool

	registry *palette.Registry
}

// New creates a prompt of the given type and message. registry may be nil
// for non-filterable prompt types.
func New(message string, promptType Type, registry *palette.Registry) *Prompt {
	p := &Prompt{Message: message, PromptType: promptType, registry: registry}
	if promptType == TypeCommand {
		p.recomputeSuggestions()
	}
	return p
}

// InputText returns the current input as a string.
func (p *Prompt) InputText() string {
	return string(p.Input)
}

// InsertRune inserts r at CursorPos and advances the cursor.
func (p *Prompt) InsertRune(r rune) {
	p.Input = append(p.Input[:p.CursorPos], append([]rune{r}, p.Input[p.CursorPos:]...)...)
	p.CursorPos++
	p.recomputeSuggestions()
}

// DeleteBackward removes the rune before CursorPos, if any.
func (p *Prompt) DeleteBackward() {
	if p.CursorPos == 0 {
		return
	}
	p.Input = append(p.Input[:p.CursorPos-1], p.Input[p.CursorPos:]...)
	p.CursorPos--
	p.recomputeSuggestions()
}

// DeleteForward removes the rune at CursorPos, if any.
func (p *Prompt) DeleteForward() {
	if p.CursorPos >= len(p.Input) {
		return
	}
	p.Input = append(p.Input[:p.CursorPos], p.Input[p.CursorPos+1:]...)
	p.recomputeSuggestions()
}

// MoveLeft moves the cursor one rune left, clamped at 0.
func (p *Prompt) MoveLeft() {
	if p.CursorPos > 0 {
		p.CursorPos--
	}
}

// MoveRight moves the cursor one rune right, clamped at len(Input).
func (p *Prompt) MoveRight() {
	if p.CursorPos < len(p.Input) {
		p.CursorPos++
	}
}

// MoveHome moves the cursor to the start of the input.
func (p *Prompt) MoveHome() { p.CursorPos = 0 }

// MoveEnd moves the cursor to the end of the input.
func (p *Prompt) MoveEnd() { p.CursorPos = len(p.Input) }

// SelectNext cycles SelectedSuggestion forward modulo the suggestion count.
func (p *Prompt) SelectNext() {
	if len(p.Suggestions) == 0 {
		return
	}
	if !p.hasSelection {
		p.SelectedSuggestion = 0
		p.hasSelection = true
		return
	}
	p.SelectedSuggestion = (p.SelectedSuggestion + 1) % len(p.Suggestions)
}

// SelectPrev cycles SelectedSuggestion backward modulo the suggestion count.
func (p *Prompt) SelectPrev() {
	if len(p.Suggestions) == 0 {
		return
	}
	if !p.hasSelection {
		p.SelectedSuggestion = len(p.Suggestions) - 1
		p.hasSelection = true
		return
	}
	p.SelectedSuggestion = (p.SelectedSuggestion - 1 + len(p.Suggestions)) % len(p.Suggestions)
}

// CommitSelected copies the selected suggestion's text into Input, if one
// is selected, and returns whether it did so.
func (p *Prompt) CommitSelected() bool {
	if !p.hasSelection || p.SelectedSuggestion >= len(p.Suggestions) {
		return false
	}
	p.Input = []rune(p.Suggestions[p.SelectedSuggestion].Text)
	p.CursorPos = len(p.Input)
	p.recomputeSuggestions()
	return true
}

// recomputeSuggestions refreshes the suggestion list for filterable prompt
// types. Non-filterable prompts never populate Suggestions.
func (p *Prompt) recomputeSuggestions() {
	p.hasSelection = false
	p.SelectedSuggestion = 0

	if p.PromptType != TypeCommand || p.registry == nil {
		p.Suggestions = nil
		return
	}
	p.Suggestions = filterCommands(p.registry.List(), p.InputText())
}

// filterCommands applies spec's command-palette filter: case-insensitive
// subsequence match against the display name, ties broken by (prefix match
// first, then lexicographic), with disabled commands listed after enabled
// ones.
func filterCommands(commands []*palette.Command, query string) []Suggestion {
	names := make([]string, len(commands))
	byName := make(map[string]*palette.Command, len(commands))
	for i, c := range commands {
		names[i] = c.Name
		byName[c.Name] = c
	}

	var matched []*palette.Command
	if query == "" {
		matched = commands
	} else {
		for _, m := range fuzzy.Find(strings.ToLower(query), lowerAll(names)) {
			matched = append(matched, byName[names[m.Index]])
		}
	}

	lowerQuery := strings.ToLower(query)
	sort.SliceStable(matched, func(i, j int) bool {
		a, b := matched[i], matched[j]
		if a.Enabled != b.Enabled {
			return a.Enabled
		}
		aPrefix := strings.HasPrefix(strings.ToLower(a.Name), lowerQuery)
		bPrefix := strings.HasPrefix(strings.ToLower(b.Name), lowerQuery)
		if aPrefix != bPrefix {
			return aPrefix
		}
		return a.Name < b.Name
	})

	out := make([]Suggestion, len(matched))
	for i, c := range matched {
		out[i] = Suggestion{Text: c.Name, Description: c.Description, Enabled: c.Enabled}
	}
	return out
}

func lowerAll(ss []string) []string {
	out := make([]string, len(ss))
	for i, s := range ss {
		out[i] = strings.ToLower(s)
	}
	return out
}
