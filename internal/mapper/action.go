// ABOUTME: Editing actions the outer shell can dispatch, decoupled from any specific keybinding
// ABOUTME: Most actions translate to one or more docevent.Event via ActionToEvents; a few do not

package mapper

// Kind identifies an Action's family for dispatch in ActionToEvents.
type Kind string

const (
	ActionInsertChar    Kind = "InsertChar"
	ActionInsertNewline Kind = "InsertNewline"
	ActionInsertTab     Kind = "InsertTab"
	ActionInsertText    Kind = "InsertText"

	ActionDeleteBackward     Kind = "DeleteBackward"
	ActionDeleteForward      Kind = "DeleteForward"
	ActionDeleteWordBackward Kind = "DeleteWordBackward"
	ActionDeleteWordForward  Kind = "DeleteWordForward"
	ActionDeleteLine         Kind = "DeleteLine"

	ActionMoveLeft          Kind = "MoveLeft"
	ActionMoveRight         Kind = "MoveRight"
	ActionMoveUp            Kind = "MoveUp"
	ActionMoveDown          Kind = "MoveDown"
	ActionMoveLineStart     Kind = "MoveLineStart"
	ActionMoveLineEnd       Kind = "MoveLineEnd"
	ActionMoveDocumentStart Kind = "MoveDocumentStart"
	ActionMoveDocumentEnd   Kind = "MoveDocumentEnd"
	ActionMovePageUp        Kind = "MovePageUp"
	ActionMovePageDown      Kind = "MovePageDown"
	ActionMoveWordLeft      Kind = "MoveWordLeft"
	ActionMoveWordRight     Kind = "MoveWordRight"

	ActionSelectLeft          Kind = "SelectLeft"
	ActionSelectRight         Kind = "SelectRight"
	ActionSelectUp            Kind = "SelectUp"
	ActionSelectDown          Kind = "SelectDown"
	ActionSelectLineStart     Kind = "SelectLineStart"
	ActionSelectLineEnd       Kind = "SelectLineEnd"
	ActionSelectDocumentStart Kind = "SelectDocumentStart"
	ActionSelectDocumentEnd   Kind = "SelectDocumentEnd"
	ActionSelectPageUp        Kind = "SelectPageUp"
	ActionSelectPageDown      Kind = "SelectPageDown"
	ActionSelectWordLeft      Kind = "SelectWordLeft"
	ActionSelectWordRight     Kind = "SelectWordRight"
	ActionSelectAll           Kind = "SelectAll"
	ActionSelectWord          Kind = "SelectWord"
	ActionSelectLine          Kind = "SelectLine"
	ActionExpandSelection     Kind = "ExpandSelection"

	ActionAddCursorAbove         Kind = "AddCursorAbove"
	ActionAddCursorBelow         Kind = "AddCursorBelow"
	ActionAddCursorNextMatch     Kind = "AddCursorNextMatch"
	ActionRemoveSecondaryCursors Kind = "RemoveSecondaryCursors"

	ActionScrollUp   Kind = "ScrollUp"
	ActionScrollDown Kind = "ScrollDown"

	// Actions below are never expressible as document events; ActionToEvents
	// returns ok=false for them and the outer shell dispatches directly.
	ActionSave                 Kind = "Save"
	ActionOpen                 Kind = "Open"
	ActionQuit                 Kind = "Quit"
	ActionUndo                 Kind = "Undo"
	ActionRedo                 Kind = "Redo"
	ActionCopy                 Kind = "Copy"
	ActionCut                  Kind = "Cut"
	ActionPaste                Kind = "Paste"
	ActionTogglePrompt         Kind = "TogglePrompt"
	ActionToggleHelp           Kind = "ToggleHelp"
	ActionSplitHorizontal      Kind = "SplitHorizontal"
	ActionSplitVertical        Kind = "SplitVertical"
	ActionCloseSplit           Kind = "CloseSplit"
	ActionNextSplit            Kind = "NextSplit"
	ActionPrevSplit            Kind = "PrevSplit"
)

// Action is a single editing action with optional payload fields used by a
// few variants (InsertChar, InsertTab).
type Action struct {
	Kind    Kind
	Char    rune
	TabSize int
	Text    string
}

// InsertChar builds an InsertChar action for c.
func InsertChar(c rune) Action { return Action{Kind: ActionInsertChar, Char: c} }

// InsertTab builds an InsertTab action inserting tabSize spaces.
func InsertTab(tabSize int) Action { return Action{Kind: ActionInsertTab, TabSize: tabSize} }

// InsertText builds an InsertText action inserting text verbatim at every
// cursor, replacing each cursor's selection first. Used for paste, where the
// inserted run is longer than a single rune or a tab stop.
func InsertText(text string) Action { return Action{Kind: ActionInsertText, Text: text} }

// Simple builds a payload-free action of kind k.
func Simple(k Kind) Action { return Action{Kind: k} }

// IsEventAction reports whether k is ever translated by ActionToEvents, as
// opposed to being dispatched directly by the outer shell.
func IsEventAction(k Kind) bool {
	switch k {
	case ActionSave, ActionOpen, ActionQuit, ActionUndo, ActionRedo,
		ActionCopy, ActionCut, ActionPaste, ActionTogglePrompt, ActionToggleHelp,
		ActionSplitHorizontal, ActionSplitVertical, ActionCloseSplit,
		ActionNextSplit, ActionPrevSplit:
		return false
	default:
		return true
	}
}
