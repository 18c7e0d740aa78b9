// ABOUTME: Reversible mutation records applied to a document by the editor state
// ABOUTME: Every variant implements Inverse(); event logs replay and undo through it

package docevent

// Range is a half-open byte range [Start, End) in a document.
type Range struct {
	Start int
	End   int
}

// Len returns the number of bytes covered by the range.
func (r Range) Len() int {
	if r.End < r.Start {
		return 0
	}
	return r.End - r.Start
}

// Kind identifies an Event's concrete variant for dispatch and JSON encoding.
type Kind string

const (
	KindInsert                Kind = "Insert"
	KindDelete                Kind = "Delete"
	KindMoveCursor            Kind = "MoveCursor"
	KindAddCursor             Kind = "AddCursor"
	KindRemoveCursor          Kind = "RemoveCursor"
	KindScroll                Kind = "Scroll"
	KindAddOverlay            Kind = "AddOverlay"
	KindRemoveOverlay         Kind = "RemoveOverlay"
	KindRemoveOverlaysInRange Kind = "RemoveOverlaysInRange"
	KindClearOverlays         Kind = "ClearOverlays"
	KindShowPopup             Kind = "ShowPopup"
	KindHidePopup             Kind = "HidePopup"
	KindClearPopups           Kind = "ClearPopups"
	KindPopupSelectNext       Kind = "PopupSelectNext"
	KindPopupSelectPrev       Kind = "PopupSelectPrev"
	KindPopupPageUp           Kind = "PopupPageUp"
	KindPopupPageDown         Kind = "PopupPageDown"
)

// Event is the sum type of every reversible document mutation.
type Event interface {
	Kind() Kind
	// Inverse returns the event that, applied to the post-state, restores
	// the pre-state. Inverse is only well defined once the event has been
	// applied once (Delete carries the removed bytes for this reason).
	Inverse() Event
}

// Face names a semantic decoration style, shared with the overlay store.
type Face string

const (
	FaceSelection Face = "selection"
	FaceSearch    Face = "search"
	FaceError     Face = "error"
	FaceWarning   Face = "warning"
	FaceInfo      Face = "info"
	FaceDiagnostic Face = "diagnostic"
)

// Anchor is an optional selection anchor byte offset; present tracks
// whether an anchor exists at all (distinct from an anchor at byte 0).
type Anchor struct {
	Position int
	Present  bool
}

// NoAnchor is the absent-anchor value used by events that clear a selection.
var NoAnchor = Anchor{}

// SomeAnchor wraps a byte offset as a present anchor.
func SomeAnchor(pos int) Anchor {
	return Anchor{Position: pos, Present: true}
}

// Insert inserts text at position, attributed to the cursor that caused it.
type Insert struct {
	Position int
	Text     []byte
	CursorID uint64
}

func (e Insert) Kind() Kind { return KindInsert }

func (e Insert) Inverse() Event {
	return Delete{
		Range:       Range{Start: e.Position, End: e.Position + len(e.Text)},
		DeletedText: e.Text,
		CursorID:    e.CursorID,
	}
}

// Delete removes the bytes in Range, which must equal DeletedText in length.
type Delete struct {
	Range       Range
	DeletedText []byte
	CursorID    uint64
}

func (e Delete) Kind() Kind { return KindDelete }

func (e Delete) Inverse() Event {
	return Insert{
		Position: e.Range.Start,
		Text:     e.DeletedText,
		CursorID: e.CursorID,
	}
}

// MoveCursor repositions (and optionally selects from) a cursor.
type MoveCursor struct {
	CursorID    uint64
	Position    int
	Anchor      Anchor
	// prior state, supplied by whoever builds the event; Apply does not
	// fill it in, and Inverse restores exactly these values.
	PriorPosition int
	PriorAnchor   Anchor
}

func (e MoveCursor) Kind() Kind { return KindMoveCursor }

func (e MoveCursor) Inverse() Event {
	return MoveCursor{
		CursorID: e.CursorID,
		Position: e.PriorPosition,
		Anchor:   e.PriorAnchor,
	}
}

// AddCursor introduces a new secondary cursor.
type AddCursor struct {
	CursorID uint64
	Position int
	Anchor   Anchor
}

func (e AddCursor) Kind() Kind { return KindAddCursor }

func (e AddCursor) Inverse() Event {
	return RemoveCursor{CursorID: e.CursorID}
}

// RemoveCursor drops a cursor. PriorPosition/PriorAnchor let Inverse restore it.
type RemoveCursor struct {
	CursorID      uint64
	PriorPosition int
	PriorAnchor   Anchor
}

func (e RemoveCursor) Kind() Kind { return KindRemoveCursor }

func (e RemoveCursor) Inverse() Event {
	return AddCursor{CursorID: e.CursorID, Position: e.PriorPosition, Anchor: e.PriorAnchor}
}

// Scroll moves the viewport's top line by a relative offset.
type Scroll struct {
	LineOffset int
}

func (e Scroll) Kind() Kind { return KindScroll }

func (e Scroll) Inverse() Event {
	return Scroll{LineOffset: -e.LineOffset}
}

// AddOverlay adds a range-based decoration.
type AddOverlay struct {
	ID       string
	Range    Range
	Face     Face
	Priority int
	Message  string
}

func (e AddOverlay) Kind() Kind { return KindAddOverlay }

func (e AddOverlay) Inverse() Event {
	return RemoveOverlay{ID: e.ID}
}

// RemoveOverlay removes an overlay by id. Prior fields let Inverse restore it.
type RemoveOverlay struct {
	ID            string
	PriorRange    Range
	PriorFace     Face
	PriorPriority int
	PriorMessage  string
}

func (e RemoveOverlay) Kind() Kind { return KindRemoveOverlay }

func (e RemoveOverlay) Inverse() Event {
	return AddOverlay{
		ID:       e.ID,
		Range:    e.PriorRange,
		Face:     e.PriorFace,
		Priority: e.PriorPriority,
		Message:  e.PriorMessage,
	}
}

// RemoveOverlaysInRange drops every overlay intersecting Range.
type RemoveOverlaysInRange struct {
	Range   Range
	Removed []AddOverlay
}

func (e RemoveOverlaysInRange) Kind() Kind { return KindRemoveOverlaysInRange }

func (e RemoveOverlaysInRange) Inverse() Event {
	return restoreOverlays{overlays: e.Removed}
}

// ClearOverlays drops every overlay in the buffer.
type ClearOverlays struct {
	Removed []AddOverlay
}

func (e ClearOverlays) Kind() Kind { return KindClearOverlays }

func (e ClearOverlays) Inverse() Event {
	return restoreOverlays{overlays: e.Removed}
}

// restoreOverlays is an internal helper variant used only as an inverse;
// it is never appended to a log directly.
type restoreOverlays struct {
	overlays []AddOverlay
}

func (e restoreOverlays) Kind() Kind { return "RestoreOverlays" }

func (e restoreOverlays) Inverse() Event {
	return ClearOverlays{}
}

// Overlays exposes the batch for appliers that need to re-add them.
func (e restoreOverlays) Overlays() []AddOverlay { return e.overlays }

// PopupData is the opaque payload shown by ShowPopup; its structure is owned
// by the collaborator that creates it (e.g. completion, diagnostics).
type PopupData struct {
	Title      string
	Items      []string
	Selected   int
	PageSize   int
}

// ShowPopup displays a popup, pushing it onto the popup stack.
type ShowPopup struct {
	Popup PopupData
}

func (e ShowPopup) Kind() Kind { return KindShowPopup }
func (e ShowPopup) Inverse() Event { return HidePopup{} }

// HidePopup pops the top popup off the stack.
type HidePopup struct {
	PriorPopup *PopupData
}

func (e HidePopup) Kind() Kind { return KindHidePopup }

func (e HidePopup) Inverse() Event {
	if e.PriorPopup == nil {
		return ClearPopups{}
	}
	return ShowPopup{Popup: *e.PriorPopup}
}

// ClearPopups empties the whole popup stack.
type ClearPopups struct {
	PriorStack []PopupData
}

func (e ClearPopups) Kind() Kind { return KindClearPopups }

func (e ClearPopups) Inverse() Event {
	return restorePopups{stack: e.PriorStack}
}

type restorePopups struct {
	stack []PopupData
}

func (e restorePopups) Kind() Kind      { return "RestorePopups" }
func (e restorePopups) Inverse() Event  { return ClearPopups{} }
func (e restorePopups) Stack() []PopupData { return e.stack }

// PopupSelectNext moves the popup selection cursor forward.
type PopupSelectNext struct{}

func (e PopupSelectNext) Kind() Kind   { return KindPopupSelectNext }
func (e PopupSelectNext) Inverse() Event { return PopupSelectPrev{} }

// PopupSelectPrev moves the popup selection cursor backward.
type PopupSelectPrev struct{}

func (e PopupSelectPrev) Kind() Kind     { return KindPopupSelectPrev }
func (e PopupSelectPrev) Inverse() Event { return PopupSelectNext{} }

// PopupPageUp pages the popup selection up by its page size.
type PopupPageUp struct{}

func (e PopupPageUp) Kind() Kind     { return KindPopupPageUp }
func (e PopupPageUp) Inverse() Event { return PopupPageDown{} }

// PopupPageDown pages the popup selection down by its page size.
type PopupPageDown struct{}

func (e PopupPageDown) Kind() Kind     { return KindPopupPageDown }
func (e PopupPageDown) Inverse() Event { return PopupPageUp{} }
