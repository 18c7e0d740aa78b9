package editorstate

import (
	"testing"

	"github.com/fresheditor/fresh/internal/cursor"
	"github.com/fresheditor/fresh/internal/docevent"
	"github.com/fresheditor/fresh/internal/lineindex"
	"github.com/fresheditor/fresh/internal/textbuffer"
)

func newState(content string) *State {
	buf := textbuffer.New([]byte(content), textbuffer.Metadata{})
	return New(buf, 1)
}

func TestApplyInsertShiftsTrailingCursor(t *testing.T) {
	s := newState("hello world")
	s.Cursors.Add(cursor.Cursor{ID: 2, Position: 8})

	s.Apply(docevent.Insert{Position: 5, Text: []byte(", there"), CursorID: 1})

	if string(s.Buffer.Bytes()) != "hello, there world" {
		t.Fatalf("Bytes() = %q", s.Buffer.Bytes())
	}
	primary, _ := s.Cursors.Primary()
	if primary.Position != 12 {
		t.Fatalf("primary cursor position = %d, want 12", primary.Position)
	}
	secondary, ok := s.Cursors.Get(2)
	if !ok || secondary.Position != 15 {
		t.Fatalf("secondary cursor position = %+v, want 15", secondary)
	}
}

func TestApplyInsertDoesNotShiftCursorBeforeInsertPoint(t *testing.T) {
	s := newState("hello world")
	s.Cursors.Add(cursor.Cursor{ID: 2, Position: 1})

	s.Apply(docevent.Insert{Position: 5, Text: []byte("!"), CursorID: 1})

	secondary, _ := s.Cursors.Get(2)
	if secondary.Position != 1 {
		t.Fatalf("cursor before insert point should not move, got %d", secondary.Position)
	}
}

func TestApplyDeleteCollapsesCursorInsideRange(t *testing.T) {
	s := newState("hello world")
	s.Cursors.Add(cursor.Cursor{ID: 2, Position: 7}) // inside "hello [wo]rld" deleted range

	s.Apply(docevent.Delete{Range: docevent.Range{Start: 5, End: 11}, DeletedText: []byte(" world"), CursorID: 1})

	if string(s.Buffer.Bytes()) != "hello" {
		t.Fatalf("Bytes() = %q", s.Buffer.Bytes())
	}
	secondary, _ := s.Cursors.Get(2)
	if secondary.Position != 5 {
		t.Fatalf("cursor inside deleted range should collapse to range start, got %d", secondary.Position)
	}
}

func TestApplyDeleteShiftsCursorAfterRange(t *testing.T) {
	s := newState("hello world")
	s.Cursors.Add(cursor.Cursor{ID: 2, Position: 11})

	s.Apply(docevent.Delete{Range: docevent.Range{Start: 0, End: 6}, DeletedText: []byte("hello "), CursorID: 1})

	secondary, _ := s.Cursors.Get(2)
	if secondary.Position != 5 {
		t.Fatalf("cursor after deleted range = %d, want 5", secondary.Position)
	}
}

func TestApplyInsertShiftsOverlay(t *testing.T) {
	s := newState("hello world")
	s.Apply(docevent.AddOverlay{ID: "ov", Range: docevent.Range{Start: 6, End: 11}, Face: docevent.FaceSelection})

	s.Apply(docevent.Insert{Position: 0, Text: []byte("XX"), CursorID: 1})

	all := s.Overlays.All()
	if len(all) != 1 || all[0].Range != (docevent.Range{Start: 8, End: 13}) {
		t.Fatalf("unexpected overlay after insert: %+v", all)
	}
}

func TestApplyMoveCursorClampsToBounds(t *testing.T) {
	s := newState("hello")
	s.Apply(docevent.MoveCursor{CursorID: 1, Position: 999})

	primary, _ := s.Cursors.Primary()
	if primary.Position != 5 {
		t.Fatalf("position = %d, want clamped to 5", primary.Position)
	}

	s.Apply(docevent.MoveCursor{CursorID: 1, Position: -10})
	primary, _ = s.Cursors.Primary()
	if primary.Position != 0 {
		t.Fatalf("position = %d, want clamped to 0", primary.Position)
	}
}

func TestApplyScrollClampsToLineCount(t *testing.T) {
	s := newState("a\nb\nc")
	s.Viewport.Height = 2

	s.Apply(docevent.Scroll{LineOffset: 100})
	if s.Viewport.TopLine != 2 {
		t.Fatalf("TopLine = %d, want clamped to last line (2)", s.Viewport.TopLine)
	}

	s.Apply(docevent.Scroll{LineOffset: -100})
	if s.Viewport.TopLine != 0 {
		t.Fatalf("TopLine = %d, want clamped to 0", s.Viewport.TopLine)
	}
}

func TestApplyMoveCursorScrollsViewportToFollow(t *testing.T) {
	s := newState("a\nb\nc\nd\ne")
	s.Viewport.Height = 2
	s.Viewport.TopLine = 0

	pos := s.Buffer.PositionToOffset(lineindex.Position{Line: 4, Column: 0})
	s.Apply(docevent.MoveCursor{CursorID: 1, Position: pos})

	if s.Viewport.TopLine != 3 {
		t.Fatalf("TopLine = %d, want 3 (line 4 - height 2 + 1)", s.Viewport.TopLine)
	}
}

func TestApplyOverlayEventsMutateStoreOnly(t *testing.T) {
	s := newState("hello")
	s.Apply(docevent.AddOverlay{ID: "a", Range: docevent.Range{Start: 0, End: 2}})
	if len(s.Overlays.All()) != 1 {
		t.Fatal("expected overlay to be added")
	}
	s.Apply(docevent.RemoveOverlay{ID: "a"})
	if len(s.Overlays.All()) != 0 {
		t.Fatal("expected overlay to be removed")
	}
}

func TestApplyPopupEvents(t *testing.T) {
	s := newState("hello")
	s.Apply(docevent.ShowPopup{Popup: docevent.PopupData{Items: []string{"a", "b"}}})
	if s.Popups.Depth() != 1 {
		t.Fatalf("Depth() = %d, want 1", s.Popups.Depth())
	}
	s.Apply(docevent.PopupSelectNext{})
	top, _ := s.Popups.Top()
	if top.Selected != 1 {
		t.Fatalf("Selected = %d, want 1", top.Selected)
	}
	s.Apply(docevent.HidePopup{})
	if s.Popups.Depth() != 0 {
		t.Fatal("expected popup stack empty after hide")
	}
}
