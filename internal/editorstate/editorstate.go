// ABOUTME: Per-buffer editor state: text buffer, cursor set, viewport, overlays, popup stack
// ABOUTME: apply(event) is the single mutator; it never fails, clamping out-of-range positions

package editorstate

import (
	"github.com/fresheditor/fresh/internal/cursor"
	"github.com/fresheditor/fresh/internal/docevent"
	"github.com/fresheditor/fresh/internal/overlay"
	"github.com/fresheditor/fresh/internal/popup"
	"github.com/fresheditor/fresh/internal/textbuffer"
)

// Viewport is the visible window into a buffer, measured in cells.
type Viewport struct {
	TopLine          int
	Height           int
	Width            int
	HorizontalOffset int
}

// State is one buffer's full editing state.
type State struct {
	Buffer   *textbuffer.Buffer
	Cursors  *cursor.Set
	Viewport Viewport
	Overlays *overlay.Store
	Popups   *popup.Stack
}

// New creates editor state around an existing text buffer, with a single
// primary cursor at the start and an empty viewport.
func New(buf *textbuffer.Buffer, primaryCursorID uint64) *State {
	return &State{
		Buffer:   buf,
		Cursors:  cursor.NewSet(primaryCursorID, 0),
		Overlays: overlay.NewStore(),
		Popups:   popup.NewStack(),
	}
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// Apply mutates state according to event, per the fixed rules for each
// variant. Apply never fails; out-of-range positions are clamped.
func (s *State) Apply(e docevent.Event) {
	switch ev := e.(type) {
	case docevent.Insert:
		s.applyInsert(ev)
	case docevent.Delete:
		s.applyDelete(ev)
	case docevent.MoveCursor:
		s.applyMoveCursor(ev)
	case docevent.AddCursor:
		s.Cursors.Add(cursor.Cursor{ID: ev.CursorID, Position: ev.Position, Anchor: toCursorAnchor(ev.Anchor)})
		s.Cursors.Normalize()
	case docevent.RemoveCursor:
		s.Cursors.Remove(ev.CursorID)
	case docevent.Scroll:
		s.applyScroll(ev)
		return // Scroll is explicit; skip the auto-follow-cursor step below.
	case docevent.AddOverlay:
		s.Overlays.Add(overlay.Overlay{ID: ev.ID, Range: ev.Range, Face: ev.Face, Priority: ev.Priority, Message: ev.Message})
	case docevent.RemoveOverlay:
		s.Overlays.Remove(ev.ID)
	case docevent.RemoveOverlaysInRange:
		s.Overlays.RemoveInRange(ev.Range)
	case docevent.ClearOverlays:
		s.Overlays.Clear()
	case docevent.ShowPopup:
		s.Popups.Show(ev.Popup)
	case docevent.HidePopup:
		s.Popups.Hide()
	case docevent.ClearPopups:
		s.Popups.Clear()
	case docevent.PopupSelectNext:
		s.Popups.SelectNext()
	case docevent.PopupSelectPrev:
		s.Popups.SelectPrev()
	case docevent.PopupPageUp:
		s.Popups.PageUp()
	case docevent.PopupPageDown:
		s.Popups.PageDown()
	}

	s.followPrimaryCursor()
}

func toCursorAnchor(a docevent.Anchor) cursor.Anchor {
	if !a.Present {
		return cursor.NoAnchor
	}
	return cursor.SomeAnchor(a.Position)
}

func (s *State) applyInsert(ev docevent.Insert) {
	s.Buffer.InsertBytes(ev.Position, ev.Text)
	n := len(ev.Text)

	for _, c := range s.Cursors.Iter() {
		updated := c
		if c.Position >= ev.Position {
			updated.Position += n
		}
		if c.Anchor.Present && c.Anchor.Position >= ev.Position {
			updated.Anchor.Position += n
		}
		if c.ID == ev.CursorID {
			updated.Position = ev.Position + n
			updated.Anchor = cursor.NoAnchor
		}
		s.Cursors.Add(updated)
	}

	for _, ov := range s.Overlays.All() {
		shifted := ov
		if ov.Range.Start >= ev.Position {
			shifted.Range.Start += n
		}
		if ov.Range.End >= ev.Position {
			shifted.Range.End += n
		}
		s.Overlays.Add(shifted)
	}
}

func (s *State) applyDelete(ev docevent.Delete) {
	n := ev.Range.Len()
	s.Buffer.DeleteBytes(ev.Range.Start, n)

	for _, c := range s.Cursors.Iter() {
		updated := c
		updated.Position = shiftForDelete(c.Position, ev.Range.Start, ev.Range.End, n)
		if c.Anchor.Present {
			updated.Anchor.Position = shiftForDelete(c.Anchor.Position, ev.Range.Start, ev.Range.End, n)
			if ev.Range.Start <= c.Anchor.Position && c.Anchor.Position <= ev.Range.End {
				updated.Anchor = cursor.NoAnchor
			}
		}
		s.Cursors.Add(updated)
	}

	for _, ov := range s.Overlays.All() {
		shifted := ov
		shifted.Range.Start = shiftForDelete(ov.Range.Start, ev.Range.Start, ev.Range.End, n)
		shifted.Range.End = shiftForDelete(ov.Range.End, ev.Range.Start, ev.Range.End, n)
		s.Overlays.Add(shifted)
	}
}

func shiftForDelete(pos, delStart, delEnd, n int) int {
	if delStart <= pos && pos <= delEnd {
		return delStart
	}
	if pos > delEnd {
		return pos - n
	}
	return pos
}

func (s *State) applyMoveCursor(ev docevent.MoveCursor) {
	total := s.Buffer.TotalBytes()
	c, ok := s.Cursors.Get(ev.CursorID)
	if !ok {
		c = cursor.Cursor{ID: ev.CursorID}
	}
	c.Position = clamp(ev.Position, 0, total)
	if ev.Anchor.Present {
		c.Anchor = cursor.SomeAnchor(clamp(ev.Anchor.Position, 0, total))
	} else {
		c.Anchor = cursor.NoAnchor
	}
	s.Cursors.Add(c)
	s.Cursors.Normalize()
}

func (s *State) applyScroll(ev docevent.Scroll) {
	lastLine := s.Buffer.LineCount() - 1
	s.Viewport.TopLine = clamp(s.Viewport.TopLine+ev.LineOffset, 0, lastLine)
}

// followPrimaryCursor keeps the primary cursor within the viewport after
// any non-Scroll event, scrolling minimally.
func (s *State) followPrimaryCursor() {
	primary, ok := s.Cursors.Primary()
	if !ok || s.Viewport.Height <= 0 {
		return
	}
	line := s.Buffer.OffsetToPosition(primary.Position).Line

	if line < s.Viewport.TopLine {
		s.Viewport.TopLine = line
		return
	}
	if bottom := s.Viewport.TopLine + s.Viewport.Height - 1; line > bottom {
		s.Viewport.TopLine = line - s.Viewport.Height + 1
	}
}
