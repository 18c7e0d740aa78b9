// ABOUTME: Pure action -> event translation, one Action in, zero or more docevent.Event out
// ABOUTME: Actions with no document effect (Save, Quit, Undo, clipboard, ...) return ok=false

package mapper

import (
	"bytes"
	"sort"
	"strings"

	"github.com/fresheditor/fresh/internal/cursor"
	"github.com/fresheditor/fresh/internal/docevent"
	"github.com/fresheditor/fresh/internal/editorstate"
	"github.com/fresheditor/fresh/internal/lineindex"
	"github.com/fresheditor/fresh/internal/textbuffer"
)

// ActionToEvents translates action against the current state into the
// events that would carry it out. ok is false for actions the core does
// not express as events at all; the outer shell dispatches those directly.
func ActionToEvents(state *editorstate.State, action Action) ([]docevent.Event, bool) {
	if !IsEventAction(action.Kind) {
		return nil, false
	}

	switch action.Kind {
	case ActionInsertChar:
		return insertPerCursor(state, string(action.Char)), true
	case ActionInsertNewline:
		return insertPerCursor(state, "\n"), true
	case ActionInsertTab:
		return insertPerCursor(state, strings.Repeat(" ", action.TabSize)), true
	case ActionInsertText:
		return insertPerCursor(state, action.Text), true

	case ActionDeleteBackward:
		return deletePerCursor(state, true), true
	case ActionDeleteForward:
		return deletePerCursor(state, false), true
	case ActionDeleteWordBackward:
		return deleteWordPerCursor(state, true), true
	case ActionDeleteWordForward:
		return deleteWordPerCursor(state, false), true
	case ActionDeleteLine:
		return deleteLinePerCursor(state), true

	case ActionMoveLeft:
		return moveEachCursor(state, func(buf *textbuffer.Buffer, c cursor.Cursor) int {
			return clampInt(c.Position-1, 0, buf.TotalBytes())
		}, false), true
	case ActionMoveRight:
		return moveEachCursor(state, func(buf *textbuffer.Buffer, c cursor.Cursor) int {
			return clampInt(c.Position+1, 0, buf.TotalBytes())
		}, false), true
	case ActionMoveUp:
		return verticalMove(state, -1, false), true
	case ActionMoveDown:
		return verticalMove(state, 1, false), true
	case ActionMoveLineStart:
		return lineStartMove(state, false), true
	case ActionMoveLineEnd:
		return lineEndMove(state, false), true
	case ActionMoveDocumentStart:
		return documentEdgeMove(state, 0, false), true
	case ActionMoveDocumentEnd:
		return moveEachCursor(state, func(buf *textbuffer.Buffer, c cursor.Cursor) int {
			return buf.TotalBytes()
		}, false), true
	case ActionMovePageUp:
		return pageMove(state, -1, false), true
	case ActionMovePageDown:
		return pageMove(state, 1, false), true
	case ActionMoveWordLeft:
		return moveEachCursor(state, func(buf *textbuffer.Buffer, c cursor.Cursor) int {
			return findWordStartLeft(buf, c.Position)
		}, false), true
	case ActionMoveWordRight:
		return moveEachCursor(state, func(buf *textbuffer.Buffer, c cursor.Cursor) int {
			return findWordStartRight(buf, c.Position)
		}, false), true

	case ActionSelectLeft:
		return moveEachCursor(state, func(buf *textbuffer.Buffer, c cursor.Cursor) int {
			return clampInt(c.Position-1, 0, buf.TotalBytes())
		}, true), true
	case ActionSelectRight:
		return moveEachCursor(state, func(buf *textbuffer.Buffer, c cursor.Cursor) int {
			return clampInt(c.Position+1, 0, buf.TotalBytes())
		}, true), true
	case ActionSelectUp:
		return verticalMove(state, -1, true), true
	case ActionSelectDown:
		return verticalMove(state, 1, true), true
	case ActionSelectLineStart:
		return lineStartMove(state, true), true
	case ActionSelectLineEnd:
		return lineEndMove(state, true), true
	case ActionSelectDocumentStart:
		return documentEdgeMove(state, 0, true), true
	case ActionSelectDocumentEnd:
		return moveEachCursor(state, func(buf *textbuffer.Buffer, c cursor.Cursor) int {
			return buf.TotalBytes()
		}, true), true
	case ActionSelectPageUp:
		return pageMove(state, -1, true), true
	case ActionSelectPageDown:
		return pageMove(state, 1, true), true
	case ActionSelectWordLeft:
		return moveEachCursor(state, func(buf *textbuffer.Buffer, c cursor.Cursor) int {
			return findWordStartLeft(buf, c.Position)
		}, true), true
	case ActionSelectWordRight:
		return moveEachCursor(state, func(buf *textbuffer.Buffer, c cursor.Cursor) int {
			return findWordStartRight(buf, c.Position)
		}, true), true
	case ActionSelectAll:
		return selectAll(state), true
	case ActionSelectWord:
		return selectWord(state), true
	case ActionSelectLine:
		return selectLine(state), true
	case ActionExpandSelection:
		return expandSelection(state), true

	case ActionAddCursorAbove:
		return addCursorVertical(state, -1), true
	case ActionAddCursorBelow:
		return addCursorVertical(state, 1), true
	case ActionAddCursorNextMatch:
		return addCursorNextMatch(state), true
	case ActionRemoveSecondaryCursors:
		return removeSecondaryCursors(state), true

	case ActionScrollUp:
		return []docevent.Event{docevent.Scroll{LineOffset: -1}}, true
	case ActionScrollDown:
		return []docevent.Event{docevent.Scroll{LineOffset: 1}}, true
	}

	return nil, false
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// descendingCursors returns cursors ordered by descending position (ties by
// descending id), so that per-cursor inserts/deletes earlier in the list
// never invalidate the byte offsets recorded for cursors later in the list.
func descendingCursors(state *editorstate.State) []cursor.Cursor {
	cs := state.Cursors.Iter()
	sort.Slice(cs, func(i, j int) bool {
		if cs[i].Position != cs[j].Position {
			return cs[i].Position > cs[j].Position
		}
		return cs[i].ID > cs[j].ID
	})
	return cs
}

func insertPerCursor(state *editorstate.State, text string) []docevent.Event {
	var events []docevent.Event
	for _, c := range descendingCursors(state) {
		pos := c.Position
		if start, end, has := c.SelectionRange(); has {
			events = append(events, docevent.Delete{
				Range:       docevent.Range{Start: start, End: end},
				DeletedText: state.Buffer.GetTextRange(start, end-start),
				CursorID:    c.ID,
			})
			pos = start
		}
		events = append(events, docevent.Insert{Position: pos, Text: []byte(text), CursorID: c.ID})
	}
	return events
}

func deletePerCursor(state *editorstate.State, backward bool) []docevent.Event {
	var events []docevent.Event
	total := state.Buffer.TotalBytes()
	for _, c := range descendingCursors(state) {
		if start, end, has := c.SelectionRange(); has {
			events = append(events, deleteRangeEvent(state, start, end, c.ID))
			continue
		}
		if backward {
			if c.Position > 0 {
				events = append(events, deleteRangeEvent(state, c.Position-1, c.Position, c.ID))
			}
		} else {
			if c.Position < total {
				events = append(events, deleteRangeEvent(state, c.Position, c.Position+1, c.ID))
			}
		}
	}
	return events
}

func deleteWordPerCursor(state *editorstate.State, backward bool) []docevent.Event {
	var events []docevent.Event
	for _, c := range descendingCursors(state) {
		if start, end, has := c.SelectionRange(); has {
			events = append(events, deleteRangeEvent(state, start, end, c.ID))
			continue
		}
		if backward {
			wordStart := findWordStartLeft(state.Buffer, c.Position)
			if wordStart < c.Position {
				events = append(events, deleteRangeEvent(state, wordStart, c.Position, c.ID))
			}
		} else {
			wordEnd := findWordStartRight(state.Buffer, c.Position)
			if c.Position < wordEnd {
				events = append(events, deleteRangeEvent(state, c.Position, wordEnd, c.ID))
			}
		}
	}
	return events
}

func deleteLinePerCursor(state *editorstate.State) []docevent.Event {
	var events []docevent.Event
	for _, c := range descendingCursors(state) {
		line := state.Buffer.OffsetToPosition(c.Position).Line
		lineStart := state.Buffer.PositionToOffset(lineindex.Position{Line: line})
		content := state.Buffer.GetLine(line)
		lineEnd := lineStart + len(content)
		if lineStart < lineEnd {
			events = append(events, deleteRangeEvent(state, lineStart, lineEnd, c.ID))
		}
	}
	return events
}

func deleteRangeEvent(state *editorstate.State, start, end int, cursorID uint64) docevent.Event {
	return docevent.Delete{
		Range:       docevent.Range{Start: start, End: end},
		DeletedText: state.Buffer.GetTextRange(start, end-start),
		CursorID:    cursorID,
	}
}

func moveEachCursor(state *editorstate.State, target func(*textbuffer.Buffer, cursor.Cursor) int, keepSelection bool) []docevent.Event {
	var events []docevent.Event
	for _, c := range state.Cursors.Iter() {
		newPos := target(state.Buffer, c)
		ev := docevent.MoveCursor{CursorID: c.ID, Position: newPos, Anchor: docevent.NoAnchor}
		if keepSelection {
			ev.Anchor = docevent.SomeAnchor(anchorOrPosition(c))
		}
		events = append(events, ev)
	}
	return events
}

func anchorOrPosition(c cursor.Cursor) int {
	if c.Anchor.Present {
		return c.Anchor.Position
	}
	return c.Position
}

// lineLenExcludingNewline returns the column width of line, not counting a
// trailing newline.
func lineLenExcludingNewline(buf *textbuffer.Buffer, line int) int {
	content := buf.GetLine(line)
	return len(bytes.TrimRight(content, "\n"))
}

func verticalMove(state *editorstate.State, delta int, keepSelection bool) []docevent.Event {
	lineCount := state.Buffer.LineCount()
	var events []docevent.Event
	for _, c := range state.Cursors.Iter() {
		line := state.Buffer.OffsetToPosition(c.Position).Line
		lineStart := state.Buffer.PositionToOffset(lineindex.Position{Line: line})
		colOffset := c.Position - lineStart

		target := line + delta
		if target < 0 || target >= lineCount {
			continue
		}
		targetStart := state.Buffer.PositionToOffset(lineindex.Position{Line: target})
		targetLen := lineLenExcludingNewline(state.Buffer, target)
		newPos := targetStart + clampInt(colOffset, 0, targetLen)

		ev := docevent.MoveCursor{CursorID: c.ID, Position: newPos, Anchor: docevent.NoAnchor}
		if keepSelection {
			ev.Anchor = docevent.SomeAnchor(anchorOrPosition(c))
		}
		events = append(events, ev)
	}
	return events
}

func lineStartMove(state *editorstate.State, keepSelection bool) []docevent.Event {
	return moveEachCursor(state, func(buf *textbuffer.Buffer, c cursor.Cursor) int {
		line := buf.OffsetToPosition(c.Position).Line
		return buf.PositionToOffset(lineindex.Position{Line: line})
	}, keepSelection)
}

func lineEndMove(state *editorstate.State, keepSelection bool) []docevent.Event {
	return moveEachCursor(state, func(buf *textbuffer.Buffer, c cursor.Cursor) int {
		line := buf.OffsetToPosition(c.Position).Line
		lineStart := buf.PositionToOffset(lineindex.Position{Line: line})
		return lineStart + lineLenExcludingNewline(buf, line)
	}, keepSelection)
}

func documentEdgeMove(state *editorstate.State, pos int, keepSelection bool) []docevent.Event {
	return moveEachCursor(state, func(buf *textbuffer.Buffer, c cursor.Cursor) int {
		return pos
	}, keepSelection)
}

// pageMove moves by state.Viewport.Height logical lines, clamping to the
// document start/end when fewer lines remain than a full page.
func pageMove(state *editorstate.State, direction int, keepSelection bool) []docevent.Event {
	linesPerPage := state.Viewport.Height
	lineCount := state.Buffer.LineCount()
	var events []docevent.Event
	for _, c := range state.Cursors.Iter() {
		line := state.Buffer.OffsetToPosition(c.Position).Line
		target := line + direction*linesPerPage

		var newPos int
		switch {
		case target < 0:
			newPos = 0
		case target >= lineCount:
			newPos = state.Buffer.TotalBytes()
		default:
			newPos = state.Buffer.PositionToOffset(lineindex.Position{Line: target})
		}

		ev := docevent.MoveCursor{CursorID: c.ID, Position: newPos, Anchor: docevent.NoAnchor}
		if keepSelection {
			ev.Anchor = docevent.SomeAnchor(anchorOrPosition(c))
		}
		events = append(events, ev)
	}
	return events
}

func selectAll(state *editorstate.State) []docevent.Event {
	primaryID, ok := state.Cursors.PrimaryID()
	if !ok {
		return nil
	}
	return []docevent.Event{docevent.MoveCursor{
		CursorID: primaryID,
		Position: state.Buffer.TotalBytes(),
		Anchor:   docevent.SomeAnchor(0),
	}}
}

func selectWord(state *editorstate.State) []docevent.Event {
	var events []docevent.Event
	for _, c := range state.Cursors.Iter() {
		wordStart := findWordStart(state.Buffer, c.Position)
		wordEnd := findWordEnd(state.Buffer, c.Position)
		events = append(events, docevent.MoveCursor{
			CursorID: c.ID,
			Position: wordEnd,
			Anchor:   docevent.SomeAnchor(wordStart),
		})
	}
	return events
}

func selectLine(state *editorstate.State) []docevent.Event {
	var events []docevent.Event
	for _, c := range state.Cursors.Iter() {
		line := state.Buffer.OffsetToPosition(c.Position).Line
		lineStart := state.Buffer.PositionToOffset(lineindex.Position{Line: line})
		lineEnd := lineStart + len(state.Buffer.GetLine(line))
		events = append(events, docevent.MoveCursor{
			CursorID: c.ID,
			Position: lineEnd,
			Anchor:   docevent.SomeAnchor(lineStart),
		})
	}
	return events
}

func expandSelection(state *editorstate.State) []docevent.Event {
	var events []docevent.Event
	for _, c := range state.Cursors.Iter() {
		if c.Anchor.Present {
			nextWordStart := findWordStartRight(state.Buffer, c.Position)
			newEnd := findWordEnd(state.Buffer, nextWordStart)
			events = append(events, docevent.MoveCursor{
				CursorID: c.ID,
				Position: newEnd,
				Anchor:   docevent.SomeAnchor(c.Anchor.Position),
			})
			continue
		}

		wordStart := findWordStart(state.Buffer, c.Position)
		wordEnd := findWordEnd(state.Buffer, c.Position)

		var finalStart, finalEnd int
		if wordStart == wordEnd || c.Position == wordEnd {
			nextStart := findWordStartRight(state.Buffer, c.Position)
			nextEnd := findWordEnd(state.Buffer, nextStart)
			finalStart, finalEnd = c.Position, nextEnd
		} else {
			finalStart, finalEnd = c.Position, wordEnd
		}

		events = append(events, docevent.MoveCursor{
			CursorID: c.ID,
			Position: finalEnd,
			Anchor:   docevent.SomeAnchor(finalStart),
		})
	}
	return events
}

func nextCursorID(state *editorstate.State) uint64 {
	var max uint64
	for _, c := range state.Cursors.Iter() {
		if c.ID > max {
			max = c.ID
		}
	}
	return max + 1
}

func addCursorVertical(state *editorstate.State, delta int) []docevent.Event {
	primary, ok := state.Cursors.Primary()
	if !ok {
		return nil
	}
	line := state.Buffer.OffsetToPosition(primary.Position).Line
	lineStart := state.Buffer.PositionToOffset(lineindex.Position{Line: line})
	colOffset := primary.Position - lineStart

	target := line + delta
	if target < 0 || target >= state.Buffer.LineCount() {
		return nil
	}
	targetStart := state.Buffer.PositionToOffset(lineindex.Position{Line: target})
	targetLen := lineLenExcludingNewline(state.Buffer, target)
	newPos := targetStart + clampInt(colOffset, 0, targetLen)

	return []docevent.Event{docevent.AddCursor{
		CursorID: nextCursorID(state),
		Position: newPos,
		Anchor:   docevent.NoAnchor,
	}}
}

func addCursorNextMatch(state *editorstate.State) []docevent.Event {
	primary, ok := state.Cursors.Primary()
	if !ok {
		return nil
	}
	start, end, has := primary.SelectionRange()
	if !has || start == end {
		return nil
	}

	needle := state.Buffer.GetTextRange(start, end-start)
	full := state.Buffer.Bytes()

	matchStart := -1
	if idx := bytes.Index(full[end:], needle); idx >= 0 {
		matchStart = end + idx
	} else if idx := bytes.Index(full, needle); idx >= 0 {
		matchStart = idx
	}
	if matchStart < 0 {
		return nil
	}

	return []docevent.Event{docevent.AddCursor{
		CursorID: nextCursorID(state),
		Position: matchStart + len(needle),
		Anchor:   docevent.SomeAnchor(matchStart),
	}}
}

func removeSecondaryCursors(state *editorstate.State) []docevent.Event {
	primaryID, _ := state.Cursors.PrimaryID()
	var events []docevent.Event
	for _, c := range state.Cursors.Iter() {
		if c.ID != primaryID {
			events = append(events, docevent.RemoveCursor{CursorID: c.ID})
		}
	}
	return events
}
