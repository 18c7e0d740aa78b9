// ABOUTME: JSON wire encoding for streamed events, one object per appended event
// ABOUTME: Mirrors the field-per-variant shape used by the hook JSON encoding (internal/hooks/wire.go)

package docevent

// EncodeWire converts an Event into a JSON-marshalable representation with
// a stable "kind" discriminator plus the variant's own fields.
func EncodeWire(e Event) map[string]any {
	switch v := e.(type) {
	case Insert:
		return map[string]any{"kind": v.Kind(), "position": v.Position, "text": string(v.Text), "cursor_id": v.CursorID}
	case Delete:
		return map[string]any{"kind": v.Kind(), "start": v.Range.Start, "end": v.Range.End, "deleted_text": string(v.DeletedText), "cursor_id": v.CursorID}
	case MoveCursor:
		m := map[string]any{"kind": v.Kind(), "cursor_id": v.CursorID, "position": v.Position}
		if v.Anchor.Present {
			m["anchor"] = v.Anchor.Position
		}
		return m
	case AddCursor:
		m := map[string]any{"kind": v.Kind(), "cursor_id": v.CursorID, "position": v.Position}
		if v.Anchor.Present {
			m["anchor"] = v.Anchor.Position
		}
		return m
	case RemoveCursor:
		return map[string]any{"kind": v.Kind(), "cursor_id": v.CursorID}
	case Scroll:
		return map[string]any{"kind": v.Kind(), "line_offset": v.LineOffset}
	case AddOverlay:
		return map[string]any{"kind": v.Kind(), "id": v.ID, "start": v.Range.Start, "end": v.Range.End, "face": v.Face, "priority": v.Priority, "message": v.Message}
	case RemoveOverlay:
		return map[string]any{"kind": v.Kind(), "id": v.ID}
	case RemoveOverlaysInRange:
		return map[string]any{"kind": v.Kind(), "start": v.Range.Start, "end": v.Range.End}
	case ClearOverlays:
		return map[string]any{"kind": v.Kind()}
	case ShowPopup:
		return map[string]any{"kind": v.Kind(), "title": v.Popup.Title, "items": v.Popup.Items}
	case HidePopup:
		return map[string]any{"kind": v.Kind()}
	case ClearPopups:
		return map[string]any{"kind": v.Kind()}
	case PopupSelectNext, PopupSelectPrev, PopupPageUp, PopupPageDown:
		return map[string]any{"kind": e.Kind()}
	default:
		return map[string]any{"kind": e.Kind()}
	}
}
