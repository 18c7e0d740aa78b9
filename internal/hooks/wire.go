// ABOUTME: Stable JSON encoding of HookArgs variants for collaborator processes
// ABOUTME: Field shapes are fixed by the wire contract; unknown variants encode as {}

package hooks

// EncodeWire converts args to a JSON-marshalable value matching the stable
// wire shape for its variant. Collaborators dispatch on the hook name the
// callback was registered under, so the encoded value carries no separate
// discriminator field.
func EncodeWire(args HookArgs) map[string]any {
	switch a := args.(type) {
	case BeforeFileOpen:
		return map[string]any{"path": a.Path}
	case AfterFileOpen:
		return map[string]any{"path": a.Path, "buffer_id": a.BufferID}
	case BeforeFileSave:
		return map[string]any{"buffer_id": a.BufferID, "path": a.Path}
	case AfterFileSave:
		return map[string]any{"buffer_id": a.BufferID, "path": a.Path}
	case BufferClosed:
		return map[string]any{"buffer_id": a.BufferID}
	case BeforeInsert:
		return map[string]any{"buffer_id": a.BufferID, "position": a.Position, "text": a.Text}
	case AfterInsert:
		return map[string]any{
			"buffer_id":      a.BufferID,
			"position":       a.Position,
			"text":           a.Text,
			"affected_start": a.AffectedStart,
			"affected_end":   a.AffectedEnd,
		}
	case BeforeDelete:
		return map[string]any{"buffer_id": a.BufferID, "start": a.Start, "end": a.End}
	case AfterDelete:
		return map[string]any{
			"buffer_id":      a.BufferID,
			"start":          a.Start,
			"end":            a.End,
			"deleted_text":   a.DeletedText,
			"affected_start": a.AffectedStart,
			"deleted_len":    a.DeletedLen,
		}
	case CursorMoved:
		return map[string]any{
			"buffer_id":    a.BufferID,
			"cursor_id":    a.CursorID,
			"old_position": a.OldPosition,
			"new_position": a.NewPosition,
		}
	case BufferActivated:
		return map[string]any{"buffer_id": a.BufferID}
	case BufferDeactivated:
		return map[string]any{"buffer_id": a.BufferID}
	case PreCommand:
		return map[string]any{"name": a.Name, "args": a.Args}
	case PostCommand:
		return map[string]any{"name": a.Name, "args": a.Args, "ok": a.Ok}
	case Idle:
		return map[string]any{}
	case EditorInitialized:
		return map[string]any{}
	case RenderStart:
		return map[string]any{"buffer_id": a.BufferID, "split_id": a.SplitID}
	case RenderLine:
		return map[string]any{
			"buffer_id":   a.BufferID,
			"line_number": a.LineNumber,
			"byte_start":  a.ByteStart,
			"byte_end":    a.ByteEnd,
			"content":     a.Content,
		}
	case LinesChanged:
		lines := make([]map[string]any, len(a.Lines))
		for i, l := range a.Lines {
			lines[i] = map[string]any{
				"line_number": l.LineNumber,
				"byte_start":  l.ByteStart,
				"byte_end":    l.ByteEnd,
				"content":     l.Content,
			}
		}
		return map[string]any{"buffer_id": a.BufferID, "lines": lines}
	case PromptChanged:
		return map[string]any{"input": a.Input}
	case PromptConfirmed:
		return map[string]any{"input": a.Input}
	case PromptCancelled:
		return map[string]any{}
	case ViewTransformRequest:
		tokens := make([]map[string]any, len(a.Tokens))
		for i, ts := range a.Tokens {
			tokens[i] = map[string]any{
				"source_offset": ts.SourceOffset,
				"kind":          encodeToken(ts.Token),
			}
		}
		return map[string]any{
			"buffer_id":      a.BufferID,
			"split_id":       a.SplitID,
			"viewport_start": a.ViewportStart,
			"viewport_end":   a.ViewportEnd,
			"tokens":         tokens,
		}
	case MouseClick:
		return map[string]any{"col": a.Col, "row": a.Row, "modifiers": a.Modifiers}
	default:
		return map[string]any{}
	}
}

// encodeToken mirrors the token kind encoding: bare variants encode as a
// plain string, payload-carrying variants as a single-key object.
func encodeToken(t Token) any {
	switch t.Kind {
	case "Text":
		return map[string]any{"Text": t.Text}
	case "BinaryByte":
		return map[string]any{"BinaryByte": t.Byte}
	default:
		return t.Kind
	}
}
