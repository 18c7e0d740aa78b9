// ABOUTME: Per-document ordered event log with a redo pointer and optional streaming sink
// ABOUTME: Append truncates any redone tail; Undo/Redo walk the pointer without copying state

package docevent

import (
	"encoding/json"
	"io"
)

// Log is an ordered, append-truncating sequence of events with a redo
// pointer. The events in [0, pointer) represent the history that produced
// the current state; events in [pointer, len) are redoable.
type Log struct {
	events  []Event
	pointer int
	sink    io.Writer
}

// NewLog creates an empty event log.
func NewLog() *Log {
	return &Log{}
}

// SetStreamSink wires an external sink that receives one JSON line per
// appended event, for replay or debugging. A nil sink disables streaming.
func (l *Log) SetStreamSink(w io.Writer) {
	l.sink = w
}

// Append records an event, discarding any previously-undone tail.
func (l *Log) Append(e Event) {
	l.events = append(l.events[:l.pointer], e)
	l.pointer = len(l.events)
	l.writeStream(e)
}

// Undo returns the event at pointer-1 for the caller to apply the inverse
// of, and retreats the pointer. Returns (nil, false) if nothing to undo.
func (l *Log) Undo() (Event, bool) {
	if l.pointer == 0 {
		return nil, false
	}
	l.pointer--
	return l.events[l.pointer], true
}

// Redo returns the event at the pointer for the caller to re-apply, and
// advances the pointer. Returns (nil, false) if nothing to redo.
func (l *Log) Redo() (Event, bool) {
	if l.pointer >= len(l.events) {
		return nil, false
	}
	e := l.events[l.pointer]
	l.pointer++
	return e, true
}

// CanUndo reports whether Undo would return an event.
func (l *Log) CanUndo() bool { return l.pointer > 0 }

// CanRedo reports whether Redo would return an event.
func (l *Log) CanRedo() bool { return l.pointer < len(l.events) }

// Pointer returns the current redo pointer, mostly for tests and oracles.
func (l *Log) Pointer() int { return l.pointer }

// Len returns the number of events held, including the redoable tail
// (Append discards that tail, so undone events that were overwritten are not counted).
func (l *Log) Len() int { return len(l.events) }

// EventAt returns the event at index i, used by test oracles replaying history.
func (l *Log) EventAt(i int) Event { return l.events[i] }

// History returns the applied prefix [0, pointer) for replay verification.
func (l *Log) History() []Event {
	out := make([]Event, l.pointer)
	copy(out, l.events[:l.pointer])
	return out
}

// streamRecord is the wire shape for one streamed event line.
type streamRecord struct {
	Kind Kind `json:"kind"`
}

// keystrokeRecord is a pure debug record; it never affects undo/redo state.
type keystrokeRecord struct {
	Type     string `json:"type"`
	KeyCode  string `json:"key_code"`
	Modifiers string `json:"modifiers"`
}

// LogKeystroke writes a streaming-only debug record of a raw keystroke. It
// does not append to the event history and has no undo/redo effect.
func (l *Log) LogKeystroke(keyCode, modifiers string) {
	if l.sink == nil {
		return
	}
	b, err := json.Marshal(keystrokeRecord{Type: "keystroke", KeyCode: keyCode, Modifiers: modifiers})
	if err != nil {
		return
	}
	l.sink.Write(append(b, '\n'))
}

func (l *Log) writeStream(e Event) {
	if l.sink == nil {
		return
	}
	wire := EncodeWire(e)
	b, err := json.Marshal(wire)
	if err != nil {
		return
	}
	l.sink.Write(append(b, '\n'))
}
