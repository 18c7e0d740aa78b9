// ABOUTME: Line-based JSON serialization of a split tree and its per-leaf view state
// ABOUTME: No persistence triggers live here; a collaborator calls Marshal/Unmarshal around file I/O

package sessionstate

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"log"
	"sync"

	"github.com/fresheditor/fresh/internal/cursor"
	"github.com/fresheditor/fresh/internal/splittree"
	"github.com/fresheditor/fresh/internal/splitview"
)

const (
	scannerInitialBuf = 64 * 1024
	scannerMaxBuf      = 10 * 1024 * 1024
)

// scannerBufPool reuses scanner buffers across Unmarshal calls.
var scannerBufPool = sync.Pool{
	New: func() any {
		return make([]byte, 0, scannerInitialBuf)
	},
}

// RecordType identifies the kind of a JSONL record in a snapshot.
type RecordType string

const (
	RecordTree RecordType = "tree"
	RecordLeaf RecordType = "leaf"
)

// CurrentRecordVersion is the version stamped on new records.
const CurrentRecordVersion = 1

// Record is the envelope for every line in a serialized snapshot.
type Record struct {
	Version int             `json:"v"`
	Type    RecordType      `json:"type"`
	Data    json.RawMessage `json:"data"`
}

// CursorSnapshot is one cursor's persisted position and optional selection anchor.
type CursorSnapshot struct {
	ID             uint64 `json:"id"`
	Position       int    `json:"position"`
	AnchorPosition int    `json:"anchor_position,omitempty"`
	HasAnchor      bool   `json:"has_anchor,omitempty"`
}

// ViewportSnapshot is a leaf's scroll position and size.
type ViewportSnapshot struct {
	TopLine          int `json:"top_line"`
	Height           int `json:"height"`
	Width            int `json:"width"`
	HorizontalOffset int `json:"horizontal_offset,omitempty"`
}

// LeafSnapshot is one split leaf's persisted view state: enough to reopen
// the buffer from disk and restore cursors, scroll position, and tab state.
// Buffer content itself is never persisted; FilePath is re-read by the
// collaborator on restore.
type LeafSnapshot struct {
	SplitID         int                `json:"split_id"`
	FilePath        string             `json:"file_path"`
	Label           string             `json:"label,omitempty"`
	Cursors         []CursorSnapshot   `json:"cursors"`
	PrimaryCursorID uint64             `json:"primary_cursor_id,omitempty"`
	HasPrimary      bool               `json:"has_primary,omitempty"`
	Viewport        ViewportSnapshot   `json:"viewport"`
	ViewMode        splitview.ViewMode `json:"view_mode"`
	OpenBuffers     []string           `json:"open_buffers,omitempty"`
	FocusHistory    []string           `json:"focus_history,omitempty"`
	SyncGroup       string             `json:"sync_group,omitempty"`
	HasSyncGroup    bool               `json:"has_sync_group,omitempty"`
}

// Snapshot is the full persisted state of a split layout: its topology plus
// one LeafSnapshot per leaf, keyed by split id.
type Snapshot struct {
	Tree   splittree.Dump
	Leaves []LeafSnapshot
}

// Marshal serializes snapshot as line-delimited JSON: one record for the
// split tree, then one record per leaf in the order given.
func Marshal(snap Snapshot) ([]byte, error) {
	var buf bytes.Buffer

	if err := writeRecord(&buf, RecordTree, snap.Tree); err != nil {
		return nil, fmt.Errorf("marshaling tree record: %w", err)
	}
	for _, leaf := range snap.Leaves {
		if err := writeRecord(&buf, RecordLeaf, leaf); err != nil {
			return nil, fmt.Errorf("marshaling leaf record for split %d: %w", leaf.SplitID, err)
		}
	}

	return buf.Bytes(), nil
}

func writeRecord(buf *bytes.Buffer, recType RecordType, data any) error {
	dataBytes, err := json.Marshal(data)
	if err != nil {
		return err
	}
	rec := Record{Version: CurrentRecordVersion, Type: recType, Data: dataBytes}
	line, err := json.Marshal(rec)
	if err != nil {
		return err
	}
	buf.Write(line)
	buf.WriteByte('\n')
	return nil
}

// Unmarshal parses line-delimited JSON produced by Marshal back into a
// Snapshot. Malformed lines are logged and skipped rather than failing the
// whole read, so a snapshot truncated by a crash mid-write still yields
// whatever leaves parsed cleanly before the break.
func Unmarshal(data []byte) (Snapshot, error) {
	var snap Snapshot
	var sawTree bool

	buf := scannerBufPool.Get().([]byte)
	defer scannerBufPool.Put(buf)

	scanner := bufio.NewScanner(bytes.NewReader(data))
	scanner.Buffer(buf[:0], scannerMaxBuf)

	lineNum := 0
	for scanner.Scan() {
		lineNum++
		line := scanner.Bytes()
		if len(bytes.TrimSpace(line)) == 0 {
			continue
		}

		var rec Record
		if err := json.Unmarshal(line, &rec); err != nil {
			log.Printf("warning: session state line %d: malformed JSONL: %v", lineNum, err)
			continue
		}

		switch rec.Type {
		case RecordTree:
			if err := json.Unmarshal(rec.Data, &snap.Tree); err != nil {
				log.Printf("warning: session state line %d: malformed tree record: %v", lineNum, err)
				continue
			}
			sawTree = true
		case RecordLeaf:
			var leaf LeafSnapshot
			if err := json.Unmarshal(rec.Data, &leaf); err != nil {
				log.Printf("warning: session state line %d: malformed leaf record: %v", lineNum, err)
				continue
			}
			snap.Leaves = append(snap.Leaves, leaf)
		default:
			log.Printf("warning: session state line %d: unknown record type %q", lineNum, rec.Type)
		}
	}

	if err := scanner.Err(); err != nil {
		return snap, fmt.Errorf("scanning session state: %w", err)
	}
	if !sawTree {
		return snap, fmt.Errorf("session state has no tree record")
	}
	return snap, nil
}

// SnapshotLeaf captures a leaf's current view state for persistence.
// filePath is the leaf's buffer's source file, supplied by the caller since
// textbuffer.Metadata.FilePath is the only place that's tracked.
func SnapshotLeaf(splitID int, filePath string, v *splitview.State) LeafSnapshot {
	primaryID, hasPrimary := v.Editor.Cursors.PrimaryID()
	leaf := LeafSnapshot{
		SplitID:         splitID,
		FilePath:        filePath,
		Cursors:         snapshotCursors(v),
		PrimaryCursorID: primaryID,
		HasPrimary:      hasPrimary,
		Viewport:        ViewportSnapshot(v.Editor.Viewport),
		ViewMode:        v.ViewMode,
		OpenBuffers:     append([]string(nil), v.OpenBuffers...),
		FocusHistory:    v.FocusHistory(),
		SyncGroup:       v.SyncGroup,
		HasSyncGroup:    v.HasSyncGroup,
	}
	return leaf
}

func snapshotCursors(v *splitview.State) []CursorSnapshot {
	cursors := v.Editor.Cursors.Iter()
	out := make([]CursorSnapshot, len(cursors))
	for i, c := range cursors {
		out[i] = CursorSnapshot{
			ID:             c.ID,
			Position:       c.Position,
			AnchorPosition: c.Anchor.Position,
			HasAnchor:      c.Anchor.Present,
		}
	}
	return out
}

// RestoreLeaf applies a persisted LeafSnapshot onto a freshly created view
// state (e.g. from splitview.New after the caller reopened FilePath), so
// the restored editor comes back with its cursors, scroll position, and tab
// state intact. For the primary cursor to be preserved, v's underlying
// editorstate.State must have been constructed with leaf.PrimaryCursorID as
// its primary cursor id.
func RestoreLeaf(leaf LeafSnapshot, v *splitview.State) {
	v.Editor.Viewport.TopLine = leaf.Viewport.TopLine
	v.Editor.Viewport.Height = leaf.Viewport.Height
	v.Editor.Viewport.Width = leaf.Viewport.Width
	v.Editor.Viewport.HorizontalOffset = leaf.Viewport.HorizontalOffset

	v.ViewMode = leaf.ViewMode
	if len(leaf.OpenBuffers) > 0 {
		v.OpenBuffers = append([]string(nil), leaf.OpenBuffers...)
	}

	for _, c := range leaf.Cursors {
		restored := cursorFromSnapshot(c)
		v.Editor.Cursors.Add(restored)
	}
	v.Editor.Cursors.Normalize()

	for _, bufID := range leaf.FocusHistory {
		v.PushFocus(bufID)
	}

	v.MarkLayoutDirty()
}

func cursorFromSnapshot(c CursorSnapshot) cursor.Cursor {
	out := cursor.Cursor{ID: c.ID, Position: c.Position}
	if c.HasAnchor {
		out.Anchor = cursor.SomeAnchor(c.AnchorPosition)
	}
	return out
}
