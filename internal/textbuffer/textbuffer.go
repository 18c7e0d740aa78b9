// ABOUTME: Couples the piece tree and line index over stored/added byte buffers
// ABOUTME: Every mutation goes through insert_bytes/delete_bytes so both indexes stay consistent

package textbuffer

import (
	"bytes"

	"github.com/fresheditor/fresh/internal/lineindex"
	"github.com/fresheditor/fresh/internal/piecetree"
)

// NewlineStyle names the line-ending convention detected in a document's
// original content, per spec.md §6.1: the core preserves line endings
// verbatim and never rewrites them, but caches the detected style so a
// collaborator (e.g. a save dialog) can report it.
type NewlineStyle string

const (
	NewlineUnknown NewlineStyle = ""
	NewlineLF      NewlineStyle = "LF"
	NewlineCRLF    NewlineStyle = "CRLF"
)

// DetectNewlineStyle returns the newline style of the first line ending
// found in content, or NewlineUnknown if content has none.
func DetectNewlineStyle(content []byte) NewlineStyle {
	for i, b := range content {
		if b != '\n' {
			continue
		}
		if i > 0 && content[i-1] == '\r' {
			return NewlineCRLF
		}
		return NewlineLF
	}
	return NewlineUnknown
}

// Metadata describes the document a Buffer backs.
type Metadata struct {
	FilePath              string
	FileURI               string
	Language              string
	Encoding              string
	Dirty                 bool
	LargeFile             bool
	LargeFileThresholdBytes int
	NewlineStyle          NewlineStyle
}

// Buffer is a text buffer: piece tree + line index over a stored buffer
// (original file content, immutable) and an added buffer (append-only,
// holding every byte ever inserted).
type Buffer struct {
	tree  *piecetree.Tree
	lines *lineindex.Index

	stored []byte
	added  []byte

	meta Metadata
}

// New creates a buffer from initial file content. If meta.NewlineStyle is
// unset, it is detected from content's first line ending.
func New(content []byte, meta Metadata) *Buffer {
	if meta.NewlineStyle == NewlineUnknown {
		meta.NewlineStyle = DetectNewlineStyle(content)
	}
	b := &Buffer{
		stored: content,
		tree:   piecetree.New(piecetree.Stored, 0, len(content)),
		lines:  lineindex.BuildFromBuffer(content),
		meta:   meta,
	}
	b.applyLargeFileGuard()
	return b
}

// Empty creates a buffer with no content.
func Empty(meta Metadata) *Buffer {
	b := &Buffer{
		tree:  piecetree.Empty(),
		lines: lineindex.New(),
		meta:  meta,
	}
	b.applyLargeFileGuard()
	return b
}

func (b *Buffer) applyLargeFileGuard() {
	if b.meta.LargeFileThresholdBytes > 0 && b.TotalBytes() > b.meta.LargeFileThresholdBytes {
		b.meta.LargeFile = true
	}
}

// Metadata returns a copy of the buffer's metadata.
func (b *Buffer) Metadata() Metadata { return b.meta }

// SetDirty marks the buffer as having unsaved changes.
func (b *Buffer) SetDirty(dirty bool) { b.meta.Dirty = dirty }

// TotalBytes returns the document's byte length.
func (b *Buffer) TotalBytes() int { return b.tree.TotalBytes() }

// LineCount returns the number of lines, always >= 1.
func (b *Buffer) LineCount() int { return b.lines.LineCount() }

func (b *Buffer) bufferBytes(loc piecetree.Location) []byte {
	if loc == piecetree.Stored {
		return b.stored
	}
	return b.added
}

// InsertBytes appends text to the added buffer, splices a piece into the
// piece tree at off, and updates the line index. Returns the byte offset
// just past the inserted text.
func (b *Buffer) InsertBytes(off int, text []byte) int {
	if len(text) == 0 {
		return off
	}
	bufOffset := len(b.added)
	b.added = append(b.added, text...)

	b.tree.Insert(off, piecetree.Added, bufOffset, len(text))
	b.lines.Insert(off, text)
	b.meta.Dirty = true
	b.applyLargeFileGuard()

	return off + len(text)
}

// DeleteBytes removes n bytes starting at off, returning the bytes removed
// (callers use this to build the inverse Insert event).
func (b *Buffer) DeleteBytes(off, n int) []byte {
	if n <= 0 || off < 0 || off >= b.TotalBytes() {
		return nil
	}
	if off+n > b.TotalBytes() {
		n = b.TotalBytes() - off
	}

	deleted := b.GetTextRange(off, n)
	b.tree.Delete(off, n)
	b.lines.Delete(off, n, deleted)
	b.meta.Dirty = true

	return deleted
}

// GetTextRange returns the n bytes starting at off via a sequential piece walk.
func (b *Buffer) GetTextRange(off, n int) []byte {
	if n <= 0 {
		return nil
	}
	out := make([]byte, 0, n)
	remaining := n
	offset := off

	for remaining > 0 {
		info, ok := b.tree.FindByOffset(offset)
		if !ok {
			break
		}
		src := b.bufferBytes(info.Location)
		available := info.Bytes - info.OffsetInPiece
		take := available
		if take > remaining {
			take = remaining
		}
		start := info.Offset + info.OffsetInPiece
		out = append(out, src[start:start+take]...)
		remaining -= take
		offset += take
	}

	return out
}

// GetLine returns the raw bytes of line, including a trailing newline if present.
func (b *Buffer) GetLine(line int) []byte {
	start, end, hasEnd, ok := b.lines.LineRange(line)
	if !ok {
		return nil
	}
	if hasEnd {
		return b.GetTextRange(start, end-start)
	}
	return b.GetTextRange(start, b.TotalBytes()-start)
}

// OffsetToPosition converts a byte offset to a line/column position.
func (b *Buffer) OffsetToPosition(off int) lineindex.Position {
	return b.lines.OffsetToPosition(off)
}

// PositionToOffset converts a line/column position to a byte offset.
func (b *Buffer) PositionToOffset(pos lineindex.Position) int {
	return b.lines.PositionToOffset(pos)
}

// LineIterator yields (lineStartOffset, lineContent) pairs starting from the
// line containing off. Direction is controlled by Next/Prev.
type LineIterator struct {
	buf     *Buffer
	line    int
	started bool
}

// LineIterator creates an iterator positioned at the line containing off.
// The first call to Next returns that line; the first call to Prev returns
// the line before it.
func (b *Buffer) LineIterator(off int) *LineIterator {
	pos := b.lines.OffsetToPosition(off)
	return &LineIterator{buf: b, line: pos.Line}
}

// Next advances forward and returns the next line's start offset and content.
func (it *LineIterator) Next() (start int, content []byte, ok bool) {
	if it.started {
		it.line++
	}
	it.started = true
	s, ok := it.buf.lines.LineStartOffset(it.line)
	if !ok {
		return 0, nil, false
	}
	return s, it.buf.GetLine(it.line), true
}

// Prev moves backward and returns the previous line's start offset and content.
func (it *LineIterator) Prev() (start int, content []byte, ok bool) {
	it.line--
	it.started = true
	s, ok := it.buf.lines.LineStartOffset(it.line)
	if !ok {
		return 0, nil, false
	}
	return s, it.buf.GetLine(it.line), true
}

// Bytes materializes the full document content by walking every piece.
// Intended for save-to-disk and tests, not hot paths.
func (b *Buffer) Bytes() []byte {
	var buf bytes.Buffer
	for _, p := range b.tree.Pieces() {
		if p.Bytes == 0 {
			continue
		}
		src := b.bufferBytes(p.Location)
		buf.Write(src[p.Offset : p.Offset+p.Bytes])
	}
	return buf.Bytes()
}
