// ABOUTME: Maps byte offsets to line/column positions, separate from the piece tree
// ABOUTME: Holds a sorted slice of line-start byte offsets, updated incrementally on insert/delete

package lineindex

import "sort"

// Position is a 0-indexed line and a byte-offset column within that line.
type Position struct {
	Line   int
	Column int
}

// Index maps line numbers to byte offsets. lineStarts[0] is always 0.
type Index struct {
	lineStarts []int
}

// New creates an index for an empty document (one line, starting at 0).
func New() *Index {
	return &Index{lineStarts: []int{0}}
}

// BuildFromBuffer scans buffer for newlines and builds the index from scratch.
func BuildFromBuffer(buffer []byte) *Index {
	lineStarts := []int{0}
	for i, b := range buffer {
		if b == '\n' {
			lineStarts = append(lineStarts, i+1)
		}
	}
	return &Index{lineStarts: lineStarts}
}

// LineCount returns the number of lines in the document.
func (idx *Index) LineCount() int {
	return len(idx.lineStarts)
}

// search returns the line containing offset: an exact match if offset is a
// line start, otherwise the line whose start precedes it.
func (idx *Index) search(offset int) int {
	i := sort.SearchInts(idx.lineStarts, offset)
	if i < len(idx.lineStarts) && idx.lineStarts[i] == offset {
		return i
	}
	return max(i-1, 0)
}

// OffsetToPosition converts a byte offset to a line/column position.
func (idx *Index) OffsetToPosition(offset int) Position {
	line := idx.search(offset)
	lineStart := idx.lineStarts[line]
	column := offset - lineStart
	if column < 0 {
		column = 0
	}
	return Position{Line: line, Column: column}
}

// PositionToOffset converts a line/column position back to a byte offset.
// Lines beyond the last one clamp to the last line.
func (idx *Index) PositionToOffset(pos Position) int {
	line := pos.Line
	if line > len(idx.lineStarts)-1 {
		line = len(idx.lineStarts) - 1
	}
	return idx.lineStarts[line] + pos.Column
}

// Insert updates the index to reflect text having been inserted at offset.
func (idx *Index) Insert(offset int, text []byte) {
	if len(text) == 0 {
		return
	}

	newlineCount := 0
	for _, b := range text {
		if b == '\n' {
			newlineCount++
		}
	}

	if newlineCount == 0 {
		for i, ls := range idx.lineStarts {
			if ls > offset {
				idx.lineStarts[i] = ls + len(text)
			}
		}
		return
	}

	insertLine := idx.search(offset)

	var newLineStarts []int
	current := offset
	for _, b := range text {
		current++
		if b == '\n' {
			newLineStarts = append(newLineStarts, current)
		}
	}

	for i, ls := range idx.lineStarts {
		if ls > offset {
			idx.lineStarts[i] = ls + len(text)
		}
	}

	insertPos := insertLine + 1
	rest := append([]int{}, idx.lineStarts[insertPos:]...)
	idx.lineStarts = append(idx.lineStarts[:insertPos], append(newLineStarts, rest...)...)
}

// Delete updates the index to reflect deletedBytes bytes having been removed
// starting at offset; deletedText is needed to count removed newlines.
func (idx *Index) Delete(offset, deletedBytes int, deletedText []byte) {
	if deletedBytes == 0 {
		return
	}
	endOffset := offset + deletedBytes

	deletedNewlines := 0
	for _, b := range deletedText {
		if b == '\n' {
			deletedNewlines++
		}
	}

	if deletedNewlines == 0 {
		for i, ls := range idx.lineStarts {
			if ls > offset {
				ls -= deletedBytes
				if ls < 0 {
					ls = 0
				}
				idx.lineStarts[i] = ls
			}
		}
		return
	}

	startLine := idx.search(offset)

	var toRemove []int
	for i := startLine + 1; i < len(idx.lineStarts); i++ {
		ls := idx.lineStarts[i]
		if ls > offset && ls <= endOffset {
			toRemove = append(toRemove, i)
		} else if ls > endOffset {
			break
		}
	}

	for i := len(toRemove) - 1; i >= 0; i-- {
		idx2 := toRemove[i]
		idx.lineStarts = append(idx.lineStarts[:idx2], idx.lineStarts[idx2+1:]...)
	}

	for i, ls := range idx.lineStarts {
		if ls > endOffset {
			ls -= deletedBytes
			if ls < 0 {
				ls = 0
			}
			idx.lineStarts[i] = ls
		}
	}
}

// LineStartOffset returns the byte offset where line starts, or false if
// line is out of range.
func (idx *Index) LineStartOffset(line int) (int, bool) {
	if line < 0 || line >= len(idx.lineStarts) {
		return 0, false
	}
	return idx.lineStarts[line], true
}

// LineRange returns the [start, end) byte range of line. hasEnd is false
// (and end is 0) if line is the last line in the document.
func (idx *Index) LineRange(line int) (start int, end int, hasEnd bool, ok bool) {
	if line < 0 || line >= len(idx.lineStarts) {
		return 0, 0, false, false
	}
	start = idx.lineStarts[line]
	if line+1 < len(idx.lineStarts) {
		return start, idx.lineStarts[line+1], true, true
	}
	return start, 0, false, true
}

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}
