// ABOUTME: Word-boundary scans used by word motion, word delete, and selection expansion
// ABOUTME: Every scan reads at most a 1024-byte window around the cursor, never the whole buffer

package mapper

import "github.com/fresheditor/fresh/internal/textbuffer"

const wordScanWindow = 1024

func isWordByte(b byte) bool {
	return (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z') || (b >= '0' && b <= '9') || b == '_'
}

// findWordStart finds the start of the word at or before pos (the word
// under the cursor, or the word immediately to its left if pos sits on a
// separator).
func findWordStart(buf *textbuffer.Buffer, pos int) int {
	if pos == 0 {
		return 0
	}
	total := buf.TotalBytes()
	if pos >= total {
		return total
	}

	start := pos - wordScanWindow
	if start < 0 {
		start = 0
	}
	end := pos + 1
	if end > total {
		end = total
	}
	data := buf.GetTextRange(start, end-start)
	newPos := pos - start

	if newPos < len(data) && !isWordByte(data[newPos]) && newPos > 0 {
		newPos--
	}

	for newPos > 0 {
		if !isWordByte(data[newPos-1]) {
			break
		}
		newPos--
	}

	return start + newPos
}

// findWordEnd finds the end of the word at or after pos.
func findWordEnd(buf *textbuffer.Buffer, pos int) int {
	total := buf.TotalBytes()
	if pos >= total {
		return total
	}

	end := pos + wordScanWindow
	if end > total {
		end = total
	}
	data := buf.GetTextRange(pos, end-pos)

	newPos := 0
	for newPos < len(data) && isWordByte(data[newPos]) {
		newPos++
	}

	return pos + newPos
}

// findWordStartLeft finds the start of the word to the left of pos (used by
// MoveWordLeft / DeleteWordBackward): skip trailing separators, then skip
// the word-character run before them.
func findWordStartLeft(buf *textbuffer.Buffer, pos int) int {
	if pos == 0 {
		return 0
	}
	total := buf.TotalBytes()
	actualPos := pos
	if actualPos > total {
		actualPos = total
	}

	start := actualPos - wordScanWindow
	if start < 0 {
		start = 0
	}
	data := buf.GetTextRange(start, actualPos-start)

	newPos := len(data) - 1
	if newPos < 0 {
		return start
	}

	for newPos > 0 && !isWordByte(data[newPos]) {
		newPos--
	}

	for newPos > 0 {
		prev := data[newPos-1]
		curr := data[newPos]
		if isWordByte(prev) != isWordByte(curr) {
			break
		}
		newPos--
	}

	return start + newPos
}

// findWordStartRight finds the start of the next word to the right of pos
// (used by MoveWordRight / DeleteWordForward): skip the current word, then
// skip any separators after it.
func findWordStartRight(buf *textbuffer.Buffer, pos int) int {
	total := buf.TotalBytes()
	if pos >= total {
		return total
	}

	end := pos + wordScanWindow
	if end > total {
		end = total
	}
	data := buf.GetTextRange(pos, end-pos)

	newPos := 0
	for newPos < len(data) && isWordByte(data[newPos]) {
		newPos++
	}
	for newPos < len(data) && !isWordByte(data[newPos]) {
		newPos++
	}

	return pos + newPos
}
