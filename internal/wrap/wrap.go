// ABOUTME: Line wrapping into fixed-width segments, shared by rendering and cursor positioning
// ABOUTME: Offsets are character (rune) positions in the logical line, not byte offsets

package wrap

// Segment is one visual line produced by wrapping a logical line.
type Segment struct {
	Text            string
	IsContinuation  bool
	StartCharOffset int
	EndCharOffset   int
}

// Config controls how a logical line is split into segments.
type Config struct {
	FirstLineWidth        int
	ContinuationLineWidth int
	GutterWidth           int
}

// NewConfig derives a wrap configuration from the content area width available
// after UI chrome, reserving a column for the scrollbar when present. First and
// continuation lines get the same text width; continuation lines are only
// visually indented by the gutter, not given less text space.
func NewConfig(contentAreaWidth, gutterWidth int, hasScrollbar bool) Config {
	scrollbarWidth := 0
	if hasScrollbar {
		scrollbarWidth = 1
	}
	textAreaWidth := saturatingSub(saturatingSub(contentAreaWidth, scrollbarWidth), gutterWidth)
	return Config{
		FirstLineWidth:        textAreaWidth,
		ContinuationLineWidth: textAreaWidth,
		GutterWidth:           gutterWidth,
	}
}

// NoWrapConfig returns a configuration that never wraps.
func NoWrapConfig(gutterWidth int) Config {
	return Config{
		FirstLineWidth:        maxInt,
		ContinuationLineWidth: maxInt,
		GutterWidth:           gutterWidth,
	}
}

const maxInt = int(^uint(0) >> 1)

func saturatingSub(a, b int) int {
	if b >= a {
		return 0
	}
	return a - b
}

// WrapLine splits text into segments no wider than cfg's configured widths.
// An empty line always produces exactly one empty, non-continuation segment.
func WrapLine(text string, cfg Config) []Segment {
	if text == "" {
		return []Segment{{Text: "", IsContinuation: false, StartCharOffset: 0, EndCharOffset: 0}}
	}

	chars := []rune(text)
	var segments []Segment
	pos := 0
	isFirst := true

	for pos < len(chars) {
		width := cfg.ContinuationLineWidth
		if isFirst {
			width = cfg.FirstLineWidth
		}

		segmentStart := pos
		segmentLen := 0
		for segmentLen < width && pos < len(chars) {
			segmentLen++
			pos++
		}

		segments = append(segments, Segment{
			Text:            string(chars[segmentStart:pos]),
			IsContinuation:  !isFirst,
			StartCharOffset: segmentStart,
			EndCharOffset:   pos,
		})
		isFirst = false
	}

	if len(segments) == 0 {
		segments = append(segments, Segment{Text: "", IsContinuation: false, StartCharOffset: 0, EndCharOffset: 0})
	}

	return segments
}

// CharPositionToSegment finds which segment contains charPos (a character
// position in the original, unwrapped line) and the column within that
// segment's text. Positions at or beyond the end of the last segment clamp to
// the last segment's final column.
func CharPositionToSegment(charPos int, segments []Segment) (segmentIdx, columnInSegment int) {
	if len(segments) == 0 {
		return 0, 0
	}

	for i, seg := range segments {
		if charPos >= seg.StartCharOffset && charPos < seg.EndCharOffset {
			offsetInRange := charPos - seg.StartCharOffset

			segTextLen := len([]rune(seg.Text))
			rangeLen := seg.EndCharOffset - seg.StartCharOffset
			whitespaceSkipped := rangeLen - segTextLen

			col := offsetInRange - whitespaceSkipped
			if col < 0 {
				col = 0
			}
			return i, col
		}
	}

	lastIdx := len(segments) - 1
	lastLen := len([]rune(segments[lastIdx].Text))
	return lastIdx, lastLen
}
