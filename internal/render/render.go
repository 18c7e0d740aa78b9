// ABOUTME: Renders a split leaf's visible viewport into a styled internal/termbuf.Buffer cell grid
// ABOUTME: Per spec.md §4.13: tokenize the viewport, wrap per logical line, composite overlays and cursors

package render

import (
	"unicode/utf8"

	"github.com/fresheditor/fresh/internal/cursor"
	"github.com/fresheditor/fresh/internal/docevent"
	"github.com/fresheditor/fresh/internal/hooks"
	"github.com/fresheditor/fresh/internal/lineindex"
	"github.com/fresheditor/fresh/internal/overlay"
	"github.com/fresheditor/fresh/internal/splitview"
	"github.com/fresheditor/fresh/internal/termbuf"
	"github.com/fresheditor/fresh/internal/textbuffer"
	"github.com/fresheditor/fresh/internal/wrap"
	"github.com/fresheditor/fresh/pkg/theme"
)

// Options gathers everything Render needs to turn one split leaf into a
// cell grid.
type Options struct {
	View         *splitview.State
	Overlays     []overlay.Overlay
	Cursors      []cursor.Cursor
	Active       bool // true if this leaf holds input focus
	WrapEnabled  bool
	GutterWidth  int
	HasScrollbar bool
	Palette      theme.Palette
}

// Render produces the cell grid for the viewport described by opts. The
// caller owns the returned buffer and must Release it via internal/termbuf
// once the frame is flushed to the terminal backend.
func Render(opts Options) *termbuf.Buffer {
	vp := opts.View.Editor.Viewport
	buf := opts.View.Editor.Buffer

	var cfg wrap.Config
	if opts.WrapEnabled {
		cfg = wrap.NewConfig(vp.Width, opts.GutterWidth, opts.HasScrollbar)
	} else {
		cfg = wrap.NoWrapConfig(opts.GutterWidth)
	}

	out := termbuf.Acquire(vp.Width, vp.Height)

	row := 0
	for line := vp.TopLine; row < vp.Height && line < buf.LineCount(); line++ {
		text, offsets := decodeLine(buf, line)
		segments := wrap.WrapLine(text, cfg)
		for _, seg := range segments {
			if row >= vp.Height {
				break
			}
			renderSegment(out, row, seg, offsets, opts)
			row++
		}
	}

	return out
}

// decodeLine returns the logical line's text (newline stripped) and a
// parallel slice mapping each rune index to its absolute byte offset in the
// buffer. offsets has one extra trailing entry for the offset just past the
// last rune, so callers can always index offsets[charIdx] safely for
// charIdx in [0, len(runes)].
func decodeLine(buf *textbuffer.Buffer, line int) (string, []int) {
	raw := buf.GetLine(line)
	lineStart := buf.PositionToOffset(lineindex.Position{Line: line, Column: 0})

	content := raw
	if n := len(content); n > 0 && content[n-1] == '\n' {
		content = content[:n-1]
	}

	runes := make([]rune, 0, len(content))
	offsets := make([]int, 0, len(content)+1)
	i := 0
	for i < len(content) {
		r, size := utf8.DecodeRune(content[i:])
		if r == utf8.RuneError && size <= 1 {
			r = '�'
			size = 1
		}
		offsets = append(offsets, lineStart+i)
		runes = append(runes, r)
		i += size
	}
	offsets = append(offsets, lineStart+i)

	return string(runes), offsets
}

// renderSegment writes one wrapped visual line into row, styling each cell
// from the overlays covering its source byte and drawing the cursor glyph
// where opts.Active and a cursor sits on that byte.
func renderSegment(out *termbuf.Buffer, row int, seg wrap.Segment, offsets []int, opts Options) {
	col := opts.GutterWidth
	runes := []rune(seg.Text)
	for i, ch := range runes {
		charIdx := seg.StartCharOffset + i
		if charIdx >= len(offsets) {
			break
		}
		byteOff := offsets[charIdx]
		out.Set(col, row, cellFor(ch, byteOff, opts))
		col++
	}
}

func cellFor(ch rune, byteOff int, opts Options) termbuf.Cell {
	bg, fg, attrs := mergeOverlays(opts.Overlays, byteOff, opts.Palette)

	if opts.Active && cursorAt(opts.Cursors, byteOff) {
		return termbuf.Cell{
			Glyph: ch,
			Fg:    fg,
			Bg:    termbuf.Color{}, // backend inverts via Attrs.Reverse, not an explicit bg
			Attrs: attrs.Merge(termbuf.Attrs{Reverse: true}),
		}
	}

	return termbuf.Cell{Glyph: ch, Fg: fg, Bg: bg, Attrs: attrs}
}

// cursorAt reports whether any cursor's own position (not its selection
// range) is exactly byteOff. A cursor's own cell is never painted with its
// selection's background, per spec.md §4.13.
func cursorAt(cursors []cursor.Cursor, byteOff int) bool {
	for _, c := range cursors {
		if c.Position == byteOff {
			return true
		}
	}
	return false
}

// mergeOverlays resolves the cell styling at byteOff: the background comes
// from the single highest-priority overlay covering the byte (selection
// included, at its reserved priority); the foreground comes from that same
// winner; text attributes are OR-merged across every overlay covering the
// byte, per spec.md §4.13.
func mergeOverlays(overlays []overlay.Overlay, byteOff int, pal theme.Palette) (bg termbuf.Color, fg termbuf.Color, attrs termbuf.Attrs) {
	fg = toTermbufColor(pal.Primary)

	var winner *overlay.Overlay
	for i := range overlays {
		ov := &overlays[i]
		if !covers(ov.Range, byteOff) {
			continue
		}
		_, a := faceStyle(ov.Face, pal)
		attrs = attrs.Merge(a)

		if winner == nil || ov.Priority > winner.Priority {
			winner = ov
		}
	}

	if winner != nil {
		fgColor, _ := faceStyle(winner.Face, pal)
		fg = toTermbufColor(fgColor)
		bg = toTermbufColor(faceBackground(winner.Face, pal))
	}

	return bg, fg, attrs
}

func covers(r docevent.Range, byteOff int) bool {
	return byteOff >= r.Start && byteOff < r.End
}

// faceStyle maps a decoration face to a foreground color and text
// attributes. Background handling is separate (faceBackground) since
// selection's defining characteristic is its background, not its text
// color.
func faceStyle(face docevent.Face, pal theme.Palette) (theme.Color, termbuf.Attrs) {
	switch face {
	case docevent.FaceSelection:
		return pal.Primary, termbuf.Attrs{}
	case docevent.FaceSearch:
		return pal.Accent, termbuf.Attrs{Bold: true}
	case docevent.FaceError:
		return pal.Error, termbuf.Attrs{Underline: true}
	case docevent.FaceWarning:
		return pal.Warning, termbuf.Attrs{}
	case docevent.FaceInfo:
		return pal.Info, termbuf.Attrs{}
	case docevent.FaceDiagnostic:
		return pal.Diagnostic, termbuf.Attrs{Underline: true}
	default:
		return pal.Primary, termbuf.Attrs{}
	}
}

func toTermbufColor(c theme.Color) termbuf.Color {
	return termbuf.Color{Code: c.Code()}
}

// faceBackground returns the background color a face paints. Only
// selection carries a background; every other face styles text color and
// attributes instead, leaving the background untouched.
func faceBackground(face docevent.Face, pal theme.Palette) theme.Color {
	if face == docevent.FaceSelection {
		return pal.Selection
	}
	return theme.Color{}
}

// Tokenize splits content into the base token stream a hook's
// view_transform_request may rewrite, per spec.md §4.10 and §4.13. Only
// Text, Newline, Space and BinaryByte are produced here; Break is reserved
// for hook-installed soft-wrap hints and is never emitted by the base
// tokenizer.
func Tokenize(content []byte, baseOffset int) []hooks.TokenSpan {
	var spans []hooks.TokenSpan
	var textStart int
	var text []byte

	flushText := func(end int) {
		if len(text) == 0 {
			return
		}
		spans = append(spans, hooks.TokenSpan{SourceOffset: baseOffset + textStart, Token: hooks.TextToken(string(text))})
		text = nil
	}

	i := 0
	for i < len(content) {
		b := content[i]
		switch {
		case b == '\n':
			flushText(i)
			spans = append(spans, hooks.TokenSpan{SourceOffset: baseOffset + i, Token: hooks.NewlineToken})
			i++
		case b == ' ':
			flushText(i)
			spans = append(spans, hooks.TokenSpan{SourceOffset: baseOffset + i, Token: hooks.SpaceToken})
			i++
		case b < 0x20 || b == 0x7f:
			flushText(i)
			spans = append(spans, hooks.TokenSpan{SourceOffset: baseOffset + i, Token: hooks.BinaryByteToken(b)})
			i++
		default:
			r, size := utf8.DecodeRune(content[i:])
			if r == utf8.RuneError && size <= 1 {
				flushText(i)
				spans = append(spans, hooks.TokenSpan{SourceOffset: baseOffset + i, Token: hooks.BinaryByteToken(b)})
				i++
				continue
			}
			if len(text) == 0 {
				textStart = i
			}
			text = append(text, content[i:i+size]...)
			i += size
		}
	}
	flushText(i)

	return spans
}
