package render

import (
	"strings"
	"testing"

	"github.com/fresheditor/fresh/internal/cursor"
	"github.com/fresheditor/fresh/internal/docevent"
	"github.com/fresheditor/fresh/internal/editorstate"
	"github.com/fresheditor/fresh/internal/overlay"
	"github.com/fresheditor/fresh/internal/splitview"
	"github.com/fresheditor/fresh/internal/termbuf"
	"github.com/fresheditor/fresh/internal/textbuffer"
	"github.com/fresheditor/fresh/pkg/theme"
)

func newView(t *testing.T, content string, width, height int) *splitview.State {
	t.Helper()
	buf := textbuffer.New([]byte(content), textbuffer.Metadata{})
	state := editorstate.New(buf, 1)
	state.Viewport = editorstate.Viewport{Height: height, Width: width}
	return splitview.New(state, "buf")
}

func TestRenderPlainTextFillsGlyphs(t *testing.T) {
	view := newView(t, "hi\nthere", 10, 2)
	buf := Render(Options{View: view, Active: false, Palette: theme.DefaultPalette()})
	defer termbuf.Release(buf)

	if got := buf.At(0, 0).Glyph; got != 'h' {
		t.Fatalf("At(0,0) = %q, want 'h'", got)
	}
	if got := buf.At(1, 0).Glyph; got != 'i' {
		t.Fatalf("At(1,0) = %q, want 'i'", got)
	}
	if got := buf.At(0, 1).Glyph; got != 't' {
		t.Fatalf("At(0,1) = %q, want 't'", got)
	}
}

func TestRenderAppliesGutterOffset(t *testing.T) {
	view := newView(t, "x", 10, 1)
	buf := Render(Options{View: view, GutterWidth: 3, Palette: theme.DefaultPalette()})
	defer termbuf.Release(buf)

	if got := buf.At(3, 0).Glyph; got != 'x' {
		t.Fatalf("At(3,0) = %q, want 'x' (gutter should offset column)", got)
	}
	if got := buf.At(0, 0).Glyph; got != ' ' {
		t.Fatalf("At(0,0) = %q, want blank under the gutter", got)
	}
}

func TestRenderDrawsCursorOnlyWhenActive(t *testing.T) {
	view := newView(t, "abc", 10, 1)
	cursors := []cursor.Cursor{{ID: 1, Position: 1}}

	inactive := Render(Options{View: view, Cursors: cursors, Active: false, Palette: theme.DefaultPalette()})
	defer termbuf.Release(inactive)
	if inactive.At(1, 0).Attrs.Reverse {
		t.Fatal("inactive leaf should not draw a reversed cursor cell")
	}

	active := Render(Options{View: view, Cursors: cursors, Active: true, Palette: theme.DefaultPalette()})
	defer termbuf.Release(active)
	if !active.At(1, 0).Attrs.Reverse {
		t.Fatal("active leaf should draw the cursor cell reversed")
	}
}

func TestRenderSelectionBackgroundExcludesCursorCell(t *testing.T) {
	view := newView(t, "abcdef", 10, 1)
	overlays := []overlay.Overlay{
		{ID: "sel", Range: docevent.Range{Start: 1, End: 4}, Face: docevent.FaceSelection, Priority: 100},
	}
	cursors := []cursor.Cursor{{ID: 1, Position: 1}}

	buf := Render(Options{View: view, Overlays: overlays, Cursors: cursors, Active: true, Palette: theme.DefaultPalette()})
	defer termbuf.Release(buf)

	if buf.At(1, 0).Bg.Code != "" {
		t.Fatalf("cursor's own cell should not carry the selection background, got %+v", buf.At(1, 0))
	}
	if buf.At(2, 0).Bg.Code == "" {
		t.Fatalf("cell covered by selection but not the cursor should carry the selection background")
	}
}

func TestRenderWrapsLongLines(t *testing.T) {
	view := newView(t, "abcdefghij", 4, 3)
	buf := Render(Options{View: view, WrapEnabled: true, Palette: theme.DefaultPalette()})
	defer termbuf.Release(buf)

	if got := buf.At(0, 0).Glyph; got != 'a' {
		t.Fatalf("row 0 should start the logical line, got %q", got)
	}
	if got := buf.At(0, 1).Glyph; got != 'e' {
		t.Fatalf("row 1 should continue the wrapped line, got %q", got)
	}
}

func TestTokenizeProducesExpectedKinds(t *testing.T) {
	spans := Tokenize([]byte("ab c\n"), 10)

	var kinds []string
	for _, s := range spans {
		kinds = append(kinds, s.Token.Kind)
	}
	want := "Text,Space,Text,Newline"
	if got := strings.Join(kinds, ","); got != want {
		t.Fatalf("Tokenize kinds = %q, want %q", got, want)
	}
	if spans[0].SourceOffset != 10 {
		t.Fatalf("first span offset = %d, want 10", spans[0].SourceOffset)
	}
}

func TestTokenizeEmitsBinaryByteForControlChars(t *testing.T) {
	spans := Tokenize([]byte("a\x01b"), 0)
	if len(spans) != 3 {
		t.Fatalf("len(spans) = %d, want 3", len(spans))
	}
	if spans[1].Token.Kind != "BinaryByte" || spans[1].Token.Byte != 0x01 {
		t.Fatalf("spans[1] = %+v, want BinaryByte(0x01)", spans[1])
	}
}
