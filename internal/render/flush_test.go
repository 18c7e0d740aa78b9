package render

import (
	"fmt"
	"strings"
	"testing"

	"github.com/fresheditor/fresh/internal/termbuf"
)

func TestFlushRendersGlyphsPlain(t *testing.T) {
	buf := termbuf.Acquire(3, 1)
	defer termbuf.Release(buf)
	buf.Set(0, 0, termbuf.Cell{Glyph: 'a'})
	buf.Set(1, 0, termbuf.Cell{Glyph: 'b'})
	buf.Set(2, 0, termbuf.Cell{Glyph: 'c'})

	rows := Flush(buf)
	if len(rows) != 1 {
		t.Fatalf("len(rows) = %d, want 1", len(rows))
	}
	if !strings.Contains(rows[0], "abc") {
		t.Fatalf("row = %q, want it to contain \"abc\"", rows[0])
	}
}

func TestCellStyleCarriesBoldAttr(t *testing.T) {
	c := termbuf.Cell{Glyph: 'x', Attrs: termbuf.Attrs{Bold: true}}
	if !cellStyle(c).GetBold() {
		t.Fatal("cellStyle() should carry Bold from the cell's Attrs")
	}
}

func TestCellStyleCarriesForegroundFrom256Color(t *testing.T) {
	c := termbuf.Cell{Glyph: 'x', Fg: termbuf.Color{Code: "\x1b[38;5;208m"}}
	got := fmt.Sprintf("%v", cellStyle(c).GetForeground())
	if got != "208" {
		t.Fatalf("cellStyle() foreground = %v, want 208", got)
	}
}

func TestExtractColor256(t *testing.T) {
	if got := extractColor("\x1b[38;5;208m"); got != "208" {
		t.Fatalf("extractColor() = %q, want %q", got, "208")
	}
}

func TestExtractColorBasic(t *testing.T) {
	if got := extractColor("\x1b[32m"); got != "2" {
		t.Fatalf("extractColor() = %q, want %q", got, "2")
	}
}

func TestExtractColorAttributeOnlyIsEmpty(t *testing.T) {
	if got := extractColor("\x1b[1m"); got != "" {
		t.Fatalf("extractColor() = %q, want empty", got)
	}
}
