// ABOUTME: Turns a rendered internal/termbuf.Buffer into ANSI-styled row strings for the terminal backend
// ABOUTME: Adapted from the SGR-parsing lipgloss bridge: each cell's Color.Code is an ANSI escape, not a hex code

package render

import (
	"reflect"
	"regexp"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/fresheditor/fresh/internal/termbuf"
)

var sgrRe = regexp.MustCompile(`\x1b\[([\d;]+)m`)

// extractColor parses an ANSI SGR escape code and returns the lipgloss color
// spec it names ("" if the code carries no color, e.g. a bare bold/dim
// attribute).
func extractColor(code string) string {
	var result string
	for _, m := range sgrRe.FindAllStringSubmatch(code, -1) {
		if c := colorFromParams(strings.Split(m[1], ";")); c != "" {
			result = c
		}
	}
	return result
}

func colorFromParams(params []string) string {
	if len(params) >= 3 && (params[0] == "38" || params[0] == "48") && params[1] == "5" {
		return params[2]
	}
	if len(params) == 1 {
		if n, err := strconv.Atoi(params[0]); err == nil {
			return basicColorToSpec(n)
		}
	}
	return ""
}

func basicColorToSpec(n int) string {
	switch {
	case n >= 30 && n <= 37:
		return strconv.Itoa(n - 30)
	case n >= 40 && n <= 47:
		return strconv.Itoa(n - 40)
	case n >= 90 && n <= 97:
		return strconv.Itoa(n - 90 + 8)
	case n >= 100 && n <= 107:
		return strconv.Itoa(n - 100 + 8)
	default:
		return ""
	}
}

// cellStyle builds the lipgloss.Style for one cell, folding its Fg/Bg ANSI
// codes and the cell's own Attrs together (a cell's Attrs always apply,
// independent of whatever attribute bits happened to ride along in the raw
// color code).
func cellStyle(c termbuf.Cell) lipgloss.Style {
	s := lipgloss.NewStyle()
	if fg := extractColor(c.Fg.Code); fg != "" {
		s = s.Foreground(lipgloss.Color(fg))
	}
	if bg := extractColor(c.Bg.Code); bg != "" {
		s = s.Background(lipgloss.Color(bg))
	}
	if c.Attrs.Bold {
		s = s.Bold(true)
	}
	if c.Attrs.Dim {
		s = s.Faint(true)
	}
	if c.Attrs.Italic {
		s = s.Italic(true)
	}
	if c.Attrs.Underline {
		s = s.Underline(true)
	}
	if c.Attrs.Reverse {
		s = s.Reverse(true)
	}
	return s
}

// Flush renders every row of buf into an ANSI-styled string, one per row,
// ready for a terminal backend to write directly. Adjacent cells sharing
// identical style are coalesced into a single styled run so the output
// doesn't re-emit an escape sequence per character.
func Flush(buf *termbuf.Buffer) []string {
	rows := make([]string, buf.Height)
	for row := 0; row < buf.Height; row++ {
		rows[row] = flushRow(buf, row)
	}
	return rows
}

func flushRow(buf *termbuf.Buffer, row int) string {
	var b strings.Builder

	var runStyle lipgloss.Style
	var run strings.Builder
	haveRun := false

	flush := func() {
		if !haveRun {
			return
		}
		b.WriteString(runStyle.Render(run.String()))
		run.Reset()
		haveRun = false
	}

	for col := 0; col < buf.Width; col++ {
		cell := buf.At(col, row)
		style := cellStyle(cell)
		if haveRun && !reflect.DeepEqual(style, runStyle) {
			flush()
		}
		runStyle = style
		haveRun = true
		run.WriteRune(cell.Glyph)
	}
	flush()

	return b.String()
}
