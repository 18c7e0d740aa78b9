// ABOUTME: Markdown preview renderer for splitview.ModePreview leaves, wrapping glamour
// ABOUTME: Rendered output is cached by content hash and width, then laid into a termbuf.Buffer

package render

import (
	"crypto/sha256"
	"fmt"
	"strings"
	"sync"

	"github.com/charmbracelet/glamour"

	"github.com/fresheditor/fresh/internal/splitview"
	"github.com/fresheditor/fresh/internal/termbuf"
)

// MarkdownRenderer wraps glamour to render a buffer's full text as styled
// Markdown, caching the result by content hash and viewport width so an
// unchanged preview leaf never re-renders on every frame.
type MarkdownRenderer struct {
	mu    sync.Mutex
	cache map[string]string // "hash:width" -> rendered
}

// NewMarkdownRenderer creates a MarkdownRenderer with an empty cache.
func NewMarkdownRenderer() *MarkdownRenderer {
	return &MarkdownRenderer{cache: make(map[string]string)}
}

// RenderMarkdown returns the terminal-styled rendering of md wrapped to
// width columns. A glamour construction or render failure falls back to the
// raw, unstyled text rather than failing the frame.
func (r *MarkdownRenderer) RenderMarkdown(md string, width int) string {
	if md == "" {
		return ""
	}
	if width <= 0 {
		width = 80
	}

	key := previewCacheKey(md, width)

	r.mu.Lock()
	if cached, ok := r.cache[key]; ok {
		r.mu.Unlock()
		return cached
	}
	r.mu.Unlock()

	// The "notty" style renders Markdown structure (headings, lists, code
	// fences, emphasis spacing) without emitting ANSI color escapes: a
	// termbuf.Cell carries its own Fg/Bg/Attrs, so inline-styled glyphs
	// would corrupt the grid rather than render.
	renderer, err := glamour.NewTermRenderer(
		glamour.WithStylePath("notty"),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return md
	}

	rendered, err := renderer.Render(md)
	if err != nil {
		return md
	}
	rendered = strings.TrimRight(rendered, "\n ")

	r.mu.Lock()
	r.cache[key] = rendered
	r.mu.Unlock()

	return rendered
}

func previewCacheKey(content string, width int) string {
	h := sha256.Sum256([]byte(content))
	return fmt.Sprintf("%x:%d", h[:8], width)
}

// RenderPreview produces the cell grid for a splitview.State whose ViewMode
// is splitview.ModePreview: the buffer's full text is rendered as Markdown
// and laid into the viewport one visual row per rendered line, top-aligned
// and clipped to the viewport height. Horizontal scrolling does not apply to
// preview mode; glamour has already wrapped to the viewport width.
func RenderPreview(r *MarkdownRenderer, view *splitview.State) *termbuf.Buffer {
	vp := view.Editor.Viewport
	out := termbuf.Acquire(vp.Width, vp.Height)

	source := string(view.Editor.Buffer.Bytes())
	rendered := r.RenderMarkdown(source, vp.Width)
	if rendered == "" {
		return out
	}

	lines := strings.Split(rendered, "\n")
	for row := 0; row < vp.Height && row < len(lines); row++ {
		col := 0
		for _, ch := range lines[row] {
			if col >= vp.Width {
				break
			}
			out.Set(col, row, termbuf.Cell{Glyph: ch})
			col++
		}
	}

	return out
}
