// ABOUTME: Wires every editor package into one running instance and dispatches actions
// ABOUTME: App.OnMessage and App.Render are the two callbacks internal/editorloop.Loop drives

package main

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync/atomic"

	"github.com/fresheditor/fresh/internal/clipboard"
	"github.com/fresheditor/fresh/internal/collabqueue"
	"github.com/fresheditor/fresh/internal/config"
	"github.com/fresheditor/fresh/internal/docevent"
	"github.com/fresheditor/fresh/internal/editorerr"
	"github.com/fresheditor/fresh/internal/editorstate"
	"github.com/fresheditor/fresh/internal/fileio"
	"github.com/fresheditor/fresh/internal/hooks"
	"github.com/fresheditor/fresh/internal/keymap"
	"github.com/fresheditor/fresh/internal/mapper"
	"github.com/fresheditor/fresh/internal/palette"
	"github.com/fresheditor/fresh/internal/prompt"
	"github.com/fresheditor/fresh/internal/render"
	"github.com/fresheditor/fresh/internal/sessionstate"
	"github.com/fresheditor/fresh/internal/splittree"
	"github.com/fresheditor/fresh/internal/splitview"
	"github.com/fresheditor/fresh/internal/termbuf"
	"github.com/fresheditor/fresh/internal/textbuffer"
	"github.com/fresheditor/fresh/pkg/theme"
)

// buffer bundles one open document's mutable state with the pieces that
// aren't already owned by editorstate.State.
type buffer struct {
	state  *editorstate.State
	log    *docevent.Log
	hookID int
}

// App owns every open buffer, the split layout, and the outer-shell-only
// actions mapper.ActionToEvents can't express.
type App struct {
	Settings *config.Settings
	Tree     *splittree.Tree
	Queue    *collabqueue.Queue[mapper.Action]

	KeyMap    *keymap.Manager
	Clipboard *clipboard.Clipboard
	Palette   *palette.Registry
	Hooks     *hooks.Registry
	Preview   *render.MarkdownRenderer
	Theme     theme.Palette

	buffers map[string]*buffer  // bufferID -> buffer
	views   map[int]*splitview.State // splitID -> view

	prompt *prompt.Prompt

	nextHookID int
	quit       bool
	quitErr    error

	// cancel stops the editor loop once OnMessage sets quit. It's only
	// ever called from the editor thread (inside dispatchCommand), so
	// calling the context.CancelFunc itself (safe from any goroutine)
	// never races with a.quit/a.quitErr.
	cancel func()

	// termWidth/termHeight are updated from the SIGWINCH resize goroutine
	// via atomic stores only; the render frame (editor thread) is the only
	// reader and the only thing that ever applies them to view state.
	termWidth  atomic.Int32
	termHeight atomic.Int32
}

// NewApp constructs an App with a single split showing path's buffer.
func NewApp(settings *config.Settings, path string, nl textbuffer.NewlineStyle, content []byte, width, height int) (*App, error) {
	a := &App{
		Settings:  settings,
		Queue:     collabqueue.New[mapper.Action](256),
		Clipboard: clipboard.New(false),
		Palette:   palette.NewRegistry(),
		Hooks:     hooks.NewRegistry(),
		Preview:   render.NewMarkdownRenderer(),
		Theme:     resolveTheme(settings.Theme),
		buffers:   make(map[string]*buffer),
		views:     make(map[int]*splitview.State),
	}

	a.KeyMap = keymap.New(keymap.GlobalBindingsFile(), keymap.LocalBindingsFile(projectRoot()))

	buf := a.openBuffer(path, content, textbuffer.Metadata{
		FilePath:                path,
		NewlineStyle:            nl,
		LargeFileThresholdBytes: settings.LargeFileThresholdBytes,
	})

	a.Tree = splittree.New(path)
	view := splitview.New(buf.state, path)
	view.SetViewportSize(height, width)
	a.views[a.Tree.ActiveSplitID()] = view

	a.registerBuiltinCommands()

	return a, nil
}

// resolveTheme turns Settings.Theme into a Palette: a built-in name wins
// first, then the string is tried as a custom JSON theme file (as given,
// then under config.ThemesDir() with a .json suffix). Anything that doesn't
// resolve falls back to DefaultPalette rather than failing startup.
func resolveTheme(name string) theme.Palette {
	if name == "" {
		return theme.DefaultPalette()
	}
	if bt := theme.Builtin(name); bt != nil {
		return bt.Palette
	}
	if th, err := theme.LoadFile(name); err == nil {
		return th.Palette
	}
	if th, err := theme.LoadFile(filepath.Join(config.ThemesDir(), name+".json")); err == nil {
		return th.Palette
	}
	return theme.DefaultPalette()
}

// registerBuiltinCommands fills the command palette with the same actions
// bound in the default keymap, so every binding is also reachable by name.
func (a *App) registerBuiltinCommands() {
	run := func(kind mapper.Kind) func(string) (string, error) {
		return func(string) (string, error) {
			a.dispatchCommand(mapper.Simple(kind))
			return "", nil
		}
	}

	a.Palette.Register(palette.Command{Name: "save", Description: "Save the active buffer", Enabled: true, Run: run(mapper.ActionSave)})
	a.Palette.Register(palette.Command{Name: "undo", Description: "Undo the last edit", Enabled: true, Run: run(mapper.ActionUndo)})
	a.Palette.Register(palette.Command{Name: "redo", Description: "Redo the last undone edit", Enabled: true, Run: run(mapper.ActionRedo)})
	a.Palette.Register(palette.Command{Name: "quit", Description: "Quit the editor", Enabled: true, Run: run(mapper.ActionQuit)})
	a.Palette.Register(palette.Command{Name: "copy", Description: "Copy the current selection", Enabled: true, Run: run(mapper.ActionCopy)})
	a.Palette.Register(palette.Command{Name: "cut", Description: "Cut the current selection", Enabled: true, Run: run(mapper.ActionCut)})
	a.Palette.Register(palette.Command{Name: "paste", Description: "Paste the clipboard contents", Enabled: true, Run: run(mapper.ActionPaste)})
	a.Palette.Register(palette.Command{Name: "help", Description: "Toggle the key binding reference", Enabled: true, Run: run(mapper.ActionToggleHelp)})
	a.Palette.Register(palette.Command{Name: "split-horizontal", Description: "Split the active view horizontally", Enabled: true, Run: run(mapper.ActionSplitHorizontal)})
	a.Palette.Register(palette.Command{Name: "split-vertical", Description: "Split the active view vertically", Enabled: true, Run: run(mapper.ActionSplitVertical)})
	a.Palette.Register(palette.Command{Name: "close-split", Description: "Close the active split", Enabled: true, Run: run(mapper.ActionCloseSplit)})
	a.Palette.Register(palette.Command{Name: "next-split", Description: "Focus the next split", Enabled: true, Run: run(mapper.ActionNextSplit)})
	a.Palette.Register(palette.Command{Name: "prev-split", Description: "Focus the previous split", Enabled: true, Run: run(mapper.ActionPrevSplit)})
	a.Palette.Register(palette.Command{Name: "open", Description: "Open a file by path", Enabled: true, Run: func(args string) (string, error) {
		if args == "" {
			return "", fmt.Errorf("open: missing path")
		}
		a.openPath(args)
		return "", nil
	}})
}

func projectRoot() string {
	dir, err := os.Getwd()
	if err != nil {
		return "."
	}
	return dir
}

// openBuffer registers a freshly-loaded buffer under bufferID, creating its
// editorstate.State and undo/redo log.
func (a *App) openBuffer(bufferID string, content []byte, meta textbuffer.Metadata) *buffer {
	tb := textbuffer.New(content, meta)
	state := editorstate.New(tb, 1)

	a.nextHookID++
	b := &buffer{state: state, log: docevent.NewLog(), hookID: a.nextHookID}
	a.buffers[bufferID] = b

	a.Hooks.RunHooks("AfterFileOpen", hooks.AfterFileOpen{Path: meta.FilePath, BufferID: b.hookID})
	return b
}

// activeView returns the splitview.State for the tree's currently active
// split.
func (a *App) activeView() *splitview.State {
	return a.views[a.Tree.ActiveSplitID()]
}

// activeBufferID resolves the buffer id the active leaf is showing.
func (a *App) activeBufferID() string {
	for _, leaf := range a.Tree.Leaves() {
		if leaf.SplitID == a.Tree.ActiveSplitID() {
			return leaf.BufferID
		}
	}
	return ""
}

func (a *App) activeBuffer() *buffer {
	return a.buffers[a.activeBufferID()]
}

// OnMessage applies one action. It is only ever called from the editor
// loop's own goroutine, per spec.md §5.
func (a *App) OnMessage(action mapper.Action) {
	if a.prompt != nil {
		a.dispatchPrompt(action)
		return
	}
	if mapper.IsEventAction(action.Kind) {
		a.dispatchEvent(action)
		return
	}
	a.dispatchCommand(action)
}

// dispatchPrompt reinterprets action for the active minibuffer prompt
// instead of the editor. It must run on the editor thread, since a.prompt
// is only ever read or mutated from here and from togglePrompt.
func (a *App) dispatchPrompt(action mapper.Action) {
	p := a.prompt
	switch action.Kind {
	case mapper.ActionInsertChar:
		p.InsertRune(action.Char)
	case mapper.ActionInsertText:
		for _, r := range action.Text {
			p.InsertRune(r)
		}
	case mapper.ActionDeleteBackward:
		p.DeleteBackward()
	case mapper.ActionDeleteForward:
		p.DeleteForward()
	case mapper.ActionMoveLeft:
		p.MoveLeft()
	case mapper.ActionMoveRight:
		p.MoveRight()
	case mapper.ActionMoveLineStart:
		p.MoveHome()
	case mapper.ActionMoveLineEnd:
		p.MoveEnd()
	case mapper.ActionMoveUp:
		p.SelectPrev()
	case mapper.ActionMoveDown:
		p.SelectNext()
	case mapper.ActionInsertNewline:
		a.commitPrompt()
	case mapper.ActionRemoveSecondaryCursors, mapper.ActionTogglePrompt:
		a.prompt = nil
	}
}

// commitPrompt resolves the active prompt's input, runs it if it names a
// command or a path, and closes the prompt either way.
func (a *App) commitPrompt() {
	p := a.prompt
	p.CommitSelected()
	text := p.InputText()
	promptType := p.PromptType
	a.prompt = nil

	if text == "" {
		return
	}

	switch promptType {
	case prompt.TypeCommand:
		name, args, _ := strings.Cut(text, " ")
		if _, err := a.Palette.Run(name, args); err != nil {
			editorerr.LogIgnorable(editorerr.Wrap(editorerr.Ignorable, editorerr.KindUnknownCommand, "command failed", err))
		}
	case prompt.TypeFile:
		a.openPath(text)
	}
}

func (a *App) dispatchEvent(action mapper.Action) {
	view := a.activeView()
	buf := a.activeBuffer()
	if view == nil || buf == nil {
		return
	}

	events, ok := mapper.ActionToEvents(view.Editor, action)
	if !ok {
		return
	}
	for _, e := range events {
		view.Editor.Apply(e)
		buf.log.Append(e)
	}
	view.MarkLayoutDirty()
}

func (a *App) dispatchCommand(action mapper.Action) {
	switch action.Kind {
	case mapper.ActionSave:
		a.save()
	case mapper.ActionOpen:
		a.prompt = prompt.New("Open file:", prompt.TypeFile, nil)
	case mapper.ActionQuit:
		a.quit = true
		if a.cancel != nil {
			a.cancel()
		}
	case mapper.ActionUndo:
		a.undo()
	case mapper.ActionRedo:
		a.redo()
	case mapper.ActionCopy:
		a.copySelections()
	case mapper.ActionCut:
		a.cutSelections()
	case mapper.ActionPaste:
		a.paste()
	case mapper.ActionTogglePrompt:
		a.togglePrompt()
	case mapper.ActionToggleHelp:
		a.toggleHelp()
	case mapper.ActionSplitHorizontal:
		a.split(splittree.Horizontal)
	case mapper.ActionSplitVertical:
		a.split(splittree.Vertical)
	case mapper.ActionCloseSplit:
		a.Tree.CloseSplit(a.Tree.ActiveSplitID())
	case mapper.ActionNextSplit:
		a.Tree.NextSplit()
	case mapper.ActionPrevSplit:
		a.Tree.PrevSplit()
	}
}

func (a *App) save() {
	view := a.activeView()
	buf := a.activeBuffer()
	bufID := a.activeBufferID()
	if view == nil || buf == nil || bufID == "" {
		return
	}

	if !a.Hooks.RunHooks("BeforeFileSave", hooks.BeforeFileSave{BufferID: buf.hookID, Path: bufID}) {
		return
	}

	data := view.Editor.Buffer.Bytes()
	if err := fileio.WriteFile(bufID, data, 0o644); err != nil {
		editorerr.LogIgnorable(editorerr.Wrap(editorerr.Recoverable, editorerr.KindWriteFailed, "save failed", err))
		return
	}
	view.Editor.Buffer.SetDirty(false)
	a.Hooks.RunHooks("AfterFileSave", hooks.AfterFileSave{BufferID: buf.hookID, Path: bufID})
}

// openPath opens path into a new buffer and retargets the active split's
// leaf at it. A path already open in a.buffers is a no-op.
func (a *App) openPath(path string) {
	if _, exists := a.buffers[path]; exists {
		return
	}

	a.Hooks.RunHooks("BeforeFileOpen", hooks.BeforeFileOpen{Path: path})
	res, err := fileio.ReadFile(path)
	if err != nil {
		editorerr.LogIgnorable(editorerr.Wrap(editorerr.Recoverable, editorerr.KindFileNotFound, "open failed", err))
		return
	}

	buf := a.openBuffer(path, res.Content, textbuffer.Metadata{
		FilePath:                path,
		NewlineStyle:            res.NewlineStyle,
		LargeFileThresholdBytes: a.Settings.LargeFileThresholdBytes,
	})

	splitID := a.Tree.ActiveSplitID()
	view := a.views[splitID]
	view.Editor = buf.state
	view.OpenBuffers = append(view.OpenBuffers, path)
	view.PushFocus(path)
	view.MarkLayoutDirty()
}

func (a *App) undo() {
	buf := a.activeBuffer()
	view := a.activeView()
	if buf == nil || view == nil {
		return
	}
	e, ok := buf.log.Undo()
	if !ok {
		return
	}
	view.Editor.Apply(e.Inverse())
	view.MarkLayoutDirty()
}

func (a *App) redo() {
	buf := a.activeBuffer()
	view := a.activeView()
	if buf == nil || view == nil {
		return
	}
	e, ok := buf.log.Redo()
	if !ok {
		return
	}
	view.Editor.Apply(e)
	view.MarkLayoutDirty()
}

// selectedText returns the text under every cursor that currently has a
// selection, primary cursor first.
func selectedText(view *splitview.State) []string {
	var out []string
	primaryID, hasPrimary := view.Editor.Cursors.PrimaryID()
	cursors := view.Editor.Cursors.Iter()

	sort.SliceStable(cursors, func(i, j int) bool {
		if hasPrimary {
			if cursors[i].ID == primaryID {
				return true
			}
			if cursors[j].ID == primaryID {
				return false
			}
		}
		return cursors[i].Position < cursors[j].Position
	})

	for _, c := range cursors {
		start, end, has := c.SelectionRange()
		if !has {
			continue
		}
		out = append(out, string(view.Editor.Buffer.GetTextRange(start, end-start)))
	}
	return out
}

func (a *App) copySelections() {
	view := a.activeView()
	if view == nil {
		return
	}
	sel := selectedText(view)
	if len(sel) == 0 {
		return
	}
	a.Clipboard.SetSelections(sel)
}

func (a *App) cutSelections() {
	view := a.activeView()
	buf := a.activeBuffer()
	if view == nil || buf == nil {
		return
	}
	sel := selectedText(view)
	if len(sel) == 0 {
		return
	}
	a.Clipboard.SetSelections(sel)

	// Delete every selected range, furthest-from-start first, so earlier
	// deletions don't shift the byte offsets of ranges still pending.
	type rng struct {
		start, end int
		cursorID   uint64
	}
	var ranges []rng
	for _, c := range view.Editor.Cursors.Iter() {
		if start, end, has := c.SelectionRange(); has {
			ranges = append(ranges, rng{start, end, c.ID})
		}
	}
	sort.Slice(ranges, func(i, j int) bool { return ranges[i].start > ranges[j].start })

	for _, r := range ranges {
		text := view.Editor.Buffer.GetTextRange(r.start, r.end-r.start)
		e := docevent.Delete{
			Range:       docevent.Range{Start: r.start, End: r.end},
			DeletedText: text,
			CursorID:    r.cursorID,
		}
		view.Editor.Apply(e)
		buf.log.Append(e)
	}
	view.MarkLayoutDirty()
}

func (a *App) paste() {
	view := a.activeView()
	buf := a.activeBuffer()
	if view == nil || buf == nil {
		return
	}
	text := a.Clipboard.Get()
	if text == "" {
		return
	}
	events, ok := mapper.ActionToEvents(view.Editor, mapper.InsertText(text))
	if !ok {
		return
	}
	for _, e := range events {
		view.Editor.Apply(e)
		buf.log.Append(e)
	}
	view.MarkLayoutDirty()
}

func (a *App) togglePrompt() {
	if a.prompt != nil {
		a.prompt = nil
		return
	}
	a.prompt = prompt.New("", prompt.TypeCommand, a.Palette)
}

func (a *App) toggleHelp() {
	view := a.activeView()
	if view == nil {
		return
	}
	if top, ok := view.Editor.Popups.Top(); ok && top.Title == "Help" {
		view.Editor.Popups.Hide()
		return
	}
	view.Editor.Popups.Show(docevent.PopupData{
		Title: "Help",
		Items: strings.Split(a.KeyMap.FormatAll(), "\n"),
	})
}

func (a *App) split(dir splittree.Direction) {
	bufID := a.activeBufferID()
	if bufID == "" {
		return
	}
	newSplitID := a.Tree.SplitActive(dir, bufID, 0.5, false)

	// A new split starts as a mirror of the view it split from: same
	// editorstate.State (shared cursors and scroll position), since this
	// workspace does not yet model independent per-split viewports over a
	// buffer shared across more than one leaf.
	a.views[newSplitID] = a.activeView()
}

// Quit reports whether the editor loop should stop, and why.
func (a *App) Quit() (bool, error) {
	return a.quit, a.quitErr
}

// Snapshot builds a sessionstate.Snapshot of the current split layout and
// every leaf's view state, for persistence on exit.
func (a *App) Snapshot() sessionstate.Snapshot {
	snap := sessionstate.Snapshot{Tree: a.Tree.Dump()}
	for _, leaf := range a.Tree.Leaves() {
		view, ok := a.views[leaf.SplitID]
		if !ok {
			continue
		}
		snap.Leaves = append(snap.Leaves, sessionstate.SnapshotLeaf(leaf.SplitID, leaf.BufferID, view))
	}
	return snap
}

// Render composites one full-screen frame from every visible split leaf and
// flushes it to the terminal backend. It owns all ANSI control sequences
// (clear, cursor position, cursor visibility); internal/render and
// internal/termbuf only ever produce styled cell content.
func (a *App) Render(screenWidth, screenHeight int) {
	rect := splittree.Rect{X: 0, Y: 0, Width: screenWidth, Height: screenHeight}
	visible := a.Tree.GetVisibleBuffers(rect)

	full := termbuf.Acquire(screenWidth, screenHeight)
	defer termbuf.Release(full)

	var out strings.Builder
	out.WriteString("\x1b[?25l") // hide cursor while compositing
	out.WriteString("\x1b[H")    // cursor to home

	cursorCol, cursorRow := -1, -1

	for _, v := range visible {
		view, ok := a.views[v.SplitID]
		if !ok {
			continue
		}
		view.Editor.Viewport.Height = v.Rect.Height
		view.Editor.Viewport.Width = v.Rect.Width

		var leafBuf *termbuf.Buffer
		if view.ViewMode == splitview.ModePreview {
			leafBuf = render.RenderPreview(a.Preview, view)
		} else {
			cursors := view.Editor.Cursors.Iter()
			leafBuf = render.Render(render.Options{
				View:        view,
				Cursors:     cursors,
				Active:      v.SplitID == a.Tree.ActiveSplitID(),
				WrapEnabled: a.Settings.WrapWidth > 0,
				GutterWidth: a.Settings.GutterWidth,
				Palette:     a.Theme,
			})
		}

		for row := 0; row < v.Rect.Height; row++ {
			for col := 0; col < v.Rect.Width; col++ {
				full.Set(v.Rect.X+col, v.Rect.Y+row, leafBuf.At(col, row))
			}
		}
		if v.SplitID == a.Tree.ActiveSplitID() {
			if primary, ok := view.Editor.Cursors.Primary(); ok {
				pos := view.Editor.Buffer.OffsetToPosition(primary.Position)
				cursorRow = v.Rect.Y + (pos.Line - view.Editor.Viewport.TopLine)
				cursorCol = v.Rect.X + a.Settings.GutterWidth + pos.Column
			}
		}
		termbuf.Release(leafBuf)
	}

	writeFrame(&out, full)

	if cursorRow >= 0 && cursorCol >= 0 {
		fmt.Fprintf(&out, "\x1b[%d;%dH\x1b[?25h", cursorRow+1, cursorCol+1)
	} else {
		out.WriteString("\x1b[?25h")
	}

	os.Stdout.WriteString(out.String())
}

// writeFrame encodes full's cells as ANSI-styled text, one terminal row per
// buffer row, positioning the cursor at the start of each row explicitly
// rather than relying on wrapping.
func writeFrame(out *strings.Builder, full *termbuf.Buffer) {
	for row := 0; row < full.Height; row++ {
		fmt.Fprintf(out, "\x1b[%d;1H\x1b[K", row+1)
		var lastAttrs termbuf.Attrs
		var lastFg termbuf.Color
		for col := 0; col < full.Width; col++ {
			cell := full.At(col, row)
			if cell.Attrs != lastAttrs || cell.Fg != lastFg {
				out.WriteString("\x1b[0m")
				if cell.Fg.Code != "" {
					out.WriteString(cell.Fg.Code)
				}
				if cell.Attrs.Bold {
					out.WriteString("\x1b[1m")
				}
				if cell.Attrs.Dim {
					out.WriteString("\x1b[2m")
				}
				if cell.Attrs.Italic {
					out.WriteString("\x1b[3m")
				}
				if cell.Attrs.Underline {
					out.WriteString("\x1b[4m")
				}
				if cell.Attrs.Reverse {
					out.WriteString("\x1b[7m")
				}
				lastAttrs = cell.Attrs
				lastFg = cell.Fg
			}
			if cell.Glyph == 0 {
				out.WriteRune(' ')
			} else {
				out.WriteRune(cell.Glyph)
			}
		}
		out.WriteString("\x1b[0m")
	}
}
