// ABOUTME: Entrypoint: parses flags, loads config, opens a buffer, and runs the editor loop
// ABOUTME: Wires pkg/keyinput as the sole producer onto App.Queue; editorloop.Loop is the sole consumer

package main

import (
	"context"
	"crypto/sha256"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/fresheditor/fresh/internal/config"
	"github.com/fresheditor/fresh/internal/editorloop"
	"github.com/fresheditor/fresh/internal/elog"
	"github.com/fresheditor/fresh/internal/fileio"
	"github.com/fresheditor/fresh/internal/mapper"
	"github.com/fresheditor/fresh/internal/sessionstate"
	"github.com/fresheditor/fresh/internal/textbuffer"
	"github.com/fresheditor/fresh/pkg/key"
	"github.com/fresheditor/fresh/pkg/keyinput"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "fresh:", err)
		os.Exit(1)
	}
}

func run() error {
	args := parseFlags()

	root := projectRoot()
	settings, err := config.Load(root)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	path, content, nl, err := loadTarget(args.remaining())
	if err != nil {
		return err
	}

	term := newProcessTerminal()
	if err := term.enterRawMode(); err != nil {
		return err
	}
	defer term.exitRawMode()

	width, height, err := term.size()
	if err != nil {
		width, height = 80, 24
	}

	app, err := NewApp(settings, path, nl, content, width, height)
	if err != nil {
		return fmt.Errorf("starting editor: %w", err)
	}

	if !args.noPlugins {
		registerHooks(app, settings)
	}

	sessionPath := filepath.Join(config.SessionsDir(), sessionFileName(path))
	if !args.noSession {
		restoreSession(app, path, sessionPath)
	}

	ctx, cancel := context.WithCancel(context.Background())
	app.cancel = cancel

	app.termWidth.Store(int32(width))
	app.termHeight.Store(int32(height))
	term.onResize(func(w, h int) {
		// Only atomic stores happen here: view/editor state is mutated
		// from the render closure below, which runs on the editor thread.
		app.termWidth.Store(int32(w))
		app.termHeight.Store(int32(h))
	})

	renderFrame := func() {
		w := int(app.termWidth.Load())
		h := int(app.termHeight.Load())
		if view := app.activeView(); view != nil {
			vp := view.Editor.Viewport
			if vp.Width != w || vp.Height != h {
				view.SetViewportSize(h, w)
			}
		}
		app.Render(w, h)
	}
	loop := editorloop.New(app.Queue, app.OnMessage, renderFrame)
	if settings.FrameBudgetMillis > 0 {
		loop.FrameBudget = time.Duration(settings.FrameBudgetMillis) * time.Millisecond
	}
	if settings.IdleSleepMillis > 0 {
		loop.IdleSleep = time.Duration(settings.IdleSleepMillis) * time.Millisecond
	}

	stdin := keyinput.NewStdinBuffer(os.Stdin, func(k key.Key) {
		action, ok := resolveAction(app, k)
		if !ok {
			return
		}
		_ = app.Queue.TrySend(action)
	})

	err = editorloop.RunPaired(ctx, loop, func(collabCtx context.Context) error {
		stdin.Start(collabCtx)
		return nil
	})

	if !args.noSession {
		if saveErr := persistSession(app, path, sessionPath); saveErr != nil {
			elog.Warn("saving session: %v", saveErr)
		}
	}

	if qdone, qerr := app.Quit(); qdone && qerr != nil {
		return qerr
	}
	if err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}

// resolveAction turns a raw parsed key into the mapper.Action the queue
// carries. Plain printable runes and Enter/Tab have no entry in the default
// keymap (internal/keymap.Bindings.setDefaults only binds modified and
// non-printable keys), so they're translated directly; everything else goes
// through the configured key bindings.
func resolveAction(app *App, k key.Key) (mapper.Action, bool) {
	if k.Type == key.KeyRune && !k.Ctrl && !k.Alt {
		return mapper.InsertChar(k.Rune), true
	}
	if k.Type == key.KeyEnter {
		return mapper.Simple(mapper.ActionInsertNewline), true
	}
	if k.Type == key.KeyTab {
		return mapper.Action{Kind: mapper.ActionInsertChar, Char: '\t'}, true
	}

	kind := app.KeyMap.ActionForKey(k)
	if kind == "" {
		return mapper.Action{}, false
	}
	return mapper.Simple(kind), true
}

func loadTarget(positional []string) (path string, content []byte, nl textbuffer.NewlineStyle, err error) {
	if len(positional) == 0 {
		return "", nil, textbuffer.NewlineLF, nil
	}

	t := parseTarget(positional[0])
	res, readErr := fileio.ReadFile(t.Path)
	if readErr != nil {
		if errors.Is(readErr, os.ErrNotExist) {
			return t.Path, nil, textbuffer.NewlineLF, nil
		}
		return "", nil, "", fmt.Errorf("reading %s: %w", t.Path, readErr)
	}
	return t.Path, res.Content, res.NewlineStyle, nil
}

func sessionFileName(path string) string {
	if path == "" {
		path = "scratch"
	}
	sum := sha256.Sum256([]byte(filepath.Clean(path)))
	return fmt.Sprintf("%x.session", sum[:8])
}

func restoreSession(app *App, path, sessionPath string) {
	data, err := os.ReadFile(sessionPath)
	if err != nil {
		return
	}
	snap, err := sessionstate.Unmarshal(data)
	if err != nil {
		elog.Warn("parsing session snapshot: %v", err)
		return
	}
	for _, leaf := range snap.Leaves {
		if leaf.FilePath != path {
			continue
		}
		if view := app.activeView(); view != nil {
			sessionstate.RestoreLeaf(leaf, view)
		}
		return
	}
}

func persistSession(app *App, path, sessionPath string) error {
	if err := config.EnsureDir(config.SessionsDir()); err != nil {
		return err
	}
	snap := app.Snapshot()
	data, err := sessionstate.Marshal(snap)
	if err != nil {
		return err
	}
	return fileio.WriteFile(sessionPath, data, 0o644)
}
