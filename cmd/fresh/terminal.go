// ABOUTME: Raw-mode terminal control for the editor's stdin/stdout, backed by golang.org/x/term
// ABOUTME: SIGWINCH drives the resize callback; all other ANSI control lives in app.go's Render

package main

import (
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"golang.org/x/term"
)

// processTerminal owns raw-mode state for the real controlling terminal.
type processTerminal struct {
	mu       sync.Mutex
	oldState *term.State
	resizeFn func(width, height int)
}

func newProcessTerminal() *processTerminal {
	return &processTerminal{}
}

// enterRawMode switches stdin to raw mode, saving the previous state for
// exitRawMode to restore.
func (t *processTerminal) enterRawMode() error {
	t.mu.Lock()
	defer t.mu.Unlock()

	state, err := term.MakeRaw(int(os.Stdin.Fd()))
	if err != nil {
		return fmt.Errorf("entering raw mode: %w", err)
	}
	t.oldState = state
	return nil
}

// exitRawMode restores the terminal to the state captured by enterRawMode.
func (t *processTerminal) exitRawMode() error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.oldState == nil {
		return nil
	}
	if err := term.Restore(int(os.Stdin.Fd()), t.oldState); err != nil {
		return fmt.Errorf("exiting raw mode: %w", err)
	}
	t.oldState = nil
	return nil
}

// size returns the current terminal dimensions in columns, rows.
func (t *processTerminal) size() (width, height int, err error) {
	w, h, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil {
		return 0, 0, fmt.Errorf("getting terminal size: %w", err)
	}
	return w, h, nil
}

// onResize registers fn to be called with the new dimensions whenever the
// terminal receives SIGWINCH, and starts the signal listener.
func (t *processTerminal) onResize(fn func(width, height int)) {
	t.mu.Lock()
	t.resizeFn = fn
	t.mu.Unlock()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGWINCH)

	go func() {
		for range sigCh {
			t.mu.Lock()
			cb := t.resizeFn
			t.mu.Unlock()
			if cb == nil {
				continue
			}
			if w, h, err := t.size(); err == nil {
				cb(w, h)
			}
		}
	}()
}
