// ABOUTME: The editor thread's frame-budget poll-render loop, per spec.md §5
// ABOUTME: Pairs the single-threaded editor loop with a caller-supplied collaborator goroutine via errgroup

package editorloop

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/fresheditor/fresh/internal/collabqueue"
)

// DefaultFrameBudget is the default render cadence (approx. 60 FPS), per
// spec.md §5.
const DefaultFrameBudget = 16 * time.Millisecond

// DefaultIdleSleep is the upper bound the editor thread sleeps when no
// input and no messages have arrived, per spec.md §5.
const DefaultIdleSleep = 50 * time.Millisecond

// Loop runs the single editor thread: drain collabqueue.Queue, apply each
// message in arrival order, and render once per frame while messages are
// pending. The core's mutation stays strictly single-threaded (spec.md
// §5) because only this loop's own goroutine ever calls OnMessage/Render;
// collaborators push from their own goroutines but never touch state
// directly.
type Loop[T any] struct {
	Queue *collabqueue.Queue[T]

	// OnMessage applies one drained message to editor state. Called only
	// from the loop's goroutine.
	OnMessage func(T)

	// Render draws one frame. Called only from the loop's goroutine,
	// whenever a prior OnMessage left the view dirty.
	Render func()

	FrameBudget time.Duration
	IdleSleep   time.Duration
}

// New creates a Loop with spec.md §5's default frame budget and idle sleep.
func New[T any](q *collabqueue.Queue[T], onMessage func(T), render func()) *Loop[T] {
	return &Loop[T]{
		Queue:       q,
		OnMessage:   onMessage,
		Render:      render,
		FrameBudget: DefaultFrameBudget,
		IdleSleep:   DefaultIdleSleep,
	}
}

// Run drives the editor thread until ctx is cancelled, returning ctx's
// error. It polls with a zero timeout while idle (so input is never
// delayed) and with the frame budget as a timeout whenever a message has
// left the view dirty, matching spec.md §5's suspension-point rule: drain
// once per frame before rendering, and after every input event.
func (l *Loop[T]) Run(ctx context.Context) error {
	dirty := false
	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		if !dirty {
			msgs := l.Queue.Drain()
			if len(msgs) == 0 {
				sleepIdle(ctx, l.IdleSleep)
				continue
			}
			for _, m := range msgs {
				l.OnMessage(m)
			}
			dirty = true
			continue
		}

		// A render is pending: wait up to the frame budget for more
		// input, then drain whatever else has already buffered without
		// waiting out a second full budget, and render regardless.
		if msg, ok := l.Queue.DrainOne(ctx, l.FrameBudget); ok {
			l.OnMessage(msg)
			for _, m := range l.Queue.Drain() {
				l.OnMessage(m)
			}
		}
		if err := ctx.Err(); err != nil {
			return err
		}

		l.Render()
		dirty = false
	}
}

func sleepIdle(ctx context.Context, d time.Duration) {
	if d <= 0 {
		return
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
	case <-ctx.Done():
	}
}

// RunPaired runs the editor thread alongside a caller-supplied collaborator
// goroutine (for example, a raw-mode stdin reader pushing key events onto
// Queue) via errgroup: if either side returns an error or the context is
// cancelled, both are torn down together.
func RunPaired[T any](ctx context.Context, loop *Loop[T], collaborator func(context.Context) error) error {
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return loop.Run(gctx) })
	g.Go(func() error { return collaborator(gctx) })
	return g.Wait()
}
