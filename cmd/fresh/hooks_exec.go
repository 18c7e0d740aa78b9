// ABOUTME: Spawns config-declared hook commands as subprocesses, feeding hooks.EncodeWire JSON on stdin
// ABOUTME: Adapted from the teacher's shell-command hook executor: a 10s timeout, killed via process group

package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os/exec"
	"syscall"
	"time"

	"github.com/fresheditor/fresh/internal/config"
	"github.com/fresheditor/fresh/internal/editorerr"
	"github.com/fresheditor/fresh/internal/elog"
	"github.com/fresheditor/fresh/internal/hooks"
)

const hookTimeout = 10 * time.Second

// registerHooks wires every event in settings.Hooks into app.Hooks, one
// hooks.Callback per configured command. An external hook is always
// best-effort: a non-zero exit, a timeout, or a spawn failure is logged as
// an ignorable error and never cancels the in-flight operation, matching
// hooks.Registry.RunHooksWithTimeout's "log and continue" contract.
func registerHooks(app *App, settings *config.Settings) {
	for name, commands := range settings.Hooks {
		for _, hc := range commands {
			cmd := hc
			app.Hooks.AddHook(name, func(args hooks.HookArgs) bool {
				runHookCommand(cmd.Command, cmd.Args, args)
				return true
			})
		}
	}
}

// runHookCommand spawns command with args, feeding args's stable wire
// encoding as a JSON line on stdin. The child runs in its own process
// group so a timeout kills the whole group, not just the direct child.
func runHookCommand(command string, args []string, hookArgs hooks.HookArgs) {
	ctx, cancel := context.WithTimeout(context.Background(), hookTimeout)
	defer cancel()

	payload, err := json.Marshal(hooks.EncodeWire(hookArgs))
	if err != nil {
		editorerr.LogIgnorable(editorerr.Wrap(editorerr.Ignorable, editorerr.KindMalformedHookJSON, "encoding hook payload", err))
		return
	}

	cmd := exec.CommandContext(ctx, command, args...)
	cmd.Stdin = bytes.NewReader(payload)
	cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}
	cmd.Cancel = func() error {
		if cmd.Process == nil {
			return nil
		}
		return syscall.Kill(-cmd.Process.Pid, syscall.SIGKILL)
	}

	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	runErr := cmd.Run()
	if ctx.Err() == context.DeadlineExceeded {
		editorerr.LogIgnorable(editorerr.New(editorerr.Ignorable, editorerr.KindHookTimeout,
			fmt.Sprintf("hook %q timed out after %v", hookArgs.Kind(), hookTimeout)))
		return
	}
	if runErr != nil {
		elog.Warn("hook %q exited with error: %v (stderr: %s)", hookArgs.Kind(), runErr, stderr.String())
	}
}
