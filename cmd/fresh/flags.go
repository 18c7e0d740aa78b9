// ABOUTME: CLI flag parsing using stdlib flag package
// ABOUTME: Supports --no-plugins, --no-session, and a file[:line[:col]] positional argument

package main

import (
	"flag"
	"strconv"
	"strings"
)

type cliArgs struct {
	noPlugins bool
	noSession bool
}

func parseFlags() cliArgs {
	var args cliArgs

	flag.BoolVar(&args.noPlugins, "no-plugins", false, "Disable hook registration from config")
	flag.BoolVar(&args.noSession, "no-session", false, "Skip restoring a prior session snapshot")

	flag.Parse()
	return args
}

// remaining returns the non-flag command-line arguments.
func (a cliArgs) remaining() []string {
	return flag.Args()
}

// target is a parsed file[:line[:col]] positional argument.
type target struct {
	Path string
	Line int // 0 if unspecified
	Col  int // 0 if unspecified
}

// parseTarget splits a file[:line[:col]] argument. Line and column are
// 1-based in the argument and left 0 (unspecified) when absent or
// unparsable, so the caller can distinguish "not given" from "given as 1".
func parseTarget(arg string) target {
	parts := strings.SplitN(arg, ":", 3)
	t := target{Path: parts[0]}

	if len(parts) > 1 {
		if n, err := strconv.Atoi(parts[1]); err == nil {
			t.Line = n
		}
	}
	if len(parts) > 2 {
		if n, err := strconv.Atoi(parts[2]); err == nil {
			t.Col = n
		}
	}
	return t
}
