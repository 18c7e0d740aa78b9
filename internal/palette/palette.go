// ABOUTME: Command registry feeding the prompt's command-palette suggestion list
// ABOUTME: Distinct from slash dispatch: commands are filtered and run through the prompt, never typed with a leading "/"

package palette

import (
	"fmt"
	"sort"
)

// Command is a single named, runnable editor command.
type Command struct {
	Name        string
	Description string
	Enabled     bool
	Run         func(args string) (string, error)
}

// Registry holds the set of commands the palette can offer.
type Registry struct {
	commands map[string]*Command
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{commands: make(map[string]*Command)}
}

// Register adds or replaces a command by name.
func (r *Registry) Register(cmd Command) {
	c := cmd
	r.commands[c.Name] = &c
}

// Get returns a command by name.
func (r *Registry) Get(name string) (*Command, bool) {
	cmd, ok := r.commands[name]
	return cmd, ok
}

// List returns every registered command, sorted by name for deterministic
// output. Filtering for display happens in internal/prompt.
func (r *Registry) List() []*Command {
	result := make([]*Command, 0, len(r.commands))
	for _, cmd := range r.commands {
		result = append(result, cmd)
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].Name < result[j].Name
	})
	return result
}

// Run looks up name and executes it with args.
func (r *Registry) Run(name, args string) (string, error) {
	cmd, ok := r.commands[name]
	if !ok {
		return "", fmt.Errorf("unknown command: %s", name)
	}
	if !cmd.Enabled {
		return "", fmt.Errorf("command disabled: %s", name)
	}
	return cmd.Run(args)
}
