package console

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/agnivade/levenshtein"
)

// Command is a console command. MaxArgs < 0 means no upper bound.
type Command struct {
	Name    string
	Aliases []string
	Usage   string
	Summary string
	MinArgs int
	MaxArgs int
	Run     func(ctx context.Context, c *Console, args []string) error
}

func (cmd *Command) checkArgs(args []string) error {
	if len(args) < cmd.MinArgs || (cmd.MaxArgs >= 0 && len(args) > cmd.MaxArgs) {
		return fmt.Errorf("%w: %s", ErrUsage, cmd.Usage)
	}
	return nil
}

// Registry resolves command names and aliases.
type Registry struct {
	commands []*Command
	byName   map[string]*Command
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{byName: make(map[string]*Command)}
}

// Register adds cmd. Names and aliases are case-insensitive and must be unique.
func (r *Registry) Register(cmd Command) error {
	cmd.Name = normalise(cmd.Name)
	if cmd.Name == "" {
		return fmt.Errorf("command name is required")
	}
	if cmd.Run == nil {
		return fmt.Errorf("command %s has no handler", cmd.Name)
	}

	keys := []string{cmd.Name}
	for _, a := range cmd.Aliases {
		if n := normalise(a); n != "" {
			keys = append(keys, n)
		}
	}
	for _, k := range keys {
		if existing, ok := r.byName[k]; ok {
			return fmt.Errorf("%q is already registered by %s", k, existing.Name)
		}
	}

	c := &cmd
	for _, k := range keys {
		r.byName[k] = c
	}
	r.commands = append(r.commands, c)
	return nil
}

// Lookup finds a command by name or alias.
func (r *Registry) Lookup(name string) (*Command, bool) {
	cmd, ok := r.byName[normalise(name)]
	return cmd, ok
}

// Commands returns the registered commands sorted by name.
func (r *Registry) Commands() []*Command {
	out := make([]*Command, len(r.commands))
	copy(out, r.commands)
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// Suggest returns up to three command names close to name, nearest first.
func (r *Registry) Suggest(name string) []string {
	name = normalise(name)
	if name == "" {
		return nil
	}

	type candidate struct {
		name string
		dist int
	}
	best := make(map[string]int)
	for key, cmd := range r.byName {
		dist := levenshtein.ComputeDistance(name, key)
		if dist > levenshteinLimit(len(key)) {
			continue
		}
		if d, ok := best[cmd.Name]; !ok || dist < d {
			best[cmd.Name] = dist
		}
	}

	cands := make([]candidate, 0, len(best))
	for n, d := range best {
		cands = append(cands, candidate{n, d})
	}
	sort.Slice(cands, func(i, j int) bool {
		if cands[i].dist == cands[j].dist {
			return cands[i].name < cands[j].name
		}
		return cands[i].dist < cands[j].dist
	})

	var out []string
	for _, c := range cands {
		out = append(out, c.name)
		if len(out) == 3 {
			break
		}
	}
	return out
}

func levenshteinLimit(length int) int {
	switch {
	case length <= 4:
		return 1
	case length <= 8:
		return 2
	default:
		return 3
	}
}

func normalise(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
