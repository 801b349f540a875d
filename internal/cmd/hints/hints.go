// Package hints provides actionable user guidance after CLI commands.
package hints

import (
	stderrors "errors"
	"fmt"
	"io"
	"strings"

	"github.com/agentstation/artcards/pkg/constants"
	"github.com/agentstation/artcards/pkg/errors"
)

// Hint represents actionable user guidance.
type Hint struct {
	Message string // Human-readable guidance message
	Command string // Optional specific command to run
}

// NewCommand creates a new hint with a specific command.
func NewCommand(message, command string) Hint {
	return Hint{Message: message, Command: command}
}

// String returns a string representation of the hint.
func (h Hint) String() string {
	s := "💡 " + h.Message
	if h.Command != "" {
		s += "\n   Run: " + h.Command
	}
	return s
}

// Context is what a provider knows about the command that just ran.
type Context struct {
	// Command is the full command path, e.g. "artcards prices refresh"
	Command string
	// Err is the command error, nil on success
	Err error
}

// Succeeded reports whether the command returned no error.
func (c Context) Succeeded() bool { return c.Err == nil }

// Is reports whether the command path ends with the given subcommand path.
func (c Context) Is(path string) bool {
	return strings.HasSuffix(c.Command, path)
}

// Provider generates hints for a command context.
type Provider func(Context) []Hint

// Registry holds hint providers.
type Registry struct {
	providers []Provider
	maxHints  int
}

// NewRegistry creates a registry that returns at most maxHints hints.
func NewRegistry(maxHints int) *Registry {
	return &Registry{maxHints: maxHints}
}

// Register adds a hint provider to the registry.
func (r *Registry) Register(p Provider) {
	r.providers = append(r.providers, p)
}

// Hints collects hints from all providers, dropping duplicates.
func (r *Registry) Hints(ctx Context) []Hint {
	var out []Hint
	seen := make(map[Hint]bool)
	for _, p := range r.providers {
		for _, h := range p(ctx) {
			if seen[h] {
				continue
			}
			seen[h] = true
			out = append(out, h)
			if r.maxHints > 0 && len(out) == r.maxHints {
				return out
			}
		}
	}
	return out
}

// Write prints hints to w separated by blank lines.
func Write(w io.Writer, hints []Hint) error {
	for _, h := range hints {
		if _, err := fmt.Fprintf(w, "\n%s\n", h); err != nil {
			return err
		}
	}
	return nil
}

// Default returns the registry with the inventory workflow hints.
func Default() *Registry {
	r := NewRegistry(2)
	r.Register(prerequisites)
	r.Register(workflow)
	return r
}

// prerequisites turns missing-sheet errors into the command that creates
// the sheet.
func prerequisites(ctx Context) []Hint {
	var pre *errors.PrerequisiteError
	if !stderrors.As(ctx.Err, &pre) {
		return nil
	}
	switch pre.Sheet {
	case constants.SheetRegular, constants.SheetSigned:
		return []Hint{NewCommand("The ledgers are built from the catalog", "artcards catalog refresh")}
	case constants.SheetStaging:
		return []Hint{NewCommand("Stage a pasted list or import an export first", "artcards import parse")}
	}
	return nil
}

// workflow suggests the next step after a successful command.
func workflow(ctx Context) []Hint {
	if !ctx.Succeeded() {
		if errors.IsRateLimited(ctx.Err) || errors.IsSourceUnavailable(ctx.Err) {
			return []Hint{NewCommand("The catalog API is unavailable, the pass resumes where it stopped", "artcards prices refresh")}
		}
		return nil
	}
	switch {
	case ctx.Is("catalog refresh"):
		return []Hint{NewCommand("Fetch market prices for the new ledger", "artcards prices refresh")}
	case ctx.Is("import parse"):
		return []Hint{NewCommand("Review the "+constants.SheetStaging+" sheet, then merge it", "artcards import apply")}
	case ctx.Is("prices refresh"):
		return []Hint{NewCommand("Keep refreshing on a schedule", "artcards prices schedule")}
	}
	return nil
}
