// Package addons runs source text through an ordered chain of transforms
// before it reaches the assembler.
package addons

import (
	"log/slog"

	"github.com/pkg/errors"

	"vmasm/pkg/asm"
	"vmasm/pkg/labels"
)

// Addon transforms source lines. Implementations must not modify the
// slice they are given.
type Addon interface {
	Name() string
	Apply(lines []asm.Line) ([]asm.Line, error)
}

// Func adapts a function to the Addon interface.
type Func struct {
	ID string
	Fn func([]asm.Line) ([]asm.Line, error)
}

func (f Func) Name() string { return f.ID }

func (f Func) Apply(lines []asm.Line) ([]asm.Line, error) { return f.Fn(lines) }

// Comments strips everything from '#' to the end of each line.
var Comments Addon = Func{ID: "comments", Fn: StripCommentLines}

// Labels resolves ~NAME references and drops label declarations.
var Labels Addon = Func{ID: "labels", Fn: labels.ResolveLines}

// Default is the chain used when nothing else is configured.
func Default() []Addon {
	return []Addon{Comments, Labels}
}

// Lookup returns a built-in addon by name.
func Lookup(name string) (Addon, error) {
	switch name {
	case "comments":
		return Comments, nil
	case "labels":
		return Labels, nil
	}
	return nil, errors.Errorf("unknown addon %q", name)
}

// Build turns configured names into a chain. Each "lua" entry expands to
// one addon per script, in script order.
func Build(names, scripts []string) ([]Addon, error) {
	chain := make([]Addon, 0, len(names))
	for _, name := range names {
		if name != "lua" {
			a, err := Lookup(name)
			if err != nil {
				return nil, err
			}
			chain = append(chain, a)
			continue
		}
		if len(scripts) == 0 {
			return nil, errors.New("addon lua needs at least one script")
		}
		for _, path := range scripts {
			a, err := LoadLua(path)
			if err != nil {
				return nil, err
			}
			chain = append(chain, a)
		}
	}
	return chain, nil
}

// Renumberer is implemented by addons that return new text instead of
// editing lines in place. Line numbers after such an addon refer to its
// output.
type Renumberer interface {
	Renumbers() bool
}

// Program is assembled code plus the lines its source map refers to.
type Program struct {
	Code   *asm.MachineCode
	Source []asm.Line
}

// Chain applies addons in order and returns the final lines.
func Chain(lines []asm.Line, chain ...Addon) ([]asm.Line, error) {
	out, _, err := run(lines, chain)
	return out, err
}

// run applies chain and also returns the last text that line numbers were
// assigned from: the input, or the output of the last renumbering addon.
func run(lines []asm.Line, chain []Addon) ([]asm.Line, []asm.Line, error) {
	numbered := lines
	for _, a := range chain {
		var err error
		lines, err = a.Apply(lines)
		if err != nil {
			return nil, nil, err
		}
		if r, ok := a.(Renumberer); ok && r.Renumbers() {
			numbered = lines
		}
		slog.Debug("addon applied", "addon", a.Name(), "lines", len(lines))
	}
	return lines, numbered, nil
}

// Assemble runs source through chain and compiles the result.
func Assemble(source string, chain ...Addon) (*Program, error) {
	lines, numbered, err := run(asm.SplitLines(source), chain)
	if err != nil {
		return nil, err
	}
	mc, err := asm.CompileLines(lines)
	if err != nil {
		return nil, err
	}
	return &Program{Code: mc, Source: numbered}, nil
}

// Compile is Assemble without the source lines.
func Compile(source string, chain ...Addon) (*asm.MachineCode, error) {
	p, err := Assemble(source, chain...)
	if err != nil {
		return nil, err
	}
	return p.Code, nil
}
