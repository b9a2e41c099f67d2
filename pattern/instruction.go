package pattern

import (
	"fmt"
	"strings"
)

type Op uint8

const (
	// OpAtom matches its atom exactly once.
	OpAtom Op = iota
	// OpAtLeast matches its atom Bound or more times, greedily.
	OpAtLeast
	// OpAtMost matches its atom up to Bound times, greedily. It never fails.
	OpAtMost
	// OpFinal terminates every program.
	OpFinal
)

func (op Op) String() string {
	switch op {
	case OpAtom:
		return "Atom"
	case OpAtLeast:
		return "AtLeast"
	case OpAtMost:
		return "AtMost"
	case OpFinal:
		return "Final"
	}
	return fmt.Sprintf("Op(%d)", uint8(op))
}

// Atom matches a single codepoint: either any codepoint (Wildcard) or exactly Char.
type Atom struct {
	Wildcard bool
	Char     rune
}

func (a Atom) matches(c rune) bool {
	return a.Wildcard || a.Char == c
}

func (a Atom) String() string {
	if a.Wildcard {
		return "Any"
	}
	return fmt.Sprintf("Literal(%q)", a.Char)
}

// Instruction is one step of a compiled program.
// Quantifiers carry the atom they govern, so a quantifier can never be
// separated from its atom or govern Final.
type Instruction struct {
	Op    Op
	Atom  Atom
	Bound int
}

// String renders the instruction in its flat form, a quantifier is followed by its atom.
func (in Instruction) String() string {
	switch in.Op {
	case OpAtom:
		return in.Atom.String()
	case OpAtLeast, OpAtMost:
		return fmt.Sprintf("%s(%d) %s", in.Op, in.Bound, in.Atom)
	}
	return in.Op.String()
}

func (in Instruction) quantified() bool {
	return in.Op == OpAtLeast || in.Op == OpAtMost
}

func formatProgram(prog []Instruction) string {
	out := strings.Builder{}
	for i, in := range prog {
		if i > 0 {
			out.WriteByte(' ')
		}
		out.WriteString(in.String())
	}
	return out.String()
}
