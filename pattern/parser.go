package pattern

import (
	"errors"
	"fmt"
)

const wildcard = '.'

var (
	ErrInvalidQuantifierPosition = errors.New("invalid quantifier position")
	ErrMalformedProgram          = errors.New("malformed program")
)

// CompileError reports a quantifier with no atom to govern, either at the
// start of the pattern or directly after another quantifier.
type CompileError struct {
	Pattern    string
	Pos        int // in codepoints
	Quantifier rune
}

func (e *CompileError) Error() string {
	return fmt.Sprintf("parser error at %d: %q has no preceding atom: %v", e.Pos, e.Quantifier, ErrInvalidQuantifierPosition)
}

func (e *CompileError) Unwrap() error {
	return ErrInvalidQuantifierPosition
}

func isQuantifier(c rune) bool {
	return c == '*' || c == '+' || c == '?'
}

func parse(re string) ([]Instruction, error) {
	prog := make([]Instruction, 0, len(re)+1)
	quantifiable := false
	pos := 0
	for _, c := range re {
		if !isQuantifier(c) {
			atom := Atom{Char: c}
			if c == wildcard {
				atom = Atom{Wildcard: true}
			}
			prog = append(prog, Instruction{Op: OpAtom, Atom: atom})
			quantifiable = true
			pos++
			continue
		}

		if !quantifiable {
			return nil, &CompileError{Pattern: re, Pos: pos, Quantifier: c}
		}
		quantifiable = false

		// wrap the atom that was just emitted
		last := &prog[len(prog)-1]
		switch c {
		case '*':
			last.Op, last.Bound = OpAtLeast, 0
		case '+':
			last.Op, last.Bound = OpAtLeast, 1
		case '?':
			last.Op, last.Bound = OpAtMost, 1
		}
		pos++
	}
	return append(prog, Instruction{Op: OpFinal}), nil
}

// validate checks the invariants a program produced by parse always holds.
func validate(prog []Instruction) error {
	if len(prog) == 0 {
		return fmt.Errorf("%w: empty program", ErrMalformedProgram)
	}
	for i, in := range prog {
		switch in.Op {
		case OpFinal:
			if i != len(prog)-1 {
				return fmt.Errorf("%w: Final at %d is not the last instruction", ErrMalformedProgram, i)
			}
		case OpAtom:
		case OpAtLeast, OpAtMost:
			if in.Bound < 0 {
				return fmt.Errorf("%w: negative bound %d at %d", ErrMalformedProgram, in.Bound, i)
			}
		default:
			return fmt.Errorf("%w: unknown op %v at %d", ErrMalformedProgram, in.Op, i)
		}
	}
	if prog[len(prog)-1].Op != OpFinal {
		return fmt.Errorf("%w: missing Final", ErrMalformedProgram)
	}
	return nil
}
