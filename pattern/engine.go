package pattern

// outcome is the result of a single attempt to run the program from a given
// instruction against the text at a given position.
type outcome uint8

const (
	// fail means the attempt from the current anchor can not succeed.
	fail outcome = iota
	// stay means a quantifier matched zero times, the scan resumes at the same
	// codepoint with the instruction after the quantifier.
	stay
	// done means Final was reached.
	done
)

// scanState is owned by a single run and never shared.
type scanState struct {
	anchor int
	cursor int
	pc     int
}

// step executes instructions starting at pc against text[cursor:] and
// returns the outcome, the number of codepoints consumed and the pc to
// resume at.
func step(prog []Instruction, text []rune, cursor, pc int) (outcome, int, int) {
	i := cursor
	for {
		in := prog[pc]
		switch in.Op {
		case OpFinal:
			return done, i - cursor, pc
		case OpAtom:
			if i >= len(text) || !in.Atom.matches(text[i]) {
				return fail, i - cursor, pc
			}
			i++
			pc++
		case OpAtLeast, OpAtMost:
			count := 0
			for i+count < len(text) && in.Atom.matches(text[i+count]) {
				if in.Op == OpAtMost && count >= in.Bound {
					break
				}
				count++
			}
			// AtMost is satisfied by any count, the cap already bounds it
			if in.Op == OpAtLeast && count < in.Bound {
				return fail, i - cursor, pc
			}
			pc++
			if count == 0 {
				return stay, i - cursor, pc
			}
			i += count
		default:
			panic("unexpected `op` type")
		}
	}
}

// run finds the leftmost anchor at which prog matches, returning the start and
// length in codepoints. Anchors are tried in increasing order up to and
// including len(text); next, if non-nil, skips anchors that can not match.
//
// Every failed anchor restarts the program from scratch, so the worst case is
// quadratic in the length of the text.
func run(prog []Instruction, text []rune, next func(anchor int) int) (int, int, bool) {
	s := scanState{}
	if next != nil {
		s.anchor = next(0)
		s.cursor = s.anchor
	}
	for s.anchor >= 0 && s.anchor <= len(text) {
		res, consumed, pc := step(prog, text, s.cursor, s.pc)
		switch res {
		case done:
			return s.anchor, s.cursor + consumed - s.anchor, true
		case stay:
			s.cursor += consumed
			s.pc = pc
		case fail:
			s.anchor++
			if next != nil {
				s.anchor = next(s.anchor)
			}
			s.cursor = s.anchor
			s.pc = 0
		}
	}
	return 0, 0, false
}
