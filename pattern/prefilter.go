package pattern

import (
	"slices"
	"unicode/utf8"

	"github.com/coregx/ahocorasick"
)

// prefilter narrows the anchors worth trying down to the positions where the
// literal prefix of a program occurs. Any match has to start with that prefix,
// so skipping the other anchors can not change the result.
type prefilter struct {
	prefix []byte
	auto   *ahocorasick.Automaton
}

// literalPrefix returns the leading unquantified literal atoms of prog.
func literalPrefix(prog []Instruction) []rune {
	var prefix []rune
	for _, in := range prog {
		if in.Op != OpAtom || in.Atom.Wildcard {
			break
		}
		prefix = append(prefix, in.Atom.Char)
	}
	return prefix
}

// newPrefilter returns nil if prog has no literal prefix or the automaton
// can't be built, in which case every anchor is tried.
func newPrefilter(prog []Instruction) *prefilter {
	prefix := literalPrefix(prog)
	if len(prefix) == 0 {
		return nil
	}

	// the text is re-encoded before searching, so the prefix is encoded the same way
	encoded := []byte(string(prefix))
	builder := ahocorasick.NewBuilder()
	builder.AddPattern(encoded)
	auto, err := builder.Build()
	if err != nil {
		return nil
	}
	return &prefilter{prefix: encoded, auto: auto}
}

// candidates returns a function yielding the first anchor >= a given anchor
// at which the prefix occurs in text, or -1 if there is none.
func (p *prefilter) candidates(text []rune) func(int) int {
	haystack := make([]byte, 0, len(text))
	// offsets[i] is the byte offset of text[i], offsets[len(text)] == len(haystack)
	offsets := make([]int, 0, len(text)+1)
	for _, c := range text {
		offsets = append(offsets, len(haystack))
		haystack = utf8.AppendRune(haystack, c)
	}
	offsets = append(offsets, len(haystack))

	return func(anchor int) int {
		if anchor >= len(text) {
			return -1
		}
		m := p.auto.Find(haystack, offsets[anchor])
		if m == nil {
			return -1
		}
		i, found := slices.BinarySearch(offsets, m.Start)
		if !found {
			return -1
		}
		return i
	}
}
