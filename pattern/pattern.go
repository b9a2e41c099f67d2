package pattern

// Supported syntax:
//	.     any codepoint
//	x*    zero or more x, greedy
//	x+    one or more x, greedy
//	x?    zero or one x
// every other codepoint matches itself. There is no escaping, so '.', '*',
// '+' and '?' can't be matched literally.
//
// Quantifiers are greedy and never give back what they consumed: "a*a" does
// not match "aaa".

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// Pattern is a compiled pattern. It is immutable and safe for concurrent use.
type Pattern struct {
	src  string
	prog []Instruction
	pf   *prefilter
}

func Compile(re string) (Pattern, error) {
	prog, err := parse(re)
	if err != nil {
		return Pattern{}, fmt.Errorf("failed to compile pattern %q: %w", re, err)
	}
	return newPattern(re, prog), nil
}

func MustCompile(re string) Pattern {
	p, err := Compile(re)
	if err != nil {
		panic(err)
	}
	return p
}

// Load builds a Pattern from a program, e.g. one obtained from Instructions.
// The program is copied.
func Load(prog []Instruction) (Pattern, error) {
	if err := validate(prog); err != nil {
		return Pattern{}, fmt.Errorf("failed to load program: %w", err)
	}
	prog = append([]Instruction(nil), prog...)
	return newPattern(source(prog), prog), nil
}

func MustLoad(prog []Instruction) Pattern {
	p, err := Load(prog)
	if err != nil {
		panic(err)
	}
	return p
}

func newPattern(src string, prog []Instruction) Pattern {
	return Pattern{src: src, prog: prog, pf: newPrefilter(prog)}
}

// source reconstructs the pattern text of a valid program.
func source(prog []Instruction) string {
	out := strings.Builder{}
	for _, in := range prog {
		if in.Op == OpFinal {
			break
		}
		if in.Atom.Wildcard {
			out.WriteRune(wildcard)
		} else {
			out.WriteRune(in.Atom.Char)
		}
		switch {
		case in.Op == OpAtLeast && in.Bound == 0:
			out.WriteByte('*')
		case in.Op == OpAtLeast && in.Bound == 1:
			out.WriteByte('+')
		case in.Op == OpAtMost && in.Bound == 1:
			out.WriteByte('?')
		case in.quantified():
			// not expressible in the syntax
			fmt.Fprintf(&out, "{%s %d}", in.Op, in.Bound)
		}
	}
	return out.String()
}

// String returns the source text of the pattern.
func (p Pattern) String() string {
	return p.src
}

// Program returns the flat instruction listing, e.g. "Literal('a') AtLeast(0) Any Final".
func (p Pattern) Program() string {
	return formatProgram(p.prog)
}

// Instructions returns a copy of the compiled program.
func (p Pattern) Instructions() []Instruction {
	return append([]Instruction(nil), p.prog...)
}

// LiteralPrefix returns the literal text every match starts with, if any.
func (p Pattern) LiteralPrefix() string {
	if p.pf == nil {
		return ""
	}
	return string(p.pf.prefix)
}

// Find returns the start and length, in codepoints, of the leftmost match in s.
func (p Pattern) Find(s string) (start int, length int, ok bool) {
	return p.find([]rune(s))
}

func (p Pattern) find(text []rune) (int, int, bool) {
	if p.prog == nil {
		// zero Pattern, behaves like the empty pattern
		return 0, 0, true
	}
	var next func(int) int
	if p.pf != nil {
		next = p.pf.candidates(text)
	}
	return run(p.prog, text, next)
}

// FindIndex is like Find but returns byte offsets into s, s[start:end] is the match.
func (p Pattern) FindIndex(s string) (start int, end int, ok bool) {
	at, length, ok := p.find([]rune(s))
	if !ok {
		return 0, 0, false
	}
	start = byteOffset(s, at)
	end = start + byteOffset(s[start:], length)
	return start, end, true
}

func (p Pattern) FindString(s string) (string, bool) {
	start, end, ok := p.FindIndex(s)
	if !ok {
		return "", false
	}
	return s[start:end], true
}

func (p Pattern) ContainsMatch(s string) bool {
	_, _, ok := p.Find(s)
	return ok
}

// ReplaceFirst replaces the leftmost match in s with the verbatim replacement.
// If there is no match, s is returned unchanged together with false.
func (p Pattern) ReplaceFirst(s string, replacement string) (string, bool) {
	start, end, ok := p.FindIndex(s)
	if !ok {
		return s, false
	}
	out := strings.Builder{}
	out.Grow(len(s) - (end - start) + len(replacement))
	out.WriteString(s[:start])
	out.WriteString(replacement)
	out.WriteString(s[end:])
	return out.String(), true
}

// byteOffset returns the byte offset of the n-th codepoint of s, counting
// codepoints the way a conversion to []rune does.
func byteOffset(s string, n int) int {
	off := 0
	for i := 0; i < n && off < len(s); i++ {
		_, size := utf8.DecodeRuneInString(s[off:])
		off += size
	}
	return off
}
