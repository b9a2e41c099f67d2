// Package codegen emits Go source that embeds compiled patterns, so programs
// don't have to be compiled at init time.
package codegen

import (
	"errors"
	"fmt"
	"go/token"
	"io"

	"github.com/dave/jennifer/jen"

	"github.com/mfroeh/rematch/pattern"
)

const patternPkg = "github.com/mfroeh/rematch/pattern"

type Config struct {
	Package string
	// Name of the generated variable, must be a Go identifier.
	Name    string
	Pattern string
}

func (c Config) validate() error {
	if !token.IsIdentifier(c.Package) {
		return fmt.Errorf("invalid package name %q", c.Package)
	}
	if !token.IsIdentifier(c.Name) {
		return fmt.Errorf("invalid variable name %q", c.Name)
	}
	return nil
}

var errNoPatterns = errors.New("no patterns to generate")

// Generate compiles every pattern in configs and writes a single Go file
// declaring one pattern.Pattern variable per config. All configs must share
// the same package.
func Generate(w io.Writer, configs ...Config) error {
	if len(configs) == 0 {
		return errNoPatterns
	}

	f := jen.NewFile(configs[0].Package)
	f.HeaderComment("Code generated by rematch gen. DO NOT EDIT.")

	for _, c := range configs {
		if err := c.validate(); err != nil {
			return err
		}
		if c.Package != configs[0].Package {
			return fmt.Errorf("package %q of %s differs from %q", c.Package, c.Name, configs[0].Package)
		}

		re, err := pattern.Compile(c.Pattern)
		if err != nil {
			return fmt.Errorf("failed to generate %s: %w", c.Name, err)
		}

		f.Commentf("%s matches %q.", c.Name, re.String())
		f.Commentf("Program: %s", re.Program())
		var instructions []jen.Code
		for _, in := range re.Instructions() {
			instructions = append(instructions, instruction(in))
		}
		f.Var().Id(c.Name).Op("=").Qual(patternPkg, "MustLoad").Call(
			jen.Index().Qual(patternPkg, "Instruction").Custom(jen.Options{
				Open:      "{",
				Close:     "}",
				Separator: ",",
				Multi:     true,
			}, instructions...),
		)
	}

	return f.Render(w)
}

// instruction renders in as an inline composite literal with fields in declaration order.
func instruction(in pattern.Instruction) jen.Code {
	fields := []jen.Code{
		jen.Id("Op").Op(":").Qual(patternPkg, opName(in.Op)),
	}
	if in.Op == pattern.OpFinal {
		return jen.Values(fields...)
	}

	atom := jen.Id("Char").Op(":").LitRune(in.Atom.Char)
	if in.Atom.Wildcard {
		atom = jen.Id("Wildcard").Op(":").True()
	}
	fields = append(fields, jen.Id("Atom").Op(":").Qual(patternPkg, "Atom").Values(atom))
	if in.Op != pattern.OpAtom {
		fields = append(fields, jen.Id("Bound").Op(":").Lit(in.Bound))
	}
	return jen.Values(fields...)
}

func opName(op pattern.Op) string {
	switch op {
	case pattern.OpAtom:
		return "OpAtom"
	case pattern.OpAtLeast:
		return "OpAtLeast"
	case pattern.OpAtMost:
		return "OpAtMost"
	}
	return "OpFinal"
}
