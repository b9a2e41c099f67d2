package main

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"

	"github.com/mfroeh/rematch/codegen"
	"github.com/mfroeh/rematch/pattern"
)

// lines longer than this are reported as errors
const maxLineSize = 16 * 1024 * 1024

type searchCmd struct {
	Pattern          string   `arg:"" name:"pattern" help:"Pattern to search for."`
	Paths            []string `arg:"" optional:"" name:"path" help:"Paths to search, - reads stdin. Defaults to the current directory."`
	Count            bool     `short:"c" help:"Only print the number of matching lines per file."`
	FilesWithMatches bool     `short:"l" help:"Only print the names of files containing a match."`
}

func (c *searchCmd) Run(g *Globals, e *env) error {
	re, err := pattern.Compile(c.Pattern)
	if err != nil {
		return fmt.Errorf("failed to build pattern: %w", err)
	}

	if len(c.Paths) == 0 {
		c.Paths = []string{"."}
	}

	s := searcher{re: re, out: e.stdout, highlight: g.highlight(), count: c.Count, filesOnly: c.FilesWithMatches}
	if err := visitPaths(c.Paths, e.stdin, s.search); err != nil {
		return err
	}
	if s.matched == 0 {
		return errNoMatch
	}
	return nil
}

type searcher struct {
	re        pattern.Pattern
	out       io.Writer
	highlight *color.Color
	count     bool
	filesOnly bool
	// lines matched across all files
	matched int
}

func (s *searcher) search(name string, r io.Reader) error {
	printFileHeader := false
	matched := 0
	err := scanLines(r, func(i int, line string) error {
		start, end, ok := s.re.FindIndex(line)
		if !ok {
			return nil
		}
		matched++
		if s.count || s.filesOnly {
			return nil
		}

		if !printFileHeader {
			printFileHeader = true
			fmt.Fprintln(s.out, name, ":")
		}
		_, err := fmt.Fprintf(s.out, "%d:%s%s%s\n", i+1, line[:start], s.highlight.Sprint(line[start:end]), line[end:])
		return err
	})
	if err != nil {
		return fmt.Errorf("%s: %w", name, err)
	}
	s.matched += matched

	switch {
	case s.filesOnly:
		if matched > 0 {
			fmt.Fprintln(s.out, name)
		}
	case s.count:
		fmt.Fprintf(s.out, "%s:%d\n", name, matched)
	case printFileHeader:
		fmt.Fprintln(s.out)
	}
	return nil
}

// scanLines calls fn with every line of r and its zero based index.
func scanLines(r io.Reader, fn func(i int, line string) error) error {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)
	for i := 0; scanner.Scan(); i++ {
		if err := fn(i, scanner.Text()); err != nil {
			return err
		}
	}
	return scanner.Err()
}

type replaceCmd struct {
	Pattern      string   `arg:"" name:"pattern" help:"Pattern to search for."`
	Replacement  string   `arg:"" name:"replacement" help:"Text inserted verbatim in place of the first match of every line."`
	Paths        []string `arg:"" optional:"" name:"path" help:"Paths to read, - reads stdin. Defaults to stdin."`
	OnlyMatching bool     `short:"o" help:"Only print lines that contained a match."`
}

func (c *replaceCmd) Run(e *env) error {
	re, err := pattern.Compile(c.Pattern)
	if err != nil {
		return fmt.Errorf("failed to build pattern: %w", err)
	}

	if len(c.Paths) == 0 {
		c.Paths = []string{stdinPath}
	}

	w := bufio.NewWriter(e.stdout)
	replaced := 0
	err = visitPaths(c.Paths, e.stdin, func(name string, r io.Reader) error {
		err := scanLines(r, func(_ int, line string) error {
			out, ok := re.ReplaceFirst(line, c.Replacement)
			if ok {
				replaced++
			} else if c.OnlyMatching {
				return nil
			}
			_, err := fmt.Fprintln(w, out)
			return err
		})
		if err != nil {
			return fmt.Errorf("%s: %w", name, err)
		}
		return nil
	})
	if flushErr := w.Flush(); err == nil {
		err = flushErr
	}
	if err != nil {
		return err
	}
	e.log.Printf("replaced %d line(s)", replaced)
	if replaced == 0 {
		return errNoMatch
	}
	return nil
}

type explainCmd struct {
	Pattern string `arg:"" name:"pattern" help:"Pattern to compile."`
}

func (c *explainCmd) Run(e *env) error {
	re, err := pattern.Compile(c.Pattern)
	if err != nil {
		return fmt.Errorf("failed to build pattern: %w", err)
	}

	fmt.Fprintf(e.stdout, "pattern: %q\n", re.String())
	fmt.Fprintf(e.stdout, "program: %s\n", re.Program())
	if prefix := re.LiteralPrefix(); prefix != "" {
		fmt.Fprintf(e.stdout, "prefix:  %q\n", prefix)
	}
	return nil
}

type genCmd struct {
	Patterns []string `arg:"" name:"variable" help:"Variables to generate as name=pattern, e.g. Colour=colou?r."`
	Package  string   `short:"p" default:"main" help:"Package of the generated file."`
	Output   string   `short:"o" placeholder:"FILE" help:"Write to FILE instead of stdout."`
}

func (c *genCmd) Run(e *env) error {
	configs := make([]codegen.Config, 0, len(c.Patterns))
	for _, p := range c.Patterns {
		name, re, ok := strings.Cut(p, "=")
		if !ok {
			return fmt.Errorf("expected name=pattern, got %q", p)
		}
		configs = append(configs, codegen.Config{Package: c.Package, Name: name, Pattern: re})
	}

	out := bytes.Buffer{}
	if err := codegen.Generate(&out, configs...); err != nil {
		return err
	}

	if c.Output == "" {
		_, err := e.stdout.Write(out.Bytes())
		return err
	}
	if err := os.WriteFile(c.Output, out.Bytes(), 0o644); err != nil {
		return err
	}
	e.log.Printf("wrote %s", c.Output)
	return nil
}
