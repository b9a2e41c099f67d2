package main

import (
	"errors"
	"io"
	"log"
	"os"

	"github.com/alecthomas/kong"
	"github.com/fatih/color"
)

const (
	exitMatch   = 0
	exitNoMatch = 1
	exitError   = 2
)

// errNoMatch is returned by commands that found nothing, it is not reported.
var errNoMatch = errors.New("no match")

type Globals struct {
	Config kong.ConfigFlag `help:"Load flag defaults from a YAML file." placeholder:"FILE"`
	Color  string          `enum:"auto,always,never" default:"auto" help:"Highlight matches (${enum})."`
}

// highlight returns the color used for matches, honoring --color.
func (g *Globals) highlight() *color.Color {
	c := color.New(color.FgRed)
	switch g.Color {
	case "always":
		c.EnableColor()
	case "never":
		c.DisableColor()
	}
	return c
}

type cli struct {
	Globals

	Search  searchCmd  `cmd:"" default:"withargs" help:"Recursively search paths for lines matching a pattern."`
	Replace replaceCmd `cmd:"" help:"Print lines with the first match of a pattern replaced."`
	Explain explainCmd `cmd:"" help:"Print the compiled program of a pattern."`
	Gen     genCmd     `cmd:"" help:"Generate Go source embedding compiled patterns."`
}

// env is what commands use instead of the process globals.
type env struct {
	stdin  io.Reader
	stdout io.Writer
	log    *log.Logger
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

func run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	logger := log.New(stderr, "rematch: ", 0)

	var c cli
	parser, err := kong.New(&c,
		kong.Name("rematch"),
		kong.Description("Searches for and replaces the leftmost match of a pattern. "+
			"Patterns consist of literal characters, '.' for any character and the '*', '+' and '?' quantifiers."),
		kong.UsageOnError(),
		kong.Writers(stdout, stderr),
		kong.Configuration(yamlLoader, configPaths...),
	)
	if err != nil {
		logger.Printf("%v", err)
		return exitError
	}

	ctx, err := parser.Parse(args)
	if err != nil {
		logger.Printf("%v", err)
		return exitError
	}

	err = ctx.Run(&c.Globals, &env{stdin: stdin, stdout: stdout, log: logger})
	switch {
	case err == nil:
		return exitMatch
	case errors.Is(err, errNoMatch):
		return exitNoMatch
	default:
		logger.Printf("%v", err)
		return exitError
	}
}
