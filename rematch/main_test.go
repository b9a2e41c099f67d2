package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type result struct {
	code   int
	stdout string
	stderr string
}

func runCLI(t *testing.T, stdin string, args ...string) result {
	t.Helper()
	// keep the user's config out of the tests
	t.Setenv("HOME", t.TempDir())

	stdout, stderr := bytes.Buffer{}, bytes.Buffer{}
	code := run(args, strings.NewReader(stdin), &stdout, &stderr)
	return result{code: code, stdout: stdout.String(), stderr: stderr.String()}
}

func writeFile(t *testing.T, path string, content []byte) string {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, content, 0o644))
	return path
}

func gzipped(t *testing.T, s string) []byte {
	t.Helper()
	buf := bytes.Buffer{}
	w := gzip.NewWriter(&buf)
	_, err := w.Write([]byte(s))
	require.NoError(t, err)
	require.NoError(t, w.Close())
	return buf.Bytes()
}

func zstded(t *testing.T, s string) []byte {
	t.Helper()
	buf := bytes.Buffer{}
	w, err := zstd.NewWriter(&buf)
	require.NoError(t, err)
	_, err = w.Write([]byte(s))
	require.NoError(t, err)
	require.NoError(t, w.Close())
	return buf.Bytes()
}

const greeting = "hello world\nnothing here\nsay hellllo\n"

func TestSearchFile(t *testing.T) {
	path := writeFile(t, filepath.Join(t.TempDir(), "a.txt"), []byte(greeting))

	got := runCLI(t, "", "--color=never", "hel+o", path)

	assert.Equal(t, 0, got.code, got.stderr)
	assert.Equal(t, path+" :\n1:hello world\n3:say hellllo\n\n", got.stdout)
}

func TestSearchExplicitCommand(t *testing.T) {
	path := writeFile(t, filepath.Join(t.TempDir(), "a.txt"), []byte(greeting))

	got := runCLI(t, "", "search", "--color=never", "wor.*", path)

	assert.Equal(t, 0, got.code, got.stderr)
	assert.Equal(t, path+" :\n1:hello world\n\n", got.stdout)
}

func TestSearchDirectory(t *testing.T) {
	dir := t.TempDir()
	a := writeFile(t, filepath.Join(dir, "a.txt"), []byte(greeting))
	b := writeFile(t, filepath.Join(dir, "sub", "b.txt.gz"), gzipped(t, "no\nhello\n"))
	c := writeFile(t, filepath.Join(dir, "sub", "c.zst"), zstded(t, "hello again\n"))
	writeFile(t, filepath.Join(dir, "sub", "d.txt"), []byte("nothing to see\n"))
	// broken symlinks are skipped
	require.NoError(t, os.Symlink(filepath.Join(dir, "missing"), filepath.Join(dir, "broken")))

	got := runCLI(t, "", "search", "--color=never", "-c", "hel+o", dir)

	assert.Equal(t, 0, got.code, got.stderr)
	want := strings.Join([]string{
		a + ":2",
		b + ":1",
		c + ":1",
		filepath.Join(dir, "sub", "d.txt") + ":0",
	}, "\n") + "\n"
	assert.Equal(t, want, got.stdout)
}

func TestSearchFilesWithMatches(t *testing.T) {
	dir := t.TempDir()
	a := writeFile(t, filepath.Join(dir, "a.txt"), []byte(greeting))
	writeFile(t, filepath.Join(dir, "b.txt"), []byte("nothing\n"))

	got := runCLI(t, "", "search", "-l", "say", dir)

	assert.Equal(t, 0, got.code, got.stderr)
	assert.Equal(t, a+"\n", got.stdout)
}

func TestSearchStdin(t *testing.T) {
	got := runCLI(t, "abc\nxabcx\n", "--color=never", "b?c", "-")

	assert.Equal(t, 0, got.code, got.stderr)
	assert.Equal(t, "(standard input) :\n1:abc\n2:xabcx\n\n", got.stdout)
}

func TestSearchHighlightsFirstMatch(t *testing.T) {
	got := runCLI(t, "say hello hello\n", "--color=always", "hel+o", "-")

	assert.Equal(t, 0, got.code, got.stderr)
	assert.Equal(t, "(standard input) :\n1:say \x1b[31mhello\x1b[0m hello\n\n", got.stdout)
}

func TestSearchNoMatch(t *testing.T) {
	got := runCLI(t, "abc\n", "xyz", "-")

	assert.Equal(t, exitNoMatch, got.code)
	assert.Empty(t, got.stdout)
	assert.Empty(t, got.stderr)
}

func TestSearchInvalidPattern(t *testing.T) {
	got := runCLI(t, "abc\n", "ab++", "-")

	assert.Equal(t, exitError, got.code)
	assert.Contains(t, got.stderr, "invalid quantifier position")
	assert.Contains(t, got.stderr, "parser error at 3")
}

func TestSearchMissingPath(t *testing.T) {
	got := runCLI(t, "", "abc", filepath.Join(t.TempDir(), "missing"))

	assert.Equal(t, exitError, got.code)
	assert.Contains(t, got.stderr, "no such file or directory")
}

func TestSearchConfigFile(t *testing.T) {
	dir := t.TempDir()
	a := writeFile(t, filepath.Join(dir, "a.txt"), []byte(greeting))
	cfg := writeFile(t, filepath.Join(dir, "config.yaml"), []byte("color: never\ncount: true\n"))

	got := runCLI(t, "", "--config", cfg, "hel+o", a)

	assert.Equal(t, 0, got.code, got.stderr)
	assert.Equal(t, a+":2\n", got.stdout)
}

func TestReplace(t *testing.T) {
	tests := map[string]struct {
		givenArgs  []string
		givenStdin string
		wantCode   int
		wantStdout string
	}{
		"first match of every line": {
			givenArgs:  []string{"replace", "abce*a[]+", "hello"},
			givenStdin: "eftabca[]]]asfasdf\nnope\nabca[]abca[]\n",
			wantCode:   0,
			wantStdout: "efthelloasfasdf\nnope\nhelloabca[]\n",
		},
		"only matching lines": {
			givenArgs:  []string{"replace", "-o", "abce*a[]+", "hello"},
			givenStdin: "eftabca[]]]asfasdf\nnope\n",
			wantCode:   0,
			wantStdout: "efthelloasfasdf\n",
		},
		"no match": {
			givenArgs:  []string{"replace", "abce*a[]+", "hello"},
			givenStdin: "eftabc[]]]asfasdf\n",
			wantCode:   exitNoMatch,
			wantStdout: "eftabc[]]]asfasdf\n",
		},
		"replacement is verbatim": {
			givenArgs:  []string{"replace", "o+", "$0"},
			givenStdin: "foo\n",
			wantCode:   0,
			wantStdout: "f$0\n",
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			got := runCLI(t, tt.givenStdin, tt.givenArgs...)

			assert.Equal(t, tt.wantCode, got.code, got.stderr)
			assert.Equal(t, tt.wantStdout, got.stdout)
		})
	}
}

func TestReplaceFiles(t *testing.T) {
	dir := t.TempDir()
	a := writeFile(t, filepath.Join(dir, "a.txt.gz"), gzipped(t, "colour\n"))
	b := writeFile(t, filepath.Join(dir, "b.txt"), []byte("color\n"))

	got := runCLI(t, "", "replace", "colou?r", "hue", a, b)

	assert.Equal(t, 0, got.code, got.stderr)
	assert.Equal(t, "hue\nhue\n", got.stdout)
	assert.Contains(t, got.stderr, "replaced 2 line(s)")
}

func TestExplain(t *testing.T) {
	got := runCLI(t, "", "explain", "abc.*[]+")

	assert.Equal(t, 0, got.code, got.stderr)
	assert.Equal(t, `pattern: "abc.*[]+"
program: Literal('a') Literal('b') Literal('c') AtLeast(0) Any Literal('[') AtLeast(1) Literal(']') Final
prefix:  "abc"
`, got.stdout)
}

func TestGen(t *testing.T) {
	got := runCLI(t, "", "gen", "-p", "matchers", "Colour=colou?r", "Any=.")

	require.Equal(t, 0, got.code, got.stderr)
	assert.Contains(t, got.stdout, "package matchers")
	assert.Contains(t, got.stdout, "var Colour = pattern.MustLoad(")
	assert.Contains(t, got.stdout, "var Any = pattern.MustLoad(")
}

func TestGenToFile(t *testing.T) {
	out := filepath.Join(t.TempDir(), "patterns_gen.go")

	got := runCLI(t, "", "gen", "-o", out, "Eq=a=b")

	require.Equal(t, 0, got.code, got.stderr)
	assert.Empty(t, got.stdout)
	content, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Contains(t, string(content), `// Eq matches "a=b".`)
}

func TestGenErrors(t *testing.T) {
	got := runCLI(t, "", "gen", "missing-equals-sign")
	assert.Equal(t, exitError, got.code)
	assert.Contains(t, got.stderr, "expected name=pattern")

	got = runCLI(t, "", "gen", "X=+")
	assert.Equal(t, exitError, got.code)
	assert.Contains(t, got.stderr, "invalid quantifier position")
}
