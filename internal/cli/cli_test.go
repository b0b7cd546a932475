package cli

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/kylelemons/godebug/pretty"

	"github.com/matzehuels/recipetable/pkg/errors"
)

const sample = `r { [2] a -> step1 -> $j; b -> step2 & salt + [1 tsp] pepper -> $j; $j -> step3 -> <>; }`

const sampleDebug = " (1, 1, [2] a) (1, 1, step1) (1, 2, step3) (1, 2, <>)\n" +
	" (1, 1, b) (1, 1, step2 & salt + [1 tsp] pepper)\n"

const broken = `broken {
	a -> stir -> $x;
	$x -> fry -> $y;
	$y -> rest -> $x;
	b -> bake;
	$x -> <>;
}`

// execute runs the root command with isolated config and cache directories.
func execute(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	captureStatus(t)
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("XDG_CACHE_HOME", t.TempDir())

	c := New(io.Discard, LogInfo)
	root := c.RootCommand()
	var out bytes.Buffer
	root.SetIn(strings.NewReader(stdin))
	root.SetOut(&out)
	root.SetErr(io.Discard)
	root.SetArgs(args)
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read %s: %v", path, err)
	}
	return string(data)
}

func TestDebugTableStdio(t *testing.T) {
	out, err := execute(t, sample, "debug-table")
	if err != nil {
		t.Fatalf("debug-table error: %v", err)
	}
	if out != sampleDebug {
		t.Errorf("debug-table =\n%q\nwant\n%q", out, sampleDebug)
	}

	out, err = execute(t, sample, "debug-table", "-", "-")
	if err != nil || out != sampleDebug {
		t.Errorf("debug-table - - = %q, %v", out, err)
	}
}

func TestDebugTableJSON(t *testing.T) {
	out, err := execute(t, sample, "debug-table", "--json")
	if err != nil {
		t.Fatalf("debug-table --json error: %v", err)
	}
	if !strings.HasPrefix(out, "{") || !strings.Contains(out, `"step3"`) {
		t.Errorf("debug-table --json = %s", out)
	}
}

func TestDebugParseTree(t *testing.T) {
	dir := t.TempDir()
	in := writeFile(t, dir, "eggs.recipe", `eggs { [2] eggs -> whisk -> $mix; $mix -> stir & salt -> <>; }`)

	out, err := execute(t, "", "debug-parse-tree", in)
	if err != nil {
		t.Fatalf("debug-parse-tree error: %v", err)
	}
	want := `eggs {
  [2] eggs -> whisk -> $mix;
  $mix -> stir & salt -> <>;
}
`
	if out != want {
		t.Errorf("debug-parse-tree =\n%s\nwant\n%s", out, want)
	}
}

func TestDebugAnalysisReportsProblems(t *testing.T) {
	out, err := execute(t, broken, "debug-analysis")
	if err != nil {
		t.Fatalf("debug-analysis should not fail on problems: %v", err)
	}
	for _, want := range []string{"$x", "never reaches a join point", "involved in a cycle"} {
		if !strings.Contains(out, want) {
			t.Errorf("debug-analysis missing %q:\n%s", want, out)
		}
	}

	out, err = execute(t, broken, "debug-analysis", "--yaml")
	if err != nil {
		t.Fatalf("debug-analysis --yaml error: %v", err)
	}
	if !strings.Contains(out, "problems:") {
		t.Errorf("debug-analysis --yaml missing problems:\n%s", out)
	}
}

func TestDebugBackwardTree(t *testing.T) {
	out, err := execute(t, sample, "debug-backward-tree")
	if err != nil {
		t.Fatalf("debug-backward-tree error: %v", err)
	}
	for _, want := range []string{"step3", "step1", "step2"} {
		if !strings.Contains(out, want) {
			t.Errorf("debug-backward-tree missing %q:\n%s", want, out)
		}
	}

	_, err = execute(t, broken, "debug-backward-tree")
	if !errors.Is(err, errors.ErrCodeInvalidRecipe) {
		t.Errorf("debug-backward-tree error = %v, want %v", err, errors.ErrCodeInvalidRecipe)
	}
}

func TestHTMLTable(t *testing.T) {
	dir := t.TempDir()
	in := writeFile(t, dir, "r.recipe", sample)
	outPath := filepath.Join(dir, "r.html")

	if _, err := execute(t, "", "html-table", in, outPath, "--done_class", "fin", "--amount_class", "qty"); err != nil {
		t.Fatalf("html-table error: %v", err)
	}
	got := readFile(t, outPath)
	if !strings.HasPrefix(got, "<table>") {
		t.Errorf("html-table should not be standalone:\n%s", got)
	}
	for _, want := range []string{`class="fin"`, `<span class="qty">2</span>`, `rowspan="2"`} {
		if !strings.Contains(got, want) {
			t.Errorf("html-table missing %q:\n%s", want, got)
		}
	}
}

func TestHTMLTableStandalone(t *testing.T) {
	out, err := execute(t, sample, "html-table", "--standalone")
	if err != nil {
		t.Fatalf("html-table --standalone error: %v", err)
	}
	if !strings.HasPrefix(out, "<!DOCTYPE html>") {
		t.Errorf("standalone output:\n%s", out)
	}

	out, err = execute(t, sample, "html-table", "--standalone", "--html_header", "<main>\n", "--html_footer", "</main>\n")
	if err != nil {
		t.Fatalf("html-table with header error: %v", err)
	}
	if !strings.HasPrefix(out, "<main>\n<table>") || !strings.HasSuffix(out, "</main>\n") {
		t.Errorf("custom header/footer output:\n%s", out)
	}
}

func TestHTMLTableConfig(t *testing.T) {
	dir := t.TempDir()
	cfg := writeFile(t, dir, "config.toml", "[html]\ningredient_class = \"ing\"\n")

	out, err := execute(t, sample, "--config", cfg, "html-table")
	if err != nil {
		t.Fatalf("html-table error: %v", err)
	}
	if !strings.Contains(out, `class="ing"`) {
		t.Errorf("config class not applied:\n%s", out)
	}

	out, err = execute(t, sample, "--config", cfg, "html-table", "--ingredient_class", "flag")
	if err != nil {
		t.Fatalf("html-table error: %v", err)
	}
	if !strings.Contains(out, `class="flag"`) {
		t.Errorf("flag should override config:\n%s", out)
	}
}

func TestRenderMultipleFormats(t *testing.T) {
	dir := t.TempDir()
	in := writeFile(t, dir, "soup.recipe", sample)

	if _, err := execute(t, "", "render", in, "-f", "html,debug,dot", "-q"); err != nil {
		t.Fatalf("render error: %v", err)
	}
	base := filepath.Join(dir, "soup")
	if got := readFile(t, base+".debug.txt"); got != sampleDebug {
		t.Errorf("debug artifact =\n%q\nwant\n%q", got, sampleDebug)
	}
	if got := readFile(t, base+".html"); !strings.HasPrefix(got, "<table>") {
		t.Errorf("html artifact:\n%s", got)
	}
	if got := readFile(t, base+".gv"); !strings.HasPrefix(got, "digraph") {
		t.Errorf("dot artifact:\n%s", got)
	}
}

func TestRenderSingleFormat(t *testing.T) {
	out, err := execute(t, sample, "render", "-f", "debug", "-q")
	if err != nil {
		t.Fatalf("render error: %v", err)
	}
	if out != sampleDebug {
		t.Errorf("render -f debug =\n%q\nwant\n%q", out, sampleDebug)
	}
}

func TestCommandErrors(t *testing.T) {
	tests := []struct {
		name  string
		stdin string
		args  []string
		code  errors.Code
	}{
		{"missing file", "", []string{"debug-table", "/nonexistent/r.recipe"}, errors.ErrCodeFileNotFound},
		{"parse error", "r { a -> ; }", []string{"debug-table"}, errors.ErrCodeParse},
		{"invalid recipe", broken, []string{"html-table"}, errors.ErrCodeInvalidRecipe},
		{"unknown format", sample, []string{"render", "-f", "gif", "-q"}, errors.ErrCodeInvalidFormat},
		{"stdin multi format", sample, []string{"render", "-f", "html,debug", "-q"}, errors.ErrCodeInvalidOption},
		{"bad class", sample, []string{"html-table", "--done_class", `a"b`}, errors.ErrCodeInvalidOption},
		{"viewer on stdin", sample, []string{"show"}, errors.ErrCodeInvalidInput},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := execute(t, tt.stdin, tt.args...)
			if !errors.Is(err, tt.code) {
				t.Errorf("error = %v, want code %v", err, tt.code)
			}
		})
	}
}

func TestShowPrint(t *testing.T) {
	out, err := execute(t, sample, "show", "--print")
	if err != nil {
		t.Fatalf("show --print error: %v", err)
	}
	if strings.Count(out, "step3") != 1 || !strings.Contains(out, "[2] a") {
		t.Errorf("show --print:\n%s", out)
	}
}

func TestGraphDOT(t *testing.T) {
	out, err := execute(t, sample, "graph")
	if err != nil {
		t.Fatalf("graph error: %v", err)
	}
	if !strings.HasPrefix(out, "digraph G {") {
		t.Errorf("graph output:\n%s", out)
	}
}

func TestCachePathAndClear(t *testing.T) {
	dir := t.TempDir()
	cacheDir := filepath.Join(dir, "cache")
	cfg := writeFile(t, dir, "config.toml", "[cache]\ndir = \""+cacheDir+"\"\n")

	out, err := execute(t, "", "--config", cfg, "cache", "path")
	if err != nil {
		t.Fatalf("cache path error: %v", err)
	}
	if strings.TrimSpace(out) != cacheDir {
		t.Errorf("cache path = %q, want %q", out, cacheDir)
	}

	if _, err := execute(t, sample, "--config", cfg, "render", "-f", "debug", "-q"); err != nil {
		t.Fatalf("render error: %v", err)
	}
	entries, _ := os.ReadDir(cacheDir)
	if len(entries) == 0 {
		t.Fatal("render did not populate the cache")
	}

	if _, err := execute(t, "", "--config", cfg, "cache", "clear"); err != nil {
		t.Fatalf("cache clear error: %v", err)
	}
	var files int
	_ = filepath.WalkDir(cacheDir, func(path string, d os.DirEntry, err error) error {
		if err == nil && !d.IsDir() {
			files++
		}
		return nil
	})
	if files != 0 {
		t.Errorf("cache clear left %d files", files)
	}
}

func TestParseFormats(t *testing.T) {
	tests := []struct {
		input string
		want  []string
	}{
		{"", nil},
		{"html", []string{"html"}},
		{"svg, pdf,png", []string{"svg", "pdf", "png"}},
		{"html,html,debug", []string{"html", "debug"}},
		{",,", nil},
	}
	for _, tt := range tests {
		if diff := pretty.Compare(parseFormats(tt.input), tt.want); diff != "" {
			t.Errorf("parseFormats(%q) diff (-got +want):\n%s", tt.input, diff)
		}
	}
}

func TestBasePath(t *testing.T) {
	tests := []struct {
		output, input, want string
	}{
		{"", "soup.recipe", "soup"},
		{"-", "dir/soup.recipe", "dir/soup"},
		{"out.html", "soup.recipe", "out"},
		{"out.svg", "soup.recipe", "out"},
		{"out.v2", "soup.recipe", "out.v2"},
		{"out", "soup.recipe", "out"},
	}
	for _, tt := range tests {
		if got := basePath(tt.output, tt.input); got != tt.want {
			t.Errorf("basePath(%q, %q) = %q, want %q", tt.output, tt.input, got, tt.want)
		}
	}
}

func TestOutputPaths(t *testing.T) {
	got, err := outputPaths("soup.recipe", "-", []string{"html", "text", "dot", "png"})
	if err != nil {
		t.Fatalf("outputPaths() error: %v", err)
	}
	want := map[string]string{
		"html": "soup.html",
		"text": "soup.text.txt",
		"dot":  "soup.gv",
		"png":  "soup.png",
	}
	if diff := pretty.Compare(got, want); diff != "" {
		t.Errorf("outputPaths() diff (-got +want):\n%s", diff)
	}

	got, err = outputPaths("-", "-", []string{"svg"})
	if err != nil || got["svg"] != "-" {
		t.Errorf("single format to stdout = %v, %v", got, err)
	}

	if _, err := outputPaths("-", "-", []string{"svg", "png"}); !errors.Is(err, errors.ErrCodeInvalidOption) {
		t.Errorf("multi format from stdin error = %v", err)
	}
}

func TestReportError(t *testing.T) {
	buf := captureStatus(t)

	ReportError(errors.New(errors.ErrCodeInvalidFormat, "unsupported format %q", "gif"))
	if !strings.Contains(buf.String(), `unsupported format "gif"`) {
		t.Errorf("ReportError output:\n%s", buf.String())
	}

	buf.Reset()
	ReportError(errors.Join(errors.ErrCodeInvalidRecipe, []error{
		errors.New(errors.ErrCodeInvalidRecipe, "first"),
		errors.New(errors.ErrCodeInvalidRecipe, "second"),
	}, "recipe %q has 2 problems", "r"))
	out := buf.String()
	for _, want := range []string{`recipe "r" has 2 problems`, "first", "second", "debug-analysis"} {
		if !strings.Contains(out, want) {
			t.Errorf("ReportError missing %q:\n%s", want, out)
		}
	}
}

func TestCompletion(t *testing.T) {
	for _, shell := range completionShells {
		out, err := execute(t, "", "completion", shell)
		if err != nil {
			t.Fatalf("completion %s error: %v", shell, err)
		}
		if !strings.Contains(out, appName) {
			t.Errorf("completion %s output does not mention %s", shell, appName)
		}
	}

	if _, err := execute(t, "", "completion", "tcsh"); err == nil {
		t.Error("completion tcsh should fail")
	}
}
