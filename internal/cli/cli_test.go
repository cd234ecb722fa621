package cli

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func runCLI(t *testing.T, stdin string, args ...string) (stdout []byte, stderr []byte, err error) {
	t.Helper()

	cmd := NewRootCmd()

	var outBuf bytes.Buffer
	var errBuf bytes.Buffer
	cmd.SetOut(&outBuf)
	cmd.SetErr(&errBuf)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(args)

	e := cmd.Execute()
	return outBuf.Bytes(), errBuf.Bytes(), e
}

func mustData(t *testing.T, stdin string, args ...string) map[string]any {
	t.Helper()
	stdout, stderr, err := runCLI(t, stdin, args...)
	if err != nil {
		t.Fatalf("command failed: blockchart %v\nerr: %v\nstderr:\n%s", args, err, stderr)
	}
	var env map[string]any
	if err := json.Unmarshal(stdout, &env); err != nil {
		t.Fatalf("unmarshal stdout: %v\nstdout:\n%s", err, stdout)
	}
	data, ok := env["data"].(map[string]any)
	if !ok {
		t.Fatalf("expected data object, got %#v", env["data"])
	}
	return data
}

func TestConfigShow_DefaultsAndSeedFlag(t *testing.T) {
	t.Setenv("BLOCKCHART_CONFIG_DIR", t.TempDir())

	data := mustData(t, "", "config", "show")
	canvas := data["canvas"].(map[string]any)
	if canvas["spawnWidth"] != 1000.0 || canvas["seed"] != 0.0 {
		t.Fatalf("unexpected canvas config %#v", canvas)
	}

	data = mustData(t, "", "--seed", "9", "config", "show")
	if got := data["canvas"].(map[string]any)["seed"]; got != 9.0 {
		t.Fatalf("expected seed 9, got %v", got)
	}

	if _, _, err := runCLI(t, "", "--seed", "nine", "config", "show"); err == nil {
		t.Fatalf("expected bad seed to fail")
	}
}

func TestConfigShow_TOML(t *testing.T) {
	t.Setenv("BLOCKCHART_CONFIG_DIR", t.TempDir())
	stdout, _, err := runCLI(t, "", "--format", "toml", "config", "show")
	if err != nil {
		t.Fatalf("config show: %v", err)
	}
	if !strings.Contains(string(stdout), "[canvas]") || !strings.Contains(string(stdout), "[webtui]") {
		t.Fatalf("expected toml tables, got:\n%s", stdout)
	}
}

func TestConfigInitAndPath(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("BLOCKCHART_CONFIG_DIR", dir)

	data := mustData(t, "", "config", "path")
	if data["path"] != filepath.Join(dir, "config.toml") || data["exists"] != false {
		t.Fatalf("unexpected path data %#v", data)
	}

	mustData(t, "", "config", "init")
	if _, err := os.Stat(filepath.Join(dir, "config.toml")); err != nil {
		t.Fatalf("expected config file: %v", err)
	}
	if data := mustData(t, "", "config", "path"); data["exists"] != true {
		t.Fatalf("expected exists=true, got %#v", data)
	}

	if _, stderr, err := runCLI(t, "", "config", "init"); err == nil || !strings.Contains(string(stderr), "already exists") {
		t.Fatalf("expected second init to fail, err=%v stderr=%s", err, stderr)
	}
	mustData(t, "", "config", "init", "--force")
}

func TestConfigShow_ReportsBrokenFile(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("BLOCKCHART_CONFIG_DIR", dir)
	if err := os.WriteFile(filepath.Join(dir, "config.toml"), []byte("[tui]\nglyphs = \"emoji\"\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	_, stderr, err := runCLI(t, "", "config", "show")
	if err == nil || !strings.Contains(string(stderr), "tui.glyphs") {
		t.Fatalf("expected glyphs error, err=%v stderr=%s", err, stderr)
	}
}

func TestRun_ScriptFromStdin(t *testing.T) {
	t.Setenv("BLOCKCHART_CONFIG_DIR", t.TempDir())

	script := "add 0\n\n# second level\nadd 1\nmove 2 10 20\n"
	stdout, stderr, err := runCLI(t, script, "--seed", "3", "run")
	if err != nil {
		t.Fatalf("run: %v\nstderr:\n%s", err, stderr)
	}
	if !strings.Contains(string(stderr), "added 1 (parent 0)") {
		t.Fatalf("expected shell output on stderr, got:\n%s", stderr)
	}

	var env struct {
		Data struct {
			Nodes []struct {
				ID       int     `json:"id"`
				ParentID *int    `json:"parentId"`
				X        float64 `json:"x"`
				Y        float64 `json:"y"`
			} `json:"nodes"`
			Edges []struct {
				ParentID int `json:"parentId"`
				ChildID  int `json:"childId"`
			} `json:"edges"`
		} `json:"data"`
	}
	if err := json.Unmarshal(stdout, &env); err != nil {
		t.Fatalf("unmarshal: %v\n%s", err, stdout)
	}
	if len(env.Data.Nodes) != 3 || len(env.Data.Edges) != 2 {
		t.Fatalf("expected 3 nodes and 2 edges, got %+v", env.Data)
	}
	n := env.Data.Nodes[2]
	if n.ParentID == nil || *n.ParentID != 1 || n.X != 10 || n.Y != 20 {
		t.Fatalf("unexpected node 2 %+v", n)
	}
}

func TestRun_SameSeedSamePlacement(t *testing.T) {
	t.Setenv("BLOCKCHART_CONFIG_DIR", t.TempDir())
	a, _, err := runCLI(t, "add 0\nadd 0\n", "--seed", "11", "run")
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	b, _, err := runCLI(t, "add 0\nadd 0\n", "--seed", "11", "run")
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if !bytes.Equal(a, b) {
		t.Fatalf("expected identical output for the same seed:\n%s\n%s", a, b)
	}
}

func TestRun_StopsAtFailingLine(t *testing.T) {
	t.Setenv("BLOCKCHART_CONFIG_DIR", t.TempDir())
	_, stderr, err := runCLI(t, "add 0\nbogus\nadd 0\n", "run")
	if err == nil || !strings.Contains(string(stderr), "stdin:2:") {
		t.Fatalf("expected line-numbered error, err=%v stderr=%s", err, stderr)
	}
}

func TestRun_FileAndSVGOutput(t *testing.T) {
	t.Setenv("BLOCKCHART_CONFIG_DIR", t.TempDir())
	path := filepath.Join(t.TempDir(), "script.txt")
	if err := os.WriteFile(path, []byte("add 0\nmove 1 400 300\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	stdout, _, err := runCLI(t, "", "run", path, "--output", "svg")
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	out := string(stdout)
	if !strings.Contains(out, "<svg") || !strings.Contains(out, `d="M220,220 C320,220 320,320 420,320"`) {
		t.Fatalf("unexpected svg:\n%s", out)
	}

	if _, _, err := runCLI(t, "", "run", "--output", "png"); err == nil {
		t.Fatalf("expected unknown output to fail")
	}
	if _, _, err := runCLI(t, "", "run", filepath.Join(t.TempDir(), "missing.txt")); err == nil {
		t.Fatalf("expected missing script to fail")
	}
}

func TestRun_WritesDebugLog(t *testing.T) {
	t.Setenv("BLOCKCHART_CONFIG_DIR", t.TempDir())
	logPath := filepath.Join(t.TempDir(), "logs", "debug.log")
	if _, _, err := runCLI(t, "add 0\n", "--debug-log", logPath, "run"); err != nil {
		t.Fatalf("run: %v", err)
	}
	b, err := os.ReadFile(logPath)
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	if !strings.Contains(string(b), "node added") {
		t.Fatalf("expected node added in log, got:\n%s", b)
	}
}

func TestRootCmd_Subcommands(t *testing.T) {
	cmd := NewRootCmd()
	want := []string{"tui", "web", "webtui", "repl", "run", "mcp", "config", "docs"}
	for _, name := range want {
		found := false
		for _, c := range cmd.Commands() {
			if c.Name() == name {
				found = true
				break
			}
		}
		if !found {
			t.Fatalf("missing subcommand %q", name)
		}
	}
}

func TestDocs(t *testing.T) {
	data := mustData(t, "", "docs")
	topics, _ := data["topics"].([]any)
	if len(topics) == 0 {
		t.Fatalf("expected topics, got %#v", data)
	}

	stdout, _, err := runCLI(t, "", "docs", "canvas", "--raw")
	if err != nil || !strings.HasPrefix(string(stdout), "# Canvas model") {
		t.Fatalf("unexpected raw docs err=%v out=%q", err, stdout)
	}

	stdout, _, err = runCLI(t, "", "docs", "scripting", "--render", "notty")
	if err != nil || !strings.Contains(string(stdout), "Scripting") {
		t.Fatalf("unexpected rendered docs err=%v out=%q", err, stdout)
	}

	if _, _, err := runCLI(t, "", "docs", "nope"); err == nil {
		t.Fatalf("expected unknown topic to fail")
	}
}
