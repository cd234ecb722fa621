package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"blockchart/internal/config"
	"blockchart/internal/mcp"
	"blockchart/internal/render"
	"blockchart/internal/repl"

	"github.com/spf13/cobra"
)

func newREPLCmd(app *App) *cobra.Command {
	var history string

	cmd := &cobra.Command{
		Use:   "repl",
		Short: "Edit a canvas from a line-oriented shell",
		Example: strings.TrimSpace(`
blockchart repl
blockchart> add 0
blockchart> drag 1 300 200
blockchart> edges
`),
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := openSession(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			defer sess.close()

			if strings.TrimSpace(history) == "" {
				if dir, err := resolveConfigDir(app); err == nil {
					history = filepath.Join(dir, "history")
				}
			}
			return repl.New(sess.ed, cmd.OutOrStdout()).Run(repl.Config{HistoryFile: history})
		},
	}

	cmd.Flags().StringVar(&history, "history", "", "History file (default <config-dir>/history)")
	return cmd
}

func newRunCmd(app *App) *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "run [script]",
		Short: "Run shell commands from a file (or stdin) and print the resulting canvas",
		Long: strings.TrimSpace(`
Run repl commands non-interactively, one per line. Blank lines and lines starting
with # are skipped. The first failing line stops the run.

Command output goes to stderr; the final canvas goes to stdout, as JSON (--output graph)
or as an SVG drawing of the connectors (--output svg).
`),
		Example: strings.TrimSpace(`
printf 'add 0\nadd 1\nmove 2 500 80\n' | blockchart run --pretty
blockchart run layout.txt --output svg > edges.svg
`),
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			switch output {
			case "graph", "svg":
			default:
				return writeErr(cmd, fmt.Errorf("run: unknown --output %q (graph|svg)", output))
			}

			var in io.Reader = cmd.InOrStdin()
			name := "stdin"
			if len(args) == 1 && args[0] != "-" {
				f, err := os.Open(args[0])
				if err != nil {
					return writeErr(cmd, err)
				}
				defer f.Close()
				in, name = f, args[0]
			}

			sess, err := openSession(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			defer sess.close()

			if err := runScript(repl.New(sess.ed, cmd.ErrOrStderr()), in, name); err != nil {
				return writeErr(cmd, err)
			}

			if output == "svg" {
				render.SVG(cmd.OutOrStdout(), sess.ed.Scene(), render.DefaultEdgeStyle())
				return nil
			}
			return writeOut(cmd, app, map[string]any{"data": sess.ed.Snapshot()})
		},
	}

	cmd.Flags().StringVar(&output, "output", "graph", "What to print after the script (graph|svg)")
	return cmd
}

func runScript(sh *repl.Shell, in io.Reader, name string) error {
	sc := bufio.NewScanner(in)
	for lineNo := 1; sc.Scan(); lineNo++ {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if err := sh.Exec(line); err != nil {
			if errors.Is(err, repl.ErrExit) {
				return nil
			}
			return fmt.Errorf("%s:%d: %w", name, lineNo, err)
		}
	}
	return sc.Err()
}

func newMCPCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "mcp",
		Short: "Serve a canvas to an MCP client over stdio",
		Long: strings.TrimSpace(`
Run a Model Context Protocol server on stdin/stdout.

Tools: add_child, move_node, drag_node, list_edges.
Resource: blockchart://graph (JSON).
`),
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := openSession(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			defer sess.close()
			return mcp.NewServer(sess.ed, Version).Serve()
		},
	}
}

func resolveConfigDir(app *App) (string, error) {
	if dir := strings.TrimSpace(app.ConfigDir); dir != "" {
		return dir, nil
	}
	return config.Dir()
}
