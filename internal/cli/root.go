package cli

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"blockchart/internal/config"
	"blockchart/internal/editor"
	"blockchart/internal/format"
	"blockchart/internal/graph"
	"blockchart/internal/logging"
	"blockchart/internal/tui"

	"github.com/spf13/cobra"
)

// Version is stamped at build time with -ldflags "-X blockchart/internal/cli.Version=...".
var Version = "dev"

type App struct {
	ConfigDir  string
	Seed       string
	DebugLog   string
	LogLevel   string
	PrettyJSON bool
	Format     string
}

func NewRootCmd() *cobra.Command {
	app := &App{}

	cmd := &cobra.Command{
		Use:          "blockchart",
		Short:        "Blockchart node-graph editor (TUI, web, REPL, MCP)",
		SilenceUsage: true,
		Version:      Version,
		Example: strings.TrimSpace(`
  # Edit a canvas in the terminal
  blockchart

  # Edit in the browser (drag & drop, live updates)
  blockchart web --open

  # Script a canvas and print the result
  printf 'add 0\nadd 0\nmove 1 300 120\n' | blockchart run

  # Expose a canvas to an MCP client over stdio
  blockchart mcp
`),
		RunE: func(cmd *cobra.Command, args []string) error {
			// No subcommand => interactive TUI.
			if cmd.HasSubCommands() && len(args) == 0 {
				return runTUI(app)
			}
			return cmd.Help()
		},
	}

	cmd.PersistentFlags().StringVar(&app.ConfigDir, "config-dir", envOr("BLOCKCHART_CONFIG_DIR", ""), "Config directory (default ~/.blockchart)")
	cmd.PersistentFlags().StringVar(&app.Seed, "seed", envOr("BLOCKCHART_SEED", ""), "Seed for child placement (overrides canvas.seed; 0 = clock)")
	cmd.PersistentFlags().StringVar(&app.DebugLog, "debug-log", envOr("BLOCKCHART_DEBUG_LOG", ""), "Write a debug log to this file")
	cmd.PersistentFlags().StringVar(&app.LogLevel, "log-level", envOr("BLOCKCHART_LOG_LEVEL", "debug"), "Log level for --debug-log (debug|info|warn|error)")
	cmd.PersistentFlags().BoolVar(&app.PrettyJSON, "pretty", false, "Pretty-print JSON output")
	cmd.PersistentFlags().StringVar(&app.Format, "format", envOr("BLOCKCHART_FORMAT", "json"), "Output format (json|toml)")

	cmd.AddCommand(newTUICmd(app))
	cmd.AddCommand(newWebCmd(app))
	cmd.AddCommand(newWebTUICmd(app))
	cmd.AddCommand(newREPLCmd(app))
	cmd.AddCommand(newRunCmd(app))
	cmd.AddCommand(newMCPCmd(app))
	cmd.AddCommand(newConfigCmd(app))
	cmd.AddCommand(newDocsCmd(app))

	return cmd
}

func newTUICmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "tui",
		Short: "Edit a canvas in the terminal (mouse: drag nodes, click [+] to add a child)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTUI(app)
		},
	}
}

func runTUI(app *App) error {
	sess, err := openSession(app)
	if err != nil {
		return err
	}
	defer sess.close()
	return tui.Run(sess.ed, tui.Options{
		Glyphs:   sess.cfg.TUI.Glyphs,
		PxPerCol: sess.cfg.TUI.PxPerCol,
		PxPerRow: sess.cfg.TUI.PxPerRow,
		Logger:   sess.log,
	})
}

// session is one loaded config plus the editor and logger built from it.
type session struct {
	cfg   *config.Config
	ed    *editor.Editor
	log   *slog.Logger
	close func() error
}

func loadConfig(app *App) (*config.Config, error) {
	cfg, err := config.Load(app.ConfigDir)
	if err != nil {
		return nil, err
	}
	if s := strings.TrimSpace(app.Seed); s != "" {
		seed, err := strconv.ParseUint(s, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid --seed %q: %w", s, err)
		}
		cfg.Canvas.Seed = seed
	}
	return cfg, nil
}

func openSession(app *App) (*session, error) {
	cfg, err := loadConfig(app)
	if err != nil {
		return nil, err
	}
	lg, closeLog, err := logging.Setup(app.DebugLog, app.LogLevel)
	if err != nil {
		return nil, err
	}
	ed := editor.New(editor.Options{
		Placer: graph.NewRandomPlacer(cfg.Canvas.SpawnWidth, cfg.Canvas.SpawnHeight, cfg.Canvas.Seed),
		Logger: lg,
	})
	lg.Debug("session start", "version", Version, "seed", cfg.Canvas.Seed)
	return &session{cfg: cfg, ed: ed, log: lg, close: closeLog}, nil
}

func envOr(k, d string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return d
}

func writeOut(cmd *cobra.Command, app *App, v any) error {
	return format.Write(cmd.OutOrStdout(), v, app.Format, app.PrettyJSON)
}

func writeErr(cmd *cobra.Command, err error) error {
	fmt.Fprintln(cmd.ErrOrStderr(), err.Error())
	return err
}
