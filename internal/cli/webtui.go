package cli

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"blockchart/internal/logging"
	"blockchart/internal/webtui"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

func newWebTUICmd(app *App) *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "webtui",
		Short: "Run the terminal UI in your browser (PTY + WebSocket)",
		Long: strings.TrimSpace(`
Run the Bubble Tea TUI over the web via a server-side PTY and a browser terminal emulator.

Notes:
- No auth; bind to localhost unless you trust the network.
- Each browser tab starts its own TUI subprocess with its own canvas.
`),
		Example: strings.TrimSpace(`
# Serve on the configured address (webtui.addr, default 127.0.0.1:3334)
blockchart webtui

# Reproducible child placement in every tab
blockchart --seed 7 webtui --addr :3334
`),
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			lg, closeLog, err := logging.Setup(app.DebugLog, app.LogLevel)
			if err != nil {
				return writeErr(cmd, err)
			}
			defer closeLog()

			listenAddr := strings.TrimSpace(addr)
			if listenAddr == "" {
				listenAddr = strings.TrimSpace(cfg.WebTUI.Addr)
			}

			srv, err := webtui.NewServer(webtui.ServerConfig{
				Addr:      listenAddr,
				ConfigDir: app.ConfigDir,
				Seed:      cfg.Canvas.Seed,
				Logger:    lg,
			})
			if err != nil {
				return writeErr(cmd, err)
			}

			listenAddr = srv.Addr()
			if listenAddr == "" {
				return writeErr(cmd, errors.New("webtui: missing --addr"))
			}

			_ = writeOut(cmd, app, map[string]any{
				"data": map[string]any{
					"addr":      listenAddr,
					"seed":      cfg.Canvas.Seed,
					"startedAt": time.Now().UTC().Format(time.RFC3339Nano),
				},
				"_hints": []string{
					"open http://" + listenAddr,
				},
			})

			color.New(color.FgGreen).Fprintf(cmd.ErrOrStderr(), "blockchart webtui running at http://%s\n", listenAddr)
			return http.ListenAndServe(listenAddr, srv.Handler())
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "Bind address (host:port or :port; default webtui.addr)")
	return cmd
}
