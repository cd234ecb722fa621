package cli

import (
	"errors"
	"net"
	"net/http"
	"os/exec"
	"runtime"
	"strings"
	"time"

	"blockchart/internal/web"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

func newWebCmd(app *App) *cobra.Command {
	var addr string
	var open bool

	cmd := &cobra.Command{
		Use:   "web",
		Short: "Edit a canvas in the browser (HTML5 drag & drop, live updates over SSE)",
		Long: strings.TrimSpace(`
Serve an editable canvas from a local HTTP server.

- Drag a node to move it; click its [+] control to add a child.
- Every open tab shares one canvas and re-renders on each change.
- GET /graph returns the canvas as JSON, GET /canvas.svg as SVG, GET /metrics for Prometheus.
`),
		Example: strings.TrimSpace(`
# Serve on the configured address (web.addr, default 127.0.0.1:3335)
blockchart web

# Pick a port and open the browser
blockchart web --addr :8080 --open
`),
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := openSession(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			defer sess.close()

			listenAddr := strings.TrimSpace(addr)
			if listenAddr == "" {
				listenAddr = strings.TrimSpace(sess.cfg.Web.Addr)
			}
			if listenAddr == "" {
				return writeErr(cmd, errors.New("web: missing --addr"))
			}
			if !cmd.Flags().Changed("open") {
				open = sess.cfg.Web.Open
			}

			srv, err := web.NewServer(sess.ed, web.ServerConfig{
				Addr:   listenAddr,
				Logger: sess.log,
			})
			if err != nil {
				return writeErr(cmd, err)
			}

			ln, err := net.Listen("tcp", listenAddr)
			if err != nil {
				return writeErr(cmd, err)
			}

			actualAddr := ln.Addr().String()
			url := "http://" + actualAddr + "/"

			opened := false
			openErr := ""
			if open {
				if err := openPath(url); err != nil {
					openErr = err.Error()
				} else {
					opened = true
				}
			}

			hints := []string{}
			if !opened {
				hints = append(hints, "open "+url)
			}

			_ = writeOut(cmd, app, map[string]any{
				"data": map[string]any{
					"addr":      actualAddr,
					"url":       url,
					"opened":    opened,
					"openError": openErr,
					"startedAt": time.Now().UTC().Format(time.RFC3339Nano),
				},
				"_hints": hints,
			})

			color.New(color.FgGreen).Fprintf(cmd.ErrOrStderr(), "blockchart web running at %s\n", url)
			if openErr != "" {
				color.New(color.FgYellow).Fprintf(cmd.ErrOrStderr(), "Failed to open browser: %s\n", openErr)
			}

			return http.Serve(ln, srv.Handler())
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "Bind address (host:port or :port; default web.addr)")
	cmd.Flags().BoolVar(&open, "open", false, "Open the UI in your default browser (default web.open)")
	return cmd
}

func openPath(path string) error {
	path = strings.TrimSpace(path)
	if path == "" {
		return errors.New("empty path")
	}
	switch runtime.GOOS {
	case "darwin":
		return exec.Command("open", path).Run()
	case "windows":
		return exec.Command("cmd", "/c", "start", "", path).Run()
	default:
		return exec.Command("xdg-open", path).Run()
	}
}
