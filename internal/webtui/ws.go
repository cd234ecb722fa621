package webtui

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"os"
	"os/exec"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/creack/pty"
	"github.com/gorilla/websocket"
)

type wsMsg struct {
	Type string `json:"type"`
	Cols int    `json:"cols"`
	Rows int    `json:"rows"`
}

var wsUpgrader = websocket.Upgrader{
	ReadBufferSize:  32 * 1024,
	WriteBufferSize: 32 * 1024,
	CheckOrigin: func(r *http.Request) bool {
		origin := strings.TrimSpace(r.Header.Get("Origin"))
		if origin == "" {
			return true
		}
		host := strings.TrimSpace(r.Host)
		return strings.Contains(origin, "://"+host)
	},
}

func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := wsUpgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade already replied.
		return
	}
	defer conn.Close()

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	ptmx, cmd, cleanup, err := s.startPTYSession()
	if err != nil {
		s.log.Warn("webtui session failed", "err", err)
		_ = conn.WriteMessage(websocket.TextMessage, []byte("failed to start session: "+err.Error()))
		return
	}
	defer cleanup()

	n := s.sessions.Add(1)
	Sessions.Set(float64(n))
	defer func() { Sessions.Set(float64(s.sessions.Add(-1))) }()
	s.log.Info("webtui session started", "pid", cmd.Process.Pid, "remote", r.RemoteAddr)

	var wg sync.WaitGroup
	errCh := make(chan error, 2)

	wg.Add(1)
	go func() {
		defer wg.Done()
		errCh <- pumpPTYToWS(ctx, ptmx, conn)
	}()

	wg.Add(1)
	go func() {
		defer wg.Done()
		errCh <- pumpWSToPTY(ctx, conn, ptmx)
	}()

	select {
	case <-ctx.Done():
	case err := <-errCh:
		s.log.Debug("webtui pump stopped", "err", err)
	}
	cancel()

	// Unblock both pumps: the child dies (PTY read fails) and the socket closes (WS read fails).
	_ = cmd.Process.Kill()
	_ = conn.Close()

	wg.Wait()
	s.log.Info("webtui session ended", "pid", cmd.Process.Pid)
}

// sessionArgs is the command line for one TUI session.
func (s *Server) sessionArgs() (string, []string, error) {
	exe := strings.TrimSpace(s.cfg.Executable)
	if exe == "" {
		self, err := os.Executable()
		if err != nil {
			return "", nil, err
		}
		exe = self
	}
	if s.cfg.Args != nil {
		return exe, append([]string(nil), s.cfg.Args...), nil
	}
	args := []string{"tui"}
	if dir := strings.TrimSpace(s.cfg.ConfigDir); dir != "" {
		args = append(args, "--config-dir", dir)
	}
	if s.cfg.Seed != 0 {
		args = append(args, "--seed", strconv.FormatUint(s.cfg.Seed, 10))
	}
	return exe, args, nil
}

func (s *Server) startPTYSession() (*os.File, *exec.Cmd, func(), error) {
	exe, args, err := s.sessionArgs()
	if err != nil {
		return nil, nil, nil, err
	}
	cmd := exec.Command(exe, args...)
	cmd.Env = append(os.Environ(),
		"TERM=xterm-256color",
		"COLORTERM=truecolor",
	)

	ptmx, err := pty.StartWithSize(cmd, &pty.Winsize{Cols: 120, Rows: 40})
	if err != nil {
		return nil, nil, nil, err
	}

	cleanup := func() {
		_ = ptmx.Close()
		_ = cmd.Process.Kill()
		_, _ = cmd.Process.Wait()
	}
	return ptmx, cmd, cleanup, nil
}

func pumpPTYToWS(ctx context.Context, ptmx *os.File, conn *websocket.Conn) error {
	buf := make([]byte, 32*1024)
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
		n, err := ptmx.Read(buf)
		if n > 0 {
			_ = conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
			if werr := conn.WriteMessage(websocket.BinaryMessage, buf[:n]); werr != nil {
				return werr
			}
		}
		if err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			return err
		}
	}
}

// parseControl reports whether data is a JSON control frame and, for resize, the new size.
func parseControl(data []byte) (msg wsMsg, ok bool) {
	if len(data) == 0 || data[0] != '{' {
		return wsMsg{}, false
	}
	if err := json.Unmarshal(data, &msg); err != nil {
		return wsMsg{}, false
	}
	msg.Type = strings.ToLower(strings.TrimSpace(msg.Type))
	return msg, true
}

func pumpWSToPTY(ctx context.Context, conn *websocket.Conn, ptmx *os.File) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
		mt, data, err := conn.ReadMessage()
		if err != nil {
			return err
		}

		// Control messages are JSON text. Keystroke frames are plain text or binary.
		if mt == websocket.TextMessage {
			if m, ok := parseControl(data); ok {
				if m.Type == "resize" && m.Cols > 0 && m.Rows > 0 {
					_ = pty.Setsize(ptmx, &pty.Winsize{Cols: uint16(m.Cols), Rows: uint16(m.Rows)})
				}
				continue
			}
		}

		if len(data) == 0 {
			continue
		}
		if _, err := ptmx.Write(data); err != nil {
			return err
		}
	}
}
