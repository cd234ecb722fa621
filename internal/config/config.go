package config

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
)

const fileName = "config.toml"

// Config is the user configuration. Every field has a usable default; the file is optional.
type Config struct {
	Canvas CanvasConfig `toml:"canvas" json:"canvas"`
	TUI    TUIConfig    `toml:"tui" json:"tui"`
	Web    WebConfig    `toml:"web" json:"web"`
	WebTUI WebTUIConfig `toml:"webtui" json:"webtui"`
}

// CanvasConfig controls where new children appear.
type CanvasConfig struct {
	SpawnWidth  float64 `toml:"spawn_width" json:"spawnWidth"`
	SpawnHeight float64 `toml:"spawn_height" json:"spawnHeight"`
	// Seed makes child placement reproducible; 0 seeds from the clock.
	Seed uint64 `toml:"seed" json:"seed"`
}

type TUIConfig struct {
	// Glyphs is "unicode" or "ascii".
	Glyphs string `toml:"glyphs" json:"glyphs"`
	// PxPerCol and PxPerRow scale canvas pixels to terminal cells.
	PxPerCol float64 `toml:"px_per_col" json:"pxPerCol"`
	PxPerRow float64 `toml:"px_per_row" json:"pxPerRow"`
}

type WebConfig struct {
	Addr string `toml:"addr" json:"addr"`
	Open bool   `toml:"open" json:"open"`
}

type WebTUIConfig struct {
	Addr string `toml:"addr" json:"addr"`
}

func Default() *Config {
	return &Config{
		Canvas: CanvasConfig{SpawnWidth: 1000, SpawnHeight: 500},
		TUI:    TUIConfig{Glyphs: "unicode", PxPerCol: 10, PxPerRow: 20},
		Web:    WebConfig{Addr: "127.0.0.1:3335", Open: false},
		WebTUI: WebTUIConfig{Addr: "127.0.0.1:3334"},
	}
}

// Dir returns the configuration directory: $BLOCKCHART_CONFIG_DIR, else ~/.blockchart.
func Dir() (string, error) {
	// Test/advanced override (keeps unit tests from touching ~/.blockchart).
	if v := strings.TrimSpace(os.Getenv("BLOCKCHART_CONFIG_DIR")); v != "" {
		return v, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".blockchart"), nil
}

func Path(dir string) string {
	return filepath.Join(dir, fileName)
}

// Load reads <dir>/config.toml over the defaults. A missing file yields the defaults.
// An empty dir resolves through Dir.
func Load(dir string) (*Config, error) {
	if strings.TrimSpace(dir) == "" {
		d, err := Dir()
		if err != nil {
			return nil, err
		}
		dir = d
	}
	cfg := Default()
	b, err := os.ReadFile(Path(dir))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return nil, err
	}
	md, err := toml.Decode(string(b), cfg)
	if err != nil {
		return nil, fmt.Errorf("config: %s: %w", Path(dir), err)
	}
	if undec := md.Undecoded(); len(undec) > 0 {
		return nil, fmt.Errorf("config: %s: unknown key %q", Path(dir), undec[0].String())
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config: %s: %w", Path(dir), err)
	}
	return cfg, nil
}

// Save writes cfg to <dir>/config.toml atomically.
func Save(dir string, cfg *Config) error {
	if cfg == nil {
		return errors.New("config: nil config")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(cfg); err != nil {
		return err
	}
	return atomicWriteFile(dir, fileName+".*.tmp", Path(dir), buf.Bytes(), 0o644)
}

func (c *Config) Validate() error {
	if c.Canvas.SpawnWidth <= 0 || c.Canvas.SpawnHeight <= 0 {
		return invalidValueError{key: "canvas.spawn_width/spawn_height", value: fmt.Sprintf("%gx%g", c.Canvas.SpawnWidth, c.Canvas.SpawnHeight)}
	}
	if c.TUI.PxPerCol <= 0 || c.TUI.PxPerRow <= 0 {
		return invalidValueError{key: "tui.px_per_col/px_per_row", value: fmt.Sprintf("%gx%g", c.TUI.PxPerCol, c.TUI.PxPerRow)}
	}
	switch strings.ToLower(strings.TrimSpace(c.TUI.Glyphs)) {
	case "", "unicode", "utf8", "ascii":
	default:
		return invalidValueError{key: "tui.glyphs", value: c.TUI.Glyphs}
	}
	if strings.TrimSpace(c.Web.Addr) == "" {
		return invalidValueError{key: "web.addr", value: c.Web.Addr}
	}
	if strings.TrimSpace(c.WebTUI.Addr) == "" {
		return invalidValueError{key: "webtui.addr", value: c.WebTUI.Addr}
	}
	return nil
}

type invalidValueError struct {
	key   string
	value string
}

func (e invalidValueError) Error() string {
	return fmt.Sprintf("invalid value for %s: %q", e.key, e.value)
}

func atomicWriteFile(dir, tmpPattern, path string, b []byte, perm os.FileMode) error {
	f, err := os.CreateTemp(dir, tmpPattern)
	if err != nil {
		return err
	}
	tmp := f.Name()
	defer func() { _ = os.Remove(tmp) }()
	if _, err := f.Write(b); err != nil {
		_ = f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	_ = os.Chmod(tmp, perm)
	return os.Rename(tmp, path)
}
