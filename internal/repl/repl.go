package repl

import (
	"errors"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"
	"text/tabwriter"

	"blockchart/internal/editor"
	"blockchart/internal/interact"
	"blockchart/internal/model"

	"github.com/chzyer/readline"
	"github.com/fatih/color"
)

// ErrExit is returned by Exec for exit/quit.
var ErrExit = errors.New("exit requested")

type notFoundError struct {
	kind string
	id   string
}

func (e notFoundError) Error() string { return fmt.Sprintf("%s not found: %s", e.kind, e.id) }

type usageError struct{ usage string }

func (e usageError) Error() string { return "usage: " + e.usage }

type command struct {
	usage string
	help  string
	run   func(s *Shell, args []string) error
}

// commands is filled in init: its handlers refer back to it for usage text.
var commands map[string]command

func init() {
	commands = map[string]command{
		"add":   {"add <parent>", "Add a child under <parent> at a random position.", (*Shell).cmdAdd},
		"move":  {"move <id> <x> <y>", "Set the top-left corner of <id>.", (*Shell).cmdMove},
		"drag":  {"drag <id> <x> <y> [<x> <y>...]", "Drag <id> through pointer positions and drop at the last one.", (*Shell).cmdDrag},
		"drop":  {"drop <payload> <x> <y>", "Drop the node named by <payload> (- for the dragged node) at a pointer position.", (*Shell).cmdDrop},
		"nodes": {"nodes", "List nodes in creation order.", (*Shell).cmdNodes},
		"edges": {"edges", "List parent -> child edges.", (*Shell).cmdEdges},
		"path":  {"path <parent> <child>", "Print the SVG path of a connector.", (*Shell).cmdPath},
		"help":  {"help [command]", "Show help.", (*Shell).cmdHelp},
		"exit":  {"exit", "Leave the shell.", func(*Shell, []string) error { return ErrExit }},
		"quit":  {"quit", "Leave the shell.", func(*Shell, []string) error { return ErrExit }},
	}
}

// Shell runs line commands against an editor.
type Shell struct {
	ed  *editor.Editor
	out io.Writer
}

func New(ed *editor.Editor, out io.Writer) *Shell {
	return &Shell{ed: ed, out: out}
}

// Exec runs one input line.
func (s *Shell) Exec(line string) error {
	args := strings.Fields(line)
	if len(args) == 0 {
		return nil
	}
	name := strings.ToLower(args[0])
	cmd, ok := commands[name]
	if !ok {
		return fmt.Errorf("unknown command %q (try help)", args[0])
	}
	return cmd.run(s, args[1:])
}

type Config struct {
	Prompt      string
	HistoryFile string
	Stdin       io.ReadCloser
}

// Run reads lines until exit, EOF or an error from the terminal. Command errors are printed
// and the loop continues.
func (s *Shell) Run(cfg Config) error {
	prompt := cfg.Prompt
	if prompt == "" {
		prompt = "blockchart> "
	}
	rl, err := readline.NewEx(&readline.Config{
		Prompt:          prompt,
		HistoryFile:     cfg.HistoryFile,
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",
		Stdin:           cfg.Stdin,
		Stdout:          s.out,
		AutoComplete:    completer(),
	})
	if err != nil {
		return err
	}
	defer rl.Close()

	errColor := color.New(color.FgRed)
	for {
		line, err := rl.Readline()
		if err != nil {
			if errors.Is(err, readline.ErrInterrupt) {
				fmt.Fprintln(s.out, "Use 'exit' or 'quit' to exit.")
				continue
			}
			if errors.Is(err, io.EOF) {
				return nil
			}
			return err
		}
		if err := s.Exec(line); err != nil {
			if errors.Is(err, ErrExit) {
				return nil
			}
			errColor.Fprintf(s.out, "error: %v\n", err)
		}
	}
}

func completer() *readline.PrefixCompleter {
	names := make([]string, 0, len(commands))
	for n := range commands {
		names = append(names, n)
	}
	sort.Strings(names)
	items := make([]readline.PrefixCompleterInterface, 0, len(names))
	for _, n := range names {
		items = append(items, readline.PcItem(n))
	}
	return readline.NewPrefixCompleter(items...)
}

func (s *Shell) cmdAdd(args []string) error {
	if len(args) != 1 {
		return usageError{commands["add"].usage}
	}
	parent, err := parseID(args[0])
	if err != nil {
		return err
	}
	n, ok := s.ed.AddChild(parent)
	if !ok {
		return notFoundError{kind: "node", id: args[0]}
	}
	fmt.Fprintf(s.out, "added %d (parent %d) at %s\n", n.ID, parent, fmtPoint(model.Point{X: n.X, Y: n.Y}))
	return nil
}

func (s *Shell) cmdMove(args []string) error {
	if len(args) != 3 {
		return usageError{commands["move"].usage}
	}
	id, err := parseID(args[0])
	if err != nil {
		return err
	}
	p, err := parsePoint(args[1], args[2])
	if err != nil {
		return err
	}
	if !s.ed.MoveNode(id, p.X, p.Y) {
		return notFoundError{kind: "node", id: args[0]}
	}
	fmt.Fprintf(s.out, "moved %d to %s\n", id, fmtPoint(p))
	return nil
}

func (s *Shell) cmdDrag(args []string) error {
	if len(args) < 3 || len(args)%2 != 1 {
		return usageError{commands["drag"].usage}
	}
	id, err := parseID(args[0])
	if err != nil {
		return err
	}
	if _, ok := s.ed.Node(id); !ok {
		return notFoundError{kind: "node", id: args[0]}
	}
	pts := make([]model.Point, 0, (len(args)-1)/2)
	for i := 1; i < len(args); i += 2 {
		p, err := parsePoint(args[i], args[i+1])
		if err != nil {
			return err
		}
		pts = append(pts, p)
	}

	payload := s.ed.DragStart(id)
	for _, p := range pts[:len(pts)-1] {
		s.ed.DragMove(p)
	}
	mv := s.ed.Drop(payload, pts[len(pts)-1])
	fmt.Fprintf(s.out, "dropped %d at %s\n", mv.ID, fmtPoint(mv.To))
	return nil
}

func (s *Shell) cmdDrop(args []string) error {
	if len(args) != 3 {
		return usageError{commands["drop"].usage}
	}
	payload := args[0]
	if payload == `""` || payload == "-" {
		payload = ""
	}
	p, err := parsePoint(args[1], args[2])
	if err != nil {
		return err
	}
	mv := s.ed.Drop(payload, p)
	if !mv.Applied {
		fmt.Fprintf(s.out, "drop ignored\n")
		return nil
	}
	fmt.Fprintf(s.out, "dropped %d at %s\n", mv.ID, fmtPoint(mv.To))
	return nil
}

func (s *Shell) cmdNodes([]string) error {
	tw := tabwriter.NewWriter(s.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tPARENT\tX\tY")
	for _, n := range s.ed.Snapshot().Nodes {
		parent := "-"
		if !n.IsRoot() {
			parent = strconv.Itoa(n.Parent())
		}
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\n", n.ID, parent, fmtFloat(n.X), fmtFloat(n.Y))
	}
	return tw.Flush()
}

func (s *Shell) cmdEdges([]string) error {
	for _, e := range s.ed.Snapshot().Edges {
		fmt.Fprintf(s.out, "%d -> %d\n", e.ParentID, e.ChildID)
	}
	return nil
}

func (s *Shell) cmdPath(args []string) error {
	if len(args) != 2 {
		return usageError{commands["path"].usage}
	}
	parent, err := parseID(args[0])
	if err != nil {
		return err
	}
	child, err := parseID(args[1])
	if err != nil {
		return err
	}
	for _, c := range s.ed.Scene().Connectors {
		if c.Edge.ParentID == parent && c.Edge.ChildID == child {
			fmt.Fprintln(s.out, c.Curve.Path())
			return nil
		}
	}
	return notFoundError{kind: "edge", id: args[0] + "->" + args[1]}
}

func (s *Shell) cmdHelp(args []string) error {
	if len(args) > 0 {
		cmd, ok := commands[strings.ToLower(args[0])]
		if !ok {
			return fmt.Errorf("unknown command %q", args[0])
		}
		fmt.Fprintf(s.out, "%s\n  %s\n", cmd.usage, cmd.help)
		return nil
	}
	names := make([]string, 0, len(commands))
	for n := range commands {
		names = append(names, n)
	}
	sort.Strings(names)
	tw := tabwriter.NewWriter(s.out, 0, 4, 2, ' ', 0)
	for _, n := range names {
		fmt.Fprintf(tw, "  %s\t%s\n", commands[n].usage, commands[n].help)
	}
	return tw.Flush()
}

func parseID(s string) (int, error) {
	id, ok := interact.DecodePayload(s)
	if !ok {
		return 0, fmt.Errorf("invalid id %q", s)
	}
	return id, nil
}

func parsePoint(xs, ys string) (model.Point, error) {
	x, err := strconv.ParseFloat(xs, 64)
	if err != nil {
		return model.Point{}, fmt.Errorf("invalid x %q: %w", xs, err)
	}
	y, err := strconv.ParseFloat(ys, 64)
	if err != nil {
		return model.Point{}, fmt.Errorf("invalid y %q: %w", ys, err)
	}
	return model.Point{X: x, Y: y}, nil
}

func fmtFloat(v float64) string { return strconv.FormatFloat(v, 'f', -1, 64) }

func fmtPoint(p model.Point) string { return "(" + fmtFloat(p.X) + ", " + fmtFloat(p.Y) + ")" }
