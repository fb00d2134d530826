// Command sweep is the reference CLI binary (spec §6.1): it wires the
// scorer registry, the window/ranker pair and the Sweep controller
// together, loads an initial candidate set from a file, stdin, or (in
// --rpc mode) nothing at all, and prints the selection to stdout once
// the controller's event loop ends.
package main

import (
	"bufio"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"net"
	"os"

	"github.com/aslpavel/sweep-go/sweep/candidate"
	"github.com/aslpavel/sweep-go/sweep/config"
	"github.com/aslpavel/sweep-go/sweep/controller"
	"github.com/aslpavel/sweep-go/sweep/rpc"
	"github.com/aslpavel/sweep-go/sweep/scorer"
	"github.com/aslpavel/sweep-go/sweep/sweeplog"
	"github.com/aslpavel/sweep-go/tools/utils/shlex"
)

func main() {
	os.Exit(run())
}

// options is the flat flag table from spec §6.1, plus the supplemented
// --title and --preview flags (SPEC_FULL.md §3). tools/cli is tightly
// coupled to a generated Options/help-text glue step this repo has no
// build step for, so flags are parsed directly against the standard
// library's flag package instead (see DESIGN.md).
type options struct {
	prompt     string
	query      string
	theme      string
	nth        string
	delimiter  string
	keepOrder  bool
	scorerName string
	rpcMode    bool
	ttyPath    string
	noMatch    string
	jsonMode   bool
	ioSocket   string
	inputPath  string
	title      string
	preview    string
	logPath    string
}

func parseFlags(args []string) (*options, error) {
	fs := flag.NewFlagSet("sweep", flag.ContinueOnError)
	o := &options{}
	fs.StringVar(&o.prompt, "prompt", "INPUT", "prompt text")
	fs.StringVar(&o.query, "query", "", "initial needle")
	fs.StringVar(&o.theme, "theme", "", "light|dark,accent=#rrggbb,fg=#rrggbb,bg=#rrggbb")
	fs.StringVar(&o.nth, "nth", "", "field selector, e.g. 1,3..-1 (default: all fields)")
	fs.StringVar(&o.delimiter, "delimiter", " ", "field delimiter")
	fs.BoolVar(&o.keepOrder, "keep-order", false, "do not reorder matches")
	fs.StringVar(&o.scorerName, "scorer", "fuzzy", "fuzzy|substr")
	fs.BoolVar(&o.rpcMode, "rpc", false, "enter RPC mode")
	fs.StringVar(&o.ttyPath, "tty", "", "terminal device (default: the process's controlling terminal)")
	fs.StringVar(&o.noMatch, "no-match", "nothing", "nothing|input: behavior of select with no current match")
	fs.BoolVar(&o.jsonMode, "json", false, "input is a JSON array of candidates, selection prints as JSON")
	fs.StringVar(&o.ioSocket, "io-socket", "", "unix socket path used as the RPC transport instead of stdio")
	fs.StringVar(&o.inputPath, "input", "", "read candidates from this file instead of stdin")
	fs.StringVar(&o.title, "title", "", "terminal window title")
	fs.StringVar(&o.preview, "preview", "", "preview command, {} replaced by the candidate's display text")
	fs.StringVar(&o.logPath, "log", "", "debug log file path")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if fs.NArg() > 0 {
		return nil, fmt.Errorf("unexpected positional argument %q", fs.Arg(0))
	}
	return o, nil
}

func parseNoMatch(s string) (controller.NoMatchMode, error) {
	switch s {
	case "nothing":
		return controller.NoMatchNothing, nil
	case "input":
		return controller.NoMatchInput, nil
	default:
		return 0, fmt.Errorf("--no-match must be nothing or input, got %q", s)
	}
}

// loadInitialItems reports whether the initial candidate set should be
// read at all, and from where. In --rpc mode with no --io-socket, stdin
// and stdout are the RPC transport itself, so the initial set is read
// only if --input names an explicit file; with --io-socket, or outside
// --rpc entirely, stdin is free and is the default source.
func loadInitialItems(o *options) bool {
	if !o.rpcMode {
		return true
	}
	if o.ioSocket != "" {
		return true
	}
	return o.inputPath != ""
}

func readCandidates(o *options, sel *candidate.Selector) ([]*candidate.Candidate, error) {
	var r io.Reader = os.Stdin
	if o.inputPath != "" {
		f, err := os.Open(o.inputPath)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		r = f
	}
	if o.jsonMode {
		data, err := io.ReadAll(r)
		if err != nil {
			return nil, err
		}
		return candidate.FromJSONArray(data)
	}
	var items []*candidate.Candidate
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), 16*1024*1024)
	for scanner.Scan() {
		items = append(items, candidate.FromLine(scanner.Text(), o.delimiter, sel))
	}
	return items, scanner.Err()
}

func writeSelection(w io.Writer, items []*candidate.Candidate, jsonMode bool) error {
	if jsonMode {
		if items == nil {
			items = []*candidate.Candidate{}
		}
		return json.NewEncoder(w).Encode(items)
	}
	for _, c := range items {
		if s, ok := c.Extra.(string); ok {
			fmt.Fprintln(w, s)
		}
	}
	return nil
}

// stdioConn adapts os.Stdin/os.Stdout to the io.ReadWriteCloser the RPC
// server wants when no --io-socket is given; closing it is a no-op since
// the process exits right after Run returns regardless.
type stdioConn struct{}

func (stdioConn) Read(p []byte) (int, error)  { return os.Stdin.Read(p) }
func (stdioConn) Write(p []byte) (int, error) { return os.Stdout.Write(p) }
func (stdioConn) Close() error                { return nil }

func run() int {
	o, err := parseFlags(os.Args[1:])
	if err != nil {
		if err == flag.ErrHelp {
			return 0
		}
		fmt.Fprintln(os.Stderr, "sweep:", err)
		return 2
	}

	if o.logPath != "" {
		sink, err := sweeplog.Open(o.logPath)
		if err != nil {
			fmt.Fprintln(os.Stderr, "sweep:", err)
			return 1
		}
		defer sink.Close()
		sweeplog.SetGlobal(sink)
	}

	theme, err := config.Parse(o.theme)
	if err != nil {
		fmt.Fprintln(os.Stderr, "sweep:", err)
		return 1
	}
	sel, err := candidate.ParseSelector(o.nth)
	if err != nil {
		fmt.Fprintln(os.Stderr, "sweep:", err)
		return 1
	}
	noMatch, err := parseNoMatch(o.noMatch)
	if err != nil {
		fmt.Fprintln(os.Stderr, "sweep:", err)
		return 1
	}
	sc, err := scorer.NewRegistry().Build(o.scorerName)
	if err != nil {
		fmt.Fprintln(os.Stderr, "sweep:", err)
		return 1
	}
	var previewArgv []string
	if o.preview != "" {
		previewArgv, err = shlex.Split(o.preview)
		if err != nil {
			fmt.Fprintln(os.Stderr, "sweep: --preview:", err)
			return 1
		}
	}

	ctrl := controller.New(controller.Config{
		Prompt:          o.prompt,
		Query:           o.query,
		Scorer:          sc,
		KeepOrder:       o.keepOrder,
		NoMatch:         noMatch,
		AlternateScreen: true,
		TTYPath:         o.ttyPath,
		Theme:           theme,
		Title:           o.title,
	})
	w := ctrl.Top()
	if len(previewArgv) > 0 {
		w.PreviewCmd = previewArgv
		w.PreviewEnabled = true
	}

	if loadInitialItems(o) {
		items, err := readCandidates(o, sel)
		if err != nil {
			fmt.Fprintln(os.Stderr, "sweep:", err)
			return 1
		}
		w.ItemsExtend(items)
	}

	var rpcConn io.ReadWriteCloser
	if o.rpcMode {
		if o.ioSocket != "" {
			conn, err := net.Dial("unix", o.ioSocket)
			if err != nil {
				fmt.Fprintln(os.Stderr, "sweep:", err)
				return 1
			}
			rpcConn = conn
		} else {
			rpcConn = stdioConn{}
		}
		srv := rpc.New(ctrl, rpcConn, rpcConn)
		go func() {
			if err := srv.Serve(); err != nil {
				sweeplog.Printf("sweep: rpc serve: %v", err)
			}
		}()
	}

	var selected []*candidate.Candidate
	eventsDone := make(chan struct{})
	if !o.rpcMode {
		// Without an RPC peer draining it, something still has to drain
		// Events so the non-blocking emit in controller.emit never needs
		// to drop the final select/cancel event.
		go func() {
			defer close(eventsDone)
			for ev := range ctrl.Events() {
				if ev.Kind == controller.Select {
					selected = ev.Items
				}
			}
		}()
	}

	runErr := ctrl.Run()
	if !o.rpcMode {
		<-eventsDone
	}
	if rpcConn != nil {
		rpcConn.Close()
	}
	if runErr != nil {
		fmt.Fprintln(os.Stderr, "sweep:", runErr)
		return 1
	}

	if !o.rpcMode {
		if err := writeSelection(os.Stdout, selected, o.jsonMode); err != nil {
			fmt.Fprintln(os.Stderr, "sweep:", err)
			return 1
		}
	}
	return ctrl.ExitCode()
}
