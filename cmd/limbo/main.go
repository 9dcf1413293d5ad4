package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/1broseidon/limbo/internal/compositor"
	"github.com/1broseidon/limbo/internal/ipc"
	"github.com/1broseidon/limbo/internal/tui"
)

func main() {
	if len(os.Args) < 2 {
		printMainUsage(os.Stdout)
		os.Exit(0)
	}

	switch os.Args[1] {
	case "daemon":
		os.Exit(runDaemon(os.Args[2:]))
	case "status":
		os.Exit(runStatus(os.Args[2:]))
	case "workspaces":
		os.Exit(runWorkspaces(os.Args[2:]))
	case "focus":
		os.Exit(runFocus(os.Args[2:]))
	case "cycle":
		os.Exit(runCycle(os.Args[2:]))
	case "reload":
		os.Exit(runReload(os.Args[2:]))
	case "watch":
		os.Exit(runWatch(os.Args[2:]))
	case "config":
		os.Exit(runConfig(os.Args[2:]))
	case "mcp":
		os.Exit(runMCP(os.Args[2:]))
	case "help", "-h", "--help":
		printMainUsage(os.Stdout)
		os.Exit(0)
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", os.Args[1])
		printMainUsage(os.Stderr)
		os.Exit(2)
	}
}

func printMainUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: limbo <command> [options]")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  daemon              Start the bar daemon (foreground)")
	fmt.Fprintln(w, "  status              Show daemon status")
	fmt.Fprintln(w, "  workspaces          List workspaces as the bar sees them")
	fmt.Fprintln(w, "  focus <id>          Focus a workspace by compositor id")
	fmt.Fprintln(w, "  cycle next|prev     Move to the next or previous workspace")
	fmt.Fprintln(w, "  reload              Reload the daemon configuration")
	fmt.Fprintln(w, "  watch               Live preview of the bar in this terminal")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "  config validate     Validate configuration")
	fmt.Fprintln(w, "  config print        Print configuration")
	fmt.Fprintln(w, "  config path         Print the config file path")
	fmt.Fprintln(w, "  config explain      Explain a config value")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "  mcp serve           Start MCP server (stdio transport)")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "Run 'limbo <command> --help' for command-specific options.")
}

// newFlagSet returns a flag set that prints usage to stderr.
func newFlagSet(name, usage, help string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: "+usage)
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, help)
		fs.PrintDefaults()
	}
	return fs
}

// parseFlags parses args and returns an exit code when the command should
// stop.
func parseFlags(fs *flag.FlagSet, args []string) (int, bool) {
	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return 0, false
		}
		return 2, false
	}
	return 0, true
}

func runStatus(args []string) int {
	fs := newFlagSet("status", "limbo status", "Show daemon status via IPC.")
	if code, ok := parseFlags(fs, args); !ok {
		return code
	}
	if fs.NArg() != 0 {
		fmt.Fprintln(os.Stderr, "status takes no arguments")
		fs.Usage()
		return 2
	}

	client := ipc.NewClient()
	status, err := client.GetStatus()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	fmt.Printf("daemon_running:  %v\n", status.DaemonRunning)
	fmt.Printf("backend:         %s\n", status.Backend)
	fmt.Printf("outputs:         %v\n", status.Outputs)
	fmt.Printf("workspace_count: %d\n", status.WorkspaceCount)
	fmt.Printf("animating:       %v\n", status.Animating)
	fmt.Printf("uptime_seconds:  %d\n", status.UptimeSeconds)
	if sys := status.System; sys != nil {
		fmt.Printf("cpu_usage:       %.1f%%\n", sys.CPUUsage)
		fmt.Printf("cpu_temp:        %.1f\n", sys.CPUTemp)
		fmt.Printf("ram_used_gb:     %.2f\n", sys.RAMUsedGB)
	}
	return 0
}

func runWorkspaces(args []string) int {
	fs := newFlagSet("workspaces", "limbo workspaces [--json] [--output NAME]", "List workspaces in bar order.")
	asJSON := fs.Bool("json", false, "Print JSON")
	output := fs.String("output", "", "Only list workspaces on this output")
	if code, ok := parseFlags(fs, args); !ok {
		return code
	}

	client := ipc.NewClient()
	infos, err := client.GetWorkspaces()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	filtered := make([]compositor.WorkspaceInfo, 0, len(infos))
	for _, info := range infos {
		if *output == "" || info.Output == *output {
			filtered = append(filtered, info)
		}
	}

	if *asJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(filtered); err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
		return 0
	}

	for _, info := range filtered {
		fmt.Println(formatWorkspace(info))
	}
	return 0
}

func formatWorkspace(info compositor.WorkspaceInfo) string {
	marker := " "
	if info.IsActive {
		marker = "*"
	}
	line := fmt.Sprintf("%s %-10s %3d  id=%d", marker, info.Output, info.Idx, info.ID)
	if info.HasWindows {
		line += " windows"
	}
	if info.TransparentBar {
		line += " transparent"
	}
	return line
}

func runFocus(args []string) int {
	fs := newFlagSet("focus", "limbo focus <id>", "Focus the workspace with the given compositor id.")
	if code, ok := parseFlags(fs, args); !ok {
		return code
	}
	if fs.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "focus requires exactly one workspace id")
		fs.Usage()
		return 2
	}
	id, err := strconv.ParseInt(fs.Arg(0), 10, 64)
	if err != nil {
		fmt.Fprintf(os.Stderr, "invalid workspace id %q\n", fs.Arg(0))
		return 2
	}

	if err := ipc.NewClient().FocusWorkspace(compositor.WorkspaceID(id)); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	return 0
}

func runCycle(args []string) int {
	fs := newFlagSet("cycle", "limbo cycle next|prev", "Move to the next or previous workspace.")
	if code, ok := parseFlags(fs, args); !ok {
		return code
	}
	if fs.NArg() != 1 {
		fs.Usage()
		return 2
	}
	forward, err := parseDirection(fs.Arg(0))
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 2
	}

	if err := ipc.NewClient().CycleWorkspace(forward); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	return 0
}

func parseDirection(s string) (bool, error) {
	switch s {
	case "next", "forward", "down":
		return true, nil
	case "prev", "previous", "back", "up":
		return false, nil
	default:
		return false, fmt.Errorf("unknown direction %q: want next or prev", s)
	}
}

func runReload(args []string) int {
	fs := newFlagSet("reload", "limbo reload", "Ask the daemon to re-read its configuration.")
	if code, ok := parseFlags(fs, args); !ok {
		return code
	}
	if err := ipc.NewClient().Reload(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	fmt.Println("reloaded")
	return 0
}

func runWatch(args []string) int {
	fs := newFlagSet("watch", "limbo watch [--output NAME]",
		"Live preview of the bar. Keys: h/l cycle, 1-9 focus, q quit.")
	output := fs.String("output", "", "Only show this output")
	if code, ok := parseFlags(fs, args); !ok {
		return code
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := tui.New(ipc.NewClient(), *output).Run(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	return 0
}
