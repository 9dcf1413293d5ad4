package main

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/1broseidon/limbo/internal/bar"
	"github.com/1broseidon/limbo/internal/config"
	"github.com/1broseidon/limbo/internal/daemon"
	"github.com/1broseidon/limbo/internal/desktop"
	"github.com/1broseidon/limbo/internal/ipc"
	"github.com/1broseidon/limbo/internal/sysmon"
	"github.com/1broseidon/limbo/internal/workspaces"
)

func runDaemon(args []string) int {
	fs := newFlagSet("daemon", "limbo daemon [--config PATH] [--stdout]",
		"Run the bar daemon in the foreground. Exits non-zero when no supported\ncompositor is found or the compositor connection is lost for good.")
	configPath := fs.String("config", "", "Config file path (default: ~/.config/limbo/config.yaml)")
	stdout := fs.Bool("stdout", false, "Write every frame as a JSON line on stdout")
	if code, ok := parseFlags(fs, args); !ok {
		return code
	}
	if fs.NArg() != 0 {
		fs.Usage()
		return 2
	}

	// Logs go to stderr before the config is read so load errors are visible.
	level := new(slog.LevelVar)
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)

	path, err := resolveConfigPath(*configPath)
	if err != nil {
		logger.Error("failed to resolve config path", "error", err)
		return 1
	}
	res, err := config.LoadFromPath(path)
	if err != nil {
		logger.Error("failed to load configuration", "error", err)
		return 1
	}
	cfg := res.Config
	level.Set(cfg.SlogLevel())
	style, err := cfg.Style()
	if err != nil {
		logger.Error("invalid style", "error", err)
		return 1
	}
	systemFormat, err := cfg.SysmonFormatter()
	if err != nil {
		logger.Error("invalid sysmon settings", "error", err)
		return 1
	}
	logger.Info("configuration loaded", "path", path, "files", len(res.Files))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	desk, err := desktop.New(ctx, logger)
	if err != nil {
		logger.Error("no supported compositor", "error", err)
		return 1
	}
	defer desk.Close()

	watcher, err := config.NewWatcher(path, logger)
	var configChanges <-chan string
	if err != nil {
		logger.Warn("config file watching disabled", "error", err)
	} else {
		watcher.Start()
		defer watcher.Stop()
		configChanges = watcher.Events()
	}

	reload := func() (workspaces.Style, error) {
		res, err := config.LoadFromPath(path)
		if err != nil {
			return workspaces.Style{}, err
		}
		level.Set(res.Config.SlogLevel())
		return res.Config.Style()
	}

	// Sampling settings are read once; a reload only restyles the pills.
	var system <-chan sysmon.Reading
	if len(systemFormat.Segments) > 0 {
		system = sysmon.NewMonitor(nil, cfg.SysmonInterval(), logger.With("component", "sysmon")).Run(ctx)
	}

	var renderers []bar.Renderer
	if *stdout || cfg.Output.Stdout {
		renderers = append(renderers, bar.NewJSONRenderer(os.Stdout))
	}

	loop := daemon.New(daemon.Config{
		Backend:       desk.Kind().String(),
		Events:        desk.Supervise(ctx, cfg.ReconnectPolicy()),
		Desktop:       desk,
		Style:         style,
		Reload:        reload,
		ConfigChanges: configChanges,
		System:        system,
		SystemFormat:  systemFormat,
		Renderers:     renderers,
		Logger:        logger,
	})

	server, err := ipc.NewServer(loop, logger)
	if err != nil {
		logger.Error("failed to create IPC server", "error", err)
		return 1
	}
	if err := server.Start(); err != nil {
		logger.Error("failed to start IPC server", "error", err)
		return 1
	}
	defer server.Stop()
	loop.AddRenderer(server)

	logger.Info("limbo daemon started", "backend", desk.Kind())
	if err := loop.Run(ctx); err != nil {
		if errors.Is(err, daemon.ErrStreamClosed) {
			logger.Error("compositor connection lost", "error", err)
		} else {
			logger.Error("daemon stopped", "error", err)
		}
		return 1
	}
	logger.Info("shutting down limbo daemon")
	return 0
}
