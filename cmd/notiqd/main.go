// Package main is the entry point for the notiqd notification daemon.
package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/jmylchreest/notiq/internal/config"
	"github.com/jmylchreest/notiq/internal/daemon"
	"github.com/jmylchreest/notiq/internal/dbus"
)

var (
	// Build-time variables
	version = "dev"
)

// persistingDaemon mirrors pause transitions into the shared state file
// so notiqctl and status bars see them across restarts.
type persistingDaemon struct {
	*daemon.Daemon
	logger *slog.Logger
}

func (p *persistingDaemon) Pause() {
	p.Daemon.Pause()
	p.persist(true)
}

func (p *persistingDaemon) Unpause() {
	p.Daemon.Unpause()
	p.persist(false)
}

func (p *persistingDaemon) persist(paused bool) {
	st := daemon.LoadState()
	st.SetPaused(paused)
	if err := daemon.SaveState(st); err != nil {
		p.logger.Warn("failed to persist pause state", "error", err)
	}
}

func main() {
	configPath := flag.String("config", "", "Path to config file (default: XDG config dir)")
	logLevel := flag.String("log-level", "info", "Log level (debug, info, warn, error)")
	showVersion := flag.Bool("version", false, "Show version and exit")
	flag.Parse()

	if *showVersion {
		println("notiqd version", version)
		os.Exit(0)
	}

	var level slog.Level
	if err := level.UnmarshalText([]byte(*logLevel)); err != nil {
		level = slog.LevelInfo
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)

	logger.Info("starting notiqd", "version", version)

	path := *configPath
	if path == "" {
		path = config.Path()
	}
	cfg, err := config.Load(path)
	if err != nil {
		logger.Error("failed to load config", "path", path, "error", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	server := dbus.NewServer(logger)
	server.SetServerInfo(dbus.ServerInfo{
		Name:        "notiqd",
		Vendor:      "notiq",
		Version:     version,
		SpecVersion: "1.2",
	})

	d := daemon.New(cfg, server, logger, daemon.Options{})
	loopDone := make(chan struct{})
	go func() {
		d.Run(ctx)
		close(loopDone)
	}()

	server.SetNotifyHandler(d.NotifyHandler)
	server.SetCloseHandler(d.CloseHandler)
	if err := server.Start(); err != nil {
		logger.Error("failed to start D-Bus server", "error", err)
		os.Exit(1)
	}
	defer server.Stop()

	pd := &persistingDaemon{Daemon: d, logger: logger}
	control := dbus.NewControl(pd, logger)
	if err := control.Export(server.Connection()); err != nil {
		logger.Error("failed to export control interface", "error", err)
		os.Exit(1)
	}

	// Pick up the pause state from the previous run.
	if daemon.LoadState().Paused {
		d.Pause()
		logger.Info("restored paused state")
	}

	watcher, err := config.NewWatcher(path, d.SetConfig)
	if err != nil {
		logger.Warn("failed to create config watcher", "error", err)
	} else if err := watcher.Start(); err != nil {
		logger.Warn("failed to start config watcher", "error", err)
	} else {
		defer watcher.Stop()
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM, syscall.SIGUSR1, syscall.SIGUSR2)

	for sig := range sigCh {
		switch sig {
		case syscall.SIGUSR1:
			logger.Info("SIGUSR1 received, pausing")
			pd.Pause()
		case syscall.SIGUSR2:
			logger.Info("SIGUSR2 received, resuming")
			pd.Unpause()
		default:
			logger.Info("shutting down", "signal", sig.String())
			cancel()
			<-loopDone
			return
		}
	}
}
