package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/tinytelemetry/actorlog/internal/collector"
	"github.com/tinytelemetry/actorlog/internal/console"
	"github.com/tinytelemetry/actorlog/internal/duckdb"
	"github.com/tinytelemetry/actorlog/internal/fuzzy"
	"github.com/tinytelemetry/actorlog/internal/httpserver"
	"github.com/tinytelemetry/actorlog/internal/logsource"
	"github.com/tinytelemetry/actorlog/internal/model"
	"github.com/tinytelemetry/actorlog/internal/snapshot"
	"github.com/tinytelemetry/actorlog/internal/tui"
	"golang.org/x/sync/errgroup"
)

// runServer feeds input lines into one collector and serves it until the
// inputs end or a signal arrives.
func runServer(cfg appConfig) error {
	cleanupLogger := configureRuntimeLogger()
	defer cleanupLogger()

	var sink model.ConsoleSink = console.Nop{}
	if cfg.ConsoleEcho && !cfg.TUI {
		sink = console.NewWriter(console.Config{Styled: cfg.ConsoleStyled})
	}
	owner := collector.NewOwner(collector.New(collector.Config{
		AutoClear: cfg.AutoClear,
		Console:   sink,
		Matcher:   fuzzy.Matcher{},
	}))

	var store *duckdb.Store
	if cfg.DBEnabled {
		var err error
		if err = os.MkdirAll(filepath.Dir(cfg.DBPath), 0755); err != nil {
			return fmt.Errorf("failed to create db directory: %w", err)
		}
		store, err = duckdb.NewStore(cfg.DBPath, cfg.QueryTimeout)
		if err != nil {
			return fmt.Errorf("failed to initialize DuckDB: %w", err)
		}
		defer store.Close()
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	restoredFrom, err := restoreState(ctx, owner, store, cfg)
	if err != nil {
		log.Printf("Warning: %v", err)
	}

	// Periodic snapshot persistence. The flusher's final write runs on
	// Stop, so it must be stopped before the store closes.
	var writers []snapshot.Writer
	if cfg.SnapshotPath != "" {
		writers = append(writers, snapshot.FileWriter{
			Path:   cfg.SnapshotPath,
			Format: snapshot.Format(cfg.SnapshotFormat),
		})
	}
	if store != nil {
		writers = append(writers, store)
	}
	flusher := snapshot.NewFlusher(owner, writers, snapshot.FlusherConfig{
		Interval: cfg.SnapshotInterval,
	})
	if flusher != nil {
		defer flusher.Stop()
	}

	if cfg.APIEnabled {
		apiServer := httpserver.NewServer(cfg.APIAddr, owner)
		if err := apiServer.Start(); err != nil {
			return fmt.Errorf("failed to start API server: %w", err)
		}
		cfg.APIAddr = apiServer.Addr()
		defer apiServer.Stop()
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigCh)

	go func() {
		select {
		case <-sigCh:
		case <-ctx.Done():
			return
		}
		fmt.Println("\nShutting down gracefully... (press Ctrl+C again to force)")
		cancel()

		deadline := time.NewTimer(10 * time.Second)
		defer deadline.Stop()

		select {
		case <-sigCh:
			fmt.Println("\nForce shutdown.")
		case <-deadline.C:
			fmt.Println("Shutdown timed out, forcing exit.")
		}
		os.Exit(1)
	}()

	piped := logsource.IsPiped()
	plugins := buildInputPlugins(InputPluginConfig{
		TCPEnabled: cfg.TCPEnabled,
		TCPAddr:    cfg.TCPAddr,
		Files:      cfg.InputFiles,
		Piped:      &piped,
	})
	sources := buildSources(ctx, plugins, log.Printf)

	mux := NewSourceMultiplexer(ctx, sources, cfg.MuxBufferSize)
	mux.Start()
	defer mux.Stop()

	if !cfg.TUI {
		printStartupBanner(cfg, mux.SourceNames(), restoredFrom)
	}

	// Without the API or the viewer there is nothing left to serve once
	// the inputs end.
	serving := cfg.APIEnabled || cfg.TUI || cfg.TCPEnabled
	if !serving && !mux.HasSources() {
		cancel()
	}

	g, gctx := errgroup.WithContext(ctx)

	ingester := newLineIngester(owner, cfg)
	if mux.HasSources() {
		g.Go(func() error {
			n := ingester.Run(gctx, mux.Lines())
			log.Printf("ingest: %d lines collected", n)
			if !serving {
				cancel()
			}
			return nil
		})
	}

	if cfg.TUI {
		g.Go(func() error {
			defer cancel()
			opts := []tea.ProgramOption{tea.WithAltScreen(), tea.WithContext(gctx)}
			if piped {
				opts = append(opts, tea.WithInputTTY())
			}
			p := tea.NewProgram(tui.NewModel(owner, cfg.RefreshInterval), opts...)
			if _, err := p.Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
				return fmt.Errorf("tui: %w", err)
			}
			return nil
		})
	}

	g.Go(func() error {
		<-gctx.Done()
		return nil
	})

	if err := g.Wait(); err != nil {
		return err
	}
	return nil
}

func configureRuntimeLogger() func() {
	log.SetFlags(log.LstdFlags | log.Lmicroseconds)

	home, err := os.UserHomeDir()
	if err != nil {
		log.SetOutput(os.Stderr)
		return func() {}
	}

	logDir := filepath.Join(home, ".local", "state", "actorlog")
	if err := os.MkdirAll(logDir, 0755); err != nil {
		log.SetOutput(os.Stderr)
		return func() {}
	}

	logPath := filepath.Join(logDir, "actorlog.log")
	f, err := os.OpenFile(logPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		log.SetOutput(os.Stderr)
		return func() {}
	}

	log.SetOutput(f)
	return func() {
		_ = f.Close()
	}
}

func printStartupBanner(cfg appConfig, sources []string, restoredFrom string) {
	dim := lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	green := lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	cyan := lipgloss.NewStyle().Foreground(lipgloss.Color("39"))
	yellow := lipgloss.NewStyle().Foreground(lipgloss.Color("220"))
	bold := lipgloss.NewStyle().Bold(true)

	check := green.Render("●")
	dot := dim.Render("●")

	status := func(on bool, label, value string) string {
		if on {
			return fmt.Sprintf("    %s  %-14s %s", check, label, cyan.Render(value))
		}
		return fmt.Sprintf("    %s  %-14s %s", dot, label, dim.Render("disabled"))
	}

	separator := dim.Render("    ─────────────────────────────────")

	lines := []string{
		"",
		cyan.Bold(true).Render("    actorlog"),
		"    " + dim.Render("v"+version),
		"",
		separator,
		"",
		bold.Render("    Collector"),
		"",
		status(true, "Auto-clear", fmt.Sprintf("%t (>%d entries)", cfg.AutoClear, model.AutoClearThreshold)),
		status(cfg.ConsoleEcho, "Console echo", "stdout / stderr"),
		status(len(sources) > 0, "Inputs", strings.Join(sources, ", ")),
		"",
		bold.Render("    Gateway"),
		"",
		status(cfg.APIEnabled, "HTTP API", cfg.APIAddr),
		status(cfg.TCPEnabled, "TCP Ingest", cfg.TCPAddr),
		"",
		bold.Render("    Storage"),
		"",
		status(cfg.SnapshotPath != "", "Snapshots", shortenPath(cfg.SnapshotPath)+" ("+cfg.SnapshotFormat+")"),
		status(cfg.DBEnabled, "DuckDB", shortenPath(cfg.DBPath)),
	}
	if restoredFrom != "" {
		lines = append(lines, status(true, "Restored", shortenPath(restoredFrom)))
	}

	lines = append(lines, "", bold.Render("    Config"), "")
	if cfg.ConfigPath != "" {
		lines = append(lines, status(true, "Config File", shortenPath(cfg.ConfigPath)))
	} else {
		lines = append(lines, fmt.Sprintf("    %s  %-14s %s", dot, "Config File", dim.Render("default (no file)")))
	}

	lines = append(lines,
		"",
		separator,
		"",
		"    "+dim.Render("Press ")+yellow.Render("Ctrl+C")+dim.Render(" to stop"),
		"",
	)

	fmt.Println(strings.Join(lines, "\n"))
}

func shortenPath(path string) string {
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	if strings.HasPrefix(path, home) {
		return "~" + path[len(home):]
	}
	return path
}
