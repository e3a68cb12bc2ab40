package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/tinytelemetry/actorlog/internal/logsource"
	"github.com/tinytelemetry/actorlog/internal/tcpserver"
)

// InputSourcePlugin is a small plugin primitive for wiring log inputs.
type InputSourcePlugin interface {
	Name() string
	Enabled() bool
	Build(ctx context.Context) (logsource.LogSource, error)
}

// InputPluginConfig defines runtime input selection.
type InputPluginConfig struct {
	TCPEnabled bool
	TCPAddr    string
	Files []string
	// Piped overrides stdin detection; nil means detect.
	Piped *bool
}

func buildInputPlugins(cfg InputPluginConfig) []InputSourcePlugin {
	plugins := make([]InputSourcePlugin, 0, len(cfg.Files)+2)
	plugins = append(plugins, tcpInputPlugin{
		addr:    cfg.TCPAddr,
		enabled: cfg.TCPEnabled,
	})
	for _, path := range cfg.Files {
		plugins = append(plugins, fileInputPlugin{path: path})
	}
	piped := logsource.IsPiped
	if cfg.Piped != nil {
		v := *cfg.Piped
		piped = func() bool { return v }
	}
	plugins = append(plugins, stdinInputPlugin{piped: piped})
	return plugins
}

// buildSources builds every enabled plugin, logging and skipping failures.
func buildSources(ctx context.Context, plugins []InputSourcePlugin, logf func(string, ...any)) []logsource.LogSource {
	sources := make([]logsource.LogSource, 0, len(plugins))
	for _, plugin := range plugins {
		if !plugin.Enabled() {
			continue
		}
		src, err := plugin.Build(ctx)
		if err != nil {
			logf("Error initializing input plugin %q: %v", plugin.Name(), err)
			continue
		}
		sources = append(sources, src)
	}
	return sources
}

type tcpInputPlugin struct {
	addr    string
	enabled bool
}

func (p tcpInputPlugin) Name() string { return "tcp" }

func (p tcpInputPlugin) Enabled() bool { return p.enabled }

func (p tcpInputPlugin) Build(_ context.Context) (logsource.LogSource, error) {
	server := tcpserver.NewServer(p.addr)
	if err := server.Start(); err != nil {
		return nil, fmt.Errorf("start tcp server: %w", err)
	}
	return server, nil
}

// fileInputPlugin reads a file once from the start.
type fileInputPlugin struct {
	path string
}

func (p fileInputPlugin) Name() string { return "file:" + filepath.Base(p.path) }

func (p fileInputPlugin) Enabled() bool { return p.path != "" }

func (p fileInputPlugin) Build(ctx context.Context) (logsource.LogSource, error) {
	f, err := os.Open(p.path)
	if err != nil {
		return nil, fmt.Errorf("open input file: %w", err)
	}
	src := logsource.NewReaderSource(ctx, f, logsource.ReaderConfig{Name: p.Name()})
	return &closingSource{ReaderSource: src, f: f}, nil
}

// closingSource closes the underlying file when stopped.
type closingSource struct {
	*logsource.ReaderSource
	f *os.File
}

func (s *closingSource) Stop() {
	s.ReaderSource.Stop()
	_ = s.f.Close()
}

type stdinInputPlugin struct {
	piped func() bool
}

func (p stdinInputPlugin) Name() string { return "stdin" }

func (p stdinInputPlugin) Enabled() bool {
	return p.piped != nil && p.piped()
}

func (p stdinInputPlugin) Build(ctx context.Context) (logsource.LogSource, error) {
	return logsource.NewStdinSource(ctx), nil
}
