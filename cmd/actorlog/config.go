package main

import (
	"time"

	"github.com/tinytelemetry/actorlog/internal/snapshot"
	"github.com/tinytelemetry/actorlog/internal/tui"
)

const (
	defaultBindHost        = "127.0.0.1"
	defaultAPIPort         = 3000
	defaultTCPPort         = 4000
	defaultMuxBufferSize   = DefaultMuxBuffer
	defaultSeverity        = "info"
	defaultSnapshotFormat  = "json"
	defaultSnapshotEvery   = snapshot.DefaultFlushInterval
	defaultRefreshInterval = tui.DefaultRefreshInterval
	defaultQueryTimeout    = 30 * time.Second
)

// appConfig is internal runtime configuration.
// It is package-private to keep defaults and shape local to the CLI entrypoint.
type appConfig struct {
	AutoClear        bool          `mapstructure:"auto-clear"`
	ConsoleEcho      bool          `mapstructure:"console-echo"`
	ConsoleStyled    bool          `mapstructure:"console-styled"`
	DefaultSeverity  string        `mapstructure:"default-severity"`
	InputFiles       []string      `mapstructure:"input-files"`
	TCPEnabled       bool          `mapstructure:"tcp-enabled"`
	TCPPort          int           `mapstructure:"tcp-port"`
	TCPAddr          string        `mapstructure:"tcp-addr"`
	MuxBufferSize    int           `mapstructure:"mux-buffer-size"`
	APIEnabled       bool          `mapstructure:"api-enabled"`
	APIPort          int           `mapstructure:"api-port"`
	APIAddr          string        `mapstructure:"api-addr"`
	SnapshotPath     string        `mapstructure:"snapshot-path"`
	SnapshotFormat   string        `mapstructure:"snapshot-format"`
	SnapshotInterval time.Duration `mapstructure:"snapshot-interval"`
	DBEnabled        bool          `mapstructure:"db-enabled"`
	DBPath           string        `mapstructure:"db-path"`
	QueryTimeout     time.Duration `mapstructure:"query-timeout"`
	TUI              bool          `mapstructure:"tui"`
	RefreshInterval  time.Duration `mapstructure:"refresh-interval"`
	ConfigPath       string        `mapstructure:"-"` // not from config file
}
