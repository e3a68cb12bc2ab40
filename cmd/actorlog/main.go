package main

import (
	"errors"
	"flag"
	"fmt"
	"net"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/spf13/viper"
	"github.com/tinytelemetry/actorlog/internal/logparse"
	"github.com/tinytelemetry/actorlog/internal/snapshot"
)

// Build variables - set by ldflags during build.
var (
	version   = "dev"
	commit    = "unknown"
	buildTime = "unknown"
	goVersion = "unknown"
)

func main() {
	var configPath string
	var showVersion bool

	flag.StringVar(&configPath, "config", "", "config file (default is $HOME/.config/actorlog/config.yml)")
	flag.BoolVar(&showVersion, "version", false, "print version information")
	flag.Parse()

	if showVersion {
		fmt.Printf("actorlog - In-process Log Collector\n")
		fmt.Printf("  Version:    %s\n", version)
		fmt.Printf("  Commit:     %s\n", commit)
		fmt.Printf("  Built:      %s\n", buildTime)
		fmt.Printf("  Go version: %s\n", goVersion)
		return
	}

	home, err := os.UserHomeDir()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: finding home directory: %v\n", err)
		os.Exit(1)
	}

	cfg, err := loadConfig(configPath, home)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}

	if err := runServer(cfg); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func loadConfig(configPath, home string) (appConfig, error) {
	var cfg appConfig

	v := viper.New()
	v.SetEnvPrefix("ACTORLOG")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))

	v.SetDefault("auto-clear", true)
	v.SetDefault("console-echo", false)
	v.SetDefault("console-styled", true)
	v.SetDefault("default-severity", defaultSeverity)
	v.SetDefault("input-files", []string{})
	v.SetDefault("tcp-enabled", false)
	v.SetDefault("tcp-port", defaultTCPPort)
	v.SetDefault("mux-buffer-size", defaultMuxBufferSize)
	v.SetDefault("api-enabled", true)
	v.SetDefault("api-port", defaultAPIPort)
	v.SetDefault("snapshot-path", filepath.Join(home, ".local", "share", "actorlog", "snapshot.json"))
	v.SetDefault("snapshot-format", "")
	v.SetDefault("snapshot-interval", defaultSnapshotEvery)
	v.SetDefault("db-enabled", false)
	v.SetDefault("db-path", filepath.Join(home, ".local", "share", "actorlog", "actorlog.duckdb"))
	v.SetDefault("query-timeout", defaultQueryTimeout)
	v.SetDefault("tui", false)
	v.SetDefault("refresh-interval", defaultRefreshInterval)

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigFile(filepath.Join(home, ".config", "actorlog", "config.yml"))
	}

	if err := v.ReadInConfig(); err != nil {
		var configFileNotFound viper.ConfigFileNotFoundError
		if !errors.As(err, &configFileNotFound) && !os.IsNotExist(err) {
			return cfg, err
		}
	}

	if err := v.Unmarshal(&cfg); err != nil {
		return cfg, err
	}
	cfg.ConfigPath = v.ConfigFileUsed()
	if _, err := os.Stat(cfg.ConfigPath); err != nil {
		cfg.ConfigPath = ""
	}

	if cfg.APIPort <= 0 || cfg.APIPort > 65535 {
		return cfg, fmt.Errorf("invalid api-port: %d", cfg.APIPort)
	}
	if cfg.TCPPort <= 0 || cfg.TCPPort > 65535 {
		return cfg, fmt.Errorf("invalid tcp-port: %d", cfg.TCPPort)
	}
	if _, ok := logparse.ParseSeverity(cfg.DefaultSeverity); !ok {
		return cfg, fmt.Errorf("invalid default-severity: %q", cfg.DefaultSeverity)
	}
	if cfg.SnapshotInterval < 0 {
		return cfg, fmt.Errorf("invalid snapshot-interval: %s", cfg.SnapshotInterval)
	}

	cfg.SnapshotPath = expandHome(cfg.SnapshotPath, home)
	cfg.DBPath = expandHome(cfg.DBPath, home)
	for i, p := range cfg.InputFiles {
		cfg.InputFiles[i] = expandHome(p, home)
	}

	// An explicit format wins; otherwise it follows the snapshot file extension.
	if cfg.SnapshotFormat != "" {
		f, err := snapshot.ParseFormat(cfg.SnapshotFormat)
		if err != nil {
			return cfg, fmt.Errorf("invalid snapshot-format: %w", err)
		}
		cfg.SnapshotFormat = string(f)
	} else if cfg.SnapshotPath != "" {
		f, err := snapshot.FormatForPath(cfg.SnapshotPath)
		if err != nil {
			return cfg, fmt.Errorf("invalid snapshot-path: %w", err)
		}
		cfg.SnapshotFormat = string(f)
	}

	if cfg.TCPAddr == "" {
		cfg.TCPAddr = net.JoinHostPort(defaultBindHost, strconv.Itoa(cfg.TCPPort))
	}
	if cfg.APIAddr == "" {
		cfg.APIAddr = net.JoinHostPort(defaultBindHost, strconv.Itoa(cfg.APIPort))
	}

	return cfg, nil
}

func expandHome(path, home string) string {
	if strings.HasPrefix(path, "~/") {
		return filepath.Join(home, path[2:])
	}
	return path
}
