package logsource

import (
	"bufio"
	"context"
	"errors"
	"io"
	"log"
	"os"
	"sync"
)

const (
	// DefaultBuffer is the default channel buffer size for input lines.
	DefaultBuffer = 1024

	// DefaultMaxLineSize is the default maximum size (in bytes) of a single line.
	DefaultMaxLineSize = 1024 * 1024 // 1MB
)

// ReaderConfig holds tunable parameters for a reader source.
type ReaderConfig struct {
	Name        string
	BufferSize  int
	MaxLineSize int
}

// ReaderSource reads newline-delimited lines from an io.Reader.
type ReaderSource struct {
	name     string
	ch       chan Line
	cancel   context.CancelFunc
	stopOnce sync.Once
}

// NewStdinSource reads from os.Stdin.
func NewStdinSource(ctx context.Context, conf ...ReaderConfig) *ReaderSource {
	cfg := ReaderConfig{Name: "stdin"}
	if len(conf) > 0 {
		cfg = conf[0]
		if cfg.Name == "" {
			cfg.Name = "stdin"
		}
	}
	return NewReaderSource(ctx, os.Stdin, cfg)
}

// NewReaderSource starts reading r in a background goroutine.
func NewReaderSource(ctx context.Context, r io.Reader, conf ...ReaderConfig) *ReaderSource {
	name := "reader"
	bufferSize := DefaultBuffer
	maxLineSize := DefaultMaxLineSize
	if len(conf) > 0 {
		if conf[0].Name != "" {
			name = conf[0].Name
		}
		if conf[0].BufferSize > 0 {
			bufferSize = conf[0].BufferSize
		}
		if conf[0].MaxLineSize > 0 {
			maxLineSize = conf[0].MaxLineSize
		}
	}
	ctx, cancel := context.WithCancel(ctx)
	s := &ReaderSource{
		name:   name,
		ch:     make(chan Line, bufferSize),
		cancel: cancel,
	}
	go s.read(ctx, r, maxLineSize)
	return s
}

func (s *ReaderSource) read(ctx context.Context, r io.Reader, maxLineSize int) {
	defer close(s.ch)

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)

	// A blocked Scan cannot observe ctx, so scanning runs in its own
	// goroutine and this loop only forwards.
	results := make(chan string)
	go func() {
		defer close(results)
		for scanner.Scan() {
			line := scanner.Text()
			if line == "" {
				continue
			}
			select {
			case results <- line:
			case <-ctx.Done():
				return
			}
		}
		if err := scanner.Err(); err != nil {
			if errors.Is(err, bufio.ErrTooLong) {
				log.Printf("logsource: %s line exceeded max size (%d bytes), stopping source", s.name, maxLineSize)
				return
			}
			log.Printf("logsource: %s scanner error: %v", s.name, err)
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return
		case text, ok := <-results:
			if !ok {
				return
			}
			select {
			case s.ch <- Line{Source: s.name, Text: text}:
			case <-ctx.Done():
				return
			}
		}
	}
}

func (s *ReaderSource) Lines() <-chan Line { return s.ch }
func (s *ReaderSource) Stop()              { s.stopOnce.Do(s.cancel) }
func (s *ReaderSource) Name() string       { return s.name }

// IsPiped reports whether stdin is a pipe or file rather than a terminal.
func IsPiped() bool {
	fi, err := os.Stdin.Stat()
	if err != nil {
		return false
	}
	return fi.Mode()&os.ModeCharDevice == 0
}
