// Package console implements the console sinks echoed log messages are
// written to.
package console

import (
	"io"
	"log"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/tinytelemetry/actorlog/internal/model"
)

// Nop discards every message.
type Nop struct{}

func (Nop) Echo(model.Channel, string) {}

// Config configures a Writer sink.
type Config struct {
	Stdout io.Writer
	Stderr io.Writer
	// Styled prefixes warning and error lines with a colored tag.
	Styled bool
	// Flags are passed to the underlying log.Logger values.
	Flags int
}

// Writer routes the standard channel to stdout and the warning and error
// channels to stderr.
type Writer struct {
	loggers [3]*log.Logger
}

var (
	warnTag  = lipgloss.NewStyle().Foreground(lipgloss.Color("208")).Bold(true).Render("WARN")
	errorTag = lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true).Render("ERROR")
)

// NewWriter creates a Writer. Nil writers default to os.Stdout and
// os.Stderr.
func NewWriter(conf ...Config) *Writer {
	cfg := Config{Flags: log.LstdFlags}
	if len(conf) > 0 {
		cfg = conf[0]
	}
	if cfg.Stdout == nil {
		cfg.Stdout = os.Stdout
	}
	if cfg.Stderr == nil {
		cfg.Stderr = os.Stderr
	}

	warnPrefix, errPrefix := "", ""
	if cfg.Styled {
		warnPrefix = warnTag + " "
		errPrefix = errorTag + " "
	}

	w := &Writer{}
	w.loggers[model.ChannelStandard] = log.New(cfg.Stdout, "", cfg.Flags)
	w.loggers[model.ChannelWarning] = log.New(cfg.Stderr, warnPrefix, cfg.Flags|log.Lmsgprefix)
	w.loggers[model.ChannelError] = log.New(cfg.Stderr, errPrefix, cfg.Flags|log.Lmsgprefix)
	return w
}

// Echo implements model.ConsoleSink.
func (w *Writer) Echo(ch model.Channel, message string) {
	if ch < model.ChannelStandard || ch > model.ChannelError {
		ch = model.ChannelStandard
	}
	w.loggers[ch].Print(message)
}
