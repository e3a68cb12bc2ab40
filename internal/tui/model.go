// Package tui implements a terminal viewer for a running collector.
package tui

import (
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/tinytelemetry/actorlog/internal/model"
)

// DefaultRefreshInterval is how often the viewer re-reads the collector.
const DefaultRefreshInterval = 500 * time.Millisecond

type tickMsg time.Time

// Model is the Bubble Tea model of the viewer.
type Model struct {
	reader   model.EntryReader
	interval time.Duration
	keys     KeyMap
	help     help.Model

	entries []model.LogEntry
	counts  model.Counts

	searchInput  textinput.Model
	searchActive bool
	searchTerm   string

	cursor    int
	follow    bool // keep the cursor on the newest entry
	showTrace bool

	width  int
	height int
}

// NewModel creates a viewer over reader.
func NewModel(reader model.EntryReader, interval time.Duration) *Model {
	if interval <= 0 {
		interval = DefaultRefreshInterval
	}
	searchInput := textinput.New()
	searchInput.Placeholder = "fuzzy search"
	searchInput.Prompt = "/ "
	searchInput.CharLimit = 256

	m := &Model{
		reader:      reader,
		interval:    interval,
		keys:        DefaultKeyMap(),
		help:        help.New(),
		searchInput: searchInput,
		follow:      true,
		width:       100,
		height:      30,
	}
	m.refresh()
	return m
}

func (m *Model) Init() tea.Cmd {
	return m.tick()
}

func (m *Model) tick() tea.Cmd {
	return tea.Tick(m.interval, func(t time.Time) tea.Msg { return tickMsg(t) })
}

// refresh re-reads entries and counters from the collector.
func (m *Model) refresh() {
	if m.searchTerm != "" {
		m.entries = m.reader.Filter(m.searchTerm)
	} else {
		m.entries = m.reader.Entries()
	}
	m.counts = m.reader.Counts()

	if m.follow || m.cursor >= len(m.entries) {
		m.cursor = max(len(m.entries)-1, 0)
	}
}

func (m *Model) selected() (model.LogEntry, bool) {
	if m.cursor < 0 || m.cursor >= len(m.entries) {
		return model.LogEntry{}, false
	}
	return m.entries[m.cursor], true
}
