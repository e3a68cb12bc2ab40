package tui

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		return m, nil
	case tickMsg:
		m.refresh()
		return m, m.tick()
	case tea.KeyMsg:
		if m.searchActive {
			return m, m.handleSearchKey(msg)
		}
		return m, m.handleKey(msg)
	}
	return m, nil
}

func (m *Model) handleSearchKey(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, m.keys.ForceQuit):
		return tea.Quit
	case key.Matches(msg, m.keys.Escape):
		m.searchActive = false
		m.searchInput.Blur()
		m.searchInput.SetValue("")
		m.searchTerm = ""
		m.refresh()
		return nil
	case msg.Type == tea.KeyEnter:
		m.searchActive = false
		m.searchInput.Blur()
		m.searchTerm = m.searchInput.Value()
		m.follow = true
		m.refresh()
		return nil
	}

	var cmd tea.Cmd
	m.searchInput, cmd = m.searchInput.Update(msg)
	m.searchTerm = m.searchInput.Value()
	m.refresh()
	return cmd
}

func (m *Model) handleKey(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, m.keys.Quit), key.Matches(msg, m.keys.ForceQuit):
		return tea.Quit
	case key.Matches(msg, m.keys.Search):
		m.searchActive = true
		return m.searchInput.Focus()
	case key.Matches(msg, m.keys.Escape):
		if m.showTrace {
			m.showTrace = false
			return nil
		}
		m.searchInput.SetValue("")
		m.searchTerm = ""
		m.refresh()
	case key.Matches(msg, m.keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}
		m.follow = false
	case key.Matches(msg, m.keys.Down):
		if m.cursor < len(m.entries)-1 {
			m.cursor++
		}
		m.follow = m.cursor >= len(m.entries)-1
	case key.Matches(msg, m.keys.Home):
		m.cursor = 0
		m.follow = false
	case key.Matches(msg, m.keys.End):
		m.cursor = max(len(m.entries)-1, 0)
		m.follow = true
	case key.Matches(msg, m.keys.Trace):
		m.showTrace = !m.showTrace
	}
	return nil
}
