package main

import (
	"strings"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/joshuapare/arenakit/cmd/arenaview/logger"
)

// Update implements tea.Model
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keys.Quit) {
		logger.Info("quit requested")
		return m, tea.Quit
	}

	// Nothing but quit works once setup has failed
	if m.err != nil {
		return m, nil
	}

	if m.showHelp {
		if key.Matches(msg, m.keys.Esc) || key.Matches(msg, m.keys.Help) {
			m.showHelp = false
		}
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keys.Push):
		m.step('a')
	case key.Matches(msg, m.keys.Skip):
		m.step('b')
	case key.Matches(msg, m.keys.Pop):
		m.step('c')
	case key.Matches(msg, m.keys.Flush):
		m.flush()
	case key.Matches(msg, m.keys.Reset):
		m.reset()
	case key.Matches(msg, m.keys.Check):
		m.verify()
	case key.Matches(msg, m.keys.Copy):
		m.copyDump()
	case key.Matches(msg, m.keys.Help):
		m.showHelp = true
	}
	return m, nil
}

// copyDump puts the arena listing on the system clipboard.
func (m *Model) copyDump() {
	var sb strings.Builder
	if err := m.arena.Dump(&sb); err != nil {
		m.setError(err)
		return
	}
	if err := clipboard.WriteAll(sb.String()); err != nil {
		logger.Warn("clipboard write failed", "error", err)
		m.statusMessage = "copy failed: " + err.Error()
		m.statusIsError = true
		return
	}
	m.setStatus("arena dump copied to clipboard")
}
