package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/five82/pwinty/internal/logtail"
)

const logTailLines = 500

// logsMsg carries the tail of the log file.
type logsMsg struct {
	lines []string
	err   error
}

func (m Model) logPath() string {
	if m.config == nil {
		return ""
	}
	return m.config.LogFile
}

func (m Model) readLogsCmd() tea.Cmd {
	path := m.logPath()
	return func() tea.Msg {
		if path == "" {
			return logsMsg{}
		}
		lines, err := logtail.Read(path, logTailLines)
		return logsMsg{lines: lines, err: err}
	}
}

func (m *Model) handleLogs(msg logsMsg) {
	styles := m.theme.Styles()
	if msg.err != nil {
		m.logViewport.SetContent(styles.DangerText.Render("Unable to read log: " + msg.err.Error()))
		return
	}
	lines := logtail.Filter(msg.lines, m.logMinLevel)
	if len(lines) == 0 {
		m.logViewport.SetContent(styles.MutedText.Render("No log lines yet"))
		return
	}

	// follow the tail unless the user has scrolled up
	follow := m.logViewport.AtBottom() || m.logViewport.TotalLineCount() == 0
	rendered := make([]string, len(lines))
	for i, line := range lines {
		rendered[i] = m.styleLogLine(line)
	}
	m.logViewport.SetContent(strings.Join(rendered, "\n"))
	if follow {
		m.logViewport.GotoBottom()
	}
}

func (m Model) styleLogLine(line string) string {
	styles := m.theme.Styles()
	switch logtail.ParseLevel(line) {
	case logtail.LevelError:
		return styles.DangerText.Render(line)
	case logtail.LevelWarn:
		return styles.WarningText.Render(line)
	case logtail.LevelDebug:
		return styles.FaintText.Render(line)
	default:
		return styles.Text.Render(line)
	}
}

func (m Model) handleLogsKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keys.ToggleLevel) {
		if m.logMinLevel >= logtail.LevelWarn {
			m.logMinLevel = logtail.LevelInfo
		} else {
			m.logMinLevel = logtail.LevelWarn
		}
		return m, m.readLogsCmd()
	}
	var cmd tea.Cmd
	m.logViewport, cmd = m.logViewport.Update(msg)
	return m, cmd
}

func (m Model) renderLogs() string {
	styles := m.theme.Styles()
	title := "Log"
	if m.logMinLevel >= logtail.LevelWarn {
		title = "Log (warnings only)"
	}
	path := m.logPath()
	if path == "" {
		path = "no log file configured"
	}
	header := styles.AccentText.Render(title) + styles.FaintText.Render(fmt.Sprintf("  %s", path))
	return styles.Focused.Width(m.width - 2).Render(header + "\n" + m.logViewport.View())
}
