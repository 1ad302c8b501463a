package app

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/llehouerou/jukebox/internal/ui/playerbar"
	"github.com/llehouerou/jukebox/internal/ui/render"
)

var (
	statusStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("39"))
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	promptStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("214"))
)

// View implements tea.Model.
func (m Model) View() string {
	if m.width == 0 {
		return ""
	}

	sections := []string{m.panel.View()}
	if bar := m.renderPlayerBar(); bar != "" {
		sections = append(sections, bar)
	}
	sections = append(sections, m.renderStatus(), m.renderHelp())
	return strings.Join(sections, "\n")
}

func (m Model) renderPlayerBar() string {
	var radio string
	if r, ok := m.queue.CurrentRadio(); ok {
		radio = r.Name
	}
	return playerbar.Render(playerbar.NewState(m.player, m.queue.CurrentFile(), radio), m.width)
}

func (m Model) renderStatus() string {
	text := render.Truncate(m.status, m.width)
	switch {
	case m.prompt != nil:
		return promptStyle.Render(text)
	case m.isError:
		return errorStyle.Render(text)
	default:
		return statusStyle.Render(text)
	}
}

func (m Model) renderHelp() string {
	if m.prompt != nil {
		return m.help.View(promptKeyMap(m.keys))
	}
	return m.help.View(m.keys)
}
