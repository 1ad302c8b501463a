package queuepanel

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/llehouerou/jukebox/internal/playqueue"
	"github.com/llehouerou/jukebox/internal/ui/render"
)

// View renders the queue panel.
func (m Model) View() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}

	innerWidth := m.width - 2
	content := m.renderHeader(innerWidth) + "\n" +
		render.Separator(innerWidth) + "\n" +
		m.renderRows(innerWidth, m.listHeight())

	return panelStyle.Width(innerWidth).Render(content)
}

func (m Model) renderHeader(innerWidth int) string {
	current := 0
	if !m.stopped && len(m.items) > 0 {
		current = m.index + 1
	}
	left := fmt.Sprintf("Queue (%d/%d)", current, len(m.items))
	if len(m.planned) > 0 {
		left += fmt.Sprintf(" +%d planned", len(m.planned))
	}

	modes := modeFlags(m.modes)
	return headerStyle.Render(render.Row(left, "", innerWidth-lipgloss.Width(modes))) +
		modeStyle.Render(modes)
}

// modeFlags renders the active modes as short tags.
func modeFlags(modes playqueue.Modes) string {
	var parts []string
	if modes.Repeat {
		parts = append(parts, "repeat")
	}
	if modes.Shuffle {
		parts = append(parts, "shuffle")
	}
	if modes.Continue {
		parts = append(parts, "continue")
	}
	if modes.Intro {
		parts = append(parts, "intro")
	}
	if len(parts) == 0 {
		return ""
	}
	return "[" + strings.Join(parts, " ") + "]"
}

func (m Model) renderRows(innerWidth, listHeight int) string {
	lines := make([]string, 0, listHeight)
	for i := range listHeight {
		idx := i + m.offset
		if idx >= m.Rows() {
			lines = append(lines, strings.Repeat(" ", innerWidth))
			continue
		}
		lines = append(lines, m.renderRow(idx, innerWidth))
	}
	return strings.Join(lines, "\n")
}

func (m Model) renderRow(idx, width int) string {
	it, planned := m.row(idx)
	playing := !planned && !m.stopped && idx == m.index

	prefix := "  "
	if playing {
		prefix = playingSymbol + " "
	}
	marker := "  "
	if it.Repeat {
		marker = repeatSymbol + " "
	}

	contentWidth := width - 4
	colWidth := contentWidth / 2
	var title, artist string
	if it.File != nil {
		title = it.File.DisplayTitle()
		artist = it.File.Artist
	}
	line := prefix + marker +
		render.TruncateAndPad(title, colWidth) +
		render.TruncateAndPad(artist, contentWidth-colWidth)

	style := trackStyle
	switch {
	case idx == m.cursor:
		style = cursorStyle
	case playing:
		style = playingStyle
	case it.File != nil && !it.File.IsAvailable():
		style = unavailableStyle
	case planned:
		style = plannedStyle
	}
	return style.Render(line)
}
