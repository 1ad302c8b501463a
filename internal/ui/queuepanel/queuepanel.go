// Package queuepanel renders the play queue: committed rows first, then the
// planned look-ahead rows, with a selection cursor.
package queuepanel

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/llehouerou/jukebox/internal/playqueue"
)

// scrollMargin is the number of rows kept visible around the cursor.
const scrollMargin = 3

// Source is the queue state the panel displays.
type Source interface {
	Queue() []playqueue.Item
	Planned() []playqueue.Item
	Index() int
	IsStopped() bool
	Modes() playqueue.Modes
}

// JumpToRowMsg asks for playback to jump to a row.
type JumpToRowMsg struct {
	Row int
}

// RemoveRowMsg asks for a row to be removed.
type RemoveRowMsg struct {
	Row int
}

// MoveRowMsg asks for a row to be moved one step up or down.
type MoveRowMsg struct {
	Row int
	Up  bool
}

// Model represents the queue panel state.
type Model struct {
	source Source

	items   []playqueue.Item
	planned []playqueue.Item
	index   int
	stopped bool
	modes   playqueue.Modes

	cursor int
	offset int
	width  int
	height int
}

// New creates a queue panel over source.
func New(source Source) Model {
	m := Model{source: source}
	m.Refresh()
	return m
}

// Refresh reloads the queue snapshot and clamps the cursor.
func (m *Model) Refresh() {
	m.items = m.source.Queue()
	m.planned = m.source.Planned()
	m.index = m.source.Index()
	m.stopped = m.source.IsStopped()
	m.modes = m.source.Modes()
	m.clamp()
}

// SetSize sets the panel dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.clamp()
}

// Cursor returns the selected row.
func (m Model) Cursor() int {
	return m.cursor
}

// SetCursor selects row.
func (m *Model) SetCursor(row int) {
	m.cursor = row
	m.clamp()
}

// Rows returns the number of displayed rows, planned included.
func (m Model) Rows() int {
	return len(m.items) + len(m.planned)
}

// row returns the item at row and whether it is planned.
func (m Model) row(i int) (playqueue.Item, bool) {
	if i < len(m.items) {
		return m.items[i], false
	}
	return m.planned[i-len(m.items)], true
}

// Update handles key messages for the queue panel.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch keyMsg.String() {
	case "j", "down":
		m.moveCursor(1)
	case "k", "up":
		m.moveCursor(-1)
	case "g", "home":
		m.cursor = 0
		m.clamp()
	case "G", "end":
		m.cursor = m.Rows() - 1
		m.clamp()
	case "enter":
		if m.Rows() > 0 {
			return m, rowCmd(JumpToRowMsg{Row: m.cursor})
		}
	case "d", "delete":
		if m.Rows() > 0 {
			return m, rowCmd(RemoveRowMsg{Row: m.cursor})
		}
	case "K", "shift+up":
		if m.cursor > 0 {
			return m, rowCmd(MoveRowMsg{Row: m.cursor, Up: true})
		}
	case "J", "shift+down":
		if m.cursor < m.Rows()-1 {
			return m, rowCmd(MoveRowMsg{Row: m.cursor})
		}
	}
	return m, nil
}

func rowCmd(msg tea.Msg) tea.Cmd {
	return func() tea.Msg { return msg }
}

func (m *Model) moveCursor(delta int) {
	m.cursor += delta
	m.clamp()
}

func (m Model) listHeight() int {
	// border (2) + header + separator
	return max(m.height-4, 1)
}

func (m *Model) clamp() {
	rows := m.Rows()
	m.cursor = max(min(m.cursor, rows-1), 0)

	h := m.listHeight()
	margin := min(scrollMargin, (h-1)/2)
	if m.cursor-margin < m.offset {
		m.offset = m.cursor - margin
	}
	if m.cursor+margin >= m.offset+h {
		m.offset = m.cursor + margin - h + 1
	}
	m.offset = max(min(m.offset, rows-h), 0)
}
