package app

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/llehouerou/jukebox/internal/errmsg"
	"github.com/llehouerou/jukebox/internal/events"
	"github.com/llehouerou/jukebox/internal/playqueue"
	"github.com/llehouerou/jukebox/internal/ui/playerbar"
	"github.com/llehouerou/jukebox/internal/ui/queuepanel"
)

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.resize()
		return m, nil

	case TickMsg:
		return m, tickCmd()

	case EventMsg:
		m.handleEvent(events.Event(msg))
		return m, waitForEvent(m.sub)

	case MountPromptMsg:
		m.prompt = msg.req
		m.setStatus("Device "+msg.req.device.Name+" is not mounted. Mount it?", false)
		return m, nil

	case queuepanel.JumpToRowMsg:
		m.report(errmsg.OpQueueGoTo, m.queue.GoTo(msg.Row))
		m.panel.Refresh()
		return m, nil

	case queuepanel.RemoveRowMsg:
		m.report(errmsg.OpQueueRemove, m.queue.Remove(msg.Row, msg.Row))
		m.panel.Refresh()
		return m, nil

	case queuepanel.MoveRowMsg:
		m.moveRow(msg)
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m *Model) resize() {
	m.panel.SetSize(m.width, max(m.height-playerbar.Height-2, 5))
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.prompt != nil {
		return m.handlePromptKey(msg)
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
		m.resize()
	case key.Matches(msg, m.keys.Pause):
		m.player.Toggle()
	case key.Matches(msg, m.keys.Stop):
		m.queue.StopRequest()
	case key.Matches(msg, m.keys.Next):
		m.queue.PlayNext()
	case key.Matches(msg, m.keys.Previous):
		m.queue.PlayPrevious()
	case key.Matches(msg, m.keys.NextAlbum):
		m.report(errmsg.OpNextAlbum, m.queue.PlayNextAlbum())
	case key.Matches(msg, m.keys.PreviousAlbum):
		m.report(errmsg.OpPreviousAlbum, m.queue.PlayPreviousAlbum())
	case key.Matches(msg, m.keys.Repeat):
		m.queue.SetRepeat(!m.queue.Modes().Repeat)
	case key.Matches(msg, m.keys.Shuffle):
		m.queue.SetShuffle(!m.queue.Modes().Shuffle)
	case key.Matches(msg, m.keys.Continue):
		m.queue.SetContinue(!m.queue.Modes().Continue)
	case key.Matches(msg, m.keys.Intro):
		m.queue.SetIntro(!m.queue.Modes().Intro)
	default:
		var cmd tea.Cmd
		m.panel, cmd = m.panel.Update(msg)
		return m, cmd
	}
	m.panel.Refresh()
	return m, nil
}

func (m Model) handlePromptKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	var choice playqueue.MountChoice
	switch {
	case key.Matches(msg, m.keys.MountYes):
		choice = playqueue.MountYes
	case key.Matches(msg, m.keys.MountSkip):
		choice = playqueue.MountSkip
	case key.Matches(msg, m.keys.MountAbort):
		choice = playqueue.MountAbort
	case key.Matches(msg, m.keys.Quit):
		m.prompt.answer(playqueue.MountAbort)
		return m, tea.Quit
	default:
		return m, nil
	}

	m.logger.Debug().Str("device", m.prompt.device.Name).Stringer("choice", choice).Msg("mount prompt answered")
	m.prompt.answer(choice)
	m.prompt = nil
	m.status = ""
	return m, waitForPrompt(m.prompter)
}

func (m *Model) moveRow(msg queuepanel.MoveRowMsg) {
	if msg.Up {
		if m.queue.Up(msg.Row) {
			m.panel.SetCursor(msg.Row - 1)
		}
	} else if m.queue.Down(msg.Row) {
		m.panel.SetCursor(msg.Row + 1)
	}
	m.panel.Refresh()
}

func (m *Model) handleEvent(e events.Event) {
	switch e.Kind {
	case events.LaunchFailed:
		m.setStatus("Cannot play "+e.String(events.AttrPath), true)
	case events.EmptySelection:
		m.setStatus("Nothing to play", true)
	case events.Reset:
		m.setStatus("End of collection", false)
	case events.FileLaunched, events.RadioLaunched:
		if m.prompt == nil {
			m.status = ""
		}
	}
	m.panel.Refresh()
}

// report shows err, if any, in the status line.
func (m *Model) report(op errmsg.Op, err error) {
	if err == nil {
		return
	}
	m.logger.Warn().Err(err).Str("op", string(op)).Msg("queue operation failed")
	text := errmsg.Format(op, err)
	if hint := errmsg.Suggestion(err); hint != "" {
		text += ". " + hint
	}
	m.setStatus(text, true)
}

func (m *Model) setStatus(text string, isError bool) {
	m.status = text
	m.isError = isError
}
