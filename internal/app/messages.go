package app

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/llehouerou/jukebox/internal/events"
)

// TickMsg is sent periodically to update the player bar.
type TickMsg time.Time

// EventMsg carries one queue event.
type EventMsg events.Event

// MountPromptMsg asks the user whether to mount a device.
type MountPromptMsg struct {
	req *mountRequest
}

func tickCmd() tea.Cmd {
	return tea.Tick(tickInterval, func(t time.Time) tea.Msg {
		return TickMsg(t)
	})
}

// waitForEvent waits for the next event of sub. It returns nil once the
// subscription is closed.
func waitForEvent(sub *events.Subscription) tea.Cmd {
	if sub == nil {
		return nil
	}
	return func() tea.Msg {
		select {
		case e := <-sub.Events:
			return EventMsg(e)
		case <-sub.Done:
			return nil
		}
	}
}

// waitForPrompt waits for the next mount prompt.
func waitForPrompt(p *Prompter) tea.Cmd {
	if p == nil {
		return nil
	}
	return func() tea.Msg {
		select {
		case req := <-p.requests:
			return MountPromptMsg{req: req}
		case <-p.done:
			return nil
		}
	}
}
