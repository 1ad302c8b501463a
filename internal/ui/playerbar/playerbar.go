// Package playerbar renders the now-playing line with a progress bar.
package playerbar

import (
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/llehouerou/jukebox/internal/collection"
	"github.com/llehouerou/jukebox/internal/player"
	"github.com/llehouerou/jukebox/internal/ui/render"
)

// Height is the rendered height: top border, title, progress, bottom border.
const Height = 4

// Player is the playback state the bar reads.
type Player interface {
	State() player.State
	Elapsed() time.Duration
	Duration() time.Duration
}

// State holds everything needed to render the player bar.
type State struct {
	Playing  bool
	Paused   bool
	Radio    string
	Title    string
	Artist   string
	Album    string
	Hits     int64
	Position time.Duration
	Duration time.Duration
}

// NewState builds the bar state for the current file or radio.
// It returns an empty State when nothing is playing.
func NewState(p Player, f *collection.File, radio string) State {
	st := p.State()
	if st == player.Stopped || (f == nil && radio == "") {
		return State{}
	}

	s := State{
		Playing:  st == player.Playing,
		Paused:   st == player.Paused,
		Radio:    radio,
		Position: p.Elapsed(),
		Duration: p.Duration(),
	}
	if radio == "" {
		s.Title = f.DisplayTitle()
		s.Artist = f.Artist
		s.Album = f.Album
		s.Hits = f.Hits()
	}
	return s
}

// Render returns the player bar for the given width, or "" when stopped.
func Render(s State, width int) string {
	if !s.Playing && !s.Paused {
		return ""
	}
	innerWidth := max(width-4, 0)

	var title string
	var progress string
	if s.Radio != "" {
		title = titleStyle.Render(render.Truncate("Radio: "+s.Radio, innerWidth))
		progress = RenderProgressBar(s.Position, 0, innerWidth, s.Playing)
	} else {
		title = titleStyle.Render(render.Truncate(s.Title, innerWidth))
		if info := infoLine(s); info != "" {
			title += infoStyle.Render(render.Truncate(" · "+info, innerWidth-lipgloss.Width(title)))
		}
		progress = RenderProgressBar(s.Position, s.Duration, innerWidth, s.Playing)
	}

	return barStyle.Width(innerWidth + 2).Render(title + "\n" + progress)
}

func infoLine(s State) string {
	var parts []string
	if s.Artist != "" {
		parts = append(parts, s.Artist)
	}
	if s.Album != "" {
		parts = append(parts, s.Album)
	}
	return strings.Join(parts, " · ")
}
