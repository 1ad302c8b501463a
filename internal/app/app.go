// Package app is the terminal interface of the jukebox: the queue panel,
// the player bar and the mount prompts raised while pushing files.
package app

import (
	"time"

	"github.com/charmbracelet/bubbles/help"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"

	"github.com/llehouerou/jukebox/internal/collection"
	"github.com/llehouerou/jukebox/internal/events"
	"github.com/llehouerou/jukebox/internal/playqueue"
	"github.com/llehouerou/jukebox/internal/ui/playerbar"
	"github.com/llehouerou/jukebox/internal/ui/queuepanel"
)

const tickInterval = time.Second

// Queue is the play queue as driven from the keyboard.
type Queue interface {
	queuepanel.Source

	PlayNext()
	PlayPrevious()
	PlayNextAlbum() error
	PlayPreviousAlbum() error
	GoTo(row int) error
	Remove(start, end int) error
	Up(row int) bool
	Down(row int) bool
	StopRequest()

	SetRepeat(on bool)
	SetShuffle(on bool)
	SetContinue(on bool)
	SetIntro(on bool)

	CurrentFile() *collection.File
	CurrentRadio() (playqueue.Radio, bool)
}

// Player is the audio player as driven from the keyboard.
type Player interface {
	playerbar.Player
	Toggle()
}

var _ Queue = (*playqueue.Queue)(nil)

// Model is the root application model.
type Model struct {
	queue    Queue
	player   Player
	sub      *events.Subscription
	prompter *Prompter
	logger   zerolog.Logger

	panel  queuepanel.Model
	keys   keyMap
	help   help.Model
	prompt *mountRequest

	status  string
	isError bool

	width  int
	height int
}

// Option configures a Model.
type Option func(*Model)

// WithSubscription refreshes the view on queue events from sub.
func WithSubscription(sub *events.Subscription) Option {
	return func(m *Model) { m.sub = sub }
}

// WithPrompter answers mount prompts from the keyboard.
func WithPrompter(p *Prompter) Option {
	return func(m *Model) { m.prompter = p }
}

// WithLogger sets the logger.
func WithLogger(l zerolog.Logger) Option {
	return func(m *Model) { m.logger = l }
}

// New creates the application model.
func New(q Queue, p Player, opts ...Option) Model {
	m := Model{
		queue:  q,
		player: p,
		logger: zerolog.Nop(),
		panel:  queuepanel.New(q),
		keys:   newKeyMap(),
		help:   help.New(),
	}
	for _, opt := range opts {
		opt(&m)
	}
	return m
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		tickCmd(),
		waitForEvent(m.sub),
		waitForPrompt(m.prompter),
	)
}
