// Package app is the terminal UI: a queue of track cards above the
// transport bar. It reads the playback session and dispatches session
// actions; it never touches the audio element.
package app

import (
	"log/slog"
	"time"

	"github.com/charmbracelet/bubbles/help"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/llehouerou/tempo/internal/keymap"
	"github.com/llehouerou/tempo/internal/playback"
	"github.com/llehouerou/tempo/internal/ui/cursor"
	"github.com/llehouerou/tempo/internal/ui/trackcard"
)

const (
	DefaultSeekStep   = 5 * time.Second
	DefaultVolumeStep = 5

	cursorMargin = 1
)

// Model is the root application model.
type Model struct {
	Session *playback.Session
	sub     *playback.Subscription
	log     *slog.Logger

	keys     *keymap.Resolver
	helpMap  keymap.HelpMap
	help     help.Model
	showHelp bool

	// Snap is the last snapshot read from the session. The model keeps no
	// other playback state.
	Snap   playback.Snapshot
	cards  []*trackcard.Card
	cursor cursor.Cursor

	seekStep   time.Duration
	volumeStep int

	Width  int
	Height int
}

// Option configures a Model.
type Option func(*Model)

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(m *Model) { m.log = l }
}

// WithSeekStep sets how far the seek keys move.
func WithSeekStep(d time.Duration) Option {
	return func(m *Model) {
		if d > 0 {
			m.seekStep = d
		}
	}
}

// New creates the model and subscribes it to the session.
func New(s *playback.Session, opts ...Option) Model {
	m := Model{
		Session:    s,
		sub:        s.Subscribe(),
		log:        slog.New(slog.DiscardHandler),
		keys:       keymap.NewResolver(keymap.All),
		helpMap:    keymap.NewHelpMap(keymap.All),
		help:       help.New(),
		seekStep:   DefaultSeekStep,
		volumeStep: DefaultVolumeStep,
		cursor:     cursor.New(cursorMargin),
	}
	for _, opt := range opts {
		opt(&m)
	}
	m.refresh()
	return m
}

// Cursor returns the queue index under the cursor.
func (m Model) Cursor() int {
	return m.cursor.Pos()
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.WatchSession(), watchCards(m.cards))
}

// Close detaches the model and its cards from the session.
func (m Model) Close() {
	stopCards(m.cards)
	m.Session.Unsubscribe(m.sub)
}
