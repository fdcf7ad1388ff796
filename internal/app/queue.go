package app

import (
	"slices"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/llehouerou/tempo/internal/playback"
	"github.com/llehouerou/tempo/internal/ui/trackcard"
)

// refresh reads the session. Cards are rebuilt only when the queue itself
// changed; each card then follows its own projection through a watcher,
// so the returned command waits on the new cards only.
func (m *Model) refresh() tea.Cmd {
	m.Snap = m.Session.Snapshot()
	var cmd tea.Cmd
	if !sameTracks(m.cards, m.Snap.Queue) {
		stopCards(m.cards)
		m.cards = make([]*trackcard.Card, len(m.Snap.Queue))
		for i, t := range m.Snap.Queue {
			m.cards[i] = trackcard.New(t)
			m.cards[i].Follow(m.Session)
		}
		cmd = watchCards(m.cards)
	}
	m.layoutCards()
	return cmd
}

// applyCard sets a card's projection if the card is still on screen.
func (m *Model) applyCard(msg CardChangedMsg) tea.Cmd {
	if !slices.Contains(m.cards, msg.Card) {
		return nil
	}
	msg.Card.SetView(msg.View)
	return WatchCard(msg.Card)
}

func stopCards(cards []*trackcard.Card) {
	for _, c := range cards {
		c.Stop()
	}
}

func sameTracks(cards []*trackcard.Card, queue []playback.Track) bool {
	if len(cards) != len(queue) {
		return false
	}
	for i, c := range cards {
		if c.Track() != queue[i] {
			return false
		}
	}
	return true
}

// layoutCards applies size and cursor to the cards and keeps the cursor
// inside the visible window.
func (m *Model) layoutCards() {
	m.cursor.Fit(len(m.cards), m.queueHeight())
	for i, c := range m.cards {
		c.SetWidth(m.Width)
		c.SetSelected(i == m.cursor.Pos())
	}
}
