package app

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/llehouerou/tempo/internal/ui/trackcard"
)

// WatchSession returns a command that waits for the next session change.
// Changes are coalesced: the model re-reads the snapshot on each message.
func (m Model) WatchSession() tea.Cmd {
	if m.sub == nil {
		return nil
	}
	sub := m.sub
	return func() tea.Msg {
		select {
		case <-sub.Changed:
			return SessionChangedMsg{}
		case <-sub.Done:
			return SessionClosedMsg{}
		}
	}
}

// WatchCard returns a command that waits until the card's own projection
// changes. It yields nil once the card stops following the session.
func WatchCard(c *trackcard.Card) tea.Cmd {
	w := c.Watcher()
	if w == nil {
		return nil
	}
	return func() tea.Msg {
		v, err := w.Next(context.Background())
		if err != nil {
			return nil
		}
		return CardChangedMsg{Card: c, View: v}
	}
}

func watchCards(cards []*trackcard.Card) tea.Cmd {
	cmds := make([]tea.Cmd, 0, len(cards))
	for _, c := range cards {
		cmds = append(cmds, WatchCard(c))
	}
	return tea.Batch(cmds...)
}
