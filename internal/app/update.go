package app

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/llehouerou/tempo/internal/keymap"
	"github.com/llehouerou/tempo/internal/ui/playerbar"
)

// Update handles messages and returns updated model and commands.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.Width = msg.Width
		m.Height = msg.Height
		m.help.Width = msg.Width
		m.layoutCards()
		return m, nil

	case SessionChangedMsg:
		cmd := m.refresh()
		return m, tea.Batch(cmd, m.WatchSession())

	case CardChangedMsg:
		return m, m.applyCard(msg)

	case SessionClosedMsg:
		return m, tea.Quit

	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.MouseMsg:
		return m.handleMouse(msg)
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	action := m.keys.Resolve(msg.String())
	if action == "" {
		return m, nil
	}
	m.log.Debug("key", "key", msg.String(), "action", action)

	s := m.Session
	switch action {
	case keymap.ActionQuit:
		return m, tea.Quit
	case keymap.ActionHelp:
		m.showHelp = !m.showHelp
		m.help.ShowAll = m.showHelp
		m.layoutCards()
	case keymap.ActionPlayPause:
		s.TogglePlayPause()
	case keymap.ActionNextTrack:
		s.SkipToNext()
	case keymap.ActionPrevTrack:
		s.SkipToPrevious()
	case keymap.ActionSeekForward:
		s.SeekBy(m.seekStep)
	case keymap.ActionSeekBack:
		s.SeekBy(-m.seekStep)
	case keymap.ActionVolumeUp:
		s.AdjustVolume(m.volumeStep)
	case keymap.ActionVolumeDown:
		s.AdjustVolume(-m.volumeStep)
	case keymap.ActionToggleMute:
		s.ToggleMute()
	case keymap.ActionToggleShuffle:
		s.ToggleShuffle()
	case keymap.ActionToggleRepeat:
		s.ToggleRepeat()
	case keymap.ActionMoveUp:
		m.moveCursor(-1)
	case keymap.ActionMoveDown:
		m.moveCursor(1)
	case keymap.ActionSelect:
		if m.cursor.Pos() < len(m.cards) {
			s.SkipToTrack(m.cursor.Pos())
		}
	case keymap.ActionDelete:
		s.RemoveAt(m.cursor.Pos())
	case keymap.ActionClear:
		s.Clear()
	}
	return m, nil
}

func (m Model) handleMouse(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	switch msg.Button {
	case tea.MouseButtonWheelUp:
		m.moveCursor(-1)
		return m, nil
	case tea.MouseButtonWheelDown:
		m.moveCursor(1)
		return m, nil
	case tea.MouseButtonLeft:
	default:
		return m, nil
	}
	if msg.Action != tea.MouseActionPress {
		return m, nil
	}

	if msg.Y == m.progressRow() {
		if pos, ok := playerbar.SeekTarget(playerbar.NewState(m.Snap), m.Width, msg.X); ok {
			m.Session.Seek(pos)
		}
		return m, nil
	}

	if msg.Y >= 0 && msg.Y < m.queueHeight() {
		if i, ok := m.cursor.At(msg.Y, len(m.cards)); ok {
			if i == m.cursor.Pos() {
				m.Session.SkipToTrack(i)
			}
			m.cursor.Jump(i, len(m.cards), m.queueHeight())
			m.layoutCards()
		}
	}
	return m, nil
}

func (m *Model) moveCursor(delta int) {
	if len(m.cards) == 0 {
		return
	}
	m.cursor.Move(delta, len(m.cards), m.queueHeight())
	m.layoutCards()
}
