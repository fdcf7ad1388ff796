package app

import (
	"strings"

	"github.com/llehouerou/tempo/internal/ui/playerbar"
	"github.com/llehouerou/tempo/internal/ui/render"
	"github.com/llehouerou/tempo/internal/ui/styles"
)

// View implements tea.Model.
func (m Model) View() string {
	if m.Width == 0 || m.Height == 0 {
		return ""
	}

	var b strings.Builder
	h := m.queueHeight()
	lines := 0
	if len(m.cards) == 0 && h > 0 {
		b.WriteString(styles.T().S().Subtle.Render(render.Fit("Queue is empty", m.Width)))
		b.WriteByte('\n')
		lines++
	}
	start, end := m.cursor.Visible(len(m.cards), h)
	for i := start; i < end && lines < h; i++ {
		b.WriteString(m.cards[i].View())
		b.WriteByte('\n')
		lines++
	}
	for ; lines < h; lines++ {
		b.WriteByte('\n')
	}

	if help := m.helpView(); help != "" {
		b.WriteString(help)
		b.WriteByte('\n')
	}
	b.WriteString(playerbar.Render(playerbar.NewState(m.Snap), m.Width))
	return b.String()
}

func (m Model) helpView() string {
	return m.help.View(m.helpMap)
}

func (m Model) helpHeight() int {
	v := m.helpView()
	if v == "" {
		return 0
	}
	return strings.Count(v, "\n") + 1
}

func (m Model) queueHeight() int {
	return max(m.Height-m.helpHeight()-playerbar.Height(playerbar.NewState(m.Snap)), 0)
}

// progressRow is the screen row of the progress bar: below the queue, the
// help and the bar's top border and info line.
func (m Model) progressRow() int {
	return m.queueHeight() + m.helpHeight() + 2
}
