// Package playerbar renders the transport bar at the bottom of the screen.
package playerbar

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/llehouerou/tempo/internal/icons"
	"github.com/llehouerou/tempo/internal/playback"
	"github.com/llehouerou/tempo/internal/ui/render"
	"github.com/llehouerou/tempo/internal/ui/styles"
)

const separator = " · "

// State holds everything needed to render the player bar.
type State struct {
	HasTrack bool
	Title    string
	Artist   string
	Playing  bool
	Loading  bool
	Position time.Duration
	Duration time.Duration
	Volume   int
	Muted    bool
	Shuffle  bool
	Repeat   bool
	Error    string
}

// NewState projects a session snapshot onto the fields the bar shows.
func NewState(s playback.Snapshot) State {
	st := State{
		Playing:  s.IsPlaying,
		Loading:  s.IsLoading,
		Position: s.CurrentTime,
		Duration: s.Duration,
		Volume:   s.Volume,
		Muted:    s.IsMuted,
		Shuffle:  s.IsShuffling,
		Repeat:   s.IsRepeating,
		Error:    s.Error,
	}
	if t := s.CurrentTrack; t != nil {
		st.HasTrack = true
		st.Title = t.DisplayTitle()
		st.Artist = t.Artist
	}
	return st
}

// Height returns the number of terminal rows Render produces.
func Height(s State) int {
	h := 3 // border + info + progress
	if s.Error != "" {
		h++
	}
	return h
}

// Render returns the player bar for the given width.
func Render(s State, width int) string {
	width = max(width, 1)
	lines := []string{infoLine(s, width), progressLine(s, width)}
	if s.Error != "" {
		lines = append(lines, errorLine(s.Error, width))
	}
	return styles.BarStyle().Width(width).Render(strings.Join(lines, "\n"))
}

func infoLine(s State, width int) string {
	st := styles.T().S()
	right := modes(s) + RenderVolume(s.Volume, s.Muted)

	if !s.HasTrack {
		return render.Spread(st.Subtle.Render("Nothing playing"), right, width)
	}

	left := st.Current.Render(render.Clean(s.Title))
	if s.Artist != "" {
		left += st.Muted.Render(separator + render.Clean(s.Artist))
	}
	left = icons.Status(s.Playing, s.Loading) + " " + left
	avail := max(width-lipgloss.Width(right)-1, 1)
	return render.Spread(render.Fit(left, avail), right, width)
}

func modes(s State) string {
	st := styles.T().S()
	var b strings.Builder
	if s.Shuffle {
		b.WriteString(st.Base.Render(icons.Shuffle()) + " ")
	}
	if s.Repeat {
		b.WriteString(st.Base.Render(icons.Repeat()) + " ")
	}
	if b.Len() > 0 {
		b.WriteString(" ")
	}
	return b.String()
}

func progressLine(s State, width int) string {
	st := styles.T().S()
	pos, dur := timeLabels(s)
	barWidth := width - lipgloss.Width(pos) - lipgloss.Width(dur) - 2
	if barWidth < 3 {
		return st.Muted.Render(pos + "/" + dur)
	}
	var bar string
	if s.Loading {
		bar = st.Loading.Render(render.FitPad("loading…", barWidth))
	} else {
		bar = ProgressBar(s.Position, s.Duration, barWidth)
	}
	return st.Muted.Render(pos) + " " + bar + " " + st.Muted.Render(dur)
}

func errorLine(msg string, width int) string {
	return styles.T().S().Error.Render(render.Fit(icons.Error()+" "+msg, width))
}

func timeLabels(s State) (string, string) {
	dur := "-:--"
	if s.Duration > 0 {
		dur = formatDuration(s.Duration)
	}
	return formatDuration(s.Position), dur
}

// SeekTarget maps a column of the progress line to a track position.
// ok is false when x is outside the bar or the duration is unknown.
func SeekTarget(s State, width, x int) (time.Duration, bool) {
	if !s.HasTrack || s.Duration <= 0 {
		return 0, false
	}
	pos, dur := timeLabels(s)
	start := lipgloss.Width(pos) + 1
	barWidth := width - lipgloss.Width(pos) - lipgloss.Width(dur) - 2
	if barWidth < 3 || x < start || x >= start+barWidth {
		return 0, false
	}
	ratio := float64(x-start) / float64(barWidth-1)
	return time.Duration(ratio * float64(s.Duration)), true
}

func formatDuration(d time.Duration) string {
	d = max(d, 0)
	m := int(d.Minutes())
	s := int(d.Seconds()) % 60
	return fmt.Sprintf("%d:%02d", m, s)
}
