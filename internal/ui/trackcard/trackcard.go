// Package trackcard renders one queue entry. A card follows only the
// slice of session state that concerns its own track.
package trackcard

import (
	"fmt"
	"time"

	"github.com/llehouerou/tempo/internal/icons"
	"github.com/llehouerou/tempo/internal/playback"
	"github.com/llehouerou/tempo/internal/ui/render"
	"github.com/llehouerou/tempo/internal/ui/styles"
)

// View is the part of the session a card depends on.
type View struct {
	Current bool
	Playing bool
	Loading bool
}

// Project reduces a snapshot to the view of the track with the given id.
// Any track other than the current one always projects to the zero View,
// so changes elsewhere in the session leave it untouched.
func Project(s playback.Snapshot, id string) View {
	if !s.IsCurrent(id) {
		return View{}
	}
	return View{
		Current: true,
		Playing: s.IsPlaying,
		Loading: s.IsLoading,
	}
}

// Watch subscribes to the session and wakes only when the projection for
// id changes.
func Watch(s *playback.Session, id string) *playback.Watcher[View] {
	return playback.Watch(s, func(snap playback.Snapshot) View {
		return Project(snap, id)
	})
}

type layout struct {
	view     View
	width    int
	selected bool
}

// Card renders one track and memoizes the result.
type Card struct {
	track   playback.Track
	watcher *playback.Watcher[View]

	view     View
	selected bool
	width    int

	cache   string
	cached  layout
	valid   bool
	renders int
}

// New creates a card for t.
func New(t playback.Track) *Card {
	return &Card{track: t}
}

// ID returns the id of the card's track.
func (c *Card) ID() string {
	return c.track.ID
}

// Track returns the card's track.
func (c *Card) Track() playback.Track {
	return c.track
}

// Follow subscribes the card to its own projection of s and primes the
// view from the current snapshot. Changes arrive through Watcher.
func (c *Card) Follow(s *playback.Session) {
	c.Stop()
	c.watcher = Watch(s, c.track.ID)
	c.view = c.watcher.Value()
}

// Watcher returns the card's watcher, or nil when the card follows nothing.
func (c *Card) Watcher() *playback.Watcher[View] {
	return c.watcher
}

// Stop detaches the card from the session. A pending Next on its watcher
// returns playback.ErrClosed.
func (c *Card) Stop() {
	if c.watcher != nil {
		c.watcher.Close()
		c.watcher = nil
	}
}

// SetView applies a projection delivered by the watcher and reports whether
// the card will render differently.
func (c *Card) SetView(v View) bool {
	if v == c.view {
		return false
	}
	c.view = v
	return true
}

// CurrentView returns the last projection the card saw.
func (c *Card) CurrentView() View {
	return c.view
}

// SetSelected marks the card as under the cursor.
func (c *Card) SetSelected(selected bool) {
	c.selected = selected
}

// SetWidth sets the render width.
func (c *Card) SetWidth(width int) {
	c.width = width
}

// Renders returns how many times the card has actually been rendered.
func (c *Card) Renders() int {
	return c.renders
}

// View returns the rendered card, reusing the last render when nothing it
// depends on has changed.
func (c *Card) View() string {
	key := layout{view: c.view, width: c.width, selected: c.selected}
	if c.valid && key == c.cached {
		return c.cache
	}
	c.cache = c.render()
	c.cached = key
	c.valid = true
	c.renders++
	return c.cache
}

func (c *Card) render() string {
	st := styles.T().S()
	width := max(c.width, 10) - 1 // gutter

	marker := "  "
	if c.view.Current {
		marker = icons.Status(c.view.Playing, c.view.Loading) + " "
	}

	right := ""
	if c.track.Duration > 0 {
		right = formatDuration(c.track.Duration)
	}

	title := render.Clean(c.track.DisplayTitle())
	if c.view.Current {
		title = st.Current.Render(title)
	} else {
		title = st.Base.Render(title)
	}
	left := marker + title
	if c.track.Artist != "" {
		left += st.Muted.Render(" · " + render.Clean(c.track.Artist))
	}

	avail := max(width-len(right)-1, 1)
	line := render.Spread(render.Fit(left, avail), st.Subtle.Render(right), width)
	if c.selected {
		line = st.Cursor.Render(line)
	}
	return styles.CardStyle(c.view.Current).Render(line)
}

func formatDuration(d time.Duration) string {
	return fmt.Sprintf("%d:%02d", int(d.Minutes()), int(d.Seconds())%60)
}
