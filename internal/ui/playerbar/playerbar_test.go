//nolint:goconst // test cases intentionally repeat strings for readability
package playerbar

import (
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"github.com/llehouerou/tempo/internal/playback"
)

func plain(s string) string { return ansi.Strip(s) }

func TestNewState(t *testing.T) {
	snap := playback.Snapshot{
		CurrentTrack: &playback.Track{ID: "t1", Title: "So What", Artist: "Miles Davis"},
		IsPlaying:    true,
		CurrentTime:  30 * time.Second,
		Duration:     9 * time.Minute,
		Volume:       70,
		IsShuffling:  true,
		Error:        "Audio not available",
	}
	s := NewState(snap)

	if !s.HasTrack || s.Title != "So What" || s.Artist != "Miles Davis" {
		t.Errorf("track fields = %+v", s)
	}
	if !s.Playing || s.Position != 30*time.Second || s.Duration != 9*time.Minute {
		t.Errorf("transport fields = %+v", s)
	}
	if s.Volume != 70 || !s.Shuffle || s.Repeat || s.Error != "Audio not available" {
		t.Errorf("mode fields = %+v", s)
	}
}

func TestNewState_TitleFallsBackToID(t *testing.T) {
	s := NewState(playback.Snapshot{CurrentTrack: &playback.Track{ID: "abc"}})
	if s.Title != "abc" {
		t.Errorf("Title = %q, want abc", s.Title)
	}
}

func TestRender_ShowsTrackAndTime(t *testing.T) {
	s := State{
		HasTrack: true,
		Title:    "Blue in Green",
		Artist:   "Bill Evans",
		Playing:  true,
		Position: 83 * time.Second,
		Duration: 5*time.Minute + 37*time.Second,
		Volume:   80,
	}
	out := plain(Render(s, 80))

	for _, want := range []string{"Blue in Green", "Bill Evans", "1:23", "5:37", "80%"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
	if got := strings.Count(out, "\n") + 1; got != Height(s) {
		t.Errorf("rendered %d rows, Height = %d", got, Height(s))
	}
}

func TestRender_FitsWidth(t *testing.T) {
	s := State{
		HasTrack: true,
		Title:    strings.Repeat("Very Long Title ", 10),
		Artist:   strings.Repeat("Artist ", 10),
		Duration: time.Minute,
		Volume:   100,
		Shuffle:  true,
		Repeat:   true,
		Error:    strings.Repeat("error ", 30),
	}
	for _, width := range []int{20, 40, 80} {
		for i, line := range strings.Split(Render(s, width), "\n") {
			if w := lipgloss.Width(line); w > width {
				t.Errorf("width %d: line %d is %d cells", width, i, w)
			}
		}
	}
}

func TestRender_ErrorLine(t *testing.T) {
	s := State{HasTrack: true, Title: "x", Error: "Audio took too long to load"}
	out := plain(Render(s, 60))
	if !strings.Contains(out, "Audio took too long to load") {
		t.Errorf("error not rendered:\n%s", out)
	}
	if Height(s) != 4 {
		t.Errorf("Height = %d, want 4", Height(s))
	}
}

func TestRender_Loading(t *testing.T) {
	s := State{HasTrack: true, Title: "x", Loading: true, Duration: time.Minute}
	if out := plain(Render(s, 60)); !strings.Contains(out, "loading…") {
		t.Errorf("loading not rendered:\n%s", out)
	}
}

func TestRender_NothingPlaying(t *testing.T) {
	out := plain(Render(State{Volume: 50}, 60))
	if !strings.Contains(out, "Nothing playing") {
		t.Errorf("idle bar:\n%s", out)
	}
	if !strings.Contains(out, "-:--") {
		t.Errorf("unknown duration not rendered:\n%s", out)
	}
}

func TestProgressBar(t *testing.T) {
	tests := []struct {
		name     string
		pos, dur time.Duration
		width    int
		filled   int
	}{
		{"empty", 0, time.Minute, 10, 0},
		{"half", 30 * time.Second, time.Minute, 10, 5},
		{"full", time.Minute, time.Minute, 10, 10},
		{"overflow clamps", 2 * time.Minute, time.Minute, 10, 10},
		{"unknown duration", 10 * time.Second, 0, 10, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := plain(ProgressBar(tt.pos, tt.dur, tt.width))
			if got := strings.Count(out, filledCell); got != tt.filled {
				t.Errorf("filled = %d, want %d", got, tt.filled)
			}
			if got := lipgloss.Width(out); got != tt.width {
				t.Errorf("width = %d, want %d", got, tt.width)
			}
		})
	}
	if ProgressBar(0, time.Minute, 0) != "" {
		t.Error("zero width bar should be empty")
	}
}

func TestSeekTarget(t *testing.T) {
	s := State{HasTrack: true, Position: 0, Duration: 100 * time.Second}
	// "0:00 " occupies columns 0-4, "1:40" plus a space takes 5 at the end.
	const width = 30
	barWidth := width - 4 - 4 - 2

	if _, ok := SeekTarget(s, width, 2); ok {
		t.Error("column inside the time label should not seek")
	}
	if got, ok := SeekTarget(s, width, 5); !ok || got != 0 {
		t.Errorf("bar start = %v, %v", got, ok)
	}
	if got, ok := SeekTarget(s, width, 5+barWidth-1); !ok || got != 100*time.Second {
		t.Errorf("bar end = %v, %v", got, ok)
	}
	if _, ok := SeekTarget(s, width, 5+barWidth); ok {
		t.Error("column past the bar should not seek")
	}

	s.Duration = 0
	if _, ok := SeekTarget(s, width, 10); ok {
		t.Error("unknown duration should not seek")
	}
}

func TestRenderVolume(t *testing.T) {
	if got := plain(RenderVolume(80, false)); !strings.HasSuffix(got, " 80%") {
		t.Errorf("RenderVolume(80) = %q", got)
	}
	if got := plain(RenderVolume(80, true)); !strings.HasSuffix(got, "  0%") {
		t.Errorf("muted RenderVolume = %q", got)
	}
}

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		d    time.Duration
		want string
	}{
		{0, "0:00"},
		{59 * time.Second, "0:59"},
		{61 * time.Second, "1:01"},
		{75 * time.Minute, "75:00"},
		{-time.Second, "0:00"},
	}
	for _, tt := range tests {
		if got := formatDuration(tt.d); got != tt.want {
			t.Errorf("formatDuration(%v) = %q, want %q", tt.d, got, tt.want)
		}
	}
}
