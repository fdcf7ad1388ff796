package playback

import "time"

// Snapshot is an immutable view of the session at one point in time.
type Snapshot struct {
	CurrentTrack *Track
	Queue        []Track
	CurrentIndex int

	IsPlaying   bool
	CurrentTime time.Duration
	Duration    time.Duration

	Volume         int
	IsMuted        bool
	PreviousVolume int

	IsShuffling bool
	IsRepeating bool

	IsLoading     bool
	Error         string
	SeekRequested bool

	// TrackSeq increases every time a track is selected, including
	// re-selecting the same track. Consumers compare it to detect reloads.
	TrackSeq uint64
}

// HasTrack reports whether a track is current.
func (s Snapshot) HasTrack() bool {
	return s.CurrentTrack != nil
}

// IsCurrent reports whether the track with the given id is current.
func (s Snapshot) IsCurrent(id string) bool {
	return s.CurrentTrack != nil && s.CurrentTrack.ID == id
}

// HasNext reports whether SkipToNext would select a track.
func (s Snapshot) HasNext() bool {
	n := len(s.Queue)
	switch {
	case n == 0:
		return false
	case s.IsShuffling && n > 1:
		return true
	case s.IsRepeating:
		return true
	default:
		return s.CurrentIndex >= 0 && s.CurrentIndex < n-1
	}
}

// HasPrevious reports whether SkipToPrevious would move to another track
// (rather than restarting the current one) at position zero.
func (s Snapshot) HasPrevious() bool {
	n := len(s.Queue)
	if n == 0 {
		return false
	}
	return s.IsRepeating || s.CurrentIndex > 0
}

// OutputVolume is the level the audio output must use: 0 when muted,
// otherwise Volume scaled to 0.0-1.0.
func (s Snapshot) OutputVolume() float64 {
	if s.IsMuted {
		return 0
	}
	return float64(s.Volume) / MaxVolume
}

// Progress returns CurrentTime/Duration in [0, 1], or 0 if unknown.
func (s Snapshot) Progress() float64 {
	if s.Duration <= 0 {
		return 0
	}
	return min(max(float64(s.CurrentTime)/float64(s.Duration), 0), 1)
}
