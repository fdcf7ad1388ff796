package playback

import "time"

// Play sets the intent to play. No-op without a current track.
func (s *Session) Play() {
	s.setPlaying(true)
}

// Pause clears the intent to play.
func (s *Session) Pause() {
	s.setPlaying(false)
}

// TogglePlayPause flips the intent to play.
func (s *Session) TogglePlayPause() {
	s.mutate(func(c *change) {
		if s.current == nil {
			return
		}
		s.isPlaying = !s.isPlaying
		c.mark()
	})
}

// AutoPlayWhenReady starts playback once the binder has confirmed the
// source is loaded. It must not be called by UI code.
func (s *Session) AutoPlayWhenReady() {
	s.setPlaying(true)
}

func (s *Session) setPlaying(playing bool) {
	s.mutate(func(c *change) {
		if s.current == nil || s.isPlaying == playing {
			return
		}
		s.isPlaying = playing
		c.mark()
	})
}

// Seek records a new position and raises the seek request. The binder
// applies it to the audio element and then calls ResetSeekRequest.
func (s *Session) Seek(pos time.Duration) {
	s.mutate(func(c *change) {
		s.seekLocked(c, pos)
	})
}

// SeekBy seeks relative to the current position.
func (s *Session) SeekBy(delta time.Duration) {
	s.mutate(func(c *change) {
		s.seekLocked(c, s.currentTime+delta)
	})
}

func (s *Session) seekLocked(c *change, pos time.Duration) {
	if s.current == nil {
		return
	}
	pos = max(pos, 0)
	if s.duration > 0 {
		pos = min(pos, s.duration)
	}
	s.currentTime = pos
	s.seekRequested = true
	c.mark()
}

// ResetSeekRequest clears a pending seek request. Only the binder calls it,
// after applying the seek.
func (s *Session) ResetSeekRequest() {
	s.mutate(func(c *change) {
		if !s.seekRequested {
			return
		}
		s.seekRequested = false
		c.mark()
	})
}

// SetVolume sets the volume (clamped to 0-100). A positive volume unmutes;
// zero mutes and keeps the last audible volume for ToggleMute.
func (s *Session) SetVolume(v int) {
	s.mutate(func(c *change) {
		v = clampVolume(v)
		if v == 0 {
			if !s.muted && s.volume > 0 {
				s.prevVolume = s.volume
			}
			s.volume = 0
			s.muted = true
		} else {
			s.volume = v
			s.muted = false
		}
		c.mark()
	})
}

// AdjustVolume changes the volume by delta.
func (s *Session) AdjustVolume(delta int) {
	s.mutate(func(c *change) {
		base := s.volume
		if s.muted {
			base = 0
		}
		v := clampVolume(base + delta)
		if v == 0 {
			if !s.muted && s.volume > 0 {
				s.prevVolume = s.volume
			}
			s.muted = true
		} else {
			s.muted = false
		}
		s.volume = v
		c.mark()
	})
}

// ToggleMute swaps the volume with the volume saved before muting.
func (s *Session) ToggleMute() {
	s.mutate(func(c *change) {
		if s.muted {
			restored := s.prevVolume
			if restored <= 0 {
				restored = MaxVolume
			}
			s.volume = restored
			s.muted = false
		} else {
			s.prevVolume = s.volume
			s.volume = 0
			s.muted = true
		}
		c.mark()
	})
}
