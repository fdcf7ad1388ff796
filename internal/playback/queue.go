package playback

// SetCurrentTrack makes t the only queued track and selects it.
// Playback does not start here: the binder calls AutoPlayWhenReady once
// the source can actually play.
func (s *Session) SetCurrentTrack(t Track) {
	s.mutate(func(c *change) {
		s.queue.Replace(t)
		s.selectLocked(c, 0)
	})
}

// SetQueue replaces the queue and resets the cursor to its start.
// The current track is left untouched.
func (s *Session) SetQueue(tracks []Track) {
	s.mutate(func(c *change) {
		s.queue.Replace(tracks...)
		c.mark()
	})
}

// Enqueue appends tracks. If nothing is current, the first appended track
// is selected.
func (s *Session) Enqueue(tracks ...Track) {
	if len(tracks) == 0 {
		return
	}
	s.mutate(func(c *change) {
		first := s.queue.Len()
		s.queue.Add(tracks...)
		c.mark()
		if s.current == nil {
			s.selectLocked(c, first)
		}
	})
}

// RemoveAt removes the queued track at index. The track under the cursor
// cannot be removed.
func (s *Session) RemoveAt(index int) bool {
	var removed bool
	s.mutate(func(c *change) {
		removed = s.queue.RemoveAt(index)
		if removed {
			c.mark()
		}
	})
	return removed
}

// SkipToNext selects the next track.
//
// With shuffle, any queue index is picked uniformly. Otherwise the cursor
// advances, wrapping to the start only when repeating. At the end of a
// non-repeating queue, playback intent is cleared and the cursor stays.
func (s *Session) SkipToNext() {
	s.mutate(func(c *change) {
		n := s.queue.Len()
		if n == 0 {
			return
		}
		if s.shuffle {
			s.selectLocked(c, s.rng.IntN(n))
			return
		}
		next, ok := s.queue.NextIndex(s.repeat)
		if !ok {
			if s.isPlaying {
				s.isPlaying = false
				c.mark()
			}
			return
		}
		s.selectLocked(c, next)
	})
}

// SkipToPrevious restarts the current track when past the restart
// threshold, otherwise selects the previous track. At the start of the
// queue it wraps only when repeating, and restarts otherwise.
func (s *Session) SkipToPrevious() {
	s.mutate(func(c *change) {
		if s.current == nil {
			return
		}
		if s.currentTime > s.restartThreshold {
			s.restartLocked(c)
			return
		}
		prev, ok := s.queue.PreviousIndex(s.repeat)
		if !ok {
			s.restartLocked(c)
			return
		}
		s.selectLocked(c, prev)
	})
}

// SkipToTrack selects the track at index. Out-of-range indices are ignored.
func (s *Session) SkipToTrack(index int) {
	s.mutate(func(c *change) {
		s.selectLocked(c, index)
	})
}

// Clear drops the current track and the queue. The binder tears down the
// audio element in response.
func (s *Session) Clear() {
	s.mutate(func(c *change) {
		if s.current == nil && s.queue.IsEmpty() {
			return
		}
		prev := s.current
		prevIndex := s.queue.CurrentIndex()
		s.queue.Clear()
		s.current = nil
		s.isPlaying = false
		s.currentTime = 0
		s.duration = 0
		s.loading = false
		s.errMsg = ""
		s.trackSeq++
		c.mark()
		c.track = &TrackChange{
			Previous:      prev,
			PreviousIndex: prevIndex,
			Index:         -1,
		}
	})
}

// ToggleShuffle flips shuffle mode. The queue order is not changed; only
// the next SkipToNext is affected.
func (s *Session) ToggleShuffle() {
	s.mutate(func(c *change) {
		s.shuffle = !s.shuffle
		c.mark()
		c.mode = &ModeChange{Repeat: s.repeat, Shuffle: s.shuffle}
	})
}

// ToggleRepeat flips repeat mode.
func (s *Session) ToggleRepeat() {
	s.mutate(func(c *change) {
		s.repeat = !s.repeat
		c.mark()
		c.mode = &ModeChange{Repeat: s.repeat, Shuffle: s.shuffle}
	})
}

// selectLocked moves the cursor to index and makes that track current.
// Must be called with mu held.
func (s *Session) selectLocked(c *change, index int) {
	prev := s.current
	prevIndex := s.queue.CurrentIndex()
	t, ok := s.queue.JumpTo(index)
	if !ok {
		return
	}
	s.current = &t
	s.currentTime = 0
	s.duration = t.Duration
	s.loading = true
	s.errMsg = ""
	s.isPlaying = false
	s.trackSeq++
	c.mark()

	cur := t
	c.track = &TrackChange{
		Previous:      prev,
		Current:       &cur,
		PreviousIndex: prevIndex,
		Index:         index,
	}
}

// restartLocked rewinds the current track without reloading it.
func (s *Session) restartLocked(c *change) {
	s.currentTime = 0
	s.seekRequested = true
	c.mark()
}
