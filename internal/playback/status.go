package playback

import "time"

// SetLoading sets the load-in-flight flag.
func (s *Session) SetLoading(loading bool) {
	s.mutate(func(c *change) {
		if s.loading == loading {
			return
		}
		s.loading = loading
		c.mark()
	})
}

// SetError sets the user-visible error. An empty message clears it.
func (s *Session) SetError(msg string) {
	s.mutate(func(c *change) {
		if s.errMsg == msg {
			return
		}
		s.errMsg = msg
		c.mark()
		if msg != "" {
			e := ErrorEvent{Message: msg}
			if s.current != nil {
				e.TrackID = s.current.ID
			}
			c.err = &e
		}
	})
}

// ReportPosition records the position observed on the audio element.
// Ignored while a seek is pending so the requested position is not
// overwritten before it has been applied.
func (s *Session) ReportPosition(pos time.Duration) {
	s.mutate(func(c *change) {
		if s.current == nil || s.seekRequested || s.currentTime == pos {
			return
		}
		s.currentTime = max(pos, 0)
		c.mark()
	})
}

// ReportDuration records the track length observed on the audio element.
func (s *Session) ReportDuration(d time.Duration) {
	s.mutate(func(c *change) {
		if s.current == nil || d <= 0 || s.duration == d {
			return
		}
		s.duration = d
		c.mark()
	})
}
