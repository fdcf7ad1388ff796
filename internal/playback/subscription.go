package playback

const eventBufferSize = 16

// Subscription provides event channels for a subscriber.
//
// Changed is level-triggered and coalescing: it holds at most one pending
// signal, so a slow reader sees one wake-up for any number of mutations and
// should read Session.Snapshot to observe the latest state.
// The typed channels are edge-triggered and drop events when full.
type Subscription struct {
	Changed      <-chan struct{}
	TrackChanged <-chan TrackChange
	ModeChanged  <-chan ModeChange
	ErrorRaised  <-chan ErrorEvent
	Done         <-chan struct{}

	changedCh chan struct{}
	trackCh   chan TrackChange
	modeCh    chan ModeChange
	errorCh   chan ErrorEvent
	doneCh    chan struct{}
}

// newSubscription creates a new subscription with buffered channels.
func newSubscription() *Subscription {
	s := &Subscription{
		changedCh: make(chan struct{}, 1),
		trackCh:   make(chan TrackChange, eventBufferSize),
		modeCh:    make(chan ModeChange, eventBufferSize),
		errorCh:   make(chan ErrorEvent, eventBufferSize),
		doneCh:    make(chan struct{}),
	}
	s.Changed = s.changedCh
	s.TrackChanged = s.trackCh
	s.ModeChanged = s.modeCh
	s.ErrorRaised = s.errorCh
	s.Done = s.doneCh
	return s
}

// close signals subscribers to stop by closing doneCh.
func (s *Subscription) close() {
	close(s.doneCh)
}

// signalChanged marks the subscription dirty (non-blocking, coalescing).
func (s *Subscription) signalChanged() {
	select {
	case s.changedCh <- struct{}{}:
	default:
		// A signal is already pending
	}
}

// sendTrack sends a track change event (non-blocking).
func (s *Subscription) sendTrack(e TrackChange) {
	select {
	case s.trackCh <- e:
	default:
	}
}

// sendMode sends a mode change event (non-blocking).
func (s *Subscription) sendMode(e ModeChange) {
	select {
	case s.modeCh <- e:
	default:
	}
}

// sendError sends an error event (non-blocking).
func (s *Subscription) sendError(e ErrorEvent) {
	select {
	case s.errorCh <- e:
	default:
	}
}
