package playback

import "context"

// Watcher follows one projection of the session and wakes only when that
// projection changes. A track card watching its own "is current / is
// playing" pair is not woken by position updates of another track.
type Watcher[K comparable] struct {
	session  *Session
	sub      *Subscription
	selector func(Snapshot) K
	last     K
}

// Watch creates a watcher primed with the current value of selector.
func Watch[K comparable](s *Session, selector func(Snapshot) K) *Watcher[K] {
	w := &Watcher[K]{
		session:  s,
		sub:      s.Subscribe(),
		selector: selector,
	}
	w.last = selector(s.Snapshot())
	return w
}

// Value returns the last value delivered by the watcher.
func (w *Watcher[K]) Value() K {
	return w.last
}

// Next blocks until the selected value differs from the last one seen.
func (w *Watcher[K]) Next(ctx context.Context) (K, error) {
	for {
		select {
		case <-ctx.Done():
			var zero K
			return zero, ctx.Err()
		case <-w.sub.Done:
			var zero K
			return zero, ErrClosed
		case <-w.sub.Changed:
			v := w.selector(w.session.Snapshot())
			if v != w.last {
				w.last = v
				return v, nil
			}
		}
	}
}

// Close detaches the watcher from the session.
func (w *Watcher[K]) Close() {
	w.session.Unsubscribe(w.sub)
}
