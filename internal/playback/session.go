// Package playback holds the process-wide playback session: the current
// track, the queue and the transport intent shared by every component.
//
// The session never touches audio output. It records what should happen
// (play, pause, seek, volume) and the binder makes the audio element follow.
// All mutation goes through the action methods; readers take a Snapshot.
package playback

import (
	"errors"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/llehouerou/tempo/internal/playlist"
)

// ErrClosed is returned by watchers once the session has been closed.
var ErrClosed = errors.New("playback session closed")

const (
	// MaxVolume is the upper bound of the volume scale.
	MaxVolume = 100

	// DefaultRestartThreshold is how far into a track SkipToPrevious
	// restarts it instead of moving back.
	DefaultRestartThreshold = 3 * time.Second
)

// Session is the single source of truth for playback intent and queue.
type Session struct {
	mu sync.RWMutex

	queue   *playlist.Queue[Track]
	current *Track

	isPlaying     bool
	currentTime   time.Duration
	duration      time.Duration
	volume        int
	muted         bool
	prevVolume    int
	shuffle       bool
	repeat        bool
	loading       bool
	errMsg        string
	seekRequested bool
	trackSeq      uint64

	restartThreshold time.Duration
	rng              *rand.Rand

	subs   []*Subscription
	subsMu sync.RWMutex
	closed bool
}

// Option configures a Session.
type Option func(*Session)

// WithRand sets the random source used to pick shuffled tracks.
func WithRand(r *rand.Rand) Option {
	return func(s *Session) { s.rng = r }
}

// WithRestartThreshold sets the position past which SkipToPrevious restarts
// the current track.
func WithRestartThreshold(d time.Duration) Option {
	return func(s *Session) {
		if d > 0 {
			s.restartThreshold = d
		}
	}
}

// WithVolume sets the initial volume (0-100). Zero starts muted.
func WithVolume(v int) Option {
	return func(s *Session) {
		s.volume = clampVolume(v)
		s.prevVolume = MaxVolume
		s.muted = s.volume == 0
	}
}

// New creates an idle session with an empty queue.
func New(opts ...Option) *Session {
	s := &Session{
		queue:            playlist.NewQueue[Track](),
		volume:           MaxVolume,
		prevVolume:       MaxVolume,
		restartThreshold: DefaultRestartThreshold,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.rng == nil {
		s.rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64())) //nolint:gosec // shuffle order is not security sensitive
	}
	return s
}

// Snapshot returns a copy of the current session state.
func (s *Session) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshotLocked()
}

func (s *Session) snapshotLocked() Snapshot {
	snap := Snapshot{
		Queue:          s.queue.Items(),
		CurrentIndex:   s.queue.CurrentIndex(),
		IsPlaying:      s.isPlaying,
		CurrentTime:    s.currentTime,
		Duration:       s.duration,
		Volume:         s.volume,
		IsMuted:        s.muted,
		PreviousVolume: s.prevVolume,
		IsShuffling:    s.shuffle,
		IsRepeating:    s.repeat,
		IsLoading:      s.loading,
		Error:          s.errMsg,
		SeekRequested:  s.seekRequested,
		TrackSeq:       s.trackSeq,
	}
	if s.current != nil {
		t := *s.current
		snap.CurrentTrack = &t
	}
	return snap
}

// Subscribe creates a new event subscription.
func (s *Session) Subscribe() *Subscription {
	s.subsMu.Lock()
	defer s.subsMu.Unlock()
	sub := newSubscription()
	if s.closed {
		sub.close()
		return sub
	}
	s.subs = append(s.subs, sub)
	return sub
}

// Unsubscribe detaches sub and closes its Done channel.
func (s *Session) Unsubscribe(sub *Subscription) {
	s.subsMu.Lock()
	defer s.subsMu.Unlock()
	for i, cur := range s.subs {
		if cur == sub {
			s.subs = append(s.subs[:i], s.subs[i+1:]...)
			sub.close()
			return
		}
	}
}

// Close detaches every subscriber. The session stays readable.
func (s *Session) Close() error {
	s.subsMu.Lock()
	defer s.subsMu.Unlock()
	if s.closed {
		return nil
	}
	s.closed = true
	for _, sub := range s.subs {
		sub.close()
	}
	s.subs = nil
	return nil
}

// change collects what a single action did, published after unlocking.
type change struct {
	dirty bool
	track *TrackChange
	mode  *ModeChange
	err   *ErrorEvent
}

func (c *change) mark() { c.dirty = true }

// mutate runs fn under the write lock and publishes the resulting events.
func (s *Session) mutate(fn func(c *change)) {
	var c change
	s.mu.Lock()
	fn(&c)
	s.mu.Unlock()
	s.publish(c)
}

func (s *Session) publish(c change) {
	if !c.dirty {
		return
	}
	s.subsMu.RLock()
	defer s.subsMu.RUnlock()
	for _, sub := range s.subs {
		if c.track != nil {
			sub.sendTrack(*c.track)
		}
		if c.mode != nil {
			sub.sendMode(*c.mode)
		}
		if c.err != nil {
			sub.sendError(*c.err)
		}
		sub.signalChanged()
	}
}

func clampVolume(v int) int {
	return min(max(v, 0), MaxVolume)
}
