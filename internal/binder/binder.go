// Package binder keeps the audio element in step with the playback session.
//
// The binder is the only code that drives the element. It watches the
// session for intent (track, play/pause, seek, volume), applies it to the
// element, and reports what the element did back through session actions.
// Everything runs on the goroutine that calls Run, so store notifications,
// element events, resolver results and the fallback timer are handled one
// at a time.
package binder

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/llehouerou/tempo/internal/playback"
	"github.com/llehouerou/tempo/internal/player"
	"github.com/llehouerou/tempo/internal/source"
)

// DefaultLoadTimeout is how long a load may take before the stuck-load
// policy applies.
const DefaultLoadTimeout = 5 * time.Second

// Messages written to the session error field.
const (
	MsgNotAvailable   = "Audio not available"
	MsgPlayFailed     = "Failed to play audio"
	MsgLoadTimeout    = "Audio took too long to load"
	MsgAborted        = "Audio loading was aborted"
	MsgNetwork        = "Network error while loading audio"
	MsgDecode         = "Audio could not be decoded"
	MsgNotSupported   = "Audio format not supported"
	MsgUnknownFailure = "Audio playback failed"
)

// StuckLoadPolicy decides what happens when the element never reports
// ready within the load timeout.
type StuckLoadPolicy string

const (
	// AssumeReady clears the loading flag and lets the user press play.
	AssumeReady StuckLoadPolicy = "assume_ready"
	// FailLoad reports MsgLoadTimeout.
	FailLoad StuckLoadPolicy = "error"
)

// ParseStuckLoadPolicy parses a policy name. The empty string selects
// AssumeReady.
func ParseStuckLoadPolicy(s string) (StuckLoadPolicy, error) {
	switch StuckLoadPolicy(s) {
	case "", AssumeReady:
		return AssumeReady, nil
	case FailLoad:
		return FailLoad, nil
	default:
		return "", fmt.Errorf("unknown stuck load policy %q", s)
	}
}

// Option configures a Binder.
type Option func(*Binder)

func WithLogger(l *slog.Logger) Option {
	return func(b *Binder) {
		if l != nil {
			b.log = l
		}
	}
}

func WithLoadTimeout(d time.Duration) Option {
	return func(b *Binder) {
		if d > 0 {
			b.loadTimeout = d
		}
	}
}

func WithStuckLoadPolicy(p StuckLoadPolicy) Option {
	return func(b *Binder) { b.stuck = p }
}

// Binder drives one element from one session.
type Binder struct {
	session  *playback.Session
	element  player.Element
	resolver source.Resolver
	log      *slog.Logger

	loadTimeout time.Duration
	stuck       StuckLoadPolicy

	state   State
	current atomic.Int32
	ctx     context.Context

	seq      uint64 // session TrackSeq last handled
	gen      uint64 // load generation
	loadedID string // track the current load belongs to
	token    uint64 // element token of the current load
	level    float64

	resolved      chan resolveResult
	cancelResolve context.CancelFunc
	timer         *time.Timer
	timeout       <-chan time.Time

	pendingSeek    time.Duration
	hasPendingSeek bool
}

type resolveResult struct {
	gen uint64
	src string
	err error
}

func New(s *playback.Session, el player.Element, r source.Resolver, opts ...Option) *Binder {
	b := &Binder{
		session:     s,
		element:     el,
		resolver:    r,
		log:         slog.Default(),
		loadTimeout: DefaultLoadTimeout,
		stuck:       AssumeReady,
		level:       -1,
		resolved:    make(chan resolveResult),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// State returns the current binder state. Safe to call from any goroutine.
func (b *Binder) State() State {
	return State(b.current.Load())
}

// Run drives the element until ctx is done or the session is closed. The
// element is torn down before Run returns.
func (b *Binder) Run(ctx context.Context) error {
	b.ctx = ctx
	sub := b.session.Subscribe()
	defer b.session.Unsubscribe(sub)
	defer b.teardown()

	b.sync(b.session.Snapshot())
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-sub.Done:
			return nil
		case <-sub.Changed:
			b.sync(b.session.Snapshot())
		case e := <-b.element.Events():
			b.handleEvent(e)
		case r := <-b.resolved:
			b.handleResolved(r)
		case <-b.timeout:
			b.handleTimeout()
		}
	}
}

// fire applies a transition. It returns false, leaving the state alone,
// when the table has no entry for the pair.
func (b *Binder) fire(in input) bool {
	to, ok := next(b.state, in)
	if !ok {
		b.log.Debug("binder: ignored input", "state", b.state, "input", in)
		return false
	}
	if to != b.state {
		b.log.Debug("binder: transition", "from", b.state, "to", to, "input", in)
	}
	b.state = to
	b.current.Store(int32(to))
	return true
}

// sync applies the session's intent to the element. Binder actions on the
// session trigger another notification, so sync must be idempotent.
func (b *Binder) sync(s playback.Snapshot) {
	if s.TrackSeq != b.seq {
		b.seq = s.TrackSeq
		if s.CurrentTrack == nil {
			b.clear()
		} else {
			b.load(*s.CurrentTrack)
		}
	}
	b.applyVolume(s)
	b.applySeek(s)
	b.reconcile(s)
}

func (b *Binder) applyVolume(s playback.Snapshot) {
	level := s.OutputVolume()
	if level == b.level {
		return
	}
	b.element.SetVolume(level)
	b.level = level
}

// applySeek consumes a seek request. Before the source is ready the
// position is kept and applied on ready.
func (b *Binder) applySeek(s playback.Snapshot) {
	if !s.SeekRequested {
		return
	}
	switch {
	case s.CurrentTrack == nil:
	case b.state.Loaded():
		err := b.element.Seek(s.CurrentTime)
		switch {
		case errors.Is(err, player.ErrNoSource):
			// Ready was assumed after a timeout; the source is still on its way.
			b.deferSeek(s.CurrentTime)
		case err != nil:
			b.log.Debug("binder: seek failed", "position", s.CurrentTime, "error", err)
		}
	case b.state == Resolving || b.state == Loading:
		b.deferSeek(s.CurrentTime)
	}
	b.session.ResetSeekRequest()
}

func (b *Binder) deferSeek(pos time.Duration) {
	b.pendingSeek = pos
	b.hasPendingSeek = true
}

// reconcile makes the element follow the play/pause intent.
func (b *Binder) reconcile(s playback.Snapshot) {
	if s.CurrentTrack == nil {
		return
	}
	switch {
	case s.IsPlaying && (b.state == Ready || b.state == Paused):
		b.play()
	case !s.IsPlaying && b.state == Playing:
		// Pausing a half torn down element may fail; nothing to report.
		if err := b.element.Pause(); err != nil {
			b.log.Debug("binder: pause failed", "error", err)
		}
		b.fire(inPaused)
	}
}

func (b *Binder) play() {
	err := b.element.Play()
	switch {
	case err == nil:
		b.fire(inPlayed)
	case player.IsInterrupted(err):
		b.log.Debug("binder: play interrupted", "track", b.loadedID)
	case errors.Is(err, player.ErrNoSource):
		// Assumed ready; the real ready event starts playback.
		b.log.Debug("binder: play before source arrived", "track", b.loadedID)
	default:
		b.log.Warn("binder: play failed", "track", b.loadedID, "error", err)
		b.fire(inPlayFailed)
		b.session.SetError(MsgPlayFailed)
	}
}

// load abandons whatever is in flight and starts resolving t.
func (b *Binder) load(t playback.Track) {
	b.abandon()
	b.gen++
	b.loadedID = t.ID
	b.hasPendingSeek = false
	b.fire(inTrackChanged)

	ctx, cancel := context.WithCancel(b.ctx)
	b.cancelResolve = cancel
	gen, timeout := b.gen, b.loadTimeout
	go func() {
		rctx, rcancel := context.WithTimeout(ctx, timeout)
		defer rcancel()
		src, err := b.resolver.Resolve(rctx, t)
		// Only abandoning the load drops the result; a resolve timeout is
		// still reported.
		select {
		case b.resolved <- resolveResult{gen: gen, src: src, err: err}:
		case <-ctx.Done():
		}
	}()
}

func (b *Binder) handleResolved(r resolveResult) {
	if r.gen != b.gen || b.state != Resolving {
		return
	}
	b.cancelResolve()
	b.cancelResolve = nil

	if r.err == nil && r.src == "" {
		r.err = source.ErrNotAvailable
	}
	if r.err != nil {
		if errors.Is(r.err, source.ErrNotAvailable) {
			b.log.Info("binder: no audio for track", "track", b.loadedID)
		} else {
			b.log.Warn("binder: resolve failed", "track", b.loadedID, "error", r.err)
		}
		b.fire(inResolveFailed)
		b.session.SetLoading(false)
		b.session.SetError(MsgNotAvailable)
		return
	}

	b.token = b.element.Load(r.src)
	b.fire(inResolved)
	b.armTimer()
	b.log.Debug("binder: loading", "track", b.loadedID, "src", r.src, "token", b.token)
}

func (b *Binder) handleEvent(e player.Event) {
	if b.token == 0 || e.Token != b.token {
		return
	}
	switch e.Type {
	case player.EventReady:
		b.handleReady()
	case player.EventTimeUpdate:
		b.session.ReportPosition(e.Position)
	case player.EventDurationChange:
		b.session.ReportDuration(e.Duration)
	case player.EventEnded:
		b.handleEnded()
	case player.EventError:
		b.handleMediaError(e.Err)
	}
}

func (b *Binder) handleReady() {
	snap := b.session.Snapshot()
	if snap.CurrentTrack == nil || snap.CurrentTrack.ID != b.loadedID {
		b.log.Debug("binder: stale ready", "loaded", b.loadedID)
		return
	}
	if !b.fire(inReady) {
		return
	}
	b.stopTimer()
	b.session.SetLoading(false)
	if b.hasPendingSeek {
		if err := b.element.Seek(b.pendingSeek); err != nil {
			b.log.Debug("binder: deferred seek failed", "position", b.pendingSeek, "error", err)
		}
		b.hasPendingSeek = false
	}
	b.session.AutoPlayWhenReady()
	b.play()
}

func (b *Binder) handleEnded() {
	if !b.fire(inEnded) {
		return
	}
	if b.session.Snapshot().HasNext() {
		b.session.SkipToNext()
		return
	}
	b.session.Pause()
}

func (b *Binder) handleMediaError(me *player.MediaError) {
	if !b.fire(inMediaError) {
		return
	}
	b.stopTimer()
	msg := MediaErrorMessage(me)
	b.log.Warn("binder: media error", "track", b.loadedID, "error", me)
	b.session.SetLoading(false)
	b.session.SetError(msg)
}

func (b *Binder) handleTimeout() {
	b.timer = nil
	b.timeout = nil
	if b.state != Loading {
		return
	}
	if b.stuck == FailLoad {
		b.log.Warn("binder: load timed out", "track", b.loadedID, "timeout", b.loadTimeout)
		b.fire(inLoadTimeout)
		b.session.SetLoading(false)
		b.session.SetError(MsgLoadTimeout)
		return
	}
	b.log.Info("binder: load timed out, assuming ready", "track", b.loadedID, "timeout", b.loadTimeout)
	b.fire(inAssumedReady)
	b.session.SetLoading(false)
}

// clear handles the session dropping its track.
func (b *Binder) clear() {
	b.abandon()
	b.loadedID = ""
	b.hasPendingSeek = false
	b.fire(inTrackCleared)
	b.session.SetLoading(false)
	b.session.SetError("")
}

// abandon cancels the resolve and the fallback timer and unloads the
// element, so nothing from the previous load can act any more.
func (b *Binder) abandon() {
	if b.cancelResolve != nil {
		b.cancelResolve()
		b.cancelResolve = nil
	}
	b.stopTimer()
	if b.state != Idle {
		if err := b.element.Pause(); err != nil {
			b.log.Debug("binder: pause before unload failed", "error", err)
		}
		b.element.Unload()
	}
	b.token = 0
}

func (b *Binder) teardown() {
	b.abandon()
	b.state = Idle
	b.current.Store(int32(Idle))
	b.session.SetLoading(false)
	b.session.SetError("")
}

func (b *Binder) armTimer() {
	b.stopTimer()
	b.timer = time.NewTimer(b.loadTimeout)
	b.timeout = b.timer.C
}

func (b *Binder) stopTimer() {
	if b.timer != nil {
		b.timer.Stop()
	}
	b.timer = nil
	b.timeout = nil
}

// MediaErrorMessage maps an element error to the message shown to the user.
func MediaErrorMessage(me *player.MediaError) string {
	if me == nil {
		return MsgUnknownFailure
	}
	switch me.Code {
	case player.MediaErrAborted:
		return MsgAborted
	case player.MediaErrNetwork:
		return MsgNetwork
	case player.MediaErrDecode:
		return MsgDecode
	case player.MediaErrSrcNotSupported:
		return MsgNotSupported
	default:
		return MsgUnknownFailure
	}
}
