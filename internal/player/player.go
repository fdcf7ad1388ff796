package player

import (
	"context"
	"errors"
	"fmt"
	"math"
	"net/http"
	"sync"
	"time"

	"github.com/gopxl/beep/v2"
	"github.com/gopxl/beep/v2/effects"
	"github.com/gopxl/beep/v2/speaker"
)

const (
	DefaultTimeUpdateInterval = 250 * time.Millisecond

	eventBufferSize = 64
)

// The speaker is initialized once per process with the sample rate of the
// first decoded source. Later sources are resampled to it.
var (
	speakerMu         sync.Mutex
	speakerSampleRate beep.SampleRate
)

func initSpeaker(sr beep.SampleRate) (beep.SampleRate, error) {
	speakerMu.Lock()
	defer speakerMu.Unlock()
	if speakerSampleRate != 0 {
		return speakerSampleRate, nil
	}
	if err := speaker.Init(sr, sr.N(time.Second/10)); err != nil {
		return 0, err
	}
	speakerSampleRate = sr
	return sr, nil
}

// Option configures a Player.
type Option func(*Player)

// WithHTTPClient sets the client used for http(s) sources.
func WithHTTPClient(c *http.Client) Option {
	return func(p *Player) { p.client = c }
}

// WithTimeUpdateInterval sets how often EventTimeUpdate is emitted while
// playing.
func WithTimeUpdateInterval(d time.Duration) Option {
	return func(p *Player) {
		if d > 0 {
			p.interval = d
		}
	}
}

// Player is an Element backed by the system speaker.
type Player struct {
	client   *http.Client
	interval time.Duration
	events   chan Event
	done     chan struct{}
	wg       sync.WaitGroup

	mu         sync.Mutex
	token      uint64
	cancelLoad context.CancelFunc
	cur        *loaded
	level      float64
	closed     bool
}

// loaded is the source of the current load once it is ready.
type loaded struct {
	token    uint64
	src      *decoded
	ctrl     *beep.Ctrl
	volume   *effects.Volume
	started  bool // handed to the speaker
	ended    bool
	playing  bool
	stopTick chan struct{}
}

func (l *loaded) stopTicking() {
	if l.playing {
		close(l.stopTick)
		l.playing = false
	}
}

var _ Element = (*Player)(nil)

func New(opts ...Option) *Player {
	p := &Player{
		client:   http.DefaultClient,
		interval: DefaultTimeUpdateInterval,
		events:   make(chan Event, eventBufferSize),
		done:     make(chan struct{}),
		level:    1,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

func (p *Player) Events() <-chan Event {
	return p.events
}

// Load tears down the current source and starts loading src in the
// background. EventDurationChange and EventReady follow on success,
// EventError on failure.
func (p *Player) Load(src string) uint64 {
	p.mu.Lock()
	p.unloadLocked()
	p.token++
	token := p.token
	if p.closed {
		p.mu.Unlock()
		return token
	}
	ctx, cancel := context.WithCancel(context.Background())
	p.cancelLoad = cancel
	p.wg.Add(1)
	p.mu.Unlock()

	go p.load(ctx, token, src)
	return token
}

func (p *Player) load(ctx context.Context, token uint64, src string) {
	defer p.wg.Done()

	d, err := open(ctx, p.client, src)
	if err != nil {
		var me *MediaError
		if !errors.As(err, &me) {
			me = &MediaError{Code: MediaErrDecode, Err: err}
		}
		p.emitIfCurrent(token, Event{Type: EventError, Token: token, Err: me})
		return
	}

	sr, err := initSpeaker(d.format.SampleRate)
	if err != nil {
		d.Close()
		p.emitIfCurrent(token, Event{
			Type:  EventError,
			Token: token,
			Err:   &MediaError{Code: MediaErrDecode, Err: fmt.Errorf("init speaker: %w", err)},
		})
		return
	}
	var s beep.Streamer = d.streamer
	if d.format.SampleRate != sr {
		s = beep.Resample(4, d.format.SampleRate, sr, s)
	}

	p.mu.Lock()
	if token != p.token || p.closed {
		p.mu.Unlock()
		d.Close()
		return
	}
	ctrl := &beep.Ctrl{Streamer: s, Paused: true}
	p.cur = &loaded{
		token: token,
		src:   d,
		ctrl:  ctrl,
		volume: &effects.Volume{
			Streamer: ctrl,
			Base:     2,
			Volume:   levelToVolume(p.level),
			Silent:   p.level <= 0,
		},
	}
	dur := d.format.SampleRate.D(d.streamer.Len())
	p.mu.Unlock()

	if dur > 0 {
		p.emit(Event{Type: EventDurationChange, Token: token, Duration: dur})
	}
	p.emit(Event{Type: EventReady, Token: token})
}

// Unload stops playback and releases the current source. Pending events of
// the previous load become stale.
func (p *Player) Unload() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.unloadLocked()
	p.token++
}

func (p *Player) unloadLocked() {
	if p.cancelLoad != nil {
		p.cancelLoad()
		p.cancelLoad = nil
	}
	l := p.cur
	if l == nil {
		return
	}
	l.stopTicking()
	speaker.Clear()
	speaker.Lock()
	_ = l.src.Close()
	speaker.Unlock()
	p.cur = nil
}

// Play starts or resumes output. After the source ended, it restarts from
// the beginning.
func (p *Player) Play() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	l := p.cur
	if l == nil {
		if p.cancelLoad != nil {
			return ErrInterrupted
		}
		return ErrNoSource
	}

	speaker.Lock()
	if l.ended {
		if err := l.src.streamer.Seek(0); err != nil {
			speaker.Unlock()
			return fmt.Errorf("rewind: %w", err)
		}
		l.ended = false
	}
	l.ctrl.Paused = false
	speaker.Unlock()

	if !l.started {
		token := l.token
		speaker.Play(beep.Seq(l.volume, beep.Callback(func() {
			// Runs on the speaker goroutine with the speaker locked.
			go p.finished(token)
		})))
		l.started = true
	}
	if !l.playing {
		l.playing = true
		l.stopTick = make(chan struct{})
		p.wg.Add(1)
		go p.tick(l, l.stopTick)
	}
	return nil
}

func (p *Player) Pause() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	l := p.cur
	if l == nil {
		return nil
	}
	speaker.Lock()
	l.ctrl.Paused = true
	speaker.Unlock()
	l.stopTicking()
	return nil
}

// Seek moves the read position. The position is clamped to the source.
func (p *Player) Seek(pos time.Duration) error {
	p.mu.Lock()
	l := p.cur
	if l == nil {
		p.mu.Unlock()
		return ErrNoSource
	}
	sr := l.src.format.SampleRate
	n := max(sr.N(pos), 0)

	speaker.Lock()
	if length := l.src.streamer.Len(); length > 0 {
		n = min(n, length-1)
	}
	err := l.src.streamer.Seek(n)
	speaker.Unlock()

	token := l.token
	if err == nil {
		l.ended = false
	}
	p.mu.Unlock()

	if err != nil {
		return fmt.Errorf("seek: %w", err)
	}
	// Seek is called by the events reader itself, so this send must not wait.
	p.trySend(Event{Type: EventTimeUpdate, Token: token, Position: sr.D(n)})
	return nil
}

// SetVolume sets the output level (0.0 to 1.0).
func (p *Player) SetVolume(level float64) {
	level = min(max(level, 0), 1)

	p.mu.Lock()
	defer p.mu.Unlock()
	p.level = level
	if l := p.cur; l != nil {
		speaker.Lock()
		l.volume.Volume = levelToVolume(level)
		l.volume.Silent = level <= 0
		speaker.Unlock()
	}
}

// Close unloads the source and stops all background work. The element
// cannot be reused.
func (p *Player) Close() error {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return nil
	}
	p.closed = true
	p.unloadLocked()
	p.mu.Unlock()

	close(p.done)
	p.wg.Wait()
	return nil
}

func (p *Player) finished(token uint64) {
	p.mu.Lock()
	l := p.cur
	if l == nil || l.token != token {
		p.mu.Unlock()
		return
	}
	l.ended = true
	l.started = false
	l.stopTicking()
	p.mu.Unlock()

	p.emit(Event{Type: EventEnded, Token: token})
}

func (p *Player) tick(l *loaded, stop <-chan struct{}) {
	defer p.wg.Done()

	t := time.NewTicker(p.interval)
	defer t.Stop()
	sr := l.src.format.SampleRate
	for {
		select {
		case <-stop:
			return
		case <-p.done:
			return
		case <-t.C:
			speaker.Lock()
			pos := sr.D(l.src.streamer.Position())
			speaker.Unlock()
			// Position updates are lossy; the next tick supersedes a dropped one.
			p.trySend(Event{Type: EventTimeUpdate, Token: l.token, Position: pos})
		}
	}
}

// trySend delivers e only if the buffer has room.
func (p *Player) trySend(e Event) {
	select {
	case p.events <- e:
	default:
	}
}

func (p *Player) emit(e Event) {
	select {
	case p.events <- e:
	case <-p.done:
	}
}

func (p *Player) emitIfCurrent(token uint64, e Event) {
	p.mu.Lock()
	current := token == p.token && !p.closed
	p.mu.Unlock()
	if current {
		p.emit(e)
	}
}

// levelToVolume converts a 0.0-1.0 level to beep's base-2 volume.
// 1.0 -> 0, 0.5 -> -1, 0.25 -> -2, 0 -> -10 (inaudible).
func levelToVolume(level float64) float64 {
	if level <= 0 {
		return -10
	}
	if level >= 1 {
		return 0
	}
	return math.Log2(level)
}
