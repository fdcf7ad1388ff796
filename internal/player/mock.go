package player

import (
	"sync"
	"time"
)

// Mock is an Element that records calls and emits only the events a test
// asks for.
type Mock struct {
	mu      sync.Mutex
	events  chan Event
	token   uint64
	loads   []string
	unloads int
	plays   int
	pauses  int
	seeks   []time.Duration
	volumes []float64
	playing bool
	loaded  bool
	closed  bool
	playErr error
}

var _ Element = (*Mock)(nil)

func NewMock() *Mock {
	return &Mock{events: make(chan Event, eventBufferSize)}
}

func (m *Mock) Load(src string) uint64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.token++
	m.loads = append(m.loads, src)
	m.loaded = false
	m.playing = false
	return m.token
}

func (m *Mock) Unload() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.token++
	m.unloads++
	m.loaded = false
	m.playing = false
}

func (m *Mock) Play() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.plays++
	if m.playErr != nil {
		return m.playErr
	}
	if !m.loaded {
		return ErrNoSource
	}
	m.playing = true
	return nil
}

func (m *Mock) Pause() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.pauses++
	m.playing = false
	return nil
}

func (m *Mock) Seek(pos time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.loaded {
		return ErrNoSource
	}
	m.seeks = append(m.seeks, pos)
	return nil
}

func (m *Mock) SetVolume(level float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.volumes = append(m.volumes, level)
}

func (m *Mock) Events() <-chan Event {
	return m.events
}

func (m *Mock) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	return nil
}

// SetPlayError makes subsequent Play calls fail with err.
func (m *Mock) SetPlayError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.playErr = err
}

// Token returns the token of the latest load.
func (m *Mock) Token() uint64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.token
}

// Emit delivers an event as if the element had produced it.
func (m *Mock) Emit(e Event) {
	m.events <- e
}

// EmitReady makes the source of token playable, as the real element does
// once decoding succeeded, and reports it.
func (m *Mock) EmitReady(token uint64) {
	m.mu.Lock()
	if token == m.token {
		m.loaded = true
	}
	m.mu.Unlock()
	m.Emit(Event{Type: EventReady, Token: token})
}

func (m *Mock) EmitTimeUpdate(token uint64, pos time.Duration) {
	m.Emit(Event{Type: EventTimeUpdate, Token: token, Position: pos})
}

func (m *Mock) EmitDuration(token uint64, d time.Duration) {
	m.Emit(Event{Type: EventDurationChange, Token: token, Duration: d})
}

func (m *Mock) EmitEnded(token uint64) {
	m.Emit(Event{Type: EventEnded, Token: token})
}

func (m *Mock) EmitError(token uint64, code MediaErrorCode) {
	m.Emit(Event{Type: EventError, Token: token, Err: &MediaError{Code: code}})
}

func (m *Mock) Loads() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.loads...)
}

func (m *Mock) Unloads() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.unloads
}

func (m *Mock) Plays() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.plays
}

func (m *Mock) Pauses() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.pauses
}

func (m *Mock) Seeks() []time.Duration {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]time.Duration(nil), m.seeks...)
}

// Volume returns the last level set, or -1 if none was.
func (m *Mock) Volume() float64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.volumes) == 0 {
		return -1
	}
	return m.volumes[len(m.volumes)-1]
}

func (m *Mock) IsPlaying() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.playing
}

func (m *Mock) Closed() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.closed
}
