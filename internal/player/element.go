// Package player drives audio output. An Element is a media element in
// the HTML sense: it is told what to load and what to do, and it reports
// what happened through tagged events.
package player

import (
	"errors"
	"fmt"
	"time"
)

// Element is the audio output the binder drives.
//
// Load starts loading src and returns a token identifying that load. Every
// event carries the token of the load it belongs to, so events from a
// superseded load can be told apart and dropped.
type Element interface {
	Load(src string) uint64
	Unload()
	Play() error
	Pause() error
	Seek(pos time.Duration) error
	SetVolume(level float64)
	Events() <-chan Event
	Close() error
}

// EventType identifies an element event.
type EventType int

const (
	EventReady EventType = iota
	EventTimeUpdate
	EventDurationChange
	EventEnded
	EventError
)

func (t EventType) String() string {
	switch t {
	case EventReady:
		return "ready"
	case EventTimeUpdate:
		return "timeupdate"
	case EventDurationChange:
		return "durationchange"
	case EventEnded:
		return "ended"
	case EventError:
		return "error"
	default:
		return fmt.Sprintf("event(%d)", int(t))
	}
}

// Event is emitted by an element.
type Event struct {
	Type     EventType
	Token    uint64
	Position time.Duration // EventTimeUpdate
	Duration time.Duration // EventDurationChange
	Err      *MediaError   // EventError
}

// MediaErrorCode classifies a load or decode failure.
type MediaErrorCode int

const (
	MediaErrAborted MediaErrorCode = iota + 1
	MediaErrNetwork
	MediaErrDecode
	MediaErrSrcNotSupported
)

func (c MediaErrorCode) String() string {
	switch c {
	case MediaErrAborted:
		return "aborted"
	case MediaErrNetwork:
		return "network"
	case MediaErrDecode:
		return "decode"
	case MediaErrSrcNotSupported:
		return "source not supported"
	default:
		return "unknown"
	}
}

// MediaError is reported through EventError.
type MediaError struct {
	Code MediaErrorCode
	Err  error
}

func (e *MediaError) Error() string {
	if e.Err == nil {
		return "media error: " + e.Code.String()
	}
	return fmt.Sprintf("media error: %s: %v", e.Code, e.Err)
}

func (e *MediaError) Unwrap() error { return e.Err }

var (
	// ErrInterrupted is returned by Play when the load it applied to was
	// replaced or unloaded. It is not a real failure.
	ErrInterrupted = errors.New("play interrupted by a new load request")

	// ErrNoSource is returned when nothing is loaded.
	ErrNoSource = errors.New("no source loaded")
)

// IsInterrupted reports whether err only signals that a play request was
// superseded.
func IsInterrupted(err error) bool {
	return errors.Is(err, ErrInterrupted)
}
