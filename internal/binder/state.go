package binder

import "fmt"

// State is the binder's view of the audio element.
type State int32

const (
	Idle      State = iota // no track
	Resolving              // looking up the source
	Loading                // element fetching, waiting for ready
	Ready                  // loaded, not started
	Playing
	Paused
	Errored // resolve, load or play failed; waits for another track
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Resolving:
		return "resolving"
	case Loading:
		return "loading"
	case Ready:
		return "ready"
	case Playing:
		return "playing"
	case Paused:
		return "paused"
	case Errored:
		return "errored"
	default:
		return fmt.Sprintf("state(%d)", int32(s))
	}
}

// Loaded reports whether the element holds a playable source.
func (s State) Loaded() bool {
	return s == Ready || s == Playing || s == Paused
}

// input is something that happened, from the session, the element, the
// resolver or the fallback timer.
type input int

const (
	inTrackChanged input = iota
	inTrackCleared
	inResolved
	inResolveFailed
	inReady
	inAssumedReady
	inLoadTimeout
	inPlayed
	inPlayFailed
	inPaused
	inEnded
	inMediaError
)

var inputNames = [...]string{
	inTrackChanged:  "track-changed",
	inTrackCleared:  "track-cleared",
	inResolved:      "resolved",
	inResolveFailed: "resolve-failed",
	inReady:         "ready",
	inAssumedReady:  "assumed-ready",
	inLoadTimeout:   "load-timeout",
	inPlayed:        "played",
	inPlayFailed:    "play-failed",
	inPaused:        "paused",
	inEnded:         "ended",
	inMediaError:    "media-error",
}

func (i input) String() string {
	if int(i) < len(inputNames) {
		return inputNames[i]
	}
	return fmt.Sprintf("input(%d)", int(i))
}

// transitions lists every allowed move. A pair missing from the table is
// ignored by the binder.
var transitions = map[State]map[input]State{
	Idle: {
		inTrackChanged: Resolving,
		inTrackCleared: Idle,
	},
	Resolving: {
		inTrackChanged:  Resolving,
		inTrackCleared:  Idle,
		inResolved:      Loading,
		inResolveFailed: Errored,
	},
	Loading: {
		inTrackChanged: Resolving,
		inTrackCleared: Idle,
		inReady:        Ready,
		inAssumedReady: Ready,
		inLoadTimeout:  Errored,
		inMediaError:   Errored,
	},
	Ready: {
		inTrackChanged: Resolving,
		inTrackCleared: Idle,
		inReady:        Ready, // real ready after an assumed one
		inPlayed:       Playing,
		inPlayFailed:   Errored,
		inPaused:       Ready,
		inMediaError:   Errored,
	},
	Playing: {
		inTrackChanged: Resolving,
		inTrackCleared: Idle,
		inPaused:       Paused,
		inEnded:        Paused,
		inMediaError:   Errored,
	},
	Paused: {
		inTrackChanged: Resolving,
		inTrackCleared: Idle,
		inPlayed:       Playing,
		inPlayFailed:   Errored,
		inMediaError:   Errored,
	},
	Errored: {
		inTrackChanged: Resolving,
		inTrackCleared: Idle,
	},
}

func next(s State, in input) (State, bool) {
	to, ok := transitions[s][in]
	return to, ok
}
