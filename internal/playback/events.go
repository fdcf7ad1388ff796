package playback

// TrackChange is emitted when a track is selected or the session is cleared.
//
// Emitted by SetCurrentTrack, SkipToNext, SkipToPrevious (when it navigates),
// SkipToTrack, Enqueue (when nothing was current) and Clear.
// Restarting the current track does not emit.
type TrackChange struct {
	Previous      *Track
	Current       *Track
	PreviousIndex int
	Index         int
}

// ModeChange is emitted when repeat or shuffle mode changes.
type ModeChange struct {
	Repeat  bool
	Shuffle bool
}

// ErrorEvent is emitted when a non-empty error is set on the session.
type ErrorEvent struct {
	Message string
	TrackID string
}
