package playback

import "time"

// Track identifies a playable item and its display metadata.
// Tracks are values: the queue keeps its own copies and never mutates them.
type Track struct {
	ID       string
	Title    string
	Artist   string
	CoverURL string
	Duration time.Duration // known length, 0 if unknown

	// UploadID, when set, keys source resolution instead of ID
	// (e.g. previewing an upload that is not yet a published track).
	UploadID string
}

// SourceKey returns the identifier used to resolve the track's audio source.
func (t Track) SourceKey() string {
	if t.UploadID != "" {
		return t.UploadID
	}
	return t.ID
}

// DisplayTitle returns the title, falling back to the id.
func (t Track) DisplayTitle() string {
	if t.Title != "" {
		return t.Title
	}
	return t.ID
}
