package playback

import "testing"

func TestTrack_SourceKey(t *testing.T) {
	tests := []struct {
		name  string
		track Track
		want  string
	}{
		{"track id", Track{ID: "t1"}, "t1"},
		{"upload id wins", Track{ID: "t1", UploadID: "u9"}, "u9"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.track.SourceKey(); got != tt.want {
				t.Errorf("SourceKey() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestTrack_DisplayTitle(t *testing.T) {
	if got := (Track{ID: "t1"}).DisplayTitle(); got != "t1" {
		t.Errorf("DisplayTitle() = %q, want t1", got)
	}
	if got := (Track{ID: "t1", Title: "Song"}).DisplayTitle(); got != "Song" {
		t.Errorf("DisplayTitle() = %q, want Song", got)
	}
}
