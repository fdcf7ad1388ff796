//go:build linux

package mpris

import (
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/llehouerou/tempo/internal/playback"
)

// coverNames lists common album art filenames in priority order.
var coverNames = []string{
	"cover.jpg", "cover.png", "cover.jpeg",
	"folder.jpg", "folder.png", "folder.jpeg",
	"front.jpg", "front.png", "front.jpeg",
}

// artURL returns the cover image URL for a track: its own cover when set,
// otherwise a cover file next to a local track.
func artURL(t playback.Track) string {
	if t.CoverURL != "" {
		if strings.Contains(t.CoverURL, "://") {
			return t.CoverURL
		}
		return fileURL(t.CoverURL)
	}
	if filepath.IsAbs(t.ID) {
		if art := FindAlbumArt(t.ID); art != "" {
			return fileURL(art)
		}
	}
	return ""
}

func fileURL(path string) string {
	return (&url.URL{Scheme: "file", Path: path}).String()
}

// FindAlbumArt looks for album art in the same directory as the track.
// Returns the path to the art file, or empty string if not found.
func FindAlbumArt(trackPath string) string {
	dir := filepath.Dir(trackPath)
	for _, name := range coverNames {
		path := filepath.Join(dir, name)
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}
