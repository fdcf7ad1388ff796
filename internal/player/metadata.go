package player

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/dhowden/tag"
)

// TrackInfo is the metadata read from a local audio file.
type TrackInfo struct {
	Path     string
	Title    string
	Artist   string
	Album    string
	Duration time.Duration
	HasCover bool
}

// ReadTrackInfo reads tags and decodes the file to measure its length.
// Missing or unreadable tags fall back to the file name; a file that
// cannot be decoded is an error.
func ReadTrackInfo(path string) (*TrackInfo, error) {
	info := &TrackInfo{
		Path:  path,
		Title: strings.TrimSuffix(filepath.Base(path), filepath.Ext(path)),
	}
	if f, err := os.Open(path); err == nil {
		if m, err := tag.ReadFrom(f); err == nil {
			if m.Title() != "" {
				info.Title = m.Title()
			}
			info.Artist = m.Artist()
			if info.Artist == "" {
				info.Artist = m.AlbumArtist()
			}
			info.Album = m.Album()
			info.HasCover = m.Picture() != nil
		}
		f.Close()
	}

	d, err := openFile(path)
	if err != nil {
		return nil, err
	}
	defer d.Close()
	info.Duration = d.format.SampleRate.D(d.streamer.Len())
	return info, nil
}
