package cli

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/llehouerou/tempo/internal/playback"
	"github.com/llehouerou/tempo/internal/player"
	"github.com/llehouerou/tempo/internal/source"
)

// buildQueue turns play arguments into tracks. An argument is a catalog id,
// a playable file, a directory of playable files or an http(s) URL.
// Without arguments the whole catalog is queued.
func buildQueue(ctx context.Context, cat *source.Catalog, args []string) ([]playback.Track, error) {
	if len(args) == 0 {
		entries, err := cat.List(ctx)
		if err != nil {
			return nil, err
		}
		tracks := make([]playback.Track, len(entries))
		for i, e := range entries {
			tracks[i] = e.Track
		}
		return tracks, nil
	}

	var tracks []playback.Track
	for _, arg := range args {
		ts, err := argTracks(ctx, cat, arg)
		if err != nil {
			return nil, err
		}
		tracks = append(tracks, ts...)
	}
	return tracks, nil
}

func argTracks(ctx context.Context, cat *source.Catalog, arg string) ([]playback.Track, error) {
	e, err := cat.Get(ctx, arg)
	if err == nil {
		return []playback.Track{e.Track}, nil
	}
	if !errors.Is(err, source.ErrNotFound) {
		return nil, err
	}

	if u, err := url.Parse(arg); err == nil && (u.Scheme == "http" || u.Scheme == "https") && u.Host != "" {
		title := strings.TrimSuffix(path.Base(u.Path), path.Ext(u.Path))
		if title == "" || title == "/" || title == "." {
			title = u.Host
		}
		return []playback.Track{{ID: arg, Title: title}}, nil
	}

	info, err := os.Stat(arg)
	if err != nil {
		return nil, fmt.Errorf("%s: not a catalog id, file or URL", arg)
	}
	if info.IsDir() {
		return dirTracks(arg)
	}
	t, err := fileTrack(arg)
	if err != nil {
		return nil, err
	}
	return []playback.Track{t}, nil
}

func dirTracks(dir string) ([]playback.Track, error) {
	var tracks []playback.Track
	err := filepath.WalkDir(dir, func(p string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !player.IsPlayable(p) {
			return nil
		}
		t, err := fileTrack(p)
		if err != nil {
			return nil //nolint:nilerr // unreadable files are skipped
		}
		tracks = append(tracks, t)
		return nil
	})
	return tracks, err
}

func fileTrack(p string) (playback.Track, error) {
	abs, err := filepath.Abs(p)
	if err != nil {
		return playback.Track{}, err
	}
	if !player.IsPlayable(abs) {
		return playback.Track{}, fmt.Errorf("%s: unsupported format", p)
	}
	t := playback.Track{ID: abs, Title: strings.TrimSuffix(filepath.Base(abs), filepath.Ext(abs))}
	if info, err := player.ReadTrackInfo(abs); err == nil {
		t.Title = info.Title
		t.Artist = info.Artist
		t.Duration = info.Duration
	}
	return t, nil
}
