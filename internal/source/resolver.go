// Package source turns track identifiers into playable audio locations.
package source

import (
	"context"
	"errors"
	"net/url"
	"os"

	"github.com/llehouerou/tempo/internal/playback"
	"github.com/llehouerou/tempo/internal/player"
)

// ErrNotAvailable means the resolver has no audio for the track.
var ErrNotAvailable = errors.New("audio not available")

// Resolver looks up a playable location (a path or URL the player can
// load) for a track.
type Resolver interface {
	Resolve(ctx context.Context, t playback.Track) (string, error)
}

// ResolverFunc adapts a function to Resolver.
type ResolverFunc func(ctx context.Context, t playback.Track) (string, error)

func (f ResolverFunc) Resolve(ctx context.Context, t playback.Track) (string, error) {
	return f(ctx, t)
}

// Direct resolves tracks whose source key is already a location: an
// http(s) or file URL, or an existing local audio file.
type Direct struct{}

func (Direct) Resolve(_ context.Context, t playback.Track) (string, error) {
	key := t.SourceKey()
	if u, err := url.Parse(key); err == nil {
		switch u.Scheme {
		case "http", "https":
			if u.Host != "" {
				return key, nil
			}
		case "file":
			return key, nil
		}
	}
	if player.IsPlayable(key) {
		if fi, err := os.Stat(key); err == nil && fi.Mode().IsRegular() {
			return key, nil
		}
	}
	return "", ErrNotAvailable
}

// Chain tries each resolver in order and returns the first answer that is
// not ErrNotAvailable.
type Chain []Resolver

func (c Chain) Resolve(ctx context.Context, t playback.Track) (string, error) {
	for _, r := range c {
		src, err := r.Resolve(ctx, t)
		if errors.Is(err, ErrNotAvailable) {
			continue
		}
		return src, err
	}
	return "", ErrNotAvailable
}
