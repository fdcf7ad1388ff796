//go:build !linux

package mpris

import (
	"log/slog"

	"github.com/llehouerou/tempo/internal/playback"
)

// Adapter is a no-op on non-Linux platforms.
type Adapter struct{}

// New returns a no-op adapter on non-Linux platforms.
func New(_ *playback.Session, _ *slog.Logger) (*Adapter, error) {
	return &Adapter{}, nil
}

// Close is a no-op on non-Linux platforms.
func (a *Adapter) Close() error {
	return nil
}
