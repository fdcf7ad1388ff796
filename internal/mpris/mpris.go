//go:build linux

package mpris

import (
	"fmt"
	"hash/fnv"
	"log/slog"
	"math"
	"sync"
	"time"

	"github.com/godbus/dbus/v5"
	"github.com/quarckster/go-mpris-server/pkg/events"
	"github.com/quarckster/go-mpris-server/pkg/server"
	"github.com/quarckster/go-mpris-server/pkg/types"

	"github.com/llehouerou/tempo/internal/playback"
)

// Adapter exposes the playback session over D-Bus as an MPRIS player so
// media keys and desktop widgets can drive it.
type Adapter struct {
	session *playback.Session
	server  *server.Server
	events  *events.EventHandler
	sub     *playback.Subscription
	log     *slog.Logger
	wg      sync.WaitGroup
}

// New creates and starts a new MPRIS adapter.
func New(session *playback.Session, log *slog.Logger) (*Adapter, error) {
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	a := &Adapter{
		session: session,
		log:     log,
	}

	a.server = server.NewServer("tempo", &rootAdapter{}, &playerAdapter{session: session})
	a.events = events.NewEventHandler(a.server)
	a.sub = session.Subscribe()

	a.wg.Add(2)
	go func() {
		defer a.wg.Done()
		if err := a.server.Listen(); err != nil {
			a.log.Warn("mpris listen", "error", err)
		}
	}()
	go func() {
		defer a.wg.Done()
		a.watch(session.Snapshot())
	}()

	return a, nil
}

// watch emits PropertiesChanged signals for what changed between snapshots.
func (a *Adapter) watch(prev playback.Snapshot) {
	for {
		select {
		case <-a.sub.Done:
			return
		case <-a.sub.Changed:
		}
		cur := a.session.Snapshot()
		for _, err := range a.signal(prev, cur) {
			a.log.Debug("mpris signal", "error", err)
		}
		prev = cur
	}
}

func (a *Adapter) signal(prev, cur playback.Snapshot) []error {
	var errs []error
	emit := func(err error) {
		if err != nil {
			errs = append(errs, err)
		}
	}
	if prev.TrackSeq != cur.TrackSeq {
		emit(a.events.Player.OnTitle())
	}
	if prev.IsPlaying != cur.IsPlaying || prev.HasTrack() != cur.HasTrack() {
		emit(a.events.Player.OnPlayPause())
	}
	if prev.OutputVolume() != cur.OutputVolume() {
		emit(a.events.Player.OnVolume())
	}
	if prev.IsShuffling != cur.IsShuffling || prev.IsRepeating != cur.IsRepeating {
		emit(a.events.Player.OnOptions())
	}
	if cur.SeekRequested && !prev.SeekRequested {
		emit(a.events.Player.OnSeek(types.Microseconds(cur.CurrentTime.Microseconds())))
	}
	return errs
}

// Close stops the adapter and releases D-Bus resources.
func (a *Adapter) Close() error {
	a.session.Unsubscribe(a.sub)
	err := a.server.Stop()
	a.wg.Wait()
	return err
}

// rootAdapter implements OrgMprisMediaPlayer2Adapter.
type rootAdapter struct{}

func (r *rootAdapter) Raise() error {
	return nil // Not supported
}

func (r *rootAdapter) Quit() error {
	return nil // the TUI owns the lifecycle
}

func (r *rootAdapter) CanQuit() (bool, error) {
	return false, nil
}

func (r *rootAdapter) CanRaise() (bool, error) {
	return false, nil
}

func (r *rootAdapter) HasTrackList() (bool, error) {
	return false, nil
}

func (r *rootAdapter) Identity() (string, error) {
	return "Tempo", nil
}

//nolint:revive // Method name required by interface.
func (r *rootAdapter) SupportedUriSchemes() ([]string, error) {
	return []string{"file", "http", "https"}, nil
}

func (r *rootAdapter) SupportedMimeTypes() ([]string, error) {
	return []string{"audio/mpeg", "audio/flac", "audio/wav"}, nil
}

// playerAdapter implements OrgMprisMediaPlayer2PlayerAdapter by dispatching
// session actions.
type playerAdapter struct {
	session *playback.Session
}

func (p *playerAdapter) Next() error {
	p.session.SkipToNext()
	return nil
}

func (p *playerAdapter) Previous() error {
	p.session.SkipToPrevious()
	return nil
}

func (p *playerAdapter) Pause() error {
	p.session.Pause()
	return nil
}

func (p *playerAdapter) PlayPause() error {
	p.session.TogglePlayPause()
	return nil
}

func (p *playerAdapter) Stop() error {
	p.session.Pause()
	p.session.Seek(0)
	return nil
}

func (p *playerAdapter) Play() error {
	p.session.Play()
	return nil
}

func (p *playerAdapter) Seek(offset types.Microseconds) error {
	p.session.SeekBy(time.Duration(offset) * time.Microsecond)
	return nil
}

func (p *playerAdapter) SetPosition(trackID string, position types.Microseconds) error {
	snap := p.session.Snapshot()
	if snap.CurrentTrack == nil || trackID != formatTrackID(snap.CurrentTrack.ID) {
		return nil // stale request for another track
	}
	p.session.Seek(time.Duration(position) * time.Microsecond)
	return nil
}

//nolint:revive // Method name required by interface.
func (p *playerAdapter) OpenUri(_ string) error {
	return nil // Not supported
}

func (p *playerAdapter) PlaybackStatus() (types.PlaybackStatus, error) {
	snap := p.session.Snapshot()
	switch {
	case !snap.HasTrack():
		return types.PlaybackStatusStopped, nil
	case snap.IsPlaying:
		return types.PlaybackStatusPlaying, nil
	default:
		return types.PlaybackStatusPaused, nil
	}
}

func (p *playerAdapter) Rate() (float64, error) {
	return 1.0, nil
}

func (p *playerAdapter) SetRate(_ float64) error {
	return nil // Not supported
}

func (p *playerAdapter) Metadata() (types.Metadata, error) {
	track := p.session.Snapshot().CurrentTrack
	if track == nil {
		return types.Metadata{}, nil
	}

	meta := types.Metadata{
		TrackId: dbus.ObjectPath(formatTrackID(track.ID)),
		Length:  types.Microseconds(track.Duration.Microseconds()),
		Title:   track.DisplayTitle(),
		ArtUrl:  artURL(*track),
	}
	if track.Artist != "" {
		meta.Artist = []string{track.Artist}
	}
	return meta, nil
}

func (p *playerAdapter) Volume() (float64, error) {
	return p.session.Snapshot().OutputVolume(), nil
}

func (p *playerAdapter) SetVolume(v float64) error {
	p.session.SetVolume(int(math.Round(v * playback.MaxVolume)))
	return nil
}

func (p *playerAdapter) Position() (int64, error) {
	return p.session.Snapshot().CurrentTime.Microseconds(), nil
}

func (p *playerAdapter) MinimumRate() (float64, error) {
	return 1.0, nil
}

func (p *playerAdapter) MaximumRate() (float64, error) {
	return 1.0, nil
}

func (p *playerAdapter) CanGoNext() (bool, error) {
	return p.session.Snapshot().HasNext(), nil
}

func (p *playerAdapter) CanGoPrevious() (bool, error) {
	return p.session.Snapshot().HasTrack(), nil
}

func (p *playerAdapter) CanPlay() (bool, error) {
	return p.session.Snapshot().HasTrack(), nil
}

func (p *playerAdapter) CanPause() (bool, error) {
	return p.session.Snapshot().HasTrack(), nil
}

func (p *playerAdapter) CanSeek() (bool, error) {
	return p.session.Snapshot().HasTrack(), nil
}

func (p *playerAdapter) CanControl() (bool, error) {
	return true, nil
}

// LoopStatus implements OrgMprisMediaPlayer2PlayerAdapterLoopStatus.
// The session repeats the whole queue; there is no single-track loop.
func (p *playerAdapter) LoopStatus() (types.LoopStatus, error) {
	if p.session.Snapshot().IsRepeating {
		return types.LoopStatusPlaylist, nil
	}
	return types.LoopStatusNone, nil
}

// SetLoopStatus implements OrgMprisMediaPlayer2PlayerAdapterLoopStatus.
func (p *playerAdapter) SetLoopStatus(status types.LoopStatus) error {
	want := status != types.LoopStatusNone
	if p.session.Snapshot().IsRepeating != want {
		p.session.ToggleRepeat()
	}
	return nil
}

// Shuffle implements OrgMprisMediaPlayer2PlayerAdapterShuffle.
func (p *playerAdapter) Shuffle() (bool, error) {
	return p.session.Snapshot().IsShuffling, nil
}

// SetShuffle implements OrgMprisMediaPlayer2PlayerAdapterShuffle.
func (p *playerAdapter) SetShuffle(shuffle bool) error {
	if p.session.Snapshot().IsShuffling != shuffle {
		p.session.ToggleShuffle()
	}
	return nil
}

func formatTrackID(id string) string {
	h := fnv.New64a()
	h.Write([]byte(id))
	return fmt.Sprintf("/org/mpris/MediaPlayer2/Track/%x", h.Sum64())
}
