// Package notify shows desktop notifications for track changes and
// playback errors.
package notify

import (
	"context"
	"log/slog"
	"strings"

	"github.com/llehouerou/tempo/internal/playback"
)

// Urgency is the freedesktop notification urgency level.
type Urgency byte

const (
	UrgencyLow      Urgency = 0
	UrgencyNormal   Urgency = 1
	UrgencyCritical Urgency = 2
)

// DefaultTimeout is how long a notification stays up, in milliseconds.
const DefaultTimeout int32 = 4000

// Notification contains data for a desktop notification.
type Notification struct {
	Title      string  // Summary text (required)
	Body       string  // Body text (optional, supports basic markup)
	Icon       string  // Path to image file or icon name (optional)
	Timeout    int32   // ms, -1 = server default, 0 = never expire
	ReplacesID uint32  // 0 = new notification, >0 = replace existing
	Urgency    Urgency // Low, Normal, Critical
}

// Notifier sends desktop notifications.
type Notifier interface {
	// Notify sends a notification and returns its ID.
	// Returns 0 and nil error if notifications are disabled or unavailable.
	Notify(n Notification) (uint32, error)
	// Close closes a notification by ID.
	Close(id uint32) error
}

// Watch posts a notification whenever the session selects a track or
// raises an error, until ctx is done or the session closes. Each
// notification replaces the previous one.
func Watch(ctx context.Context, s *playback.Session, n Notifier, log *slog.Logger) {
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	sub := s.Subscribe()
	defer s.Unsubscribe(sub)

	var last uint32
	post := func(notif Notification) {
		notif.ReplacesID = last
		id, err := n.Notify(notif)
		if err != nil {
			log.Debug("notification failed", "error", err)
			return
		}
		last = id
	}

	for {
		select {
		case <-ctx.Done():
			return
		case <-sub.Done:
			return
		case e := <-sub.TrackChanged:
			if e.Current == nil {
				if last != 0 {
					_ = n.Close(last)
					last = 0
				}
				continue
			}
			post(trackNotification(*e.Current))
		case e := <-sub.ErrorRaised:
			post(errorNotification(e, s.Snapshot()))
		}
	}
}

func trackNotification(t playback.Track) Notification {
	return Notification{
		Title:   t.DisplayTitle(),
		Body:    escape(t.Artist),
		Icon:    icon(t),
		Timeout: DefaultTimeout,
		Urgency: UrgencyLow,
	}
}

func errorNotification(e playback.ErrorEvent, snap playback.Snapshot) Notification {
	body := e.Message
	if t := snap.CurrentTrack; t != nil && t.ID == e.TrackID {
		body = t.DisplayTitle() + ": " + e.Message
	}
	return Notification{
		Title:   "Playback error",
		Body:    escape(body),
		Icon:    "dialog-warning",
		Timeout: DefaultTimeout,
		Urgency: UrgencyNormal,
	}
}

// icon returns a local cover path usable as a notification image.
func icon(t playback.Track) string {
	switch {
	case strings.HasPrefix(t.CoverURL, "/"):
		return t.CoverURL
	case strings.HasPrefix(t.CoverURL, "file://"):
		return strings.TrimPrefix(t.CoverURL, "file://")
	default:
		return "audio-x-generic"
	}
}

var markup = strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;")

// escape protects body text, which notification servers read as markup.
func escape(s string) string {
	return markup.Replace(s)
}
