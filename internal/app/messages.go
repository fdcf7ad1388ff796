package app

import "github.com/llehouerou/tempo/internal/ui/trackcard"

// SessionChangedMsg is sent when the playback session was mutated.
type SessionChangedMsg struct{}

// CardChangedMsg carries a new projection for one track card.
type CardChangedMsg struct {
	Card *trackcard.Card
	View trackcard.View
}

// SessionClosedMsg is sent when the playback session shuts down.
type SessionClosedMsg struct{}
