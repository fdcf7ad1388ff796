// Package keymap defines key bindings and action dispatch for the player.
package keymap

// Action represents a user-triggerable action.
type Action string

const (
	// Global actions
	ActionQuit Action = "quit"
	ActionHelp Action = "help"

	// Transport actions
	ActionPlayPause     Action = "play_pause"
	ActionNextTrack     Action = "next_track"
	ActionPrevTrack     Action = "prev_track"
	ActionSeekForward   Action = "seek_forward"
	ActionSeekBack      Action = "seek_back"
	ActionVolumeUp      Action = "volume_up"
	ActionVolumeDown    Action = "volume_down"
	ActionToggleMute    Action = "toggle_mute"
	ActionToggleShuffle Action = "toggle_shuffle"
	ActionToggleRepeat  Action = "toggle_repeat"

	// Queue actions
	ActionMoveUp   Action = "move_up"
	ActionMoveDown Action = "move_down"
	ActionSelect   Action = "select" // enter - play the track under the cursor
	ActionDelete   Action = "delete" // remove the track under the cursor
	ActionClear    Action = "clear"  // stop and empty the queue
)
