package keymap

import "github.com/charmbracelet/bubbles/key"

// Binding ties keys to an action.
type Binding struct {
	Action      Action
	Keys        []string
	Description string
	Context     string // "global", "playback", "queue"
}

// Help returns the bubbles binding used by the help view.
func (b Binding) Help() key.Binding {
	return key.NewBinding(
		key.WithKeys(b.Keys...),
		key.WithHelp(displayKeys(b.Keys), b.Description),
	)
}

func displayKeys(keys []string) string {
	if len(keys) == 0 {
		return ""
	}
	k := keys[0]
	if k == " " {
		return "space"
	}
	return k
}

// All contains all key bindings for the player.
var All = []Binding{
	// Global
	{ActionQuit, []string{"q", "ctrl+c"}, "Quit", "global"},
	{ActionHelp, []string{"?"}, "Toggle help", "global"},

	// Playback
	{ActionPlayPause, []string{" "}, "Play/pause", "playback"},
	{ActionNextTrack, []string{"n", "pgdown"}, "Next track", "playback"},
	{ActionPrevTrack, []string{"p", "pgup"}, "Previous track", "playback"},
	{ActionSeekForward, []string{"right", "l"}, "Seek +5s", "playback"},
	{ActionSeekBack, []string{"left", "h"}, "Seek -5s", "playback"},
	{ActionVolumeUp, []string{"+", "="}, "Volume +5", "playback"},
	{ActionVolumeDown, []string{"-"}, "Volume -5", "playback"},
	{ActionToggleMute, []string{"m"}, "Mute", "playback"},
	{ActionToggleShuffle, []string{"s"}, "Shuffle", "playback"},
	{ActionToggleRepeat, []string{"r"}, "Repeat", "playback"},

	// Queue
	{ActionMoveUp, []string{"k", "up"}, "Move up", "queue"},
	{ActionMoveDown, []string{"j", "down"}, "Move down", "queue"},
	{ActionSelect, []string{"enter"}, "Play track", "queue"},
	{ActionDelete, []string{"d", "delete"}, "Remove track", "queue"},
	{ActionClear, []string{"c"}, "Clear queue", "queue"},
}

// ByContext returns key bindings filtered by context.
func ByContext(context string) []Binding {
	var result []Binding
	for _, kb := range All {
		if kb.Context == context {
			result = append(result, kb)
		}
	}
	return result
}

// HelpMap adapts bindings to the bubbles help.KeyMap interface.
type HelpMap struct {
	short []key.Binding
	full  [][]key.Binding
}

// NewHelpMap builds the help view: the short form lists the most used
// transport keys, the full form has one column per context.
func NewHelpMap(bindings []Binding) HelpMap {
	var h HelpMap
	columns := map[string][]key.Binding{}
	var order []string
	for _, b := range bindings {
		hb := b.Help()
		if _, ok := columns[b.Context]; !ok {
			order = append(order, b.Context)
		}
		columns[b.Context] = append(columns[b.Context], hb)
		switch b.Action {
		case ActionPlayPause, ActionNextTrack, ActionPrevTrack, ActionHelp, ActionQuit:
			h.short = append(h.short, hb)
		}
	}
	for _, c := range order {
		h.full = append(h.full, columns[c])
	}
	return h
}

func (h HelpMap) ShortHelp() []key.Binding  { return h.short }
func (h HelpMap) FullHelp() [][]key.Binding { return h.full }
