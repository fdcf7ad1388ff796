// Package icons selects the glyphs used by the player UI.
package icons

// Style represents the icon style to use.
type Style string

const (
	StyleNerd    Style = "nerd"
	StyleUnicode Style = "unicode"
	StyleNone    Style = "none"
)

// Icons holds the icon characters for the current style.
type Icons struct {
	Play    string
	Pause   string
	Loading string
	Error   string
	Audio   string
	Shuffle string
	Repeat  string
	Volume  string
	Mute    string
}

var (
	nerdIcons = Icons{
		Play:    "", // nf-fa-play
		Pause:   "", // nf-fa-pause
		Loading: "󰔟", // nf-md-timer_sand
		Error:   "", // nf-fa-warning
		Audio:   "", // nf-fa-music
		Shuffle: "󰒟", // nf-md-shuffle
		Repeat:  "󰑖", // nf-md-repeat
		Volume:  "󰕾", // nf-md-volume_high
		Mute:    "󰝟", // nf-md-volume_mute
	}

	unicodeIcons = Icons{
		Play:    "▶",
		Pause:   "⏸",
		Loading: "⏳",
		Error:   "⚠",
		Audio:   "♪",
		Shuffle: "🔀",
		Repeat:  "🔁",
		Volume:  "🔊",
		Mute:    "🔇",
	}

	noneIcons = Icons{
		Play:    ">",
		Pause:   "||",
		Loading: "...",
		Error:   "!",
		Audio:   "",
		Shuffle: "[S]",
		Repeat:  "[R]",
		Volume:  "vol",
		Mute:    "mute",
	}

	// current holds the active icon set
	current = noneIcons
)

// Init initializes the icons based on the style.
// Call this once at startup with the config value.
func Init(style string) {
	switch Style(style) {
	case StyleNerd:
		current = nerdIcons
	case StyleUnicode:
		current = unicodeIcons
	default:
		current = noneIcons
	}
}

func Play() string    { return current.Play }
func Pause() string   { return current.Pause }
func Loading() string { return current.Loading }
func Error() string   { return current.Error }
func Shuffle() string { return current.Shuffle }
func Repeat() string  { return current.Repeat }
func Volume() string  { return current.Volume }
func Mute() string    { return current.Mute }

// Status returns the glyph for a track's transport status.
func Status(playing, loading bool) string {
	switch {
	case loading:
		return current.Loading
	case playing:
		return current.Play
	default:
		return current.Pause
	}
}

// FormatTrack prefixes a track title with the audio icon.
func FormatTrack(title string) string {
	if current.Audio == "" {
		return title
	}
	return current.Audio + " " + title
}
