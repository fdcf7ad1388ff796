//nolint:goconst // test cases intentionally repeat strings for readability
package icons

import "testing"

func TestInit(t *testing.T) {
	tests := []struct {
		name  string
		style string
		want  Icons
	}{
		{"nerd style", "nerd", nerdIcons},
		{"unicode style", "unicode", unicodeIcons},
		{"none style", "none", noneIcons},
		{"empty string defaults to none", "", noneIcons},
		{"unknown style defaults to none", "invalid", noneIcons},
		{"case sensitive - NERD defaults to none", "NERD", noneIcons},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			Init(tt.style)
			if current != tt.want {
				t.Errorf("Init(%q) selected %+v", tt.style, current)
			}
		})
	}
	Init("none")
}

func TestStatus(t *testing.T) {
	Init("unicode")
	defer Init("none")

	tests := []struct {
		playing, loading bool
		want             string
	}{
		{false, false, "⏸"},
		{true, false, "▶"},
		{true, true, "⏳"},
		{false, true, "⏳"},
	}
	for _, tt := range tests {
		if got := Status(tt.playing, tt.loading); got != tt.want {
			t.Errorf("Status(%v, %v) = %q, want %q", tt.playing, tt.loading, got, tt.want)
		}
	}
}

func TestFormatTrack(t *testing.T) {
	Init("none")
	if got := FormatTrack("Naima"); got != "Naima" {
		t.Errorf("none: FormatTrack = %q", got)
	}

	Init("unicode")
	defer Init("none")
	if got := FormatTrack("Naima"); got != "♪ Naima" {
		t.Errorf("unicode: FormatTrack = %q", got)
	}
}

func TestAccessorsFollowStyle(t *testing.T) {
	Init("nerd")
	defer Init("none")

	pairs := map[string][2]string{
		"Play":    {Play(), nerdIcons.Play},
		"Pause":   {Pause(), nerdIcons.Pause},
		"Loading": {Loading(), nerdIcons.Loading},
		"Error":   {Error(), nerdIcons.Error},
		"Shuffle": {Shuffle(), nerdIcons.Shuffle},
		"Repeat":  {Repeat(), nerdIcons.Repeat},
		"Volume":  {Volume(), nerdIcons.Volume},
		"Mute":    {Mute(), nerdIcons.Mute},
	}
	for name, p := range pairs {
		if p[0] != p[1] {
			t.Errorf("%s() = %q, want %q", name, p[0], p[1])
		}
	}
}
