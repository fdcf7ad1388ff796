package styles

import (
	"image/color"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/lucasb-eyer/go-colorful"
	"github.com/rivo/uniseg"
)

// Gradient colors text from one color to another, one step per grapheme
// cluster. Used for the filled part of the progress bar.
func Gradient(text string, from, to lipgloss.Color) string {
	clusters := graphemes(text)
	switch len(clusters) {
	case 0:
		return ""
	case 1:
		return lipgloss.NewStyle().Foreground(from).Render(text)
	}

	colors := blendColors(len(clusters), from, to)
	var b strings.Builder
	for i, cluster := range clusters {
		b.WriteString(lipgloss.NewStyle().
			Foreground(lipgloss.Color(colorToHex(colors[i]))).
			Render(cluster))
	}
	return b.String()
}

// GradientSpan colors a partial fill so that its colors match the same
// cells of a complete fill of total width. A half-full bar ends halfway
// between from and to instead of reaching to.
func GradientSpan(text string, total int, from, to lipgloss.Color) string {
	clusters := graphemes(text)
	if len(clusters) == 0 {
		return ""
	}
	colors := blendColors(max(total, len(clusters)), from, to)
	var b strings.Builder
	for i, cluster := range clusters {
		b.WriteString(lipgloss.NewStyle().
			Foreground(lipgloss.Color(colorToHex(colors[i]))).
			Render(cluster))
	}
	return b.String()
}

func graphemes(text string) []string {
	var clusters []string
	gr := uniseg.NewGraphemes(text)
	for gr.Next() {
		clusters = append(clusters, gr.Str())
	}
	return clusters
}

// blendColors returns a slice of colors blended between from and to.
// Blending is done in HCL color space for perceptually uniform transitions.
func blendColors(size int, from, to lipgloss.Color) []color.Color {
	if size < 2 {
		return []color.Color{from}
	}

	c1, _ := colorful.MakeColor(lipglossToColor(from))
	c2, _ := colorful.MakeColor(lipglossToColor(to))

	colors := make([]color.Color, size)
	for i := range size {
		t := float64(i) / float64(size-1)
		colors[i] = c1.BlendHcl(c2, t)
	}

	return colors
}

// lipglossToColor converts a lipgloss.Color to a color.Color.
func lipglossToColor(c lipgloss.Color) color.Color {
	hex := string(c)
	if len(hex) == 7 && hex[0] == '#' {
		col, err := colorful.Hex(hex)
		if err == nil {
			return col
		}
	}
	// Fallback for ANSI colors - return a neutral gray
	return color.RGBA{R: 128, G: 128, B: 128, A: 255}
}

// colorToHex converts a color.Color to a hex string.
func colorToHex(c color.Color) string {
	cf, ok := c.(colorful.Color)
	if ok {
		return cf.Hex()
	}
	r, g, b, _ := c.RGBA()
	return colorful.Color{
		R: float64(r) / 65535.0,
		G: float64(g) / 65535.0,
		B: float64(b) / 65535.0,
	}.Hex()
}
