package playerbar

import (
	"fmt"

	"github.com/llehouerou/tempo/internal/icons"
	"github.com/llehouerou/tempo/internal/ui/styles"
)

// RenderVolume renders the volume indicator, e.g. "vol  80%".
// A muted session shows the mute icon and 0%.
func RenderVolume(volume int, muted bool) string {
	icon := icons.Volume()
	if muted {
		icon = icons.Mute()
		volume = 0
	}
	return styles.T().S().Muted.Render(fmt.Sprintf("%s %3d%%", icon, volume))
}
