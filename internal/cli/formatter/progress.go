package formatter

import (
	"fmt"
	"strings"
)

const (
	filledBlock = "█"
	emptyBlock  = "░"
)

// RenderProgress renders answered/total as a bar like [████░░░░] 3/8.
// Green once complete, yellow past half, red below.
func RenderProgress(answered, total, width int) string {
	if width < 2 {
		width = 2
	}
	if total <= 0 {
		return StyleDim.Render("[" + strings.Repeat(emptyBlock, width) + "]   -")
	}
	if answered < 0 {
		answered = 0
	}
	if answered > total {
		answered = total
	}

	pct := float64(answered) / float64(total)
	filled := int(pct * float64(width))
	bar := strings.Repeat(filledBlock, filled) + strings.Repeat(emptyBlock, width-filled)

	style := StyleRed
	switch {
	case answered == total:
		style = StyleGreen
	case pct >= 0.5:
		style = StyleYellow
	}
	return fmt.Sprintf("[%s] %d/%d", style.Render(bar), answered, total)
}
