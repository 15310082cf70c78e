package markdown

import (
	"math"
	"strings"
)

// partialBlocks are the eighth-width block characters, indexed by eighths.
var partialBlocks = []string{"", "▏", "▎", "▍", "▌", "▋", "▊", "▉"}

// ProgressBar renders completed/total as a fixed-width bar of Unicode
// block characters wrapped in an inline code span.
func ProgressBar(completed, total, width int) string {
	if width < 1 {
		width = 1
	}
	if total <= 0 {
		return "`[" + strings.Repeat(" ", width) + "]`"
	}

	frac := min(max(float64(completed)/float64(total), 0), 1)
	if width == 1 {
		if frac >= 0.5 {
			return "`[█]`"
		}
		return "`[ ]`"
	}

	filled := frac * float64(width)
	full := int(filled)
	eighths := int(math.Round((filled - float64(full)) * 8))

	var b strings.Builder
	b.WriteString("`[")
	b.WriteString(strings.Repeat("█", full))
	if full < width {
		if eighths > 0 && eighths < 8 {
			b.WriteString(partialBlocks[eighths])
			b.WriteString(strings.Repeat(" ", width-full-1))
		} else {
			b.WriteString(strings.Repeat(" ", width-full))
		}
	}
	b.WriteString("]`")
	return b.String()
}
