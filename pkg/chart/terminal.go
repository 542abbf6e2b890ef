package chart

import (
	"fmt"
	"io"
	"strings"

	"github.com/mattn/go-runewidth"
)

const barWidth = 40

// Terminal writes a bar-per-category rendering of the entries. Labels are
// padded by display width so multibyte category names keep the bars aligned.
func Terminal(w io.Writer, entries []Entry) {
	maxLabel := 0
	for _, e := range entries {
		if lw := runewidth.StringWidth(e.Label); lw > maxLabel {
			maxLabel = lw
		}
	}

	for _, e := range entries {
		filled := int(clamp(e.Score) / 100 * barWidth)
		bar := strings.Repeat("█", filled) + strings.Repeat("░", barWidth-filled)
		fmt.Fprintf(w, "%s  %s %6.2f\n", runewidth.FillRight(e.Label, maxLabel), bar, e.Score)
	}
}
