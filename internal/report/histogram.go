package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/guimove/trunkfit/internal/stats"
)

const barWidth = 40

// writeHistogram draws one horizontal bar per bin, scaled so the fullest bin
// spans barWidth characters.
func writeHistogram(w io.Writer, hist []stats.Bin, indent string) {
	peak := 0
	for _, b := range hist {
		peak = max(peak, b.Count)
	}
	if peak == 0 {
		return
	}
	for _, b := range hist {
		bar := strings.Repeat("#", b.Count*barWidth/peak)
		if b.Count > 0 && bar == "" {
			bar = "."
		}
		fmt.Fprintf(w, "%s[%.4f, %.4f] %6d %s\n", indent, b.Lo, b.Hi, b.Count, bar)
	}
}
