package emit

import (
	"fmt"
	"strings"

	"github.com/dgnsrekt/vocalize/segment"
)

// SRT renders the segments as a SubRip subtitle file. Block numbers are
// 1-based and contiguous regardless of the segments' own indices, and
// timestamps carry millisecond granularity via truncation.
func SRT(segments []segment.Segment, _ segment.Metadata) []byte {
	var b strings.Builder

	for i, s := range segments {
		fmt.Fprintf(&b, "%d\n", i+1)
		fmt.Fprintf(&b, "%s --> %s\n", srtTimestamp(s.StartTime), srtTimestamp(s.EndTime))
		b.WriteString(strings.TrimSpace(s.Text))
		b.WriteString("\n\n")
	}

	return []byte(b.String())
}
