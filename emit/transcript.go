package emit

import (
	"fmt"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/muesli/reflow/wordwrap"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/dgnsrekt/vocalize/segment"
)

// transcriptWidth is the wrap column for segment bodies.
const transcriptWidth = 80

// Transcript renders the segments as a navigable markdown document: a
// metadata header, a table of contents keyed by preview and timestamp,
// and one timestamped block per segment with quoted speech set off as
// a blockquote.
func Transcript(segments []segment.Segment, meta segment.Metadata) []byte {
	var b strings.Builder
	printer := message.NewPrinter(language.English)

	title := meta.Title
	if title == "" {
		title = "Transcript"
	}
	fmt.Fprintf(&b, "# %s\n\n", title)

	if meta.Source != "" {
		fmt.Fprintf(&b, "- Source: `%s`\n", meta.Source)
	}
	if meta.Engine != "" {
		fmt.Fprintf(&b, "- Engine: `%s`\n", meta.Engine)
	}
	if meta.Voice != "" {
		fmt.Fprintf(&b, "- Voice: `%s`\n", meta.Voice)
	}
	if !meta.GeneratedAt.IsZero() {
		fmt.Fprintf(&b, "- Generated: %s\n", meta.GeneratedAt.Format(time.RFC3339))
	}
	if meta.Duration > 0 {
		fmt.Fprintf(&b, "- Duration: %s\n", clockTimestamp(meta.Duration))
	}
	printer.Fprintf(&b, "- Words: %d (about %s of reading)\n", meta.WordCount, readingTime(meta.ReadingTime))
	printer.Fprintf(&b, "- Segments: %d\n", meta.SegmentCount)
	if meta.TimingEstimated {
		b.WriteString("- Note: timings are estimated from the speaking rate, not measured\n")
	}
	if meta.TimingUnavailable {
		b.WriteString("- Note: timing unavailable\n")
	}
	b.WriteString("\n---\n\n")

	if len(segments) == 0 {
		b.WriteString("*No speakable text.*\n")
		return []byte(b.String())
	}

	b.WriteString("## Contents\n\n")
	for _, s := range segments {
		fmt.Fprintf(&b, "- **%s** %s\n", clockTimestamp(s.StartTime), s.Preview)
	}
	b.WriteString("\n---\n\n")

	b.WriteString("## Transcript\n\n")
	for _, s := range segments {
		fmt.Fprintf(&b, "**[%s → %s]**\n\n",
			clockTimestamp(s.StartTime), clockTimestamp(s.EndTime))

		body := wordwrap.String(strings.TrimSpace(s.Text), transcriptWidth)
		if s.IsQuote {
			for _, line := range strings.Split(body, "\n") {
				fmt.Fprintf(&b, "> %s\n", line)
			}
			b.WriteString("\n")
		} else {
			b.WriteString(body)
			b.WriteString("\n\n")
		}
	}

	return []byte(b.String())
}

// readingTime humanizes a silent-reading duration.
func readingTime(d time.Duration) string {
	if d < time.Minute {
		return "a minute"
	}
	return strings.TrimSpace(humanize.RelTime(time.Time{}, time.Time{}.Add(d), "", ""))
}
