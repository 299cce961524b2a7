package emit

import (
	"encoding/json"

	"github.com/dgnsrekt/vocalize/segment"
)

// ViewerPayload is the structured document consumed by the interactive
// viewer. The presentation layer resolves the active segment on every
// playback-position update with segment.SegmentAt: the active segment
// is the one whose [startTime, endTime) interval contains the current
// time, with the final interval closed on the right.
type ViewerPayload struct {
	Metadata segment.Metadata  `json:"metadata"`
	Segments []segment.Segment `json:"segments"`
}

// Viewer renders the segments and metadata as the JSON payload for the
// interactive viewer.
func Viewer(segments []segment.Segment, meta segment.Metadata) ([]byte, error) {
	if segments == nil {
		segments = []segment.Segment{}
	}
	payload := ViewerPayload{
		Metadata: meta,
		Segments: segments,
	}
	out, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		return nil, err
	}
	return append(out, '\n'), nil
}
