package segment

// AssignTimings distributes totalSeconds of audio across the segments
// in place and returns the same slice. Each segment is weighted by its
// character count, a proxy for speech duration since true phoneme
// timing is not available from the synthesis providers. Start times are
// a running sum, so adjacent segments share boundaries exactly; the
// final end time is clamped to totalSeconds to absorb rounding drift.
//
// A non-positive duration or an empty slice produces zero-width
// timings rather than an error: downstream emitters still need valid,
// if degenerate, output.
func AssignTimings(segments []Segment, totalSeconds float64) []Segment {
	if len(segments) == 0 {
		return segments
	}

	totalChars := 0
	for _, s := range segments {
		totalChars += s.CharCount()
	}

	if totalSeconds <= 0 || totalChars == 0 {
		for i := range segments {
			segments[i].StartTime = 0
			segments[i].EndTime = 0
		}
		return segments
	}

	cursor := 0.0
	for i := range segments {
		share := totalSeconds * float64(segments[i].CharCount()) / float64(totalChars)
		segments[i].StartTime = cursor
		cursor += share
		segments[i].EndTime = cursor
	}
	segments[len(segments)-1].EndTime = totalSeconds

	return segments
}

// EstimateTimings assigns timings from a words-per-minute speaking
// model, for use before any audio exists (progress display, watch
// mode). It returns the segments and the estimated total duration in
// seconds.
func EstimateTimings(segments []Segment, wordsPerMinute float64) ([]Segment, float64) {
	if len(segments) == 0 || wordsPerMinute <= 0 {
		return AssignTimings(segments, 0), 0
	}

	words := 0
	for _, s := range segments {
		words += s.WordCount()
	}

	total := float64(words) / wordsPerMinute * 60
	return AssignTimings(segments, total), total
}

// SegmentAt returns the index of the segment active at playback time t:
// the one whose interval [StartTime, EndTime) contains t, with the
// final segment's interval closed on the right. Returns -1 for an empty
// slice or a time before the first segment.
func SegmentAt(segments []Segment, t float64) int {
	if len(segments) == 0 || t < segments[0].StartTime {
		return -1
	}
	for i, s := range segments {
		if t >= s.StartTime && t < s.EndTime {
			return i
		}
	}
	if last := segments[len(segments)-1]; t <= last.EndTime {
		return len(segments) - 1
	}
	return -1
}
