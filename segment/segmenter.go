package segment

import (
	"unicode"
	"unicode/utf8"
)

// Splitter partitions cleaned text into segments bounded by
// Options.MaxSegmentLength, preferring sentence boundaries from its
// detector and falling back to whitespace or hard cuts only when a
// single sentence exceeds the limit.
type Splitter struct {
	detector *Detector
	opts     Options
}

// NewSplitter creates a splitter with the given options and the
// default boundary detector.
func NewSplitter(opts Options) *Splitter {
	return &Splitter{detector: NewDetector(), opts: opts}
}

// NewSplitterWithDetector creates a splitter using a custom detector.
func NewSplitterWithDetector(d *Detector, opts Options) *Splitter {
	if d == nil {
		d = NewDetector()
	}
	return &Splitter{detector: d, opts: opts}
}

// Split partitions text into ordered segments with text-only fields
// populated; timing fields stay zero until a timing pass runs. Empty
// or whitespace-only input yields an empty slice, not an error.
func Split(text string, opts Options) []Segment {
	return NewSplitter(opts).Split(text)
}

// Split partitions text into ordered segments.
func (s *Splitter) Split(text string) []Segment {
	units := s.sentenceUnits(text)
	if len(units) == 0 {
		return nil
	}

	packed := s.pack(text, units)
	spans := s.detector.QuoteSpans(text)

	segments := make([]Segment, 0, len(packed))
	for i, sp := range packed {
		body := text[sp.start:sp.end]
		segments = append(segments, Segment{
			Index:   i,
			Text:    body,
			Start:   sp.start,
			End:     sp.end,
			IsQuote: quoted(spans, sp.start, sp.end),
			Preview: makePreview(body),
		})
	}
	return segments
}

// textSpan is a trimmed byte range of the input.
type textSpan struct {
	start, end int
}

// sentenceUnits slices text at sentence-end boundaries, then force-
// splits any unit still longer than the maximum.
func (s *Splitter) sentenceUnits(text string) []textSpan {
	var units []textSpan

	last := 0
	for _, b := range s.detector.Detect(text) {
		if b.Kind != SentenceEnd {
			continue
		}
		if sp, ok := trimSpan(text, last, b.Offset); ok {
			units = append(units, sp)
		}
		last = b.Offset
	}
	if sp, ok := trimSpan(text, last, len(text)); ok {
		units = append(units, sp)
	}

	// Oversized sentences get force-split so that every unit fits.
	var fitted []textSpan
	for _, u := range units {
		if runeLen(text, u) <= s.opts.MaxSegmentLength {
			fitted = append(fitted, u)
			continue
		}
		fitted = append(fitted, s.forceSplit(text, u)...)
	}
	return fitted
}

// forceSplit breaks an oversized sentence at the last whitespace within
// the limit, or at exactly the limit when a single unbroken token is
// longer than the maximum (pathological input such as very long URLs
// gets hard-truncated mid-token).
func (s *Splitter) forceSplit(text string, u textSpan) []textSpan {
	var pieces []textSpan
	cur := u.start

	for cur < u.end {
		rest := textSpan{start: cur, end: u.end}
		if runeLen(text, rest) <= s.opts.MaxSegmentLength {
			if sp, ok := trimSpan(text, rest.start, rest.end); ok {
				pieces = append(pieces, sp)
			}
			break
		}

		limit := byteOffsetAfterRunes(text, cur, s.opts.MaxSegmentLength)
		cut := lastWhitespace(text, cur, limit)
		if cut <= cur {
			cut = limit
		}

		if sp, ok := trimSpan(text, cur, cut); ok {
			pieces = append(pieces, sp)
		}
		cur = skipWhitespace(text, cut, u.end)
	}
	return pieces
}

// pack accumulates sentence units into segments: a segment closes at
// the first sentence boundary where it has reached the minimum length,
// or early when appending the next unit would exceed the maximum.
func (s *Splitter) pack(text string, units []textSpan) []textSpan {
	var out []textSpan
	cur := textSpan{start: -1}

	for _, u := range units {
		switch {
		case cur.start < 0:
			cur = u
		case runeLen(text, textSpan{start: cur.start, end: u.end}) > s.opts.MaxSegmentLength:
			out = append(out, cur)
			cur = u
		default:
			cur.end = u.end
		}

		if runeLen(text, cur) >= s.opts.MinSegmentLength {
			out = append(out, cur)
			cur = textSpan{start: -1}
		}
	}

	if cur.start >= 0 {
		// A trailing remainder below the minimum joins the previous
		// segment rather than standing alone, unless it is all there is
		// or the merge would burst the maximum.
		if len(out) > 0 {
			prev := out[len(out)-1]
			merged := textSpan{start: prev.start, end: cur.end}
			if runeLen(text, merged) <= s.opts.MaxSegmentLength {
				out[len(out)-1] = merged
				return out
			}
		}
		out = append(out, cur)
	}
	return out
}

// trimSpan shrinks [start, end) to exclude surrounding whitespace.
func trimSpan(text string, start, end int) (textSpan, bool) {
	for start < end {
		r, size := utf8.DecodeRuneInString(text[start:end])
		if !unicode.IsSpace(r) {
			break
		}
		start += size
	}
	for end > start {
		r, size := utf8.DecodeLastRuneInString(text[start:end])
		if !unicode.IsSpace(r) {
			break
		}
		end -= size
	}
	if start >= end {
		return textSpan{}, false
	}
	return textSpan{start: start, end: end}, true
}

func runeLen(text string, sp textSpan) int {
	return utf8.RuneCountInString(text[sp.start:sp.end])
}

// byteOffsetAfterRunes returns the byte offset after counting n runes
// from start.
func byteOffsetAfterRunes(text string, start, n int) int {
	off := start
	for i := 0; i < n && off < len(text); i++ {
		_, size := utf8.DecodeRuneInString(text[off:])
		off += size
	}
	return off
}

// lastWhitespace returns the byte offset of the last whitespace rune in
// [start, end), or start when there is none.
func lastWhitespace(text string, start, end int) int {
	last := start
	for off := start; off < end; {
		r, size := utf8.DecodeRuneInString(text[off:])
		if unicode.IsSpace(r) {
			last = off
		}
		off += size
	}
	return last
}

func skipWhitespace(text string, start, end int) int {
	for start < end {
		r, size := utf8.DecodeRuneInString(text[start:end])
		if !unicode.IsSpace(r) {
			break
		}
		start += size
	}
	return start
}
