package segment

import (
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"
)

// BoundaryKind classifies a boundary candidate.
type BoundaryKind int

const (
	// SentenceEnd marks the first offset after a completed sentence.
	SentenceEnd BoundaryKind = iota
	// QuoteStart marks the opening mark of a balanced quote span.
	QuoteStart
	// QuoteEnd marks the first offset after the closing mark.
	QuoteEnd
)

// String returns a readable name for the boundary kind.
func (k BoundaryKind) String() string {
	switch k {
	case SentenceEnd:
		return "sentence-end"
	case QuoteStart:
		return "quote-start"
	case QuoteEnd:
		return "quote-end"
	default:
		return "unknown"
	}
}

// Boundary is a candidate split point in the cleaned input text.
type Boundary struct {
	Offset     int
	Kind       BoundaryKind
	Confidence float64
}

// Span is a half-open byte range [Start, End) covering a balanced
// quote, including the quotation marks themselves.
type Span struct {
	Start int
	End   int
}

// Contains reports whether the range [start, end) lies inside the span.
func (s Span) Contains(start, end int) bool {
	return s.Start <= start && end <= s.End
}

// BoundaryClassifier decides whether a period-terminated token is an
// abbreviation rather than a sentence end. Tokens arrive in their
// original case. Swapping the classifier adds support for other
// languages without touching the segmenter.
type BoundaryClassifier interface {
	IsAbbreviation(word string) bool
}

// abbreviationSet is the default English classifier backed by a static
// lookup table.
type abbreviationSet map[string]struct{}

func (s abbreviationSet) IsAbbreviation(word string) bool {
	word = strings.ToLower(strings.TrimSuffix(word, "."))
	_, ok := s[word]
	return ok
}

// englishAbbreviations builds the default abbreviation lookup set.
func englishAbbreviations() abbreviationSet {
	words := []string{
		"mr", "mrs", "ms", "dr", "prof", "sr", "jr",
		"ph.d", "m.d", "b.a", "m.a", "b.s",
		"llc", "inc", "ltd", "co", "corp",
		"i.e", "e.g", "etc", "vs", "cf", "al", "approx",
		"jan", "feb", "mar", "apr", "jun", "jul", "aug", "sep", "sept", "oct", "nov", "dec",
		"mon", "tue", "wed", "thu", "fri", "sat", "sun",
		"st", "rd", "ave", "blvd", "ln", "ct", "dept", "est",
		"u.s", "u.k", "u.n", "e.u", "n.y", "l.a",
		"ft", "lbs", "oz", "kg", "km", "cm", "mm", "mi", "yd",
		"hr", "hrs", "min", "mins", "sec", "secs", "no", "nos", "vol", "vols",
	}
	set := make(abbreviationSet, len(words))
	for _, w := range words {
		set[w] = struct{}{}
	}
	return set
}

// Detection confidence levels. Sentence-end detection is heuristic:
// abbreviations missing from the lookup set still cause false splits.
const (
	confidenceCertain = 1.0
	confidenceLikely  = 0.9
	confidenceLenient = 0.7
)

// quotePairs maps opening quotation marks to their closing
// counterparts. The straight double quote pairs with itself; straight
// single quotes are ignored entirely because they are indistinguishable
// from apostrophes.
var quotePairs = map[rune]rune{
	'"': '"',
	'“': '”',
	'‘': '’',
	'«': '»',
}

var quoteClosers = map[rune]struct{}{
	'"': {},
	'”': {},
	'’': {},
	'»': {},
}

// Detector finds sentence-end and quote boundaries in cleaned text.
type Detector struct {
	classifier BoundaryClassifier
}

// NewDetector creates a detector with the default English
// abbreviation classifier.
func NewDetector() *Detector {
	return &Detector{classifier: englishAbbreviations()}
}

// NewDetectorWithClassifier creates a detector with a custom
// abbreviation classifier.
func NewDetectorWithClassifier(c BoundaryClassifier) *Detector {
	if c == nil {
		return NewDetector()
	}
	return &Detector{classifier: c}
}

// Detect returns all boundary candidates in text, ordered by offset.
// Quote boundaries are only reported for balanced pairs; an
// unterminated quote degrades to plain narrative rather than failing.
func (d *Detector) Detect(text string) []Boundary {
	runes, offs := decode(text)

	boundaries := d.sentenceEnds(runes, offs)
	spans := scanQuotes(runes, offs)
	for _, sp := range spans {
		boundaries = append(boundaries,
			Boundary{Offset: sp.Start, Kind: QuoteStart, Confidence: confidenceCertain},
			Boundary{Offset: sp.End, Kind: QuoteEnd, Confidence: confidenceCertain},
		)
	}

	sort.SliceStable(boundaries, func(i, j int) bool {
		return boundaries[i].Offset < boundaries[j].Offset
	})
	return boundaries
}

// QuoteSpans returns all balanced quote spans in text, ordered by
// start offset. Unterminated openers are dropped.
func (d *Detector) QuoteSpans(text string) []Span {
	runes, offs := decode(text)
	return scanQuotes(runes, offs)
}

// decode splits text into runes plus a byte-offset table. offs has one
// extra entry holding len(text) so offs[i+1] is always valid.
func decode(text string) ([]rune, []int) {
	runes := make([]rune, 0, len(text))
	offs := make([]int, 0, len(text)+1)
	for off, r := range text {
		runes = append(runes, r)
		offs = append(offs, off)
	}
	offs = append(offs, len(text))
	return runes, offs
}

// sentenceEnds locates sentence-terminating punctuation, skipping
// abbreviations, decimal numbers and ellipses.
func (d *Detector) sentenceEnds(runes []rune, offs []int) []Boundary {
	var boundaries []Boundary

	for i := 0; i < len(runes); i++ {
		r := runes[i]
		if r != '.' && r != '!' && r != '?' {
			continue
		}

		// Collect the whole punctuation run ("?!", "...").
		punctEnd := i + 1
		for punctEnd < len(runes) && isSentencePunct(runes[punctEnd]) {
			punctEnd++
		}

		// Closing quotes and brackets belong to the sentence.
		for punctEnd < len(runes) && isCloser(runes[punctEnd]) {
			punctEnd++
		}

		conf, ok := d.classify(runes, i, punctEnd)
		if ok {
			boundaries = append(boundaries, Boundary{
				Offset:     offs[punctEnd],
				Kind:       SentenceEnd,
				Confidence: conf,
			})
		}
		i = punctEnd - 1
	}

	return boundaries
}

// classify decides whether the punctuation starting at pos really ends
// a sentence. punctEnd is the index after the run and any closers.
func (d *Detector) classify(runes []rune, pos, punctEnd int) (float64, bool) {
	punct := runes[pos]

	// An ellipsis trails off rather than ending the sentence.
	if punct == '.' && pos+2 < len(runes) && runes[pos+1] == '.' && runes[pos+2] == '.' {
		return 0, false
	}

	if punct == '.' {
		word := wordBefore(runes, pos)
		if word != "" {
			if d.classifier.IsAbbreviation(word) {
				return 0, false
			}
			// Multi-part abbreviations like "Ph.D." or "U.S." carry
			// interior periods.
			if strings.Count(strings.TrimSuffix(word, "."), ".") > 0 {
				return 0, false
			}
			// A single uppercase letter is almost always an initial.
			if r, size := utf8.DecodeRuneInString(word); unicode.IsUpper(r) && word[size:] == "." {
				return 0, false
			}
		}

		// Decimal numbers: digit on both sides of the period.
		if pos > 0 && pos+1 < len(runes) &&
			unicode.IsDigit(runes[pos-1]) && unicode.IsDigit(runes[pos+1]) {
			return 0, false
		}
	}

	if punctEnd >= len(runes) {
		return confidenceCertain, true
	}

	// A sentence boundary requires whitespace after the punctuation.
	if !unicode.IsSpace(runes[punctEnd]) {
		return 0, false
	}
	next := punctEnd
	for next < len(runes) && unicode.IsSpace(runes[next]) {
		next++
	}
	if next >= len(runes) {
		return confidenceCertain, true
	}

	switch {
	case unicode.IsUpper(runes[next]) || isOpener(runes[next]):
		return confidenceCertain, true
	case unicode.IsDigit(runes[next]):
		return confidenceLikely, true
	case punct == '!' || punct == '?':
		// Exclamations and questions end sentences even before a
		// lowercase continuation.
		return confidenceLenient, true
	default:
		return 0, false
	}
}

// wordBefore returns the whitespace-delimited token ending at pos,
// including the period at pos, in its original case so callers can
// still distinguish initials from ordinary words.
func wordBefore(runes []rune, pos int) string {
	start := pos - 1
	for start >= 0 && !unicode.IsSpace(runes[start]) {
		start--
	}
	if start+1 > pos {
		return ""
	}
	return string(runes[start+1 : pos+1])
}

func isSentencePunct(r rune) bool {
	return r == '.' || r == '!' || r == '?'
}

func isCloser(r rune) bool {
	if r == ')' || r == ']' {
		return true
	}
	_, ok := quoteClosers[r]
	return ok
}

func isOpener(r rune) bool {
	if r == '(' || r == '[' {
		return true
	}
	_, ok := quotePairs[r]
	return ok
}

// openQuote tracks one unmatched opening mark on the quote stack.
type openQuote struct {
	r   rune
	off int
}

// scanQuotes matches quotation marks with a stack and returns balanced
// spans. Openers still on the stack at end of text are discarded, so a
// missing closing quote never poisons the rest of the document.
func scanQuotes(runes []rune, offs []int) []Span {
	var stack []openQuote
	var spans []Span

	for i, r := range runes {
		closer, opens := quotePairs[r]
		_, closes := quoteClosers[r]

		switch {
		case opens && closer == r:
			// Straight double quote: closes the top of stack if it
			// opened with the same mark, otherwise opens a new span.
			if n := len(stack); n > 0 && stack[n-1].r == r {
				top := stack[n-1]
				stack = stack[:n-1]
				spans = append(spans, Span{Start: top.off, End: offs[i] + utf8.RuneLen(r)})
			} else {
				stack = append(stack, openQuote{r: r, off: offs[i]})
			}
		case opens:
			stack = append(stack, openQuote{r: r, off: offs[i]})
		case closes:
			if n := len(stack); n > 0 && quotePairs[stack[n-1].r] == r {
				top := stack[n-1]
				stack = stack[:n-1]
				spans = append(spans, Span{Start: top.off, End: offs[i] + utf8.RuneLen(r)})
			}
			// A closer without a matching opener is ignored.
		}
	}

	sort.Slice(spans, func(i, j int) bool { return spans[i].Start < spans[j].Start })
	return spans
}

// quoted reports whether the byte range [start, end) should be treated
// as quoted speech: either fully enclosed in a balanced span, or
// containing at least one complete span.
func quoted(spans []Span, start, end int) bool {
	for _, sp := range spans {
		if sp.Contains(start, end) {
			return true
		}
		if start <= sp.Start && sp.End <= end {
			return true
		}
	}
	return false
}
