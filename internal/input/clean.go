package input

import (
	"regexp"
	"strings"
	"unicode"
)

var (
	urlPattern      = regexp.MustCompile(`https?://\S+`)
	emailPattern    = regexp.MustCompile(`\S+@\S+\.\S+`)
	ellipsisPattern = regexp.MustCompile(`\.{4,}`)
	whitespaceRun   = regexp.MustCompile(`\s+`)

	// A terminator glued to a following capital usually marks a
	// missing space between sentences. Two word characters must
	// precede the terminator so dotted abbreviations like "U.S."
	// keep their shape; the lowercase case is left alone so "e.g."
	// survives.
	missingSpace = regexp.MustCompile(`(\w\w)([.!?])([A-Z])`)
)

// Clean normalizes text for synthesis: URLs and email addresses are
// dropped (speaking them aloud is noise), whitespace runs collapse to
// single spaces, long period runs become a plain ellipsis, and control
// characters are removed. Quote marks and dashes pass through
// untouched since they carry meaning for segmentation.
func Clean(text string) string {
	if text == "" {
		return ""
	}

	text = urlPattern.ReplaceAllString(text, "")
	text = emailPattern.ReplaceAllString(text, "")
	text = ellipsisPattern.ReplaceAllString(text, "...")
	text = missingSpace.ReplaceAllString(text, "$1$2 $3")

	text = strings.Map(func(r rune) rune {
		if unicode.IsControl(r) && !unicode.IsSpace(r) {
			return -1
		}
		return r
	}, text)

	return strings.TrimSpace(whitespaceRun.ReplaceAllString(text, " "))
}
