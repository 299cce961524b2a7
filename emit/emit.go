// Package emit renders the finalized segment sequence into companion
// artifacts. Every emitter is a pure function of (segments, metadata):
// no shared state, byte-identical output for identical input, safe to
// run concurrently.
package emit

import "fmt"

// srtTimestamp formats seconds as HH:MM:SS,mmm. Milliseconds are
// truncated, not rounded, so two adjacent timestamps can never collide
// upwards.
func srtTimestamp(seconds float64) string {
	if seconds < 0 {
		seconds = 0
	}
	ms := int64(seconds * 1000)
	return fmt.Sprintf("%02d:%02d:%02d,%03d",
		ms/3600000, ms/60000%60, ms/1000%60, ms%1000)
}

// clockTimestamp formats seconds as MM:SS, growing to HH:MM:SS past an
// hour.
func clockTimestamp(seconds float64) string {
	if seconds < 0 {
		seconds = 0
	}
	total := int64(seconds)
	h, m, s := total/3600, total/60%60, total%60
	if h > 0 {
		return fmt.Sprintf("%02d:%02d:%02d", h, m, s)
	}
	return fmt.Sprintf("%02d:%02d", m, s)
}
