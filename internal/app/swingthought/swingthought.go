// Package swingthought picks the feed header's daily swing thought.
package swingthought

import "time"

// thoughts is the rotation pool. The pick is a pure function of the date,
// so every launch on the same day shows the same thought.
var thoughts = []string{
	"Tempo beats speed. Count one-two on the way back, three through impact.",
	"Grip pressure at a five out of ten. Strangle nothing.",
	"Finish your backswing. Rushing the top costs you the bottom.",
	"Aim small, miss small. Pick a blade of grass, not a fairway.",
	"Let the club do the work on chips. Hands stay quiet.",
	"Commit to the shot before you stand over it.",
	"Low and slow takeaway. The first foot sets the whole swing.",
	"Balance at the finish. Hold it until the ball lands.",
}

// ForDate returns the thought for a given date. The same calendar day
// always maps to the same thought regardless of time zone wall-clock.
func ForDate(t time.Time) string {
	y, m, d := t.Date()
	seed := y + int(m) + d
	return thoughts[seed%len(thoughts)]
}

// Today returns the thought for the current day.
func Today() string {
	return ForDate(time.Now())
}
