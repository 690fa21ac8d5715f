package app

import (
	"time"

	"trivia-room-service/internal/domain"
)

// DefaultBasePoints is the award for an instant exact answer when the
// content item does not set its own point value.
const DefaultBasePoints = 100

// awardPoints computes the score for a scored guess. Exact answers decay
// linearly from base at round start to base/2 at the deadline; close answers
// get half the exact award at the same instant. The decay is monotone
// non-increasing in elapsed time, so an earlier correct answer never scores
// below a later one.
func awardPoints(outcome domain.Outcome, base int, elapsed, duration time.Duration) int {
	if outcome == domain.OutcomeIncorrect {
		return 0
	}
	if base <= 0 {
		base = DefaultBasePoints
	}
	if duration <= 0 {
		duration = time.Second
	}
	if elapsed < 0 {
		elapsed = 0
	}
	if elapsed > duration {
		elapsed = duration
	}

	decay := int(int64(base/2) * int64(elapsed) / int64(duration))
	points := base - decay
	if outcome == domain.OutcomeClose {
		points /= 2
	}
	if points < 1 {
		points = 1
	}
	return points
}
