package app

import (
	"testing"
	"time"

	"trivia-room-service/internal/domain"
)

func TestAwardPointsDecaysMonotonically(t *testing.T) {
	duration := 30 * time.Second

	prev := awardPoints(domain.OutcomeExact, 0, 0, duration)
	if prev != DefaultBasePoints {
		t.Fatalf("expected full points at round start, got %d", prev)
	}
	for elapsed := time.Second; elapsed <= duration; elapsed += time.Second {
		points := awardPoints(domain.OutcomeExact, 0, elapsed, duration)
		if points > prev {
			t.Fatalf("award increased over time: %d -> %d at %s", prev, points, elapsed)
		}
		prev = points
	}
	if prev != DefaultBasePoints/2 {
		t.Fatalf("expected half points at the deadline, got %d", prev)
	}
}

func TestAwardPointsCloseIsHalfExact(t *testing.T) {
	duration := 30 * time.Second
	for _, elapsed := range []time.Duration{0, 10 * time.Second, duration} {
		exact := awardPoints(domain.OutcomeExact, 0, elapsed, duration)
		closeAward := awardPoints(domain.OutcomeClose, 0, elapsed, duration)
		if closeAward != exact/2 {
			t.Fatalf("at %s expected close=%d to be half of exact=%d", elapsed, closeAward, exact)
		}
	}
}

func TestAwardPointsEdges(t *testing.T) {
	if got := awardPoints(domain.OutcomeIncorrect, 0, 0, time.Minute); got != 0 {
		t.Fatalf("incorrect must award zero, got %d", got)
	}
	// Elapsed beyond the deadline clamps to the deadline award.
	late := awardPoints(domain.OutcomeExact, 0, 2*time.Minute, time.Minute)
	atDeadline := awardPoints(domain.OutcomeExact, 0, time.Minute, time.Minute)
	if late != atDeadline {
		t.Fatalf("expected clamped award %d, got %d", atDeadline, late)
	}
	// Custom per-item base points.
	if got := awardPoints(domain.OutcomeExact, 40, 0, time.Minute); got != 40 {
		t.Fatalf("expected custom base 40, got %d", got)
	}
}
