package app

import (
	"context"
	"time"

	"github.com/jonboulle/clockwork"

	"trivia-room-service/internal/domain"
)

// Resolution causes carried on roundResolved events.
const (
	ResolveAllAnswered  = "allAnswered"
	ResolveTimerExpired = "timerExpired"
)

// roundTimer pairs a one-shot clock timer with its cancellation signal so
// the waiting goroutine can be released when a round resolves early.
type roundTimer struct {
	timer  clockwork.Timer
	cancel chan struct{}
}

// armTimerLocked replaces any previous round timer with a one-shot timer
// for the given round. Expiry is funneled back through the room lock, never
// acted on independently, so it can't race a guess into a double resolve.
func (r *Room) armTimerLocked(index int, duration time.Duration) {
	r.cancelTimerLocked()

	rt := &roundTimer{
		timer:  r.clock.NewTimer(duration),
		cancel: make(chan struct{}),
	}
	r.timer = rt

	go func() {
		select {
		case <-rt.timer.Chan():
			r.handleExpiry(index)
		case <-rt.cancel:
			stopAndDrainTimer(rt.timer)
		}
	}()
}

// cancelTimerLocked releases the active timer. Canceling an already-fired
// or already-canceled timer is a no-op.
func (r *Room) cancelTimerLocked() {
	if r.timer != nil {
		close(r.timer.cancel)
		r.timer = nil
	}
}

// handleExpiry is the timer's entry into the room's serialization point. A
// fire for a round that already resolved (all players answered in the same
// pass, or a later round started) is dropped.
func (r *Room) handleExpiry(index int) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed || r.info.Status != domain.RoomPlaying {
		return
	}
	if r.round == nil || r.round.Index != index || r.round.Status != domain.RoundActive {
		return
	}
	r.resolveRoundLocked(context.Background(), ResolveTimerExpired)
}

// stopAndDrainTimer stops a timer and drains its channel if it already
// fired, per the time.Timer.Stop contract.
func stopAndDrainTimer(timer clockwork.Timer) {
	if !timer.Stop() {
		select {
		case <-timer.Chan():
		default:
		}
	}
}
