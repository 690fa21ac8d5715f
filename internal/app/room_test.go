package app

import (
	"context"
	"testing"

	"github.com/jonboulle/clockwork"

	"trivia-room-service/internal/domain"
)

type recordingLedger struct {
	entries []domain.ScoreEntry
}

func (l *recordingLedger) Append(_ context.Context, entry domain.ScoreEntry) error {
	l.entries = append(l.entries, entry)
	return nil
}

func (l *recordingLedger) Entries(_ context.Context, _ string) ([]domain.ScoreEntry, error) {
	return l.entries, nil
}

func TestResolveGuardBroadcastsResync(t *testing.T) {
	room := NewRoom(domain.Room{
		ID:       "room-1",
		Settings: domain.RoomSettings{MinPlayers: 1, MaxPlayers: 2, RoundDurationSeconds: 30},
	}, domain.ContentPack{}, &recordingLedger{}, clockwork.NewFakeClock(), 0)

	_, events, cancel, err := room.Subscribe(context.Background())
	if err != nil {
		t.Fatalf("subscribe: %v", err)
	}
	defer cancel()

	// No active round: the resolve guard must refuse to resolve and tell
	// subscribers to resync from a fresh snapshot instead.
	room.mu.Lock()
	room.resolveRoundLocked(context.Background(), ResolveTimerExpired)
	room.mu.Unlock()

	select {
	case event := <-events:
		if event.Kind != domain.EventResync {
			t.Fatalf("expected resync event, got %s", event.Kind)
		}
	default:
		t.Fatalf("resolve guard broadcast nothing")
	}
}
