package redis

import (
	"context"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"

	"trivia-room-service/internal/domain"
)

func TestScoreLedgerRoundTrips(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("run miniredis: %v", err)
	}
	defer mr.Close()

	ledger := NewScoreLedger(newClient(mr), time.Minute)
	ctx := context.Background()

	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	first := domain.ScoreEntry{
		RoomID: "r1", PlayerID: "a", RoundIndex: 0,
		RawText: "Ferrari", SubmittedAt: now,
		Outcome: domain.OutcomeExact, Awarded: 100,
	}
	if err := ledger.Append(ctx, first); err != nil {
		t.Fatalf("append: %v", err)
	}
	if err := ledger.Append(ctx, domain.ScoreEntry{RoomID: "r1", PlayerID: "b", RoundIndex: 0, Outcome: domain.OutcomeIncorrect}); err != nil {
		t.Fatalf("append: %v", err)
	}

	entries, err := ledger.Entries(ctx, "r1")
	if err != nil {
		t.Fatalf("entries: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(entries))
	}
	if entries[0].PlayerID != "a" || entries[0].Awarded != 100 || !entries[0].SubmittedAt.Equal(now) {
		t.Fatalf("expected first entry preserved in order, got %+v", entries[0])
	}
}

func TestScoreLedgerEmptyRoom(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("run miniredis: %v", err)
	}
	defer mr.Close()

	ledger := NewScoreLedger(newClient(mr), time.Minute)
	entries, err := ledger.Entries(context.Background(), "nope")
	if err != nil {
		t.Fatalf("entries: %v", err)
	}
	if len(entries) != 0 {
		t.Fatalf("expected no entries, got %d", len(entries))
	}
}
