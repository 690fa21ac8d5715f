package memory

import (
	"context"
	"testing"
	"time"

	"trivia-room-service/internal/domain"
)

func TestScoreLedgerAppendOnly(t *testing.T) {
	ctx := context.Background()
	ledger := NewScoreLedger()

	first := domain.ScoreEntry{RoomID: "r1", PlayerID: "p1", RoundIndex: 0, Outcome: domain.OutcomeExact, Awarded: 100, SubmittedAt: time.Now()}
	if err := ledger.Append(ctx, first); err != nil {
		t.Fatalf("append: %v", err)
	}
	if err := ledger.Append(ctx, domain.ScoreEntry{RoomID: "r1", PlayerID: "p2", RoundIndex: 0}); err != nil {
		t.Fatalf("append: %v", err)
	}

	entries, err := ledger.Entries(ctx, "r1")
	if err != nil {
		t.Fatalf("entries: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(entries))
	}
	if entries[0] != first {
		t.Fatalf("expected entries in append order, got %+v", entries[0])
	}

	// Mutating the returned slice must not touch the ledger.
	entries[0].Awarded = 0
	again, _ := ledger.Entries(ctx, "r1")
	if again[0].Awarded != 100 {
		t.Fatalf("ledger entry mutated through returned slice")
	}
}

func TestScoreLedgerRoomsAreIsolated(t *testing.T) {
	ctx := context.Background()
	ledger := NewScoreLedger()

	_ = ledger.Append(ctx, domain.ScoreEntry{RoomID: "r1", PlayerID: "p1"})
	entries, err := ledger.Entries(ctx, "r2")
	if err != nil {
		t.Fatalf("entries: %v", err)
	}
	if len(entries) != 0 {
		t.Fatalf("expected no entries for other room, got %d", len(entries))
	}
}
