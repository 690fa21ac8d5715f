package memory

import (
	"context"
	"sync"

	"trivia-room-service/internal/domain"
)

// ScoreLedger is an in-memory append-only implementation of
// app.ScoreLedger. Entries are never mutated after append.
type ScoreLedger struct {
	mu      sync.RWMutex
	entries map[string][]domain.ScoreEntry
}

func NewScoreLedger() *ScoreLedger {
	return &ScoreLedger{
		entries: make(map[string][]domain.ScoreEntry),
	}
}

func (l *ScoreLedger) Append(_ context.Context, entry domain.ScoreEntry) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.entries[entry.RoomID] = append(l.entries[entry.RoomID], entry)
	return nil
}

func (l *ScoreLedger) Entries(_ context.Context, roomID string) ([]domain.ScoreEntry, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	entries := make([]domain.ScoreEntry, len(l.entries[roomID]))
	copy(entries, l.entries[roomID])
	return entries, nil
}
