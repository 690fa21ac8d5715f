package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"trivia-room-service/internal/domain"
)

// ScoreLedger persists score entries as an append-only Redis list
// (RPUSH room:{roomID}:ledger {entry...}). Entries are only ever appended,
// so replaying the list rebuilds the leaderboard deterministically.
type ScoreLedger struct {
	client *redis.Client
	ttl    time.Duration
}

func NewScoreLedger(client *redis.Client, ttl time.Duration) *ScoreLedger {
	return &ScoreLedger{client: client, ttl: ttl}
}

func (l *ScoreLedger) Append(ctx context.Context, entry domain.ScoreEntry) error {
	data, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("marshal score entry: %w", err)
	}
	key := l.key(entry.RoomID)
	pipe := l.client.Pipeline()
	pipe.RPush(ctx, key, data)
	if l.ttl > 0 {
		pipe.Expire(ctx, key, l.ttl)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("append score entry: %w", err)
	}
	return nil
}

func (l *ScoreLedger) Entries(ctx context.Context, roomID string) ([]domain.ScoreEntry, error) {
	blobs, err := l.client.LRange(ctx, l.key(roomID), 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("read score ledger: %w", err)
	}
	entries := make([]domain.ScoreEntry, 0, len(blobs))
	for _, blob := range blobs {
		var entry domain.ScoreEntry
		if err := json.Unmarshal([]byte(blob), &entry); err != nil {
			return nil, fmt.Errorf("unmarshal score entry: %w", err)
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

func (l *ScoreLedger) key(roomID string) string {
	return "room:" + roomID + ":ledger"
}
