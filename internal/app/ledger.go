package app

import (
	"context"
	"sort"
	"time"

	"trivia-room-service/internal/domain"
)

// ScoreLedger is an append-only log of scored guesses. Entries are never
// mutated or deleted while a room lives, so folding them is idempotent and
// the leaderboard can be rebuilt from scratch after a reconnect.
type ScoreLedger interface {
	Append(ctx context.Context, entry domain.ScoreEntry) error
	Entries(ctx context.Context, roomID string) ([]domain.ScoreEntry, error)
}

// FoldLeaderboard derives the ordered scoreboard for a room from its ledger
// entries. displayNames maps player id to name for presentation. Ordering:
// total descending, ties broken by who reached their final total earlier,
// then by display name.
func FoldLeaderboard(roomID string, displayNames map[string]string, entries []domain.ScoreEntry, now time.Time) domain.Leaderboard {
	totals := make(map[string]int, len(displayNames))
	reachedAt := make(map[string]time.Time, len(displayNames))

	for id := range displayNames {
		totals[id] = 0
	}
	for _, entry := range entries {
		if entry.RoomID != roomID {
			continue
		}
		if _, known := totals[entry.PlayerID]; !known {
			totals[entry.PlayerID] = 0
		}
		if entry.Awarded > 0 {
			totals[entry.PlayerID] += entry.Awarded
			reachedAt[entry.PlayerID] = entry.SubmittedAt
		}
	}

	rows := make([]domain.LeaderboardEntry, 0, len(totals))
	for id, total := range totals {
		name := displayNames[id]
		if name == "" {
			name = id
		}
		rows = append(rows, domain.LeaderboardEntry{
			PlayerID:    id,
			DisplayName: name,
			Total:       total,
		})
	}

	sort.Slice(rows, func(i, j int) bool {
		if rows[i].Total != rows[j].Total {
			return rows[i].Total > rows[j].Total
		}
		ti, tj := reachedAt[rows[i].PlayerID], reachedAt[rows[j].PlayerID]
		if !ti.Equal(tj) {
			return ti.Before(tj)
		}
		return rows[i].DisplayName < rows[j].DisplayName
	})

	return domain.Leaderboard{
		RoomID:    roomID,
		Entries:   rows,
		UpdatedAt: now,
	}
}
