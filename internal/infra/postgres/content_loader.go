package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"

	"trivia-room-service/internal/domain"
)

// ContentLoader loads content-pack JSONB from Postgres.
type ContentLoader struct {
	pool *pgxpool.Pool
}

func NewContentLoader(pool *pgxpool.Pool) *ContentLoader {
	return &ContentLoader{pool: pool}
}

func (l *ContentLoader) LoadPack(ctx context.Context, packID string) (domain.ContentPack, error) {
	var raw []byte
	err := l.pool.QueryRow(ctx, `SELECT data FROM content_packs WHERE id=$1`, packID).Scan(&raw)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.ContentPack{}, domain.ErrContentNotFound
	}
	if err != nil {
		return domain.ContentPack{}, fmt.Errorf("load content pack: %w", err)
	}
	var pack domain.ContentPack
	if err := json.Unmarshal(raw, &pack); err != nil {
		return domain.ContentPack{}, fmt.Errorf("unmarshal content pack: %w", err)
	}
	if pack.ID == "" {
		pack.ID = packID
	}
	return pack, nil
}
