package redis

import (
	"context"
	"encoding/json"
	"math/rand"
	"time"

	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/singleflight"

	"trivia-room-service/internal/domain"
)

// ContentLoader fetches content packs from a backing store (e.g. Postgres).
type ContentLoader interface {
	LoadPack(ctx context.Context, packID string) (domain.ContentPack, error)
}

// ContentRepository caches content packs in Redis and falls back to a
// loader on cache miss. Items are stored as an ordered list of JSON blobs
// under content:{packID}:items; the list order is the room's round
// sequence, so it must be preserved.
type ContentRepository struct {
	client *redis.Client
	loader ContentLoader
	ttl    time.Duration
	sf     singleflight.Group
	rnd    *rand.Rand
}

func NewContentRepository(client *redis.Client, loader ContentLoader, ttl time.Duration) *ContentRepository {
	return &ContentRepository{
		client: client,
		loader: loader,
		ttl:    ttl,
		rnd:    rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

func (r *ContentRepository) GetPack(ctx context.Context, packID string) (domain.ContentPack, error) {
	key := r.itemsKey(packID)

	if pack, ok := r.packFromCache(ctx, packID, key); ok {
		return pack, nil
	}

	result, err, _ := r.sf.Do(packID, func() (interface{}, error) {
		// Re-check cache in case another goroutine filled it.
		if pack, ok := r.packFromCache(ctx, packID, key); ok {
			return pack, nil
		}

		pack, err := r.loader.LoadPack(ctx, packID)
		if err != nil {
			return domain.ContentPack{}, err
		}

		blobs := make([]interface{}, 0, len(pack.Items))
		for _, item := range pack.Items {
			data, err := json.Marshal(item)
			if err != nil {
				return domain.ContentPack{}, err
			}
			blobs = append(blobs, data)
		}
		if len(blobs) > 0 {
			pipe := r.client.Pipeline()
			pipe.Del(ctx, key)
			pipe.RPush(ctx, key, blobs...)
			if ttl := r.ttlWithJitter(); ttl > 0 {
				pipe.Expire(ctx, key, ttl)
			}
			_, _ = pipe.Exec(ctx)
		}
		return pack, nil
	})
	if err != nil {
		return domain.ContentPack{}, err
	}
	return result.(domain.ContentPack), nil
}

func (r *ContentRepository) packFromCache(ctx context.Context, packID, key string) (domain.ContentPack, bool) {
	blobs, err := r.client.LRange(ctx, key, 0, -1).Result()
	if err != nil || len(blobs) == 0 {
		return domain.ContentPack{}, false
	}
	items := make([]domain.ContentItem, 0, len(blobs))
	for _, blob := range blobs {
		var item domain.ContentItem
		if err := json.Unmarshal([]byte(blob), &item); err != nil {
			return domain.ContentPack{}, false
		}
		items = append(items, item)
	}
	return domain.ContentPack{ID: packID, Items: items}, true
}

func (r *ContentRepository) itemsKey(packID string) string {
	return "content:" + packID + ":items"
}

func (r *ContentRepository) ttlWithJitter() time.Duration {
	if r.ttl <= 0 {
		return 0
	}
	jitterMax := int64(r.ttl) / 10
	return r.ttl + time.Duration(r.rnd.Int63n(jitterMax+1))
}
