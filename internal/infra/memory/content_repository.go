package memory

import (
	"context"
	"math/rand"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"trivia-room-service/internal/domain"
)

// ContentLoader fetches content packs from a backing store (e.g. Postgres).
type ContentLoader interface {
	LoadPack(ctx context.Context, packID string) (domain.ContentPack, error)
}

// ContentRepository caches content packs with TTL to avoid repeated DB hits.
type ContentRepository struct {
	loader ContentLoader
	ttl    time.Duration
	clock  func() time.Time
	sf     singleflight.Group
	rnd    *rand.Rand

	mu    sync.RWMutex
	cache map[string]cachedPack
}

type cachedPack struct {
	pack      domain.ContentPack
	expiresAt time.Time
}

func NewContentRepository(loader ContentLoader, ttl time.Duration) *ContentRepository {
	return &ContentRepository{
		loader: loader,
		ttl:    ttl,
		clock:  time.Now,
		rnd:    rand.New(rand.NewSource(time.Now().UnixNano())),
		cache:  make(map[string]cachedPack),
	}
}

func (r *ContentRepository) GetPack(ctx context.Context, packID string) (domain.ContentPack, error) {
	now := r.clock()

	r.mu.RLock()
	if entry, ok := r.cache[packID]; ok && entry.expiresAt.After(now) {
		r.mu.RUnlock()
		return entry.pack, nil
	}
	r.mu.RUnlock()

	result, err, _ := r.sf.Do(packID, func() (interface{}, error) {
		now := r.clock()
		r.mu.RLock()
		if entry, ok := r.cache[packID]; ok && entry.expiresAt.After(now) {
			r.mu.RUnlock()
			return entry.pack, nil
		}
		r.mu.RUnlock()

		pack, err := r.loader.LoadPack(ctx, packID)
		if err != nil {
			return domain.ContentPack{}, err
		}

		r.mu.Lock()
		r.cache[packID] = cachedPack{
			pack:      pack,
			expiresAt: now.Add(r.ttlWithJitter()),
		}
		r.mu.Unlock()
		return pack, nil
	})
	if err != nil {
		return domain.ContentPack{}, err
	}
	return result.(domain.ContentPack), nil
}

// StaticContentLoader is a loader backed by an in-memory map (useful for
// tests/demos and for running without Postgres).
type StaticContentLoader struct {
	packs map[string]domain.ContentPack
}

func NewStaticContentLoader(packs map[string]domain.ContentPack) *StaticContentLoader {
	return &StaticContentLoader{packs: packs}
}

func (l *StaticContentLoader) LoadPack(_ context.Context, packID string) (domain.ContentPack, error) {
	if pack, ok := l.packs[packID]; ok {
		return pack, nil
	}
	return domain.ContentPack{}, domain.ErrContentNotFound
}

func (r *ContentRepository) ttlWithJitter() time.Duration {
	if r.ttl <= 0 {
		return 0
	}
	// add up to 10% jitter to spread expirations
	jitterMax := int64(r.ttl) / 10
	return r.ttl + time.Duration(r.rnd.Int63n(jitterMax+1))
}
