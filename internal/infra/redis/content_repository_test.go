package redis

import (
	"context"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	"trivia-room-service/internal/domain"
	"trivia-room-service/internal/infra/memory"
)

func TestContentRepositoryCachesInRedis(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("run miniredis: %v", err)
	}
	defer mr.Close()

	client := newClient(mr)

	loader := &countingLoader{
		ContentLoader: memory.NewStaticContentLoader(map[string]domain.ContentPack{
			"pack-1": samplePack(),
		}),
	}
	repo := NewContentRepository(client, loader, time.Minute)

	pack, err := repo.GetPack(context.Background(), "pack-1")
	if err != nil {
		t.Fatalf("get pack: %v", err)
	}
	if loader.calls != 1 {
		t.Fatalf("expected loader called once, got %d", loader.calls)
	}
	if len(pack.Items) != 2 {
		t.Fatalf("expected 2 items, got %d", len(pack.Items))
	}

	// Second call should hit the cache, loader not incremented, order kept.
	cached, err := repo.GetPack(context.Background(), "pack-1")
	if err != nil {
		t.Fatalf("get pack cached: %v", err)
	}
	if loader.calls != 1 {
		t.Fatalf("expected cache hit, loader calls=%d", loader.calls)
	}
	for i := range pack.Items {
		if cached.Items[i].Ref != pack.Items[i].Ref {
			t.Fatalf("cached item order differs at %d: %s vs %s", i, cached.Items[i].Ref, pack.Items[i].Ref)
		}
	}
	if len(cached.Items[0].Answers) != 2 {
		t.Fatalf("expected answer set preserved through cache, got %+v", cached.Items[0])
	}
}

type countingLoader struct {
	memory.ContentLoader
	calls int
}

func (l *countingLoader) LoadPack(ctx context.Context, packID string) (domain.ContentPack, error) {
	l.calls++
	return l.ContentLoader.LoadPack(ctx, packID)
}

func samplePack() domain.ContentPack {
	return domain.ContentPack{
		ID: "pack-1",
		Items: []domain.ContentItem{
			{Ref: "item-1", Prompt: "Name this car", Answers: []string{"Ferrari", "Ferrari 458"}},
			{Ref: "item-2", Prompt: "Name this painting", Answers: []string{"Mona Lisa"}},
		},
	}
}

func newClient(mr *miniredis.Miniredis) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr: mr.Addr(),
	})
}
