package memory

import (
	"context"
	"testing"
	"time"

	"trivia-room-service/internal/domain"
)

func TestContentRepositoryCaches(t *testing.T) {
	loader := &countingLoader{
		ContentLoader: NewStaticContentLoader(map[string]domain.ContentPack{
			"pack-1": samplePack(),
		}),
	}
	repo := NewContentRepository(loader, time.Minute)

	if _, err := repo.GetPack(context.Background(), "pack-1"); err != nil {
		t.Fatalf("get pack: %v", err)
	}
	if loader.calls != 1 {
		t.Fatalf("expected loader once, got %d", loader.calls)
	}

	if _, err := repo.GetPack(context.Background(), "pack-1"); err != nil {
		t.Fatalf("get pack 2: %v", err)
	}
	if loader.calls != 1 {
		t.Fatalf("expected cache hit, loader calls %d", loader.calls)
	}
}

func TestContentRepositoryUnknownPack(t *testing.T) {
	repo := NewContentRepository(NewStaticContentLoader(nil), time.Minute)
	if _, err := repo.GetPack(context.Background(), "missing"); err != domain.ErrContentNotFound {
		t.Fatalf("expected ErrContentNotFound, got %v", err)
	}
}

type countingLoader struct {
	ContentLoader
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
			{
				Ref:     "item-1",
				Prompt:  "Name this car",
				Answers: []string{"Ferrari", "Ferrari 458"},
			},
		},
	}
}
