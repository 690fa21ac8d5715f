package memory

import (
	"testing"

	"github.com/jonboulle/clockwork"

	"trivia-room-service/internal/app"
	"trivia-room-service/internal/domain"
)

func TestRoomStoreLifecycle(t *testing.T) {
	store := NewRoomStore()

	room := app.NewRoom(
		domain.Room{ID: "room-1", Name: "test"},
		samplePack(),
		NewScoreLedger(),
		clockwork.NewRealClock(),
		domain.DefaultCloseTolerance,
	)
	store.Put(room)

	if got, ok := store.Get("room-1"); !ok || got != room {
		t.Fatalf("expected stored room back, got %v ok=%v", got, ok)
	}

	store.Remove("room-1")
	if _, ok := store.Get("room-1"); ok {
		t.Fatalf("expected room removed")
	}
}
