package redis

import (
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/jonboulle/clockwork"

	"trivia-room-service/internal/app"
	"trivia-room-service/internal/domain"
	"trivia-room-service/internal/infra/memory"
)

func TestRoomStoreSetsAndClearsKeys(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("run miniredis: %v", err)
	}
	defer mr.Close()

	store := NewRoomStore(newClient(mr), time.Minute)

	room := app.NewRoom(
		domain.Room{ID: "room-1"},
		samplePack(),
		memory.NewScoreLedger(),
		clockwork.NewRealClock(),
		domain.DefaultCloseTolerance,
	)
	store.Put(room)
	if !mr.Exists("room:live:room-1") {
		t.Fatalf("expected liveness key to be set")
	}
	if _, ok := store.Get("room-1"); !ok {
		t.Fatalf("expected room present")
	}

	store.Remove("room-1")
	if mr.Exists("room:live:room-1") {
		t.Fatalf("expected liveness key to be removed")
	}
	if _, ok := store.Get("room-1"); ok {
		t.Fatalf("expected room removed")
	}
}
