package app

import (
	"context"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog/log"

	"trivia-room-service/internal/domain"
)

// RoomStore abstracts how room authorities are tracked (in-memory, Redis
// liveness markers, etc).
type RoomStore interface {
	Put(room *Room)
	Get(roomID string) (*Room, bool)
	Remove(roomID string)
}

// ContentRepository loads content packs (from cache/backing store).
type ContentRepository interface {
	GetPack(ctx context.Context, packID string) (domain.ContentPack, error)
}

// RoomService contains the room lifecycle use cases.
type RoomService struct {
	rooms     RoomStore
	content   ContentRepository
	ledger    ScoreLedger
	clock     clockwork.Clock
	tolerance float64
}

func NewRoomService(rooms RoomStore, content ContentRepository, ledger ScoreLedger) *RoomService {
	return NewRoomServiceWithClock(rooms, content, ledger, clockwork.NewRealClock())
}

// NewRoomServiceWithClock allows a fake clock for deterministic timer tests.
func NewRoomServiceWithClock(rooms RoomStore, content ContentRepository, ledger ScoreLedger, clock clockwork.Clock) *RoomService {
	return &RoomService{
		rooms:     rooms,
		content:   content,
		ledger:    ledger,
		clock:     clock,
		tolerance: domain.DefaultCloseTolerance,
	}
}

// CreateRoom builds a room over the given content pack and registers its
// authority. The returned snapshot is the room's initial state.
func (s *RoomService) CreateRoom(ctx context.Context, name, packID string, settings domain.RoomSettings) (domain.Snapshot, error) {
	pack, err := s.content.GetPack(ctx, packID)
	if err != nil {
		return domain.Snapshot{}, err
	}
	settings = normalizeSettings(settings)

	info := domain.Room{
		ID:        uuid.NewString(),
		Name:      name,
		Status:    domain.RoomWaiting,
		Settings:  settings,
		CreatedAt: s.clock.Now(),
	}
	room := NewRoom(info, pack, s.ledger, s.clock, s.tolerance)
	s.rooms.Put(room)
	log.Info().Str("room_id", info.ID).Str("pack_id", packID).
		Int("items", len(pack.Items)).Msg("room created")
	return room.Snapshot(ctx), nil
}

// Join registers or reconnects a player in a room.
func (s *RoomService) Join(ctx context.Context, roomID, playerID, displayName string) (domain.Snapshot, error) {
	room, ok := s.rooms.Get(roomID)
	if !ok {
		return domain.Snapshot{}, domain.ErrRoomNotFound
	}
	return room.Join(ctx, playerID, displayName)
}

// Leave marks a player disconnected. Empty rooms are kept; an external
// housekeeping job reaps them via the store's liveness markers.
func (s *RoomService) Leave(ctx context.Context, roomID, playerID string) error {
	room, ok := s.rooms.Get(roomID)
	if !ok {
		return domain.ErrRoomNotFound
	}
	return room.Leave(ctx, playerID)
}

// StartGame transitions the room into play and starts round 0.
func (s *RoomService) StartGame(ctx context.Context, roomID string) error {
	room, ok := s.rooms.Get(roomID)
	if !ok {
		return domain.ErrRoomNotFound
	}
	return room.Start(ctx)
}

// SubmitGuess evaluates and records a guess for the given round.
func (s *RoomService) SubmitGuess(ctx context.Context, roomID, playerID string, roundIndex int, text string) (domain.Guess, error) {
	room, ok := s.rooms.Get(roomID)
	if !ok {
		return domain.Guess{}, domain.ErrRoomNotFound
	}
	return room.SubmitGuess(ctx, playerID, roundIndex, text)
}

// Chat relays a chat message when the room allows it.
func (s *RoomService) Chat(ctx context.Context, roomID, playerID, text string) error {
	room, ok := s.rooms.Get(roomID)
	if !ok {
		return domain.ErrRoomNotFound
	}
	return room.Chat(ctx, playerID, text)
}

// Subscribe returns the current snapshot and the live event stream for a
// room. The caller must invoke the returned cancel function to avoid leaks.
func (s *RoomService) Subscribe(ctx context.Context, roomID string) (domain.Snapshot, <-chan domain.Event, func(), error) {
	room, ok := s.rooms.Get(roomID)
	if !ok {
		return domain.Snapshot{}, nil, nil, domain.ErrRoomNotFound
	}
	return room.Subscribe(ctx)
}

// Snapshot returns a complete current view of a room.
func (s *RoomService) Snapshot(ctx context.Context, roomID string) (domain.Snapshot, error) {
	room, ok := s.rooms.Get(roomID)
	if !ok {
		return domain.Snapshot{}, domain.ErrRoomNotFound
	}
	return room.Snapshot(ctx), nil
}

// CloseRoom cancels the room's timer, stops broadcasting, and removes the
// authority. Recorded ledger entries are kept.
func (s *RoomService) CloseRoom(ctx context.Context, roomID string) error {
	room, ok := s.rooms.Get(roomID)
	if !ok {
		return domain.ErrRoomNotFound
	}
	room.Close(ctx)
	s.rooms.Remove(roomID)
	log.Info().Str("room_id", roomID).Msg("room closed")
	return nil
}

func normalizeSettings(settings domain.RoomSettings) domain.RoomSettings {
	if settings.MinPlayers < 1 {
		settings.MinPlayers = 1
	}
	if settings.MaxPlayers < settings.MinPlayers {
		settings.MaxPlayers = settings.MinPlayers
	}
	if settings.RoundDurationSeconds <= 0 {
		settings.RoundDurationSeconds = 30
	}
	return settings
}
