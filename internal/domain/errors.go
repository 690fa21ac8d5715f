package domain

import "errors"

var (
	// ErrRoomFull is returned when a join would exceed maxPlayers.
	ErrRoomFull = errors.New("room is full")
	// ErrRoomFinished is returned when a new player tries to join a finished room.
	ErrRoomFinished = errors.New("room is finished")
	// ErrRoomNotFound is returned when the room id is unknown.
	ErrRoomNotFound = errors.New("room not found")
	// ErrNotEnoughPlayers is returned when starting below minPlayers.
	ErrNotEnoughPlayers = errors.New("not enough players to start")
	// ErrStaleRound is returned when a guess targets a past or future round.
	ErrStaleRound = errors.New("guess targets a stale round")
	// ErrRoundNotActive is returned when the current round is already resolved.
	ErrRoundNotActive = errors.New("round is not active")
	// ErrPlayerNotInRoom is returned when a player acts before joining.
	ErrPlayerNotInRoom = errors.New("player not in room")
	// ErrGameNotStarted is returned when a guess arrives before startGame.
	ErrGameNotStarted = errors.New("game has not started")
	// ErrGameAlreadyStarted is returned when startGame runs twice.
	ErrGameAlreadyStarted = errors.New("game already started")
	// ErrChatDisabled is returned when chat is off for the room.
	ErrChatDisabled = errors.New("chat is disabled for this room")
	// ErrContentNotFound indicates the content pack could not be loaded.
	ErrContentNotFound = errors.New("content pack not found")
)
