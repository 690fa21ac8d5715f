package domain

import "time"

// RoomStatus is the lifecycle phase of a room. Transitions only move
// forward: waiting -> playing -> finished.
type RoomStatus string

const (
	RoomWaiting  RoomStatus = "waiting"
	RoomPlaying  RoomStatus = "playing"
	RoomFinished RoomStatus = "finished"
)

// ConnectionState tracks a player's presence within a room. Disconnected
// players stay on the roster so they can reconnect without losing score
// history.
type ConnectionState string

const (
	PlayerConnected    ConnectionState = "connected"
	PlayerDisconnected ConnectionState = "disconnected"
	PlayerLeft         ConnectionState = "left"
)

// RoundStatus marks whether a round is still accepting guesses.
type RoundStatus string

const (
	RoundActive   RoundStatus = "active"
	RoundResolved RoundStatus = "resolved"
)

// Outcome classifies a guess against the canonical answer set.
type Outcome string

const (
	OutcomeExact     Outcome = "exact"
	OutcomeClose     Outcome = "close"
	OutcomeIncorrect Outcome = "incorrect"
)

// RoomSettings are fixed at room creation.
type RoomSettings struct {
	MinPlayers           int  `json:"minPlayers" yaml:"minPlayers"`
	MaxPlayers           int  `json:"maxPlayers" yaml:"maxPlayers"`
	RoundDurationSeconds int  `json:"roundDurationSeconds" yaml:"roundDurationSeconds"`
	AllowChat            bool `json:"allowChat" yaml:"allowChat"`
	ShowLeaderboard      bool `json:"showLeaderboard" yaml:"showLeaderboard"`
}

// RoundDuration returns the configured round length as a duration.
func (s RoomSettings) RoundDuration() time.Duration {
	return time.Duration(s.RoundDurationSeconds) * time.Second
}

// Room is the descriptor of a game room. Mutable runtime state (roster,
// rounds, event log) lives with the room authority in the app layer.
type Room struct {
	ID                string       `json:"id"`
	Name              string       `json:"name"`
	Status            RoomStatus   `json:"status"`
	Settings          RoomSettings `json:"settings"`
	CurrentRoundIndex int          `json:"currentRoundIndex"`
	ContentSequence   []string     `json:"contentSequence"`
	CreatedAt         time.Time    `json:"createdAt"`
}

// Player is a room-scoped participant.
type Player struct {
	ID              string          `json:"id"`
	DisplayName     string          `json:"displayName"`
	ConnectionState ConnectionState `json:"connectionState"`
	JoinedAt        time.Time       `json:"joinedAt"`
}

// Round is one timed guessing cycle over a single content item.
type Round struct {
	Index      int         `json:"index"`
	ContentRef string      `json:"contentRef"`
	Prompt     string      `json:"prompt"`
	StartedAt  time.Time   `json:"startedAt"`
	DeadlineAt time.Time   `json:"deadlineAt"`
	Status     RoundStatus `json:"status"`
}

// Guess is the evaluated result of a single submission.
type Guess struct {
	PlayerID    string    `json:"playerId"`
	RoundIndex  int       `json:"roundIndex"`
	RawText     string    `json:"rawText"`
	SubmittedAt time.Time `json:"submittedAt"`
	Outcome     Outcome   `json:"outcome"`
	Awarded     int       `json:"awarded"`
}

// ScoreEntry is one append-only ledger row. The ledger never mutates
// entries, so the leaderboard can be rebuilt from scratch at any time.
type ScoreEntry struct {
	RoomID      string    `json:"roomId"`
	PlayerID    string    `json:"playerId"`
	RoundIndex  int       `json:"roundIndex"`
	RawText     string    `json:"rawText"`
	SubmittedAt time.Time `json:"submittedAt"`
	Outcome     Outcome   `json:"outcome"`
	Awarded     int       `json:"awarded"`
}

// LeaderboardEntry is a snapshot-friendly view of a player's total.
type LeaderboardEntry struct {
	PlayerID    string `json:"playerId"`
	DisplayName string `json:"displayName"`
	Total       int    `json:"total"`
}

// Leaderboard captures the ordered scoreboard for a room.
type Leaderboard struct {
	RoomID    string             `json:"roomId"`
	Entries   []LeaderboardEntry `json:"entries"`
	UpdatedAt time.Time          `json:"updatedAt"`
}

// ContentItem is a single guessable item with its canonical answer set.
type ContentItem struct {
	Ref      string   `json:"ref"`
	Prompt   string   `json:"prompt"`
	ImageURL string   `json:"imageUrl,omitempty"`
	Answers  []string `json:"answers"`
	Points   int      `json:"points"` // defaults to 100 if zero
}

// ContentPack is an ordered sequence of content items a room plays through.
type ContentPack struct {
	ID    string        `json:"id"`
	Items []ContentItem `json:"items"`
}

// Item returns the content item with the given ref, if present.
func (p ContentPack) Item(ref string) (ContentItem, bool) {
	for _, item := range p.Items {
		if item.Ref == ref {
			return item, true
		}
	}
	return ContentItem{}, false
}

// EventKind identifies a room state change on the event log.
type EventKind string

const (
	EventPlayerJoined  EventKind = "playerJoined"
	EventPlayerLeft    EventKind = "playerLeft"
	EventRoundStarted  EventKind = "roundStarted"
	EventGuessResolved EventKind = "guessResolved"
	EventRoundResolved EventKind = "roundResolved"
	EventGameFinished  EventKind = "gameFinished"
	EventChat          EventKind = "chat"
	EventRoomClosed    EventKind = "roomClosed"
	EventResync        EventKind = "resync"
)

// Event is one entry on a room's totally ordered event log. Seq increases
// by one per event; subscribers of the same room observe identical order.
type Event struct {
	Seq     uint64    `json:"seq"`
	RoomID  string    `json:"roomId"`
	Kind    EventKind `json:"kind"`
	At      time.Time `json:"at"`
	Payload any       `json:"payload,omitempty"`
}

// RoundResolvedPayload is the payload of a roundResolved event.
type RoundResolvedPayload struct {
	RoundIndex  int          `json:"roundIndex"`
	Cause       string       `json:"cause"`
	Leaderboard *Leaderboard `json:"leaderboard,omitempty"`
}

// GameFinishedPayload is the payload of a gameFinished event.
type GameFinishedPayload struct {
	Leaderboard *Leaderboard `json:"leaderboard,omitempty"`
}

// ChatMessage is the payload of a chat event.
type ChatMessage struct {
	PlayerID    string `json:"playerId"`
	DisplayName string `json:"displayName"`
	Text        string `json:"text"`
}

// Snapshot is a complete point-in-time view of a room, sent to every
// (re)connecting client before incremental events. Seq is the sequence of
// the last event folded into the snapshot.
type Snapshot struct {
	Room         Room         `json:"room"`
	Players      []Player     `json:"players"`
	CurrentRound *Round       `json:"currentRound,omitempty"`
	Leaderboard  *Leaderboard `json:"leaderboard,omitempty"`
	Seq          uint64       `json:"seq"`
}
