package app

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog/log"

	"trivia-room-service/internal/domain"
)

// subscriberBuffer is the per-subscriber event channel depth. A subscriber
// that falls this far behind is dropped and must re-subscribe for a fresh
// snapshot.
const subscriberBuffer = 32

// Room is the single authority for one room id. Every operation (join,
// leave, start, guess, chat, timer expiry) serializes through its mutex, so
// round-advance decisions always see a consistent state and a round can
// never resolve twice.
type Room struct {
	mu        sync.Mutex
	clock     clockwork.Clock
	ledger    ScoreLedger
	tolerance float64

	info     domain.Room
	items    map[string]domain.ContentItem
	players  map[string]*domain.Player
	round    *domain.Round
	answered map[string]bool

	seq         uint64
	subscribers map[chan domain.Event]struct{}
	timer       *roundTimer
	closed      bool
}

// NewRoom builds a room authority over the given descriptor and content
// pack. The pack's item order becomes the room's content sequence.
func NewRoom(info domain.Room, pack domain.ContentPack, ledger ScoreLedger, clock clockwork.Clock, tolerance float64) *Room {
	items := make(map[string]domain.ContentItem, len(pack.Items))
	refs := make([]string, 0, len(pack.Items))
	for _, item := range pack.Items {
		items[item.Ref] = item
		refs = append(refs, item.Ref)
	}
	info.ContentSequence = refs
	info.Status = domain.RoomWaiting

	return &Room{
		clock:       clock,
		ledger:      ledger,
		tolerance:   tolerance,
		info:        info,
		items:       items,
		players:     make(map[string]*domain.Player),
		answered:    make(map[string]bool),
		subscribers: make(map[chan domain.Event]struct{}),
	}
}

// ID returns the room id.
func (r *Room) ID() string {
	return r.info.ID
}

// IsEmpty reports whether no player is currently connected.
func (r *Room) IsEmpty() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.connectedCountLocked() == 0
}

// Join adds a new player or reconnects a known one. New players are
// rejected once the room is finished; roster members may re-attach as
// spectators to see the results.
func (r *Room) Join(ctx context.Context, playerID, displayName string) (domain.Snapshot, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return domain.Snapshot{}, domain.ErrRoomFinished
	}
	player, known := r.players[playerID]
	if r.info.Status == domain.RoomFinished && !known {
		return domain.Snapshot{}, domain.ErrRoomFinished
	}
	joining := !known || player.ConnectionState != domain.PlayerConnected
	if joining && r.info.Status != domain.RoomFinished &&
		r.connectedCountLocked() >= r.info.Settings.MaxPlayers {
		return domain.Snapshot{}, domain.ErrRoomFull
	}

	if known {
		player.DisplayName = displayName
		player.ConnectionState = domain.PlayerConnected
	} else {
		player = &domain.Player{
			ID:              playerID,
			DisplayName:     displayName,
			ConnectionState: domain.PlayerConnected,
			JoinedAt:        r.clock.Now(),
		}
		r.players[playerID] = player
	}
	r.publishLocked(domain.EventPlayerJoined, *player)
	return r.snapshotLocked(ctx), nil
}

// Leave marks the player disconnected. The roster entry and score history
// survive so the player can reconnect mid-game. If everyone remaining has
// already answered, the round resolves.
func (r *Room) Leave(ctx context.Context, playerID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return nil
	}
	player, ok := r.players[playerID]
	if !ok {
		return domain.ErrPlayerNotInRoom
	}
	if player.ConnectionState != domain.PlayerConnected {
		return nil
	}
	player.ConnectionState = domain.PlayerDisconnected
	r.publishLocked(domain.EventPlayerLeft, *player)
	if r.info.Status == domain.RoomPlaying {
		r.checkResolutionLocked(ctx)
	}
	return nil
}

// Start transitions waiting -> playing and begins round 0.
func (r *Room) Start(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed || r.info.Status == domain.RoomFinished {
		return domain.ErrRoomFinished
	}
	if r.info.Status == domain.RoomPlaying {
		return domain.ErrGameAlreadyStarted
	}
	if r.connectedCountLocked() < r.info.Settings.MinPlayers {
		return domain.ErrNotEnoughPlayers
	}

	r.info.Status = domain.RoomPlaying
	r.startRoundLocked(ctx, 0)
	return nil
}

// SubmitGuess evaluates a guess against the current round's answer set,
// appends it to the score ledger, and resolves the round when every
// connected player has answered. Every submission is kept for history; only
// the player's first exact-or-close guess per round carries points.
func (r *Room) SubmitGuess(ctx context.Context, playerID string, roundIndex int, text string) (domain.Guess, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed || r.info.Status == domain.RoomFinished {
		return domain.Guess{}, domain.ErrRoomFinished
	}
	if r.info.Status == domain.RoomWaiting {
		return domain.Guess{}, domain.ErrGameNotStarted
	}
	if _, ok := r.players[playerID]; !ok {
		return domain.Guess{}, domain.ErrPlayerNotInRoom
	}
	if r.round == nil || roundIndex != r.round.Index {
		return domain.Guess{}, domain.ErrStaleRound
	}
	if r.round.Status != domain.RoundActive {
		return domain.Guess{}, domain.ErrRoundNotActive
	}

	item := r.items[r.round.ContentRef]
	outcome := domain.Evaluate(text, item.Answers, r.tolerance)
	now := r.clock.Now()

	awarded := 0
	scored := outcome != domain.OutcomeIncorrect && !r.answered[playerID]
	if scored {
		awarded = awardPoints(outcome, item.Points, now.Sub(r.round.StartedAt), r.info.Settings.RoundDuration())
	}

	entry := domain.ScoreEntry{
		RoomID:      r.info.ID,
		PlayerID:    playerID,
		RoundIndex:  r.round.Index,
		RawText:     text,
		SubmittedAt: now,
		Outcome:     outcome,
		Awarded:     awarded,
	}
	if err := r.ledger.Append(ctx, entry); err != nil {
		return domain.Guess{}, fmt.Errorf("append score entry: %w", err)
	}
	if scored {
		r.answered[playerID] = true
	}

	guess := domain.Guess{
		PlayerID:    playerID,
		RoundIndex:  entry.RoundIndex,
		RawText:     text,
		SubmittedAt: now,
		Outcome:     outcome,
		Awarded:     awarded,
	}
	r.publishLocked(domain.EventGuessResolved, guess)
	r.checkResolutionLocked(ctx)
	return guess, nil
}

// Chat relays a chat line on the room event log when chat is enabled.
func (r *Room) Chat(_ context.Context, playerID, text string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return domain.ErrRoomFinished
	}
	if !r.info.Settings.AllowChat {
		return domain.ErrChatDisabled
	}
	player, ok := r.players[playerID]
	if !ok {
		return domain.ErrPlayerNotInRoom
	}
	r.publishLocked(domain.EventChat, domain.ChatMessage{
		PlayerID:    playerID,
		DisplayName: player.DisplayName,
		Text:        text,
	})
	return nil
}

// Subscribe registers a listener and returns the current snapshot plus the
// live event stream. The snapshot's Seq is the last event already applied,
// so the stream continues gapless from there. The cancel function must be
// called to release the subscription.
func (r *Room) Subscribe(ctx context.Context) (domain.Snapshot, <-chan domain.Event, func(), error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return domain.Snapshot{}, nil, nil, domain.ErrRoomFinished
	}

	ch := make(chan domain.Event, subscriberBuffer)
	r.subscribers[ch] = struct{}{}
	snapshot := r.snapshotLocked(ctx)

	cancel := func() {
		r.mu.Lock()
		defer r.mu.Unlock()
		if _, ok := r.subscribers[ch]; ok {
			delete(r.subscribers, ch)
			close(ch)
		}
	}
	return snapshot, ch, cancel, nil
}

// Snapshot returns a complete current view of the room.
func (r *Room) Snapshot(ctx context.Context) domain.Snapshot {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.snapshotLocked(ctx)
}

// Close cancels the active timer and stops all broadcasting. Ledger entries
// already recorded are untouched.
func (r *Room) Close(ctx context.Context) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return
	}
	r.closed = true
	r.cancelTimerLocked()
	if r.round != nil && r.round.Status == domain.RoundActive {
		r.round.Status = domain.RoundResolved
	}
	r.info.Status = domain.RoomFinished
	for _, player := range r.players {
		player.ConnectionState = domain.PlayerLeft
	}
	r.publishLocked(domain.EventRoomClosed, nil)
	for ch := range r.subscribers {
		delete(r.subscribers, ch)
		close(ch)
	}
}

func (r *Room) connectedCountLocked() int {
	count := 0
	for _, player := range r.players {
		if player.ConnectionState == domain.PlayerConnected {
			count++
		}
	}
	return count
}

// publishLocked appends an event to the room's totally ordered log and fans
// it out. Fanning out under the room lock is what gives every subscriber
// the same order. A subscriber whose buffer is full is dropped; its client
// reconnects and resyncs from a fresh snapshot instead of replaying deltas.
func (r *Room) publishLocked(kind domain.EventKind, payload any) {
	r.seq++
	event := domain.Event{
		Seq:     r.seq,
		RoomID:  r.info.ID,
		Kind:    kind,
		At:      r.clock.Now(),
		Payload: payload,
	}
	for ch := range r.subscribers {
		select {
		case ch <- event:
		default:
			delete(r.subscribers, ch)
			close(ch)
			log.Warn().Str("room_id", r.info.ID).Uint64("seq", r.seq).
				Msg("dropped lagging subscriber")
		}
	}
}

func (r *Room) startRoundLocked(ctx context.Context, index int) {
	if index >= len(r.info.ContentSequence) {
		r.finishLocked(ctx)
		return
	}

	ref := r.info.ContentSequence[index]
	item := r.items[ref]
	now := r.clock.Now()
	duration := r.info.Settings.RoundDuration()

	round := domain.Round{
		Index:      index,
		ContentRef: ref,
		Prompt:     item.Prompt,
		StartedAt:  now,
		DeadlineAt: now.Add(duration),
		Status:     domain.RoundActive,
	}
	r.info.CurrentRoundIndex = index
	r.round = &round
	r.answered = make(map[string]bool)

	r.publishLocked(domain.EventRoundStarted, round)
	r.armTimerLocked(index, duration)
}

// checkResolutionLocked resolves the current round once every connected
// player has answered. Runs after every guess and after leaves; the timer
// path resolves directly so "all answered" always wins a same-pass tie.
func (r *Room) checkResolutionLocked(ctx context.Context) {
	if r.round == nil || r.round.Status != domain.RoundActive {
		return
	}
	connected, answered := 0, 0
	for id, player := range r.players {
		if player.ConnectionState != domain.PlayerConnected {
			continue
		}
		connected++
		if r.answered[id] {
			answered++
		}
	}
	if connected > 0 && answered == connected {
		r.resolveRoundLocked(ctx, ResolveAllAnswered)
	}
}

func (r *Room) resolveRoundLocked(ctx context.Context, cause string) {
	if r.round == nil || r.round.Status != domain.RoundActive {
		r.poisonLocked("resolve on a non-active round")
		return
	}
	r.cancelTimerLocked()
	r.round.Status = domain.RoundResolved
	now := r.clock.Now()

	// Connected players who never answered get a zero-award row.
	for id, player := range r.players {
		if player.ConnectionState != domain.PlayerConnected || r.answered[id] {
			continue
		}
		entry := domain.ScoreEntry{
			RoomID:      r.info.ID,
			PlayerID:    id,
			RoundIndex:  r.round.Index,
			SubmittedAt: now,
			Outcome:     domain.OutcomeIncorrect,
			Awarded:     0,
		}
		if err := r.ledger.Append(ctx, entry); err != nil {
			log.Warn().Err(err).Str("room_id", r.info.ID).Str("player_id", id).
				Msg("failed to record unanswered round")
		}
	}

	r.publishLocked(domain.EventRoundResolved, domain.RoundResolvedPayload{
		RoundIndex:  r.round.Index,
		Cause:       cause,
		Leaderboard: r.leaderboardLocked(ctx),
	})

	next := r.round.Index + 1
	if next < len(r.info.ContentSequence) {
		r.startRoundLocked(ctx, next)
	} else {
		r.finishLocked(ctx)
	}
}

func (r *Room) finishLocked(ctx context.Context) {
	r.cancelTimerLocked()
	r.info.Status = domain.RoomFinished
	r.publishLocked(domain.EventGameFinished, domain.GameFinishedPayload{
		Leaderboard: r.leaderboardLocked(ctx),
	})
}

// poisonLocked handles an internal invariant violation: the room state can
// no longer be trusted incrementally, so subscribers are told to resync
// from a fresh snapshot.
func (r *Room) poisonLocked(reason string) {
	log.Error().Str("room_id", r.info.ID).Str("reason", reason).
		Msg("room invariant violated, forcing resync")
	r.publishLocked(domain.EventResync, nil)
}

func (r *Room) leaderboardLocked(ctx context.Context) *domain.Leaderboard {
	if !r.info.Settings.ShowLeaderboard {
		return nil
	}
	entries, err := r.ledger.Entries(ctx, r.info.ID)
	if err != nil {
		log.Warn().Err(err).Str("room_id", r.info.ID).Msg("failed to read score ledger")
		return nil
	}
	names := make(map[string]string, len(r.players))
	for id, player := range r.players {
		names[id] = player.DisplayName
	}
	lb := FoldLeaderboard(r.info.ID, names, entries, r.clock.Now())
	return &lb
}

func (r *Room) snapshotLocked(ctx context.Context) domain.Snapshot {
	players := make([]domain.Player, 0, len(r.players))
	for _, player := range r.players {
		players = append(players, *player)
	}
	sort.Slice(players, func(i, j int) bool {
		if !players[i].JoinedAt.Equal(players[j].JoinedAt) {
			return players[i].JoinedAt.Before(players[j].JoinedAt)
		}
		return players[i].ID < players[j].ID
	})

	snapshot := domain.Snapshot{
		Room:        r.info,
		Players:     players,
		Leaderboard: r.leaderboardLocked(ctx),
		Seq:         r.seq,
	}
	if r.round != nil && r.info.Status == domain.RoomPlaying {
		round := *r.round
		snapshot.CurrentRound = &round
	}
	return snapshot
}
