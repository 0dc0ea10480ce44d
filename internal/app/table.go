package app

import (
	"log/slog"
	"sync"
	"time"

	"github.com/Sopno181818/chor-game/internal/domain"
)

// ClientConnection represents a connected client.
type ClientConnection interface {
	Send(message interface{}) error
	PlayerID() string
	Close() error
}

// Table runs one game among four seated players. Every inbound action
// is serialized behind the table mutex so each handler observes and
// mutates the game as an atomic transaction.
type Table struct {
	code string
	game *domain.Game
	mu   sync.Mutex

	clients   map[string]ClientConnection // playerID -> client
	clientsMu sync.RWMutex

	// generation stamps pending cooldown timers so a timer armed
	// before a reset cannot resurrect a stale round after it.
	generation uint64
	cooldown   time.Duration

	events chan *domain.GameEvent
	done   chan struct{}
	closed bool
	logger *slog.Logger
}

// NewTable seats a game behind a new table session and starts its
// broadcaster.
func NewTable(code string, game *domain.Game, clients map[string]ClientConnection, cooldown time.Duration, logger *slog.Logger) *Table {
	t := &Table{
		code:     code,
		game:     game,
		clients:  clients,
		cooldown: cooldown,
		events:   make(chan *domain.GameEvent, 100),
		done:     make(chan struct{}),
		logger:   logger,
	}

	go t.eventLoop()

	return t
}

// Code returns the table code.
func (t *Table) Code() string {
	return t.code
}

// Announce broadcasts the seating of the table to its players.
func (t *Table) Announce() {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.queueEvent(domain.NewEvent(domain.EventGameStarted, t.code, &domain.GameStartedPayload{
		TableID:   t.code,
		Players:   t.game.Scoreboard(),
		MaxRounds: t.game.MaxRounds,
		Policy:    t.game.Policy.Name,
	}))
}

// StartRound handles a shuffle request from a seated player.
func (t *Table) StartRound(playerID string) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.closed {
		return domain.ErrNoGame
	}

	if err := t.game.StartRound(playerID); err != nil {
		return err
	}

	round := t.game.CurrentRound
	scoreboard := t.game.Scoreboard()
	history := t.game.HistorySummaries()

	// Each player learns only their own role.
	for _, id := range t.game.Seats {
		t.queueEvent(domain.NewPlayerEvent(domain.EventRolesAssigned, t.code, id, &domain.RoleAssignedPayload{
			Role:       round.Roles[id],
			Round:      round.Number,
			MaxRounds:  t.game.MaxRounds,
			Scoreboard: scoreboard,
			History:    history,
		}))
	}

	t.queueEvent(domain.NewPlayerEvent(domain.EventGuessRequested, t.code, round.GuesserID, &domain.GuessRequestPayload{
		TargetRole: round.TargetRole,
		Suspects:   t.game.Suspects(),
	}))

	t.logger.Info("round started",
		"table", t.code,
		"round", round.Number,
		"targetRole", round.TargetRole,
	)

	return nil
}

// SubmitGuess handles the guesser's pick, broadcasts the result and
// either schedules the next-round cooldown or ends the game.
func (t *Table) SubmitGuess(playerID, targetID string) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.closed {
		return domain.ErrNoGame
	}

	round, err := t.game.SubmitGuess(playerID, targetID)
	if err != nil {
		if err == domain.ErrRoleHolderMissing {
			t.logger.Error("round resolution aborted", "table", t.code, "error", err)
		}
		return err
	}

	over := t.game.Over()

	t.queueEvent(domain.NewEvent(domain.EventRoundResolved, t.code, &domain.RoundResultPayload{
		Round:           round.Number,
		Correct:         round.Outcome == domain.OutcomeCorrect,
		Message:         round.Message,
		Scoreboard:      t.game.Scoreboard(),
		History:         t.game.HistorySummaries(),
		CooldownSeconds: int(t.cooldown.Seconds()),
		GameOver:        over,
	}))

	t.logger.Info("round resolved",
		"table", t.code,
		"round", round.Number,
		"outcome", round.Outcome,
	)

	if over {
		winners := t.game.Winners()
		names := make([]string, 0, len(winners))
		for _, w := range winners {
			names = append(names, w.Name)
		}

		t.queueEvent(domain.NewEvent(domain.EventGameOver, t.code, &domain.GameOverPayload{
			Winners:    names,
			Scoreboard: t.game.Scoreboard(),
			History:    t.game.HistorySummaries(),
		}))

		t.logger.Info("game over", "table", t.code, "winners", names)
		return nil
	}

	t.scheduleCooldown()
	return nil
}

// scheduleCooldown re-arms the start signal after the cooldown
// interval. Caller must hold the table lock.
func (t *Table) scheduleCooldown() {
	gen := t.generation
	time.AfterFunc(t.cooldown, func() {
		t.mu.Lock()
		defer t.mu.Unlock()

		// The table may have been reset while the timer was pending.
		if t.closed || gen != t.generation {
			return
		}
		if !t.game.FinishCooldown() {
			return
		}

		t.queueEvent(domain.NewEvent(domain.EventRoundReady, t.code, nil))
	})
}

// Evict tears the table down after a seated player disconnects.
// Survivors get the player-left notice and are returned, reset for
// the waiting pool. The aborted round never resolves.
func (t *Table) Evict(leaverID string) []*waiter {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.closed {
		return nil
	}

	leaverName := leaverID
	if p, ok := t.game.Participants[leaverID]; ok {
		leaverName = p.Name
	}

	notice := domain.NewEvent(domain.EventPlayerLeft, t.code, &domain.PlayerLeftPayload{Name: leaverName})
	t.sendDirect(notice, leaverID)

	survivors := t.release(leaverID)

	t.logger.Info("table evicted", "table", t.code, "leaver", leaverName)

	return survivors
}

// Restart tears the table down on request of a seated player and
// returns all players, reset for the waiting pool.
func (t *Table) Restart(playerID string) ([]*waiter, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.closed {
		return nil, domain.ErrNoGame
	}
	if _, ok := t.game.Participants[playerID]; !ok {
		return nil, domain.ErrNotSeated
	}

	notice := domain.NewEvent(domain.EventGameReset, t.code, &domain.GameResetPayload{Reason: "restart"})
	t.sendDirect(notice, "")

	returned := t.release("")

	t.logger.Info("table restarted", "table", t.code, "by", playerID)

	return returned, nil
}

// release invalidates pending timers, resets every remaining player
// for the lobby and shuts the session down without closing surviving
// connections. Caller must hold the table lock.
func (t *Table) release(excludeID string) []*waiter {
	t.generation++
	t.closed = true
	close(t.done)

	t.clientsMu.Lock()
	defer t.clientsMu.Unlock()

	returned := make([]*waiter, 0, len(t.clients))
	for _, id := range t.game.Seats {
		if id == excludeID {
			continue
		}
		client, ok := t.clients[id]
		if !ok {
			continue
		}
		p := t.game.Participants[id]
		p.ResetForLobby()
		returned = append(returned, &waiter{participant: p, client: client})
	}
	t.clients = make(map[string]ClientConnection)

	return returned
}

// Info returns a read-only snapshot for the HTTP surface.
func (t *Table) Info() TableInfo {
	t.mu.Lock()
	defer t.mu.Unlock()

	return TableInfo{
		Code:         t.code,
		Phase:        t.game.Phase,
		RoundsPlayed: t.game.RoundsPlayed(),
		MaxRounds:    t.game.MaxRounds,
		Players:      t.game.Scoreboard(),
	}
}

// PlayerCount returns the number of seated players.
func (t *Table) PlayerCount() int {
	t.clientsMu.RLock()
	defer t.clientsMu.RUnlock()
	return len(t.clients)
}

// Close shuts down the session and its client connections.
func (t *Table) Close() {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.closed {
		return
	}
	t.generation++
	t.closed = true
	close(t.done)

	t.clientsMu.Lock()
	for _, client := range t.clients {
		client.Close()
	}
	t.clients = make(map[string]ClientConnection)
	t.clientsMu.Unlock()
}

// queueEvent adds an event to the broadcast queue.
func (t *Table) queueEvent(event *domain.GameEvent) {
	select {
	case t.events <- event:
	default:
		t.logger.Warn("event queue full, dropping event", "table", t.code, "type", event.Type)
	}
}

// eventLoop drains the queue and broadcasts to clients. Because
// events are queued under the table lock, a round's notifications
// reach the queue atomically relative to any other inbound action.
func (t *Table) eventLoop() {
	for {
		select {
		case <-t.done:
			return
		case event := <-t.events:
			t.broadcastEvent(event)
		}
	}
}

// broadcastEvent sends an event to the appropriate clients.
func (t *Table) broadcastEvent(event *domain.GameEvent) {
	t.clientsMu.RLock()
	defer t.clientsMu.RUnlock()

	// If player-specific, send only to that player.
	if event.PlayerID != "" {
		if client, ok := t.clients[event.PlayerID]; ok {
			if err := client.Send(event); err != nil {
				t.logger.Debug("failed to send to client", "playerID", event.PlayerID, "error", err)
			}
		}
		return
	}

	for playerID, client := range t.clients {
		if err := client.Send(event); err != nil {
			t.logger.Debug("failed to send to client", "playerID", playerID, "error", err)
		}
	}
}

// sendDirect delivers an event synchronously, skipping the queue, so
// teardown notices reach clients before the session stops. Caller
// must hold the table lock.
func (t *Table) sendDirect(event *domain.GameEvent, excludeID string) {
	t.clientsMu.RLock()
	defer t.clientsMu.RUnlock()

	for playerID, client := range t.clients {
		if playerID == excludeID {
			continue
		}
		if err := client.Send(event); err != nil {
			t.logger.Debug("failed to send to client", "playerID", playerID, "error", err)
		}
	}
}

// TableInfo is a read-only snapshot of a table.
type TableInfo struct {
	Code         string              `json:"code"`
	Phase        domain.Phase        `json:"phase"`
	RoundsPlayed int                 `json:"roundsPlayed"`
	MaxRounds    int                 `json:"maxRounds"`
	Players      []domain.ScoreEntry `json:"players"`
}
