package app

import (
	"crypto/rand"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/Sopno181818/chor-game/internal/domain"
)

// TableCodeLength is the length of generated table codes.
const TableCodeLength = 6

// TableCodeChars are characters used for table codes (no ambiguous chars).
const TableCodeChars = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

// Hub owns the shared waiting pool and the registry of active tables.
// Whenever four named players are waiting, the earliest four are
// claimed and seated at a fresh table.
type Hub struct {
	mu       sync.RWMutex
	lobby    *Lobby
	tables   map[string]*Table
	byPlayer map[string]*Table

	policy    domain.Policy
	maxRounds int
	cooldown  time.Duration
	logger    *slog.Logger
}

// NewHub creates a hub with the given game parameters.
func NewHub(policy domain.Policy, maxRounds int, cooldown time.Duration, logger *slog.Logger) *Hub {
	return &Hub{
		lobby:     NewLobby(),
		tables:    make(map[string]*Table),
		byPlayer:  make(map[string]*Table),
		policy:    policy,
		maxRounds: maxRounds,
		cooldown:  cooldown,
		logger:    logger,
	}
}

// Join names a connection and adds it to the waiting pool. Blank
// names are rejected and a connection may only join once.
func (h *Hub) Join(client ClientConnection, name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return domain.ErrEmptyName
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	id := client.PlayerID()
	if _, seated := h.byPlayer[id]; seated {
		return domain.ErrAlreadyJoined
	}

	p := domain.NewParticipant(id, name)
	if err := h.lobby.Add(p, client); err != nil {
		return err
	}

	h.logger.Info("player joined", "playerID", id, "name", name)

	h.broadcastRoster()
	h.tryPromote()

	return nil
}

// StartRound routes a shuffle request to the sender's table.
func (h *Hub) StartRound(playerID string) error {
	t, err := h.tableFor(playerID)
	if err != nil {
		return err
	}
	return t.StartRound(playerID)
}

// SubmitGuess routes a guess to the sender's table.
func (h *Hub) SubmitGuess(playerID, targetID string) error {
	t, err := h.tableFor(playerID)
	if err != nil {
		return err
	}
	return t.SubmitGuess(playerID, targetID)
}

// Restart tears down the sender's table and returns everyone to the
// waiting pool with scores and roles reset.
func (h *Hub) Restart(playerID string) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	t, ok := h.byPlayer[playerID]
	if !ok {
		return domain.ErrNoGame
	}

	returned, err := t.Restart(playerID)
	if err != nil {
		return err
	}

	h.dropTable(t)
	h.repool(returned)

	return nil
}

// Disconnect evicts a connection. A waiting player just leaves the
// pool; a seated player resets their whole table and the survivors
// rejoin the pool with fresh scores.
func (h *Hub) Disconnect(playerID string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.lobby.Remove(playerID) {
		h.logger.Info("waiting player left", "playerID", playerID)
		h.broadcastRoster()
		return
	}

	t, ok := h.byPlayer[playerID]
	if !ok {
		return
	}

	survivors := t.Evict(playerID)
	h.dropTable(t)
	h.repool(survivors)
}

// Stats returns hub-wide counters.
func (h *Hub) Stats() Stats {
	h.mu.RLock()
	defer h.mu.RUnlock()

	return Stats{
		ActiveTables:   len(h.tables),
		SeatedPlayers:  len(h.byPlayer),
		WaitingPlayers: h.lobby.Len(),
	}
}

// TableInfo returns a snapshot of the table with the given code.
func (h *Hub) TableInfo(code string) (TableInfo, error) {
	h.mu.RLock()
	t, ok := h.tables[code]
	h.mu.RUnlock()

	if !ok {
		return TableInfo{}, domain.ErrTableNotFound
	}
	return t.Info(), nil
}

// Close shuts down all tables.
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()

	for _, t := range h.tables {
		t.Close()
	}
	h.tables = make(map[string]*Table)
	h.byPlayer = make(map[string]*Table)
}

// tableFor finds the table a seated player belongs to.
func (h *Hub) tableFor(playerID string) (*Table, error) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	t, ok := h.byPlayer[playerID]
	if !ok {
		return nil, domain.ErrNoGame
	}
	return t, nil
}

// tryPromote seats the earliest four waiters at a new table. Caller
// must hold the hub lock.
func (h *Hub) tryPromote() {
	for {
		seats, ok := h.lobby.TakeFour()
		if !ok {
			return
		}

		participants := make([]*domain.Participant, 0, domain.TableSize)
		clients := make(map[string]ClientConnection, domain.TableSize)
		for _, w := range seats {
			participants = append(participants, w.participant)
			clients[w.participant.ID] = w.client
		}

		code := h.generateTableCode()
		game, err := domain.NewGame(code, h.policy, h.maxRounds, participants)
		if err != nil {
			h.logger.Error("failed to seat table", "error", err)
			return
		}

		t := NewTable(code, game, clients, h.cooldown, h.logger)
		h.tables[code] = t
		for _, w := range seats {
			h.byPlayer[w.participant.ID] = t
		}

		t.Announce()
		h.broadcastRoster()

		h.logger.Info("table seated",
			"table", code,
			"players", h.seatNames(participants),
			"policy", h.policy.Name,
		)
	}
}

// repool returns players to the waiting pool and re-checks promotion.
// Caller must hold the hub lock.
func (h *Hub) repool(returned []*waiter) {
	for _, w := range returned {
		if err := h.lobby.Add(w.participant, w.client); err != nil {
			h.logger.Warn("failed to repool player", "playerID", w.participant.ID, "error", err)
		}
	}

	h.broadcastRoster()
	h.tryPromote()
}

// dropTable removes a table and its seat index. Caller must hold the
// hub lock.
func (h *Hub) dropTable(t *Table) {
	delete(h.tables, t.Code())
	for id, seated := range h.byPlayer {
		if seated == t {
			delete(h.byPlayer, id)
		}
	}
}

// broadcastRoster sends the waiting names to every waiting
// connection. Caller must hold the hub lock.
func (h *Hub) broadcastRoster() {
	h.lobby.Broadcast(domain.NewEvent(domain.EventRosterUpdate, "", &domain.RosterUpdatePayload{
		Waiting: h.lobby.Names(),
	}))
}

// generateTableCode generates a random table code.
func (h *Hub) generateTableCode() string {
	for {
		b := make([]byte, TableCodeLength)
		rand.Read(b)

		code := make([]byte, TableCodeLength)
		for i := range code {
			code[i] = TableCodeChars[int(b[i])%len(TableCodeChars)]
		}

		if _, taken := h.tables[string(code)]; !taken {
			return string(code)
		}
	}
}

func (h *Hub) seatNames(participants []*domain.Participant) []string {
	names := make([]string, 0, len(participants))
	for _, p := range participants {
		names = append(names, p.Name)
	}
	return names
}

// Stats holds hub-wide counters for the stats endpoint.
type Stats struct {
	ActiveTables   int `json:"activeTables"`
	SeatedPlayers  int `json:"seatedPlayers"`
	WaitingPlayers int `json:"waitingPlayers"`
}
