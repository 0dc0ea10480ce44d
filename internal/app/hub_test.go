package app

import (
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Sopno181818/chor-game/internal/domain"
)

// fakeClient records everything sent to a connection.
type fakeClient struct {
	id     string
	mu     sync.Mutex
	msgs   []interface{}
	closed bool
}

func newFakeClient(id string) *fakeClient {
	return &fakeClient{id: id}
}

func (f *fakeClient) Send(message interface{}) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.msgs = append(f.msgs, message)
	return nil
}

func (f *fakeClient) PlayerID() string { return f.id }

func (f *fakeClient) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.closed = true
	return nil
}

// eventsOfType returns the game events of the given type received so far.
func (f *fakeClient) eventsOfType(eventType domain.EventType) []*domain.GameEvent {
	f.mu.Lock()
	defer f.mu.Unlock()

	var out []*domain.GameEvent
	for _, m := range f.msgs {
		if ev, ok := m.(*domain.GameEvent); ok && ev.Type == eventType {
			out = append(out, ev)
		}
	}
	return out
}

func (f *fakeClient) received(eventType domain.EventType) bool {
	return len(f.eventsOfType(eventType)) > 0
}

func newTestHub(maxRounds int, cooldown time.Duration) *Hub {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewHub(domain.ClassicPolicy(), maxRounds, cooldown, logger)
}

// joinFour joins four named players and returns their clients by ID.
func joinFour(t *testing.T, h *Hub) map[string]*fakeClient {
	t.Helper()

	clients := make(map[string]*fakeClient)
	names := map[string]string{"a": "Asha", "b": "Bidyut", "c": "Chandan", "d": "Deepa"}
	for _, id := range []string{"a", "b", "c", "d"} {
		client := newFakeClient(id)
		clients[id] = client
		require.NoError(t, h.Join(client, names[id]))
	}
	return clients
}

// singleTable returns the hub's only active table.
func singleTable(t *testing.T, h *Hub) *Table {
	t.Helper()

	h.mu.RLock()
	defer h.mu.RUnlock()

	require.Len(t, h.tables, 1)
	for _, tab := range h.tables {
		return tab
	}
	return nil
}

// currentRound snapshots the table's active round under its lock.
func currentRound(tab *Table) *domain.Round {
	tab.mu.Lock()
	defer tab.mu.Unlock()
	return tab.game.CurrentRound
}

func score(tab *Table, id string) int {
	tab.mu.Lock()
	defer tab.mu.Unlock()
	return tab.game.Participants[id].Score
}

func waitFor(t *testing.T, cond func() bool, msg string) {
	t.Helper()
	require.Eventually(t, cond, time.Second, 5*time.Millisecond, msg)
}

func TestJoinRejectsBlankNames(t *testing.T) {
	h := newTestHub(10, time.Minute)

	assert.ErrorIs(t, h.Join(newFakeClient("x"), ""), domain.ErrEmptyName)
	assert.ErrorIs(t, h.Join(newFakeClient("x"), "   "), domain.ErrEmptyName)
	assert.Equal(t, 0, h.Stats().WaitingPlayers)
}

func TestJoinRejectsDoubleJoin(t *testing.T) {
	h := newTestHub(10, time.Minute)

	client := newFakeClient("x")
	require.NoError(t, h.Join(client, "Asha"))
	assert.ErrorIs(t, h.Join(client, "Asha"), domain.ErrAlreadyJoined)
}

func TestJoinBroadcastsWaitingRoster(t *testing.T) {
	h := newTestHub(10, time.Minute)

	first := newFakeClient("1")
	second := newFakeClient("2")
	require.NoError(t, h.Join(first, "Asha"))
	require.NoError(t, h.Join(second, "Bidyut"))

	updates := first.eventsOfType(domain.EventRosterUpdate)
	require.NotEmpty(t, updates)

	last := updates[len(updates)-1].Payload.(*domain.RosterUpdatePayload)
	assert.Equal(t, []string{"Asha", "Bidyut"}, last.Waiting)
}

func TestFourthJoinSeatsATable(t *testing.T) {
	h := newTestHub(10, time.Minute)

	clients := joinFour(t, h)

	stats := h.Stats()
	assert.Equal(t, 1, stats.ActiveTables)
	assert.Equal(t, 4, stats.SeatedPlayers)
	assert.Equal(t, 0, stats.WaitingPlayers)

	for id, client := range clients {
		waitFor(t, func() bool { return client.received(domain.EventGameStarted) },
			"client "+id+" never saw the game start")
	}
}

func TestFifthJoinerKeepsWaiting(t *testing.T) {
	h := newTestHub(10, time.Minute)

	joinFour(t, h)
	fifth := newFakeClient("e")
	require.NoError(t, h.Join(fifth, "Esha"))

	stats := h.Stats()
	assert.Equal(t, 1, stats.ActiveTables)
	assert.Equal(t, 1, stats.WaitingPlayers)
	assert.False(t, fifth.received(domain.EventGameStarted))
}

func TestShuffleDealsRolesAndRequestsGuess(t *testing.T) {
	h := newTestHub(10, time.Minute)
	clients := joinFour(t, h)

	require.NoError(t, h.StartRound("a"))

	tab := singleTable(t, h)
	round := currentRound(tab)
	require.NotNil(t, round)

	for id, client := range clients {
		waitFor(t, func() bool { return client.received(domain.EventRolesAssigned) },
			"client "+id+" never got a role")

		events := client.eventsOfType(domain.EventRolesAssigned)
		payload := events[0].Payload.(*domain.RoleAssignedPayload)
		assert.Equal(t, round.Roles[id], payload.Role, "client %s got someone else's role", id)
		assert.Equal(t, 1, payload.Round)
	}

	guesser := clients[round.GuesserID]
	waitFor(t, func() bool { return guesser.received(domain.EventGuessRequested) },
		"guesser never got the suspect list")

	req := guesser.eventsOfType(domain.EventGuessRequested)[0].Payload.(*domain.GuessRequestPayload)
	assert.Equal(t, domain.RoleChor, req.TargetRole)
	assert.Len(t, req.Suspects, 2)

	// Only the guesser is asked to guess.
	for id, client := range clients {
		if id == round.GuesserID {
			continue
		}
		assert.False(t, client.received(domain.EventGuessRequested))
	}
}

func TestCorrectGuessAwardsPolice(t *testing.T) {
	h := newTestHub(10, time.Minute)
	clients := joinFour(t, h)

	require.NoError(t, h.StartRound("a"))

	tab := singleTable(t, h)
	round := currentRound(tab)
	chorID, ok := round.HolderOf(domain.RoleChor)
	require.True(t, ok)

	require.NoError(t, h.SubmitGuess(round.GuesserID, chorID))

	for id, client := range clients {
		waitFor(t, func() bool { return client.received(domain.EventRoundResolved) },
			"client "+id+" never saw the result")
	}

	result := clients["a"].eventsOfType(domain.EventRoundResolved)[0].Payload.(*domain.RoundResultPayload)
	assert.True(t, result.Correct)
	assert.False(t, result.GameOver)
	require.Len(t, result.History, 1)

	babuID, _ := round.HolderOf(domain.RoleBabu)
	dakatID, _ := round.HolderOf(domain.RoleDakat)
	assert.Equal(t, 1000, score(tab, babuID))
	assert.Equal(t, 500, score(tab, round.GuesserID))
	assert.Equal(t, 300, score(tab, dakatID))
	assert.Equal(t, 0, score(tab, chorID))
}

func TestIncorrectGuessTransfersToChor(t *testing.T) {
	h := newTestHub(10, time.Minute)
	clients := joinFour(t, h)

	require.NoError(t, h.StartRound("a"))

	tab := singleTable(t, h)
	round := currentRound(tab)
	chorID, _ := round.HolderOf(domain.RoleChor)
	dakatID, _ := round.HolderOf(domain.RoleDakat)

	require.NoError(t, h.SubmitGuess(round.GuesserID, dakatID))

	waitFor(t, func() bool { return clients["a"].received(domain.EventRoundResolved) },
		"result never broadcast")

	result := clients["a"].eventsOfType(domain.EventRoundResolved)[0].Payload.(*domain.RoundResultPayload)
	assert.False(t, result.Correct)
	assert.NotEmpty(t, result.Message)

	assert.Equal(t, 0, score(tab, round.GuesserID))
	assert.Equal(t, 500, score(tab, chorID))
	assert.Equal(t, 300, score(tab, dakatID))
}

func TestGuessFromNonGuesserIsRejected(t *testing.T) {
	h := newTestHub(10, time.Minute)
	joinFour(t, h)

	require.NoError(t, h.StartRound("a"))

	tab := singleTable(t, h)
	round := currentRound(tab)

	var notGuesser string
	for _, id := range []string{"a", "b", "c", "d"} {
		if id != round.GuesserID {
			notGuesser = id
			break
		}
	}

	chorID, _ := round.HolderOf(domain.RoleChor)
	assert.ErrorIs(t, h.SubmitGuess(notGuesser, chorID), domain.ErrNotGuesser)

	// And nobody may shuffle while the guess is pending.
	assert.ErrorIs(t, h.StartRound("a"), domain.ErrRoundInProgress)
}

func TestCooldownReArmsStartSignal(t *testing.T) {
	h := newTestHub(10, 30*time.Millisecond)
	clients := joinFour(t, h)

	require.NoError(t, h.StartRound("a"))
	tab := singleTable(t, h)
	round := currentRound(tab)
	chorID, _ := round.HolderOf(domain.RoleChor)
	require.NoError(t, h.SubmitGuess(round.GuesserID, chorID))

	// Immediately after resolution the table is still cooling down.
	assert.ErrorIs(t, h.StartRound("a"), domain.ErrNotReady)

	waitFor(t, func() bool { return clients["a"].received(domain.EventRoundReady) },
		"cooldown never re-armed the table")
	require.NoError(t, h.StartRound("a"))
	assert.Equal(t, 2, currentRound(tab).Number)
}

func TestDisconnectMidRoundResetsTable(t *testing.T) {
	h := newTestHub(10, time.Minute)
	clients := joinFour(t, h)

	require.NoError(t, h.StartRound("a"))

	h.Disconnect("c")

	stats := h.Stats()
	assert.Equal(t, 0, stats.ActiveTables)
	assert.Equal(t, 0, stats.SeatedPlayers)
	assert.Equal(t, 3, stats.WaitingPlayers)

	// Survivors were told, the leaver was not.
	for _, id := range []string{"a", "b", "d"} {
		events := clients[id].eventsOfType(domain.EventPlayerLeft)
		require.NotEmpty(t, events, "survivor %s missed the notice", id)
		payload := events[0].Payload.(*domain.PlayerLeftPayload)
		assert.Equal(t, "Chandan", payload.Name)
	}
	assert.False(t, clients["c"].received(domain.EventPlayerLeft))

	// The aborted round never resolves.
	time.Sleep(20 * time.Millisecond)
	for _, id := range []string{"a", "b", "d"} {
		assert.False(t, clients[id].received(domain.EventRoundResolved))
	}
}

func TestDisconnectDuringCooldownCancelsPendingRound(t *testing.T) {
	h := newTestHub(10, 30*time.Millisecond)
	clients := joinFour(t, h)

	require.NoError(t, h.StartRound("a"))
	tab := singleTable(t, h)
	round := currentRound(tab)
	chorID, _ := round.HolderOf(domain.RoleChor)
	require.NoError(t, h.SubmitGuess(round.GuesserID, chorID))

	// Disconnect while the cooldown timer is pending; the stale timer
	// must not resurrect the table.
	h.Disconnect("b")
	time.Sleep(60 * time.Millisecond)

	assert.Equal(t, 0, h.Stats().ActiveTables)
	for _, id := range []string{"a", "c", "d"} {
		assert.False(t, clients[id].received(domain.EventRoundReady))
	}
}

func TestSurvivorsReturnToPoolReset(t *testing.T) {
	h := newTestHub(10, time.Minute)
	joinFour(t, h)

	require.NoError(t, h.StartRound("a"))
	h.Disconnect("a")

	h.mu.RLock()
	defer h.mu.RUnlock()
	for _, w := range h.lobby.queue {
		assert.Zero(t, w.participant.Score)
		assert.Empty(t, w.participant.Role)
	}
}

func TestWaitingDisconnectJustLeavesThePool(t *testing.T) {
	h := newTestHub(10, time.Minute)

	require.NoError(t, h.Join(newFakeClient("1"), "Asha"))
	second := newFakeClient("2")
	require.NoError(t, h.Join(second, "Bidyut"))

	h.Disconnect("1")

	assert.Equal(t, 1, h.Stats().WaitingPlayers)
	updates := second.eventsOfType(domain.EventRosterUpdate)
	last := updates[len(updates)-1].Payload.(*domain.RosterUpdatePayload)
	assert.Equal(t, []string{"Bidyut"}, last.Waiting)
}

func TestFullGameEndsWithWinners(t *testing.T) {
	h := newTestHub(2, 10*time.Millisecond)
	clients := joinFour(t, h)

	tab := singleTable(t, h)

	for roundNo := 1; roundNo <= 2; roundNo++ {
		waitFor(t, func() bool { return h.StartRound("a") == nil },
			"start signal never re-armed")

		round := currentRound(tab)
		chorID, _ := round.HolderOf(domain.RoleChor)
		require.NoError(t, h.SubmitGuess(round.GuesserID, chorID))
	}

	for id, client := range clients {
		waitFor(t, func() bool { return client.received(domain.EventGameOver) },
			"client "+id+" never saw game over")
	}

	payload := clients["a"].eventsOfType(domain.EventGameOver)[0].Payload.(*domain.GameOverPayload)
	require.NotEmpty(t, payload.Winners)
	require.Len(t, payload.History, 2)

	// The reported winners hold the maximum score.
	best := 0
	for _, entry := range payload.Scoreboard {
		if entry.Score > best {
			best = entry.Score
		}
	}
	for _, entry := range payload.Scoreboard {
		if entry.Score == best {
			assert.Contains(t, payload.Winners, entry.Name)
		} else {
			assert.NotContains(t, payload.Winners, entry.Name)
		}
	}

	// No further rounds may start.
	assert.ErrorIs(t, h.StartRound("a"), domain.ErrNotReady)
}

func TestRestartResetsAndReseats(t *testing.T) {
	h := newTestHub(10, time.Minute)
	clients := joinFour(t, h)

	require.NoError(t, h.StartRound("a"))
	oldTable := singleTable(t, h)
	round := currentRound(oldTable)
	chorID, _ := round.HolderOf(domain.RoleChor)
	require.NoError(t, h.SubmitGuess(round.GuesserID, chorID))

	require.NoError(t, h.Restart("a"))

	for id, client := range clients {
		assert.True(t, client.received(domain.EventGameReset), "client %s missed the reset", id)
	}

	// Four reset players are waiting again, so a fresh table seats
	// immediately with clean scores and history.
	newTable := singleTable(t, h)
	require.NotEqual(t, oldTable.Code(), newTable.Code())

	newTable.mu.Lock()
	defer newTable.mu.Unlock()
	assert.Equal(t, domain.PhaseReady, newTable.game.Phase)
	assert.Empty(t, newTable.game.History)
	assert.Zero(t, newTable.game.RoundsPlayed())
	for _, p := range newTable.game.Participants {
		assert.Zero(t, p.Score)
		assert.Empty(t, p.Role)
	}
}

func TestRestartFromNonPlayerIsRejected(t *testing.T) {
	h := newTestHub(10, time.Minute)
	joinFour(t, h)

	assert.ErrorIs(t, h.Restart("stranger"), domain.ErrNoGame)
}

func TestTableInfo(t *testing.T) {
	h := newTestHub(10, time.Minute)
	joinFour(t, h)

	tab := singleTable(t, h)
	info, err := h.TableInfo(tab.Code())
	require.NoError(t, err)

	assert.Equal(t, tab.Code(), info.Code)
	assert.Equal(t, domain.PhaseReady, info.Phase)
	assert.Equal(t, 10, info.MaxRounds)
	assert.Len(t, info.Players, 4)

	_, err = h.TableInfo("NOPE42")
	assert.ErrorIs(t, err, domain.ErrTableNotFound)
}
