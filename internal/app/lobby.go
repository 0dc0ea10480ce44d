package app

import (
	"github.com/Sopno181818/chor-game/internal/domain"
)

// waiter is a named connection queued for a seat.
type waiter struct {
	participant *domain.Participant
	client      ClientConnection
}

// Lobby keeps joined players in arrival order until four of them can
// be seated at a table. The hub serializes all access.
type Lobby struct {
	queue []*waiter
	byID  map[string]*waiter
}

// NewLobby creates an empty waiting pool.
func NewLobby() *Lobby {
	return &Lobby{
		queue: make([]*waiter, 0),
		byID:  make(map[string]*waiter),
	}
}

// Add appends a named participant to the back of the pool.
func (l *Lobby) Add(p *domain.Participant, client ClientConnection) error {
	if _, ok := l.byID[p.ID]; ok {
		return domain.ErrAlreadyJoined
	}

	w := &waiter{participant: p, client: client}
	l.queue = append(l.queue, w)
	l.byID[p.ID] = w
	return nil
}

// Remove drops a participant from the pool. Returns false if they
// were not waiting.
func (l *Lobby) Remove(id string) bool {
	if _, ok := l.byID[id]; !ok {
		return false
	}

	delete(l.byID, id)
	for i, w := range l.queue {
		if w.participant.ID == id {
			l.queue = append(l.queue[:i], l.queue[i+1:]...)
			break
		}
	}
	return true
}

// Contains reports whether the participant is waiting.
func (l *Lobby) Contains(id string) bool {
	_, ok := l.byID[id]
	return ok
}

// Len returns the number of waiting participants.
func (l *Lobby) Len() int {
	return len(l.queue)
}

// Names returns the waiting names in arrival order.
func (l *Lobby) Names() []string {
	names := make([]string, 0, len(l.queue))
	for _, w := range l.queue {
		names = append(names, w.participant.Name)
	}
	return names
}

// TakeFour claims the earliest-joined four waiters, removing them
// from the pool atomically.
func (l *Lobby) TakeFour() ([]*waiter, bool) {
	if len(l.queue) < domain.TableSize {
		return nil, false
	}

	seats := l.queue[:domain.TableSize]
	l.queue = append([]*waiter(nil), l.queue[domain.TableSize:]...)
	for _, w := range seats {
		delete(l.byID, w.participant.ID)
	}
	return seats, true
}

// Broadcast sends an event to every waiting connection.
func (l *Lobby) Broadcast(event *domain.GameEvent) {
	for _, w := range l.queue {
		w.client.Send(event)
	}
}
