package service

import (
	"context"
	"sync"
	"time"

	"github.com/iliyamo/cinema-box-office/internal/model"
	"github.com/iliyamo/cinema-box-office/internal/queue"
	"github.com/iliyamo/cinema-box-office/internal/repository"
)

// fakeCatalog is an in-memory SessionCatalog.
type fakeCatalog struct {
	sessions map[uint64]model.FilmSession
}

func newFakeCatalog(sessions ...model.FilmSession) *fakeCatalog {
	c := &fakeCatalog{sessions: make(map[uint64]model.FilmSession)}
	for _, s := range sessions {
		c.sessions[s.ID] = s
	}
	return c
}

func (c *fakeCatalog) GetByID(_ context.Context, id uint64) (*model.FilmSession, error) {
	s, ok := c.sessions[id]
	if !ok {
		return nil, repository.ErrSessionNotFound
	}
	return &s, nil
}

// memStore is an in-memory stand-in for the tickets table.  It
// implements SeatLedger and TicketStore with the same contracts as
// repository.TicketRepo: Claim is check-and-insert under one lock so
// concurrent claims for the same seat resolve to exactly one winner,
// and UpdateState is a compare-and-set on the (status, request_type)
// pair.
type memStore struct {
	mu      sync.Mutex
	nextID  uint64
	tickets map[uint64]model.Ticket
}

func newMemStore() *memStore {
	return &memStore{nextID: 1, tickets: make(map[uint64]model.Ticket)}
}

func (m *memStore) Claim(_ context.Context, t *model.Ticket) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, existing := range m.tickets {
		if existing.SessionID == t.SessionID && existing.SeatNumber == t.SeatNumber && existing.Status.Active() {
			return repository.ErrSeatTaken
		}
	}
	t.ID = m.nextID
	m.nextID++
	now := time.Now().UTC()
	t.CreatedAt = now
	t.UpdatedAt = now
	m.tickets[t.ID] = *t
	return nil
}

func (m *memStore) IsHeld(_ context.Context, sessionID uint64, seatNumber uint32) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, t := range m.tickets {
		if t.SessionID == sessionID && t.SeatNumber == seatNumber && t.Status.Active() {
			return true, nil
		}
	}
	return false, nil
}

func (m *memStore) HeldSeats(_ context.Context, sessionID uint64) ([]uint32, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	seats := make([]uint32, 0)
	for _, t := range m.tickets {
		if t.SessionID == sessionID && t.Status.Active() {
			seats = append(seats, t.SeatNumber)
		}
	}
	return seats, nil
}

func (m *memStore) GetByID(_ context.Context, id uint64) (*model.Ticket, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	t, ok := m.tickets[id]
	if !ok {
		return nil, repository.ErrTicketNotFound
	}
	return &t, nil
}

func (m *memStore) UpdateState(_ context.Context, id uint64,
	newStatus model.TicketStatus, newRequest model.RequestType,
	oldStatus model.TicketStatus, oldRequest model.RequestType) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	t, ok := m.tickets[id]
	if !ok {
		return repository.ErrTicketNotFound
	}
	if t.Status != oldStatus || t.RequestType != oldRequest {
		return repository.ErrStaleTicket
	}
	t.Status = newStatus
	t.RequestType = newRequest
	t.UpdatedAt = time.Now().UTC()
	m.tickets[id] = t
	return nil
}

func (m *memStore) Delete(_ context.Context, id uint64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.tickets[id]; !ok {
		return repository.ErrTicketNotFound
	}
	delete(m.tickets, id)
	return nil
}

// activeCount reports how many active tickets hold the given seat.
func (m *memStore) activeCount(sessionID uint64, seatNumber uint32) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, t := range m.tickets {
		if t.SessionID == sessionID && t.SeatNumber == seatNumber && t.Status.Active() {
			n++
		}
	}
	return n
}

// recordingPublisher captures published events.
type recordingPublisher struct {
	mu     sync.Mutex
	events []queue.TicketEvent
}

func (p *recordingPublisher) PublishTicketEvent(_ context.Context, ev queue.TicketEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, ev)
	return nil
}

func (p *recordingPublisher) actions() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, 0, len(p.events))
	for _, ev := range p.events {
		out = append(out, ev.Action)
	}
	return out
}
