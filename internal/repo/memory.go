package repo

import (
	"cmp"
	"context"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/adibus/fleet/internal/domain"
)

// MemoryStore keeps buses and fares in process memory. It backs
// STORAGE_DRIVER=memory and the service end-to-end tests. Every read hands
// out deep copies, so callers never alias stored seats.
type MemoryStore struct {
	mu    sync.RWMutex
	seq   int64
	buses map[uuid.UUID]memBus
	fares map[uuid.UUID]domain.Fare
	now   func() time.Time
}

// memBus remembers insertion order so List stays stable when two buses
// share a creation timestamp.
type memBus struct {
	bus domain.Bus
	seq int64
}

// NewMemoryStore returns an empty store using the wall clock.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		buses: make(map[uuid.UUID]memBus),
		fares: make(map[uuid.UUID]domain.Fare),
		now:   func() time.Time { return time.Now().UTC() },
	}
}

// Buses returns a BusRepo view of the store.
func (m *MemoryStore) Buses() BusRepo { return memBusRepo{m} }

// Fares returns a FareRepo view of the store.
func (m *MemoryStore) Fares() FareRepo { return memFareRepo{m} }

type memBusRepo struct{ m *MemoryStore }

func (r memBusRepo) Create(_ context.Context, bus domain.Bus) (domain.Bus, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()

	if r.m.numberTaken(bus.Number, uuid.Nil) {
		return domain.Bus{}, fmt.Errorf("repo.MemoryStore.CreateBus: %w: bus number already exists", domain.ErrDuplicateKey)
	}

	now := r.m.now()
	stored := bus.Clone()
	stored.ID = uuid.New()
	stored.CreatedAt = now
	stored.UpdatedAt = now

	r.m.seq++
	r.m.buses[stored.ID] = memBus{bus: stored, seq: r.m.seq}
	return stored.Clone(), nil
}

func (r memBusRepo) GetByID(_ context.Context, id uuid.UUID) (domain.Bus, error) {
	r.m.mu.RLock()
	defer r.m.mu.RUnlock()

	mb, ok := r.m.buses[id]
	if !ok {
		return domain.Bus{}, fmt.Errorf("repo.MemoryStore.GetBus: %w", domain.ErrNotFound)
	}
	return mb.bus.Clone(), nil
}

func (r memBusRepo) List(_ context.Context) ([]domain.Bus, error) {
	r.m.mu.RLock()
	defer r.m.mu.RUnlock()
	return r.m.sortedBuses(), nil
}

func (r memBusRepo) ListPaged(_ context.Context, p domain.PaginationParams) ([]domain.Bus, int64, error) {
	r.m.mu.RLock()
	defer r.m.mu.RUnlock()

	all := r.m.sortedBuses()
	start, end := p.Window(len(all))
	return all[start:end], int64(len(all)), nil
}

func (r memBusRepo) Update(_ context.Context, bus domain.Bus) (domain.Bus, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()

	mb, ok := r.m.buses[bus.ID]
	if !ok {
		return domain.Bus{}, fmt.Errorf("repo.MemoryStore.UpdateBus: %w", domain.ErrNotFound)
	}
	if r.m.numberTaken(bus.Number, bus.ID) {
		return domain.Bus{}, fmt.Errorf("repo.MemoryStore.UpdateBus: %w: bus number already exists", domain.ErrDuplicateKey)
	}

	mb.bus.Number = bus.Number
	mb.bus.Route = bus.Route
	mb.bus.Status = bus.Status
	mb.bus.DepartureTime = bus.DepartureTime
	mb.bus.StopBookingBefore = bus.StopBookingBefore
	mb.bus.UpdatedAt = r.m.now()
	r.m.buses[bus.ID] = mb
	return mb.bus.Clone(), nil
}

func (r memBusRepo) Patch(_ context.Context, id uuid.UUID, patch domain.BusPatch) (domain.Bus, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()

	mb, ok := r.m.buses[id]
	if !ok {
		return domain.Bus{}, fmt.Errorf("repo.MemoryStore.PatchBus: %w", domain.ErrNotFound)
	}
	if patch.Status != nil {
		mb.bus.Status = *patch.Status
	}
	if patch.DepartureTime != nil {
		mb.bus.DepartureTime = *patch.DepartureTime
	}
	if patch.StopBookingBefore != nil {
		mb.bus.StopBookingBefore = *patch.StopBookingBefore
	}
	mb.bus.UpdatedAt = r.m.now()
	r.m.buses[id] = mb
	return mb.bus.Clone(), nil
}

func (r memBusRepo) UpdateSeat(_ context.Context, busID uuid.UUID, seatNumber int, status domain.SeatStatus, passengerName *string) (domain.Bus, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()

	mb, ok := r.m.buses[busID]
	if !ok {
		return domain.Bus{}, fmt.Errorf("repo.MemoryStore.UpdateSeat: %w", domain.ErrNotFound)
	}
	i := seatNumber - 1
	if i < 0 || i >= len(mb.bus.Seats) {
		return domain.Bus{}, fmt.Errorf("repo.MemoryStore.UpdateSeat: seat %d: %w", seatNumber, domain.ErrNotFound)
	}

	mb.bus.Seats[i].Status = status
	if passengerName != nil {
		name := *passengerName
		mb.bus.Seats[i].PassengerName = &name
	}
	mb.bus.UpdatedAt = r.m.now()
	r.m.buses[busID] = mb
	return mb.bus.Clone(), nil
}

func (r memBusRepo) Delete(_ context.Context, id uuid.UUID) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()

	if _, ok := r.m.buses[id]; !ok {
		return fmt.Errorf("repo.MemoryStore.DeleteBus: %w", domain.ErrNotFound)
	}
	delete(r.m.buses, id)
	return nil
}

// numberTaken reports whether a bus other than self already uses number.
// Callers must hold m.mu.
func (m *MemoryStore) numberTaken(number string, self uuid.UUID) bool {
	for id, mb := range m.buses {
		if id != self && mb.bus.Number == number {
			return true
		}
	}
	return false
}

// sortedBuses returns copies of all buses, newest first.
// Callers must hold m.mu.
func (m *MemoryStore) sortedBuses() []domain.Bus {
	all := make([]memBus, 0, len(m.buses))
	for _, mb := range m.buses {
		all = append(all, mb)
	}
	slices.SortFunc(all, func(a, b memBus) int {
		if c := b.bus.CreatedAt.Compare(a.bus.CreatedAt); c != 0 {
			return c
		}
		return cmp.Compare(b.seq, a.seq)
	})

	out := make([]domain.Bus, len(all))
	for i, mb := range all {
		out[i] = mb.bus.Clone()
	}
	return out
}

type memFareRepo struct{ m *MemoryStore }

func (r memFareRepo) Create(_ context.Context, fare domain.Fare) (domain.Fare, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()

	if r.m.routeTaken(fare.Route, uuid.Nil) {
		return domain.Fare{}, fmt.Errorf("repo.MemoryStore.CreateFare: %w: fare for this route already exists", domain.ErrDuplicateKey)
	}
	now := r.m.now()
	fare.ID = uuid.New()
	fare.CreatedAt = now
	fare.UpdatedAt = now
	r.m.fares[fare.ID] = fare
	return fare, nil
}

func (r memFareRepo) GetByID(_ context.Context, id uuid.UUID) (domain.Fare, error) {
	r.m.mu.RLock()
	defer r.m.mu.RUnlock()

	f, ok := r.m.fares[id]
	if !ok {
		return domain.Fare{}, fmt.Errorf("repo.MemoryStore.GetFare: %w", domain.ErrNotFound)
	}
	return f, nil
}

func (r memFareRepo) List(_ context.Context) ([]domain.Fare, error) {
	r.m.mu.RLock()
	defer r.m.mu.RUnlock()

	fares := make([]domain.Fare, 0, len(r.m.fares))
	for _, f := range r.m.fares {
		fares = append(fares, f)
	}
	slices.SortFunc(fares, func(a, b domain.Fare) int { return cmp.Compare(a.Route, b.Route) })
	return fares, nil
}

func (r memFareRepo) Update(_ context.Context, fare domain.Fare) (domain.Fare, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()

	existing, ok := r.m.fares[fare.ID]
	if !ok {
		return domain.Fare{}, fmt.Errorf("repo.MemoryStore.UpdateFare: %w", domain.ErrNotFound)
	}
	if r.m.routeTaken(fare.Route, fare.ID) {
		return domain.Fare{}, fmt.Errorf("repo.MemoryStore.UpdateFare: %w: fare for this route already exists", domain.ErrDuplicateKey)
	}
	fare.CreatedAt = existing.CreatedAt
	fare.UpdatedAt = r.m.now()
	r.m.fares[fare.ID] = fare
	return fare, nil
}

func (r memFareRepo) Delete(_ context.Context, id uuid.UUID) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()

	if _, ok := r.m.fares[id]; !ok {
		return fmt.Errorf("repo.MemoryStore.DeleteFare: %w", domain.ErrNotFound)
	}
	delete(r.m.fares, id)
	return nil
}

// routeTaken reports whether a fare other than self already covers route.
// Callers must hold m.mu.
func (m *MemoryStore) routeTaken(route string, self uuid.UUID) bool {
	for id, f := range m.fares {
		if id != self && f.Route == route {
			return true
		}
	}
	return false
}
