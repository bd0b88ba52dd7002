package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"rideshare/internal/domain"
)

// ──────────────────────────────────────────────
// MOCK LOCK STORE
// ──────────────────────────────────────────────

// MockLockStore is an in-memory implementation of redis.LockStoreInterface.
type MockLockStore struct {
	mu    sync.Mutex
	owner string
	seq   int

	AcquireCallCount int32
	ReleaseCallCount int32

	AcquireError error
}

func NewMockLockStore() *MockLockStore {
	return &MockLockStore{}
}

func (m *MockLockStore) AcquireDispatchLock(ctx context.Context, ttl time.Duration) (string, bool, error) {
	atomic.AddInt32(&m.AcquireCallCount, 1)
	if m.AcquireError != nil {
		return "", false, m.AcquireError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.owner != "" {
		return "", false, nil
	}
	m.seq++
	m.owner = fmt.Sprintf("token-%d", m.seq)
	return m.owner, true, nil
}

func (m *MockLockStore) ReleaseDispatchLock(ctx context.Context, token string) error {
	atomic.AddInt32(&m.ReleaseCallCount, 1)
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.owner == token {
		m.owner = ""
	}
	return nil
}

// Hold takes the lock on behalf of another instance.
func (m *MockLockStore) Hold() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.owner = "other-instance"
}

// IsHeld reports whether the lock is currently taken.
func (m *MockLockStore) IsHeld() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.owner != ""
}

// ──────────────────────────────────────────────
// MOCK TRIP REPOSITORY
// ──────────────────────────────────────────────

// errDuplicateKey mimics a primary key violation on trips.id.
var errDuplicateKey = errors.New(`duplicate key value violates unique constraint "trips_pkey"`)

// MockTripRepository is a mock implementation of repository.TripRepository
// and repository.TripFeed. Trip ids are unique, as in the trips table.
type MockTripRepository struct {
	mu    sync.RWMutex
	trips map[int]*domain.Trip

	CreateCallCount     int32
	TripsAfterCallCount int32

	CreateError error
}

func NewMockTripRepository() *MockTripRepository {
	return &MockTripRepository{
		trips: make(map[int]*domain.Trip),
	}
}

func (m *MockTripRepository) Create(ctx context.Context, trip *domain.Trip) error {
	atomic.AddInt32(&m.CreateCallCount, 1)
	if m.CreateError != nil {
		return m.CreateError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.trips[trip.ID]; ok {
		return errDuplicateKey
	}
	copy := *trip
	m.trips[trip.ID] = &copy
	return nil
}

func (m *MockTripRepository) TripsAfter(ctx context.Context, afterID int) ([]*domain.Trip, error) {
	atomic.AddInt32(&m.TripsAfterCallCount, 1)
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []*domain.Trip
	for id, trip := range m.trips {
		if id > afterID {
			copy := *trip
			out = append(out, &copy)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// GetTrip returns a stored trip for assertions.
func (m *MockTripRepository) GetTrip(id int) *domain.Trip {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.trips[id]
}

// CountTrips returns the number of stored trips.
func (m *MockTripRepository) CountTrips() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.trips)
}

// ──────────────────────────────────────────────
// MOCK PUBLISHER
// ──────────────────────────────────────────────

// MockPublisher records published trips.
type MockPublisher struct {
	mu        sync.Mutex
	published []int

	PublishError error
}

func (m *MockPublisher) PublishTripRequested(ctx context.Context, trip *domain.Trip) error {
	if m.PublishError != nil {
		return m.PublishError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.published = append(m.published, trip.ID)
	return nil
}

func (m *MockPublisher) Close() error { return nil }

// Published returns the ids of published trips.
func (m *MockPublisher) Published() []int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]int(nil), m.published...)
}

// failingFeed is a repository.TripFeed that always fails.
type failingFeed struct {
	err error
}

func (f failingFeed) TripsAfter(ctx context.Context, afterID int) ([]*domain.Trip, error) {
	return nil, f.err
}
