// Package ledger holds the in-memory drivers, passengers and trips and the
// links between them.
//
// Entities live in arenas owned by the Store. Trips address their driver and
// passenger by arena Ref, and drivers and passengers keep the Refs of their
// trips, so navigation works both ways without pointer cycles.
//
// Store is safe for concurrent use. Sequences that read and then add, such
// as picking a driver for a new trip, still need an outer lock.
package ledger

import (
	"fmt"
	"sync"

	"rideshare/internal/domain"
)

// Store owns the driver, passenger and trip collections.
type Store struct {
	mu sync.RWMutex

	drivers    []*domain.Driver
	passengers []*domain.Passenger
	trips      []*domain.Trip

	driverByID    map[int]domain.Ref
	passengerByID map[int]domain.Ref
	tripByID      map[int]domain.Ref

	nextTripID int
}

// New builds a Store from loaded records. Every trip must reference a known
// driver and passenger; it is linked into both histories in the order given.
func New(drivers []*domain.Driver, passengers []*domain.Passenger, trips []*domain.Trip) (*Store, error) {
	s := &Store{
		drivers:       make([]*domain.Driver, 0, len(drivers)),
		passengers:    make([]*domain.Passenger, 0, len(passengers)),
		trips:         make([]*domain.Trip, 0, len(trips)),
		driverByID:    make(map[int]domain.Ref, len(drivers)),
		passengerByID: make(map[int]domain.Ref, len(passengers)),
		tripByID:      make(map[int]domain.Ref, len(trips)),
		nextTripID:    1,
	}

	for _, d := range drivers {
		if _, ok := s.driverByID[d.ID]; ok {
			return nil, fmt.Errorf("driver %d: %w", d.ID, ErrDuplicateID)
		}
		d.Trips = nil
		s.driverByID[d.ID] = domain.Ref(len(s.drivers))
		s.drivers = append(s.drivers, d)
	}

	for _, p := range passengers {
		if _, ok := s.passengerByID[p.ID]; ok {
			return nil, fmt.Errorf("passenger %d: %w", p.ID, ErrDuplicateID)
		}
		p.Trips = nil
		s.passengerByID[p.ID] = domain.Ref(len(s.passengers))
		s.passengers = append(s.passengers, p)
	}

	for _, t := range trips {
		if _, err := s.add(*t); err != nil {
			return nil, fmt.Errorf("trip %d: %w", t.ID, err)
		}
	}

	return s, nil
}

// Add resolves the trip's DriverID and PassengerID, appends it to the trip
// collection and links it into both participants' histories.
func (s *Store) Add(trip domain.Trip) (*domain.Trip, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.add(trip)
}

func (s *Store) add(trip domain.Trip) (*domain.Trip, error) {
	if _, ok := s.tripByID[trip.ID]; ok {
		return nil, ErrDuplicateID
	}

	driverRef, ok := s.driverByID[trip.DriverID]
	if !ok {
		return nil, fmt.Errorf("driver %d: %w", trip.DriverID, ErrNotFound)
	}
	passengerRef, ok := s.passengerByID[trip.PassengerID]
	if !ok {
		return nil, fmt.Errorf("passenger %d: %w", trip.PassengerID, ErrNotFound)
	}

	trip.Driver = driverRef
	trip.Passenger = passengerRef

	ref := domain.Ref(len(s.trips))
	stored := trip
	s.trips = append(s.trips, &stored)
	s.tripByID[trip.ID] = ref
	if trip.ID >= s.nextTripID {
		s.nextTripID = trip.ID + 1
	}

	s.attach(ref)

	out := stored
	return &out, nil
}

// NextTripID returns the id the next requested trip will receive.
func (s *Store) NextTripID() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.nextTripID
}

// FindDriver looks up a driver by id.
func (s *Store) FindDriver(id int) (*domain.Driver, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if err := validateID(id); err != nil {
		return nil, err
	}
	ref, ok := s.driverByID[id]
	if !ok {
		return nil, ErrNotFound
	}
	return cloneDriver(s.drivers[ref]), nil
}

// FindPassenger looks up a passenger by id.
func (s *Store) FindPassenger(id int) (*domain.Passenger, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if err := validateID(id); err != nil {
		return nil, err
	}
	ref, ok := s.passengerByID[id]
	if !ok {
		return nil, ErrNotFound
	}
	return clonePassenger(s.passengers[ref]), nil
}

// FindTrip looks up a trip by id.
func (s *Store) FindTrip(id int) (*domain.Trip, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if err := validateID(id); err != nil {
		return nil, err
	}
	ref, ok := s.tripByID[id]
	if !ok {
		return nil, ErrNotFound
	}
	t := *s.trips[ref]
	return &t, nil
}

// Trip returns the trip stored at ref.
func (s *Store) Trip(ref domain.Ref) (*domain.Trip, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if ref < 0 || int(ref) >= len(s.trips) {
		return nil, ErrNotFound
	}
	t := *s.trips[ref]
	return &t, nil
}

// SetDriverStatus changes the status of the driver with the given id.
func (s *Store) SetDriverStatus(id int, status domain.DriverStatus) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := validateID(id); err != nil {
		return err
	}
	if _, err := domain.ParseDriverStatus(string(status)); err != nil {
		return err
	}
	ref, ok := s.driverByID[id]
	if !ok {
		return ErrNotFound
	}
	s.drivers[ref].Status = status
	return nil
}

// Drivers returns a snapshot of all drivers in load order.
func (s *Store) Drivers() []domain.Driver {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.Driver, len(s.drivers))
	for i, d := range s.drivers {
		out[i] = *cloneDriver(d)
	}
	return out
}

// Passengers returns a snapshot of all passengers in load order.
func (s *Store) Passengers() []domain.Passenger {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.Passenger, len(s.passengers))
	for i, p := range s.passengers {
		out[i] = *clonePassenger(p)
	}
	return out
}

// Trips returns a snapshot of all trips in creation order.
func (s *Store) Trips() []domain.Trip {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.Trip, len(s.trips))
	for i, t := range s.trips {
		out[i] = *t
	}
	return out
}

func cloneDriver(d *domain.Driver) *domain.Driver {
	c := *d
	c.Trips = append([]domain.Ref(nil), d.Trips...)
	return &c
}

func clonePassenger(p *domain.Passenger) *domain.Passenger {
	c := *p
	c.Trips = append([]domain.Ref(nil), p.Trips...)
	return &c
}
