package ledger

import "rideshare/internal/domain"

// attach links the trip at ref into its driver's and passenger's histories.
// It runs exactly once per trip, when the trip enters the store, with s.mu held.
func (s *Store) attach(ref domain.Ref) {
	t := s.trips[ref]
	d := s.drivers[t.Driver]
	d.Trips = append(d.Trips, ref)
	p := s.passengers[t.Passenger]
	p.Trips = append(p.Trips, ref)
}

// DriverTrips returns the trips of the driver with the given id, in attach order.
func (s *Store) DriverTrips(id int) ([]domain.Trip, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if err := validateID(id); err != nil {
		return nil, err
	}
	ref, ok := s.driverByID[id]
	if !ok {
		return nil, ErrNotFound
	}
	return s.collect(s.drivers[ref].Trips), nil
}

// PassengerTrips returns the trips of the passenger with the given id, in attach order.
func (s *Store) PassengerTrips(id int) ([]domain.Trip, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if err := validateID(id); err != nil {
		return nil, err
	}
	ref, ok := s.passengerByID[id]
	if !ok {
		return nil, ErrNotFound
	}
	return s.collect(s.passengers[ref].Trips), nil
}

func (s *Store) collect(refs []domain.Ref) []domain.Trip {
	out := make([]domain.Trip, 0, len(refs))
	for _, r := range refs {
		out = append(out, *s.trips[r])
	}
	return out
}
