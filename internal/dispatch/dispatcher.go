// Package dispatch assigns drivers to new trip requests.
package dispatch

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"rideshare/internal/domain"
	"rideshare/internal/ledger"
)

// ErrNoDriverAvailable is returned when no driver can take a new trip.
var ErrNoDriverAvailable = errors.New("no driver available")

// Dispatcher owns the ledger and serializes every access to it. A trip
// request runs scan, selection and linking as one critical section, so two
// concurrent requests never pick the same idle driver from the same state.
type Dispatcher struct {
	mu    sync.Mutex
	store *ledger.Store
	now   func() time.Time
}

// Option configures a Dispatcher.
type Option func(*Dispatcher)

// WithClock overrides the clock used for trip start times.
func WithClock(now func() time.Time) Option {
	return func(d *Dispatcher) {
		d.now = now
	}
}

// New creates a Dispatcher over store.
func New(store *ledger.Store, opts ...Option) *Dispatcher {
	d := &Dispatcher{
		store: store,
		now:   time.Now,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// RequestTrip assigns the most idle available driver to a new trip for the
// passenger and records it in the ledger.
func (d *Dispatcher) RequestTrip(passengerID int) (*domain.Trip, error) {
	return d.RequestTripFunc(passengerID, nil)
}

// RequestTripFunc is RequestTrip with a commit hook. commit receives the trip
// after a driver is chosen and before the trip is linked into the ledger; if
// it returns an error the ledger is left untouched and the error is returned.
func (d *Dispatcher) RequestTripFunc(passengerID int, commit func(domain.Trip) error) (*domain.Trip, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	passenger, err := d.store.FindPassenger(passengerID)
	if err != nil {
		return nil, err
	}

	driver, err := d.selectDriver()
	if err != nil {
		return nil, err
	}

	trip := domain.Trip{
		ID:          d.store.NextTripID(),
		DriverID:    driver.ID,
		PassengerID: passenger.ID,
		StartTime:   d.now(),
	}

	if commit != nil {
		if err := commit(trip); err != nil {
			return nil, err
		}
	}

	return d.store.Add(trip)
}

// LastTripID returns the highest trip id in the ledger, or 0 when it holds no trips.
func (d *Dispatcher) LastTripID() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.store.NextTripID() - 1
}

// Sync adds trips recorded by other dispatchers to the ledger, in the order
// given. Trips the ledger already holds are skipped. It returns how many
// trips were added.
func (d *Dispatcher) Sync(trips []*domain.Trip) (int, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	added := 0
	for _, t := range trips {
		if _, err := d.store.Add(*t); err != nil {
			if errors.Is(err, ledger.ErrDuplicateID) {
				continue
			}
			return added, fmt.Errorf("trip %d: %w", t.ID, err)
		}
		added++
	}
	return added, nil
}

// SetDriverStatus changes a driver's availability.
func (d *Dispatcher) SetDriverStatus(driverID int, status domain.DriverStatus) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.store.SetDriverStatus(driverID, status)
}

// FindDriver looks up a driver by id.
func (d *Dispatcher) FindDriver(id int) (*domain.Driver, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.store.FindDriver(id)
}

// FindPassenger looks up a passenger by id.
func (d *Dispatcher) FindPassenger(id int) (*domain.Passenger, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.store.FindPassenger(id)
}

// FindTrip looks up a trip by id.
func (d *Dispatcher) FindTrip(id int) (*domain.Trip, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.store.FindTrip(id)
}

// DriverTrips returns a driver's trip history.
func (d *Dispatcher) DriverTrips(id int) ([]domain.Trip, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.store.DriverTrips(id)
}

// PassengerTrips returns a passenger's trip history.
func (d *Dispatcher) PassengerTrips(id int) ([]domain.Trip, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.store.PassengerTrips(id)
}

// Drivers returns a snapshot of all drivers.
func (d *Dispatcher) Drivers() []domain.Driver {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.store.Drivers()
}

// Passengers returns a snapshot of all passengers.
func (d *Dispatcher) Passengers() []domain.Passenger {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.store.Passengers()
}

// Trips returns a snapshot of all trips.
func (d *Dispatcher) Trips() []domain.Trip {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.store.Trips()
}
