package dispatch

import (
	"time"

	"rideshare/internal/domain"
)

// idleSince is the end time of a driver's most recently finished trip.
// When known is false the driver has trips but none has finished yet.
type idleSince struct {
	at    time.Time
	known bool
}

// before reports whether a has been idle strictly longer than b.
// An unknown idle time ranks ahead of any known one.
func (a idleSince) before(b idleSince) bool {
	switch {
	case !a.known:
		return b.known
	case !b.known:
		return false
	default:
		return a.at.Before(b.at)
	}
}

// selectDriver scans drivers in load order and returns the available driver
// that has been idle the longest. A driver with no trips at all is returned
// as soon as it is seen. Ties keep the earlier driver.
// Must be called with d.mu held.
func (d *Dispatcher) selectDriver() (*domain.Driver, error) {
	var (
		best     *domain.Driver
		bestIdle idleSince
	)

	for _, drv := range d.store.Drivers() {
		if !drv.IsAvailable() {
			continue
		}
		if len(drv.Trips) == 0 {
			return &drv, nil
		}

		idle := d.lastTripEnd(drv.Trips)
		if best == nil || idle.before(bestIdle) {
			best = &drv
			bestIdle = idle
		}
	}

	if best == nil {
		return nil, ErrNoDriverAvailable
	}
	return best, nil
}

// lastTripEnd returns the latest end time among the given trips.
func (d *Dispatcher) lastTripEnd(refs []domain.Ref) idleSince {
	var last idleSince
	for _, ref := range refs {
		t, err := d.store.Trip(ref)
		if err != nil || t.EndTime == nil {
			continue
		}
		if !last.known || t.EndTime.After(last.at) {
			last = idleSince{at: *t.EndTime, known: true}
		}
	}
	return last
}
