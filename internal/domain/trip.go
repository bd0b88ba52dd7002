package domain

import "time"

// Ref addresses an entity by its position in the ledger's arena.
type Ref int

// Trip represents a requested or completed trip.
// A nil EndTime means the trip is still in progress.
type Trip struct {
	ID          int
	Driver      Ref
	Passenger   Ref
	DriverID    int
	PassengerID int
	StartTime   time.Time
	EndTime     *time.Time
	Cost        *float64
	Rating      *int
}

// InProgress reports whether the trip has not ended yet.
func (t *Trip) InProgress() bool {
	return t.EndTime == nil
}
