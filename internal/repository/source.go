package repository

import (
	"context"

	"rideshare/internal/domain"
)

// RecordSource loads the records the ledger is built from.
// Each method returns entities in their stored id order.
type RecordSource interface {
	// Drivers loads all drivers with normalized vehicle ids.
	Drivers(ctx context.Context) ([]*domain.Driver, error)

	// Passengers loads all passengers.
	Passengers(ctx context.Context) ([]*domain.Passenger, error)

	// Trips loads all historical trips. Only DriverID and PassengerID are set;
	// arena refs are resolved by the ledger.
	Trips(ctx context.Context) ([]*domain.Trip, error)
}

// TripFeed reads trips recorded after the ledger was loaded, typically by
// other instances sharing the same database.
type TripFeed interface {
	// TripsAfter returns the trips with an id greater than afterID, in id order.
	TripsAfter(ctx context.Context, afterID int) ([]*domain.Trip, error)
}

// TripRepository defines the persistence operations for dispatched trips.
type TripRepository interface {
	// Create persists a newly requested trip.
	Create(ctx context.Context, trip *domain.Trip) error
}
