package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"rideshare/internal/domain"
	"rideshare/internal/repository"
)

// Source is a PostgreSQL implementation of repository.RecordSource.
type Source struct {
	q Querier
}

// NewSource creates a record source reading from db.
func NewSource(db *sql.DB) *Source {
	return &Source{q: db}
}

// Drivers loads all drivers.
func (s *Source) Drivers(ctx context.Context) ([]*domain.Driver, error) {
	query := `SELECT id, COALESCE(name, ''), COALESCE(vin, ''), status FROM drivers ORDER BY id`
	rows, err := s.q.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var drivers []*domain.Driver
	for rows.Next() {
		var (
			id                int
			name, vin, status string
		)
		if err := rows.Scan(&id, &name, &vin, &status); err != nil {
			return nil, err
		}
		driver, err := domain.NewDriver(id, name, vin, status)
		if err != nil {
			return nil, fmt.Errorf("driver %d: %w: %w", id, repository.ErrInvalidRecord, err)
		}
		drivers = append(drivers, driver)
	}
	return drivers, rows.Err()
}

// Passengers loads all passengers.
func (s *Source) Passengers(ctx context.Context) ([]*domain.Passenger, error) {
	query := `SELECT id, COALESCE(name, ''), COALESCE(phone_num, '') FROM passengers ORDER BY id`
	rows, err := s.q.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var passengers []*domain.Passenger
	for rows.Next() {
		var p domain.Passenger
		if err := rows.Scan(&p.ID, &p.Name, &p.PhoneNumber); err != nil {
			return nil, err
		}
		passengers = append(passengers, &p)
	}
	return passengers, rows.Err()
}

// Trips loads all historical trips.
func (s *Source) Trips(ctx context.Context) ([]*domain.Trip, error) {
	query := `
		SELECT id, driver_id, passenger_id, start_time, end_time, cost, rating
		FROM trips ORDER BY id
	`
	return s.queryTrips(ctx, query)
}

// TripsAfter loads the trips with an id greater than afterID.
func (s *Source) TripsAfter(ctx context.Context, afterID int) ([]*domain.Trip, error) {
	query := `
		SELECT id, driver_id, passenger_id, start_time, end_time, cost, rating
		FROM trips WHERE id > $1 ORDER BY id
	`
	return s.queryTrips(ctx, query, afterID)
}

func (s *Source) queryTrips(ctx context.Context, query string, args ...any) ([]*domain.Trip, error) {
	rows, err := s.q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var trips []*domain.Trip
	for rows.Next() {
		var (
			trip    domain.Trip
			endTime sql.NullTime
			cost    sql.NullFloat64
			rating  sql.NullInt64
		)
		if err := rows.Scan(
			&trip.ID,
			&trip.DriverID,
			&trip.PassengerID,
			&trip.StartTime,
			&endTime,
			&cost,
			&rating,
		); err != nil {
			return nil, err
		}

		if endTime.Valid {
			t := endTime.Time
			trip.EndTime = &t
		}
		if cost.Valid {
			c := cost.Float64
			trip.Cost = &c
		}
		if rating.Valid {
			r := int(rating.Int64)
			trip.Rating = &r
		}

		trips = append(trips, &trip)
	}
	return trips, rows.Err()
}

// Ensure Source implements repository.RecordSource and repository.TripFeed.
var (
	_ repository.RecordSource = (*Source)(nil)
	_ repository.TripFeed     = (*Source)(nil)
)
