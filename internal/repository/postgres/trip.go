package postgres

import (
	"context"
	"database/sql"

	"rideshare/internal/domain"
	"rideshare/internal/repository"
)

// TripRepository is a PostgreSQL implementation of repository.TripRepository.
type TripRepository struct {
	q Querier
}

// NewTripRepository creates a new PostgreSQL trip repository.
func NewTripRepository(db *sql.DB) *TripRepository {
	return &TripRepository{q: db}
}

// Create persists a new trip.
func (r *TripRepository) Create(ctx context.Context, trip *domain.Trip) error {
	query := `
		INSERT INTO trips (id, driver_id, passenger_id, start_time, end_time, cost, rating)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	var endTime sql.NullTime
	if trip.EndTime != nil {
		endTime = sql.NullTime{Time: *trip.EndTime, Valid: true}
	}

	var cost sql.NullFloat64
	if trip.Cost != nil {
		cost = sql.NullFloat64{Float64: *trip.Cost, Valid: true}
	}

	var rating sql.NullInt64
	if trip.Rating != nil {
		rating = sql.NullInt64{Int64: int64(*trip.Rating), Valid: true}
	}

	_, err := r.q.ExecContext(ctx, query,
		trip.ID,
		trip.DriverID,
		trip.PassengerID,
		trip.StartTime,
		endTime,
		cost,
		rating,
	)
	return err
}

// Ensure TripRepository implements repository.TripRepository.
var _ repository.TripRepository = (*TripRepository)(nil)
