package app

import (
	"context"
	"fmt"

	"rideshare/internal/ledger"
	"rideshare/internal/repository"
)

// LoadLedger reads drivers, passengers and trips from source and builds the
// ledger from them.
func LoadLedger(ctx context.Context, source repository.RecordSource) (*ledger.Store, error) {
	drivers, err := source.Drivers(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load drivers: %w", err)
	}

	passengers, err := source.Passengers(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load passengers: %w", err)
	}

	trips, err := source.Trips(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load trips: %w", err)
	}

	store, err := ledger.New(drivers, passengers, trips)
	if err != nil {
		return nil, fmt.Errorf("failed to build ledger: %w", err)
	}

	return store, nil
}
