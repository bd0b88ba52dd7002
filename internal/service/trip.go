package service

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/newrelic/go-agent/v3/newrelic"

	"rideshare/internal/dispatch"
	"rideshare/internal/domain"
	"rideshare/internal/messaging"
	"rideshare/internal/redis"
	"rideshare/internal/repository"
)

const defaultDispatchLockTTL = 5 * time.Second

// TripService handles trip requests on top of the dispatcher.
type TripService struct {
	dispatcher *dispatch.Dispatcher
	lockStore  redis.LockStoreInterface
	tripRepo   repository.TripRepository
	tripFeed   repository.TripFeed
	publisher  messaging.Publisher
	lockTTL    time.Duration
}

// TripServiceDeps contains the collaborators of TripService.
// LockStore, TripRepo and TripFeed are optional; a nil Publisher drops events.
// When several instances share one database, TripFeed lets each of them pick
// up trips the others dispatched before choosing a driver.
type TripServiceDeps struct {
	Dispatcher *dispatch.Dispatcher
	LockStore  redis.LockStoreInterface
	TripRepo   repository.TripRepository
	TripFeed   repository.TripFeed
	Publisher  messaging.Publisher
	LockTTL    time.Duration
}

// NewTripService creates a new TripService.
func NewTripService(deps TripServiceDeps) *TripService {
	lockTTL := deps.LockTTL
	if lockTTL <= 0 {
		lockTTL = defaultDispatchLockTTL
	}

	publisher := deps.Publisher
	if publisher == nil {
		publisher = messaging.NoopPublisher{}
	}

	return &TripService{
		dispatcher: deps.Dispatcher,
		lockStore:  deps.LockStore,
		tripRepo:   deps.TripRepo,
		tripFeed:   deps.TripFeed,
		publisher:  publisher,
		lockTTL:    lockTTL,
	}
}

// RequestTrip dispatches a new trip for the passenger.
// The trip is persisted before it enters the ledger, and a trip.requested
// event is published once it has.
func (s *TripService) RequestTrip(ctx context.Context, passengerID int) (*domain.Trip, error) {
	defer newrelic.FromContext(ctx).StartSegment("TripService/RequestTrip").End()

	// Only one instance dispatches at a time.
	if s.lockStore != nil {
		token, locked, err := s.lockStore.AcquireDispatchLock(ctx, s.lockTTL)
		if err != nil {
			return nil, err
		}
		if !locked {
			return nil, ErrDispatchBusy
		}
		defer func() {
			if err := s.lockStore.ReleaseDispatchLock(context.WithoutCancel(ctx), token); err != nil {
				log.Printf("failed to release dispatch lock: %v", err)
			}
		}()
	}

	if err := s.syncLedger(ctx); err != nil {
		return nil, err
	}

	var commit func(domain.Trip) error
	if s.tripRepo != nil {
		commit = func(trip domain.Trip) error {
			return s.tripRepo.Create(ctx, &trip)
		}
	}

	trip, err := s.dispatcher.RequestTripFunc(passengerID, commit)
	if err != nil {
		return nil, err
	}

	log.Printf("dispatched trip %d: driver=%d passenger=%d", trip.ID, trip.DriverID, trip.PassengerID)

	if err := s.publisher.PublishTripRequested(ctx, trip); err != nil {
		log.Printf("failed to publish trip.requested for trip %d: %v", trip.ID, err)
	}

	return trip, nil
}

// syncLedger adds trips recorded since the ledger's last known trip.
func (s *TripService) syncLedger(ctx context.Context) error {
	if s.tripFeed == nil {
		return nil
	}

	trips, err := s.tripFeed.TripsAfter(ctx, s.dispatcher.LastTripID())
	if err != nil {
		return fmt.Errorf("failed to read new trips: %w", err)
	}
	added, err := s.dispatcher.Sync(trips)
	if err != nil {
		return fmt.Errorf("failed to sync ledger: %w", err)
	}
	if added > 0 {
		log.Printf("synced %d trips recorded elsewhere", added)
	}
	return nil
}

// SetDriverStatus changes a driver's availability.
func (s *TripService) SetDriverStatus(ctx context.Context, driverID int, status domain.DriverStatus) error {
	defer newrelic.FromContext(ctx).StartSegment("TripService/SetDriverStatus").End()

	if err := s.dispatcher.SetDriverStatus(driverID, status); err != nil {
		return err
	}
	log.Printf("driver %d is now %s", driverID, status)
	return nil
}
