package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"rideshare/internal/domain"
	"rideshare/internal/repository"
)

// TripService handles reads and edits of existing trips.
type TripService struct {
	store  repository.Store
	logger *slog.Logger
}

// NewTripService creates a new TripService.
func NewTripService(store repository.Store, logger *slog.Logger) *TripService {
	if logger == nil {
		logger = slog.Default()
	}
	return &TripService{store: store, logger: logger}
}

// TripDetail is a trip together with the driver and passenger it references.
type TripDetail struct {
	Trip      *domain.Trip
	Driver    *domain.Driver
	Passenger *domain.Passenger
}

// GetTrip retrieves a trip by ID.
func (s *TripService) GetTrip(ctx context.Context, tripID int64) (*domain.Trip, error) {
	return s.store.Trips().GetByID(ctx, tripID)
}

// GetTripDetail retrieves a trip with its driver and passenger.
func (s *TripService) GetTripDetail(ctx context.Context, tripID int64) (*TripDetail, error) {
	trip, err := s.store.Trips().GetByID(ctx, tripID)
	if err != nil {
		return nil, err
	}

	driver, err := s.store.Drivers().GetByID(ctx, trip.DriverID)
	if err != nil {
		return nil, fmt.Errorf("driver %d of trip %d: %w", trip.DriverID, trip.ID, err)
	}

	passenger, err := s.store.Passengers().GetByID(ctx, trip.PassengerID)
	if err != nil {
		return nil, fmt.Errorf("passenger %d of trip %d: %w", trip.PassengerID, trip.ID, err)
	}

	return &TripDetail{Trip: trip, Driver: driver, Passenger: passenger}, nil
}

// UpdateTrip applies the supplied fields to an existing trip.
// A missing trip yields repository.ErrNotFound and nothing is written.
func (s *TripService) UpdateTrip(ctx context.Context, tripID int64, patch domain.TripPatch) (*domain.Trip, error) {
	if err := patch.Validate(); err != nil {
		// Report a missing trip ahead of a bad payload.
		if _, getErr := s.store.Trips().GetByID(ctx, tripID); getErr != nil {
			return nil, getErr
		}
		return nil, err
	}

	var updated *domain.Trip
	err := s.store.WithTx(ctx, func(tx repository.Store) error {
		trip, err := tx.Trips().GetByID(ctx, tripID)
		if err != nil {
			return err
		}

		if patch.DriverID != nil && *patch.DriverID != trip.DriverID {
			if _, err := tx.Drivers().GetByID(ctx, *patch.DriverID); err != nil {
				return referenceError("driver_id", err)
			}
		}
		if patch.PassengerID != nil && *patch.PassengerID != trip.PassengerID {
			if _, err := tx.Passengers().GetByID(ctx, *patch.PassengerID); err != nil {
				return referenceError("passenger_id", err)
			}
		}

		patch.Apply(trip)
		if err := tx.Trips().Update(ctx, trip); err != nil {
			return fmt.Errorf("update trip %d: %w", tripID, err)
		}

		updated = trip
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.InfoContext(ctx, "trip updated", slog.Int64("trip_id", tripID))
	return updated, nil
}

// DeleteTrip removes a trip and returns it.
func (s *TripService) DeleteTrip(ctx context.Context, tripID int64) (*domain.Trip, error) {
	var deleted *domain.Trip
	err := s.store.WithTx(ctx, func(tx repository.Store) error {
		trip, err := tx.Trips().GetByID(ctx, tripID)
		if err != nil {
			return err
		}
		if err := tx.Trips().Delete(ctx, tripID); err != nil {
			return err
		}
		deleted = trip
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.InfoContext(ctx, "trip deleted",
		slog.Int64("trip_id", tripID),
		slog.Int64("passenger_id", deleted.PassengerID),
	)
	return deleted, nil
}

// CompleteTrip rates a trip and makes its driver available again.
func (s *TripService) CompleteTrip(ctx context.Context, tripID int64, rating int) (*domain.Trip, error) {
	if err := domain.ValidateRating(rating); err != nil {
		return nil, err
	}

	var completed *domain.Trip
	err := s.store.WithTx(ctx, func(tx repository.Store) error {
		trip, err := tx.Trips().GetByID(ctx, tripID)
		if err != nil {
			return err
		}
		if trip.Completed() {
			return ErrTripAlreadyCompleted
		}

		trip.Rating = &rating
		if err := tx.Trips().Update(ctx, trip); err != nil {
			return fmt.Errorf("update trip %d: %w", tripID, err)
		}
		if err := tx.Drivers().Release(ctx, trip.DriverID); err != nil {
			return fmt.Errorf("release driver %d: %w", trip.DriverID, err)
		}

		completed = trip
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.InfoContext(ctx, "trip completed",
		slog.Int64("trip_id", tripID),
		slog.Int64("driver_id", completed.DriverID),
		slog.Int("rating", rating),
	)
	return completed, nil
}

// ListTripsForPassenger retrieves a passenger's trips.
func (s *TripService) ListTripsForPassenger(ctx context.Context, passengerID int64) ([]*domain.Trip, error) {
	return s.store.Trips().ListByPassenger(ctx, passengerID)
}

// ListTripsForDriver retrieves a driver's trips.
func (s *TripService) ListTripsForDriver(ctx context.Context, driverID int64) ([]*domain.Trip, error) {
	return s.store.Trips().ListByDriver(ctx, driverID)
}

func referenceError(field string, err error) error {
	if errors.Is(err, repository.ErrNotFound) {
		return &domain.ValidationError{Field: field, Reason: "does not exist"}
	}
	return err
}
