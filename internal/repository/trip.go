package repository

import (
	"context"

	"rideshare/internal/domain"
)

// TripRepository defines the persistence operations for trips.
type TripRepository interface {
	// Create persists a new trip and sets its ID.
	Create(ctx context.Context, trip *domain.Trip) error

	// GetByID retrieves a trip by ID.
	GetByID(ctx context.Context, id int64) (*domain.Trip, error)

	// Update overwrites an existing trip.
	Update(ctx context.Context, trip *domain.Trip) error

	// Delete removes a trip.
	Delete(ctx context.Context, id int64) error

	// ListByPassenger retrieves a passenger's trips, newest first.
	ListByPassenger(ctx context.Context, passengerID int64) ([]*domain.Trip, error)

	// ListByDriver retrieves a driver's trips, newest first.
	ListByDriver(ctx context.Context, driverID int64) ([]*domain.Trip, error)

	// Count returns the number of trips.
	Count(ctx context.Context) (int, error)
}
