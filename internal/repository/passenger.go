package repository

import (
	"context"

	"rideshare/internal/domain"
)

// PassengerRepository defines the persistence operations for passengers.
type PassengerRepository interface {
	// Create adds a new passenger and sets its ID.
	Create(ctx context.Context, passenger *domain.Passenger) error

	// GetByID retrieves a passenger by ID.
	GetByID(ctx context.Context, id int64) (*domain.Passenger, error)

	// GetAll retrieves all passengers ordered by ID.
	GetAll(ctx context.Context) ([]*domain.Passenger, error)

	// Update overwrites an existing passenger.
	Update(ctx context.Context, passenger *domain.Passenger) error

	// Delete removes a passenger. Returns ErrConflict while trips still reference it.
	Delete(ctx context.Context, id int64) error

	// Count returns the number of passengers.
	Count(ctx context.Context) (int, error)
}
