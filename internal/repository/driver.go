package repository

import (
	"context"

	"rideshare/internal/domain"
)

// DriverRepository defines the persistence operations for drivers.
type DriverRepository interface {
	// Create adds a new driver and sets its ID.
	Create(ctx context.Context, driver *domain.Driver) error

	// GetByID retrieves a driver by ID.
	GetByID(ctx context.Context, id int64) (*domain.Driver, error)

	// GetAll retrieves all drivers ordered by ID.
	GetAll(ctx context.Context) ([]*domain.Driver, error)

	// Update overwrites an existing driver.
	Update(ctx context.Context, driver *domain.Driver) error

	// Delete removes a driver. Returns ErrConflict while trips still reference it.
	Delete(ctx context.Context, id int64) error

	// ListAvailable returns up to limit available drivers with an ID above
	// afterID, lowest ID first. Inside a transaction the returned rows stay
	// locked until it ends.
	ListAvailable(ctx context.Context, afterID int64, limit int) ([]*domain.Driver, error)

	// Claim marks an available driver as active.
	// Returns ErrConflict if the driver was no longer available.
	Claim(ctx context.Context, id int64) error

	// Release marks a driver as available again.
	Release(ctx context.Context, id int64) error

	// Count returns the number of drivers.
	Count(ctx context.Context) (int, error)

	// CountAvailable returns the number of available drivers.
	CountAvailable(ctx context.Context) (int, error)
}
