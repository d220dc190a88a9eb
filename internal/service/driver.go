package service

import (
	"context"
	"fmt"
	"log/slog"

	"rideshare/internal/domain"
	"rideshare/internal/repository"
)

// DriverService handles driver operations.
type DriverService struct {
	store  repository.Store
	logger *slog.Logger
}

// NewDriverService creates a new DriverService.
func NewDriverService(store repository.Store, logger *slog.Logger) *DriverService {
	if logger == nil {
		logger = slog.Default()
	}
	return &DriverService{store: store, logger: logger}
}

// CreateDriverRequest contains the parameters for registering a driver.
type CreateDriverRequest struct {
	Name string
	VIN  string
}

// DriverDetail is a driver with its trip history.
type DriverDetail struct {
	Driver *domain.Driver
	Trips  []*domain.Trip
	Totals TripTotals
}

// ListDrivers retrieves all drivers.
func (s *DriverService) ListDrivers(ctx context.Context) ([]*domain.Driver, error) {
	return s.store.Drivers().GetAll(ctx)
}

// GetDriver retrieves a driver by ID.
func (s *DriverService) GetDriver(ctx context.Context, driverID int64) (*domain.Driver, error) {
	return s.store.Drivers().GetByID(ctx, driverID)
}

// GetDriverDetail retrieves a driver with trips, earnings and average rating.
func (s *DriverService) GetDriverDetail(ctx context.Context, driverID int64) (*DriverDetail, error) {
	driver, err := s.store.Drivers().GetByID(ctx, driverID)
	if err != nil {
		return nil, err
	}

	trips, err := s.store.Trips().ListByDriver(ctx, driverID)
	if err != nil {
		return nil, fmt.Errorf("trips of driver %d: %w", driverID, err)
	}

	return &DriverDetail{Driver: driver, Trips: trips, Totals: SummarizeTrips(trips)}, nil
}

// CreateDriver registers a new, available driver.
func (s *DriverService) CreateDriver(ctx context.Context, req CreateDriverRequest) (*domain.Driver, error) {
	driver := &domain.Driver{
		Name:   req.Name,
		VIN:    req.VIN,
		Active: false,
	}
	if err := driver.Validate(); err != nil {
		return nil, err
	}

	if err := s.store.Drivers().Create(ctx, driver); err != nil {
		return nil, fmt.Errorf("create driver: %w", err)
	}

	s.logger.InfoContext(ctx, "driver created", slog.Int64("driver_id", driver.ID))
	return driver, nil
}

// UpdateDriver applies the supplied fields to an existing driver.
func (s *DriverService) UpdateDriver(ctx context.Context, driverID int64, patch domain.DriverPatch) (*domain.Driver, error) {
	var updated *domain.Driver
	err := s.store.WithTx(ctx, func(tx repository.Store) error {
		driver, err := tx.Drivers().GetByID(ctx, driverID)
		if err != nil {
			return err
		}

		patch.Apply(driver)
		if err := driver.Validate(); err != nil {
			return err
		}

		if err := tx.Drivers().Update(ctx, driver); err != nil {
			return fmt.Errorf("update driver %d: %w", driverID, err)
		}
		updated = driver
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// DeleteDriver removes a driver that no trip references.
func (s *DriverService) DeleteDriver(ctx context.Context, driverID int64) error {
	if err := s.store.Drivers().Delete(ctx, driverID); err != nil {
		return err
	}
	s.logger.InfoContext(ctx, "driver deleted", slog.Int64("driver_id", driverID))
	return nil
}
