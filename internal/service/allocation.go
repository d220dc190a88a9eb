package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"rideshare/internal/domain"
	"rideshare/internal/metrics"
	"rideshare/internal/pricing"
	"rideshare/internal/repository"
)

const defaultMaxAttempts = 3

// AllocationRecorder receives allocation metrics. *metrics.Metrics satisfies it.
type AllocationRecorder interface {
	ObserveAllocation(outcome string, d time.Duration)
	ObserveAllocationRetry()
}

// AllocationOptions tunes the allocation service.
type AllocationOptions struct {
	// MaxAttempts bounds retries after losing a driver to a concurrent request.
	MaxAttempts int
	// Now overrides the clock used for the trip date.
	Now func() time.Time
}

// AllocationService assigns available drivers to new trips.
type AllocationService struct {
	store       repository.Store
	index       *AvailabilityIndex
	calculator  pricing.Calculator
	recorder    AllocationRecorder
	logger      *slog.Logger
	maxAttempts int
	now         func() time.Time
}

// NewAllocationService creates a new AllocationService. recorder may be nil.
func NewAllocationService(
	store repository.Store,
	index *AvailabilityIndex,
	calculator pricing.Calculator,
	recorder AllocationRecorder,
	logger *slog.Logger,
	opts AllocationOptions,
) *AllocationService {
	if opts.MaxAttempts <= 0 {
		opts.MaxAttempts = defaultMaxAttempts
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &AllocationService{
		store:       store,
		index:       index,
		calculator:  calculator,
		recorder:    recorder,
		logger:      logger,
		maxAttempts: opts.MaxAttempts,
		now:         opts.Now,
	}
}

// CreateTrip books a trip for the passenger with the first available driver.
//
// Driver selection, trip insert and the driver claim commit together. If the
// chosen driver is claimed by a concurrent request first, the allocation is
// rolled back and retried with the next candidate.
func (s *AllocationService) CreateTrip(ctx context.Context, passengerID int64) (*domain.Trip, error) {
	start := time.Now()

	if _, err := s.store.Passengers().GetByID(ctx, passengerID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			s.observe(metrics.OutcomePassengerNotFound, start)
		} else {
			s.observe(metrics.OutcomeError, start)
		}
		return nil, fmt.Errorf("passenger %d: %w", passengerID, err)
	}

	for attempt := 1; attempt <= s.maxAttempts; attempt++ {
		trip, err := s.allocate(ctx, passengerID)
		switch {
		case err == nil:
			s.observe(metrics.OutcomeAllocated, start)
			s.logger.InfoContext(ctx, "trip allocated",
				slog.Int64("trip_id", trip.ID),
				slog.Int64("passenger_id", passengerID),
				slog.Int64("driver_id", trip.DriverID),
				slog.String("cost", trip.Cost.String()),
				slog.Int("attempt", attempt),
			)
			return trip, nil

		case errors.Is(err, ErrDriverUnavailable):
			if s.recorder != nil {
				s.recorder.ObserveAllocationRetry()
			}
			s.logger.DebugContext(ctx, "driver claimed concurrently, retrying",
				slog.Int64("passenger_id", passengerID),
				slog.Int("attempt", attempt),
			)
			continue

		case errors.Is(err, ErrNoDriverAvailable):
			s.observe(metrics.OutcomeNoDriver, start)
			s.logger.InfoContext(ctx, "no driver available",
				slog.Int64("passenger_id", passengerID),
			)
			return nil, err

		default:
			s.observe(metrics.OutcomeError, start)
			s.logger.ErrorContext(ctx, "trip allocation failed",
				slog.Int64("passenger_id", passengerID),
				slog.Any("error", err),
			)
			return nil, err
		}
	}

	s.observe(metrics.OutcomeNoDriver, start)
	return nil, ErrNoDriverAvailable
}

// allocate runs one selection, insert and claim cycle in a single transaction.
func (s *AllocationService) allocate(ctx context.Context, passengerID int64) (*domain.Trip, error) {
	var trip *domain.Trip
	release := noop

	err := s.store.WithTx(ctx, func(tx repository.Store) error {
		driver, unlock, err := s.index.FindAvailableDriver(ctx, tx.Drivers())
		release = unlock
		if err != nil {
			return fmt.Errorf("find available driver: %w", err)
		}
		if driver == nil {
			return ErrNoDriverAvailable
		}

		date := domain.DateOf(s.now())
		cost, err := s.calculator.Compute(pricing.TripParams{
			Date:        date,
			PassengerID: passengerID,
			DriverID:    driver.ID,
		})
		if err != nil {
			return fmt.Errorf("compute cost: %w", err)
		}
		if err := domain.ValidateCost(cost); err != nil {
			return fmt.Errorf("compute cost: %w", err)
		}

		t := &domain.Trip{
			Date:        date,
			Cost:        cost,
			DriverID:    driver.ID,
			PassengerID: passengerID,
		}
		if err := tx.Trips().Create(ctx, t); err != nil {
			return fmt.Errorf("create trip: %w", err)
		}

		if err := tx.Drivers().Claim(ctx, driver.ID); err != nil {
			if errors.Is(err, repository.ErrConflict) {
				return ErrDriverUnavailable
			}
			return fmt.Errorf("claim driver %d: %w", driver.ID, err)
		}

		trip = t
		return nil
	})
	release()

	if err != nil {
		return nil, err
	}
	return trip, nil
}

func (s *AllocationService) observe(outcome string, start time.Time) {
	if s.recorder != nil {
		s.recorder.ObserveAllocation(outcome, time.Since(start))
	}
}
