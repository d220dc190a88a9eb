package service

import (
	"context"
	"log/slog"
	"time"

	"rideshare/internal/domain"
	"rideshare/internal/redis"
	"rideshare/internal/repository"
)

const (
	defaultCandidateLimit = 10
	defaultDriverLockTTL  = 10 * time.Second
)

// AvailabilityOptions tunes the availability index.
type AvailabilityOptions struct {
	// CandidateLimit is the page size used when scanning available drivers.
	CandidateLimit int
	// LockTTL bounds how long a Redis claim lock outlives a crashed request.
	LockTTL time.Duration
}

// AvailabilityIndex finds drivers that can take a new trip.
//
// Candidates are ordered by ascending driver ID and the first one that is not
// claimed by a concurrent allocation wins. When a lock store is configured a
// short Redis lock is taken on the winner; the database claim remains the
// source of truth.
type AvailabilityIndex struct {
	lockStore      redis.LockStoreInterface
	candidateLimit int
	lockTTL        time.Duration
	logger         *slog.Logger
}

// NewAvailabilityIndex creates an AvailabilityIndex. lockStore may be nil.
func NewAvailabilityIndex(lockStore redis.LockStoreInterface, opts AvailabilityOptions, logger *slog.Logger) *AvailabilityIndex {
	if opts.CandidateLimit <= 0 {
		opts.CandidateLimit = defaultCandidateLimit
	}
	if opts.LockTTL <= 0 {
		opts.LockTTL = defaultDriverLockTTL
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &AvailabilityIndex{
		lockStore:      lockStore,
		candidateLimit: opts.CandidateLimit,
		lockTTL:        opts.LockTTL,
		logger:         logger,
	}
}

// FindAvailableDriver returns the available driver with the lowest ID, or nil
// when there is none. The returned release func drops any claim lock taken and
// must be called once the caller's transaction has finished.
func (x *AvailabilityIndex) FindAvailableDriver(ctx context.Context, drivers repository.DriverRepository) (*domain.Driver, func(), error) {
	var afterID int64
	for {
		candidates, err := drivers.ListAvailable(ctx, afterID, x.candidateLimit)
		if err != nil {
			return nil, noop, err
		}

		if driver, release := x.pick(ctx, candidates); driver != nil {
			return driver, release, nil
		}
		if len(candidates) < x.candidateLimit {
			return nil, noop, nil
		}
		afterID = candidates[len(candidates)-1].ID
	}
}

// pick returns the first candidate not held by another allocation's lock.
func (x *AvailabilityIndex) pick(ctx context.Context, candidates []*domain.Driver) (*domain.Driver, func()) {
	for _, driver := range candidates {
		if !driver.Available() {
			continue
		}

		if x.lockStore == nil {
			return driver, noop
		}

		token, locked, err := x.lockStore.AcquireDriverLock(ctx, driver.ID, x.lockTTL)
		if err != nil {
			// The database claim still prevents double booking.
			x.logger.WarnContext(ctx, "driver lock unavailable, continuing without it",
				slog.Int64("driver_id", driver.ID),
				slog.Any("error", err),
			)
			return driver, noop
		}
		if !locked {
			continue
		}

		driverID := driver.ID
		release := func() {
			if err := x.lockStore.ReleaseDriverLock(context.WithoutCancel(ctx), driverID, token); err != nil {
				x.logger.WarnContext(ctx, "failed to release driver lock",
					slog.Int64("driver_id", driverID),
					slog.Any("error", err),
				)
			}
		}
		return driver, release
	}

	return nil, noop
}

func noop() {}
