package service

import (
	"context"
	"fmt"

	"rideshare/internal/repository"
)

// Overview holds the counts shown on the home page.
type Overview struct {
	Drivers          int
	AvailableDrivers int
	Passengers       int
	Trips            int
}

// HomeService builds the home page overview.
type HomeService struct {
	store repository.Store
}

// NewHomeService creates a new HomeService.
func NewHomeService(store repository.Store) *HomeService {
	return &HomeService{store: store}
}

// Overview counts drivers, passengers and trips.
func (s *HomeService) Overview(ctx context.Context) (*Overview, error) {
	var (
		o   Overview
		err error
	)

	if o.Drivers, err = s.store.Drivers().Count(ctx); err != nil {
		return nil, fmt.Errorf("count drivers: %w", err)
	}
	if o.AvailableDrivers, err = s.store.Drivers().CountAvailable(ctx); err != nil {
		return nil, fmt.Errorf("count available drivers: %w", err)
	}
	if o.Passengers, err = s.store.Passengers().Count(ctx); err != nil {
		return nil, fmt.Errorf("count passengers: %w", err)
	}
	if o.Trips, err = s.store.Trips().Count(ctx); err != nil {
		return nil, fmt.Errorf("count trips: %w", err)
	}
	return &o, nil
}
