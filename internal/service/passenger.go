package service

import (
	"context"
	"fmt"
	"log/slog"

	"rideshare/internal/domain"
	"rideshare/internal/repository"
)

// PassengerService handles passenger operations.
type PassengerService struct {
	store  repository.Store
	logger *slog.Logger
}

// NewPassengerService creates a new PassengerService.
func NewPassengerService(store repository.Store, logger *slog.Logger) *PassengerService {
	if logger == nil {
		logger = slog.Default()
	}
	return &PassengerService{store: store, logger: logger}
}

// CreatePassengerRequest contains the parameters for registering a passenger.
type CreatePassengerRequest struct {
	Name     string
	PhoneNum string
}

// PassengerDetail is a passenger with their trip history.
type PassengerDetail struct {
	Passenger *domain.Passenger
	Trips     []*domain.Trip
	Totals    TripTotals
}

func (s *PassengerService) ListPassengers(ctx context.Context) ([]*domain.Passenger, error) {
	return s.store.Passengers().GetAll(ctx)
}

func (s *PassengerService) GetPassenger(ctx context.Context, passengerID int64) (*domain.Passenger, error) {
	return s.store.Passengers().GetByID(ctx, passengerID)
}

// GetPassengerDetail retrieves a passenger with trips and total spend.
func (s *PassengerService) GetPassengerDetail(ctx context.Context, passengerID int64) (*PassengerDetail, error) {
	passenger, err := s.store.Passengers().GetByID(ctx, passengerID)
	if err != nil {
		return nil, err
	}

	trips, err := s.store.Trips().ListByPassenger(ctx, passengerID)
	if err != nil {
		return nil, fmt.Errorf("trips of passenger %d: %w", passengerID, err)
	}

	return &PassengerDetail{Passenger: passenger, Trips: trips, Totals: SummarizeTrips(trips)}, nil
}

func (s *PassengerService) CreatePassenger(ctx context.Context, req CreatePassengerRequest) (*domain.Passenger, error) {
	passenger := &domain.Passenger{Name: req.Name, PhoneNum: req.PhoneNum}
	if err := passenger.Validate(); err != nil {
		return nil, err
	}

	if err := s.store.Passengers().Create(ctx, passenger); err != nil {
		return nil, fmt.Errorf("create passenger: %w", err)
	}

	s.logger.InfoContext(ctx, "passenger created", slog.Int64("passenger_id", passenger.ID))
	return passenger, nil
}

func (s *PassengerService) UpdatePassenger(ctx context.Context, passengerID int64, patch domain.PassengerPatch) (*domain.Passenger, error) {
	var updated *domain.Passenger
	err := s.store.WithTx(ctx, func(tx repository.Store) error {
		passenger, err := tx.Passengers().GetByID(ctx, passengerID)
		if err != nil {
			return err
		}

		patch.Apply(passenger)
		if err := passenger.Validate(); err != nil {
			return err
		}

		if err := tx.Passengers().Update(ctx, passenger); err != nil {
			return fmt.Errorf("update passenger %d: %w", passengerID, err)
		}
		updated = passenger
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// DeletePassenger removes a passenger that no trip references.
func (s *PassengerService) DeletePassenger(ctx context.Context, passengerID int64) error {
	if err := s.store.Passengers().Delete(ctx, passengerID); err != nil {
		return err
	}
	s.logger.InfoContext(ctx, "passenger deleted", slog.Int64("passenger_id", passengerID))
	return nil
}
