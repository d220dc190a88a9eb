package postgres

import (
	"context"
	"database/sql"
	"errors"

	"rideshare/internal/domain"
	"rideshare/internal/repository"
)

const tripColumns = `id, date, rating, cost, driver_id, passenger_id`

// TripRepository is a PostgreSQL implementation of repository.TripRepository.
type TripRepository struct {
	q Querier
}

// NewTripRepository creates a new PostgreSQL trip repository.
func NewTripRepository(db *sql.DB) *TripRepository {
	return &TripRepository{q: db}
}

// NewTripRepositoryWithTx creates a trip repository using a transaction.
func NewTripRepositoryWithTx(tx *sql.Tx) *TripRepository {
	return &TripRepository{q: tx}
}

// Create persists a new trip.
func (r *TripRepository) Create(ctx context.Context, trip *domain.Trip) error {
	query := `
		INSERT INTO trips (date, rating, cost, driver_id, passenger_id)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id
	`

	err := r.q.QueryRowContext(ctx, query,
		trip.Date,
		nullRating(trip.Rating),
		trip.Cost,
		trip.DriverID,
		trip.PassengerID,
	).Scan(&trip.ID)

	return mapError(err)
}

// GetByID retrieves a trip by ID.
func (r *TripRepository) GetByID(ctx context.Context, id int64) (*domain.Trip, error) {
	query := `SELECT ` + tripColumns + ` FROM trips WHERE id = $1`

	trip, err := scanTrip(r.q.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return trip, nil
}

// Update overwrites an existing trip.
func (r *TripRepository) Update(ctx context.Context, trip *domain.Trip) error {
	query := `
		UPDATE trips
		SET date = $1, rating = $2, cost = $3, driver_id = $4, passenger_id = $5, updated_at = NOW()
		WHERE id = $6
	`

	result, err := r.q.ExecContext(ctx, query,
		trip.Date,
		nullRating(trip.Rating),
		trip.Cost,
		trip.DriverID,
		trip.PassengerID,
		trip.ID,
	)
	if err != nil {
		return mapError(err)
	}
	return expectOneRow(result)
}

// Delete removes a trip.
func (r *TripRepository) Delete(ctx context.Context, id int64) error {
	result, err := r.q.ExecContext(ctx, `DELETE FROM trips WHERE id = $1`, id)
	if err != nil {
		return err
	}
	return expectOneRow(result)
}

// ListByPassenger retrieves a passenger's trips.
func (r *TripRepository) ListByPassenger(ctx context.Context, passengerID int64) ([]*domain.Trip, error) {
	query := `SELECT ` + tripColumns + ` FROM trips WHERE passenger_id = $1 ORDER BY date DESC, id DESC`
	return r.list(ctx, query, passengerID)
}

// ListByDriver retrieves a driver's trips.
func (r *TripRepository) ListByDriver(ctx context.Context, driverID int64) ([]*domain.Trip, error) {
	query := `SELECT ` + tripColumns + ` FROM trips WHERE driver_id = $1 ORDER BY date DESC, id DESC`
	return r.list(ctx, query, driverID)
}

// Count returns the number of trips.
func (r *TripRepository) Count(ctx context.Context) (int, error) {
	var n int
	err := r.q.QueryRowContext(ctx, `SELECT COUNT(*) FROM trips`).Scan(&n)
	return n, err
}

func (r *TripRepository) list(ctx context.Context, query string, args ...any) ([]*domain.Trip, error) {
	rows, err := r.q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var trips []*domain.Trip
	for rows.Next() {
		trip, err := scanTrip(rows)
		if err != nil {
			return nil, err
		}
		trips = append(trips, trip)
	}
	return trips, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTrip(row rowScanner) (*domain.Trip, error) {
	var trip domain.Trip
	var rating sql.NullInt64

	if err := row.Scan(
		&trip.ID,
		&trip.Date,
		&rating,
		&trip.Cost,
		&trip.DriverID,
		&trip.PassengerID,
	); err != nil {
		return nil, err
	}

	if rating.Valid {
		v := int(rating.Int64)
		trip.Rating = &v
	}
	return &trip, nil
}

func nullRating(rating *int) sql.NullInt64 {
	if rating == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: int64(*rating), Valid: true}
}

// Ensure TripRepository implements repository.TripRepository.
var _ repository.TripRepository = (*TripRepository)(nil)
