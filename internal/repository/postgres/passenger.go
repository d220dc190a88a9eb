package postgres

import (
	"context"
	"database/sql"

	"rideshare/internal/domain"
	"rideshare/internal/repository"
)

// PassengerRepository implements repository.PassengerRepository using PostgreSQL.
type PassengerRepository struct {
	q Querier
}

// NewPassengerRepository creates a new PassengerRepository.
func NewPassengerRepository(db *sql.DB) *PassengerRepository {
	return &PassengerRepository{q: db}
}

// NewPassengerRepositoryWithTx creates a passenger repository using a transaction.
func NewPassengerRepositoryWithTx(tx *sql.Tx) *PassengerRepository {
	return &PassengerRepository{q: tx}
}

// Create adds a new passenger.
func (r *PassengerRepository) Create(ctx context.Context, passenger *domain.Passenger) error {
	query := `INSERT INTO passengers (name, phone_num) VALUES ($1, $2) RETURNING id`
	return r.q.QueryRowContext(ctx, query, passenger.Name, passenger.PhoneNum).Scan(&passenger.ID)
}

// GetByID retrieves a passenger by ID.
func (r *PassengerRepository) GetByID(ctx context.Context, id int64) (*domain.Passenger, error) {
	query := `SELECT id, name, phone_num FROM passengers WHERE id = $1`
	row := r.q.QueryRowContext(ctx, query, id)

	var passenger domain.Passenger
	err := row.Scan(&passenger.ID, &passenger.Name, &passenger.PhoneNum)
	if err == sql.ErrNoRows {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &passenger, nil
}

// GetAll retrieves all passengers.
func (r *PassengerRepository) GetAll(ctx context.Context) ([]*domain.Passenger, error) {
	query := `SELECT id, name, phone_num FROM passengers ORDER BY id`
	rows, err := r.q.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var passengers []*domain.Passenger
	for rows.Next() {
		var passenger domain.Passenger
		if err := rows.Scan(&passenger.ID, &passenger.Name, &passenger.PhoneNum); err != nil {
			return nil, err
		}
		passengers = append(passengers, &passenger)
	}
	return passengers, rows.Err()
}

// Update overwrites an existing passenger.
func (r *PassengerRepository) Update(ctx context.Context, passenger *domain.Passenger) error {
	query := `UPDATE passengers SET name = $1, phone_num = $2, updated_at = NOW() WHERE id = $3`
	result, err := r.q.ExecContext(ctx, query, passenger.Name, passenger.PhoneNum, passenger.ID)
	if err != nil {
		return err
	}
	return expectOneRow(result)
}

// Delete removes a passenger.
func (r *PassengerRepository) Delete(ctx context.Context, id int64) error {
	result, err := r.q.ExecContext(ctx, `DELETE FROM passengers WHERE id = $1`, id)
	if err != nil {
		return mapError(err)
	}
	return expectOneRow(result)
}

// Count returns the number of passengers.
func (r *PassengerRepository) Count(ctx context.Context) (int, error) {
	var n int
	err := r.q.QueryRowContext(ctx, `SELECT COUNT(*) FROM passengers`).Scan(&n)
	return n, err
}

var _ repository.PassengerRepository = (*PassengerRepository)(nil)
