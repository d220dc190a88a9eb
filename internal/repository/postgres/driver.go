package postgres

import (
	"context"
	"database/sql"
	"errors"

	"rideshare/internal/domain"
	"rideshare/internal/repository"
)

// DriverRepository is a PostgreSQL implementation of repository.DriverRepository.
type DriverRepository struct {
	q Querier
}

// NewDriverRepository creates a new PostgreSQL driver repository.
func NewDriverRepository(db *sql.DB) *DriverRepository {
	return &DriverRepository{q: db}
}

// NewDriverRepositoryWithTx creates a driver repository using a transaction.
func NewDriverRepositoryWithTx(tx *sql.Tx) *DriverRepository {
	return &DriverRepository{q: tx}
}

// Create adds a new driver.
func (r *DriverRepository) Create(ctx context.Context, driver *domain.Driver) error {
	query := `INSERT INTO drivers (name, vin, active) VALUES ($1, $2, $3) RETURNING id`
	return r.q.QueryRowContext(ctx, query, driver.Name, driver.VIN, driver.Active).Scan(&driver.ID)
}

// GetByID retrieves a driver by ID.
func (r *DriverRepository) GetByID(ctx context.Context, id int64) (*domain.Driver, error) {
	query := `SELECT id, name, vin, active FROM drivers WHERE id = $1`

	var driver domain.Driver
	err := r.q.QueryRowContext(ctx, query, id).Scan(
		&driver.ID,
		&driver.Name,
		&driver.VIN,
		&driver.Active,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}

	return &driver, nil
}

// GetAll retrieves all drivers.
func (r *DriverRepository) GetAll(ctx context.Context) ([]*domain.Driver, error) {
	query := `SELECT id, name, vin, active FROM drivers ORDER BY id`
	return r.list(ctx, query)
}

// Update overwrites an existing driver.
func (r *DriverRepository) Update(ctx context.Context, driver *domain.Driver) error {
	query := `UPDATE drivers SET name = $1, vin = $2, active = $3, updated_at = NOW() WHERE id = $4`

	result, err := r.q.ExecContext(ctx, query, driver.Name, driver.VIN, driver.Active, driver.ID)
	if err != nil {
		return err
	}
	return expectOneRow(result)
}

// Delete removes a driver.
func (r *DriverRepository) Delete(ctx context.Context, id int64) error {
	result, err := r.q.ExecContext(ctx, `DELETE FROM drivers WHERE id = $1`, id)
	if err != nil {
		return mapError(err)
	}
	return expectOneRow(result)
}

// ListAvailable returns up to limit available drivers after afterID, lowest
// ID first. Rows locked by a concurrent allocation are skipped.
func (r *DriverRepository) ListAvailable(ctx context.Context, afterID int64, limit int) ([]*domain.Driver, error) {
	query := `
		SELECT id, name, vin, active
		FROM drivers
		WHERE active = false AND id > $1
		ORDER BY id
		LIMIT $2
		FOR UPDATE SKIP LOCKED
	`
	return r.list(ctx, query, afterID, limit)
}

// Claim flips active from false to true. A driver that is already active
// yields repository.ErrConflict.
func (r *DriverRepository) Claim(ctx context.Context, id int64) error {
	query := `UPDATE drivers SET active = true, updated_at = NOW() WHERE id = $1 AND active = false`

	result, err := r.q.ExecContext(ctx, query, id)
	if err != nil {
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		return repository.ErrConflict
	}
	return nil
}

// Release marks a driver as available.
func (r *DriverRepository) Release(ctx context.Context, id int64) error {
	query := `UPDATE drivers SET active = false, updated_at = NOW() WHERE id = $1`

	result, err := r.q.ExecContext(ctx, query, id)
	if err != nil {
		return err
	}
	return expectOneRow(result)
}

// Count returns the number of drivers.
func (r *DriverRepository) Count(ctx context.Context) (int, error) {
	var n int
	err := r.q.QueryRowContext(ctx, `SELECT COUNT(*) FROM drivers`).Scan(&n)
	return n, err
}

// CountAvailable returns the number of available drivers.
func (r *DriverRepository) CountAvailable(ctx context.Context) (int, error) {
	var n int
	err := r.q.QueryRowContext(ctx, `SELECT COUNT(*) FROM drivers WHERE active = false`).Scan(&n)
	return n, err
}

func (r *DriverRepository) list(ctx context.Context, query string, args ...any) ([]*domain.Driver, error) {
	rows, err := r.q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var drivers []*domain.Driver
	for rows.Next() {
		var driver domain.Driver
		if err := rows.Scan(&driver.ID, &driver.Name, &driver.VIN, &driver.Active); err != nil {
			return nil, err
		}
		drivers = append(drivers, &driver)
	}
	return drivers, rows.Err()
}

// Ensure DriverRepository implements repository.DriverRepository.
var _ repository.DriverRepository = (*DriverRepository)(nil)
