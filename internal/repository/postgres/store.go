package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"rideshare/internal/repository"
)

// Querier is the subset of *sql.DB and *sql.Tx the repositories run queries on.
type Querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}

var (
	_ Querier = (*sql.DB)(nil)
	_ Querier = (*sql.Tx)(nil)
)

// Store is a PostgreSQL implementation of repository.Store.
type Store struct {
	db         *sql.DB
	tx         *sql.Tx
	drivers    *DriverRepository
	passengers *PassengerRepository
	trips      *TripRepository
}

// NewStore creates a Store backed by db.
func NewStore(db *sql.DB) *Store {
	return &Store{
		db:         db,
		drivers:    NewDriverRepository(db),
		passengers: NewPassengerRepository(db),
		trips:      NewTripRepository(db),
	}
}

func newTxStore(db *sql.DB, tx *sql.Tx) *Store {
	return &Store{
		db:         db,
		tx:         tx,
		drivers:    NewDriverRepositoryWithTx(tx),
		passengers: NewPassengerRepositoryWithTx(tx),
		trips:      NewTripRepositoryWithTx(tx),
	}
}

func (s *Store) Drivers() repository.DriverRepository       { return s.drivers }
func (s *Store) Passengers() repository.PassengerRepository { return s.passengers }
func (s *Store) Trips() repository.TripRepository           { return s.trips }

// WithTx runs fn in a transaction, committing on success.
func (s *Store) WithTx(ctx context.Context, fn func(tx repository.Store) error) (err error) {
	if s.tx != nil {
		return fn(s)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if err = fn(newTxStore(s.db, tx)); err != nil {
		return err
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

var _ repository.Store = (*Store)(nil)
