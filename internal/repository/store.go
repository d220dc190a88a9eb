package repository

import "context"

// Store groups the entity repositories behind one transactional boundary.
type Store interface {
	Drivers() DriverRepository
	Passengers() PassengerRepository
	Trips() TripRepository

	// WithTx runs fn inside a transaction. The Store passed to fn is bound to
	// that transaction; it is committed when fn returns nil and rolled back
	// otherwise. Calling WithTx on a transaction-bound Store reuses it.
	WithTx(ctx context.Context, fn func(tx Store) error) error
}
