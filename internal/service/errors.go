package service

import "errors"

var (
	// ErrNoDriverAvailable is returned when no driver can be assigned to a new trip.
	ErrNoDriverAvailable = errors.New("no driver available")

	// ErrDriverUnavailable is returned when the selected driver was claimed by a
	// concurrent allocation before this one committed.
	ErrDriverUnavailable = errors.New("driver no longer available")

	// ErrTripAlreadyCompleted is returned when completing a trip that already has a rating.
	ErrTripAlreadyCompleted = errors.New("trip already completed")
)
