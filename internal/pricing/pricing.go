// Package pricing computes trip costs.
//
// A Calculator is a pure function of the trip parameters known at creation
// time. The default strategy charges a flat base fare; any other strategy can
// be plugged into the allocation service through the Calculator interface.
package pricing

import (
	"rideshare/internal/domain"
)

// DefaultBaseFare is the flat fare charged per trip: 13.00.
const DefaultBaseFare = domain.Money(1300)

// TripParams holds the inputs available when a trip is priced.
type TripParams struct {
	Date        domain.Date
	PassengerID int64
	DriverID    int64
	Rating      *int
}

// Calculator maps trip parameters to a cost.
type Calculator interface {
	Compute(params TripParams) (domain.Money, error)
}

// Func adapts a plain function to a Calculator.
type Func func(params TripParams) (domain.Money, error)

// Compute calls f.
func (f Func) Compute(params TripParams) (domain.Money, error) {
	return f(params)
}

// FlatFare charges the same amount for every trip.
type FlatFare struct {
	Base domain.Money
}

// NewFlatFare returns a FlatFare charging base. A negative base charges zero.
func NewFlatFare(base domain.Money) FlatFare {
	if base.IsNegative() {
		base = 0
	}
	return FlatFare{Base: base}
}

// Compute returns the base fare.
func (f FlatFare) Compute(TripParams) (domain.Money, error) {
	return f.Base, nil
}

// NonNegative clamps the result of c at zero.
func NonNegative(c Calculator) Calculator {
	return Func(func(params TripParams) (domain.Money, error) {
		cost, err := c.Compute(params)
		if err != nil {
			return 0, err
		}
		if cost.IsNegative() {
			return 0, nil
		}
		return cost, nil
	})
}
