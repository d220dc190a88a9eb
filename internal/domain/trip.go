package domain

const (
	MinRating = 1
	MaxRating = 5
)

// Trip represents one ride linking a driver and a passenger.
// Rating stays nil until the trip is completed.
type Trip struct {
	ID          int64
	Date        Date
	Rating      *int
	Cost        Money
	DriverID    int64
	PassengerID int64
}

// Completed reports whether the trip has been rated.
func (t *Trip) Completed() bool {
	return t.Rating != nil
}

// TripPatch is a partial update to a trip. Nil fields are left untouched.
type TripPatch struct {
	Date        *Date
	Rating      *int
	Cost        *Money
	DriverID    *int64
	PassengerID *int64
}

// Validate checks the supplied fields.
func (p TripPatch) Validate() error {
	if p.Date != nil && p.Date.IsZero() {
		return &ValidationError{Field: "date", Reason: "must be a calendar date"}
	}
	if p.Rating != nil {
		if err := ValidateRating(*p.Rating); err != nil {
			return err
		}
	}
	if p.Cost != nil {
		if err := ValidateCost(*p.Cost); err != nil {
			return err
		}
	}
	if p.DriverID != nil && *p.DriverID <= 0 {
		return &ValidationError{Field: "driver_id", Reason: "must reference a driver"}
	}
	if p.PassengerID != nil && *p.PassengerID <= 0 {
		return &ValidationError{Field: "passenger_id", Reason: "must reference a passenger"}
	}
	return nil
}

// Apply copies the supplied fields onto t.
func (p TripPatch) Apply(t *Trip) {
	if p.Date != nil {
		t.Date = *p.Date
	}
	if p.Rating != nil {
		rating := *p.Rating
		t.Rating = &rating
	}
	if p.Cost != nil {
		t.Cost = *p.Cost
	}
	if p.DriverID != nil {
		t.DriverID = *p.DriverID
	}
	if p.PassengerID != nil {
		t.PassengerID = *p.PassengerID
	}
}

// ValidateCost checks that cost is within 0..MaxMoney.
func ValidateCost(cost Money) error {
	if cost.IsNegative() {
		return &ValidationError{Field: "cost", Reason: "must not be negative"}
	}
	if cost > MaxMoney {
		return &ValidationError{Field: "cost", Reason: "must not exceed " + MaxMoney.String()}
	}
	return nil
}

// ValidateRating checks that rating is within MinRating..MaxRating.
func ValidateRating(rating int) error {
	if rating < MinRating || rating > MaxRating {
		return &ValidationError{Field: "rating", Reason: "must be between 1 and 5"}
	}
	return nil
}
