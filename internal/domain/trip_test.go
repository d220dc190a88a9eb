package domain

import (
	"errors"
	"testing"
	"time"
)

func TestTripPatch_ApplyOnlySuppliedFields(t *testing.T) {
	t.Parallel()

	trip := &Trip{ID: 1, Date: NewDate(2024, time.January, 1), Cost: 1300, DriverID: 2, PassengerID: 3}
	rating := 4
	cost := Money(900)

	patch := TripPatch{Rating: &rating, Cost: &cost}
	if err := patch.Validate(); err != nil {
		t.Fatalf("expected valid patch, got: %v", err)
	}
	patch.Apply(trip)

	if trip.Rating == nil || *trip.Rating != 4 || trip.Cost != 900 {
		t.Errorf("unexpected trip: %+v", trip)
	}
	if trip.DriverID != 2 || trip.PassengerID != 3 || trip.Date.String() != "2024-01-01" {
		t.Errorf("expected untouched fields to stay, got %+v", trip)
	}

	// The trip keeps its own copy of the rating.
	rating = 1
	if *trip.Rating != 4 {
		t.Errorf("expected rating 4, got %d", *trip.Rating)
	}
	if !trip.Completed() {
		t.Error("expected rated trip to be completed")
	}
}

func TestTripPatch_Validate(t *testing.T) {
	t.Parallel()

	zero, six := 0, 6
	negative := Money(-1)
	tooLarge := MaxMoney + 1
	badID := int64(0)
	var zeroDate Date

	for name, patch := range map[string]TripPatch{
		"rating":         {Rating: &zero},
		"rating high":    {Rating: &six},
		"cost":           {Cost: &negative},
		"cost too large": {Cost: &tooLarge},
		"driver_id":      {DriverID: &badID},
		"passenger_id":   {PassengerID: &badID},
		"date":           {Date: &zeroDate},
	} {
		var validationErr *ValidationError
		if err := patch.Validate(); !errors.As(err, &validationErr) {
			t.Errorf("%s: expected validation error, got: %v", name, err)
		}
	}

	largest := MaxMoney
	if err := (TripPatch{Cost: &largest}).Validate(); err != nil {
		t.Errorf("expected %s to be accepted, got: %v", MaxMoney, err)
	}
}

func TestDriverAndPassengerValidation(t *testing.T) {
	t.Parallel()

	if err := (&Driver{Name: "Bo", VIN: "V1"}).Validate(); err != nil {
		t.Errorf("expected valid driver, got: %v", err)
	}
	if err := (&Driver{Name: "Bo"}).Validate(); err == nil {
		t.Error("expected error for missing VIN")
	}
	if err := (&Passenger{Name: "Ada", PhoneNum: "555"}).Validate(); err != nil {
		t.Errorf("expected valid passenger, got: %v", err)
	}
	if err := (&Passenger{PhoneNum: "555"}).Validate(); err == nil {
		t.Error("expected error for missing name")
	}

	d := &Driver{Name: "Bo", VIN: "V1"}
	if !d.Available() {
		t.Error("expected inactive driver to be available")
	}
	active := true
	DriverPatch{Active: &active}.Apply(d)
	if d.Available() {
		t.Error("expected active driver to be unavailable")
	}
}
