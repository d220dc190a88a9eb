package tests

import (
	"context"
	"errors"
	"testing"

	"rideshare/internal/domain"
	"rideshare/internal/repository"
	"rideshare/internal/service"
)

// ──────────────────────────────────────────────
// 1. DRIVERS
// ──────────────────────────────────────────────

func TestCreateDriver_StartsAvailable(t *testing.T) {
	t.Parallel()

	store := NewMockStore()
	svc := service.NewDriverService(store, nil)

	driver, err := svc.CreateDriver(context.Background(), service.CreateDriverRequest{Name: "Bo", VIN: "1HGCM82633A004352"})
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}
	if driver.ID == 0 {
		t.Error("expected driver ID to be set")
	}
	if driver.Active || !driver.Available() {
		t.Error("expected new driver to be available")
	}
}

func TestCreateDriver_MissingFields_Fails(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name string
		req  service.CreateDriverRequest
	}{
		{name: "blank name", req: service.CreateDriverRequest{Name: "  ", VIN: "V1"}},
		{name: "blank vin", req: service.CreateDriverRequest{Name: "Bo"}},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			store := NewMockStore()
			svc := service.NewDriverService(store, nil)

			_, err := svc.CreateDriver(context.Background(), tc.req)
			var validationErr *domain.ValidationError
			if !errors.As(err, &validationErr) {
				t.Errorf("expected validation error, got: %v", err)
			}
			if n, _ := store.Drivers().Count(context.Background()); n != 0 {
				t.Errorf("expected no drivers, got %d", n)
			}
		})
	}
}

func TestUpdateDriver_PartialAndInvalid(t *testing.T) {
	t.Parallel()

	store := NewMockStore()
	driver := seedDriver(store, "Bo", false)
	svc := service.NewDriverService(store, nil)

	updated, err := svc.UpdateDriver(context.Background(), driver.ID, domain.DriverPatch{Name: stringPtr("Bob")})
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}
	if updated.Name != "Bob" || updated.VIN != driver.VIN {
		t.Errorf("unexpected driver after update: %+v", updated)
	}

	_, err = svc.UpdateDriver(context.Background(), driver.ID, domain.DriverPatch{VIN: stringPtr("")})
	var validationErr *domain.ValidationError
	if !errors.As(err, &validationErr) {
		t.Fatalf("expected validation error, got: %v", err)
	}
	if got := store.MockDrivers().GetDriver(driver.ID).VIN; got != driver.VIN {
		t.Errorf("expected VIN to be unchanged, got %q", got)
	}

	if _, err := svc.UpdateDriver(context.Background(), -1, domain.DriverPatch{}); !errors.Is(err, repository.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got: %v", err)
	}
}

func TestDeleteDriver_ReferencedByTrip_Conflicts(t *testing.T) {
	t.Parallel()

	store := NewMockStore()
	busy := seedDriver(store, "busy", true)
	idle := seedDriver(store, "idle", false)
	passenger := seedPassenger(store, "p")
	seedTrip(store, busy.ID, passenger.ID, domain.Cents(1300), nil)
	svc := service.NewDriverService(store, nil)

	if err := svc.DeleteDriver(context.Background(), busy.ID); !errors.Is(err, repository.ErrConflict) {
		t.Errorf("expected ErrConflict, got: %v", err)
	}
	if err := svc.DeleteDriver(context.Background(), idle.ID); err != nil {
		t.Errorf("expected no error, got: %v", err)
	}
	if err := svc.DeleteDriver(context.Background(), idle.ID); !errors.Is(err, repository.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got: %v", err)
	}
}

func TestGetDriverDetail_TotalsTrips(t *testing.T) {
	t.Parallel()

	store := NewMockStore()
	driver := seedDriver(store, "d", true)
	passenger := seedPassenger(store, "p")
	seedTrip(store, driver.ID, passenger.ID, domain.Cents(1300), intPtr(4))
	seedTrip(store, driver.ID, passenger.ID, domain.Cents(1050), intPtr(5))
	seedTrip(store, driver.ID, passenger.ID, domain.Cents(700), nil)
	svc := service.NewDriverService(store, nil)

	detail, err := svc.GetDriverDetail(context.Background(), driver.ID)
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}
	if detail.Totals.Count != 3 || len(detail.Trips) != 3 {
		t.Errorf("expected 3 trips, got %d", detail.Totals.Count)
	}
	if got := detail.Totals.TotalCost.String(); got != "30.50" {
		t.Errorf("expected total 30.50, got %s", got)
	}
	if detail.Totals.AverageRating == nil || *detail.Totals.AverageRating != 4.5 {
		t.Errorf("expected average rating 4.5, got %v", detail.Totals.AverageRating)
	}
}

// ──────────────────────────────────────────────
// 2. PASSENGERS
// ──────────────────────────────────────────────

func TestPassengerLifecycle(t *testing.T) {
	t.Parallel()

	store := NewMockStore()
	svc := service.NewPassengerService(store, nil)
	ctx := context.Background()

	passenger, err := svc.CreatePassenger(ctx, service.CreatePassengerRequest{Name: "Ada", PhoneNum: "555-0199"})
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}

	if _, err := svc.CreatePassenger(ctx, service.CreatePassengerRequest{Name: "NoPhone"}); err == nil {
		t.Error("expected error for missing phone number, got nil")
	}

	updated, err := svc.UpdatePassenger(ctx, passenger.ID, domain.PassengerPatch{PhoneNum: stringPtr("555-0000")})
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}
	if updated.PhoneNum != "555-0000" || updated.Name != "Ada" {
		t.Errorf("unexpected passenger after update: %+v", updated)
	}

	all, err := svc.ListPassengers(ctx)
	if err != nil || len(all) != 1 {
		t.Fatalf("expected 1 passenger, got %d (err %v)", len(all), err)
	}

	detail, err := svc.GetPassengerDetail(ctx, passenger.ID)
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}
	if detail.Totals.Count != 0 || detail.Totals.AverageRating != nil {
		t.Errorf("expected empty totals, got %+v", detail.Totals)
	}

	if err := svc.DeletePassenger(ctx, passenger.ID); err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}
	if _, err := svc.GetPassenger(ctx, passenger.ID); !errors.Is(err, repository.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got: %v", err)
	}
}

func TestDeletePassenger_WithTrips_Conflicts(t *testing.T) {
	t.Parallel()

	store := NewMockStore()
	driver := seedDriver(store, "d", true)
	passenger := seedPassenger(store, "p")
	seedTrip(store, driver.ID, passenger.ID, domain.Cents(1300), nil)
	svc := service.NewPassengerService(store, nil)

	if err := svc.DeletePassenger(context.Background(), passenger.ID); !errors.Is(err, repository.ErrConflict) {
		t.Errorf("expected ErrConflict, got: %v", err)
	}
}

// ──────────────────────────────────────────────
// 3. HOME
// ──────────────────────────────────────────────

func TestOverview_CountsEntities(t *testing.T) {
	t.Parallel()

	store := NewMockStore()
	busy := seedDriver(store, "busy", true)
	seedDriver(store, "idle-1", false)
	seedDriver(store, "idle-2", false)
	passenger := seedPassenger(store, "p")
	seedTrip(store, busy.ID, passenger.ID, domain.Cents(1300), nil)

	o, err := service.NewHomeService(store).Overview(context.Background())
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}
	want := service.Overview{Drivers: 3, AvailableDrivers: 2, Passengers: 1, Trips: 1}
	if *o != want {
		t.Errorf("expected %+v, got %+v", want, *o)
	}
}
