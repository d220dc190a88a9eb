package pricing_test

import (
	"errors"
	"testing"

	"github.com/smartystreets/goconvey/convey"

	"rideshare/internal/domain"
	"rideshare/internal/pricing"
)

func TestFlatFare(t *testing.T) {
	convey.Convey("Given the default flat fare", t, func() {
		calc := pricing.NewFlatFare(pricing.DefaultBaseFare)
		params := pricing.TripParams{
			Date:        domain.NewDate(2024, 3, 14),
			PassengerID: 7,
			DriverID:    3,
		}

		convey.Convey("When a trip is priced", func() {
			cost, err := calc.Compute(params)

			convey.Convey("Then it costs 13.00", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cost, convey.ShouldEqual, domain.Cents(1300))
				convey.So(cost.String(), convey.ShouldEqual, "13.00")
			})
		})

		convey.Convey("When the same trip is priced twice", func() {
			first, _ := calc.Compute(params)
			second, _ := calc.Compute(params)

			convey.Convey("Then the result is deterministic", func() {
				convey.So(second, convey.ShouldEqual, first)
			})
		})
	})

	convey.Convey("Given a negative base fare", t, func() {
		calc := pricing.NewFlatFare(domain.Cents(-500))

		convey.Convey("Then trips are free rather than negative", func() {
			cost, err := calc.Compute(pricing.TripParams{})
			convey.So(err, convey.ShouldBeNil)
			convey.So(cost, convey.ShouldEqual, domain.Cents(0))
		})
	})
}

func TestNonNegative(t *testing.T) {
	convey.Convey("Given a strategy that can go negative", t, func() {
		refund := pricing.Func(func(pricing.TripParams) (domain.Money, error) {
			return domain.Cents(-250), nil
		})

		convey.Convey("Then NonNegative clamps it at zero", func() {
			cost, err := pricing.NonNegative(refund).Compute(pricing.TripParams{})
			convey.So(err, convey.ShouldBeNil)
			convey.So(cost, convey.ShouldEqual, domain.Cents(0))
		})
	})

	convey.Convey("Given a strategy that fails", t, func() {
		boom := errors.New("tariff unavailable")
		failing := pricing.Func(func(pricing.TripParams) (domain.Money, error) {
			return 0, boom
		})

		convey.Convey("Then the error is passed through", func() {
			_, err := pricing.NonNegative(failing).Compute(pricing.TripParams{})
			convey.So(err, convey.ShouldEqual, boom)
		})
	})
}
