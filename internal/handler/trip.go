package handler

import (
	"encoding/json"
	"net/http"

	"github.com/gin-gonic/gin"

	"rideshare/internal/domain"
	"rideshare/internal/service"
)

// TripHandler handles HTTP requests for trips.
type TripHandler struct {
	tripService       *service.TripService
	allocationService *service.AllocationService
	driverService     *service.DriverService
	passengerService  *service.PassengerService
}

// NewTripHandler creates a new TripHandler.
func NewTripHandler(
	tripService *service.TripService,
	allocationService *service.AllocationService,
	driverService *service.DriverService,
	passengerService *service.PassengerService,
) *TripHandler {
	return &TripHandler{
		tripService:       tripService,
		allocationService: allocationService,
		driverService:     driverService,
		passengerService:  passengerService,
	}
}

// TripResponse is the HTTP response for trip data.
type TripResponse struct {
	ID          int64        `json:"id"`
	Date        domain.Date  `json:"date"`
	Rating      *int         `json:"rating"`
	Cost        domain.Money `json:"cost"`
	DriverID    int64        `json:"driver_id"`
	PassengerID int64        `json:"passenger_id"`
}

// TripDetailResponse is a trip with its driver and passenger.
type TripDetailResponse struct {
	TripResponse
	Driver    DriverResponse    `json:"driver"`
	Passenger PassengerResponse `json:"passenger"`
}

// TripEditResponse carries the trip and the choices for reassigning it.
type TripEditResponse struct {
	Trip       TripResponse        `json:"trip"`
	Drivers    []DriverResponse    `json:"drivers"`
	Passengers []PassengerResponse `json:"passengers"`
}

// UpdateTripRequest is the request body for PATCH /trips/:id.
// Omitted fields are left unchanged.
type UpdateTripRequest struct {
	Date        *string      `json:"date" form:"date"`
	Rating      *int         `json:"rating" form:"rating"`
	Cost        *json.Number `json:"cost" form:"cost"`
	DriverID    *int64       `json:"driver_id" form:"driver_id"`
	PassengerID *int64       `json:"passenger_id" form:"passenger_id"`
}

// CompleteTripRequest is the request body for POST /trips/:id/complete.
type CompleteTripRequest struct {
	Rating int `json:"rating" form:"rating"`
}

// Show handles GET /trips/:id
func (h *TripHandler) Show(c *gin.Context) {
	tripID, err := paramID(c, "id")
	if err != nil {
		redirectOrError(c, err)
		return
	}

	detail, err := h.tripService.GetTripDetail(c.Request.Context(), tripID)
	if err != nil {
		redirectOrError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, TripDetailResponse{
		TripResponse: toTripResponse(detail.Trip),
		Driver:       toDriverResponse(detail.Driver),
		Passenger:    toPassengerResponse(detail.Passenger),
	})
}

// Edit handles GET /trips/:id/edit
func (h *TripHandler) Edit(c *gin.Context) {
	tripID, err := paramID(c, "id")
	if err != nil {
		redirectOrError(c, err)
		return
	}

	ctx := c.Request.Context()
	trip, err := h.tripService.GetTrip(ctx, tripID)
	if err != nil {
		redirectOrError(c, err)
		return
	}

	drivers, err := h.driverService.ListDrivers(ctx)
	if err != nil {
		respondError(c, err)
		return
	}
	passengers, err := h.passengerService.ListPassengers(ctx)
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, TripEditResponse{
		Trip:       toTripResponse(trip),
		Drivers:    toDriverResponses(drivers),
		Passengers: toPassengerResponses(passengers),
	})
}

// Create handles POST /passengers/:id/trips
func (h *TripHandler) Create(c *gin.Context) {
	passengerID, err := paramID(c, "id")
	if err != nil {
		respondError(c, err)
		return
	}

	trip, err := h.allocationService.CreateTrip(c.Request.Context(), passengerID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.Redirect(http.StatusFound, tripPath(trip.ID))
}

// Update handles PATCH /trips/:id
func (h *TripHandler) Update(c *gin.Context) {
	tripID, err := paramID(c, "id")
	if err != nil {
		respondError(c, err)
		return
	}

	// A missing trip is reported before a malformed body.
	var req UpdateTripRequest
	if err := c.ShouldBind(&req); err != nil {
		if h.respondIfTripMissing(c, tripID) {
			return
		}
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	patch, err := req.toPatch()
	if err != nil {
		if h.respondIfTripMissing(c, tripID) {
			return
		}
		respondError(c, err)
		return
	}

	trip, err := h.tripService.UpdateTrip(c.Request.Context(), tripID, patch)
	if err != nil {
		respondError(c, err)
		return
	}

	c.Redirect(http.StatusFound, tripPath(trip.ID))
}

// respondIfTripMissing writes the lookup error and returns true when the trip
// cannot be loaded.
func (h *TripHandler) respondIfTripMissing(c *gin.Context, tripID int64) bool {
	if _, err := h.tripService.GetTrip(c.Request.Context(), tripID); err != nil {
		respondError(c, err)
		return true
	}
	return false
}

// Destroy handles DELETE /trips/:id
func (h *TripHandler) Destroy(c *gin.Context) {
	tripID, err := paramID(c, "id")
	if err != nil {
		respondError(c, err)
		return
	}

	trip, err := h.tripService.DeleteTrip(c.Request.Context(), tripID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.Redirect(http.StatusFound, passengerPath(trip.PassengerID))
}

// Complete handles POST /trips/:id/complete
func (h *TripHandler) Complete(c *gin.Context) {
	tripID, err := paramID(c, "id")
	if err != nil {
		respondError(c, err)
		return
	}

	var req CompleteTripRequest
	if err := c.ShouldBind(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	trip, err := h.tripService.CompleteTrip(c.Request.Context(), tripID, req.Rating)
	if err != nil {
		respondError(c, err)
		return
	}

	c.Redirect(http.StatusFound, tripPath(trip.ID))
}

func (r UpdateTripRequest) toPatch() (domain.TripPatch, error) {
	patch := domain.TripPatch{
		Rating:      r.Rating,
		DriverID:    r.DriverID,
		PassengerID: r.PassengerID,
	}

	if r.Date != nil {
		date, err := domain.ParseDate(*r.Date)
		if err != nil {
			return domain.TripPatch{}, err
		}
		patch.Date = &date
	}

	if r.Cost != nil {
		cost, err := domain.ParseMoney(r.Cost.String())
		if err != nil {
			return domain.TripPatch{}, &domain.ValidationError{Field: "cost", Reason: "must be an amount with at most two decimals"}
		}
		patch.Cost = &cost
	}

	return patch, nil
}

func toTripResponse(trip *domain.Trip) TripResponse {
	return TripResponse{
		ID:          trip.ID,
		Date:        trip.Date,
		Rating:      trip.Rating,
		Cost:        trip.Cost,
		DriverID:    trip.DriverID,
		PassengerID: trip.PassengerID,
	}
}

func toTripResponses(trips []*domain.Trip) []TripResponse {
	response := make([]TripResponse, 0, len(trips))
	for _, trip := range trips {
		response = append(response, toTripResponse(trip))
	}
	return response
}
