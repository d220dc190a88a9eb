package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"rideshare/internal/domain"
	"rideshare/internal/service"
)

// PassengerHandler handles HTTP requests for passengers.
type PassengerHandler struct {
	passengerService *service.PassengerService
}

// NewPassengerHandler creates a new PassengerHandler.
func NewPassengerHandler(passengerService *service.PassengerService) *PassengerHandler {
	return &PassengerHandler{passengerService: passengerService}
}

// PassengerRequest is the request body for creating or updating a passenger.
type PassengerRequest struct {
	Name     *string `json:"name" form:"name"`
	PhoneNum *string `json:"phone_num" form:"phone_num"`
}

// PassengerResponse is the HTTP response for passenger data.
type PassengerResponse struct {
	ID       int64  `json:"id"`
	Name     string `json:"name"`
	PhoneNum string `json:"phone_num"`
}

// PassengerDetailResponse is a passenger with trip history and totals.
type PassengerDetailResponse struct {
	PassengerResponse
	Trips  []TripResponse `json:"trips"`
	Totals TotalsResponse `json:"totals"`
}

// Index handles GET /passengers
func (h *PassengerHandler) Index(c *gin.Context) {
	passengers, err := h.passengerService.ListPassengers(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	respondJSON(c, http.StatusOK, toPassengerResponses(passengers))
}

// New handles GET /passengers/new
func (h *PassengerHandler) New(c *gin.Context) {
	respondJSON(c, http.StatusOK, PassengerResponse{})
}

// Create handles POST /passengers
func (h *PassengerHandler) Create(c *gin.Context) {
	var req PassengerRequest
	if err := c.ShouldBind(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	passenger, err := h.passengerService.CreatePassenger(c.Request.Context(), service.CreatePassengerRequest{
		Name:     deref(req.Name),
		PhoneNum: deref(req.PhoneNum),
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.Redirect(http.StatusFound, passengerPath(passenger.ID))
}

// Show handles GET /passengers/:id
func (h *PassengerHandler) Show(c *gin.Context) {
	passengerID, err := paramID(c, "id")
	if err != nil {
		redirectOrError(c, err)
		return
	}

	detail, err := h.passengerService.GetPassengerDetail(c.Request.Context(), passengerID)
	if err != nil {
		redirectOrError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, PassengerDetailResponse{
		PassengerResponse: toPassengerResponse(detail.Passenger),
		Trips:             toTripResponses(detail.Trips),
		Totals:            toTotalsResponse(detail.Totals),
	})
}

// Edit handles GET /passengers/:id/edit
func (h *PassengerHandler) Edit(c *gin.Context) {
	passengerID, err := paramID(c, "id")
	if err != nil {
		redirectOrError(c, err)
		return
	}

	passenger, err := h.passengerService.GetPassenger(c.Request.Context(), passengerID)
	if err != nil {
		redirectOrError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, toPassengerResponse(passenger))
}

// Update handles PATCH /passengers/:id
func (h *PassengerHandler) Update(c *gin.Context) {
	passengerID, err := paramID(c, "id")
	if err != nil {
		respondError(c, err)
		return
	}

	var req PassengerRequest
	if err := c.ShouldBind(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	passenger, err := h.passengerService.UpdatePassenger(c.Request.Context(), passengerID, domain.PassengerPatch{
		Name:     req.Name,
		PhoneNum: req.PhoneNum,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.Redirect(http.StatusFound, passengerPath(passenger.ID))
}

// Destroy handles DELETE /passengers/:id
func (h *PassengerHandler) Destroy(c *gin.Context) {
	passengerID, err := paramID(c, "id")
	if err != nil {
		respondError(c, err)
		return
	}

	if err := h.passengerService.DeletePassenger(c.Request.Context(), passengerID); err != nil {
		respondError(c, err)
		return
	}

	c.Redirect(http.StatusFound, "/passengers")
}

func toPassengerResponse(passenger *domain.Passenger) PassengerResponse {
	return PassengerResponse{
		ID:       passenger.ID,
		Name:     passenger.Name,
		PhoneNum: passenger.PhoneNum,
	}
}

func toPassengerResponses(passengers []*domain.Passenger) []PassengerResponse {
	response := make([]PassengerResponse, 0, len(passengers))
	for _, passenger := range passengers {
		response = append(response, toPassengerResponse(passenger))
	}
	return response
}
