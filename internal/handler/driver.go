package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"rideshare/internal/domain"
	"rideshare/internal/service"
)

// DriverHandler handles HTTP requests for drivers.
type DriverHandler struct {
	driverService *service.DriverService
}

// NewDriverHandler creates a new DriverHandler.
func NewDriverHandler(driverService *service.DriverService) *DriverHandler {
	return &DriverHandler{driverService: driverService}
}

// DriverRequest is the request body for creating or updating a driver.
// On update, omitted fields are left unchanged.
type DriverRequest struct {
	Name   *string `json:"name" form:"name"`
	VIN    *string `json:"vin" form:"vin"`
	Active *bool   `json:"active" form:"active"`
}

// DriverResponse is the HTTP response for driver data.
type DriverResponse struct {
	ID     int64  `json:"id"`
	Name   string `json:"name"`
	VIN    string `json:"vin"`
	Active bool   `json:"active"`
}

// DriverDetailResponse is a driver with trip history and totals.
type DriverDetailResponse struct {
	DriverResponse
	Trips  []TripResponse `json:"trips"`
	Totals TotalsResponse `json:"totals"`
}

// TotalsResponse summarises a list of trips.
type TotalsResponse struct {
	TripCount     int          `json:"trip_count"`
	TotalCost     domain.Money `json:"total_cost"`
	AverageRating *float64     `json:"average_rating"`
}

// Index handles GET /drivers
func (h *DriverHandler) Index(c *gin.Context) {
	drivers, err := h.driverService.ListDrivers(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	respondJSON(c, http.StatusOK, toDriverResponses(drivers))
}

// New handles GET /drivers/new
func (h *DriverHandler) New(c *gin.Context) {
	respondJSON(c, http.StatusOK, DriverResponse{})
}

// Create handles POST /drivers
func (h *DriverHandler) Create(c *gin.Context) {
	var req DriverRequest
	if err := c.ShouldBind(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	driver, err := h.driverService.CreateDriver(c.Request.Context(), service.CreateDriverRequest{
		Name: deref(req.Name),
		VIN:  deref(req.VIN),
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.Redirect(http.StatusFound, driverPath(driver.ID))
}

// Show handles GET /drivers/:id
func (h *DriverHandler) Show(c *gin.Context) {
	driverID, err := paramID(c, "id")
	if err != nil {
		redirectOrError(c, err)
		return
	}

	detail, err := h.driverService.GetDriverDetail(c.Request.Context(), driverID)
	if err != nil {
		redirectOrError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, DriverDetailResponse{
		DriverResponse: toDriverResponse(detail.Driver),
		Trips:          toTripResponses(detail.Trips),
		Totals:         toTotalsResponse(detail.Totals),
	})
}

// Edit handles GET /drivers/:id/edit
func (h *DriverHandler) Edit(c *gin.Context) {
	driverID, err := paramID(c, "id")
	if err != nil {
		redirectOrError(c, err)
		return
	}

	driver, err := h.driverService.GetDriver(c.Request.Context(), driverID)
	if err != nil {
		redirectOrError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, toDriverResponse(driver))
}

// Update handles PATCH /drivers/:id
func (h *DriverHandler) Update(c *gin.Context) {
	driverID, err := paramID(c, "id")
	if err != nil {
		respondError(c, err)
		return
	}

	var req DriverRequest
	if err := c.ShouldBind(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	driver, err := h.driverService.UpdateDriver(c.Request.Context(), driverID, domain.DriverPatch{
		Name:   req.Name,
		VIN:    req.VIN,
		Active: req.Active,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.Redirect(http.StatusFound, driverPath(driver.ID))
}

// Destroy handles DELETE /drivers/:id
func (h *DriverHandler) Destroy(c *gin.Context) {
	driverID, err := paramID(c, "id")
	if err != nil {
		respondError(c, err)
		return
	}

	if err := h.driverService.DeleteDriver(c.Request.Context(), driverID); err != nil {
		respondError(c, err)
		return
	}

	c.Redirect(http.StatusFound, "/drivers")
}

func toDriverResponse(driver *domain.Driver) DriverResponse {
	return DriverResponse{
		ID:     driver.ID,
		Name:   driver.Name,
		VIN:    driver.VIN,
		Active: driver.Active,
	}
}

func toDriverResponses(drivers []*domain.Driver) []DriverResponse {
	response := make([]DriverResponse, 0, len(drivers))
	for _, driver := range drivers {
		response = append(response, toDriverResponse(driver))
	}
	return response
}

func toTotalsResponse(totals service.TripTotals) TotalsResponse {
	return TotalsResponse{
		TripCount:     totals.Count,
		TotalCost:     totals.TotalCost,
		AverageRating: totals.AverageRating,
	}
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
