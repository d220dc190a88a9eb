package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"rideshare/internal/service"
)

// HomeHandler serves the landing page summary.
type HomeHandler struct {
	homeService *service.HomeService
}

// NewHomeHandler creates a new HomeHandler.
func NewHomeHandler(homeService *service.HomeService) *HomeHandler {
	return &HomeHandler{homeService: homeService}
}

// OverviewResponse is the HTTP response for GET /.
type OverviewResponse struct {
	Drivers          int `json:"drivers"`
	AvailableDrivers int `json:"available_drivers"`
	Passengers       int `json:"passengers"`
	Trips            int `json:"trips"`
}

// Index handles GET /
func (h *HomeHandler) Index(c *gin.Context) {
	o, err := h.homeService.Overview(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, OverviewResponse{
		Drivers:          o.Drivers,
		AvailableDrivers: o.AvailableDrivers,
		Passengers:       o.Passengers,
		Trips:            o.Trips,
	})
}
