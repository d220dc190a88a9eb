package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"rideshare/internal/domain"
	"rideshare/internal/repository"
	"rideshare/internal/service"
)

// rootPath is where show and edit pages send visitors for unknown records.
const rootPath = "/"

// ErrorResponse represents an error response.
type ErrorResponse struct {
	Error string `json:"error"`
}

// respondError sends an error response with the appropriate HTTP status code.
func respondError(c *gin.Context, err error) {
	code := mapErrorToHTTPStatus(err)
	if code == http.StatusInternalServerError {
		_ = c.Error(err)
		c.JSON(code, ErrorResponse{Error: "internal server error"})
		return
	}
	c.JSON(code, ErrorResponse{Error: err.Error()})
}

// respondJSON sends a JSON response with the given status code.
func respondJSON(c *gin.Context, code int, data any) {
	c.JSON(code, data)
}

// redirectOrError redirects to the root page for missing records and
// responds with an error otherwise. Used by show and edit pages.
func redirectOrError(c *gin.Context, err error) {
	if errors.Is(err, repository.ErrNotFound) {
		c.Redirect(http.StatusFound, rootPath)
		return
	}
	respondError(c, err)
}

// mapErrorToHTTPStatus maps service/repository errors to HTTP status codes.
func mapErrorToHTTPStatus(err error) int {
	var validationErr *domain.ValidationError

	switch {
	// Not found errors
	case errors.Is(err, repository.ErrNotFound),
		errors.Is(err, service.ErrNoDriverAvailable):
		return http.StatusNotFound

	// Validation errors - Bad Request
	case errors.As(err, &validationErr),
		errors.Is(err, domain.ErrInvalidMoney):
		return http.StatusBadRequest

	// Conflict errors
	case errors.Is(err, repository.ErrConflict),
		errors.Is(err, service.ErrDriverUnavailable),
		errors.Is(err, service.ErrTripAlreadyCompleted):
		return http.StatusConflict

	// Default to internal server error
	default:
		return http.StatusInternalServerError
	}
}

// paramID parses a numeric path parameter. Anything unparsable is treated
// the same as an ID that does not exist.
func paramID(c *gin.Context, name string) (int64, error) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil {
		return 0, repository.ErrNotFound
	}
	return id, nil
}

func tripPath(id int64) string {
	return "/trips/" + strconv.FormatInt(id, 10)
}

func driverPath(id int64) string {
	return "/drivers/" + strconv.FormatInt(id, 10)
}

func passengerPath(id int64) string {
	return "/passengers/" + strconv.FormatInt(id, 10)
}
