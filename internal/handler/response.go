package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"rideshare/internal/dispatch"
	"rideshare/internal/domain"
	"rideshare/internal/ledger"
	"rideshare/internal/service"
)

const timeFormat = time.RFC3339

// ErrorResponse represents an error response.
type ErrorResponse struct {
	Error string `json:"error"`
}

// respondError sends an error response with the appropriate HTTP status code.
func respondError(c *gin.Context, err error) {
	code := mapErrorToHTTPStatus(err)
	if code == http.StatusInternalServerError {
		_ = c.Error(err)
	}
	c.JSON(code, ErrorResponse{Error: err.Error()})
}

// respondJSON sends a JSON response with the given status code.
func respondJSON(c *gin.Context, code int, data any) {
	c.JSON(code, data)
}

// mapErrorToHTTPStatus maps ledger/dispatch/service errors to HTTP status codes.
func mapErrorToHTTPStatus(err error) int {
	switch {
	// Not found errors
	case errors.Is(err, ledger.ErrNotFound):
		return http.StatusNotFound

	// Validation errors - Bad Request
	case errors.Is(err, ledger.ErrInvalidID),
		errors.Is(err, domain.ErrInvalidDriverStatus):
		return http.StatusBadRequest

	// Conflict errors
	case errors.Is(err, service.ErrDispatchBusy),
		errors.Is(err, ledger.ErrDuplicateID):
		return http.StatusConflict

	// Service unavailable
	case errors.Is(err, dispatch.ErrNoDriverAvailable):
		return http.StatusServiceUnavailable

	// Default to internal server error
	default:
		return http.StatusInternalServerError
	}
}

// TripResponse is the HTTP response for trip data.
type TripResponse struct {
	ID          int      `json:"id"`
	DriverID    int      `json:"driver_id"`
	PassengerID int      `json:"passenger_id"`
	StartTime   string   `json:"start_time"`
	EndTime     string   `json:"end_time,omitempty"`
	Cost        *float64 `json:"cost,omitempty"`
	Rating      *int     `json:"rating,omitempty"`
	InProgress  bool     `json:"in_progress"`
}

func newTripResponse(trip *domain.Trip) TripResponse {
	resp := TripResponse{
		ID:          trip.ID,
		DriverID:    trip.DriverID,
		PassengerID: trip.PassengerID,
		StartTime:   trip.StartTime.Format(timeFormat),
		Cost:        trip.Cost,
		Rating:      trip.Rating,
		InProgress:  trip.InProgress(),
	}
	if trip.EndTime != nil {
		resp.EndTime = trip.EndTime.Format(timeFormat)
	}
	return resp
}

func newTripResponses(trips []domain.Trip) []TripResponse {
	response := make([]TripResponse, 0, len(trips))
	for i := range trips {
		response = append(response, newTripResponse(&trips[i]))
	}
	return response
}
