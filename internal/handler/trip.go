package handler

import (
	"bytes"
	"encoding/json"
	"net/http"

	"github.com/gin-gonic/gin"

	"rideshare/internal/dispatch"
	"rideshare/internal/ledger"
	"rideshare/internal/service"
)

// TripHandler handles HTTP requests for trips.
type TripHandler struct {
	tripService *service.TripService
	dispatcher  *dispatch.Dispatcher
}

// NewTripHandler creates a new TripHandler.
func NewTripHandler(tripService *service.TripService, dispatcher *dispatch.Dispatcher) *TripHandler {
	return &TripHandler{
		tripService: tripService,
		dispatcher:  dispatcher,
	}
}

// RequestTripRequest is the HTTP request body for requesting a trip.
// PassengerID accepts either a JSON number or a numeric string.
type RequestTripRequest struct {
	PassengerID json.RawMessage `json:"passenger_id"`
}

// RequestTrip handles POST /v1/trips
func (h *TripHandler) RequestTrip(c *gin.Context) {
	var req RequestTripRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	if len(req.PassengerID) == 0 {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "passenger_id is required"})
		return
	}

	passengerID, err := parsePassengerID(req.PassengerID)
	if err != nil {
		respondError(c, err)
		return
	}

	trip, err := h.tripService.RequestTrip(c.Request.Context(), passengerID)
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusCreated, newTripResponse(trip))
}

// parsePassengerID accepts a JSON number or a JSON string holding one.
func parsePassengerID(raw json.RawMessage) (int, error) {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()

	var v any
	if err := dec.Decode(&v); err != nil {
		return 0, ledger.ErrInvalidID
	}

	switch id := v.(type) {
	case json.Number:
		return ledger.ParseID(id.String())
	case string:
		return ledger.ParseID(id)
	default:
		return 0, ledger.ErrInvalidID
	}
}

// GetTrip handles GET /v1/trips/:id
func (h *TripHandler) GetTrip(c *gin.Context) {
	id, err := ledger.ParseID(c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	trip, err := h.dispatcher.FindTrip(id)
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, newTripResponse(trip))
}

// GetAll handles GET /v1/trips
func (h *TripHandler) GetAll(c *gin.Context) {
	c.JSON(http.StatusOK, newTripResponses(h.dispatcher.Trips()))
}
